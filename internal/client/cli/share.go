package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/homecloud-app/homecloud/internal/client/api"
)

// Share creates a share link for one file, prompting for its lifetime,
// access budget and an optional password. Empty answers fall back to
// server defaults.
func (a *App) Share(ctx context.Context, name string) error {
	expireHours, err := a.promptInt("Expires in hours (empty for default)")
	if err != nil {
		return err
	}
	maxAccess, err := a.promptInt("Max downloads (empty for unlimited)")
	if err != nil {
		return err
	}
	pw, err := getPassword("Link password (empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	opts := api.ShareOptions{
		ExpireHours: expireHours,
		MaxAccess:   maxAccess,
		Password:    string(pw),
	}
	if cred := a.guard.Current(); cred != nil {
		opts.UserID, _ = cred.TokenClaims()
	}

	link, err := a.files.CreateShare(ctx, name, opts)
	if err != nil {
		a.log.Error(ctx, "share failed", "name", name, "error", err)
		fmt.Println("Could not create share link.")
		return err
	}

	fmt.Println("Share link:", link.ShareURL)
	if link.ExpiresAt != "" {
		fmt.Println("Expires at:", link.ExpiresAt)
	}
	return nil
}

// Shares lists the active share links.
func (a *App) Shares(ctx context.Context) error {
	links, err := a.files.ListShares(ctx)
	if err != nil {
		a.log.Error(ctx, "listing shares failed", "error", err)
		fmt.Println("Could not list share links.")
		return err
	}
	if len(links) == 0 {
		fmt.Println("No active share links.")
		return nil
	}
	for _, l := range links {
		protected := ""
		if l.IsProtected {
			protected = "  [password]"
		}
		limit := "∞"
		if l.MaxAccess > 0 {
			limit = strconv.Itoa(l.MaxAccess)
		}
		fmt.Printf("%-10s %-30s %d/%s downloads, expires %s%s\n",
			l.ID, l.Filename, l.AccessCount, limit, l.ExpiresAt, protected)
	}
	return nil
}

// Revoke deactivates a share link by id.
func (a *App) Revoke(ctx context.Context, shareID string) error {
	if err := a.files.RevokeShare(ctx, shareID); err != nil {
		a.log.Error(ctx, "revoking share failed", "id", shareID, "error", err)
		fmt.Println("Could not revoke share link.")
		return err
	}
	fmt.Println("Share link revoked.")
	return nil
}

// Fetch downloads a shared file, prompting for the share token and, if
// set, the link password. It works without being logged in.
func (a *App) Fetch(ctx context.Context, name string) error {
	token, err := getSimpleText(a.reader, "Share token", os.Stdout)
	if err != nil {
		return err
	}
	pw, err := getPassword("Link password (empty for none)", os.Stdout)
	if err != nil {
		return err
	}

	path, err := a.files.SecureFetch(ctx, name, token, string(pw))
	if err != nil {
		a.log.Error(ctx, "shared download failed", "name", name, "error", err)
		fmt.Println("Download failed:", err)
		return err
	}
	fmt.Println("Saved to", path)
	return nil
}

// promptInt reads an optional non-negative integer; empty input means 0.
func (a *App) promptInt(prompt string) (int, error) {
	answer, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return 0, err
	}
	if answer == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(answer)
	if err != nil || n < 0 {
		fmt.Println("Not a valid number, using default.")
		return 0, nil
	}
	return n, nil
}
