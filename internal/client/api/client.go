// Package api implements the HomeCloud backend REST contract. Verbs and
// paths are contractual; host and scheme come from configuration. The
// package owns response-shape tolerance (the listing endpoint answers in
// three known shapes) and the mapping of share rejections to specific
// sentinel errors.
package api

import (
	"context"
	"io"

	"github.com/homecloud-app/homecloud/internal/client/models"
)

// UploadOptions carries the optional multipart fields of a file upload.
// Private files are reachable only through share links; visibility is a
// configuration policy, not hardcoded.
type UploadOptions struct {
	IsPrivate     bool
	SharePassword string
}

// ShareOptions parametrize a share link: lifetime in hours, access budget
// and an optional password. Zero values mean server defaults. UserID is
// the creator, taken from the credential's token claims.
type ShareOptions struct {
	ExpireHours int
	MaxAccess   int
	Password    string
	UserID      int64
}

// ShareLink is a backend-issued time- and count-limited URL granting
// access to one file without full authentication.
type ShareLink struct {
	ID          string `json:"id"`
	Filename    string `json:"filename"`
	ShareURL    string `json:"share_url"`
	ExpiresAt   string `json:"expires_at"`
	AccessCount int    `json:"access_count"`
	MaxAccess   int    `json:"max_access"`
	IsProtected bool   `json:"is_protected"`
}

// VoiceUpload is the multipart payload of a voice message.
type VoiceUpload struct {
	Audio    []byte
	Filename string
	Username string
	UserID   int64
	Duration int
}

// Client is the backend surface the rest of the client programs against.
// The HTTP implementation is the production one; tests substitute fakes.
type Client interface {
	Close() error

	// Auth.
	Login(ctx context.Context, email, password string) (*models.Credential, error)
	Register(ctx context.Context, username, email, password string) error
	SetAuthToken(token string)

	// Files.
	ListFiles(ctx context.Context) ([]models.FileEntry, error)
	Upload(ctx context.Context, name string, content io.Reader, opts UploadOptions) error
	Download(ctx context.Context, name string) (io.ReadCloser, error)
	Delete(ctx context.Context, name string) error

	// Shares.
	CreateShare(ctx context.Context, name string, opts ShareOptions) (*ShareLink, error)
	ListShares(ctx context.Context) ([]ShareLink, error)
	RevokeShare(ctx context.Context, shareID string) error
	SecureDownload(ctx context.Context, name, shareToken, password string) (io.ReadCloser, error)

	// Chat.
	Messages(ctx context.Context) ([]models.ChatMessage, error)
	SendText(ctx context.Context, username, content string, userID int64) error
	SendVoice(ctx context.Context, msg VoiceUpload) error
	ClearChat(ctx context.Context) error
}
