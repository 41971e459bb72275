package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/homecloud-app/homecloud/internal/client/api"
	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/common"
	"github.com/homecloud-app/homecloud/internal/logging"
)

// Guard owns the authenticated/unauthenticated state transition. On mount
// it restores the persisted credential without contacting the backend;
// afterwards Login/Logout/Register drive the transitions. A 401 from any
// authenticated call lands in HandleUnauthorized, which resets the session
// the way the web client's forced reload did.
type Guard struct {
	client api.Client
	store  Store
	log    logging.Logger

	// OnLogin and OnLogout are caller-supplied transition callbacks.
	// Both may be nil.
	OnLogin  func(cred models.Credential)
	OnLogout func()

	mu      sync.RWMutex
	current *models.Credential
}

func NewGuard(client api.Client, store Store, log logging.Logger) *Guard {
	return &Guard{client: client, store: store, log: log}
}

// Restore loads the persisted credential, if any, and arms the API client
// with its token. No backend round-trip happens here.
func (g *Guard) Restore(ctx context.Context) error {
	cred, err := g.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !cred.Valid() {
		return nil
	}
	g.mu.Lock()
	g.current = cred
	g.mu.Unlock()
	g.client.SetAuthToken(cred.AccessToken)
	return nil
}

// LoggedIn reports whether a valid credential is present.
func (g *Guard) LoggedIn() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.current.Valid()
}

// Current returns a copy of the active credential, or nil.
func (g *Guard) Current() *models.Credential {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.current == nil {
		return nil
	}
	c := *g.current
	return &c
}

// Login authenticates against the backend and persists the credential.
// On any failure the session stays unauthenticated; nothing is retried.
func (g *Guard) Login(ctx context.Context, email, password string) error {
	cred, err := g.client.Login(ctx, email, password)
	if err != nil {
		return err
	}
	if err := g.store.Save(ctx, cred); err != nil {
		return fmt.Errorf("persist credential: %w", err)
	}

	g.mu.Lock()
	g.current = cred
	g.mu.Unlock()
	g.client.SetAuthToken(cred.AccessToken)

	if g.OnLogin != nil {
		g.OnLogin(*cred)
	}
	return nil
}

// Register creates an account. The password/confirmation match is checked
// client-side before any request. Success does not authenticate; the
// caller returns the user to the login prompt.
func (g *Guard) Register(ctx context.Context, username, email, password, confirm string) error {
	if strings.TrimSpace(username) == "" || strings.TrimSpace(email) == "" {
		return fmt.Errorf("username and email are required")
	}
	if password != confirm {
		return common.ErrPasswordMismatch
	}
	return g.client.Register(ctx, username, email, password)
}

// Logout clears the persisted credential and transitions to
// unauthenticated.
func (g *Guard) Logout(ctx context.Context) error {
	if err := g.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	g.reset()
	return nil
}

// HandleUnauthorized is wired as the API client's 401 hook: the token has
// implicitly expired, so the credential is dropped and the session reset.
func (g *Guard) HandleUnauthorized() {
	if err := g.store.Clear(context.Background()); err != nil {
		g.log.Error(context.Background(), "clearing credential after 401", "error", err)
	}
	g.reset()
}

func (g *Guard) reset() {
	g.mu.Lock()
	wasLoggedIn := g.current != nil
	g.current = nil
	g.mu.Unlock()
	g.client.SetAuthToken("")

	if wasLoggedIn && g.OnLogout != nil {
		g.OnLogout()
	}
}
