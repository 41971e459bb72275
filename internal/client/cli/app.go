package cli

import (
	"bufio"
	"context"
	"database/sql"
	"log/slog"
	"os"

	"github.com/homecloud-app/homecloud/internal/client/api"
	"github.com/homecloud-app/homecloud/internal/client/config"
	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/client/services"
	"github.com/homecloud-app/homecloud/internal/client/session"
	"github.com/homecloud-app/homecloud/internal/client/storage"
	"github.com/homecloud-app/homecloud/internal/logging"

	_ "modernc.org/sqlite"
)

// App wires the HomeCloud CLI together: the session guard, the file
// registry and the chat sync loop, all sharing one API client and one
// local database.
type App struct {
	config *config.Config
	log    logging.Logger
	db     *sql.DB
	client api.Client
	guard  *session.Guard
	files  *services.FileService
	chat   *services.ChatService
	reader *bufio.Reader
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	db, err := storage.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	// The 401 hook is wired after the guard exists; the client never
	// fires it before a request is made.
	var guard *session.Guard
	apiClient := api.NewHTTPClient(api.Config{
		BaseURL: c.ServerAddr,
		OnUnauthorized: func() {
			if guard != nil {
				guard.HandleUnauthorized()
			}
		},
	})
	guard = session.NewGuard(apiClient, session.NewSettingsStore(db), log)

	files := services.NewFileService(apiClient, log, services.FileConfig{
		DownloadDir: c.DownloadDir,
	})
	chat := services.NewChatService(apiClient, db, log, services.ChatConfig{
		SyncInterval: c.ChatSyncInterval,
	})

	app := &App{
		config: c,
		log:    log,
		db:     db,
		client: apiClient,
		guard:  guard,
		files:  files,
		chat:   chat,
		reader: bufio.NewReader(os.Stdin),
	}

	guard.OnLogin = func(models.Credential) { app.startSession(context.Background()) }
	guard.OnLogout = app.onLogout

	if err := guard.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore session", "error", err)
	}
	return app, nil
}

func (a *App) isLoggedIn() bool {
	return a.guard.LoggedIn()
}

// startSession starts the authenticated services once a credential is
// present. It runs both after a fresh login and after Restore in Run, so
// a remembered session behaves the same as a fresh one.
func (a *App) startSession(ctx context.Context) {
	cred := a.guard.Current()
	if cred == nil {
		return
	}
	userID, username := cred.TokenClaims()
	a.chat.SetIdentity(userID, username)
	a.chat.Start(ctx)
	if err := a.files.Load(ctx); err != nil {
		a.log.Warn(ctx, "initial file load failed", "error", err)
	}
}

func (a *App) onLogout() {
	a.chat.Stop()
}

func (a *App) Run(ctx context.Context) {
	defer a.Close()

	if a.isLoggedIn() {
		a.startSession(ctx)
	}
	runREPL(ctx, a, a.getStatus, bufio.NewScanner(os.Stdin))
}

// Close releases the API client and the local database.
func (a *App) Close() {
	a.chat.Stop()
	_ = a.client.Close()
	_ = a.db.Close()
}

func (a *App) getStatus() string {
	cred := a.guard.Current()
	if cred == nil {
		return ""
	}
	return "(" + cred.User.Username + ")"
}
