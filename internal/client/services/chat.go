package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/homecloud-app/homecloud/internal/client/api"
	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/client/repositories/messages"
	"github.com/homecloud-app/homecloud/internal/client/repositories/settings"
	"github.com/homecloud-app/homecloud/internal/common"
	"github.com/homecloud-app/homecloud/internal/dbx"
	"github.com/homecloud-app/homecloud/internal/logging"
)

// DefaultChatUsername is used until the user picks a display name.
const DefaultChatUsername = "family member"

// ChatConfig holds ChatService configuration.
type ChatConfig struct {
	SyncInterval  time.Duration // default 5s
	ResyncDelay   time.Duration // default 500ms
	ClearCooldown time.Duration // default 3s
}

// ChatService runs the chat sync loop: a periodic pull of the full
// server-side history into an in-memory mirror, with a sqlite copy as
// the offline fallback. Sends are confirmed by resync, never by
// optimistic insertion; the one exception is the local-only voice
// placeholder kept when a recorded message fails to upload.
type ChatService struct {
	client api.Client
	db     *sql.DB
	log    logging.Logger

	interval      time.Duration
	resyncDelay   time.Duration
	clearCooldown time.Duration
	now           func() time.Time

	mu       sync.Mutex
	messages []models.ChatMessage
	username string
	userID   int64
	syncing  bool
	clearing bool
	stopped  bool
	ticker   *time.Ticker
	done     chan struct{}
	timers   []*time.Timer
}

func NewChatService(client api.Client, db *sql.DB, log logging.Logger, cfg ChatConfig) *ChatService {
	if cfg.SyncInterval == 0 {
		cfg.SyncInterval = 5 * time.Second
	}
	if cfg.ResyncDelay == 0 {
		cfg.ResyncDelay = 500 * time.Millisecond
	}
	if cfg.ClearCooldown == 0 {
		cfg.ClearCooldown = 3 * time.Second
	}
	return &ChatService{
		client:        client,
		db:            db,
		log:           log,
		interval:      cfg.SyncInterval,
		resyncDelay:   cfg.ResyncDelay,
		clearCooldown: cfg.ClearCooldown,
		now:           time.Now,
		username:      DefaultChatUsername,
	}
}

// Start loads the persisted display name, performs one immediate sync and
// launches the periodic loop.
func (s *ChatService) Start(ctx context.Context) {
	repo := settings.NewSQLiteRepository(s.db)
	if name, err := repo.Get(ctx, settings.KeyChatUsername); err == nil && name != "" {
		s.mu.Lock()
		s.username = name
		s.mu.Unlock()
	}

	s.mu.Lock()
	s.stopped = false
	s.ticker = time.NewTicker(s.interval)
	s.done = make(chan struct{})
	s.mu.Unlock()

	s.Sync(ctx)
	go s.run()
}

func (s *ChatService) run() {
	s.mu.Lock()
	ticker := s.ticker
	done := s.done
	s.mu.Unlock()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.Sync(context.Background())
		}
	}
}

// Stop halts the loop and any pending resync or cooldown timers.
func (s *ChatService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	s.stopped = true
	if s.ticker != nil {
		s.ticker.Stop()
	}
	if s.done != nil {
		close(s.done)
	}
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}

// Sync pulls the full history and replaces the mirror. Overlapping syncs
// collapse to one: a sync that finds another in flight, or the clear
// cooldown active, returns without doing anything. A failed pull restores
// the mirror from the sqlite fallback instead of leaving it stale.
func (s *ChatService) Sync(ctx context.Context) {
	s.mu.Lock()
	if s.syncing || s.clearing || s.stopped {
		s.mu.Unlock()
		return
	}
	s.syncing = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.syncing = false
		s.mu.Unlock()
	}()

	msgs, err := s.client.Messages(ctx)
	if err != nil {
		s.log.Warn(ctx, "chat sync failed, falling back to local mirror", "error", err)
		repo := messages.NewSQLiteRepository(s.db)
		cached, cerr := repo.GetAll(ctx)
		if cerr != nil {
			s.log.Error(ctx, "chat mirror unreadable", "error", cerr)
			return
		}
		s.setMirror(cached)
		return
	}

	now := s.now()
	normalized := make([]models.ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		normalized = append(normalized, models.NormalizeMessage(m, now))
	}
	s.replaceMirror(ctx, normalized)
}

// setMirror swaps the in-memory mirror unless a clear started, or Stop
// was called, while the pull was in flight; neither the cleared state
// nor a torn-down service may be overwritten by a response from before.
func (s *ChatService) setMirror(msgs []models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearing || s.stopped {
		return false
	}
	s.messages = msgs
	return true
}

// replaceMirror swaps the in-memory mirror and persists it as one step
// under the mutex, so the database copy can never end up behind a clear
// or a Stop that the in-memory swap already respected.
func (s *ChatService) replaceMirror(ctx context.Context, msgs []models.ChatMessage) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.clearing || s.stopped {
		return false
	}
	s.messages = msgs
	if err := s.persist(ctx, msgs); err != nil {
		s.log.Warn(ctx, "failed to persist chat mirror", "error", err)
	}
	return true
}

func (s *ChatService) persist(ctx context.Context, msgs []models.ChatMessage) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return messages.NewSQLiteRepository(tx).ReplaceAll(ctx, msgs)
	})
}

// SendText posts a text message. Whitespace-only content is rejected
// locally without a request. The message appears in the mirror only via
// the short resync that follows a successful post.
func (s *ChatService) SendText(ctx context.Context, content string) error {
	if strings.TrimSpace(content) == "" {
		return common.ErrEmptyMessage
	}
	s.mu.Lock()
	username, userID := s.username, s.userID
	s.mu.Unlock()

	if err := s.client.SendText(ctx, username, content, userID); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	s.scheduleResync()
	return nil
}

// SendVoice uploads a recorded clip. On failure the clip is not lost
// silently: a local-only placeholder naming the duration is appended to
// the mirror and persisted, and the error is still returned.
func (s *ChatService) SendVoice(ctx context.Context, audio []byte, durationSec int) error {
	s.mu.Lock()
	username, userID := s.username, s.userID
	s.mu.Unlock()

	upload := api.VoiceUpload{
		Audio:    audio,
		Filename: fmt.Sprintf("voice_%s.webm", uuid.NewString()),
		Username: username,
		UserID:   userID,
		Duration: durationSec,
	}
	if err := s.client.SendVoice(ctx, upload); err != nil {
		placeholder := models.NormalizeMessage(models.ChatMessage{
			UserID:    userID,
			Username:  username,
			Content:   fmt.Sprintf("[voice message, %ds]", durationSec),
			Type:      models.MessageVoice,
			Duration:  durationSec,
			LocalOnly: true,
		}, s.now())

		s.mu.Lock()
		s.messages = append(s.messages, placeholder)
		s.mu.Unlock()
		if aerr := messages.NewSQLiteRepository(s.db).Append(ctx, placeholder); aerr != nil {
			s.log.Warn(ctx, "failed to persist voice placeholder", "error", aerr)
		}
		return fmt.Errorf("send voice message: %w", err)
	}
	s.scheduleResync()
	return nil
}

// ClearAll wipes the server history and replaces the mirror with a single
// system notice. The loop is paused for a cooldown so an in-flight or
// immediately following pull cannot resurrect the old history. The local
// notice is kept even when the server-side delete fails.
func (s *ChatService) ClearAll(ctx context.Context) error {
	s.mu.Lock()
	if s.clearing {
		s.mu.Unlock()
		return nil
	}
	s.clearing = true
	if s.ticker != nil {
		s.ticker.Stop()
	}
	s.mu.Unlock()

	err := s.client.ClearChat(ctx)
	if err != nil {
		s.log.Warn(ctx, "server-side chat clear failed", "error", err)
	}

	notice := models.NormalizeMessage(models.ChatMessage{
		Content: "chat cleared",
		Type:    models.MessageSystem,
	}, s.now())

	s.mu.Lock()
	s.messages = []models.ChatMessage{notice}
	if perr := s.persist(ctx, []models.ChatMessage{notice}); perr != nil {
		s.log.Warn(ctx, "failed to persist cleared mirror", "error", perr)
	}
	s.mu.Unlock()

	s.afterFunc(s.clearCooldown, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.clearing = false
		if !s.stopped && s.ticker != nil {
			s.ticker.Reset(s.interval)
		}
	})

	if err != nil {
		return fmt.Errorf("clear chat: %w", err)
	}
	return nil
}

func (s *ChatService) scheduleResync() {
	s.afterFunc(s.resyncDelay, func() {
		s.Sync(context.Background())
	})
}

func (s *ChatService) afterFunc(d time.Duration, f func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.stopped {
		return
	}
	var t *time.Timer
	t = time.AfterFunc(d, func() {
		s.removeTimer(t)
		f()
	})
	s.timers = append(s.timers, t)
}

// removeTimer drops a fired timer so long-lived sessions do not pile up
// dead handles between Stop calls.
func (s *ChatService) removeTimer(t *time.Timer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, cur := range s.timers {
		if cur == t {
			s.timers = append(s.timers[:i], s.timers[i+1:]...)
			return
		}
	}
}

// SetIdentity records the sender identity taken from the credential.
func (s *ChatService) SetIdentity(userID int64, username string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.userID = userID
	if s.username == DefaultChatUsername && username != "" {
		s.username = username
	}
}

// SetUsername changes and persists the chat display name.
func (s *ChatService) SetUsername(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultChatUsername
	}
	s.mu.Lock()
	s.username = name
	s.mu.Unlock()
	return settings.NewSQLiteRepository(s.db).Set(ctx, settings.KeyChatUsername, name)
}

// Username returns the current chat display name.
func (s *ChatService) Username() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.username
}

// Messages returns a copy of the mirror.
func (s *ChatService) Messages() []models.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.ChatMessage, len(s.messages))
	copy(out, s.messages)
	return out
}
