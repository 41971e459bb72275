// Package session gates the rest of the client behind a locally persisted
// credential. The credential store is injectable so the gate is testable
// without a real database.
package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"

	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/client/repositories/settings"
	"github.com/homecloud-app/homecloud/internal/dbx"
)

// Store persists the credential across runs. Load returns nil for an
// absent or unparseable credential; corruption is treated as "not logged
// in", never as an error the caller must handle.
type Store interface {
	Load(ctx context.Context) (*models.Credential, error)
	Save(ctx context.Context, cred *models.Credential) error
	Clear(ctx context.Context) error
}

// SettingsStore keeps the credential in the local settings table under the
// access_token and user_info keys.
type SettingsStore struct {
	db *sql.DB
}

func NewSettingsStore(db *sql.DB) *SettingsStore {
	return &SettingsStore{db: db}
}

func (s *SettingsStore) Load(ctx context.Context) (*models.Credential, error) {
	repo := settings.NewSQLiteRepository(s.db)

	token, err := repo.Get(ctx, settings.KeyAccessToken)
	if err != nil {
		return nil, err
	}
	blob, err := repo.Get(ctx, settings.KeyUserInfo)
	if err != nil {
		return nil, err
	}
	if token == "" || blob == "" {
		return nil, nil
	}

	var user models.UserInfo
	if err := json.Unmarshal([]byte(blob), &user); err != nil {
		return nil, nil
	}
	cred := &models.Credential{AccessToken: token, User: user}
	if !cred.Valid() {
		return nil, nil
	}
	return cred, nil
}

func (s *SettingsStore) Save(ctx context.Context, cred *models.Credential) error {
	blob, err := json.Marshal(cred.User)
	if err != nil {
		return err
	}
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, settings.KeyAccessToken, cred.AccessToken); err != nil {
			return err
		}
		return repo.Set(ctx, settings.KeyUserInfo, string(blob))
	})
}

func (s *SettingsStore) Clear(ctx context.Context) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := settings.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, settings.KeyAccessToken); err != nil {
			return err
		}
		return repo.Delete(ctx, settings.KeyUserInfo)
	})
}

// MemoryStore is the test double: a map behind a mutex.
type MemoryStore struct {
	mu   sync.Mutex
	cred *models.Credential
}

func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (m *MemoryStore) Load(ctx context.Context) (*models.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.cred == nil {
		return nil, nil
	}
	c := *m.cred
	return &c, nil
}

func (m *MemoryStore) Save(ctx context.Context, cred *models.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c := *cred
	m.cred = &c
	return nil
}

func (m *MemoryStore) Clear(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = nil
	return nil
}
