package messages

import (
	"context"
	"fmt"

	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/dbx"
)

// SQLiteRepository implements Repository over a DBTX (either *sql.DB or
// *sql.Tx). ReplaceAll should run inside a transaction; bind the
// repository to a dbx.WithTx handle for that.
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a repository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const insertQuery = `
	INSERT INTO messages (id, user_id, username, content, type, timestamp, voice_url, duration, local_only)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`

func (r *SQLiteRepository) ReplaceAll(ctx context.Context, msgs []models.ChatMessage) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM messages`); err != nil {
		return fmt.Errorf("failed to clear messages: %w", err)
	}
	for _, m := range msgs {
		if err := r.insert(ctx, m); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) Append(ctx context.Context, msg models.ChatMessage) error {
	return r.insert(ctx, msg)
}

func (r *SQLiteRepository) insert(ctx context.Context, m models.ChatMessage) error {
	_, err := r.db.ExecContext(ctx, insertQuery,
		m.ID, m.UserID, m.Username, m.Content, string(m.Type), m.Timestamp,
		m.VoiceURL, m.Duration, m.LocalOnly)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// GetAll returns the mirror in insertion order (the seq column, not the
// server-assigned id, which local-only entries may collide with).
func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.ChatMessage, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, username, content, type, timestamp, voice_url, duration, local_only
		FROM messages ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to select messages: %w", err)
	}
	defer rows.Close()

	var result []models.ChatMessage
	for rows.Next() {
		var m models.ChatMessage
		var typ string
		if err := rows.Scan(&m.ID, &m.UserID, &m.Username, &m.Content, &typ,
			&m.Timestamp, &m.VoiceURL, &m.Duration, &m.LocalOnly); err != nil {
			return nil, err
		}
		m.Type = models.MessageType(typ)
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
