package messages

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecloud-app/homecloud/internal/client/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:msgrepo?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE messages (
  seq        INTEGER PRIMARY KEY AUTOINCREMENT,
  id         INTEGER NOT NULL,
  user_id    INTEGER NOT NULL DEFAULT 0,
  username   TEXT NOT NULL,
  content    TEXT NOT NULL,
  type       TEXT NOT NULL DEFAULT 'user',
  timestamp  TEXT NOT NULL,
  voice_url  TEXT NOT NULL DEFAULT '',
  duration   INTEGER NOT NULL DEFAULT 0,
  local_only INTEGER NOT NULL DEFAULT 0
);
`)
	require.NoError(t, err)
	return db
}

func msg(id int64, content string) models.ChatMessage {
	return models.ChatMessage{
		ID: id, UserID: 1, Username: "anna", Content: content,
		Type: models.MessageUser, Timestamp: "2024-05-01T10:00:00Z",
	}
}

func TestReplaceAllAndGetAll(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.ReplaceAll(ctx, []models.ChatMessage{msg(1, "a"), msg(2, "b")}))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Content)
	assert.Equal(t, "b", got[1].Content)

	// A second replace fully swaps the mirror.
	require.NoError(t, repo.ReplaceAll(ctx, []models.ChatMessage{msg(3, "c")}))
	got, err = repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].Content)
}

func TestAppendKeepsOrder(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	require.NoError(t, repo.ReplaceAll(ctx, []models.ChatMessage{msg(10, "first")}))

	local := msg(10, "[voice message, 3s]") // same id as a server message
	local.LocalOnly = true
	require.NoError(t, repo.Append(ctx, local))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "first", got[0].Content)
	assert.True(t, got[1].LocalOnly)
}

func TestVoiceFieldsRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLiteRepository(setupDB(t))

	v := models.ChatMessage{
		ID: 5, Username: "bob", Content: "", Type: models.MessageVoice,
		Timestamp: "2024-05-01T10:00:00Z", VoiceURL: "/voice/5.webm", Duration: 7,
	}
	require.NoError(t, repo.Append(ctx, v))

	got, err := repo.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, models.MessageVoice, got[0].Type)
	assert.Equal(t, "/voice/5.webm", got[0].VoiceURL)
	assert.Equal(t, 7, got[0].Duration)
}
