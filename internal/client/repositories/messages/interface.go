// Package messages persists the chat mirror: the client's locally cached
// copy of server-owned chat history, used as the offline fallback.
package messages

import (
	"context"

	"github.com/homecloud-app/homecloud/internal/client/models"
)

// Repository stores the chat mirror. Writes are always full replacements
// or single appends, never partial merges.
type Repository interface {
	// ReplaceAll swaps the whole mirror for msgs.
	ReplaceAll(ctx context.Context, msgs []models.ChatMessage) error
	// Append adds one message at the end of the mirror.
	Append(ctx context.Context, msg models.ChatMessage) error
	// GetAll returns the mirror in insertion order.
	GetAll(ctx context.Context) ([]models.ChatMessage, error)
}
