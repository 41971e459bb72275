package models

import (
	"fmt"
	"strings"
	"time"
)

// MessageType discriminates chat messages.
type MessageType string

const (
	MessageSystem MessageType = "system"
	MessageUser   MessageType = "user"
	MessageVoice  MessageType = "voice"
)

// UnknownUser is the display name for messages whose sender is missing.
const UnknownUser = "unknown user"

// ChatMessage is one entry of the chat mirror. The authoritative set lives
// on the server; the client keeps a locally persisted copy of the last
// successful sync.
//
// LocalOnly marks a message that was appended by the client after a failed
// voice send. It exists only in this client's mirror and is never visible
// to other participants.
type ChatMessage struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"`
	Content   string      `json:"content"`
	Type      MessageType `json:"type"`
	Timestamp string      `json:"timestamp"`
	VoiceURL  string      `json:"voice_url,omitempty"`
	Duration  int         `json:"duration,omitempty"`
	LocalOnly bool        `json:"local_only,omitempty"`
}

// NormalizeMessage fills the defaults the backend is allowed to omit:
// id, username, type, timestamp and duration. It never fails.
func NormalizeMessage(m ChatMessage, now time.Time) ChatMessage {
	if m.ID == 0 {
		m.ID = now.UnixMilli()
	}
	if m.Username == "" {
		m.Username = UnknownUser
	}
	if m.Type == "" {
		m.Type = MessageUser
	}
	if m.Timestamp == "" {
		m.Timestamp = now.Format(time.RFC3339)
	}
	if m.Duration < 0 {
		m.Duration = 0
	}
	return m
}

// timestampLayouts are the wire formats we accept before giving up and
// treating the string as pre-formatted.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// FormatTimestamp renders a message timestamp for display, relative to now:
// "just now", "Nm ago" and "Nh ago" for today, "yesterday HH:MM", otherwise
// "M-D HH:MM". A string that already looks formatted (contains both a date
// separator and a colon) is returned verbatim; anything else unparseable
// renders as "unknown time".
func FormatTimestamp(ts string, now time.Time) string {
	var parsed time.Time
	ok := false
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, ts, now.Location()); err == nil {
			parsed = t
			ok = true
			break
		}
	}
	if !ok {
		if strings.Contains(ts, "-") && strings.Contains(ts, ":") {
			return ts
		}
		return "unknown time"
	}

	parsed = parsed.In(now.Location())
	if sameDay(parsed, now) {
		diff := now.Sub(parsed)
		switch {
		case diff < time.Minute:
			return "just now"
		case diff < time.Hour:
			return fmt.Sprintf("%dm ago", int(diff.Minutes()))
		default:
			return fmt.Sprintf("%dh ago", int(diff.Hours()))
		}
	}
	if sameDay(parsed, now.AddDate(0, 0, -1)) {
		return fmt.Sprintf("yesterday %02d:%02d", parsed.Hour(), parsed.Minute())
	}
	return fmt.Sprintf("%d-%d %02d:%02d", int(parsed.Month()), parsed.Day(), parsed.Hour(), parsed.Minute())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
