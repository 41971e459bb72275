package api

import (
	"encoding/json"
	"time"

	"github.com/homecloud-app/homecloud/internal/client/models"
)

// UnknownFileName is the placeholder for a listing entry with no name.
const UnknownFileName = "unknown file"

// rawFileEntry is the loose wire form of one listing entry. Numbers are
// kept as json.Number so integer and float encodings both decode.
type rawFileEntry struct {
	ID         json.Number `json:"id"`
	Name       string      `json:"name"`
	Size       json.Number `json:"size"`
	UploadTime string      `json:"uploadTime"`
	IsPrivate  bool        `json:"is_private"`
}

var uploadTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseFileList normalizes any of the known listing response shapes to a
// well-formed entry slice: a bare array, {success, data: [...]} or
// {data: [...]}. Anything else — null, a malformed object, entries of the
// wrong type — degrades to an empty (or partial) result. It never fails.
//
// Per-entry defaulting: a missing name becomes UnknownFileName, a missing
// size 0, a missing upload time now. Category is always recomputed from
// the name, never trusted from the server.
func ParseFileList(data []byte, now time.Time) []models.FileEntry {
	entries := extractEntries(data)

	result := make([]models.FileEntry, 0, len(entries))
	for _, raw := range entries {
		var e rawFileEntry
		if err := json.Unmarshal(raw, &e); err != nil {
			continue
		}
		result = append(result, normalizeFileEntry(e, now))
	}
	return result
}

func extractEntries(data []byte) []json.RawMessage {
	var arr []json.RawMessage
	if err := json.Unmarshal(data, &arr); err == nil {
		return arr
	}

	// Wrapped shapes: {success, data: [...]} and {data: [...]} both land here.
	var wrapper struct {
		Data []json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapper); err == nil {
		return wrapper.Data
	}
	return nil
}

func normalizeFileEntry(e rawFileEntry, now time.Time) models.FileEntry {
	name := e.Name
	if name == "" {
		name = UnknownFileName
	}

	size, _ := numberToInt64(e.Size)
	if size < 0 {
		size = 0
	}
	id, _ := numberToInt64(e.ID)

	uploadTime := now
	for _, layout := range uploadTimeLayouts {
		if t, err := time.Parse(layout, e.UploadTime); err == nil {
			uploadTime = t
			break
		}
	}

	return models.FileEntry{
		ID:         id,
		Name:       name,
		Size:       size,
		UploadTime: uploadTime,
		Category:   models.DeriveCategory(name),
		IsPrivate:  e.IsPrivate,
	}
}

func numberToInt64(n json.Number) (int64, error) {
	if v, err := n.Int64(); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, err
	}
	return int64(f), nil
}
