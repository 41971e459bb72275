// Package models contains the client-side data types of the HomeCloud CLI:
// drive file entries, search filters, chat messages, and the persisted
// credential. The types are deliberately dumb; anything derived (category,
// formatted size, filtered views) is a pure function of them.
package models

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Category is the client-derived kind of a file. It is computed from the
// filename extension and is never taken from the server.
type Category string

const (
	CategoryImage    Category = "image"
	CategoryDocument Category = "document"
	CategoryVideo    Category = "video"
	CategoryArchive  Category = "archive"
	CategoryOther    Category = "other"
)

// extCategories maps a lowercased filename extension (without the dot)
// to its category. Unknown or missing extensions fall through to
// CategoryOther.
var extCategories = map[string]Category{
	"jpg": CategoryImage, "jpeg": CategoryImage, "png": CategoryImage,
	"gif": CategoryImage, "bmp": CategoryImage, "webp": CategoryImage,
	"svg": CategoryImage,

	"pdf": CategoryDocument, "doc": CategoryDocument, "docx": CategoryDocument,
	"xls": CategoryDocument, "xlsx": CategoryDocument, "ppt": CategoryDocument,
	"pptx": CategoryDocument, "txt": CategoryDocument, "md": CategoryDocument,

	"mp4": CategoryVideo, "avi": CategoryVideo, "mkv": CategoryVideo,
	"mov": CategoryVideo, "wmv": CategoryVideo, "flv": CategoryVideo,
	"webm": CategoryVideo,

	"zip": CategoryArchive, "rar": CategoryArchive, "7z": CategoryArchive,
	"tar": CategoryArchive, "gz": CategoryArchive,
}

// DeriveCategory returns the category for a filename. The same name always
// yields the same category.
func DeriveCategory(name string) Category {
	i := strings.LastIndexByte(name, '.')
	if i < 0 || i == len(name)-1 {
		return CategoryOther
	}
	if c, ok := extCategories[strings.ToLower(name[i+1:])]; ok {
		return c
	}
	return CategoryOther
}

// FileEntry is one file in the drive listing as the client sees it.
// Category is recomputed from Name on every listing refresh.
type FileEntry struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	Size       int64     `json:"size"`
	UploadTime time.Time `json:"uploadTime"`
	Category   Category  `json:"category"`
	IsPrivate  bool      `json:"is_private,omitempty"`
}

// FormatSize renders a byte count the way the web UI did: two decimals and
// a binary unit, e.g. 2048 -> "2.00 KB".
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 B"
	}
	units := []string{"B", "KB", "MB", "GB"}
	i := int(math.Floor(math.Log(float64(bytes)) / math.Log(1024)))
	if i >= len(units) {
		i = len(units) - 1
	}
	if i == 0 {
		return fmt.Sprintf("%d B", bytes)
	}
	return fmt.Sprintf("%.2f %s", float64(bytes)/math.Pow(1024, float64(i)), units[i])
}

// Sort keys and orders accepted by SearchFilters.
const (
	SortByName = "name"
	SortBySize = "size"
	SortByDate = "date"
	SortByType = "type"

	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// FileTypeAll disables category filtering.
const FileTypeAll = "all"

// SearchFilters is the view-local filter state of the file listing.
// It is never sent to the backend.
type SearchFilters struct {
	Keyword   string
	FileType  string
	SortBy    string
	SortOrder string
}

// DefaultFilters returns the initial filter state: no keyword, all types,
// by name ascending.
func DefaultFilters() SearchFilters {
	return SearchFilters{
		Keyword:   "",
		FileType:  FileTypeAll,
		SortBy:    SortByName,
		SortOrder: OrderAsc,
	}
}

// Apply filters and sorts a file set. It is a pure function: the input
// slice is not modified, and the result is fully recomputed on every call.
// The sort is stable, so entries with equal keys keep their input order
// regardless of the sort direction.
func (f SearchFilters) Apply(files []FileEntry) []FileEntry {
	result := make([]FileEntry, 0, len(files))

	keyword := strings.ToLower(f.Keyword)
	for _, file := range files {
		if keyword != "" && !strings.Contains(strings.ToLower(file.Name), keyword) {
			continue
		}
		if f.FileType != "" && f.FileType != FileTypeAll && string(file.Category) != f.FileType {
			continue
		}
		result = append(result, file)
	}

	sort.SliceStable(result, func(i, j int) bool {
		var cmp int
		switch f.SortBy {
		case SortBySize:
			cmp = compareInt64(result[i].Size, result[j].Size)
		case SortByDate:
			cmp = compareInt64(result[i].UploadTime.UnixNano(), result[j].UploadTime.UnixNano())
		case SortByType:
			cmp = strings.Compare(string(result[i].Category), string(result[j].Category))
		default:
			cmp = strings.Compare(result[i].Name, result[j].Name)
		}
		if f.SortOrder == OrderDesc {
			return cmp > 0
		}
		return cmp < 0
	})

	return result
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
