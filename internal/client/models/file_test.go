package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveCategory(t *testing.T) {
	tests := []struct {
		name string
		want Category
	}{
		{"photo.jpg", CategoryImage},
		{"photo.JPG", CategoryImage},
		{"scan.PnG", CategoryImage},
		{"report.pdf", CategoryDocument},
		{"notes.md", CategoryDocument},
		{"movie.mp4", CategoryVideo},
		{"backup.tar", CategoryArchive},
		{"archive.7z", CategoryArchive},
		{"binary.xyz", CategoryOther},
		{"no-extension", CategoryOther},
		{"trailing-dot.", CategoryOther},
		{"", CategoryOther},
		{".hidden", CategoryOther},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, DeriveCategory(tt.name), "name %q", tt.name)
	}
}

func TestDeriveCategory_Deterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		assert.Equal(t, CategoryImage, DeriveCategory("photo.JPG"))
	}
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "0 B", FormatSize(0))
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "2.00 KB", FormatSize(2048))
	assert.Equal(t, "1.50 MB", FormatSize(1572864))
	assert.Equal(t, "1.00 GB", FormatSize(1<<30))
}

func mkFiles(names ...string) []FileEntry {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	files := make([]FileEntry, 0, len(names))
	for i, n := range names {
		files = append(files, FileEntry{
			ID:         int64(i + 1),
			Name:       n,
			Size:       int64((i + 1) * 100),
			UploadTime: base.Add(time.Duration(i) * time.Hour),
			Category:   DeriveCategory(n),
		})
	}
	return files
}

func names(files []FileEntry) []string {
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.Name)
	}
	return out
}

func TestSearchFilters_Keyword(t *testing.T) {
	files := mkFiles("Vacation.jpg", "report.pdf", "vacation-notes.txt")

	f := DefaultFilters()
	f.Keyword = "VACATION"
	got := f.Apply(files)
	assert.Equal(t, []string{"Vacation.jpg", "vacation-notes.txt"}, names(got))

	// Empty keyword matches everything.
	f.Keyword = ""
	assert.Len(t, f.Apply(files), 3)

	// No match yields an empty, non-nil set.
	f.Keyword = "zzz"
	got = f.Apply(files)
	require.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSearchFilters_FileType(t *testing.T) {
	files := mkFiles("clip.mp4", "paper.pdf")

	f := DefaultFilters()
	f.FileType = "video"
	assert.Equal(t, []string{"clip.mp4"}, names(f.Apply(files)))

	f.FileType = FileTypeAll
	assert.Len(t, f.Apply(files), 2)
}

func TestSearchFilters_Sort(t *testing.T) {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	files := []FileEntry{
		{Name: "b.txt", Size: 300, UploadTime: base.Add(2 * time.Hour), Category: CategoryDocument},
		{Name: "a.txt", Size: 100, UploadTime: base.Add(1 * time.Hour), Category: CategoryDocument},
		{Name: "c.jpg", Size: 200, UploadTime: base, Category: CategoryImage},
	}

	f := DefaultFilters()
	f.SortBy = SortByName
	assert.Equal(t, []string{"a.txt", "b.txt", "c.jpg"}, names(f.Apply(files)))

	f.SortOrder = OrderDesc
	assert.Equal(t, []string{"c.jpg", "b.txt", "a.txt"}, names(f.Apply(files)))

	f.SortBy, f.SortOrder = SortBySize, OrderAsc
	assert.Equal(t, []string{"a.txt", "c.jpg", "b.txt"}, names(f.Apply(files)))

	f.SortBy = SortByDate
	assert.Equal(t, []string{"c.jpg", "a.txt", "b.txt"}, names(f.Apply(files)))

	f.SortBy = SortByType
	assert.Equal(t, []string{"b.txt", "a.txt", "c.jpg"}, names(f.Apply(files)))
}

func TestSearchFilters_SortIsStable(t *testing.T) {
	// Equal sizes: input order must survive in both directions.
	files := []FileEntry{
		{Name: "first", Size: 100},
		{Name: "second", Size: 100},
		{Name: "third", Size: 100},
	}

	f := DefaultFilters()
	f.SortBy = SortBySize
	assert.Equal(t, []string{"first", "second", "third"}, names(f.Apply(files)))

	f.SortOrder = OrderDesc
	assert.Equal(t, []string{"first", "second", "third"}, names(f.Apply(files)))
}

func TestSearchFilters_DoesNotMutateInput(t *testing.T) {
	files := mkFiles("b.txt", "a.txt")
	f := DefaultFilters()
	_ = f.Apply(files)
	assert.Equal(t, []string{"b.txt", "a.txt"}, names(files))
}
