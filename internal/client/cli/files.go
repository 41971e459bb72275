package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/homecloud-app/homecloud/internal/client/api"
	"github.com/homecloud-app/homecloud/internal/client/models"
)

// List prints the current file view: the last fetched set run through the
// active filters.
func (a *App) List(ctx context.Context) error {
	files := a.files.Filtered()
	if len(files) == 0 {
		fmt.Println("No files.")
		return nil
	}

	f := a.files.Filters()
	if f.Keyword != "" || f.FileType != models.FileTypeAll {
		fmt.Printf("Filters: keyword=%q type=%s\n", f.Keyword, f.FileType)
	}
	for _, file := range files {
		private := ""
		if file.IsPrivate {
			private = "  [private]"
		}
		fmt.Printf("%-40s %10s  %-8s  %s%s\n",
			file.Name, models.FormatSize(file.Size), file.Category,
			file.UploadTime.Format("2006-01-02 15:04"), private)
	}
	return nil
}

// Search sets the keyword filter; an empty argument clears it.
func (a *App) Search(ctx context.Context, keyword string) error {
	f := a.files.Filters()
	f.Keyword = keyword
	a.files.SetFilters(f)
	return a.List(ctx)
}

// FilterType sets the category filter.
func (a *App) FilterType(ctx context.Context, fileType string) error {
	switch fileType {
	case models.FileTypeAll,
		string(models.CategoryImage), string(models.CategoryDocument),
		string(models.CategoryVideo), string(models.CategoryArchive),
		string(models.CategoryOther):
	default:
		fmt.Println("Unknown type:", fileType)
		return nil
	}
	f := a.files.Filters()
	f.FileType = fileType
	a.files.SetFilters(f)
	return a.List(ctx)
}

// Sort sets the sort field and direction. The order argument is optional
// and defaults to ascending.
func (a *App) Sort(ctx context.Context, field, order string) error {
	switch field {
	case models.SortByName, models.SortBySize, models.SortByDate, models.SortByType:
	default:
		fmt.Println("Unknown sort field:", field)
		return nil
	}
	if order == "" {
		order = models.OrderAsc
	}
	if order != models.OrderAsc && order != models.OrderDesc {
		fmt.Println("Unknown sort order:", order)
		return nil
	}
	f := a.files.Filters()
	f.SortBy = field
	f.SortOrder = order
	a.files.SetFilters(f)
	return a.List(ctx)
}

// Reload refetches the file list from the server.
func (a *App) Reload(ctx context.Context) error {
	if err := a.files.Load(ctx); err != nil {
		a.log.Error(ctx, "reload failed", "error", err)
		fmt.Println("Could not load files.")
		return err
	}
	return a.List(ctx)
}

// Upload sends a local file to the drive. Default visibility comes from
// configuration; private uploads may carry a share password.
func (a *App) Upload(ctx context.Context, path string) error {
	opts := api.UploadOptions{IsPrivate: a.config.UploadPrivate}
	if opts.IsPrivate {
		pw, err := getPassword("Share password (empty for none)", os.Stdout)
		if err != nil {
			return err
		}
		opts.SharePassword = string(pw)
	}

	if err := a.files.Upload(ctx, path, opts); err != nil {
		a.log.Error(ctx, "upload failed", "error", err)
		fmt.Println("Upload failed.")
		return err
	}
	fmt.Println("Uploaded.")
	return nil
}

// Download saves a file into the configured download directory.
func (a *App) Download(ctx context.Context, name string) error {
	path, err := a.files.Download(ctx, name)
	if err != nil {
		a.log.Error(ctx, "download failed", "name", name, "error", err)
		fmt.Println("Download failed:", err)
		return err
	}
	fmt.Println("Saved to", path)
	return nil
}

// Remove deletes a file after confirmation.
func (a *App) Remove(ctx context.Context, name string) error {
	err := a.files.Delete(ctx, name, func(name string) bool {
		return GetConfirmation(a.reader, fmt.Sprintf("Delete %q?", name), os.Stdout)
	})
	if err != nil {
		a.log.Error(ctx, "delete failed", "name", name, "error", err)
		fmt.Println("Delete failed:", err)
		return err
	}
	return nil
}
