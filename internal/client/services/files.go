// Package services contains the application services of the HomeCloud
// client: the file registry view and the chat sync loop. Both wrap the
// API client with the state the UI layer renders.
package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/homecloud-app/homecloud/internal/client/api"
	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/common"
	"github.com/homecloud-app/homecloud/internal/filex"
	"github.com/homecloud-app/homecloud/internal/logging"
)

// StatusState is the three-state transfer indicator.
type StatusState int

const (
	StatusIdle StatusState = iota
	StatusLoading
	StatusSuccess
	StatusError
)

// Status is the current transfer indicator. Success and error states
// auto-dismiss back to idle after a fixed delay.
type Status struct {
	State  StatusState
	Detail string
}

// FileConfig holds FileService configuration.
type FileConfig struct {
	DownloadDir    string
	SuccessDismiss time.Duration // default 3s
	ErrorDismiss   time.Duration // default 5s
}

// FileService is the file registry view: the last fetched file set, the
// view-local search filters, and the transfer operations. A single
// in-flight gate serializes download/delete so only one destructive or IO
// action runs at a time.
type FileService struct {
	client api.Client
	log    logging.Logger

	downloadDir    string
	successDismiss time.Duration
	errorDismiss   time.Duration

	mu        sync.Mutex
	files     []models.FileEntry
	filters   models.SearchFilters
	busy      bool
	status    Status
	statusSeq int
}

func NewFileService(client api.Client, log logging.Logger, cfg FileConfig) *FileService {
	if cfg.SuccessDismiss == 0 {
		cfg.SuccessDismiss = 3 * time.Second
	}
	if cfg.ErrorDismiss == 0 {
		cfg.ErrorDismiss = 5 * time.Second
	}
	return &FileService{
		client:         client,
		log:            log,
		downloadDir:    cfg.DownloadDir,
		successDismiss: cfg.SuccessDismiss,
		errorDismiss:   cfg.ErrorDismiss,
		filters:        models.DefaultFilters(),
	}
}

// Load refreshes the file set from the backend. The set is replaced
// wholesale, never merged. On failure the view degrades to an empty set
// rather than rendering stale data as if it were current.
func (s *FileService) Load(ctx context.Context) error {
	files, err := s.client.ListFiles(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.files = nil
		return fmt.Errorf("load files: %w", err)
	}
	s.files = files
	return nil
}

// Files returns a copy of the unfiltered file set.
func (s *FileService) Files() []models.FileEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.FileEntry, len(s.files))
	copy(out, s.files)
	return out
}

// Filtered returns the current view: the file set run through the filters.
// It is recomputed on every call; no derived state is cached.
func (s *FileService) Filtered() []models.FileEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters.Apply(s.files)
}

// Filters returns the current filter state.
func (s *FileService) Filters() models.SearchFilters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filters
}

// SetFilters replaces the filter state.
func (s *FileService) SetFilters(f models.SearchFilters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters = f
}

// Upload sends a local file to the drive and refreshes the listing on
// success. On failure the file set stays as it was; there is no partial
// insert.
func (s *FileService) Upload(ctx context.Context, path string, opts api.UploadOptions) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	if err := s.client.Upload(ctx, name, f, opts); err != nil {
		return err
	}
	s.log.Info(ctx, "file uploaded", "name", name)
	return s.Load(ctx)
}

// Download fetches a file into the download directory and returns the
// saved path. Only one download may be in flight; concurrent attempts
// fail fast with common.ErrTransferInFlight.
func (s *FileService) Download(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", common.ErrEmptyFilename
	}
	if !s.beginTransfer() {
		return "", common.ErrTransferInFlight
	}
	defer s.endTransfer()

	return s.fetchToDisk(ctx, name, func() (io.ReadCloser, error) {
		return s.client.Download(ctx, name)
	})
}

// Delete removes a file after explicit confirmation and refreshes the
// listing. A declined confirmation is a no-op, not an error. Delete
// shares the in-flight gate with Download.
func (s *FileService) Delete(ctx context.Context, name string, confirm func(name string) bool) error {
	if name == "" {
		return common.ErrEmptyFilename
	}
	if !s.beginTransfer() {
		return common.ErrTransferInFlight
	}
	defer s.endTransfer()

	if confirm != nil && !confirm(name) {
		return nil
	}
	if err := s.client.Delete(ctx, name); err != nil {
		return err
	}
	s.log.Info(ctx, "file deleted", "name", name)
	return s.Load(ctx)
}

// CreateShare issues a share link for one file.
func (s *FileService) CreateShare(ctx context.Context, name string, opts api.ShareOptions) (*api.ShareLink, error) {
	return s.client.CreateShare(ctx, name, opts)
}

// ListShares lists the caller's active share links.
func (s *FileService) ListShares(ctx context.Context) ([]api.ShareLink, error) {
	return s.client.ListShares(ctx)
}

// RevokeShare deactivates a share link.
func (s *FileService) RevokeShare(ctx context.Context, shareID string) error {
	return s.client.RevokeShare(ctx, shareID)
}

// SecureFetch verifies a share password and downloads the file on
// verification. Rejections keep their specific cause (wrong password,
// expired, exhausted, missing) so callers can report precisely.
func (s *FileService) SecureFetch(ctx context.Context, name, shareToken, password string) (string, error) {
	if !s.beginTransfer() {
		return "", common.ErrTransferInFlight
	}
	defer s.endTransfer()

	return s.fetchToDisk(ctx, name, func() (io.ReadCloser, error) {
		return s.client.SecureDownload(ctx, name, shareToken, password)
	})
}

func (s *FileService) fetchToDisk(ctx context.Context, name string, fetch func() (io.ReadCloser, error)) (string, error) {
	s.setStatus(StatusLoading, "downloading "+name, 0)

	rc, err := fetch()
	if err != nil {
		s.setStatus(StatusError, "download failed: "+name, s.errorDismiss)
		return "", err
	}
	defer rc.Close()

	path, err := filex.SaveStream(s.downloadDir, name, rc)
	if err != nil {
		s.setStatus(StatusError, "download failed: "+name, s.errorDismiss)
		return "", err
	}
	s.setStatus(StatusSuccess, "downloaded "+name, s.successDismiss)
	s.log.Info(ctx, "file downloaded", "name", name, "path", path)
	return path, nil
}

// Busy reports whether a download or delete is in flight.
func (s *FileService) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Status returns the current transfer indicator.
func (s *FileService) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *FileService) beginTransfer() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *FileService) endTransfer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
}

// setStatus updates the indicator; when dismiss is non-zero the status
// reverts to idle after that delay unless a newer status replaced it.
func (s *FileService) setStatus(state StatusState, detail string, dismiss time.Duration) {
	s.mu.Lock()
	s.statusSeq++
	seq := s.statusSeq
	s.status = Status{State: state, Detail: detail}
	s.mu.Unlock()

	if dismiss <= 0 {
		return
	}
	time.AfterFunc(dismiss, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.statusSeq == seq {
			s.status = Status{State: StatusIdle}
		}
	})
}
