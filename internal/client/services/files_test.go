package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/homecloud-app/homecloud/internal/client/api"
	"github.com/homecloud-app/homecloud/internal/client/models"
	"github.com/homecloud-app/homecloud/internal/common"
	"github.com/homecloud-app/homecloud/internal/logging"
)

type fakeFileClient struct {
	api.Client

	mu          sync.Mutex
	listErr     error
	listResult  []models.FileEntry
	listCalls   int
	uploadErr   error
	uploadNames []string
	deleteErr   error
	deleted     []string

	downloadBody  string
	downloadErr   error
	downloadGate  chan struct{}
	downloadCalls int
}

func (f *fakeFileClient) ListFiles(ctx context.Context) ([]models.FileEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls++
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listResult, nil
}

func (f *fakeFileClient) Upload(ctx context.Context, name string, r io.Reader, opts api.UploadOptions) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploadNames = append(f.uploadNames, name)
	return nil
}

func (f *fakeFileClient) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	f.mu.Lock()
	f.downloadCalls++
	gate := f.downloadGate
	f.mu.Unlock()
	if gate != nil {
		<-gate
	}
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	return io.NopCloser(strings.NewReader(f.downloadBody)), nil
}

func (f *fakeFileClient) Delete(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, name)
	return nil
}

func newFileService(t *testing.T, client api.Client) *FileService {
	t.Helper()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	return NewFileService(client, log, FileConfig{
		DownloadDir:    t.TempDir(),
		SuccessDismiss: 20 * time.Millisecond,
		ErrorDismiss:   20 * time.Millisecond,
	})
}

func TestFileServiceLoadReplacesSet(t *testing.T) {
	client := &fakeFileClient{listResult: []models.FileEntry{
		{Name: "a.jpg", Category: models.CategoryImage},
		{Name: "b.pdf", Category: models.CategoryDocument},
	}}
	svc := newFileService(t, client)

	require.NoError(t, svc.Load(context.Background()))
	assert.Len(t, svc.Files(), 2)

	client.mu.Lock()
	client.listResult = []models.FileEntry{{Name: "c.zip", Category: models.CategoryArchive}}
	client.mu.Unlock()

	require.NoError(t, svc.Load(context.Background()))
	files := svc.Files()
	require.Len(t, files, 1)
	assert.Equal(t, "c.zip", files[0].Name)
}

func TestFileServiceLoadFailureEmptiesView(t *testing.T) {
	client := &fakeFileClient{listResult: []models.FileEntry{{Name: "a.jpg"}}}
	svc := newFileService(t, client)
	require.NoError(t, svc.Load(context.Background()))
	require.Len(t, svc.Files(), 1)

	client.mu.Lock()
	client.listErr = errors.New("backend down")
	client.mu.Unlock()

	err := svc.Load(context.Background())
	require.Error(t, err)
	assert.Empty(t, svc.Files())
	assert.Empty(t, svc.Filtered())
}

func TestFileServiceFilteredRecomputes(t *testing.T) {
	client := &fakeFileClient{listResult: []models.FileEntry{
		{Name: "report.pdf", Category: models.CategoryDocument},
		{Name: "cat.jpg", Category: models.CategoryImage},
	}}
	svc := newFileService(t, client)
	require.NoError(t, svc.Load(context.Background()))

	f := svc.Filters()
	f.FileType = string(models.CategoryImage)
	svc.SetFilters(f)

	got := svc.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "cat.jpg", got[0].Name)

	f.FileType = models.FileTypeAll
	f.Keyword = "REPORT"
	svc.SetFilters(f)
	got = svc.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "report.pdf", got[0].Name)
}

func TestFileServiceUploadReloadsOnSuccess(t *testing.T) {
	client := &fakeFileClient{}
	svc := newFileService(t, client)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o600))

	require.NoError(t, svc.Upload(context.Background(), path, api.UploadOptions{}))
	assert.Equal(t, []string{"notes.txt"}, client.uploadNames)
	assert.Equal(t, 1, client.listCalls)
}

func TestFileServiceUploadFailureDoesNotReload(t *testing.T) {
	client := &fakeFileClient{uploadErr: errors.New("rejected")}
	svc := newFileService(t, client)

	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("hi"), 0o600))

	require.Error(t, svc.Upload(context.Background(), path, api.UploadOptions{}))
	assert.Equal(t, 0, client.listCalls)
}

func TestFileServiceDownloadSavesFile(t *testing.T) {
	client := &fakeFileClient{downloadBody: "payload"}
	svc := newFileService(t, client)

	path, err := svc.Download(context.Background(), "a.bin")
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	assert.False(t, svc.Busy())
}

func TestFileServiceSecondTransferRejected(t *testing.T) {
	gate := make(chan struct{})
	client := &fakeFileClient{downloadBody: "x", downloadGate: gate}
	svc := newFileService(t, client)

	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		close(started)
		_, err := svc.Download(context.Background(), "slow.bin")
		done <- err
	}()
	<-started
	require.Eventually(t, svc.Busy, time.Second, time.Millisecond)

	_, err := svc.Download(context.Background(), "other.bin")
	assert.ErrorIs(t, err, common.ErrTransferInFlight)

	err = svc.Delete(context.Background(), "other.bin", nil)
	assert.ErrorIs(t, err, common.ErrTransferInFlight)

	close(gate)
	require.NoError(t, <-done)
	assert.Equal(t, 1, client.downloadCalls)
}

func TestFileServiceDeleteConfirm(t *testing.T) {
	client := &fakeFileClient{}
	svc := newFileService(t, client)

	err := svc.Delete(context.Background(), "a.jpg", func(string) bool { return false })
	require.NoError(t, err)
	assert.Empty(t, client.deleted)
	assert.Equal(t, 0, client.listCalls)

	err = svc.Delete(context.Background(), "a.jpg", func(string) bool { return true })
	require.NoError(t, err)
	assert.Equal(t, []string{"a.jpg"}, client.deleted)
	assert.Equal(t, 1, client.listCalls)
}

func TestFileServiceStatusLifecycle(t *testing.T) {
	client := &fakeFileClient{downloadBody: "x"}
	svc := newFileService(t, client)

	_, err := svc.Download(context.Background(), "a.bin")
	require.NoError(t, err)
	assert.Equal(t, StatusSuccess, svc.Status().State)

	require.Eventually(t, func() bool {
		return svc.Status().State == StatusIdle
	}, time.Second, 5*time.Millisecond)

	client.downloadErr = errors.New("boom")
	_, err = svc.Download(context.Background(), "a.bin")
	require.Error(t, err)
	assert.Equal(t, StatusError, svc.Status().State)
	require.Eventually(t, func() bool {
		return svc.Status().State == StatusIdle
	}, time.Second, 5*time.Millisecond)
}
