package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/homecloud-app/homecloud/internal/client/models"
)

// Config holds HTTP client configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration

	// OnUnauthorized is invoked whenever the backend answers 401 on an
	// authenticated call. The session guard hooks credential clearing here.
	OnUnauthorized func()
}

// HTTPClient is the production Client: plain JSON/multipart REST over
// net/http with a bearer token.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client

	mu             sync.RWMutex
	authToken      string
	onUnauthorized func()
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient creates a client for the given backend base URL,
// e.g. "https://localhost:8000/api".
func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				IdleConnTimeout:     90 * time.Second,
				TLSHandshakeTimeout: 10 * time.Second,
			},
		},
		onUnauthorized: cfg.OnUnauthorized,
	}
}

// Close releases idle connections.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// SetAuthToken sets the bearer token added to subsequent requests.
// An empty token removes the header.
func (c *HTTPClient) SetAuthToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.authToken = token
}

func (c *HTTPClient) applyAuth(req *http.Request) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
}

func (c *HTTPClient) do(req *http.Request) (*http.Response, error) {
	c.applyAuth(req)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		if c.onUnauthorized != nil {
			c.onUnauthorized()
		}
	}
	return resp, nil
}

// envelope is the JSON failure body the backend uses. Older handlers
// answer {"success":false,"message":...}, the gin ones {"error":...}.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (e envelope) text() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// statusError turns a non-2xx response into an error, preferring the
// backend-reported message over the bare status code.
func statusError(op string, resp *http.Response) error {
	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%s: %w", op, ErrUnauthorized)
	}
	var env envelope
	if json.NewDecoder(resp.Body).Decode(&env) == nil && env.text() != "" {
		return fmt.Errorf("%s failed: %s", op, env.text())
	}
	return fmt.Errorf("%s failed: server returned %d", op, resp.StatusCode)
}

func (c *HTTPClient) postJSON(ctx context.Context, path string, body any) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req)
}

// Login authenticates with email and password and returns the credential
// the caller should persist.
func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.Credential, error) {
	resp, err := c.postJSON(ctx, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("login", resp)
	}

	var out struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Data    struct {
			AccessToken string          `json:"access_token"`
			User        models.UserInfo `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("login: decode response: %w", err)
	}
	if !out.Success {
		if out.Message != "" {
			return nil, fmt.Errorf("login failed: %s", out.Message)
		}
		return nil, fmt.Errorf("login failed")
	}

	cred := &models.Credential{AccessToken: out.Data.AccessToken, User: out.Data.User}
	c.SetAuthToken(cred.AccessToken)
	return cred, nil
}

// Register creates an account. It does not authenticate.
func (c *HTTPClient) Register(ctx context.Context, username, email, password string) error {
	resp, err := c.postJSON(ctx, "/auth/register", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("register", resp)
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err == nil && !env.Success && env.text() != "" {
		return fmt.Errorf("register failed: %s", env.text())
	}
	return nil
}

// ListFiles fetches and normalizes the drive listing. Transport failures
// are errors; an unexpected body shape is not — it degrades to an empty
// set inside ParseFileList.
func (c *HTTPClient) ListFiles(ctx context.Context) ([]models.FileEntry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/list", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list files", resp)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return ParseFileList(body, time.Now()), nil
}

// Upload sends one file as multipart form data.
func (c *HTTPClient) Upload(ctx context.Context, name string, content io.Reader, opts UploadOptions) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("file", name)
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, content); err != nil {
		return fmt.Errorf("upload %s: %w", name, err)
	}
	if opts.IsPrivate {
		if err := w.WriteField("is_private", "true"); err != nil {
			return err
		}
	}
	if opts.SharePassword != "" {
		if err := w.WriteField("share_password", opts.SharePassword); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/files/upload", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return statusError("upload", resp)
	}
	return nil
}

// Download fetches file content. The caller owns the returned reader.
func (c *HTTPClient) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/files/download/"+url.PathEscape(name), nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, statusError("download", resp)
	}
	return resp.Body, nil
}

// Delete removes a file on the server.
func (c *HTTPClient) Delete(ctx context.Context, name string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/files/delete/"+url.PathEscape(name), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("delete", resp)
	}
	return nil
}

// CreateShare issues a share link for one file.
func (c *HTTPClient) CreateShare(ctx context.Context, name string, opts ShareOptions) (*ShareLink, error) {
	resp, err := c.postJSON(ctx, "/files/share/"+url.PathEscape(name), map[string]any{
		"expire_hours": opts.ExpireHours,
		"max_access":   opts.MaxAccess,
		"password":     opts.Password,
		"user_id":      opts.UserID,
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("create share", resp)
	}

	var out struct {
		Success bool      `json:"success"`
		Message string    `json:"message"`
		Data    ShareLink `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("create share: decode response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("create share failed: %s", out.Message)
	}
	return &out.Data, nil
}

// ListShares lists the caller's active share links.
func (c *HTTPClient) ListShares(ctx context.Context) ([]ShareLink, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/files/shares", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("list shares", resp)
	}
	var out struct {
		Success bool        `json:"success"`
		Data    []ShareLink `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("list shares: decode response: %w", err)
	}
	return out.Data, nil
}

// RevokeShare deactivates a share link.
func (c *HTTPClient) RevokeShare(ctx context.Context, shareID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/files/share/delete/"+url.PathEscape(shareID), nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("revoke share", resp)
	}
	return nil
}

// SecureDownload verifies a share password and, only on verification,
// returns the file body. Each rejection cause maps to its own sentinel so
// the UI can tell a wrong password from a dead link.
func (c *HTTPClient) SecureDownload(ctx context.Context, name, shareToken, password string) (io.ReadCloser, error) {
	resp, err := c.postJSON(ctx, "/files/secure-download/"+url.PathEscape(name), map[string]string{
		"password":    password,
		"share_token": shareToken,
	})
	if err != nil {
		return nil, err
	}
	if resp.StatusCode == http.StatusOK {
		return resp.Body, nil
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		return nil, ErrSharePasswordWrong
	case http.StatusNotFound:
		return nil, ErrShareNotFound
	case http.StatusGone:
		return nil, ErrShareExpired
	case http.StatusForbidden:
		return nil, ErrShareExhausted
	}
	return nil, statusError("secure download", resp)
}

// Messages fetches the full chat history. The caller normalizes entries.
func (c *HTTPClient) Messages(ctx context.Context) ([]models.ChatMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/chat/messages", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError("chat messages", resp)
	}
	var out struct {
		Success bool                 `json:"success"`
		Data    []models.ChatMessage `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("chat messages: decode response: %w", err)
	}
	if !out.Success {
		return nil, fmt.Errorf("chat messages failed")
	}
	return out.Data, nil
}

// SendText posts one text message.
func (c *HTTPClient) SendText(ctx context.Context, username, content string, userID int64) error {
	resp, err := c.postJSON(ctx, "/chat/send", map[string]any{
		"username": username,
		"content":  content,
		"user_id":  userID,
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("send message", resp)
	}
	return nil
}

// SendVoice posts one recorded voice message as multipart form data.
func (c *HTTPClient) SendVoice(ctx context.Context, msg VoiceUpload) error {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	part, err := w.CreateFormFile("audio", msg.Filename)
	if err != nil {
		return err
	}
	if _, err := part.Write(msg.Audio); err != nil {
		return err
	}
	fields := map[string]string{
		"username": msg.Username,
		"user_id":  strconv.FormatInt(msg.UserID, 10),
		"duration": strconv.Itoa(msg.Duration),
	}
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/voice", &buf)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("send voice", resp)
	}
	return nil
}

// ClearChat wipes the server-side history.
func (c *HTTPClient) ClearChat(ctx context.Context) error {
	resp, err := c.postJSON(ctx, "/chat/clear", struct{}{})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("clear chat", resp)
	}
	return nil
}
