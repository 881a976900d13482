// Package client is a Go client for the filedepot REST API, used by the
// CLI. Authentication is a bearer token obtained from the login
// endpoint.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"time"

	"github.com/google/uuid"
)

// Config holds common client configuration
type Config struct {
	ServerURL string
	Token     string
	Timeout   time.Duration
	CacheDir  string
}

// DefaultConfig returns a default client configuration
func DefaultConfig() Config {
	return Config{
		ServerURL: "http://localhost:8080",
		Timeout:   5 * time.Minute,
	}
}

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client calls the filedepot REST API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

// New creates an API client. Responses with cache headers are cached on
// disk when a cache directory is configured.
func New(cfg Config) *Client {
	httpc := NewCachingHTTPClient(cfg.CacheDir)
	httpc.Timeout = cfg.Timeout

	return &Client{
		baseURL: cfg.ServerURL,
		token:   cfg.Token,
		httpc:   httpc,
	}
}

// Organization is an organization with its aggregate download total.
type Organization struct {
	OrgID          uuid.UUID `json:"org_id"`
	Name           string    `json:"name"`
	TotalDownloads int64     `json:"total_downloads"`
}

// File is a stored file record.
type File struct {
	FileID      uuid.UUID `json:"file_id"`
	OrgID       uuid.UUID `json:"org_id"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	Name        string    `json:"name"`
	Size        *int64    `json:"size"`
	ContentType *string   `json:"content_type"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// FileDetail is a file with its organization, uploader and download
// count denormalized.
type FileDetail struct {
	File
	OrganizationName   string `json:"organization_name"`
	UploadedByUsername string `json:"uploaded_by_username"`
	DownloadCount      int64  `json:"download_count"`
}

// FileDownload is a download event with the downloading user.
type FileDownload struct {
	DownloadID   uuid.UUID `json:"download_id"`
	FileID       uuid.UUID `json:"file_id"`
	UserID       uuid.UUID `json:"user_id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	DownloadedAt time.Time `json:"downloaded_at"`
}

// UserDownload is a download event with full file detail.
type UserDownload struct {
	DownloadID   uuid.UUID  `json:"download_id"`
	DownloadedAt time.Time  `json:"downloaded_at"`
	File         FileDetail `json:"file"`
}

// User is the authenticated user returned by login.
type User struct {
	UserID   uuid.UUID  `json:"user_id"`
	Username string     `json:"username"`
	Email    string     `json:"email"`
	OrgID    *uuid.UUID `json:"org_id"`
}

// LoginResult is a successful login response.
type LoginResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Login authenticates with username and password. The returned token is
// not stored on the client; callers persist it and pass it back via
// Config.Token.
func (c *Client) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/auth/login/", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	var result LoginResult
	if err := c.doJSON(req, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// ListOrganizations returns all organizations with download totals.
func (c *Client) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	if err := c.getJSON(ctx, "/api/v1/organizations/", &orgs); err != nil {
		return nil, err
	}
	return orgs, nil
}

// ListFiles returns the files belonging to an organization.
func (c *Client) ListFiles(ctx context.Context, orgID uuid.UUID) ([]File, error) {
	var files []File
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/organizations/%s/files/", orgID), &files); err != nil {
		return nil, err
	}
	return files, nil
}

// ListAllFiles returns every file across all organizations.
func (c *Client) ListAllFiles(ctx context.Context) ([]FileDetail, error) {
	var files []FileDetail
	if err := c.getJSON(ctx, "/api/v1/files/", &files); err != nil {
		return nil, err
	}
	return files, nil
}

// Upload uploads a file into an organization.
func (c *Client) Upload(ctx context.Context, orgID uuid.UUID, name, contentType string, r io.Reader) (*File, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	if err := mw.WriteField("name", name); err != nil {
		return nil, err
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, name))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, err
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("%s/api/v1/organizations/%s/files/", c.baseURL, orgID), &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var file File
	if err := c.doJSON(req, &file); err != nil {
		return nil, err
	}

	return &file, nil
}

// Download fetches a file's bytes. It returns the body, which the
// caller must close, and the server-suggested file name.
func (c *Client) Download(ctx context.Context, fileID uuid.UUID) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("%s/api/v1/files/%s/download/", c.baseURL, fileID), nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, "", err
	}

	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		return nil, "", decodeAPIError(resp)
	}

	name := fileID.String()
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		if fn, ok := params["filename"]; ok {
			name = fn
		}
	}

	return resp.Body, name, nil
}

// FileDownloadHistory returns the download events for a file.
func (c *Client) FileDownloadHistory(ctx context.Context, fileID uuid.UUID) ([]FileDownload, error) {
	var downloads []FileDownload
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/files/%s/downloads/", fileID), &downloads); err != nil {
		return nil, err
	}
	return downloads, nil
}

// UserDownloadHistory returns the download events recorded for a user.
func (c *Client) UserDownloadHistory(ctx context.Context, userID uuid.UUID) ([]UserDownload, error) {
	var downloads []UserDownload
	if err := c.getJSON(ctx, fmt.Sprintf("/api/v1/users/%s/downloads/", userID), &downloads); err != nil {
		return nil, err
	}
	return downloads, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return c.httpc.Do(req)
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	return c.doJSON(req, v)
}

func (c *Client) doJSON(req *http.Request, v any) error {
	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	return json.NewDecoder(resp.Body).Decode(v)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}
