package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/wolfeidau/filedepot/internal/auth"
	"github.com/wolfeidau/filedepot/internal/blob"
	"github.com/wolfeidau/filedepot/internal/catalog"
	"github.com/wolfeidau/filedepot/internal/login"
	"github.com/wolfeidau/filedepot/internal/models"
	"github.com/wolfeidau/filedepot/internal/store/memory"
)

type testServer struct {
	handler http.Handler
	store   *memory.Store
	signer  *auth.TokenSigner
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	signer, err := auth.NewTokenSigner([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.NoError(t, err)

	s := memory.NewStore()
	blobs := blob.NewMemoryStore()

	catalogSvc := catalog.NewService(s.Organizations(), s.Users(), s.Files(), s.Downloads(), blobs)
	loginSvc := login.NewService(s.Users(), s.Sessions(), signer, time.Hour)

	mux := New(catalogSvc, loginSvc).Routes()
	handler := auth.Middleware(signer, s.Sessions(), s.Users())(mux)

	return &testServer{handler: handler, store: s, signer: signer}
}

func (ts *testServer) createOrg(t *testing.T, name string) *models.Organization {
	t.Helper()

	orgID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	org := &models.Organization{OrgID: orgID, Name: name, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, ts.store.Organizations().Create(context.Background(), org))
	return org
}

func (ts *testServer) createUser(t *testing.T, username, password string, orgID *uuid.UUID) *models.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	userID, err := uuid.NewV7()
	require.NoError(t, err)

	now := time.Now()
	user := &models.User{
		UserID:       userID,
		Username:     username,
		Email:        username + "@example.com",
		OrgID:        orgID,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, ts.store.Users().Create(context.Background(), user))
	return user
}

func (ts *testServer) token(t *testing.T, user *models.User) string {
	t.Helper()

	token, err := ts.signer.Sign(&auth.Actor{
		UserID:   user.UserID,
		OrgID:    user.OrgID,
		Username: user.Username,
	})
	require.NoError(t, err)
	return token
}

func (ts *testServer) do(t *testing.T, method, path, token string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()

	r := httptest.NewRequest(method, path, body)
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, r)
	return w
}

func multipartUpload(t *testing.T, name, contents string) (io.Reader, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("name", name))

	part, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(contents))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	return &buf, mw.FormDataContentType()
}

func TestServer_Authentication(t *testing.T) {
	ts := newTestServer(t)

	t.Run("unauthenticated request is 401", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/organizations/", "", nil, "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("login returns a token and session cookie", func(t *testing.T) {
		ts.createUser(t, "alice", "s3cret", nil)

		body, err := json.Marshal(map[string]string{"username": "alice", "password": "s3cret"})
		require.NoError(t, err)

		w := ts.do(t, http.MethodPost, "/api/v1/auth/login/", "", bytes.NewReader(body), "application/json")
		require.Equal(t, http.StatusOK, w.Code)

		var resp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)

		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, auth.SessionCookieName, cookies[0].Name)

		// The returned token authenticates API calls.
		w = ts.do(t, http.MethodGet, "/api/v1/organizations/", resp.Token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad credentials are 401", func(t *testing.T) {
		body, err := json.Marshal(map[string]string{"username": "alice", "password": "wrong"})
		require.NoError(t, err)

		w := ts.do(t, http.MethodPost, "/api/v1/auth/login/", "", bytes.NewReader(body), "application/json")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestServer_Organizations(t *testing.T) {
	ts := newTestServer(t)

	org := ts.createOrg(t, "acme")
	alice := ts.createUser(t, "alice", "s3cret", &org.OrgID)
	token := ts.token(t, alice)

	w := ts.do(t, http.MethodGet, "/api/v1/organizations/", token, nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	var orgs []organizationResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orgs))
	require.Len(t, orgs, 1)
	require.Equal(t, "acme", orgs[0].Name)
	require.Equal(t, int64(0), orgs[0].TotalDownloads)
}

func TestServer_Upload(t *testing.T) {
	ts := newTestServer(t)

	acme := ts.createOrg(t, "acme")
	other := ts.createOrg(t, "other")
	alice := ts.createUser(t, "alice", "s3cret", &acme.OrgID)
	token := ts.token(t, alice)

	t.Run("upload into own organization is 201", func(t *testing.T) {
		body, contentType := multipartUpload(t, "report.txt", "hello")

		w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/files/", acme.OrgID), token, body, contentType)
		require.Equal(t, http.StatusCreated, w.Code)

		var file fileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))
		require.Equal(t, "report.txt", file.Name)
		require.NotNil(t, file.Size)
		require.Equal(t, int64(5), *file.Size)
	})

	t.Run("duplicate name is 409", func(t *testing.T) {
		body, contentType := multipartUpload(t, "report.txt", "again")

		w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/files/", acme.OrgID), token, body, contentType)
		require.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("cross-organization upload is 403", func(t *testing.T) {
		body, contentType := multipartUpload(t, "intruder.txt", "x")

		w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/files/", other.OrgID), token, body, contentType)
		require.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("unknown organization is 404", func(t *testing.T) {
		orgID, err := uuid.NewV7()
		require.NoError(t, err)

		body, contentType := multipartUpload(t, "lost.txt", "x")

		w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/files/", orgID), token, body, contentType)
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing name field is 400", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "unnamed.txt")
		require.NoError(t, err)
		_, err = part.Write([]byte("x"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/files/", acme.OrgID), token, &buf, mw.FormDataContentType())
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_Download(t *testing.T) {
	ts := newTestServer(t)

	acme := ts.createOrg(t, "acme")
	alice := ts.createUser(t, "alice", "s3cret", &acme.OrgID)
	token := ts.token(t, alice)

	body, contentType := multipartUpload(t, "report.txt", "file contents")
	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/files/", acme.OrgID), token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)

	var file fileResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &file))

	t.Run("download streams the bytes with headers", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/files/%s/download/", file.FileID), token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, "file contents", w.Body.String())
		require.Contains(t, w.Header().Get("Content-Disposition"), "report.txt")
		require.Equal(t, "13", w.Header().Get("Content-Length"))
	})

	t.Run("download history reflects the downloads", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/files/%s/downloads/", file.FileID), token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var downloads []fileDownloadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &downloads))
		require.Len(t, downloads, 1)
		require.Equal(t, "alice", downloads[0].Username)
	})

	t.Run("user history carries file detail", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/users/%s/downloads/", alice.UserID), token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var downloads []userDownloadResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &downloads))
		require.Len(t, downloads, 1)
		require.Equal(t, "report.txt", downloads[0].File.Name)
		require.Equal(t, "acme", downloads[0].File.OrganizationName)
	})

	t.Run("unknown file is 404", func(t *testing.T) {
		fileID, err := uuid.NewV7()
		require.NoError(t, err)

		w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/files/%s/download/", fileID), token, nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid file id is 400", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/files/not-a-uuid/download/", token, nil, "")
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServer_ListFiles(t *testing.T) {
	ts := newTestServer(t)

	acme := ts.createOrg(t, "acme")
	alice := ts.createUser(t, "alice", "s3cret", &acme.OrgID)
	token := ts.token(t, alice)

	body, contentType := multipartUpload(t, "report.txt", "x")
	w := ts.do(t, http.MethodPost, fmt.Sprintf("/api/v1/organizations/%s/files/", acme.OrgID), token, body, contentType)
	require.Equal(t, http.StatusCreated, w.Code)

	t.Run("per-organization listing", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/files/", acme.OrgID), token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var files []fileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
		require.Len(t, files, 1)
	})

	t.Run("unknown organization yields empty list, not 404", func(t *testing.T) {
		orgID, err := uuid.NewV7()
		require.NoError(t, err)

		w := ts.do(t, http.MethodGet, fmt.Sprintf("/api/v1/organizations/%s/files/", orgID), token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var files []fileResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
		require.Empty(t, files)
	})

	t.Run("global listing is annotated", func(t *testing.T) {
		w := ts.do(t, http.MethodGet, "/api/v1/files/", token, nil, "")
		require.Equal(t, http.StatusOK, w.Code)

		var files []fileDetailResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
		require.Len(t, files, 1)
		require.Equal(t, "acme", files[0].OrganizationName)
		require.Equal(t, "alice", files[0].UploadedByUsername)
	})
}

func TestServer_Logout(t *testing.T) {
	ts := newTestServer(t)
	ts.createUser(t, "alice", "s3cret", nil)

	body, err := json.Marshal(map[string]string{"username": "alice", "password": "s3cret"})
	require.NoError(t, err)

	w := ts.do(t, http.MethodPost, "/api/v1/auth/login/", "", bytes.NewReader(body), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	cookie := w.Result().Cookies()[0]

	r := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout/", nil)
	r.AddCookie(cookie)
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// The revoked session no longer authenticates.
	r = httptest.NewRequest(http.MethodGet, "/api/v1/organizations/", nil)
	r.AddCookie(cookie)
	rec = httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, r)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
