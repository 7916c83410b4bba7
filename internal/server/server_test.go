// ABOUTME: Test helpers for the HTTP API tests
// ABOUTME: Builds a server over a real temporary SQLite store

package server

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/picstash/picstash/internal/auth"
	"github.com/picstash/picstash/internal/config"
	"github.com/picstash/picstash/internal/store"
)

// testSecret is a 32-byte secret that meets auth.MinSecretLength.
const testSecret = "api-test-signing-secret-32-bytes"

// newTestServer builds a server over a fresh SQLite store and returns its
// handler for httptest use.
func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()

	tmpDir := t.TempDir()
	st, err := store.NewSQLiteStore(filepath.Join(tmpDir, "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	tokens, err := auth.NewTokenService([]byte(testSecret), time.Hour)
	require.NoError(t, err)

	cfg := &config.Config{
		Server:   config.ServerConfig{HTTPAddr: "localhost:0"},
		Database: config.DatabaseConfig{Path: ":memory:"},
		Auth:     config.AuthConfig{JWTSecret: testSecret, TokenTTL: time.Hour},
		Uploads: config.UploadsConfig{
			Dir:          filepath.Join(tmpDir, "uploads"),
			MaxSizeBytes: config.DefaultMaxUploadSize,
			AllowedExts:  config.DefaultAllowedExts,
		},
	}

	srv := New(cfg, st, auth.NewCredentials(st, 2), tokens)
	t.Cleanup(srv.Close)
	return srv, srv.routes()
}

// doJSON performs a JSON request against the handler.
func doJSON(t *testing.T, handler http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// registerUser registers a user through the API and returns the token.
func registerUser(t *testing.T, handler http.Handler, username, password string) string {
	t.Helper()

	rec := doJSON(t, handler, http.MethodPost, "/auth/register", "", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register %s: %s", username, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

// uploadImage uploads a small fake image through the API and returns its ID.
func uploadImage(t *testing.T, handler http.Handler, token, name, filename string) string {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte("fake image bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.WriteField("name", name))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/images", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, "upload: %s", rec.Body.String())

	var resp struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.ID)
	return resp.ID
}
