// ABOUTME: Tests for HTTP authentication middleware
// ABOUTME: Covers token extraction, rejection modes, and identity propagation

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

// httpTestSecret is a 32-byte secret that meets MinSecretLength.
var httpTestSecret = []byte("http-middleware-test-secret-32b!")

func TestMiddleware_ValidToken(t *testing.T) {
	svc, err := NewTokenService(httpTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, _ := svc.Issue("alice")

	middleware := Middleware(svc)

	var gotIdentity *Identity
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotIdentity = FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if gotIdentity == nil {
		t.Fatal("expected Identity in context")
	}
	if gotIdentity.Username != "alice" {
		t.Errorf("expected username 'alice', got '%s'", gotIdentity.Username)
	}
}

func TestMiddleware_MissingAuthHeader(t *testing.T) {
	svc, _ := NewTokenService(httpTestSecret, time.Hour)
	middleware := Middleware(svc)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", rec.Code)
	}
}

func TestMiddleware_MalformedAuthHeader(t *testing.T) {
	svc, _ := NewTokenService(httpTestSecret, time.Hour)
	middleware := Middleware(svc)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"wrong scheme", "Basic dXNlcjpwYXNz"},
		{"no scheme", "some-raw-token"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
			req.Header.Set("Authorization", tt.header)
			rec := httptest.NewRecorder()

			middleware(handler).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
		})
	}
}

func TestMiddleware_InvalidToken(t *testing.T) {
	svc, _ := NewTokenService(httpTestSecret, time.Hour)
	middleware := Middleware(svc)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.Header.Set("Authorization", "Bearer not-a-valid-token")
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestMiddleware_ExpiredToken(t *testing.T) {
	expired := &TokenService{secret: httpTestSecret, ttl: -time.Hour}
	token, _ := expired.Issue("alice")

	svc, _ := NewTokenService(httpTestSecret, time.Hour)
	middleware := Middleware(svc)

	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/images", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("expected status 403, got %d", rec.Code)
	}
}

func TestExtractBearerToken(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   bool
	}{
		{"valid", "Bearer abc123", "abc123", false},
		{"missing", "", "", true},
		{"wrong scheme", "Token abc123", "", true},
		{"empty token", "Bearer ", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, errMsg := extractBearerToken(tt.header)
			if (errMsg != "") != tt.wantErr {
				t.Errorf("extractBearerToken(%q) errMsg = %q, wantErr %v", tt.header, errMsg, tt.wantErr)
			}
			if token != tt.wantToken {
				t.Errorf("extractBearerToken(%q) = %q, want %q", tt.header, token, tt.wantToken)
			}
		})
	}
}

func TestIdentityContext_RoundTrip(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	ctx := WithIdentity(req.Context(), &Identity{Username: "alice"})

	id := FromContext(ctx)
	if id == nil || id.Username != "alice" {
		t.Errorf("FromContext() = %+v, want alice", id)
	}

	if got := FromContext(req.Context()); got != nil {
		t.Errorf("FromContext() on bare context = %+v, want nil", got)
	}
}

func TestMustFromContext_PanicsWithoutIdentity(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("MustFromContext should panic without identity")
		}
	}()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	MustFromContext(req.Context())
}
