// ABOUTME: HTTP server wiring routes to the auth, policy, and store components
// ABOUTME: Protected routes opt in to the auth middleware individually

package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/picstash/picstash/internal/assets"
	"github.com/picstash/picstash/internal/auth"
	"github.com/picstash/picstash/internal/config"
	"github.com/picstash/picstash/internal/dedupe"
	"github.com/picstash/picstash/internal/store"
)

// Upload dedupe window. Identical bytes uploaded within the window share one
// stored file; after the window a fresh copy is written.
const (
	uploadDedupeTTL = time.Hour
	uploadDedupeMax = 4096
)

// Store combines the persistence interfaces the server consumes.
type Store interface {
	store.CredentialStore
	store.ImageStore
}

// Server handles the picstash HTTP API.
type Server struct {
	config       *config.Config
	store        Store
	creds        *auth.Credentials
	tokens       *auth.TokenService
	uploadDedupe *dedupe.Cache
	logger       *slog.Logger
	httpServer   *http.Server
}

// New creates a server from its collaborators. The token service carries
// the process-wide signing secret; no component reaches for it ambiently.
func New(cfg *config.Config, st Store, creds *auth.Credentials, tokens *auth.TokenService) *Server {
	return &Server{
		config:       cfg,
		store:        st,
		creds:        creds,
		tokens:       tokens,
		uploadDedupe: dedupe.New(uploadDedupeTTL, uploadDedupeMax),
		logger:       slog.Default().With("component", "server"),
	}
}

// Close releases background resources. Run calls it on the way out; tests
// that never call Run use it directly.
func (s *Server) Close() {
	s.uploadDedupe.Close()
}

// routes builds the request mux. The auth middleware wraps each protected
// route individually: registration, login, and the health check stay open.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	protected := auth.Middleware(s.tokens)

	// Public routes
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("POST /auth/register", s.handleRegister)
	mux.HandleFunc("POST /auth/login", s.handleLogin)

	// Protected routes
	mux.Handle("GET /api/images", protected(http.HandlerFunc(s.handleListImages)))
	mux.Handle("POST /api/images", protected(http.HandlerFunc(s.handleUploadImage)))
	mux.Handle("GET /api/images/{id}", protected(http.HandlerFunc(s.handleGetImage)))
	mux.Handle("PUT /api/images/{id}", protected(http.HandlerFunc(s.handleRenameImage)))

	// Uploaded files are served statically
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(s.config.Uploads.Dir))))

	// Embedded landing page and its assets
	mux.Handle("GET /{$}", assets.Index())
	mux.Handle("GET /static/", http.StripPrefix("/static/", assets.FileServer()))

	return mux
}

// Run starts the HTTP server and blocks until the context is cancelled or
// the server fails. Shutdown is graceful with a 5 second deadline.
func (s *Server) Run(ctx context.Context) error {
	defer s.Close()

	s.httpServer = &http.Server{
		Addr:              s.config.Server.HTTPAddr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "addr", s.config.Server.HTTPAddr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var serverErr error
	select {
	case <-ctx.Done():
	case serverErr = <-errCh:
	}

	shutdownErr := s.gracefulShutdown()

	if serverErr != nil {
		return serverErr
	}
	return shutdownErr
}

// gracefulShutdown performs shutdown with a fresh context and timeout.
// Uses context.Background() intentionally since the original context is already canceled.
func (s *Server) gracefulShutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpServer.Shutdown(ctx)
}

// handleHealth handles GET /health.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeJSON writes a JSON response with the given status.
func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

// sendJSONError writes a JSON error response.
func (s *Server) sendJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// internalError logs the cause server-side and sends a generic message, so
// storage or crypto details never leak to the caller.
func (s *Server) internalError(w http.ResponseWriter, err error, during string) {
	s.logger.Error("internal error", "during", during, "error", err)
	s.sendJSONError(w, http.StatusInternalServerError, "internal server error")
}
