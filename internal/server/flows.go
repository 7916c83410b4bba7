// ABOUTME: Registration and login flows orchestrating credentials and tokens
// ABOUTME: Flows return tagged results; handlers map tags to HTTP statuses

package server

import (
	"context"
	"errors"

	"github.com/picstash/picstash/internal/auth"
)

// flowKind tags the outcome of an auth flow. The transport boundary maps
// tags to status codes; the flows themselves never touch HTTP.
type flowKind int

const (
	flowCreated flowKind = iota
	flowOK
	flowBadRequest
	flowUnauthorized
	flowConflict
	flowInternal
)

// authResult is the tagged outcome of a registration or login flow.
type authResult struct {
	kind    flowKind
	token   string
	message string
}

// registerFlow validates input, registers the credential, and issues a
// token on success. No token is issued when registration fails.
func (s *Server) registerFlow(ctx context.Context, username, password string) authResult {
	if username == "" || password == "" {
		return authResult{kind: flowBadRequest, message: "missing username or password"}
	}

	if err := s.creds.Register(ctx, username, password); err != nil {
		if errors.Is(err, auth.ErrUsernameTaken) {
			return authResult{kind: flowConflict, message: "username already taken"}
		}
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return authResult{kind: flowBadRequest, message: "password exceeds 72 bytes"}
		}
		s.logger.Error("registration failed", "error", err)
		return authResult{kind: flowInternal, message: "internal server error"}
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err)
		return authResult{kind: flowInternal, message: "internal server error"}
	}

	return authResult{kind: flowCreated, token: token}
}

// loginFlow validates input and verifies the password. A wrong password
// and an unknown username produce the same unauthorized result.
func (s *Server) loginFlow(ctx context.Context, username, password string) authResult {
	if username == "" || password == "" {
		return authResult{kind: flowBadRequest, message: "missing username or password"}
	}

	ok, err := s.creds.VerifyPassword(ctx, username, password)
	if err != nil {
		s.logger.Error("login failed", "error", err)
		return authResult{kind: flowInternal, message: "internal server error"}
	}
	if !ok {
		return authResult{kind: flowUnauthorized, message: "incorrect username or password"}
	}

	token, err := s.tokens.Issue(username)
	if err != nil {
		s.logger.Error("token issuance failed", "error", err)
		return authResult{kind: flowInternal, message: "internal server error"}
	}

	return authResult{kind: flowOK, token: token}
}
