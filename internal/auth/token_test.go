// ABOUTME: Unit tests for JWT token issuance and verification
// ABOUTME: Tests valid tokens, tampered tokens, and expired tokens

package auth

import (
	"errors"
	"strings"
	"testing"
	"time"
)

// tokenTestSecret is a 32-byte secret that meets MinSecretLength.
var tokenTestSecret = []byte("token-service-test-secret-32byte")

func TestTokenService_IssueAndVerify(t *testing.T) {
	svc, err := NewTokenService(tokenTestSecret, time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	if token == "" {
		t.Fatal("Issue() returned empty token")
	}

	username, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if username != "alice" {
		t.Errorf("Verify() = %q, want %q", username, "alice")
	}
}

func TestTokenService_SecretTooShort(t *testing.T) {
	_, err := NewTokenService([]byte("short"), time.Hour)
	if !errors.Is(err, ErrSecretTooShort) {
		t.Errorf("NewTokenService() error = %v, want ErrSecretTooShort", err)
	}
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc, err := NewTokenService(tokenTestSecret, 0)
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	if svc.ttl != DefaultTokenTTL {
		t.Errorf("ttl = %v, want %v", svc.ttl, DefaultTokenTTL)
	}
}

func TestTokenService_InvalidToken(t *testing.T) {
	svc, _ := NewTokenService(tokenTestSecret, time.Hour)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				other, _ := NewTokenService([]byte("a-completely-different-32b-secret"), time.Hour)
				token, _ := other.Issue("alice")
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Verify(tt.token)
			if err == nil {
				t.Error("Verify() should have returned an error")
			}
		})
	}
}

func TestTokenService_TamperedSignature(t *testing.T) {
	svc, _ := NewTokenService(tokenTestSecret, time.Hour)

	token, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	// Flip a single character in the signature segment
	last := token[len(token)-1]
	flip := byte('A')
	if last == 'A' {
		flip = 'B'
	}
	tampered := token[:len(token)-1] + string(flip)
	if tampered == token {
		t.Fatal("tampering produced identical token")
	}

	if _, err := svc.Verify(tampered); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Verify(tampered) error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenService_ExpiredToken(t *testing.T) {
	// Negative TTL is rounded up to the default, so build the expired
	// token with a service whose clock window has already passed.
	svc := &TokenService{secret: tokenTestSecret, ttl: -time.Hour}

	token, err := svc.Issue("alice")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	verifier, _ := NewTokenService(tokenTestSecret, time.Hour)
	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestTokenService_MissingSubClaim(t *testing.T) {
	svc, _ := NewTokenService(tokenTestSecret, time.Hour)

	token, err := svc.Issue("")
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	_, err = svc.Verify(token)
	if !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Verify() error = %v, want ErrMissingClaim", err)
	}
}

func TestTokenService_DifferentUsernames(t *testing.T) {
	svc, _ := NewTokenService(tokenTestSecret, time.Hour)

	for _, username := range []string{"alice", "bob", "charlie_99"} {
		token, err := svc.Issue(username)
		if err != nil {
			t.Fatalf("Issue(%q) error = %v", username, err)
		}

		got, err := svc.Verify(token)
		if err != nil {
			t.Fatalf("Verify() error = %v", err)
		}
		if got != username {
			t.Errorf("Verify() = %q, want %q", got, username)
		}
	}
}

func TestTokenService_TokenShape(t *testing.T) {
	svc, _ := NewTokenService(tokenTestSecret, time.Hour)

	token, _ := svc.Issue("alice")
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q is not three dot-separated segments", token)
	}
}
