// ABOUTME: Credential registration and password verification with bcrypt
// ABOUTME: Hashing runs under a bounded slot pool to cap CPU use under load

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/picstash/picstash/internal/store"
)

// BcryptCost is the bcrypt work factor used for new credentials.
const BcryptCost = 10

// DefaultHashSlots bounds how many bcrypt computations may run at once.
const DefaultHashSlots = 4

// MaxPasswordBytes is the longest password bcrypt accepts as input.
const MaxPasswordBytes = 72

// ErrUsernameTaken is returned by Register when the username already exists.
// Re-exported so callers don't need to import the store package for it.
var ErrUsernameTaken = store.ErrUsernameTaken

// ErrPasswordTooLong is returned by Register when the password exceeds
// MaxPasswordBytes. Callers treat it as invalid input, not a failure.
var ErrPasswordTooLong = errors.New("password exceeds 72 bytes")

// dummyHash is compared against when a username doesn't exist, so lookup
// misses and wrong passwords take the same time and response shape.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// Credentials verifies and registers username/password pairs against the
// credential store. Hashing is deliberately slow; the slot pool keeps a
// burst of registrations from monopolizing the CPU.
type Credentials struct {
	store  store.CredentialStore
	logger *slog.Logger
	slots  chan struct{}
}

// NewCredentials creates a credentials service backed by the given store.
// hashSlots caps concurrent bcrypt computations; values below 1 fall back
// to DefaultHashSlots.
func NewCredentials(s store.CredentialStore, hashSlots int) *Credentials {
	if hashSlots < 1 {
		hashSlots = DefaultHashSlots
	}
	return &Credentials{
		store:  s,
		logger: slog.Default().With("component", "credentials"),
		slots:  make(chan struct{}, hashSlots),
	}
}

// acquireSlot blocks until a hashing slot is free or the context is done.
func (c *Credentials) acquireSlot(ctx context.Context) error {
	select {
	case c.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (c *Credentials) releaseSlot() {
	<-c.slots
}

// Register hashes the password and persists the credential together with a
// companion user profile. Returns ErrUsernameTaken when the username is
// already registered; the storage uniqueness constraint decides the winner
// when two registrations race.
func (c *Credentials) Register(ctx context.Context, username, password string) error {
	// Rejected before taking a slot: bcrypt refuses input past 72 bytes
	if len(password) > MaxPasswordBytes {
		return ErrPasswordTooLong
	}

	if err := c.acquireSlot(ctx); err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	c.releaseSlot()
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	now := time.Now().UTC()
	cred := &store.Credential{
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    now,
	}
	profile := &store.UserProfile{
		Username:  username,
		Email:     username + "@example.com",
		CreatedAt: now,
	}

	if err := c.store.RegisterUser(ctx, cred, profile); err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			return ErrUsernameTaken
		}
		return fmt.Errorf("registering user: %w", err)
	}

	return nil
}

// VerifyPassword reports whether the candidate password matches the stored
// hash for the username. An unknown username and a wrong password are
// indistinguishable to the caller; a dummy bcrypt comparison keeps the
// timing flat when the username doesn't exist.
func (c *Credentials) VerifyPassword(ctx context.Context, username, password string) (bool, error) {
	if err := c.acquireSlot(ctx); err != nil {
		return false, err
	}
	defer c.releaseSlot()

	cred, err := c.store.GetCredential(ctx, username)
	if errors.Is(err, store.ErrNotFound) {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("loading credential: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(cred.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}

	return true, nil
}
