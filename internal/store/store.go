// ABOUTME: Store interfaces and data types for picstash persistence
// ABOUTME: Defines Credential, UserProfile, Image structs and per-concern store interfaces

package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested entity does not exist
var ErrNotFound = errors.New("not found")

// ErrUsernameTaken is returned when registering a username that already exists
var ErrUsernameTaken = errors.New("username already taken")

// Credential holds a username and its salted password hash.
// Credentials are created at registration and never updated or deleted.
type Credential struct {
	Username     string
	PasswordHash string // bcrypt hash
	CreatedAt    time.Time
}

// UserProfile is the storage-visible projection of a registered user.
// Other resources reference a user by Username, which doubles as the ID.
type UserProfile struct {
	Username  string
	Email     string
	CreatedAt time.Time
}

// Image represents an uploaded image in the shared gallery.
// OwnerUsername is set at creation and never changes; renaming is the
// only supported mutation.
type Image struct {
	ID            string // 24 hex characters
	Name          string
	Src           string // public path to the stored file
	OwnerUsername string
	CreatedAt     time.Time
}

// ImageWithOwner is an Image joined with its owner's profile, as returned
// by gallery listings.
type ImageWithOwner struct {
	Image
	Owner UserProfile
}

// CredentialStore defines credential and profile persistence.
type CredentialStore interface {
	// RegisterUser creates a credential and its companion user profile in a
	// single transaction. Returns ErrUsernameTaken if the username exists.
	RegisterUser(ctx context.Context, cred *Credential, profile *UserProfile) error

	// GetCredential returns the credential for a username, or ErrNotFound.
	GetCredential(ctx context.Context, username string) (*Credential, error)

	// GetUserProfile returns the profile for a username, or ErrNotFound.
	GetUserProfile(ctx context.Context, username string) (*UserProfile, error)
}

// ImageStore defines image persistence for the gallery.
type ImageStore interface {
	// CreateImage inserts a new image record. The owner must reference an
	// existing user profile.
	CreateImage(ctx context.Context, img *Image) error

	// GetImage returns an image by ID, or ErrNotFound.
	GetImage(ctx context.Context, id string) (*Image, error)

	// GetImageOwner returns just the owner username for an image, or ErrNotFound.
	GetImageOwner(ctx context.Context, id string) (string, error)

	// UpdateImageName sets a new name on an image. Ownership is untouched.
	// Returns ErrNotFound if no image has the given ID.
	UpdateImageName(ctx context.Context, id, name string) error

	// ListImages returns all images joined with their owner profiles.
	// When nameFilter is non-empty, only images whose name contains the
	// filter (case-insensitive) are returned.
	ListImages(ctx context.Context, nameFilter string) ([]*ImageWithOwner, error)
}
