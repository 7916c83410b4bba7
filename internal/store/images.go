// ABOUTME: Image store methods on SQLiteStore for the shared gallery
// ABOUTME: Listings join images with owner profiles; rename never touches ownership

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// CreateImage inserts a new image record.
func (s *SQLiteStore) CreateImage(ctx context.Context, img *Image) error {
	query := `
		INSERT INTO images (id, name, src, owner_username, created_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		img.ID,
		img.Name,
		img.Src,
		img.OwnerUsername,
		img.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("inserting image: %w", err)
	}

	s.logger.Info("created image", "id", img.ID, "owner", img.OwnerUsername)
	return nil
}

// GetImage retrieves an image by ID.
func (s *SQLiteStore) GetImage(ctx context.Context, id string) (*Image, error) {
	query := `
		SELECT id, name, src, owner_username, created_at
		FROM images
		WHERE id = ?
	`

	var img Image
	var createdAtStr string

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&img.ID,
		&img.Name,
		&img.Src,
		&img.OwnerUsername,
		&createdAtStr,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("querying image: %w", err)
	}

	img.CreatedAt, err = time.Parse(time.RFC3339, createdAtStr)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at: %w", err)
	}

	return &img, nil
}

// GetImageOwner returns the owner username for an image.
func (s *SQLiteStore) GetImageOwner(ctx context.Context, id string) (string, error) {
	var owner string
	err := s.db.QueryRowContext(ctx, "SELECT owner_username FROM images WHERE id = ?", id).Scan(&owner)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("querying image owner: %w", err)
	}

	return owner, nil
}

// UpdateImageName sets a new name on an image.
func (s *SQLiteStore) UpdateImageName(ctx context.Context, id, name string) error {
	result, err := s.db.ExecContext(ctx, "UPDATE images SET name = ? WHERE id = ?", name, id)
	if err != nil {
		return fmt.Errorf("updating image name: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	s.logger.Debug("renamed image", "id", id)
	return nil
}

// ListImages returns all images joined with their owner profiles, newest
// first. A non-empty nameFilter restricts results to images whose name
// contains the filter, case-insensitively.
func (s *SQLiteStore) ListImages(ctx context.Context, nameFilter string) ([]*ImageWithOwner, error) {
	query := `
		SELECT i.id, i.name, i.src, i.owner_username, i.created_at,
		       u.username, u.email, u.created_at
		FROM images i
		JOIN users u ON u.username = i.owner_username
	`
	var args []any

	if nameFilter != "" {
		// LIKE is case-insensitive for ASCII in SQLite
		query += ` WHERE i.name LIKE ? ESCAPE '\'`
		args = append(args, "%"+escapeLike(nameFilter)+"%")
	}

	query += ` ORDER BY i.created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying images: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var images []*ImageWithOwner
	for rows.Next() {
		var img ImageWithOwner
		var imgCreatedStr, ownerCreatedStr string

		if err := rows.Scan(
			&img.ID,
			&img.Name,
			&img.Src,
			&img.OwnerUsername,
			&imgCreatedStr,
			&img.Owner.Username,
			&img.Owner.Email,
			&ownerCreatedStr,
		); err != nil {
			return nil, fmt.Errorf("scanning image: %w", err)
		}

		img.CreatedAt, err = time.Parse(time.RFC3339, imgCreatedStr)
		if err != nil {
			return nil, fmt.Errorf("parsing image created_at: %w", err)
		}
		img.Owner.CreatedAt, err = time.Parse(time.RFC3339, ownerCreatedStr)
		if err != nil {
			return nil, fmt.Errorf("parsing owner created_at: %w", err)
		}

		images = append(images, &img)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating images: %w", err)
	}

	return images, nil
}

// escapeLike escapes LIKE wildcards in a user-supplied search term.
func escapeLike(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '%', '_', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}
