// ABOUTME: HTTP handlers for the image gallery: list, upload, rename
// ABOUTME: Rename is gated by the ownership policy after existence checks

package server

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/picstash/picstash/internal/auth"
	"github.com/picstash/picstash/internal/policy"
	"github.com/picstash/picstash/internal/store"
)

// maxImageNameLength caps image names on upload and rename, counted in
// Unicode code points so multibyte names aren't penalized for encoding.
const maxImageNameLength = 100

// imageIDPattern matches the 24-hex-character image identifier format.
// Malformed identifiers are treated as not-found before any query runs.
var imageIDPattern = regexp.MustCompile(`^[0-9a-f]{24}$`)

// imageResponse is one gallery entry joined with its owner.
type imageResponse struct {
	ID     string         `json:"id"`
	Name   string         `json:"name"`
	Src    string         `json:"src"`
	Author authorResponse `json:"author"`
}

type authorResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// renameRequest is the JSON request body for PUT /api/images/{id}.
type renameRequest struct {
	Name string `json:"name"`
}

// uploadResponse is the JSON response for a successful upload.
type uploadResponse struct {
	ID  string `json:"id"`
	Src string `json:"src"`
}

// newImageID generates a fresh 24-hex-character identifier.
func newImageID() (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// handleListImages handles GET /api/images with an optional ?name=substr
// filter (case-insensitive substring match on the image name).
func (s *Server) handleListImages(w http.ResponseWriter, r *http.Request) {
	nameFilter := strings.TrimSpace(r.URL.Query().Get("name"))

	images, err := s.store.ListImages(r.Context(), nameFilter)
	if err != nil {
		s.internalError(w, err, "listing images")
		return
	}

	response := make([]imageResponse, 0, len(images))
	for _, img := range images {
		response = append(response, imageResponse{
			ID:   img.ID,
			Name: img.Name,
			Src:  img.Src,
			Author: authorResponse{
				ID:       img.Owner.Username,
				Username: img.Owner.Username,
			},
		})
	}

	s.writeJSON(w, http.StatusOK, response)
}

// handleGetImage handles GET /api/images/{id}. A malformed identifier is
// indistinguishable from an absent one; both are 404.
func (s *Server) handleGetImage(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if !imageIDPattern.MatchString(id) {
		s.sendJSONError(w, http.StatusNotFound, "image does not exist")
		return
	}

	img, err := s.store.GetImage(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "image does not exist")
		return
	}
	if err != nil {
		s.internalError(w, err, "loading image")
		return
	}

	s.writeJSON(w, http.StatusOK, imageResponse{
		ID:   img.ID,
		Name: img.Name,
		Src:  img.Src,
		Author: authorResponse{
			ID:       img.OwnerUsername,
			Username: img.OwnerUsername,
		},
	})
}

// handleRenameImage handles PUT /api/images/{id}.
//
// Checks run in fixed priority order: structural validation of the request,
// then existence, then ownership, then the mutation. Repeating a successful
// rename with the same name is a 204 both times.
func (s *Server) handleRenameImage(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	var req renameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if req.Name == "" {
		s.sendJSONError(w, http.StatusBadRequest, "name is required")
		return
	}

	if utf8.RuneCountInString(req.Name) > maxImageNameLength {
		s.sendJSONError(w, http.StatusUnprocessableEntity, "image name exceeds 100 characters")
		return
	}

	// A malformed identifier cannot name any image
	id := r.PathValue("id")
	if !imageIDPattern.MatchString(id) {
		s.sendJSONError(w, http.StatusNotFound, "image does not exist")
		return
	}

	owner, err := s.store.GetImageOwner(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		s.sendJSONError(w, http.StatusNotFound, "image does not exist")
		return
	}
	if err != nil {
		s.internalError(w, err, "loading image owner")
		return
	}

	if !policy.CanModify(owner, identity.Username) {
		s.sendJSONError(w, http.StatusForbidden, "you do not own this image")
		return
	}

	if err := s.store.UpdateImageName(r.Context(), id, req.Name); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.sendJSONError(w, http.StatusNotFound, "image does not exist")
			return
		}
		s.internalError(w, err, "renaming image")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// handleUploadImage handles POST /api/images (multipart form with an
// "image" file and a "name" field). The authenticated identity becomes the
// image's immutable owner.
func (s *Server) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	identity := auth.MustFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, s.config.Uploads.MaxSizeBytes)
	if err := r.ParseMultipartForm(s.config.Uploads.MaxSizeBytes); err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.sendJSONError(w, http.StatusBadRequest, "image file is required")
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !s.extensionAllowed(ext) {
		s.sendJSONError(w, http.StatusUnprocessableEntity, "unsupported file extension")
		return
	}

	name := strings.TrimSpace(r.FormValue("name"))
	if name == "" {
		name = header.Filename
	}
	if utf8.RuneCountInString(name) > maxImageNameLength {
		s.sendJSONError(w, http.StatusUnprocessableEntity, "image name exceeds 100 characters")
		return
	}

	// Digest the content up front so identical bytes uploaded within the
	// dedupe window can share one stored file.
	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		s.internalError(w, err, "digesting upload")
		return
	}
	digest := hex.EncodeToString(hasher.Sum(nil))
	if _, err := file.Seek(0, io.SeekStart); err != nil {
		s.internalError(w, err, "rewinding upload")
		return
	}

	src, cached := s.uploadDedupe.Lookup(digest)
	if !cached {
		src, err = s.storeUploadFile(file, ext)
		if err != nil {
			s.internalError(w, err, "storing upload file")
			return
		}
		s.uploadDedupe.Remember(digest, src)
	}

	id, err := newImageID()
	if err != nil {
		s.internalError(w, err, "generating image id")
		return
	}

	img := &store.Image{
		ID:            id,
		Name:          name,
		Src:           src,
		OwnerUsername: identity.Username,
		CreatedAt:     time.Now().UTC(),
	}

	if err := s.store.CreateImage(r.Context(), img); err != nil {
		s.internalError(w, err, "creating image record")
		return
	}

	s.writeJSON(w, http.StatusCreated, uploadResponse{ID: img.ID, Src: img.Src})
}

// storeUploadFile writes the upload under a fresh random filename and
// returns its public src path. The file may end up shared by several image
// records through the dedupe cache, so callers must not delete it on their
// own failure paths.
func (s *Server) storeUploadFile(file io.Reader, ext string) (string, error) {
	if err := os.MkdirAll(s.config.Uploads.Dir, 0755); err != nil {
		return "", err
	}

	filename := uuid.New().String() + ext
	dstPath := filepath.Join(s.config.Uploads.Dir, filename)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dstPath)
		return "", err
	}

	return "/uploads/" + filename, nil
}

// extensionAllowed checks an extension against the configured allow-list.
func (s *Server) extensionAllowed(ext string) bool {
	for _, allowed := range s.config.Uploads.AllowedExts {
		if ext == allowed {
			return true
		}
	}
	return false
}
