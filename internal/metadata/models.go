package metadata

import (
	"strings"
	"time"

	"photo-vault/internal/faults"
	"photo-vault/internal/hashing"
	"photo-vault/internal/imageformat"
)

// MaxAlbumNameLength is the longest accepted album name after trimming.
const MaxAlbumNameLength = 100

// dateLayout is how album dates are persisted; lexical order matches
// chronological order.
const dateLayout = "2006-01-02"

// Album is one photo album. Position is nil for albums without a
// user-assigned ordering slot.
type Album struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Date      time.Time `json:"date"`
	Position  *int      `json:"position,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Photo is one ingested photo's metadata. The binary payloads live in
// the blob store under the same ID.
type Photo struct {
	ID          string             `json:"id"`
	AlbumID     string             `json:"albumId"`
	Filename    string             `json:"filename"`
	ContentHash string             `json:"contentHash"`
	UploadedAt  time.Time          `json:"uploadedAt"`
	Size        int64              `json:"size"`
	Format      imageformat.Format `json:"format"`
	Width       int                `json:"width"`
	Height      int                `json:"height"`
}

// ValidateAlbumName trims name and checks it is 1-100 characters.
// Returns the trimmed name.
func ValidateAlbumName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", faults.Validation.New("album name must not be empty")
	}
	if len([]rune(trimmed)) > MaxAlbumNameLength {
		return "", faults.Validation.New("album name must be at most %d characters", MaxAlbumNameLength)
	}
	return trimmed, nil
}

// ValidateAlbumDate checks that date is set and not in the future.
func ValidateAlbumDate(date time.Time) error {
	if date.IsZero() {
		return faults.Validation.New("album date is required")
	}
	if date.After(time.Now()) {
		return faults.Validation.New("album date must not be in the future")
	}
	return nil
}

// Validate checks the photo record's shape before it is written. Invalid
// records are rejected at the boundary so the store never holds them.
func (p *Photo) Validate() error {
	switch {
	case p.AlbumID == "":
		return faults.Validation.New("photo album id is required")
	case p.Filename == "":
		return faults.Validation.New("photo filename is required")
	case len(p.ContentHash) != hashing.DigestLength:
		return faults.Validation.New("photo content hash must be %d hex characters", hashing.DigestLength)
	case !p.Format.Supported():
		return faults.Validation.New("unsupported photo format %q", p.Format)
	case p.Size <= 0:
		return faults.Validation.New("photo size must be positive")
	case p.Width <= 0 || p.Height <= 0:
		return faults.Validation.New("photo dimensions must be positive")
	}
	return nil
}
