package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"photo-vault/internal/faults"
	"photo-vault/internal/imageformat"
	"photo-vault/internal/logging"
)

const photoColumns = `id, album_id, filename, content_hash, uploaded_at, size, format, width, height`

// CreatePhoto inserts a photo row, assigning it a fresh identifier. The
// per-album photo limit and the (album, content hash) uniqueness are both
// enforced inside one transaction: a full album never gains a row and
// racing duplicate inserts lose with a duplicate fault.
func (s *Store) CreatePhoto(ctx context.Context, photo *Photo, maxPhotos int) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("create_photo", start, err) }()

	if err = photo.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create photo: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM albums WHERE id = ?`, photo.AlbumID).Scan(&exists); err != nil {
		return fmt.Errorf("check album: %w", err)
	}
	if exists == 0 {
		err = faults.NotFound.New("album %s", photo.AlbumID)
		return err
	}

	var count int
	if err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM photos WHERE album_id = ?`, photo.AlbumID).Scan(&count); err != nil {
		return fmt.Errorf("count album photos: %w", err)
	}
	if count >= maxPhotos {
		err = faults.Validation.New("album photo limit reached (%d)", maxPhotos)
		return err
	}

	photo.ID = uuid.NewString()
	photo.UploadedAt = time.Now()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO photos (`+photoColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		photo.ID, photo.AlbumID, photo.Filename, photo.ContentHash,
		photo.UploadedAt.Unix(), photo.Size, string(photo.Format), photo.Width, photo.Height)
	if err != nil {
		if isUniqueViolation(err) {
			err = faults.Duplicate.New("content %s already in album %s", photo.ContentHash, photo.AlbumID)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit create photo: %w", err)
	}

	logging.Debug("Created photo %s in album %s", photo.ID, photo.AlbumID)
	return nil
}

// GetPhoto returns the photo with the given id.
func (s *Store) GetPhoto(ctx context.Context, id string) (*Photo, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_photo", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE id = ?`, id)

	photo, err := scanPhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = faults.NotFound.New("photo %s", id)
		return nil, err
	}
	return photo, err
}

// FindPhotoByHash returns the photo in albumID carrying contentHash, or a
// not-found fault. This is the indexed duplicate lookup.
func (s *Store) FindPhotoByHash(ctx context.Context, albumID, contentHash string) (*Photo, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("find_photo_by_hash", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE album_id = ? AND content_hash = ?`,
		albumID, contentHash)

	photo, err := scanPhoto(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = faults.NotFound.New("no photo with hash %s in album %s", contentHash, albumID)
		return nil, err
	}
	return photo, err
}

// PhotosByAlbum returns all photos in an album, oldest upload first.
func (s *Store) PhotosByAlbum(ctx context.Context, albumID string) ([]Photo, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("photos_by_album", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+photoColumns+` FROM photos WHERE album_id = ? ORDER BY uploaded_at ASC, id ASC`,
		albumID)
	if err != nil {
		return nil, fmt.Errorf("photos by album: %w", err)
	}
	defer rows.Close()

	var photos []Photo
	for rows.Next() {
		photo, scanErr := scanPhoto(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		photos = append(photos, *photo)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return photos, nil
}

// PhotoIDsByAlbum returns the ids of all photos in an album.
func (s *Store) PhotoIDsByAlbum(ctx context.Context, albumID string) ([]string, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("photo_ids_by_album", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM photos WHERE album_id = ?`, albumID)
	if err != nil {
		return nil, fmt.Errorf("photo ids by album: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	return ids, err
}

// CountPhotos returns the number of photos in an album.
func (s *Store) CountPhotos(ctx context.Context, albumID string) (int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("count_photos", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM photos WHERE album_id = ?`, albumID).Scan(&count)
	return count, err
}

// DeletePhoto removes a photo row.
func (s *Store) DeletePhoto(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_photo", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM photos WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete photo: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		err = faults.NotFound.New("photo %s", id)
		return err
	}
	return nil
}

func scanPhoto(row scanner) (*Photo, error) {
	var (
		photo      Photo
		uploadedAt int64
		format     string
	)
	if err := row.Scan(&photo.ID, &photo.AlbumID, &photo.Filename, &photo.ContentHash,
		&uploadedAt, &photo.Size, &format, &photo.Width, &photo.Height); err != nil {
		return nil, err
	}
	photo.UploadedAt = time.Unix(uploadedAt, 0)
	photo.Format = imageformat.Format(format)
	return &photo, nil
}
