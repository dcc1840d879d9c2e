package metadata

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"photo-vault/internal/faults"
	"photo-vault/internal/logging"
)

// SortMode selects how ListAlbums orders its result.
type SortMode string

const (
	// SortCustom orders by the user-assigned position, ascending.
	// Albums without a position follow, newest date first.
	SortCustom SortMode = "custom"
	// SortByDate orders by album date descending, name ascending as the
	// tie-break for equal dates.
	SortByDate SortMode = "date"
)

// CreateAlbum inserts a new album with a fresh identifier and a position
// at the end of the current sequence. The album count limit is enforced
// inside the same transaction, so a full store never gains a row.
func (s *Store) CreateAlbum(ctx context.Context, name string, date time.Time, maxAlbums int) (*Album, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("create_album", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin create album: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err = tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&count); err != nil {
		return nil, fmt.Errorf("count albums: %w", err)
	}
	if count >= maxAlbums {
		err = faults.Validation.New("album limit reached (%d)", maxAlbums)
		return nil, err
	}

	var next int
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position)+1, 0) FROM albums`).Scan(&next); err != nil {
		return nil, fmt.Errorf("next position: %w", err)
	}

	now := time.Now()
	album := &Album{
		ID:        uuid.NewString(),
		Name:      name,
		Date:      date,
		Position:  &next,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO albums (id, name, date, position, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		album.ID, album.Name, album.Date.Format(dateLayout), next, now.Unix(), now.Unix())
	if err != nil {
		return nil, fmt.Errorf("insert album: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create album: %w", err)
	}

	logging.Debug("Created album %s (%q)", album.ID, album.Name)
	return album, nil
}

// GetAlbum returns the album with the given id.
func (s *Store) GetAlbum(ctx context.Context, id string) (*Album, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_album", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, date, position, created_at, updated_at FROM albums WHERE id = ?`, id)

	album, err := scanAlbum(row)
	if errors.Is(err, sql.ErrNoRows) {
		err = faults.NotFound.New("album %s", id)
		return nil, err
	}
	return album, err
}

// UpdateAlbum rewrites the album's name and date and bumps its updated
// timestamp. Ordering position is untouched.
func (s *Store) UpdateAlbum(ctx context.Context, id, name string, date time.Time) (*Album, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("update_album", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	now := time.Now()
	res, err := s.db.ExecContext(ctx,
		`UPDATE albums SET name = ?, date = ?, updated_at = ? WHERE id = ?`,
		name, date.Format(dateLayout), now.Unix(), id)
	if err != nil {
		return nil, fmt.Errorf("update album: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		err = faults.NotFound.New("album %s", id)
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, date, position, created_at, updated_at FROM albums WHERE id = ?`, id)
	return scanAlbum(row)
}

// DeleteAlbumCascade removes the album, its photos and its ordering slot
// in one transaction. A partial cascade is never observable.
func (s *Store) DeleteAlbumCascade(ctx context.Context, id string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("delete_album", start, err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete album: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err = tx.ExecContext(ctx, `DELETE FROM photos WHERE album_id = ?`, id); err != nil {
		return fmt.Errorf("delete album photos: %w", err)
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM albums WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete album: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows == 0 {
		err = faults.NotFound.New("album %s", id)
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete album: %w", err)
	}

	logging.Debug("Deleted album %s", id)
	return nil
}

// ListAlbums returns all albums in the requested order.
func (s *Store) ListAlbums(ctx context.Context, mode SortMode) ([]Album, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("list_albums", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	order := `date DESC, name COLLATE NOCASE ASC`
	if mode == SortCustom {
		order = `position IS NULL, position ASC, date DESC, name COLLATE NOCASE ASC`
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, date, position, created_at, updated_at FROM albums ORDER BY `+order)
	if err != nil {
		return nil, fmt.Errorf("list albums: %w", err)
	}
	defer rows.Close()

	var albums []Album
	for rows.Next() {
		album, scanErr := scanAlbum(rows)
		if scanErr != nil {
			err = scanErr
			return nil, err
		}
		albums = append(albums, *album)
	}
	err = rows.Err()
	if err != nil {
		return nil, err
	}
	return albums, nil
}

// CountAlbums returns the number of albums in the store.
func (s *Store) CountAlbums(ctx context.Context) (int, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("count_albums", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var count int
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&count)
	return count, err
}

// SetPositions assigns each album a position equal to its index in
// orderedIDs, all or nothing. If any id is unknown or repeated the call
// fails and no position changes; albums missing from the list lose
// their position and fall back to the default order.
func (s *Store) SetPositions(ctx context.Context, orderedIDs []string) error {
	start := time.Now()
	var err error
	defer func() { recordQuery("set_positions", start, err) }()

	// A repeated id would be overwritten last-wins and leave a gap in
	// the sequence, so the batch is malformed.
	seen := make(map[string]struct{}, len(orderedIDs))
	for _, id := range orderedIDs {
		if _, dup := seen[id]; dup {
			err = faults.Validation.New("album %s listed twice in ordering", id)
			return err
		}
		seen[id] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin reorder: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	// Clear first so re-assignment cannot trip the unique position index.
	if _, err = tx.ExecContext(ctx, `UPDATE albums SET position = NULL`); err != nil {
		return fmt.Errorf("clear positions: %w", err)
	}

	for i, id := range orderedIDs {
		res, execErr := tx.ExecContext(ctx,
			`UPDATE albums SET position = ? WHERE id = ?`, i, id)
		if execErr != nil {
			err = fmt.Errorf("assign position %d: %w", i, execErr)
			return err
		}
		if rows, _ := res.RowsAffected(); rows == 0 {
			err = faults.NotFound.New("album %s", id)
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit reorder: %w", err)
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanAlbum(row scanner) (*Album, error) {
	var (
		album     Album
		date      string
		position  sql.NullInt64
		createdAt int64
		updatedAt int64
	)
	if err := row.Scan(&album.ID, &album.Name, &date, &position, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	parsed, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil, fmt.Errorf("malformed album date %q: %w", date, err)
	}
	album.Date = parsed
	if position.Valid {
		p := int(position.Int64)
		album.Position = &p
	}
	album.CreatedAt = time.Unix(createdAt, 0)
	album.UpdatedAt = time.Unix(updatedAt, 0)
	return &album, nil
}
