// Package album implements the album lifecycle: creation, update and
// cascading deletion across both stores.
package album

import (
	"context"
	"time"

	"photo-vault/internal/blob"
	"photo-vault/internal/logging"
	"photo-vault/internal/metadata"
)

// Lifecycle creates, updates and deletes albums.
type Lifecycle struct {
	meta      *metadata.Store
	blobs     *blob.Store
	maxAlbums int
}

// NewLifecycle wires an album lifecycle over the two stores.
func NewLifecycle(meta *metadata.Store, blobs *blob.Store, maxAlbums int) *Lifecycle {
	return &Lifecycle{meta: meta, blobs: blobs, maxAlbums: maxAlbums}
}

// Create validates the name and date, enforces the album limit and
// inserts the album with a position at the end of the current sequence.
func (l *Lifecycle) Create(ctx context.Context, name string, date time.Time) (*metadata.Album, error) {
	trimmed, err := metadata.ValidateAlbumName(name)
	if err != nil {
		return nil, err
	}
	if err := metadata.ValidateAlbumDate(date); err != nil {
		return nil, err
	}
	return l.meta.CreateAlbum(ctx, trimmed, date, l.maxAlbums)
}

// Update re-validates and rewrites the album's name and date.
func (l *Lifecycle) Update(ctx context.Context, id, name string, date time.Time) (*metadata.Album, error) {
	trimmed, err := metadata.ValidateAlbumName(name)
	if err != nil {
		return nil, err
	}
	if err := metadata.ValidateAlbumDate(date); err != nil {
		return nil, err
	}
	return l.meta.UpdateAlbum(ctx, id, trimmed, date)
}

// Delete removes the album, its photos and their blob pairs as one
// cascading operation. Blob pairs go first: an interruption can leave
// orphan metadata rows (reconciled lazily at read time) but never
// unreachable blobs. The metadata cascade itself is a single
// transaction, so a partially deleted album is not observable.
func (l *Lifecycle) Delete(ctx context.Context, id string) error {
	if _, err := l.meta.GetAlbum(ctx, id); err != nil {
		return err
	}

	if err := l.blobs.DeleteAlbum(id); err != nil {
		return err
	}

	if err := l.meta.DeleteAlbumCascade(ctx, id); err != nil {
		return err
	}

	logging.Info("Deleted album %s with its photos and blobs", id)
	return nil
}
