package engine

import (
	"context"
	"time"

	"photo-vault/internal/album"
	"photo-vault/internal/blob"
	"photo-vault/internal/faults"
	"photo-vault/internal/ingest"
	"photo-vault/internal/logging"
	"photo-vault/internal/metadata"
	"photo-vault/internal/ordering"
	"photo-vault/internal/startup"
	"photo-vault/internal/thumbnail"
	"photo-vault/internal/uploader"
)

// Engine exposes the persistence and ingestion operations consumed by
// the UI layer.
type Engine struct {
	cfg *startup.Config

	meta  *metadata.Store
	blobs *blob.Store

	lifecycle *album.Lifecycle
	order     *ordering.Service
	scheduler *uploader.Scheduler
}

// New opens both stores under cfg's data directory and wires the
// services.
func New(ctx context.Context, cfg *startup.Config) (*Engine, error) {
	meta, err := metadata.New(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	blobs, err := blob.Open(cfg.BlobPath)
	if err != nil {
		_ = meta.Close()
		return nil, err
	}

	deriver := thumbnail.NewDeriver(cfg.ThumbnailSize)
	pipeline := ingest.NewPipeline(meta, blobs, deriver, cfg.MaxPhotosPerAlbum, cfg.MaxUploadBytes)

	return &Engine{
		cfg:       cfg,
		meta:      meta,
		blobs:     blobs,
		lifecycle: album.NewLifecycle(meta, blobs, cfg.MaxAlbums),
		order:     ordering.NewService(meta),
		scheduler: uploader.NewScheduler(pipeline, cfg.UploadWorkers),
	}, nil
}

// Close flushes and closes both stores.
func (e *Engine) Close() error {
	blobErr := e.blobs.Close()
	metaErr := e.meta.Close()
	if metaErr != nil {
		return metaErr
	}
	return blobErr
}

// CreateAlbum creates an album at the end of the current ordering.
func (e *Engine) CreateAlbum(ctx context.Context, name string, date time.Time) (*metadata.Album, error) {
	return e.lifecycle.Create(ctx, name, date)
}

// UpdateAlbum rewrites an album's name and date.
func (e *Engine) UpdateAlbum(ctx context.Context, id, name string, date time.Time) (*metadata.Album, error) {
	return e.lifecycle.Update(ctx, id, name, date)
}

// DeleteAlbum removes an album with all its photos and blob pairs.
func (e *Engine) DeleteAlbum(ctx context.Context, id string) error {
	return e.lifecycle.Delete(ctx, id)
}

// GetAlbum returns one album.
func (e *Engine) GetAlbum(ctx context.Context, id string) (*metadata.Album, error) {
	return e.meta.GetAlbum(ctx, id)
}

// ListAlbums returns all albums in the requested sort order.
func (e *Engine) ListAlbums(ctx context.Context, mode metadata.SortMode) ([]metadata.Album, error) {
	return e.order.Resolve(ctx, mode)
}

// ReorderAlbums persists a user-defined album sequence.
func (e *Engine) ReorderAlbums(ctx context.Context, orderedIDs []string) error {
	return e.order.Reorder(ctx, orderedIDs)
}

// UploadPhotos ingests files into an album with bounded concurrency,
// reporting per-item progress through onProgress.
func (e *Engine) UploadPhotos(ctx context.Context, albumID string, files []ingest.File, onProgress func(uploader.Progress)) uploader.Result {
	return e.scheduler.UploadMany(ctx, albumID, files, onProgress)
}

// DeletePhoto removes one photo from both stores. The blob pair goes
// first so an interruption leaves at worst an orphan metadata row.
func (e *Engine) DeletePhoto(ctx context.Context, photoID string) error {
	photo, err := e.meta.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	if err := e.blobs.Delete(photo.AlbumID, photo.ID); err != nil {
		return err
	}
	return e.meta.DeletePhoto(ctx, photoID)
}

// PhotoView is one photo with its thumbnail payload. Err is non-nil when
// the blob pair is missing: metadata/blob parity violations surface here,
// at read time, as consistency faults on the affected item only.
type PhotoView struct {
	Photo     metadata.Photo
	Thumbnail []byte
	Err       error
}

// GetAlbumPhotosWithThumbnails returns the album's photos joined with
// their thumbnails. A missing blob pair never fails the batch.
func (e *Engine) GetAlbumPhotosWithThumbnails(ctx context.Context, albumID string) ([]PhotoView, error) {
	if _, err := e.meta.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}

	photos, err := e.meta.PhotosByAlbum(ctx, albumID)
	if err != nil {
		return nil, err
	}

	views := make([]PhotoView, 0, len(photos))
	for _, photo := range photos {
		view := PhotoView{Photo: photo}
		rec, err := e.blobs.Get(photo.ID)
		switch {
		case err == nil:
			view.Thumbnail = rec.Thumbnail
		case faults.NotFound.Has(err):
			view.Err = faults.Consistency.New("blob pair missing for photo %s", photo.ID)
			logging.Warn("blob pair missing for photo %s in album %s", photo.ID, albumID)
		default:
			view.Err = err
		}
		views = append(views, view)
	}
	return views, nil
}

// GetPhotoOriginal returns a photo's original payload.
func (e *Engine) GetPhotoOriginal(ctx context.Context, photoID string) ([]byte, error) {
	if _, err := e.meta.GetPhoto(ctx, photoID); err != nil {
		return nil, err
	}
	rec, err := e.blobs.Get(photoID)
	if faults.NotFound.Has(err) {
		return nil, faults.Consistency.New("blob pair missing for photo %s", photoID)
	}
	if err != nil {
		return nil, err
	}
	return rec.Original, nil
}

// Orphans lists photo ids whose blob pair is missing, the lazy
// reconciliation hook for the accepted metadata-first write ordering.
func (e *Engine) Orphans(ctx context.Context) ([]string, error) {
	albums, err := e.meta.ListAlbums(ctx, metadata.SortByDate)
	if err != nil {
		return nil, err
	}

	var orphans []string
	for _, a := range albums {
		ids, err := e.meta.PhotoIDsByAlbum(ctx, a.ID)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			found, err := e.blobs.Has(id)
			if err != nil {
				return nil, err
			}
			if !found {
				orphans = append(orphans, id)
			}
		}
	}
	return orphans, nil
}

// Stats returns album/photo totals from the metadata store and refreshes
// the blob store gauges.
func (e *Engine) Stats(ctx context.Context) (metadata.Stats, error) {
	if _, _, err := e.blobs.Stat(); err != nil {
		return metadata.Stats{}, err
	}
	return e.meta.GetStats(ctx)
}
