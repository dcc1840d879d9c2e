package ingest

import (
	"context"
	"time"

	"photo-vault/internal/blob"
	"photo-vault/internal/faults"
	"photo-vault/internal/hashing"
	"photo-vault/internal/imageformat"
	"photo-vault/internal/logging"
	"photo-vault/internal/metadata"
	"photo-vault/internal/metrics"
	"photo-vault/internal/thumbnail"
)

// File is one upload payload as handed over by the caller.
type File struct {
	Name string
	Data []byte
}

// Pipeline orchestrates one file's ingestion into one album.
type Pipeline struct {
	meta      *metadata.Store
	blobs     *blob.Store
	deriver   *thumbnail.Deriver
	maxPhotos int
	maxBytes  int64
}

// NewPipeline wires an ingestion pipeline over the two stores.
func NewPipeline(meta *metadata.Store, blobs *blob.Store, deriver *thumbnail.Deriver, maxPhotos int, maxBytes int64) *Pipeline {
	return &Pipeline{
		meta:      meta,
		blobs:     blobs,
		deriver:   deriver,
		maxPhotos: maxPhotos,
		maxBytes:  maxBytes,
	}
}

// Ingest runs the pipeline for one file. Every step short-circuits on
// failure with a typed fault: validation (format, capacity, size),
// duplicate (content already in the album), decode (unreadable image)
// or capacity (storage device full).
//
// Metadata is written before the blob pair. If the process dies between
// the two writes the leftover is an orphan metadata row, which is
// reconciled lazily at read time; an orphan blob would be unreachable
// storage, so the reverse order is never used.
func (p *Pipeline) Ingest(ctx context.Context, albumID string, file File) (*metadata.Photo, error) {
	start := time.Now()
	metrics.UploadsInFlight.Inc()
	defer func() {
		metrics.UploadsInFlight.Dec()
		metrics.UploadDuration.Observe(time.Since(start).Seconds())
	}()

	// Cheap checks before any hashing or decoding.
	format := imageformat.FromFilename(file.Name)
	if !format.Supported() {
		return nil, faults.Validation.New("unsupported format for %q", file.Name)
	}

	if _, err := p.meta.GetAlbum(ctx, albumID); err != nil {
		return nil, err
	}

	count, err := p.meta.CountPhotos(ctx, albumID)
	if err != nil {
		return nil, err
	}
	if count >= p.maxPhotos {
		return nil, faults.Validation.New("album %s is full (%d photos)", albumID, p.maxPhotos)
	}

	if len(file.Data) == 0 {
		return nil, faults.Validation.New("empty file %q", file.Name)
	}
	if int64(len(file.Data)) > p.maxBytes {
		return nil, faults.Validation.New("file %q exceeds the %d byte limit", file.Name, p.maxBytes)
	}

	contentHash := hashing.DigestBytes(file.Data)

	// Duplicate guard: a hit is a hard reject naming the photo that owns
	// the content.
	if existing, err := p.meta.FindPhotoByHash(ctx, albumID, contentHash); err == nil {
		return nil, faults.Duplicate.New("identical to %q already in album", existing.Filename)
	} else if !faults.NotFound.Has(err) {
		return nil, err
	}

	width, height, err := thumbnail.Dimensions(file.Data)
	if err != nil {
		return nil, err
	}

	thumb, err := p.deriver.Derive(file.Data)
	if err != nil {
		return nil, err
	}

	photo := &metadata.Photo{
		AlbumID:     albumID,
		Filename:    file.Name,
		ContentHash: contentHash,
		Size:        int64(len(file.Data)),
		Format:      format,
		Width:       width,
		Height:      height,
	}

	// Metadata first, then the blob pair under the assigned id. The
	// unique index backstops racing duplicates of the same content.
	if err := p.meta.CreatePhoto(ctx, photo, p.maxPhotos); err != nil {
		return nil, err
	}

	err = p.blobs.Put(blob.Record{
		PhotoID:     photo.ID,
		AlbumID:     albumID,
		ContentHash: contentHash,
		Original:    file.Data,
		Thumbnail:   thumb,
	})
	if err != nil {
		// Undo the metadata row so a retry is not rejected as a
		// duplicate. The cleanup runs detached from ctx: it must happen
		// even when the caller has already given up. If the undo fails
		// too, the row is an orphan of the accepted kind and read paths
		// report it.
		if delErr := p.meta.DeletePhoto(context.WithoutCancel(ctx), photo.ID); delErr != nil {
			logging.Warn("orphan metadata left for photo %s: %v", photo.ID, delErr)
		}
		return nil, err
	}

	logging.Debug("Ingested %q as photo %s (%dx%d, %d bytes)",
		file.Name, photo.ID, width, height, photo.Size)
	return photo, nil
}
