package ingest

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"
	"time"

	"photo-vault/internal/blob"
	"photo-vault/internal/faults"
	"photo-vault/internal/metadata"
	"photo-vault/internal/thumbnail"
)

const (
	testMaxPhotos = 500
	testMaxBytes  = 1 << 20
)

type fixture struct {
	pipeline *Pipeline
	meta     *metadata.Store
	blobs    *blob.Store
}

func setupPipeline(t testing.TB, maxPhotos int, maxBytes int64) *fixture {
	t.Helper()

	dir := t.TempDir()
	meta, err := metadata.New(context.Background(), filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create metadata store: %v", err)
	}
	t.Cleanup(func() { _ = meta.Close() })

	blobs, err := blob.Open(filepath.Join(dir, "blobs.bolt"))
	if err != nil {
		t.Fatalf("Failed to open blob store: %v", err)
	}
	t.Cleanup(func() { _ = blobs.Close() })

	return &fixture{
		pipeline: NewPipeline(meta, blobs, thumbnail.NewDeriver(50), maxPhotos, maxBytes),
		meta:     meta,
		blobs:    blobs,
	}
}

func (f *fixture) mustCreateAlbum(t testing.TB, name string) *metadata.Album {
	t.Helper()

	album, err := f.meta.CreateAlbum(context.Background(), name,
		time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC), 100)
	if err != nil {
		t.Fatalf("CreateAlbum failed: %v", err)
	}
	return album
}

// pngFile builds a valid PNG upload whose bytes depend on the color.
func pngFile(t testing.TB, name string, c color.RGBA) File {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode fixture: %v", err)
	}
	return File{Name: name, Data: buf.Bytes()}
}

func TestIngestSuccess(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, testMaxBytes)
	album := f.mustCreateAlbum(t, "Trip")
	ctx := context.Background()

	file := pngFile(t, "sunset.png", color.RGBA{R: 250, A: 255})
	photo, err := f.pipeline.Ingest(ctx, album.ID, file)
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if photo.ID == "" {
		t.Fatal("photo should have a store-assigned id")
	}
	if photo.Width != 64 || photo.Height != 48 {
		t.Errorf("dimensions = %dx%d, want 64x48", photo.Width, photo.Height)
	}
	if photo.Size != int64(len(file.Data)) {
		t.Errorf("size = %d, want %d", photo.Size, len(file.Data))
	}

	// Both stores hold the photo: metadata row and blob pair.
	if _, err := f.meta.GetPhoto(ctx, photo.ID); err != nil {
		t.Errorf("metadata row missing: %v", err)
	}
	rec, err := f.blobs.Get(photo.ID)
	if err != nil {
		t.Fatalf("blob pair missing: %v", err)
	}
	if !bytes.Equal(rec.Original, file.Data) {
		t.Error("original payload did not round-trip")
	}
	if len(rec.Thumbnail) == 0 {
		t.Error("thumbnail payload is empty")
	}
	if rec.ContentHash != photo.ContentHash {
		t.Error("blob record's fingerprint disagrees with metadata")
	}
}

func TestIngestDuplicateSameAlbum(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, testMaxBytes)
	album := f.mustCreateAlbum(t, "Dups")
	ctx := context.Background()

	c := color.RGBA{G: 180, A: 255}
	if _, err := f.pipeline.Ingest(ctx, album.ID, pngFile(t, "original.png", c)); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}

	// Identical bytes under a different filename: hard reject.
	_, err := f.pipeline.Ingest(ctx, album.ID, pngFile(t, "copy.png", c))
	if !faults.Duplicate.Has(err) {
		t.Fatalf("expected a duplicate fault, got %v", err)
	}

	count, err := f.meta.CountPhotos(ctx, album.ID)
	if err != nil {
		t.Fatalf("CountPhotos failed: %v", err)
	}
	if count != 1 {
		t.Errorf("album has %d photos after duplicate reject, want 1", count)
	}
	blobCount, _, err := f.blobs.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if blobCount != 1 {
		t.Errorf("blob store has %d records after duplicate reject, want 1", blobCount)
	}
}

func TestIngestSameBytesDifferentAlbums(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, testMaxBytes)
	first := f.mustCreateAlbum(t, "First")
	second := f.mustCreateAlbum(t, "Second")
	ctx := context.Background()

	c := color.RGBA{B: 99, A: 255}
	if _, err := f.pipeline.Ingest(ctx, first.ID, pngFile(t, "shared.png", c)); err != nil {
		t.Fatalf("Ingest into first album failed: %v", err)
	}
	if _, err := f.pipeline.Ingest(ctx, second.ID, pngFile(t, "shared.png", c)); err != nil {
		t.Fatalf("uniqueness must be scoped per album, got %v", err)
	}
}

func TestIngestUnsupportedFormat(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, testMaxBytes)
	album := f.mustCreateAlbum(t, "Strict")

	_, err := f.pipeline.Ingest(context.Background(), album.ID, File{Name: "scan.bmp", Data: []byte("data")})
	if !faults.Validation.Has(err) {
		t.Errorf("expected a validation fault for .bmp, got %v", err)
	}
}

func TestIngestAlbumFull(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, 1, testMaxBytes)
	album := f.mustCreateAlbum(t, "Full")
	ctx := context.Background()

	if _, err := f.pipeline.Ingest(ctx, album.ID, pngFile(t, "one.png", color.RGBA{R: 1, A: 255})); err != nil {
		t.Fatalf("first Ingest failed: %v", err)
	}

	_, err := f.pipeline.Ingest(ctx, album.ID, pngFile(t, "two.png", color.RGBA{R: 2, A: 255}))
	if !faults.Validation.Has(err) {
		t.Fatalf("expected a validation fault for a full album, got %v", err)
	}

	// Neither store gained a record.
	if count, _ := f.meta.CountPhotos(ctx, album.ID); count != 1 {
		t.Errorf("metadata count = %d, want 1", count)
	}
	if count, _, _ := f.blobs.Stat(); count != 1 {
		t.Errorf("blob count = %d, want 1", count)
	}
}

func TestIngestSizeLimit(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, 16)
	album := f.mustCreateAlbum(t, "Small")

	_, err := f.pipeline.Ingest(context.Background(), album.ID, pngFile(t, "big.png", color.RGBA{R: 3, A: 255}))
	if !faults.Validation.Has(err) {
		t.Errorf("expected a validation fault for an oversized file, got %v", err)
	}
}

func TestIngestEmptyFile(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, testMaxBytes)
	album := f.mustCreateAlbum(t, "Empty")

	_, err := f.pipeline.Ingest(context.Background(), album.ID, File{Name: "void.png"})
	if !faults.Validation.Has(err) {
		t.Errorf("expected a validation fault for an empty file, got %v", err)
	}
}

func TestIngestUndecodablePayload(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, testMaxBytes)
	album := f.mustCreateAlbum(t, "Garbage")
	ctx := context.Background()

	_, err := f.pipeline.Ingest(ctx, album.ID, File{Name: "fake.png", Data: []byte("not a png")})
	if !faults.Decode.Has(err) {
		t.Fatalf("expected a decode fault, got %v", err)
	}

	if count, _ := f.meta.CountPhotos(ctx, album.ID); count != 0 {
		t.Errorf("decode failure left %d metadata rows", count)
	}
	if count, _, _ := f.blobs.Stat(); count != 0 {
		t.Errorf("decode failure left %d blob records", count)
	}
}

func TestIngestUnknownAlbum(t *testing.T) {
	t.Parallel()

	f := setupPipeline(t, testMaxPhotos, testMaxBytes)
	_, err := f.pipeline.Ingest(context.Background(), "no-such-album",
		pngFile(t, "lost.png", color.RGBA{R: 9, A: 255}))
	if !faults.NotFound.Has(err) {
		t.Errorf("expected a not-found fault, got %v", err)
	}
}
