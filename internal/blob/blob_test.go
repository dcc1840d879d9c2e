package blob

import (
	"bytes"
	"path/filepath"
	"testing"

	"photo-vault/internal/faults"
)

func setupTestStore(t testing.TB) *Store {
	t.Helper()

	s, err := Open(filepath.Join(t.TempDir(), "blobs.bolt"))
	if err != nil {
		t.Fatalf("Failed to open blob store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testRecord(albumID, photoID string) Record {
	return Record{
		PhotoID:     photoID,
		AlbumID:     albumID,
		ContentHash: "hash-" + photoID,
		Original:    []byte("original bytes for " + photoID),
		Thumbnail:   []byte("thumb bytes for " + photoID),
	}
}

func TestPutGetRoundTrip(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	rec := testRecord("album-1", "photo-1")

	if err := s.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	got, err := s.Get("photo-1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if got.AlbumID != rec.AlbumID || got.ContentHash != rec.ContentHash {
		t.Errorf("record fields lost: got %+v", got)
	}
	if !bytes.Equal(got.Original, rec.Original) || !bytes.Equal(got.Thumbnail, rec.Thumbnail) {
		t.Error("payloads did not round-trip")
	}
}

func TestPutRequiresPhotoID(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	err := s.Put(Record{AlbumID: "album-1"})
	if !faults.Validation.Has(err) {
		t.Errorf("expected a validation fault, got %v", err)
	}
}

func TestGetMissing(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	_, err := s.Get("absent")
	if !faults.NotFound.Has(err) {
		t.Errorf("expected a not-found fault, got %v", err)
	}

	found, err := s.Has("absent")
	if err != nil {
		t.Fatalf("Has failed: %v", err)
	}
	if found {
		t.Error("Has reported an absent record as present")
	}
}

func TestDeleteIdempotent(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)
	rec := testRecord("album-1", "photo-1")
	if err := s.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := s.Delete("album-1", "photo-1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get("photo-1"); !faults.NotFound.Has(err) {
		t.Error("record should be gone after delete")
	}

	// Deleting a non-existent key is not an error.
	if err := s.Delete("album-1", "photo-1"); err != nil {
		t.Errorf("second delete should be a no-op, got %v", err)
	}
	if err := s.Delete("album-x", "never-existed"); err != nil {
		t.Errorf("deleting an unknown key should be a no-op, got %v", err)
	}
}

func TestDeleteAlbum(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)

	for _, id := range []string{"p1", "p2", "p3"} {
		if err := s.Put(testRecord("album-a", id)); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
	}
	if err := s.Put(testRecord("album-b", "p4")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	if err := s.DeleteAlbum("album-a"); err != nil {
		t.Fatalf("DeleteAlbum failed: %v", err)
	}

	for _, id := range []string{"p1", "p2", "p3"} {
		if _, err := s.Get(id); !faults.NotFound.Has(err) {
			t.Errorf("record %s survived album delete", id)
		}
	}
	if _, err := s.Get("p4"); err != nil {
		t.Errorf("unrelated album's record was deleted: %v", err)
	}

	// Idempotent, like Delete.
	if err := s.DeleteAlbum("album-a"); err != nil {
		t.Errorf("second DeleteAlbum should be a no-op, got %v", err)
	}
}

func TestStat(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)

	count, _, err := s.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if count != 0 {
		t.Errorf("empty store count = %d, want 0", count)
	}

	if err := s.Put(testRecord("album-a", "p1")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	if err := s.Put(testRecord("album-a", "p2")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	count, size, err := s.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if count != 2 {
		t.Errorf("count = %d, want 2", count)
	}
	if size <= 0 {
		t.Errorf("size = %d, want > 0", size)
	}
}

func TestPutOverwrites(t *testing.T) {
	t.Parallel()

	s := setupTestStore(t)

	rec := testRecord("album-a", "p1")
	if err := s.Put(rec); err != nil {
		t.Fatalf("Put failed: %v", err)
	}

	rec.Thumbnail = []byte("replacement thumbnail")
	if err := s.Put(rec); err != nil {
		t.Fatalf("second Put failed: %v", err)
	}

	got, err := s.Get("p1")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got.Thumbnail, rec.Thumbnail) {
		t.Error("overwrite did not take effect")
	}

	count, _, err := s.Stat()
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if count != 1 {
		t.Errorf("count = %d after overwrite, want 1", count)
	}
}
