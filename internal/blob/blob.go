package blob

import (
	"bytes"
	"encoding/gob"
	"errors"
	"syscall"
	"time"

	"github.com/boltdb/bolt"

	"photo-vault/internal/faults"
	"photo-vault/internal/logging"
	"photo-vault/internal/metrics"
)

const fileMode = 0o600

var (
	recordsBucket = []byte("records")
	albumBucket   = []byte("album_index")
)

var openTimeout = 1 * time.Second

// Record is one stored blob pair.
type Record struct {
	PhotoID     string
	AlbumID     string
	ContentHash string
	Original    []byte
	Thumbnail   []byte
}

// Store is a BoltDB-backed blob store.
type Store struct {
	db   *bolt.DB
	path string
}

// Open opens (creating if necessary) the blob store at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, fileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, classifyWrite(err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(recordsBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucketIfNotExists(albumBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, classifyWrite(err)
	}

	logging.Info("Blob store opened at %s", path)
	return &Store{db: db, path: path}, nil
}

// Close closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Put writes a blob pair. An existing record under the same photo id is
// overwritten.
func (s *Store) Put(rec Record) error {
	if rec.PhotoID == "" {
		return faults.Validation.New("blob record requires a photo id")
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(rec); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(recordsBucket).Put([]byte(rec.PhotoID), buf.Bytes()); err != nil {
			return err
		}
		return tx.Bucket(albumBucket).Put(albumKey(rec.AlbumID, rec.PhotoID), []byte(rec.PhotoID))
	})
	return classifyWrite(err)
}

// Get returns the blob pair for a photo id, or a not-found fault.
func (s *Store) Get(photoID string) (*Record, error) {
	var rec Record
	err := s.db.View(func(tx *bolt.Tx) error {
		raw := tx.Bucket(recordsBucket).Get([]byte(photoID))
		if raw == nil {
			return faults.NotFound.New("blob pair %s", photoID)
		}
		return gob.NewDecoder(bytes.NewReader(raw)).Decode(&rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Has reports whether a blob pair exists for the photo id.
func (s *Store) Has(photoID string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bolt.Tx) error {
		found = tx.Bucket(recordsBucket).Get([]byte(photoID)) != nil
		return nil
	})
	return found, err
}

// Delete removes a photo's blob pair. Deleting an absent key is not an
// error.
func (s *Store) Delete(albumID, photoID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.Bucket(recordsBucket).Delete([]byte(photoID)); err != nil {
			return err
		}
		return tx.Bucket(albumBucket).Delete(albumKey(albumID, photoID))
	})
	return classifyWrite(err)
}

// DeleteAlbum removes every blob pair belonging to an album. Idempotent
// like Delete.
func (s *Store) DeleteAlbum(albumID string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		index := tx.Bucket(albumBucket)

		c := index.Cursor()
		prefix := albumKey(albumID, "")
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := records.Delete(v); err != nil {
				return err
			}
			if err := c.Delete(); err != nil {
				return err
			}
		}
		return nil
	})
	return classifyWrite(err)
}

// Stat returns the record count and the approximate payload bytes held,
// and refreshes the store gauges.
func (s *Store) Stat() (count int, size int64, err error) {
	err = s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(recordsBucket).ForEach(func(k, v []byte) error {
			count++
			size += int64(len(v))
			return nil
		})
	})
	if err != nil {
		return 0, 0, err
	}
	metrics.BlobStoreRecords.Set(float64(count))
	metrics.BlobStoreBytes.Set(float64(size))
	return count, size, nil
}

func albumKey(albumID, photoID string) []byte {
	return []byte(albumID + "/" + photoID)
}

// classifyWrite maps a storage-medium-full failure to a capacity fault
// so callers can tell it apart from programming errors.
func classifyWrite(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, syscall.ENOSPC) || errors.Is(err, syscall.EDQUOT) {
		return faults.Capacity.Wrap(err)
	}
	return err
}
