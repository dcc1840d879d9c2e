// Package hashing computes content fingerprints for uploaded files.
// The fingerprint is a hex-encoded SHA-256 digest of the file's bytes:
// identical bytes always produce identical fingerprints, so the digest
// can be used for duplicate detection within an album.
package hashing

import (
	"crypto/sha256"
	"encoding/hex"
	"io"

	"photo-vault/internal/faults"
)

// DigestLength is the length of a hex-encoded fingerprint.
const DigestLength = sha256.Size * 2

// Digest reads r to EOF and returns the hex-encoded SHA-256 digest of
// its contents. A short or failed read is reported as a read fault.
func Digest(r io.Reader) (string, error) {
	h := sha256.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", faults.Read.Wrap(err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// DigestBytes returns the hex-encoded SHA-256 digest of b.
func DigestBytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}
