package hashing

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"photo-vault/internal/faults"
)

func TestDigestDeterministic(t *testing.T) {
	t.Parallel()

	payload := []byte("the same bytes every time")

	first, err := Digest(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	second, err := Digest(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	if first != second {
		t.Errorf("same bytes produced different digests: %s vs %s", first, second)
	}
	if len(first) != DigestLength {
		t.Errorf("digest length = %d, want %d", len(first), DigestLength)
	}
}

func TestDigestDistinguishesContent(t *testing.T) {
	t.Parallel()

	a, err := Digest(strings.NewReader("payload a"))
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	b, err := Digest(strings.NewReader("payload b"))
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}

	if a == b {
		t.Error("different bytes produced identical digests")
	}
}

func TestDigestBytesMatchesReader(t *testing.T) {
	t.Parallel()

	payload := []byte{0x00, 0x01, 0xff, 0xfe}
	fromReader, err := Digest(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("Digest failed: %v", err)
	}
	if fromBytes := DigestBytes(payload); fromBytes != fromReader {
		t.Errorf("DigestBytes = %s, Digest = %s", fromBytes, fromReader)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) {
	return 0, errors.New("disk on fire")
}

func TestDigestReadFailure(t *testing.T) {
	t.Parallel()

	_, err := Digest(failingReader{})
	if err == nil {
		t.Fatal("expected an error from a failing reader")
	}
	if !faults.Read.Has(err) {
		t.Errorf("expected a read fault, got %v", err)
	}
}
