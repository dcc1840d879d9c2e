// Package faults defines the engine's error taxonomy. Every error that
// crosses a package boundary belongs to exactly one of these classes so
// callers can classify outcomes without string matching.
package faults

import "github.com/zeebo/errs"

var (
	// Validation covers bad input shape or range and business capacity
	// limits (album count, photos per album, file size).
	Validation = errs.Class("validation")

	// Duplicate means the content is already present in the target album.
	Duplicate = errs.Class("duplicate")

	// Decode means a payload could not be interpreted as a supported image.
	Decode = errs.Class("decode")

	// Capacity means the storage medium refused a write (device full or
	// quota exceeded). Requires user intervention, not a retry.
	Capacity = errs.Class("capacity")

	// NotFound means an unknown album or photo identifier.
	NotFound = errs.Class("not found")

	// Consistency means metadata/blob parity is violated. Surfaced at read
	// time; never raised during writes.
	Consistency = errs.Class("consistency")

	// Read means a payload could not be fully read.
	Read = errs.Class("read")
)
