// Package ingest implements the single-file ingestion pipeline.
//
// Each file passes through, in order: format and size validation,
// content fingerprinting, duplicate detection against the target album,
// thumbnail derivation, then the dual-store commit. The metadata row is
// written before the blob pair, so an interruption between the two
// leaves at worst an orphan metadata row, which readers surface as a
// consistency fault instead of serving a broken photo.
package ingest
