// Package blob is the keyed binary store for photo payloads, backed by
// BoltDB.
//
// Each photo id maps to one record holding the original file and its
// thumbnail, with the content fingerprint duplicated for direct lookup.
// A secondary bucket indexes records by album so a whole album's
// payloads can be dropped in one transaction. BoltDB serializes writers
// natively, so records for the same key never interleave.
package blob
