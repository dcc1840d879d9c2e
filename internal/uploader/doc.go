// Package uploader runs many ingestion pipelines concurrently with a
// bounded worker pool.
//
// A batch of files fans out over a fixed number of workers. Each file
// lands in exactly one of three outcome buckets:
//   - Succeeded: the photo committed to both stores
//   - Duplicates: rejected because identical content already exists in the album
//   - Failed: any other error, including cancellation
//
// Progress callbacks are serialized, so observed counts only grow and
// the final callback always reports current == total. Cancelling the
// context stops work promptly; files not yet started are reported as
// failed rather than dropped.
package uploader
