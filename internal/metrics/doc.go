// Package metrics provides Prometheus instrumentation for the photo
// vault engine.
//
// All metrics are prefixed with "photo_vault_" to avoid naming
// collisions with other applications.
//
// # Metric Categories
//
// ## Database Metrics
//
// Monitor metadata store query performance:
//   - DBQueryTotal: Counter of queries by operation and status
//   - DBQueryDuration: Histogram of query duration by operation
//
// ## Upload Metrics
//
// Track ingestion outcomes:
//   - UploadsTotal: Counter by outcome (success/duplicate/failed)
//   - UploadDuration: Histogram of per-file ingestion time
//   - UploadsInFlight: Gauge of uploads currently processing
//   - ThumbnailDuration: Histogram of thumbnail derivation time
//
// ## Blob Store Metrics
//
// Track blob store contents:
//   - BlobStoreRecords: Gauge of stored blob pairs
//   - BlobStoreBytes: Gauge of total payload bytes
//
// # Usage
//
// Metrics are automatically registered with the default Prometheus
// registry using promauto. To expose them, mount promhttp.Handler() on
// your metrics endpoint:
//
//	mux.Handle("/metrics", promhttp.Handler())
//
// To record metrics from other packages, import this package and use
// the exported metric variables:
//
//	metrics.UploadsTotal.WithLabelValues("success").Inc()
//	metrics.DBQueryDuration.WithLabelValues("create_album").Observe(0.002)
package metrics
