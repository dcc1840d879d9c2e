package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metadata store metrics
var (
	DBQueryTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_vault_db_queries_total",
			Help: "Total number of metadata store queries",
		},
		[]string{"operation", "status"},
	)

	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "photo_vault_db_query_duration_seconds",
			Help:    "Metadata store query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"operation"},
	)
)

// Upload pipeline metrics
var (
	UploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "photo_vault_uploads_total",
			Help: "Total number of photo ingestions by outcome",
		},
		[]string{"outcome"}, // "success", "duplicate", "failed"
	)

	UploadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_vault_upload_duration_seconds",
			Help:    "Single-file ingestion duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	UploadsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_vault_uploads_in_flight",
			Help: "Number of ingestion pipelines currently running",
		},
	)

	ThumbnailDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "photo_vault_thumbnail_duration_seconds",
			Help:    "Thumbnail derivation duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
)

// Blob store metrics
var (
	BlobStoreRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_vault_blob_records",
			Help: "Number of blob pairs in the blob store",
		},
	)

	BlobStoreBytes = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "photo_vault_blob_bytes",
			Help: "Approximate bytes held by the blob store",
		},
	)
)
