// Package startup loads and validates engine configuration from the
// environment.
package startup

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"photo-vault/internal/logging"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// Defaults for the engine's tunable limits.
const (
	DefaultMaxAlbums         = 100
	DefaultMaxPhotosPerAlbum = 500
	DefaultThumbnailSize     = 300
	DefaultUploadWorkers     = 3
	DefaultMaxUploadBytes    = 50 << 20 // 50 MiB
)

// Config holds all engine configuration.
type Config struct {
	DataDir        string
	MetricsPort    string
	MetricsEnabled bool

	MaxAlbums         int
	MaxPhotosPerAlbum int
	ThumbnailSize     int
	UploadWorkers     int
	MaxUploadBytes    int64

	// Derived paths
	DatabasePath string
	BlobPath     string
}

// LoadConfig reads configuration from the environment (a .env file is
// honored if present), validates the data directory, and derives store
// paths. Limits that parse to zero or negative fall back to defaults.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	dataDir := getEnv("DATA_DIR", "/data")
	metricsPort := getEnv("METRICS_PORT", "9090")
	metricsEnabled := getEnvBool("METRICS_ENABLED", true)

	cfg := &Config{
		DataDir:           dataDir,
		MetricsPort:       metricsPort,
		MetricsEnabled:    metricsEnabled,
		MaxAlbums:         getEnvInt("MAX_ALBUMS", DefaultMaxAlbums),
		MaxPhotosPerAlbum: getEnvInt("MAX_PHOTOS_PER_ALBUM", DefaultMaxPhotosPerAlbum),
		ThumbnailSize:     getEnvInt("THUMBNAIL_SIZE", DefaultThumbnailSize),
		UploadWorkers:     getEnvInt("UPLOAD_WORKERS", DefaultUploadWorkers),
		MaxUploadBytes:    int64(getEnvInt("MAX_UPLOAD_BYTES", DefaultMaxUploadBytes)),
	}

	logging.Info("Configuration:")
	logging.Info("  DATA_DIR:             %s", cfg.DataDir)
	logging.Info("  MAX_ALBUMS:           %d", cfg.MaxAlbums)
	logging.Info("  MAX_PHOTOS_PER_ALBUM: %d", cfg.MaxPhotosPerAlbum)
	logging.Info("  THUMBNAIL_SIZE:       %d", cfg.ThumbnailSize)
	logging.Info("  UPLOAD_WORKERS:       %d", cfg.UploadWorkers)
	logging.Info("  MAX_UPLOAD_BYTES:     %d", cfg.MaxUploadBytes)
	logging.Info("  METRICS_ENABLED:      %v", cfg.MetricsEnabled)
	logging.Info("  LOG_LEVEL:            %s", logging.GetLevel())

	dataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}
	cfg.DataDir = dataDir
	cfg.DatabasePath = filepath.Join(dataDir, "albums.db")
	cfg.BlobPath = filepath.Join(dataDir, "blobs.bolt")

	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	if err := testWriteAccess(dataDir); err != nil {
		return nil, fmt.Errorf("data directory is not writable: %w", err)
	}

	return cfg, nil
}

func testWriteAccess(dir string) error {
	probe := filepath.Join(dir, ".perm-test")
	if err := os.WriteFile(probe, []byte("test"), 0o600); err != nil {
		return err
	}
	_ = os.Remove(probe)
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
		logging.Warn("Invalid %s=%q, using default %d", key, v, fallback)
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		logging.Warn("Invalid %s=%q, using default %v", key, v, fallback)
	}
	return fallback
}
