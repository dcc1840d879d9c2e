package metadata

import (
	"context"
	"time"
)

// Stats summarizes the store's contents.
type Stats struct {
	Albums     int   `json:"albums"`
	Photos     int   `json:"photos"`
	PhotoBytes int64 `json:"photoBytes"`
}

// GetStats returns album and photo totals.
func (s *Store) GetStats(ctx context.Context) (Stats, error) {
	start := time.Now()
	var err error
	defer func() { recordQuery("get_stats", start, err) }()

	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var stats Stats
	if err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM albums`).Scan(&stats.Albums); err != nil {
		return Stats{}, err
	}
	if err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(size), 0) FROM photos`).Scan(&stats.Photos, &stats.PhotoBytes); err != nil {
		return Stats{}, err
	}
	return stats, nil
}
