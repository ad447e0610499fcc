package history

import (
	"context"
	"time"
)

// Record is one query-log row, emitted after every successful weather lookup.
type Record struct {
	City           string
	Country        string
	Temperature    float64
	Description    string
	FromCache      bool
	ResponseTimeMS int64
}

// CityCount is a city ranked by how often it has been queried.
type CityCount struct {
	City       string `json:"city"`
	Country    string `json:"country"`
	QueryCount int64  `json:"query_count"`
}

// QueryRow is a recent query as rendered by the stats endpoint.
type QueryRow struct {
	City           string    `json:"city"`
	Country        string    `json:"country"`
	Temperature    float64   `json:"temperature"`
	Description    string    `json:"description"`
	QueryTime      time.Time `json:"query_time"`
	FromCache      bool      `json:"from_cache"`
	ResponseTimeMS int64     `json:"response_time_ms"`
}

// Stats aggregates the query log for the stats endpoint.
type Stats struct {
	TotalQueries      int64       `json:"total_queries"`
	CacheHits         int64       `json:"cache_hits"`
	CacheMisses       int64       `json:"cache_misses"`
	CacheHitRate      float64     `json:"cache_hit_rate"`
	AvgResponseTimeMS float64     `json:"avg_response_time_ms"`
	AvgCachedTimeMS   float64     `json:"avg_cached_response_time_ms"`
	AvgAPITimeMS      float64     `json:"avg_api_response_time_ms"`
	TopCities         []CityCount `json:"top_cities"`
	RecentQueries     []QueryRow  `json:"recent_queries"`
}

// Recorder persists the query log and favorites counters. Implementations
// are external collaborators; a failed write must never fail the lookup that
// produced it.
type Recorder interface {
	RecordQuery(ctx context.Context, rec Record) error
	TopCities(ctx context.Context, limit int) ([]CityCount, error)
	Stats(ctx context.Context) (*Stats, error)
	Close() error
}
