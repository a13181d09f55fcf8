package domain

import (
	"context"
	"time"
)

type HotelRepository interface {
	// Write paths
	UpsertRecord(ctx context.Context, h HotelRecord) error
	UpsertMerged(ctx context.Context, m MergedHotelEntity) error
	SaveCluster(ctx context.Context, c DuplicateCluster) error
	InsertSnapshot(ctx context.Context, s AvailabilitySnapshot) error
	LogSkip(ctx context.Context, provider, id, reason string) error

	// Read paths
	ListRecords(ctx context.Context, city string) ([]HotelRecord, error)
	GetMerged(ctx context.Context, id string) (MergedHotelEntity, error)
	ListClusters(ctx context.Context, city string) ([]DuplicateCluster, error)
	ListSnapshots(ctx context.Context, hotelID string, since time.Time) ([]AvailabilitySnapshot, error)
}

// FeedClient fetches raw provider payloads. Implementations own all network
// concerns (rate limiting, retries); the core never sees HTTP.
type FeedClient interface {
	ListHotels(ctx context.Context, provider, city string) ([]map[string]any, error)
	ListSnapshots(ctx context.Context, provider, city string) ([]map[string]any, error)
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}
