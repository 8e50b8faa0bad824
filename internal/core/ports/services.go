package ports

import (
	"context"
	"errors"

	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

// ErrCacheMiss is returned by CacheService.Get for an absent key.
var ErrCacheMiss = errors.New("cache miss")

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishShapeEvent(ctx context.Context, event *domain.ShapeEvent) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeShapeEvents(ctx context.Context, handler func(ctx context.Context, event *domain.ShapeEvent) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// FeatureBuilder is the markup layer: it turns boundaries and label points
// into encoded features. Rings are (x, y, z) triples; attributes keep the
// caller's order.
type FeatureBuilder interface {
	PolygonFeature(rings [][][]float64, name string, attrs []geospatial.Attribute) error
	PointFeature(coord []float64, name string, attrs []geospatial.Attribute) error
	Bytes() ([]byte, error)
}
