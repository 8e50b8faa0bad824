package ports

import (
	"context"

	"github.com/samirrijal/geoshape/internal/core/domain"
)

// ShapeRepository archives generated shapes.
type ShapeRepository interface {
	Save(ctx context.Context, rec *domain.ShapeRecord) error
	GetByID(ctx context.Context, id string) (*domain.ShapeRecord, error)
	List(ctx context.Context, kind domain.ShapeKind, limit int) ([]domain.ShapeRecord, error)
	Delete(ctx context.Context, id string) error
}

// EventRepository keeps the log of published shape events.
type EventRepository interface {
	SaveEvent(ctx context.Context, event *domain.ShapeEvent) error
}
