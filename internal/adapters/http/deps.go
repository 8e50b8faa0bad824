package http

import (
	"github.com/nats-io/nats.go"

	"github.com/samirrijal/geoshape/internal/adapters/postgres"
	"github.com/samirrijal/geoshape/internal/adapters/valkey"
	"github.com/samirrijal/geoshape/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Geodesic *usecases.GeodesicService
	Shapes   *usecases.ShapeService
	NATS     *nats.Conn
	DB       *postgres.DB
	Cache    *valkey.Cache
}
