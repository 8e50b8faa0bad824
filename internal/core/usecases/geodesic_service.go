package usecases

import (
	"context"

	"github.com/twpayne/go-geom/xy/orientation"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
	"github.com/samirrijal/geoshape/internal/pkg/logging"
	"github.com/samirrijal/geoshape/internal/pkg/metrics"
	"github.com/samirrijal/geoshape/internal/pkg/telemetry"
)

const tracerName = "github.com/samirrijal/geoshape/internal/core/usecases"

// GeodesicService exposes the geodesic solvers with metrics, tracing and
// non-convergence logging.
type GeodesicService struct {
	solver geodesy.Solver
	tracer trace.Tracer
}

// NewGeodesicService creates a new GeodesicService.
func NewGeodesicService(solver geodesy.Solver) *GeodesicService {
	return &GeodesicService{solver: solver, tracer: telemetry.Tracer(tracerName)}
}

// Solver returns the configured solver.
func (s *GeodesicService) Solver() geodesy.Solver {
	return s.solver
}

// Inverse returns the distance and bearings between two points.
func (s *GeodesicService) Inverse(ctx context.Context, p1, p2 geodesy.Point) (geodesy.InverseSolution, error) {
	ctx, span := s.tracer.Start(ctx, "geodesy.inverse")
	defer span.End()

	sol, err := s.solver.Inverse(p1, p2)
	if err != nil {
		span.RecordError(err)
		return sol, err
	}
	observe(ctx, span, "inverse", sol.Iterations, sol.Converged)
	return sol, nil
}

// Direct returns the destination reached from p1 along bearing for distance meters.
func (s *GeodesicService) Direct(ctx context.Context, p1 geodesy.Point, bearing, distance float64) (geodesy.DirectSolution, error) {
	ctx, span := s.tracer.Start(ctx, "geodesy.direct")
	defer span.End()

	sol, err := s.solver.Direct(p1, bearing, distance)
	if err != nil {
		span.RecordError(err)
		return sol, err
	}
	observe(ctx, span, "direct", sol.Iterations, sol.Converged)
	return sol, nil
}

// Orientation classifies the turn p1→p2→p3.
func (s *GeodesicService) Orientation(ctx context.Context, p1, p2, p3 geodesy.Point) (domain.Orientation, error) {
	for _, p := range []geodesy.Point{p1, p2, p3} {
		if err := p.Validate(); err != nil {
			return domain.Orientation{}, err
		}
	}
	return domain.Orientation{
		Determinant: geodesy.Orientation(p1, p2, p3),
		Turn:        turnName(geodesy.Classify(p1, p2, p3)),
	}, nil
}

func turnName(t orientation.Type) string {
	switch t {
	case orientation.CounterClockwise:
		return "counterclockwise"
	case orientation.Clockwise:
		return "clockwise"
	default:
		return "collinear"
	}
}

func observe(ctx context.Context, span trace.Span, kind string, iterations int, converged bool) {
	metrics.ObserveSolve(kind, iterations, converged)
	span.SetAttributes(
		attribute.Int(telemetry.AttrIterations, iterations),
		attribute.Bool(telemetry.AttrConverged, converged),
	)
	if !converged {
		logging.FromContext(ctx).Warn("geodesic solve did not converge",
			"kind", kind,
			"iterations", iterations,
		)
	}
}
