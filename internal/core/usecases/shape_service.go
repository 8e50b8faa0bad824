package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/core/ports"
	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
	"github.com/samirrijal/geoshape/internal/pkg/logging"
	"github.com/samirrijal/geoshape/internal/pkg/metrics"
	"github.com/samirrijal/geoshape/internal/pkg/telemetry"
)

// ShapeOptions are the generator defaults and limits.
type ShapeOptions struct {
	WedgeSteps  int
	CircleSteps int
	MaxSteps    int
	MaxRings    int
	RingWorkers int
	CacheTTL    int // seconds
}

// DefaultShapeOptions mirrors the configuration defaults.
func DefaultShapeOptions() ShapeOptions {
	return ShapeOptions{
		WedgeSteps:  geospatial.DefaultWedgeSteps,
		CircleSteps: geospatial.DefaultCircleSteps,
		MaxSteps:    3600,
		MaxRings:    100,
		RingWorkers: 4,
		CacheTTL:    3600,
	}
}

// ShapeService generates, caches, archives and announces shapes.
// The repository, cache and publisher are optional.
type ShapeService struct {
	solver    geodesy.Solver
	shapes    ports.ShapeRepository
	cache     ports.CacheService
	publisher ports.EventPublisher
	opts      ShapeOptions
	tracer    trace.Tracer

	now   func() time.Time
	newID func() string
}

// NewShapeService creates a new ShapeService.
func NewShapeService(
	solver geodesy.Solver,
	shapes ports.ShapeRepository,
	cache ports.CacheService,
	publisher ports.EventPublisher,
	opts ShapeOptions,
) *ShapeService {
	return &ShapeService{
		solver:    solver,
		shapes:    shapes,
		cache:     cache,
		publisher: publisher,
		opts:      opts,
		tracer:    telemetry.Tracer(tracerName),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Wedge builds a pie-slice polygon.
func (s *ShapeService) Wedge(ctx context.Context, spec geospatial.WedgeSpec) (*domain.ShapeRecord, error) {
	if err := s.checkSteps(spec.Steps); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("shapes:wedge:%v:%v:%v:%v:%v:%v:%d:%s:%q:%q",
		spec.Center.Lon, spec.Center.Lat, spec.Center.Elevation,
		spec.Azimuth, spec.Width, spec.Radius, spec.Steps, spec.Name, spec.Headers, spec.Values)

	return s.generate(ctx, domain.KindWedge, key, func() (*domain.ShapeRecord, error) {
		shape, err := geospatial.Wedge(s.solver, spec)
		if err != nil {
			return nil, err
		}
		return &domain.ShapeRecord{
			Kind:   domain.KindWedge,
			Name:   shape.Name,
			Center: spec.Center,
			Params: map[string]any{
				"azimuth": spec.Azimuth,
				"width":   spec.Width,
				"radius":  spec.Radius,
				"steps":   spec.Steps,
			},
			Shapes: []geospatial.Shape{shape},
		}, nil
	})
}

// Circle builds a geodesic circle.
func (s *ShapeService) Circle(ctx context.Context, spec geospatial.CircleSpec) (*domain.ShapeRecord, error) {
	if err := s.checkSteps(spec.Steps); err != nil {
		return nil, err
	}

	key := fmt.Sprintf("shapes:circle:%v:%v:%v:%v:%d:%s:%q:%q",
		spec.Center.Lon, spec.Center.Lat, spec.Center.Elevation,
		spec.Radius, spec.Steps, spec.Name, spec.Headers, spec.Values)

	return s.generate(ctx, domain.KindCircle, key, func() (*domain.ShapeRecord, error) {
		shape, err := geospatial.Circle(s.solver, spec)
		if err != nil {
			return nil, err
		}
		return &domain.ShapeRecord{
			Kind:   domain.KindCircle,
			Name:   shape.Name,
			Center: spec.Center,
			Params: map[string]any{
				"radius": spec.Radius,
				"steps":  spec.Steps,
			},
			Shapes: []geospatial.Shape{shape},
		}, nil
	})
}

// Rings builds a set of graduated rings with label anchors.
func (s *ShapeService) Rings(ctx context.Context, spec geospatial.RingsSpec) (*domain.ShapeRecord, error) {
	if err := s.CheckRings(spec); err != nil {
		return nil, err
	}
	if spec.Workers == 0 {
		spec.Workers = s.opts.RingWorkers
	}

	key := fmt.Sprintf("shapes:rings:%v:%v:%v:%v:%v:%d:%d:%v:%s:%s",
		spec.Center.Lon, spec.Center.Lat, spec.Center.Elevation,
		spec.StartRadius, spec.Increment, spec.Count, spec.Steps, spec.LabelBearing, spec.Name, spec.Units)

	return s.generate(ctx, domain.KindRings, key, func() (*domain.ShapeRecord, error) {
		set, err := geospatial.GraduatedRings(ctx, s.solver, spec)
		if err != nil {
			return nil, err
		}
		name := spec.Name
		if name == "" {
			name = "Rings"
		}
		return &domain.ShapeRecord{
			Kind:   domain.KindRings,
			Name:   name,
			Center: spec.Center,
			Params: map[string]any{
				"start_radius":  spec.StartRadius,
				"increment":     spec.Increment,
				"count":         spec.Count,
				"steps":         spec.Steps,
				"label_bearing": spec.LabelBearing,
			},
			Shapes: set.Rings,
			Labels: set.Labels,
		}, nil
	})
}

// Options returns the generator defaults and limits. Callers resolve an
// absent step count to the configured default before building; the
// builders take step counts literally.
func (s *ShapeService) Options() ShapeOptions {
	return s.opts
}

// CheckRings applies the configured ring set limits.
func (s *ShapeService) CheckRings(spec geospatial.RingsSpec) error {
	if spec.Count < 1 {
		return fmt.Errorf("%w: ring count must be at least 1, got %d", geodesy.ErrInvalidInput, spec.Count)
	}
	if spec.Steps < 1 {
		return fmt.Errorf("%w: a ring needs at least 1 step, got %d", geodesy.ErrInvalidInput, spec.Steps)
	}
	if err := s.checkSteps(spec.Steps); err != nil {
		return err
	}
	if s.opts.MaxRings > 0 && spec.Count > s.opts.MaxRings {
		return fmt.Errorf("%w: at most %d rings, got %d", geodesy.ErrInvalidInput, s.opts.MaxRings, spec.Count)
	}
	return nil
}

// Get returns an archived shape.
func (s *ShapeService) Get(ctx context.Context, id string) (*domain.ShapeRecord, error) {
	cacheKey := "shapes:id:" + id
	if rec, ok := s.fromCache(ctx, "get", cacheKey); ok {
		return rec, nil
	}
	if s.shapes == nil {
		return nil, domain.ErrNotFound
	}

	rec, err := s.shapes.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, cacheKey, rec)
	return rec, nil
}

// List returns the most recent archived shapes, optionally of one kind.
func (s *ShapeService) List(ctx context.Context, kind domain.ShapeKind, limit int) ([]domain.ShapeRecord, error) {
	if kind != "" && !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown shape kind %q", geodesy.ErrInvalidInput, kind)
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if s.shapes == nil {
		return nil, nil
	}
	return s.shapes.List(ctx, kind, limit)
}

// Features hands a record's boundaries and labels to the markup layer.
func (s *ShapeService) Features(rec *domain.ShapeRecord, b ports.FeatureBuilder) ([]byte, error) {
	for _, shape := range rec.Shapes {
		if err := b.PolygonFeature([][][]float64{shape.Ring.Coords()}, shape.Name, shape.Attributes); err != nil {
			return nil, fmt.Errorf("polygon %q: %w", shape.Name, err)
		}
	}
	for _, l := range rec.Labels {
		if err := b.PointFeature(l.Point.Coord(), l.Name, l.Attributes); err != nil {
			return nil, fmt.Errorf("label %q: %w", l.Name, err)
		}
	}
	return b.Bytes()
}

// Archive stores a record assembled elsewhere, such as by the ring set
// workflow. Unlike generation, an archive failure is returned.
func (s *ShapeService) Archive(ctx context.Context, rec *domain.ShapeRecord) error {
	if s.shapes == nil {
		return errors.New("no shape repository configured")
	}
	if !rec.Kind.Valid() {
		return fmt.Errorf("%w: unknown shape kind %q", geodesy.ErrInvalidInput, rec.Kind)
	}
	s.stamp(rec)
	if err := s.save(ctx, rec); err != nil {
		return fmt.Errorf("archive %s: %w", rec.ID, err)
	}
	metrics.ShapesBuilt.WithLabelValues(string(rec.Kind)).Inc()
	metrics.ShapeVertices.Observe(float64(rec.VertexCount()))
	s.toCache(ctx, "shapes:id:"+rec.ID, rec)
	return nil
}

// Announce publishes the record's ShapeEvent. It is a no-op without a
// publisher.
func (s *ShapeService) Announce(ctx context.Context, rec *domain.ShapeRecord) error {
	if s.publisher == nil {
		return nil
	}
	event := domain.EventFor(rec)
	err := s.publisher.PublishShapeEvent(ctx, &event)
	metrics.EventsPublished.WithLabelValues(metrics.Outcome(err)).Inc()
	return err
}

// Delete removes an archived shape and its cache entry.
func (s *ShapeService) Delete(ctx context.Context, id string) error {
	if s.cache != nil {
		_ = s.cache.Delete(ctx, "shapes:id:"+id)
	}
	if s.shapes == nil {
		return domain.ErrNotFound
	}
	return s.shapes.Delete(ctx, id)
}

// stamp fills in the identity and derived fields of a new record.
func (s *ShapeService) stamp(rec *domain.ShapeRecord) {
	if rec.ID == "" {
		rec.ID = s.newID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}
	rec.Bounds = boundsOf(rec)
}

func (s *ShapeService) save(ctx context.Context, rec *domain.ShapeRecord) error {
	if s.shapes == nil {
		return nil
	}
	err := s.shapes.Save(ctx, rec)
	metrics.ShapesArchived.WithLabelValues(metrics.Outcome(err)).Inc()
	return err
}

func (s *ShapeService) checkSteps(steps int) error {
	if s.opts.MaxSteps > 0 && steps > s.opts.MaxSteps {
		return fmt.Errorf("%w: at most %d steps, got %d", geodesy.ErrInvalidInput, s.opts.MaxSteps, steps)
	}
	return nil
}

// generate runs build behind the cache, then archives and announces the
// fresh record. Archive and publish failures are logged, not returned.
func (s *ShapeService) generate(ctx context.Context, kind domain.ShapeKind, cacheKey string, build func() (*domain.ShapeRecord, error)) (*domain.ShapeRecord, error) {
	ctx, span := s.tracer.Start(ctx, "shapes."+string(kind),
		trace.WithAttributes(attribute.String(telemetry.AttrShapeKind, string(kind))))
	defer span.End()

	log := logging.FromContext(ctx)

	if rec, ok := s.fromCache(ctx, string(kind), cacheKey); ok {
		span.SetAttributes(attribute.Bool(telemetry.AttrCacheHit, true))
		return rec, nil
	}

	start := time.Now()
	rec, err := build()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	metrics.ShapeBuildDuration.WithLabelValues(string(kind)).Observe(time.Since(start).Seconds())

	s.stamp(rec)

	metrics.ShapesBuilt.WithLabelValues(string(kind)).Inc()
	metrics.ShapeVertices.Observe(float64(rec.VertexCount()))
	span.SetAttributes(attribute.String(telemetry.AttrShapeID, rec.ID))

	if err := s.save(ctx, rec); err != nil {
		log.Warn("archive shape", "id", rec.ID, "kind", kind, "error", err)
	}
	if err := s.Announce(ctx, rec); err != nil {
		log.Warn("publish shape event", "id", rec.ID, "kind", kind, "error", err)
	}

	s.toCache(ctx, cacheKey, rec)
	s.toCache(ctx, "shapes:id:"+rec.ID, rec)

	log.Debug("shape generated", "id", rec.ID, "kind", kind, "vertices", rec.VertexCount())
	return rec, nil
}

func (s *ShapeService) fromCache(ctx context.Context, op, key string) (*domain.ShapeRecord, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ports.ErrCacheMiss) {
			logging.FromContext(ctx).Debug("cache get", "key", key, "error", err)
		}
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return nil, false
	}
	var rec domain.ShapeRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		metrics.CacheMisses.WithLabelValues(op).Inc()
		return nil, false
	}
	metrics.CacheHits.WithLabelValues(op).Inc()
	return &rec, true
}

func (s *ShapeService) toCache(ctx context.Context, key string, rec *domain.ShapeRecord) {
	if s.cache == nil {
		return
	}
	if data, err := json.Marshal(rec); err == nil {
		_ = s.cache.Set(ctx, key, data, s.opts.CacheTTL)
	}
}

func boundsOf(rec *domain.ShapeRecord) domain.Bounds {
	points := make([][]geodesy.Point, 0, len(rec.Shapes))
	for _, s := range rec.Shapes {
		points = append(points, s.Ring)
	}
	return domain.BoundsOf(points...)
}
