package usecases_test

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"

	"github.com/samirrijal/geoshape/internal/core/domain"
	"github.com/samirrijal/geoshape/internal/core/ports"
	"github.com/samirrijal/geoshape/internal/core/usecases"
	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

// --- Mock ShapeRepository ---

type mockShapeRepo struct {
	saveFn    func(ctx context.Context, rec *domain.ShapeRecord) error
	getByIDFn func(ctx context.Context, id string) (*domain.ShapeRecord, error)
	listFn    func(ctx context.Context, kind domain.ShapeKind, limit int) ([]domain.ShapeRecord, error)
	deleteFn  func(ctx context.Context, id string) error
}

func (m *mockShapeRepo) Save(ctx context.Context, rec *domain.ShapeRecord) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, rec)
	}
	return nil
}

func (m *mockShapeRepo) GetByID(ctx context.Context, id string) (*domain.ShapeRecord, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *mockShapeRepo) List(ctx context.Context, kind domain.ShapeKind, limit int) ([]domain.ShapeRecord, error) {
	if m.listFn != nil {
		return m.listFn(ctx, kind, limit)
	}
	return nil, nil
}

func (m *mockShapeRepo) Delete(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

// --- Mock CacheService ---

type mockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMockCache() *mockCache {
	return &mockCache{data: map[string][]byte{}}
}

func (m *mockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ports.ErrCacheMiss
	}
	return v, nil
}

func (m *mockCache) Set(ctx context.Context, key string, value []byte, ttl int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.sets++
	return nil
}

func (m *mockCache) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	events []domain.ShapeEvent
	err    error
}

func (m *mockPublisher) PublishShapeEvent(ctx context.Context, event *domain.ShapeEvent) error {
	m.events = append(m.events, *event)
	return m.err
}

// --- Mock FeatureBuilder ---

type mockBuilder struct {
	polygons   []string
	points     []string
	pointAttrs [][]geospatial.Attribute
}

func (m *mockBuilder) PolygonFeature(rings [][][]float64, name string, attrs []geospatial.Attribute) error {
	m.polygons = append(m.polygons, name)
	return nil
}

func (m *mockBuilder) PointFeature(coord []float64, name string, attrs []geospatial.Attribute) error {
	m.points = append(m.points, name)
	m.pointAttrs = append(m.pointAttrs, attrs)
	return nil
}

func (m *mockBuilder) Bytes() ([]byte, error) { return []byte("ok"), nil }

// --- Tests ---

var bilbao = geodesy.LonLat(-2.935, 43.263)

func TestShapeService_Wedge_Defaults(t *testing.T) {
	repo := &mockShapeRepo{}
	pub := &mockPublisher{}
	svc := usecases.NewShapeService(geodesy.Default, repo, nil, pub, usecases.DefaultShapeOptions())

	rec, err := svc.Wedge(context.Background(), geospatial.WedgeSpec{
		Center: bilbao, Azimuth: 90, Width: 60, Radius: 1000, Steps: svc.Options().WedgeSteps,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.ID == "" {
		t.Error("expected an id")
	}
	if rec.Kind != domain.KindWedge {
		t.Errorf("expected wedge, got %s", rec.Kind)
	}
	if len(rec.Shapes) != 1 {
		t.Fatalf("expected 1 shape, got %d", len(rec.Shapes))
	}
	// center + 15 arc points + center
	if n := len(rec.Shapes[0].Ring); n != geospatial.DefaultWedgeSteps+2 {
		t.Errorf("expected %d vertices, got %d", geospatial.DefaultWedgeSteps+2, n)
	}
	if rec.Bounds.MinLat > bilbao.Lat || rec.Bounds.MaxLon <= bilbao.Lon {
		t.Errorf("unexpected bounds %+v", rec.Bounds)
	}
	if len(pub.events) != 1 || pub.events[0].ShapeID != rec.ID {
		t.Errorf("expected one event for %s, got %+v", rec.ID, pub.events)
	}
}

func TestShapeService_Wedge_ZeroStepsRejected(t *testing.T) {
	saves := 0
	repo := &mockShapeRepo{
		saveFn: func(ctx context.Context, rec *domain.ShapeRecord) error {
			saves++
			return nil
		},
	}
	svc := usecases.NewShapeService(geodesy.Default, repo, nil, nil, usecases.DefaultShapeOptions())

	_, err := svc.Wedge(context.Background(), geospatial.WedgeSpec{
		Center: bilbao, Azimuth: 90, Width: 60, Radius: 1000, Steps: 0,
	})
	if !errors.Is(err, geodesy.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if saves != 0 {
		t.Errorf("expected nothing archived, got %d saves", saves)
	}
}

func TestShapeService_Wedge_TooManySteps(t *testing.T) {
	opts := usecases.DefaultShapeOptions()
	opts.MaxSteps = 10
	svc := usecases.NewShapeService(geodesy.Default, nil, nil, nil, opts)

	_, err := svc.Wedge(context.Background(), geospatial.WedgeSpec{
		Center: bilbao, Azimuth: 0, Width: 90, Radius: 1000, Steps: 11,
	})
	if !errors.Is(err, geodesy.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestShapeService_Circle_CachesResult(t *testing.T) {
	cache := newMockCache()
	saves := 0
	repo := &mockShapeRepo{
		saveFn: func(ctx context.Context, rec *domain.ShapeRecord) error {
			saves++
			return nil
		},
	}
	svc := usecases.NewShapeService(geodesy.Default, repo, cache, nil, usecases.DefaultShapeOptions())
	spec := geospatial.CircleSpec{Center: bilbao, Radius: 500, Steps: 12}

	first, err := svc.Circle(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Circle(context.Background(), spec)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("expected cached record %s, got %s", first.ID, second.ID)
	}
	if saves != 1 {
		t.Errorf("expected 1 save, got %d", saves)
	}
	if n := len(second.Shapes[0].Ring); n != 13 {
		t.Errorf("expected 13 vertices, got %d", n)
	}

	byID, err := svc.Get(context.Background(), first.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if byID.ID != first.ID {
		t.Errorf("expected %s, got %s", first.ID, byID.ID)
	}
}

func TestShapeService_ArchiveFailureIsNotFatal(t *testing.T) {
	repo := &mockShapeRepo{
		saveFn: func(ctx context.Context, rec *domain.ShapeRecord) error {
			return errors.New("db down")
		},
	}
	pub := &mockPublisher{err: errors.New("nats down")}
	svc := usecases.NewShapeService(geodesy.Default, repo, nil, pub, usecases.DefaultShapeOptions())

	rec, err := svc.Circle(context.Background(), geospatial.CircleSpec{Center: bilbao, Radius: 100, Steps: svc.Options().CircleSteps})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Shapes[0].Ring) != geospatial.DefaultCircleSteps+1 {
		t.Errorf("expected default steps, got %d vertices", len(rec.Shapes[0].Ring))
	}
}

func TestShapeService_Rings(t *testing.T) {
	svc := usecases.NewShapeService(geodesy.Default, nil, nil, nil, usecases.DefaultShapeOptions())

	rec, err := svc.Rings(context.Background(), geospatial.RingsSpec{
		Center: bilbao, StartRadius: 100, Increment: 100, Count: 3, Steps: 8,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rec.Shapes) != 3 || len(rec.Labels) != 3 {
		t.Fatalf("expected 3 rings and labels, got %d/%d", len(rec.Shapes), len(rec.Labels))
	}
	if rec.Labels[2].Name != "300 m" {
		t.Errorf("expected label '300 m', got %q", rec.Labels[2].Name)
	}
	if rec.VertexCount() != 27 {
		t.Errorf("expected 27 vertices, got %d", rec.VertexCount())
	}
}

func TestShapeService_Rings_TooMany(t *testing.T) {
	opts := usecases.DefaultShapeOptions()
	opts.MaxRings = 2
	svc := usecases.NewShapeService(geodesy.Default, nil, nil, nil, opts)

	_, err := svc.Rings(context.Background(), geospatial.RingsSpec{
		Center: bilbao, StartRadius: 100, Increment: 100, Count: 3, Steps: 8,
	})
	if !errors.Is(err, geodesy.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestShapeService_Get_NoRepository(t *testing.T) {
	svc := usecases.NewShapeService(geodesy.Default, nil, nil, nil, usecases.DefaultShapeOptions())

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestShapeService_List_ClampLimit(t *testing.T) {
	var got int
	repo := &mockShapeRepo{
		listFn: func(ctx context.Context, kind domain.ShapeKind, limit int) ([]domain.ShapeRecord, error) {
			got = limit
			return nil, nil
		},
	}
	svc := usecases.NewShapeService(geodesy.Default, repo, nil, nil, usecases.DefaultShapeOptions())

	if _, err := svc.List(context.Background(), domain.KindCircle, 1000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 20 {
		t.Errorf("expected limit clamped to 20, got %d", got)
	}
}

func TestShapeService_List_UnknownKind(t *testing.T) {
	svc := usecases.NewShapeService(geodesy.Default, &mockShapeRepo{}, nil, nil, usecases.DefaultShapeOptions())

	_, err := svc.List(context.Background(), "hexagon", 10)
	if !errors.Is(err, geodesy.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestShapeService_Features(t *testing.T) {
	svc := usecases.NewShapeService(geodesy.Default, nil, nil, nil, usecases.DefaultShapeOptions())

	rec, err := svc.Rings(context.Background(), geospatial.RingsSpec{
		Center: bilbao, StartRadius: 50, Increment: 50, Count: 2, Steps: 6,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	b := &mockBuilder{}
	out, err := svc.Features(rec, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(out) != "ok" {
		t.Errorf("unexpected output %q", out)
	}
	if len(b.polygons) != 2 || len(b.points) != 2 {
		t.Fatalf("expected 2 polygons and 2 points, got %v / %v", b.polygons, b.points)
	}
	want := []geospatial.Attribute{{Header: "Radius", Value: "100"}, {Header: "Units", Value: "m"}}
	if !reflect.DeepEqual(b.pointAttrs[1], want) {
		t.Errorf("expected label attributes %v, got %v", want, b.pointAttrs[1])
	}
}
