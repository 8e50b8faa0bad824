package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/geoshape/internal/core/usecases"
	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

func TestGeodesicService_Inverse(t *testing.T) {
	svc := usecases.NewGeodesicService(geodesy.Default)

	sol, err := svc.Inverse(context.Background(), geodesy.LonLat(0, 0), geodesy.LonLat(0, 1))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if sol.Distance != 110574.389 {
		t.Errorf("expected 110574.389, got %v", sol.Distance)
	}
	if sol.InitialBearing != 0 || sol.FinalBearing != 0 {
		t.Errorf("expected due north, got %v / %v", sol.InitialBearing, sol.FinalBearing)
	}
	if !sol.Converged {
		t.Error("expected convergence")
	}
}

func TestGeodesicService_Inverse_InvalidInput(t *testing.T) {
	svc := usecases.NewGeodesicService(geodesy.Default)

	_, err := svc.Inverse(context.Background(), geodesy.LonLat(math.NaN(), 0), geodesy.LonLat(0, 1))
	if !errors.Is(err, geodesy.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestGeodesicService_Inverse_NotConverged(t *testing.T) {
	s := geodesy.Default
	s.MaxIterations = 1
	svc := usecases.NewGeodesicService(s)

	sol, err := svc.Inverse(context.Background(), geodesy.LonLat(144.42486789, -37.95103342), geodesy.LonLat(143.92649554, -37.65282114))
	if err != nil {
		t.Fatalf("non-convergence must not be an error: %v", err)
	}
	if sol.Converged {
		t.Error("expected Converged=false with a single iteration")
	}
	if sol.Iterations != 1 {
		t.Errorf("expected 1 iteration, got %d", sol.Iterations)
	}
}

func TestGeodesicService_Direct(t *testing.T) {
	svc := usecases.NewGeodesicService(geodesy.Default)

	sol, err := svc.Direct(context.Background(), geodesy.LonLat(0, 0), 90, 1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(sol.Destination.Lat) > 1e-9 {
		t.Errorf("expected to stay on the equator, got lat %v", sol.Destination.Lat)
	}
	if sol.Destination.Lon <= 0 {
		t.Errorf("expected eastward movement, got lon %v", sol.Destination.Lon)
	}
	if sol.FinalBearing != 90 {
		t.Errorf("expected final bearing 90, got %v", sol.FinalBearing)
	}
}

func TestGeodesicService_Orientation(t *testing.T) {
	svc := usecases.NewGeodesicService(geodesy.Default)
	ctx := context.Background()

	tests := []struct {
		name string
		p3   geodesy.Point
		turn string
	}{
		{"left", geodesy.LonLat(0, 1), "counterclockwise"},
		{"right", geodesy.LonLat(0, -1), "clockwise"},
		{"straight", geodesy.LonLat(2, 0), "collinear"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, err := svc.Orientation(ctx, geodesy.LonLat(0, 0), geodesy.LonLat(1, 0), tt.p3)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if o.Turn != tt.turn {
				t.Errorf("expected %s, got %s (det %v)", tt.turn, o.Turn, o.Determinant)
			}
		})
	}
}
