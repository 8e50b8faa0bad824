// Package geospatial samples geodesic arcs around a center point and closes
// them into wedge, circle and graduated-ring boundaries.
package geospatial

import (
	"fmt"
	"math"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

// mod360 is a floored modulo: the result is always in [0, 360).
func mod360(deg float64) float64 {
	return geodesy.NormalizeBearing(deg)
}

// WedgeBearings returns steps bearings spanning width degrees centered on
// azimuth. The sweep starts half a width clockwise of azimuth and walks
// counterclockwise, so arc vertices share one winding order.
func WedgeBearings(azimuth, width float64, steps int) ([]float64, error) {
	if !isFinite(azimuth) || !isFinite(width) {
		return nil, fmt.Errorf("%w: azimuth %v, width %v", geodesy.ErrInvalidInput, azimuth, width)
	}
	if steps < 2 {
		return nil, fmt.Errorf("%w: a wedge needs at least 2 steps, got %d", geodesy.ErrInvalidInput, steps)
	}

	start := mod360(azimuth + width/2)
	step := width / float64(steps-1)

	bearings := make([]float64, steps)
	for i := range bearings {
		bearings[i] = mod360(start - float64(i)*step)
	}
	return bearings, nil
}

// CircleBearings returns steps bearings evenly spaced around the full
// circle, starting at north and walking counterclockwise.
func CircleBearings(steps int) ([]float64, error) {
	if steps < 1 {
		return nil, fmt.Errorf("%w: a circle needs at least 1 step, got %d", geodesy.ErrInvalidInput, steps)
	}

	step := 360 / float64(steps)

	bearings := make([]float64, steps)
	for i := range bearings {
		bearings[i] = mod360(0 - float64(i)*step)
	}
	return bearings, nil
}

// SampleArc solves the direct problem once per bearing from center at the
// given radius and returns the destinations in bearing order. The first
// solver error aborts the whole arc.
func SampleArc(s geodesy.Solver, center geodesy.Point, bearings []float64, radius float64) ([]geodesy.Point, error) {
	if err := checkRadius(radius); err != nil {
		return nil, err
	}

	points := make([]geodesy.Point, 0, len(bearings))
	for _, b := range bearings {
		sol, err := s.Direct(center, b, radius)
		if err != nil {
			return nil, fmt.Errorf("sample bearing %v: %w", b, err)
		}
		points = append(points, sol.Destination)
	}
	return points, nil
}

func checkRadius(radius float64) error {
	if !isFinite(radius) {
		return fmt.Errorf("%w: radius %v is not numeric", geodesy.ErrInvalidInput, radius)
	}
	if radius < 0 {
		return fmt.Errorf("%w: radius must not be negative, got %v", geodesy.ErrInvalidInput, radius)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
