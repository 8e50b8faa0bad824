package geodesy

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twpayne/go-geom/xy/orientation"
)

// Flinders Peak and Buninyong, the worked example from Vincenty (1975).
var (
	flindersPeak = Point{Lon: 144.42486789, Lat: -37.95103342}
	buninyong    = Point{Lon: 143.92649553, Lat: -37.65282114}
)

func eqish(x, y float64, prec int) bool {
	return math.Abs(x-y) < float64(1.0)/math.Pow10(prec)
}

func TestNewEllipsoid(t *testing.T) {
	e, err := NewEllipsoid(6378137, 1/298.257223563)
	require.NoError(t, err)
	assert.InDelta(t, 6356752.314245, e.PolarRadius(), 1e-6)
	assert.Equal(t, WGS84, e)

	_, err = NewEllipsoid(6378137, 1)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = NewEllipsoid(-1, 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = NewEllipsoid(math.NaN(), 0)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestInverseKnownDistance(t *testing.T) {
	sol, err := Default.Inverse(LonLat(0, 0), LonLat(0, 1))
	require.NoError(t, err)
	assert.InDelta(t, 110574.389, sol.Distance, 0.01)
	assert.Equal(t, 0.0, sol.InitialBearing)
	assert.Equal(t, 0.0, sol.FinalBearing)
	assert.True(t, sol.Converged)
}

func TestInverseVincentyExample(t *testing.T) {
	sol, err := Default.Inverse(flindersPeak, buninyong)
	require.NoError(t, err)
	assert.InDelta(t, 54972.271, sol.Distance, 0.01)
	assert.InDelta(t, 306.8682, sol.InitialBearing, 0.001)
	assert.InDelta(t, 307.1736, sol.FinalBearing, 0.001)
}

func TestInverseEquator(t *testing.T) {
	sol, err := Default.Inverse(LonLat(0, 0), LonLat(10, 0))
	require.NoError(t, err)
	assert.InDelta(t, 1113194.908, sol.Distance, 0.002)
	assert.Equal(t, 90.0, sol.InitialBearing)
	assert.Equal(t, 90.0, sol.FinalBearing)
}

func TestInverseZeroDistance(t *testing.T) {
	for _, p := range []Point{
		LonLat(0, 0),
		LonLat(-2.935, 43.263),
		LonLat(179.999, -89.5),
		{Lon: 12.5, Lat: 41.9, Elevation: 120},
	} {
		sol, err := Default.Inverse(p, p)
		require.NoError(t, err)
		assert.Equal(t, 0.0, sol.Distance, "point %v", p)
		assert.False(t, math.IsNaN(sol.InitialBearing))
		assert.False(t, math.IsNaN(sol.FinalBearing))
	}
}

func TestInverseSymmetry(t *testing.T) {
	pairs := [][2]Point{
		{flindersPeak, buninyong},
		{LonLat(-2.935, 43.263), LonLat(2.35, 48.85)},
		{LonLat(-74.006, 40.713), LonLat(139.692, 35.69)},
		{LonLat(10, -45), LonLat(-60, 12)},
	}
	for _, pair := range pairs {
		ab, err := Default.Inverse(pair[0], pair[1])
		require.NoError(t, err)
		ba, err := Default.Inverse(pair[1], pair[0])
		require.NoError(t, err)

		assert.InDelta(t, ab.Distance, ba.Distance, 0.002)
		back := NormalizeBearing(ba.FinalBearing + 180)
		diff := math.Abs(ab.InitialBearing - back)
		if diff > 180 {
			diff = 360 - diff
		}
		assert.Less(t, diff, 0.002, "%v -> %v", pair[0], pair[1])
	}
}

func TestInverseNonConvergenceIsNotAnError(t *testing.T) {
	s := Default
	s.MaxIterations = 1
	sol, err := s.Inverse(flindersPeak, buninyong)
	require.NoError(t, err)
	assert.False(t, sol.Converged)
	assert.Equal(t, 1, sol.Iterations)
	assert.Greater(t, sol.Distance, 0.0)
}

func TestInverseInvalidInput(t *testing.T) {
	_, err := Default.Inverse(LonLat(math.NaN(), 0), LonLat(0, 0))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Default.Inverse(LonLat(0, 0), LonLat(0, math.Inf(1)))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Solver{}.Inverse(LonLat(0, 0), LonLat(1, 1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	s := Default
	s.MaxIterations = 0
	_, err = s.Inverse(LonLat(0, 0), LonLat(1, 1))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestInverseSphere(t *testing.T) {
	sphere, err := NewEllipsoid(6371000, 0)
	require.NoError(t, err)
	sol, err := NewSolver(sphere).Inverse(LonLat(0, 0), LonLat(90, 0))
	require.NoError(t, err)
	assert.InDelta(t, 6371000*math.Pi/2, sol.Distance, 0.002)
}

func TestDirectVincentyExample(t *testing.T) {
	sol, err := Default.Direct(flindersPeak, 306.86815833, 54972.271)
	require.NoError(t, err)
	assert.True(t, eqish(sol.Destination.Lat, buninyong.Lat, 6), "lat %v", sol.Destination.Lat)
	assert.True(t, eqish(sol.Destination.Lon, buninyong.Lon, 6), "lon %v", sol.Destination.Lon)
	assert.InDelta(t, 307.1736, sol.FinalBearing, 0.001)
	assert.True(t, sol.Converged)
}

func TestDirectElevationPassThrough(t *testing.T) {
	p := Point{Lon: -2.935, Lat: 43.263, Elevation: 37.5}
	sol, err := Default.Direct(p, 45, 1000)
	require.NoError(t, err)
	assert.Equal(t, 37.5, sol.Destination.Elevation)
}

func TestDirectRoundsOnlyBearing(t *testing.T) {
	sol, err := Default.Direct(LonLat(-2.935, 43.263), 33.3, 12345.678)
	require.NoError(t, err)
	assert.Equal(t, Round(sol.FinalBearing, 3), sol.FinalBearing)
	// the destination is left at full precision
	assert.NotEqual(t, Round(sol.Destination.Lat, 3), sol.Destination.Lat)
}

func TestDirectZeroDistance(t *testing.T) {
	p := LonLat(-2.935, 43.263)
	sol, err := Default.Direct(p, 120, 0)
	require.NoError(t, err)
	assert.InDelta(t, p.Lat, sol.Destination.Lat, 1e-12)
	assert.InDelta(t, p.Lon, sol.Destination.Lon, 1e-12)
	assert.Equal(t, 120.0, sol.FinalBearing)
}

func TestDirectInverseRoundTrip(t *testing.T) {
	cases := []struct {
		p        Point
		bearing  float64
		distance float64
	}{
		{LonLat(0, 0), 0, 1000},
		{LonLat(-2.935, 43.263), 45, 25000},
		{LonLat(144.42486789, -37.95103342), 306.868, 54972.271},
		{LonLat(-122.4194, 37.7749), 200, 1500000},
		{LonLat(18.42, -33.92), 350, 8000000},
		{LonLat(100, 60), 90, 300},
	}
	for _, tc := range cases {
		d, err := Default.Direct(tc.p, tc.bearing, tc.distance)
		require.NoError(t, err)
		inv, err := Default.Inverse(tc.p, d.Destination)
		require.NoError(t, err)

		assert.InDelta(t, tc.distance, inv.Distance, 0.002, "%+v", tc)
		diff := math.Abs(tc.bearing - inv.InitialBearing)
		if diff > 180 {
			diff = 360 - diff
		}
		assert.Less(t, diff, 0.002, "%+v", tc)
		assert.InDelta(t, d.FinalBearing, inv.FinalBearing, 0.002, "%+v", tc)
	}
}

func TestDirectInvalidInput(t *testing.T) {
	_, err := Default.Direct(LonLat(0, 0), math.NaN(), 100)
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Default.Direct(LonLat(0, 0), 10, math.Inf(-1))
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = Default.Direct(Point{Lon: 0, Lat: 0, Elevation: math.NaN()}, 10, 100)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestOrientation(t *testing.T) {
	o := LonLat(0, 0)
	e := LonLat(1, 0)

	assert.Less(t, Orientation(o, e, LonLat(1, 1)), 0.0)
	assert.Greater(t, Orientation(o, e, LonLat(1, -1)), 0.0)
	assert.Equal(t, 0.0, Orientation(o, e, LonLat(2, 0)))

	assert.Equal(t, orientation.CounterClockwise, Classify(o, e, LonLat(1, 1)))
	assert.Equal(t, orientation.Clockwise, Classify(o, e, LonLat(1, -1)))
	assert.Equal(t, orientation.Collinear, Classify(o, e, LonLat(2, 0)))

	// elevation is ignored
	assert.Equal(t, Orientation(o, e, LonLat(1, 1)),
		Orientation(Point{Elevation: 5}, Point{Lon: 1, Elevation: -3}, Point{Lon: 1, Lat: 1, Elevation: 9}))
}

func TestRound(t *testing.T) {
	assert.Equal(t, 3.0, Round(2.5, 0))
	assert.Equal(t, -3.0, Round(-2.5, 0))
	assert.Equal(t, 1.235, Round(1.23456, 3))
	assert.Equal(t, 0.0, roundBearing(359.9996, 3))
}

func TestNormalizeBearing(t *testing.T) {
	assert.Equal(t, 270.0, NormalizeBearing(-90))
	assert.Equal(t, 0.0, NormalizeBearing(720))
	assert.Equal(t, 10.0, NormalizeBearing(370))
	assert.Equal(t, 0.0, NormalizeBearing(0))
}
