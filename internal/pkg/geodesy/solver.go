package geodesy

import (
	"fmt"
	"math"
)

const (
	DefaultPrecision     = 3
	DefaultMaxIterations = 250
	DefaultTolerance     = 1e-12
)

const (
	radians = math.Pi / 180
	degrees = 180 / math.Pi
)

// Solver runs Vincenty's direct and inverse formulae against one ellipsoid.
// A Solver is a plain value and may be shared between goroutines.
type Solver struct {
	Ellipsoid Ellipsoid

	// Precision is the number of decimal places outputs are rounded to.
	Precision int
	// MaxIterations bounds the λ/σ refinement loops. Exhausting it is not an
	// error; the last iterate is returned with Converged set to false.
	MaxIterations int
	// Tolerance is the convergence threshold on successive λ (or σ) values.
	Tolerance float64
}

// NewSolver returns a solver for e with the default precision, iteration
// budget and tolerance.
func NewSolver(e Ellipsoid) Solver {
	return Solver{
		Ellipsoid:     e,
		Precision:     DefaultPrecision,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Default is a WGS84 solver with default parameters.
var Default = NewSolver(WGS84)

func (s Solver) validate() error {
	if s.Ellipsoid.polar <= 0 {
		return fmt.Errorf("%w: solver has no ellipsoid", ErrInvalidInput)
	}
	if s.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidInput, s.MaxIterations)
	}
	if s.Precision < 0 {
		return fmt.Errorf("%w: precision must not be negative, got %d", ErrInvalidInput, s.Precision)
	}
	if !finite(s.Tolerance) || s.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance %v", ErrInvalidInput, s.Tolerance)
	}
	return nil
}

// Round rounds v to places decimals, halves away from zero.
func Round(v float64, places int) float64 {
	scale := math.Pow10(places)
	return math.Round(v*scale) / scale
}

// NormalizeBearing maps a bearing in degrees onto [0, 360).
func NormalizeBearing(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	if deg >= 360 {
		deg = 0
	}
	return deg
}

// roundBearing rounds an already normalized bearing, folding 360 back to 0
// when rounding carries it over.
func roundBearing(deg float64, places int) float64 {
	deg = Round(deg, places)
	if deg >= 360 {
		deg -= 360
	}
	return deg
}

// correctionSeries returns Vincenty's A and B coefficients for u².
func correctionSeries(uSq float64) (a, b float64) {
	a = 1 + uSq/16384*(4096+uSq*(-768+uSq*(320-175*uSq)))
	b = uSq / 1024 * (256 + uSq*(-128+uSq*(74-47*uSq)))
	return a, b
}

// deltaSigma is Vincenty's Δσ.
func deltaSigma(b, sinSigma, cosSigma, cos2SigmaM float64) float64 {
	c2 := cos2SigmaM * cos2SigmaM
	return b * sinSigma * (cos2SigmaM + b/4*(cosSigma*(-1+2*c2)-
		b/6*cos2SigmaM*(-3+4*sinSigma*sinSigma)*(-3+4*c2)))
}

// lambdaC is the C coefficient of the λ correction.
func lambdaC(f, cosSqAlpha float64) float64 {
	return f / 16 * cosSqAlpha * (4 + f*(4-3*cosSqAlpha))
}
