package geodesy

import (
	"fmt"
	"math"
)

// DirectSolution is the result of the direct geodesic problem.
type DirectSolution struct {
	Destination  Point   `json:"destination"`
	FinalBearing float64 `json:"final_bearing"`
	Iterations   int     `json:"iterations"`
	Converged    bool    `json:"converged"`
}

// Direct computes the point reached by travelling distance meters from p1
// along the geodesic leaving at bearing degrees from north, and the final
// bearing on arrival.
//
// Only FinalBearing is rounded to s.Precision; the destination keeps full
// floating point precision. The destination carries p1's elevation and its
// longitude is not wrapped into [-180, 180].
func (s Solver) Direct(p1 Point, bearing, distance float64) (DirectSolution, error) {
	if err := s.validate(); err != nil {
		return DirectSolution{}, err
	}
	if err := p1.Validate(); err != nil {
		return DirectSolution{}, err
	}
	if !finite(bearing) || !finite(distance) {
		return DirectSolution{}, fmt.Errorf("%w: bearing %v, distance %v", ErrInvalidInput, bearing, distance)
	}

	f := s.Ellipsoid.flattening
	bPolar := s.Ellipsoid.polar

	alpha1 := bearing * radians
	sinAlpha1, cosAlpha1 := math.Sincos(alpha1)

	tanU1 := (1 - f) * math.Tan(p1.Lat*radians)
	cosU1 := 1 / math.Sqrt(1+tanU1*tanU1)
	sinU1 := tanU1 * cosU1

	sigma1 := math.Atan2(tanU1, cosAlpha1)
	sinAlpha := cosU1 * sinAlpha1
	cosSqAlpha := 1 - sinAlpha*sinAlpha
	uSq := cosSqAlpha * s.Ellipsoid.secondEccentricitySq()
	a, b := correctionSeries(uSq)

	first := distance / (bPolar * a)
	sigma := first

	var (
		cos2SigmaM float64
		iterations int
		converged  bool
	)
	for iterations < s.MaxIterations {
		iterations++
		cos2SigmaM = math.Cos(2*sigma1 + sigma)
		next := first + deltaSigma(b, math.Sin(sigma), math.Cos(sigma), cos2SigmaM)

		diff := math.Abs(sigma - next)
		sigma = next
		if diff <= s.Tolerance {
			converged = true
			break
		}
	}

	sinSigma, cosSigma := math.Sincos(sigma)

	tmp := sinU1*sinSigma - cosU1*cosSigma*cosAlpha1
	lat2 := math.Atan2(
		sinU1*cosSigma+cosU1*sinSigma*cosAlpha1,
		(1-f)*math.Sqrt(sinAlpha*sinAlpha+tmp*tmp),
	)

	lambda := math.Atan2(sinSigma*sinAlpha1, cosU1*cosSigma-sinU1*sinSigma*cosAlpha1)
	c := lambdaC(f, cosSqAlpha)
	l := lambda - (1-c)*f*sinAlpha*
		(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

	final := math.Atan2(sinAlpha, -tmp) * degrees
	if final < 0 {
		final += 360
	}

	return DirectSolution{
		Destination: Point{
			Lon:       p1.Lon + l*degrees,
			Lat:       lat2 * degrees,
			Elevation: p1.Elevation,
		},
		FinalBearing: roundBearing(final, s.Precision),
		Iterations:   iterations,
		Converged:    converged,
	}, nil
}
