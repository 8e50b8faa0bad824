package geodesy

import "math"

// InverseSolution is the result of the inverse geodesic problem.
type InverseSolution struct {
	Distance       float64 `json:"distance_m"`
	InitialBearing float64 `json:"initial_bearing"`
	FinalBearing   float64 `json:"final_bearing"`
	Iterations     int     `json:"iterations"`
	Converged      bool    `json:"converged"`
}

// Inverse computes the surface distance between p1 and p2 along with the
// forward azimuth at p1 and the final azimuth at p2. Elevations are ignored.
//
// Distance and both bearings are rounded to s.Precision decimals. Bearings
// are degrees clockwise from north in [0, 360).
//
// Near-antipodal inputs may fail to converge within s.MaxIterations. This is
// not an error: the last iterate is used and Converged is false.
func (s Solver) Inverse(p1, p2 Point) (InverseSolution, error) {
	if err := s.validate(); err != nil {
		return InverseSolution{}, err
	}
	if err := p1.Validate(); err != nil {
		return InverseSolution{}, err
	}
	if err := p2.Validate(); err != nil {
		return InverseSolution{}, err
	}

	f := s.Ellipsoid.flattening

	// reduced latitudes
	u1 := math.Atan((1 - f) * math.Tan(p1.Lat*radians))
	u2 := math.Atan((1 - f) * math.Tan(p2.Lat*radians))
	sinU1, cosU1 := math.Sincos(u1)
	sinU2, cosU2 := math.Sincos(u2)

	lngDiff := (p2.Lon - p1.Lon) * radians
	lambda := lngDiff

	var (
		sigma, sinSigma, cosSigma float64
		cosSqAlpha, cos2SigmaM    float64
		iterations                int
		converged                 bool
	)
	for iterations < s.MaxIterations {
		iterations++
		sinLambda, cosLambda := math.Sincos(lambda)

		x := cosU2 * sinLambda
		y := cosU1*sinU2 - sinU1*cosU2*cosLambda
		sinSigma = math.Sqrt(x*x + y*y)
		cosSigma = sinU1*sinU2 + cosU1*cosU2*cosLambda
		sigma = math.Atan2(sinSigma, cosSigma)

		// coincident points
		sinAlpha := 0.0
		if sinSigma != 0 {
			sinAlpha = cosU1 * cosU2 * sinLambda / sinSigma
		}
		cosSqAlpha = 1 - sinAlpha*sinAlpha

		// equatorial line
		cos2SigmaM = 0
		if cosSqAlpha != 0 {
			cos2SigmaM = cosSigma - 2*sinU1*sinU2/cosSqAlpha
		}

		c := lambdaC(f, cosSqAlpha)
		prev := lambda
		lambda = lngDiff + (1-c)*f*sinAlpha*
			(sigma+c*sinSigma*(cos2SigmaM+c*cosSigma*(-1+2*cos2SigmaM*cos2SigmaM)))

		if math.Abs(prev-lambda) <= s.Tolerance {
			converged = true
			break
		}
	}

	uSq := cosSqAlpha * s.Ellipsoid.secondEccentricitySq()
	a, b := correctionSeries(uSq)
	dist := s.Ellipsoid.polar * a * (sigma - deltaSigma(b, sinSigma, cosSigma, cos2SigmaM))

	sinLambda, cosLambda := math.Sincos(lambda)
	initial := math.Atan2(cosU2*sinLambda, cosU1*sinU2-sinU1*cosU2*cosLambda) * degrees
	if initial < 0 {
		initial += 360
	}
	final := math.Atan2(cosU1*sinLambda, -sinU1*cosU2+cosU1*sinU2*cosLambda) * degrees
	if final < 0 {
		final += 360
	}

	return InverseSolution{
		Distance:       Round(dist, s.Precision),
		InitialBearing: roundBearing(initial, s.Precision),
		FinalBearing:   roundBearing(final, s.Precision),
		Iterations:     iterations,
		Converged:      converged,
	}, nil
}
