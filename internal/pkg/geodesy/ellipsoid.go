// Package geodesy solves the direct and inverse geodesic problems on a
// biaxial ellipsoid using Vincenty's formulae.
package geodesy

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned when a caller passes a value the solvers cannot
// work with (NaN, Inf, a non-positive polar radius, a zero iteration budget).
var ErrInvalidInput = errors.New("geodesy: invalid input")

// WGS84 conforming ellipsoid.
// https://en.wikipedia.org/wiki/World_Geodetic_System
var WGS84 = mustEllipsoid(6378137.0, 1/298.257223563)

// Ellipsoid is an immutable biaxial earth model.
type Ellipsoid struct {
	radius     float64
	flattening float64
	polar      float64
}

// NewEllipsoid initializes a new ellipsoid.
//
// Param radius is the equatorial radius (meters).
// Param flattening is the flattening factor of the ellipsoid.
func NewEllipsoid(radius, flattening float64) (Ellipsoid, error) {
	if !finite(radius) || !finite(flattening) {
		return Ellipsoid{}, fmt.Errorf("%w: ellipsoid parameters must be finite", ErrInvalidInput)
	}
	polar := (1 - flattening) * radius
	if polar <= 0 {
		return Ellipsoid{}, fmt.Errorf("%w: polar radius %g is not positive", ErrInvalidInput, polar)
	}
	return Ellipsoid{radius: radius, flattening: flattening, polar: polar}, nil
}

func mustEllipsoid(radius, flattening float64) Ellipsoid {
	e, err := NewEllipsoid(radius, flattening)
	if err != nil {
		panic(err)
	}
	return e
}

// Radius is the equatorial radius in meters.
func (e Ellipsoid) Radius() float64 { return e.radius }

// Flattening of the ellipsoid.
func (e Ellipsoid) Flattening() float64 { return e.flattening }

// PolarRadius is the semi-minor axis, (1-f)·radius.
func (e Ellipsoid) PolarRadius() float64 { return e.polar }

// secondEccentricitySq is (a²-b²)/b², the factor that turns cos²α into u².
func (e Ellipsoid) secondEccentricitySq() float64 {
	return (e.radius*e.radius - e.polar*e.polar) / (e.polar * e.polar)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
