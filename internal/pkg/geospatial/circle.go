package geospatial

import (
	"strconv"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

const (
	DefaultCircleSteps = 36
	DefaultCircleName  = "Circle"
)

var circleHeaders = []string{"Radius", "Steps", "Center Lat", "Center Lng", "Center Z"}

// CircleSpec describes a geodesic circle.
type CircleSpec struct {
	Center geodesy.Point
	Radius float64
	Steps  int // at least 1
	Name   string

	Headers []string
	Values  []string
}

// Circle samples the full circle and re-appends the first sample to close
// the ring. The center is not part of the boundary.
func Circle(s geodesy.Solver, spec CircleSpec) (Shape, error) {
	if err := spec.Center.Validate(); err != nil {
		return Shape{}, err
	}
	steps := spec.Steps
	name := spec.Name
	if name == "" {
		name = DefaultCircleName
	}

	bearings, err := CircleBearings(steps)
	if err != nil {
		return Shape{}, err
	}
	arc, err := SampleArc(s, spec.Center, bearings, spec.Radius)
	if err != nil {
		return Shape{}, err
	}

	ring := make(Ring, 0, len(arc)+1)
	ring = append(ring, arc...)
	ring = append(ring, arc[0])

	c := spec.Center
	attrs := attributes(circleHeaders,
		formatFloat(spec.Radius),
		strconv.Itoa(steps),
		formatFloat(c.Lat),
		formatFloat(c.Lon),
		formatFloat(c.Elevation),
	)

	return Shape{
		Name:       name,
		Ring:       ring,
		Attributes: overrideAttributes(attrs, spec.Headers, spec.Values),
	}, nil
}
