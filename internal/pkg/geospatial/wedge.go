package geospatial

import (
	"strconv"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

const (
	DefaultWedgeSteps = 15
	DefaultWedgeName  = "Wedge"
)

var wedgeHeaders = []string{"Azimuth", "Width", "Radius", "Steps", "Center Lat", "Center Lng", "Center Z"}

// WedgeSpec describes a pie-slice polygon.
type WedgeSpec struct {
	Center  geodesy.Point
	Azimuth float64 // bearing of the arc's midpoint
	Width   float64 // angular width of the arc in degrees
	Radius  float64 // length of the straight edges in meters
	Steps   int     // vertices along the arc, at least 2
	Name    string

	// Headers and Values, when both are set and the same length, replace
	// the generated attribute table.
	Headers []string
	Values  []string
}

// Wedge samples the wedge's arc and closes it through the center point.
func Wedge(s geodesy.Solver, spec WedgeSpec) (Shape, error) {
	if err := spec.Center.Validate(); err != nil {
		return Shape{}, err
	}
	steps := spec.Steps
	name := spec.Name
	if name == "" {
		name = DefaultWedgeName
	}

	bearings, err := WedgeBearings(spec.Azimuth, spec.Width, steps)
	if err != nil {
		return Shape{}, err
	}
	arc, err := SampleArc(s, spec.Center, bearings, spec.Radius)
	if err != nil {
		return Shape{}, err
	}

	ring := make(Ring, 0, len(arc)+2)
	ring = append(ring, spec.Center)
	ring = append(ring, arc...)
	ring = append(ring, spec.Center)

	c := spec.Center
	attrs := attributes(wedgeHeaders,
		formatFloat(spec.Azimuth),
		formatFloat(spec.Width),
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
