package geospatial

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

var labelHeaders = []string{"Radius", "Units"}

// RingsSpec describes a set of concentric circles at a fixed radius
// increment, each with a label anchor.
type RingsSpec struct {
	Center       geodesy.Point
	StartRadius  float64
	Increment    float64
	Count        int
	Steps        int     // samples per ring, at least 1
	LabelBearing float64 // bearing from the center to every label
	Name         string  // ring name prefix; defaults to "Ring"
	Units        string  // appended to label names; defaults to "m"
	Workers      int     // concurrent ring builders; 0 means 4
}

// RingSet holds ring boundaries and their labels. Rings[i] and Labels[i]
// describe the same radius, in ascending ring index order.
type RingSet struct {
	Rings  []Shape `json:"rings"`
	Labels []Label `json:"labels"`
}

// Radii returns the ring radii StartRadius + i·Increment for i in [0, Count).
func (spec RingsSpec) Radii() []float64 {
	radii := make([]float64, spec.Count)
	for i := range radii {
		radii[i] = spec.StartRadius + float64(i)*spec.Increment
	}
	return radii
}

// GraduatedRings builds Count circles around Center. Rings are built
// concurrently; the result order is by ring index regardless of completion
// order. Cancelling ctx stops scheduling further rings.
func GraduatedRings(ctx context.Context, s geodesy.Solver, spec RingsSpec) (RingSet, error) {
	if err := spec.Center.Validate(); err != nil {
		return RingSet{}, err
	}
	if !isFinite(spec.StartRadius) || !isFinite(spec.Increment) || !isFinite(spec.LabelBearing) {
		return RingSet{}, fmt.Errorf("%w: ring parameters must be numeric", geodesy.ErrInvalidInput)
	}
	if spec.Count < 1 {
		return RingSet{}, fmt.Errorf("%w: ring count must be at least 1, got %d", geodesy.ErrInvalidInput, spec.Count)
	}
	if spec.Steps < 1 {
		return RingSet{}, fmt.Errorf("%w: a ring needs at least 1 step, got %d", geodesy.ErrInvalidInput, spec.Steps)
	}

	spec = spec.withDefaults()

	radii := spec.Radii()
	for _, r := range radii {
		if err := checkRadius(r); err != nil {
			return RingSet{}, err
		}
	}

	set := RingSet{
		Rings:  make([]Shape, len(radii)),
		Labels: make([]Label, len(radii)),
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(spec.Workers)
	for i := range radii {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			ring, label, err := RingAt(s, spec, i)
			if err != nil {
				return err
			}
			set.Rings[i] = ring
			set.Labels[i] = label
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return RingSet{}, err
	}
	return set, nil
}

// RingAt builds ring i of spec and its label without validating the rest
// of the set.
func RingAt(s geodesy.Solver, spec RingsSpec, i int) (Shape, Label, error) {
	spec = spec.withDefaults()
	radius := spec.StartRadius + float64(i)*spec.Increment

	ring, err := Circle(s, CircleSpec{
		Center: spec.Center,
		Radius: radius,
		Steps:  spec.Steps,
		Name:   fmt.Sprintf("%s %s %s", spec.Name, formatFloat(radius), spec.Units),
	})
	if err != nil {
		return Shape{}, Label{}, fmt.Errorf("ring %d: %w", i, err)
	}

	anchor, err := s.Direct(spec.Center, spec.LabelBearing, radius)
	if err != nil {
		return Shape{}, Label{}, fmt.Errorf("label %d: %w", i, err)
	}

	return ring, Label{
		Name:       formatFloat(radius) + " " + spec.Units,
		Point:      anchor.Destination,
		Attributes: attributes(labelHeaders, formatFloat(radius), spec.Units),
	}, nil
}

func (spec RingsSpec) withDefaults() RingsSpec {
	if spec.Name == "" {
		spec.Name = "Ring"
	}
	if spec.Units == "" {
		spec.Units = "m"
	}
	if spec.Workers <= 0 {
		spec.Workers = 4
	}
	return spec
}
