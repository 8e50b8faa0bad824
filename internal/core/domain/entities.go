package domain

import (
	"errors"
	"time"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

// ErrNotFound is returned by repositories when a record does not exist.
var ErrNotFound = errors.New("not found")

// ShapeKind names the generator that produced a shape.
type ShapeKind string

const (
	KindWedge  ShapeKind = "wedge"
	KindCircle ShapeKind = "circle"
	KindRings  ShapeKind = "rings"
)

// Valid reports whether k is a known kind.
func (k ShapeKind) Valid() bool {
	switch k {
	case KindWedge, KindCircle, KindRings:
		return true
	}
	return false
}

// ShapeRecord is a generated shape as archived and served by the API.
type ShapeRecord struct {
	ID        string             `json:"id"`
	Kind      ShapeKind          `json:"kind"`
	Name      string             `json:"name"`
	Center    geodesy.Point      `json:"center"`
	Params    map[string]any     `json:"params,omitempty"`
	Shapes    []geospatial.Shape `json:"shapes"`
	Labels    []geospatial.Label `json:"labels,omitempty"`
	Bounds    Bounds             `json:"bounds"`
	CreatedAt time.Time          `json:"created_at"`
}

// VertexCount is the number of boundary points across all shapes.
func (r *ShapeRecord) VertexCount() int {
	n := 0
	for _, s := range r.Shapes {
		n += len(s.Ring)
	}
	return n
}

// ShapeEvent is published whenever a shape is generated.
type ShapeEvent struct {
	ShapeID     string        `json:"shape_id"`
	Kind        ShapeKind     `json:"kind"`
	Name        string        `json:"name"`
	Center      geodesy.Point `json:"center"`
	RingCount   int           `json:"ring_count"`
	VertexCount int           `json:"vertex_count"`
	CreatedAt   time.Time     `json:"created_at"`
}

// EventFor summarises a record as an event.
func EventFor(r *ShapeRecord) ShapeEvent {
	return ShapeEvent{
		ShapeID:     r.ID,
		Kind:        r.Kind,
		Name:        r.Name,
		Center:      r.Center,
		RingCount:   len(r.Shapes),
		VertexCount: r.VertexCount(),
		CreatedAt:   r.CreatedAt,
	}
}

// Orientation is the signed turn of three points and its classification.
type Orientation struct {
	Determinant float64 `json:"determinant"`
	Turn        string  `json:"turn"` // counterclockwise | collinear | clockwise
}
