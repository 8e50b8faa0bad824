package geospatial

import (
	"strconv"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

// Ring is a closed boundary: the first point is repeated as the last.
type Ring []geodesy.Point

// Closed reports whether the ring ends where it starts.
func (r Ring) Closed() bool {
	return len(r) > 0 && r[0] == r[len(r)-1]
}

// Coords returns the ring as (x, y, z) triples.
func (r Ring) Coords() [][]float64 {
	out := make([][]float64, len(r))
	for i, p := range r {
		out[i] = p.Coord()
	}
	return out
}

// Attribute is one header/value row of a feature's attribute table.
type Attribute struct {
	Header string `json:"header"`
	Value  string `json:"value"`
}

// Shape is a named polygon boundary with its attribute table, ready to be
// handed to a markup layer.
type Shape struct {
	Name       string      `json:"name"`
	Ring       Ring        `json:"ring"`
	Attributes []Attribute `json:"attributes"`
}

// Label is a named anchor point with its own attribute table.
type Label struct {
	Name       string        `json:"name"`
	Point      geodesy.Point `json:"point"`
	Attributes []Attribute   `json:"attributes,omitempty"`
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func attributes(headers []string, values ...string) []Attribute {
	attrs := make([]Attribute, len(headers))
	for i, h := range headers {
		attrs[i] = Attribute{Header: h, Value: values[i]}
	}
	return attrs
}

// overrideAttributes replaces the generated table when the caller supplied
// a complete replacement of equal length headers and values.
func overrideAttributes(generated []Attribute, headers, values []string) []Attribute {
	if len(headers) == 0 || len(headers) != len(values) {
		return generated
	}
	return attributes(headers, values...)
}
