package domain

import (
	"math"

	"github.com/samirrijal/geoshape/internal/pkg/geodesy"
)

// Bounds represents a geographic bounding box.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsOf returns the box enclosing every point. The zero Bounds is
// returned for no points.
func BoundsOf(points ...[]geodesy.Point) Bounds {
	b := Bounds{
		MinLat: math.Inf(1), MinLon: math.Inf(1),
		MaxLat: math.Inf(-1), MaxLon: math.Inf(-1),
	}
	n := 0
	for _, ps := range points {
		for _, p := range ps {
			b.MinLat = math.Min(b.MinLat, p.Lat)
			b.MinLon = math.Min(b.MinLon, p.Lon)
			b.MaxLat = math.Max(b.MaxLat, p.Lat)
			b.MaxLon = math.Max(b.MaxLon, p.Lon)
			n++
		}
	}
	if n == 0 {
		return Bounds{}
	}
	return b
}
