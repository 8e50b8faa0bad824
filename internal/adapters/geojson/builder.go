// Package geojson renders shapes as a GeoJSON FeatureCollection.
package geojson

import (
	"fmt"

	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/geojson"

	"github.com/samirrijal/geoshape/internal/pkg/geospatial"
)

// Builder implements ports.FeatureBuilder. It is not safe for concurrent use.
type Builder struct {
	fc geojson.FeatureCollection
}

// NewBuilder returns an empty collection builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// PolygonFeature appends a polygon. rings[0] is the outer boundary.
func (b *Builder) PolygonFeature(rings [][][]float64, name string, attrs []geospatial.Attribute) error {
	coords := make([][]geom.Coord, len(rings))
	for i, ring := range rings {
		coords[i] = make([]geom.Coord, len(ring))
		for j, c := range ring {
			coords[i][j] = geom.Coord(c)
		}
	}
	poly, err := geom.NewPolygon(geom.XYZ).SetCoords(coords)
	if err != nil {
		return fmt.Errorf("polygon: %w", err)
	}
	b.append(poly, name, attrs)
	return nil
}

// PointFeature appends a point.
func (b *Builder) PointFeature(coord []float64, name string, attrs []geospatial.Attribute) error {
	layout := geom.XYZ
	if len(coord) == 2 {
		layout = geom.XY
	}
	pt, err := geom.NewPoint(layout).SetCoords(geom.Coord(coord))
	if err != nil {
		return fmt.Errorf("point: %w", err)
	}
	b.append(pt, name, attrs)
	return nil
}

// Bytes encodes the collection.
func (b *Builder) Bytes() ([]byte, error) {
	if b.fc.Features == nil {
		b.fc.Features = []*geojson.Feature{}
	}
	return b.fc.MarshalJSON()
}

// Len is the number of features added so far.
func (b *Builder) Len() int {
	return len(b.fc.Features)
}

// append records a feature. Attributes are exposed both as flat properties
// and as an ordered "attributes" list, since JSON objects lose order.
func (b *Builder) append(g geom.T, name string, attrs []geospatial.Attribute) {
	props := map[string]any{"name": name}
	if len(attrs) > 0 {
		ordered := make([]map[string]string, len(attrs))
		for i, a := range attrs {
			ordered[i] = map[string]string{"header": a.Header, "value": a.Value}
			if _, taken := props[a.Header]; !taken {
				props[a.Header] = a.Value
			}
		}
		props["attributes"] = ordered
	}
	b.fc.Features = append(b.fc.Features, &geojson.Feature{
		Geometry:   g,
		Properties: props,
	})
}
