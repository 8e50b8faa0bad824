package geodesy

import "github.com/twpayne/go-geom/xy/orientation"

// Orientation returns the determinant
//
//	(y2-y1)(x3-x2) - (y3-y2)(x2-x1)
//
// of the turn p1→p2→p3 using longitude as x and latitude as y. Negative is a
// counterclockwise turn, zero is collinear and positive is clockwise. The
// magnitude is twice the signed triangle area.
func Orientation(p1, p2, p3 Point) float64 {
	return (p2.Lat-p1.Lat)*(p3.Lon-p2.Lon) - (p3.Lat-p2.Lat)*(p2.Lon-p1.Lon)
}

// Classify maps the sign of Orientation onto go-geom's orientation index.
func Classify(p1, p2, p3 Point) orientation.Type {
	switch det := Orientation(p1, p2, p3); {
	case det < 0:
		return orientation.CounterClockwise
	case det > 0:
		return orientation.Clockwise
	default:
		return orientation.Collinear
	}
}
