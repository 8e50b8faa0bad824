package geodesy

import "fmt"

// Point is a geodetic coordinate in decimal degrees. X/Y ordering follows
// the markup convention: longitude first, then latitude, then elevation.
type Point struct {
	Lon       float64 `json:"lon"`
	Lat       float64 `json:"lat"`
	Elevation float64 `json:"elevation"`
}

// LonLat builds a point at zero elevation.
func LonLat(lon, lat float64) Point {
	return Point{Lon: lon, Lat: lat}
}

// Coord returns the point as an (x, y, z) triple.
func (p Point) Coord() []float64 {
	return []float64{p.Lon, p.Lat, p.Elevation}
}

// Validate reports ErrInvalidInput for NaN or infinite components.
func (p Point) Validate() error {
	if !finite(p.Lon) || !finite(p.Lat) || !finite(p.Elevation) {
		return fmt.Errorf("%w: point (%v, %v, %v) is not numeric", ErrInvalidInput, p.Lon, p.Lat, p.Elevation)
	}
	return nil
}
