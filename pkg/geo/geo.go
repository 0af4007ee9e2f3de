// Package geo provides the geographic primitives shared by alert matching and
// the nearby-stores display query: a Point type and a great-circle distance on
// a spherical earth model. Both consumers must use the same distance function
// so that a store shown as "in range" also matches for alert purposes.
package geo

import "math"

// earthRadiusMeters is the mean earth radius of the spherical model.
const earthRadiusMeters = 6371.0 * 1000

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Valid reports whether the point lies within the WGS84 coordinate ranges.
func (p Point) Valid() bool {
	return p.Lat >= -90 && p.Lat <= 90 && p.Lon >= -180 && p.Lon <= 180
}

// Distance returns the great-circle (haversine) distance between a and b in
// meters. It is symmetric and returns 0 for identical points.
func Distance(a, b Point) float64 {
	latA := a.Lat * math.Pi / 180
	latB := b.Lat * math.Pi / 180
	dLat := (b.Lat - a.Lat) * math.Pi / 180
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(latA)*math.Cos(latB)*math.Sin(dLon/2)*math.Sin(dLon/2)

	return earthRadiusMeters * 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}

// WithinRadiusKm reports whether b lies within radiusKm kilometers of a.
// The comparison is inclusive: a point exactly on the boundary is in range.
func WithinRadiusKm(a, b Point, radiusKm float64) bool {
	return Distance(a, b) <= radiusKm*1000
}

// BoundingBox returns a latitude/longitude box that fully contains the circle
// of radiusKm kilometers around p. It is used as a cheap SQL prefilter before
// the exact Distance check; the box is slightly larger than the circle, never
// smaller. Near the poles the longitude span degenerates to the full range.
func BoundingBox(p Point, radiusKm float64) (minLat, maxLat, minLon, maxLon float64) {
	latDelta := radiusKm * 1000 / earthRadiusMeters * 180 / math.Pi
	minLat = math.Max(p.Lat-latDelta, -90)
	maxLat = math.Min(p.Lat+latDelta, 90)

	// shrinking cosine widens the longitude span as we move away from the equator
	cos := math.Cos(p.Lat * math.Pi / 180)
	if cos < 1e-6 {
		return minLat, maxLat, -180, 180
	}
	lonDelta := latDelta / cos
	if lonDelta >= 180 {
		return minLat, maxLat, -180, 180
	}

	return minLat, maxLat, p.Lon - lonDelta, p.Lon + lonDelta
}
