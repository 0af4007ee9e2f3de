package geo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vaskito85/buscador-precios/pkg/geo"
)

func TestDistance_Identity(t *testing.T) {
	t.Parallel()

	p := geo.Point{Lat: -38.7183, Lon: -62.2663}
	require.Zero(t, geo.Distance(p, p))
}

func TestDistance_Symmetric(t *testing.T) {
	t.Parallel()

	a := geo.Point{Lat: -34.6037, Lon: -58.3816} // Buenos Aires
	b := geo.Point{Lat: -38.7183, Lon: -62.2663} // Bahía Blanca

	require.InDelta(t, geo.Distance(a, b), geo.Distance(b, a), 1e-9)
}

func TestDistance_KnownValue(t *testing.T) {
	t.Parallel()

	// one degree of latitude along a meridian is ~111.19 km on the spherical model
	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 1, Lon: 0}

	require.InDelta(t, 111195, geo.Distance(a, b), 10)
}

func TestWithinRadiusKm_InclusiveBoundary(t *testing.T) {
	t.Parallel()

	a := geo.Point{Lat: 0, Lon: 0}
	b := geo.Point{Lat: 1, Lon: 0}
	d := geo.Distance(a, b)

	// exactly at the boundary counts as in range, one meter beyond does not
	require.True(t, geo.WithinRadiusKm(a, b, d/1000))
	require.False(t, geo.WithinRadiusKm(a, b, (d-1)/1000))
}

func TestPoint_Valid(t *testing.T) {
	t.Parallel()

	require.True(t, geo.Point{Lat: 90, Lon: -180}.Valid())
	require.True(t, geo.Point{Lat: -38.7183, Lon: -62.2663}.Valid())
	require.False(t, geo.Point{Lat: 90.01, Lon: 0}.Valid())
	require.False(t, geo.Point{Lat: 0, Lon: 180.5}.Valid())
}

func TestBoundingBox_ContainsCircle(t *testing.T) {
	t.Parallel()

	center := geo.Point{Lat: -38.7183, Lon: -62.2663}
	minLat, maxLat, minLon, maxLon := geo.BoundingBox(center, 5)

	// points on the cardinal edges of the circle stay inside the box
	for _, p := range []geo.Point{
		{Lat: center.Lat + 0.0449, Lon: center.Lon}, // ~5km north
		{Lat: center.Lat - 0.0449, Lon: center.Lon},
		{Lat: center.Lat, Lon: center.Lon + 0.0575}, // ~5km east at this latitude
		{Lat: center.Lat, Lon: center.Lon - 0.0575},
	} {
		require.GreaterOrEqual(t, p.Lat, minLat)
		require.LessOrEqual(t, p.Lat, maxLat)
		require.GreaterOrEqual(t, p.Lon, minLon)
		require.LessOrEqual(t, p.Lon, maxLon)
	}
}

func TestBoundingBox_Poles(t *testing.T) {
	t.Parallel()

	minLat, maxLat, minLon, maxLon := geo.BoundingBox(geo.Point{Lat: 89.9, Lon: 10}, 50)
	require.LessOrEqual(t, maxLat, 90.0)
	require.GreaterOrEqual(t, minLat, 89.0)
	require.Equal(t, -180.0, minLon)
	require.Equal(t, 180.0, maxLon)
}
