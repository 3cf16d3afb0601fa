package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	p := Point{Lat: 12.9716, Lng: 77.5946}
	require.Zero(t, Distance(p, p))
	require.True(t, WithinRadius(p, p, 0))
}

func TestDistanceKnownFixture(t *testing.T) {
	// Two points in Bangalore roughly 1.7 km apart.
	a := Point{Lat: 12.9716, Lng: 77.5946}
	b := Point{Lat: 12.9800, Lng: 77.6100}

	d := Distance(a, b)
	require.Greater(t, d, 1000.0)
	require.Less(t, d, 2500.0)
	require.False(t, WithinRadius(a, b, 50))
}

func TestWithinRadiusSymmetry(t *testing.T) {
	a := Point{Lat: 12.9716, Lng: 77.5946}
	b := Point{Lat: 12.9717, Lng: 77.5947}

	require.Equal(t, WithinRadius(a, b, 50), WithinRadius(b, a, 50))
	require.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestWithinRadiusBoundary(t *testing.T) {
	a := Point{Lat: 12.9716, Lng: 77.5946}
	b := Point{Lat: 12.9720, Lng: 77.5946}

	d := Distance(a, b)
	require.True(t, WithinRadius(a, b, d))
	require.True(t, WithinRadius(a, b, d+1e-6))
	require.False(t, WithinRadius(a, b, d-1))
}

func TestWithinRadiusRejectsMalformedPoints(t *testing.T) {
	valid := Point{Lat: 12.9716, Lng: 77.5946}

	require.False(t, WithinRadius(Point{Lat: math.NaN(), Lng: 0}, valid, 100))
	require.False(t, WithinRadius(valid, Point{Lat: 0, Lng: math.Inf(1)}, 100))
	require.False(t, WithinRadius(valid, valid, -1))
}
