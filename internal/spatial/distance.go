package spatial

import (
	"github.com/golang/geo/s2"
)

// Constants
const (
	EarthRadiusMeters = 6371000.0 // Earth's mean radius in meters
	EarthRadiusKm     = 6371.0    // Earth's mean radius in kilometers
)

// HaversineDistance calculates the great-circle distance between two points in meters
func HaversineDistance(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * EarthRadiusMeters
}

// HaversineKm calculates the great-circle distance between two points in kilometers
func HaversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	return HaversineDistance(lat1, lng1, lat2, lng2) / 1000
}

// EffectiveSearchRadiusMeters derives the nearby-search radius from the road
// distance limit. Straight-line radius understates road distance, so the
// search circle is 1.5x the limit, never less than 15km.
func EffectiveSearchRadiusMeters(maxDistanceKm float64) uint {
	radius := maxDistanceKm * 1500
	if radius < 15000 {
		radius = 15000
	}
	return uint(radius)
}
