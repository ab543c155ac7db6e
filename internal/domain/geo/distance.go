// Package geo holds the distance math behind nearby-feature lookups on
// planetary surfaces.
package geo

import "math"

// KMPerDegree approximates surface kilometers per degree of latitude or
// longitude. One value serves every body; proximity ordering does not need
// survey accuracy.
const KMPerDegree = 111.0

// PlanarDistanceKM returns the approximate surface distance in kilometers
// between two points given in degrees. The grid is treated as flat, so the
// same formula works for every body regardless of radius.
func PlanarDistanceKM(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := lat2 - lat1
	dLon := lon2 - lon1
	return math.Sqrt(dLat*dLat+dLon*dLon) * KMPerDegree
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
