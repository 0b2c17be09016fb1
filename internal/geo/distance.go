// Package geo holds the great-circle math used to relate query locations
// to launch pads.
package geo

import (
	"math"

	"github.com/kulbasnet/launchwatch/internal/models"
)

const earthRadiusKm = 6371.0

// Distance returns the haversine great-circle distance between two
// coordinates in kilometers.
func Distance(a, b models.Coordinate) float64 {
	lat1 := radians(a.Latitude)
	lat2 := radians(b.Latitude)
	dLat := radians(b.Latitude - a.Latitude)
	dLon := radians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusKm * c
}

func radians(degrees float64) float64 {
	return degrees * math.Pi / 180
}
