package geo

import (
	"testing"

	"github.com/kulbasnet/launchwatch/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestDistance_SamePointIsZero(t *testing.T) {
	points := []models.Coordinate{
		{Latitude: 0, Longitude: 0},
		{Latitude: 28.5618, Longitude: -80.5772},
		{Latitude: -39.26, Longitude: 177.86},
		{Latitude: 90, Longitude: 0},
	}

	for _, p := range points {
		assert.Zero(t, Distance(p, p), "distance from %+v to itself", p)
	}
}

func TestDistance_Symmetric(t *testing.T) {
	a := models.Coordinate{Latitude: 28.5618, Longitude: -80.5772}
	b := models.Coordinate{Latitude: 40.7128, Longitude: -74.006}

	assert.InDelta(t, Distance(a, b), Distance(b, a), 1e-9)
}

func TestDistance_OneDegreeOfLongitudeAtEquator(t *testing.T) {
	a := models.Coordinate{Latitude: 0, Longitude: 0}
	b := models.Coordinate{Latitude: 0, Longitude: 1}

	assert.InDelta(t, 111.19, Distance(a, b), 0.5)
}

func TestDistance_KnownPads(t *testing.T) {
	// Orlando to the Cape Canaveral SLC-40 pad is well under 100 km.
	orlando := models.Coordinate{Latitude: 28.5384, Longitude: -81.3789}
	slc40 := models.Coordinate{Latitude: 28.5618, Longitude: -80.5772}

	d := Distance(orlando, slc40)
	assert.Greater(t, d, 70.0)
	assert.Less(t, d, 90.0)
}
