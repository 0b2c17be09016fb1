package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatDatetime(t *testing.T) {
	assert.Equal(t, "N/A", FormatDatetime(""))
	assert.Equal(t, "not a timestamp", FormatDatetime("not a timestamp"))
	assert.Equal(t, "November 10, 2025 at 08:56 PM UTC", FormatDatetime("2025-11-10T20:56:00Z"))
	assert.Equal(t, "January 01, 2026 at 12:05 AM UTC", FormatDatetime("2026-01-01T00:05:00Z"))
}

func TestPadCoordinate(t *testing.T) {
	lat, lon := 28.5618, -80.5772

	l := &Launch{Latitude: &lat, Longitude: &lon}
	coord, ok := l.PadCoordinate()
	require.True(t, ok)
	assert.Equal(t, 28.5618, coord.Latitude)
	assert.Equal(t, -80.5772, coord.Longitude)

	_, ok = (&Launch{Latitude: &lat}).PadCoordinate()
	assert.False(t, ok)

	_, ok = (&Launch{}).PadCoordinate()
	assert.False(t, ok)
}

func TestCoordinateValid(t *testing.T) {
	assert.True(t, Coordinate{Latitude: 0, Longitude: 0}.Valid())
	assert.True(t, Coordinate{Latitude: -90, Longitude: 180}.Valid())
	assert.False(t, Coordinate{Latitude: 90.1, Longitude: 0}.Valid())
	assert.False(t, Coordinate{Latitude: 0, Longitude: -180.5}.Valid())
}

func TestFormatLaunch(t *testing.T) {
	probability := 95
	lat, lon := 28.5618, -80.5772

	l := &Launch{
		Name:         "Falcon 9 | Starlink",
		Status:       "Go for Launch",
		StatusAbbrev: "Go",
		Net:          FormatDatetime("2025-11-10T20:56:00Z"),
		Rocket:       "Falcon 9 Block 5",
		Provider:     "SpaceX",
		ProviderType: "Commercial",
		MissionName:  "Starlink G10",
		MissionType:  "Communications",
		Orbit:        "LEO",
		PadName:      "SLC-40",
		Location:     "Cape Canaveral, FL, USA",
		CountryCode:  "USA",
		Latitude:     &lat,
		Longitude:    &lon,
		Probability:  &probability,
		WebcastLive:  true,
		URL:          "https://ll.example/launch/l1",
	}

	out := FormatLaunch(l)

	assert.Contains(t, out, "Falcon 9 | Starlink")
	assert.Contains(t, out, "Status: Go for Launch (Go)")
	assert.Contains(t, out, "Launch Time (NET): November 10, 2025 at 08:56 PM UTC")
	assert.Contains(t, out, "Provider: SpaceX (Commercial)")
	assert.Contains(t, out, "Orbit: LEO")
	assert.Contains(t, out, "Coordinates: 28.5618, -80.5772")
	assert.Contains(t, out, "Probability: 95%")
	assert.Contains(t, out, "Webcast: LIVE")
}

func TestFormatLaunch_SparseEntry(t *testing.T) {
	out := FormatLaunch(&Launch{Name: "Long March | Mystery"})

	assert.Contains(t, out, "Long March | Mystery")
	assert.NotContains(t, out, "Status:")
	assert.NotContains(t, out, "Coordinates:")
	assert.NotContains(t, out, "Probability:")
}
