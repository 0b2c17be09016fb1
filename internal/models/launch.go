package models

import (
	"fmt"
	"strings"
	"time"
)

// Launch is one upcoming launch projected from the Launch Library feed.
// Net and the window bounds are kept both raw (ISO-8601, for parsing) and
// formatted (for display). DistanceKm, WeatherForecast and Visibility are
// request-scoped fields attached during correlation.
type Launch struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	Status             string         `json:"status"`
	StatusAbbrev       string         `json:"status_abbrev,omitempty"`
	StatusDescription  string         `json:"status_description,omitempty"`
	Net                string         `json:"net"`
	NetRaw             string         `json:"net_raw"`
	WindowStart        string         `json:"window_start,omitempty"`
	WindowStartRaw     string         `json:"window_start_raw,omitempty"`
	WindowEnd          string         `json:"window_end,omitempty"`
	WindowEndRaw       string         `json:"window_end_raw,omitempty"`
	Probability        *int           `json:"probability"`
	Provider           string         `json:"launch_service_provider"`
	ProviderType       string         `json:"provider_type,omitempty"`
	Rocket             string         `json:"rocket,omitempty"`
	MissionName        string         `json:"mission_name,omitempty"`
	MissionDescription string         `json:"mission_description,omitempty"`
	MissionType        string         `json:"mission_type,omitempty"`
	Orbit              string         `json:"orbit,omitempty"`
	PadName            string         `json:"pad_name,omitempty"`
	Location           string         `json:"location,omitempty"`
	Latitude           *float64       `json:"latitude"`
	Longitude          *float64       `json:"longitude"`
	CountryCode        string         `json:"country_code,omitempty"`
	Image              string         `json:"image,omitempty"`
	WebcastLive        bool           `json:"webcast_live"`
	URL                string         `json:"url,omitempty"`
	DistanceKm         float64        `json:"distance_km,omitempty"`
	WeatherForecast    *LaunchWeather `json:"weather_forecast,omitempty"`
	Visibility         *Visibility    `json:"visibility,omitempty"`
}

// PadCoordinate returns the pad location when both components are known.
func (l *Launch) PadCoordinate() (Coordinate, bool) {
	if l.Latitude == nil || l.Longitude == nil {
		return Coordinate{}, false
	}
	return Coordinate{Latitude: *l.Latitude, Longitude: *l.Longitude}, true
}

// LaunchWeather is the forecast snapshot attached to a launch once a
// matching daily forecast was found for its scheduled day.
type LaunchWeather struct {
	Main          string             `json:"main"`
	Description   string             `json:"description"`
	Clouds        int                `json:"clouds"`
	Humidity      int                `json:"humidity"`
	Precipitation float64            `json:"precipitation"`
	Snow          float64            `json:"snow"`
	Temperature   TemperatureSummary `json:"temperature"`
}

// Visibility statuses.
const (
	VisibilityGood    = "Good"
	VisibilityLow     = "Low Visibility"
	VisibilityNone    = "Not Visible"
	VisibilityUnknown = "Unknown"
)

// Visibility is the derived verdict on whether a launch is likely
// observable given the pad-day forecast. Reasons is never empty.
type Visibility struct {
	Status    string   `json:"status"`
	CanBeSeen bool     `json:"can_be_seen"`
	Reasons   []string `json:"reasons"`
}

// SearchParams echoes the parameters a nearby-launch search ran with.
type SearchParams struct {
	MaxDistanceKm    float64 `json:"max_distance_km"`
	DaysAhead        int     `json:"days_ahead"`
	SpecificDate     string  `json:"specific_date,omitempty"`
	DateFilterActive bool    `json:"date_filter_active,omitempty"`
}

// NearbyResult is the full answer of a nearby-launch search. On failure
// Error is set and Location echoes the original query string; on success
// Location holds the geocoded place. Weather is only populated when no
// launches survived filtering, since surviving launches each carry their
// own forecast snapshot.
type NearbyResult struct {
	Error         string          `json:"error,omitempty"`
	Location      any             `json:"location,omitempty"`
	SearchParams  *SearchParams   `json:"search_params,omitempty"`
	LaunchesFound int             `json:"launches_found"`
	Launches      []*Launch       `json:"launches"`
	Weather       *ForecastResult `json:"weather,omitempty"`
	Message       string          `json:"message,omitempty"`
}

// FormatDatetime renders an ISO-8601 timestamp as a human-readable UTC
// string, e.g. "November 06, 2025 at 08:56 PM UTC". Absent or unparseable
// inputs are passed through ("N/A" for empty).
func FormatDatetime(iso string) string {
	if iso == "" {
		return "N/A"
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format("January 02, 2006 at 03:04 PM UTC")
}

// FormatLaunch renders a launch as a readable multi-line summary.
func FormatLaunch(l *Launch) string {
	var b strings.Builder
	divider := strings.Repeat("=", 70)

	fmt.Fprintf(&b, "%s\n%s\n%s\n", divider, l.Name, divider)
	if l.Status != "" {
		fmt.Fprintf(&b, "Status: %s (%s)\n", l.Status, l.StatusAbbrev)
	}
	if l.Net != "" {
		fmt.Fprintf(&b, "Launch Time (NET): %s\n", l.Net)
	}
	if l.Rocket != "" {
		fmt.Fprintf(&b, "Rocket: %s\n", l.Rocket)
	}
	if l.Provider != "" {
		provider := l.Provider
		if l.ProviderType != "" {
			provider += " (" + l.ProviderType + ")"
		}
		fmt.Fprintf(&b, "Provider: %s\n", provider)
	}
	if l.MissionName != "" {
		fmt.Fprintf(&b, "\nMission: %s\n", l.MissionName)
	}
	if l.MissionType != "" {
		fmt.Fprintf(&b, "Type: %s\n", l.MissionType)
	}
	if l.Orbit != "" {
		fmt.Fprintf(&b, "Orbit: %s\n", l.Orbit)
	}
	if l.MissionDescription != "" {
		fmt.Fprintf(&b, "\nDescription:\n%s\n", l.MissionDescription)
	}
	if l.PadName != "" {
		fmt.Fprintf(&b, "\nLaunch Pad: %s\n", l.PadName)
	}
	if l.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", l.Location)
	}
	if l.CountryCode != "" {
		fmt.Fprintf(&b, "Country: %s\n", l.CountryCode)
	}
	if l.Latitude != nil && l.Longitude != nil {
		fmt.Fprintf(&b, "Coordinates: %v, %v\n", *l.Latitude, *l.Longitude)
	}
	if l.Probability != nil {
		fmt.Fprintf(&b, "\nProbability: %d%%\n", *l.Probability)
	}
	if l.WebcastLive {
		b.WriteString("Webcast: LIVE\n")
	}
	if l.URL != "" {
		fmt.Fprintf(&b, "\nDetails: %s\n", l.URL)
	}
	b.WriteString(divider)

	return b.String()
}
