// Package mcptools exposes the launch and weather operations as MCP tools
// so LLM agents can call them over the streamable HTTP transport.
package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/kulbasnet/launchwatch/internal/models"
	"github.com/kulbasnet/launchwatch/internal/services"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// GetNextLaunchInput filters the upcoming-launch feed.
type GetNextLaunchInput struct {
	StatusFilter   string `json:"status_filter,omitempty" jsonschema:"status name substring to filter by (default Go, matching confirmed launches)"`
	ProviderFilter string `json:"provider_filter,omitempty" jsonschema:"launch provider substring to filter by, e.g. SpaceX"`
	AllStatuses    bool   `json:"all_statuses,omitempty" jsonschema:"include launches of every status, overriding status_filter"`
	MaxResults     int    `json:"max_results,omitempty" jsonschema:"maximum number of launches to return (default 10)"`
}

// GetNextLaunchResult lists matching upcoming launches.
type GetNextLaunchResult struct {
	Count    int              `json:"count" jsonschema:"number of launches returned"`
	Launches []*models.Launch `json:"launches" jsonschema:"matching launches"`
}

// GetNextLaunchTool defines the MCP tool schema for listing launches.
func GetNextLaunchTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "getNextLaunch",
		Description: "Fetch upcoming rocket launches filtered by status and/or launch provider. By default only confirmed (Go for Launch) launches are returned.",
	}
}

// GetNextLaunchHandler executes a launch listing request.
func GetNextLaunchHandler(correlator *services.Correlator) mcp.ToolHandlerFor[GetNextLaunchInput, GetNextLaunchResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetNextLaunchInput) (*mcp.CallToolResult, GetNextLaunchResult, error) {
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 10
		}
		status := input.StatusFilter
		if status == "" {
			status = "Go"
		}
		if input.AllStatuses {
			status = ""
		}

		launches := correlator.ListUpcoming(ctx, status, input.ProviderFilter, maxResults)

		summaries := make([]string, 0, len(launches))
		for _, launch := range launches {
			summaries = append(summaries, models.FormatLaunch(launch))
		}
		text := "No upcoming launches matched the given filters."
		if len(summaries) > 0 {
			text = strings.Join(summaries, "\n\n")
		}

		result := &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}

		return result, GetNextLaunchResult{
			Count:    len(launches),
			Launches: launches,
		}, nil
	}
}

// GeocodeLocationInput names the place to resolve.
type GeocodeLocationInput struct {
	Location string `json:"location" jsonschema:"free-text place name, e.g. Cape Canaveral"`
}

// GeocodeLocationResult carries the resolved place, or an error string
// when the name could not be resolved.
type GeocodeLocationResult struct {
	Location *models.GeocodedPlace `json:"location,omitempty" jsonschema:"resolved place with coordinates"`
	Error    string                `json:"error,omitempty" jsonschema:"set when the place could not be resolved"`
}

// GeocodeLocationTool defines the MCP tool schema for geocoding.
func GeocodeLocationTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "geocodeLocation",
		Description: "Resolve a free-text place name to coordinates and administrative metadata. Returns the single best match.",
	}
}

// GeocodeLocationHandler executes a geocoding request.
func GeocodeLocationHandler(correlator *services.Correlator) mcp.ToolHandlerFor[GeocodeLocationInput, GeocodeLocationResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GeocodeLocationInput) (*mcp.CallToolResult, GeocodeLocationResult, error) {
		place, err := correlator.Geocode(ctx, input.Location)
		if err != nil || place == nil {
			return nil, GeocodeLocationResult{
				Error: fmt.Sprintf("Location not found: %s", input.Location),
			}, nil
		}
		return nil, GeocodeLocationResult{Location: place}, nil
	}
}

// GetWeatherDataInput asks for a daily forecast at a coordinate.
type GetWeatherDataInput struct {
	Latitude  float64 `json:"latitude" jsonschema:"latitude in degrees"`
	Longitude float64 `json:"longitude" jsonschema:"longitude in degrees"`
	Days      int     `json:"days,omitempty" jsonschema:"number of forecast days (default 7, upstream horizon permitting)"`
}

// GetWeatherDataTool defines the MCP tool schema for forecasts.
func GetWeatherDataTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "getWeatherData",
		Description: "Get a multi-day weather forecast for a latitude/longitude pair, aggregated from 3-hour samples into daily summaries.",
	}
}

// GetWeatherDataHandler executes a forecast request.
func GetWeatherDataHandler(correlator *services.Correlator) mcp.ToolHandlerFor[GetWeatherDataInput, models.ForecastResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetWeatherDataInput) (*mcp.CallToolResult, models.ForecastResult, error) {
		days := input.Days
		if days <= 0 {
			days = 7
		}

		coord := models.Coordinate{Latitude: input.Latitude, Longitude: input.Longitude}
		if !coord.Valid() {
			return nil, models.ForecastResult{
				Location: models.ForecastLocation{Latitude: input.Latitude, Longitude: input.Longitude},
				Error:    "latitude must be in [-90,90] and longitude in [-180,180]",
			}, nil
		}

		return nil, *correlator.GetForecast(ctx, coord, days), nil
	}
}

// GetNearbyLaunchesInput describes a location-centric launch search.
type GetNearbyLaunchesInput struct {
	Location      string  `json:"location" jsonschema:"free-text place name to search around"`
	MaxDistanceKm float64 `json:"max_distance_km,omitempty" jsonschema:"maximum distance from the location in kilometers (default 1000)"`
	DaysAhead     int     `json:"days_ahead,omitempty" jsonschema:"days to look ahead (default 7, ignored when specific_date is set)"`
	MaxResults    int     `json:"max_results,omitempty" jsonschema:"maximum number of launches to return (default 10)"`
	SpecificDate  string  `json:"specific_date,omitempty" jsonschema:"optional date filter, e.g. Nov 10 or 2025-11-10"`
}

// GetNearbyLaunchesTool defines the MCP tool schema for the correlation
// search.
func GetNearbyLaunchesTool() *mcp.Tool {
	return &mcp.Tool{
		Name:        "getNearbyLaunches",
		Description: "Find upcoming rocket launches near a location, with per-launch weather forecasts and visibility verdicts. Optionally filter to a specific date.",
	}
}

// GetNearbyLaunchesHandler executes a nearby-launch search.
func GetNearbyLaunchesHandler(correlator *services.Correlator) mcp.ToolHandlerFor[GetNearbyLaunchesInput, models.NearbyResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetNearbyLaunchesInput) (*mcp.CallToolResult, models.NearbyResult, error) {
		maxDistance := input.MaxDistanceKm
		if maxDistance <= 0 {
			maxDistance = 1000
		}
		daysAhead := input.DaysAhead
		if daysAhead <= 0 {
			daysAhead = 7
		}
		maxResults := input.MaxResults
		if maxResults <= 0 {
			maxResults = 10
		}

		result := correlator.FindNearbyLaunches(ctx, input.Location, maxDistance, daysAhead, maxResults, input.SpecificDate)
		return nil, *result, nil
	}
}
