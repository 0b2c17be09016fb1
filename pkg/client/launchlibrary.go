package client

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/kulbasnet/launchwatch/internal/models"
	"go.uber.org/zap"
)

// LaunchLibraryClient fetches the Launch Library 2 upcoming-launch feed.
// Filtering is entirely client-side on a single feed page.
type LaunchLibraryClient struct {
	*BaseClient
	baseURL string
}

type launchFeedEntry struct {
	ID     string `json:"id"`
	URL    string `json:"url"`
	Name   string `json:"name"`
	Status struct {
		Name        string `json:"name"`
		Abbrev      string `json:"abbrev"`
		Description string `json:"description"`
	} `json:"status"`
	Net         string `json:"net"`
	WindowStart string `json:"window_start"`
	WindowEnd   string `json:"window_end"`
	Probability *int   `json:"probability"`
	Provider    struct {
		Name string `json:"name"`
		Type string `json:"type"`
	} `json:"launch_service_provider"`
	Rocket struct {
		Configuration struct {
			FullName string `json:"full_name"`
		} `json:"configuration"`
	} `json:"rocket"`
	Mission struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Type        string `json:"type"`
		Orbit       struct {
			Name string `json:"name"`
		} `json:"orbit"`
	} `json:"mission"`
	Pad struct {
		Name      string `json:"name"`
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
		Location  struct {
			Name        string `json:"name"`
			CountryCode string `json:"country_code"`
		} `json:"location"`
	} `json:"pad"`
	Image       string `json:"image"`
	WebcastLive bool   `json:"webcast_live"`
}

type launchFeedResponse struct {
	Results []launchFeedEntry `json:"results"`
}

func NewLaunchLibraryClient(baseURL string, config ClientConfig, logger *zap.Logger, opts ...BaseClientOption) *LaunchLibraryClient {
	baseClient := NewBaseClient("launchlibrary", config, logger, opts...)
	return &LaunchLibraryClient{
		BaseClient: baseClient,
		baseURL:    baseURL,
	}
}

// ListUpcoming returns upcoming launches whose status name contains
// statusFilter and, when given, whose provider name contains
// providerFilter (both case-insensitive). Scanning stops once maxResults
// matches are collected. Failures yield an empty list, never an error.
func (c *LaunchLibraryClient) ListUpcoming(ctx context.Context, statusFilter, providerFilter string, maxResults int) []*models.Launch {
	entries := c.fetchUpcoming(ctx)

	launches := make([]*models.Launch, 0, maxResults)
	for i := range entries {
		entry := &entries[i]

		if statusFilter != "" && !strings.Contains(strings.ToLower(entry.Status.Name), strings.ToLower(statusFilter)) {
			continue
		}
		if providerFilter != "" && !strings.Contains(strings.ToLower(entry.Provider.Name), strings.ToLower(providerFilter)) {
			continue
		}

		launches = append(launches, projectLaunch(entry))
		if len(launches) >= maxResults {
			break
		}
	}

	return launches
}

// ListAllUpcoming returns up to limit upcoming launches with no status or
// provider filter applied.
func (c *LaunchLibraryClient) ListAllUpcoming(ctx context.Context, limit int) []*models.Launch {
	entries := c.fetchUpcoming(ctx)
	if len(entries) > limit {
		entries = entries[:limit]
	}

	launches := make([]*models.Launch, 0, len(entries))
	for i := range entries {
		launches = append(launches, projectLaunch(&entries[i]))
	}

	return launches
}

func (c *LaunchLibraryClient) fetchUpcoming(ctx context.Context) []launchFeedEntry {
	data, err := c.GetWithRetry(ctx, c.baseURL+"/launch/upcoming")
	if err != nil {
		c.logger.Warn("Failed to fetch launch feed", zap.Error(err))
		return nil
	}

	var response launchFeedResponse
	if err := json.Unmarshal(data, &response); err != nil {
		c.logger.Warn("Failed to parse launch feed", zap.Error(err))
		return nil
	}

	return response.Results
}

// projectLaunch maps one feed entry into a Launch, keeping timestamps in
// both raw and display forms.
func projectLaunch(entry *launchFeedEntry) *models.Launch {
	return &models.Launch{
		ID:                 entry.ID,
		Name:               entry.Name,
		Status:             entry.Status.Name,
		StatusAbbrev:       entry.Status.Abbrev,
		StatusDescription:  entry.Status.Description,
		Net:                models.FormatDatetime(entry.Net),
		NetRaw:             entry.Net,
		WindowStart:        models.FormatDatetime(entry.WindowStart),
		WindowStartRaw:     entry.WindowStart,
		WindowEnd:          models.FormatDatetime(entry.WindowEnd),
		WindowEndRaw:       entry.WindowEnd,
		Probability:        entry.Probability,
		Provider:           entry.Provider.Name,
		ProviderType:       entry.Provider.Type,
		Rocket:             entry.Rocket.Configuration.FullName,
		MissionName:        entry.Mission.Name,
		MissionDescription: entry.Mission.Description,
		MissionType:        entry.Mission.Type,
		Orbit:              entry.Mission.Orbit.Name,
		PadName:            entry.Pad.Name,
		Location:           entry.Pad.Location.Name,
		Latitude:           parseCoordinate(entry.Pad.Latitude),
		Longitude:          parseCoordinate(entry.Pad.Longitude),
		CountryCode:        entry.Pad.Location.CountryCode,
		Image:              entry.Image,
		WebcastLive:        entry.WebcastLive,
		URL:                entry.URL,
	}
}

// parseCoordinate parses the feed's string-typed pad coordinates. Some
// pads carry no coordinate at all; those stay nil.
func parseCoordinate(raw string) *float64 {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
