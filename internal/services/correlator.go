package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/kulbasnet/launchwatch/internal/geo"
	"github.com/kulbasnet/launchwatch/internal/models"
	"go.uber.org/zap"
)

// defaultStatusFilter keeps only launches confirmed for their window.
const defaultStatusFilter = "Go"

// specificDateForecastDays is how far to pull forecasts when the caller
// asked about one particular day, maximizing the odds the upstream
// horizon covers it.
const specificDateForecastDays = 16

// WeatherProvider resolves place names and produces daily forecasts.
type WeatherProvider interface {
	Geocode(ctx context.Context, place string) (*models.GeocodedPlace, error)
	GetForecast(ctx context.Context, coord models.Coordinate, days int) *models.ForecastResult
}

// LaunchProvider lists upcoming launches from the launch feed.
type LaunchProvider interface {
	ListUpcoming(ctx context.Context, statusFilter, providerFilter string, maxResults int) []*models.Launch
	ListAllUpcoming(ctx context.Context, limit int) []*models.Launch
}

// Correlator joins the geocoder, forecast and launch feeds to answer
// which upcoming launches are visible near a place. Every public method
// returns a structured result, never an error or panic, so transports can
// serialize the answer directly.
type Correlator struct {
	weather  WeatherProvider
	launches LaunchProvider
	logger   *zap.Logger
	now      func() time.Time
}

func NewCorrelator(weather WeatherProvider, launches LaunchProvider, logger *zap.Logger) *Correlator {
	return &Correlator{
		weather:  weather,
		launches: launches,
		logger:   logger,
		now:      time.Now,
	}
}

// Geocode resolves a place name; nil means not found.
func (c *Correlator) Geocode(ctx context.Context, place string) (*models.GeocodedPlace, error) {
	return c.weather.Geocode(ctx, place)
}

// GetForecast returns the aggregated daily forecast for a coordinate.
func (c *Correlator) GetForecast(ctx context.Context, coord models.Coordinate, days int) *models.ForecastResult {
	return c.weather.GetForecast(ctx, coord, days)
}

// ListUpcoming lists upcoming launches, filtered by status and provider.
func (c *Correlator) ListUpcoming(ctx context.Context, statusFilter, providerFilter string, maxResults int) []*models.Launch {
	return c.launches.ListUpcoming(ctx, statusFilter, providerFilter, maxResults)
}

// ListAllUpcoming lists upcoming launches with no filters.
func (c *Correlator) ListAllUpcoming(ctx context.Context, limit int) []*models.Launch {
	return c.launches.ListAllUpcoming(ctx, limit)
}

// FindNearbyLaunches finds "Go" launches within maxDistanceKm of the
// named place inside the date window, attaches distances and visibility
// verdicts, and sorts by distance. When specificDate is given, the window
// narrows to that single UTC day and past dates without an explicit year
// roll forward to their next occurrence.
func (c *Correlator) FindNearbyLaunches(ctx context.Context, place string, maxDistanceKm float64, daysAhead, maxResults int, specificDate string) (result *models.NearbyResult) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("Correlation panic", zap.Any("cause", r), zap.String("place", place))
			result = &models.NearbyResult{
				Error:    fmt.Sprintf("Processing error: %v", r),
				Location: place,
				Launches: []*models.Launch{},
			}
		}
	}()

	location, err := c.weather.Geocode(ctx, place)
	if err != nil || location == nil {
		if err != nil {
			c.logger.Warn("Geocoding failed", zap.String("place", place), zap.Error(err))
		}
		return &models.NearbyResult{
			Error:    fmt.Sprintf("Location not found: %s", place),
			Location: place,
			Launches: []*models.Launch{},
		}
	}

	var window dateWindow
	dateFiltered := specificDate != ""
	if dateFiltered {
		window, err = resolveTargetDate(specificDate, c.now())
		if err != nil {
			return &models.NearbyResult{
				Error:    fmt.Sprintf("Invalid date format: %s. Try \"Nov 10\" or \"2025-11-10\"", specificDate),
				Location: place,
				Launches: []*models.Launch{},
			}
		}
	}

	forecastDays := daysAhead
	if dateFiltered {
		forecastDays = specificDateForecastDays
	}
	weather := c.weather.GetForecast(ctx, location.Coordinate, forecastDays)
	if dateFiltered {
		filterForecastToDay(weather, window)
	}

	launches := c.launches.ListUpcoming(ctx, defaultStatusFilter, "", maxResults)
	if len(launches) == 0 {
		return &models.NearbyResult{
			Location: location,
			Weather:  weather,
			Launches: []*models.Launch{},
			Message:  "No upcoming launches found",
		}
	}

	start, end := c.activeWindow(window, dateFiltered, daysAhead)

	nearby := make([]*models.Launch, 0, len(launches))
	for _, launch := range launches {
		if launch.NetRaw == "" {
			continue
		}
		net, err := time.Parse(time.RFC3339, launch.NetRaw)
		if err != nil {
			continue
		}
		if net.Before(start) || net.After(end) {
			continue
		}

		pad, ok := launch.PadCoordinate()
		if !ok {
			continue
		}

		distance := geo.Distance(location.Coordinate, pad)
		if distance > maxDistanceKm {
			continue
		}

		launch.DistanceKm = math.Round(distance*100) / 100
		nearby = append(nearby, launch)
	}

	sort.Slice(nearby, func(i, j int) bool {
		return nearby[i].DistanceKm < nearby[j].DistanceKm
	})

	for _, launch := range nearby {
		attachVisibility(launch, weather.Forecasts)
	}

	params := &models.SearchParams{
		MaxDistanceKm: maxDistanceKm,
		DaysAhead:     daysAhead,
	}
	if dateFiltered {
		params.SpecificDate = window.label
		params.DateFilterActive = true
	}

	result = &models.NearbyResult{
		Location:      location,
		SearchParams:  params,
		LaunchesFound: len(nearby),
		Launches:      nearby,
	}

	// Each surviving launch carries its own forecast snapshot; the bulk
	// forecast is only worth returning when nothing survived.
	if len(nearby) == 0 {
		result.Weather = weather
	}

	return result
}

// activeWindow is the date range launches must fall in: the specific day
// when one was requested, else [now, now+daysAhead].
func (c *Correlator) activeWindow(window dateWindow, dateFiltered bool, daysAhead int) (time.Time, time.Time) {
	if dateFiltered {
		return window.start, window.end
	}
	now := c.now().UTC()
	return now, now.AddDate(0, 0, daysAhead)
}

// filterForecastToDay narrows a forecast result to the window's day,
// comparing by epoch-derived day keys.
func filterForecastToDay(weather *models.ForecastResult, window dateWindow) {
	targetDay := window.start.Format("2006-01-02")

	filtered := make([]models.DailyForecast, 0, 1)
	for _, forecast := range weather.Forecasts {
		day := time.Unix(forecast.DateRaw, 0).UTC().Format("2006-01-02")
		if day == targetDay {
			filtered = append(filtered, forecast)
		}
	}

	weather.Forecasts = filtered
	weather.DaysCount = len(filtered)
	weather.FilteredForDate = window.label
}
