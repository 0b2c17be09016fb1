package client

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/kulbasnet/launchwatch/internal/models"
	"go.uber.org/zap"
)

// OpenWeatherClient talks to the OpenWeatherMap geocoding and forecast
// endpoints. The free forecast tier returns 3-hour samples over a ~5 day
// horizon; GetForecast aggregates those into daily buckets.
type OpenWeatherClient struct {
	*BaseClient
	apiKey  string
	baseURL string
	geoURL  string
}

type geocodeResponse []struct {
	Name       string            `json:"name"`
	LocalNames map[string]string `json:"local_names"`
	Lat        float64           `json:"lat"`
	Lon        float64           `json:"lon"`
	Country    string            `json:"country"`
	State      string            `json:"state"`
}

type forecastSample struct {
	Dt   int64 `json:"dt"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Pressure  float64 `json:"pressure"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Clouds struct {
		All int `json:"all"`
	} `json:"clouds"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   float64 `json:"deg"`
	} `json:"wind"`
	Rain struct {
		ThreeHour float64 `json:"3h"`
	} `json:"rain"`
	Snow struct {
		ThreeHour float64 `json:"3h"`
	} `json:"snow"`
}

type forecastResponse struct {
	List []forecastSample `json:"list"`
	City struct {
		Name    string `json:"name"`
		Country string `json:"country"`
	} `json:"city"`
}

func NewOpenWeatherClient(apiKey, baseURL, geoURL string, config ClientConfig, logger *zap.Logger, opts ...BaseClientOption) *OpenWeatherClient {
	baseClient := NewBaseClient("openweather", config, logger, opts...)
	return &OpenWeatherClient{
		BaseClient: baseClient,
		apiKey:     apiKey,
		baseURL:    baseURL,
		geoURL:     geoURL,
	}
}

// Geocode resolves a free-text place name to coordinates, taking the first
// upstream match as a best guess. Returns nil when nothing matched or the
// fetch failed after retries.
func (c *OpenWeatherClient) Geocode(ctx context.Context, place string) (*models.GeocodedPlace, error) {
	reqURL := fmt.Sprintf("%s/direct?q=%s&limit=1&appid=%s", c.geoURL, url.QueryEscape(place), c.apiKey)

	data, err := c.GetWithRetry(ctx, reqURL)
	if err != nil {
		return nil, fmt.Errorf("failed to geocode %q: %w", place, err)
	}

	var response geocodeResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("failed to parse geocoding response: %w", err)
	}

	if len(response) == 0 {
		c.logger.Warn("No geocoding match", zap.String("place", place))
		return nil, nil
	}

	match := response[0]

	localName := match.Name
	if en, ok := match.LocalNames["en"]; ok && en != "" {
		localName = en
	}
	state := match.State
	if state == "" {
		state = "N/A"
	}

	return &models.GeocodedPlace{
		Name:      match.Name,
		LocalName: localName,
		Coordinate: models.Coordinate{
			Latitude:  match.Lat,
			Longitude: match.Lon,
		},
		Country: match.Country,
		State:   state,
	}, nil
}

// GetForecast fetches the 3-hour forecast feed for a coordinate and
// aggregates it into at most days daily buckets. Failures are carried in
// the result's Error field; this never returns a Go error to the caller.
func (c *OpenWeatherClient) GetForecast(ctx context.Context, coord models.Coordinate, days int) *models.ForecastResult {
	result := &models.ForecastResult{
		Location: models.ForecastLocation{
			Latitude:  coord.Latitude,
			Longitude: coord.Longitude,
		},
	}

	reqURL := fmt.Sprintf("%s/forecast?lat=%v&lon=%v&appid=%s&units=metric", c.baseURL, coord.Latitude, coord.Longitude, c.apiKey)

	data, err := c.GetWithRetry(ctx, reqURL)
	if err != nil {
		c.logger.Warn("Forecast fetch failed",
			zap.Float64("lat", coord.Latitude),
			zap.Float64("lon", coord.Longitude),
			zap.Error(err))
		result.Error = "Failed to fetch weather data after retries (rate limit or API issue)"
		return result
	}

	var response forecastResponse
	if err := json.Unmarshal(data, &response); err != nil {
		result.Error = fmt.Sprintf("Error processing weather data: %v", err)
		return result
	}

	result.Location.City = response.City.Name
	result.Location.Country = response.City.Country

	if len(response.List) == 0 {
		result.Error = "No weather data available"
		return result
	}

	result.Forecasts = aggregateDaily(response.List, days)
	result.DaysCount = len(result.Forecasts)
	return result
}

// aggregateDaily groups 3-hour samples into UTC calendar-day buckets and
// summarizes each, emitting buckets in first-seen feed order until the day
// budget runs out.
func aggregateDaily(samples []forecastSample, days int) []models.DailyForecast {
	buckets := make(map[string][]forecastSample)
	var order []string

	for _, sample := range samples {
		day := time.Unix(sample.Dt, 0).UTC().Format("2006-01-02")
		if _, seen := buckets[day]; !seen {
			order = append(order, day)
		}
		buckets[day] = append(buckets[day], sample)
	}

	forecasts := make([]models.DailyForecast, 0, days)
	for _, day := range order {
		if len(forecasts) >= days {
			break
		}
		forecasts = append(forecasts, summarizeDay(day, buckets[day]))
	}

	return forecasts
}

// summarizeDay collapses one day bucket into a DailyForecast. Morning and
// night values are the first and last samples by feed order; spot fields
// come from the midday (11:00-14:00 UTC) sample, else the first one.
func summarizeDay(day string, samples []forecastSample) models.DailyForecast {
	var tempSum, feelsSum, precipitation, snow float64
	minTemp := math.Inf(1)
	maxTemp := math.Inf(-1)

	for _, s := range samples {
		tempSum += s.Main.Temp
		feelsSum += s.Main.FeelsLike
		minTemp = math.Min(minTemp, s.Main.Temp)
		maxTemp = math.Max(maxTemp, s.Main.Temp)
		precipitation += s.Rain.ThreeHour
		snow += s.Snow.ThreeHour
	}

	representative := samples[0]
	for _, s := range samples {
		hour := time.Unix(s.Dt, 0).UTC().Hour()
		if hour >= 11 && hour <= 14 {
			representative = s
			break
		}
	}

	count := float64(len(samples))
	first := samples[0]
	last := samples[len(samples)-1]

	forecast := models.DailyForecast{
		Date:    models.FormatDatetime(day + "T12:00:00Z"),
		DateRaw: dayKeyEpoch(day),
		Temperature: models.TemperatureSummary{
			Day:     round1(tempSum / count),
			Min:     round1(minTemp),
			Max:     round1(maxTemp),
			Morning: first.Main.Temp,
			Night:   last.Main.Temp,
		},
		FeelsLike: models.FeelsLikeSummary{
			Day:     round1(feelsSum / count),
			Morning: first.Main.FeelsLike,
			Night:   last.Main.FeelsLike,
		},
		Pressure:      representative.Main.Pressure,
		Humidity:      representative.Main.Humidity,
		Clouds:        representative.Clouds.All,
		WindSpeed:     representative.Wind.Speed,
		WindDirection: representative.Wind.Deg,
		Precipitation: precipitation,
		Snow:          snow,
	}

	if len(representative.Weather) > 0 {
		forecast.Weather = models.WeatherDescriptor{
			Main:        representative.Weather[0].Main,
			Description: representative.Weather[0].Description,
			Icon:        representative.Weather[0].Icon,
		}
	}

	return forecast
}

// dayKeyEpoch converts a YYYY-MM-DD key to its UTC-midnight epoch seconds.
func dayKeyEpoch(day string) int64 {
	t, err := time.Parse("2006-01-02", day)
	if err != nil {
		return 0
	}
	return t.UTC().Unix()
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
