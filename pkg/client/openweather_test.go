package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kulbasnet/launchwatch/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestOpenWeatherClient(t *testing.T, serverURL string) *OpenWeatherClient {
	t.Helper()
	config := ClientConfig{
		Timeout:        5 * time.Second,
		MaxAttempts:    2,
		BackoffFactor:  2,
		BreakerTimeout: 30 * time.Second,
	}
	return NewOpenWeatherClient("test-key", serverURL, serverURL, config, zap.NewNop(), WithSleepFunc(noopSleep))
}

func TestGeocode_FirstMatchWins(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Cape Canaveral", r.URL.Query().Get("q"))
		assert.Equal(t, "1", r.URL.Query().Get("limit"))
		w.Write([]byte(`[
			{"name":"Cape Canaveral","local_names":{"en":"Cape Canaveral"},"lat":28.3922,"lon":-80.6077,"country":"US","state":"Florida"},
			{"name":"Cape Canaveral Alt","lat":1,"lon":1,"country":"US"}
		]`))
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	place, err := c.Geocode(context.Background(), "Cape Canaveral")
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Equal(t, "Cape Canaveral", place.Name)
	assert.Equal(t, 28.3922, place.Latitude)
	assert.Equal(t, -80.6077, place.Longitude)
	assert.Equal(t, "US", place.Country)
	assert.Equal(t, "Florida", place.State)
}

func TestGeocode_FallbacksForMissingFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"name":"Balkhu","lat":27.68,"lon":85.29,"country":"NP"}]`))
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	place, err := c.Geocode(context.Background(), "balkhu")
	require.NoError(t, err)
	require.NotNil(t, place)
	assert.Equal(t, "Balkhu", place.LocalName, "local name falls back to canonical name")
	assert.Equal(t, "N/A", place.State, "missing region falls back to sentinel")
}

func TestGeocode_NoMatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	place, err := c.Geocode(context.Background(), "Atlantis")
	require.NoError(t, err)
	assert.Nil(t, place)
}

func TestGeocode_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	place, err := c.Geocode(context.Background(), "anywhere")
	require.Error(t, err)
	assert.Nil(t, place)
}

// sampleJSON renders one 3-hour forecast sample at the given UTC time.
func sampleJSON(at time.Time, temp, feels float64, humidity, clouds int, main string, rain float64) string {
	return fmt.Sprintf(`{
		"dt": %d,
		"main": {"temp": %v, "feels_like": %v, "pressure": 1012, "humidity": %d},
		"weather": [{"main": %q, "description": %q, "icon": "01d"}],
		"clouds": {"all": %d},
		"wind": {"speed": 3.5, "deg": 120},
		"rain": {"3h": %v}
	}`, at.Unix(), temp, feels, humidity, main, main, clouds, rain)
}

func TestGetForecast_SingleDayAggregation(t *testing.T) {
	day := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

	samples := []string{
		sampleJSON(day.Add(6*time.Hour), 10, 9, 60, 10, "Clear", 1),
		sampleJSON(day.Add(9*time.Hour), 14, 13, 55, 20, "Clear", 0.5),
		sampleJSON(day.Add(12*time.Hour), 18, 17, 50, 40, "Clouds", 2),
		sampleJSON(day.Add(21*time.Hour), 8, 7, 70, 30, "Clear", 0),
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"city":{"name":"Cocoa Beach","country":"US"},"list":[%s,%s,%s,%s]}`,
			samples[0], samples[1], samples[2], samples[3])
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	result := c.GetForecast(context.Background(), models.Coordinate{Latitude: 28.39, Longitude: -80.6}, 7)
	require.Empty(t, result.Error)
	require.Len(t, result.Forecasts, 1, "all samples share one UTC day")
	assert.Equal(t, 1, result.DaysCount)
	assert.Equal(t, "Cocoa Beach", result.Location.City)
	assert.Equal(t, "US", result.Location.Country)

	forecast := result.Forecasts[0]
	assert.Equal(t, day.Unix(), forecast.DateRaw)

	// avg(10,14,18,8)=12.5, bounded by extremes
	assert.Equal(t, 12.5, forecast.Temperature.Day)
	assert.Equal(t, 8.0, forecast.Temperature.Min)
	assert.Equal(t, 18.0, forecast.Temperature.Max)
	assert.LessOrEqual(t, forecast.Temperature.Min, forecast.Temperature.Day)
	assert.LessOrEqual(t, forecast.Temperature.Day, forecast.Temperature.Max)

	// morning/night are the first and last samples by feed order
	assert.Equal(t, 10.0, forecast.Temperature.Morning)
	assert.Equal(t, 8.0, forecast.Temperature.Night)

	// representative is the 12:00 UTC sample
	assert.Equal(t, "Clouds", forecast.Weather.Main)
	assert.Equal(t, 40, forecast.Clouds)
	assert.Equal(t, 50, forecast.Humidity)

	// precipitation sums across the bucket
	assert.InDelta(t, 3.5, forecast.Precipitation, 1e-9)
}

func TestGetForecast_RepresentativeFallsBackToFirstSample(t *testing.T) {
	day := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"city":{"name":"X","country":"US"},"list":[%s,%s]}`,
			sampleJSON(day.Add(18*time.Hour), 10, 9, 60, 15, "Clear", 0),
			sampleJSON(day.Add(21*time.Hour), 8, 7, 65, 25, "Rain", 0))
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	result := c.GetForecast(context.Background(), models.Coordinate{}, 7)
	require.Len(t, result.Forecasts, 1)
	assert.Equal(t, "Clear", result.Forecasts[0].Weather.Main, "no midday sample, first sample represents the day")
	assert.Equal(t, 15, result.Forecasts[0].Clouds)
}

func TestGetForecast_DaysCutoff(t *testing.T) {
	day := time.Date(2025, 11, 10, 0, 0, 0, 0, time.UTC)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"city":{"name":"X","country":"US"},"list":[%s,%s,%s]}`,
			sampleJSON(day, 10, 9, 60, 10, "Clear", 0),
			sampleJSON(day.AddDate(0, 0, 1), 11, 10, 60, 10, "Clear", 0),
			sampleJSON(day.AddDate(0, 0, 2), 12, 11, 60, 10, "Clear", 0))
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	result := c.GetForecast(context.Background(), models.Coordinate{}, 2)
	require.Len(t, result.Forecasts, 2)
	assert.Equal(t, day.Unix(), result.Forecasts[0].DateRaw)
	assert.Equal(t, day.AddDate(0, 0, 1).Unix(), result.Forecasts[1].DateRaw)
}

func TestGetForecast_EmptySampleList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"city":{"name":"Nowhere","country":"XX"},"list":[]}`))
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	result := c.GetForecast(context.Background(), models.Coordinate{Latitude: 1, Longitude: 2}, 7)
	assert.Equal(t, "No weather data available", result.Error)
	assert.Empty(t, result.Forecasts)
	assert.Equal(t, "Nowhere", result.Location.City, "location still populated when available")
	assert.Equal(t, 1.0, result.Location.Latitude)
}

func TestGetForecast_FetchFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	result := c.GetForecast(context.Background(), models.Coordinate{Latitude: 1, Longitude: 2}, 7)
	assert.Equal(t, "Failed to fetch weather data after retries (rate limit or API issue)", result.Error)
	assert.Empty(t, result.Forecasts)
	assert.Equal(t, 1.0, result.Location.Latitude)
	assert.Equal(t, 2.0, result.Location.Longitude)
}

func TestGetForecast_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	c := newTestOpenWeatherClient(t, server.URL)

	result := c.GetForecast(context.Background(), models.Coordinate{}, 7)
	assert.Contains(t, result.Error, "Error processing weather data")
	assert.Empty(t, result.Forecasts)
}
