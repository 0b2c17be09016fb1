package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/kulbasnet/launchwatch/internal/models"
)

// adverseConditions are the weather descriptors that obscure a launch from
// the ground.
var adverseConditions = map[string]bool{
	"clouds":       true,
	"rain":         true,
	"thunderstorm": true,
	"snow":         true,
	"drizzle":      true,
	"mist":         true,
	"fog":          true,
}

// attachVisibility matches a launch to the daily forecast for its
// scheduled UTC day and derives the visibility verdict. Launches whose day
// has no forecast get status Unknown.
func attachVisibility(launch *models.Launch, forecasts []models.DailyForecast) {
	launchDay, ok := launchDayKey(launch)
	if !ok {
		launch.Visibility = &models.Visibility{
			Status:    models.VisibilityGood,
			CanBeSeen: true,
			Reasons:   []string{"Clear conditions expected"},
		}
		return
	}

	var matched *models.DailyForecast
	for i := range forecasts {
		forecastDay := time.Unix(forecasts[i].DateRaw, 0).UTC().Format("2006-01-02")
		if forecastDay == launchDay {
			matched = &forecasts[i]
			break
		}
	}

	if matched == nil {
		launch.Visibility = &models.Visibility{
			Status:    models.VisibilityUnknown,
			CanBeSeen: false,
			Reasons:   []string{"No weather forecast available for launch date"},
		}
		return
	}

	launch.Visibility = deriveVisibility(matched)
	launch.WeatherForecast = &models.LaunchWeather{
		Main:          matched.Weather.Main,
		Description:   matched.Weather.Description,
		Clouds:        matched.Clouds,
		Humidity:      matched.Humidity,
		Precipitation: matched.Precipitation,
		Snow:          matched.Snow,
		Temperature:   matched.Temperature,
	}
}

// deriveVisibility classifies one forecast day. Three or more adverse
// flags, heavy snow, or poor weather combined with high cloud cover kill
// visibility outright; any single flag degrades it.
func deriveVisibility(forecast *models.DailyForecast) *models.Visibility {
	var reasons []string

	badWeather := adverseConditions[strings.ToLower(forecast.Weather.Main)]
	highClouds := forecast.Clouds > 30
	highHumidity := forecast.Humidity > 80
	heavyPrecipitation := forecast.Precipitation > 5
	heavySnow := forecast.Snow > 5

	if badWeather {
		reasons = append(reasons, fmt.Sprintf("Poor weather: %s", forecast.Weather.Main))
	}
	if highClouds {
		reasons = append(reasons, fmt.Sprintf("High cloud cover: %d%%", forecast.Clouds))
	}
	if highHumidity {
		reasons = append(reasons, fmt.Sprintf("High humidity: %d%%", forecast.Humidity))
	}
	if heavyPrecipitation {
		reasons = append(reasons, fmt.Sprintf("Heavy precipitation: %vmm", forecast.Precipitation))
	}
	if heavySnow {
		reasons = append(reasons, fmt.Sprintf("Heavy snow: %vmm", forecast.Snow))
	}

	status := models.VisibilityGood
	switch {
	case len(reasons) >= 3 || heavySnow || (badWeather && highClouds):
		status = models.VisibilityNone
	case len(reasons) >= 1:
		status = models.VisibilityLow
	}

	if len(reasons) == 0 {
		reasons = []string{"Clear conditions expected"}
	}

	return &models.Visibility{
		Status:    status,
		CanBeSeen: status == models.VisibilityGood || status == models.VisibilityLow,
		Reasons:   reasons,
	}
}

// launchDayKey returns the UTC day key of the launch's nominal time.
func launchDayKey(launch *models.Launch) (string, bool) {
	if launch.NetRaw == "" {
		return "", false
	}
	net, err := time.Parse(time.RFC3339, launch.NetRaw)
	if err != nil {
		return "", false
	}
	return net.UTC().Format("2006-01-02"), true
}
