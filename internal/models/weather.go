package models

// Coordinate is a geographic point in floating-point degrees.
// Valid latitudes are [-90, 90], longitudes [-180, 180].
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}

// GeocodedPlace is the resolved form of a free-text location query.
// State falls back to "N/A" when the upstream result carries no region.
type GeocodedPlace struct {
	Name      string `json:"name"`
	LocalName string `json:"local_name"`
	Coordinate
	Country string `json:"country"`
	State   string `json:"state"`
}

type TemperatureSummary struct {
	Day     float64 `json:"day"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Morning float64 `json:"morning"`
	Night   float64 `json:"night"`
}

type FeelsLikeSummary struct {
	Day     float64 `json:"day"`
	Morning float64 `json:"morning"`
	Night   float64 `json:"night"`
}

type WeatherDescriptor struct {
	Main        string `json:"main"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// DailyForecast is one UTC calendar day aggregated from the upstream
// 3-hour samples. DateRaw is the UTC-midnight epoch for the day and acts
// as the day key during correlation.
type DailyForecast struct {
	Date          string             `json:"date"`
	DateRaw       int64              `json:"date_raw"`
	Temperature   TemperatureSummary `json:"temperature"`
	FeelsLike     FeelsLikeSummary   `json:"feels_like"`
	Pressure      float64            `json:"pressure"`
	Humidity      int                `json:"humidity"`
	Weather       WeatherDescriptor  `json:"weather"`
	Clouds        int                `json:"clouds"`
	WindSpeed     float64            `json:"wind_speed"`
	WindDirection float64            `json:"wind_direction"`
	Precipitation float64            `json:"precipitation"`
	Snow          float64            `json:"snow"`
}

type ForecastLocation struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	City      string  `json:"city,omitempty"`
	Country   string  `json:"country,omitempty"`
}

// ForecastResult is the full multi-day forecast answer for a coordinate.
// Error is set instead of raising: callers check it before reading Forecasts.
type ForecastResult struct {
	Location        ForecastLocation `json:"location"`
	Forecasts       []DailyForecast  `json:"forecasts"`
	DaysCount       int              `json:"days_count"`
	FilteredForDate string           `json:"filtered_for_date,omitempty"`
	Error           string           `json:"error,omitempty"`
}
