package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/kulbasnet/launchwatch/internal/models"
	"github.com/kulbasnet/launchwatch/internal/services"
	"go.uber.org/zap"
)

type Handler struct {
	correlator *services.Correlator
	cache      *services.LaunchCache
	logger     *zap.Logger
}

func NewHandler(correlator *services.Correlator, cache *services.LaunchCache, logger *zap.Logger) *Handler {
	return &Handler{
		correlator: correlator,
		cache:      cache,
		logger:     logger,
	}
}

// GetGeocode handles GET /api/v1/geocode
func (h *Handler) GetGeocode(c *fiber.Ctx) error {
	place := c.Query("q")
	if place == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "q parameter is required",
		})
	}

	h.logger.Info("Geocoding place", zap.String("place", place))

	location, err := h.correlator.Geocode(c.Context(), place)
	if err != nil || location == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":    "Location not found: " + place,
			"location": place,
		})
	}

	return c.JSON(location)
}

// GetForecast handles GET /api/v1/weather/forecast
func (h *Handler) GetForecast(c *fiber.Ctx) error {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lon, lonErr := strconv.ParseFloat(c.Query("lon"), 64)
	if latErr != nil || lonErr != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lat and lon parameters are required numbers",
		})
	}

	coord := models.Coordinate{Latitude: lat, Longitude: lon}
	if !coord.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lat must be in [-90,90] and lon in [-180,180]",
		})
	}

	days, err := strconv.Atoi(c.Query("days", "7"))
	if err != nil || days < 1 || days > 16 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days parameter must be between 1 and 16",
		})
	}

	h.logger.Info("Fetching forecast",
		zap.Float64("lat", lat),
		zap.Float64("lon", lon),
		zap.Int("days", days))

	return c.JSON(h.correlator.GetForecast(c.Context(), coord, days))
}

// GetUpcomingLaunches handles GET /api/v1/launches/upcoming
func (h *Handler) GetUpcomingLaunches(c *fiber.Ctx) error {
	status := c.Query("status", "Go")
	provider := c.Query("provider")

	maxResults, err := strconv.Atoi(c.Query("max_results", "10"))
	if err != nil || maxResults < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "max_results must be a positive number",
		})
	}

	h.logger.Info("Listing upcoming launches",
		zap.String("status", status),
		zap.String("provider", provider),
		zap.Int("max_results", maxResults))

	launches := h.correlator.ListUpcoming(c.Context(), status, provider, maxResults)

	return c.JSON(fiber.Map{
		"count":    len(launches),
		"launches": launches,
	})
}

// GetAllLaunches handles GET /api/v1/launches. It answers from the
// refresher's snapshot when fresh, falling back to a live fetch.
func (h *Handler) GetAllLaunches(c *fiber.Ctx) error {
	limit, err := strconv.Atoi(c.Query("limit", "10"))
	if err != nil || limit < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "limit must be a positive number",
		})
	}

	cached := false
	launches, ok := h.cache.Get()
	if ok {
		cached = true
		if len(launches) > limit {
			launches = launches[:limit]
		}
	} else {
		launches = h.correlator.ListAllUpcoming(c.Context(), limit)
	}

	return c.JSON(fiber.Map{
		"count":    len(launches),
		"cached":   cached,
		"launches": launches,
	})
}

// GetNearbyLaunches handles GET /api/v1/launches/nearby
func (h *Handler) GetNearbyLaunches(c *fiber.Ctx) error {
	place := c.Query("location")
	if place == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "location parameter is required",
		})
	}

	maxDistance, err := strconv.ParseFloat(c.Query("max_distance_km", "1000"), 64)
	if err != nil || maxDistance <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "max_distance_km must be a positive number",
		})
	}

	daysAhead, err := strconv.Atoi(c.Query("days_ahead", "7"))
	if err != nil || daysAhead < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "days_ahead must be a positive number",
		})
	}

	maxResults, err := strconv.Atoi(c.Query("max_results", "10"))
	if err != nil || maxResults < 1 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "max_results must be a positive number",
		})
	}

	specificDate := c.Query("date")

	h.logger.Info("Searching nearby launches",
		zap.String("location", place),
		zap.Float64("max_distance_km", maxDistance),
		zap.Int("days_ahead", daysAhead),
		zap.String("date", specificDate))

	result := h.correlator.FindNearbyLaunches(c.Context(), place, maxDistance, daysAhead, maxResults, specificDate)

	return c.JSON(result)
}

// GetHealth handles GET /api/v1/health
func (h *Handler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now(),
		"uptime":    time.Since(startTime).String(),
		"cache":     h.cache.GetStats(),
	})
}

var startTime = time.Now()
