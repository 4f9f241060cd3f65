package http

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"

	"github.com/askvader/api/internal/domain"
	"github.com/askvader/api/internal/geocode"
	"github.com/askvader/api/internal/smhi"
	"github.com/askvader/api/internal/usecase"
)

// nearbyStationCount is how many candidate stations the stations
// endpoint returns.
const nearbyStationCount = 10

// Handler handles HTTP requests for weather estimates.
type Handler struct {
	engine    *usecase.Engine
	stations  *usecase.StationsUseCase
	geo       *geocode.Client
	preloader *usecase.Preloader
}

// NewHandler creates a new HTTP handler.
func NewHandler(engine *usecase.Engine, stations *usecase.StationsUseCase, geo *geocode.Client, preloader *usecase.Preloader) *Handler {
	return &Handler{
		engine:    engine,
		stations:  stations,
		geo:       geo,
		preloader: preloader,
	}
}

// parseLatLng reads the lat/lng query parameters. Missing and malformed
// values are reported the same way.
func parseLatLng(c *gin.Context) (float64, float64, bool) {
	lat, err := strconv.ParseFloat(c.Query("lat"), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(c.Query("lng"), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}

// Search handles GET /api/search. It geocodes an address query into
// coordinates.
func (h *Handler) Search(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing query parameter 'q'"})
		return
	}

	place, err := h.geo.Search(query)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": fmt.Sprintf("Failed to search: %v", err)})
		return
	}
	if place == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No results found for that address"})
		return
	}

	c.JSON(http.StatusOK, place)
}

// Autocomplete handles GET /api/autocomplete. Short queries and
// gazetteer failures both degrade to an empty suggestion list.
func (h *Handler) Autocomplete(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if utf8.RuneCountInString(query) < 3 {
		c.JSON(http.StatusOK, gin.H{"suggestions": []geocode.Place{}})
		return
	}

	places, err := h.geo.Suggest(query)
	if err != nil || places == nil {
		places = []geocode.Place{}
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": places})
}

// Stations handles GET /api/stations. It returns the nearest cloud
// coverage stations to a coordinate.
func (h *Handler) Stations(c *gin.Context) {
	lat, lng, ok := parseLatLng(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'lat' and 'lng' parameters"})
		return
	}

	nearby, err := h.stations.Nearby(lat, lng, smhi.ParamCloudCoverage, nearbyStationCount)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch stations: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stations": nearby})
}

// AllStations handles GET /api/all-stations. It returns the merged
// station catalog with per-parameter availability flags.
func (h *Handler) AllStations(c *gin.Context) {
	list, err := h.stations.All()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch stations: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{"stations": list})
}

// LocationWeather handles GET /api/location-weather. It blends nearby
// station data into an estimate for the exact coordinate.
func (h *Handler) LocationWeather(c *gin.Context) {
	lat, lng, ok := parseLatLng(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid 'lat' and 'lng' parameters"})
		return
	}
	resolution := domain.NormalizeResolution(c.Query("resolution"))

	result, err := h.engine.LocationWeather(lat, lng, resolution)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to compute location weather: %v", err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

// StationWeather handles GET /api/weather-data/:station_id. It returns
// the aggregated series for a single station.
func (h *Handler) StationWeather(c *gin.Context) {
	stationID := c.Param("station_id")
	resolution := domain.NormalizeResolution(c.Query("resolution"))

	result, err := h.engine.StationWeather(stationID, resolution)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("Failed to fetch data: %v", err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

// PreloadStatus handles GET /api/preload-status.
func (h *Handler) PreloadStatus(c *gin.Context) {
	c.JSON(http.StatusOK, h.preloader.Status())
}

// HealthCheck handles GET /health.
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}
