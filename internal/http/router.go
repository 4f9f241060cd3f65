package http

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/askvader/api/internal/geocode"
	"github.com/askvader/api/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
func SetupRouter(engine *usecase.Engine, stations *usecase.StationsUseCase, geo *geocode.Client, preloader *usecase.Preloader) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware. Origins come from the environment; an unset
	// variable allows all origins.
	corsConfig := cors.DefaultConfig()

	allowedOrigins := os.Getenv("CORS_ALLOWED_ORIGINS")
	if allowedOrigins != "" {
		corsConfig.AllowOrigins = strings.Split(allowedOrigins, ",")
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(engine, stations, geo, preloader)

	// API routes.
	api := router.Group("/api")
	api.GET("/search", handler.Search)
	api.GET("/autocomplete", handler.Autocomplete)
	api.GET("/stations", handler.Stations)
	api.GET("/all-stations", handler.AllStations)
	api.GET("/location-weather", handler.LocationWeather)
	api.GET("/weather-data/:station_id", handler.StationWeather)
	api.GET("/preload-status", handler.PreloadStatus)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
