// Package main provides the weather estimation HTTP server.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/askvader/api/internal/adapter/store"
	"github.com/askvader/api/internal/geocode"
	httpHandler "github.com/askvader/api/internal/http"
	"github.com/askvader/api/internal/logger"
	"github.com/askvader/api/internal/smhi"
	"github.com/askvader/api/internal/usecase"
)

const version = "0.1.0"

func main() {
	// Parse command-line flags.
	showHelp := flag.Bool("help", false, "Show usage information")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showHelp {
		printUsage()
		return
	}

	if *showVersion {
		fmt.Printf("askvader-api version %s\n", version)
		return
	}

	// Load configuration from environment.
	port := getEnv("PORT", "8080")
	cacheDir := getEnv("CACHE_DIR", "./cache")
	smhiBase := getEnv("SMHI_BASE_URL", smhi.DefaultBaseURL)
	nominatimBase := getEnv("NOMINATIM_BASE_URL", geocode.DefaultBaseURL)
	logLevel := getEnv("LOG_LEVEL", "info")
	logFile := getEnv("LOG_FILE", "")
	preload := getEnv("PRELOAD", "on")

	appLog := logger.New(logLevel, logFile)
	appLog.Infof("Starting weather estimation server...")
	appLog.Infof("Port: %s", port)
	appLog.Infof("Cache directory: %s", cacheDir)
	appLog.Infof("SMHI base URL: %s", smhiBase)

	// Initialize adapters.
	client := smhi.NewClient(smhiBase, cacheDir, appLog)
	results := store.NewResultStore(cacheDir, appLog)
	geo := geocode.NewClient(nominatimBase)

	// Initialize use cases.
	stations := usecase.NewStationsUseCase(client)
	engine := usecase.NewEngine(client, results, stations, appLog)
	preloader := usecase.NewPreloader(engine, client, appLog)

	// Setup router.
	router := httpHandler.SetupRouter(engine, stations, geo, preloader)

	// Warm the caches in the background unless disabled.
	if preload != "off" {
		preloader.Start()
	} else {
		appLog.Infof("Cache preload disabled")
	}

	// Start server.
	addr := fmt.Sprintf(":%s", port)
	appLog.Infof("Server listening on %s", addr)
	appLog.Infof("Health check: http://localhost:%s/health", port)
	appLog.Infof("API endpoints:")
	appLog.Infof("  - GET /api/search")
	appLog.Infof("  - GET /api/autocomplete")
	appLog.Infof("  - GET /api/stations")
	appLog.Infof("  - GET /api/all-stations")
	appLog.Infof("  - GET /api/location-weather")
	appLog.Infof("  - GET /api/weather-data/:station_id")
	appLog.Infof("  - GET /api/preload-status")

	if err := router.Run(addr); err != nil {
		appLog.Errorf("Failed to start server: %v", err)
		os.Exit(1)
	}
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// printUsage prints usage information.
func printUsage() {
	fmt.Printf("Askvader API Server v%s\n\n", version)
	fmt.Println("USAGE:")
	fmt.Println("  askvader-api [flags]")
	fmt.Println()
	fmt.Println("FLAGS:")
	fmt.Println("  -help          Show this help message")
	fmt.Println("  -version       Show version information")
	fmt.Println()
	fmt.Println("ENVIRONMENT VARIABLES:")
	fmt.Println("  PORT                    Server port (default: 8080)")
	fmt.Println("  CACHE_DIR               Archive and result cache directory (default: ./cache)")
	fmt.Println("  SMHI_BASE_URL           SMHI open data API base URL")
	fmt.Println("  NOMINATIM_BASE_URL      Nominatim geocoding base URL")
	fmt.Println("  CORS_ALLOWED_ORIGINS    Comma-separated list of allowed origins (default: all origins)")
	fmt.Println("  LOG_LEVEL               Log level: debug, info, warn, error (default: info)")
	fmt.Println("  LOG_FILE                Log file path with size rotation (default: stdout only)")
	fmt.Println("  PRELOAD                 Set to 'off' to skip cache warming at startup")
	fmt.Println()
	fmt.Println("EXAMPLES:")
	fmt.Println("  # Start server with default settings")
	fmt.Println("  askvader-api")
	fmt.Println()
	fmt.Println("  # Start server on custom port without preloading")
	fmt.Println("  PORT=3000 PRELOAD=off askvader-api")
	fmt.Println()
	fmt.Println("API ENDPOINTS:")
	fmt.Println("  GET /health                        Health check")
	fmt.Println("  GET /api/search                    Geocode an address query")
	fmt.Println("  GET /api/autocomplete              Address suggestions for partial queries")
	fmt.Println("  GET /api/stations                  Nearest stations to a coordinate")
	fmt.Println("  GET /api/all-stations              Full station catalog")
	fmt.Println("  GET /api/location-weather          Blended estimate for a coordinate")
	fmt.Println("  GET /api/weather-data/:station_id  Aggregated series for one station")
	fmt.Println("  GET /api/preload-status            Cache warming progress")
	fmt.Println()
}
