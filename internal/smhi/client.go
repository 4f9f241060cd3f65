// Package smhi talks to the SMHI open data meteorological observations
// API. It caches station rosters in memory, raw CSV archives on disk and
// parsed observation rows in a bounded in-memory cache, since archives
// run to tens of megabytes and change at most daily.
package smhi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"

	"github.com/askvader/api/internal/domain"
	"github.com/askvader/api/internal/logger"
)

const (
	// ParamCloudCoverage is the SMHI parameter id for total cloud amount
	// in percent.
	ParamCloudCoverage = 16
	// ParamPresentWeather is the SMHI parameter id for the present
	// weather observation, a WMO code.
	ParamPresentWeather = 13
)

// DefaultBaseURL points at the production SMHI open data API.
const DefaultBaseURL = "https://opendata-download-metobs.smhi.se/api/version/1.0"

const (
	csvCacheTTL    = 7 * 24 * time.Hour
	rosterCacheTTL = 24 * time.Hour

	rosterTimeout = 15 * time.Second
	csvTimeout    = 30 * time.Second
)

// StatusError reports a non-2xx response from the SMHI API. Stations
// without an archive for a parameter answer 404, which callers treat as
// "no data" rather than a failure.
type StatusError struct {
	StatusCode int
	URL        string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("smhi: HTTP %d for %s", e.StatusCode, e.URL)
}

// Station is one entry of an SMHI station roster.
type Station struct {
	Key       string  `json:"key"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Active    bool    `json:"active"`
}

type rosterEntry struct {
	stations []Station
	fetched  time.Time
}

// Client fetches SMHI rosters and observation archives.
type Client struct {
	baseURL  string
	cacheDir string
	httpc    *http.Client
	log      *logger.Logger

	mu      sync.Mutex
	rosters map[int]rosterEntry

	rows   *expirable.LRU[rowKey, []domain.Row]
	flight singleflight.Group
}

// NewClient builds a Client caching CSV archives under cacheDir. An
// empty baseURL selects the production API; a nil logger disables
// logging.
func NewClient(baseURL, cacheDir string, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		cacheDir: cacheDir,
		httpc:    &http.Client{},
		log:      log,
		rosters:  make(map[int]rosterEntry),
		rows:     expirable.NewLRU[rowKey, []domain.Row](rowCacheSize, nil, rowCacheTTL),
	}
	if err := os.MkdirAll(c.csvCacheDir(), 0o755); err != nil {
		log.Warnf("could not create csv cache dir: %v", err)
	}
	return c
}

// StationList returns the roster for a parameter. Rosters change rarely
// and are cached in memory for a day. Callers get their own copy.
func (c *Client) StationList(paramID int) ([]Station, error) {
	c.mu.Lock()
	if e, ok := c.rosters[paramID]; ok && time.Since(e.fetched) < rosterCacheTTL {
		stations := append([]Station(nil), e.stations...)
		c.mu.Unlock()
		return stations, nil
	}
	c.mu.Unlock()

	stations, err := c.fetchRoster(paramID)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.rosters[paramID] = rosterEntry{stations: stations, fetched: time.Now()}
	c.mu.Unlock()

	return append([]Station(nil), stations...), nil
}

func (c *Client) fetchRoster(paramID int) ([]Station, error) {
	url := fmt.Sprintf("%s/parameter/%d.json", c.baseURL, paramID)
	ctx, cancel := context.WithTimeout(context.Background(), rosterTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch station list: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	var payload struct {
		Station []Station `json:"station"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode station list: %w", err)
	}
	return payload.Station, nil
}

// StationCSV returns the corrected-archive CSV for one station and
// parameter, served from the disk cache while fresh. A non-2xx response
// comes back as a *StatusError.
func (c *Client) StationCSV(paramID int, stationID string) (string, error) {
	path := c.csvCachePath(paramID, stationID)
	if isFresh(path, csvCacheTTL) {
		data, err := os.ReadFile(path)
		if err == nil {
			return string(data), nil
		}
		c.log.Warnf("csv cache read failed for %s: %v", path, err)
	}

	url := fmt.Sprintf("%s/parameter/%d/station/%s/period/corrected-archive/data.csv",
		c.baseURL, paramID, stationID)
	ctx, cancel := context.WithTimeout(context.Background(), csvTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return "", err
	}
	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch station csv: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", &StatusError{StatusCode: resp.StatusCode, URL: url}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read station csv: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		c.log.Warnf("csv cache write failed for %s: %v", path, err)
	}
	return string(data), nil
}

func (c *Client) csvCacheDir() string {
	return filepath.Join(c.cacheDir, "csv")
}

func (c *Client) csvCachePath(paramID int, stationID string) string {
	return filepath.Join(c.csvCacheDir(), fmt.Sprintf("param%d_station%s.csv", paramID, stationID))
}

// isFresh reports whether path exists and was modified within ttl.
func isFresh(path string, ttl time.Duration) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return time.Since(info.ModTime()) < ttl
}
