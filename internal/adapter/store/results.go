// Package store persists computed station results between requests.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/askvader/api/internal/domain"
	"github.com/askvader/api/internal/logger"
)

const resultTTL = 7 * 24 * time.Hour

// ResultStore caches aggregated station series as JSON files on disk so
// repeated requests skip the CSV download and aggregation. The cache is
// best effort: corrupt or stale entries count as misses and write
// failures are logged, never fatal.
type ResultStore struct {
	dir string
	log *logger.Logger
}

// NewResultStore builds a store writing under cacheDir/results.
func NewResultStore(cacheDir string, log *logger.Logger) *ResultStore {
	s := &ResultStore{dir: filepath.Join(cacheDir, "results"), log: log}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		log.Warnf("could not create results cache dir: %v", err)
	}
	return s
}

// Fresh reports whether a fresh entry exists for a station and
// resolution, without decoding it.
func (s *ResultStore) Fresh(stationID string, resolution domain.Resolution) bool {
	info, err := os.Stat(s.path(stationID, resolution))
	return err == nil && time.Since(info.ModTime()) < resultTTL
}

// Get returns the cached series for a station and resolution. The second
// return is false when there is no fresh entry.
func (s *ResultStore) Get(stationID string, resolution domain.Resolution) (domain.StationResult, bool) {
	path := s.path(stationID, resolution)
	info, err := os.Stat(path)
	if err != nil || time.Since(info.ModTime()) >= resultTTL {
		return domain.StationResult{}, false
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.StationResult{}, false
	}
	var result domain.StationResult
	if err := json.Unmarshal(data, &result); err != nil {
		s.log.Warnf("discarding corrupt result cache entry %s: %v", path, err)
		return domain.StationResult{}, false
	}
	return result, true
}

// Put writes a series to the cache via a temp file and rename, so a
// crashed write never leaves a truncated entry behind.
func (s *ResultStore) Put(result domain.StationResult) {
	data, err := json.Marshal(result)
	if err != nil {
		s.log.Warnf("could not encode result for station %s: %v", result.StationID, err)
		return
	}
	tmp, err := os.CreateTemp(s.dir, "result-*.tmp")
	if err != nil {
		s.log.Warnf("could not create temp result file: %v", err)
		return
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.log.Warnf("could not write result cache entry: %v", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.log.Warnf("could not close temp result file: %v", err)
		return
	}
	path := s.path(result.StationID, result.Resolution)
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		s.log.Warnf("could not move result cache entry into place: %v", err)
	}
}

func (s *ResultStore) path(stationID string, resolution domain.Resolution) string {
	return filepath.Join(s.dir, fmt.Sprintf("station_%s_%s.json", stationID, resolution))
}
