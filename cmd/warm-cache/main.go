// Command warm-cache downloads the observation archives for every
// active station and aggregates them into the result cache, so a server
// pointed at the same cache directory starts warm.
package main

import (
	"flag"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/askvader/api/internal/adapter/store"
	"github.com/askvader/api/internal/domain"
	"github.com/askvader/api/internal/smhi"
	"github.com/askvader/api/internal/usecase"
)

func main() {
	cacheDir := flag.String("cache", "./cache", "Cache directory shared with the server")
	baseURL := flag.String("base", smhi.DefaultBaseURL, "SMHI open data API base URL")
	workers := flag.Int("workers", 4, "Concurrent archive downloads")
	resolutions := flag.String("resolutions", "day,month,year", "Comma-separated resolutions to aggregate")
	limit := flag.Int("limit", 0, "Warm only the first N stations (0 = all)")
	csvOnly := flag.Bool("csv-only", false, "Download archives without aggregating results")
	flag.Parse()

	var resList []domain.Resolution
	if !*csvOnly {
		for _, raw := range strings.Split(*resolutions, ",") {
			raw = strings.TrimSpace(raw)
			res := domain.NormalizeResolution(raw)
			if string(res) != raw {
				log.Fatalf("Unknown resolution: %s (use day, month, or year)", raw)
			}
			resList = append(resList, res)
		}
	}

	client := smhi.NewClient(*baseURL, *cacheDir, nil)
	results := store.NewResultStore(*cacheDir, nil)
	stations := usecase.NewStationsUseCase(client)
	engine := usecase.NewEngine(client, results, stations, nil)

	list, err := client.StationList(smhi.ParamCloudCoverage)
	if err != nil {
		log.Fatalf("Failed to fetch station roster: %v", err)
	}
	var ids []string
	for _, s := range list {
		if s.Active {
			ids = append(ids, s.Key)
		}
	}
	if *limit > 0 && len(ids) > *limit {
		ids = ids[:*limit]
	}

	log.Printf("Warming caches for %d stations in %s", len(ids), *cacheDir)

	// Download both archives per station.
	start := time.Now()
	var failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(*workers)
	for _, id := range ids {
		for _, paramID := range []int{smhi.ParamCloudCoverage, smhi.ParamPresentWeather} {
			id, paramID := id, paramID
			g.Go(func() error {
				if _, err := client.StationCSV(paramID, id); err != nil {
					log.Printf("Warning: station %s parameter %d: %v", id, paramID, err)
					failed.Add(1)
				}
				return nil
			})
		}
	}
	_ = g.Wait()
	log.Printf("Downloaded archives in %s (%d failures)", time.Since(start).Round(time.Second), failed.Load())

	// Aggregate each station at every requested resolution.
	if !*csvOnly {
		aggStart := time.Now()
		for i, id := range ids {
			for _, res := range resList {
				if _, err := engine.StationWeather(id, res); err != nil {
					log.Printf("Warning: aggregate station %s at %s: %v", id, res, err)
				}
			}
			if (i+1)%100 == 0 {
				log.Printf("✓ Aggregated %d/%d stations", i+1, len(ids))
			}
		}
		log.Printf("Aggregated %d stations in %s", len(ids), time.Since(aggStart).Round(time.Second))
	}

	log.Printf("\n=== Warm Complete ===")
	log.Printf("Cache directory: %s", *cacheDir)
}
