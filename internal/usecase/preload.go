package usecase

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/askvader/api/internal/domain"
	"github.com/askvader/api/internal/logger"
	"github.com/askvader/api/internal/smhi"
)

// Pre-warmer states, in lifecycle order.
const (
	stateIdle        = "idle"
	stateStarting    = "starting"
	stateDownloading = "downloading"
	stateAggregating = "aggregating"
	stateReady       = "ready"
	stateError       = "error"
)

const (
	// preloadWorkers keeps download concurrency low so user requests are
	// never starved while the warmup runs.
	preloadWorkers = 4
	// preloadBootDelay lets the server finish booting before heavy I/O.
	preloadBootDelay = 2 * time.Second
	// preloadYield is slept between stations during aggregation.
	preloadYield = 10 * time.Millisecond
)

// PreloadStatus is a snapshot of the pre-warmer's progress. CSVDone
// counts archives (two per station); AggDone counts stations.
type PreloadStatus struct {
	State         string     `json:"state"`
	TotalStations int        `json:"total_stations"`
	CSVDone       int        `json:"csv_done"`
	AggDone       int        `json:"agg_done"`
	StartedAt     *time.Time `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	Error         string     `json:"error"`
}

// Preloader warms the CSV and result caches for every active cloud
// station in the background, so the first user queries after boot are
// served from cache instead of triggering gigabytes of downloads.
type Preloader struct {
	engine *Engine
	smhi   *smhi.Client
	log    *logger.Logger

	bootDelay time.Duration

	mu     sync.Mutex
	status PreloadStatus
}

// NewPreloader creates a pre-warmer in the idle state.
func NewPreloader(engine *Engine, client *smhi.Client, log *logger.Logger) *Preloader {
	return &Preloader{
		engine:    engine,
		smhi:      client,
		log:       log,
		bootDelay: preloadBootDelay,
		status:    PreloadStatus{State: stateIdle},
	}
}

// Start launches the pre-warmer in a background goroutine. Safe to call
// more than once; any state other than idle makes it a no-op.
func (p *Preloader) Start() {
	p.mu.Lock()
	if p.status.State != stateIdle {
		p.mu.Unlock()
		return
	}
	now := time.Now()
	p.status.State = stateStarting
	p.status.StartedAt = &now
	p.mu.Unlock()

	go p.run()
}

// Status returns a snapshot of the pre-warmer's progress.
func (p *Preloader) Status() PreloadStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

func (p *Preloader) run() {
	time.Sleep(p.bootDelay)

	if err := p.warm(); err != nil {
		p.log.Errorf("preload failed: %v", err)
		p.mu.Lock()
		p.status.State = stateError
		p.status.Error = err.Error()
		p.mu.Unlock()
		return
	}

	now := time.Now()
	p.mu.Lock()
	p.status.State = stateReady
	p.status.FinishedAt = &now
	p.mu.Unlock()
	p.log.Infof("preload complete")
}

func (p *Preloader) warm() error {
	stations, err := p.smhi.StationList(smhi.ParamCloudCoverage)
	if err != nil {
		return fmt.Errorf("fetch station list: %w", err)
	}
	ids := make([]string, 0, len(stations))
	for _, s := range stations {
		if s.Active {
			ids = append(ids, s.Key)
		}
	}
	p.mu.Lock()
	p.status.TotalStations = len(ids)
	p.mu.Unlock()

	p.log.Infof("preload: downloading archives for %d stations", len(ids))
	start := time.Now()
	p.download(ids)
	p.log.Infof("preload: downloads done in %.1fs", time.Since(start).Seconds())

	start = time.Now()
	p.aggregate(ids)
	p.log.Infof("preload: aggregation done in %.1fs", time.Since(start).Seconds())
	return nil
}

// download fetches both parameter archives for every station, a few at
// a time. Already-fresh archives are served from disk by the client, so
// reruns within the cache window finish in seconds. Failures are logged
// and skipped; one broken station never aborts the warmup.
func (p *Preloader) download(ids []string) {
	p.setState(stateDownloading)

	var g errgroup.Group
	g.SetLimit(preloadWorkers)
	for _, id := range ids {
		for _, paramID := range []int{smhi.ParamCloudCoverage, smhi.ParamPresentWeather} {
			id, paramID := id, paramID
			g.Go(func() error {
				if _, err := p.smhi.StationCSV(paramID, id); err != nil {
					p.log.Warnf("preload: csv fetch failed: param=%d station=%s: %v", paramID, id, err)
				}
				p.mu.Lock()
				p.status.CSVDone++
				p.mu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()
}

// aggregate materializes the result cache for every station at every
// resolution, sequentially, yielding between stations so the request
// path stays responsive.
func (p *Preloader) aggregate(ids []string) {
	p.setState(stateAggregating)

	for _, id := range ids {
		for _, resolution := range domain.Resolutions {
			if _, err := p.engine.StationWeather(id, resolution); err != nil {
				p.log.Warnf("preload: aggregation failed: station=%s resolution=%s: %v", id, resolution, err)
			}
		}
		p.mu.Lock()
		p.status.AggDone++
		p.mu.Unlock()
		time.Sleep(preloadYield)
	}
}

func (p *Preloader) setState(state string) {
	p.mu.Lock()
	p.status.State = state
	p.mu.Unlock()
}
