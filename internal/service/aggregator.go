// Package service fans a location query out across the disaster feed
// pipelines and assembles the per-location results.
package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/metrics"
	"github.com/UnknownOlympus/aeolus/internal/models"
	"github.com/jonboulle/clockwork"
)

// ErrAllFeedsUnavailable reports that every requested feed failed, so the
// query produced no usable answer at all.
var ErrAllFeedsUnavailable = errors.New("all requested disaster feeds are unavailable")

// Aggregator runs disaster queries across a set of feed pipelines. One
// feed failing degrades the result; only all of them failing is an error.
type Aggregator struct {
	log        *slog.Logger
	clock      clockwork.Clock
	metrics    *metrics.Metrics
	pipelines  map[models.DisasterType]Pipeline
	numWorkers int
}

// NewAggregator creates an aggregator over the given pipelines.
// numWorkers bounds concurrency for batch queries only; a single query
// always fans out to every requested feed at once.
func NewAggregator(
	log *slog.Logger,
	clock clockwork.Clock,
	m *metrics.Metrics,
	pipelines []Pipeline,
	numWorkers int,
) *Aggregator {
	byType := map[models.DisasterType]Pipeline{}
	for _, p := range pipelines {
		byType[p.Type()] = p
	}
	return &Aggregator{
		log:        log,
		clock:      clock,
		metrics:    m,
		pipelines:  byType,
		numWorkers: numWorkers,
	}
}

// Query finds the disasters of the requested types near loc. Types with no
// registered pipeline are reported as skipped. The result is always
// populated; ErrAllFeedsUnavailable is returned only when every requested
// feed failed and the context is still live.
func (a *Aggregator) Query(
	ctx context.Context,
	loc models.Location,
	radiusMiles float64,
	types []models.DisasterType,
) (*models.LocationResult, error) {
	if len(types) == 0 {
		types = models.AllDisasterTypes()
	}

	start := a.clock.Now()
	result := &models.LocationResult{
		Location:    loc,
		RadiusMiles: radiusMiles,
		QueryTime:   start.UTC(),
		Hurricanes:  []*models.HurricaneRecord{},
		Tornadoes:   []*models.TornadoRecord{},
		Wildfires:   []*models.WildfireRecord{},
		Feeds:       map[models.DisasterType]models.FeedStatus{},
	}

	// Classify before fanning out so the status map is only written
	// concurrently under the mutex.
	active := map[models.DisasterType]Pipeline{}
	for _, dt := range types {
		if pipeline, ok := a.pipelines[dt]; ok {
			active[dt] = pipeline
		} else {
			result.Feeds[dt] = models.FeedSkipped
		}
	}

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for dt, pipeline := range active {
		wg.Add(1)
		go func(dt models.DisasterType, pipeline Pipeline) {
			defer wg.Done()

			err := pipeline.Collect(ctx, loc.Latitude, loc.Longitude, radiusMiles, result)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				a.log.ErrorContext(ctx, "Feed query failed", "feed", dt, "location", loc.Name, "error", err)
				result.Feeds[dt] = models.FeedFailed
				return
			}
			result.Feeds[dt] = models.FeedOK
		}(dt, pipeline)
	}
	wg.Wait()

	a.metrics.QuerySeconds.Observe(a.clock.Since(start).Seconds())

	if len(active) > 0 && len(result.FailedFeeds()) == len(active) && ctx.Err() == nil {
		return result, ErrAllFeedsUnavailable
	}
	return result, nil
}

// QueryBatch runs Query for each location using a bounded worker pool and
// returns one result per location, in input order. A location whose feeds
// all failed still yields its partial result; the batch never aborts early.
func (a *Aggregator) QueryBatch(
	ctx context.Context,
	locations []models.Location,
	radiusMiles float64,
	types []models.DisasterType,
) []*models.LocationResult {
	results := make([]*models.LocationResult, len(locations))
	if len(locations) == 0 {
		return results
	}

	a.log.InfoContext(
		ctx,
		"Starting batch query",
		"locations", len(locations),
		"num_workers", a.numWorkers,
	)

	type job struct {
		idx int
		loc models.Location
	}
	jobs := make(chan job, len(locations))
	var wg sync.WaitGroup

	for i := 1; i <= a.numWorkers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			for j := range jobs {
				a.metrics.ActiveWorkers.Inc()
				a.log.DebugContext(ctx, "Querying location", "worker", idx, "location", j.loc.Name)

				start := time.Now()
				result, err := a.Query(ctx, j.loc, radiusMiles, types)
				if err != nil {
					a.log.ErrorContext(
						ctx,
						"Location query degraded",
						"worker", idx,
						"location", j.loc.Name,
						"error", err,
					)
				}
				a.log.DebugContext(
					ctx,
					"Location done",
					"worker", idx,
					"location", j.loc.Name,
					"disasters", result.TotalDisasters(),
					"duration", time.Since(start),
				)

				results[j.idx] = result
				a.metrics.ActiveWorkers.Dec()
			}
		}(i)
	}

	for i, loc := range locations {
		jobs <- job{idx: i, loc: loc}
	}
	close(jobs)

	wg.Wait()
	a.log.InfoContext(ctx, "Batch query finished", "locations", len(locations))
	return results
}
