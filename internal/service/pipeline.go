package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/feed"
	"github.com/UnknownOlympus/aeolus/internal/metrics"
	"github.com/UnknownOlympus/aeolus/internal/models"
	"github.com/UnknownOlympus/aeolus/internal/normalize"
	"github.com/UnknownOlympus/aeolus/internal/proximity"
	"github.com/jonboulle/clockwork"
)

const (
	hurricanePageSize = 2000
	tornadoPageSize   = 1000
	wildfirePageSize  = 2000
)

// A Pipeline fetches one disaster feed, normalizes its records, and writes
// those near the query point into the result's slice for its type. Each
// pipeline owns exactly one field of the result, so pipelines for different
// types may run concurrently against the same result.
type Pipeline interface {
	Type() models.DisasterType
	Collect(ctx context.Context, lat, lon, radiusMiles float64, out *models.LocationResult) error
}

// pipelineDeps are the collaborators every pipeline needs.
type pipelineDeps struct {
	client  feed.HTTPClient
	clock   clockwork.Clock
	log     *slog.Logger
	metrics *metrics.Metrics
}

func (d pipelineDeps) feedClient() *feed.Client {
	return feed.NewClient(d.client, d.clock, d.log, d.metrics)
}

// HurricanePipeline reads the NHC active-storms service: forecast cones
// from the cone layer and forecast points from the point layer, joined per
// storm during normalization.
type HurricanePipeline struct {
	deps    pipelineDeps
	baseURL string
}

// NewHurricanePipeline creates a hurricane pipeline rooted at the given
// feature-server URL.
func NewHurricanePipeline(
	client feed.HTTPClient,
	clock clockwork.Clock,
	log *slog.Logger,
	m *metrics.Metrics,
	baseURL string,
) *HurricanePipeline {
	return &HurricanePipeline{
		deps:    pipelineDeps{client: client, clock: clock, log: log, metrics: m},
		baseURL: baseURL,
	}
}

// Type implements Pipeline.
func (p *HurricanePipeline) Type() models.DisasterType { return models.DisasterTypeHurricane }

// Near returns the active storms within radiusMiles of the query point or
// whose forecast cone covers it, sorted by center distance.
func (p *HurricanePipeline) Near(
	ctx context.Context,
	lat, lon, radiusMiles float64,
) ([]*models.HurricaneRecord, error) {
	fc := p.deps.feedClient()

	cones, err := fc.FetchAll(ctx, feed.Source{
		Name:     "hurricane_cones",
		URL:      p.baseURL + "/4/query",
		PageSize: hurricanePageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch forecast cones: %w", err)
	}

	points, err := fc.FetchAll(ctx, feed.Source{
		Name:     "hurricane_points",
		URL:      p.baseURL + "/0/query",
		PageSize: hurricanePageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch forecast points: %w", err)
	}

	records := normalize.Hurricanes(cones, points)
	return proximity.Filter(records, lat, lon, radiusMiles), nil
}

// Collect implements Pipeline.
func (p *HurricanePipeline) Collect(
	ctx context.Context,
	lat, lon, radiusMiles float64,
	out *models.LocationResult,
) error {
	records, err := p.Near(ctx, lat, lon, radiusMiles)
	if err != nil {
		return err
	}
	out.Hurricanes = records
	return nil
}

// TornadoPipeline reads surveyed tornado damage reports from the NWS
// damage assessment toolkit, windowed to recent storms.
type TornadoPipeline struct {
	deps         pipelineDeps
	baseURL      string
	lookbackDays int
	minEF        int
}

// NewTornadoPipeline creates a tornado pipeline. lookbackDays bounds the
// storm-date window; reports rated below minEF are excluded server-side.
func NewTornadoPipeline(
	client feed.HTTPClient,
	clock clockwork.Clock,
	log *slog.Logger,
	m *metrics.Metrics,
	baseURL string,
	lookbackDays, minEF int,
) *TornadoPipeline {
	return &TornadoPipeline{
		deps:         pipelineDeps{client: client, clock: clock, log: log, metrics: m},
		baseURL:      baseURL,
		lookbackDays: lookbackDays,
		minEF:        minEF,
	}
}

// Type implements Pipeline.
func (p *TornadoPipeline) Type() models.DisasterType { return models.DisasterTypeTornado }

// Near returns the recent tornado reports within radiusMiles of the query
// point, sorted by distance.
func (p *TornadoPipeline) Near(
	ctx context.Context,
	lat, lon, radiusMiles float64,
) ([]*models.TornadoRecord, error) {
	now := p.deps.clock.Now().UTC()
	since := now.AddDate(0, 0, -p.lookbackDays)

	where := fmt.Sprintf("stormdate >= DATE '%s'", since.Format("2006-01-02"))
	if p.minEF > 0 {
		where += fmt.Sprintf(" AND efnum >= %d", p.minEF)
	}

	features, err := p.deps.feedClient().FetchAll(ctx, feed.Source{
		Name:     "tornadoes",
		URL:      p.baseURL + "/1/query",
		PageSize: tornadoPageSize,
		Where:    where,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch tornado reports: %w", err)
	}

	records := normalize.Tornadoes(features, now)
	return proximity.Filter(records, lat, lon, radiusMiles), nil
}

// Collect implements Pipeline.
func (p *TornadoPipeline) Collect(
	ctx context.Context,
	lat, lon, radiusMiles float64,
	out *models.LocationResult,
) error {
	records, err := p.Near(ctx, lat, lon, radiusMiles)
	if err != nil {
		return err
	}
	out.Tornadoes = records
	return nil
}

// WildfirePipeline reads current fire perimeters from the WFIGS interagency
// service, dropping perimeters that have gone stale.
type WildfirePipeline struct {
	deps        pipelineDeps
	baseURL     string
	recencyDays int
}

// NewWildfirePipeline creates a wildfire pipeline. recencyDays bounds how
// long a perimeter may go without an update before the fire is treated as
// inactive.
func NewWildfirePipeline(
	client feed.HTTPClient,
	clock clockwork.Clock,
	log *slog.Logger,
	m *metrics.Metrics,
	baseURL string,
	recencyDays int,
) *WildfirePipeline {
	return &WildfirePipeline{
		deps:        pipelineDeps{client: client, clock: clock, log: log, metrics: m},
		baseURL:     baseURL,
		recencyDays: recencyDays,
	}
}

// Type implements Pipeline.
func (p *WildfirePipeline) Type() models.DisasterType { return models.DisasterTypeWildfire }

// Near returns the active fires within radiusMiles of the query point or
// whose perimeter contains it, sorted by center distance.
func (p *WildfirePipeline) Near(
	ctx context.Context,
	lat, lon, radiusMiles float64,
) ([]*models.WildfireRecord, error) {
	cutoff := p.deps.clock.Now().UTC().Add(-time.Duration(p.recencyDays) * 24 * time.Hour)

	features, err := p.deps.feedClient().FetchAll(ctx, feed.Source{
		Name:     "wildfires",
		URL:      p.baseURL + "/0/query",
		PageSize: wildfirePageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch fire perimeters: %w", err)
	}

	records := normalize.Wildfires(features, cutoff)
	return proximity.Filter(records, lat, lon, radiusMiles), nil
}

// Collect implements Pipeline.
func (p *WildfirePipeline) Collect(
	ctx context.Context,
	lat, lon, radiusMiles float64,
	out *models.LocationResult,
) error {
	records, err := p.Near(ctx, lat, lon, radiusMiles)
	if err != nil {
		return err
	}
	out.Wildfires = records
	return nil
}
