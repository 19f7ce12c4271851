// Package models defines the shared data model of the proximity engine:
// query locations, the per-type disaster records, aggregated location
// results, and the severity classification tables.
package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/geo"
)

// ErrInvalidLocation is returned when coordinates fall outside valid decimal
// degree ranges. Bad coordinates are rejected, never clamped.
var ErrInvalidLocation = errors.New("invalid location coordinates")

// Location is a named query point. It is passed by value into the engine and
// owned by the caller.
type Location struct {
	Name      string
	Latitude  float64
	Longitude float64
}

// NewLocation validates coordinates and builds a Location.
func NewLocation(name string, lat, lon float64) (Location, error) {
	if lat < -90 || lat > 90 {
		return Location{}, fmt.Errorf("%w: latitude %v out of range [-90, 90]", ErrInvalidLocation, lat)
	}
	if lon < -180 || lon > 180 {
		return Location{}, fmt.Errorf("%w: longitude %v out of range [-180, 180]", ErrInvalidLocation, lon)
	}
	return Location{Name: name, Latitude: lat, Longitude: lon}, nil
}

// DisasterType identifies one of the three tracked disaster feeds.
type DisasterType string

const (
	DisasterTypeHurricane DisasterType = "hurricane"
	DisasterTypeTornado   DisasterType = "tornado"
	DisasterTypeWildfire  DisasterType = "wildfire"
)

// AllDisasterTypes lists every tracked type in canonical order.
func AllDisasterTypes() []DisasterType {
	return []DisasterType{DisasterTypeHurricane, DisasterTypeTornado, DisasterTypeWildfire}
}

// ParseDisasterType accepts both singular and plural spellings ("hurricane",
// "hurricanes") as used by the CLI type filter.
func ParseDisasterType(s string) (DisasterType, error) {
	switch s {
	case "hurricane", "hurricanes":
		return DisasterTypeHurricane, nil
	case "tornado", "tornadoes":
		return DisasterTypeTornado, nil
	case "wildfire", "wildfires":
		return DisasterTypeWildfire, nil
	default:
		return "", fmt.Errorf("unknown disaster type: %q", s)
	}
}

// Record is the common header shared by all disaster record variants.
// Latitude/Longitude are the disaster's declared center; DistanceMiles is
// populated by the proximity filter and is always the center-to-query
// distance, even when the record qualified by polygon containment.
type Record struct {
	Type          DisasterType
	Name          string
	Latitude      float64
	Longitude     float64
	DistanceMiles float64
	Severity      string
	LastUpdated   *time.Time
	Details       map[string]any
}

// Center returns the record's declared center coordinates.
func (r *Record) Center() (lat, lon float64) { return r.Latitude, r.Longitude }

// Distance returns the computed center-to-query distance in miles.
func (r *Record) Distance() float64 { return r.DistanceMiles }

// HurricaneRecord is a tropical cyclone with an optional forecast cone.
type HurricaneRecord struct {
	Record
	Category          *HurricaneCategory
	MaxWindMph        *float64
	GustMph           *float64
	MovementDirection *string
	MovementSpeedMph  *float64
	AdvisoryNumber    string
	Basin             *string
	StormType         *string
	InsideCone        bool
	ConeRing          geo.Ring
}

// Polygon returns the forecast cone ring, or nil when no usable geometry
// was reported.
func (h *HurricaneRecord) Polygon() geo.Ring { return h.ConeRing }

// SetProximity records the filter outcome for this storm.
func (h *HurricaneRecord) SetProximity(distanceMiles float64, contained bool) {
	h.DistanceMiles = distanceMiles
	h.InsideCone = contained
}

// TornadoRecord is a surveyed tornado damage report. Tornado reports carry
// no polygon; they qualify by distance only.
type TornadoRecord struct {
	Record
	EFScale         *EFScale
	MaxWindMph      *float64
	PathLengthMiles *float64
	PathWidthYards  *float64
	Fatalities      *int
	Injuries        *int
	StormDate       *time.Time
}

// Polygon always returns nil: tornado reports are point records.
func (t *TornadoRecord) Polygon() geo.Ring { return nil }

// SetProximity records the filter outcome for this report.
func (t *TornadoRecord) SetProximity(distanceMiles float64, _ bool) {
	t.DistanceMiles = distanceMiles
}

// WildfireRecord is an active fire with an optional perimeter polygon.
type WildfireRecord struct {
	Record
	SizeCategory       *WildfireSize
	Acres              *float64
	ContainmentPercent *float64
	InsidePerimeter    bool
	FireID             *string
	PerimeterRing      geo.Ring
}

// Polygon returns the fire perimeter ring, or nil when no usable geometry
// was reported.
func (w *WildfireRecord) Polygon() geo.Ring { return w.PerimeterRing }

// SetProximity records the filter outcome for this fire.
func (w *WildfireRecord) SetProximity(distanceMiles float64, contained bool) {
	w.DistanceMiles = distanceMiles
	w.InsidePerimeter = contained
}

// FeedStatus reports the health of one disaster feed within a result,
// letting renderers distinguish "no disasters found" from "could not
// determine".
type FeedStatus string

const (
	FeedOK      FeedStatus = "ok"
	FeedFailed  FeedStatus = "failed"
	FeedSkipped FeedStatus = "skipped"
)

// LocationResult aggregates everything found near one query location.
// Results are immutable once constructed; records are owned by the result
// that contains them.
type LocationResult struct {
	Location    Location
	RadiusMiles float64
	QueryTime   time.Time
	Hurricanes  []*HurricaneRecord
	Tornadoes   []*TornadoRecord
	Wildfires   []*WildfireRecord
	Feeds       map[DisasterType]FeedStatus
}

// TotalDisasters is always derived from the three lists, never stored.
func (r *LocationResult) TotalDisasters() int {
	return len(r.Hurricanes) + len(r.Tornadoes) + len(r.Wildfires)
}

// HasDisasters reports whether any disaster was found.
func (r *LocationResult) HasDisasters() bool { return r.TotalDisasters() > 0 }

// FailedFeeds lists the disaster types whose feed could not be queried,
// in canonical order.
func (r *LocationResult) FailedFeeds() []DisasterType {
	var failed []DisasterType
	for _, dt := range AllDisasterTypes() {
		if r.Feeds[dt] == FeedFailed {
			failed = append(failed, dt)
		}
	}
	return failed
}
