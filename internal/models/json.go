package models

import (
	"encoding/json"
	"math"
	"time"
)

// The JSON projection below is a compatibility contract: field names,
// nesting, and rounding must not drift between implementations. Distances
// are rounded to 2 decimals, coordinates to 4, acreage to 1.

func round(v float64, decimals int) float64 {
	scale := math.Pow(10, float64(decimals))
	return math.Round(v*scale) / scale
}

func isoTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

type recordJSON struct {
	DisasterType  DisasterType   `json:"disaster_type"`
	Name          string         `json:"name"`
	DistanceMiles float64        `json:"distance_miles"`
	Latitude      float64        `json:"latitude"`
	Longitude     float64        `json:"longitude"`
	Severity      string         `json:"severity"`
	Details       map[string]any `json:"details"`
	LastUpdated   *string        `json:"last_updated"`
}

func (r *Record) project() recordJSON {
	details := r.Details
	if details == nil {
		details = map[string]any{}
	}
	return recordJSON{
		DisasterType:  r.Type,
		Name:          r.Name,
		DistanceMiles: round(r.DistanceMiles, 2),
		Latitude:      round(r.Latitude, 4),
		Longitude:     round(r.Longitude, 4),
		Severity:      r.Severity,
		Details:       details,
		LastUpdated:   isoTime(r.LastUpdated),
	}
}

type hurricaneJSON struct {
	recordJSON
	Category          *HurricaneCategory `json:"category"`
	MaxWindMph        *float64           `json:"max_wind_mph"`
	GustMph           *float64           `json:"gust_mph"`
	MovementDirection *string            `json:"movement_direction"`
	MovementSpeedMph  *float64           `json:"movement_speed_mph"`
	AdvisoryNumber    string             `json:"advisory_number"`
	Basin             *string            `json:"basin"`
	StormType         *string            `json:"storm_type"`
	InsideCone        bool               `json:"inside_cone"`
}

// MarshalJSON emits the canonical hurricane projection.
func (h *HurricaneRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(hurricaneJSON{
		recordJSON:        h.project(),
		Category:          h.Category,
		MaxWindMph:        h.MaxWindMph,
		GustMph:           h.GustMph,
		MovementDirection: h.MovementDirection,
		MovementSpeedMph:  h.MovementSpeedMph,
		AdvisoryNumber:    h.AdvisoryNumber,
		Basin:             h.Basin,
		StormType:         h.StormType,
		InsideCone:        h.InsideCone,
	})
}

type tornadoJSON struct {
	recordJSON
	EFScale         *string  `json:"ef_scale"`
	MaxWindMph      *float64 `json:"max_wind_mph"`
	PathLengthMiles *float64 `json:"path_length_miles"`
	PathWidthYards  *float64 `json:"path_width_yards"`
	Fatalities      *int     `json:"fatalities"`
	Injuries        *int     `json:"injuries"`
	StormDate       *string  `json:"storm_date"`
}

// MarshalJSON emits the canonical tornado projection. The EF rating is
// rendered as a label ("EF3"), not a bare number.
func (t *TornadoRecord) MarshalJSON() ([]byte, error) {
	var efLabel *string
	if t.EFScale != nil {
		s := t.EFScale.String()
		efLabel = &s
	}
	return json.Marshal(tornadoJSON{
		recordJSON:      t.project(),
		EFScale:         efLabel,
		MaxWindMph:      t.MaxWindMph,
		PathLengthMiles: t.PathLengthMiles,
		PathWidthYards:  t.PathWidthYards,
		Fatalities:      t.Fatalities,
		Injuries:        t.Injuries,
		StormDate:       isoTime(t.StormDate),
	})
}

type wildfireJSON struct {
	recordJSON
	SizeCategory       *WildfireSize `json:"size_category"`
	Acres              *float64      `json:"acres"`
	ContainmentPercent *float64      `json:"containment_percent"`
	InsidePerimeter    bool          `json:"inside_perimeter"`
	FireID             *string       `json:"fire_id"`
}

// MarshalJSON emits the canonical wildfire projection.
func (w *WildfireRecord) MarshalJSON() ([]byte, error) {
	acres := w.Acres
	if acres != nil {
		rounded := round(*acres, 1)
		acres = &rounded
	}
	return json.Marshal(wildfireJSON{
		recordJSON:         w.project(),
		SizeCategory:       w.SizeCategory,
		Acres:              acres,
		ContainmentPercent: w.ContainmentPercent,
		InsidePerimeter:    w.InsidePerimeter,
		FireID:             w.FireID,
	})
}

type locationJSON struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type resultsJSON struct {
	Hurricanes []*HurricaneRecord `json:"hurricanes"`
	Tornadoes  []*TornadoRecord   `json:"tornadoes"`
	Wildfires  []*WildfireRecord  `json:"wildfires"`
}

type summaryJSON struct {
	TotalDisasters  int `json:"total_disasters"`
	HurricanesCount int `json:"hurricanes_count"`
	TornadoesCount  int `json:"tornadoes_count"`
	WildfiresCount  int `json:"wildfires_count"`
}

type locationResultJSON struct {
	QueryTime   *string                     `json:"query_time"`
	Location    locationJSON                `json:"location"`
	RadiusMiles float64                     `json:"radius_miles"`
	Results     resultsJSON                 `json:"results"`
	Summary     summaryJSON                 `json:"summary"`
	Feeds       map[DisasterType]FeedStatus `json:"feeds"`
}

// MarshalJSON emits the canonical aggregated projection, with a derived
// summary block and per-feed status flags. Empty record lists marshal as
// empty arrays, never null.
func (r *LocationResult) MarshalJSON() ([]byte, error) {
	hurricanes := r.Hurricanes
	if hurricanes == nil {
		hurricanes = []*HurricaneRecord{}
	}
	tornadoes := r.Tornadoes
	if tornadoes == nil {
		tornadoes = []*TornadoRecord{}
	}
	wildfires := r.Wildfires
	if wildfires == nil {
		wildfires = []*WildfireRecord{}
	}

	var queryTime *string
	if !r.QueryTime.IsZero() {
		queryTime = isoTime(&r.QueryTime)
	}

	feeds := r.Feeds
	if feeds == nil {
		feeds = map[DisasterType]FeedStatus{}
	}

	return json.Marshal(locationResultJSON{
		QueryTime: queryTime,
		Location: locationJSON{
			Name:      r.Location.Name,
			Latitude:  r.Location.Latitude,
			Longitude: r.Location.Longitude,
		},
		RadiusMiles: r.RadiusMiles,
		Results: resultsJSON{
			Hurricanes: hurricanes,
			Tornadoes:  tornadoes,
			Wildfires:  wildfires,
		},
		Summary: summaryJSON{
			TotalDisasters:  r.TotalDisasters(),
			HurricanesCount: len(hurricanes),
			TornadoesCount:  len(tornadoes),
			WildfiresCount:  len(wildfires),
		},
		Feeds: feeds,
	})
}
