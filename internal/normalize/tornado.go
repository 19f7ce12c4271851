package normalize

import (
	"fmt"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/feed"
	"github.com/UnknownOlympus/aeolus/internal/models"
)

// Tornadoes converts DAT damage reports into tornado records. Reports
// without a surveyed start point cannot be placed and are dropped. The
// feed has no notion of a record timestamp, so lastUpdated reflects fetch
// time.
func Tornadoes(features []feed.Feature, fetchedAt time.Time) []*models.TornadoRecord {
	records := []*models.TornadoRecord{}

	for _, f := range features {
		attrs := f.Attributes

		lat, latOK := attrs.Float("startlat")
		lon, lonOK := attrs.Float("startlon")
		if !latOK || !lonOK {
			continue
		}

		var scale *models.EFScale
		efLabel := "Unknown"
		if efnum, ok := attrs.Int("efnum"); ok {
			efLabel = fmt.Sprintf("EF%d", efnum)
			if s, valid := models.EFScaleFromNumber(efnum); valid {
				scale = &s
			}
		}

		severity := efLabel
		if scale != nil {
			severity = scale.Description()
		}

		fetched := fetchedAt
		rec := &models.TornadoRecord{
			Record: models.Record{
				Type:        models.DisasterTypeTornado,
				Name:        "Tornado " + efLabel,
				Latitude:    lat,
				Longitude:   lon,
				Severity:    severity,
				LastUpdated: &fetched,
			},
			EFScale: scale,
		}

		// Upstream encodes "not surveyed" as zero for these measurements,
		// so zeros stay absent.
		if wind, ok := attrs.Float("maxwind"); ok && wind > 0 {
			rec.MaxWindMph = &wind
		}
		if length, ok := attrs.Float("length"); ok && length > 0 {
			rec.PathLengthMiles = &length
		}
		if width, ok := attrs.Float("width"); ok && width > 0 {
			rec.PathWidthYards = &width
		}
		if fatalities, ok := attrs.Int("fatalities"); ok && fatalities > 0 {
			rec.Fatalities = &fatalities
		}
		if injuries, ok := attrs.Int("injuries"); ok && injuries > 0 {
			rec.Injuries = &injuries
		}
		if date, ok := attrs.Time("stormdate"); ok {
			rec.StormDate = &date
		}

		details := map[string]any{}
		if id, ok := attrs.Float("objectid"); ok {
			details["objectid"] = id
		}
		if id, ok := attrs.String("event_id"); ok {
			details["event_id"] = id
		}
		if endLat, ok := attrs.Float("endlat"); ok {
			details["end_lat"] = endLat
		}
		if endLon, ok := attrs.Float("endlon"); ok {
			details["end_lon"] = endLon
		}
		if text, ok := attrs.String("efscale"); ok {
			details["ef_scale_text"] = text
		}
		if comments, ok := attrs.String("comments"); ok {
			details["comments"] = comments
		}
		rec.Details = details

		records = append(records, rec)
	}
	return records
}
