package normalize

import (
	"fmt"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/feed"
	"github.com/UnknownOlympus/aeolus/internal/geo"
	"github.com/UnknownOlympus/aeolus/internal/models"
)

// wildfireDateFields are the perimeter timestamps used for the recency
// filter. A fire is considered active if every present timestamp is at or
// after the cutoff; fires reporting none of them are kept.
var wildfireDateFields = []string{
	"attr_ModifiedOnDateTime_dt",
	"poly_DateCurrent",
	"attr_ContainmentDateTime",
}

// Wildfires converts WFIGS perimeter features into wildfire records,
// dropping fires whose perimeter has not been touched since cutoff. Fires
// with neither a usable perimeter nor a point of origin cannot be placed
// and are dropped.
func Wildfires(features []feed.Feature, cutoff time.Time) []*models.WildfireRecord {
	records := []*models.WildfireRecord{}

	for _, f := range features {
		attrs := f.Attributes
		if !activeSince(attrs, cutoff) {
			continue
		}

		ring := f.OuterRing()
		lat, lon, ok := wildfireCenter(attrs, ring)
		if !ok {
			continue
		}

		name, hasName := attrs.String("poly_IncidentName")
		if !hasName {
			name = "Unknown Fire"
		}

		var sizeCategory *models.WildfireSize
		acres, hasAcres := attrs.Float("attr_IncidentSize")
		if hasAcres {
			s := models.SizeFromAcres(acres)
			sizeCategory = &s
		}
		containment, hasContainment := attrs.Float("attr_PercentContained")

		severity := "Unknown size"
		switch {
		case sizeCategory != nil:
			severity = sizeCategory.Description()
		case hasAcres:
			severity = fmt.Sprintf("%.0f acres", acres)
		}
		if hasContainment {
			severity += fmt.Sprintf(" (%.0f%% contained)", containment)
		}

		rec := &models.WildfireRecord{
			Record: models.Record{
				Type:      models.DisasterTypeWildfire,
				Name:      name,
				Latitude:  lat,
				Longitude: lon,
				Severity:  severity,
			},
			SizeCategory:  sizeCategory,
			PerimeterRing: ring,
		}

		if hasAcres {
			rec.Acres = &acres
		}
		if hasContainment {
			rec.ContainmentPercent = &containment
		}
		if id, ok := attrs.String("poly_IRWINID"); ok {
			rec.FireID = &id
		}
		if updated, ok := attrs.Time("attr_ModifiedOnDateTime_dt"); ok {
			rec.LastUpdated = &updated
		}

		details := map[string]any{}
		if behavior, ok := attrs.String("attr_FireBehaviorGeneral"); ok {
			details["fire_behavior"] = behavior
		}
		if discovered, ok := attrs.Time("attr_FireDiscoveryDateTime"); ok {
			details["discovery_date"] = discovered.Format(time.RFC3339)
		}
		if cause, ok := attrs.String("attr_FireCause"); ok {
			details["cause"] = cause
		}
		if state, ok := attrs.String("attr_POOState"); ok {
			details["state"] = state
		}
		if county, ok := attrs.String("attr_POOCounty"); ok {
			details["county"] = county
		}
		rec.Details = details

		records = append(records, rec)
	}
	return records
}

func activeSince(attrs feed.Attributes, cutoff time.Time) bool {
	for _, field := range wildfireDateFields {
		if ts, ok := attrs.Time(field); ok && ts.Before(cutoff) {
			return false
		}
	}
	return true
}

// wildfireCenter resolves the fire's display center: the perimeter centroid
// first, then the reported point of origin.
func wildfireCenter(attrs feed.Attributes, ring geo.Ring) (lat, lon float64, ok bool) {
	if lat, lon, ok = geo.RingCentroid(ring); ok {
		return lat, lon, true
	}
	if lat, latOK := attrs.Float("attr_POOLatitude"); latOK {
		if lon, lonOK := attrs.Float("attr_POOLongitude"); lonOK {
			return lat, lon, true
		}
	}
	return 0, 0, false
}
