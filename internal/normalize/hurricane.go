// Package normalize maps raw feature-service records into typed disaster
// records, computing severity classifications from the canonical threshold
// tables. Missing optional fields stay absent; they are never zero-filled.
package normalize

import (
	"fmt"

	"github.com/UnknownOlympus/aeolus/internal/feed"
	"github.com/UnknownOlympus/aeolus/internal/geo"
	"github.com/UnknownOlympus/aeolus/internal/models"
)

// stormKey identifies one storm across the cone and forecast-point layers.
type stormKey struct {
	name string
	num  int
}

// Hurricanes joins forecast cone polygons with the storm's current forecast
// point (lowest TAU per storm) and emits one record per storm. Storms with
// multiple advisory cones keep the first cone seen, matching upstream layer
// ordering.
func Hurricanes(cones, points []feed.Feature) []*models.HurricaneRecord {
	positions := currentPositions(points)

	records := []*models.HurricaneRecord{}
	seen := map[stormKey]bool{}

	for _, cone := range cones {
		name, _ := cone.Attributes.String("STORMNAME")
		if name == "" {
			name = "Unknown"
		}
		num, _ := cone.Attributes.Int("STORMNUM")
		key := stormKey{name: name, num: num}
		if seen[key] {
			continue
		}
		seen[key] = true

		position := positions[key]
		rec := buildHurricane(name, cone, position)
		if rec == nil {
			continue
		}
		records = append(records, rec)
	}
	return records
}

// currentPositions picks each storm's forecast point with the lowest TAU
// (hours from the current advisory), i.e. its present position.
func currentPositions(points []feed.Feature) map[stormKey]feed.Attributes {
	positions := map[stormKey]feed.Attributes{}
	taus := map[stormKey]float64{}

	for _, p := range points {
		name, _ := p.Attributes.String("STORMNAME")
		num, _ := p.Attributes.Int("STORMNUM")
		key := stormKey{name: name, num: num}

		tau, ok := p.Attributes.Float("TAU")
		if !ok {
			tau = 999
		}
		if best, present := taus[key]; present && tau >= best {
			continue
		}
		taus[key] = tau
		positions[key] = p.Attributes
	}
	return positions
}

func buildHurricane(name string, cone feed.Feature, position feed.Attributes) *models.HurricaneRecord {
	ring := cone.OuterRing()

	lat, lon, ok := hurricaneCenter(cone, position, ring)
	if !ok {
		return nil
	}

	maxWind, hasWind := position.Float("MAXWIND")
	if !hasWind {
		maxWind, hasWind = cone.Attributes.Float("MAX_WIND")
	}

	var category *models.HurricaneCategory
	if ssnum, ok := position.Int("SSNUM"); ok {
		c := models.CategoryFromSaffirSimpson(ssnum)
		category = &c
	} else if hasWind {
		c := models.CategoryFromWind(maxWind)
		category = &c
	}

	stormType, hasType := cone.Attributes.String("STORMTYPE")
	if !hasType {
		stormType, hasType = position.String("STORMTYPE")
	}

	severity := "Storm"
	if hasType {
		severity = stormType
	}
	if category != nil {
		severity = fmt.Sprintf("%s - %s", severity, category.Description())
	}

	rec := &models.HurricaneRecord{
		Record: models.Record{
			Type:      models.DisasterTypeHurricane,
			Name:      name,
			Latitude:  lat,
			Longitude: lon,
			Severity:  severity,
		},
		Category: category,
		ConeRing: ring,
	}

	if hasWind {
		rec.MaxWindMph = &maxWind
	}
	if gust, ok := position.Float("GUST"); ok {
		rec.GustMph = &gust
	}
	if dir, ok := position.Float("TCDIR"); ok {
		label := geo.CompassLabel(dir)
		rec.MovementDirection = &label
	}
	if speed, ok := position.Float("TCSPD"); ok {
		rec.MovementSpeedMph = &speed
	}
	if adv, ok := cone.Attributes.String("ADVISNUM"); ok {
		rec.AdvisoryNumber = adv
	}
	if basin, ok := cone.Attributes.String("BASIN"); ok {
		rec.Basin = &basin
	}
	if hasType {
		rec.StormType = &stormType
	}
	if updated, ok := cone.Attributes.Time("ADVDATE"); ok {
		rec.LastUpdated = &updated
	}

	details := map[string]any{}
	if period, ok := cone.Attributes.Float("FCSTPRD"); ok {
		details["forecast_period_hours"] = period
	}
	if num, ok := cone.Attributes.Int("STORMNUM"); ok {
		details["storm_number"] = num
	}
	if mslp, ok := position.Float("MSLP"); ok {
		details["mslp_mb"] = mslp
	}
	rec.Details = details

	return rec
}

/// hurricaneCenter resolves the storm's declared center: the current forecast
// point first, then the cone attributes, then the cone centroid. Storms with
// no resolvable center are dropped.
func hurricaneCenter(cone feed.Feature, position feed.Attributes, ring geo.Ring) (lat, lon float64, ok bool) {
	if lat, latOK := position.Float("LAT"); latOK {
		if lon, lonOK := position.Float("LON"); lonOK {
			return lat, lon, true
		}
	}
	if lat, latOK := cone.Attributes.Float("LAT"); latOK {
		if lon, lonOK := cone.Attributes.Float("LON"); lonOK {
			return lat, lon, true
		}
	}
	return geo.RingCentroid(ring)
}
