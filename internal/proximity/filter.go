// Package proximity selects the disaster records relevant to a query
// point: those within the search radius, plus those whose polygon contains
// the point outright.
package proximity

import (
	"sort"

	"github.com/UnknownOlympus/aeolus/internal/geo"
)

// Record is the view of a disaster record the filter operates on. Distance
// is always measured to the record's declared center, even when the record
// qualifies by containment.
type Record interface {
	Center() (lat, lon float64)
	Polygon() geo.Ring
	Distance() float64
	SetProximity(distanceMiles float64, contained bool)
}

// Filter returns the records within radiusMiles of the query point or
// whose polygon contains it, sorted by ascending center distance. Records
// at equal distance keep their feed order.
func Filter[T Record](records []T, lat, lon, radiusMiles float64) []T {
	kept := []T{}

	for _, rec := range records {
		cLat, cLon := rec.Center()
		distance := geo.HaversineMiles(lat, lon, cLat, cLon)

		contained := false
		if ring := rec.Polygon(); ring != nil {
			contained = geo.PointInRing(geo.Point{Lat: lat, Lon: lon}, ring)
		}

		if distance > radiusMiles && !contained {
			continue
		}
		rec.SetProximity(distance, contained)
		kept = append(kept, rec)
	}

	sort.SliceStable(kept, func(i, j int) bool {
		return kept[i].Distance() < kept[j].Distance()
	})
	return kept
}
