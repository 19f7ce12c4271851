package feed

import (
	"math"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/geo"
)

// Feature is one raw record returned by a feature-service page. Features are
// transient: they are consumed by a normalizer immediately after fetching and
// never persisted.
type Feature struct {
	Attributes Attributes `json:"attributes"`
	Geometry   *Geometry  `json:"geometry,omitempty"`
}

// Geometry carries the optional polygon rings of a feature. ArcGIS encodes
// ring vertices as [longitude, latitude] pairs.
type Geometry struct {
	Rings [][][]float64 `json:"rings,omitempty"`
}

// OuterRing converts the first (outer) ring into a geo.Ring. Malformed
// geometry - missing rings, short vertex tuples, non-finite coordinates, or
// fewer than three usable vertices - yields nil, which downstream treats as
// "no polygon available" rather than an error.
func (f *Feature) OuterRing() geo.Ring {
	if f.Geometry == nil || len(f.Geometry.Rings) == 0 {
		return nil
	}

	raw := f.Geometry.Rings[0]
	ring := make(geo.Ring, 0, len(raw))
	for _, vertex := range raw {
		if len(vertex) < 2 {
			return nil
		}
		lon, lat := vertex[0], vertex[1]
		if math.IsNaN(lon) || math.IsNaN(lat) || math.IsInf(lon, 0) || math.IsInf(lat, 0) {
			return nil
		}
		ring = append(ring, geo.Point{Lat: lat, Lon: lon})
	}
	if len(ring) < 3 {
		return nil
	}
	return ring
}

// Attributes is the field-name-keyed payload of a feature. Accessors report
// absence explicitly so that missing fields are never mistaken for zeros.
type Attributes map[string]any

// Float returns a numeric attribute. ok is false when the field is absent,
// null, or not numeric.
func (a Attributes) Float(key string) (float64, bool) {
	v, present := a[key]
	if !present || v == nil {
		return 0, false
	}
	f, isFloat := v.(float64)
	return f, isFloat
}

// Int returns a numeric attribute truncated to an int.
func (a Attributes) Int(key string) (int, bool) {
	f, ok := a.Float(key)
	if !ok {
		return 0, false
	}
	return int(f), true
}

// String returns a non-empty string attribute.
func (a Attributes) String(key string) (string, bool) {
	v, present := a[key]
	if !present || v == nil {
		return "", false
	}
	s, isString := v.(string)
	if !isString || s == "" {
		return "", false
	}
	return s, true
}

// Time interprets a numeric attribute as epoch milliseconds, the timestamp
// encoding used by feature services.
func (a Attributes) Time(key string) (time.Time, bool) {
	ms, ok := a.Float(key)
	if !ok {
		return time.Time{}, false
	}
	return time.UnixMilli(int64(ms)).UTC(), true
}
