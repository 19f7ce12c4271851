// Package geo holds the pure geometric primitives used by the proximity
// engine: great-circle distances, polygon containment, and compass labels.
// Nothing here performs I/O or keeps state.
package geo

import (
	"math"

	"github.com/golang/geo/s2"
)

// EarthRadiusMiles is the mean Earth radius used for all distance conversions.
const EarthRadiusMiles = 3958.8

// Point is a geographic coordinate in decimal degrees.
type Point struct {
	Lat float64
	Lon float64
}

// Ring is an ordered polygon boundary. It is treated as implicitly closed:
// the edge from the last vertex back to the first is always tested, whether
// or not the ring repeats its first vertex.
type Ring []Point

// HaversineMiles returns the great-circle distance between two points in
// miles. Identical points yield exactly 0, and the result is symmetric in
// its arguments.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	a := s2.LatLngFromDegrees(lat1, lon1)
	b := s2.LatLngFromDegrees(lat2, lon2)
	return a.Distance(b).Radians() * EarthRadiusMiles
}

// onSegmentTolerance is the squared planar distance below which a point
// counts as lying on a ring edge.
const onSegmentTolerance = 1e-12

// PointInRing reports whether p lies inside ring using a ray-casting test
// in the lat/lon plane. Rings with fewer than three vertices are never
// containing. Points exactly on an edge or vertex are inside (the test is
// edge-inclusive); callers must not re-check edges themselves.
func PointInRing(p Point, ring Ring) bool {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
		n--
	}
	if n < 3 {
		return false
	}

	inside := false
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := ring[j], ring[i]
		if onSegment(p, a, b) {
			return true
		}
		if (a.Lat > p.Lat) != (b.Lat > p.Lat) {
			crossLon := a.Lon + (p.Lat-a.Lat)*(b.Lon-a.Lon)/(b.Lat-a.Lat)
			if p.Lon < crossLon {
				inside = !inside
			}
		}
	}
	return inside
}

// onSegment reports whether p lies on the segment a-b within tolerance.
func onSegment(p, a, b Point) bool {
	dLon := b.Lon - a.Lon
	dLat := b.Lat - a.Lat
	lengthSq := dLon*dLon + dLat*dLat
	if lengthSq == 0 {
		dx, dy := p.Lon-a.Lon, p.Lat-a.Lat
		return dx*dx+dy*dy < onSegmentTolerance
	}

	t := ((p.Lon-a.Lon)*dLon + (p.Lat-a.Lat)*dLat) / lengthSq
	if t < 0 || t > 1 {
		return false
	}
	dx := p.Lon - (a.Lon + t*dLon)
	dy := p.Lat - (a.Lat + t*dLat)
	return dx*dx+dy*dy < onSegmentTolerance
}

var compass8 = [...]string{"N", "NE", "E", "SE", "S", "SW", "W", "NW"}

var compass16 = [...]string{
	"N", "NNE", "NE", "ENE", "E", "ESE", "SE", "SSE",
	"S", "SSW", "SW", "WSW", "W", "WNW", "NW", "NNW",
}

// BearingLabel returns one of the 8 principal compass labels for the initial
// great-circle bearing from the first point toward the second. It is display
// metadata only and never feeds a filtering decision.
func BearingLabel(fromLat, fromLon, toLat, toLon float64) string {
	phi1 := fromLat * math.Pi / 180
	phi2 := toLat * math.Pi / 180
	dLambda := (toLon - fromLon) * math.Pi / 180

	y := math.Sin(dLambda) * math.Cos(phi2)
	x := math.Cos(phi1)*math.Sin(phi2) - math.Sin(phi1)*math.Cos(phi2)*math.Cos(dLambda)
	bearing := math.Atan2(y, x) * 180 / math.Pi

	idx := int(math.Round(normalizeDegrees(bearing)/45)) % len(compass8)
	return compass8[idx]
}

// CompassLabel converts a raw heading in degrees to a 16-wind compass label,
// the granularity upstream hurricane advisories use for storm movement.
func CompassLabel(degrees float64) string {
	idx := int(math.Round(normalizeDegrees(degrees)/22.5)) % len(compass16)
	return compass16[idx]
}

func normalizeDegrees(d float64) float64 {
	d = math.Mod(d, 360)
	if d < 0 {
		d += 360
	}
	return d
}

// RingCentroid returns the vertex mean of a ring, used as a display center
// for area features that report no point coordinates. The closing duplicate
// vertex, if present, is ignored. ok is false for empty rings.
func RingCentroid(ring Ring) (lat, lon float64, ok bool) {
	n := len(ring)
	if n > 1 && ring[0] == ring[n-1] {
		ring = ring[:n-1]
		n--
	}
	if n == 0 {
		return 0, 0, false
	}

	var sumLat, sumLon float64
	for _, p := range ring {
		sumLat += p.Lat
		sumLon += p.Lon
	}
	return sumLat / float64(n), sumLon / float64(n), true
}
