package feed_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/feed"
	"github.com/UnknownOlympus/aeolus/internal/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeature_OuterRing(t *testing.T) {
	var f feed.Feature
	require.NoError(t, json.Unmarshal([]byte(
		`{"attributes":{},"geometry":{"rings":[[[-95.0,29.0],[-94.0,29.0],[-94.0,30.0],[-95.0,30.0]]]}}`,
	), &f))

	ring := f.OuterRing()
	require.Len(t, ring, 4)
	// ArcGIS vertices are [lon, lat].
	assert.Equal(t, geo.Point{Lat: 29.0, Lon: -95.0}, ring[0])
}

func TestFeature_OuterRing_Malformed(t *testing.T) {
	t.Run("no geometry", func(t *testing.T) {
		f := feed.Feature{}
		assert.Nil(t, f.OuterRing())
	})

	t.Run("empty rings", func(t *testing.T) {
		f := feed.Feature{Geometry: &feed.Geometry{}}
		assert.Nil(t, f.OuterRing())
	})

	t.Run("short vertex tuple", func(t *testing.T) {
		f := feed.Feature{Geometry: &feed.Geometry{Rings: [][][]float64{{{-95.0}, {-94.0, 29.0}, {-94.0, 30.0}}}}}
		assert.Nil(t, f.OuterRing())
	})

	t.Run("too few vertices", func(t *testing.T) {
		f := feed.Feature{Geometry: &feed.Geometry{Rings: [][][]float64{{{-95.0, 29.0}, {-94.0, 29.0}}}}}
		assert.Nil(t, f.OuterRing())
	})
}

func TestAttributes_Accessors(t *testing.T) {
	attrs := feed.Attributes{
		"MAXWIND":  100.0,
		"STORMNUM": 5.0,
		"BASIN":    "AL",
		"EMPTY":    "",
		"NULLED":   nil,
		"ADVDATE":  1.7568e12,
	}

	wind, ok := attrs.Float("MAXWIND")
	require.True(t, ok)
	assert.InDelta(t, 100.0, wind, 1e-9)

	_, ok = attrs.Float("MISSING")
	assert.False(t, ok)
	_, ok = attrs.Float("NULLED")
	assert.False(t, ok)
	_, ok = attrs.Float("BASIN")
	assert.False(t, ok, "non-numeric value is absent, not zero")

	num, ok := attrs.Int("STORMNUM")
	require.True(t, ok)
	assert.Equal(t, 5, num)

	basin, ok := attrs.String("BASIN")
	require.True(t, ok)
	assert.Equal(t, "AL", basin)
	_, ok = attrs.String("EMPTY")
	assert.False(t, ok)

	ts, ok := attrs.Time("ADVDATE")
	require.True(t, ok)
	assert.Equal(t, time.UnixMilli(1756800000000).UTC(), ts)
	_, ok = attrs.Time("MISSING")
	assert.False(t, ok)
}
