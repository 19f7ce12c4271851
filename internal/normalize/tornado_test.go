package normalize_test

import (
	"testing"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/feed"
	"github.com/UnknownOlympus/aeolus/internal/models"
	"github.com/UnknownOlympus/aeolus/internal/normalize"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTornadoes_FullReport(t *testing.T) {
	fetchedAt := time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC)
	features := []feed.Feature{{Attributes: feed.Attributes{
		"startlat":   35.2,
		"startlon":   -97.4,
		"efnum":      3.0,
		"maxwind":    140.0,
		"length":     12.5,
		"width":      800.0,
		"fatalities": 2.0,
		"injuries":   15.0,
		"stormdate":  1.7556e12,
		"event_id":   "OKC-2026-041",
		"comments":   "Survey complete",
	}}}

	records := normalize.Tornadoes(features, fetchedAt)
	require.Len(t, records, 1)
	rec := records[0]

	assert.Equal(t, models.DisasterTypeTornado, rec.Type)
	assert.Equal(t, "Tornado EF3", rec.Name)
	assert.InDelta(t, 35.2, rec.Latitude, 1e-9)
	assert.InDelta(t, -97.4, rec.Longitude, 1e-9)

	require.NotNil(t, rec.EFScale)
	assert.Equal(t, "EF3", rec.EFScale.String())
	assert.Equal(t, rec.EFScale.Description(), rec.Severity)

	require.NotNil(t, rec.MaxWindMph)
	assert.InDelta(t, 140.0, *rec.MaxWindMph, 1e-9)
	require.NotNil(t, rec.PathLengthMiles)
	assert.InDelta(t, 12.5, *rec.PathLengthMiles, 1e-9)
	require.NotNil(t, rec.Fatalities)
	assert.Equal(t, 2, *rec.Fatalities)
	require.NotNil(t, rec.Injuries)
	assert.Equal(t, 15, *rec.Injuries)

	require.NotNil(t, rec.StormDate)
	assert.Equal(t, time.UnixMilli(1755600000000).UTC(), *rec.StormDate)
	require.NotNil(t, rec.LastUpdated)
	assert.Equal(t, fetchedAt, *rec.LastUpdated)

	assert.Equal(t, "OKC-2026-041", rec.Details["event_id"])
	assert.Nil(t, rec.Polygon(), "tornado reports are point records")
}

func TestTornadoes_DropsReportsWithoutStartPoint(t *testing.T) {
	features := []feed.Feature{
		{Attributes: feed.Attributes{"efnum": 1.0}},
		{Attributes: feed.Attributes{"startlat": 35.0, "efnum": 1.0}},
	}

	records := normalize.Tornadoes(features, time.Now())
	assert.Empty(t, records)
}

func TestTornadoes_ZeroMeasurementsStayAbsent(t *testing.T) {
	features := []feed.Feature{{Attributes: feed.Attributes{
		"startlat":   33.0,
		"startlon":   -88.0,
		"efnum":      0.0,
		"maxwind":    0.0,
		"length":     0.0,
		"width":      0.0,
		"fatalities": 0.0,
		"injuries":   0.0,
	}}}

	records := normalize.Tornadoes(features, time.Now())
	require.Len(t, records, 1)
	rec := records[0]

	require.NotNil(t, rec.EFScale, "EF0 is a valid rating")
	assert.Equal(t, "EF0", rec.EFScale.String())
	assert.Nil(t, rec.MaxWindMph)
	assert.Nil(t, rec.PathLengthMiles)
	assert.Nil(t, rec.PathWidthYards)
	assert.Nil(t, rec.Fatalities)
	assert.Nil(t, rec.Injuries)
}

func TestTornadoes_UnratedReport(t *testing.T) {
	features := []feed.Feature{{Attributes: feed.Attributes{
		"startlat": 40.0,
		"startlon": -95.0,
	}}}

	records := normalize.Tornadoes(features, time.Now())
	require.Len(t, records, 1)

	rec := records[0]
	assert.Nil(t, rec.EFScale)
	assert.Equal(t, "Tornado Unknown", rec.Name)
	assert.Equal(t, "Unknown", rec.Severity)
}

func TestTornadoes_OutOfRangeRatingKeepsLabel(t *testing.T) {
	features := []feed.Feature{{Attributes: feed.Attributes{
		"startlat": 40.0,
		"startlon": -95.0,
		"efnum":    7.0,
	}}}

	records := normalize.Tornadoes(features, time.Now())
	require.Len(t, records, 1)

	rec := records[0]
	assert.Nil(t, rec.EFScale)
	assert.Equal(t, "EF7", rec.Severity)
}
