package render_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/models"
	"github.com/UnknownOlympus/aeolus/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) *models.LocationResult {
	t.Helper()
	loc, err := models.NewLocation("Houston", 29.76, -95.37)
	require.NoError(t, err)

	dir := "NE"
	speed := 12.0
	return &models.LocationResult{
		Location:    loc,
		RadiusMiles: 100,
		QueryTime:   time.Date(2026, 8, 26, 12, 0, 0, 0, time.UTC),
		Hurricanes: []*models.HurricaneRecord{{
			Record: models.Record{
				Type: models.DisasterTypeHurricane, Name: "MILTON",
				Severity: "Hurricane - Category 3 Hurricane (Major)", DistanceMiles: 42.5,
				Latitude: 30.37, Longitude: -95.37, // due north of the query point
			},
			InsideCone:        true,
			MovementDirection: &dir,
			MovementSpeedMph:  &speed,
		}},
		Tornadoes: []*models.TornadoRecord{},
		Wildfires: []*models.WildfireRecord{},
		Feeds: map[models.DisasterType]models.FeedStatus{
			models.DisasterTypeHurricane: models.FeedOK,
			models.DisasterTypeTornado:   models.FeedOK,
			models.DisasterTypeWildfire:  models.FeedFailed,
		},
	}
}

func TestConsole_DistinguishesEmptyFromUnavailable(t *testing.T) {
	var buf bytes.Buffer
	render.Console(&buf, []*models.LocationResult{sampleResult(t)})
	out := buf.String()

	assert.Contains(t, out, "Houston")
	assert.Contains(t, out, "MILTON")
	assert.Contains(t, out, "42.5 mi N")
	assert.Contains(t, out, "inside forecast cone")
	assert.Contains(t, out, "moving NE at 12 mph")
	assert.Contains(t, out, "Tornadoes: none within range")
	assert.Contains(t, out, "Wildfires: unavailable")
	assert.Contains(t, out, "could not determine wildfire activity")
	assert.Contains(t, out, "Total: 1 active disaster(s)")
}

func TestConsole_SkippedFeedsOmitted(t *testing.T) {
	result := sampleResult(t)
	result.Feeds[models.DisasterTypeTornado] = models.FeedSkipped

	var buf bytes.Buffer
	render.Console(&buf, []*models.LocationResult{result})

	assert.NotContains(t, buf.String(), "Tornadoes")
}

func TestJSON_SingleResultIsObject(t *testing.T) {
	var buf bytes.Buffer
	err := render.JSON(&buf, "", []*models.LocationResult{sampleResult(t)})
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &obj))
	assert.Contains(t, obj, "summary")
	assert.Contains(t, obj, "results")
}

func TestJSON_MultipleResultsAreArray(t *testing.T) {
	results := []*models.LocationResult{sampleResult(t), sampleResult(t)}

	var buf bytes.Buffer
	err := render.JSON(&buf, "", results)
	require.NoError(t, err)

	var arr []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &arr))
	assert.Len(t, arr, 2)
}

func TestJSON_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")

	err := render.JSON(nil, path, []*models.LocationResult{sampleResult(t)})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var obj map[string]any
	require.NoError(t, json.Unmarshal(data, &obj))
	assert.Contains(t, obj, "location")
}
