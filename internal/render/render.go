// Package render turns location results into console or JSON output.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/UnknownOlympus/aeolus/internal/geo"
	"github.com/UnknownOlympus/aeolus/internal/models"
)

// Console writes a human-readable report for each result. Feeds that
// failed are reported as undetermined; an empty result from a healthy feed
// is a genuine "none nearby".
func Console(w io.Writer, results []*models.LocationResult) {
	for i, result := range results {
		if i > 0 {
			fmt.Fprintln(w)
		}
		consoleOne(w, result)
	}
}

func consoleOne(w io.Writer, result *models.LocationResult) {
	fmt.Fprintf(w, "=== %s (%.4f, %.4f) — within %.0f miles ===\n",
		result.Location.Name, result.Location.Latitude, result.Location.Longitude, result.RadiusMiles)

	// bearing reads "42.5 mi NE": the record's direction from the query point.
	bearing := func(lat, lon float64) string {
		return geo.BearingLabel(result.Location.Latitude, result.Location.Longitude, lat, lon)
	}

	consoleSection(w, "Hurricanes", result.Feeds[models.DisasterTypeHurricane],
		len(result.Hurricanes), func() {
			for _, h := range result.Hurricanes {
				line := fmt.Sprintf("  %s — %s, %.1f mi %s",
					h.Name, h.Severity, h.DistanceMiles, bearing(h.Latitude, h.Longitude))
				if h.InsideCone {
					line += " (inside forecast cone)"
				}
				if h.MovementDirection != nil && h.MovementSpeedMph != nil {
					line += fmt.Sprintf(", moving %s at %.0f mph", *h.MovementDirection, *h.MovementSpeedMph)
				}
				fmt.Fprintln(w, line)
			}
		})

	consoleSection(w, "Tornadoes", result.Feeds[models.DisasterTypeTornado],
		len(result.Tornadoes), func() {
			for _, tr := range result.Tornadoes {
				line := fmt.Sprintf("  %s — %s, %.1f mi %s",
					tr.Name, tr.Severity, tr.DistanceMiles, bearing(tr.Latitude, tr.Longitude))
				if tr.StormDate != nil {
					line += ", " + tr.StormDate.Format("2006-01-02")
				}
				fmt.Fprintln(w, line)
			}
		})

	consoleSection(w, "Wildfires", result.Feeds[models.DisasterTypeWildfire],
		len(result.Wildfires), func() {
			for _, f := range result.Wildfires {
				line := fmt.Sprintf("  %s — %s, %.1f mi %s",
					f.Name, f.Severity, f.DistanceMiles, bearing(f.Latitude, f.Longitude))
				if f.InsidePerimeter {
					line += " (inside fire perimeter)"
				}
				fmt.Fprintln(w, line)
			}
		})

	if failed := result.FailedFeeds(); len(failed) > 0 {
		names := make([]string, len(failed))
		for i, dt := range failed {
			names[i] = string(dt)
		}
		fmt.Fprintf(w, "Warning: could not determine %s activity (feed unavailable)\n",
			strings.Join(names, ", "))
	}
	fmt.Fprintf(w, "Total: %d active disaster(s)\n", result.TotalDisasters())
}

func consoleSection(w io.Writer, title string, status models.FeedStatus, count int, body func()) {
	switch status {
	case models.FeedSkipped, "":
		return
	case models.FeedFailed:
		fmt.Fprintf(w, "%s: unavailable\n", title)
	case models.FeedOK:
		if count == 0 {
			fmt.Fprintf(w, "%s: none within range\n", title)
			return
		}
		fmt.Fprintf(w, "%s (%d):\n", title, count)
		body()
	}
}

// JSON writes results as indented JSON: a single object for one result, an
// array for several. An empty path writes to w; otherwise the output goes
// to the named file.
func JSON(w io.Writer, path string, results []*models.LocationResult) error {
	var payload any
	if len(results) == 1 {
		payload = results[0]
	} else {
		payload = results
	}

	out := w
	if path != "" {
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(payload); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
