// Package locations loads query locations from CSV files for batch mode.
package locations

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/aeolus/internal/models"
)

// ErrNoHeader reports a CSV whose header row names none of the required
// columns.
var ErrNoHeader = errors.New("csv is missing the name/latitude/longitude header row")

// columns are the resolved indices of the three required fields.
type columns struct {
	name, lat, lon int
}

// FromCSV reads query locations from a CSV file. The file must carry a
// header row naming a name (or location) column plus latitude and
// longitude; column order does not matter. Rows that fail to parse or
// validate are logged and skipped rather than failing the batch.
func FromCSV(log *slog.Logger, path string) ([]models.Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open locations file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row from %s: %w", path, err)
	}
	cols, err := resolveColumns(header)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var locs []models.Location
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			log.Warn("Skipping malformed CSV row", "file", path, "line", line, "error", err)
			continue
		}

		loc, err := parseRow(row, cols)
		if err != nil {
			log.Warn("Skipping invalid location", "file", path, "line", line, "error", err)
			continue
		}
		locs = append(locs, loc)
	}
	return locs, nil
}

// resolveColumns finds the required columns in the header row,
// case-insensitively.
func resolveColumns(header []string) (columns, error) {
	cols := columns{name: -1, lat: -1, lon: -1}
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "name", "location":
			cols.name = i
		case "latitude", "lat":
			cols.lat = i
		case "longitude", "lon", "lng":
			cols.lon = i
		}
	}
	if cols.name < 0 || cols.lat < 0 || cols.lon < 0 {
		return cols, ErrNoHeader
	}
	return cols, nil
}

func parseRow(row []string, cols columns) (models.Location, error) {
	max := cols.name
	if cols.lat > max {
		max = cols.lat
	}
	if cols.lon > max {
		max = cols.lon
	}
	if len(row) <= max {
		return models.Location{}, fmt.Errorf("row has %d fields, need at least %d", len(row), max+1)
	}

	lat, err := strconv.ParseFloat(strings.TrimSpace(row[cols.lat]), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("bad latitude %q: %w", row[cols.lat], err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(row[cols.lon]), 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("bad longitude %q: %w", row[cols.lon], err)
	}

	return models.NewLocation(strings.TrimSpace(row[cols.name]), lat, lon)
}
