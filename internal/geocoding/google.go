package geocoding

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/UnknownOlympus/aeolus/internal/models"
	"googlemaps.github.io/maps"
)

// ErrEmptyResponse is returned when the Google Maps API responds with no
// results for the requested place.
var ErrEmptyResponse = errors.New("get empty response from Google Maps API")

// GoogleAPIClient is the slice of the Google Maps client the resolver
// needs, kept narrow so tests can mock it.
type GoogleAPIClient interface {
	Geocode(ctx context.Context, r *maps.GeocodingRequest) ([]maps.GeocodingResult, error)
}

// GoogleResolver resolves place names through the Google Maps Geocoding
// API.
type GoogleResolver struct {
	client GoogleAPIClient
	log    *slog.Logger
}

// NewGoogleResolver creates a resolver backed by the given Google Maps
// client.
func NewGoogleResolver(client GoogleAPIClient, log *slog.Logger) *GoogleResolver {
	return &GoogleResolver{client: client, log: log}
}

// Resolve geocodes the place name and returns it as a query location named
// after the original input. The first candidate wins; place names from the
// command line are rarely ambiguous enough to warrant more.
func (gr *GoogleResolver) Resolve(ctx context.Context, place string) (models.Location, error) {
	gr.log.DebugContext(ctx, "Resolving place using Google Maps", "place", place)

	results, err := gr.client.Geocode(ctx, &maps.GeocodingRequest{Address: place})
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to geocode place: %w", err)
	}
	if len(results) == 0 {
		return models.Location{}, fmt.Errorf("%w: %s", ErrEmptyResponse, place)
	}

	coords := results[0].Geometry.Location
	return models.NewLocation(place, coords.Lat, coords.Lng)
}
