package geocoding

import (
	"fmt"
	"log/slog"

	"googlemaps.github.io/maps"
)

// NewResolver creates a place resolver. With an API key it uses Google
// Maps; without one it falls back to the free Nominatim endpoint.
func NewResolver(apiKey string, log *slog.Logger) (Resolver, error) {
	if apiKey == "" {
		log.Debug("No geocoder API key configured, using Nominatim")
		return NewNominatimResolver(log), nil
	}

	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Google Maps client: %w", err)
	}
	return NewGoogleResolver(client, log), nil
}
