package geocoding

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/models"
)

// Common errors for the Nominatim resolver.
var (
	ErrNominatimEmptyResponse = errors.New("nominatim API returned empty response")
	ErrNominatimInvalidCoords = errors.New("nominatim API returned invalid coordinates")
)

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// NominatimResolver resolves place names through OpenStreetMap's Nominatim
// API. Free, no API key, limited to 1 request/second by usage policy --
// fine for the occasional --place lookup, unsuitable for bulk geocoding.
type NominatimResolver struct {
	client  HTTPClient
	baseURL string
	log     *slog.Logger
	// userAgent is required by Nominatim usage policy
	userAgent string
}

// nominatimResponse represents the JSON response from the Nominatim API.
type nominatimResponse struct {
	Lat string `json:"lat"`
	Lon string `json:"lon"`
}

const nominatimTimeout = 10 * time.Second

// NewNominatimResolver creates a resolver against the public Nominatim
// endpoint.
func NewNominatimResolver(log *slog.Logger) *NominatimResolver {
	return NewNominatimResolverWithClient(&http.Client{Timeout: nominatimTimeout}, log)
}

// NewNominatimResolverWithClient creates a Nominatim resolver with a custom
// HTTP client. Useful for testing with mocked HTTP clients.
func NewNominatimResolverWithClient(client HTTPClient, log *slog.Logger) *NominatimResolver {
	return &NominatimResolver{
		client:  client,
		baseURL: "https://nominatim.openstreetmap.org/search",
		log:     log,
		// User-Agent MUST include valid contact info per Nominatim usage policy:
		// https://operations.osmfoundation.org/policies/nominatim/
		userAgent: "Aeolus-Disaster-Tracker/1.0 (https://github.com/UnknownOlympus/aeolus)",
	}
}

// Resolve geocodes the place name and returns it as a query location named
// after the original input.
func (nr *NominatimResolver) Resolve(ctx context.Context, place string) (models.Location, error) {
	nr.log.DebugContext(ctx, "Resolving place using Nominatim", "place", place)

	reqURL, err := url.Parse(nr.baseURL)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to parse base URL: %w", err)
	}
	query := reqURL.Query()
	query.Set("q", place)
	query.Set("format", "json")
	query.Set("limit", "1")
	reqURL.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", nr.userAgent)

	resp, err := nr.client.Do(req)
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to execute geocoding request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		nr.log.ErrorContext(ctx, "Nominatim API error", "status", resp.StatusCode, "body", string(body))
		return models.Location{}, fmt.Errorf("nominatim API returned status %d", resp.StatusCode)
	}

	var results []nominatimResponse
	if err = json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return models.Location{}, fmt.Errorf("failed to decode nominatim response: %w", err)
	}
	if len(results) == 0 {
		return models.Location{}, fmt.Errorf("%w: %s", ErrNominatimEmptyResponse, place)
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: latitude %q", ErrNominatimInvalidCoords, results[0].Lat)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return models.Location{}, fmt.Errorf("%w: longitude %q", ErrNominatimInvalidCoords, results[0].Lon)
	}

	return models.NewLocation(place, lat, lon)
}
