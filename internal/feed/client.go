// Package feed retrieves complete record sets from ArcGIS-style feature
// services via offset pagination, tolerating transient upstream failures.
package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"reflect"
	"strconv"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/metrics"
	"github.com/jonboulle/clockwork"
)

// ErrFeedUnavailable is returned when one feed's record set could not be
// retrieved: retries exhausted, a non-retryable upstream error, or the
// pagination safety limits tripped.
var ErrFeedUnavailable = errors.New("disaster feed unavailable")

const (
	// maxAttempts bounds the request attempts per page, producing the
	// backoff sequence 0s, 0.3s, 0.9s, 2.7s, 8.1s.
	maxAttempts       = 5
	backoffBase       = 300 * time.Millisecond
	backoffMultiplier = 3

	// recordCeiling aborts pagination that never terminates upstream.
	recordCeiling = 100000
)

// Source describes one feature-service query endpoint.
type Source struct {
	Name     string // feed label for logs and metrics
	URL      string // full .../query endpoint
	PageSize int    // resultRecordCount per page
	Where    string // where clause; defaults to "1=1"
}

// HTTPClient defines the interface for making HTTP requests.
// This allows for easy mocking in tests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches one feature service with retry and pagination. A Client is
// used by exactly one pipeline invocation and is not shared across
// concurrent queries.
type Client struct {
	client  HTTPClient
	clock   clockwork.Clock
	log     *slog.Logger
	metrics *metrics.Metrics
}

// NewClient creates a feed client. The clock is injected so backoff timing
// is testable without live sleeps.
func NewClient(client HTTPClient, clock clockwork.Clock, log *slog.Logger, m *metrics.Metrics) *Client {
	return &Client{client: client, clock: clock, log: log, metrics: m}
}

// FetchAll retrieves the complete current record set of src. Pagination is
// sequential: each page's offset is the count accumulated so far, and a page
// shorter than the page size signals the end. A page that repeats the
// previous page's records, or a total beyond the safety ceiling, aborts with
// ErrFeedUnavailable rather than looping forever.
func (c *Client) FetchAll(ctx context.Context, src Source) ([]Feature, error) {
	all := []Feature{}
	var prevPage []Feature

	for {
		page, err := c.fetchPage(ctx, src, len(all))
		if err != nil {
			return nil, err
		}

		if len(page) > 0 && len(prevPage) > 0 && reflect.DeepEqual(page, prevPage) {
			return nil, fmt.Errorf("%w: %s repeated page contents at offset %d", ErrFeedUnavailable, src.Name, len(all))
		}

		all = append(all, page...)
		c.metrics.FeedRecords.WithLabelValues(src.Name).Add(float64(len(page)))

		if len(all) > recordCeiling {
			return nil, fmt.Errorf("%w: %s exceeded safety ceiling of %d records", ErrFeedUnavailable, src.Name, recordCeiling)
		}
		if len(page) < src.PageSize {
			c.log.DebugContext(ctx, "Feed fetch complete", "feed", src.Name, "records", len(all))
			return all, nil
		}
		prevPage = page
	}
}

// fetchPage requests one page, retrying transient failures with exponential
// backoff until the attempt budget is spent.
func (c *Client) fetchPage(ctx context.Context, src Source, offset int) ([]Feature, error) {
	var lastErr error

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			delay := backoffBase
			for i := 2; i < attempt; i++ {
				delay *= backoffMultiplier
			}
			c.metrics.FeedRetries.WithLabelValues(src.Name).Inc()
			c.log.WarnContext(ctx, "Retrying feed page request",
				"feed", src.Name, "offset", offset, "attempt", attempt, "delay", delay, "error", lastErr)

			select {
			case <-c.clock.After(delay):
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, src.Name, ctx.Err())
			}
		}

		page, retryable, err := c.requestPage(ctx, src, offset)
		if err == nil {
			c.metrics.FeedRequests.WithLabelValues(src.Name, "success").Inc()
			return page, nil
		}

		c.metrics.FeedRequests.WithLabelValues(src.Name, "error").Inc()
		lastErr = err
		if !retryable || ctx.Err() != nil {
			break
		}
	}

	return nil, fmt.Errorf("%w: %s: %w", ErrFeedUnavailable, src.Name, lastErr)
}

// queryResponse is a feature-service page body. Upstream reports failures
// through a top-level error object, possibly alongside HTTP 200.
type queryResponse struct {
	Features []Feature `json:"features"`
	Error    *apiError `json:"error,omitempty"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// requestPage performs a single page request. retryable reports whether the
// failure is transient (retryable status, transport error, or a retryable
// error object) as opposed to a hard upstream rejection.
func (c *Client) requestPage(ctx context.Context, src Source, offset int) (features []Feature, retryable bool, err error) {
	where := src.Where
	if where == "" {
		where = "1=1"
	}
	params := url.Values{
		"where":             {where},
		"outFields":         {"*"},
		"returnGeometry":    {"true"},
		"f":                 {"json"},
		"resultRecordCount": {strconv.Itoa(src.PageSize)},
		"resultOffset":      {strconv.Itoa(offset)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, false, fmt.Errorf("failed to create request: %w", err)
	}

	start := c.clock.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("failed to execute page request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.RequestSeconds.WithLabelValues(src.Name).Observe(c.clock.Since(start).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, retryableStatus(resp.StatusCode),
			fmt.Errorf("feed returned status %d at offset %d", resp.StatusCode, offset)
	}

	var body queryResponse
	if err = json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, true, fmt.Errorf("failed to decode feed response: %w", err)
	}

	if body.Error != nil {
		return nil, retryableStatus(body.Error.Code),
			fmt.Errorf("feed error %d: %s", body.Error.Code, body.Error.Message)
	}

	if body.Features == nil {
		// A well-formed response with no features array ends pagination.
		return []Feature{}, false, nil
	}
	return body.Features, false, nil
}

// retryableStatus reports whether a status code signals a transient failure.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	default:
		return false
	}
}
