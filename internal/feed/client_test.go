package feed_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/UnknownOlympus/aeolus/internal/feed"
	"github.com/UnknownOlympus/aeolus/internal/metrics"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockHTTPClient is a mock implementation of feed.HTTPClient for testing.
type mockHTTPClient struct {
	doFunc func(req *http.Request) (*http.Response, error)
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	return m.doFunc(req)
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func newTestClient(doFunc func(req *http.Request) (*http.Response, error), clock clockwork.Clock) *feed.Client {
	httpClient := &mockHTTPClient{doFunc: doFunc}
	m := metrics.New(prometheus.NewRegistry())
	return feed.NewClient(httpClient, clock, slog.Default(), m)
}

func featuresBody(ids ...int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf(`{"attributes":{"objectid":%d}}`, id)
	}
	return `{"features":[` + strings.Join(parts, ",") + `]}`
}

func TestFetchAll_PaginatesUntilShortPage(t *testing.T) {
	src := feed.Source{Name: "tornado", URL: "https://example.com/query", PageSize: 2}

	var offsets []int
	client := newTestClient(func(req *http.Request) (*http.Response, error) {
		q := req.URL.Query()
		assert.Equal(t, "1=1", q.Get("where"))
		assert.Equal(t, "*", q.Get("outFields"))
		assert.Equal(t, "json", q.Get("f"))
		assert.Equal(t, "2", q.Get("resultRecordCount"))

		offset, err := strconv.Atoi(q.Get("resultOffset"))
		require.NoError(t, err)
		offsets = append(offsets, offset)

		switch offset {
		case 0:
			return jsonResponse(http.StatusOK, featuresBody(1, 2)), nil
		case 2:
			return jsonResponse(http.StatusOK, featuresBody(3, 4)), nil
		default:
			return jsonResponse(http.StatusOK, featuresBody(5)), nil
		}
	}, clockwork.NewFakeClock())

	features, err := client.FetchAll(context.Background(), src)
	require.NoError(t, err)
	assert.Len(t, features, 5)
	assert.Equal(t, []int{0, 2, 4}, offsets)
}

func TestFetchAll_EmptyFirstPage(t *testing.T) {
	src := feed.Source{Name: "hurricane", URL: "https://example.com/query", PageSize: 2000}

	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"features":[]}`), nil
	}, clockwork.NewFakeClock())

	features, err := client.FetchAll(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestFetchAll_MissingFeaturesKeyEndsPagination(t *testing.T) {
	src := feed.Source{Name: "hurricane", URL: "https://example.com/query", PageSize: 2000}

	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{}`), nil
	}, clockwork.NewFakeClock())

	features, err := client.FetchAll(context.Background(), src)
	require.NoError(t, err)
	assert.Empty(t, features)
}

func TestFetchAll_RetryExhaustion(t *testing.T) {
	src := feed.Source{Name: "wildfire", URL: "https://example.com/query", PageSize: 2000}

	var requests int
	clk := clockwork.NewFakeClock()
	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		requests++
		return jsonResponse(http.StatusServiceUnavailable, `unavailable`), nil
	}, clk)

	type result struct {
		features []feed.Feature
		err      error
	}
	done := make(chan result, 1)
	go func() {
		features, err := client.FetchAll(context.Background(), src)
		done <- result{features, err}
	}()

	// Four backoff sleeps separate the five attempts.
	for range 4 {
		clk.BlockUntil(1)
		clk.Advance(10 * time.Second)
	}

	res := <-done
	require.ErrorIs(t, res.err, feed.ErrFeedUnavailable)
	assert.Nil(t, res.features)
	assert.Equal(t, 5, requests)
}

func TestFetchAll_NonRetryableStatusFailsImmediately(t *testing.T) {
	src := feed.Source{Name: "tornado", URL: "https://example.com/query", PageSize: 1000}

	var requests int
	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		requests++
		return jsonResponse(http.StatusBadRequest, `bad request`), nil
	}, clockwork.NewFakeClock())

	_, err := client.FetchAll(context.Background(), src)
	require.ErrorIs(t, err, feed.ErrFeedUnavailable)
	assert.Equal(t, 1, requests)
}

func TestFetchAll_ErrorObjectInOKBody(t *testing.T) {
	src := feed.Source{Name: "hurricane", URL: "https://example.com/query", PageSize: 2000}

	t.Run("non-retryable code fails immediately", func(t *testing.T) {
		var requests int
		client := newTestClient(func(_ *http.Request) (*http.Response, error) {
			requests++
			return jsonResponse(http.StatusOK, `{"error":{"code":400,"message":"invalid where clause"}}`), nil
		}, clockwork.NewFakeClock())

		_, err := client.FetchAll(context.Background(), src)
		require.ErrorIs(t, err, feed.ErrFeedUnavailable)
		assert.Contains(t, err.Error(), "invalid where clause")
		assert.Equal(t, 1, requests)
	})

	t.Run("retryable code is retried", func(t *testing.T) {
		var requests int
		clk := clockwork.NewFakeClock()
		client := newTestClient(func(_ *http.Request) (*http.Response, error) {
			requests++
			if requests == 1 {
				return jsonResponse(http.StatusOK, `{"error":{"code":503,"message":"busy"}}`), nil
			}
			return jsonResponse(http.StatusOK, featuresBody(7)), nil
		}, clk)

		done := make(chan error, 1)
		var features []feed.Feature
		go func() {
			var err error
			features, err = client.FetchAll(context.Background(), src)
			done <- err
		}()

		clk.BlockUntil(1)
		clk.Advance(time.Second)

		require.NoError(t, <-done)
		assert.Len(t, features, 1)
		assert.Equal(t, 2, requests)
	})
}

func TestFetchAll_RepeatedPageAborts(t *testing.T) {
	src := feed.Source{Name: "wildfire", URL: "https://example.com/query", PageSize: 2}

	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		// Server ignores the offset and always serves the same full page.
		return jsonResponse(http.StatusOK, featuresBody(1, 2)), nil
	}, clockwork.NewFakeClock())

	_, err := client.FetchAll(context.Background(), src)
	require.ErrorIs(t, err, feed.ErrFeedUnavailable)
	assert.Contains(t, err.Error(), "repeated page")
}

func TestFetchAll_SafetyCeiling(t *testing.T) {
	src := feed.Source{Name: "wildfire", URL: "https://example.com/query", PageSize: 50000}

	page := 0
	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		page++
		var sb strings.Builder
		sb.WriteString(`{"features":[`)
		for i := range 50000 {
			if i > 0 {
				sb.WriteByte(',')
			}
			fmt.Fprintf(&sb, `{"attributes":{"objectid":%d}}`, page*50000+i)
		}
		sb.WriteString(`]}`)
		return jsonResponse(http.StatusOK, sb.String()), nil
	}, clockwork.NewFakeClock())

	_, err := client.FetchAll(context.Background(), src)
	require.ErrorIs(t, err, feed.ErrFeedUnavailable)
	assert.Contains(t, err.Error(), "safety ceiling")
}

func TestFetchAll_CancelledDuringBackoff(t *testing.T) {
	src := feed.Source{Name: "tornado", URL: "https://example.com/query", PageSize: 1000}

	clk := clockwork.NewFakeClock()
	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusServiceUnavailable, `unavailable`), nil
	}, clk)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := client.FetchAll(ctx, src)
		done <- err
	}()

	clk.BlockUntil(1)
	cancel()

	err := <-done
	require.ErrorIs(t, err, feed.ErrFeedUnavailable)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFetchAll_TransportErrorIsRetried(t *testing.T) {
	src := feed.Source{Name: "hurricane", URL: "https://example.com/query", PageSize: 2000}

	var requests int
	clk := clockwork.NewFakeClock()
	client := newTestClient(func(_ *http.Request) (*http.Response, error) {
		requests++
		if requests == 1 {
			return nil, fmt.Errorf("connection reset")
		}
		return jsonResponse(http.StatusOK, featuresBody(1)), nil
	}, clk)

	done := make(chan error, 1)
	var features []feed.Feature
	go func() {
		var err error
		features, err = client.FetchAll(context.Background(), src)
		done <- err
	}()

	clk.BlockUntil(1)
	clk.Advance(time.Second)

	require.NoError(t, <-done)
	assert.Len(t, features, 1)
}
