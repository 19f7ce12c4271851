package geocoding_test

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/UnknownOlympus/aeolus/internal/geocoding"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockHTTPClient struct {
	status  int
	body    string
	gotReq  *http.Request
	respErr error
}

func (m *mockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	m.gotReq = req
	if m.respErr != nil {
		return nil, m.respErr
	}
	return &http.Response{
		StatusCode: m.status,
		Body:       io.NopCloser(strings.NewReader(m.body)),
	}, nil
}

func TestNominatimResolver_Success(t *testing.T) {
	client := &mockHTTPClient{
		status: http.StatusOK,
		body:   `[{"lat":"25.7617","lon":"-80.1918"}]`,
	}
	resolver := geocoding.NewNominatimResolverWithClient(client, discardLogger())

	loc, err := resolver.Resolve(context.Background(), "Miami")
	require.NoError(t, err)

	assert.Equal(t, "Miami", loc.Name)
	assert.InDelta(t, 25.7617, loc.Latitude, 1e-9)
	assert.InDelta(t, -80.1918, loc.Longitude, 1e-9)

	require.NotNil(t, client.gotReq)
	assert.Contains(t, client.gotReq.URL.RawQuery, "q=Miami")
	assert.NotEmpty(t, client.gotReq.Header.Get("User-Agent"))
}

func TestNominatimResolver_EmptyResponse(t *testing.T) {
	client := &mockHTTPClient{status: http.StatusOK, body: `[]`}
	resolver := geocoding.NewNominatimResolverWithClient(client, discardLogger())

	_, err := resolver.Resolve(context.Background(), "Nowhereville")
	require.ErrorIs(t, err, geocoding.ErrNominatimEmptyResponse)
}

func TestNominatimResolver_BadCoordinates(t *testing.T) {
	client := &mockHTTPClient{
		status: http.StatusOK,
		body:   `[{"lat":"not-a-number","lon":"-80.19"}]`,
	}
	resolver := geocoding.NewNominatimResolverWithClient(client, discardLogger())

	_, err := resolver.Resolve(context.Background(), "Miami")
	require.ErrorIs(t, err, geocoding.ErrNominatimInvalidCoords)
}

func TestNominatimResolver_ServerError(t *testing.T) {
	client := &mockHTTPClient{status: http.StatusServiceUnavailable, body: `busy`}
	resolver := geocoding.NewNominatimResolverWithClient(client, discardLogger())

	_, err := resolver.Resolve(context.Background(), "Miami")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}
