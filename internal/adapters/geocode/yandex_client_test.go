package geocode

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tverskayaResponse = `{
  "response": {
    "GeoObjectCollection": {
      "featureMember": [
        {"GeoObject": {"Point": {"pos": "37.611347 55.757961"}}},
        {"GeoObject": {"Point": {"pos": "30.0 59.0"}}}
      ]
    }
  }
}`

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("format") != "json" {
			t.Errorf("expected format=json, got %q", q.Get("format"))
		}
		if q.Get("apikey") != "test-key" {
			t.Errorf("expected apikey=test-key, got %q", q.Get("apikey"))
		}
		if q.Get("geocode") == "" {
			t.Errorf("expected geocode parameter")
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchCoordinatesUsesFirstCandidate(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, tverskayaResponse)
	client, err := NewYandexClient(srv.URL, "test-key", time.Second)
	require.NoError(t, err)

	coords, ok := client.FetchCoordinates(context.Background(), "Moscow, Tverskaya 1")
	require.True(t, ok)
	assert.InDelta(t, 37.611347, coords.Lon, 1e-9)
	assert.InDelta(t, 55.757961, coords.Lat, 1e-9)
}

func TestFetchCoordinatesEmptyFeatureList(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"response":{"GeoObjectCollection":{"featureMember":[]}}}`)
	client, err := NewYandexClient(srv.URL, "test-key", time.Second)
	require.NoError(t, err)

	_, ok := client.FetchCoordinates(context.Background(), "Moscow, Tverskaya 1")
	assert.False(t, ok)

	_, err = client.lookup(context.Background(), "Moscow, Tverskaya 1")
	assert.True(t, errors.Is(err, ErrGeocodeNoMatch), "got %v", err)
}

func TestFetchCoordinatesNoMatchIsNotAFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"response":{"GeoObjectCollection":{"featureMember":[]}}}`)
	client, err := NewYandexClient(srv.URL, "test-key", time.Second)
	require.NoError(t, err)

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	_, ok := client.FetchCoordinates(ctx, "Moscow, Tverskaya 1")
	require.False(t, ok)

	out := buf.String()
	assert.NotContains(t, out, `"level":"warn"`)
	assert.NotContains(t, out, "op failed")
	assert.Contains(t, out, "geocoder returned no match")
	assert.Contains(t, out, `"op":"geocoder.lookup"`)
}

func TestFetchCoordinatesUnavailableIsLoggedAsFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusForbidden, `{"error":"invalid key"}`)
	client, err := NewYandexClient(srv.URL, "test-key", time.Second)
	require.NoError(t, err)

	var buf bytes.Buffer
	ctx := zerolog.New(&buf).Level(zerolog.DebugLevel).WithContext(context.Background())

	_, ok := client.FetchCoordinates(ctx, "Moscow, Tverskaya 1")
	require.False(t, ok)
	assert.Contains(t, buf.String(), "op failed")
}

func TestFetchCoordinatesMissingCollection(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"response":{}}`)
	client, err := NewYandexClient(srv.URL, "test-key", time.Second)
	require.NoError(t, err)

	_, err = client.lookup(context.Background(), "nowhere")
	assert.True(t, errors.Is(err, ErrGeocodeNoMatch), "got %v", err)
}

func TestFetchCoordinatesHTTPFailure(t *testing.T) {
	srv := newTestServer(t, http.StatusForbidden, `{"error":"invalid key"}`)
	client, err := NewYandexClient(srv.URL, "test-key", time.Second)
	require.NoError(t, err)

	_, ok := client.FetchCoordinates(context.Background(), "Moscow")
	assert.False(t, ok)

	_, err = client.lookup(context.Background(), "Moscow")
	assert.True(t, errors.Is(err, ErrGeocodeUnavailable), "got %v", err)
}

func TestFetchCoordinatesTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(500 * time.Millisecond):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	client, err := NewYandexClient(srv.URL, "test-key", 50*time.Millisecond)
	require.NoError(t, err)

	_, err = client.lookup(context.Background(), "Moscow")
	assert.True(t, errors.Is(err, ErrGeocodeUnavailable), "got %v", err)
}

func TestFetchCoordinatesMalformedPoint(t *testing.T) {
	srv := newTestServer(t, http.StatusOK, `{"response":{"GeoObjectCollection":{"featureMember":[{"GeoObject":{"Point":{"pos":"37.6"}}}]}}}`)
	client, err := NewYandexClient(srv.URL, "test-key", time.Second)
	require.NoError(t, err)

	_, ok := client.FetchCoordinates(context.Background(), "Moscow")
	assert.False(t, ok)
}

func TestNewYandexClientRequiresKey(t *testing.T) {
	_, err := NewYandexClient(DefaultBaseURL, " ", time.Second)
	assert.Error(t, err)
}

func TestParsePosKeepsLonLatOrder(t *testing.T) {
	c, err := parsePos("37.5 55.7")
	require.NoError(t, err)
	assert.Equal(t, 37.5, c.Lon)
	assert.Equal(t, 55.7, c.Lat)

	_, err = parsePos("east north")
	assert.Error(t, err)
}
