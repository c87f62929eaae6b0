package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"foodcart-service/internal/domain"
	"foodcart-service/internal/platform/obs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL = "https://geocode-maps.yandex.ru/1.x"
	DefaultTimeout = 5 * time.Second
)

var (
	// ErrGeocodeUnavailable covers non-2xx responses, transport errors,
	// timeouts, and undecodable payloads.
	ErrGeocodeUnavailable = errors.New("geocoder unavailable")
	// ErrGeocodeNoMatch means the provider returned zero candidates.
	ErrGeocodeNoMatch = errors.New("geocoder found no match")
)

// YandexClient implements ports.Geocoder against the Yandex Geocoder HTTP API.
// It does not cache or retry; callers own both concerns.
type YandexClient struct {
	session *http.Client
	apiKey  string
	baseURL string
}

func NewYandexClient(baseURL string, apiKey string, timeout time.Duration) (*YandexClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("geocoder api key is empty")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &YandexClient{
		session: &http.Client{Timeout: timeout},
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

type geocodeResponse struct {
	Response struct {
		GeoObjectCollection struct {
			FeatureMember []struct {
				GeoObject struct {
					Point struct {
						Pos string `json:"pos"`
					} `json:"Point"`
				} `json:"GeoObject"`
			} `json:"featureMember"`
		} `json:"GeoObjectCollection"`
	} `json:"response"`
}

// FetchCoordinates returns the most relevant point for address.
// Failures are logged and counted, never returned.
func (y *YandexClient) FetchCoordinates(ctx context.Context, address string) (domain.Coordinates, bool) {
	coords, err := y.lookup(ctx, address)
	switch {
	case err == nil:
		obs.GeocodeRequests.WithLabelValues("ok").Inc()
		return coords, true
	case errors.Is(err, ErrGeocodeNoMatch):
		obs.GeocodeRequests.WithLabelValues("no_match").Inc()
		zerolog.Ctx(ctx).Info().Str("address", address).Msg("geocoder returned no match")
	default:
		obs.GeocodeRequests.WithLabelValues("unavailable").Inc()
		zerolog.Ctx(ctx).Warn().Err(err).Str("address", address).Msg("geocoder request failed")
	}
	return domain.Coordinates{}, false
}

func (y *YandexClient) lookup(ctx context.Context, address string) (_ domain.Coordinates, err error) {
	done := obs.Time(ctx, "geocoder.lookup")
	defer func() {
		// No match is a normal outcome, not a failed request.
		if errors.Is(err, ErrGeocodeNoMatch) {
			done(nil)
			return
		}
		done(&err)
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, y.baseURL, nil)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: create request: %v", ErrGeocodeUnavailable, err)
	}
	q := req.URL.Query()
	q.Set("geocode", address)
	q.Set("apikey", y.apiKey)
	q.Set("format", "json")
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := y.session.Do(req)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrGeocodeUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return domain.Coordinates{}, fmt.Errorf("%w: unexpected status %d", ErrGeocodeUnavailable, resp.StatusCode)
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: decode response: %v", ErrGeocodeUnavailable, err)
	}

	found := decoded.Response.GeoObjectCollection.FeatureMember
	if len(found) == 0 {
		return domain.Coordinates{}, fmt.Errorf("%w: %q", ErrGeocodeNoMatch, address)
	}

	coords, err := parsePos(found[0].GeoObject.Point.Pos)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("%w: %v", ErrGeocodeUnavailable, err)
	}
	return coords, nil
}

// parsePos parses the provider's "<lon> <lat>" point notation.
func parsePos(pos string) (domain.Coordinates, error) {
	parts := strings.Fields(pos)
	if len(parts) != 2 {
		return domain.Coordinates{}, fmt.Errorf("invalid point %q", pos)
	}

	lon, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse longitude %q: %w", parts[0], err)
	}
	lat, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return domain.Coordinates{}, fmt.Errorf("parse latitude %q: %w", parts[1], err)
	}

	return domain.Coordinates{Lon: lon, Lat: lat}, nil
}
