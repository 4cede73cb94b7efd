// Package geocode provides the reverse-geocoding collaborator client.
//
// Resolution is deliberately fail-soft: any upstream problem degrades to
// the sentinel address instead of an error, so a valid coordinate pair
// always flows through to the caller.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"locator_backend/internal/locator/domain"
	"locator_backend/platform/logger"

	"golang.org/x/time/rate"
)

const defaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

// statusOK is the only collaborator status treated as success; every
// other status is handled identically to a network failure.
const statusOK = "OK"

// Client calls the reverse-geocoding HTTP collaborator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	log        *logger.Logger
}

// New creates a reverse-geocoding client keyed by the mapping API credential.
func New(apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		limiter:    rate.NewLimiter(rate.Limit(10), 10),
		log:        log,
	}
}

// ReverseGeocode returns a human-readable address for the coordinate
// pair, or the "Unknown location" sentinel on any failure. It never
// returns an error.
func (c *Client) ReverseGeocode(ctx context.Context, lat, lng float64) string {
	if c.apiKey == "" {
		c.log.UpstreamStatus("geocoding", "reverse", "NO_CREDENTIAL")
		return domain.UnknownAddress
	}

	if err := c.limiter.Wait(ctx); err != nil {
		c.log.UpstreamError("geocoding", "reverse", err)
		return domain.UnknownAddress
	}

	params := url.Values{}
	params.Set("latlng", formatCoord(lat)+","+formatCoord(lng))
	params.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		c.log.UpstreamError("geocoding", "reverse", err)
		return domain.UnknownAddress
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("geocoding", "reverse", err)
		return domain.UnknownAddress
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		c.log.UpstreamError("geocoding", "reverse", fmt.Errorf("upstream api error: %d", resp.StatusCode))
		return domain.UnknownAddress
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.UpstreamError("geocoding", "reverse", err)
		return domain.UnknownAddress
	}

	if payload.Status != statusOK || len(payload.Results) == 0 {
		c.log.UpstreamStatus("geocoding", "reverse", payload.Status)
		return domain.UnknownAddress
	}

	return payload.Results[0].FormattedAddress
}

// geocodeResponse mirrors the relevant parts of the geocoding payload.
type geocodeResponse struct {
	Status  string `json:"status"`
	Results []struct {
		FormattedAddress string `json:"formatted_address"`
	} `json:"results"`
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}
