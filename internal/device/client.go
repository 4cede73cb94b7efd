// Package device wraps the device-geolocation collaborator: it resolves
// the caller's current position with an accuracy radius in meters.
package device

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"locator_backend/platform/apperr"
	"locator_backend/platform/logger"
)

const defaultBaseURL = "https://www.googleapis.com/geolocation/v1/geolocate"

// msgNotSupported is returned immediately when no credential is
// configured; no upstream call is attempted.
const msgNotSupported = "Geolocation is not supported in this environment"

// Position is a resolved device fix.
type Position struct {
	Lat            float64
	Lng            float64
	AccuracyMeters float64
}

// Options mirrors the geolocation request knobs. MaximumAge is accepted
// for contract completeness but only zero is supported: the client holds
// no cache, so every call produces a fresh fix.
type Options struct {
	HighAccuracy bool
	Timeout      time.Duration
	MaximumAge   time.Duration
}

// DefaultOptions is the fixed configuration used by the locator flow.
func DefaultOptions() Options {
	return Options{
		HighAccuracy: true,
		Timeout:      10 * time.Second,
		MaximumAge:   0,
	}
}

// Client calls the device-geolocation HTTP collaborator.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	log        *logger.Logger
}

// New creates a geolocation client keyed by the mapping API credential.
func New(apiKey string, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		log:        log,
	}
}

// Locate resolves the current position. On failure it returns an error
// whose message carries the collaborator's reason text; the caller is
// responsible for surfacing it and leaving history untouched.
func (c *Client) Locate(ctx context.Context, opts Options) (Position, error) {
	if c.apiKey == "" {
		return Position{}, apperr.Unavailable(msgNotSupported)
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	body, err := json.Marshal(map[string]interface{}{
		"considerIp": true,
	})
	if err != nil {
		return Position{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"?key="+c.apiKey, bytes.NewReader(body))
	if err != nil {
		return Position{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("geolocation", "locate", err)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return Position{}, apperr.Unavailable("location request timed out")
		}
		return Position{}, apperr.Wrap(apperr.KindUnavailable, "unable to retrieve your location", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	var payload geolocateResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.UpstreamError("geolocation", "locate", err)
		return Position{}, apperr.Wrap(apperr.KindUnavailable, "unable to retrieve your location", err)
	}

	if resp.StatusCode != http.StatusOK || payload.Location == nil {
		reason := payload.Error.Message
		if reason == "" {
			reason = fmt.Sprintf("upstream api error: %d", resp.StatusCode)
		}
		c.log.UpstreamError("geolocation", "locate", errors.New(reason))
		return Position{}, apperr.Unavailable(reason)
	}

	return Position{
		Lat:            payload.Location.Lat,
		Lng:            payload.Location.Lng,
		AccuracyMeters: payload.Accuracy,
	}, nil
}

// geolocateResponse mirrors both the success and the error shapes of the
// geolocation payload.
type geolocateResponse struct {
	Location *struct {
		Lat float64 `json:"lat"`
		Lng float64 `json:"lng"`
	} `json:"location"`
	Accuracy float64 `json:"accuracy"`
	Error    struct {
		Message string `json:"message"`
	} `json:"error"`
}
