// Package places wraps the place-search collaborator: country-scoped
// autocomplete suggestions plus detail resolution for a selected
// suggestion.
package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"locator_backend/internal/locator/domain"
	"locator_backend/platform/apperr"
	"locator_backend/platform/logger"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	defaultAutocompleteURL = "https://maps.googleapis.com/maps/api/place/autocomplete/json"
	defaultDetailsURL      = "https://maps.googleapis.com/maps/api/place/details/json"

	statusOK          = "OK"
	statusZeroResults = "ZERO_RESULTS"

	// msgNoDetails is the user-visible message for a suggestion whose
	// details carry no resolvable geometry.
	msgNoDetails = "No details available for this place"
)

// Suggestion is one autocomplete prediction offered to the user.
type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"placeId"`
}

// Client calls the place-search collaborator. Initialization is lazy and
// idempotent: the first call mints the shared search session and
// verifies the credential; concurrent first calls are deduplicated and
// later calls are no-ops. There is no teardown.
type Client struct {
	httpClient      *http.Client
	autocompleteURL string
	detailsURL      string
	apiKey          string
	country         string
	log             *logger.Logger

	ready        atomic.Bool
	sessionToken atomic.Value // string
	initGroup    singleflight.Group
}

// New creates a place-search client scoped to one geocoding country.
func New(apiKey, country string, log *logger.Logger) *Client {
	return &Client{
		httpClient:      &http.Client{Timeout: 10 * time.Second},
		autocompleteURL: defaultAutocompleteURL,
		detailsURL:      defaultDetailsURL,
		apiKey:          apiKey,
		country:         country,
		log:             log,
	}
}

// ensureReady performs the one-time session bootstrap. A failed attempt
// is retriable on the next call rather than latched.
func (c *Client) ensureReady(ctx context.Context) error {
	if c.ready.Load() {
		return nil
	}

	_, err, _ := c.initGroup.Do("init", func() (interface{}, error) {
		if c.ready.Load() {
			return nil, nil
		}
		if c.apiKey == "" {
			return nil, apperr.Unavailable("place search is not configured")
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c.sessionToken.Store(uuid.NewString())
		c.ready.Store(true)
		return nil, nil
	})
	return err
}

// Suggest returns country-scoped autocomplete predictions for the query.
func (c *Client) Suggest(ctx context.Context, query string) ([]Suggestion, error) {
	if err := c.ensureReady(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("input", query)
	params.Set("components", "country:"+c.country)
	params.Set("sessiontoken", c.sessionToken.Load().(string))
	params.Set("key", c.apiKey)

	var payload autocompleteResponse
	if err := c.getJSON(ctx, "autocomplete", c.autocompleteURL+"?"+params.Encode(), &payload); err != nil {
		return nil, apperr.Wrap(apperr.KindUnavailable, "place search unavailable", err)
	}

	switch payload.Status {
	case statusOK, statusZeroResults:
	default:
		c.log.UpstreamStatus("places", "autocomplete", payload.Status)
		return nil, apperr.Unavailable("place search unavailable")
	}

	suggestions := make([]Suggestion, 0, len(payload.Predictions))
	for _, p := range payload.Predictions {
		suggestions = append(suggestions, Suggestion{
			Description: p.Description,
			PlaceID:     p.PlaceID,
		})
	}
	return suggestions, nil
}

// Resolve fetches the details for a selected suggestion and returns the
// normalized location. A selection without resolvable geometry yields a
// user-visible error and no location.
func (c *Client) Resolve(ctx context.Context, placeID string) (domain.Location, error) {
	if err := c.ensureReady(ctx); err != nil {
		return domain.Location{}, err
	}

	params := url.Values{}
	params.Set("place_id", placeID)
	params.Set("fields", "name,formatted_address,geometry/location")
	params.Set("sessiontoken", c.sessionToken.Load().(string))
	params.Set("key", c.apiKey)

	var payload detailsResponse
	if err := c.getJSON(ctx, "details", c.detailsURL+"?"+params.Encode(), &payload); err != nil {
		return domain.Location{}, apperr.Wrap(apperr.KindUnavailable, "place search unavailable", err)
	}

	if payload.Status != statusOK || payload.Result == nil || payload.Result.Geometry == nil {
		c.log.UpstreamStatus("places", "details", payload.Status)
		return domain.Location{}, apperr.NotFound(msgNoDetails)
	}

	name := payload.Result.Name
	if name == "" {
		name = payload.Result.FormattedAddress
	}

	loc, err := domain.FromSearch(name, payload.Result.Geometry.Location.Lat, payload.Result.Geometry.Location.Lng)
	if err != nil {
		return domain.Location{}, apperr.Wrap(apperr.KindNotFound, msgNoDetails, err)
	}
	return loc, nil
}

func (c *Client) getJSON(ctx context.Context, operation, reqURL string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.UpstreamError("places", operation, err)
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("upstream api error: %d", resp.StatusCode)
		c.log.UpstreamError("places", operation, err)
		return err
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.UpstreamError("places", operation, err)
		return err
	}
	return nil
}

// autocompleteResponse mirrors the relevant parts of the autocomplete payload.
type autocompleteResponse struct {
	Status      string `json:"status"`
	Predictions []struct {
		Description string `json:"description"`
		PlaceID     string `json:"place_id"`
	} `json:"predictions"`
}

// detailsResponse mirrors the relevant parts of the place-details
// payload. Geometry is a pointer so a missing block is distinguishable
// from a zero coordinate.
type detailsResponse struct {
	Status string `json:"status"`
	Result *struct {
		Name             string `json:"name"`
		FormattedAddress string `json:"formatted_address"`
		Geometry         *struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
	} `json:"result"`
}
