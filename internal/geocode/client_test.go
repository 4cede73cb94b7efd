package geocode

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"locator_backend/internal/locator/domain"
	"locator_backend/platform/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := New("test-key", logger.New("test"))
	c.baseURL = srv.URL
	return c
}

func TestReverseGeocodeReturnsFormattedAddress(t *testing.T) {
	var gotQuery url.Values
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"OK","results":[{"formatted_address":"1600 Amphitheatre Pkwy, Mountain View, CA"}]}`))
	})

	got := c.ReverseGeocode(context.Background(), 37.422, -122.084)
	if got != "1600 Amphitheatre Pkwy, Mountain View, CA" {
		t.Fatalf("expected formatted address, got %q", got)
	}

	if gotQuery.Get("latlng") != "37.422000,-122.084000" {
		t.Fatalf("unexpected latlng param: %q", gotQuery.Get("latlng"))
	}
	if gotQuery.Get("key") != "test-key" {
		t.Fatalf("expected credential in query, got %q", gotQuery.Get("key"))
	}
}

func TestReverseGeocodeDegradesToSentinel(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"denied status", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"REQUEST_DENIED","results":[]}`))
		}},
		{"zero results", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"status":"ZERO_RESULTS","results":[]}`))
		}},
		{"server error", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"malformed body", func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{not json`))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := newTestClient(t, tc.handler)
			if got := c.ReverseGeocode(context.Background(), 1, 2); got != domain.UnknownAddress {
				t.Fatalf("expected %q, got %q", domain.UnknownAddress, got)
			}
		})
	}
}

func TestReverseGeocodeWithoutCredentialSkipsUpstream(t *testing.T) {
	called := false
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		called = true
	}))
	t.Cleanup(srv.Close)

	c := New("", logger.New("test"))
	c.baseURL = srv.URL

	if got := c.ReverseGeocode(context.Background(), 1, 2); got != domain.UnknownAddress {
		t.Fatalf("expected %q, got %q", domain.UnknownAddress, got)
	}
	if called {
		t.Fatal("expected no upstream call without a credential")
	}
}

func TestReverseGeocodeUnreachableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused

	c := New("test-key", logger.New("test"))
	c.baseURL = srv.URL

	if got := c.ReverseGeocode(context.Background(), 1, 2); got != domain.UnknownAddress {
		t.Fatalf("expected %q, got %q", domain.UnknownAddress, got)
	}
}
