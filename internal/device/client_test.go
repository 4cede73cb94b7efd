package device

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"locator_backend/platform/apperr"
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

func TestLocateReturnsPosition(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		if body["considerIp"] != true {
			t.Errorf("expected considerIp=true, got %v", body["considerIp"])
		}
		_, _ = w.Write([]byte(`{"location":{"lat":52.370216,"lng":4.895168},"accuracy":30.5}`))
	})

	pos, err := c.Locate(context.Background(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pos.Lat != 52.370216 || pos.Lng != 4.895168 {
		t.Fatalf("unexpected position: %+v", pos)
	}
	if pos.AccuracyMeters != 30.5 {
		t.Fatalf("unexpected accuracy: %v", pos.AccuracyMeters)
	}
}

func TestLocateCarriesUpstreamReason(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"message":"User denied geolocation prompt"}}`))
	})

	_, err := c.Locate(context.Background(), DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}
	// The reason text is surfaced verbatim to the caller.
	if got := err.Error(); got != "User denied geolocation prompt" {
		t.Fatalf("expected upstream reason, got %q", got)
	}
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable kind, got %v", apperr.GetKind(err))
	}
}

func TestLocateWithoutReasonUsesStatusCode(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{}`))
	})

	_, err := c.Locate(context.Background(), DefaultOptions())
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "upstream api error: 502" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestLocateWithoutCredential(t *testing.T) {
	c := New("", logger.New("test"))

	_, err := c.Locate(context.Background(), DefaultOptions())
	if err == nil {
		t.Fatal("expected error without a credential")
	}
	if got := err.Error(); got != msgNotSupported {
		t.Fatalf("expected %q, got %q", msgNotSupported, got)
	}
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable kind, got %v", apperr.GetKind(err))
	}
}

func TestLocateTimesOut(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		_, _ = w.Write([]byte(`{"location":{"lat":1,"lng":2},"accuracy":10}`))
	})

	opts := DefaultOptions()
	opts.Timeout = 20 * time.Millisecond

	_, err := c.Locate(context.Background(), opts)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if got := err.Error(); got != "location request timed out" {
		t.Fatalf("expected timeout message, got %q", got)
	}
}
