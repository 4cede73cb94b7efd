package places

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	apphttp "locator_backend/internal/http"

	"github.com/gin-gonic/gin"
)

func newSuggestEngine(t *testing.T, upstream http.HandlerFunc) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	NewModule(newTestClient(t, upstream)).RegisterRoutes(&apphttp.RouterContext{
		Engine: engine,
		V1:     engine.Group("/api/v1"),
	})
	return engine
}

func TestSuggestEndpoint(t *testing.T) {
	engine := newSuggestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","predictions":[{"description":"Central Park","place_id":"p1"}]}`))
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/places/suggest?q=central", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}

	var got []Suggestion
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(got) != 1 || got[0].PlaceID != "p1" {
		t.Fatalf("unexpected suggestions: %+v", got)
	}
}

func TestSuggestEndpointRequiresQuery(t *testing.T) {
	engine := newSuggestEngine(t, func(w http.ResponseWriter, _ *http.Request) {
		t.Error("upstream must not be called for an invalid query")
	})

	for _, path := range []string{"/api/v1/places/suggest", "/api/v1/places/suggest?q=a"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", path, rec.Code)
		}
	}
}
