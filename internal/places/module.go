package places

import (
	"net/http"

	apphttp "locator_backend/internal/http"
	"locator_backend/internal/locator/transport"
	"locator_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Module wires the place-search suggestion HTTP routes.
type Module struct {
	client *Client
}

// NewModule creates the places module around an initialized client.
func NewModule(client *Client) *Module {
	return &Module{client: client}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "places"
}

// Client returns the search client for use as the locator's place resolver.
func (m *Module) Client() *Client {
	return m.client
}

// RegisterRoutes mounts the suggestion route on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/places")
	group.GET("/suggest", m.suggest)
}

// suggest handles GET /api/v1/places/suggest?q=...
func (m *Module) suggest(c *gin.Context) {
	var req transport.SuggestRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "query 'q' is required (min 2 chars)", nil)
		return
	}

	results, err := m.client.Suggest(c.Request.Context(), req.Query)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, results)
}

var _ apphttp.Module = (*Module)(nil)
