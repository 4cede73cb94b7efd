// Package handler exposes the locator HTTP endpoints.
package handler

import (
	"net/http"

	"locator_backend/internal/locator/domain"
	"locator_backend/internal/locator/service"
	"locator_backend/internal/locator/transport"
	"locator_backend/platform/httpkit"
	"locator_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// Handler handles HTTP requests for the locator module.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new locator handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// Current returns the full view state.
// GET /api/v1/locator/current
func (h *Handler) Current(c *gin.Context) {
	httpkit.OK(c, h.svc.Snapshot())
}

// Select makes a searched place the current selection.
// POST /api/v1/locator/select
func (h *Handler) Select(c *gin.Context) {
	var req transport.SelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if req.PlaceID != "" {
		result, err := h.svc.SelectPlace(c.Request.Context(), req.PlaceID)
		if httpkit.HandleError(c, err) {
			return
		}
		httpkit.OK(c, result)
		return
	}

	if req.Name == "" || req.Lat == nil || req.Lng == nil {
		httpkit.Error(c, http.StatusBadRequest, "either placeId or name, lat and lng are required", nil)
		return
	}

	loc, err := domain.FromSearch(req.Name, *req.Lat, *req.Lng)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, err.Error(), nil)
		return
	}

	httpkit.OK(c, h.svc.SelectLocation(c.Request.Context(), loc))
}

// Locate resolves the device position and makes it the current selection.
// POST /api/v1/locator/locate
func (h *Handler) Locate(c *gin.Context) {
	result, err := h.svc.Locate(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// History returns the recent-locations list.
// GET /api/v1/locator/history
func (h *Handler) History(c *gin.Context) {
	httpkit.OK(c, h.svc.History(c.Request.Context()))
}

// SelectHistory makes a history entry the current selection.
// POST /api/v1/locator/history/select
func (h *Handler) SelectHistory(c *gin.Context) {
	var req transport.HistorySelectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.SelectHistory(c.Request.Context(), req.Index)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ClearHistory empties the recent-locations store.
// DELETE /api/v1/locator/history
func (h *Handler) ClearHistory(c *gin.Context) {
	httpkit.OK(c, h.svc.ClearHistory(c.Request.Context()))
}

// ToggleHistory flips the history panel visibility.
// POST /api/v1/locator/history/toggle
func (h *Handler) ToggleHistory(c *gin.Context) {
	httpkit.OK(c, h.svc.ToggleHistory())
}

// Clipboard returns the copyable coordinate text for the current selection.
// POST /api/v1/locator/clipboard
func (h *Handler) Clipboard(c *gin.Context) {
	result, err := h.svc.Clipboard()
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// MapURL returns the external map viewer URL for the current selection.
// GET /api/v1/locator/map-url
func (h *Handler) MapURL(c *gin.Context) {
	result, err := h.svc.MapURL()
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
