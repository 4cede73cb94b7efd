// Package transport defines the request and response shapes of the
// locator HTTP API.
package transport

import "locator_backend/internal/locator/domain"

// SelectRequest selects a place as the current location. Either PlaceID
// is set (the suggestion is resolved upstream) or the already-resolved
// Name/Lat/Lng triple is supplied directly.
type SelectRequest struct {
	PlaceID string   `json:"placeId,omitempty"`
	Name    string   `json:"name,omitempty" validate:"omitempty,min=1,max=300"`
	Lat     *float64 `json:"lat,omitempty" validate:"omitempty,latitude_range"`
	Lng     *float64 `json:"lng,omitempty" validate:"omitempty,longitude_range"`
}

// HistorySelectRequest picks a history entry by its position in the list.
type HistorySelectRequest struct {
	Index int `json:"index" validate:"min=0"`
}

// SuggestRequest carries the autocomplete query string.
type SuggestRequest struct {
	Query string `form:"q" binding:"required,min=2"`
}

// StateResponse is the full view state: lookup state, current selection,
// last error, the transient copied flag, and history panel visibility.
type StateResponse struct {
	State       string           `json:"state"`
	Current     *domain.Location `json:"current,omitempty"`
	Error       string           `json:"error,omitempty"`
	Copied      bool             `json:"copied"`
	HistoryOpen bool             `json:"historyOpen"`
}

// HistoryResponse wraps the recent-locations list, most recent first.
type HistoryResponse struct {
	Items []domain.Location `json:"items"`
	Total int               `json:"total"`
}

// ClipboardResponse carries the copyable coordinate text.
type ClipboardResponse struct {
	Text   string `json:"text"`
	Copied bool   `json:"copied"`
}

// MapURLResponse carries the external map viewer URL for the current selection.
type MapURLResponse struct {
	URL string `json:"url"`
}
