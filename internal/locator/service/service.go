// Package service implements the locator orchestrator: it owns the
// current selection, the lookup state machine, and the wiring between
// the leaf collaborators and the recent-locations store.
package service

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"time"

	"locator_backend/internal/device"
	"locator_backend/internal/locator/domain"
	"locator_backend/internal/locator/history"
	"locator_backend/internal/locator/transport"
	"locator_backend/platform/apperr"
	"locator_backend/platform/logger"
)

// State is the lookup state machine. Locating is entered only by a
// device-locate request and exited by its completion; selecting a
// history entry transitions straight to resolved.
type State string

const (
	StateIdle     State = "idle"
	StateLocating State = "locating"
	StateError    State = "error"
	StateResolved State = "resolved"
)

// copyResetInterval is how long the transient copied flag stays set.
const copyResetInterval = 2000 * time.Millisecond

const (
	msgLocateInProgress = "a location request is already in progress"
	msgLocateSuperseded = "location request superseded by a newer selection"
	msgNoSelection      = "no location selected"
	msgHistoryNotFound  = "history entry not found"
)

// AddressResolver converts coordinates into a display address. It is
// fail-soft and never errors.
type AddressResolver interface {
	ReverseGeocode(ctx context.Context, lat, lng float64) string
}

// PlaceResolver resolves a selected autocomplete suggestion into a location.
type PlaceResolver interface {
	Resolve(ctx context.Context, placeID string) (domain.Location, error)
}

// DeviceLocator resolves the caller's current position.
type DeviceLocator interface {
	Locate(ctx context.Context, opts device.Options) (device.Position, error)
}

// Service is the locator orchestrator. The original flow ran on a
// single-threaded event loop; here concurrent HTTP handlers interleave,
// so the view state is guarded by a mutex.
type Service struct {
	store    history.Store
	places   PlaceResolver
	resolver AddressResolver
	device   DeviceLocator
	opts     device.Options
	log      *logger.Logger

	copyReset time.Duration

	mu          sync.Mutex
	state       State
	current     *domain.Location
	errMsg      string
	copied      bool
	copyTimer   *time.Timer
	historyOpen bool
	locateSeq   uint64
}

// New creates the orchestrator in the idle state.
func New(store history.Store, places PlaceResolver, resolver AddressResolver, locator DeviceLocator, opts device.Options, log *logger.Logger) *Service {
	return &Service{
		store:     store,
		places:    places,
		resolver:  resolver,
		device:    locator,
		opts:      opts,
		log:       log,
		copyReset: copyResetInterval,
		state:     StateIdle,
	}
}

// Snapshot returns the current view state.
func (s *Service) Snapshot() transport.StateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// SelectPlace resolves a suggestion upstream and makes it the current
// selection. A suggestion without geometry yields an error and no
// mutation.
func (s *Service) SelectPlace(ctx context.Context, placeID string) (transport.StateResponse, error) {
	loc, err := s.places.Resolve(ctx, placeID)
	if err != nil {
		return transport.StateResponse{}, err
	}
	return s.SelectLocation(ctx, loc), nil
}

// SelectLocation makes an already-resolved location the current
// selection, records it in history, and clears any previous error. An
// outstanding device locate is superseded.
func (s *Service) SelectLocation(ctx context.Context, loc domain.Location) transport.StateResponse {
	s.store.Add(ctx, loc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locateSeq++ // discard any in-flight locate result
	s.current = &loc
	s.state = StateResolved
	s.errMsg = ""
	return s.snapshotLocked()
}

// Locate resolves the device position, reverse-geocodes it (best-effort)
// and makes the result the current selection. It is a guarded no-op
// while another locate is pending, and a completion that lost the race
// against a newer selection is discarded.
func (s *Service) Locate(ctx context.Context) (transport.StateResponse, error) {
	s.mu.Lock()
	if s.state == StateLocating {
		snap := s.snapshotLocked()
		s.mu.Unlock()
		return snap, apperr.Conflict(msgLocateInProgress)
	}
	s.state = StateLocating
	s.errMsg = ""
	s.locateSeq++
	token := s.locateSeq
	s.mu.Unlock()

	pos, err := s.device.Locate(ctx, s.opts)

	var name string
	if err == nil {
		// Fail-soft: a geocoding failure downgrades to the sentinel
		// name, the coordinate pair is still recorded.
		name = s.resolver.ReverseGeocode(ctx, pos.Lat, pos.Lng)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if token != s.locateSeq {
		return s.snapshotLocked(), apperr.Conflict(msgLocateSuperseded)
	}

	if err != nil {
		s.state = StateError
		s.errMsg = err.Error()
		s.current = nil
		return s.snapshotLocked(), err
	}

	loc, err := domain.FromDevice(name, pos.Lat, pos.Lng, pos.AccuracyMeters)
	if err != nil {
		s.state = StateError
		s.errMsg = "unable to retrieve your location"
		s.current = nil
		return s.snapshotLocked(), apperr.Wrap(apperr.KindInternal, s.errMsg, err)
	}

	s.current = &loc
	s.state = StateResolved

	// Persist while still holding the view lock so a concurrent
	// selection can not interleave between state and history updates.
	s.store.Add(ctx, loc)

	return s.snapshotLocked(), nil
}

// History returns the recent-locations list, most recent first.
func (s *Service) History(ctx context.Context) transport.HistoryResponse {
	items := s.store.List(ctx)
	return transport.HistoryResponse{Items: items, Total: len(items)}
}

// SelectHistory makes the history entry at index the current selection,
// verbatim and without any re-fetch, and hides the history panel.
func (s *Service) SelectHistory(ctx context.Context, index int) (transport.StateResponse, error) {
	items := s.store.List(ctx)
	if index < 0 || index >= len(items) {
		return transport.StateResponse{}, apperr.NotFound(msgHistoryNotFound)
	}
	item := items[index]

	s.mu.Lock()
	defer s.mu.Unlock()
	s.locateSeq++ // discard any in-flight locate result
	s.current = &item
	s.state = StateResolved
	s.errMsg = ""
	s.historyOpen = false
	return s.snapshotLocked(), nil
}

// ClearHistory empties the store and hides the history panel. The
// current selection is not affected.
func (s *Service) ClearHistory(ctx context.Context) transport.StateResponse {
	s.store.Clear(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyOpen = false
	return s.snapshotLocked()
}

// ToggleHistory flips the history panel visibility.
func (s *Service) ToggleHistory() transport.StateResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.historyOpen = !s.historyOpen
	return s.snapshotLocked()
}

// Clipboard returns the copyable "<lat>, <lng>" text for the current
// selection and flips the transient copied flag, which auto-resets.
func (s *Service) Clipboard() (transport.ClipboardResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return transport.ClipboardResponse{}, apperr.NotFound(msgNoSelection)
	}

	s.copied = true
	if s.copyTimer != nil {
		s.copyTimer.Stop()
	}
	s.copyTimer = time.AfterFunc(s.copyReset, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.copied = false
	})

	return transport.ClipboardResponse{
		Text:   s.current.Coordinates(),
		Copied: true,
	}, nil
}

// MapURL returns the external map viewer URL for the current selection.
func (s *Service) MapURL() (transport.MapURLResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return transport.MapURLResponse{}, apperr.NotFound(msgNoSelection)
	}

	pair := strconv.FormatFloat(s.current.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(s.current.Lng, 'f', -1, 64)
	query := url.Values{}
	query.Set("q", pair)
	return transport.MapURLResponse{
		URL: "https://www.google.com/maps?" + query.Encode(),
	}, nil
}

// snapshotLocked builds the view state. Caller holds the mutex.
func (s *Service) snapshotLocked() transport.StateResponse {
	var current *domain.Location
	if s.current != nil {
		copied := *s.current
		current = &copied
	}
	return transport.StateResponse{
		State:       string(s.state),
		Current:     current,
		Error:       s.errMsg,
		Copied:      s.copied,
		HistoryOpen: s.historyOpen,
	}
}
