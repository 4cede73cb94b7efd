// Package locator provides the location lookup bounded context: current
// selection, device locate flow, and the recent-locations history.
package locator

import (
	"locator_backend/internal/device"
	apphttp "locator_backend/internal/http"
	"locator_backend/internal/locator/handler"
	"locator_backend/internal/locator/history"
	"locator_backend/internal/locator/service"
	"locator_backend/platform/config"
	"locator_backend/platform/logger"
	"locator_backend/platform/validator"
)

// Module is the locator bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	store   history.Store
}

// NewModule creates and initializes the locator module with all its dependencies.
func NewModule(
	store history.Store,
	places service.PlaceResolver,
	resolver service.AddressResolver,
	locator service.DeviceLocator,
	cfg config.LocateConfig,
	val *validator.Validator,
	log *logger.Logger,
) *Module {
	opts := device.DefaultOptions()
	opts.Timeout = cfg.GetLocateTimeout()

	svc := service.New(store, places, resolver, locator, opts, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		store:   store,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "locator"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Store returns the history store for readiness checks.
func (m *Module) Store() history.Store {
	return m.store
}

// RegisterRoutes mounts the locator routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/locator")
	group.GET("/current", m.handler.Current)
	group.POST("/select", m.handler.Select)
	group.POST("/locate", m.handler.Locate)
	group.GET("/history", m.handler.History)
	group.POST("/history/select", m.handler.SelectHistory)
	group.POST("/history/toggle", m.handler.ToggleHistory)
	group.DELETE("/history", m.handler.ClearHistory)
	group.POST("/clipboard", m.handler.Clipboard)
	group.GET("/map-url", m.handler.MapURL)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
