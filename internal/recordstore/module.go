// Package recordstore provides a json-server compatible document store backed
// by PostgreSQL. The transactions module talks to it over HTTP.
package recordstore

import (
	"github.com/jackc/pgx/v5/pgxpool"

	apphttp "transaction_dashboard_backend/internal/http"
	"transaction_dashboard_backend/internal/recordstore/handler"
	"transaction_dashboard_backend/internal/recordstore/repository"
	"transaction_dashboard_backend/platform/config"
	"transaction_dashboard_backend/platform/httpkit"
	"transaction_dashboard_backend/platform/logger"
	"transaction_dashboard_backend/platform/validator"
)

// Module is the record store module implementing http.Module.
type Module struct {
	handler *handler.Handler
	cfg     config.StoreServerConfig
}

// NewModule creates the module on top of a database pool.
func NewModule(pool *pgxpool.Pool, cfg config.StoreServerConfig, val *validator.Validator, log *logger.Logger) *Module {
	return NewModuleWithStore(repository.New(pool, log), cfg, val)
}

// NewModuleWithStore creates the module on top of an existing store.
func NewModuleWithStore(store handler.Store, cfg config.StoreServerConfig, val *validator.Validator) *Module {
	return &Module{
		handler: handler.New(store, val),
		cfg:     cfg,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "recordstore"
}

// RegisterRoutes mounts collection routes at the engine root.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Engine.Group("/", httpkit.Delay(m.cfg.GetStoreDelay()))
	group.GET("/:collection", m.handler.List)
	group.POST("/:collection", m.handler.Create)
	group.GET("/:collection/:id", m.handler.Get)
	group.PUT("/:collection/:id", m.handler.Replace)
	group.PATCH("/:collection/:id", m.handler.Patch)
	group.DELETE("/:collection/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
