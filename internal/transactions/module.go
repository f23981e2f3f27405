// Package transactions provides the transactions bounded context module:
// list queries against the record store, collection facets, single-record
// CRUD and batch deletion.
package transactions

import (
	apphttp "transaction_dashboard_backend/internal/http"
	"transaction_dashboard_backend/internal/transactions/handler"
	"transaction_dashboard_backend/internal/transactions/repository"
	"transaction_dashboard_backend/internal/transactions/service"
	"transaction_dashboard_backend/platform/config"
	"transaction_dashboard_backend/platform/logger"
	"transaction_dashboard_backend/platform/validator"
)

// Config combines the config interfaces the module needs.
type Config interface {
	config.RecordStoreConfig
	config.BatchConfig
}

// Module is the transactions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	store   repository.Store
}

// NewModule creates the module with an HTTP record store client built from cfg.
func NewModule(cfg Config, val *validator.Validator, log *logger.Logger) *Module {
	store := repository.NewHTTPStore(
		cfg.GetRecordStoreURL(),
		cfg.GetRecordStoreCollection(),
		cfg.GetRecordStoreTimeout(),
		log,
	)
	return NewModuleWithStore(store, cfg.GetDeleteConcurrency(), val, log)
}

// NewModuleWithStore creates the module on top of an existing store.
func NewModuleWithStore(store repository.Store, deleteConcurrency int, val *validator.Validator, log *logger.Logger) *Module {
	svc := service.New(store, val, log, deleteConcurrency)
	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		store:   store,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "transactions"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Store returns the record store, which doubles as the readiness check.
func (m *Module) Store() repository.Store {
	return m.store
}

// RegisterRoutes mounts transaction routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/transactions")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.DELETE("", m.handler.DeleteMany)
	group.GET("/metadata", m.handler.Metadata)
	group.GET("/:id", m.handler.GetByID)
	group.PUT("/:id", m.handler.Update)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
