package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"transaction_dashboard_backend/internal/query"
	"transaction_dashboard_backend/internal/transactions/service"
	"transaction_dashboard_backend/internal/transactions/transport"
	"transaction_dashboard_backend/platform/httpkit"
	"transaction_dashboard_backend/platform/validator"
)

// Handler handles HTTP requests for transactions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid transaction ID"
)

// New creates a new transactions handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List returns one page of transactions.
// GET /api/v1/transactions?sort=&filter=&search=&page=&size=
func (h *Handler) List(c *gin.Context) {
	q, err := query.Parse(query.FromValues(c.Request.URL.Query()))
	if httpkit.HandleError(c, err) {
		return
	}

	result, err := h.svc.List(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Metadata returns the facets of the whole collection.
// GET /api/v1/transactions/metadata
func (h *Handler) Metadata(c *gin.Context) {
	result, err := h.svc.Metadata(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// GetByID returns a single transaction.
// GET /api/v1/transactions/:id
func (h *Handler) GetByID(c *gin.Context) {
	id, ok := h.mustGetID(c)
	if !ok {
		return
	}

	result, err := h.svc.GetByID(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create stores a new transaction.
// POST /api/v1/transactions
func (h *Handler) Create(c *gin.Context) {
	var req transport.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.Create(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// Update changes fields of a transaction.
// PUT /api/v1/transactions/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := h.mustGetID(c)
	if !ok {
		return
	}

	var req transport.UpdateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.Update(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// DeleteMany deletes a batch of transactions.
// DELETE /api/v1/transactions
func (h *Handler) DeleteMany(c *gin.Context) {
	var req transport.DeleteTransactionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, validator.FieldErrors(err))
		return
	}

	result, err := h.svc.DeleteMany(c.Request.Context(), req.IDs)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

func (h *Handler) mustGetID(c *gin.Context) (string, bool) {
	id := c.Param("id")
	if err := h.val.Var(id, "required,max=64"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return "", false
	}
	return id, true
}
