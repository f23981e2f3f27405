// Package handler serves record store collections over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"transaction_dashboard_backend/internal/recordstore/repository"
	"transaction_dashboard_backend/platform/httpkit"
	"transaction_dashboard_backend/platform/validator"
)

const (
	msgInvalidRequest    = "invalid request"
	msgInvalidCollection = "invalid collection"
	msgInvalidID         = "invalid record ID"

	contentTypeJSON = "application/json; charset=utf-8"
)

// Store is the document storage the handler serves.
type Store interface {
	Find(ctx context.Context, collection string, params url.Values) ([]json.RawMessage, error)
	Get(ctx context.Context, collection, id string) (json.RawMessage, error)
	Insert(ctx context.Context, collection string, doc repository.Document) (json.RawMessage, error)
	Replace(ctx context.Context, collection, id string, doc repository.Document) (json.RawMessage, error)
	Patch(ctx context.Context, collection, id string, patch repository.Document) (json.RawMessage, error)
	Delete(ctx context.Context, collection, id string) error
}

// Handler handles HTTP requests for record collections.
type Handler struct {
	store Store
	val   *validator.Validator
}

// New creates a new record store handler.
func New(store Store, val *validator.Validator) *Handler {
	return &Handler{store: store, val: val}
}

// List returns the matching documents as a bare JSON array.
// GET /:collection
func (h *Handler) List(c *gin.Context) {
	collection, ok := h.mustGetCollection(c)
	if !ok {
		return
	}

	docs, err := h.store.Find(c.Request.Context(), collection, c.Request.URL.Query())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, docs)
}

// Get returns a single document.
// GET /:collection/:id
func (h *Handler) Get(c *gin.Context) {
	collection, id, ok := h.mustGetRecordPath(c)
	if !ok {
		return
	}

	doc, err := h.store.Get(c.Request.Context(), collection, id)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, doc)
}

// Create stores a document.
// POST /:collection
func (h *Handler) Create(c *gin.Context) {
	collection, ok := h.mustGetCollection(c)
	if !ok {
		return
	}
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	stored, err := h.store.Insert(c.Request.Context(), collection, doc)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusCreated, contentTypeJSON, stored)
}

// Replace overwrites a document.
// PUT /:collection/:id
func (h *Handler) Replace(c *gin.Context) {
	collection, id, ok := h.mustGetRecordPath(c)
	if !ok {
		return
	}
	doc, ok := bindDocument(c)
	if !ok {
		return
	}

	stored, err := h.store.Replace(c.Request.Context(), collection, id, doc)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, stored)
}

// Patch merges top-level fields into a document.
// PATCH /:collection/:id
func (h *Handler) Patch(c *gin.Context) {
	collection, id, ok := h.mustGetRecordPath(c)
	if !ok {
		return
	}
	patch, ok := bindDocument(c)
	if !ok {
		return
	}

	stored, err := h.store.Patch(c.Request.Context(), collection, id, patch)
	if httpkit.HandleError(c, err) {
		return
	}
	c.Data(http.StatusOK, contentTypeJSON, stored)
}

// Delete removes a document and answers with an empty object.
// DELETE /:collection/:id
func (h *Handler) Delete(c *gin.Context) {
	collection, id, ok := h.mustGetRecordPath(c)
	if !ok {
		return
	}

	if httpkit.HandleError(c, h.store.Delete(c.Request.Context(), collection, id)) {
		return
	}
	httpkit.OK(c, gin.H{})
}

func bindDocument(c *gin.Context) (repository.Document, bool) {
	var doc repository.Document
	if err := c.ShouldBindJSON(&doc); err != nil || doc == nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return nil, false
	}
	return doc, true
}

func (h *Handler) mustGetCollection(c *gin.Context) (string, bool) {
	collection := c.Param("collection")
	if err := h.val.Var(collection, "required,max=64,printascii"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidCollection, nil)
		return "", false
	}
	return collection, true
}

func (h *Handler) mustGetRecordPath(c *gin.Context) (string, string, bool) {
	collection, ok := h.mustGetCollection(c)
	if !ok {
		return "", "", false
	}
	id := c.Param("id")
	if err := h.val.Var(id, "required,max=64"); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return "", "", false
	}
	return collection, id, true
}
