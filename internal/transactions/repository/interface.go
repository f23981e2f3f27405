// Package repository provides access to the record store holding the
// transactions collection, and the translation of list queries into the
// store's native parameters.
package repository

import (
	"context"
	"net/url"

	"transaction_dashboard_backend/internal/transactions/transport"
)

// Store is the record store collaborator. The store has no count
// primitive: Find always returns every record matching params, so a total
// is obtained by finding without pagination.
type Store interface {
	// Find returns the records matching native params.
	Find(ctx context.Context, params url.Values) ([]transport.Transaction, error)
	// FindByID returns the record with id, or a not found error.
	FindByID(ctx context.Context, id string) (transport.Transaction, error)
	Create(ctx context.Context, tx transport.Transaction) (transport.Transaction, error)
	// Replace overwrites the record with tx.ID.
	Replace(ctx context.Context, tx transport.Transaction) (transport.Transaction, error)
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}
