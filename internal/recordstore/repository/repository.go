// Package repository stores JSON documents per collection in PostgreSQL.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"transaction_dashboard_backend/platform/apperr"
	"transaction_dashboard_backend/platform/logger"
)

const (
	idField = "id"

	recordNotFoundMessage = "record not found"
	recordExistsMessage   = "record with this id already exists"
	invalidIDMessage      = "id must be a non-empty string"
)

// Document is a JSON object stored in a collection.
type Document = map[string]any

// Repo provides collection-scoped document access.
type Repo struct {
	pool *pgxpool.Pool
	log  *logger.Logger
}

// New creates a new record repository.
func New(pool *pgxpool.Pool, log *logger.Logger) *Repo {
	return &Repo{pool: pool, log: log}
}

// Find returns the documents of collection matching params, in query order.
func (r *Repo) Find(ctx context.Context, collection string, params url.Values) ([]json.RawMessage, error) {
	q, err := BuildFind(collection, params)
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		r.log.DatabaseError("find records", err)
		return nil, fmt.Errorf("find records: %w", err)
	}
	defer rows.Close()

	out := make([]json.RawMessage, 0)
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		out = append(out, data)
	}
	if err := rows.Err(); err != nil {
		r.log.DatabaseError("find records", err)
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return out, nil
}

// Get retrieves one document by id.
func (r *Repo) Get(ctx context.Context, collection, id string) (json.RawMessage, error) {
	var data []byte
	err := r.pool.QueryRow(ctx,
		`SELECT data FROM records WHERE collection = $1 AND id = $2`,
		collection, id,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(recordNotFoundMessage)
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return data, nil
}

// Insert stores doc, assigning an id when it has none.
func (r *Repo) Insert(ctx context.Context, collection string, doc Document) (json.RawMessage, error) {
	id, payload, err := prepare(doc)
	if err != nil {
		return nil, err
	}

	var data []byte
	err = r.pool.QueryRow(ctx, `
		INSERT INTO records (collection, id, data)
		VALUES ($1, $2, $3::jsonb)
		ON CONFLICT (collection, id) DO NOTHING
		RETURNING data`,
		collection, id, payload,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.Conflict(recordExistsMessage)
		}
		r.log.DatabaseError("insert record", err)
		return nil, fmt.Errorf("insert record: %w", err)
	}
	return data, nil
}

// InsertMany stores docs in one batch, skipping ids that already exist.
// It returns how many documents were written.
func (r *Repo) InsertMany(ctx context.Context, collection string, docs []Document) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	batch := &pgx.Batch{}
	for _, doc := range docs {
		id, payload, err := prepare(doc)
		if err != nil {
			return 0, err
		}
		batch.Queue(`
			INSERT INTO records (collection, id, data)
			VALUES ($1, $2, $3::jsonb)
			ON CONFLICT (collection, id) DO NOTHING`,
			collection, id, payload)
	}

	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()

	written := 0
	for range docs {
		tag, err := results.Exec()
		if err != nil {
			r.log.DatabaseError("insert records", err)
			return written, fmt.Errorf("insert records: %w", err)
		}
		written += int(tag.RowsAffected())
	}
	return written, nil
}

// Count returns the number of documents in collection.
func (r *Repo) Count(ctx context.Context, collection string) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM records WHERE collection = $1`, collection).Scan(&n); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Replace overwrites the document stored under id. The stored id always wins
// over any id in doc.
func (r *Repo) Replace(ctx context.Context, collection, id string, doc Document) (json.RawMessage, error) {
	doc[idField] = id
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, apperr.BadRequest("document is not valid JSON")
	}

	var data []byte
	err = r.pool.QueryRow(ctx, `
		UPDATE records SET data = $3::jsonb
		WHERE collection = $1 AND id = $2
		RETURNING data`,
		collection, id, payload,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(recordNotFoundMessage)
		}
		r.log.DatabaseError("replace record", err)
		return nil, fmt.Errorf("replace record: %w", err)
	}
	return data, nil
}

// Patch shallow-merges patch into the document stored under id.
func (r *Repo) Patch(ctx context.Context, collection, id string, patch Document) (json.RawMessage, error) {
	delete(patch, idField)
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, apperr.BadRequest("document is not valid JSON")
	}

	var data []byte
	err = r.pool.QueryRow(ctx, `
		UPDATE records SET data = data || $3::jsonb
		WHERE collection = $1 AND id = $2
		RETURNING data`,
		collection, id, payload,
	).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound(recordNotFoundMessage)
		}
		r.log.DatabaseError("patch record", err)
		return nil, fmt.Errorf("patch record: %w", err)
	}
	return data, nil
}

// Delete removes the document stored under id.
func (r *Repo) Delete(ctx context.Context, collection, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM records WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		r.log.DatabaseError("delete record", err)
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound(recordNotFoundMessage)
	}
	return nil
}

// prepare resolves the id of doc and encodes it.
func prepare(doc Document) (string, []byte, error) {
	id, err := documentID(doc)
	if err != nil {
		return "", nil, err
	}
	doc[idField] = id

	payload, err := json.Marshal(doc)
	if err != nil {
		return "", nil, apperr.BadRequest("document is not valid JSON")
	}
	return id, payload, nil
}

func documentID(doc Document) (string, error) {
	raw, ok := doc[idField]
	if !ok || raw == nil {
		return uuid.NewString(), nil
	}
	id, ok := raw.(string)
	if !ok || id == "" {
		return "", apperr.BadRequest(invalidIDMessage)
	}
	return id, nil
}
