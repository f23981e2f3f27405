package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"transaction_dashboard_backend/internal/transactions/transport"
	"transaction_dashboard_backend/platform/apperr"
	"transaction_dashboard_backend/platform/logger"
	"transaction_dashboard_backend/platform/metrics"
)

// maxPayloadBytes bounds a single store response.
const maxPayloadBytes = 64 << 20

// HTTPStore is the record store client speaking the store's REST protocol:
// GET/POST on /{collection} and GET/PUT/DELETE on /{collection}/{id}.
type HTTPStore struct {
	httpClient *http.Client
	baseURL    string
	collection string
	maxPayload int64
	log        *logger.Logger
}

// NewHTTPStore creates a store client for collection at baseURL.
func NewHTTPStore(baseURL, collection string, timeout time.Duration, log *logger.Logger) *HTTPStore {
	return &HTTPStore{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    baseURL,
		collection: collection,
		maxPayload: maxPayloadBytes,
		log:        log,
	}
}

// Find fetches every record matching params.
func (s *HTTPStore) Find(ctx context.Context, params url.Values) ([]transport.Transaction, error) {
	reqURL := s.collectionURL()
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	body, err := s.do(ctx, "find", http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	records, err := decodeCollection(body)
	if err != nil {
		s.log.UpstreamError("find", http.StatusOK, err)
		return nil, err
	}
	return records, nil
}

// FindByID looks a record up through the collection filter, so a missing
// id is an empty result rather than a store error.
func (s *HTTPStore) FindByID(ctx context.Context, id string) (transport.Transaction, error) {
	records, err := s.Find(ctx, url.Values{"id": {id}})
	if err != nil {
		return transport.Transaction{}, err
	}
	if len(records) == 0 {
		return transport.Transaction{}, apperr.NotFound(fmt.Sprintf("transaction %s not found", id))
	}
	return records[0], nil
}

// Create stores tx and returns the stored record.
func (s *HTTPStore) Create(ctx context.Context, tx transport.Transaction) (transport.Transaction, error) {
	return s.write(ctx, "create", http.MethodPost, s.collectionURL(), tx)
}

// Replace overwrites the record with tx.ID.
func (s *HTTPStore) Replace(ctx context.Context, tx transport.Transaction) (transport.Transaction, error) {
	return s.write(ctx, "replace", http.MethodPut, s.recordURL(tx.ID), tx)
}

// Delete removes the record with id. A missing record is a store failure.
func (s *HTTPStore) Delete(ctx context.Context, id string) error {
	_, err := s.do(ctx, "delete", http.MethodDelete, s.recordURL(id), nil)
	return err
}

// Ping checks that the store answers on the collection.
func (s *HTTPStore) Ping(ctx context.Context) error {
	_, err := s.do(ctx, "ping", http.MethodGet, s.collectionURL()+"?"+ParamLimit+"=1", nil)
	return err
}

func (s *HTTPStore) collectionURL() string {
	return fmt.Sprintf("%s/%s", s.baseURL, url.PathEscape(s.collection))
}

func (s *HTTPStore) recordURL(id string) string {
	return fmt.Sprintf("%s/%s", s.collectionURL(), url.PathEscape(id))
}

func (s *HTTPStore) write(ctx context.Context, op, method, reqURL string, tx transport.Transaction) (transport.Transaction, error) {
	payload, err := json.Marshal(tx)
	if err != nil {
		return transport.Transaction{}, fmt.Errorf("encode %s payload: %w", op, err)
	}

	body, err := s.do(ctx, op, method, reqURL, payload)
	if err != nil {
		return transport.Transaction{}, err
	}

	var stored transport.Transaction
	if err := json.Unmarshal(body, &stored); err != nil {
		s.log.UpstreamError(op, http.StatusOK, err)
		return transport.Transaction{}, apperr.InvalidShape("record store returned an invalid record", err).WithOp(op)
	}
	return stored, nil
}

// do issues one store call and returns the body of a 2xx answer. Transport
// failures and any other status are upstream errors.
func (s *HTTPStore) do(ctx context.Context, op, method, reqURL string, payload []byte) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		metrics.StoreCallsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		s.log.UpstreamError(op, 0, err)
		return nil, apperr.Upstream("record store unreachable", err).WithOp(op)
	}
	defer resp.Body.Close()

	// One byte past the limit tells an oversized body from one that fits.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxPayload+1))
	if err != nil {
		metrics.StoreCallsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		s.log.UpstreamError(op, resp.StatusCode, err)
		return nil, apperr.Upstream("record store response interrupted", err).WithOp(op)
	}
	if int64(len(body)) > s.maxPayload {
		sizeErr := fmt.Errorf("response exceeds %d bytes", s.maxPayload)
		metrics.StoreCallsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		s.log.UpstreamError(op, resp.StatusCode, sizeErr)
		return nil, apperr.Upstream("record store payload too large", sizeErr).WithOp(op)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := fmt.Errorf("status %d", resp.StatusCode)
		metrics.StoreCallsTotal.WithLabelValues(op, metrics.OutcomeError).Inc()
		s.log.UpstreamError(op, resp.StatusCode, statusErr)
		return nil, apperr.Upstream("record store answered with an error", statusErr).WithOp(op)
	}

	metrics.StoreCallsTotal.WithLabelValues(op, metrics.OutcomeOK).Inc()
	return body, nil
}

// decodeCollection requires a JSON array of record objects.
func decodeCollection(body []byte) ([]transport.Transaction, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, apperr.InvalidShape("record store did not return a record collection", nil).WithOp("find")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return nil, apperr.InvalidShape("record store did not return a record collection", err).WithOp("find")
	}

	records := make([]transport.Transaction, 0, len(raw))
	for i, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) == 0 || item[0] != '{' {
			return nil, apperr.InvalidShape(fmt.Sprintf("collection element %d is not a record", i), nil).WithOp("find")
		}
		var tx transport.Transaction
		if err := json.Unmarshal(item, &tx); err != nil {
			return nil, apperr.InvalidShape(fmt.Sprintf("collection element %d is not a record", i), err).WithOp("find")
		}
		records = append(records, tx)
	}
	return records, nil
}
