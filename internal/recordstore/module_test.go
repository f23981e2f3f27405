package recordstore_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	apphttp "transaction_dashboard_backend/internal/http"
	"transaction_dashboard_backend/internal/http/router"
	"transaction_dashboard_backend/internal/recordstore"
	"transaction_dashboard_backend/internal/recordstore/repository"
	"transaction_dashboard_backend/platform/apperr"
	"transaction_dashboard_backend/platform/logger"
	"transaction_dashboard_backend/platform/validator"
)

type testConfig struct{}

func (testConfig) GetHTTPAddr() string          { return ":0" }
func (testConfig) GetCORSAllowAll() bool        { return true }
func (testConfig) GetCORSOrigins() []string     { return nil }
func (testConfig) GetCORSAllowCreds() bool      { return false }
func (testConfig) GetRateLimitRPS() float64     { return 0 }
func (testConfig) GetRateLimitBurst() int       { return 0 }
func (testConfig) GetDatabaseURL() string       { return "" }
func (testConfig) GetStoreHTTPAddr() string     { return ":0" }
func (testConfig) GetStoreDelay() time.Duration { return 0 }

// memStore keeps documents per collection in insertion order. Find validates
// params with the SQL builder and ignores them otherwise.
type memStore struct {
	mu   sync.Mutex
	docs map[string][]repository.Document
}

func newMemStore() *memStore {
	return &memStore{docs: make(map[string][]repository.Document)}
}

func (m *memStore) Find(_ context.Context, collection string, params url.Values) ([]json.RawMessage, error) {
	if _, err := repository.BuildFind(collection, params); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]json.RawMessage, 0, len(m.docs[collection]))
	for _, doc := range m.docs[collection] {
		raw, _ := json.Marshal(doc)
		out = append(out, raw)
	}
	return out, nil
}

func (m *memStore) index(collection, id string) int {
	for i, doc := range m.docs[collection] {
		if doc["id"] == id {
			return i
		}
	}
	return -1
}

func (m *memStore) Get(_ context.Context, collection, id string) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(collection, id)
	if i < 0 {
		return nil, apperr.NotFound("record not found")
	}
	return json.Marshal(m.docs[collection][i])
}

func (m *memStore) Insert(_ context.Context, collection string, doc repository.Document) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id, _ := doc["id"].(string)
	if m.index(collection, id) >= 0 {
		return nil, apperr.Conflict("record with this id already exists")
	}
	m.docs[collection] = append(m.docs[collection], doc)
	return json.Marshal(doc)
}

func (m *memStore) Replace(_ context.Context, collection, id string, doc repository.Document) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(collection, id)
	if i < 0 {
		return nil, apperr.NotFound("record not found")
	}
	doc["id"] = id
	m.docs[collection][i] = doc
	return json.Marshal(doc)
}

func (m *memStore) Patch(_ context.Context, collection, id string, patch repository.Document) (json.RawMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(collection, id)
	if i < 0 {
		return nil, apperr.NotFound("record not found")
	}
	for k, v := range patch {
		if k != "id" {
			m.docs[collection][i][k] = v
		}
	}
	return json.Marshal(m.docs[collection][i])
}

func (m *memStore) Delete(_ context.Context, collection, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(collection, id)
	if i < 0 {
		return apperr.NotFound("record not found")
	}
	m.docs[collection] = append(m.docs[collection][:i], m.docs[collection][i+1:]...)
	return nil
}

func newTestEngine(store *memStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := testConfig{}
	return router.New(&apphttp.App{
		Config:  cfg,
		Logger:  logger.Discard(),
		Modules: []apphttp.Module{recordstore.NewModuleWithStore(store, cfg, validator.New())},
	})
}

func do(engine *gin.Engine, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCollection_CreateGetList(t *testing.T) {
	engine := newTestEngine(newMemStore())

	rec := do(engine, http.MethodPost, "/transactions", `{"id":"txn_1","amount":12.5}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = do(engine, http.MethodGet, "/transactions/txn_1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var doc map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &doc); err != nil || doc["amount"] != 12.5 {
		t.Fatalf("unexpected document %s (%v)", rec.Body.String(), err)
	}

	rec = do(engine, http.MethodGet, "/transactions?_sort=amount&_order=desc", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var list []map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &list); err != nil || len(list) != 1 {
		t.Fatalf("expected a bare array with one document, got %s", rec.Body.String())
	}
}

func TestCollection_EmptyListIsArray(t *testing.T) {
	engine := newTestEngine(newMemStore())

	rec := do(engine, http.MethodGet, "/transactions", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestCollection_DuplicateIDConflicts(t *testing.T) {
	engine := newTestEngine(newMemStore())

	do(engine, http.MethodPost, "/transactions", `{"id":"txn_1"}`)
	rec := do(engine, http.MethodPost, "/transactions", `{"id":"txn_1"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rec.Code)
	}
}

func TestCollection_ReplacePatchDelete(t *testing.T) {
	store := newMemStore()
	engine := newTestEngine(store)
	do(engine, http.MethodPost, "/transactions", `{"id":"txn_1","amount":1,"status":"pending"}`)

	rec := do(engine, http.MethodPut, "/transactions/txn_1", `{"id":"other","amount":2}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"id":"txn_1"`) {
		t.Fatalf("expected replace to keep the path id, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(engine, http.MethodPatch, "/transactions/txn_1", `{"status":"completed"}`)
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"status":"completed"`) {
		t.Fatalf("expected patched status, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(engine, http.MethodDelete, "/transactions/txn_1", "")
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != "{}" {
		t.Fatalf("expected empty object, got %d %s", rec.Code, rec.Body.String())
	}

	rec = do(engine, http.MethodDelete, "/transactions/txn_1", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestCollection_BadRequests(t *testing.T) {
	engine := newTestEngine(newMemStore())

	tests := []struct {
		method, target, body string
	}{
		{http.MethodGet, "/transactions?_start=-1", ""},
		{http.MethodGet, "/transactions?_order=sideways&_sort=amount", ""},
		{http.MethodPost, "/transactions", `[1,2]`},
		{http.MethodPost, "/transactions", `not json`},
		{http.MethodPatch, "/transactions/txn_1", `null`},
	}

	for _, tt := range tests {
		rec := do(engine, tt.method, tt.target, tt.body)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s %s: expected 400, got %d", tt.method, tt.target, rec.Code)
		}
	}
}

func TestCollection_HealthRoutesStillResolve(t *testing.T) {
	engine := newTestEngine(newMemStore())

	rec := do(engine, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "ok") {
		t.Fatalf("expected health route, got %d %s", rec.Code, rec.Body.String())
	}
}
