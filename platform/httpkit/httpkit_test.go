package httpkit

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"transaction_dashboard_backend/platform/apperr"
	"transaction_dashboard_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHandleErrorMapsKinds(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"validation", apperr.Validation("bad query"), http.StatusBadRequest, "Validation"},
		{"upstream", apperr.Upstream("count fetch failed", errors.New("dial tcp")), http.StatusBadGateway, "UpstreamUnavailable"},
		{"shape", apperr.InvalidShape("not a sequence", nil), http.StatusBadGateway, "InvalidCollectionShape"},
		{"partial", apperr.PartialFailure("some deletions failed"), http.StatusBadRequest, "PartialFailure"},
		{"plain", errors.New("boom"), http.StatusInternalServerError, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			engine := gin.New()
			engine.GET("/", func(c *gin.Context) { HandleError(c, tc.err) })
			rec := serve(engine, "/")

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Kind != tc.kind {
				t.Fatalf("expected kind %q, got %q", tc.kind, body.Kind)
			}
		})
	}
}

func TestRequestIDIsEchoed(t *testing.T) {
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(ContextRequestIDKey))
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	engine.ServeHTTP(rec, req)

	if rec.Header().Get(HeaderRequestID) != "req-123" || rec.Body.String() != "req-123" {
		t.Fatalf("expected request id to be echoed, got header %q body %q", rec.Header().Get(HeaderRequestID), rec.Body.String())
	}

	rec = serve(engine, "/")
	if rec.Header().Get(HeaderRequestID) == "" {
		t.Fatal("expected a generated request id")
	}
}

func TestRateLimitRejectsBurstOverflow(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.001), 1, logger.Discard())
	engine := gin.New()
	engine.Use(limiter.RateLimit())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	if rec := serve(engine, "/"); rec.Code != http.StatusNoContent {
		t.Fatalf("expected first request to pass, got %d", rec.Code)
	}
	if rec := serve(engine, "/"); rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected second request to be limited, got %d", rec.Code)
	}
}
