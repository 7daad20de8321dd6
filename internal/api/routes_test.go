package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/arkandaru/simdoc/internal/config"
)

func testRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{
		JWTSecret:     testSecret,
		RateLimitRPS:  50,
		Aggregation:   "coverage",
		ThresholdGate: config.GateCandidates,
	}
	return SetupRoutes(cfg, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil, nil)
}

// Corpus mutations live at /api/corpus/:id, the path the dashboard calls.
// An unauthenticated request must hit the auth middleware (401), not fall
// off the routing table (404).
func TestCorpusMutationRoutePaths(t *testing.T) {
	router := testRouter()

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodPatch, "/api/corpus/1", http.StatusUnauthorized},
		{http.MethodDelete, "/api/corpus/1", http.StatusUnauthorized},
		{http.MethodGet, "/api/corpus/1", http.StatusUnauthorized},
		{http.MethodPatch, "/api/admin/corpus/1", http.StatusNotFound},
		{http.MethodDelete, "/api/admin/corpus/1", http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != tc.want {
			t.Errorf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, w.Code)
		}
	}
}

func TestAdminAndVerificationRoutePaths(t *testing.T) {
	router := testRouter()

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/admin/users"},
		{http.MethodGet, "/api/verification/results/1/notes"},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("%s %s: expected 401, got %d", tc.method, tc.path, w.Code)
		}
	}
}
