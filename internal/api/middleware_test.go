package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return signed
}

func authRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/p")
	group.Use(JWTAuthMiddleware(testSecret))
	if len(roles) > 0 {
		group.Use(RequireRoles(roles...))
	}
	group.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": c.GetInt64("uid"), "role": c.GetString("role")})
	})
	return router
}

func TestJWTAuthMiddlewareAcceptsValidToken(t *testing.T) {
	router := authRouter()
	token := signToken(t, testSecret, jwt.MapClaims{
		"uid":  float64(12),
		"role": "dosen",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/p/ping", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
}

func TestJWTAuthMiddlewareRejectsBadTokens(t *testing.T) {
	router := authRouter()

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"malformed header", "Token abc"},
		{"garbage token", "Bearer not-a-jwt"},
		{"wrong secret", "Bearer " + signToken(t, "other-secret", jwt.MapClaims{
			"uid": float64(1), "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
		})},
		{"expired", "Bearer " + signToken(t, testSecret, jwt.MapClaims{
			"uid": float64(1), "role": "admin", "exp": time.Now().Add(-time.Hour).Unix(),
		})},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/p/ping", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", tc.name, w.Code)
		}
	}
}

func TestRequireRoles(t *testing.T) {
	router := authRouter("admin")

	adminToken := signToken(t, testSecret, jwt.MapClaims{
		"uid": float64(1), "role": "admin", "exp": time.Now().Add(time.Hour).Unix(),
	})
	mhsToken := signToken(t, testSecret, jwt.MapClaims{
		"uid": float64(2), "role": "mahasiswa", "exp": time.Now().Add(time.Hour).Unix(),
	})

	req := httptest.NewRequest(http.MethodGet, "/p/ping", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("admin should pass, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/p/ping", nil)
	req.Header.Set("Authorization", "Bearer "+mhsToken)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("mahasiswa should be forbidden, got %d", w.Code)
	}
}

func TestMimeAllowed(t *testing.T) {
	allowed := "application/pdf, text/plain"

	if !mimeAllowed(allowed, "application/pdf") {
		t.Fatalf("pdf should be allowed")
	}
	if !mimeAllowed(allowed, "text/plain; charset=utf-8") {
		t.Fatalf("prefix match should allow parameterized mime types")
	}
	if mimeAllowed(allowed, "image/png") {
		t.Fatalf("png should be rejected")
	}
	if mimeAllowed(allowed, "") {
		t.Fatalf("empty mime type should be rejected")
	}
}
