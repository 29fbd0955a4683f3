package middleware

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"snapbook/internal/apperr"
	"snapbook/internal/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func errorRouter(isProduction bool, err error) *gin.Engine {
	r := gin.New()
	r.Use(ErrorHandler(discardLogger(), isProduction))
	r.GET("/boom", func(c *gin.Context) {
		_ = c.Error(err)
	})
	return r
}

func TestErrorHandlerStatusMapping(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest},
		{apperr.NotFound("missing"), http.StatusNotFound},
		{apperr.Conflict("taken"), http.StatusConflict},
		{apperr.Unauthorized("who are you"), http.StatusUnauthorized},
		{apperr.Forbidden("no"), http.StatusForbidden},
		{errors.New("database exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		errorRouter(false, tc.err).ServeHTTP(w, req)

		if w.Code != tc.wantStatus {
			t.Errorf("%v: status = %d, want %d", tc.err, w.Code, tc.wantStatus)
		}
		if !strings.Contains(w.Body.String(), "message") {
			t.Errorf("%v: body %q missing message field", tc.err, w.Body.String())
		}
	}
}

func TestErrorHandlerHidesInternalDetailsInProduction(t *testing.T) {
	internal := errors.New("dial tcp 10.0.0.1:27017: connection refused")

	w := httptest.NewRecorder()
	errorRouter(true, internal).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "10.0.0.1") {
		t.Errorf("production 500 leaked the underlying error: %s", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "Server Error") {
		t.Errorf("production 500 body = %s, want Server Error message", w.Body.String())
	}

	// Development keeps the real error and a stack for debugging
	w = httptest.NewRecorder()
	errorRouter(false, internal).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if !strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("dev 500 body = %s, want underlying error", w.Body.String())
	}
	if !strings.Contains(w.Body.String(), "stack") {
		t.Errorf("dev 500 body = %s, want stack trace", w.Body.String())
	}
}

func TestErrorHandlerValidationMessagePassesThrough(t *testing.T) {
	w := httptest.NewRecorder()
	errorRouter(true, apperr.Conflict("the selected time slot is already booked or unavailable")).
		ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if !strings.Contains(w.Body.String(), "already booked or unavailable") {
		t.Errorf("conflict body = %s, want the domain message even in production", w.Body.String())
	}
}

// setClaims stands in for AuthMiddleware so RequireAdmin can be exercised
// without a token.
func setClaims(claims *helpers.EnhancedClaims) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims != nil {
			c.Set("user", claims)
		}
		c.Next()
	}
}

func adminRouter(claims *helpers.EnhancedClaims) *gin.Engine {
	r := gin.New()
	r.Use(setClaims(claims), RequireAdmin())
	r.GET("/admin", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func TestRequireAdmin(t *testing.T) {
	cases := []struct {
		name       string
		claims     *helpers.EnhancedClaims
		wantStatus int
	}{
		{"no claims", nil, http.StatusUnauthorized},
		{"plain user", &helpers.EnhancedClaims{Role: "user", UserID: "u1"}, http.StatusForbidden},
		{"guest role", &helpers.EnhancedClaims{Role: "guest"}, http.StatusForbidden},
		{"admin", &helpers.EnhancedClaims{Role: "admin", UserID: "a1"}, http.StatusOK},
	}

	for _, tc := range cases {
		w := httptest.NewRecorder()
		adminRouter(tc.claims).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin", nil))
		if w.Code != tc.wantStatus {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.wantStatus)
		}
	}
}

func TestRequestIDEchoedAndGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "req-123")
	r.ServeHTTP(w, req)
	if got := w.Header().Get("X-Request-ID"); got != "req-123" {
		t.Errorf("echoed request id = %q, want req-123", got)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Header().Get("X-Request-ID") == "" {
		t.Error("no request id generated")
	}
}
