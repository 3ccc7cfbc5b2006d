package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/farellandr/echallan/internal/identity"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestJWTAuthMiddleware(t *testing.T) {
	tokens, _ := identity.NewJWTManager("secret", time.Hour)
	token, _, _ := tokens.Issue("user-42", "")

	r := gin.New()
	r.Use(JWTAuthMiddleware(tokens))
	r.GET("/me", func(c *gin.Context) {
		c.String(http.StatusOK, GetUserID(c))
	})

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != tc.status {
			t.Errorf("%s: status = %d, want %d", tc.name, w.Code, tc.status)
		}
		if tc.status == http.StatusOK && w.Body.String() != "user-42" {
			t.Errorf("%s: user id = %q", tc.name, w.Body.String())
		}
	}
}

func TestCallbackTokenMiddleware(t *testing.T) {
	r := gin.New()
	r.POST("/hook", CallbackTokenMiddleware("shh"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for header, want := range map[string]int{"": http.StatusUnauthorized, "nope": http.StatusUnauthorized, "shh": http.StatusOK} {
		req := httptest.NewRequest(http.MethodPost, "/hook", nil)
		if header != "" {
			req.Header.Set(CallbackTokenHeader, header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("token %q: status = %d, want %d", header, w.Code, want)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/hook?"+CallbackTokenQuery+"=shh", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Errorf("query token: status = %d", w.Code)
	}
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()), Recovery(zap.NewNop()), CORS())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	req := httptest.NewRequest(http.MethodGet, "/boom", nil)
	req.Header.Set(RequestIDHeader, "req-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	if w.Header().Get(RequestIDHeader) != "req-1" {
		t.Fatalf("request id not echoed: %q", w.Header().Get(RequestIDHeader))
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/boom", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, preflight)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Fatalf("preflight = %d %v", w.Code, w.Header())
	}
}
