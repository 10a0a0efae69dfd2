package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func preflight(t *testing.T, h gin.HandlerFunc, origin string) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.Use(h)
	r.OPTIONS("/v1/renders", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodOptions, "/v1/renders", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	h := CORS([]string{"https://app.roomstage.test/", " http://localhost:5173 "})
	for _, origin := range []string{"https://app.roomstage.test", "http://localhost:5173"} {
		origin := origin
		t.Run(origin, func(t *testing.T) {
			t.Parallel()
			rec := preflight(t, h, origin)
			if rec.Code != http.StatusNoContent {
				t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusNoContent)
			}
			if got := rec.Header().Get("Access-Control-Allow-Origin"); got != origin {
				t.Fatalf("unexpected allow-origin header: got=%q want=%q", got, origin)
			}
		})
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := preflight(t, CORS([]string{"https://app.roomstage.test"}), "https://evil.test")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusForbidden)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("allow-origin should be empty, got %q", got)
	}
}

func TestCORSDefaultsToLocalDev(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := preflight(t, CORS(nil), "http://127.0.0.1:5173")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://127.0.0.1:5173" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
}

func TestCORSWildcard(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := preflight(t, CORS([]string{"*"}), "https://anything.test")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("unexpected allow-origin header: %q", got)
	}
}
