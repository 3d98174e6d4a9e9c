package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/SocietyHub/SH-Backend/internal/middleware"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

// TestCORSMiddleware_AllowedOrigin verifies that an allow-listed origin is
// echoed back with credentials enabled.
func TestCORSMiddleware_AllowedOrigin(t *testing.T) {
	handler := middleware.CORSMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/units", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:5173" {
		t.Errorf("Allow-Origin = %q, want the request origin", got)
	}
	if rec.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected Allow-Credentials: true")
	}
}

// TestCORSMiddleware_UnknownOrigin verifies that origins off the allow-list
// get no CORS headers.
func TestCORSMiddleware_UnknownOrigin(t *testing.T) {
	handler := middleware.CORSMiddleware(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/units", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("Allow-Origin = %q, want empty", got)
	}
}

// TestCORSMiddleware_Preflight verifies that OPTIONS requests short-circuit
// with 204 and never reach the inner handler.
func TestCORSMiddleware_Preflight(t *testing.T) {
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("inner handler should not run on preflight")
	})
	handler := middleware.CORSMiddleware(inner)

	req := httptest.NewRequest(http.MethodOptions, "/api/login", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("preflight status = %d, want 204", rec.Code)
	}
}

// TestLoginRateLimiter_BurstThenThrottle verifies that the limiter allows a
// burst of attempts from one IP and then starts returning 429.
func TestLoginRateLimiter_BurstThenThrottle(t *testing.T) {
	handler := middleware.LoginRateLimiter()(okHandler())

	var lastCode int
	throttled := false
	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		lastCode = rec.Code
		if rec.Code == http.StatusTooManyRequests {
			throttled = true
		}
	}
	if !throttled {
		t.Errorf("expected throttling within 10 rapid attempts, last status %d", lastCode)
	}
}

// TestLoginRateLimiter_PerIP verifies that one client exhausting its burst
// does not throttle a different client.
func TestLoginRateLimiter_PerIP(t *testing.T) {
	handler := middleware.LoginRateLimiter()(okHandler())

	for i := 0; i < 10; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
		req.RemoteAddr = "203.0.113.8:51000"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/login", nil)
	req.RemoteAddr = "203.0.113.9:51000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("fresh IP got %d, want 200", rec.Code)
	}
}
