package httpx

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_AllowsWithinLimit(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerWindow: 5,
		Window:            time.Minute,
		Burst:             5,
	}
	handler := RateLimitByIP(config)(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.10:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code, "request %d should pass", i+1)
	}
}

func TestRateLimitMiddleware_BlocksOverLimit(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerWindow: 2,
		Window:            time.Minute,
		Burst:             2,
	}
	handler := RateLimitByIP(config)(okHandler())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = "192.168.1.20:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	require.Equal(t, http.StatusOK, send().Code)
	require.Equal(t, http.StatusOK, send().Code)

	rec := send()
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{
		"error": "rate_limit_exceeded",
		"error_description": "Too many requests. Please try again later."
	}`, rec.Body.String())
}

func TestRateLimitMiddleware_SeparateKeys(t *testing.T) {
	config := RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	}
	handler := RateLimitByIP(config)(okHandler())

	send := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusOK, send("10.0.0.1:1000"))
	require.Equal(t, http.StatusTooManyRequests, send("10.0.0.1:1000"))
	// A different client still has a fresh bucket.
	require.Equal(t, http.StatusOK, send("10.0.0.2:1000"))
}

func TestIPKeyExtractor(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(*http.Request)
		expected string
	}{
		{
			name: "remote addr",
			setup: func(r *http.Request) {
				r.RemoteAddr = "203.0.113.5:5555"
			},
			expected: "203.0.113.5",
		},
		{
			name: "x-forwarded-for takes precedence",
			setup: func(r *http.Request) {
				r.RemoteAddr = "10.0.0.1:80"
				r.Header.Set("X-Forwarded-For", "198.51.100.7, 10.0.0.1")
			},
			expected: "198.51.100.7",
		},
		{
			name: "x-real-ip",
			setup: func(r *http.Request) {
				r.RemoteAddr = "10.0.0.1:80"
				r.Header.Set("X-Real-IP", "198.51.100.9")
			},
			expected: "198.51.100.9",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.setup(req)
			assert.Equal(t, tt.expected, IPKeyExtractor(req))
		})
	}
}

func TestCompositeKeyExtractor_SkipsEmpty(t *testing.T) {
	extract := CompositeKeyExtractor(":",
		func(*http.Request) string { return "" },
		func(*http.Request) string { return "b" },
	)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Equal(t, "b", extract(req))
}

func TestParseRateLimitFromEnv(t *testing.T) {
	t.Setenv("RATELIMIT_TEST_REQUESTS", "42")
	t.Setenv("RATELIMIT_TEST_WINDOW_SEC", "30")
	t.Setenv("RATELIMIT_TEST_BURST", "7")

	config := ParseRateLimitFromEnv("TEST", RateLimitConfig{
		RequestsPerWindow: 1,
		Window:            time.Minute,
		Burst:             1,
	})

	assert.Equal(t, 42, config.RequestsPerWindow)
	assert.Equal(t, 30*time.Second, config.Window)
	assert.Equal(t, 7, config.Burst)
}
