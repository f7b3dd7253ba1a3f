package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hit(h http.Handler, remoteAddr string, headers map[string]string) int {
	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec.Code
}

func TestRateLimiter_LimitsPerClient(t *testing.T) {
	rl := NewRateLimiter(2, time.Minute)
	t.Cleanup(rl.Stop)
	h := rl.Limit(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1111", nil))
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:2222", nil))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:3333", nil))

	// another client has its own budget
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.2:1111", nil))
}

func TestRateLimiter_ForwardedHeaders(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	t.Cleanup(rl.Stop)
	h := rl.Limit(okHandler)

	fwd := map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", fwd))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.9:1", map[string]string{"X-Real-IP": "203.0.113.7"}))
}

func TestRateLimiter_WindowExpiry(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	t.Cleanup(rl.Stop)
	h := rl.Limit(okHandler)

	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", nil))
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "10.0.0.1:1", nil))
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", nil))
}

func TestRateLimiter_Disabled(t *testing.T) {
	rl := NewRateLimiter(0, time.Minute)
	t.Cleanup(rl.Stop)
	h := rl.Limit(okHandler)
	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.0.0.1:1", nil))
	}
}

func TestRateLimiter_StopIsIdempotent(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	rl.Stop()
	rl.Stop()
}
