package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/fdg312/meal-planner/internal/config"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func hit(h http.Handler, remoteAddr string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/v1/meals", nil)
	req.RemoteAddr = remoteAddr
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestRateLimit_SecondRequestReturns429(t *testing.T) {
	cfg := &config.Config{RateLimitRPS: 1, RateLimitBurst: 1}
	handler := RateLimitMiddleware(cfg, zerolog.Nop(), okHandler())

	require.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:12345", nil).Code)

	rr := hit(handler, "1.2.3.4:12345", nil)
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "1", rr.Header().Get("Retry-After"))

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "rate_limited", body.Error.Code)
}

func TestRateLimit_DisabledWhenZero(t *testing.T) {
	cfg := &config.Config{}
	handler := RateLimitMiddleware(cfg, zerolog.Nop(), okHandler())

	for i := 0; i < 10; i++ {
		assert.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:12345", nil).Code, "request %d", i)
	}
}

func TestRateLimit_DifferentIPsIndependent(t *testing.T) {
	cfg := &config.Config{RateLimitRPS: 1, RateLimitBurst: 1}
	handler := RateLimitMiddleware(cfg, zerolog.Nop(), okHandler())

	assert.Equal(t, http.StatusOK, hit(handler, "1.2.3.4:1", nil).Code)
	assert.Equal(t, http.StatusOK, hit(handler, "5.6.7.8:1", nil).Code)
}

func TestRateLimit_UsesForwardedFor(t *testing.T) {
	cfg := &config.Config{RateLimitRPS: 1, RateLimitBurst: 1}
	handler := RateLimitMiddleware(cfg, zerolog.Nop(), okHandler())

	xff := map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}
	assert.Equal(t, http.StatusOK, hit(handler, "10.0.0.1:1", xff).Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(handler, "10.0.0.2:1", xff).Code)
}

func TestRateLimiterStore_CleanupDropsIdleClients(t *testing.T) {
	store := newRateLimiterStore(100, 5)
	for i := 0; i < cleanupEvery-1; i++ {
		store.getLimiter("10.0.0." + strconv.Itoa(i%50))
	}
	assert.Equal(t, 50, store.size())

	// The sweep runs on the next lookup; untouched buckets are full.
	store.getLimiter("10.0.1.1")
	assert.LessOrEqual(t, store.size(), 1)
}
