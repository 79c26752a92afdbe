package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/contactbook-server/internal/testutil"
)

func doFrom(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/users/me", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimit_Handle(t *testing.T) {
	t.Parallel()

	clk := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	h := NewRateLimit(10, clk, testutil.MakeNoopLogger()).Handle(okHandler())

	for i := 0; i < 10; i++ {
		rec := doFrom(h, "10.0.0.1:5000")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := doFrom(h, "10.0.0.1:5001")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.JSONEq(t, `{"error":"The request limit has been exceeded. Please try again later."}`, rec.Body.String())
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))

	// other clients keep their own budget
	assert.Equal(t, http.StatusOK, doFrom(h, "10.0.0.2:5000").Code)

	clk.Advance(45 * time.Second)
	rec = doFrom(h, "10.0.0.1:5000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "15", rec.Header().Get("Retry-After"))

	clk.Advance(15 * time.Second)
	for i := 0; i < 10; i++ {
		require.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:5000").Code, "request %d", i+1)
	}
	assert.Equal(t, http.StatusTooManyRequests, doFrom(h, "10.0.0.1:5000").Code)
}

func TestRateLimit_Handle_AtMostLimitPerMinute(t *testing.T) {
	t.Parallel()

	clk := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	h := NewRateLimit(10, clk, testutil.MakeNoopLogger()).Handle(okHandler())

	allowed := 0
	for sec := 0; sec < 60; sec++ {
		if doFrom(h, "10.0.0.1:5000").Code == http.StatusOK {
			allowed++
		}
		clk.Advance(time.Second)
	}
	assert.Equal(t, 10, allowed)

	// a new window opens once the minute is over
	assert.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:5000").Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	t.Parallel()

	clk := testutil.NewFakeClock(time.Now())
	h := NewRateLimit(0, clk, testutil.MakeNoopLogger()).Handle(okHandler())

	for i := 0; i < 50; i++ {
		require.Equal(t, http.StatusOK, doFrom(h, "10.0.0.1:5000").Code)
	}
}

func TestRateLimit_SweepsExpiredWindows(t *testing.T) {
	t.Parallel()

	clk := testutil.NewFakeClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	rl := NewRateLimit(10, clk, testutil.MakeNoopLogger())
	h := rl.Handle(okHandler())

	doFrom(h, "10.0.0.1:1")
	doFrom(h, "10.0.0.2:1")
	require.Len(t, rl.windows, 2)

	clk.Advance(limiterIdleSweep + time.Second)
	doFrom(h, "10.0.0.3:1")

	assert.Len(t, rl.windows, 1)
	assert.Contains(t, rl.windows, "10.0.0.3")
}

func TestClientIP(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.168.1.5:4242"
	assert.Equal(t, "192.168.1.5", clientIP(req))

	req.RemoteAddr = "192.168.1.6"
	assert.Equal(t, "192.168.1.6", clientIP(req))
}
