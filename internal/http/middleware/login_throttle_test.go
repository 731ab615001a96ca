package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLoginThrottleRefills(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	lt := NewLoginThrottle(1, 2)
	lt.now = func() time.Time { return now }

	if !lt.Allow("10.0.0.1") || !lt.Allow("10.0.0.1") {
		t.Fatalf("expected burst of two attempts")
	}
	if lt.Allow("10.0.0.1") {
		t.Fatalf("expected third attempt to be throttled")
	}
	if !lt.Allow("10.0.0.2") {
		t.Fatalf("other clients must not share the bucket")
	}

	now = now.Add(time.Second)
	if !lt.Allow("10.0.0.1") {
		t.Fatalf("expected a token after one second")
	}
}

func TestLoginThrottleEvictsIdleBuckets(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	lt := NewLoginThrottle(1, 1)
	lt.now = func() time.Time { return now }

	lt.Allow("10.0.0.1")
	now = now.Add(time.Hour)
	lt.Allow("10.0.0.2")

	if _, ok := lt.buckets["10.0.0.1"]; ok {
		t.Fatalf("expected idle bucket to be evicted")
	}
}

func TestLoginThrottleMiddleware(t *testing.T) {
	lt := NewLoginThrottle(0.001, 1)
	h := lt.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/admin", nil)
		req.RemoteAddr = "10.0.0.9:5555"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusTooManyRequests {
		t.Fatalf("unexpected status sequence %v", codes)
	}
}
