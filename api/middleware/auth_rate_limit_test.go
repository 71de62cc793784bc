package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/favatis/favatis-backend/pkg/logger"
)

type memoryLimiterStore struct {
	mu     sync.Mutex
	counts map[string]int64
}

func (s *memoryLimiterStore) IncrWithTTL(_ context.Context, key string, _ time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = map[string]int64{}
	}
	s.counts[key]++
	return s.counts[key], nil
}

func signupRequest(email string) *http.Request {
	body := strings.NewReader(`{"email":"` + email + `","name":"Fan","role":"fan"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/auth/email-signup", body)
	req.RemoteAddr = "203.0.113.7:51000"
	return req
}

func TestAuthRateLimitBlocksEmailAfterLimit(t *testing.T) {
	store := &memoryLimiterStore{}
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	policy := NewAuthRateLimitPolicy("signup", time.Minute, 0, 2)
	handler := AuthRateLimit(policy, store, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, signupRequest("fan@example.com"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signupRequest("fan@example.com"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}

	// a different email is still admitted
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, signupRequest("other@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for fresh email, got %d", rec.Code)
	}
}

func TestAuthRateLimitBlocksIPAfterLimit(t *testing.T) {
	store := &memoryLimiterStore{}
	logg := logger.New(logger.Options{ServiceName: "middleware-test"})
	policy := NewAuthRateLimitPolicy("signup", time.Minute, 2, 0)
	handler := AuthRateLimit(policy, store, logg)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, signupRequest("fan@example.com"))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d expected 200, got %d", i+1, rec.Code)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signupRequest("another@example.com"))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rec.Code)
	}
}

func TestAuthRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	policy := NewAuthRateLimitPolicy("signup", 0, 0, 0)
	handler := AuthRateLimit(policy, &memoryLimiterStore{}, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, signupRequest("fan@example.com"))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
