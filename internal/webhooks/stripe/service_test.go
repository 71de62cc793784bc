package stripewebhook

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/favatis/favatis-backend/internal/billing"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/stripe/stripe-go/v84"
)

type stubBilling struct {
	mu       sync.Mutex
	sessions []string
	err      error
}

func (s *stubBilling) Reconcile(_ context.Context, sessionID, _ string) (*billing.ReconcileResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions = append(s.sessions, sessionID)
	if s.err != nil {
		return nil, s.err
	}
	return &billing.ReconcileResult{Status: "complete", PaymentStatus: "paid"}, nil
}

func checkoutEvent(t *testing.T, eventType stripe.EventType, sessionID string) *stripe.Event {
	t.Helper()
	payload := map[string]any{"id": sessionID, "object": "checkout.session"}
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal event payload: %v", err)
	}
	return &stripe.Event{
		ID:   "evt_1",
		Type: eventType,
		Data: &stripe.EventData{Raw: raw, Object: payload},
	}
}

func TestHandleEventReconcilesCompletedCheckout(t *testing.T) {
	bill := &stubBilling{}
	svc, err := NewService(ServiceParams{Billing: bill})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	event := checkoutEvent(t, stripe.EventTypeCheckoutSessionCompleted, "cs_test_1")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bill.sessions) != 1 || bill.sessions[0] != "cs_test_1" {
		t.Fatalf("unexpected reconcile calls %v", bill.sessions)
	}
}

func TestHandleEventReconcilesAsyncPaymentSuccess(t *testing.T) {
	bill := &stubBilling{}
	svc, err := NewService(ServiceParams{Billing: bill})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	event := checkoutEvent(t, stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded, "cs_test_2")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bill.sessions) != 1 {
		t.Fatalf("expected one reconcile call, got %d", len(bill.sessions))
	}
}

func TestHandleEventIgnoresOtherEventTypes(t *testing.T) {
	bill := &stubBilling{}
	svc, err := NewService(ServiceParams{Billing: bill})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	event := checkoutEvent(t, stripe.EventTypeInvoicePaid, "cs_test_3")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bill.sessions) != 0 {
		t.Fatalf("expected no reconcile calls, got %d", len(bill.sessions))
	}
}

func TestHandleEventToleratesUnknownSession(t *testing.T) {
	bill := &stubBilling{err: pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")}
	svc, err := NewService(ServiceParams{Billing: bill})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	event := checkoutEvent(t, stripe.EventTypeCheckoutSessionCompleted, "cs_foreign")
	if err := svc.HandleEvent(context.Background(), event); err != nil {
		t.Fatalf("expected unknown session to be ignored, got %v", err)
	}
}

func TestHandleEventPropagatesGatewayFailure(t *testing.T) {
	bill := &stubBilling{err: pkgerrors.New(pkgerrors.CodePaymentGateway, "stripe down")}
	svc, err := NewService(ServiceParams{Billing: bill})
	if err != nil {
		t.Fatalf("building service: %v", err)
	}

	event := checkoutEvent(t, stripe.EventTypeCheckoutSessionCompleted, "cs_test_4")
	if err := svc.HandleEvent(context.Background(), event); err == nil {
		t.Fatal("expected gateway failure to propagate for retry")
	}
}

type stubIdemStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (s *stubIdemStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys == nil {
		s.keys = map[string]bool{}
	}
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *stubIdemStore) Get(_ context.Context, key string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return "1", nil
	}
	return "", nil
}

func (s *stubIdemStore) Del(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, key := range keys {
		delete(s.keys, key)
	}
	return nil
}

func (s *stubIdemStore) IdempotencyKey(scope, id string) string {
	return "fv:idempotency:" + scope + ":" + id
}

func TestIdempotencyGuardMarksDuplicates(t *testing.T) {
	guard, err := NewIdempotencyGuard(&stubIdemStore{}, time.Hour, "stripe")
	if err != nil {
		t.Fatalf("building guard: %v", err)
	}

	dup, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Fatal("first delivery flagged as duplicate")
	}

	dup, err = guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !dup {
		t.Fatal("second delivery not flagged as duplicate")
	}
}

func TestIdempotencyGuardDeleteAllowsRetry(t *testing.T) {
	guard, err := NewIdempotencyGuard(&stubIdemStore{}, time.Hour, "stripe")
	if err != nil {
		t.Fatalf("building guard: %v", err)
	}

	if _, err := guard.CheckAndMark(context.Background(), "evt_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := guard.Delete(context.Background(), "evt_1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dup, err := guard.CheckAndMark(context.Background(), "evt_1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if dup {
		t.Fatal("expected retry after delete to be treated as fresh")
	}
}
