package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/favatis/favatis-backend/api/middleware"
	"github.com/favatis/favatis-backend/internal/billing"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/go-chi/chi/v5"
)

type stubBillingService struct {
	checkoutUser    string
	checkoutReq     billing.CheckoutRequest
	checkoutResp    *billing.CheckoutResponse
	checkoutErr     error
	reconciled      []string
	reconcileSource string
	reconcileResp   *billing.ReconcileResult
}

func (s *stubBillingService) InitiateCheckout(_ context.Context, fanUserID string, req billing.CheckoutRequest) (*billing.CheckoutResponse, error) {
	s.checkoutUser = fanUserID
	s.checkoutReq = req
	return s.checkoutResp, s.checkoutErr
}

func (s *stubBillingService) Reconcile(_ context.Context, sessionID, source string) (*billing.ReconcileResult, error) {
	s.reconciled = append(s.reconciled, sessionID)
	s.reconcileSource = source
	if s.reconcileResp == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
	}
	return s.reconcileResp, nil
}

func TestSubscribeCheckoutPassesAuthenticatedUser(t *testing.T) {
	svc := &stubBillingService{checkoutResp: &billing.CheckoutResponse{
		CheckoutURL: "https://checkout.stripe.com/cs_1",
		SessionID:   "cs_1",
	}}
	handler := SubscribeCheckout(svc, testLogger())

	body := strings.NewReader(`{"tier_id":"tier_1","origin_url":"https://favatis.example"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe/checkout", body)
	req = req.WithContext(middleware.WithUserID(req.Context(), "user_fan"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if svc.checkoutUser != "user_fan" || svc.checkoutReq.TierID != "tier_1" {
		t.Fatalf("unexpected call %q %+v", svc.checkoutUser, svc.checkoutReq)
	}
}

func TestSubscribeCheckoutRejectsMissingOrigin(t *testing.T) {
	handler := SubscribeCheckout(&stubBillingService{}, testLogger())

	body := strings.NewReader(`{"tier_id":"tier_1"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/subscribe/checkout", body)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestSubscribeStatusReconcilesAsPoll(t *testing.T) {
	svc := &stubBillingService{reconcileResp: &billing.ReconcileResult{
		Status:        "paid",
		PaymentStatus: "paid",
		Message:       "Subscription already active",
	}}

	r := chi.NewRouter()
	r.Get("/api/subscribe/status/{session_id}", SubscribeStatus(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/api/subscribe/status/cs_1", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(svc.reconciled) != 1 || svc.reconciled[0] != "cs_1" {
		t.Fatalf("unexpected reconcile calls %v", svc.reconciled)
	}
	if svc.reconcileSource != billing.SourcePoll {
		t.Fatalf("expected poll source, got %q", svc.reconcileSource)
	}

	var payload struct {
		Data billing.ReconcileResult `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&payload); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if payload.Data.Message != "Subscription already active" {
		t.Fatalf("unexpected payload %+v", payload.Data)
	}
}

func TestSubscribeStatusUnknownSessionIs404(t *testing.T) {
	svc := &stubBillingService{}

	r := chi.NewRouter()
	r.Get("/api/subscribe/status/{session_id}", SubscribeStatus(svc, testLogger()))

	req := httptest.NewRequest(http.MethodGet, "/api/subscribe/status/cs_missing", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
