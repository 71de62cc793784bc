package controllers

import (
	"net/http"

	"github.com/favatis/favatis-backend/api/middleware"
	"github.com/favatis/favatis-backend/api/responses"
	"github.com/favatis/favatis-backend/api/validators"
	"github.com/favatis/favatis-backend/internal/billing"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// SubscribeCheckout opens a hosted checkout session for a tier.
func SubscribeCheckout(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		var body billing.CheckoutRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.InitiateCheckout(r.Context(), middleware.UserIDFromContext(r.Context()), body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// SubscribeStatus reconciles a checkout session on behalf of the returning
// fan. Polling this endpoint after redirect is what activates the
// subscription when the webhook has not landed yet.
func SubscribeStatus(svc billing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "billing service unavailable"))
			return
		}

		sessionID := chi.URLParam(r, "session_id")
		result, err := svc.Reconcile(r.Context(), sessionID, billing.SourcePoll)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
