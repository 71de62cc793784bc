package controllers

import (
	"context"
	"net/http"

	"github.com/favatis/favatis-backend/api/middleware"
	"github.com/favatis/favatis-backend/api/responses"
	"github.com/favatis/favatis-backend/internal/catalog"
	"github.com/favatis/favatis-backend/internal/subscriptions"
	"github.com/favatis/favatis-backend/pkg/db/models"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
)

// SubscriptionLister is the slice of the subscriptions repo the fan
// endpoints need.
type SubscriptionLister interface {
	ListByFan(ctx context.Context, fanUserID string) ([]models.Subscription, error)
}

// FanSubscriptions returns every subscription held by the caller.
func FanSubscriptions(lister SubscriptionLister, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lister == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "subscriptions unavailable"))
			return
		}

		subs, err := lister.ListByFan(r.Context(), middleware.UserIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list subscriptions"))
			return
		}

		responses.WriteSuccess(w, subscriptions.FromModels(subs))
	}
}

// FanContent returns the artist's content the caller's subscription unlocks.
func FanContent(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		content, err := svc.AccessibleContent(r.Context(), middleware.UserIDFromContext(r.Context()), chi.URLParam(r, "artist_id"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, content)
	}
}
