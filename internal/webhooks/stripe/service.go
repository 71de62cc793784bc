package stripewebhook

import (
	"context"

	"github.com/favatis/favatis-backend/internal/billing"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/stripe/stripe-go/v84"
)

type reconciler interface {
	Reconcile(ctx context.Context, sessionID, source string) (*billing.ReconcileResult, error)
}

type ServiceParams struct {
	Billing reconciler
}

// Service turns verified Stripe events into reconciliation calls. The
// webhook never settles a payment itself; the reconciler owns that.
type Service struct {
	billing reconciler
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Billing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "billing service required")
	}
	return &Service{billing: params.Billing}, nil
}

func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted,
		stripe.EventTypeCheckoutSessionAsyncPaymentSucceeded:
		sessionID := event.GetObjectValue("id")
		if sessionID == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "checkout session id missing")
		}
		_, err := s.billing.Reconcile(ctx, sessionID, billing.SourceWebhook)
		if err != nil {
			// a session we never initiated is not our event to settle
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				return nil
			}
			return err
		}
		return nil
	default:
		// ignore event types we do not subscribe to
		return nil
	}
}
