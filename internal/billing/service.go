package billing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/favatis/favatis-backend/pkg/config"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/ids"
	"github.com/favatis/favatis-backend/pkg/metrics"
	"github.com/favatis/favatis-backend/pkg/stripe"
	"github.com/favatis/favatis-backend/pkg/timeutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reconciliation sources, used as a metrics label.
const (
	SourcePoll    = "poll"
	SourceWebhook = "webhook"
	SourceCron    = "cron"
)

const (
	subscriptionTypeMonthly = "monthly"
	alreadyActiveMessage    = "Subscription already active"
)

// Service defines checkout and reconciliation behavior.
type Service interface {
	InitiateCheckout(ctx context.Context, fanUserID string, req CheckoutRequest) (*CheckoutResponse, error)
	Reconcile(ctx context.Context, sessionID, source string) (*ReconcileResult, error)
}

// PaymentGateway is the slice of the Stripe client the service needs.
type PaymentGateway interface {
	CreateCheckoutSession(ctx context.Context, p stripe.CheckoutParams) (*stripe.CheckoutSession, error)
	GetCheckoutStatus(ctx context.Context, sessionID string) (*stripe.CheckoutStatus, error)
}

type transactionsRepository interface {
	CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) error
	FindBySessionID(ctx context.Context, sessionID string) (*models.PaymentTransaction, error)
	MarkPaid(tx *gorm.DB, sessionID string) (int64, error)
	CreateSubscription(tx *gorm.DB, sub *models.Subscription) error
}

type tierResolver interface {
	FindTier(ctx context.Context, tierID string) (*models.SubscriptionTier, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type service struct {
	txns        transactionsRepository
	tiers       tierResolver
	gateway     PaymentGateway
	db          txRunner
	checkoutCfg config.CheckoutConfig
	metrics     *metrics.ReconcileMetrics
}

// ServiceParams bundles the dependencies required to build a billing service.
type ServiceParams struct {
	TransactionsRepo transactionsRepository
	TierResolver     tierResolver
	Gateway          PaymentGateway
	TxRunner         txRunner
	CheckoutConfig   config.CheckoutConfig
	Metrics          *metrics.ReconcileMetrics
}

// NewService constructs a billing service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TransactionsRepo == nil {
		return nil, fmt.Errorf("transactions repository is required")
	}
	if params.TierResolver == nil {
		return nil, fmt.Errorf("tier resolver is required")
	}
	if params.Gateway == nil {
		return nil, fmt.Errorf("payment gateway is required")
	}
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	return &service{
		txns:        params.TransactionsRepo,
		tiers:       params.TierResolver,
		gateway:     params.Gateway,
		db:          params.TxRunner,
		checkoutCfg: params.CheckoutConfig,
		metrics:     params.Metrics,
	}, nil
}

// InitiateCheckout opens a hosted checkout session for the tier and records
// the pending transaction keyed by the gateway session id. The amount is
// read from the stored tier, never from the client.
func (s *service) InitiateCheckout(ctx context.Context, fanUserID string, req CheckoutRequest) (*CheckoutResponse, error) {
	tier, err := s.tiers.FindTier(ctx, req.TierID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "tier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load tier")
	}

	currency := s.checkoutCfg.Currency
	if currency == "" {
		currency = "usd"
	}

	session, err := s.gateway.CreateCheckoutSession(ctx, stripe.CheckoutParams{
		Amount:      tier.Price,
		Currency:    currency,
		ProductName: tier.Name,
		SuccessURL:  fmt.Sprintf("%s/fan/subscription-success?session_id={CHECKOUT_SESSION_ID}", req.OriginURL),
		CancelURL:   fmt.Sprintf("%s/artist/%s", req.OriginURL, tier.ArtistID),
		Metadata: map[string]string{
			"user_id":           fanUserID,
			"artist_id":         tier.ArtistID,
			"tier_id":           tier.ID,
			"subscription_type": subscriptionTypeMonthly,
		},
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentGateway, err, "create checkout session")
	}

	txn := &models.PaymentTransaction{
		ID:            ids.New(ids.KindTransaction),
		SessionID:     session.SessionID,
		UserID:        fanUserID,
		ArtistID:      tier.ArtistID,
		TierID:        tier.ID,
		Amount:        tier.Price,
		Currency:      currency,
		Status:        enums.TransactionStatusPending,
		PaymentStatus: enums.PaymentStatusInitiated,
	}
	if err := s.txns.CreateTransaction(ctx, txn); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "record transaction")
	}

	return &CheckoutResponse{
		CheckoutURL: session.URL,
		SessionID:   session.SessionID,
	}, nil
}

// Reconcile settles a checkout session against the gateway. It is safe to
// call concurrently and repeatedly for the same session: the paid flip is a
// conditional update, and the subscription is only created by the single
// caller whose flip succeeded.
func (s *service) Reconcile(ctx context.Context, sessionID, source string) (*ReconcileResult, error) {
	started := time.Now()
	defer func() {
		s.metrics.ObserveDuration(time.Since(started))
	}()

	txn, err := s.txns.FindBySessionID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "transaction not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load transaction")
	}

	// already settled locally, skip the gateway round trip
	if txn.PaymentStatus == enums.PaymentStatusPaid {
		s.metrics.IncOutcome(metrics.ReconcileOutcomeAlreadyPaid, source)
		return &ReconcileResult{
			Status:        "paid",
			PaymentStatus: string(enums.PaymentStatusPaid),
			Message:       alreadyActiveMessage,
		}, nil
	}

	status, err := s.gateway.GetCheckoutStatus(ctx, sessionID)
	if err != nil {
		s.metrics.IncOutcome(metrics.ReconcileOutcomeGatewayFailure, source)
		return nil, pkgerrors.Wrap(pkgerrors.CodePaymentGateway, err, "fetch checkout status")
	}

	result := &ReconcileResult{
		Status:        status.Status,
		PaymentStatus: status.PaymentStatus,
		Amount:        decimal.NewFromInt(status.AmountTotal).Shift(-2).StringFixed(2),
		Currency:      status.Currency,
	}

	if status.PaymentStatus != string(enums.PaymentStatusPaid) {
		s.metrics.IncOutcome(metrics.ReconcileOutcomePending, source)
		return result, nil
	}

	err = s.db.WithTx(ctx, func(tx *gorm.DB) error {
		affected, err := s.txns.MarkPaid(tx, sessionID)
		if err != nil {
			return err
		}
		if affected == 0 {
			// another reconciler won the flip, nothing left to do
			return nil
		}

		result.SubscriptionCreated = true
		sid := sessionID
		return s.txns.CreateSubscription(tx, &models.Subscription{
			ID:                   ids.New(ids.KindSubscription),
			FanUserID:            txn.UserID,
			ArtistID:             txn.ArtistID,
			TierID:               txn.TierID,
			StripeSubscriptionID: &sid,
			Status:               enums.SubscriptionStatusActive,
			StartedAt:            timeutil.NormalizeUTC(time.Now()),
		})
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "settle transaction")
	}

	if result.SubscriptionCreated {
		s.metrics.IncOutcome(metrics.ReconcileOutcomeCompleted, source)
	} else {
		s.metrics.IncOutcome(metrics.ReconcileOutcomeAlreadyPaid, source)
	}
	return result, nil
}
