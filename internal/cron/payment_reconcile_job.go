package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/favatis/favatis-backend/internal/billing"
	"github.com/favatis/favatis-backend/pkg/db/models"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/logger"
	"go.uber.org/multierr"
)

const (
	defaultSweepLimit  = 100
	defaultPendingAge  = 15 * time.Minute
	paymentReconcileID = "payment-reconcile"
)

type pendingLister interface {
	ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.PaymentTransaction, error)
}

type reconciler interface {
	Reconcile(ctx context.Context, sessionID, source string) (*billing.ReconcileResult, error)
}

// PaymentReconcileJobParams configures the stale checkout sweep.
type PaymentReconcileJobParams struct {
	Logger      *logger.Logger
	BillingRepo pendingLister
	Billing     reconciler
	Limit       int
	PendingAge  time.Duration
	Now         func() time.Time
}

// NewPaymentReconcileJob builds the sweep that settles checkouts whose
// webhook never arrived and whose fan never returned to poll.
func NewPaymentReconcileJob(params PaymentReconcileJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.BillingRepo == nil {
		return nil, fmt.Errorf("billing repository required")
	}
	if params.Billing == nil {
		return nil, fmt.Errorf("billing service required")
	}
	now := params.Now
	if now == nil {
		now = time.Now
	}
	limit := params.Limit
	if limit <= 0 {
		limit = defaultSweepLimit
	}
	pendingAge := params.PendingAge
	if pendingAge <= 0 {
		pendingAge = defaultPendingAge
	}
	return &paymentReconcileJob{
		logg:       params.Logger,
		repo:       params.BillingRepo,
		billing:    params.Billing,
		now:        now,
		limit:      limit,
		pendingAge: pendingAge,
	}, nil
}

type paymentReconcileJob struct {
	logg       *logger.Logger
	repo       pendingLister
	billing    reconciler
	now        func() time.Time
	limit      int
	pendingAge time.Duration
}

func (j *paymentReconcileJob) Name() string { return paymentReconcileID }

func (j *paymentReconcileJob) Run(ctx context.Context) error {
	cutoff := j.now().Add(-j.pendingAge)
	stale, err := j.repo.ListStalePending(ctx, cutoff, j.limit)
	if err != nil {
		return fmt.Errorf("list stale pending transactions: %w", err)
	}

	var errs error
	settled := 0
	stillPending := 0
	for i := range stale {
		txn := &stale[i]
		logCtx := j.logg.WithFields(ctx, map[string]any{
			"transaction_id": txn.ID,
			"session_id":     txn.SessionID,
		})
		result, err := j.billing.Reconcile(logCtx, txn.SessionID, billing.SourceCron)
		if err != nil {
			// a session the gateway no longer knows stays pending until a
			// later sweep or manual cleanup
			if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeNotFound {
				j.logg.Warn(logCtx, "transaction vanished mid-sweep; skipping")
				continue
			}
			errs = multierr.Append(errs, fmt.Errorf("reconcile %s: %w", txn.SessionID, err))
			continue
		}
		if result.SubscriptionCreated {
			j.logg.Info(logCtx, "stale checkout settled")
			settled++
			continue
		}
		stillPending++
	}

	reportCtx := j.logg.WithFields(ctx, map[string]any{
		"candidates":    len(stale),
		"settled":       settled,
		"still_pending": stillPending,
	})
	j.logg.Info(reportCtx, "payment reconcile sweep complete")
	return errs
}
