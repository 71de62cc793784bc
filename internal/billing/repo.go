package billing

import (
	"context"
	"time"

	"github.com/favatis/favatis-backend/internal/repo"
	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	"gorm.io/gorm"
)

// Repository exposes payment transaction persistence operations. The
// tx-scoped methods participate in the reconcile transaction.
type Repository struct {
	repo.Base
}

// NewRepository constructs a billing repo bound to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{Base: repo.NewBase(db)}
}

// CreateTransaction records a freshly initiated checkout.
func (r *Repository) CreateTransaction(ctx context.Context, txn *models.PaymentTransaction) error {
	return r.DB(ctx).Create(txn).Error
}

// FindBySessionID loads the transaction for a gateway checkout session.
func (r *Repository) FindBySessionID(ctx context.Context, sessionID string) (*models.PaymentTransaction, error) {
	var txn models.PaymentTransaction
	if err := r.DB(ctx).First(&txn, "session_id = ?", sessionID).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

// ListStalePending returns pending transactions older than the cutoff, for
// the background reconcile sweep.
func (r *Repository) ListStalePending(ctx context.Context, olderThan time.Time, limit int) ([]models.PaymentTransaction, error) {
	var txns []models.PaymentTransaction
	err := r.DB(ctx).
		Where("status = ? AND created_at < ?", enums.TransactionStatusPending, olderThan).
		Order("created_at").
		Limit(limit).
		Find(&txns).Error
	return txns, err
}

// MarkPaid flips the transaction to completed/paid only if it has not been
// paid yet. The returned row count is the compare-and-swap outcome: exactly
// one caller observes 1 for a given session, every other concurrent or
// repeated caller observes 0.
func (r *Repository) MarkPaid(tx *gorm.DB, sessionID string) (int64, error) {
	res := tx.
		Model(&models.PaymentTransaction{}).
		Where("session_id = ? AND payment_status <> ?", sessionID, enums.PaymentStatusPaid).
		Updates(map[string]any{
			"status":         enums.TransactionStatusCompleted,
			"payment_status": enums.PaymentStatusPaid,
		})
	return res.RowsAffected, res.Error
}

// CreateSubscription inserts the subscription inside the reconcile
// transaction so it commits atomically with the paid flip.
func (r *Repository) CreateSubscription(tx *gorm.DB, sub *models.Subscription) error {
	return tx.Create(sub).Error
}
