package billing

import (
	"context"
	"testing"
	"time"

	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupBillingTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	transactions := `
CREATE TABLE IF NOT EXISTS payment_transactions (
  id TEXT PRIMARY KEY,
  session_id TEXT NOT NULL UNIQUE,
  user_id TEXT NOT NULL,
  artist_id TEXT NOT NULL,
  tier_id TEXT NOT NULL,
  amount DECIMAL(10,2) NOT NULL,
  currency TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending',
  payment_status TEXT NOT NULL DEFAULT 'initiated',
  created_at DATETIME,
  updated_at DATETIME
);`
	subscriptions := `
CREATE TABLE IF NOT EXISTS subscriptions (
  id TEXT PRIMARY KEY,
  fan_user_id TEXT NOT NULL,
  artist_id TEXT NOT NULL,
  tier_id TEXT NOT NULL,
  stripe_subscription_id TEXT,
  status TEXT NOT NULL DEFAULT 'active',
  started_at DATETIME,
  ends_at DATETIME
);`
	require.NoError(t, db.Exec(transactions).Error)
	require.NoError(t, db.Exec(subscriptions).Error)

	return db
}

func seedTransaction(t *testing.T, db *gorm.DB, id, sessionID string, createdAt time.Time) {
	t.Helper()
	txn := &models.PaymentTransaction{
		ID:            id,
		SessionID:     sessionID,
		UserID:        "user_fan",
		ArtistID:      "artist_1",
		TierID:        "tier_1",
		Amount:        decimal.NewFromFloat(9.99),
		Currency:      "usd",
		Status:        enums.TransactionStatusPending,
		PaymentStatus: enums.PaymentStatusInitiated,
		CreatedAt:     createdAt,
	}
	require.NoError(t, db.Create(txn).Error)
}

func TestRepositoryMarkPaidFlipsExactlyOnce(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	seedTransaction(t, db, "txn_1", "cs_1", time.Now())

	affected, err := repo.MarkPaid(db, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	// second flip sees the paid row and does nothing
	affected, err = repo.MarkPaid(db, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)

	txn, err := repo.FindBySessionID(ctx, "cs_1")
	require.NoError(t, err)
	assert.Equal(t, enums.TransactionStatusCompleted, txn.Status)
	assert.Equal(t, enums.PaymentStatusPaid, txn.PaymentStatus)
}

func TestRepositoryMarkPaidUnknownSessionAffectsNothing(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)

	affected, err := repo.MarkPaid(db, "cs_missing")
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}

func TestRepositoryListStalePendingFiltersByAgeAndStatus(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedTransaction(t, db, "txn_old", "cs_old", now.Add(-time.Hour))
	seedTransaction(t, db, "txn_older", "cs_older", now.Add(-2*time.Hour))
	seedTransaction(t, db, "txn_fresh", "cs_fresh", now)
	seedTransaction(t, db, "txn_paid", "cs_paid", now.Add(-time.Hour))
	_, err := repo.MarkPaid(db, "cs_paid")
	require.NoError(t, err)

	stale, err := repo.ListStalePending(ctx, now.Add(-15*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "cs_older", stale[0].SessionID)
	assert.Equal(t, "cs_old", stale[1].SessionID)
}

func TestRepositoryListStalePendingHonorsLimit(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	now := time.Now()
	seedTransaction(t, db, "txn_1", "cs_1", now.Add(-3*time.Hour))
	seedTransaction(t, db, "txn_2", "cs_2", now.Add(-2*time.Hour))
	seedTransaction(t, db, "txn_3", "cs_3", now.Add(-time.Hour))

	stale, err := repo.ListStalePending(ctx, now.Add(-time.Minute), 2)
	require.NoError(t, err)
	require.Len(t, stale, 2)
	assert.Equal(t, "cs_1", stale[0].SessionID)
}

func TestRepositoryCreateSubscriptionInsideTx(t *testing.T) {
	db := setupBillingTestDB(t)
	repo := NewRepository(db)

	seedTransaction(t, db, "txn_1", "cs_1", time.Now())

	err := db.Transaction(func(tx *gorm.DB) error {
		affected, err := repo.MarkPaid(tx, "cs_1")
		require.NoError(t, err)
		require.Equal(t, int64(1), affected)

		sessionID := "cs_1"
		return repo.CreateSubscription(tx, &models.Subscription{
			ID:                   "sub_1",
			FanUserID:            "user_fan",
			ArtistID:             "artist_1",
			TierID:               "tier_1",
			StripeSubscriptionID: &sessionID,
			Status:               enums.SubscriptionStatusActive,
			StartedAt:            time.Now(),
		})
	})
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Subscription{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
