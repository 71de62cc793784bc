package stripewebhook

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/favatis/favatis-backend/pkg/redis"
)

// IdempotencyGuard remembers which Stripe event ids were already handled so
// delivery retries do not reconcile the same checkout twice. Markers live in
// redis under a scoped key and expire after the configured TTL.
type IdempotencyGuard struct {
	store redis.IdempotencyStore
	ttl   time.Duration
	scope string
}

// NewIdempotencyGuard validates and builds a guard.
func NewIdempotencyGuard(store redis.IdempotencyStore, ttl time.Duration, scope string) (*IdempotencyGuard, error) {
	if store == nil {
		return nil, errors.New("idempotency store is required")
	}
	if ttl < 0 {
		return nil, errors.New("ttl must be non-negative")
	}
	if scope == "" {
		return nil, errors.New("scope is required")
	}
	return &IdempotencyGuard{store: store, ttl: ttl, scope: scope}, nil
}

// CheckAndMark atomically claims the event id. It reports true when the
// event was seen before, meaning the caller should skip processing.
func (g *IdempotencyGuard) CheckAndMark(ctx context.Context, eventID string) (bool, error) {
	if eventID == "" {
		return false, errors.New("event id is required")
	}
	claimed, err := g.store.SetNX(ctx, g.store.IdempotencyKey(g.scope, eventID), "1", g.ttl)
	if err != nil {
		return false, fmt.Errorf("set idempotency key: %w", err)
	}
	return !claimed, nil
}

// Delete removes the marker so Stripe's next retry can be processed again.
// Called when handling failed after the mark was taken.
func (g *IdempotencyGuard) Delete(ctx context.Context, eventID string) error {
	if eventID == "" {
		return errors.New("event id is required")
	}
	return g.store.Del(ctx, g.store.IdempotencyKey(g.scope, eventID))
}
