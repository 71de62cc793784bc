package analytics

import (
	"context"
	"fmt"

	"github.com/favatis/favatis-backend/pkg/enums"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
)

// Summary is the admin dashboard payload.
type Summary struct {
	TotalArtists        int64 `json:"total_artists"`
	TotalFans           int64 `json:"total_fans"`
	TotalSubscriptions  int64 `json:"total_subscriptions"`
	PendingApplications int64 `json:"pending_applications"`
}

// Service computes platform counts for the admin dashboard.
type Service interface {
	Summary(ctx context.Context) (*Summary, error)
}

type artistCounter interface {
	CountByStatus(ctx context.Context, status enums.ArtistStatus) (int64, error)
}

type userCounter interface {
	CountUsersByRole(ctx context.Context, role enums.Role) (int64, error)
}

type subscriptionCounter interface {
	CountByStatus(ctx context.Context, status enums.SubscriptionStatus) (int64, error)
}

type service struct {
	artists       artistCounter
	users         userCounter
	subscriptions subscriptionCounter
}

// ServiceParams bundles the dependencies required to build an analytics service.
type ServiceParams struct {
	ArtistCounter       artistCounter
	UserCounter         userCounter
	SubscriptionCounter subscriptionCounter
}

// NewService constructs an analytics service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.ArtistCounter == nil {
		return nil, fmt.Errorf("artist counter is required")
	}
	if params.UserCounter == nil {
		return nil, fmt.Errorf("user counter is required")
	}
	if params.SubscriptionCounter == nil {
		return nil, fmt.Errorf("subscription counter is required")
	}
	return &service{
		artists:       params.ArtistCounter,
		users:         params.UserCounter,
		subscriptions: params.SubscriptionCounter,
	}, nil
}

// Summary reads live counts from the store. Approved artists and active
// subscriptions are counted; drafts and canceled subscriptions are not.
func (s *service) Summary(ctx context.Context) (*Summary, error) {
	totalArtists, err := s.artists.CountByStatus(ctx, enums.ArtistStatusApproved)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count approved artists")
	}

	totalFans, err := s.users.CountUsersByRole(ctx, enums.RoleFan)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count fans")
	}

	totalSubscriptions, err := s.subscriptions.CountByStatus(ctx, enums.SubscriptionStatusActive)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count active subscriptions")
	}

	pending, err := s.artists.CountByStatus(ctx, enums.ArtistStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "count pending applications")
	}

	return &Summary{
		TotalArtists:        totalArtists,
		TotalFans:           totalFans,
		TotalSubscriptions:  totalSubscriptions,
		PendingApplications: pending,
	}, nil
}
