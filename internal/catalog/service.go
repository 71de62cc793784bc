package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/favatis/favatis-backend/pkg/db/models"
	pkgerrors "github.com/favatis/favatis-backend/pkg/errors"
	"github.com/favatis/favatis-backend/pkg/ids"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Service defines tier and content behavior used by the controllers.
type Service interface {
	CreateTier(ctx context.Context, userID string, req TierCreateRequest) (*TierDTO, error)
	ListOwnTiers(ctx context.Context, userID string) ([]TierDTO, error)
	ListArtistTiers(ctx context.Context, artistID string) ([]TierDTO, error)
	CreateContent(ctx context.Context, userID string, req ContentCreateRequest) (*ContentDTO, error)
	ListOwnContent(ctx context.Context, userID string) ([]ContentDTO, error)
	AccessibleContent(ctx context.Context, fanUserID, artistID string) ([]ContentDTO, error)
}

type catalogRepository interface {
	CreateTier(ctx context.Context, tier *models.SubscriptionTier) error
	ListTiersByArtist(ctx context.Context, artistID string) ([]models.SubscriptionTier, error)
	CreateContent(ctx context.Context, content *models.GatedContent) error
	ListContentByArtist(ctx context.Context, artistID string) ([]models.GatedContent, error)
}

type artistResolver interface {
	FindByUserID(ctx context.Context, userID string) (*models.ArtistProfile, error)
}

type subscriptionFinder interface {
	FindActive(ctx context.Context, fanUserID, artistID string) (*models.Subscription, error)
}

type service struct {
	catalog       catalogRepository
	artists       artistResolver
	subscriptions subscriptionFinder
}

// ServiceParams bundles the dependencies required to build a catalog service.
type ServiceParams struct {
	CatalogRepo      catalogRepository
	ArtistResolver   artistResolver
	SubscriptionRepo subscriptionFinder
}

// NewService constructs a catalog service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.CatalogRepo == nil {
		return nil, fmt.Errorf("catalog repository is required")
	}
	if params.ArtistResolver == nil {
		return nil, fmt.Errorf("artist resolver is required")
	}
	if params.SubscriptionRepo == nil {
		return nil, fmt.Errorf("subscription repository is required")
	}
	return &service{
		catalog:       params.CatalogRepo,
		artists:       params.ArtistResolver,
		subscriptions: params.SubscriptionRepo,
	}, nil
}

func (s *service) CreateTier(ctx context.Context, userID string, req TierCreateRequest) (*TierDTO, error) {
	profile, err := s.resolveArtist(ctx, userID)
	if err != nil {
		return nil, err
	}

	tier := &models.SubscriptionTier{
		ID:       ids.New(ids.KindTier),
		ArtistID: profile.ID,
		Name:     req.Name,
		Price:    decimal.NewFromFloat(req.Price).Round(2),
		Benefits: toStringList(req.Benefits),
	}
	if err := s.catalog.CreateTier(ctx, tier); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create tier")
	}

	return tierFromModel(tier), nil
}

func (s *service) ListOwnTiers(ctx context.Context, userID string) ([]TierDTO, error) {
	profile, err := s.resolveArtist(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.ListArtistTiers(ctx, profile.ID)
}

func (s *service) ListArtistTiers(ctx context.Context, artistID string) ([]TierDTO, error) {
	tiers, err := s.catalog.ListTiersByArtist(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list tiers")
	}
	return tiersFromModels(tiers), nil
}

func (s *service) CreateContent(ctx context.Context, userID string, req ContentCreateRequest) (*ContentDTO, error) {
	profile, err := s.resolveArtist(ctx, userID)
	if err != nil {
		return nil, err
	}

	content := &models.GatedContent{
		ID:           ids.New(ids.KindContent),
		ArtistID:     profile.ID,
		Title:        req.Title,
		ContentType:  req.ContentType,
		ContentText:  req.ContentText,
		ExternalLink: req.ExternalLink,
		TierIDs:      toStringList(req.TierIDs),
	}
	if err := s.catalog.CreateContent(ctx, content); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create content")
	}

	return contentFromModel(content), nil
}

func (s *service) ListOwnContent(ctx context.Context, userID string) ([]ContentDTO, error) {
	profile, err := s.resolveArtist(ctx, userID)
	if err != nil {
		return nil, err
	}

	items, err := s.catalog.ListContentByArtist(ctx, profile.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list content")
	}
	return contentFromModels(items), nil
}

// AccessibleContent returns the artist's content unlocked by the fan's
// active subscription tier. A fan without an active subscription gets an
// empty list, not an error.
func (s *service) AccessibleContent(ctx context.Context, fanUserID, artistID string) ([]ContentDTO, error) {
	sub, err := s.subscriptions.FindActive(ctx, fanUserID, artistID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []ContentDTO{}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup subscription")
	}

	items, err := s.catalog.ListContentByArtist(ctx, artistID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list content")
	}

	unlocked := make([]models.GatedContent, 0, len(items))
	for _, item := range items {
		if item.TierIDs.Contains(sub.TierID) {
			unlocked = append(unlocked, item)
		}
	}
	return contentFromModels(unlocked), nil
}

func (s *service) resolveArtist(ctx context.Context, userID string) (*models.ArtistProfile, error) {
	profile, err := s.artists.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "artist profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load artist profile")
	}
	return profile, nil
}
