package artists

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
)

// ProfileDTO is the transport shape of an artist profile.
type ProfileDTO struct {
	ArtistID     string             `json:"artist_id"`
	UserID       string             `json:"user_id"`
	Name         string             `json:"name"`
	Bio          *string            `json:"bio,omitempty"`
	ProfileImage *string            `json:"profile_image,omitempty"`
	Status       enums.ArtistStatus `json:"status"`
	SpotifyLink  string             `json:"spotify_link"`
	SubmittedAt  *time.Time         `json:"submitted_at,omitempty"`
	ApprovedAt   *time.Time         `json:"approved_at,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
}

// ApplicationRequest creates an artist account plus a draft profile.
type ApplicationRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name" validate:"required,min=1,max=200"`
	SpotifyLink string `json:"spotify_link" validate:"required,spotify_artist_link"`
}

// ApplyResult is returned after a successful application. The session token
// is handed back raw; the client stores it itself, no cookie is set.
type ApplyResult struct {
	Message      string    `json:"message"`
	UserID       string    `json:"user_id"`
	ArtistID     string    `json:"artist_id"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"-"`
}

// ProfileUpdateRequest carries the optional profile fields an artist may
// change before and after review.
type ProfileUpdateRequest struct {
	Name         *string `json:"name" validate:"omitempty,min=1,max=200"`
	Bio          *string `json:"bio" validate:"omitempty,max=5000"`
	ProfileImage *string `json:"profile_image" validate:"omitempty,url"`
}

// DecisionRequest is the admin's verdict on a pending application.
type DecisionRequest struct {
	Approved bool `json:"approved"`
}

// DecisionResult reports the status the profile moved to.
type DecisionResult struct {
	Message string             `json:"message"`
	Status  enums.ArtistStatus `json:"status"`
}

func FromModel(p *models.ArtistProfile) *ProfileDTO {
	if p == nil {
		return nil
	}

	return &ProfileDTO{
		ArtistID:     p.ID,
		UserID:       p.UserID,
		Name:         p.Name,
		Bio:          p.Bio,
		ProfileImage: p.ProfileImage,
		Status:       p.Status,
		SpotifyLink:  p.SpotifyLink,
		SubmittedAt:  p.SubmittedAt,
		ApprovedAt:   p.ApprovedAt,
		CreatedAt:    p.CreatedAt,
	}
}

func fromModels(profiles []models.ArtistProfile) []ProfileDTO {
	out := make([]ProfileDTO, 0, len(profiles))
	for i := range profiles {
		out = append(out, *FromModel(&profiles[i]))
	}
	return out
}
