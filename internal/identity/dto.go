package identity

import (
	"time"

	"github.com/favatis/favatis-backend/pkg/db/models"
	"github.com/favatis/favatis-backend/pkg/enums"
)

// UserDTO is the transport shape for an authenticated user.
type UserDTO struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Picture   *string    `json:"picture,omitempty"`
	Role      enums.Role `json:"role"`
	CreatedAt time.Time  `json:"created_at"`
}

// AuthResult is the outcome of a successful login or signup.
type AuthResult struct {
	User         UserDTO   `json:"user"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// EmailSignupRequest is the body for passwordless email signup.
type EmailSignupRequest struct {
	Email string     `json:"email" validate:"required,email"`
	Name  string     `json:"name" validate:"required,min=1,max=200"`
	Role  enums.Role `json:"role" validate:"required,oneof=fan artist admin"`
}

// CreateUserDTO holds the data required by the repo to persist a new user.
type CreateUserDTO struct {
	ID      string
	Email   string
	Name    string
	Picture *string
	Role    enums.Role
}

func FromModel(u *models.User) *UserDTO {
	if u == nil {
		return nil
	}

	return &UserDTO{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Picture:   u.Picture,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

func (c CreateUserDTO) ToModel() *models.User {
	role := c.Role
	if role == "" {
		role = enums.RoleFan
	}

	return &models.User{
		ID:      c.ID,
		Email:   c.Email,
		Name:    c.Name,
		Picture: c.Picture,
		Role:    role,
	}
}
