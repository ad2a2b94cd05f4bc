package vo

import (
	"time"

	"github.com/Xushengqwer/identity_hub/models/entities"
	"github.com/Xushengqwer/identity_hub/models/enums"
)

// TokenPair is a freshly minted session.
type TokenPair struct {
	AccessToken  string `json:"access" example:"eyJhbGciOiJIUzI1NiIs..."`
	RefreshToken string `json:"refresh" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// TelegramLoginResult is what the resolver hands back to the controller.
type TelegramLoginResult struct {
	Identity *entities.Identity
	Created  bool
	Tokens   TokenPair
}

// LoginResult is what the credential login hands back to the controller.
type LoginResult struct {
	Identity *entities.Identity
	Tokens   TokenPair
}

// TelegramLoginResponse is the 200 body of the chat-bot login.
type TelegramLoginResponse struct {
	Success bool            `json:"success" example:"true"`
	Created bool            `json:"created" example:"true"`
	User    IdentityProfile `json:"user"`
	Tokens  TokenPair       `json:"tokens"`
}

// LoginResponse is the 200 body of the credential login and registration.
type LoginResponse struct {
	Success bool            `json:"success" example:"true"`
	User    IdentityProfile `json:"user"`
	Tokens  TokenPair       `json:"tokens"`
}

// VerifyResponse answers a token check with the owner's profile.
type VerifyResponse struct {
	Valid bool            `json:"valid" example:"true"`
	User  IdentityProfile `json:"user"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error   string `json:"error" example:"invalid telegram authentication"`
	Details string `json:"details,omitempty"`
}

// MessageResponse acknowledges an operation without a payload.
type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"logged out"`
}

// IdentityProfile is the public view of an identity.
type IdentityProfile struct {
	ID          string     `json:"id" example:"123e4567-e89b-12d3-a456-426614174000"`
	Name        string     `json:"name" example:"Ali"`
	Username    string     `json:"username,omitempty" example:"ali_b"`
	PhoneNumber string     `json:"phone_number,omitempty" example:"998901234567"`
	Email       string     `json:"email" example:"tg_123456789@telegram.local"`
	Photo       string     `json:"photo,omitempty" example:"https://t.me/i/userpic/320/ali.jpg"`
	Role        enums.Role `json:"role" example:"client"`
	IsActive    bool       `json:"is_active" example:"true"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// NewIdentityProfile renders an identity for API responses.
func NewIdentityProfile(identity *entities.Identity) IdentityProfile {
	p := IdentityProfile{
		ID:          identity.ID,
		Name:        identity.DisplayName,
		Email:       identity.Email,
		Role:        identity.Role,
		IsActive:    identity.Active,
		LastLoginAt: identity.LastLoginAt,
		CreatedAt:   identity.CreatedAt,
	}
	if identity.Handle != nil {
		p.Username = *identity.Handle
	}
	if identity.Phone != nil {
		p.PhoneNumber = *identity.Phone
	}
	if identity.AvatarRef != nil {
		p.Photo = *identity.AvatarRef
	}
	return p
}
