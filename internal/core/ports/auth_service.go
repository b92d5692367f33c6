package ports

import (
	"context"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	CI        string
	Phone     string
}

// TokenPair is returned on login and registration.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

// AuthResult is the identity summary plus the issued tokens, if any.
type AuthResult struct {
	User                   *domain.User
	RequiresPasswordChange bool
	Tokens                 *TokenPair
}

type AuthService interface {
	Register(ctx context.Context, input RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, principal *Principal) error
	Me(ctx context.Context, userID string) (*domain.User, error)
	Validate(ctx context.Context, token string) (*TokenClaims, error)
	ChangePassword(ctx context.Context, userID, current, next string) error
}
