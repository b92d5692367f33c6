package ports

import (
	"context"
	"time"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

// TokenClass separates short-lived access tokens from long-lived refresh tokens.
// Each class is signed with its own secret.
type TokenClass string

const (
	AccessToken  TokenClass = "access"
	RefreshToken TokenClass = "refresh"
)

// TokenClaims is the verified content of a bearer token.
type TokenClaims struct {
	Subject   string     `json:"sub"`
	ID        string     `json:"jti"`
	Class     TokenClass `json:"typ"`
	IssuedAt  time.Time  `json:"iat"`
	ExpiresAt time.Time  `json:"exp"`
}

// IssuedToken is a freshly signed token and its identifiers.
type IssuedToken struct {
	Token     string
	ID        string
	ExpiresAt time.Time
}

// PasswordHasher hashes and verifies passwords. Verify never errors on a
// mismatch; it reports false.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

// TokenIssuer signs and verifies bearer tokens.
// Verify returns domain.ErrExpiredToken for an expired but otherwise valid
// token and domain.ErrInvalidToken for everything else.
type TokenIssuer interface {
	Issue(subject string, class TokenClass) (IssuedToken, error)
	Verify(token string, class TokenClass) (*TokenClaims, error)
	TTL(class TokenClass) time.Duration
}

// TokenDenylist records access tokens revoked before their expiry.
type TokenDenylist interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Principal is the authenticated caller resolved by the authorization gate.
type Principal struct {
	User   *domain.User
	Token  string
	Claims *TokenClaims
}

// Actor returns the audit identity of the principal.
func (p *Principal) Actor() domain.Actor {
	return domain.Actor{ID: p.User.ID, Role: p.User.Role}
}
