package security

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

// TokenConfig holds the signing material for both token classes.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

// Claims is the JWT payload. Typ pins the token class so a refresh token can
// never pass as an access token even if secrets were ever shared.
type Claims struct {
	Typ ports.TokenClass `json:"typ"`
	jwt.RegisteredClaims
}

// JWTIssuer issues and verifies HS256 tokens with one secret per class.
type JWTIssuer struct {
	cfg TokenConfig
	now func() time.Time
}

func NewJWTIssuer(cfg TokenConfig) *JWTIssuer {
	return &JWTIssuer{cfg: cfg, now: time.Now}
}

func (i *JWTIssuer) TTL(class ports.TokenClass) time.Duration {
	if class == ports.RefreshToken {
		return i.cfg.RefreshTTL
	}
	return i.cfg.AccessTTL
}

func (i *JWTIssuer) secret(class ports.TokenClass) []byte {
	if class == ports.RefreshToken {
		return []byte(i.cfg.RefreshSecret)
	}
	return []byte(i.cfg.AccessSecret)
}

func (i *JWTIssuer) Issue(subject string, class ports.TokenClass) (ports.IssuedToken, error) {
	now := i.now()
	exp := now.Add(i.TTL(class))
	jti := uuid.NewString()

	claims := Claims{
		Typ: class,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			Issuer:    i.cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	if i.cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{i.cfg.Audience}
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(i.secret(class))
	if err != nil {
		return ports.IssuedToken{}, fmt.Errorf("sign %s token: %w", class, err)
	}
	return ports.IssuedToken{Token: signed, ID: jti, ExpiresAt: exp}, nil
}

func (i *JWTIssuer) Verify(token string, class ports.TokenClass) (*ports.TokenClaims, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	}
	if i.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(i.cfg.Issuer))
	}
	if i.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(i.cfg.Audience))
	}

	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return i.secret(class), nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ErrExpiredToken
		}
		return nil, domain.ErrInvalidToken
	}
	if claims.Typ != class || claims.Subject == "" {
		return nil, domain.ErrInvalidToken
	}

	out := &ports.TokenClaims{
		Subject: claims.Subject,
		ID:      claims.ID,
		Class:   claims.Typ,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}
