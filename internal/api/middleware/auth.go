package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
	"github.com/senado-bo/portal-api/internal/pkg/metrics"
)

const principalKey = "principal"

// SubjectFinder resolves the identity named by a token subject.
type SubjectFinder interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
}

// Gate authenticates bearer access tokens and attaches the principal to the
// echo context.
type Gate struct {
	tokens   ports.TokenIssuer
	users    SubjectFinder
	denylist ports.TokenDenylist
	log      zerolog.Logger
}

// NewGate builds the gate. denylist may be nil when Redis is disabled.
func NewGate(tokens ports.TokenIssuer, users SubjectFinder, denylist ports.TokenDenylist, log zerolog.Logger) *Gate {
	return &Gate{tokens: tokens, users: users, denylist: denylist, log: log}
}

// Authenticate rejects requests without a valid access token.
func (g *Gate) Authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, err := g.resolve(c)
			if err != nil {
				metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
				return err
			}
			c.Set(principalKey, principal)
			return next(c)
		}
	}
}

// Optional attaches a principal when a valid token is presented and otherwise
// lets the request through anonymously.
func (g *Gate) Optional() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if principal, err := g.resolve(c); err == nil {
				c.Set(principalKey, principal)
			}
			return next(c)
		}
	}
}

func (g *Gate) resolve(c echo.Context) (*ports.Principal, error) {
	raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
	if err != nil {
		return nil, err
	}

	claims, err := g.tokens.Verify(raw, ports.AccessToken)
	if err != nil {
		return nil, err
	}

	ctx := c.Request().Context()
	if g.denylist != nil {
		revoked, err := g.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			g.log.Warn().Err(err).Msg("denylist unavailable, token accepted")
		} else if revoked {
			return nil, domain.ErrRevokedToken
		}
	}

	user, err := g.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownSubject
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrAccountNotActive
	}

	return &ports.Principal{User: user, Token: raw, Claims: claims}, nil
}

// rejectionReason is the token_rejections_total label for a gate failure.
func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingToken):
		return "missing"
	case errors.Is(err, domain.ErrExpiredToken):
		return "expired"
	case errors.Is(err, domain.ErrRevokedToken):
		return "revoked"
	case errors.Is(err, domain.ErrUnknownSubject):
		return "unknown_subject"
	case errors.Is(err, domain.ErrAccountNotActive):
		return "not_active"
	case errors.Is(err, domain.ErrInvalidToken):
		return "invalid"
	}
	return "error"
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", domain.ErrMissingToken
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "bearer") || strings.TrimSpace(token) == "" {
		return "", domain.ErrInvalidToken
	}
	return strings.TrimSpace(token), nil
}

// PrincipalFrom returns the principal attached by the gate, if any.
func PrincipalFrom(c echo.Context) (*ports.Principal, bool) {
	p, ok := c.Get(principalKey).(*ports.Principal)
	return p, ok && p != nil
}
