package security

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

func newTestIssuer(now time.Time) *JWTIssuer {
	i := NewJWTIssuer(TokenConfig{
		AccessSecret:  strings.Repeat("a", 32),
		RefreshSecret: strings.Repeat("r", 32),
		AccessTTL:     15 * time.Minute,
		RefreshTTL:    30 * 24 * time.Hour,
		Issuer:        "senado-api",
		Audience:      "senado-client",
	})
	i.now = func() time.Time { return now }
	return i
}

func TestJWTIssuer_IssueAndVerify(t *testing.T) {
	now := time.Now()
	i := newTestIssuer(now)

	tok, err := i.Issue("user-1", ports.AccessToken)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if tok.ID == "" {
		t.Fatalf("expected a token id")
	}
	if !tok.ExpiresAt.Equal(now.Add(15 * time.Minute)) {
		t.Fatalf("unexpected expiry %v", tok.ExpiresAt)
	}

	claims, err := i.Verify(tok.Token, ports.AccessToken)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Subject != "user-1" || claims.ID != tok.ID || claims.Class != ports.AccessToken {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestJWTIssuer_UniqueTokenIDs(t *testing.T) {
	i := newTestIssuer(time.Now())
	a, _ := i.Issue("user-1", ports.AccessToken)
	b, _ := i.Issue("user-1", ports.AccessToken)
	if a.ID == b.ID || a.Token == b.Token {
		t.Fatalf("expected distinct tokens")
	}
}

func TestJWTIssuer_ExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-time.Hour)
	i := newTestIssuer(issuedAt)
	tok, err := i.Issue("user-1", ports.AccessToken)
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	i.now = time.Now
	_, err = i.Verify(tok.Token, ports.AccessToken)
	if !errors.Is(err, domain.ErrExpiredToken) {
		t.Fatalf("expected ErrExpiredToken, got %v", err)
	}
}

func TestJWTIssuer_ClassesAreIndependentlyKeyed(t *testing.T) {
	i := newTestIssuer(time.Now())

	refresh, _ := i.Issue("user-1", ports.RefreshToken)
	if _, err := i.Verify(refresh.Token, ports.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("refresh token accepted as access token: %v", err)
	}

	access, _ := i.Issue("user-1", ports.AccessToken)
	if _, err := i.Verify(access.Token, ports.RefreshToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("access token accepted as refresh token: %v", err)
	}
}

func TestJWTIssuer_InvalidTokens(t *testing.T) {
	i := newTestIssuer(time.Now())
	good, _ := i.Issue("user-1", ports.AccessToken)

	other := newTestIssuer(time.Now())
	other.cfg.AccessSecret = strings.Repeat("z", 32)
	foreign, _ := other.Issue("user-1", ports.AccessToken)

	cases := map[string]string{
		"empty":      "",
		"garbage":    "not-a-token",
		"tampered":   good.Token[:len(good.Token)-2] + "xx",
		"bad secret": foreign.Token,
	}
	for name, tok := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := i.Verify(tok, ports.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
				t.Fatalf("expected ErrInvalidToken, got %v", err)
			}
		})
	}
}

func TestJWTIssuer_ExpiredWithBadSignatureIsInvalid(t *testing.T) {
	other := newTestIssuer(time.Now().Add(-time.Hour))
	other.cfg.AccessSecret = strings.Repeat("z", 32)
	stale, _ := other.Issue("user-1", ports.AccessToken)

	i := newTestIssuer(time.Now())
	if _, err := i.Verify(stale.Token, ports.AccessToken); !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
