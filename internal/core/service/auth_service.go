package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
	"github.com/senado-bo/portal-api/internal/pkg/metrics"
)

// AuthConfig tunes lockout, password and registration policy.
type AuthConfig struct {
	Lockout             domain.LockoutPolicy
	PasswordHistorySize int
	PasswordMaxAge      time.Duration
	// RequireActivation leaves self-registered identities PENDING and issues no tokens.
	RequireActivation bool
}

// AuthService implements registration, login, the refresh token lifecycle
// and password changes.
type AuthService struct {
	users    ports.UserRepository
	hasher   ports.PasswordHasher
	tokens   ports.TokenIssuer
	denylist ports.TokenDenylist
	cfg      AuthConfig
	log      zerolog.Logger
	now      func() time.Time

	decoyOnce sync.Once
	decoyHash string
}

// NewAuthService wires the identity service. denylist may be nil, in which
// case logout only clears the refresh token.
func NewAuthService(
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	tokens ports.TokenIssuer,
	denylist ports.TokenDenylist,
	cfg AuthConfig,
	log zerolog.Logger,
) *AuthService {
	if cfg.Lockout.MaxAttempts <= 0 {
		cfg.Lockout.MaxAttempts = 5
	}
	if cfg.Lockout.LockDuration <= 0 {
		cfg.Lockout.LockDuration = 30 * time.Minute
	}
	if cfg.PasswordHistorySize < 0 {
		cfg.PasswordHistorySize = 0
	}
	return &AuthService{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		denylist: denylist,
		cfg:      cfg,
		log:      log,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*ports.AuthResult, error) {
	email := domain.NormalizeEmail(in.Email)
	var missing []domain.FieldError
	if email == "" {
		missing = append(missing, domain.FieldError{Field: "email", Message: "email is required"})
	}
	if in.Password == "" {
		missing = append(missing, domain.FieldError{Field: "password", Message: "password is required"})
	}
	if len(missing) > 0 {
		return nil, &domain.ValidationError{Fields: missing}
	}

	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}

	now := s.now()
	status := domain.StatusActive
	if s.cfg.RequireActivation {
		status = domain.StatusPending
	}
	user := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleCitizen,
		Status:       status,
		Profile: domain.Profile{
			FirstName: in.FirstName,
			LastName:  in.LastName,
			CI:        in.CI,
			Phone:     in.Phone,
		},
		PasswordChangedAt: &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// The store's unique index is authoritative if two registrations race.
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("user", "create").Inc()
	s.log.Info().Str("user_id", user.ID).Str("status", string(user.Status)).Msg("identity registered")

	result := &ports.AuthResult{User: user}
	if user.Status != domain.StatusActive {
		return result, nil
	}

	pair, refreshHash, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RecordLoginSuccess(ctx, user.ID, now, refreshHash); err != nil {
		return nil, err
	}
	user.LastLogin = &now
	result.Tokens = pair
	return result, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	email = domain.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Burn the same hashing time as a real comparison.
			s.hasher.Verify(password, s.decoy())
			s.loginRejected("", "unknown_email")
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if !user.IsActive() {
		s.loginRejected(user.ID, "not_active")
		return nil, domain.ErrAccountNotActive
	}
	if user.IsLocked(now) {
		s.loginRejected(user.ID, "locked")
		return nil, domain.ErrAccountLocked
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		updated, err := s.users.RecordLoginFailure(ctx, user.ID, now, s.cfg.Lockout)
		if err != nil {
			return nil, err
		}
		s.loginRejected(user.ID, "bad_password")
		if updated.IsLocked(now) {
			metrics.AccountLockoutsTotal.Inc()
			s.log.Warn().
				Str("user_id", user.ID).
				Int("attempts", updated.LoginAttempts).
				Time("lock_until", *updated.LockUntil).
				Msg("account locked after repeated failures")
		}
		return nil, domain.ErrInvalidCredentials
	}

	pair, refreshHash, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.users.RecordLoginSuccess(ctx, user.ID, now, refreshHash); err != nil {
		return nil, err
	}

	user.LoginAttempts = 0
	user.LockUntil = nil
	user.LastLogin = &now
	user.RefreshTokenHash = refreshHash

	metrics.LoginAttemptsTotal.WithLabelValues("success").Inc()
	s.log.Info().Str("user_id", user.ID).Msg("login succeeded")

	return &ports.AuthResult{
		User:                   user,
		RequiresPasswordChange: user.PasswordExpired(now, s.cfg.PasswordMaxAge),
		Tokens:                 pair,
	}, nil
}

// Refresh exchanges a refresh token for a new access token. The refresh token
// must match the single hash stored for its subject.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.tokens.Verify(refreshToken, ports.RefreshToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnknownSubject
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrAccountNotActive
	}
	if !tokenHashMatches(refreshToken, user.RefreshTokenHash) {
		s.log.Warn().Str("user_id", user.ID).Msg("superseded refresh token presented")
		return nil, domain.ErrRevokedToken
	}

	access, err := s.tokens.Issue(user.ID, ports.AccessToken)
	if err != nil {
		return nil, err
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(ports.AccessToken)).Inc()

	return &ports.TokenPair{
		AccessToken: access.Token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.tokens.TTL(ports.AccessToken) / time.Second),
	}, nil
}

// Logout clears the stored refresh token and denylists the presented access
// token until it expires. A denylist failure is logged, not returned.
func (s *AuthService) Logout(ctx context.Context, p *ports.Principal) error {
	if p == nil || p.User == nil {
		return domain.ErrUnauthenticated
	}
	if err := s.users.SetRefreshTokenHash(ctx, p.User.ID, ""); err != nil {
		return err
	}

	if s.denylist != nil && p.Claims != nil && p.Claims.ID != "" {
		if err := s.denylist.Revoke(ctx, p.Claims.ID, p.Claims.ExpiresAt); err != nil {
			s.log.Warn().Err(err).Str("user_id", p.User.ID).Msg("access token denylist write failed")
		}
	}

	s.log.Info().Str("user_id", p.User.ID).Msg("logged out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// Validate checks an access token without resolving its subject.
func (s *AuthService) Validate(_ context.Context, token string) (*ports.TokenClaims, error) {
	return s.tokens.Verify(token, ports.AccessToken)
}

// ChangePassword re-hashes the password, keeps a bounded history of previous
// hashes and revokes the refresh token.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !s.hasher.Verify(current, user.PasswordHash) {
		return domain.ErrInvalidCredentials
	}

	if s.hasher.Verify(next, user.PasswordHash) {
		return domain.NewValidationError("new_password", "password was used recently")
	}
	for _, old := range user.PasswordHistory {
		if s.hasher.Verify(next, old) {
			return domain.NewValidationError("new_password", "password was used recently")
		}
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}

	history := append([]string{}, user.PasswordHistory...)
	if s.cfg.PasswordHistorySize > 0 {
		history = append(history, user.PasswordHash)
		if n := len(history); n > s.cfg.PasswordHistorySize {
			history = history[n-s.cfg.PasswordHistorySize:]
		}
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash, history, s.now()); err != nil {
		return err
	}
	s.log.Info().Str("user_id", user.ID).Msg("password changed")
	return nil
}

func (s *AuthService) issuePair(userID string) (*ports.TokenPair, string, error) {
	access, err := s.tokens.Issue(userID, ports.AccessToken)
	if err != nil {
		return nil, "", fmt.Errorf("issue access token: %w", err)
	}
	refresh, err := s.tokens.Issue(userID, ports.RefreshToken)
	if err != nil {
		return nil, "", fmt.Errorf("issue refresh token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues(string(ports.AccessToken)).Inc()
	metrics.TokensIssuedTotal.WithLabelValues(string(ports.RefreshToken)).Inc()

	return &ports.TokenPair{
		AccessToken:  access.Token,
		RefreshToken: refresh.Token,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.TTL(ports.AccessToken) / time.Second),
	}, hashToken(refresh.Token), nil
}

func (s *AuthService) loginRejected(userID, reason string) {
	metrics.LoginAttemptsTotal.WithLabelValues(reason).Inc()
	s.log.Warn().Str("user_id", userID).Str("reason", reason).Msg("login rejected")
}

// decoy returns a throwaway hash so unknown emails cost a real comparison.
func (s *AuthService) decoy() string {
	s.decoyOnce.Do(func() {
		h, err := s.hasher.Hash("decoy-password-never-matches")
		if err != nil {
			s.log.Warn().Err(err).Msg("decoy hash unavailable")
			return
		}
		s.decoyHash = h
	})
	return s.decoyHash
}
