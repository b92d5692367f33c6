package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

// SuperAdminConfig names the identity provisioned on first boot.
type SuperAdminConfig struct {
	Email    string
	Password string
}

// BootstrapResult reports what EnsureSuperAdmin did.
type BootstrapResult string

const (
	BootstrapCreated BootstrapResult = "created"
	BootstrapExisted BootstrapResult = "existing"
	BootstrapSkipped BootstrapResult = "skipped"
)

// EnsureSuperAdmin creates the configured super-admin if no identity with that
// email exists. It never modifies an existing identity, so it is safe to run
// on every start.
func EnsureSuperAdmin(
	ctx context.Context,
	users ports.UserRepository,
	hasher ports.PasswordHasher,
	cfg SuperAdminConfig,
	log zerolog.Logger,
) (BootstrapResult, error) {
	email := domain.NormalizeEmail(cfg.Email)
	if email == "" || cfg.Password == "" {
		log.Warn().Msg("super admin credentials not configured, bootstrap skipped")
		return BootstrapSkipped, nil
	}

	existing, err := users.FindByEmail(ctx, email)
	if err == nil {
		if existing.Role != domain.RoleSuperAdmin {
			log.Warn().Str("user_id", existing.ID).Str("role", string(existing.Role)).Msg("bootstrap email belongs to a non super admin identity")
		}
		return BootstrapExisted, nil
	}
	if !errors.Is(err, domain.ErrUserNotFound) {
		return "", fmt.Errorf("bootstrap lookup: %w", err)
	}

	hash, err := hasher.Hash(cfg.Password)
	if err != nil {
		return "", fmt.Errorf("bootstrap hash: %w", err)
	}
	now := time.Now().UTC()
	admin := &domain.User{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleSuperAdmin,
		Status:       domain.StatusActive,
		Profile: domain.Profile{
			FirstName: "Super",
			LastName:  "Administrador",
		},
		PasswordChangedAt: &now,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := users.Create(ctx, admin); err != nil {
		// Another instance won the race.
		if errors.Is(err, domain.ErrDuplicateEmail) {
			return BootstrapExisted, nil
		}
		return "", fmt.Errorf("bootstrap create: %w", err)
	}

	log.Info().Str("user_id", admin.ID).Str("email", admin.Email).Msg("super admin provisioned")
	return BootstrapCreated, nil
}
