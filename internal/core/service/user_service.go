package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
	"github.com/senado-bo/portal-api/internal/pkg/metrics"
)

// Role allow-lists for identity administration.
var (
	userManagers = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}
	userReaders  = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleEditor}
	// privilegedRoles may only be granted by a SUPER_ADMIN.
	privilegedRoles = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin}
)

// UserService administers identities on behalf of an authenticated actor.
type UserService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
	log    zerolog.Logger
	now    func() time.Time
}

func NewUserService(users ports.UserRepository, hasher ports.PasswordHasher, log zerolog.Logger) *UserService {
	return &UserService{
		users:  users,
		hasher: hasher,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (s *UserService) Create(ctx context.Context, actor domain.Actor, in ports.CreateUserInput) (*domain.User, error) {
	if !actor.Is(userManagers...) {
		return nil, domain.ErrForbidden
	}
	if !in.Role.Valid() {
		return nil, domain.NewValidationError("role", "role is not recognized")
	}
	if isPrivileged(in.Role) && actor.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}
	if in.Status == "" {
		in.Status = domain.StatusActive
	}
	if !in.Status.Valid() {
		return nil, domain.NewValidationError("status", "status is not recognized")
	}

	email := domain.NormalizeEmail(in.Email)
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
	user := &domain.User{
		Email:             email,
		PasswordHash:      hash,
		Role:              in.Role,
		Status:            in.Status,
		Profile:           in.Profile,
		PasswordChangedAt: &now,
		CreatedBy:         actor.ID,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	metrics.ResourceMutationsTotal.WithLabelValues("user", "create").Inc()
	s.log.Info().Str("user_id", user.ID).Str("role", string(user.Role)).Str("by", actor.ID).Msg("identity created")
	return user, nil
}

func (s *UserService) List(ctx context.Context, filter ports.UserFilter) (domain.Page[*domain.User], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.User]{}, err
	}
	return domain.NewPage(users, total, filter.PageRequest), nil
}

// Get returns the identity to itself or to a reader role.
func (s *UserService) Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error) {
	if actor.ID != id && !actor.Is(userReaders...) {
		return nil, domain.ErrForbidden
	}
	return s.users.FindByID(ctx, id)
}

// Update applies a patch. Subjects may edit their own profile; role and status
// changes need a manager, and privileged roles need a SUPER_ADMIN.
func (s *UserService) Update(ctx context.Context, actor domain.Actor, id string, patch ports.UserPatch) (*domain.User, error) {
	if actor.Role == domain.RoleViewer {
		return nil, domain.ErrForbidden
	}
	self := actor.ID == id
	manager := actor.Is(userManagers...)
	if !self && !manager {
		return nil, domain.ErrForbidden
	}

	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	// Only a SUPER_ADMIN may touch another privileged account.
	if !self && isPrivileged(user.Role) && actor.Role != domain.RoleSuperAdmin {
		return nil, domain.ErrForbidden
	}

	if patch.Profile != nil {
		user.Profile = *patch.Profile
	}
	if patch.Role != nil && *patch.Role != user.Role {
		if !manager {
			return nil, domain.ErrForbidden
		}
		if !patch.Role.Valid() {
			return nil, domain.NewValidationError("role", "role is not recognized")
		}
		if isPrivileged(*patch.Role) && actor.Role != domain.RoleSuperAdmin {
			return nil, domain.ErrForbidden
		}
		user.Role = *patch.Role
	}
	if patch.Status != nil && *patch.Status != user.Status {
		if !manager {
			return nil, domain.ErrForbidden
		}
		if !patch.Status.Valid() {
			return nil, domain.NewValidationError("status", "status is not recognized")
		}
		user.Status = *patch.Status
	}
	user.UpdatedAt = s.now()

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("user", "update").Inc()
	s.log.Info().Str("user_id", user.ID).Str("by", actor.ID).Msg("identity updated")
	return user, nil
}

// Delete hard-deletes an identity. SUPER_ADMIN only, and never oneself.
func (s *UserService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if actor.Role != domain.RoleSuperAdmin {
		return domain.ErrForbidden
	}
	if actor.ID == id {
		return domain.NewValidationError("id", "cannot delete your own account")
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("user", "delete").Inc()
	s.log.Info().Str("user_id", id).Str("by", actor.ID).Msg("identity deleted")
	return nil
}

func isPrivileged(r domain.Role) bool {
	for _, p := range privilegedRoles {
		if r == p {
			return true
		}
	}
	return false
}
