package ports

import (
	"context"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

type CreateUserInput struct {
	Email    string
	Password string
	Role     domain.Role
	Status   domain.Status
	Profile  domain.Profile
}

// UserPatch holds the administratively mutable fields. Nil means unchanged.
type UserPatch struct {
	Profile *domain.Profile
	Role    *domain.Role
	Status  *domain.Status
}

type UserService interface {
	Create(ctx context.Context, actor domain.Actor, input CreateUserInput) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) (domain.Page[*domain.User], error)
	Get(ctx context.Context, actor domain.Actor, id string) (*domain.User, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch UserPatch) (*domain.User, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
}
