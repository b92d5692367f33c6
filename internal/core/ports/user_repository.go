package ports

import (
	"context"
	"time"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

// UserFilter carries the query parameters for listing identities.
type UserFilter struct {
	domain.PageRequest
	Role   domain.Role
	Status domain.Status
	Search string // partial match on email, first or last name
}

// UserRepository is the credential store.
type UserRepository interface {
	// Create inserts the user and sets its ID. A taken email yields domain.ErrDuplicateEmail.
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	// FindByEmail looks the user up by normalized email.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context, filter UserFilter) ([]*domain.User, int64, error)
	// Update persists role, status and profile.
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error

	// RecordLoginFailure increments the failure counter and sets lock-until
	// once the policy threshold is reached, in a single atomic update. A
	// failure after an elapsed lock restarts the count at one.
	RecordLoginFailure(ctx context.Context, id string, at time.Time, policy domain.LockoutPolicy) (*domain.User, error)
	// RecordLoginSuccess resets the counter, clears the lock, stamps the last
	// login and stores the refresh token hash in one update.
	RecordLoginSuccess(ctx context.Context, id string, at time.Time, refreshHash string) error
	// SetRefreshTokenHash replaces the stored hash; an empty hash clears it.
	SetRefreshTokenHash(ctx context.Context, id, hash string) error
	// UpdatePassword stores the new hash and history and clears the refresh hash.
	UpdatePassword(ctx context.Context, id, hash string, history []string, at time.Time) error
}
