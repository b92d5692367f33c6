package ports

import (
	"context"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

type TabCategoryRepository interface {
	// Create inserts the category. A taken category_id yields domain.ErrDuplicateKey.
	Create(ctx context.Context, c *domain.TabCategory) error
	FindByCategoryID(ctx context.Context, categoryID string) (*domain.TabCategory, error)
	// List returns categories sorted by order; inactive ones only when asked.
	List(ctx context.Context, includeInactive bool) ([]*domain.TabCategory, error)
	Update(ctx context.Context, c *domain.TabCategory) error
	Delete(ctx context.Context, categoryID string) error
}

type TabLinkFilter struct {
	domain.PageRequest
	CategoryID string
	IsActive   *bool
	Search     string // partial match on title, description and path
}

type TabLinkRepository interface {
	// Create inserts the link. A taken link_id yields domain.ErrDuplicateKey.
	Create(ctx context.Context, l *domain.TabLink) error
	FindByLinkID(ctx context.Context, linkID string) (*domain.TabLink, error)
	List(ctx context.Context, filter TabLinkFilter) ([]*domain.TabLink, int64, error)
	// ListActive returns every active link sorted by category and order.
	ListActive(ctx context.Context) ([]*domain.TabLink, error)
	// CountActive groups active link counts by category_id.
	CountActive(ctx context.Context) (map[string]int64, error)
	Update(ctx context.Context, l *domain.TabLink) error
	Delete(ctx context.Context, linkID string) error
	// DeleteByCategory removes every link of the category and returns how many.
	DeleteByCategory(ctx context.Context, categoryID string) (int64, error)
	// Reorder sets order = position*step for the given links of a category in
	// one bulk write and returns how many were modified.
	Reorder(ctx context.Context, categoryID string, positions []domain.LinkPosition, step int) (int64, error)
}

type TabCategoryInput struct {
	CategoryID  string
	Name        string
	Description string
	Order       int
	Color       string
	Icon        string
	IsActive    *bool
}

type TabCategoryPatch struct {
	Name        *string
	Description *string
	Order       *int
	Color       *string
	Icon        *string
	IsActive    *bool
}

type TabLinkInput struct {
	CategoryID      string
	AreaTitle       string
	AreaDescription string
	LinkID          string
	Title           string
	Description     string
	Icon            string
	Path            string
	Order           int
}

type TabLinkPatch struct {
	AreaTitle       *string
	AreaDescription *string
	Title           *string
	Description     *string
	Icon            *string
	Path            *string
	Order           *int
	IsActive        *bool
}

type TabService interface {
	Tree(ctx context.Context) (*domain.TabsTree, error)
	CategoryLinks(ctx context.Context, categoryID string) ([]*domain.TabLink, error)
	ListCategories(ctx context.Context, includeInactive bool) ([]*domain.TabCategory, error)
	GetCategory(ctx context.Context, categoryID string) (*domain.TabCategory, error)
	CreateCategory(ctx context.Context, actor domain.Actor, input TabCategoryInput) (*domain.TabCategory, error)
	UpdateCategory(ctx context.Context, actor domain.Actor, categoryID string, patch TabCategoryPatch) (*domain.TabCategory, error)
	DeleteCategory(ctx context.Context, actor domain.Actor, categoryID string) (domain.DeleteOutcome, error)
	ListLinks(ctx context.Context, filter TabLinkFilter) (domain.Page[*domain.TabLink], error)
	GetLink(ctx context.Context, linkID string) (*domain.TabLink, error)
	CreateLink(ctx context.Context, actor domain.Actor, input TabLinkInput) (*domain.TabLink, error)
	UpdateLink(ctx context.Context, actor domain.Actor, linkID string, patch TabLinkPatch) (*domain.TabLink, error)
	DeleteLink(ctx context.Context, actor domain.Actor, linkID string) error
	ReorderLinks(ctx context.Context, actor domain.Actor, categoryID string, positions []domain.LinkPosition) (int64, error)
}
