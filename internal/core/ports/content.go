package ports

import (
	"context"
	"time"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

// ContentFilter carries the list query for content.
type ContentFilter struct {
	domain.PageRequest
	Type     string
	Category string
	Status   string
	Language string
	Tag      string
	Search   string // partial match on title, excerpt, body and tags
	From     *time.Time
	To       *time.Time

	// VisibleAt restricts the listing to items publicly visible at that time.
	// Zero means no restriction.
	VisibleAt time.Time
}

type ContentRepository interface {
	// Create inserts the item and sets its ID. A taken slug yields domain.ErrDuplicateKey.
	Create(ctx context.Context, c *domain.Content) error
	FindByID(ctx context.Context, id string) (*domain.Content, error)
	FindBySlug(ctx context.Context, slug string) (*domain.Content, error)
	List(ctx context.Context, filter ContentFilter) ([]*domain.Content, int64, error)
	Update(ctx context.Context, c *domain.Content) error
	Delete(ctx context.Context, id string) error
	IncrementViews(ctx context.Context, id string) error
	Stats(ctx context.Context) (*domain.ContentStats, error)
	// Related returns visible items sharing the category, a tag, or the type.
	Related(ctx context.Context, c *domain.Content, now time.Time, limit int) ([]*domain.Content, error)
}

// ViewRecorder counts public views asynchronously.
type ViewRecorder interface {
	Record(contentID string, contentType domain.ContentType)
}

type ContentInput struct {
	Title         string
	Slug          string
	Body          string
	Excerpt       string
	Type          domain.ContentType
	Category      string
	Tags          []string
	Author        string
	Status        domain.ContentStatus
	Language      string
	FeaturedImage *domain.Image
	Gallery       []domain.Image
	Attachments   []domain.Attachment
	SEO           domain.SEO
	PublishedAt   *time.Time
	ScheduledFor  *time.Time
	ExpiresAt     *time.Time
}

// ContentPatch lists the mutable content fields. Nil means unchanged.
type ContentPatch struct {
	Title         *string
	Slug          *string
	Body          *string
	Excerpt       *string
	Type          *domain.ContentType
	Category      *string
	Tags          *[]string
	Author        *string
	Status        *domain.ContentStatus
	Language      *string
	FeaturedImage *domain.Image
	Gallery       *[]domain.Image
	Attachments   *[]domain.Attachment
	SEO           *domain.SEO
	PublishedAt   *time.Time
	ScheduledFor  *time.Time
	ExpiresAt     *time.Time
	Comment       string
}

type ContentService interface {
	// List applies public visibility unless includeHidden is set.
	List(ctx context.Context, filter ContentFilter, includeHidden bool) (domain.Page[*domain.Content], error)
	Get(ctx context.Context, id string) (*domain.Content, error)
	// GetBySlug returns a visible item and counts the view.
	GetBySlug(ctx context.Context, slug string) (*domain.Content, error)
	Create(ctx context.Context, actor domain.Actor, input ContentInput) (*domain.Content, error)
	Update(ctx context.Context, actor domain.Actor, id string, patch ContentPatch) (*domain.Content, error)
	ChangeStatus(ctx context.Context, actor domain.Actor, id string, status domain.ContentStatus) (*domain.Content, error)
	Delete(ctx context.Context, actor domain.Actor, id string) error
	Stats(ctx context.Context) (*domain.ContentStats, error)
	Search(ctx context.Context, query string, limit int) ([]*domain.Content, error)
	Related(ctx context.Context, id string, limit int) ([]*domain.Content, error)
}
