package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
	"github.com/senado-bo/portal-api/internal/pkg/metrics"
)

const (
	defaultSearchLimit  = 20
	defaultRelatedLimit = 5
	autoRevisionComment = "automatic update"
)

// ContentService manages pages, news, articles and announcements.
type ContentService struct {
	repo  ports.ContentRepository
	views ports.ViewRecorder
	log   zerolog.Logger
	now   func() time.Time
}

// NewContentService wires the content service. With a nil views recorder each
// public read increments the counter inline.
func NewContentService(repo ports.ContentRepository, views ports.ViewRecorder, log zerolog.Logger) *ContentService {
	return &ContentService{repo: repo, views: views, log: log, now: func() time.Time { return time.Now().UTC() }}
}

func (s *ContentService) List(ctx context.Context, filter ports.ContentFilter, includeHidden bool) (domain.Page[*domain.Content], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	filter.VisibleAt = time.Time{}
	if !includeHidden {
		filter.VisibleAt = s.now()
	}
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.Content]{}, err
	}
	return domain.NewPage(items, total, filter.PageRequest), nil
}

func (s *ContentService) Get(ctx context.Context, id string) (*domain.Content, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySlug serves the public page: hidden items are reported as not found and
// each hit counts as a view.
func (s *ContentService) GetBySlug(ctx context.Context, slug string) (*domain.Content, error) {
	c, err := s.repo.FindBySlug(ctx, strings.ToLower(strings.TrimSpace(slug)))
	if err != nil {
		return nil, err
	}
	if !c.VisibleAt(s.now()) {
		return nil, domain.ErrContentNotFound
	}
	if s.views != nil {
		s.views.Record(c.ID, c.Type)
		c.Views++
		return c, nil
	}
	if err := s.repo.IncrementViews(ctx, c.ID); err != nil {
		s.log.Warn().Err(err).Str("content_id", c.ID).Msg("view count not recorded")
	} else {
		c.Views++
		metrics.ContentViewsTotal.WithLabelValues(string(c.Type)).Inc()
	}
	return c, nil
}

func (s *ContentService) Create(ctx context.Context, actor domain.Actor, in ports.ContentInput) (*domain.Content, error) {
	now := s.now()
	c := &domain.Content{
		Title:         strings.TrimSpace(in.Title),
		Slug:          strings.TrimSpace(in.Slug),
		Body:          in.Body,
		Excerpt:       in.Excerpt,
		Type:          in.Type,
		Category:      in.Category,
		Tags:          normalizeTags(in.Tags),
		Author:        in.Author,
		Status:        in.Status,
		Language:      in.Language,
		FeaturedImage: in.FeaturedImage,
		Gallery:       in.Gallery,
		Attachments:   in.Attachments,
		SEO:           in.SEO,
		PublishedAt:   in.PublishedAt,
		ScheduledFor:  in.ScheduledFor,
		ExpiresAt:     in.ExpiresAt,
		Revision:      1,
		CreatedBy:     actor.ID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if c.Slug == "" {
		c.Slug = domain.Slugify(c.Title)
	}
	applyContentDefaults(c)
	if err := validateContent(c); err != nil {
		return nil, err
	}
	c.StampPublication(now)

	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("content", "create").Inc()
	s.log.Info().Str("content_id", c.ID).Str("slug", c.Slug).Str("by", actor.ID).Msg("content created")
	return c, nil
}

// Update applies the patch, archiving the previous body in the bounded
// version history and bumping the revision.
func (s *ContentService) Update(ctx context.Context, actor domain.Actor, id string, p ports.ContentPatch) (*domain.Content, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	comment := p.Comment
	if comment == "" {
		comment = autoRevisionComment
	}
	c.PushRevision(actor.ID, now, comment)

	if p.Title != nil {
		c.Title = strings.TrimSpace(*p.Title)
	}
	if p.Slug != nil && strings.TrimSpace(*p.Slug) != "" {
		c.Slug = strings.TrimSpace(*p.Slug)
	}
	if p.Body != nil {
		c.Body = *p.Body
	}
	if p.Excerpt != nil {
		c.Excerpt = *p.Excerpt
	}
	if p.Type != nil {
		c.Type = *p.Type
	}
	if p.Category != nil {
		c.Category = *p.Category
	}
	if p.Tags != nil {
		c.Tags = normalizeTags(*p.Tags)
	}
	if p.Author != nil {
		c.Author = *p.Author
	}
	if p.Status != nil {
		c.Status = *p.Status
	}
	if p.Language != nil {
		c.Language = *p.Language
	}
	if p.FeaturedImage != nil {
		c.FeaturedImage = p.FeaturedImage
	}
	if p.Gallery != nil {
		c.Gallery = *p.Gallery
	}
	if p.Attachments != nil {
		c.Attachments = *p.Attachments
	}
	if p.SEO != nil {
		c.SEO = *p.SEO
	}
	if p.PublishedAt != nil {
		c.PublishedAt = p.PublishedAt
	}
	if p.ScheduledFor != nil {
		c.ScheduledFor = p.ScheduledFor
	}
	if p.ExpiresAt != nil {
		c.ExpiresAt = p.ExpiresAt
	}

	if err := validateContent(c); err != nil {
		return nil, err
	}
	c.StampPublication(now)
	c.LastModifiedBy = actor.ID
	c.UpdatedAt = now

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("content", "update").Inc()
	s.log.Info().Str("content_id", c.ID).Int("revision", c.Revision).Str("by", actor.ID).Msg("content updated")
	return c, nil
}

func (s *ContentService) ChangeStatus(ctx context.Context, actor domain.Actor, id string, status domain.ContentStatus) (*domain.Content, error) {
	if !status.Valid() {
		return nil, domain.NewValidationError("status", "status must be one of: draft published archived scheduled")
	}
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	c.Status = status
	c.StampPublication(now)
	c.LastModifiedBy = actor.ID
	c.UpdatedAt = now

	if err := s.repo.Update(ctx, c); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("content", "status").Inc()
	s.log.Info().Str("content_id", c.ID).Str("status", string(status)).Str("by", actor.ID).Msg("content status changed")
	return c, nil
}

func (s *ContentService) Delete(ctx context.Context, actor domain.Actor, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("content", "delete").Inc()
	s.log.Info().Str("content_id", id).Str("by", actor.ID).Msg("content deleted")
	return nil
}

func (s *ContentService) Stats(ctx context.Context) (*domain.ContentStats, error) {
	return s.repo.Stats(ctx)
}

// Search returns visible items matching the query.
func (s *ContentService) Search(ctx context.Context, query string, limit int) ([]*domain.Content, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.NewValidationError("q", "search query is required")
	}
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	page, err := s.List(ctx, ports.ContentFilter{
		PageRequest: domain.PageRequest{Page: 1, Limit: limit},
		Search:      query,
	}, false)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func (s *ContentService) Related(ctx context.Context, id string, limit int) ([]*domain.Content, error) {
	c, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if limit <= 0 || limit > domain.MaxPageSize {
		limit = defaultRelatedLimit
	}
	items, err := s.repo.Related(ctx, c, s.now(), limit)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Content{}
	}
	return items, nil
}

func applyContentDefaults(c *domain.Content) {
	if c.Type == "" {
		c.Type = domain.ContentPage
	}
	if c.Category == "" {
		c.Category = domain.DefaultContentCategory
	}
	if c.Status == "" {
		c.Status = domain.ContentDraft
	}
	if c.Language == "" {
		c.Language = domain.DefaultContentLanguage
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
}

func validateContent(c *domain.Content) error {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}

	if c.Title == "" {
		add("title", "title is required")
	} else if len([]rune(c.Title)) > 200 {
		add("title", "title must be at most 200 characters")
	}
	if !domain.ValidSlug(c.Slug) {
		add("slug", "slug must contain only lowercase letters, numbers and dashes")
	}
	if strings.TrimSpace(c.Body) == "" {
		add("body", "body is required")
	}
	if len([]rune(c.Excerpt)) > 300 {
		add("excerpt", "excerpt must be at most 300 characters")
	}
	if strings.TrimSpace(c.Author) == "" {
		add("author", "author is required")
	}
	if !c.Type.Valid() {
		add("type", "type is not recognized")
	}
	if !c.Status.Valid() {
		add("status", "status is not recognized")
	}
	if !contains(domain.ContentCategories, c.Category) {
		add("category", "category is not recognized")
	}
	if !contains(domain.ContentLanguages, c.Language) {
		add("language", "language must be one of: es qu ay")
	}
	if len([]rune(c.SEO.Title)) > 60 {
		add("seo.title", "seo title must be at most 60 characters")
	}
	if len([]rune(c.SEO.Description)) > 160 {
		add("seo.description", "seo description must be at most 160 characters")
	}
	if c.ExpiresAt != nil && c.PublishedAt != nil && !c.ExpiresAt.After(*c.PublishedAt) {
		add("expires_at", "expires_at must be after published_at")
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func normalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

// isNotFound reports whether err is any resource not-found.
func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
