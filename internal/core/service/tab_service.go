package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
	"github.com/senado-bo/portal-api/internal/pkg/metrics"
)

// TabService manages the navigation tabs: categories and their links.
type TabService struct {
	categories ports.TabCategoryRepository
	links      ports.TabLinkRepository
	log        zerolog.Logger
	now        func() time.Time
}

func NewTabService(categories ports.TabCategoryRepository, links ports.TabLinkRepository, log zerolog.Logger) *TabService {
	return &TabService{
		categories: categories,
		links:      links,
		log:        log,
		now:        func() time.Time { return time.Now().UTC() },
	}
}

// Tree builds the public navigation structure from active categories and links.
func (s *TabService) Tree(ctx context.Context) (*domain.TabsTree, error) {
	cats, err := s.categories.List(ctx, false)
	if err != nil {
		return nil, err
	}
	links, err := s.links.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	tree := &domain.TabsTree{
		Tabs:  make([]domain.TabEntry, 0, len(cats)),
		Areas: make(map[string]domain.TabArea, len(cats)),
		Links: make(map[string][]domain.TabLinkRef, len(cats)),
	}
	for _, c := range cats {
		tree.Tabs = append(tree.Tabs, domain.TabEntry{ID: c.CategoryID, Label: c.Name, Icon: c.Icon, Color: c.Color})
		tree.Areas[c.CategoryID] = domain.TabArea{Title: c.Name, Description: c.Description, Color: c.Color}
		tree.Links[c.CategoryID] = []domain.TabLinkRef{}
	}
	for _, l := range links {
		refs, ok := tree.Links[l.CategoryID]
		if !ok {
			// link under an inactive or missing category
			continue
		}
		// The first link of a category carries the area heading.
		if len(refs) == 0 && l.AreaTitle != "" {
			area := tree.Areas[l.CategoryID]
			area.Title = l.AreaTitle
			if l.AreaDescription != "" {
				area.Description = l.AreaDescription
			}
			tree.Areas[l.CategoryID] = area
		}
		tree.Links[l.CategoryID] = append(refs, domain.TabLinkRef{
			ID:          l.LinkID,
			Title:       l.Title,
			Description: l.Description,
			Icon:        l.Icon,
			Path:        l.Path,
		})
	}
	return tree, nil
}

// CategoryLinks returns the active links of an active category.
func (s *TabService) CategoryLinks(ctx context.Context, categoryID string) ([]*domain.TabLink, error) {
	cat, err := s.categories.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if !cat.IsActive {
		return nil, domain.ErrTabCategoryNotFound
	}
	active := true
	links, _, err := s.links.List(ctx, ports.TabLinkFilter{
		PageRequest: domain.PageRequest{Page: 1, Limit: domain.MaxPageSize},
		CategoryID:  categoryID,
		IsActive:    &active,
	})
	if err != nil {
		return nil, err
	}
	if links == nil {
		links = []*domain.TabLink{}
	}
	return links, nil
}

// ListCategories returns categories with their active link counts.
func (s *TabService) ListCategories(ctx context.Context, includeInactive bool) ([]*domain.TabCategory, error) {
	cats, err := s.categories.List(ctx, includeInactive)
	if err != nil {
		return nil, err
	}
	counts, err := s.links.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range cats {
		c.LinksCount = counts[c.CategoryID]
	}
	return cats, nil
}

func (s *TabService) GetCategory(ctx context.Context, categoryID string) (*domain.TabCategory, error) {
	cat, err := s.categories.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	counts, err := s.links.CountActive(ctx)
	if err != nil {
		return nil, err
	}
	cat.LinksCount = counts[cat.CategoryID]
	return cat, nil
}

func (s *TabService) CreateCategory(ctx context.Context, actor domain.Actor, in ports.TabCategoryInput) (*domain.TabCategory, error) {
	now := s.now()
	cat := &domain.TabCategory{
		CategoryID:  strings.TrimSpace(in.CategoryID),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Order:       in.Order,
		Color:       in.Color,
		Icon:        in.Icon,
		IsActive:    true,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if cat.CategoryID == "" {
		cat.CategoryID = domain.Slugify(cat.Name)
	}
	if cat.Color == "" {
		cat.Color = domain.DefaultTabColor
	}
	if in.IsActive != nil {
		cat.IsActive = *in.IsActive
	}
	if err := validateCategory(cat); err != nil {
		return nil, err
	}

	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("tab_category", "create").Inc()
	s.log.Info().Str("category_id", cat.CategoryID).Str("by", actor.ID).Msg("tab category created")
	return cat, nil
}

func (s *TabService) UpdateCategory(ctx context.Context, actor domain.Actor, categoryID string, p ports.TabCategoryPatch) (*domain.TabCategory, error) {
	cat, err := s.categories.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		cat.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		cat.Description = *p.Description
	}
	if p.Order != nil {
		cat.Order = *p.Order
	}
	if p.Color != nil {
		cat.Color = *p.Color
	}
	if p.Icon != nil {
		cat.Icon = *p.Icon
	}
	if p.IsActive != nil {
		cat.IsActive = *p.IsActive
	}
	if err := validateCategory(cat); err != nil {
		return nil, err
	}
	cat.LastUpdatedBy = actor.ID
	cat.UpdatedAt = s.now()

	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("tab_category", "update").Inc()
	s.log.Info().Str("category_id", cat.CategoryID).Str("by", actor.ID).Msg("tab category updated")
	return cat, nil
}

// DeleteCategory deactivates a category that active links still reference.
// Otherwise the category and its inactive links are removed together, so no
// link is left pointing at a missing category.
func (s *TabService) DeleteCategory(ctx context.Context, actor domain.Actor, categoryID string) (domain.DeleteOutcome, error) {
	cat, err := s.categories.FindByCategoryID(ctx, categoryID)
	if err != nil {
		return "", err
	}
	counts, err := s.links.CountActive(ctx)
	if err != nil {
		return "", err
	}

	if counts[cat.CategoryID] > 0 {
		cat.IsActive = false
		cat.LastUpdatedBy = actor.ID
		cat.UpdatedAt = s.now()
		if err := s.categories.Update(ctx, cat); err != nil {
			return "", err
		}
		metrics.ResourceMutationsTotal.WithLabelValues("tab_category", "deactivate").Inc()
		s.log.Info().
			Str("category_id", cat.CategoryID).
			Int64("active_links", counts[cat.CategoryID]).
			Str("by", actor.ID).
			Msg("tab category deactivated")
		return domain.DeletedSoft, nil
	}

	if err := s.categories.Delete(ctx, cat.CategoryID); err != nil {
		return "", err
	}
	removed, err := s.links.DeleteByCategory(ctx, cat.CategoryID)
	if err != nil {
		s.log.Warn().Err(err).Str("category_id", cat.CategoryID).Msg("inactive links of deleted category not removed")
	}
	metrics.ResourceMutationsTotal.WithLabelValues("tab_category", "delete").Inc()
	s.log.Info().
		Str("category_id", cat.CategoryID).
		Int64("links_removed", removed).
		Str("by", actor.ID).
		Msg("tab category deleted")
	return domain.DeletedHard, nil
}

func (s *TabService) ListLinks(ctx context.Context, filter ports.TabLinkFilter) (domain.Page[*domain.TabLink], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	links, total, err := s.links.List(ctx, filter)
	if err != nil {
		return domain.Page[*domain.TabLink]{}, err
	}
	return domain.NewPage(links, total, filter.PageRequest), nil
}

func (s *TabService) GetLink(ctx context.Context, linkID string) (*domain.TabLink, error) {
	return s.links.FindByLinkID(ctx, linkID)
}

// CreateLink adds a link to an existing, active category.
func (s *TabService) CreateLink(ctx context.Context, actor domain.Actor, in ports.TabLinkInput) (*domain.TabLink, error) {
	cat, err := s.categories.FindByCategoryID(ctx, strings.TrimSpace(in.CategoryID))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.NewValidationError("category_id", "category does not exist")
		}
		return nil, err
	}
	if !cat.IsActive {
		return nil, domain.NewValidationError("category_id", "category is not active")
	}

	now := s.now()
	link := &domain.TabLink{
		CategoryID:      cat.CategoryID,
		AreaTitle:       in.AreaTitle,
		AreaDescription: in.AreaDescription,
		LinkID:          strings.TrimSpace(in.LinkID),
		Title:           strings.TrimSpace(in.Title),
		Description:     in.Description,
		Icon:            in.Icon,
		Path:            strings.TrimSpace(in.Path),
		Order:           in.Order,
		IsActive:        true,
		CreatedBy:       actor.ID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if link.LinkID == "" {
		link.LinkID = domain.Slugify(link.Title)
	}
	if err := validateLink(link); err != nil {
		return nil, err
	}

	if err := s.links.Create(ctx, link); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("tab_link", "create").Inc()
	s.log.Info().Str("link_id", link.LinkID).Str("category_id", link.CategoryID).Str("by", actor.ID).Msg("tab link created")
	return link, nil
}

func (s *TabService) UpdateLink(ctx context.Context, actor domain.Actor, linkID string, p ports.TabLinkPatch) (*domain.TabLink, error) {
	link, err := s.links.FindByLinkID(ctx, linkID)
	if err != nil {
		return nil, err
	}
	if p.AreaTitle != nil {
		link.AreaTitle = *p.AreaTitle
	}
	if p.AreaDescription != nil {
		link.AreaDescription = *p.AreaDescription
	}
	if p.Title != nil {
		link.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		link.Description = *p.Description
	}
	if p.Icon != nil {
		link.Icon = *p.Icon
	}
	if p.Path != nil {
		link.Path = strings.TrimSpace(*p.Path)
	}
	if p.Order != nil {
		link.Order = *p.Order
	}
	if p.IsActive != nil {
		link.IsActive = *p.IsActive
	}
	if err := validateLink(link); err != nil {
		return nil, err
	}
	link.LastUpdatedBy = actor.ID
	link.UpdatedAt = s.now()

	if err := s.links.Update(ctx, link); err != nil {
		return nil, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("tab_link", "update").Inc()
	s.log.Info().Str("link_id", link.LinkID).Str("by", actor.ID).Msg("tab link updated")
	return link, nil
}

// DeleteLink hard-deletes a link; links have no children.
func (s *TabService) DeleteLink(ctx context.Context, actor domain.Actor, linkID string) error {
	if err := s.links.Delete(ctx, linkID); err != nil {
		return err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("tab_link", "delete").Inc()
	s.log.Info().Str("link_id", linkID).Str("by", actor.ID).Msg("tab link deleted")
	return nil
}

// ReorderLinks spaces the given links ReorderStep apart in the requested order.
func (s *TabService) ReorderLinks(ctx context.Context, actor domain.Actor, categoryID string, positions []domain.LinkPosition) (int64, error) {
	if len(positions) == 0 {
		return 0, domain.NewValidationError("order", "order must list at least one link")
	}
	seen := make(map[string]struct{}, len(positions))
	for _, p := range positions {
		if p.LinkID == "" || p.Position < 0 {
			return 0, domain.NewValidationError("order", "each entry needs a link_id and a non-negative position")
		}
		if _, dup := seen[p.LinkID]; dup {
			return 0, domain.NewValidationError("order", "link "+p.LinkID+" is listed twice")
		}
		seen[p.LinkID] = struct{}{}
	}
	if _, err := s.categories.FindByCategoryID(ctx, categoryID); err != nil {
		return 0, err
	}

	n, err := s.links.Reorder(ctx, categoryID, positions, domain.ReorderStep)
	if err != nil {
		return 0, err
	}
	metrics.ResourceMutationsTotal.WithLabelValues("tab_link", "reorder").Inc()
	s.log.Info().Str("category_id", categoryID).Int64("modified", n).Str("by", actor.ID).Msg("tab links reordered")
	return n, nil
}

func validateCategory(c *domain.TabCategory) error {
	var fields []domain.FieldError
	if !domain.ValidSlug(c.CategoryID) {
		fields = append(fields, domain.FieldError{Field: "category_id", Message: "category_id must contain only lowercase letters, numbers and dashes"})
	}
	if c.Name == "" {
		fields = append(fields, domain.FieldError{Field: "name", Message: "name is required"})
	}
	if !domain.ValidColor(c.Color) {
		fields = append(fields, domain.FieldError{Field: "color", Message: "color must be a hex value like #e03735"})
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

func validateLink(l *domain.TabLink) error {
	var fields []domain.FieldError
	add := func(field, msg string) {
		fields = append(fields, domain.FieldError{Field: field, Message: msg})
	}
	if !domain.ValidSlug(l.LinkID) {
		add("link_id", "link_id must contain only lowercase letters, numbers and dashes")
	}
	if l.Title == "" {
		add("title", "title is required")
	}
	if strings.TrimSpace(l.Description) == "" {
		add("description", "description is required")
	}
	if strings.TrimSpace(l.Icon) == "" {
		add("icon", "icon is required")
	}
	if l.Path == "" {
		add("path", "path is required")
	}
	if strings.TrimSpace(l.AreaTitle) == "" {
		add("area_title", "area_title is required")
	}
	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}
