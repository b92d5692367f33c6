package handler

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/api/middleware"
	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

// contentEditors may see hidden items in listings.
var contentEditors = []domain.Role{domain.RoleSuperAdmin, domain.RoleAdmin, domain.RoleEditor}

type ContentHandler struct {
	service ports.ContentService
}

func NewContentHandler(service ports.ContentService) *ContentHandler {
	return &ContentHandler{service: service}
}

type createContentRequest struct {
	Title         string               `json:"title"    validate:"required,max=200"`
	Slug          string               `json:"slug"     validate:"omitempty,slug"`
	Body          string               `json:"body"     validate:"required"`
	Excerpt       string               `json:"excerpt"  validate:"max=300"`
	Type          domain.ContentType   `json:"type"     validate:"omitempty,oneof=page news article announcement"`
	Category      string               `json:"category"`
	Tags          []string             `json:"tags"`
	Author        string               `json:"author"   validate:"required"`
	Status        domain.ContentStatus `json:"status"   validate:"omitempty,oneof=draft published archived scheduled"`
	Language      string               `json:"language" validate:"omitempty,oneof=es qu ay"`
	FeaturedImage *domain.Image        `json:"featured_image"`
	Gallery       []domain.Image       `json:"gallery"`
	Attachments   []domain.Attachment  `json:"attachments"`
	SEO           domain.SEO           `json:"seo"`
	PublishedAt   *time.Time           `json:"published_at"`
	ScheduledFor  *time.Time           `json:"scheduled_for"`
	ExpiresAt     *time.Time           `json:"expires_at"`
}

type updateContentRequest struct {
	Title         *string               `json:"title"    validate:"omitempty,max=200"`
	Slug          *string               `json:"slug"     validate:"omitempty,slug"`
	Body          *string               `json:"body"`
	Excerpt       *string               `json:"excerpt"  validate:"omitempty,max=300"`
	Type          *domain.ContentType   `json:"type"     validate:"omitempty,oneof=page news article announcement"`
	Category      *string               `json:"category"`
	Tags          *[]string             `json:"tags"`
	Author        *string               `json:"author"`
	Status        *domain.ContentStatus `json:"status"   validate:"omitempty,oneof=draft published archived scheduled"`
	Language      *string               `json:"language" validate:"omitempty,oneof=es qu ay"`
	FeaturedImage *domain.Image         `json:"featured_image"`
	Gallery       *[]domain.Image       `json:"gallery"`
	Attachments   *[]domain.Attachment  `json:"attachments"`
	SEO           *domain.SEO           `json:"seo"`
	PublishedAt   *time.Time            `json:"published_at"`
	ScheduledFor  *time.Time            `json:"scheduled_for"`
	ExpiresAt     *time.Time            `json:"expires_at"`
	Comment       string                `json:"change_comment"`
}

type statusRequest struct {
	Status domain.ContentStatus `json:"status" validate:"required,oneof=draft published archived scheduled"`
}

// contentView adds the computed public URL.
type contentView struct {
	*domain.Content
	URL string `json:"url"`
}

func viewContent(c *domain.Content) contentView {
	return contentView{Content: c, URL: c.URL()}
}

func viewContents(items []*domain.Content) []contentView {
	out := make([]contentView, 0, len(items))
	for _, c := range items {
		out = append(out, viewContent(c))
	}
	return out
}

// List returns a page of content. Hidden items are included only for editors
// who ask with include_drafts=true.
//
// @Summary      List content
// @Tags         contents
// @Produce      json
// @Param        page            query     int     false  "Page"
// @Param        limit           query     int     false  "Page size"
// @Param        type            query     string  false  "Type"
// @Param        category        query     string  false  "Category"
// @Param        status          query     string  false  "Status"
// @Param        language        query     string  false  "Language"
// @Param        tag             query     string  false  "Tag"
// @Param        search          query     string  false  "Free text"
// @Param        from            query     string  false  "Published from (YYYY-MM-DD or RFC3339)"
// @Param        to              query     string  false  "Published to (YYYY-MM-DD or RFC3339)"
// @Param        include_drafts  query     bool    false  "Include hidden items (editors only)"
// @Success      200             {object}  Envelope
// @Failure      400             {object}  Envelope
// @Router       /api/contents [get]
func (h *ContentHandler) List(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	from, err := queryTime(c, "from")
	if err != nil {
		return err
	}
	to, err := queryTime(c, "to")
	if err != nil {
		return err
	}

	includeHidden := false
	if wants, _ := strconv.ParseBool(c.QueryParam("include_drafts")); wants {
		if p, ok := middleware.PrincipalFrom(c); ok && p.User.HasRole(contentEditors...) {
			includeHidden = true
		}
	}

	result, err := h.service.List(c.Request().Context(), ports.ContentFilter{
		PageRequest: page,
		Type:        c.QueryParam("type"),
		Category:    c.QueryParam("category"),
		Status:      c.QueryParam("status"),
		Language:    c.QueryParam("language"),
		Tag:         c.QueryParam("tag"),
		Search:      c.QueryParam("search"),
		From:        from,
		To:          to,
	}, includeHidden)
	if err != nil {
		return err
	}
	return ok(c, map[string]any{
		"contents": viewContents(result.Items),
		"total":    result.Total,
		"pages":    result.Pages,
		"page":     result.Page,
		"limit":    result.Limit,
	})
}

// Types lists the content types.
//
// @Summary      Content types
// @Tags         contents
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/contents/types [get]
func (h *ContentHandler) Types(c echo.Context) error {
	return ok(c, domain.ContentTypes)
}

// Categories lists the content categories.
//
// @Summary      Content categories
// @Tags         contents
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/contents/categories [get]
func (h *ContentHandler) Categories(c echo.Context) error {
	return ok(c, domain.ContentCategories)
}

// Search matches visible content.
//
// @Summary      Search content
// @Tags         contents
// @Produce      json
// @Param        q      query     string  true   "Query"
// @Param        limit  query     int     false  "Maximum results"
// @Success      200    {object}  Envelope
// @Failure      400    {object}  Envelope
// @Router       /api/contents/search [get]
func (h *ContentHandler) Search(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.service.Search(c.Request().Context(), c.QueryParam("q"), limit)
	if err != nil {
		return err
	}
	return ok(c, viewContents(items))
}

// GetBySlug serves a visible item by slug and counts the view.
//
// @Summary      Get content by slug
// @Tags         contents
// @Produce      json
// @Param        slug  path      string  true  "Slug"
// @Success      200   {object}  Envelope{data=contentView}
// @Failure      404   {object}  Envelope
// @Router       /api/contents/slug/{slug} [get]
func (h *ContentHandler) GetBySlug(c echo.Context) error {
	item, err := h.service.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return ok(c, viewContent(item))
}

// Get returns an item by id.
//
// @Summary      Get content
// @Tags         contents
// @Produce      json
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  Envelope{data=contentView}
// @Failure      404  {object}  Envelope
// @Router       /api/contents/{id} [get]
func (h *ContentHandler) Get(c echo.Context) error {
	item, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, viewContent(item))
}

// Related returns visible items close to the given one.
//
// @Summary      Related content
// @Tags         contents
// @Produce      json
// @Param        id     path      string  true   "Content ID"
// @Param        limit  query     int     false  "Maximum results"
// @Success      200    {object}  Envelope
// @Failure      404    {object}  Envelope
// @Router       /api/contents/{id}/related [get]
func (h *ContentHandler) Related(c echo.Context) error {
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	items, err := h.service.Related(c.Request().Context(), c.Param("id"), limit)
	if err != nil {
		return err
	}
	return ok(c, viewContents(items))
}

// Stats aggregates content counts.
//
// @Summary      Content statistics
// @Tags         contents
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  Envelope{data=domain.ContentStats}
// @Failure      403  {object}  Envelope
// @Router       /api/contents/stats [get]
func (h *ContentHandler) Stats(c echo.Context) error {
	stats, err := h.service.Stats(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, stats)
}

// Create adds a content item.
//
// @Summary      Create content
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createContentRequest  true  "Content"
// @Success      201   {object}  Envelope{data=contentView}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/contents [post]
func (h *ContentHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Create(c.Request().Context(), a, ports.ContentInput{
		Title:         req.Title,
		Slug:          req.Slug,
		Body:          req.Body,
		Excerpt:       req.Excerpt,
		Type:          req.Type,
		Category:      req.Category,
		Tags:          req.Tags,
		Author:        req.Author,
		Status:        req.Status,
		Language:      req.Language,
		FeaturedImage: req.FeaturedImage,
		Gallery:       req.Gallery,
		Attachments:   req.Attachments,
		SEO:           req.SEO,
		PublishedAt:   req.PublishedAt,
		ScheduledFor:  req.ScheduledFor,
		ExpiresAt:     req.ExpiresAt,
	})
	if err != nil {
		return err
	}
	return created(c, viewContent(item), "content created")
}

// Update patches a content item and records a revision.
//
// @Summary      Update content
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Content ID"
// @Param        body  body      updateContentRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=contentView}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/contents/{id} [put]
func (h *ContentHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateContentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.Update(c.Request().Context(), a, c.Param("id"), ports.ContentPatch{
		Title:         req.Title,
		Slug:          req.Slug,
		Body:          req.Body,
		Excerpt:       req.Excerpt,
		Type:          req.Type,
		Category:      req.Category,
		Tags:          req.Tags,
		Author:        req.Author,
		Status:        req.Status,
		Language:      req.Language,
		FeaturedImage: req.FeaturedImage,
		Gallery:       req.Gallery,
		Attachments:   req.Attachments,
		SEO:           req.SEO,
		PublishedAt:   req.PublishedAt,
		ScheduledFor:  req.ScheduledFor,
		ExpiresAt:     req.ExpiresAt,
		Comment:       req.Comment,
	})
	if err != nil {
		return err
	}
	return ok(c, viewContent(item))
}

// ChangeStatus moves an item through its publication lifecycle.
//
// @Summary      Change content status
// @Tags         contents
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string         true  "Content ID"
// @Param        body  body      statusRequest  true  "New status"
// @Success      200   {object}  Envelope{data=contentView}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/contents/{id}/status [patch]
func (h *ContentHandler) ChangeStatus(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req statusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	item, err := h.service.ChangeStatus(c.Request().Context(), a, c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	return ok(c, viewContent(item))
}

// Delete removes a content item.
//
// @Summary      Delete content
// @Tags         contents
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Content ID"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/contents/{id} [delete]
func (h *ContentHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), a, c.Param("id")); err != nil {
		return err
	}
	return message(c, "content deleted")
}

// queryTime parses a date or RFC3339 timestamp query parameter.
func queryTime(c echo.Context, name string) (*time.Time, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.RFC3339, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, domain.NewValidationError(name, name+" must be a date (YYYY-MM-DD) or an RFC3339 timestamp")
}
