package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

// TabHandler serves the navigation tabs: the public tree and the admin CMS.
type TabHandler struct {
	service ports.TabService
}

func NewTabHandler(service ports.TabService) *TabHandler {
	return &TabHandler{service: service}
}

type createCategoryRequest struct {
	CategoryID  string `json:"category_id" validate:"required,slug,max=50"`
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"max=300"`
	Order       int    `json:"order"       validate:"gte=0"`
	Color       string `json:"color"       validate:"omitempty,hexcolor"`
	Icon        string `json:"icon"`
	IsActive    *bool  `json:"is_active"`
}

type updateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,max=100"`
	Description *string `json:"description" validate:"omitempty,max=300"`
	Order       *int    `json:"order"       validate:"omitempty,gte=0"`
	Color       *string `json:"color"       validate:"omitempty,hexcolor"`
	Icon        *string `json:"icon"`
	IsActive    *bool   `json:"is_active"`
}

type createLinkRequest struct {
	CategoryID      string `json:"category_id"      validate:"required,slug"`
	AreaTitle       string `json:"area_title"       validate:"required,max=100"`
	AreaDescription string `json:"area_description" validate:"max=300"`
	LinkID          string `json:"link_id"          validate:"required,slug,max=50"`
	Title           string `json:"title"            validate:"required,max=100"`
	Description     string `json:"description"      validate:"required,max=300"`
	Icon            string `json:"icon"             validate:"required"`
	Path            string `json:"path"             validate:"required"`
	Order           int    `json:"order"            validate:"gte=0"`
}

type updateLinkRequest struct {
	AreaTitle       *string `json:"area_title"       validate:"omitempty,max=100"`
	AreaDescription *string `json:"area_description" validate:"omitempty,max=300"`
	Title           *string `json:"title"            validate:"omitempty,max=100"`
	Description     *string `json:"description"      validate:"omitempty,max=300"`
	Icon            *string `json:"icon"`
	Path            *string `json:"path"`
	Order           *int    `json:"order"            validate:"omitempty,gte=0"`
	IsActive        *bool   `json:"is_active"`
}

type reorderRequest struct {
	CategoryID string                `json:"category_id" validate:"required,slug"`
	Order      []domain.LinkPosition `json:"order"       validate:"required,min=1"`
}

// Tree returns the active navigation tree.
//
// @Summary      Navigation tree
// @Tags         tabs
// @Produce      json
// @Success      200  {object}  Envelope{data=domain.TabsTree}
// @Router       /api/tabs [get]
func (h *TabHandler) Tree(c echo.Context) error {
	tree, err := h.service.Tree(c.Request().Context())
	if err != nil {
		return err
	}
	return ok(c, tree)
}

// CategoryLinks returns the active links of one category.
//
// @Summary      Links of a category
// @Tags         tabs
// @Produce      json
// @Param        categoryId  path      string  true  "Category slug"
// @Success      200         {object}  Envelope
// @Failure      404         {object}  Envelope
// @Router       /api/tabs/{categoryId}/links [get]
func (h *TabHandler) CategoryLinks(c echo.Context) error {
	links, err := h.service.CategoryLinks(c.Request().Context(), c.Param("categoryId"))
	if err != nil {
		return err
	}
	return ok(c, links)
}

// Icons lists the icon gallery.
//
// @Summary      Icon gallery
// @Tags         tabs
// @Produce      json
// @Success      200  {object}  Envelope
// @Router       /api/tabs/icons [get]
func (h *TabHandler) Icons(c echo.Context) error {
	return ok(c, domain.TabIcons)
}

// ListCategories returns every category with its active link count.
//
// @Summary      List tab categories
// @Tags         tabs-admin
// @Produce      json
// @Security     BearerAuth
// @Param        include_inactive  query     bool  false  "Include inactive categories"
// @Success      200               {object}  Envelope
// @Router       /api/tabs/admin/categories [get]
func (h *TabHandler) ListCategories(c echo.Context) error {
	includeInactive, _ := strconv.ParseBool(c.QueryParam("include_inactive"))
	cats, err := h.service.ListCategories(c.Request().Context(), includeInactive)
	if err != nil {
		return err
	}
	return ok(c, cats)
}

// GetCategory returns one category.
//
// @Summary      Get tab category
// @Tags         tabs-admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category slug"
// @Success      200  {object}  Envelope{data=domain.TabCategory}
// @Failure      404  {object}  Envelope
// @Router       /api/tabs/admin/categories/{id} [get]
func (h *TabHandler) GetCategory(c echo.Context) error {
	cat, err := h.service.GetCategory(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, cat)
}

// CreateCategory adds a category.
//
// @Summary      Create tab category
// @Tags         tabs-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCategoryRequest  true  "Category"
// @Success      201   {object}  Envelope{data=domain.TabCategory}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/tabs/admin/categories [post]
func (h *TabHandler) CreateCategory(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.CreateCategory(c.Request().Context(), a, ports.TabCategoryInput{
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return created(c, cat, "category created")
}

// UpdateCategory patches a category. The category_id cannot change.
//
// @Summary      Update tab category
// @Tags         tabs-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                 true  "Category slug"
// @Param        body  body      updateCategoryRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.TabCategory}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/tabs/admin/categories/{id} [put]
func (h *TabHandler) UpdateCategory(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateCategoryRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	cat, err := h.service.UpdateCategory(c.Request().Context(), a, c.Param("id"), ports.TabCategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		Order:       req.Order,
		Color:       req.Color,
		Icon:        req.Icon,
		IsActive:    req.IsActive,
	})
	if err != nil {
		return err
	}
	return ok(c, cat)
}

// DeleteCategory deactivates a category that still has active links and
// deletes it otherwise.
//
// @Summary      Delete tab category
// @Tags         tabs-admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Category slug"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/tabs/admin/categories/{id} [delete]
func (h *TabHandler) DeleteCategory(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	outcome, err := h.service.DeleteCategory(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return err
	}
	msg := "category deleted"
	if outcome == domain.DeletedSoft {
		msg = "category deactivated because it still has active links"
	}
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: map[string]any{"outcome": outcome}, Message: msg})
}

// ListLinks returns a page of links.
//
// @Summary      List tab links
// @Tags         tabs-admin
// @Produce      json
// @Security     BearerAuth
// @Param        page         query     int     false  "Page"
// @Param        limit        query     int     false  "Page size"
// @Param        category_id  query     string  false  "Category slug"
// @Param        is_active    query     bool    false  "Active flag"
// @Param        search       query     string  false  "Title, description or path"
// @Success      200          {object}  Envelope
// @Router       /api/tabs/admin/links [get]
func (h *TabHandler) ListLinks(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	filter := ports.TabLinkFilter{
		PageRequest: page,
		CategoryID:  c.QueryParam("category_id"),
		Search:      c.QueryParam("search"),
	}
	if raw := c.QueryParam("is_active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return domain.NewValidationError("is_active", "is_active must be true or false")
		}
		filter.IsActive = &active
	}

	result, err := h.service.ListLinks(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return ok(c, pageResponse("links", result))
}

// GetLink returns one link.
//
// @Summary      Get tab link
// @Tags         tabs-admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Link slug"
// @Success      200  {object}  Envelope{data=domain.TabLink}
// @Failure      404  {object}  Envelope
// @Router       /api/tabs/admin/links/{id} [get]
func (h *TabHandler) GetLink(c echo.Context) error {
	link, err := h.service.GetLink(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, link)
}

// CreateLink adds a link to an active category.
//
// @Summary      Create tab link
// @Tags         tabs-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLinkRequest  true  "Link"
// @Success      201   {object}  Envelope{data=domain.TabLink}
// @Failure      400   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/tabs/admin/links [post]
func (h *TabHandler) CreateLink(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	link, err := h.service.CreateLink(c.Request().Context(), a, ports.TabLinkInput{
		CategoryID:      req.CategoryID,
		AreaTitle:       req.AreaTitle,
		AreaDescription: req.AreaDescription,
		LinkID:          req.LinkID,
		Title:           req.Title,
		Description:     req.Description,
		Icon:            req.Icon,
		Path:            req.Path,
		Order:           req.Order,
	})
	if err != nil {
		return err
	}
	return created(c, link, "link created")
}

// UpdateLink patches a link. link_id and category_id cannot change.
//
// @Summary      Update tab link
// @Tags         tabs-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "Link slug"
// @Param        body  body      updateLinkRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.TabLink}
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/tabs/admin/links/{id} [put]
func (h *TabHandler) UpdateLink(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateLinkRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	link, err := h.service.UpdateLink(c.Request().Context(), a, c.Param("id"), ports.TabLinkPatch{
		AreaTitle:       req.AreaTitle,
		AreaDescription: req.AreaDescription,
		Title:           req.Title,
		Description:     req.Description,
		Icon:            req.Icon,
		Path:            req.Path,
		Order:           req.Order,
		IsActive:        req.IsActive,
	})
	if err != nil {
		return err
	}
	return ok(c, link)
}

// DeleteLink removes a link.
//
// @Summary      Delete tab link
// @Tags         tabs-admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Link slug"
// @Success      200  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/tabs/admin/links/{id} [delete]
func (h *TabHandler) DeleteLink(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.DeleteLink(c.Request().Context(), a, c.Param("id")); err != nil {
		return err
	}
	return message(c, "link deleted")
}

// ReorderLinks sets the order of a category's links in one write.
//
// @Summary      Reorder tab links
// @Tags         tabs-admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      reorderRequest  true  "New positions"
// @Success      200   {object}  Envelope
// @Failure      400   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/tabs/admin/links/reorder [put]
func (h *TabHandler) ReorderLinks(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req reorderRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	modified, err := h.service.ReorderLinks(c.Request().Context(), a, req.CategoryID, req.Order)
	if err != nil {
		return err
	}
	return ok(c, map[string]any{"modified": modified})
}
