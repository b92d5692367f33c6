package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

// UserHandler serves identity administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type createUserRequest struct {
	Email    string         `json:"email"    validate:"required,email"`
	Password string         `json:"password" validate:"required,strongpassword"`
	Role     domain.Role    `json:"role"     validate:"required,oneof=SUPER_ADMIN ADMIN EDITOR MODERATOR VIEWER CITIZEN"`
	Status   domain.Status  `json:"status"   validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING LOCKED"`
	Profile  domain.Profile `json:"profile"`
}

type updateUserRequest struct {
	Profile *domain.Profile `json:"profile"`
	Role    *domain.Role    `json:"role"   validate:"omitempty,oneof=SUPER_ADMIN ADMIN EDITOR MODERATOR VIEWER CITIZEN"`
	Status  *domain.Status  `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE SUSPENDED PENDING LOCKED"`
}

// Create provisions an identity with an explicit role.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createUserRequest  true  "User"
// @Success      201   {object}  Envelope{data=domain.User}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      409   {object}  Envelope
// @Router       /api/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req createUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Create(c.Request().Context(), a, ports.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Status:   req.Status,
		Profile:  req.Profile,
	})
	if err != nil {
		return err
	}
	return created(c, user, "user created")
}

// List returns a page of identities.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        page    query     int     false  "Page"
// @Param        limit   query     int     false  "Page size"
// @Param        role    query     string  false  "Role"
// @Param        status  query     string  false  "Status"
// @Param        search  query     string  false  "Email or name"
// @Success      200     {object}  Envelope
// @Failure      403     {object}  Envelope
// @Router       /api/users [get]
func (h *UserHandler) List(c echo.Context) error {
	page, err := pageQuery(c)
	if err != nil {
		return err
	}
	result, err := h.service.List(c.Request().Context(), ports.UserFilter{
		PageRequest: page,
		Role:        domain.Role(c.QueryParam("role")),
		Status:      domain.Status(c.QueryParam("status")),
		Search:      c.QueryParam("search"),
	})
	if err != nil {
		return err
	}
	return ok(c, pageResponse("users", result))
}

// Get returns one identity.
//
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Envelope{data=domain.User}
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	user, err := h.service.Get(c.Request().Context(), a, c.Param("id"))
	if err != nil {
		return err
	}
	return ok(c, user)
}

// Update patches profile, role or status.
//
// @Summary      Update a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string             true  "User ID"
// @Param        body  body      updateUserRequest  true  "Fields to change"
// @Success      200   {object}  Envelope{data=domain.User}
// @Failure      400   {object}  Envelope
// @Failure      403   {object}  Envelope
// @Failure      404   {object}  Envelope
// @Router       /api/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req updateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := h.service.Update(c.Request().Context(), a, c.Param("id"), ports.UserPatch{
		Profile: req.Profile,
		Role:    req.Role,
		Status:  req.Status,
	})
	if err != nil {
		return err
	}
	return ok(c, user)
}

// Delete removes an identity.
//
// @Summary      Delete a user
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User ID"
// @Success      200  {object}  Envelope
// @Failure      400  {object}  Envelope
// @Failure      403  {object}  Envelope
// @Failure      404  {object}  Envelope
// @Router       /api/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), a, c.Param("id")); err != nil {
		return err
	}
	return message(c, "user deleted")
}
