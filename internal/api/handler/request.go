package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/api/middleware"
	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

// bindAndValidate decodes the body into req and runs the struct validator.
func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domain.NewValidationError("body", "invalid payload")
	}
	return c.Validate(req)
}

// pageQuery reads the page and limit query parameters.
func pageQuery(c echo.Context) (domain.PageRequest, error) {
	var p domain.PageRequest
	err := echo.QueryParamsBinder(c).
		Int("page", &p.Page).
		Int("limit", &p.Limit).
		BindError()
	if err != nil {
		return p, domain.NewValidationError("page", "page and limit must be integers")
	}
	return p.Normalize(), nil
}

// principal returns the authenticated caller. Routes using it are mounted
// behind the gate, so a missing principal is a wiring error surfaced as 401.
func principal(c echo.Context) (*ports.Principal, error) {
	p, ok := middleware.PrincipalFrom(c)
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}

func actor(c echo.Context) (domain.Actor, error) {
	p, err := principal(c)
	if err != nil {
		return domain.Actor{}, err
	}
	return p.Actor(), nil
}
