package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

// RequireRole admits principals whose role is in the allow-list. It must run
// after Gate.Authenticate.
func RequireRole(allowed ...domain.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := PrincipalFrom(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if !principal.User.HasRole(allowed...) {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
