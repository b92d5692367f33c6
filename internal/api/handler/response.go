package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

// Envelope is the shape of every API response body.
type Envelope struct {
	Success bool                `json:"success"`
	Data    any                 `json:"data,omitempty"`
	Message string              `json:"message,omitempty"`
	Errors  []domain.FieldError `json:"errors,omitempty"`
	Code    string              `json:"code,omitempty"`
}

func ok(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Data: data})
}

func created(c echo.Context, data any, msg string) error {
	return c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: msg})
}

func message(c echo.Context, msg string) error {
	return c.JSON(http.StatusOK, Envelope{Success: true, Message: msg})
}

// pageResponse renders a page under the collection key the portal front end
// expects, e.g. {contents, total, pages, page, limit}.
func pageResponse[T any](key string, p domain.Page[T]) map[string]any {
	return map[string]any{
		key:     p.Items,
		"total": p.Total,
		"pages": p.Pages,
		"page":  p.Page,
		"limit": p.Limit,
	}
}
