package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/api/handler"
	"github.com/senado-bo/portal-api/internal/core/domain"
)

// apiError is a classified error ready to render.
type apiError struct {
	status  int
	code    string
	message string
	fields  []domain.FieldError
}

// classified maps each sentinel to its status, code and public message, in
// match order.
var classified = []struct {
	target  error
	status  int
	code    string
	message string
}{
	{domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid email or password"},
	{domain.ErrAccountLocked, http.StatusUnauthorized, "ACCOUNT_LOCKED", "account temporarily locked after too many failed attempts"},
	{domain.ErrAccountNotActive, http.StatusUnauthorized, "ACCOUNT_NOT_ACTIVE", "account is not active"},
	{domain.ErrMissingToken, http.StatusUnauthorized, "MISSING_TOKEN", "authentication token required"},
	{domain.ErrExpiredToken, http.StatusUnauthorized, "EXPIRED_TOKEN", "token expired"},
	{domain.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN", "invalid token"},
	{domain.ErrRevokedToken, http.StatusUnauthorized, "REVOKED_TOKEN", "token revoked"},
	{domain.ErrUnknownSubject, http.StatusUnauthorized, "UNKNOWN_SUBJECT", "token subject no longer exists"},
	{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED", "authentication required"},
	{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN", "insufficient permissions"},
	{domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL", "email already registered"},
	{domain.ErrDuplicateKey, http.StatusConflict, "DUPLICATE_KEY", ""},
	{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND", ""},
	{domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED", "too many requests, try again later"},
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain errors to their HTTP status and a stable code.
//   - Logs unexpected errors without leaking them, unless exposeDetail is set.
//   - Renders the envelope: {"success": false, "message", "code", "errors"}.
func NewHTTPErrorHandler(log zerolog.Logger, exposeDetail bool) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		e := resolveError(err, log, c, exposeDetail)
		body := handler.Envelope{Success: false, Message: e.message, Code: e.code, Errors: e.fields}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(e.status)
		} else {
			werr = c.JSON(e.status, body)
		}
		if werr != nil {
			log.Error().Err(werr).Msg("failed to write error response")
		}
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, exposeDetail bool) apiError {
	// Echo's own errors: bind failures, unknown routes, body limit.
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		if he.Code == http.StatusNotFound {
			msg = "route not found"
		}
		return apiError{status: he.Code, code: codeFromStatus(he.Code), message: msg}
	}

	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return apiError{
			status:  http.StatusBadRequest,
			code:    "VALIDATION_ERROR",
			message: "validation failed",
			fields:  ve.Fields,
		}
	}

	for _, k := range classified {
		if errors.Is(err, k.target) {
			msg := k.message
			if msg == "" {
				msg = err.Error()
			}
			return apiError{status: k.status, code: k.code, message: msg}
		}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	msg := "internal server error"
	if exposeDetail {
		msg = err.Error()
	}
	return apiError{status: http.StatusInternalServerError, code: "INTERNAL_ERROR", message: msg}
}

// codeFromStatus turns an HTTP status into an upper snake code,
// e.g. 413 becomes REQUEST_ENTITY_TOO_LARGE.
func codeFromStatus(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "HTTP_ERROR"
	}
	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
