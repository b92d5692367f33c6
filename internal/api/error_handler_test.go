package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/api/handler"
	"github.com/senado-bo/portal-api/internal/core/domain"
)

func render(t *testing.T, err error, exposeDetail bool) (int, handler.Envelope) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/api/x", nil), rec)

	NewHTTPErrorHandler(zerolog.Nop(), exposeDetail)(err, c)

	var env handler.Envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("invalid json %q: %v", rec.Body.String(), err)
	}
	return rec.Code, env
}

func TestHTTPErrorHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
		{"locked", domain.ErrAccountLocked, http.StatusUnauthorized, "ACCOUNT_LOCKED"},
		{"not active", domain.ErrAccountNotActive, http.StatusUnauthorized, "ACCOUNT_NOT_ACTIVE"},
		{"missing token", domain.ErrMissingToken, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"invalid token", domain.ErrInvalidToken, http.StatusUnauthorized, "INVALID_TOKEN"},
		{"expired token", domain.ErrExpiredToken, http.StatusUnauthorized, "EXPIRED_TOKEN"},
		{"revoked token", domain.ErrRevokedToken, http.StatusUnauthorized, "REVOKED_TOKEN"},
		{"unknown subject", domain.ErrUnknownSubject, http.StatusUnauthorized, "UNKNOWN_SUBJECT"},
		{"unauthenticated", domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{"resource not found", domain.ErrContentNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"wrapped not found", fmt.Errorf("lookup: %w", domain.ErrLegislatorNotFound), http.StatusNotFound, "NOT_FOUND"},
		{"duplicate key", fmt.Errorf("%w: slug %q is taken", domain.ErrDuplicateKey, "x"), http.StatusConflict, "DUPLICATE_KEY"},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusConflict, "DUPLICATE_EMAIL"},
		{"rate limited", domain.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"echo 404", echo.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"body too large", echo.ErrStatusRequestEntityTooLarge, http.StatusRequestEntityTooLarge, "REQUEST_ENTITY_TOO_LARGE"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			status, env := render(t, tc.err, false)
			if status != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, status)
			}
			if env.Success {
				t.Fatal("expected success=false")
			}
			if env.Code != tc.code {
				t.Fatalf("expected code %s, got %s", tc.code, env.Code)
			}
			if env.Message == "" {
				t.Fatal("expected a message")
			}
		})
	}
}

func TestHTTPErrorHandler_ResourceMessage(t *testing.T) {
	_, env := render(t, domain.ErrTabLinkNotFound, false)
	if env.Message != "tab link not found" {
		t.Fatalf("unexpected message %q", env.Message)
	}
}

func TestHTTPErrorHandler_ValidationFields(t *testing.T) {
	err := &domain.ValidationError{Fields: []domain.FieldError{
		{Field: "email", Message: "email is required"},
		{Field: "password", Message: "password is required"},
	}}

	status, env := render(t, err, false)
	if status != http.StatusBadRequest || env.Code != "VALIDATION_ERROR" {
		t.Fatalf("unexpected %d %s", status, env.Code)
	}
	if len(env.Errors) != 2 || env.Errors[0].Field != "email" {
		t.Fatalf("unexpected fields %+v", env.Errors)
	}
}

func TestHTTPErrorHandler_InternalDetail(t *testing.T) {
	boom := errors.New("mongo: connection reset")

	status, env := render(t, boom, false)
	if status != http.StatusInternalServerError || env.Message != "internal server error" {
		t.Fatalf("detail leaked outside development: %d %q", status, env.Message)
	}

	_, env = render(t, boom, true)
	if env.Message != boom.Error() {
		t.Fatalf("expected detail in development, got %q", env.Message)
	}
}

func TestHTTPErrorHandler_SkipsCommitted(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = c.String(http.StatusOK, "done")

	NewHTTPErrorHandler(zerolog.Nop(), false)(domain.ErrForbidden, c)
	if rec.Code != http.StatusOK || rec.Body.String() != "done" {
		t.Fatalf("committed response was rewritten: %d %q", rec.Code, rec.Body.String())
	}
}
