package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/api/handler"
	"github.com/senado-bo/portal-api/internal/api/middleware"
	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

type stubTokens struct{}

func (stubTokens) Issue(string, ports.TokenClass) (ports.IssuedToken, error) {
	return ports.IssuedToken{}, errors.New("not used")
}

func (stubTokens) Verify(token string, class ports.TokenClass) (*ports.TokenClaims, error) {
	switch token {
	case "citizen":
		return &ports.TokenClaims{Subject: "u-citizen", ID: "j1", Class: class}, nil
	case "editor":
		return &ports.TokenClaims{Subject: "u-editor", ID: "j2", Class: class}, nil
	}
	return nil, domain.ErrInvalidToken
}

func (stubTokens) TTL(ports.TokenClass) time.Duration { return time.Minute }

type stubUsers struct{}

func (stubUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	switch id {
	case "u-citizen":
		return &domain.User{ID: id, Role: domain.RoleCitizen, Status: domain.StatusActive}, nil
	case "u-editor":
		return &domain.User{ID: id, Role: domain.RoleEditor, Status: domain.StatusActive}, nil
	}
	return nil, domain.ErrUserNotFound
}

type stubLegislators struct {
	ports.LegislatorService
}

func (stubLegislators) Stats(context.Context) (*domain.LegislatorStats, error) {
	return &domain.LegislatorStats{Total: 130}, nil
}

func newTestRouter(t *testing.T, checks map[string]handler.Check) *echo.Echo {
	t.Helper()
	return NewRouter(Deps{
		Log:         zerolog.Nop(),
		CORSOrigins: []string{"*"},
		BodyLimit:   "1M",
		Registry:    prometheus.NewRegistry(),
		Gate:        middleware.NewGate(stubTokens{}, stubUsers{}, nil, zerolog.Nop()),
		Checks:      checks,
		Legislators: stubLegislators{},
	})
}

func serve(e *echo.Echo, method, path, token string) (*httptest.ResponseRecorder, handler.Envelope) {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var env handler.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestRouter_Liveness(t *testing.T) {
	e := newTestRouter(t, nil)

	rec, _ := serve(e, http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestRouter_Readiness(t *testing.T) {
	e := newTestRouter(t, map[string]handler.Check{
		"mongodb": func(context.Context) error { return nil },
		"redis":   func(context.Context) error { return errors.New("connection refused") },
	})

	rec, _ := serve(e, http.MethodGet, "/api/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if body["status"] != "degraded" {
		t.Fatalf("expected degraded, got %v", body["status"])
	}
}

func TestRouter_UnknownRoute(t *testing.T) {
	e := newTestRouter(t, nil)

	rec, env := serve(e, http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound || env.Success || env.Code != "NOT_FOUND" {
		t.Fatalf("unexpected %d %+v", rec.Code, env)
	}
}

func TestRouter_StaticLists(t *testing.T) {
	e := newTestRouter(t, nil)

	for _, path := range []string{"/api/legislators/positions", "/api/contents/types", "/api/tabs/icons"} {
		rec, env := serve(e, http.MethodGet, path, "")
		if rec.Code != http.StatusOK || !env.Success {
			t.Fatalf("%s: unexpected %d %+v", path, rec.Code, env)
		}
	}
}

func TestRouter_ProtectedRoutes(t *testing.T) {
	e := newTestRouter(t, nil)

	rec, env := serve(e, http.MethodGet, "/api/legislators/stats", "")
	if rec.Code != http.StatusUnauthorized || env.Code != "MISSING_TOKEN" {
		t.Fatalf("anonymous: unexpected %d %+v", rec.Code, env)
	}

	rec, env = serve(e, http.MethodGet, "/api/legislators/stats", "garbage")
	if rec.Code != http.StatusUnauthorized || env.Code != "INVALID_TOKEN" {
		t.Fatalf("bad token: unexpected %d %+v", rec.Code, env)
	}

	rec, env = serve(e, http.MethodGet, "/api/legislators/stats", "citizen")
	if rec.Code != http.StatusForbidden || env.Code != "FORBIDDEN" {
		t.Fatalf("citizen: unexpected %d %+v", rec.Code, env)
	}

	rec, env = serve(e, http.MethodGet, "/api/legislators/stats", "editor")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("editor: unexpected %d %+v", rec.Code, env)
	}
}
