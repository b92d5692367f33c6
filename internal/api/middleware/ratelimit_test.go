package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/senado-bo/portal-api/internal/core/domain"
)

type countingStore struct {
	limit int
	hits  map[string]int
	err   error
}

func (s *countingStore) Allow(identifier string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	s.hits[identifier]++
	return s.hits[identifier] <= s.limit, nil
}

// hit runs one request and returns the error the limiter reported, whether it
// was returned or routed through the echo error handler.
func hit(t *testing.T, mw echo.MiddlewareFunc, ip string) error {
	t.Helper()
	var reported error
	e := echo.New()
	e.HTTPErrorHandler = func(err error, c echo.Context) { reported = err }
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRealIP, ip)
	c := e.NewContext(req, httptest.NewRecorder())
	if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })(c); err != nil {
		return err
	}
	return reported
}

func TestRateLimit_RejectsOverLimitPerIP(t *testing.T) {
	store := &countingStore{limit: 2, hits: map[string]int{}}
	mw := RateLimit("auth", store)

	for i := 0; i < 2; i++ {
		if err := hit(t, mw, "10.0.0.1"); err != nil {
			t.Fatalf("request %d: unexpected error %v", i, err)
		}
	}
	if err := hit(t, mw, "10.0.0.1"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if err := hit(t, mw, "10.0.0.2"); err != nil {
		t.Fatalf("other client must not be limited, got %v", err)
	}
}

func TestRateLimit_StoreErrorIsRateLimited(t *testing.T) {
	store := &countingStore{err: errors.New("boom"), hits: map[string]int{}}

	if err := hit(t, RateLimit("api", store), "10.0.0.1"); !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestMemoryStore_AllowsBurst(t *testing.T) {
	store := MemoryStore(3, time.Minute)
	for i := 0; i < 3; i++ {
		ok, err := store.Allow("10.0.0.1")
		if err != nil || !ok {
			t.Fatalf("request %d: allowed=%v err=%v", i, ok, err)
		}
	}
	if ok, _ := store.Allow("10.0.0.1"); ok {
		t.Fatal("expected the fourth request in the window to be denied")
	}
}
