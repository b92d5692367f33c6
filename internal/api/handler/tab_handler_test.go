package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

type stubTabService struct {
	ports.TabService
	deleteCategoryFn func(ctx context.Context, a domain.Actor, id string) (domain.DeleteOutcome, error)
	reorderFn        func(ctx context.Context, a domain.Actor, categoryID string, positions []domain.LinkPosition) (int64, error)
}

func (s *stubTabService) DeleteCategory(ctx context.Context, a domain.Actor, id string) (domain.DeleteOutcome, error) {
	return s.deleteCategoryFn(ctx, a, id)
}

func (s *stubTabService) ReorderLinks(ctx context.Context, a domain.Actor, categoryID string, positions []domain.LinkPosition) (int64, error) {
	return s.reorderFn(ctx, a, categoryID, positions)
}

func TestTabHandler_DeleteCategory_ReportsOutcome(t *testing.T) {
	for _, outcome := range []domain.DeleteOutcome{domain.DeletedSoft, domain.DeletedHard} {
		stub := &stubTabService{
			deleteCategoryFn: func(_ context.Context, _ domain.Actor, id string) (domain.DeleteOutcome, error) {
				if id != "institucional" {
					t.Fatalf("unexpected id %q", id)
				}
				return outcome, nil
			},
		}
		c, rec := newTestContext(http.MethodDelete, "/api/tabs/admin/categories/institucional", "")
		c.SetParamNames("id")
		c.SetParamValues("institucional")
		withPrincipal(c, &domain.User{ID: "a1", Role: domain.RoleAdmin})

		if err := NewTabHandler(stub).DeleteCategory(c); err != nil {
			t.Fatalf("handler error: %v", err)
		}
		var data map[string]string
		env := decodeEnvelope(t, rec, &data)
		if data["outcome"] != string(outcome) || env.Message == "" {
			t.Fatalf("unexpected response: %+v %v", env, data)
		}
	}
}

func TestTabHandler_ReorderLinks(t *testing.T) {
	stub := &stubTabService{
		reorderFn: func(_ context.Context, a domain.Actor, categoryID string, positions []domain.LinkPosition) (int64, error) {
			if a.ID != "e1" || categoryID != "institucional" || len(positions) != 2 || positions[1].LinkID != "historia" {
				t.Fatalf("unexpected call: %+v %s %+v", a, categoryID, positions)
			}
			return 2, nil
		},
	}
	body := `{"category_id":"institucional","order":[{"link_id":"directiva","position":0},{"link_id":"historia","position":1}]}`
	c, rec := newTestContext(http.MethodPut, "/api/tabs/admin/links/reorder", body)
	withPrincipal(c, &domain.User{ID: "e1", Role: domain.RoleEditor})

	if err := NewTabHandler(stub).ReorderLinks(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var data map[string]int64
	decodeEnvelope(t, rec, &data)
	if data["modified"] != 2 {
		t.Fatalf("unexpected payload: %v", data)
	}
}

func TestTabHandler_ReorderLinks_EmptyOrder(t *testing.T) {
	stub := &stubTabService{}
	c, _ := newTestContext(http.MethodPut, "/api/tabs/admin/links/reorder", `{"category_id":"institucional","order":[]}`)
	withPrincipal(c, &domain.User{ID: "e1", Role: domain.RoleEditor})

	if err := NewTabHandler(stub).ReorderLinks(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
