package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

type stubContentService struct {
	ports.ContentService
	listFn   func(ctx context.Context, f ports.ContentFilter, includeHidden bool) (domain.Page[*domain.Content], error)
	updateFn func(ctx context.Context, actor domain.Actor, id string, p ports.ContentPatch) (*domain.Content, error)
}

func (s *stubContentService) List(ctx context.Context, f ports.ContentFilter, includeHidden bool) (domain.Page[*domain.Content], error) {
	return s.listFn(ctx, f, includeHidden)
}

func (s *stubContentService) Update(ctx context.Context, actor domain.Actor, id string, p ports.ContentPatch) (*domain.Content, error) {
	return s.updateFn(ctx, actor, id, p)
}

func TestContentHandler_List_IncludeDrafts(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		user   *domain.User
		hidden bool
	}{
		{"anonymous", "?include_drafts=true", nil, false},
		{"citizen asking", "?include_drafts=true", &domain.User{ID: "c", Role: domain.RoleCitizen}, false},
		{"editor not asking", "", &domain.User{ID: "e", Role: domain.RoleEditor}, false},
		{"editor asking", "?include_drafts=true", &domain.User{ID: "e", Role: domain.RoleEditor}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotHidden bool
			stub := &stubContentService{
				listFn: func(_ context.Context, _ ports.ContentFilter, includeHidden bool) (domain.Page[*domain.Content], error) {
					gotHidden = includeHidden
					return domain.NewPage[*domain.Content](nil, 0, domain.PageRequest{Page: 1, Limit: 10}), nil
				},
			}
			c, rec := newTestContext(http.MethodGet, "/api/contents"+tt.query, "")
			if tt.user != nil {
				withPrincipal(c, tt.user)
			}
			if err := NewContentHandler(stub).List(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if gotHidden != tt.hidden {
				t.Fatalf("includeHidden = %v, want %v", gotHidden, tt.hidden)
			}
			var data map[string]any
			decodeEnvelope(t, rec, &data)
			if _, ok := data["contents"]; !ok || data["pages"] != float64(0) {
				t.Fatalf("unexpected payload: %v", data)
			}
		})
	}
}

func TestContentHandler_List_Filters(t *testing.T) {
	stub := &stubContentService{
		listFn: func(_ context.Context, f ports.ContentFilter, _ bool) (domain.Page[*domain.Content], error) {
			if f.Type != "news" || f.Tag != "ley" || f.Page != 2 || f.Limit != 5 {
				t.Fatalf("unexpected filter: %+v", f)
			}
			if f.From == nil || f.From.Format("2006-01-02") != "2025-01-31" {
				t.Fatalf("unexpected from: %v", f.From)
			}
			items := []*domain.Content{{ID: "c1", Type: domain.ContentNews, Slug: "ley-corta"}}
			return domain.NewPage(items, 6, f.PageRequest), nil
		},
	}
	c, rec := newTestContext(http.MethodGet, "/api/contents?type=news&tag=ley&page=2&limit=5&from=2025-01-31", "")

	if err := NewContentHandler(stub).List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var data struct {
		Contents []struct {
			ID  string `json:"id"`
			URL string `json:"url"`
		} `json:"contents"`
		Pages int `json:"pages"`
	}
	decodeEnvelope(t, rec, &data)
	if len(data.Contents) != 1 || data.Contents[0].URL != "/contenido/noticias/ley-corta" || data.Pages != 2 {
		t.Fatalf("unexpected payload: %+v", data)
	}
}

func TestContentHandler_List_BadQuery(t *testing.T) {
	stub := &stubContentService{}
	for _, q := range []string{"?page=uno", "?from=ayer"} {
		c, _ := newTestContext(http.MethodGet, "/api/contents"+q, "")
		if err := NewContentHandler(stub).List(c); !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%s: expected ErrValidation, got %v", q, err)
		}
	}
}

func TestContentHandler_Update_PassesCommentAndActor(t *testing.T) {
	stub := &stubContentService{
		updateFn: func(_ context.Context, a domain.Actor, id string, p ports.ContentPatch) (*domain.Content, error) {
			if a.ID != "e1" || id != "c9" || p.Comment != "typo" || p.Title == nil || *p.Title != "Nuevo" || p.Body != nil {
				t.Fatalf("unexpected call: %+v %s %+v", a, id, p)
			}
			return &domain.Content{ID: id, Title: *p.Title, Type: domain.ContentPage, Slug: "nuevo"}, nil
		},
	}
	c, rec := newTestContext(http.MethodPut, "/api/contents/c9", `{"title":"Nuevo","change_comment":"typo"}`)
	c.SetParamNames("id")
	c.SetParamValues("c9")
	withPrincipal(c, &domain.User{ID: "e1", Role: domain.RoleEditor})

	if err := NewContentHandler(stub).Update(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}
