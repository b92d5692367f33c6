package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

func newContentFixture(views ports.ViewRecorder) (*ContentService, *memContents) {
	repo := newMemContents()
	svc := NewContentService(repo, views, zerolog.Nop())
	svc.now = func() time.Time { return fixedNow }
	return svc, repo
}

func validContent(title string) ports.ContentInput {
	return ports.ContentInput{
		Title:  title,
		Body:   "<p>cuerpo</p>",
		Author: "Prensa",
	}
}

func TestContentService_Create_Defaults(t *testing.T) {
	svc, _ := newContentFixture(nil)

	in := validContent("Sesión de Honor del Bicentenario")
	in.Tags = []string{" Historia", "historia", "", "SESION"}
	c, err := svc.Create(context.Background(), editor, in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.Slug != "sesion-de-honor-del-bicentenario" {
		t.Fatalf("unexpected slug %q", c.Slug)
	}
	if c.Type != domain.ContentPage || c.Status != domain.ContentDraft || c.Category != domain.DefaultContentCategory || c.Language != "es" {
		t.Fatalf("defaults not applied: %+v", c)
	}
	if len(c.Tags) != 2 || c.Tags[0] != "historia" || c.Tags[1] != "sesion" {
		t.Fatalf("tags not normalized: %v", c.Tags)
	}
	if c.Revision != 1 || c.CreatedBy != editor.ID {
		t.Fatalf("unexpected audit fields: %+v", c)
	}
	if c.PublishedAt != nil {
		t.Fatal("draft should not carry a publication date")
	}
}

func TestContentService_Create_PublishedStampsDate(t *testing.T) {
	svc, _ := newContentFixture(nil)

	in := validContent("Comunicado")
	in.Status = domain.ContentPublished
	c, err := svc.Create(context.Background(), editor, in)
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if c.PublishedAt == nil || !c.PublishedAt.Equal(fixedNow) {
		t.Fatalf("expected published_at %v, got %v", fixedNow, c.PublishedAt)
	}
}

func TestContentService_Create_Validation(t *testing.T) {
	svc, _ := newContentFixture(nil)

	_, err := svc.Create(context.Background(), editor, ports.ContentInput{Slug: "Not A Slug", Category: "deportes", Language: "en"})
	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected a ValidationError, got %v", err)
	}
	fields := map[string]bool{}
	for _, f := range verr.Fields {
		fields[f.Field] = true
	}
	for _, want := range []string{"title", "slug", "body", "author", "category", "language"} {
		if !fields[want] {
			t.Fatalf("missing field error for %s in %v", want, verr.Fields)
		}
	}
}

func TestContentService_Create_DuplicateSlug(t *testing.T) {
	svc, _ := newContentFixture(nil)
	if _, err := svc.Create(context.Background(), editor, validContent("Agenda")); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if _, err := svc.Create(context.Background(), editor, validContent("Agenda")); !errors.Is(err, domain.ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestContentService_Update_KeepsRevisions(t *testing.T) {
	svc, repo := newContentFixture(nil)
	c, _ := svc.Create(context.Background(), editor, validContent("Historia"))

	body := "<p>segunda</p>"
	updated, err := svc.Update(context.Background(), admin, c.ID, ports.ContentPatch{Body: &body, Comment: "correccion"})
	if err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if updated.Revision != 2 || updated.LastModifiedBy != admin.ID {
		t.Fatalf("unexpected revision fields: %+v", updated)
	}
	h := repo.byID[c.ID].VersionHistory
	if len(h) != 1 || h[0].Body != "<p>cuerpo</p>" || h[0].Comment != "correccion" || h[0].Revision != 1 {
		t.Fatalf("unexpected history: %+v", h)
	}

	for i := 0; i < domain.MaxContentRevisions+5; i++ {
		if _, err := svc.Update(context.Background(), admin, c.ID, ports.ContentPatch{}); err != nil {
			t.Fatalf("Update %d returned error: %v", i, err)
		}
	}
	stored := repo.byID[c.ID]
	if len(stored.VersionHistory) != domain.MaxContentRevisions {
		t.Fatalf("history not bounded: %d", len(stored.VersionHistory))
	}
	if stored.VersionHistory[0].Comment != autoRevisionComment {
		t.Fatalf("expected the default comment, got %q", stored.VersionHistory[0].Comment)
	}
}

func TestContentService_GetBySlug_Visibility(t *testing.T) {
	svc, repo := newContentFixture(nil)
	ctx := context.Background()

	draft, _ := svc.Create(ctx, editor, validContent("Borrador"))
	in := validContent("Publicado")
	in.Status = domain.ContentPublished
	pub, _ := svc.Create(ctx, editor, in)

	later := fixedNow.Add(time.Hour)
	in = validContent("Programado")
	in.Status = domain.ContentScheduled
	in.ScheduledFor = &later
	scheduled, _ := svc.Create(ctx, editor, in)

	if _, err := svc.GetBySlug(ctx, draft.Slug); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("draft: expected ErrNotFound, got %v", err)
	}
	if _, err := svc.GetBySlug(ctx, scheduled.Slug); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("future schedule: expected ErrNotFound, got %v", err)
	}
	got, err := svc.GetBySlug(ctx, "  PUBLICADO ")
	if err != nil {
		t.Fatalf("published: %v", err)
	}
	if got.Views != 1 || repo.byID[pub.ID].Views != 1 {
		t.Fatalf("view not counted: %d / %d", got.Views, repo.byID[pub.ID].Views)
	}

	svc.now = func() time.Time { return later }
	if _, err := svc.GetBySlug(ctx, scheduled.Slug); err != nil {
		t.Fatalf("due schedule should be visible: %v", err)
	}
}

func TestContentService_GetBySlug_ViewFailureStillServes(t *testing.T) {
	svc, repo := newContentFixture(nil)
	in := validContent("Publicado")
	in.Status = domain.ContentPublished
	if _, err := svc.Create(context.Background(), editor, in); err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	repo.viewsErr = errStore

	got, err := svc.GetBySlug(context.Background(), "publicado")
	if err != nil || got.Views != 0 {
		t.Fatalf("expected the item without a counted view, got %v %+v", err, got)
	}
}

func TestContentService_GetBySlug_AsyncViews(t *testing.T) {
	views := &memViews{}
	svc, repo := newContentFixture(views)
	in := validContent("Noticia")
	in.Type = domain.ContentNews
	in.Status = domain.ContentPublished
	c, _ := svc.Create(context.Background(), editor, in)

	got, err := svc.GetBySlug(context.Background(), c.Slug)
	if err != nil {
		t.Fatalf("GetBySlug returned error: %v", err)
	}
	if got.Views != 1 || repo.byID[c.ID].Views != 0 {
		t.Fatalf("expected the view to be queued, not written inline")
	}
	if len(views.recorded) != 1 || views.recorded[0].id != c.ID || views.recorded[0].typ != domain.ContentNews {
		t.Fatalf("unexpected recorded views: %+v", views.recorded)
	}
}

func TestContentService_List_HidesDrafts(t *testing.T) {
	svc, _ := newContentFixture(nil)
	ctx := context.Background()
	svc.Create(ctx, editor, validContent("Borrador"))
	in := validContent("Publicado")
	in.Status = domain.ContentPublished
	svc.Create(ctx, editor, in)

	public, err := svc.List(ctx, ports.ContentFilter{}, false)
	if err != nil || public.Total != 1 {
		t.Fatalf("public listing: %v total=%d", err, public.Total)
	}
	all, err := svc.List(ctx, ports.ContentFilter{}, true)
	if err != nil || all.Total != 2 {
		t.Fatalf("full listing: %v total=%d", err, all.Total)
	}
}

func TestContentService_ChangeStatus(t *testing.T) {
	svc, _ := newContentFixture(nil)
	c, _ := svc.Create(context.Background(), editor, validContent("Agenda"))

	if _, err := svc.ChangeStatus(context.Background(), editor, c.ID, "borrado"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	got, err := svc.ChangeStatus(context.Background(), editor, c.ID, domain.ContentPublished)
	if err != nil {
		t.Fatalf("ChangeStatus returned error: %v", err)
	}
	if got.Status != domain.ContentPublished || got.PublishedAt == nil {
		t.Fatalf("publication not stamped: %+v", got)
	}
	if _, err := svc.ChangeStatus(context.Background(), editor, "missing", domain.ContentArchived); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestContentService_SearchAndRelated(t *testing.T) {
	svc, _ := newContentFixture(nil)
	ctx := context.Background()

	if _, err := svc.Search(ctx, "   ", 0); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for an empty query, got %v", err)
	}

	var first *domain.Content
	for _, title := range []string{"Ley de presupuesto", "Ley de educacion", "Agenda semanal"} {
		in := validContent(title)
		in.Status = domain.ContentPublished
		c, err := svc.Create(ctx, editor, in)
		if err != nil {
			t.Fatalf("Create returned error: %v", err)
		}
		if first == nil {
			first = c
		}
	}

	found, err := svc.Search(ctx, "ley", 0)
	if err != nil || len(found) != 2 {
		t.Fatalf("expected two matches, got %v %d", err, len(found))
	}
	related, err := svc.Related(ctx, first.ID, 0)
	if err != nil || len(related) != 2 {
		t.Fatalf("expected two related items, got %v %d", err, len(related))
	}
	for _, r := range related {
		if r.ID == first.ID {
			t.Fatal("an item is not related to itself")
		}
	}
}
