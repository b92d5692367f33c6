package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

var errStore = errors.New("store unavailable")

// plainHasher stands in for bcrypt so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "hashed:" + p, nil }

func (plainHasher) Verify(p, digest string) bool { return digest == "hashed:"+p }

// seqTokens issues "<class>:<subject>:<n>" tokens and verifies its own output.
type seqTokens struct {
	mu      sync.Mutex
	n       int
	expired map[string]bool
}

func newSeqTokens() *seqTokens {
	return &seqTokens{expired: map[string]bool{}}
}

func (s *seqTokens) Issue(subject string, class ports.TokenClass) (ports.IssuedToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.n++
	id := fmt.Sprintf("jti-%d", s.n)
	return ports.IssuedToken{
		Token:     fmt.Sprintf("%s:%s:%d", class, subject, s.n),
		ID:        id,
		ExpiresAt: time.Now().Add(s.TTL(class)),
	}, nil
}

func (s *seqTokens) Verify(token string, class ports.TokenClass) (*ports.TokenClaims, error) {
	parts := strings.Split(token, ":")
	if len(parts) != 3 || parts[0] != string(class) {
		return nil, domain.ErrInvalidToken
	}
	if s.expired[token] {
		return nil, domain.ErrExpiredToken
	}
	return &ports.TokenClaims{
		Subject:   parts[1],
		ID:        "jti-" + parts[2],
		Class:     class,
		ExpiresAt: time.Now().Add(s.TTL(class)),
	}, nil
}

func (s *seqTokens) TTL(class ports.TokenClass) time.Duration {
	if class == ports.RefreshToken {
		return 24 * time.Hour
	}
	return 15 * time.Minute
}

type memDenylist struct {
	revoked map[string]time.Time
	err     error
}

func (d *memDenylist) Revoke(_ context.Context, id string, until time.Time) error {
	if d.err != nil {
		return d.err
	}
	if d.revoked == nil {
		d.revoked = map[string]time.Time{}
	}
	d.revoked[id] = until
	return nil
}

func (d *memDenylist) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := d.revoked[id]
	return ok, d.err
}

// memUsers is a map-backed UserRepository. Returned users are copies.
type memUsers struct {
	byID map[string]*domain.User
	seq  int
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[string]*domain.User{}}
}

func cloneUser(u *domain.User) *domain.User {
	c := *u
	c.PasswordHistory = append([]string(nil), u.PasswordHistory...)
	return &c
}

func (r *memUsers) add(u *domain.User) *domain.User {
	r.seq++
	if u.ID == "" {
		u.ID = fmt.Sprintf("u%d", r.seq)
	}
	r.byID[u.ID] = cloneUser(u)
	return u
}

func (r *memUsers) Create(_ context.Context, u *domain.User) error {
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.ErrDuplicateEmail
		}
	}
	r.add(u)
	return nil
}

func (r *memUsers) FindByID(_ context.Context, id string) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.byID {
		if u.Email == email {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *memUsers) List(_ context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	var out []*domain.User
	for _, u := range r.byID {
		if f.Role != "" && u.Role != f.Role {
			continue
		}
		if f.Status != "" && u.Status != f.Status {
			continue
		}
		out = append(out, cloneUser(u))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memUsers) Update(_ context.Context, u *domain.User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return domain.ErrUserNotFound
	}
	r.byID[u.ID] = cloneUser(u)
	return nil
}

func (r *memUsers) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memUsers) RecordLoginFailure(_ context.Context, id string, at time.Time, policy domain.LockoutPolicy) (*domain.User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if u.LockUntil != nil && !u.LockUntil.After(at) {
		u.LoginAttempts = 1
		u.LockUntil = nil
	} else {
		u.LoginAttempts++
	}
	if u.LoginAttempts >= policy.MaxAttempts {
		until := at.Add(policy.LockDuration)
		u.LockUntil = &until
	}
	return cloneUser(u), nil
}

func (r *memUsers) RecordLoginSuccess(_ context.Context, id string, at time.Time, refreshHash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.LoginAttempts = 0
	u.LockUntil = nil
	u.LastLogin = &at
	u.RefreshTokenHash = refreshHash
	return nil
}

func (r *memUsers) SetRefreshTokenHash(_ context.Context, id, hash string) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (r *memUsers) UpdatePassword(_ context.Context, id, hash string, history []string, at time.Time) error {
	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = hash
	u.PasswordHistory = append([]string(nil), history...)
	u.PasswordChangedAt = &at
	u.RefreshTokenHash = ""
	return nil
}

// memContents is a map-backed ContentRepository.
type memContents struct {
	byID     map[string]*domain.Content
	seq      int
	viewsErr error
}

func newMemContents() *memContents {
	return &memContents{byID: map[string]*domain.Content{}}
}

func cloneContent(c *domain.Content) *domain.Content {
	cp := *c
	cp.VersionHistory = append([]domain.Revision(nil), c.VersionHistory...)
	cp.Tags = append([]string(nil), c.Tags...)
	return &cp
}

func (r *memContents) Create(_ context.Context, c *domain.Content) error {
	for _, existing := range r.byID {
		if existing.Slug == c.Slug {
			return fmt.Errorf("%w: slug %q is taken", domain.ErrDuplicateKey, c.Slug)
		}
	}
	r.seq++
	c.ID = fmt.Sprintf("c%d", r.seq)
	r.byID[c.ID] = cloneContent(c)
	return nil
}

func (r *memContents) FindByID(_ context.Context, id string) (*domain.Content, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrContentNotFound
	}
	return cloneContent(c), nil
}

func (r *memContents) FindBySlug(_ context.Context, slug string) (*domain.Content, error) {
	for _, c := range r.byID {
		if c.Slug == slug {
			return cloneContent(c), nil
		}
	}
	return nil, domain.ErrContentNotFound
}

func (r *memContents) List(_ context.Context, f ports.ContentFilter) ([]*domain.Content, int64, error) {
	var out []*domain.Content
	for _, c := range r.byID {
		if !f.VisibleAt.IsZero() && !c.VisibleAt(f.VisibleAt) {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(c.Title), strings.ToLower(f.Search)) {
			continue
		}
		out = append(out, cloneContent(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memContents) Update(_ context.Context, c *domain.Content) error {
	if _, ok := r.byID[c.ID]; !ok {
		return domain.ErrContentNotFound
	}
	r.byID[c.ID] = cloneContent(c)
	return nil
}

func (r *memContents) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrContentNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memContents) IncrementViews(_ context.Context, id string) error {
	if r.viewsErr != nil {
		return r.viewsErr
	}
	r.byID[id].Views++
	return nil
}

func (r *memContents) Stats(context.Context) (*domain.ContentStats, error) {
	return &domain.ContentStats{Total: int64(len(r.byID))}, nil
}

func (r *memContents) Related(_ context.Context, c *domain.Content, now time.Time, limit int) ([]*domain.Content, error) {
	var out []*domain.Content
	for _, other := range r.byID {
		if other.ID == c.ID || !other.VisibleAt(now) || other.Category != c.Category {
			continue
		}
		out = append(out, cloneContent(other))
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

type recordedView struct {
	id  string
	typ domain.ContentType
}

type memViews struct {
	recorded []recordedView
}

func (v *memViews) Record(id string, t domain.ContentType) {
	v.recorded = append(v.recorded, recordedView{id: id, typ: t})
}

// memLegislators is a map-backed LegislatorRepository.
type memLegislators struct {
	byID map[string]*domain.Legislator
	seq  int
}

func newMemLegislators() *memLegislators {
	return &memLegislators{byID: map[string]*domain.Legislator{}}
}

func (r *memLegislators) Create(_ context.Context, l *domain.Legislator) error {
	for _, existing := range r.byID {
		if existing.CI == l.CI {
			return fmt.Errorf("%w: ci %q is already registered", domain.ErrDuplicateKey, l.CI)
		}
	}
	r.seq++
	l.ID = fmt.Sprintf("l%d", r.seq)
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *memLegislators) FindByID(_ context.Context, id string) (*domain.Legislator, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrLegislatorNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLegislators) FindByCI(_ context.Context, ci string) (*domain.Legislator, error) {
	for _, l := range r.byID {
		if l.CI == ci {
			cp := *l
			return &cp, nil
		}
	}
	return nil, domain.ErrLegislatorNotFound
}

func (r *memLegislators) List(_ context.Context, f ports.LegislatorFilter) ([]*domain.Legislator, int64, error) {
	var out []*domain.Legislator
	for _, l := range r.byID {
		if f.Party != "" && l.Party != f.Party {
			continue
		}
		if f.Search != "" && !strings.Contains(strings.ToLower(l.FullName), strings.ToLower(f.Search)) {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, int64(len(out)), nil
}

func (r *memLegislators) Update(_ context.Context, l *domain.Legislator) error {
	if _, ok := r.byID[l.ID]; !ok {
		return domain.ErrLegislatorNotFound
	}
	cp := *l
	r.byID[l.ID] = &cp
	return nil
}

func (r *memLegislators) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrLegislatorNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memLegislators) Stats(context.Context) (*domain.LegislatorStats, error) {
	return &domain.LegislatorStats{Total: int64(len(r.byID))}, nil
}

func (r *memLegislators) CountActiveBy(_ context.Context, field string) ([]domain.Count, error) {
	counts := map[string]int64{}
	for _, l := range r.byID {
		if l.Status != domain.LegislatorActive {
			continue
		}
		switch field {
		case "party":
			counts[l.Party]++
		case "department":
			counts[l.District.Department]++
		default:
			return nil, domain.NewValidationError("field", "unknown field")
		}
	}
	out := make([]domain.Count, 0, len(counts))
	for k, v := range counts {
		out = append(out, domain.Count{Key: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

func (r *memLegislators) ActiveCommissions(context.Context) ([]domain.Count, error) {
	return []domain.Count{}, nil
}

// memCategories and memLinks back the tab service.
type memCategories struct {
	byID map[string]*domain.TabCategory
}

func newMemCategories(cats ...*domain.TabCategory) *memCategories {
	r := &memCategories{byID: map[string]*domain.TabCategory{}}
	for _, c := range cats {
		cp := *c
		r.byID[c.CategoryID] = &cp
	}
	return r
}

func (r *memCategories) Create(_ context.Context, c *domain.TabCategory) error {
	if _, ok := r.byID[c.CategoryID]; ok {
		return fmt.Errorf("%w: category_id %q", domain.ErrDuplicateKey, c.CategoryID)
	}
	cp := *c
	r.byID[c.CategoryID] = &cp
	return nil
}

func (r *memCategories) FindByCategoryID(_ context.Context, id string) (*domain.TabCategory, error) {
	c, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTabCategoryNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *memCategories) List(_ context.Context, includeInactive bool) ([]*domain.TabCategory, error) {
	var out []*domain.TabCategory
	for _, c := range r.byID {
		if !includeInactive && !c.IsActive {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *memCategories) Update(_ context.Context, c *domain.TabCategory) error {
	if _, ok := r.byID[c.CategoryID]; !ok {
		return domain.ErrTabCategoryNotFound
	}
	cp := *c
	r.byID[c.CategoryID] = &cp
	return nil
}

func (r *memCategories) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTabCategoryNotFound
	}
	delete(r.byID, id)
	return nil
}

type memLinks struct {
	byID map[string]*domain.TabLink
}

func newMemLinks(links ...*domain.TabLink) *memLinks {
	r := &memLinks{byID: map[string]*domain.TabLink{}}
	for _, l := range links {
		cp := *l
		r.byID[l.LinkID] = &cp
	}
	return r
}

func (r *memLinks) sorted(keep func(*domain.TabLink) bool) []*domain.TabLink {
	var out []*domain.TabLink
	for _, l := range r.byID {
		if keep(l) {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CategoryID != out[j].CategoryID {
			return out[i].CategoryID < out[j].CategoryID
		}
		return out[i].Order < out[j].Order
	})
	return out
}

func (r *memLinks) Create(_ context.Context, l *domain.TabLink) error {
	if _, ok := r.byID[l.LinkID]; ok {
		return fmt.Errorf("%w: link_id %q", domain.ErrDuplicateKey, l.LinkID)
	}
	cp := *l
	r.byID[l.LinkID] = &cp
	return nil
}

func (r *memLinks) FindByLinkID(_ context.Context, id string) (*domain.TabLink, error) {
	l, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrTabLinkNotFound
	}
	cp := *l
	return &cp, nil
}

func (r *memLinks) List(_ context.Context, f ports.TabLinkFilter) ([]*domain.TabLink, int64, error) {
	out := r.sorted(func(l *domain.TabLink) bool {
		if f.CategoryID != "" && l.CategoryID != f.CategoryID {
			return false
		}
		return f.IsActive == nil || l.IsActive == *f.IsActive
	})
	return out, int64(len(out)), nil
}

func (r *memLinks) ListActive(context.Context) ([]*domain.TabLink, error) {
	return r.sorted(func(l *domain.TabLink) bool { return l.IsActive }), nil
}

func (r *memLinks) CountActive(context.Context) (map[string]int64, error) {
	counts := map[string]int64{}
	for _, l := range r.byID {
		if l.IsActive {
			counts[l.CategoryID]++
		}
	}
	return counts, nil
}

func (r *memLinks) Update(_ context.Context, l *domain.TabLink) error {
	if _, ok := r.byID[l.LinkID]; !ok {
		return domain.ErrTabLinkNotFound
	}
	cp := *l
	r.byID[l.LinkID] = &cp
	return nil
}

func (r *memLinks) Delete(_ context.Context, id string) error {
	if _, ok := r.byID[id]; !ok {
		return domain.ErrTabLinkNotFound
	}
	delete(r.byID, id)
	return nil
}

func (r *memLinks) DeleteByCategory(_ context.Context, categoryID string) (int64, error) {
	var n int64
	for id, l := range r.byID {
		if l.CategoryID == categoryID {
			delete(r.byID, id)
			n++
		}
	}
	return n, nil
}

func (r *memLinks) Reorder(_ context.Context, categoryID string, positions []domain.LinkPosition, step int) (int64, error) {
	var n int64
	for _, p := range positions {
		l, ok := r.byID[p.LinkID]
		if !ok || l.CategoryID != categoryID {
			continue
		}
		if next := p.Position * step; l.Order != next {
			l.Order = next
			n++
		}
	}
	return n, nil
}
