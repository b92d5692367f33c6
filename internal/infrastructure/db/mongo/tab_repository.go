package mongo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

const (
	collectionTabCategories = "tab_categories"
	collectionTabLinks      = "tab_links"
)

// ── Categories ───────────────────────────────────────────────────────────────

type TabCategoryRepository struct {
	col *mongo.Collection
}

func NewTabCategoryRepository(db *mongo.Database) *TabCategoryRepository {
	return &TabCategoryRepository{col: db.Collection(collectionTabCategories)}
}

func (r *TabCategoryRepository) Create(ctx context.Context, c *domain.TabCategory) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *c
	doc.ID = ""
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: category %q already exists", domain.ErrDuplicateKey, c.CategoryID)
		}
		return fmt.Errorf("insert tab category: %w", err)
	}
	c.ID = insertedHex(res)
	return nil
}

func (r *TabCategoryRepository) FindByCategoryID(ctx context.Context, categoryID string) (*domain.TabCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.TabCategory
	if err := r.col.FindOne(ctx, bson.M{"category_id": categoryID}).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTabCategoryNotFound
		}
		return nil, fmt.Errorf("find tab category: %w", err)
	}
	return &c, nil
}

func (r *TabCategoryRepository) List(ctx context.Context, includeInactive bool) ([]*domain.TabCategory, error) {
	filter := bson.M{}
	if !includeInactive {
		filter["is_active"] = true
	}
	sort := bson.D{{Key: "order", Value: 1}, {Key: "name", Value: 1}}
	cats, _, err := findPage[*domain.TabCategory](ctx, r.col, filter, sort, domain.PageRequest{})
	if err != nil {
		return nil, fmt.Errorf("list tab categories: %w", err)
	}
	return cats, nil
}

func (r *TabCategoryRepository) Update(ctx context.Context, c *domain.TabCategory) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"category_id": c.CategoryID}, bson.M{"$set": bson.M{
		"name":            c.Name,
		"description":     c.Description,
		"order":           c.Order,
		"color":           c.Color,
		"icon":            c.Icon,
		"is_active":       c.IsActive,
		"last_updated_by": c.LastUpdatedBy,
		"updated_at":      c.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update tab category: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTabCategoryNotFound
	}
	return nil
}

func (r *TabCategoryRepository) Delete(ctx context.Context, categoryID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return fmt.Errorf("delete tab category: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTabCategoryNotFound
	}
	return nil
}

func (r *TabCategoryRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "category_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "is_active", Value: 1}, {Key: "order", Value: 1}}},
	})
	return err
}

// ── Links ────────────────────────────────────────────────────────────────────

type TabLinkRepository struct {
	col *mongo.Collection
}

func NewTabLinkRepository(db *mongo.Database) *TabLinkRepository {
	return &TabLinkRepository{col: db.Collection(collectionTabLinks)}
}

var linkSort = bson.D{{Key: "category_id", Value: 1}, {Key: "order", Value: 1}, {Key: "title", Value: 1}}

func (r *TabLinkRepository) Create(ctx context.Context, l *domain.TabLink) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *l
	doc.ID = ""
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: link %q already exists", domain.ErrDuplicateKey, l.LinkID)
		}
		return fmt.Errorf("insert tab link: %w", err)
	}
	l.ID = insertedHex(res)
	return nil
}

func (r *TabLinkRepository) FindByLinkID(ctx context.Context, linkID string) (*domain.TabLink, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.TabLink
	if err := r.col.FindOne(ctx, bson.M{"link_id": linkID}).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTabLinkNotFound
		}
		return nil, fmt.Errorf("find tab link: %w", err)
	}
	return &l, nil
}

func (r *TabLinkRepository) List(ctx context.Context, f ports.TabLinkFilter) ([]*domain.TabLink, int64, error) {
	filter := bson.M{}
	if f.CategoryID != "" {
		filter["category_id"] = f.CategoryID
	}
	if f.IsActive != nil {
		filter["is_active"] = *f.IsActive
	}
	if f.Search != "" {
		filter["$or"] = searchAny(f.Search, "title", "description", "path")
	}
	links, total, err := findPage[*domain.TabLink](ctx, r.col, filter, linkSort, f.PageRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("list tab links: %w", err)
	}
	return links, total, nil
}

func (r *TabLinkRepository) ListActive(ctx context.Context) ([]*domain.TabLink, error) {
	links, _, err := findPage[*domain.TabLink](ctx, r.col, bson.M{"is_active": true}, linkSort, domain.PageRequest{})
	if err != nil {
		return nil, fmt.Errorf("list active tab links: %w", err)
	}
	return links, nil
}

func (r *TabLinkRepository) CountActive(ctx context.Context) (map[string]int64, error) {
	counts, err := countBy(ctx, r.col, bson.M{"is_active": true}, "category_id")
	if err != nil {
		return nil, fmt.Errorf("count active tab links: %w", err)
	}
	out := make(map[string]int64, len(counts))
	for _, c := range counts {
		out[c.Key] = c.Count
	}
	return out, nil
}

func (r *TabLinkRepository) Update(ctx context.Context, l *domain.TabLink) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"link_id": l.LinkID}, bson.M{"$set": bson.M{
		"area_title":       l.AreaTitle,
		"area_description": l.AreaDescription,
		"title":            l.Title,
		"description":      l.Description,
		"icon":             l.Icon,
		"path":             l.Path,
		"order":            l.Order,
		"is_active":        l.IsActive,
		"last_updated_by":  l.LastUpdatedBy,
		"updated_at":       l.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update tab link: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrTabLinkNotFound
	}
	return nil
}

func (r *TabLinkRepository) Delete(ctx context.Context, linkID string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"link_id": linkID})
	if err != nil {
		return fmt.Errorf("delete tab link: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrTabLinkNotFound
	}
	return nil
}

func (r *TabLinkRepository) DeleteByCategory(ctx context.Context, categoryID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteMany(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return 0, fmt.Errorf("delete tab links of %q: %w", categoryID, err)
	}
	return res.DeletedCount, nil
}

// Reorder updates every listed link of the category in one unordered bulk write.
// Links of other categories are untouched because the filter pins category_id.
func (r *TabLinkRepository) Reorder(ctx context.Context, categoryID string, positions []domain.LinkPosition, step int) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	models := make([]mongo.WriteModel, 0, len(positions))
	for _, p := range positions {
		models = append(models, mongo.NewUpdateOneModel().
			SetFilter(bson.M{"link_id": p.LinkID, "category_id": categoryID}).
			SetUpdate(bson.M{"$set": bson.M{"order": p.Position * step}}))
	}
	res, err := r.col.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("reorder tab links: %w", err)
	}
	return res.ModifiedCount, nil
}

func (r *TabLinkRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	_, err := r.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "link_id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "category_id", Value: 1}, {Key: "order", Value: 1}}},
		{Keys: bson.D{{Key: "is_active", Value: 1}}},
	})
	return err
}
