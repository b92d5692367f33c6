package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

const collectionContents = "contents"

type ContentRepository struct {
	col *mongo.Collection
}

func NewContentRepository(db *mongo.Database) *ContentRepository {
	return &ContentRepository{col: db.Collection(collectionContents)}
}

// Create inserts a content item and sets its ID.
func (r *ContentRepository) Create(ctx context.Context, c *domain.Content) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *c
	doc.ID = ""
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: slug %q is taken", domain.ErrDuplicateKey, c.Slug)
		}
		return fmt.Errorf("insert content: %w", err)
	}
	c.ID = insertedHex(res)
	return nil
}

func (r *ContentRepository) FindByID(ctx context.Context, id string) (*domain.Content, error) {
	oid, err := objectID(id, domain.ErrContentNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *ContentRepository) FindBySlug(ctx context.Context, slug string) (*domain.Content, error) {
	return r.findOne(ctx, bson.M{"slug": slug})
}

func (r *ContentRepository) findOne(ctx context.Context, filter bson.M) (*domain.Content, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var c domain.Content
	if err := r.col.FindOne(ctx, filter).Decode(&c); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrContentNotFound
		}
		return nil, fmt.Errorf("find content: %w", err)
	}
	return &c, nil
}

func (r *ContentRepository) List(ctx context.Context, f ports.ContentFilter) ([]*domain.Content, int64, error) {
	filter := bson.M{}
	and := bson.A{}

	if f.Type != "" {
		filter["type"] = f.Type
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Language != "" {
		filter["language"] = f.Language
	}
	if f.Tag != "" {
		filter["tags"] = f.Tag
	}
	if f.From != nil || f.To != nil {
		rng := bson.M{}
		if f.From != nil {
			rng["$gte"] = *f.From
		}
		if f.To != nil {
			rng["$lte"] = *f.To
		}
		filter["published_at"] = rng
	}
	if f.Search != "" {
		and = append(and, bson.M{"$or": searchAny(f.Search, "title", "excerpt", "body", "tags")})
	}
	if !f.VisibleAt.IsZero() {
		and = append(and, visibleAt(f.VisibleAt)...)
	}
	if len(and) > 0 {
		filter["$and"] = and
	}

	items, total, err := findPage[*domain.Content](ctx, r.col, filter, contentSort, f.PageRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("list contents: %w", err)
	}
	return items, total, nil
}

var contentSort = bson.D{
	{Key: "published_at", Value: -1},
	{Key: "created_at", Value: -1},
	{Key: "_id", Value: -1},
}

// visibleAt mirrors domain.Content.VisibleAt as query clauses.
func visibleAt(now time.Time) bson.A {
	return bson.A{
		bson.M{"$or": bson.A{
			bson.M{"status": domain.ContentPublished},
			bson.M{"status": domain.ContentScheduled, "scheduled_for": bson.M{"$lte": now}},
		}},
		bson.M{"$or": bson.A{
			bson.M{"expires_at": nil},
			bson.M{"expires_at": bson.M{"$gt": now}},
		}},
	}
}

// Update overwrites the editable fields. The view counter is owned by
// IncrementViews and is never written back from a read copy.
func (r *ContentRepository) Update(ctx context.Context, c *domain.Content) error {
	oid, err := objectID(c.ID, domain.ErrContentNotFound)
	if err != nil {
		return err
	}
	update, err := contentUpdate(c)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: slug %q is taken", domain.ErrDuplicateKey, c.Slug)
		}
		return fmt.Errorf("update content: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

// contentOptionalFields are omitted from the encoded document when empty and
// must be unset explicitly so a cleared value does not survive an edit.
var contentOptionalFields = []string{
	"excerpt", "featured_image", "gallery", "attachments",
	"published_at", "scheduled_for", "expires_at",
	"version_history", "last_modified_by",
}

func contentUpdate(c *domain.Content) (bson.M, error) {
	doc := *c
	doc.ID = ""
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	var set bson.M
	if err := bson.Unmarshal(raw, &set); err != nil {
		return nil, fmt.Errorf("encode content: %w", err)
	}
	delete(set, "_id")
	delete(set, "views")

	update := bson.M{"$set": set}
	unset := bson.M{}
	for _, f := range contentOptionalFields {
		if _, ok := set[f]; !ok {
			unset[f] = ""
		}
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}
	return update, nil
}

func (r *ContentRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrContentNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete content: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrContentNotFound
	}
	return nil
}

func (r *ContentRepository) IncrementViews(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrContentNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err = r.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$inc": bson.M{"views": 1}})
	if err != nil {
		return fmt.Errorf("increment views: %w", err)
	}
	return nil
}

func (r *ContentRepository) Stats(ctx context.Context) (*domain.ContentStats, error) {
	total, err := func() (int64, error) {
		ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
		defer cancel()
		return r.col.CountDocuments(ctx, bson.M{})
	}()
	if err != nil {
		return nil, fmt.Errorf("content stats: %w", err)
	}

	stats := &domain.ContentStats{Total: total}
	if stats.ByType, err = countBy(ctx, r.col, bson.M{}, "type"); err != nil {
		return nil, fmt.Errorf("content stats by type: %w", err)
	}
	if stats.ByStatus, err = countBy(ctx, r.col, bson.M{}, "status"); err != nil {
		return nil, fmt.Errorf("content stats by status: %w", err)
	}
	if stats.ByCategory, err = countBy(ctx, r.col, bson.M{}, "category"); err != nil {
		return nil, fmt.Errorf("content stats by category: %w", err)
	}
	return stats, nil
}

func (r *ContentRepository) Related(ctx context.Context, c *domain.Content, now time.Time, limit int) ([]*domain.Content, error) {
	oid, err := objectID(c.ID, domain.ErrContentNotFound)
	if err != nil {
		return nil, err
	}

	similar := bson.A{bson.M{"category": c.Category}, bson.M{"type": c.Type}}
	if len(c.Tags) > 0 {
		similar = append(similar, bson.M{"tags": bson.M{"$in": c.Tags}})
	}
	and := append(bson.A{bson.M{"$or": similar}}, visibleAt(now)...)
	filter := bson.M{"_id": bson.M{"$ne": oid}, "$and": and}

	items, _, err := findPage[*domain.Content](ctx, r.col, filter, contentSort, domain.PageRequest{Page: 1, Limit: limit})
	if err != nil {
		return nil, fmt.Errorf("related contents: %w", err)
	}
	return items, nil
}

// EnsureIndexes creates the unique slug index and the listing indexes.
func (r *ContentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "slug", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "published_at", Value: -1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "tags", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
