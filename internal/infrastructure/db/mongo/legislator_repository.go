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

const collectionLegislators = "legislators"

// distributionFields maps the public grouping names to document paths.
var distributionFields = map[string]string{
	"party":      "party",
	"department": "district.department",
}

type LegislatorRepository struct {
	col *mongo.Collection
}

func NewLegislatorRepository(db *mongo.Database) *LegislatorRepository {
	return &LegislatorRepository{col: db.Collection(collectionLegislators)}
}

func (r *LegislatorRepository) Create(ctx context.Context, l *domain.Legislator) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *l
	doc.ID = ""
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: ci %q is already registered", domain.ErrDuplicateKey, l.CI)
		}
		return fmt.Errorf("insert legislator: %w", err)
	}
	l.ID = insertedHex(res)
	return nil
}

func (r *LegislatorRepository) FindByID(ctx context.Context, id string) (*domain.Legislator, error) {
	oid, err := objectID(id, domain.ErrLegislatorNotFound)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *LegislatorRepository) FindByCI(ctx context.Context, ci string) (*domain.Legislator, error) {
	return r.findOne(ctx, bson.M{"ci": ci})
}

func (r *LegislatorRepository) findOne(ctx context.Context, filter bson.M) (*domain.Legislator, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var l domain.Legislator
	if err := r.col.FindOne(ctx, filter).Decode(&l); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrLegislatorNotFound
		}
		return nil, fmt.Errorf("find legislator: %w", err)
	}
	return &l, nil
}

func (r *LegislatorRepository) List(ctx context.Context, f ports.LegislatorFilter) ([]*domain.Legislator, int64, error) {
	filter := bson.M{}
	if f.Party != "" {
		filter["party"] = f.Party
	}
	if f.Caucus != "" {
		filter["caucus"] = f.Caucus
	}
	if f.Position != "" {
		filter["position"] = f.Position
	}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Department != "" {
		filter["district.department"] = f.Department
	}
	if f.Commission != "" {
		filter["commissions.name"] = f.Commission
	}
	if f.Search != "" {
		filter["$or"] = searchAny(f.Search, "full_name", "ci", "party", "profession")
	}

	sort := bson.D{{Key: "last_names", Value: 1}, {Key: "first_names", Value: 1}, {Key: "_id", Value: 1}}
	items, total, err := findPage[*domain.Legislator](ctx, r.col, filter, sort, f.PageRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("list legislators: %w", err)
	}
	return items, total, nil
}

// Update replaces the stored document. The CI is re-asserted from the stored
// record so it can never change.
func (r *LegislatorRepository) Update(ctx context.Context, l *domain.Legislator) error {
	oid, err := objectID(l.ID, domain.ErrLegislatorNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := *l
	doc.ID = ""
	res, err := r.col.ReplaceOne(ctx, bson.M{"_id": oid, "ci": l.CI}, doc)
	if err != nil {
		return fmt.Errorf("update legislator: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrLegislatorNotFound
	}
	return nil
}

func (r *LegislatorRepository) Delete(ctx context.Context, id string) error {
	oid, err := objectID(id, domain.ErrLegislatorNotFound)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete legislator: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrLegislatorNotFound
	}
	return nil
}

func (r *LegislatorRepository) Stats(ctx context.Context) (*domain.LegislatorStats, error) {
	countCtx, cancel := context.WithTimeout(ctx, defaultTimeout)
	total, err := r.col.CountDocuments(countCtx, bson.M{})
	cancel()
	if err != nil {
		return nil, fmt.Errorf("legislator stats: %w", err)
	}

	stats := &domain.LegislatorStats{Total: total}
	if stats.ByParty, err = countBy(ctx, r.col, bson.M{}, "party"); err != nil {
		return nil, fmt.Errorf("legislator stats by party: %w", err)
	}
	if stats.ByPosition, err = countBy(ctx, r.col, bson.M{}, "position"); err != nil {
		return nil, fmt.Errorf("legislator stats by position: %w", err)
	}
	if stats.ByStatus, err = countBy(ctx, r.col, bson.M{}, "status"); err != nil {
		return nil, fmt.Errorf("legislator stats by status: %w", err)
	}
	return stats, nil
}

func (r *LegislatorRepository) CountActiveBy(ctx context.Context, field string) ([]domain.Count, error) {
	path, ok := distributionFields[field]
	if !ok {
		return nil, domain.NewValidationError("field", "unsupported distribution field "+field)
	}
	counts, err := countBy(ctx, r.col, bson.M{"status": domain.LegislatorActive}, path)
	if err != nil {
		return nil, fmt.Errorf("legislator distribution by %s: %w", field, err)
	}
	return counts, nil
}

func (r *LegislatorRepository) ActiveCommissions(ctx context.Context) ([]domain.Count, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": domain.LegislatorActive}}},
		{{Key: "$unwind", Value: "$commissions"}},
		{{Key: "$group", Value: bson.M{"_id": "$commissions.name", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	counts, err := aggregateCounts(ctx, r.col, pipeline)
	if err != nil {
		return nil, fmt.Errorf("active commissions: %w", err)
	}
	return counts, nil
}

// EnsureIndexes creates the unique CI index and the filter indexes.
func (r *LegislatorRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "ci", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "last_names", Value: 1}, {Key: "first_names", Value: 1}}},
		{Keys: bson.D{{Key: "party", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "district.department", Value: 1}}},
		{Keys: bson.D{{Key: "commissions.name", Value: 1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
