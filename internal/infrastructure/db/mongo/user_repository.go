package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/senado-bo/portal-api/internal/core/domain"
	"github.com/senado-bo/portal-api/internal/core/ports"
)

const collectionUsers = "users"

type UserRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{col: db.Collection(collectionUsers)}
}

type mongoProfile struct {
	FirstName  string `bson:"first_name,omitempty"`
	LastName   string `bson:"last_name,omitempty"`
	CI         string `bson:"ci,omitempty"`
	Phone      string `bson:"phone,omitempty"`
	Position   string `bson:"position,omitempty"`
	Department string `bson:"department,omitempty"`
	Avatar     string `bson:"avatar,omitempty"`
}

type mongoUser struct {
	ID                primitive.ObjectID `bson:"_id,omitempty"`
	Email             string             `bson:"email"`
	PasswordHash      string             `bson:"password_hash"`
	PasswordHistory   []string           `bson:"password_history,omitempty"`
	RefreshTokenHash  string             `bson:"refresh_token_hash,omitempty"`
	Role              string             `bson:"role"`
	Status            string             `bson:"status"`
	Profile           mongoProfile       `bson:"profile"`
	LoginAttempts     int                `bson:"login_attempts"`
	LockUntil         *time.Time         `bson:"lock_until,omitempty"`
	LastLogin         *time.Time         `bson:"last_login,omitempty"`
	PasswordChangedAt *time.Time         `bson:"password_changed_at,omitempty"`
	CreatedBy         string             `bson:"created_by,omitempty"`
	CreatedAt         time.Time          `bson:"created_at"`
	UpdatedAt         time.Time          `bson:"updated_at"`
}

func toMongoUser(u *domain.User) mongoUser {
	return mongoUser{
		Email:             u.Email,
		PasswordHash:      u.PasswordHash,
		PasswordHistory:   u.PasswordHistory,
		RefreshTokenHash:  u.RefreshTokenHash,
		Role:              string(u.Role),
		Status:            string(u.Status),
		Profile:           mongoProfile(u.Profile),
		LoginAttempts:     u.LoginAttempts,
		LockUntil:         u.LockUntil,
		LastLogin:         u.LastLogin,
		PasswordChangedAt: u.PasswordChangedAt,
		CreatedBy:         u.CreatedBy,
		CreatedAt:         u.CreatedAt,
		UpdatedAt:         u.UpdatedAt,
	}
}

func (m mongoUser) toDomain() *domain.User {
	return &domain.User{
		ID:                m.ID.Hex(),
		Email:             m.Email,
		PasswordHash:      m.PasswordHash,
		PasswordHistory:   m.PasswordHistory,
		RefreshTokenHash:  m.RefreshTokenHash,
		Role:              domain.Role(m.Role),
		Status:            domain.Status(m.Status),
		Profile:           domain.Profile(m.Profile),
		LoginAttempts:     m.LoginAttempts,
		LockUntil:         utcPtr(m.LockUntil),
		LastLogin:         utcPtr(m.LastLogin),
		PasswordChangedAt: utcPtr(m.PasswordChangedAt),
		CreatedBy:         m.CreatedBy,
		CreatedAt:         m.CreatedAt.UTC(),
		UpdatedAt:         m.UpdatedAt.UTC(),
	}
}

// Create inserts a new identity and sets its ID.
func (r *UserRepository) Create(ctx context.Context, u *domain.User) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := toMongoUser(u)
	doc.Email = domain.NormalizeEmail(doc.Email)
	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = insertedHex(res)
	u.Email = doc.Email
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": domain.NormalizeEmail(email)})
}

func (r *UserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var mu mongoUser
	if err := r.col.FindOne(ctx, filter).Decode(&mu); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) List(ctx context.Context, f ports.UserFilter) ([]*domain.User, int64, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = string(f.Role)
	}
	if f.Status != "" {
		filter["status"] = string(f.Status)
	}
	if f.Search != "" {
		filter["$or"] = searchAny(f.Search, "email", "profile.first_name", "profile.last_name")
	}

	docs, total, err := findPage[mongoUser](ctx, r.col, filter,
		bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}, f.PageRequest)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	users := make([]*domain.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toDomain())
	}
	return users, total, nil
}

// Update persists the administratively mutable fields.
func (r *UserRepository) Update(ctx context.Context, u *domain.User) error {
	return r.updateByID(ctx, u.ID, bson.M{"$set": bson.M{
		"role":       string(u.Role),
		"status":     string(u.Status),
		"profile":    mongoProfile(u.Profile),
		"updated_at": u.UpdatedAt,
	}})
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// RecordLoginFailure runs as one pipeline update so concurrent failures never
// lose the lock decision. An elapsed lock restarts the count at one.
func (r *UserRepository) RecordLoginFailure(ctx context.Context, id string, at time.Time, policy domain.LockoutPolicy) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	lockElapsed := bson.M{"$and": bson.A{
		bson.M{"$eq": bson.A{bson.M{"$type": "$lock_until"}, "date"}},
		bson.M{"$lte": bson.A{"$lock_until", at}},
	}}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"login_attempts": bson.M{"$cond": bson.A{
				lockElapsed,
				1,
				bson.M{"$add": bson.A{bson.M{"$ifNull": bson.A{"$login_attempts", 0}}, 1}},
			}},
			"lock_until": bson.M{"$cond": bson.A{lockElapsed, "$$REMOVE", "$lock_until"}},
		}}},
		{{Key: "$set", Value: bson.M{
			"lock_until": bson.M{"$cond": bson.A{
				bson.M{"$gte": bson.A{"$login_attempts", policy.MaxAttempts}},
				at.Add(policy.LockDuration),
				"$lock_until",
			}},
			"updated_at": at,
		}}},
	}

	var mu mongoUser
	err = r.col.FindOneAndUpdate(ctx, bson.M{"_id": oid}, pipeline,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&mu)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("record login failure: %w", err)
	}
	return mu.toDomain(), nil
}

func (r *UserRepository) RecordLoginSuccess(ctx context.Context, id string, at time.Time, refreshHash string) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"login_attempts":     0,
			"last_login":         at,
			"refresh_token_hash": refreshHash,
			"updated_at":         at,
		},
		"$unset": bson.M{"lock_until": ""},
	})
}

func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id, hash string) error {
	if hash == "" {
		return r.updateByID(ctx, id, bson.M{"$unset": bson.M{"refresh_token_hash": ""}})
	}
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{"refresh_token_hash": hash}})
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string, history []string, at time.Time) error {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"password_hash":       hash,
			"password_history":    history,
			"password_changed_at": at,
			"updated_at":          at,
		},
		"$unset": bson.M{"refresh_token_hash": ""},
	})
}

func (r *UserRepository) updateByID(ctx context.Context, id string, update bson.M) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return domain.ErrUserNotFound
	}
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": oid}, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// EnsureIndexes creates the unique email index and the listing indexes.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, indexTimeout)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "role", Value: 1}, {Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}
	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
