package mongodb

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/users-api/internal/domain"
	"github.com/phrazzld/users-api/internal/platform/logger"
	"github.com/phrazzld/users-api/internal/store"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// UsersCollection is the collection holding user documents.
	UsersCollection = "users"

	emailIndexName = "email_unique"
)

type userDocument struct {
	ID        primitive.ObjectID `bson:"_id"`
	Name      string             `bson:"name"`
	Email     string             `bson:"email"`
	CreatedAt time.Time          `bson:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt"`
}

func (d userDocument) toDomain() *domain.User {
	return &domain.User{
		ID:        d.ID.Hex(),
		Name:      d.Name,
		Email:     d.Email,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}
}

// MongoUserStore implements store.UserStore on a MongoDB collection.
type MongoUserStore struct {
	coll   *mongo.Collection
	logger *slog.Logger
	now    func() time.Time
}

// NewMongoUserStore creates a user store backed by coll.
// If logger is nil, a default logger will be used.
func NewMongoUserStore(coll *mongo.Collection, logger *slog.Logger) *MongoUserStore {
	if coll == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("collection cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &MongoUserStore{
		coll:   coll,
		logger: logger.With(slog.String("component", "user_store")),
		now:    time.Now,
	}
}

var _ store.UserStore = (*MongoUserStore)(nil)

// EnsureIndexes creates the unique email index. It is idempotent.
func (s *MongoUserStore) EnsureIndexes(ctx context.Context) error {
	model := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName(emailIndexName),
	}

	if _, err := s.coll.Indexes().CreateOne(ctx, model); err != nil {
		return fmt.Errorf("failed to create %s index: %w", emailIndexName, err)
	}

	logger.FromContextOrDefault(ctx, s.logger).Info("indexes ensured",
		slog.String("collection", s.coll.Name()))
	return nil
}

// timestamp returns the current time at the precision BSON stores.
func (s *MongoUserStore) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %v", store.ErrInvalidID, err)
	}
	return oid, nil
}

// Create implements store.UserStore.Create
func (s *MongoUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user.Name = domain.NormalizeName(user.Name)
	user.Email = domain.NormalizeEmail(user.Email)
	if err := user.Validate(); err != nil {
		log.Debug("user validation failed during create", slog.String("error", err.Error()))
		return store.InvalidEntity(err)
	}

	now := s.timestamp()
	doc := userDocument{
		ID:        primitive.NewObjectID(),
		Name:      user.Name,
		Email:     user.Email,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			log.Debug("email already exists")
			return mapUserError(err)
		}
		log.Error("failed to create user", slog.String("error", err.Error()))
		return store.NewStoreError("user", "create", "failed to insert user", err)
	}

	*user = *doc.toDomain()

	log.Debug("user created", slog.String("user_id", user.ID))
	return nil
}

// List implements store.UserStore.List
func (s *MongoUserStore) List(ctx context.Context) ([]*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	opts := options.Find().SetSort(bson.D{
		{Key: "createdAt", Value: -1},
		{Key: "_id", Value: -1},
	})

	cur, err := s.coll.Find(ctx, bson.D{}, opts)
	if err != nil {
		log.Error("failed to list users", slog.String("error", err.Error()))
		return nil, store.NewStoreError("user", "list", "failed to query users", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil {
			log.Warn("failed to close cursor", slog.String("error", cerr.Error()))
		}
	}()

	users := make([]*domain.User, 0)
	for cur.Next(ctx) {
		var doc userDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, store.NewStoreError("user", "list", "failed to decode user", err)
		}
		users = append(users, doc.toDomain())
	}
	if err := cur.Err(); err != nil {
		return nil, store.NewStoreError("user", "list", "failed to iterate users", err)
	}

	return users, nil
}

// GetByID implements store.UserStore.GetByID
func (s *MongoUserStore) GetByID(ctx context.Context, id string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	var doc userDocument
	err = s.coll.FindOne(ctx, bson.D{{Key: "_id", Value: oid}}).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			log.Debug("user not found", slog.String("user_id", id))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user", slog.String("error", err.Error()), slog.String("user_id", id))
		return nil, store.NewStoreError("user", "get", "failed to query user", err)
	}

	return doc.toDomain(), nil
}

// Update implements store.UserStore.Update
func (s *MongoUserStore) Update(
	ctx context.Context,
	id string,
	patch domain.UserPatch,
) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}

	patch = patch.Normalized()
	if err := patch.Validate(); err != nil {
		log.Debug("user validation failed during update",
			slog.String("error", err.Error()),
			slog.String("user_id", id))
		return nil, store.InvalidEntity(err)
	}

	set := bson.D{{Key: "updatedAt", Value: s.timestamp()}}
	if patch.Name != nil {
		set = append(set, bson.E{Key: "name", Value: *patch.Name})
	}
	if patch.Email != nil {
		set = append(set, bson.E{Key: "email", Value: *patch.Email})
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err = s.coll.FindOneAndUpdate(
		ctx,
		bson.D{{Key: "_id", Value: oid}},
		bson.D{{Key: "$set", Value: set}},
		opts,
	).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) || mongo.IsDuplicateKeyError(err) {
			log.Debug("user update rejected", slog.String("error", err.Error()), slog.String("user_id", id))
			return nil, mapUserError(err)
		}
		log.Error("failed to update user", slog.String("error", err.Error()), slog.String("user_id", id))
		return nil, store.NewStoreError("user", "update", "failed to update user", err)
	}

	log.Debug("user updated", slog.String("user_id", id))
	return doc.toDomain(), nil
}

// Delete implements store.UserStore.Delete
func (s *MongoUserStore) Delete(ctx context.Context, id string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	oid, err := parseID(id)
	if err != nil {
		return err
	}

	res, err := s.coll.DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		log.Error("failed to delete user", slog.String("error", err.Error()), slog.String("user_id", id))
		return store.NewStoreError("user", "delete", "failed to delete user", err)
	}

	if res.DeletedCount == 0 {
		log.Debug("user not found for delete", slog.String("user_id", id))
		return store.ErrUserNotFound
	}

	log.Debug("user deleted", slog.String("user_id", id))
	return nil
}
