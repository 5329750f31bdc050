package mongodb

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/goliatone/go-auth-server/internal/auth"
)

const usersCollection = "users"

var _ auth.UserStore = (*UserStore)(nil)

// UserStore persists user records in the users collection.
type UserStore struct {
	coll *mongo.Collection
}

// NewUserStore creates a store over the users collection.
func NewUserStore(db *mongo.Database) *UserStore {
	return &UserStore{coll: db.Collection(usersCollection)}
}

// EnsureIndexes creates the unique index on email. The store, not the
// application, is the authority on email uniqueness.
func (s *UserStore) EnsureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to create users email index")
	}
	return nil
}

// Create inserts the user and backfills the assigned id. A duplicate
// email surfaces as auth.ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, user *auth.User) error {
	res, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return auth.ErrEmailTaken
		}
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to insert user")
	}

	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = id
	}

	return nil
}

// GetByEmail looks up a user by exact email match.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	user := &auth.User{}
	err := s.coll.FindOne(ctx, bson.M{"email": email}).Decode(user)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, goerrors.New("user not found", goerrors.CategoryNotFound).
				WithMetadata(map[string]any{"email": email})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query user by email")
	}
	return user, nil
}

// GetByID looks up a user by its hex object id. Ids that do not parse
// are treated as not found; the id came from an untrusted token.
func (s *UserStore) GetByID(ctx context.Context, id string) (*auth.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, goerrors.New("user not found", goerrors.CategoryNotFound).
			WithMetadata(map[string]any{"id": id})
	}

	user := &auth.User{}
	err = s.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(user)
	if err != nil {
		if goerrors.Is(err, mongo.ErrNoDocuments) {
			return nil, goerrors.New("user not found", goerrors.CategoryNotFound).
				WithMetadata(map[string]any{"id": id})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to query user by id")
	}
	return user, nil
}
