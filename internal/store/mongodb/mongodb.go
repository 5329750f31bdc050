// Package mongodb implements the credential store and token blacklist on
// top of the official MongoDB driver. Uniqueness and pruning are pushed
// into indexes so every store operation stays a single atomic write.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const connectTimeout = 10 * time.Second

// Connect dials the server and verifies the connection with a ping.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return client, nil
}

// Store bundles the collections the auth core persists to.
type Store struct {
	users     *UserStore
	blacklist *TokenBlacklist
}

// New builds the store over the given database.
func New(db *mongo.Database) *Store {
	return &Store{
		users:     NewUserStore(db),
		blacklist: NewTokenBlacklist(db),
	}
}

// Users returns the credential store
func (s *Store) Users() *UserStore {
	return s.users
}

// Blacklist returns the token blacklist
func (s *Store) Blacklist() *TokenBlacklist {
	return s.blacklist
}

// EnsureIndexes creates the unique email index and the blacklist TTL
// index. Safe to call on every startup; index creation is idempotent.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	if err := s.users.EnsureIndexes(ctx); err != nil {
		return err
	}
	return s.blacklist.EnsureIndexes(ctx)
}
