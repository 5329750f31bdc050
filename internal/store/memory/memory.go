// Package memory implements the credential store and token blacklist in
// process memory. It backs tests and local development; semantics match
// the mongodb package, including duplicate-email rejection and
// idempotent blacklist inserts.
package memory

import (
	"context"
	"sync"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/goliatone/go-auth-server/internal/auth"
)

var _ auth.UserStore = (*UserStore)(nil)
var _ auth.TokenBlacklist = (*TokenBlacklist)(nil)

// UserStore keeps user records in a map keyed by email.
type UserStore struct {
	mu      sync.RWMutex
	byEmail map[string]*auth.User
}

// NewUserStore creates an empty in-memory credential store.
func NewUserStore() *UserStore {
	return &UserStore{byEmail: map[string]*auth.User{}}
}

// Create stores the user, assigning an id. Duplicate emails are
// rejected with auth.ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, user *auth.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[user.Email]; exists {
		return auth.ErrEmailTaken
	}

	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}

	clone := *user
	s.byEmail[user.Email] = &clone

	return nil
}

// GetByEmail looks up a user by exact email match.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.byEmail[email]
	if !ok {
		return nil, goerrors.New("user not found", goerrors.CategoryNotFound)
	}

	clone := *user
	return &clone, nil
}

// GetByID looks up a user by its hex object id.
func (s *UserStore) GetByID(ctx context.Context, id string) (*auth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.byEmail {
		if user.ID.Hex() == id {
			clone := *user
			return &clone, nil
		}
	}

	return nil, goerrors.New("user not found", goerrors.CategoryNotFound)
}

// TokenBlacklist keeps revoked tokens in a set.
type TokenBlacklist struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
}

// NewTokenBlacklist creates an empty in-memory blacklist.
func NewTokenBlacklist() *TokenBlacklist {
	return &TokenBlacklist{tokens: map[string]time.Time{}}
}

// Add records the token as revoked. Re-adding is a no-op.
func (s *TokenBlacklist) Add(ctx context.Context, token string, expiresAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tokens[token]; !exists {
		s.tokens[token] = expiresAt
	}

	return nil
}

// Contains reports whether the exact token string has been revoked.
func (s *TokenBlacklist) Contains(ctx context.Context, token string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.tokens[token]
	return ok, nil
}

// Len reports the number of blacklisted tokens, used by tests to assert
// insert idempotency.
func (s *TokenBlacklist) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tokens)
}
