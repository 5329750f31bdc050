package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-auth-server/internal/logging"
)

// RegisterInput carries the validated registration payload into the
// authenticator. Validation happens at the HTTP boundary before any
// side effect.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Authenticator owns the session lifecycle: credential verification,
// token issuance, and token invalidation.
type Authenticator struct {
	users      UserStore
	blacklist  TokenBlacklist
	tokens     *TokenService
	bcryptCost int
	logger     logging.Logger
}

// NewAuthenticator returns a new Authenticator
func NewAuthenticator(users UserStore, blacklist TokenBlacklist, opts Config) *Authenticator {
	logger := logging.Default()
	return &Authenticator{
		users:      users,
		blacklist:  blacklist,
		tokens:     NewTokenService(opts, logger),
		bcryptCost: opts.GetBcryptCost(),
		logger:     logger,
	}
}

func (a *Authenticator) WithLogger(logger logging.Logger) *Authenticator {
	a.logger = logger
	a.tokens.logger = logger
	return a
}

// TokenService returns the TokenService instance used by this Authenticator
func (a *Authenticator) TokenService() *TokenService {
	return a.tokens
}

// Register hashes the password, creates the user record, and issues a
// session token for the new identity. A duplicate email surfaces as
// ErrEmailTaken from the store.
func (a *Authenticator) Register(ctx context.Context, input RegisterInput) (*User, string, error) {
	hash, err := HashPasswordWithCost(input.Password, a.bcryptCost)
	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, "", richErr
		}
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user := &User{
		Fullname: Fullname{
			FirstName: input.FirstName,
			LastName:  input.LastName,
		},
		Email:        input.Email,
		PasswordHash: hash,
		CreatedAt:    time.Now(),
	}

	if err := a.users.Create(ctx, user); err != nil {
		a.logger.Error("Register create user error", "email", input.Email, "error", err)
		return nil, "", err
	}

	token, err := a.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// Login verifies the credentials and issues a session token. Unknown
// emails and wrong passwords both return ErrMismatchedHashAndPassword.
func (a *Authenticator) Login(ctx context.Context, email, password string) (*User, string, error) {
	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, "", ErrMismatchedHashAndPassword
		}
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to retrieve user during verification")
	}

	if err := ComparePasswordAndHash(password, user.PasswordHash); err != nil {
		return nil, "", ErrMismatchedHashAndPassword
	}

	token, err := a.tokens.Generate(user.ID.Hex())
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// SessionFromToken runs the verification chain for an inbound token:
// blacklist membership, signature and expiry, then identity resolution.
// Any failure is terminal and auth-categorized.
func (a *Authenticator) SessionFromToken(ctx context.Context, raw string) (*User, error) {
	revoked, err := a.blacklist.Contains(ctx, raw)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to check token blacklist")
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	claims, err := a.tokens.Validate(raw)
	if err != nil {
		a.logger.Debug("SessionFromToken validation failed", "error", err)
		return nil, err
	}

	user, err := a.users.GetByID(ctx, claims.UserID())
	if err != nil {
		if goerrors.IsNotFound(err) {
			return nil, ErrIdentityNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to resolve session identity")
	}

	return user, nil
}

// Logout inserts the token into the blacklist. The expiry recorded with
// the entry comes from the token itself so the store can prune it once
// it could no longer verify; unreadable tokens fall back to the
// configured TTL from now.
func (a *Authenticator) Logout(ctx context.Context, raw string) error {
	expiresAt := time.Now().Add(a.tokens.TTL())
	if claims, err := a.tokens.Validate(raw); err == nil {
		if exp := claims.Expires(); !exp.IsZero() {
			expiresAt = exp
		}
	}

	if err := a.blacklist.Add(ctx, raw, expiresAt); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to blacklist token")
	}

	return nil
}
