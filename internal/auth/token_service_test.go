package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-auth-server/internal/auth"
)

type testConfig struct {
	signingKey      string
	tokenExpiration int
	issuer          string
	audience        []string
	bcryptCost      int
}

func (c testConfig) GetSigningKey() string   { return c.signingKey }
func (c testConfig) GetTokenExpiration() int { return c.tokenExpiration }
func (c testConfig) GetIssuer() string       { return c.issuer }
func (c testConfig) GetAudience() []string   { return c.audience }
func (c testConfig) GetBcryptCost() int      { return c.bcryptCost }

func newTestConfig() testConfig {
	return testConfig{
		signingKey:      "test-signing-key",
		tokenExpiration: 24,
		issuer:          "test-issuer",
		audience:        []string{"test-audience"},
	}
}

func TestTokenServiceGenerate(t *testing.T) {
	cfg := newTestConfig()
	service := auth.NewTokenService(cfg, nil)

	tokenString, err := service.Generate("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	// Parse the token to verify structure
	token, err := jwt.ParseWithClaims(tokenString, &auth.Claims{}, func(token *jwt.Token) (any, error) {
		return []byte(cfg.signingKey), nil
	})
	require.NoError(t, err)
	assert.True(t, token.Valid)

	claims, ok := token.Claims.(*auth.Claims)
	require.True(t, ok)
	assert.Equal(t, "user-123", claims.Subject())
	assert.Equal(t, "user-123", claims.UserID())
	assert.Equal(t, cfg.issuer, claims.RegisteredClaims.Issuer)
	assert.Equal(t, jwt.ClaimStrings(cfg.audience), claims.RegisteredClaims.Audience)
	assert.NotEmpty(t, claims.RegisteredClaims.ID)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), claims.Expires(), time.Minute)
}

func TestTokenServiceValidate(t *testing.T) {
	cfg := newTestConfig()
	service := auth.NewTokenService(cfg, nil)

	t.Run("round trip resolves the issuing user", func(t *testing.T) {
		tokenString, err := service.Generate("user-123")
		require.NoError(t, err)

		claims, err := service.Validate(tokenString)
		require.NoError(t, err)
		assert.Equal(t, "user-123", claims.UserID())
	})

	t.Run("expired token", func(t *testing.T) {
		expired := cfg
		expired.tokenExpiration = -1
		expiredService := auth.NewTokenService(expired, nil)

		tokenString, err := expiredService.Generate("user-123")
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
		assert.True(t, auth.IsTokenExpiredError(err))
	})

	t.Run("wrong signing key", func(t *testing.T) {
		other := cfg
		other.signingKey = "other-signing-key"
		otherService := auth.NewTokenService(other, nil)

		tokenString, err := otherService.Generate("user-123")
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := cfg
		other.issuer = "someone-else"
		otherService := auth.NewTokenService(other, nil)

		tokenString, err := otherService.Generate("user-123")
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})

	t.Run("unexpected signing method", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &auth.Claims{
			RegisteredClaims: jwt.RegisteredClaims{
				Subject:   "user-123",
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			},
		})
		tokenString, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = service.Validate(tokenString)
		assert.Error(t, err)
	})

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.Validate("not.a.token")
		assert.Error(t, err)
	})
}
