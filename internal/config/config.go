// Package config loads process-wide configuration from the environment.
// It is read once in main and injected into each component; nothing in
// the server reaches for os.Getenv at runtime.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Addr            string   `env:"AUTH_SERVER_ADDR" envDefault:":5000"`
	MongoURI        string   `env:"AUTH_MONGO_URI" envDefault:"mongodb://localhost:27017"`
	MongoDatabase   string   `env:"AUTH_MONGO_DATABASE" envDefault:"auth"`
	SigningKey      string   `env:"AUTH_SIGNING_KEY,required,notEmpty"`
	TokenExpiration int      `env:"AUTH_TOKEN_EXPIRATION" envDefault:"24"`
	Issuer          string   `env:"AUTH_TOKEN_ISSUER" envDefault:"go-auth-server"`
	Audience        []string `env:"AUTH_TOKEN_AUDIENCE" envSeparator:"," envDefault:"go-auth-server"`
	CookieName      string   `env:"AUTH_COOKIE_NAME" envDefault:"token"`
	BcryptCost      int      `env:"AUTH_BCRYPT_COST"`
	Debug           bool     `env:"AUTH_DEBUG"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.TokenExpiration <= 0 {
		cfg.TokenExpiration = 24
	}

	return cfg, nil
}

// GetSigningKey returns the JWT signing secret
func (c *Config) GetSigningKey() string {
	return c.SigningKey
}

// GetTokenExpiration returns the token TTL in hours
func (c *Config) GetTokenExpiration() int {
	return c.TokenExpiration
}

// GetIssuer returns the iss claim value
func (c *Config) GetIssuer() string {
	return c.Issuer
}

// GetAudience returns the aud claim values
func (c *Config) GetAudience() []string {
	return c.Audience
}

// GetBcryptCost returns the bcrypt cost for password hashing.
// Zero means the hasher's default.
func (c *Config) GetBcryptCost() int {
	return c.BcryptCost
}
