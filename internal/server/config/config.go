// Package config handles configuration for the server: defaults, an optional
// JSON file, environment variables and command-line flags, applied in that
// order so that later layers win.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Tanaychoubey/user-registration-api/internal/common"
)

// Config holds runtime settings for the key-value server.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: SQLite DSN (default in-memory) or a postgres:// URL for pgx.
//   - SecretKey: HMAC secret for signing access tokens (HS256). Empty means a
//     random secret is generated at startup, so tokens do not survive restarts.
//   - AccessTokenValidityDuration: lifetime of issued access tokens.
//   - BcryptCost: cost factor for password hashing.
//   - ShutdownTimeout: how long in-flight requests may run after a stop signal.
//   - CORSAllowedOrigins: origins accepted by the CORS middleware.
type Config struct {
	EndpointAddrHTTP            string
	DatabaseDSN                 string
	SecretKey                   string
	AccessTokenValidityDuration time.Duration
	BcryptCost                  int
	ShutdownTimeout             time.Duration
	CORSAllowedOrigins          []string
}

// LoadDefaults populates Config with development defaults. Storage is
// in-memory and reset on every start.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":3000"
	c.DatabaseDSN = ":memory:"
	c.SecretKey = ""
	c.AccessTokenValidityDuration = time.Hour
	c.BcryptCost = 10
	c.ShutdownTimeout = 10 * time.Second
	c.CORSAllowedOrigins = []string{"*"}
}

// EnsureSecretKey fills an empty SecretKey with 32 random bytes (hex) and
// reports whether it did so.
func (c *Config) EnsureSecretKey() (bool, error) {
	if c.SecretKey != "" {
		return false, nil
	}
	key, err := common.MakeRandHexString(32)
	if err != nil {
		return false, err
	}
	c.SecretKey = key
	return true, nil
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJson(cfg); err != nil {
		return nil, err
	}

	var errs []error
	errs = append(errs, parseEnv(cfg)...)
	if err := parseFlags(cfg); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports settings that would leave the server unusable, such as a
// token lifetime that expires every token on issue.
func (c *Config) Validate() error {
	var errs []error
	if c.AccessTokenValidityDuration <= 0 {
		errs = append(errs, fmt.Errorf("access token validity must be positive, got %s", c.AccessTokenValidityDuration))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, fmt.Errorf("shutdown timeout must be positive, got %s", c.ShutdownTimeout))
	}
	return errors.Join(errs...)
}
