package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaults() *Config {
	c := &Config{}
	c.LoadDefaults()
	return c
}

func writeTempJSON(t *testing.T, data map[string]any) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cfg.json")
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"server"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	c := defaults()

	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
	assert.Equal(t, ":memory:", c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.Equal(t, []string{"*"}, c.CORSAllowedOrigins)
}

func TestEnsureSecretKey(t *testing.T) {
	c := defaults()

	generated, err := c.EnsureSecretKey()
	require.NoError(t, err)
	assert.True(t, generated)
	assert.Len(t, c.SecretKey, 64)

	key := c.SecretKey
	generated, err = c.EnsureSecretKey()
	require.NoError(t, err)
	assert.False(t, generated)
	assert.Equal(t, key, c.SecretKey, "configured secret must be kept")
}

func TestParseFlags(t *testing.T) {
	withArgs(t, "-c", "ignored.json", "-a", "127.0.0.1:9090", "-d", "kv.db", "-s", "secret", "-t", "30", "-b", "4")

	c := defaults()
	require.NoError(t, parseFlags(c))

	want := defaults()
	want.EndpointAddrHTTP = "127.0.0.1:9090"
	want.DatabaseDSN = "kv.db"
	want.SecretKey = "secret"
	want.AccessTokenValidityDuration = 30 * time.Minute
	want.BcryptCost = 4

	assert.Empty(t, cmp.Diff(want, c))
}

func TestParseFlags_UnsetTokenFlagKeepsDuration(t *testing.T) {
	withArgs(t, "-a", ":1")

	c := defaults()
	c.AccessTokenValidityDuration = 90 * time.Second
	require.NoError(t, parseFlags(c))

	assert.Equal(t, 90*time.Second, c.AccessTokenValidityDuration)
}

func TestParseFlags_BadValue(t *testing.T) {
	withArgs(t, "-b", "many")

	require.Error(t, parseFlags(defaults()))
}

func TestParseJson(t *testing.T) {
	t.Run("loads from file", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"endpoint_addr_http":             ":8081",
			"database_dsn":                   "postgres://kv:kv@localhost:5432/kv",
			"secret_key":                     "from-file",
			"access_token_validity_duration": "2h",
			"bcrypt_cost":                    12,
			"shutdown_timeout":               "5s",
			"cors_allowed_origins":           []string{"https://example.com"},
		})
		withArgs(t, "-config", path)

		c := defaults()
		require.NoError(t, parseJson(c))

		assert.Equal(t, ":8081", c.EndpointAddrHTTP)
		assert.Equal(t, "postgres://kv:kv@localhost:5432/kv", c.DatabaseDSN)
		assert.Equal(t, "from-file", c.SecretKey)
		assert.Equal(t, 2*time.Hour, c.AccessTokenValidityDuration)
		assert.Equal(t, 12, c.BcryptCost)
		assert.Equal(t, 5*time.Second, c.ShutdownTimeout)
		assert.Equal(t, []string{"https://example.com"}, c.CORSAllowedOrigins)
	})

	t.Run("partial file keeps other values", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{"endpoint_addr_http": ":7000"})
		withArgs(t, "-c", path)

		c := defaults()
		require.NoError(t, parseJson(c))

		want := defaults()
		want.EndpointAddrHTTP = ":7000"
		assert.Empty(t, cmp.Diff(want, c))
	})

	t.Run("no file flag means no changes", func(t *testing.T) {
		withArgs(t)

		c := defaults()
		require.NoError(t, parseJson(c))
		assert.Empty(t, cmp.Diff(defaults(), c))
	})

	t.Run("invalid JSON", func(t *testing.T) {
		bad := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))
		withArgs(t, "-c", bad)

		require.Error(t, parseJson(defaults()))
	})

	t.Run("missing file", func(t *testing.T) {
		withArgs(t, "-c", filepath.Join(t.TempDir(), "nope.json"))

		require.Error(t, parseJson(defaults()))
	})
}

func TestParseEnv(t *testing.T) {
	t.Setenv("PORT", "4000")
	t.Setenv("DATABASE_DSN", "file:kv.db")
	t.Setenv("SECRET_KEY", "env-secret")
	t.Setenv("ACCESS_TOKEN_TTL", "45m")
	t.Setenv("BCRYPT_COST", "11")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	c := defaults()
	require.Empty(t, parseEnv(c))

	assert.Equal(t, ":4000", c.EndpointAddrHTTP)
	assert.Equal(t, "file:kv.db", c.DatabaseDSN)
	assert.Equal(t, "env-secret", c.SecretKey)
	assert.Equal(t, 45*time.Minute, c.AccessTokenValidityDuration)
	assert.Equal(t, 11, c.BcryptCost)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, c.CORSAllowedOrigins)
}

func TestParseEnv_CollectsErrors(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "forever")
	t.Setenv("BCRYPT_COST", "high")

	c := defaults()
	errs := parseEnv(c)

	assert.Len(t, errs, 2)
	assert.Equal(t, time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeTempJSON(t, map[string]any{
		"endpoint_addr_http": ":5000",
		"secret_key":         "from-file",
	})
	t.Setenv("PORT", "6000")
	withArgs(t, "-c", path, "-a", ":7000")

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.EndpointAddrHTTP, "flags win over env and file")
	assert.Equal(t, "from-file", c.SecretKey)
	assert.Equal(t, ":memory:", c.DatabaseDSN)
}

func TestLoadConfig_ReportsEnvErrors(t *testing.T) {
	t.Setenv("BCRYPT_COST", "x")
	withArgs(t)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "BCRYPT_COST")
}

func TestValidate(t *testing.T) {
	require.NoError(t, defaults().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero token ttl", func(c *Config) { c.AccessTokenValidityDuration = 0 }, "access token validity"},
		{"negative token ttl", func(c *Config) { c.AccessTokenValidityDuration = -time.Minute }, "access token validity"},
		{"zero shutdown timeout", func(c *Config) { c.ShutdownTimeout = 0 }, "shutdown timeout"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := defaults()
			tt.mutate(c)
			err := c.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadConfig_RejectsNonPositiveDurations(t *testing.T) {
	t.Run("env", func(t *testing.T) {
		t.Setenv("ACCESS_TOKEN_TTL", "0s")
		withArgs(t)

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access token validity")
	})

	t.Run("flag", func(t *testing.T) {
		withArgs(t, "-t", "0")

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access token validity")
	})

	t.Run("file", func(t *testing.T) {
		path := writeTempJSON(t, map[string]any{
			"access_token_validity_duration": "-5m",
			"shutdown_timeout":               "0s",
		})
		withArgs(t, "-c", path)

		_, err := LoadConfig()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access token validity")
		assert.Contains(t, err.Error(), "shutdown timeout")
	})
}
