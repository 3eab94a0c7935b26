package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("SALT_ROUND", "")

	cfg := FromEnv()

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, 10, cfg.SaltRound)
	assert.Equal(t, defaultJWTKey, cfg.JWTKey)
	assert.Empty(t, cfg.RedisURL)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("DB_MAX_OPEN_CONNS", "25")
	t.Setenv("SALT_ROUND", "not-a-number")
	t.Setenv("REDIS_URL", "redis://localhost:6379/1")

	cfg := FromEnv()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, 25, cfg.DBMaxOpenConns)
	assert.Equal(t, 10, cfg.SaltRound, "invalid ints fall back to the default")
	assert.Equal(t, "redis://localhost:6379/1", cfg.RedisURL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown driver", func(c *Config) { c.DBDriver = "mongo" }, true},
		{"default secret in production", func(c *Config) { c.Env = "production" }, true},
		{"custom secret in production", func(c *Config) { c.Env = "production"; c.JWTKey = "s3cret" }, false},
		{"salt round too low", func(c *Config) { c.SaltRound = 2 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{DBDriver: "postgres", Env: "development", JWTKey: defaultJWTKey, SaltRound: 10}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
		})
	}
}
