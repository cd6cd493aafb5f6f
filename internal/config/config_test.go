package config

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Env:                 "development",
		DBDriver:            DriverSQLite,
		SQLiteDSN:           "social.db",
		UserDeletePolicy:    DeletePolicyPurge,
		DiagramOutput:       "diagram.png",
		TracingSamplerRatio: 1,
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(c *Config)
		expectError bool
	}{
		{"Defaults", func(c *Config) {}, false},
		{"Unknown driver", func(c *Config) { c.DBDriver = "mysql" }, true},
		{"SQLite without DSN", func(c *Config) { c.SQLiteDSN = "" }, true},
		{"Postgres without host", func(c *Config) { c.DBDriver = DriverPostgres; c.DBName = "db" }, true},
		{"Postgres complete", func(c *Config) { c.DBDriver = DriverPostgres; c.DBHost = "db"; c.DBName = "db" }, false},
		{"Restrict policy", func(c *Config) { c.UserDeletePolicy = DeletePolicyRestrict }, false},
		{"Unknown policy", func(c *Config) { c.UserDeletePolicy = "orphan" }, true},
		{"No diagram output", func(c *Config) { c.DiagramOutput = "" }, true},
		{"Negative pool", func(c *Config) { c.DBMaxOpenConns = -1 }, true},
		{"Sampler out of range", func(c *Config) { c.TracingSamplerRatio = 1.5 }, true},
		{"Production default password", func(c *Config) {
			c.Env = "production"
			c.DBDriver = DriverPostgres
			c.DBHost, c.DBName = "db", "db"
			c.DBPassword, c.DBSSLMode = "password", "require"
		}, true},
		{"Production SSL disabled", func(c *Config) {
			c.Env = "prod"
			c.DBDriver = DriverPostgres
			c.DBHost, c.DBName = "db", "db"
			c.DBPassword, c.DBSSLMode = "s3cret-value", "disable"
		}, true},
		{"Production hardened", func(c *Config) {
			c.Env = "production"
			c.DBDriver = DriverPostgres
			c.DBHost, c.DBName = "db", "db"
			c.DBPassword, c.DBSSLMode = "s3cret-value", "verify-full"
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.mutate(c)
			err := c.Validate()
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadConfig_EnvironmentOverrides(t *testing.T) {
	defer viper.Reset()
	defer os.Unsetenv("APP_ENV")
	defer os.Unsetenv("USER_DELETE_POLICY")
	defer os.Unsetenv("DB_DRIVER")

	os.Setenv("APP_ENV", "test")
	os.Setenv("USER_DELETE_POLICY", "  RESTRICT ")
	os.Setenv("DB_DRIVER", "SQLite")

	c, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DeletePolicyRestrict, c.UserDeletePolicy)
	assert.Equal(t, DriverSQLite, c.DBDriver)
	assert.Equal(t, "diagram.png", c.DiagramOutput)
	assert.Equal(t, 300, c.CacheUserTTLSeconds)
}
