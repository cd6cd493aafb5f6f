// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// User delete policies for follower edges and direct messages that reference the user.
const (
	DeletePolicyPurge    = "purge"
	DeletePolicyRestrict = "restrict"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Env       string `mapstructure:"APP_ENV"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	DBDriver                 string `mapstructure:"DB_DRIVER"`
	DBHost                   string `mapstructure:"DB_HOST"`
	DBPort                   string `mapstructure:"DB_PORT"`
	DBUser                   string `mapstructure:"DB_USER"`
	DBPassword               string `mapstructure:"DB_PASSWORD"`
	DBName                   string `mapstructure:"DB_NAME"`
	DBSSLMode                string `mapstructure:"DB_SSLMODE"`
	SQLiteDSN                string `mapstructure:"SQLITE_DSN"`
	DBMaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBAutoMigrate            bool   `mapstructure:"DB_AUTO_MIGRATE"`

	RedisURL            string `mapstructure:"REDIS_URL"`
	CacheUserTTLSeconds int    `mapstructure:"CACHE_USER_TTL_SECONDS"`

	UserDeletePolicy string `mapstructure:"USER_DELETE_POLICY"`

	DiagramOutput   string `mapstructure:"DIAGRAM_OUTPUT"`
	DiagramS3Bucket string `mapstructure:"DIAGRAM_S3_BUCKET"`
	AWSRegion       string `mapstructure:"AWS_REGION"`
	// AWSEndpoint points the S3 client at a compatible store such as MinIO.
	AWSEndpoint     string `mapstructure:"AWS_ENDPOINT"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`

	MetricsTextfile string `mapstructure:"METRICS_TEXTFILE"`
}

// LoadConfig loads application configuration from .env, config files and environment variables.
func LoadConfig() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The base config file is optional.
	_ = viper.ReadInConfig()

	env := viper.GetString("APP_ENV")
	if env != "" && env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.normalize()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "")
	viper.SetDefault("DB_DRIVER", DriverSQLite)
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "social_media")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SQLITE_DSN", "social.db")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)
	viper.SetDefault("DB_AUTO_MIGRATE", true)
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("CACHE_USER_TTL_SECONDS", 300)
	viper.SetDefault("USER_DELETE_POLICY", DeletePolicyPurge)
	viper.SetDefault("DIAGRAM_OUTPUT", "diagram.png")
	viper.SetDefault("DIAGRAM_S3_BUCKET", "")
	viper.SetDefault("AWS_REGION", "us-east-1")
	viper.SetDefault("AWS_ENDPOINT", "")
	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("OTLP_ENDPOINT", "localhost:4318")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)
	viper.SetDefault("METRICS_TEXTFILE", "")
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.UserDeletePolicy = strings.ToLower(strings.TrimSpace(c.UserDeletePolicy))
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))
}

// IsProduction reports whether the config targets a production environment.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// Validate ensures that required configuration values are present and consistent.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres:
		if c.DBHost == "" || c.DBName == "" {
			return errors.New("DB_HOST and DB_NAME are required for the postgres driver")
		}
	case DriverSQLite:
		if c.SQLiteDSN == "" {
			return errors.New("SQLITE_DSN is required for the sqlite driver")
		}
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.UserDeletePolicy {
	case DeletePolicyPurge, DeletePolicyRestrict:
	default:
		return fmt.Errorf("unsupported USER_DELETE_POLICY %q", c.UserDeletePolicy)
	}

	if c.DiagramOutput == "" {
		return errors.New("DIAGRAM_OUTPUT is required")
	}
	if c.DBMaxOpenConns < 0 || c.DBMaxIdleConns < 0 || c.DBConnMaxLifetimeMinutes < 0 {
		return errors.New("database pool settings must not be negative")
	}
	if c.TracingSamplerRatio < 0 || c.TracingSamplerRatio > 1 {
		return errors.New("TRACING_SAMPLER_RATIO must be between 0 and 1")
	}

	if c.IsProduction() && c.DBDriver == DriverPostgres {
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must not be 'disable' in production")
		}
	}

	return nil
}
