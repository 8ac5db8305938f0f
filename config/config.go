package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreFile     = "file"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreS3       = "s3"
)

// Config holds all configuration for the application
type Config struct {
	Env Environment `mapstructure:"env" validate:"oneof=development test ci production"`

	// Server configuration
	ServerHost string `mapstructure:"server_host"`
	ServerPort string `mapstructure:"server_port" validate:"required,numeric"`

	// Storage configuration
	StoreDriver string `mapstructure:"store_driver" validate:"oneof=file sqlite postgres s3"`
	RecipesFile string `mapstructure:"recipes_file" validate:"required_if=StoreDriver file"`
	SQLitePath  string `mapstructure:"sqlite_path" validate:"required_if=StoreDriver sqlite"`
	SeedOnStart bool   `mapstructure:"seed_on_start"`

	// Database configuration
	DBHost     string `mapstructure:"db_host" validate:"required_if=StoreDriver postgres"`
	DBPort     string `mapstructure:"db_port" validate:"required_if=StoreDriver postgres"`
	DBUser     string `mapstructure:"db_user" validate:"required_if=StoreDriver postgres"`
	DBPassword string `mapstructure:"db_password"`
	DBName     string `mapstructure:"db_name" validate:"required_if=StoreDriver postgres"`
	DBSSLMode  string `mapstructure:"db_ssl_mode"`

	// S3 configuration
	S3Bucket  string `mapstructure:"s3_bucket_name" validate:"required_if=StoreDriver s3"`
	S3Key     string `mapstructure:"s3_key"`
	AWSRegion string `mapstructure:"aws_region"`

	// Redis configuration; an empty URL disables rate limiting
	RedisURL          string        `mapstructure:"redis_url"`
	RateLimitRequests int           `mapstructure:"rate_limit_requests" validate:"gte=1"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window" validate:"gt=0"`

	// HTTP policy
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"dive,url"`

	// Observability
	LogLevel       string `mapstructure:"log_level" validate:"oneof=debug info warn error"`
	LogFormat      string `mapstructure:"log_format" validate:"oneof=console json"`
	MetricsEnabled bool   `mapstructure:"metrics_enabled"`
}

// Addr returns host:port for the HTTP listener.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

// PostgresDSN builds the connection string for the postgres store driver.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// LoadConfig creates a new Config instance with values from the environment
// and an optional .env file in the working directory.
func LoadConfig() (*Config, error) {
	// Missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)
	for _, key := range v.AllKeys() {
		// AutomaticEnv only resolves keys viper already knows about
		if err := v.BindEnv(key, strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if ci := v.GetString("ci"); ci == "true" {
		cfg.Env = CI
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", string(Development))
	v.SetDefault("ci", "")

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "8000")

	v.SetDefault("store_driver", StoreFile)
	v.SetDefault("recipes_file", "recipes.json")
	v.SetDefault("sqlite_path", "recipes.db")
	v.SetDefault("seed_on_start", true)

	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "recipebox")
	v.SetDefault("db_ssl_mode", "disable")

	v.SetDefault("s3_bucket_name", "")
	v.SetDefault("s3_key", "recipes.json")
	v.SetDefault("aws_region", "us-east-1")

	v.SetDefault("redis_url", "")
	v.SetDefault("rate_limit_requests", 60)
	v.SetDefault("rate_limit_window", "1m")

	v.SetDefault("cors_allowed_origins", []string{"http://localhost:3000", "http://127.0.0.1:3000"})

	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
	v.SetDefault("metrics_enabled", true)
}
