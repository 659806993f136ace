package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	StoreMemory   = "memory"
	StorePostgres = "postgres"
)

// Config is the root application configuration.
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Auth   AuthConfig
	AWS    AWSConfig
	CORS   CORSConfig
	Log    LogConfig
}

type ServerConfig struct {
	Port            int           `env:"APP_PORT"                env-default:"8080"`
	GinMode         string        `env:"GIN_MODE"                env-default:"release"`
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// StoreConfig selects where meals and the profile live. The memory driver
// resets on restart.
type StoreConfig struct {
	Driver   string `env:"STORE_DRIVER" env-default:"memory"`
	Host     string `env:"DB_HOST"`
	User     string `env:"DB_USER"`
	Password string `env:"DB_PASSWORD"`
	Name     string `env:"DB_NAME"`
	Port     string `env:"DB_PORT"      env-default:"5432"`
	SSLMode  string `env:"DB_SSLMODE"   env-default:"disable"`
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET"`
	APISecret string        `env:"API_SECRET"`
	TokenTTL  time.Duration `env:"AUTH_TOKEN_TTL" env-default:"24h"`
	Required  bool          `env:"AUTH_REQUIRED"  env-default:"false"`
}

type AWSConfig struct {
	Region             string `env:"AWS_REGION"`
	S3Bucket           string `env:"S3_BUCKET"`
	CloudFrontURL      string `env:"CLOUDFRONT_URL"`
	SNSTopicARN        string `env:"SNS_TOPIC_ARN"`
	RekognitionEnabled bool   `env:"REKOGNITION_ENABLED" env-default:"false"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://127.0.0.1:3000,https://app.shaysystems.com"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads an optional .env file, then the environment, then validates.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port <= 0 {
		errs = append(errs, fmt.Errorf("APP_PORT must be positive, got %d", c.Server.Port))
	}

	c.Store.Driver = strings.ToLower(strings.TrimSpace(c.Store.Driver))
	switch c.Store.Driver {
	case StoreMemory:
	case StorePostgres:
		if c.Store.Host == "" || c.Store.Name == "" {
			errs = append(errs, errors.New("DB_HOST and DB_NAME are required for the postgres store"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver))
	}

	if c.Auth.Required && c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required when AUTH_REQUIRED is set"))
	}
	if c.AWS.RekognitionEnabled && c.AWS.Region == "" {
		errs = append(errs, errors.New("AWS_REGION is required when REKOGNITION_ENABLED is set"))
	}

	return errors.Join(errs...)
}

// DSN builds the postgres connection string.
func (s StoreConfig) DSN() string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		s.Host, s.User, s.Password, s.Name, s.Port, s.SSLMode)
}
