package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

type Config struct {
	Port               string         `env:"PORT" envDefault:"8080"`
	Environment        string         `env:"ENVIRONMENT" envDefault:"development"`
	AllowedOrigins     []string       `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000,http://localhost:8081" envSeparator:","`
	JWTSecret          string         `env:"JWT_SECRET" envDefault:"change-me-in-production"`
	TokenTTL           time.Duration  `env:"TOKEN_TTL" envDefault:"24h"`
	AdminEmails        []string       `env:"ADMIN_EMAILS" envSeparator:","`
	RosterPollInterval time.Duration  `env:"ROSTER_POLL_INTERVAL" envDefault:"2s"`
	Store              StoreConfig    `envPrefix:"STORE_"`
	Redis              RedisConfig    `envPrefix:"REDIS_"`
	Postgres           PostgresConfig `envPrefix:"DB_"`
}

// StoreConfig selects the document store and bounds every call to it.
type StoreConfig struct {
	Driver        string        `env:"DRIVER" envDefault:"redis"`
	Timeout       time.Duration `env:"TIMEOUT" envDefault:"5s"`
	MaxAttempts   uint          `env:"MAX_ATTEMPTS" envDefault:"5"`
	RetryInterval time.Duration `env:"RETRY_INTERVAL" envDefault:"20ms"`
}

type RedisConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"6379"`
	Password string `env:"PASSWORD"`
	DB       int    `env:"DB" envDefault:"0"`
}

type PostgresConfig struct {
	Host     string `env:"HOST" envDefault:"localhost"`
	Port     string `env:"PORT" envDefault:"5432"`
	User     string `env:"USER" envDefault:"ballo"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME" envDefault:"ballo"`
	SSLMode  string `env:"SSLMODE" envDefault:"disable"`
}

// Load reads an optional .env file, then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Failed to read .env: %v", err)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverRedis, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Store.MaxAttempts == 0 {
		return errors.New("STORE_MAX_ATTEMPTS must be at least 1")
	}
	if c.Store.Timeout <= 0 {
		return errors.New("STORE_TIMEOUT must be positive")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.RosterPollInterval <= 0 {
		return errors.New("ROSTER_POLL_INTERVAL must be positive")
	}
	return nil
}
