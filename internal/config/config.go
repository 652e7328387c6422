// Package config loads application configuration from the environment. A
// .env file in the working directory is read first when present; variables
// already set in the process take precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/iliyamo/fyyur/internal/database"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env  string `env:"APP_ENV" envDefault:"dev"`
	Port string `env:"APP_PORT" envDefault:"5000"`

	DB DBConfig

	DisplayTZ string `env:"DISPLAY_TZ" envDefault:"UTC"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`

	// AMQPURL is the broker events go to. Empty disables publishing.
	AMQPURL     string `env:"AMQP_URL"`
	ActivityDir string `env:"ACTIVITY_LOG_DIR" envDefault:"logs"`

	Redis     RedisConfig
	RateLimit RateLimitConfig
}

// DBConfig selects the store and how to reach it.
type DBConfig struct {
	Driver string `env:"DB_DRIVER" envDefault:"sqlite"`
	DSN    string `env:"DB_DSN"`
	User   string `env:"DB_USER"`
	Pass   string `env:"DB_PASS"`
	Host   string `env:"DB_HOST" envDefault:"localhost"`
	Port   string `env:"DB_PORT"`
	Name   string `env:"DB_NAME" envDefault:"fyyur"`
	Path   string `env:"DB_PATH" envDefault:"fyyur.db"`
}

// Options converts the settings into database.Options.
func (c DBConfig) Options() database.Options {
	port := c.Port
	if port == "" {
		switch c.Driver {
		case database.MySQL:
			port = "3306"
		case database.Postgres:
			port = "5432"
		}
	}
	return database.Options{
		Driver: c.Driver,
		DSN:    c.DSN,
		User:   c.User,
		Pass:   c.Pass,
		Host:   c.Host,
		Port:   port,
		Name:   c.Name,
		Path:   c.Path,
	}
}

// Load reads .env (if any) and parses the environment into a Config.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading .env: %w", err)
	}
	return Parse()
}

// Parse builds a Config from the process environment only.
func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if _, err := database.DialectOf(cfg.DB.Driver); err != nil {
		return Config{}, err
	}
	if _, err := cfg.Location(); err != nil {
		return Config{}, err
	}
	cfg.RateLimit.normalize()
	return cfg, nil
}

// Location resolves DisplayTZ.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.DisplayTZ)
	if err != nil {
		return nil, fmt.Errorf("invalid DISPLAY_TZ %q: %w", c.DisplayTZ, err)
	}
	return loc, nil
}
