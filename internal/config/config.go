// Package config содержит логику чтения конфигурации сервиса agromart.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// EnvProduction задаёт значение ENVIRONMENT для боевого окружения.
const EnvProduction = "production"

// EnvDevelopment задаёт значение ENVIRONMENT для разработки.
const EnvDevelopment = "development"

const devJWTSecret = "agromart-development-secret"

// Config содержит параметры конфигурации сервиса agromart.
type Config struct {
	RunAddress  string `env:"RUN_ADDRESS"`
	DatabaseURI string `env:"DATABASE_URI"`
	CatalogPath string `env:"CATALOG_PATH"`
	CatalogURL  string `env:"CATALOG_URL"`

	JWTSecret string        `env:"JWT_SECRET"`
	TokenTTL  time.Duration `env:"TOKEN_TTL" envDefault:"720h"`

	SMTPHost               string        `env:"SMTP_HOST"`
	SMTPPort               int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername           string        `env:"SMTP_USERNAME"`
	SMTPPassword           string        `env:"SMTP_PASSWORD"`
	SMTPFrom               string        `env:"SMTP_FROM"`
	OrderNotificationEmail string        `env:"ORDER_NOTIFICATION_EMAIL"`
	NotifyTimeout          time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"15s"`

	OperatorAPIKey    string   `env:"OPERATOR_API_KEY"`
	Environment       string   `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel          string   `env:"LOG_LEVEL" envDefault:"info"`
	OrderNumberPrefix string   `env:"ORDER_NUMBER_PREFIX" envDefault:"RD"`
	CORSOrigins       []string `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://localhost:3000"`
}

// Development сообщает, что сервис запущен в окружении разработки.
func (c *Config) Development() bool {
	return c.Environment == EnvDevelopment
}

// Production сообщает, что сервис запущен в боевом окружении.
func (c *Config) Production() bool {
	return c.Environment == EnvProduction
}

// Parse считывает конфигурацию из .env, флагов командной строки и переменных окружения.
// Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envRunAddress := cfg.RunAddress
	envDatabaseURI := cfg.DatabaseURI
	envCatalogPath := cfg.CatalogPath

	flag.StringVar(&cfg.RunAddress, "a", "localhost:5000", "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI, in-memory store when empty")
	flag.StringVar(&cfg.CatalogPath, "c", "data/products.json", "path to product catalog file")

	flag.Parse()

	if envRunAddress != "" {
		cfg.RunAddress = envRunAddress
	}
	if envDatabaseURI != "" {
		cfg.DatabaseURI = envDatabaseURI
	}
	if envCatalogPath != "" {
		cfg.CatalogPath = envCatalogPath
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = "localhost:5000"
	}

	if cfg.JWTSecret == "" {
		if cfg.Production() {
			return nil, errors.New("JWT_SECRET is required in production")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return cfg, nil
}
