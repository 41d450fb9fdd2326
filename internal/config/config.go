package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Supported values of DB_DRIVER.
const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds the application configuration
type Config struct {
	AppPort string `env:"APP_PORT" envDefault:"8000"` // Application port
	IsProd  bool   `env:"IS_PROD"`                    // Is production environment

	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`        // mysql, postgres or sqlite
	DBUser     string `env:"DB_USER"`                             // Database user
	DBPassword string `env:"DB_PASSWORD"`                         // Database password
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`      // Database host
	DBPort     string `env:"DB_PORT"`                             // Database port, driver default when empty
	DBName     string `env:"DB_NAME" envDefault:"lottery"`        // Database name
	DBPath     string `env:"DB_PATH" envDefault:"lottery.sqlite"` // SQLite file, sqlite driver only

	JWTSecret      string        `env:"JWT_SECRET,required,notEmpty"`      // JWT secret key
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"lottery"`   // JWT "iss" claim
	AccessTokenTTL time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"24h"` // Token lifetime

	RedisAddr string        `env:"REDIS_ADDR"`                 // Redis server address, cache disabled when empty
	RedisPass string        `env:"REDIS_PASS"`                 // Redis password
	RedisDB   int           `env:"REDIS_DB"`                   // Redis database number
	CacheTTL  time.Duration `env:"CACHE_TTL" envDefault:"60s"` // TTL of cached read views

	AdminUsername string `env:"LOTTERY_ADMIN_USERNAME" envDefault:"admin"` // Bootstrap admin username
	AdminEmail    string `env:"LOTTERY_ADMIN_EMAIL"`                       // Bootstrap admin email, no bootstrap when empty
	AdminPassword string `env:"LOTTERY_ADMIN_PASSWORD"`                    // Bootstrap admin password
}

// LoadConfig loads configuration from a .env file, if present, and the environment
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // Load .env file if present

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the env tags cannot express
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverMySQL, DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.AccessTokenTTL <= 0 {
		return fmt.Errorf("ACCESS_TOKEN_TTL must be positive, got %s", c.AccessTokenTTL)
	}
	if c.AdminEmail != "" && c.AdminPassword == "" {
		return fmt.Errorf("LOTTERY_ADMIN_PASSWORD is required when LOTTERY_ADMIN_EMAIL is set")
	}
	return nil
}

// DSN builds the data source name for the configured driver
func (c *Config) DSN() string {
	switch c.DBDriver {
	case DriverPostgres:
		port := c.DBPort
		if port == "" {
			port = "5432"
		}
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
			c.DBHost, c.DBUser, c.DBPassword, c.DBName, port)
	case DriverSQLite:
		return "file:" + c.DBPath + "?_foreign_keys=1&_busy_timeout=5000"
	default:
		port := c.DBPort
		if port == "" {
			port = "3306"
		}
		return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + port + ")/" + c.DBName + "?parseTime=true&loc=UTC"
	}
}
