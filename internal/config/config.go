package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/yukikurage/task-manager/internal/constants"
)

const (
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverSQLite   = "sqlite"

	SessionStoreRedis  = "redis"
	SessionStoreCookie = "cookie"
)

type Config struct {
	Environment   string
	DBDriver      string
	DBDSN         string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	SessionStore  string
	RedisHost     string
	RedisPort     string
	SessionSecret string
	GinMode       string
	Port          string
	MetricsPort   string
	LogLevel      string
	LoginURL      string
	OpenAIAPIKey  string
	OpenAIModel   string
}

// Load reads the configuration from the environment. Outside of PROD a
// local .env file is applied first; values already set in the environment win.
func Load() (*Config, error) {
	if os.Getenv("ENVIRONMENT") != "PROD" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load .env file: %w", err)
		}
	}

	cfg := &Config{
		Environment:   getEnv("ENVIRONMENT", "LOCAL"),
		DBDriver:      getEnv("DB_DRIVER", DriverPostgres),
		DBDSN:         os.Getenv("DB_DSN"),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "taskuser"),
		DBPassword:    getEnv("DB_PASSWORD", "taskpassword"),
		DBName:        getEnv("DB_NAME", "task_manager"),
		SessionStore:  getEnv("SESSION_STORE", SessionStoreRedis),
		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		SessionSecret: getEnv("SESSION_SECRET", "default-secret-key-change-me"),
		GinMode:       getEnv("GIN_MODE", "debug"),
		Port:          getEnv("PORT", "8080"),
		MetricsPort:   os.Getenv("METRICS_PORT"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		LoginURL:      getEnv("LOGIN_URL", constants.DefaultLoginURL),
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4o"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects unsupported driver and session store names.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverPostgres, DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}

	switch c.SessionStore {
	case SessionStoreRedis, SessionStoreCookie:
	default:
		return fmt.Errorf("unsupported SESSION_STORE %q", c.SessionStore)
	}

	if c.GinMode == "release" && c.SessionSecret == "default-secret-key-change-me" {
		return errors.New("SESSION_SECRET must be set in release mode")
	}
	return nil
}

// IsProduction reports whether cookies should be marked Secure.
func (c *Config) IsProduction() bool {
	return c.GinMode == "release"
}

// DSN returns DB_DSN if set, otherwise a DSN composed for the configured driver.
func (c *Config) DSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}

	switch c.DBDriver {
	case DriverMySQL:
		return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.DBUser,
			c.DBPassword,
			c.DBHost,
			c.DBPort,
			c.DBName,
		)
	case DriverSQLite:
		return c.DBName + ".db?_foreign_keys=on"
	default:
		return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			c.DBHost,
			c.DBPort,
			c.DBUser,
			c.DBPassword,
			c.DBName,
		)
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
