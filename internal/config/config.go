package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// StoreConfig holds the database settings shared by the server and the CLI.
type StoreConfig struct {
	DBURL             string
	DBMaxConns        int
	DBMinConns        int
	DBMaxIdleSecs     int
	DBMaxLifeSecs     int
	DBConnTimeoutSecs int
	DBStatementCache  int
	AutoMigrate       bool
	MigrationsDir     string
}

// Config captures all runtime configuration derived from environment variables.
type Config struct {
	StoreConfig

	Port                 string
	AuthToken            string
	BoxOfficeURL         string
	BoxOfficeAPIKey      string
	BoxOfficeTimeoutSecs int
	ReadTimeoutSecs      int
	WriteTimeoutSecs     int
	IdleTimeoutSecs      int
}

// Load reads server configuration from the environment, applying defaults and validation.
// A .env file in the working directory is loaded first when present; real
// environment variables take precedence over it.
func Load() (Config, error) {
	storeCfg, err := LoadStore()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		StoreConfig:          storeCfg,
		Port:                 getEnv("PORT", "8080"),
		AuthToken:            os.Getenv("AUTH_TOKEN"),
		BoxOfficeURL:         os.Getenv("BOXOFFICE_URL"),
		BoxOfficeAPIKey:      os.Getenv("BOXOFFICE_API_KEY"),
		BoxOfficeTimeoutSecs: getEnvInt("BOXOFFICE_TIMEOUT_SECS", 5),
		ReadTimeoutSecs:      getEnvInt("SERVER_READ_TIMEOUT", 15),
		WriteTimeoutSecs:     getEnvInt("SERVER_WRITE_TIMEOUT", 15),
		IdleTimeoutSecs:      getEnvInt("SERVER_IDLE_TIMEOUT", 60),
	}

	if cfg.AuthToken == "" {
		return Config{}, fmt.Errorf("AUTH_TOKEN is required")
	}
	if cfg.BoxOfficeURL == "" {
		return Config{}, fmt.Errorf("BOXOFFICE_URL is required")
	}
	if cfg.BoxOfficeAPIKey == "" {
		return Config{}, fmt.Errorf("BOXOFFICE_API_KEY is required")
	}
	if cfg.BoxOfficeTimeoutSecs <= 0 {
		return Config{}, fmt.Errorf("BOXOFFICE_TIMEOUT_SECS must be positive")
	}

	return cfg, nil
}

// LoadStore reads only the database settings. The flopcheck CLI uses it so
// it does not need server credentials.
func LoadStore() (StoreConfig, error) {
	if err := loadDotEnv(); err != nil {
		return StoreConfig{}, err
	}

	cfg := StoreConfig{
		DBURL:             os.Getenv("DB_URL"),
		DBMaxConns:        getEnvInt("DB_MAX_CONNS", 20),
		DBMinConns:        getEnvInt("DB_MIN_CONNS", 2),
		DBMaxIdleSecs:     getEnvInt("DB_MAX_CONN_IDLE_SECS", 300),
		DBMaxLifeSecs:     getEnvInt("DB_MAX_CONN_LIFETIME_SECS", 3600),
		DBConnTimeoutSecs: getEnvInt("DB_CONN_TIMEOUT_SECS", 10),
		DBStatementCache:  getEnvInt("DB_STATEMENT_CACHE_CAPACITY", 256),
		AutoMigrate:       getEnvBool("DB_AUTO_MIGRATE", false),
		MigrationsDir:     getEnv("DB_MIGRATIONS_DIR", "db/migrations"),
	}

	if cfg.DBURL == "" {
		return StoreConfig{}, fmt.Errorf("DB_URL is required")
	}
	if cfg.DBMaxConns <= 0 {
		return StoreConfig{}, fmt.Errorf("DB_MAX_CONNS must be positive")
	}
	if cfg.DBMinConns < 0 {
		return StoreConfig{}, fmt.Errorf("DB_MIN_CONNS must be non-negative")
	}
	if cfg.DBMinConns > cfg.DBMaxConns {
		return StoreConfig{}, fmt.Errorf("DB_MIN_CONNS cannot exceed DB_MAX_CONNS")
	}
	if cfg.DBStatementCache < 0 {
		return StoreConfig{}, fmt.Errorf("DB_STATEMENT_CACHE_CAPACITY must be non-negative")
	}

	return cfg, nil
}

func loadDotEnv() error {
	path := getEnv("ENV_FILE", ".env")
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}
