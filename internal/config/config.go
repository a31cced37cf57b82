// Package config loads poststore settings from config.yml, .env and the environment.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageSQLite = "sqlite"
	StorageRedis  = "redis"
)

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	Storage     string `mapstructure:"POSTSTORE_STORAGE"`
	FileDir     string `mapstructure:"POSTSTORE_FILE_DIR"`
	SQLiteDSN   string `mapstructure:"POSTSTORE_SQLITE_DSN"`
	SQLTable    string `mapstructure:"POSTSTORE_SQL_TABLE"`
	RedisURL    string `mapstructure:"POSTSTORE_REDIS_URL"`
	RedisPrefix string `mapstructure:"POSTSTORE_REDIS_PREFIX"`
	StorageKey  string `mapstructure:"POSTSTORE_STORAGE_KEY"`
	ThemeKey    string `mapstructure:"POSTSTORE_THEME_KEY"`
	ListenAddr  string `mapstructure:"POSTSTORE_LISTEN_ADDR"`
	Debug       bool   `mapstructure:"POSTSTORE_DEBUG"`
}

// LoadConfig reads config.yml and .env from configPaths (the working directory when
// empty), then the process environment, which wins.
func LoadConfig(configPaths ...string) (*Config, error) {
	v := viper.New()
	if len(configPaths) == 0 {
		configPaths = []string{"."}
	}
	for _, p := range configPaths {
		// a missing .env is normal
		_ = godotenv.Load(filepath.Join(p, ".env"))
		v.AddConfigPath(p)
	}
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	v.SetDefault("POSTSTORE_STORAGE", StorageFile)
	v.SetDefault("POSTSTORE_FILE_DIR", ".poststore")
	v.SetDefault("POSTSTORE_SQLITE_DSN", ".poststore/poststore.db")
	v.SetDefault("POSTSTORE_SQL_TABLE", "poststore_slots")
	v.SetDefault("POSTSTORE_REDIS_URL", "localhost:6379")
	v.SetDefault("POSTSTORE_REDIS_PREFIX", "poststore:")
	v.SetDefault("POSTSTORE_STORAGE_KEY", "blogs")
	v.SetDefault("POSTSTORE_THEME_KEY", "theme")
	v.SetDefault("POSTSTORE_LISTEN_ADDR", ":8080")
	v.SetDefault("POSTSTORE_DEBUG", false)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	config.Storage = strings.ToLower(strings.TrimSpace(config.Storage))

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures the selected storage backend has what it needs.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StorageFile:
		if c.FileDir == "" {
			return errors.New("POSTSTORE_FILE_DIR is required for file storage")
		}
	case StorageSQLite:
		if c.SQLiteDSN == "" {
			return errors.New("POSTSTORE_SQLITE_DSN is required for sqlite storage")
		}
		if c.SQLTable == "" {
			return errors.New("POSTSTORE_SQL_TABLE is required for sqlite storage")
		}
	case StorageRedis:
		if c.RedisURL == "" {
			return errors.New("POSTSTORE_REDIS_URL is required for redis storage")
		}
	default:
		return fmt.Errorf("POSTSTORE_STORAGE %q is not one of memory, file, sqlite, redis", c.Storage)
	}

	if c.StorageKey == "" {
		return errors.New("POSTSTORE_STORAGE_KEY is required")
	}

	if strings.EqualFold(c.StorageKey, c.ThemeKey) {
		return errors.New("POSTSTORE_STORAGE_KEY and POSTSTORE_THEME_KEY must differ")
	}

	return nil
}
