package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Session storage drivers
const (
	SessionStoreFile  = "file"
	SessionStoreRedis = "redis"
)

// Config holds the whole application configuration, populated from environment variables
type Config struct {
	App     AppConfig
	API     APIConfig
	Session SessionConfig
	Redis   RedisConfig
	Log     LogConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

// APIConfig points at the remote review API
type APIConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

func (a APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSeconds) * time.Second
}

// SessionConfig selects where authToken and user are persisted
type SessionConfig struct {
	Store string // file, redis
	Dir   string
	File  string
}

type RedisConfig struct {
	Host      string
	Password  string
	DB        int
	KeyPrefix string
}

type LogConfig struct {
	Level string
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Reviews Web"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "3000"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		API: APIConfig{
			BaseURL:        strings.TrimRight(getEnv("API_BASE_URL", "http://localhost:8080/api"), "/"),
			TimeoutSeconds: getEnvInt("API_TIMEOUT_SECONDS", 10),
		},
		Session: SessionConfig{
			Store: getEnv("SESSION_STORE", SessionStoreFile),
			Dir:   getEnv("SESSION_DIR", ".session"),
			File:  getEnv("SESSION_FILE", "session.json"),
		},
		Redis: RedisConfig{
			Host:      getEnv("REDIS_HOST", "localhost:6379"),
			Password:  getEnv("REDIS_PASSWORD", ""),
			DB:        getEnvInt("REDIS_DB", 0),
			KeyPrefix: getEnv("REDIS_KEY_PREFIX", "reviews-web:"),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks the settings the client cannot run without
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(&c.API,
		validation.Field(&c.API.BaseURL, validation.Required, validation.By(absoluteURL)),
		validation.Field(&c.API.TimeoutSeconds, validation.Required.Error("must be positive"), validation.Min(1).Error("must be positive")),
	); err != nil {
		return fmt.Errorf("API: %w", err)
	}

	if err := validation.ValidateStruct(&c.Session,
		validation.Field(&c.Session.Store, validation.Required, validation.In(SessionStoreFile, SessionStoreRedis)),
		validation.Field(&c.Session.File, validation.When(c.Session.Store == SessionStoreFile, validation.Required)),
	); err != nil {
		return fmt.Errorf("SESSION: %w", err)
	}

	if c.Session.Store == SessionStoreRedis && c.Redis.Host == "" {
		return errors.New("REDIS_HOST must be set when SESSION_STORE=redis")
	}

	return nil
}

func absoluteURL(value interface{}) error {
	s, _ := value.(string)
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return errors.New("must be an absolute URL")
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.New("must use http or https")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
