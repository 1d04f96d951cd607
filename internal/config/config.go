package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/go-multierror"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Store backends understood by the server wiring.
const (
	BackendSheets = "sheets"
	BackendMongo  = "mongo"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	LogLevel  string
	Store     StoreConfig
	Sheets    SheetsConfig
	OpenAI    OpenAIConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	RateLimit RateLimitConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type StoreConfig struct {
	Backend string
}

// SheetsConfig identifies the spreadsheet tab and the service account used to reach it.
type SheetsConfig struct {
	SpreadsheetID string
	SheetName     string
	Credentials   ServiceAccount
}

// ServiceAccount is the subset of a Google service-account key supplied through the environment.
type ServiceAccount struct {
	ProjectID     string
	PrivateKeyID  string
	PrivateKey    string
	ClientEmail   string
	ClientID      string
	ClientCertURL string
}

type OpenAIConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type MongoDBConfig struct {
	URI        string
	Database   string
	Collection string
	Timeout    time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Key      string
}

type RateLimitConfig struct {
	Enabled       bool
	UseRedis      bool
	RPS           float64
	Burst         int
	WindowSeconds int
}

// Addr returns the host:port pair the HTTP server listens on.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// Addr returns the Redis host:port pair, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

// LoadConfig loads configuration from environment variables and an optional .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("STORE_BACKEND", BackendSheets)
	viper.SetDefault("GOOGLE_SHEET_NAME", "Sheet1")
	viper.SetDefault("OPENAI_MODEL", "gpt-3.5-turbo")
	viper.SetDefault("OPENAI_BASE_URL", "https://api.openai.com/v1")
	viper.SetDefault("MONGODB_DATABASE", "document_finder")
	viper.SetDefault("MONGODB_COLLECTION", "documents")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_KEY", "documents")
	viper.SetDefault("RATE_LIMIT_ENABLED", false)
	viper.SetDefault("RATE_LIMIT_USE_REDIS", false)
	viper.SetDefault("RATE_LIMIT_RPS", 5)
	viper.SetDefault("RATE_LIMIT_BURST", 10)
	viper.SetDefault("RATE_LIMIT_WINDOW_SECONDS", 1)

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		LogLevel: viper.GetString("LOG_LEVEL"),
		Store: StoreConfig{
			Backend: strings.ToLower(strings.TrimSpace(viper.GetString("STORE_BACKEND"))),
		},
		Sheets: SheetsConfig{
			SpreadsheetID: viper.GetString("GOOGLE_SHEET_ID"),
			SheetName:     viper.GetString("GOOGLE_SHEET_NAME"),
			Credentials: ServiceAccount{
				ProjectID:     viper.GetString("GOOGLE_PROJECT_ID"),
				PrivateKeyID:  viper.GetString("GOOGLE_PRIVATE_KEY_ID"),
				PrivateKey:    expandNewlines(viper.GetString("GOOGLE_PRIVATE_KEY")),
				ClientEmail:   viper.GetString("GOOGLE_CLIENT_EMAIL"),
				ClientID:      viper.GetString("GOOGLE_CLIENT_ID"),
				ClientCertURL: viper.GetString("GOOGLE_CLIENT_CERT_URL"),
			},
		},
		OpenAI: OpenAIConfig{
			APIKey:  viper.GetString("OPENAI_API_KEY"),
			Model:   viper.GetString("OPENAI_MODEL"),
			BaseURL: strings.TrimRight(viper.GetString("OPENAI_BASE_URL"), "/"),
		},
		MongoDB: MongoDBConfig{
			URI:        viper.GetString("MONGODB_URI"),
			Database:   viper.GetString("MONGODB_DATABASE"),
			Collection: viper.GetString("MONGODB_COLLECTION"),
			Timeout:    time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       0,
			Key:      viper.GetString("REDIS_KEY"),
		},
		RateLimit: RateLimitConfig{
			Enabled:       viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis:      viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:           viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:         viper.GetInt("RATE_LIMIT_BURST"),
			WindowSeconds: viper.GetInt("RATE_LIMIT_WINDOW_SECONDS"),
		},
	}

	return cfg, nil
}

// Validate reports missing settings for the selected store backend and the extractor.
func (c *Config) Validate() error {
	var result *multierror.Error
	if c.OpenAI.APIKey == "" {
		result = multierror.Append(result, errors.New("OPENAI_API_KEY is required"))
	}
	switch c.Store.Backend {
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			result = multierror.Append(result, errors.New("GOOGLE_SHEET_ID is required for the sheets backend"))
		}
		if c.Sheets.Credentials.ClientEmail == "" || c.Sheets.Credentials.PrivateKey == "" {
			result = multierror.Append(result, errors.New("GOOGLE_CLIENT_EMAIL and GOOGLE_PRIVATE_KEY are required for the sheets backend"))
		}
	case BackendMongo:
		if c.MongoDB.URI == "" {
			result = multierror.Append(result, errors.New("MONGODB_URI is required for the mongo backend"))
		}
	case BackendRedis:
		if c.Redis.Host == "" {
			result = multierror.Append(result, errors.New("REDIS_HOST is required for the redis backend"))
		}
	case BackendMemory:
	default:
		result = multierror.Append(result, fmt.Errorf("unknown STORE_BACKEND %q", c.Store.Backend))
	}
	if c.RateLimit.Enabled && c.RateLimit.UseRedis && c.Redis.Host == "" {
		result = multierror.Append(result, errors.New("REDIS_HOST is required when RATE_LIMIT_USE_REDIS is set"))
	}
	return result.ErrorOrNil()
}

// Private keys pasted into env files usually carry literal "\n" sequences.
func expandNewlines(s string) string {
	return strings.ReplaceAll(s, `\n`, "\n")
}
