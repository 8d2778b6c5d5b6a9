package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/noah-isme/asap-api/pkg/ai"
)

// Storage drivers for the local report and configuration stores.
const (
	StorageSQLite   = "sqlite"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	AIProvider        string
	AIAPIKey          string
	AIModel           string
	AITemperature     float32
	AITimeout         time.Duration
	StorageDriver     string
	SQLitePath        string
	DatabaseURL       string
	RedisURL          string
	NATSURL           string
	NATSSubject       string
	JWTSecret         string
	CORSOrigins       string
	UploadMaxSizeMB   int
	EvaluateRateLimit int
	EvaluateRateSpan  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
// A missing model credential is fatal.
func Load() (Config, error) {
	cfg, err := LoadWithoutCredential()
	if err != nil {
		return Config{}, err
	}

	if cfg.AIAPIKey == "" {
		return Config{}, fmt.Errorf("%w: set ASAP_AI_API_KEY (or GEMINI_API_KEY)", ai.ErrConfiguration)
	}

	return cfg, nil
}

// LoadWithoutCredential reads configuration but tolerates a missing model credential,
// for tooling that never calls the model.
func LoadWithoutCredential() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ASAP")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "ASAP AI API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("ai.provider", ai.ProviderGemini)
	v.SetDefault("ai.temperature", 0.2)
	v.SetDefault("ai.timeout", "120s")
	v.SetDefault("storage.driver", StorageSQLite)
	v.SetDefault("sqlite.path", "asap.db")
	v.SetDefault("nats.subject", "asap.reports")
	v.SetDefault("cors.allow_origins", "*")
	v.SetDefault("upload.max_size_mb", 10)
	v.SetDefault("evaluate.rate_limit", 6)
	v.SetDefault("evaluate.rate_window", "1m")

	_ = v.BindEnv("ai.api_key", "ASAP_AI_API_KEY", "GEMINI_API_KEY", "API_KEY")

	timeout, err := time.ParseDuration(v.GetString("ai.timeout"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ai timeout: %w", err)
	}

	window, err := time.ParseDuration(v.GetString("evaluate.rate_window"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid evaluate rate window: %w", err)
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		AIAPIKey:          strings.TrimSpace(v.GetString("ai.api_key")),
		AIModel:           v.GetString("ai.model"),
		AITemperature:     float32(v.GetFloat64("ai.temperature")),
		AITimeout:         timeout,
		StorageDriver:     strings.ToLower(v.GetString("storage.driver")),
		SQLitePath:        v.GetString("sqlite.path"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		NATSURL:           v.GetString("nats.url"),
		NATSSubject:       v.GetString("nats.subject"),
		JWTSecret:         v.GetString("jwt.secret"),
		CORSOrigins:       v.GetString("cors.allow_origins"),
		UploadMaxSizeMB:   v.GetInt("upload.max_size_mb"),
		EvaluateRateLimit: v.GetInt("evaluate.rate_limit"),
		EvaluateRateSpan:  window,
	}

	switch cfg.AIProvider {
	case ai.ProviderGemini, ai.ProviderOpenAI:
	default:
		return Config{}, fmt.Errorf("%w: unsupported ai provider %q", ai.ErrConfiguration, cfg.AIProvider)
	}

	switch cfg.StorageDriver {
	case StorageSQLite, StoragePostgres, StorageRedis:
	default:
		return Config{}, fmt.Errorf("unsupported storage driver %q", cfg.StorageDriver)
	}

	if cfg.UploadMaxSizeMB <= 0 {
		cfg.UploadMaxSizeMB = 10
	}

	return cfg, nil
}
