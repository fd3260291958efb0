// Package config provides application configuration management with
// multi-source priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (SELLERCHAT_* overrides)
//  2. Config file (./config.yaml or ~/.sellerchat/config.yaml)
//  3. Default values
//
// Error Handling:
//   - Uses sentinel errors for Go-idiomatic error checking with errors.Is()
//   - Wrap with context using fmt.Errorf("%w: details", ErrXxx)
//
// Security: sensitive fields (passwords, keys) are masked in MarshalJSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

var (
	// ErrInvalidModelName indicates the model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidProvider indicates the AI provider is not supported.
	ErrInvalidProvider = errors.New("invalid provider")

	// ErrInvalidMaxTurns indicates the max turns value is out of range.
	ErrInvalidMaxTurns = errors.New("invalid max turns")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrMissingSOPBucket indicates the SOP document bucket is not configured.
	ErrMissingSOPBucket = errors.New("missing SOP bucket")

	// ErrInvalidPresignExpiry indicates the presign expiry is out of range.
	ErrInvalidPresignExpiry = errors.New("invalid presign expiry")
)

// AI provider identifiers used in Config.Provider.
const (
	ProviderGemini   = "gemini"
	ProviderOpenAI   = "openai"
	ProviderGoogleAI = "googleai"
)

// S3Config holds the object storage settings for SOP documents and
// reference images.
type S3Config struct {
	SOPBucket       string `mapstructure:"sop_bucket" json:"sop_bucket"`
	ImagesBucket    string `mapstructure:"images_bucket" json:"images_bucket"`
	Region          string `mapstructure:"region" json:"region"`
	Endpoint        string `mapstructure:"endpoint" json:"endpoint"`
	AccessKeyID     string `mapstructure:"access_key_id" json:"access_key_id"`         // SENSITIVE: masked in MarshalJSON
	SecretAccessKey string `mapstructure:"secret_access_key" json:"secret_access_key"` // SENSITIVE: masked in MarshalJSON
	UsePathStyle    bool   `mapstructure:"use_path_style" json:"use_path_style"`
	PresignExpiry   int    `mapstructure:"presign_expiry" json:"presign_expiry"` // seconds
}

// WeatherConfig holds the weather provider settings.
type WeatherConfig struct {
	BaseURL    string `mapstructure:"base_url" json:"base_url"`
	GeocodeURL string `mapstructure:"geocode_url" json:"geocode_url"`
	TimeoutMS  int    `mapstructure:"timeout_ms" json:"timeout_ms"`
}

// Config stores application configuration.
// SECURITY: sensitive fields are explicitly masked in MarshalJSON().
// When adding new sensitive fields, update MarshalJSON.
type Config struct {
	// AI provider and model configuration
	Provider  string `mapstructure:"provider" json:"provider"`
	ModelName string `mapstructure:"model_name" json:"model_name"`
	MaxTurns  int    `mapstructure:"max_turns" json:"max_turns"`

	// HTTP server
	Addr        string   `mapstructure:"addr" json:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins" json:"cors_origins"`

	// Storage configuration
	PostgresHost     string `mapstructure:"postgres_host" json:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port" json:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user" json:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password" json:"postgres_password"` // SENSITIVE: masked in MarshalJSON
	PostgresDBName   string `mapstructure:"postgres_db_name" json:"postgres_db_name"`
	PostgresSSLMode  string `mapstructure:"postgres_ssl_mode" json:"postgres_ssl_mode"`

	// Object storage for SOP documents and reference images
	S3 S3Config `mapstructure:"s3" json:"s3"`

	// Path to the SOP table-of-contents JSON file embedded in the agent
	// instructions.
	SOPTOCPath string `mapstructure:"sop_toc_path" json:"sop_toc_path"`

	// Weather provider
	Weather WeatherConfig `mapstructure:"weather" json:"weather"`

	// Logging
	LogLevel string `mapstructure:"log_level" json:"log_level"`
	LogJSON  bool   `mapstructure:"log_json" json:"log_json"`
}

// Load loads configuration.
// Priority: environment variables > configuration file > default values.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".sellerchat"))
	}

	setDefaults(v)
	bindEnvVariables(v)

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is not an error; defaults and env apply.
		var configNotFound viper.ConfigFileNotFoundError
		if !errors.As(err, &configNotFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		slog.Debug("configuration file not found, using default values")
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets all default configuration values.
func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderGemini)
	v.SetDefault("model_name", "gemini-2.5-flash")
	v.SetDefault("max_turns", 8)

	v.SetDefault("addr", ":8080")
	v.SetDefault("cors_origins", []string{"*"})

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "sellerchat")
	v.SetDefault("postgres_password", "sellerchat_dev_password")
	v.SetDefault("postgres_db_name", "sellerchat")
	v.SetDefault("postgres_ssl_mode", "disable")

	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.presign_expiry", 3600)

	v.SetDefault("sop_toc_path", "sop_toc.json")

	v.SetDefault("weather.base_url", "https://api.open-meteo.com/v1")
	v.SetDefault("weather.geocode_url", "https://geocoding-api.open-meteo.com/v1")
	v.SetDefault("weather.timeout_ms", 10000)

	v.SetDefault("log_level", "info")
	v.SetDefault("log_json", false)
}

// bindEnvVariables binds environment variable overrides explicitly.
// NOTE: GEMINI_API_KEY is read directly by Genkit, not via Viper.
func bindEnvVariables(v *viper.Viper) {
	// Helper to panic on unexpected bind errors (hardcoded strings can't fail).
	// If this panics, it's a BUG in our code, not a runtime error.
	mustBind := func(key, envVar string) {
		if err := v.BindEnv(key, envVar); err != nil {
			panic(fmt.Sprintf("BUG: failed to bind %q to %q: %v", key, envVar, err))
		}
	}

	mustBind("provider", "SELLERCHAT_PROVIDER")
	mustBind("model_name", "SELLERCHAT_MODEL_NAME")
	mustBind("max_turns", "SELLERCHAT_MAX_TURNS")

	mustBind("addr", "SELLERCHAT_ADDR")
	mustBind("cors_origins", "SELLERCHAT_CORS_ORIGINS")

	mustBind("postgres_host", "SELLERCHAT_POSTGRES_HOST")
	mustBind("postgres_port", "SELLERCHAT_POSTGRES_PORT")
	mustBind("postgres_user", "SELLERCHAT_POSTGRES_USER")
	mustBind("postgres_password", "SELLERCHAT_POSTGRES_PASSWORD")
	mustBind("postgres_db_name", "SELLERCHAT_POSTGRES_DB_NAME")
	mustBind("postgres_ssl_mode", "SELLERCHAT_POSTGRES_SSL_MODE")

	mustBind("s3.sop_bucket", "SELLERCHAT_SOP_BUCKET")
	mustBind("s3.images_bucket", "SELLERCHAT_IMAGES_BUCKET")
	mustBind("s3.region", "AWS_REGION")
	mustBind("s3.endpoint", "SELLERCHAT_S3_ENDPOINT")
	mustBind("s3.access_key_id", "AWS_ACCESS_KEY_ID")
	mustBind("s3.secret_access_key", "AWS_SECRET_ACCESS_KEY")
	mustBind("s3.use_path_style", "SELLERCHAT_S3_USE_PATH_STYLE")

	mustBind("sop_toc_path", "SELLERCHAT_SOP_TOC_PATH")

	mustBind("weather.base_url", "SELLERCHAT_WEATHER_BASE_URL")
	mustBind("weather.geocode_url", "SELLERCHAT_WEATHER_GEOCODE_URL")

	mustBind("log_level", "SELLERCHAT_LOG_LEVEL")
	mustBind("log_json", "SELLERCHAT_LOG_JSON")
}

// Validate performs fail-fast validation of the loaded configuration.
func (c *Config) Validate() error {
	switch c.Provider {
	case ProviderGemini, ProviderOpenAI, ProviderGoogleAI:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidProvider, c.Provider)
	}
	if strings.TrimSpace(c.ModelName) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidModelName)
	}
	if c.MaxTurns < 1 || c.MaxTurns > 64 {
		return fmt.Errorf("%w: %d (expected 1-64)", ErrInvalidMaxTurns, c.MaxTurns)
	}
	if strings.TrimSpace(c.PostgresHost) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.S3.PresignExpiry < 1 || c.S3.PresignExpiry > 604800 {
		return fmt.Errorf("%w: %d seconds", ErrInvalidPresignExpiry, c.S3.PresignExpiry)
	}
	return nil
}

// ValidateServe performs additional validation required for serve mode,
// where the SOP bucket must be configured.
func (c *Config) ValidateServe() error {
	if strings.TrimSpace(c.S3.SOPBucket) == "" {
		return ErrMissingSOPBucket
	}
	return nil
}

// DatabaseURL builds the postgres:// connection URL from the individual
// fields. The password is URL-escaped.
func (c *Config) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.PostgresUser, c.PostgresPassword),
		Host:   fmt.Sprintf("%s:%d", c.PostgresHost, c.PostgresPort),
		Path:   "/" + c.PostgresDBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.PostgresSSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// FullModelName returns the provider-qualified model name for Genkit.
// Examples: "googleai/gemini-2.5-flash", "openai/gpt-4o".
// If ModelName already contains a "/", it is returned as-is.
func (c *Config) FullModelName() string {
	if strings.Contains(c.ModelName, "/") {
		return c.ModelName
	}
	switch c.Provider {
	case ProviderOpenAI:
		return ProviderOpenAI + "/" + c.ModelName
	default:
		return ProviderGoogleAI + "/" + c.ModelName
	}
}

// maskedValue is the placeholder for masked sensitive data.
// Full-width blocks avoid substring matches against real secret content.
const maskedValue = "████████"

// maskSecret masks a secret string for safe logging.
// Secrets of 8 characters or fewer are fully masked; longer secrets keep
// the first and last two characters for debug utility.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 8 {
		return maskedValue
	}
	return s[:2] + "<" + maskedValue + ">" + s[len(s)-2:]
}

// MarshalJSON implements json.Marshaler with explicit sensitive field masking.
//
// Sensitive fields masked:
//   - PostgresPassword
//   - S3.AccessKeyID
//   - S3.SecretAccessKey
func (c Config) MarshalJSON() ([]byte, error) {
	type alias Config
	a := alias(c)
	a.PostgresPassword = maskSecret(a.PostgresPassword)
	a.S3.AccessKeyID = maskSecret(a.S3.AccessKeyID)
	a.S3.SecretAccessKey = maskSecret(a.S3.SecretAccessKey)
	data, err := json.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("marshal config: %w", err)
	}
	return data, nil
}

// String implements Stringer to prevent accidental printing of secrets.
func (c Config) String() string {
	data, err := c.MarshalJSON()
	if err != nil {
		return fmt.Sprintf("Config{error: %v}", err)
	}
	return string(data)
}

// Level converts LogLevel to a slog.Level, defaulting to info.
func (c *Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
