// Package config loads application configuration and resolves the
// operating mode (live backend vs. self-contained demo) once at startup.
package config

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Placeholder values shipped in the example env file. Seeing them means
// the operator never configured a real backend.
const (
	PlaceholderAPIKey    = "your_api_key_here"
	PlaceholderProjectID = "your_project_id"
)

// Config holds application configuration.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	HTTPPort    string
	LogLevel    string

	// Backend project settings. APIKey and ProjectID decide the mode;
	// the companion values ride along for live initialization only.
	APIKey        string
	ProjectID     string
	AuthDomain    string
	StorageBucket string
	SenderID      string
	AppID         string

	// DataDir holds demo-mode durable state and the local blob bucket.
	DataDir       string
	PublicBaseURL string

	AuthCookieSecure bool

	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	RedisAddr     string
	RedisPassword string
}

// Load reads configuration from the environment and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("CORPSHQ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("service", "corpshq")
	v.SetDefault("version", "0.1.0")
	v.SetDefault("environment", "development")
	v.SetDefault("http_port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("data_dir", "./data")
	v.SetDefault("public_base_url", "http://localhost:8080")
	v.SetDefault("storage_bucket", "corpshq-uploads")
	v.SetDefault("database_host", "localhost")
	v.SetDefault("database_port", "5432")
	v.SetDefault("database_name", "corpshq")
	v.SetDefault("database_user", "postgres")
	v.SetDefault("database_sslmode", "disable")

	environment := v.GetString("environment")
	cookieSecure := environment == "production"
	if !cookieSecure {
		cookieSecure = v.GetBool("auth_cookie_secure")
	}

	return Config{
		AppName:     v.GetString("service"),
		AppVersion:  v.GetString("version"),
		Environment: environment,
		HTTPPort:    v.GetString("http_port"),
		LogLevel:    strings.ToLower(strings.TrimSpace(v.GetString("log_level"))),

		APIKey:        strings.TrimSpace(v.GetString("api_key")),
		ProjectID:     strings.TrimSpace(v.GetString("project_id")),
		AuthDomain:    strings.TrimSpace(v.GetString("auth_domain")),
		StorageBucket: strings.TrimSpace(v.GetString("storage_bucket")),
		SenderID:      strings.TrimSpace(v.GetString("sender_id")),
		AppID:         strings.TrimSpace(v.GetString("app_id")),

		DataDir:       v.GetString("data_dir"),
		PublicBaseURL: strings.TrimRight(v.GetString("public_base_url"), "/"),

		AuthCookieSecure: cookieSecure,

		DBHost:     v.GetString("database_host"),
		DBPort:     v.GetString("database_port"),
		DBName:     v.GetString("database_name"),
		DBUser:     v.GetString("database_user"),
		DBPassword: v.GetString("database_password"),
		DBSSLMode:  v.GetString("database_sslmode"),

		RedisAddr:     strings.TrimSpace(v.GetString("redis_addr")),
		RedisPassword: v.GetString("redis_password"),
	}
}

// DemoMode reports whether the process must run self-contained: true when
// the API key or project id is absent or still holds its placeholder.
func (c Config) DemoMode() bool {
	if c.APIKey == "" || c.APIKey == PlaceholderAPIKey {
		return true
	}
	if c.ProjectID == "" || c.ProjectID == PlaceholderProjectID {
		return true
	}
	return false
}
