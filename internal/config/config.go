package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	S3     S3Config
	Log    LogConfig
	LLM    LLMConfig
	Chat   ChatConfig
	CORS   CORSConfig
	Email  EmailConfig
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LLMConfig holds settings for the hosted model behind the expense chat.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Endpoint    string  `mapstructure:"endpoint"`
	TimeoutSecs int     `mapstructure:"timeout_secs"`
	Temperature float64 `mapstructure:"temperature"`
}

// ChatConfig holds conversation settings.
type ChatConfig struct {
	// AutoSave persists an expense as soon as a turn completes it, unless the
	// request says otherwise.
	AutoSave bool `mapstructure:"auto_save"`
	// Timezone resolves "today" when a request carries no current date.
	Timezone      string `mapstructure:"timezone"`
	MaxInputChars int    `mapstructure:"max_input_chars"`

	location *time.Location
}

// Location returns the loaded timezone, or UTC if none was configured.
func (c *ChatConfig) Location() *time.Location {
	if c.location == nil {
		return time.UTC
	}
	return c.location
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	Environment     string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret             string        `mapstructure:"secret"`
	AccessTokenExpiry  time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry time.Duration `mapstructure:"refresh_expiry"`
	Issuer             string        `mapstructure:"issuer"`
}

// S3Config holds AWS S3 settings for expense exports.
type S3Config struct {
	Enabled       bool   `mapstructure:"enabled"`
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the BUDGETBUDDY_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("BUDGETBUDDY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "budgetbuddy")
	v.SetDefault("db.password", "budgetbuddy_secret")
	v.SetDefault("db.name", "budgetbuddy_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.secret", "change-me-in-production")
	v.SetDefault("jwt.access_expiry", "15m")
	v.SetDefault("jwt.refresh_expiry", "168h")
	v.SetDefault("jwt.issuer", "budgetbuddy")

	// S3 defaults
	v.SetDefault("s3.enabled", false)
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "budgetbuddy-exports")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.presign_expiry", 900)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173")

	// LLM defaults
	v.SetDefault("llm.provider", "gemini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "gemini-2.0-flash")
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.timeout_secs", 15)
	v.SetDefault("llm.temperature", 0.2)

	// Chat defaults
	v.SetDefault("chat.auto_save", true)
	v.SetDefault("chat.timezone", "UTC")
	v.SetDefault("chat.max_input_chars", 1000)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "hello@budgetbuddy.app")
	v.SetDefault("email.from_name", "BudgetBuddy")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "BUDGETBUDDY_SERVER_PORT",
		"server.read_timeout":     "BUDGETBUDDY_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "BUDGETBUDDY_SERVER_WRITE_TIMEOUT",
		"server.shutdown_timeout": "BUDGETBUDDY_SERVER_SHUTDOWN_TIMEOUT",
		"server.environment":      "BUDGETBUDDY_SERVER_ENVIRONMENT",
		"db.host":                 "BUDGETBUDDY_DB_HOST",
		"db.port":                 "BUDGETBUDDY_DB_PORT",
		"db.user":                 "BUDGETBUDDY_DB_USER",
		"db.password":             "BUDGETBUDDY_DB_PASSWORD",
		"db.name":                 "BUDGETBUDDY_DB_NAME",
		"db.sslmode":              "BUDGETBUDDY_DB_SSLMODE",
		"db.max_open":             "BUDGETBUDDY_DB_MAX_OPEN",
		"db.max_idle":             "BUDGETBUDDY_DB_MAX_IDLE",
		"jwt.secret":              "BUDGETBUDDY_JWT_SECRET",
		"jwt.access_expiry":       "BUDGETBUDDY_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":      "BUDGETBUDDY_JWT_REFRESH_EXPIRY",
		"jwt.issuer":              "BUDGETBUDDY_JWT_ISSUER",
		"s3.enabled":              "BUDGETBUDDY_S3_ENABLED",
		"s3.region":               "BUDGETBUDDY_S3_REGION",
		"s3.bucket":               "BUDGETBUDDY_S3_BUCKET",
		"s3.endpoint":             "BUDGETBUDDY_S3_ENDPOINT",
		"s3.access_key":           "BUDGETBUDDY_S3_ACCESS_KEY",
		"s3.secret_key":           "BUDGETBUDDY_S3_SECRET_KEY",
		"s3.presign_expiry":       "BUDGETBUDDY_S3_PRESIGN_EXPIRY",
		"log.level":               "BUDGETBUDDY_LOG_LEVEL",
		"log.format":              "BUDGETBUDDY_LOG_FORMAT",
		"cors.allowed_origins":    "BUDGETBUDDY_CORS_ALLOWED_ORIGINS",
		"llm.provider":            "BUDGETBUDDY_LLM_PROVIDER",
		"llm.api_key":             "BUDGETBUDDY_LLM_API_KEY",
		"llm.model":               "BUDGETBUDDY_LLM_MODEL",
		"llm.endpoint":            "BUDGETBUDDY_LLM_ENDPOINT",
		"llm.timeout_secs":        "BUDGETBUDDY_LLM_TIMEOUT_SECS",
		"llm.temperature":         "BUDGETBUDDY_LLM_TEMPERATURE",
		"chat.auto_save":          "BUDGETBUDDY_CHAT_AUTO_SAVE",
		"chat.timezone":           "BUDGETBUDDY_CHAT_TIMEZONE",
		"chat.max_input_chars":    "BUDGETBUDDY_CHAT_MAX_INPUT_CHARS",
		"email.provider":          "BUDGETBUDDY_EMAIL_PROVIDER",
		"email.region":            "BUDGETBUDDY_EMAIL_REGION",
		"email.from_address":      "BUDGETBUDDY_EMAIL_FROM_ADDRESS",
		"email.from_name":         "BUDGETBUDDY_EMAIL_FROM_NAME",
		"email.frontend_url":      "BUDGETBUDDY_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if BUDGETBUDDY_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("BUDGETBUDDY_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:            serverPort,
		ReadTimeout:     v.GetDuration("server.read_timeout"),
		WriteTimeout:    v.GetDuration("server.write_timeout"),
		ShutdownTimeout: v.GetDuration("server.shutdown_timeout"),
		Environment:     v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:             v.GetString("jwt.secret"),
		AccessTokenExpiry:  v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry: v.GetDuration("jwt.refresh_expiry"),
		Issuer:             v.GetString("jwt.issuer"),
	}
	cfg.S3 = S3Config{
		Enabled:       v.GetBool("s3.enabled"),
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: splitList(v.GetString("cors.allowed_origins")),
	}
	cfg.LLM = LLMConfig{
		Provider:    v.GetString("llm.provider"),
		APIKey:      v.GetString("llm.api_key"),
		Model:       v.GetString("llm.model"),
		Endpoint:    v.GetString("llm.endpoint"),
		TimeoutSecs: v.GetInt("llm.timeout_secs"),
		Temperature: v.GetFloat64("llm.temperature"),
	}

	loc, err := time.LoadLocation(v.GetString("chat.timezone"))
	if err != nil {
		return nil, fmt.Errorf("invalid chat timezone %q: %w", v.GetString("chat.timezone"), err)
	}
	cfg.Chat = ChatConfig{
		AutoSave:      v.GetBool("chat.auto_save"),
		Timezone:      loc.String(),
		MaxInputChars: v.GetInt("chat.max_input_chars"),
		location:      loc,
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}

// splitList parses a comma-separated value, dropping blanks.
func splitList(raw string) []string {
	var out []string
	for _, o := range strings.Split(raw, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}
