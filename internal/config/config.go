package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	API    APIConfig
	Server ServerConfig
	Log    LogConfig
	Export ExportConfig
}

// APIConfig holds settings for the invoice backend the client talks to.
type APIConfig struct {
	BaseURL     string        `mapstructure:"base_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	UploadField string        `mapstructure:"upload_field"`
}

// ServerConfig holds HTTP settings for the development fixture server.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ExportConfig holds defaults for exported files.
type ExportConfig struct {
	FilenamePrefix string `mapstructure:"filename_prefix"`
}

// Load reads configuration from environment variables with the FACTURADOR_
// prefix. The backend base URL is resolved once here, at process start.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("FACTURADOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// API defaults
	v.SetDefault("api.base_url", "http://localhost:8000")
	v.SetDefault("api.timeout", "30s")
	v.SetDefault("api.upload_field", "file")

	// Devserver defaults
	v.SetDefault("server.port", ":8000")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// Export defaults
	v.SetDefault("export.filename_prefix", "facturas")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"api.base_url":           "FACTURADOR_API_BASE_URL",
		"api.timeout":            "FACTURADOR_API_TIMEOUT",
		"api.upload_field":       "FACTURADOR_API_UPLOAD_FIELD",
		"server.port":            "FACTURADOR_SERVER_PORT",
		"server.read_timeout":    "FACTURADOR_SERVER_READ_TIMEOUT",
		"server.write_timeout":   "FACTURADOR_SERVER_WRITE_TIMEOUT",
		"server.environment":     "FACTURADOR_SERVER_ENVIRONMENT",
		"log.level":              "FACTURADOR_LOG_LEVEL",
		"log.format":             "FACTURADOR_LOG_FORMAT",
		"export.filename_prefix": "FACTURADOR_EXPORT_FILENAME_PREFIX",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.API = APIConfig{
		BaseURL:     strings.TrimRight(v.GetString("api.base_url"), "/"),
		Timeout:     v.GetDuration("api.timeout"),
		UploadField: v.GetString("api.upload_field"),
	}
	cfg.Server = ServerConfig{
		Port:         v.GetString("server.port"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.Export = ExportConfig{
		FilenamePrefix: v.GetString("export.filename_prefix"),
	}

	return cfg, nil
}
