package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Registry RegistryConfig `mapstructure:"registry"`
	Notify   NotifyConfig   `mapstructure:"notify"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Logger   LoggerConfig   `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// AuthConfig holds JWT verification configuration
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
}

// RegistryConfig holds the endpoints of the tenant and invoice services
type RegistryConfig struct {
	TenantBaseURL  string        `mapstructure:"tenant_base_url"`
	InvoiceBaseURL string        `mapstructure:"invoice_base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

// NotifyConfig holds bounce alert configuration. When Enabled is false the
// service runs without a notifier.
type NotifyConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	ChatID    string `mapstructure:"chat_id"`
}

// StorageConfig holds cheque scan storage configuration
type StorageConfig struct {
	ScanDir string `mapstructure:"scan_dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	viper.SetDefault("database.path", "data/propdesk.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	viper.SetDefault("registry.tenant_base_url", "http://localhost:8081")
	viper.SetDefault("registry.invoice_base_url", "http://localhost:8082")
	viper.SetDefault("registry.timeout", 10*time.Second)

	viper.SetDefault("notify.enabled", false)

	viper.SetDefault("storage.scan_dir", "data/scans")

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("auth.jwt_secret", "JWT_SECRET")
	viper.BindEnv("notify.app_id", "LARK_APP_ID")
	viper.BindEnv("notify.app_secret", "LARK_APP_SECRET")
	viper.BindEnv("notify.chat_id", "LARK_CHAT_ID")
	viper.BindEnv("registry.tenant_base_url", "TENANT_SERVICE_URL")
	viper.BindEnv("registry.invoice_base_url", "INVOICE_SERVICE_URL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	if c.Registry.TenantBaseURL == "" {
		return fmt.Errorf("registry.tenant_base_url is required")
	}
	if c.Registry.InvoiceBaseURL == "" {
		return fmt.Errorf("registry.invoice_base_url is required")
	}

	if c.Notify.Enabled {
		if c.Notify.AppID == "" {
			return fmt.Errorf("notify.app_id is required when notify is enabled")
		}
		if c.Notify.AppSecret == "" {
			return fmt.Errorf("notify.app_secret is required when notify is enabled")
		}
		if c.Notify.ChatID == "" {
			return fmt.Errorf("notify.chat_id is required when notify is enabled")
		}
	}

	return nil
}
