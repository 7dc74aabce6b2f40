package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
	EnvJWTSecret    = "JWT_SECRET"
	EnvJWTExpiry    = "JWT_EXPIRY"
	EnvEnvironment  = "ENVIRONMENT"
	EnvSMTPHost     = "SMTP_HOST"
	EnvSMTPPort     = "SMTP_PORT"
	EnvSMTPUser     = "SMTP_USER"
	EnvSMTPPassword = "SMTP_PASSWORD"
	EnvMailFrom     = "MAIL_FROM"
	EnvCookieDomain = "COOKIE_DOMAIN"
)

// AppConfig holds resolved application configuration values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// ErrMissingDatabaseDSN indicates no database DSN is present in the config file.
var ErrMissingDatabaseDSN = errors.New("missing database dsn (set `database-dsn` or `database.dsn` in config file)")

// LoadDatabaseDSN reads the database DSN from the YAML config file.
func LoadDatabaseDSN(configPath string) (string, error) {
	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		return dsn, nil
	}

	// fileConfig maps the YAML fields needed for DSN resolution.
	type fileConfig struct {
		DatabaseDSN string `yaml:"database-dsn"`
		Database    struct {
			DSN string `yaml:"dsn"`
		} `yaml:"database"`
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return "", fmt.Errorf("read config file: %w", err)
	}

	var cfg fileConfig
	if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
		return "", fmt.Errorf("parse config file: %w", errUnmarshal)
	}

	if dsn := strings.TrimSpace(cfg.DatabaseDSN); dsn != "" {
		return dsn, nil
	}
	if dsn := strings.TrimSpace(cfg.Database.DSN); dsn != "" {
		return dsn, nil
	}
	return "", ErrMissingDatabaseDSN
}

// JWTConfig holds JWT secret and expiry settings.
type JWTConfig struct {
	Secret string        `yaml:"secret"`
	Expiry time.Duration `yaml:"expiry"`
}

// defaultJWTExpiry matches the session lifetime issued at login.
const defaultJWTExpiry = 7 * 24 * time.Hour

// LoadJWTConfig loads JWT settings from the YAML config file.
func LoadJWTConfig(configPath string) (JWTConfig, error) {
	// fileConfig maps the YAML fields needed for JWT settings.
	type fileConfig struct {
		JWT JWTConfig `yaml:"jwt"`
	}

	result := JWTConfig{Expiry: defaultJWTExpiry}

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.JWT
		}
	}

	if secret := strings.TrimSpace(os.Getenv(EnvJWTSecret)); secret != "" {
		result.Secret = secret
	}
	if expiryRaw := strings.TrimSpace(os.Getenv(EnvJWTExpiry)); expiryRaw != "" {
		if expiry, errParse := time.ParseDuration(expiryRaw); errParse == nil && expiry > 0 {
			result.Expiry = expiry
		}
	}

	if result.Expiry <= 0 {
		result.Expiry = defaultJWTExpiry
	}
	return result, nil
}

// SMTPConfig holds outbound mail settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// Configured reports whether enough settings are present to send mail.
func (c SMTPConfig) Configured() bool {
	return strings.TrimSpace(c.Host) != "" && strings.TrimSpace(c.User) != ""
}

// Addr returns the host:port dial address for the SMTP server.
func (c SMTPConfig) Addr() string {
	port := c.Port
	if port <= 0 {
		port = 587
	}
	return fmt.Sprintf("%s:%d", c.Host, port)
}

// LoadSMTPConfig loads SMTP settings from the YAML config file with env overrides.
func LoadSMTPConfig(configPath string) (SMTPConfig, error) {
	// fileConfig maps the YAML fields needed for SMTP settings.
	type fileConfig struct {
		SMTP SMTPConfig `yaml:"smtp"`
	}

	var result SMTPConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = cfg.SMTP
		}
	}

	if host := strings.TrimSpace(os.Getenv(EnvSMTPHost)); host != "" {
		result.Host = host
	}
	if portRaw := strings.TrimSpace(os.Getenv(EnvSMTPPort)); portRaw != "" {
		if port, errParse := strconv.Atoi(portRaw); errParse == nil && port > 0 {
			result.Port = port
		}
	}
	if user := strings.TrimSpace(os.Getenv(EnvSMTPUser)); user != "" {
		result.User = user
	}
	if password := os.Getenv(EnvSMTPPassword); password != "" {
		result.Password = password
	}
	if from := strings.TrimSpace(os.Getenv(EnvMailFrom)); from != "" {
		result.From = from
	}

	if strings.TrimSpace(result.From) == "" {
		result.From = result.User
	}
	return result, nil
}

// SiteConfig holds deployment-environment settings that change cookie
// attributes and log verbosity between development and production.
type SiteConfig struct {
	Environment  string `yaml:"environment"`
	CookieDomain string `yaml:"cookie-domain"`
}

// Production reports whether the service runs in production mode.
func (c SiteConfig) Production() bool {
	return strings.EqualFold(strings.TrimSpace(c.Environment), "production")
}

// LoadSiteConfig loads environment settings from the YAML config file.
func LoadSiteConfig(configPath string) (SiteConfig, error) {
	// fileConfig maps the YAML fields needed for site settings.
	type fileConfig struct {
		Environment  string `yaml:"environment"`
		CookieDomain string `yaml:"cookie-domain"`
	}

	var result SiteConfig

	data, errRead := os.ReadFile(configPath)
	if errRead == nil {
		var cfg fileConfig
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal == nil {
			result = SiteConfig{Environment: cfg.Environment, CookieDomain: cfg.CookieDomain}
		}
	}

	if env := strings.TrimSpace(os.Getenv(EnvEnvironment)); env != "" {
		result.Environment = env
	}
	if domain := strings.TrimSpace(os.Getenv(EnvCookieDomain)); domain != "" {
		result.CookieDomain = domain
	}
	return result, nil
}
