package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultSecretKey is the development fallback for SECRET_KEY. Production
// deployments must override it; Validate refuses to start otherwise.
const DefaultSecretKey = "dev-secret-key-change-in-production"

type Config struct {
	Port        string `mapstructure:"PORT"`
	Env         string `mapstructure:"ENV"`
	SecretKey   string `mapstructure:"SECRET_KEY"`
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBMaxConns  int32  `mapstructure:"DB_MAX_CONNS"`
	DBMinConns  int32  `mapstructure:"DB_MIN_CONNS"`

	SessionCookieSecure   bool `mapstructure:"SESSION_COOKIE_SECURE"`
	SessionCookieHTTPOnly bool `mapstructure:"SESSION_COOKIE_HTTPONLY"`
	SessionLifetimeSecs   int  `mapstructure:"SESSION_LIFETIME"`

	CORSOrigins []string `mapstructure:"CORS_ORIGINS"`

	// Delivery credentials are part of the deployment surface but no code
	// path sends anything; campaign dispatch is out of scope.
	MailServer          string `mapstructure:"MAIL_SERVER"`
	MailPort            int    `mapstructure:"MAIL_PORT"`
	MailUseTLS          bool   `mapstructure:"MAIL_USE_TLS"`
	MailUsername        string `mapstructure:"MAIL_USERNAME"`
	MailPassword        string `mapstructure:"MAIL_PASSWORD"`
	SMSAPIKey           string `mapstructure:"SMS_API_KEY"`
	SMSAPISecret        string `mapstructure:"SMS_API_SECRET"`
	WhatsAppAPIKey      string `mapstructure:"WHATSAPP_API_KEY"`
	WhatsAppPhoneNumber string `mapstructure:"WHATSAPP_PHONE_NUMBER"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("SECRET_KEY", DefaultSecretKey)
	v.SetDefault("DB_MAX_CONNS", 20)
	v.SetDefault("DB_MIN_CONNS", 5)
	v.SetDefault("SESSION_COOKIE_SECURE", false)
	v.SetDefault("SESSION_COOKIE_HTTPONLY", true)
	v.SetDefault("SESSION_LIFETIME", 3600)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("MAIL_SERVER", "smtp.gmail.com")
	v.SetDefault("MAIL_PORT", 587)
	v.SetDefault("MAIL_USE_TLS", true)
	v.SetDefault("LOG_LEVEL", "info")

	// Bind env vars explicitly so Unmarshal picks them up
	for _, key := range []string{
		"PORT", "ENV", "SECRET_KEY", "DATABASE_URL",
		"DB_MAX_CONNS", "DB_MIN_CONNS",
		"SESSION_COOKIE_SECURE", "SESSION_COOKIE_HTTPONLY", "SESSION_LIFETIME",
		"CORS_ORIGINS",
		"MAIL_SERVER", "MAIL_PORT", "MAIL_USE_TLS", "MAIL_USERNAME", "MAIL_PASSWORD",
		"SMS_API_KEY", "SMS_API_SECRET",
		"WHATSAPP_API_KEY", "WHATSAPP_PHONE_NUMBER",
		"LOG_LEVEL", "LOG_FILE",
	} {
		v.BindEnv(key)
	}

	// Try reading .env file, but don't fail if missing
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if cfg.CORSOrigins == nil {
		origins := v.GetString("CORS_ORIGINS")
		if origins != "" {
			cfg.CORSOrigins = strings.Split(origins, ",")
		}
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	return cfg, nil
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// IsProduction returns true when the server is configured for production mode.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// SessionLifetime returns the configured session lifetime as a duration.
func (c *Config) SessionLifetime() time.Duration {
	return time.Duration(c.SessionLifetimeSecs) * time.Second
}

// Validate checks that the configuration is safe to run. Production refuses
// the default SECRET_KEY so session cookies cannot be forged with a known key.
func (c *Config) Validate() error {
	if c.SessionLifetimeSecs <= 0 {
		return fmt.Errorf("SESSION_LIFETIME must be positive, got %d", c.SessionLifetimeSecs)
	}
	if c.IsProduction() {
		if c.SecretKey == DefaultSecretKey || c.SecretKey == "" {
			return fmt.Errorf("SECRET_KEY must be set to a non-default value in production")
		}
		if !c.SessionCookieSecure {
			return fmt.Errorf("SESSION_COOKIE_SECURE must be true in production")
		}
	}
	return nil
}
