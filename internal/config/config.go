package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

// Config holds all configuration values.
type Config struct {
	Port     string `mapstructure:"PORT"`
	BasePath string `mapstructure:"BASE_PATH"`
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`
	Timezone string `mapstructure:"TIMEZONE"`

	// Storage.
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	MongoURI       string `mapstructure:"MONGODB_URI"`
	MongoDatabase  string `mapstructure:"MONGODB_DATABASE"`

	// Admin access.
	AdminPassword     string `mapstructure:"ADMIN_PASSWORD"`
	AdminPasswordHash string `mapstructure:"ADMIN_PASSWORD_HASH"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LoginRatePerMin   int    `mapstructure:"LOGIN_RATE_PER_MIN"`
	// TrustProxy honours X-Forwarded-For / X-Real-IP from a reverse proxy.
	TrustProxy bool `mapstructure:"TRUST_PROXY"`

	// Google Calendar mirror. Empty key disables the mirror.
	GoogleCalendarID        string `mapstructure:"GOOGLE_CALENDAR_ID"`
	GoogleServiceAccountKey string `mapstructure:"GOOGLE_SERVICE_ACCOUNT_KEY"`
	ReconcileSchedule       string `mapstructure:"RECONCILE_SCHEDULE"`
	ReconcileDays           int    `mapstructure:"RECONCILE_DAYS"`

	// Notifications. Missing credentials disable the channel.
	TwilioAccountSID  string `mapstructure:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `mapstructure:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `mapstructure:"TWILIO_FROM_NUMBER"`
	SendgridAPIKey    string `mapstructure:"SENDGRID_API_KEY"`
	SendgridFromEmail string `mapstructure:"SENDGRID_FROM_EMAIL"`
	SendgridFromName  string `mapstructure:"SENDGRID_FROM_NAME"`
	NotifyEmail       string `mapstructure:"NOTIFY_EMAIL"`
}

var keys = []string{
	"PORT", "BASE_PATH", "ENV", "LOG_LEVEL", "TIMEZONE",
	"STORAGE_BACKEND", "DATABASE_URL", "MONGODB_URI", "MONGODB_DATABASE",
	"ADMIN_PASSWORD", "ADMIN_PASSWORD_HASH", "JWT_SECRET", "LOGIN_RATE_PER_MIN", "TRUST_PROXY",
	"GOOGLE_CALENDAR_ID", "GOOGLE_SERVICE_ACCOUNT_KEY", "RECONCILE_SCHEDULE", "RECONCILE_DAYS",
	"TWILIO_ACCOUNT_SID", "TWILIO_AUTH_TOKEN", "TWILIO_FROM_NUMBER",
	"SENDGRID_API_KEY", "SENDGRID_FROM_EMAIL", "SENDGRID_FROM_NAME", "NOTIFY_EMAIL",
}

// Load reads config.yaml (if any) from the working directory or ./config,
// then lets environment variables override it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AutomaticEnv()

	setDefaults(v)
	// AutomaticEnv only resolves keys viper already knows about.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "3000")
	v.SetDefault("BASE_PATH", "/api")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TIMEZONE", "Europe/Rome")
	v.SetDefault("STORAGE_BACKEND", BackendPostgres)
	v.SetDefault("MONGODB_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGODB_DATABASE", "beach_volley")
	v.SetDefault("ADMIN_PASSWORD", "beachvolley2024")
	v.SetDefault("LOGIN_RATE_PER_MIN", 10)
	v.SetDefault("TRUST_PROXY", false)
	v.SetDefault("GOOGLE_CALENDAR_ID", "primary")
	v.SetDefault("RECONCILE_SCHEDULE", "@every 15m")
	v.SetDefault("RECONCILE_DAYS", 7)
	v.SetDefault("SENDGRID_FROM_NAME", "Beach Volley Preturo")
}

func (c *Config) Validate() error {
	switch c.StorageBackend {
	case BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL not set")
		}
	case BackendMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI not set")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	if c.ReconcileDays < 0 {
		return fmt.Errorf("RECONCILE_DAYS must not be negative")
	}
	if !strings.HasPrefix(c.BasePath, "/") {
		c.BasePath = "/" + c.BasePath
	}
	c.BasePath = strings.TrimRight(c.BasePath, "/")
	return nil
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func (c *Config) CalendarEnabled() bool {
	return c.GoogleServiceAccountKey != ""
}
