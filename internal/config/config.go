package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds the application configuration.
type Config struct {
	Port        string        `mapstructure:"PORT"`
	DatabaseURL string        `mapstructure:"DATABASE_URL"`
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL"`
	CORSOrigin  string        `mapstructure:"CORS_ORIGIN"`
	Timezone    string        `mapstructure:"TIMEZONE"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`

	MercadoPagoToken string `mapstructure:"MP_ACCESS_TOKEN"`
	FrontendURL      string `mapstructure:"FRONTEND_URL"`
	WebhookURL       string `mapstructure:"WEBHOOK_URL"`

	DeepSeekAPIKey  string `mapstructure:"DEEPSEEK_API_KEY"`
	DeepSeekBaseURL string `mapstructure:"DEEPSEEK_BASE_URL"`
	DeepSeekModel   string `mapstructure:"DEEPSEEK_MODEL"`

	SESAccessKeyID     string `mapstructure:"AWS_SES_ACCESS_KEY_ID"`
	SESSecretAccessKey string `mapstructure:"AWS_SES_SECRET_ACCESS_KEY"`
	SESRegion          string `mapstructure:"AWS_SES_REGION"`
	EmailFrom          string `mapstructure:"EMAIL_FROM"`

	SchedulerEnabled   bool   `mapstructure:"SCHEDULER_ENABLED"`
	SeasonRolloverCron string `mapstructure:"SEASON_ROLLOVER_CRON"`
	SubscriptionCron   string `mapstructure:"SUBSCRIPTION_SWEEP_CRON"`
}

var defaults = map[string]any{
	"PORT":                      "3000",
	"DATABASE_URL":              "",
	"JWT_SECRET":                "",
	"JWT_TTL":                   "168h",
	"CORS_ORIGIN":               "http://localhost:5173",
	"TIMEZONE":                  "America/Argentina/Buenos_Aires",
	"LOG_LEVEL":                 "info",
	"LOG_PRETTY":                false,
	"MP_ACCESS_TOKEN":           "",
	"FRONTEND_URL":              "http://localhost:5173",
	"WEBHOOK_URL":               "",
	"DEEPSEEK_API_KEY":          "",
	"DEEPSEEK_BASE_URL":         "https://api.deepseek.com/v1",
	"DEEPSEEK_MODEL":            "deepseek-chat",
	"AWS_SES_ACCESS_KEY_ID":     "",
	"AWS_SES_SECRET_ACCESS_KEY": "",
	"AWS_SES_REGION":            "us-east-1",
	"EMAIL_FROM":                "Fulvo <no-reply@fulvo.app>",
	"SCHEDULER_ENABLED":         false,
	"SEASON_ROLLOVER_CRON":      "5 0 * * *",
	"SUBSCRIPTION_SWEEP_CRON":   "0 * * * *",
}

// Load reads the configuration from a .env file in dir (optional) and the
// environment. Environment variables win over the file.
func Load(dir string) (*Config, error) {
	v := viper.New()
	v.AddConfigPath(dir)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	var errs []error
	if c.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("TIMEZONE: %w", err))
	}
	return errors.Join(errs...)
}

// Location resolves the configured timezone, falling back to UTC.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// EmailEnabled reports whether SES credentials were provided.
func (c *Config) EmailEnabled() bool {
	return c.SESAccessKeyID != "" && c.SESSecretAccessKey != ""
}

// PaymentsEnabled reports whether a Mercado Pago token was provided.
func (c *Config) PaymentsEnabled() bool {
	return c.MercadoPagoToken != ""
}

// AIEnabled reports whether an LLM key was provided.
func (c *Config) AIEnabled() bool {
	return c.DeepSeekAPIKey != ""
}
