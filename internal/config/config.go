package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Version is injected at build time via ldflags.
var Version = "0.1.0-dev"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Streaks   StreaksConfig   `mapstructure:"streaks"`
	Scraper   ScraperConfig   `mapstructure:"scraper"`
	Assistant AssistantConfig `mapstructure:"assistant"`
	Push      PushConfig      `mapstructure:"push"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`

	// PublicURL is the externally visible address, used for absolute links
	// in push payloads and as the allowed CORS origin.
	PublicURL string `mapstructure:"public_url"`
}

// DatabaseConfig holds database configuration.
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Path       string `mapstructure:"path"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	JWTSecret     string `mapstructure:"jwt_secret"`
	TokenTTLHours int    `mapstructure:"token_ttl_hours"`
	AdminUsername string `mapstructure:"admin_username"`
	AdminPassword string `mapstructure:"admin_password"`
}

// StreaksConfig controls how commenting streaks are measured and reminded.
type StreaksConfig struct {
	Timezone          string `mapstructure:"timezone"`
	ReminderCron      string `mapstructure:"reminder_cron"`
	ReminderMinStreak int    `mapstructure:"reminder_min_streak"`
}

// ScraperConfig holds settings for the Wikipedia and FamousBirthdays scrapers.
type ScraperConfig struct {
	WikipediaLang       string  `mapstructure:"wikipedia_lang"`
	WikipediaBaseURL    string  `mapstructure:"wikipedia_base_url"`
	FamousBirthdaysURL  string  `mapstructure:"famous_birthdays_url"`
	UserAgent           string  `mapstructure:"user_agent"`
	Timeout             int     `mapstructure:"timeout_seconds"`
	RequestsPerSecond   float64 `mapstructure:"requests_per_second"`
	Burst               int     `mapstructure:"burst"`
	SimilarityThreshold float64 `mapstructure:"similarity_threshold"`
	CacheTTLMinutes     int     `mapstructure:"cache_ttl_minutes"`
}

// AssistantConfig holds the optional Gemini settings used for AI-written descriptions.
type AssistantConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// PushConfig holds Web Push (VAPID) settings. Empty keys are generated on first start.
type PushConfig struct {
	VAPIDPublicKey  string `mapstructure:"vapid_public_key"`
	VAPIDPrivateKey string `mapstructure:"vapid_private_key"`
	Subscriber      string `mapstructure:"subscriber"`
}

// Default returns a Config with default values.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Path: "./data/wikistars.db",
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 5,
			MaxAgeDays: 30,
			Compress:   true,
		},
		Auth: AuthConfig{
			TokenTTLHours: 24 * 30,
		},
		Streaks: StreaksConfig{
			Timezone:          "UTC",
			ReminderCron:      "0 18 * * *",
			ReminderMinStreak: 2,
		},
		Scraper: ScraperConfig{
			WikipediaLang:       "en",
			FamousBirthdaysURL:  "https://www.famousbirthdays.com",
			UserAgent:           "WikiStars5/1.0 (+https://wikistars5.com)",
			Timeout:             10,
			RequestsPerSecond:   2,
			Burst:               4,
			SimilarityThreshold: 0.7,
			CacheTTLMinutes:     30,
		},
		Assistant: AssistantConfig{
			Model: "gemini-2.0-flash",
		},
		Push: PushConfig{
			Subscriber: "admin@wikistars5.com",
		},
	}
}

// Load reads configuration from file and environment variables.
// Priority: environment variables > config file > defaults
func Load(configPath string) (*Config, error) {
	// A .env file is optional; it only seeds the process environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	v := viper.New()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("$HOME/.wikistars")
	}

	v.SetEnvPrefix("WIKISTARS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Scraper.SimilarityThreshold <= 0 || c.Scraper.SimilarityThreshold > 1 {
		return fmt.Errorf("scraper.similarity_threshold must be in (0, 1], got %v", c.Scraper.SimilarityThreshold)
	}
	if c.Auth.AdminUsername != "" && c.Auth.AdminPassword == "" {
		return errors.New("auth.admin_password is required when auth.admin_username is set")
	}
	return nil
}

// setDefaults mirrors Default() so env-only deployments get the same values.
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.port", d.Server.Port)
	v.SetDefault("server.public_url", "")

	v.SetDefault("database.path", d.Database.Path)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.max_size_mb", d.Logging.MaxSizeMB)
	v.SetDefault("logging.max_backups", d.Logging.MaxBackups)
	v.SetDefault("logging.max_age_days", d.Logging.MaxAgeDays)
	v.SetDefault("logging.compress", d.Logging.Compress)

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl_hours", d.Auth.TokenTTLHours)
	v.SetDefault("auth.admin_username", "")
	v.SetDefault("auth.admin_password", "")

	v.SetDefault("streaks.timezone", d.Streaks.Timezone)
	v.SetDefault("streaks.reminder_cron", d.Streaks.ReminderCron)
	v.SetDefault("streaks.reminder_min_streak", d.Streaks.ReminderMinStreak)

	v.SetDefault("scraper.wikipedia_lang", d.Scraper.WikipediaLang)
	v.SetDefault("scraper.wikipedia_base_url", "")
	v.SetDefault("scraper.famous_birthdays_url", d.Scraper.FamousBirthdaysURL)
	v.SetDefault("scraper.user_agent", d.Scraper.UserAgent)
	v.SetDefault("scraper.timeout_seconds", d.Scraper.Timeout)
	v.SetDefault("scraper.requests_per_second", d.Scraper.RequestsPerSecond)
	v.SetDefault("scraper.burst", d.Scraper.Burst)
	v.SetDefault("scraper.similarity_threshold", d.Scraper.SimilarityThreshold)
	v.SetDefault("scraper.cache_ttl_minutes", d.Scraper.CacheTTLMinutes)

	v.SetDefault("assistant.api_key", EmbeddedGeminiKey)
	v.SetDefault("assistant.model", d.Assistant.Model)

	v.SetDefault("push.vapid_public_key", "")
	v.SetDefault("push.vapid_private_key", "")
	v.SetDefault("push.subscriber", d.Push.Subscriber)
}

// Address returns the server address string.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// WikipediaURL returns the base URL of the configured Wikipedia edition.
func (c *ScraperConfig) WikipediaURL() string {
	if c.WikipediaBaseURL != "" {
		return strings.TrimRight(c.WikipediaBaseURL, "/")
	}
	lang := c.WikipediaLang
	if lang == "" {
		lang = "en"
	}
	return fmt.Sprintf("https://%s.wikipedia.org", lang)
}
