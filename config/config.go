package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds application configuration.
// Values come from defaults, an optional YAML file and the environment, in
// increasing order of precedence. Environment keys are the upper case field
// keys, e.g. DATABASE_URL.
type Config struct {
	DatabaseURL    string   `mapstructure:"database_url"`
	JWTSecret      string   `mapstructure:"jwt_secret"`
	ServerAddr     string   `mapstructure:"server_addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
	LogLevel       string   `mapstructure:"log_level"`

	Timezone       string `mapstructure:"timezone"`
	AnalyticsEpoch string `mapstructure:"analytics_epoch"`

	ForecastCategories  []string `mapstructure:"forecast_categories"`
	ForecastHorizon     int      `mapstructure:"forecast_horizon"`
	ForecastSeed        int64    `mapstructure:"forecast_seed"`
	ForecastEstimators  int      `mapstructure:"forecast_estimators"`
	ForecastMaxFeatures int      `mapstructure:"forecast_max_features"`

	RedisURL       string        `mapstructure:"redis_url"`
	SeriesCacheTTL time.Duration `mapstructure:"series_cache_ttl"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`
}

// AppConfig holds the application-wide configuration
var AppConfig Config

const dateLayout = "2006-01-02"

var defaults = map[string]any{
	"database_url":          "",
	"jwt_secret":            "",
	"server_addr":           ":3002",
	"allowed_origins":       []string{"http://localhost:3000", "https://ifore.vercel.app"},
	"log_level":             "info",
	"timezone":              "Local",
	"analytics_epoch":       "2023-07-09",
	"forecast_categories":   []string{"Freebase", "Saltnic", "Pod", "Mod", "Coil", "Accessories"},
	"forecast_horizon":      3,
	"forecast_seed":         3,
	"forecast_estimators":   200,
	"forecast_max_features": 2,
	"redis_url":             "",
	"series_cache_ttl":      "0s",
	"gemini_api_key":        "",
	"gemini_model":          "gemini-1.5-flash",
}

// Load reads .env (if present), then path (if not empty), then the
// environment, and validates the result.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug().Msg("no .env file, using environment variables")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.AllowedOrigins = splitList(cfg.AllowedOrigins)
	cfg.ForecastCategories = splitList(cfg.ForecastCategories)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// splitList flattens entries that still hold comma separated values and
// drops blanks.
func splitList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// Validate checks the values that do not depend on the command being run.
func (c *Config) Validate() error {
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := c.Epoch(); err != nil {
		return err
	}
	if c.ForecastHorizon < 1 {
		return fmt.Errorf("forecast_horizon must be positive, got %d", c.ForecastHorizon)
	}
	if c.ForecastEstimators < 1 {
		return fmt.Errorf("forecast_estimators must be positive, got %d", c.ForecastEstimators)
	}
	if c.ForecastMaxFeatures < 1 {
		return fmt.Errorf("forecast_max_features must be positive, got %d", c.ForecastMaxFeatures)
	}
	if c.SeriesCacheTTL < 0 {
		return fmt.Errorf("series_cache_ttl must not be negative")
	}
	return nil
}

// Location resolves Timezone. "Local" and "" mean the host zone.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" || c.Timezone == "Local" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Epoch parses AnalyticsEpoch as a calendar day in Location.
func (c *Config) Epoch() (time.Time, error) {
	loc, err := c.Location()
	if err != nil {
		return time.Time{}, err
	}
	t, err := time.ParseInLocation(dateLayout, c.AnalyticsEpoch, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid analytics_epoch %q: %w", c.AnalyticsEpoch, err)
	}
	return t, nil
}

// CacheEnabled reports whether series should be cached in Redis.
func (c *Config) CacheEnabled() bool {
	return c.RedisURL != "" && c.SeriesCacheTTL > 0
}
