package config

import (
	"fmt"
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// minAPIKeyLength guards against truncated or placeholder keys
const minAPIKeyLength = 32

// Config holds all settings for the stocks API, loaded once at startup from
// the environment and an optional .env file.
type Config struct {
	// PolygonAPIKey authenticates against the quote API (required)
	PolygonAPIKey string `mapstructure:"polygon_api_key"`

	// URL templates for the two upstreams. PolygonURL must contain {symbol},
	// {key} and {last_trade_day}; MwatchURL must contain {symbol}.
	PolygonURL string `mapstructure:"polygon_url"`
	MwatchURL  string `mapstructure:"mwatch_url"`

	Port  string `mapstructure:"port"`
	Debug bool   `mapstructure:"debug"`

	// HTTPTimeout is the per-request upstream timeout in seconds
	HTTPTimeout int `mapstructure:"http_timeout"`

	// CacheTTL is the aggregated-record cache lifetime in seconds
	CacheTTL      int `mapstructure:"cache_ttl"`
	CacheMaxItems int `mapstructure:"cache_max_items"`

	// Outbound requests per second per upstream; 0 means unlimited
	PolygonRPS float64 `mapstructure:"polygon_rps"`
	MwatchRPS  float64 `mapstructure:"mwatch_rps"`
}

// Load reads configuration from environment variables and an optional .env
// file. Environment variables take precedence.
//
// Expected environment variables:
//   - POLYGON_API_KEY (required, at least 32 characters)
//   - POLYGON_URL, MWATCH_URL (optional, default to production endpoints)
//   - PORT, DEBUG, HTTP_TIMEOUT, CACHE_TTL, CACHE_MAX_ITEMS (optional)
//   - POLYGON_RPS, MWATCH_RPS (optional outbound rate limits)
func Load() (*Config, error) {
	// Load .env into the process environment first so viper sees it
	if err := godotenv.Load(); err != nil {
		log.Println("Note: no .env file found, relying on environment variables")
	}

	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("polygon_url", "https://api.polygon.io/v1/open-close/{symbol}/{last_trade_day}?adjusted=true&apiKey={key}")
	v.SetDefault("mwatch_url", "https://www.marketwatch.com/investing/stock/{symbol}")
	v.SetDefault("port", "8000")
	v.SetDefault("debug", false)
	v.SetDefault("http_timeout", 10)
	v.SetDefault("cache_ttl", 60)
	v.SetDefault("cache_max_items", 1024)
	v.SetDefault("polygon_rps", 0.0)
	v.SetDefault("mwatch_rps", 0.0)

	v.BindEnv("polygon_api_key", "POLYGON_API_KEY")
	v.BindEnv("polygon_url", "POLYGON_URL")
	v.BindEnv("mwatch_url", "MWATCH_URL")
	v.BindEnv("port", "PORT")
	v.BindEnv("debug", "DEBUG")
	v.BindEnv("http_timeout", "HTTP_TIMEOUT")
	v.BindEnv("cache_ttl", "CACHE_TTL")
	v.BindEnv("cache_max_items", "CACHE_MAX_ITEMS")
	v.BindEnv("polygon_rps", "POLYGON_RPS")
	v.BindEnv("mwatch_rps", "MWATCH_RPS")

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if config.PolygonAPIKey == "" {
		return nil, fmt.Errorf("missing required configuration: POLYGON_API_KEY")
	}
	if len(config.PolygonAPIKey) < minAPIKeyLength {
		return nil, fmt.Errorf("POLYGON_API_KEY must be at least %d characters", minAPIKeyLength)
	}
	if config.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT must be positive")
	}

	return config, nil
}
