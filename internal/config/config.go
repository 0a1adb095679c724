// Package config loads application configuration from file and
// environment via viper.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	HTTP    HTTPConfig    `mapstructure:"http"`
	Fetcher FetcherConfig `mapstructure:"fetcher"`
	Scraper ScraperConfig `mapstructure:"scraper"`
	Cleaner CleanerConfig `mapstructure:"cleaner"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// HTTPConfig holds settings shared by every outgoing request.
type HTTPConfig struct {
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// FetcherConfig holds API fetcher settings.
type FetcherConfig struct {
	Retries   int    `mapstructure:"retries"`
	PageParam string `mapstructure:"page_param"`
	StartPage int    `mapstructure:"start_page"`
	MaxPages  int    `mapstructure:"max_pages"`
}

// ScraperConfig holds page scraper settings.
type ScraperConfig struct {
	NextSelector string `mapstructure:"next_selector"`
	MaxPages     int    `mapstructure:"max_pages"`
}

// CleanerConfig holds text normalization settings.
type CleanerConfig struct {
	Language      string `mapstructure:"language"`
	StripTags     bool   `mapstructure:"strip_tags"`
	StripNonAlpha bool   `mapstructure:"strip_non_alpha"`
	Lowercase     bool   `mapstructure:"lowercase"`
	RemoveStops   bool   `mapstructure:"remove_stopwords"`
	Stem          bool   `mapstructure:"stem"`
	Lemmatize     bool   `mapstructure:"lemmatize"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// Load reads configuration from the given file (or the default search
// paths when empty), environment variables and defaults.
func Load(configPath string) (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./config")
		viper.AddConfigPath("$HOME/.scrapekit")
	}

	setDefaults()

	viper.SetEnvPrefix("SCRAPEKIT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		// A missing config file is fine, defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", "ScrapeKit/1.0")

	viper.SetDefault("fetcher.retries", 3)
	viper.SetDefault("fetcher.page_param", "page")
	viper.SetDefault("fetcher.start_page", 1)
	viper.SetDefault("fetcher.max_pages", 0)

	viper.SetDefault("scraper.next_selector", "a.next")
	viper.SetDefault("scraper.max_pages", 0)

	viper.SetDefault("cleaner.language", "english")
	viper.SetDefault("cleaner.strip_tags", true)
	viper.SetDefault("cleaner.strip_non_alpha", true)
	viper.SetDefault("cleaner.lowercase", true)
	viper.SetDefault("cleaner.remove_stopwords", true)
	viper.SetDefault("cleaner.stem", false)
	viper.SetDefault("cleaner.lemmatize", false)

	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.pretty", false)
}

// Validate checks the configuration for values no component can run with.
func (c *Config) Validate() error {
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}
	if c.Fetcher.Retries < 1 {
		return fmt.Errorf("fetcher.retries must be at least 1")
	}
	if c.Fetcher.StartPage < 1 {
		return fmt.Errorf("fetcher.start_page must be at least 1")
	}
	if c.Fetcher.PageParam == "" {
		return fmt.Errorf("fetcher.page_param must not be empty")
	}
	if c.Scraper.NextSelector == "" {
		return fmt.Errorf("scraper.next_selector must not be empty")
	}
	return nil
}
