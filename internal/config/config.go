package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"AssetAnalyzer/internal/timeframe"
)

// EnvPrefix prefixes every environment override, e.g. ANALYZER_LOG_LEVEL.
const EnvPrefix = "ANALYZER"

// WatchEntry is one scheduled analysis.
type WatchEntry struct {
	Ticker   string `yaml:"ticker"`
	Period   string `yaml:"period"`
	Interval string `yaml:"interval"`
}

// Config holds all application configuration.
type Config struct {
	DataSource struct {
		Provider       string        `yaml:"provider"`
		BaseURL        string        `yaml:"base_url" split_words:"true"`
		APIKey         string        `yaml:"api_key" split_words:"true"`
		Timeout        time.Duration `yaml:"timeout"`
		RequestsPerSec int           `yaml:"requests_per_sec" split_words:"true"`
		MaxRetries     int           `yaml:"max_retries" split_words:"true"`
		MockPrice      float64       `yaml:"mock_price" split_words:"true"`
	} `yaml:"data_source" split_words:"true"`
	Server struct {
		Addr         string        `yaml:"addr"`
		Mode         string        `yaml:"mode"`
		ReadTimeout  time.Duration `yaml:"read_timeout" split_words:"true"`
		WriteTimeout time.Duration `yaml:"write_timeout" split_words:"true"`
	} `yaml:"server"`
	Telegram struct {
		BotToken string `yaml:"bot_token" split_words:"true"`
		ChatID   int64  `yaml:"chat_id" split_words:"true"`
	} `yaml:"telegram"`
	Watch struct {
		Cron    string       `yaml:"cron"`
		Entries []WatchEntry `yaml:"entries" ignored:"true"`
	} `yaml:"watch"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies .env and environment
// variable overrides, then defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" && cfg.Proxy == "" {
		cfg.Proxy = v
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.DataSource.Provider == "" {
		c.DataSource.Provider = "yahoo"
	}
	c.DataSource.Provider = strings.ToLower(c.DataSource.Provider)
	if c.DataSource.Timeout == 0 {
		c.DataSource.Timeout = 30 * time.Second
	}
	if c.DataSource.RequestsPerSec == 0 {
		c.DataSource.RequestsPerSec = 5
	}
	if c.DataSource.MaxRetries == 0 {
		c.DataSource.MaxRetries = 3
	}
	if c.DataSource.MockPrice == 0 {
		c.DataSource.MockPrice = 100
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.Mode == "" {
		c.Server.Mode = "release"
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 15 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 60 * time.Second
	}
	if c.Watch.Cron == "" {
		c.Watch.Cron = "0 0 22 * * 1-5"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "console"
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.DataSource.Provider {
	case "yahoo", "mock":
	case "rest":
		if c.DataSource.BaseURL == "" {
			return fmt.Errorf("data_source.base_url is required for the rest provider")
		}
	default:
		return fmt.Errorf("data_source.provider %q is not one of yahoo, rest, mock", c.DataSource.Provider)
	}
	if c.DataSource.RequestsPerSec < 0 {
		return fmt.Errorf("data_source.requests_per_sec must not be negative")
	}
	if c.DataSource.MaxRetries < 0 {
		return fmt.Errorf("data_source.max_retries must not be negative")
	}
	for i, e := range c.Watch.Entries {
		if strings.TrimSpace(e.Ticker) == "" {
			return fmt.Errorf("watch.entries[%d].ticker is required", i)
		}
		if _, err := timeframe.ParsePeriod(e.Period); err != nil {
			return fmt.Errorf("watch.entries[%d]: %w", i, err)
		}
		if _, err := timeframe.ParseInterval(e.Interval); err != nil {
			return fmt.Errorf("watch.entries[%d]: %w", i, err)
		}
	}
	return nil
}

// TelegramEnabled reports whether Telegram credentials are configured.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != 0
}
