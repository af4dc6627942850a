package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	"ChartDesk/internal/model"
)

// Provider sources understood by Config.Provider.Source.
const (
	SourceYahoo = "yahoo"
	SourceREST  = "rest"
	SourceMock  = "mock"
)

// Config holds all application configuration.
// Sections are skipped by the root envconfig pass and processed one by one in
// Load, so every variable is bound under its full SECTION_FIELD name only.
type Config struct {
	Provider struct {
		Source  string        `yaml:"source" envconfig:"PROVIDER_SOURCE"`
		BaseURL string        `yaml:"base_url" envconfig:"PROVIDER_BASE_URL"`
		APIKey  string        `yaml:"api_key" envconfig:"PROVIDER_API_KEY"`
		Timeout time.Duration `yaml:"timeout" envconfig:"PROVIDER_TIMEOUT"`
	} `yaml:"provider" ignored:"true"`
	Server struct {
		Port int `yaml:"port" envconfig:"SERVER_PORT"`
	} `yaml:"server" ignored:"true"`
	Telegram struct {
		BotToken string `yaml:"bot_token" envconfig:"TELEGRAM_BOT_TOKEN"`
		ChatID   string `yaml:"chat_id" envconfig:"TELEGRAM_CHAT_ID"`
	} `yaml:"telegram" ignored:"true"`
	Schedule struct {
		WatchCron string `yaml:"watch_cron" envconfig:"SCHEDULE_WATCH_CRON"`
	} `yaml:"schedule" ignored:"true"`
	Watchlist struct {
		Tickers   []string        `yaml:"tickers" envconfig:"WATCHLIST_TICKERS"`
		Timeframe model.Timeframe `yaml:"timeframe" envconfig:"WATCHLIST_TIMEFRAME"`
	} `yaml:"watchlist" ignored:"true"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path" envconfig:"DATABASE_SQLITE_PATH"`
	} `yaml:"database" ignored:"true"`
	DefaultTimeframe model.Timeframe `yaml:"default_timeframe" envconfig:"DEFAULT_TIMEFRAME"`
	// Proxy is shared by the market-data and Telegram HTTP clients.
	Proxy string `yaml:"proxy" envconfig:"HTTPS_PROXY"`
}

// sections lists the nested structs for the per-section envconfig pass.
func (c *Config) sections() []interface{} {
	return []interface{}{&c.Provider, &c.Server, &c.Telegram, &c.Schedule, &c.Watchlist, &c.Database}
}

// Load reads config from a YAML file, then applies .env and environment variable overrides.
// Variables are named after the YAML path, e.g. PROVIDER_TIMEOUT or WATCHLIST_TICKERS.
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

	// .env is optional; variables already set in the environment win.
	_ = godotenv.Load()

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("env overrides: %w", err)
	}
	for _, section := range cfg.sections() {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("env overrides: %w", err)
		}
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Provider.Source == "" {
		if c.Provider.BaseURL != "" {
			c.Provider.Source = SourceREST
		} else {
			c.Provider.Source = SourceYahoo
		}
	}
	if c.Provider.Timeout == 0 {
		c.Provider.Timeout = 10 * time.Second
	}
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Schedule.WatchCron == "" {
		c.Schedule.WatchCron = "0 */15 * * * 1-5"
	}
	if len(c.Watchlist.Tickers) == 0 {
		c.Watchlist.Tickers = []string{"SPY", "QQQ", "IWM", "^VIX"}
	}
	if c.Watchlist.Timeframe == "" {
		c.Watchlist.Timeframe = model.Timeframe5d
	}
	if c.Database.SQLitePath == "" {
		c.Database.SQLitePath = "data/chartdesk.db"
	}
	if c.DefaultTimeframe == "" {
		c.DefaultTimeframe = model.Timeframe1d
	}
	c.Watchlist.Timeframe = model.ParseTimeframe(string(c.Watchlist.Timeframe))
	c.DefaultTimeframe = model.ParseTimeframe(string(c.DefaultTimeframe))
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	switch c.Provider.Source {
	case SourceYahoo, SourceMock:
	case SourceREST:
		if c.Provider.BaseURL == "" {
			return fmt.Errorf("provider.base_url is required for the rest source")
		}
	default:
		return fmt.Errorf("provider.source %q is not one of yahoo, rest, mock", c.Provider.Source)
	}
	if c.Provider.Timeout < 0 {
		return fmt.Errorf("provider.timeout must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	if !c.DefaultTimeframe.Valid() {
		return fmt.Errorf("default_timeframe %q is not supported", c.DefaultTimeframe)
	}
	if !c.Watchlist.Timeframe.Valid() {
		return fmt.Errorf("watchlist.timeframe %q is not supported", c.Watchlist.Timeframe)
	}
	if (c.Telegram.BotToken == "") != (c.Telegram.ChatID == "") {
		return fmt.Errorf("telegram.bot_token and telegram.chat_id must be set together")
	}
	return nil
}

// TelegramEnabled reports whether notifications should be sent.
func (c *Config) TelegramEnabled() bool {
	return c.Telegram.BotToken != "" && c.Telegram.ChatID != ""
}
