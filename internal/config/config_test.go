package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ChartDesk/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, SourceYahoo, cfg.Provider.Source)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"SPY", "QQQ", "IWM", "^VIX"}, cfg.Watchlist.Tickers)
	assert.Equal(t, model.Timeframe5d, cfg.Watchlist.Timeframe)
	assert.Equal(t, model.Timeframe1d, cfg.DefaultTimeframe)
	assert.False(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_YAML(t *testing.T) {
	path := writeConfig(t, `
provider:
  source: rest
  base_url: http://bars.local
  api_key: k
  timeout: 3s
server:
  port: 9090
telegram:
  bot_token: token
  chat_id: "42"
watchlist:
  tickers: [AAPL, MSFT]
  timeframe: 1MO
default_timeframe: 3mo
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, SourceREST, cfg.Provider.Source)
	assert.Equal(t, "http://bars.local", cfg.Provider.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, []string{"AAPL", "MSFT"}, cfg.Watchlist.Tickers)
	assert.Equal(t, model.Timeframe1mo, cfg.Watchlist.Timeframe)
	assert.Equal(t, model.Timeframe3mo, cfg.DefaultTimeframe)
	assert.True(t, cfg.TelegramEnabled())
	assert.NoError(t, cfg.Validate())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
watchlist:
  tickers: [AAPL]
`)
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("WATCHLIST_TICKERS", "NVDA,AMD")
	t.Setenv("PROVIDER_TIMEOUT", "2s")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, []string{"NVDA", "AMD"}, cfg.Watchlist.Tickers)
	assert.Equal(t, 2*time.Second, cfg.Provider.Timeout)
}

func TestLoad_IgnoresUnprefixedEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("TIMEOUT", "1ms")
	t.Setenv("SOURCE", "mock")
	t.Setenv("TICKERS", "XYZ")
	t.Setenv("BOT_TOKEN", "stray")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Provider.Timeout)
	assert.Equal(t, SourceYahoo, cfg.Provider.Source)
	assert.Equal(t, []string{"SPY", "QQQ", "IWM", "^VIX"}, cfg.Watchlist.Tickers)
	assert.Empty(t, cfg.Telegram.BotToken)
}

func TestLoad_TopLevelProxy(t *testing.T) {
	t.Setenv("HTTPS_PROXY", "")
	require.NoError(t, os.Unsetenv("HTTPS_PROXY"))

	cfg, err := Load(writeConfig(t, "proxy: http://127.0.0.1:7890\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:7890", cfg.Proxy)

	t.Setenv("HTTPS_PROXY", "http://corp:3128")
	cfg, err = Load(writeConfig(t, "proxy: http://127.0.0.1:7890\n"))
	require.NoError(t, err)
	assert.Equal(t, "http://corp:3128", cfg.Proxy)
}

func TestLoad_BaseURLImpliesREST(t *testing.T) {
	path := writeConfig(t, "provider:\n  base_url: http://bars.local\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceREST, cfg.Provider.Source)
}

func TestLoad_BadYAML(t *testing.T) {
	path := writeConfig(t, "provider: [unterminated")
	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load(filepath.Join(t.TempDir(), "none.yaml"))
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"unknown source", func(c *Config) { c.Provider.Source = "bloomberg" }},
		{"rest without base url", func(c *Config) { c.Provider.Source = SourceREST; c.Provider.BaseURL = "" }},
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad default timeframe", func(c *Config) { c.DefaultTimeframe = "10y" }},
		{"bad watchlist timeframe", func(c *Config) { c.Watchlist.Timeframe = "1w" }},
		{"half telegram", func(c *Config) { c.Telegram.BotToken = "token" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
