package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/alejandrodnm/updown/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, 1000.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, 0, cfg.Backtest.SlippageSeconds)
	assert.Equal(t, "ask_collapse", cfg.Backtest.WinnerPolicy)
	assert.Equal(t, "data", cfg.Data.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
backtest:
  initial_capital: 500
  slippage_seconds: 2
  winner_policy: ask_compare
data:
  file: quotes.csv
log:
  level: debug
`)

	cfg, err := config.Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500.0, cfg.Backtest.InitialCapital)
	assert.Equal(t, 2, cfg.Backtest.SlippageSeconds)
	assert.Equal(t, "ask_compare", cfg.Backtest.WinnerPolicy)
	assert.Equal(t, "quotes.csv", cfg.Data.File)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load("")
	require.NoError(t, err)

	assert.Equal(t, "error", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoad_InvalidWinnerPolicy(t *testing.T) {
	path := writeConfig(t, `
backtest:
  winner_policy: coin_flip
`)

	_, err := config.Load(path)
	assert.Error(t, err)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := config.Load("does-not-exist.yaml")
	assert.Error(t, err)
}
