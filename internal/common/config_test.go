package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ternarybob/screener/internal/signals"
)

func writeConfig(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 4, cfg.Screener.Concurrency)
	assert.Equal(t, "SPY", cfg.Screener.Benchmark)
	assert.Equal(t, signals.DefaultThresholds(), cfg.Scoring)
	assert.Equal(t, signals.DefaultGroupCaps(), cfg.TechnicalGroups())
	assert.NoError(t, cfg.Validate())
	assert.False(t, cfg.IsProduction())
}

func TestLoadFromFiles_LaterFilesWin(t *testing.T) {
	base := writeConfig(t, "base.toml", `
environment = "production"

[screener]
concurrency = 8
benchmark = "QQQ"

[scoring.rsi]
oversold = 25.0

[scoring.caps]
technical = 40.0
`)
	override := writeConfig(t, "override.toml", `
[screener]
benchmark = "IWM"

[[screener.groups]]
name = "momentum"
keywords = ["rsi", "macd"]
max_points = 8.0
`)

	cfg, err := LoadFromFiles(base, "", override)
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 8, cfg.Screener.Concurrency)
	assert.Equal(t, "IWM", cfg.Screener.Benchmark)
	assert.Equal(t, 25.0, cfg.Scoring.RSI.Oversold)
	assert.Equal(t, 14, cfg.Scoring.RSI.Period, "fields absent from the file keep their defaults")
	assert.Equal(t, 40.0, cfg.Scoring.Caps.Technical)
	require.Len(t, cfg.TechnicalGroups(), 1)
	assert.Equal(t, 8.0, cfg.TechnicalGroups()[0].MaxPoints)

	// Defaults are untouched by loading.
	assert.Equal(t, 30.0, signals.DefaultThresholds().RSI.Oversold)
}

func TestLoadFromFiles_EnvOverridesFiles(t *testing.T) {
	path := writeConfig(t, "screener.toml", `
[screener]
concurrency = 2
`)
	t.Setenv("SCREENER_CONCURRENCY", "6")
	t.Setenv("SCREENER_BADGER_PATH", "/tmp/screener-db")
	t.Setenv("SCREENER_REPORT_FORMATS", "markdown, pdf")

	cfg, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Screener.Concurrency)
	assert.Equal(t, "/tmp/screener-db", cfg.Storage.Badger.Path)
	assert.Equal(t, []string{"markdown", "pdf"}, cfg.Report.Formats)
}

func TestLoadFromFiles_Errors(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)

	bad := writeConfig(t, "bad.toml", "[screener\nconcurrency = ")
	_, err = LoadFromFiles(bad)
	assert.Error(t, err)

	zero := writeConfig(t, "zero.toml", "[screener]\nconcurrency = 0\n")
	_, err = LoadFromFiles(zero)
	assert.ErrorContains(t, err, "concurrency")

	quarters := writeConfig(t, "quarters.toml", "[momentum]\nsurprise_quarters = -1\n")
	_, err = LoadFromFiles(quarters)
	assert.ErrorContains(t, err, "surprise_quarters")
}

func TestApplyFlagOverrides(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyFlagOverrides(cfg, FlagOverrides{Benchmark: "QQQ", Concurrency: 12, NoPersist: true})

	assert.Equal(t, "QQQ", cfg.Screener.Benchmark)
	assert.Equal(t, 12, cfg.Screener.Concurrency)
	assert.False(t, cfg.Screener.Persist)
	assert.Equal(t, "info", cfg.Logging.Level, "empty flags leave config untouched")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"unknown report format", func(c *Config) { c.Report.Formats = []string{"docx"} }, true},
		{"group without keywords", func(c *Config) { c.Screener.Groups = []signals.GroupCap{{Name: "x", MaxPoints: 5}} }, true},
		{"scheduler with bad cron", func(c *Config) { c.Scheduler.Enabled = true; c.Scheduler.Schedule = "not cron" }, true},
		{"scheduler every minute", func(c *Config) { c.Scheduler.Enabled = true; c.Scheduler.Schedule = "* * * * *" }, true},
		{"scheduler disabled ignores schedule", func(c *Config) { c.Scheduler.Schedule = "bad" }, false},
		{"negative surprise quarters", func(c *Config) { c.Momentum.SurpriseQuarters = -1 }, true},
		{"zero short bars", func(c *Config) { c.Momentum.ShortBars = 0 }, true},
		{"short bars not below long bars", func(c *Config) { c.Momentum.ShortBars = 50 }, true},
		{"negative price band", func(c *Config) { c.Momentum.PriceBand = -0.05 }, true},
		{"zero rs window", func(c *Config) { c.RelativeStrength.Windows = []int{20, 0} }, true},
		{"no rs windows", func(c *Config) { c.RelativeStrength.Windows = nil }, true},
		{"rs base range inverted", func(c *Config) { c.RelativeStrength.BaseTo = 5 }, true},
		{"zero chop period", func(c *Config) { c.Regime.ChopPeriod = 0 }, true},
		{"negative conflict window", func(c *Config) { c.Regime.ConflictWindows = []int{5, -10} }, true},
		{"volatility thresholds inverted", func(c *Config) { c.Regime.VolElevated = 35 }, true},
		{"breadth thresholds inverted", func(c *Config) { c.Regime.BreadthBearish = 70 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	assert.NoError(t, ValidateSchedule("30 16 * * 1-5"))
	assert.NoError(t, ValidateSchedule("*/15 * * * *"))
	assert.Error(t, ValidateSchedule("*/2 * * * *"))
	assert.Error(t, ValidateSchedule("0 0 * *"))
}
