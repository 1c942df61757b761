package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/robfig/cron/v3"

	"github.com/ternarybob/screener/internal/momentum"
	"github.com/ternarybob/screener/internal/regime"
	"github.com/ternarybob/screener/internal/relstrength"
	"github.com/ternarybob/screener/internal/signals"
)

// Config represents the application configuration
type Config struct {
	Environment      string             `toml:"environment"` // "development" or "production"
	Logging          LoggingConfig      `toml:"logging"`
	Storage          StorageConfig      `toml:"storage"`
	Screener         ScreenerConfig     `toml:"screener"`
	Scoring          signals.Thresholds `toml:"scoring"`
	Momentum         momentum.Config    `toml:"momentum"`
	RelativeStrength relstrength.Config `toml:"relative_strength"`
	Regime           regime.Config      `toml:"regime"`
	Scheduler        SchedulerConfig    `toml:"scheduler"`
	Report           ReportConfig       `toml:"report"`
}

type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
	Dir    string   `toml:"dir"`    // Directory for screener.log; empty means next to the executable
}

// StorageConfig contains storage configuration
type StorageConfig struct {
	Badger BadgerConfig `toml:"badger"`
}

// BadgerConfig contains BadgerDB-specific configuration
type BadgerConfig struct {
	Path           string `toml:"path"`             // Database directory path
	ResetOnStartup bool   `toml:"reset_on_startup"` // Delete database on startup
}

// ScreenerConfig controls batch evaluation.
type ScreenerConfig struct {
	Concurrency     int                `toml:"concurrency"`      // Worker pool size for batch evaluation
	Benchmark       string             `toml:"benchmark"`        // Default benchmark symbol for relative strength
	DefaultExchange string             `toml:"default_exchange"` // Exchange applied to bare symbols
	Persist         bool               `toml:"persist"`          // Store evaluations and regime snapshots
	Groups          []signals.GroupCap `toml:"groups"`           // Technical signal groups; empty uses the built-in groups
}

// SchedulerConfig controls the watch command.
type SchedulerConfig struct {
	Enabled  bool   `toml:"enabled"`
	Schedule string `toml:"schedule"`  // Standard 5-field cron expression
	InputDir string `toml:"input_dir"` // Directory scanned for bundle files on each run
}

// ReportConfig controls rendered reports.
type ReportConfig struct {
	Dir     string   `toml:"dir"`
	Formats []string `toml:"formats"` // "markdown", "html", "pdf"
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout"},
		},
		Storage: StorageConfig{
			Badger: BadgerConfig{
				Path: "./data/screener",
			},
		},
		Screener: ScreenerConfig{
			Concurrency:     4,
			Benchmark:       "SPY",
			DefaultExchange: "NYSE",
			Persist:         true,
		},
		Scoring:          signals.DefaultThresholds(),
		Momentum:         momentum.DefaultConfig(),
		RelativeStrength: relstrength.DefaultConfig(),
		Regime:           regime.DefaultConfig(),
		Scheduler: SchedulerConfig{
			Enabled:  false,
			Schedule: "30 16 * * 1-5", // Weekdays after the close
			InputDir: "./bundles",
		},
		Report: ReportConfig{
			Dir:     "./reports",
			Formats: []string{"markdown"},
		},
	}
}

// LoadFromFiles loads configuration with priority: defaults -> file1 -> file2 -> ... -> env.
// Later files override earlier files. CLI flags are applied by the caller via ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("SCREENER_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Logging
	if level := os.Getenv("SCREENER_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("SCREENER_LOG_OUTPUT"); output != "" {
		config.Logging.Output = splitList(output)
	}
	if dir := os.Getenv("SCREENER_LOG_DIR"); dir != "" {
		config.Logging.Dir = dir
	}

	// Storage
	if path := os.Getenv("SCREENER_BADGER_PATH"); path != "" {
		config.Storage.Badger.Path = path
	}
	if reset := os.Getenv("SCREENER_BADGER_RESET_ON_STARTUP"); reset != "" {
		if b, err := strconv.ParseBool(reset); err == nil {
			config.Storage.Badger.ResetOnStartup = b
		}
	}

	// Screener
	if concurrency := os.Getenv("SCREENER_CONCURRENCY"); concurrency != "" {
		if n, err := strconv.Atoi(concurrency); err == nil {
			config.Screener.Concurrency = n
		}
	}
	if benchmark := os.Getenv("SCREENER_BENCHMARK"); benchmark != "" {
		config.Screener.Benchmark = benchmark
	}
	if exchange := os.Getenv("SCREENER_DEFAULT_EXCHANGE"); exchange != "" {
		config.Screener.DefaultExchange = exchange
	}
	if persist := os.Getenv("SCREENER_PERSIST"); persist != "" {
		if b, err := strconv.ParseBool(persist); err == nil {
			config.Screener.Persist = b
		}
	}

	// Scheduler
	if enabled := os.Getenv("SCREENER_SCHEDULER_ENABLED"); enabled != "" {
		if b, err := strconv.ParseBool(enabled); err == nil {
			config.Scheduler.Enabled = b
		}
	}
	if schedule := os.Getenv("SCREENER_SCHEDULE"); schedule != "" {
		config.Scheduler.Schedule = schedule
	}
	if dir := os.Getenv("SCREENER_INPUT_DIR"); dir != "" {
		config.Scheduler.InputDir = dir
	}

	// Reports
	if dir := os.Getenv("SCREENER_REPORT_DIR"); dir != "" {
		config.Report.Dir = dir
	}
	if formats := os.Getenv("SCREENER_REPORT_FORMATS"); formats != "" {
		config.Report.Formats = splitList(formats)
	}
}

// FlagOverrides carries command-line values. Zero values leave config untouched.
type FlagOverrides struct {
	LogLevel    string
	DBPath      string
	Benchmark   string
	Concurrency int
	ReportDir   string
	NoPersist   bool
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, flags FlagOverrides) {
	// Command-line flags have highest priority
	if flags.LogLevel != "" {
		config.Logging.Level = flags.LogLevel
	}
	if flags.DBPath != "" {
		config.Storage.Badger.Path = flags.DBPath
	}
	if flags.Benchmark != "" {
		config.Screener.Benchmark = flags.Benchmark
	}
	if flags.Concurrency > 0 {
		config.Screener.Concurrency = flags.Concurrency
	}
	if flags.ReportDir != "" {
		config.Report.Dir = flags.ReportDir
	}
	if flags.NoPersist {
		config.Screener.Persist = false
	}
}

// Validate checks values that would otherwise fail late.
func (c *Config) Validate() error {
	if c.Screener.Concurrency < 1 {
		return fmt.Errorf("screener.concurrency must be at least 1, got %d", c.Screener.Concurrency)
	}
	for _, g := range c.Screener.Groups {
		if g.Name == "" || len(g.Keywords) == 0 {
			return fmt.Errorf("screener.groups entries need a name and at least one keyword")
		}
		if g.MaxPoints < 0 {
			return fmt.Errorf("screener.groups %s: max_points must not be negative", g.Name)
		}
	}
	if err := c.Momentum.Validate(); err != nil {
		return fmt.Errorf("momentum: %w", err)
	}
	if err := c.RelativeStrength.Validate(); err != nil {
		return fmt.Errorf("relative_strength: %w", err)
	}
	if err := c.Regime.Validate(); err != nil {
		return fmt.Errorf("regime: %w", err)
	}
	for _, f := range c.Report.Formats {
		switch strings.ToLower(f) {
		case "markdown", "md", "html", "pdf":
		default:
			return fmt.Errorf("unknown report format %q", f)
		}
	}
	if c.Scheduler.Enabled {
		if err := ValidateSchedule(c.Scheduler.Schedule); err != nil {
			return fmt.Errorf("scheduler.schedule: %w", err)
		}
	}
	return nil
}

// TechnicalGroups returns the configured technical groups or the built-in set.
func (c *Config) TechnicalGroups() []signals.GroupCap {
	if len(c.Screener.Groups) > 0 {
		return c.Screener.Groups
	}
	return signals.DefaultGroupCaps()
}

// ValidateSchedule validates a 5-field cron expression and ensures a minimum 5-minute interval
func ValidateSchedule(schedule string) error {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	if _, err := parser.Parse(schedule); err != nil {
		return fmt.Errorf("invalid cron expression: %w", err)
	}

	parts := strings.Fields(schedule)
	if len(parts) < 5 {
		return fmt.Errorf("invalid cron format: expected 5 fields")
	}

	minuteField := parts[0]
	if minuteField == "*" {
		return fmt.Errorf("schedule must have minimum 5-minute interval (every minute is not allowed)")
	}
	if strings.HasPrefix(minuteField, "*/") {
		interval, err := strconv.Atoi(strings.TrimPrefix(minuteField, "*/"))
		if err == nil && interval < 5 {
			return fmt.Errorf("schedule interval must be at least 5 minutes, got %d", interval)
		}
	}

	return nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
