package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/spf13/viper"

	"github.com/jamesainslie/pybroom/pkg/pybroom/rules"
)

// LoggingConfig configures application logging.
type LoggingConfig struct {
	Level      string            `mapstructure:"level"`
	Path       string            `mapstructure:"path"`
	Components map[string]string `mapstructure:"components"`
	Rotation   struct {
		MaxSizeMB  int `mapstructure:"max_size_mb"`
		MaxAge     int `mapstructure:"max_age"`
		MaxBackups int `mapstructure:"max_backups"`
	} `mapstructure:"rotation"`
}

// HistoryConfig configures the operation history.
type HistoryConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	Path          string `mapstructure:"path"`
	RetentionDays int    `mapstructure:"retention_days"`
}

// Config represents the application configuration.
type Config struct {
	Roots   []string      `mapstructure:"roots"`
	Rules   rules.Config  `mapstructure:"rules"`
	Output  string        `mapstructure:"output"`
	History HistoryConfig `mapstructure:"history"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// Load loads configuration from file and environment variables.
// Config file locations (in order of precedence):
//   - $XDG_CONFIG_HOME/pybroom/config.yaml
//   - $HOME/.config/pybroom/config.yaml
//
// Environment variables are prefixed with PYBROOM_ (e.g.,
// PYBROOM_RULES_VENV_DAYS).
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		v.AddConfigPath(filepath.Join(xdgConfigHome, "pybroom"))
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	v.AddConfigPath(filepath.Join(homeDir, ".config", "pybroom"))

	v.SetEnvPrefix("PYBROOM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// No config file is fine; defaults apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.Rules.Clamp()

	if strings.HasPrefix(cfg.History.Path, "~") {
		cfg.History.Path = filepath.Join(homeDir, cfg.History.Path[1:])
	}

	return &cfg, nil
}

// SetDefaults installs pybroom's default values on a viper instance.
// The CLI shares these with Load so flag-only runs see the same
// defaults as config-file runs.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("roots", DefaultRoots())
	v.SetDefault("output", DefaultOutputFormat)

	v.SetDefault("rules.pycache", true)
	v.SetDefault("rules.pyc", true)
	v.SetDefault("rules.venv", true)
	v.SetDefault("rules.venv_days", DefaultVenvDays)
	v.SetDefault("rules.jupyter", true)
	v.SetDefault("rules.temp_files", true)
	v.SetDefault("rules.build_dirs", true)

	v.SetDefault("history.enabled", true)
	v.SetDefault("history.path", filepath.Join(DataDir(), "history"))
	v.SetDefault("history.retention_days", DefaultHistoryRetentionDays)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.path", "")
	v.SetDefault("logging.rotation.max_size_mb", 10)
	v.SetDefault("logging.rotation.max_age", 30)
	v.SetDefault("logging.rotation.max_backups", 5)
	v.SetDefault("logging.components", map[string]string{
		"scanner": "info",
		"cleaner": "info",
		"tui":     "info",
	})
}

// DefaultRoots returns the default scan roots: the user's home
// directory and the OS temp directory (TEMP/TMP when set).
func DefaultRoots() []string {
	var roots []string
	if home, err := os.UserHomeDir(); err == nil {
		roots = append(roots, home)
	}
	roots = append(roots, tempDir())
	return roots
}

func tempDir() string {
	for _, key := range []string{"TEMP", "TMP"} {
		if dir := os.Getenv(key); dir != "" {
			return dir
		}
	}
	return os.TempDir()
}

// ConfigDir returns the configuration directory path.
func ConfigDir() (string, error) {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return filepath.Join(xdgConfigHome, "pybroom"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "pybroom"), nil
}

// EnsureConfigDir creates the config directory if it doesn't exist.
func EnsureConfigDir() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	return nil
}

// DataDir returns $XDG_DATA_HOME/pybroom/ for history entries.
func DataDir() string {
	return filepath.Join(xdg.DataHome, "pybroom")
}

// StateDir returns $XDG_STATE_HOME/pybroom/ for log files.
func StateDir() string {
	return filepath.Join(xdg.StateHome, "pybroom")
}

// WriteDefault writes a commented default config file if one doesn't
// already exist.
func WriteDefault() error {
	if err := EnsureConfigDir(); err != nil {
		return err
	}

	configDir, err := ConfigDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(configDir, "config.yaml")

	// Check if config file already exists
	if _, err := os.Stat(configPath); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to check config file: %w", err)
	}

	defaultConfig := fmt.Sprintf(`# Pybroom Configuration

# Directories scanned when no paths are given on the command line.
# Defaults to the home directory plus the OS temp directory.
roots: []

# Output format for non-interactive runs: pretty, plain, json, jsonl, yaml
output: %s

# Residue detection rules
rules:
  # __pycache__ directories
  pycache: true
  # Stray .pyc bytecode files
  pyc: true
  # Stale virtual environments
  venv: true
  # Days without file access before a venv counts as stale (1-365)
  venv_days: %d
  # .ipynb_checkpoints directories
  jupyter: true
  # .pyc.tmp, .py~ and .pyo temp files
  temp_files: true
  # build, dist and *.egg-info directories
  build_dirs: true

# Operation history settings
history:
  enabled: true
  path: %s
  retention_days: %d

# Logging configuration
logging:
  # Log level: debug, info, warn, error
  level: info
  # Log file path (empty means use default: $XDG_STATE_HOME/pybroom/pybroom.log)
  path: ""
  # Log rotation settings
  rotation:
    max_size_mb: 10
    max_age: 30       # days
    max_backups: 5
  # Per-component log levels
  components:
    scanner: info
    cleaner: info
    tui: info
`, DefaultOutputFormat, DefaultVenvDays, filepath.Join(DataDir(), "history"), DefaultHistoryRetentionDays)

	if err := os.WriteFile(configPath, []byte(defaultConfig), 0o644); err != nil {
		return fmt.Errorf("failed to write default config: %w", err)
	}

	return nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(homeDir, path[1:]), nil
}
