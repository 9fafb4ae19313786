package main

import (
	"github.com/jamesainslie/pybroom/pkg/pybroom/logging"
	"github.com/jamesainslie/pybroom/pkg/pybroom/rules"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// buildRules assembles the rule configuration from config file values
// and CLI flag overrides. The no-* flags and --venv-days only take
// effect when explicitly set, so config file settings survive runs
// that don't mention them.
func buildRules(cmd *cobra.Command) rules.Config {
	cfg := rules.Config{
		Pycache:   viper.GetBool("rules.pycache"),
		Pyc:       viper.GetBool("rules.pyc"),
		Venv:      viper.GetBool("rules.venv"),
		VenvDays:  viper.GetInt("rules.venv_days"),
		Jupyter:   viper.GetBool("rules.jupyter"),
		TempFiles: viper.GetBool("rules.temp_files"),
		BuildDirs: viper.GetBool("rules.build_dirs"),
	}

	flags := cmd.Flags()
	if flags.Changed("no-pycache") {
		cfg.Pycache = false
	}
	if flags.Changed("no-pyc") {
		cfg.Pyc = false
	}
	if flags.Changed("no-venv") {
		cfg.Venv = false
	}
	if flags.Changed("no-jupyter") {
		cfg.Jupyter = false
	}
	if flags.Changed("no-temp") {
		cfg.TempFiles = false
	}
	if flags.Changed("no-build") {
		cfg.BuildDirs = false
	}
	if flags.Changed("venv-days") {
		if days, err := flags.GetInt("venv-days"); err == nil {
			cfg.VenvDays = days
		}
	}

	cfg.Clamp()
	return cfg
}

// buildLoggingConfig builds the logging configuration from viper.
func buildLoggingConfig(tuiMode bool) logging.Config {
	cfg := logging.Config{
		Level: viper.GetString("logging.level"),
		Path:  viper.GetString("logging.path"),
		Rotation: logging.RotationConfig{
			MaxSizeMB:  viper.GetInt("logging.rotation.max_size_mb"),
			MaxAge:     viper.GetInt("logging.rotation.max_age"),
			MaxBackups: viper.GetInt("logging.rotation.max_backups"),
		},
		Components: viper.GetStringMapString("logging.components"),
		TUIMode:    tuiMode,
	}

	if getVerbose() {
		cfg.Level = "debug"
	}
	if !tuiMode && getVerbose() {
		cfg.ConsoleLevel = "debug"
	}
	return cfg
}

// initLogging initializes logging for non-interactive runs.
func initLogging() error {
	return logging.Init(buildLoggingConfig(false))
}

// initTUILogging initializes logging for TUI runs: console output is
// suppressed and log entries feed subscriber channels instead.
func initTUILogging() error {
	return logging.Init(buildLoggingConfig(true))
}
