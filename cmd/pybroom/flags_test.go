package main

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jamesainslie/pybroom/pkg/pybroom/config"
)

func newRuleFlagCommand() *cobra.Command {
	cmd := &cobra.Command{Use: "test", Run: func(*cobra.Command, []string) {}}
	cmd.Flags().Bool("no-pycache", false, "")
	cmd.Flags().Bool("no-pyc", false, "")
	cmd.Flags().Bool("no-venv", false, "")
	cmd.Flags().Bool("no-jupyter", false, "")
	cmd.Flags().Bool("no-temp", false, "")
	cmd.Flags().Bool("no-build", false, "")
	cmd.Flags().Int("venv-days", 0, "")
	return cmd
}

func TestBuildRulesDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	config.SetDefaults(viper.GetViper())

	cmd := newRuleFlagCommand()
	cfg := buildRules(cmd)

	if !cfg.Pycache || !cfg.Pyc || !cfg.Venv || !cfg.Jupyter || !cfg.TempFiles || !cfg.BuildDirs {
		t.Errorf("all rules should default to enabled: %+v", cfg)
	}
	if cfg.VenvDays != config.DefaultVenvDays {
		t.Errorf("VenvDays = %d, want %d", cfg.VenvDays, config.DefaultVenvDays)
	}
}

func TestBuildRulesFlagOverrides(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	config.SetDefaults(viper.GetViper())

	cmd := newRuleFlagCommand()
	if err := cmd.Flags().Set("no-venv", "true"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("no-build", "true"); err != nil {
		t.Fatal(err)
	}
	if err := cmd.Flags().Set("venv-days", "90"); err != nil {
		t.Fatal(err)
	}

	cfg := buildRules(cmd)

	if cfg.Venv {
		t.Error("--no-venv should disable the venv rule")
	}
	if cfg.BuildDirs {
		t.Error("--no-build should disable the build rule")
	}
	if !cfg.Pycache {
		t.Error("untouched rules must stay enabled")
	}
	if cfg.VenvDays != 90 {
		t.Errorf("VenvDays = %d, want 90", cfg.VenvDays)
	}
}

func TestBuildRulesUnsetFlagsKeepConfigValues(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	config.SetDefaults(viper.GetViper())
	viper.Set("rules.pyc", false)
	viper.Set("rules.venv_days", 60)

	cmd := newRuleFlagCommand()
	cfg := buildRules(cmd)

	if cfg.Pyc {
		t.Error("config value should survive when the flag is unset")
	}
	if cfg.VenvDays != 60 {
		t.Errorf("VenvDays = %d, want config value 60", cfg.VenvDays)
	}
}

func TestBuildRulesClampsVenvDays(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	config.SetDefaults(viper.GetViper())

	cmd := newRuleFlagCommand()
	if err := cmd.Flags().Set("venv-days", "5000"); err != nil {
		t.Fatal(err)
	}

	cfg := buildRules(cmd)
	if cfg.VenvDays != 365 {
		t.Errorf("VenvDays = %d, want clamped 365", cfg.VenvDays)
	}
}
