package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jamesainslie/pybroom/pkg/pybroom/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	rootCmd = &cobra.Command{
		Use:   "pybroom [path...]",
		Short: "Find and remove Python development residue",
		Long: `Pybroom scans directories for Python byproducts and helps you reclaim
disk space: __pycache__ directories, stray .pyc bytecode, stale virtual
environments, Jupyter checkpoints, editor temp files, and build artifacts.

By default, pybroom launches an interactive TUI to review and confirm
deletions. Use --no-interactive or an explicit output format for
scripted runs; nothing is deleted without --yes in that mode.

Examples:
  pybroom                      # Scan default roots with TUI
  pybroom ~/src ~/notebooks    # Scan specific directories
  pybroom -n .                 # Non-interactive text report
  pybroom -n -o json .         # JSON report
  pybroom -n --yes --trash .   # Delete preselected residue to trash
  pybroom --venv-days 90 ~     # Only flag venvs unused for 90 days
  pybroom history              # View operation history`,
		Args: cobra.ArbitraryArgs,
		RunE: runScan,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ~/.config/pybroom/config.yaml)")
	rootCmd.PersistentFlags().BoolP("no-interactive", "n", false, "disable TUI, use text output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "output format (pretty, plain, json, jsonl, yaml)")
	rootCmd.PersistentFlags().BoolP("dry-run", "d", false, "don't delete anything (preview only)")
	rootCmd.PersistentFlags().BoolP("trash", "t", false, "move items to system trash instead of deleting")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "delete preselected candidates without confirmation (non-interactive)")
	rootCmd.PersistentFlags().Int("venv-days", 0, "days of inactivity before a venv counts as stale")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "minimal output")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "debug output")

	// Rule toggles
	rootCmd.PersistentFlags().Bool("no-pycache", false, "skip __pycache__ directories")
	rootCmd.PersistentFlags().Bool("no-pyc", false, "skip stray .pyc files")
	rootCmd.PersistentFlags().Bool("no-venv", false, "skip stale virtual environments")
	rootCmd.PersistentFlags().Bool("no-jupyter", false, "skip .ipynb_checkpoints directories")
	rootCmd.PersistentFlags().Bool("no-temp", false, "skip temporary Python files")
	rootCmd.PersistentFlags().Bool("no-build", false, "skip build artifact directories")

	// Bind flags to viper
	_ = viper.BindPFlag("no_interactive", rootCmd.PersistentFlags().Lookup("no-interactive"))
	_ = viper.BindPFlag("output", rootCmd.PersistentFlags().Lookup("output"))
	_ = viper.BindPFlag("dry_run", rootCmd.PersistentFlags().Lookup("dry-run"))
	_ = viper.BindPFlag("trash", rootCmd.PersistentFlags().Lookup("trash"))
	_ = viper.BindPFlag("yes", rootCmd.PersistentFlags().Lookup("yes"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

// initConfig reads in config file and environment variables.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")

		// Add config paths in order of precedence
		if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
			viper.AddConfigPath(filepath.Join(xdgConfigHome, "pybroom"))
		}

		homeDir, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(homeDir, ".config", "pybroom"))
		}
	}

	// Set environment variable prefix and enable auto env binding
	viper.SetEnvPrefix("PYBROOM")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	config.SetDefaults(viper.GetViper())

	// Read config file (ignore if not found)
	_ = viper.ReadInConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// getVerbose returns true if verbose mode is enabled.
func getVerbose() bool {
	return viper.GetBool("verbose")
}

// getQuiet returns true if quiet mode is enabled.
func getQuiet() bool {
	return viper.GetBool("quiet")
}

// printVerbose prints a message if verbose mode is enabled.
func printVerbose(format string, args ...interface{}) {
	if getVerbose() && !getQuiet() {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// printInfo prints a status message to stderr if quiet mode is not
// enabled. Stderr keeps stdout clean for formatted results.
func printInfo(format string, args ...interface{}) {
	if !getQuiet() {
		fmt.Fprintf(os.Stderr, format+"\n", args...)
	}
}

// printError prints an error message to stderr.
func printError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
}
