package main

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/jamesainslie/pybroom/cmd/pybroom/tui"
	"github.com/jamesainslie/pybroom/pkg/pybroom/cleaner"
	"github.com/jamesainslie/pybroom/pkg/pybroom/config"
	"github.com/jamesainslie/pybroom/pkg/pybroom/history"
	"github.com/jamesainslie/pybroom/pkg/pybroom/logging"
	"github.com/jamesainslie/pybroom/pkg/pybroom/output"
	"github.com/jamesainslie/pybroom/pkg/pybroom/rules"
	"github.com/jamesainslie/pybroom/pkg/pybroom/scanner"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runScan is the main scan command handler.
func runScan(cmd *cobra.Command, args []string) error {
	roots, err := resolveRoots(args)
	if err != nil {
		return err
	}

	ruleCfg := buildRules(cmd)
	if !ruleCfg.Any() {
		return fmt.Errorf("all rules are disabled, nothing to scan for")
	}

	// Determine output mode
	noInteractive := viper.GetBool("no_interactive")
	outFormat := viper.GetString("output")

	// An explicit non-default output format forces non-interactive mode,
	// as does --yes: both imply a scripted run.
	if outFormat != "" && outFormat != "pretty" {
		noInteractive = true
	}
	if viper.GetBool("yes") {
		noInteractive = true
	}

	if noInteractive {
		return runNonInteractiveScan(roots, ruleCfg)
	}

	return runInteractiveTUI(roots, ruleCfg)
}

// resolveRoots determines the scan roots from CLI arguments or
// configuration, expanding ~ and resolving to absolute paths.
// Nonexistent roots pass through; the scanner reports them as warnings.
func resolveRoots(args []string) ([]string, error) {
	raw := args
	if len(raw) == 0 {
		raw = viper.GetStringSlice("roots")
	}
	if len(raw) == 0 {
		raw = config.DefaultRoots()
	}

	roots := make([]string, 0, len(raw))
	for _, r := range raw {
		expanded, err := config.ExpandPath(r)
		if err != nil {
			return nil, fmt.Errorf("failed to expand path %q: %w", r, err)
		}
		abs, err := filepath.Abs(expanded)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve path %q: %w", r, err)
		}
		roots = append(roots, abs)
	}
	return roots, nil
}

// historyStore returns the history store, or nil when history is disabled.
func historyStore() *history.Store {
	if !viper.GetBool("history.enabled") {
		return nil
	}
	path := viper.GetString("history.path")
	if path == "" {
		path = filepath.Join(config.DataDir(), "history")
	}
	return history.NewStore(path)
}

// runInteractiveTUI runs the TUI application.
func runInteractiveTUI(roots []string, ruleCfg rules.Config) error {
	// Re-initialize logging for TUI mode (enables log subscribers,
	// disables console output)
	if err := initTUILogging(); err != nil {
		return fmt.Errorf("failed to initialize TUI logging: %w", err)
	}
	defer logging.Close()

	return tui.Run(tui.Options{
		Roots:    roots,
		Rules:    ruleCfg,
		DryRun:   viper.GetBool("dry_run"),
		UseTrash: viper.GetBool("trash"),
		History:  historyStore(),
	})
}

// runNonInteractiveScan runs the scan in non-interactive mode and
// writes a report in the selected format. With --yes, the preselected
// candidates are deleted after the scan; without it nothing is removed.
func runNonInteractiveScan(roots []string, ruleCfg rules.Config) error {
	if err := initLogging(); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	defer logging.Close()

	outFormat := viper.GetString("output")
	if outFormat == "" {
		outFormat = "pretty"
	}
	formatter, err := output.Get(outFormat)
	if err != nil {
		return fmt.Errorf("unknown output format %q: available formats are %v", outFormat, output.Available())
	}

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var candidates []types.Candidate
	s := scanner.New(scanner.Options{
		Roots:     roots,
		Rules:     ruleCfg,
		SkipCount: true,
		OnCandidate: func(c types.Candidate) {
			candidates = append(candidates, c)
		},
	})

	// Handle interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	var interrupted atomic.Bool
	go awaitInterrupt(sigChan, &interrupted, s, cancel)

	if !getQuiet() {
		printInfo("Scanning %d roots for Python residue...", len(roots))
	}

	startTime := time.Now()
	summary, err := s.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	store := historyStore()
	if store != nil {
		if _, err := store.LogScan(roots, candidates); err != nil {
			printVerbose("Failed to record scan history: %v", err)
		}
	}

	result := &output.Result{
		Roots:       roots,
		Candidates:  candidates,
		Scan:        *summary,
		Interrupted: interrupted.Load(),
	}

	if viper.GetBool("yes") && !interrupted.Load() {
		result.Clean = runConfirmedClean(ctx, candidates, store)
	}

	result.Elapsed = time.Since(startTime)

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	fmt.Print(buf.String())

	return nil
}

// awaitInterrupt blocks until a signal arrives, then stops the scan
// and cancels the context. The interrupted flag is read from the main
// flow after Scan returns, so it is atomic.
func awaitInterrupt(sigChan <-chan os.Signal, interrupted *atomic.Bool, s *scanner.Scanner, cancel context.CancelFunc) {
	if _, ok := <-sigChan; !ok {
		return
	}
	printInfo("\nInterrupted, stopping scan...")
	interrupted.Store(true)
	s.Stop()
	cancel()
}

// runConfirmedClean deletes the preselected candidates. Virtual
// environments are never preselected, so --yes leaves them alone; use
// the interactive TUI to remove those deliberately.
func runConfirmedClean(ctx context.Context, candidates []types.Candidate, store *history.Store) *types.CleanSummary {
	var confirmed []types.Candidate
	for _, c := range candidates {
		if c.Preselected {
			confirmed = append(confirmed, c)
		}
	}

	c := cleaner.New(cleaner.Options{
		UseTrash: viper.GetBool("trash"),
		DryRun:   viper.GetBool("dry_run"),
	})
	summary := c.Clean(ctx, confirmed)

	if store != nil && !viper.GetBool("dry_run") {
		if _, err := store.LogClean(confirmed, *summary); err != nil {
			printVerbose("Failed to record clean history: %v", err)
		}
	}
	return summary
}
