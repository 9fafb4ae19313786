package main

import (
	"fmt"
	"strings"

	"github.com/jamesainslie/pybroom/pkg/pybroom/config"
	"github.com/jamesainslie/pybroom/pkg/pybroom/history"
	"github.com/jamesainslie/pybroom/pkg/pybroom/types"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View operation history",
	Long: `View the history of scan and clean operations.

Pybroom records each completed operation, including which paths were
identified or removed and how much space was reclaimed.`,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show details of a specific operation",
	Long:  `Display detailed information about a specific operation by its ID.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Clean up old history entries",
	Long:  `Remove history entries older than the retention period.`,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of entries to show")

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// getHistory returns a history store with the configured directory.
func getHistory() (*history.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return history.NewStore(cfg.History.Path), nil
}

// runHistory lists recent operations.
func runHistory(cmd *cobra.Command, args []string) error {
	store, err := getHistory()
	if err != nil {
		return err
	}

	entries, err := store.List(historyLimit)
	if err != nil {
		return fmt.Errorf("failed to list history: %w", err)
	}

	if len(entries) == 0 {
		printInfo("No history entries found.")
		printInfo("Run 'pybroom [path]' to scan for Python residue.")
		return nil
	}

	// Print header
	fmt.Printf("\n%-36s  %-6s  %-8s  %-12s  %s\n", "ID", "TYPE", "ITEMS", "SIZE", "WHEN")
	fmt.Println(strings.Repeat("-", 90))

	for _, entry := range entries {
		fmt.Printf("%-36s  %-6s  %-8d  %-12s  %s\n",
			entry.ID,
			entry.Operation,
			entry.Summary.TotalItems,
			types.FormatSize(entry.Summary.TotalBytes),
			entry.Timestamp.Local().Format("2006-01-02 15:04"),
		)
	}

	fmt.Println(strings.Repeat("-", 90))
	fmt.Printf("\nShowing %d entries. Use --limit to see more.\n", len(entries))
	fmt.Println("Use 'pybroom history show <id>' for details on a specific entry.")

	return nil
}

// runHistoryShow displays details of a specific operation.
func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := getHistory()
	if err != nil {
		return err
	}

	entry, err := store.Get(args[0])
	if err != nil {
		return fmt.Errorf("failed to get entry: %w", err)
	}

	fmt.Println("\nOperation Details")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("ID:         %s\n", entry.ID)
	fmt.Printf("Timestamp:  %s\n", entry.Timestamp.Local().Format("2006-01-02 15:04:05 MST"))
	fmt.Printf("Operation:  %s\n", entry.Operation)
	if len(entry.Roots) > 0 {
		fmt.Printf("Roots:      %s\n", strings.Join(entry.Roots, ", "))
	}
	fmt.Printf("Items:      %d\n", entry.Summary.TotalItems)
	fmt.Printf("Total Size: %s\n", types.FormatSize(entry.Summary.TotalBytes))

	if len(entry.Items) > 0 {
		fmt.Println("\nItems:")
		fmt.Println(strings.Repeat("-", 60))
		fmt.Printf("%-9s  %-12s  %s\n", "KIND", "SIZE", "PATH")
		fmt.Println(strings.Repeat("-", 60))

		// Limit display to 50 items
		limit := 50
		if len(entry.Items) < limit {
			limit = len(entry.Items)
		}

		for i := 0; i < limit; i++ {
			item := entry.Items[i]
			marker := ""
			if item.FailedErr != "" {
				marker = "  (failed: " + item.FailedErr + ")"
			}
			fmt.Printf("%-9s  %-12s  %s%s\n", item.Kind, types.FormatSize(item.Size), item.Path, marker)
		}

		if len(entry.Items) > limit {
			fmt.Printf("\n... and %d more items\n", len(entry.Items)-limit)
		}
	}

	return nil
}

// runHistoryClean removes old history entries.
func runHistoryClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store := history.NewStore(cfg.History.Path)

	retentionDays := cfg.History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultHistoryRetentionDays
	}

	printInfo("Cleaning history entries older than %d days...", retentionDays)

	removed, err := store.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}

	printInfo("History cleanup complete, removed %d entries.", removed)
	return nil
}
