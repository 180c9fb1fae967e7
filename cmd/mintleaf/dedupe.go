package main

import (
	"fmt"
	"strconv"

	"github.com/mintleaf-fin/mintleaf/internal/dedupe"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/spf13/cobra"
)

func dedupeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dedupe",
		Short: "Find and resolve duplicate expenses",
	}

	cmd.AddCommand(dedupeFindCmd())
	cmd.AddCommand(dedupeMergeCmd())

	return cmd
}

func dedupeFindCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "find",
		Short: "Scan recent expenses for likely duplicate pairs",
		Long: `Compare the most recent expenses pairwise and list pairs that
look like the same transaction recorded twice. Review each pair and
use "dedupe merge" to resolve the ones that really are duplicates.`,
		RunE: runDedupeFind,
	}

	cmd.Flags().Int("window", dedupe.DefaultPairWindow, "Number of recent expenses to scan")

	return cmd
}

func runDedupeFind(cmd *cobra.Command, _ []string) error {
	window, _ := cmd.Flags().GetInt("window")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	pairs, err := a.detector.FindAllPairs(cmd.Context(), a.ownerID, window)
	if err != nil {
		return fmt.Errorf("duplicate scan failed: %w", err)
	}

	if len(pairs) == 0 {
		fmt.Println("No likely duplicates found.")
		return nil
	}

	fmt.Printf("Found %d likely duplicate pair(s):\n\n", len(pairs))
	for _, pair := range pairs {
		fmt.Printf("Score %.2f\n", pair.Score)
		printExpense("  keep?  ", pair.A)
		printExpense("  merge? ", pair.B)
		fmt.Println()
	}
	fmt.Println("Resolve with: mintleaf dedupe merge <keep-id> <delete-id>")
	return nil
}

func printExpense(prefix string, e model.Expense) {
	fmt.Printf("%s#%-6d %s  %10s  %s\n",
		prefix, e.ID, e.Date.Format("2006-01-02"), e.Amount.String(), e.Title)
}

func dedupeMergeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "merge <keep-id> <delete-id>",
		Short: "Merge a duplicate pair, deleting the second expense",
		Args:  cobra.ExactArgs(2),
		RunE:  runDedupeMerge,
	}
}

func runDedupeMerge(cmd *cobra.Command, args []string) error {
	keepID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid keep id %q: %w", args[0], err)
	}
	deleteID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid delete id %q: %w", args[1], err)
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	merged, err := a.detector.Merge(cmd.Context(), a.ownerID, keepID, deleteID)
	if err != nil {
		return fmt.Errorf("merge failed: %w", err)
	}
	if !merged {
		fmt.Println("Nothing merged: one of the expenses does not exist or is not yours.")
		return nil
	}

	fmt.Printf("Merged: kept #%d, deleted #%d.\n", keepID, deleteID)
	return nil
}
