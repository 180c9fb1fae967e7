package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mintleaf-fin/mintleaf/internal/common"
	"github.com/mintleaf-fin/mintleaf/internal/importer"
	"github.com/mintleaf-fin/mintleaf/internal/model"
	"github.com/mintleaf-fin/mintleaf/internal/ofx"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import expenses from OFX/QFX statement files",
		Long: `Parse bank statement exports and record each transaction as an
expense. Every transaction is checked against existing expenses so
re-importing an overlapping statement will not create duplicates,
and each new expense is categorized automatically.

Examples:
  mintleaf import ~/Downloads/checking_jan.qfx
  mintleaf import ~/Downloads/*.ofx ~/Downloads/*.qfx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Parse and report without saving anything")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	files, err := expandPatterns(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no files found to import")
	}

	parser := ofx.NewParser()
	var candidates []model.Candidate
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			common.LogError(err, "failed to open file", common.Fields{"file": path})
			continue
		}
		parsed, err := parser.Parse(f)
		_ = f.Close()
		if err != nil {
			common.LogError(err, "failed to parse statement", common.Fields{"file": path})
			continue
		}
		if len(parsed) == 0 {
			slog.Warn("no transactions in file", "file", filepath.Base(path))
			continue
		}
		slog.Info("parsed statement",
			"file", filepath.Base(path),
			"transactions", len(parsed))
		candidates = append(candidates, parsed...)
	}

	if len(candidates) == 0 {
		fmt.Println("No transactions found in any file.")
		return nil
	}

	if dryRun {
		fmt.Printf("Dry run: %d transaction(s) parsed from %d file(s), nothing saved.\n",
			len(candidates), len(files))
		for i, cand := range candidates {
			if i >= 5 {
				fmt.Printf("  ... and %d more\n", len(candidates)-5)
				break
			}
			fmt.Printf("  %s  %10s  %s\n",
				cand.Date.Format("2006-01-02"), cand.Amount.String(), cand.Title)
		}
		return nil
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	imp := importer.New(a.ownerID, a.storage, a.detector, a.engine)

	bar := progressbar.NewOptions(len(candidates),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing expenses..."),
	)

	result, err := imp.Import(cmd.Context(), candidates, func(done, _ int) {
		_ = bar.Set(done)
	})
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Printf("Imported:   %d\n", result.Imported)
	fmt.Printf("Duplicates: %d (skipped)\n", result.Duplicates)
	if result.Unmatched > 0 {
		fmt.Printf("Unmatched:  %d (no category, skipped)\n", result.Unmatched)
	}
	if result.Retrained && result.Training.Success {
		fmt.Printf("Classifier retrained on %d expenses.\n", result.Training.SampleCount)
	}
	return nil
}

// expandPatterns resolves glob patterns, falling back to a literal path
// when a pattern matches nothing but names an existing file.
func expandPatterns(patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				files = append(files, pattern)
			} else {
				slog.Warn("no files match pattern", "pattern", pattern)
			}
			continue
		}
		files = append(files, matches...)
	}
	return files, nil
}
