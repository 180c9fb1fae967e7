package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <title> [description]",
		Short: "Classify an expense title into a category",
		Long: `Predict the category for an expense without saving anything.

The learned classifier is tried first; when it is untrained or not
confident enough, keyword matching decides.

Examples:
  mintleaf classify "STARBUCKS #1234"
  mintleaf classify "Monthly pass" "metro transit card reload"`,
		Args: cobra.RangeArgs(1, 2),
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	title := args[0]
	description := ""
	if len(args) > 1 {
		description = args[1]
	}

	ctx := cmd.Context()
	result, err := a.engine.Classify(ctx, title, description)
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	if !result.Classified() {
		fmt.Println("No category matched and no fallback category exists.")
		return nil
	}

	name, err := categoryName(ctx, a, result.CategoryID)
	if err != nil {
		return err
	}

	fmt.Printf("Category:   %s\n", name)
	fmt.Printf("Method:     %s\n", result.Method)
	if result.Confidence > 0 {
		fmt.Printf("Confidence: %.2f\n", result.Confidence)
	}
	return nil
}

func categoryName(ctx context.Context, a *app, id int64) (string, error) {
	categories, err := a.storage.GetCategories(ctx, a.ownerID)
	if err != nil {
		return "", fmt.Errorf("failed to load categories: %w", err)
	}
	for _, cat := range categories {
		if cat.ID == id {
			return cat.Name, nil
		}
	}
	return fmt.Sprintf("category #%d", id), nil
}
