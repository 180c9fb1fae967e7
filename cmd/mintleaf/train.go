package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func trainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the learned classifier on your categorized expenses",
		Long: `Rebuild the per-user text classifier from every expense that
already has a category. The trained model is stored alongside the
database and used by classify and import.

With --if-needed, training only runs when enough new expenses have
accumulated since the last time.`,
		RunE: runTrain,
	}

	cmd.Flags().Bool("if-needed", false, "Train only when enough new data has accumulated")

	return cmd
}

func runTrain(cmd *cobra.Command, _ []string) error {
	ifNeeded, _ := cmd.Flags().GetBool("if-needed")

	a, err := openApp()
	if err != nil {
		return err
	}
	defer func() { _ = a.Close() }()

	ctx := cmd.Context()

	if ifNeeded {
		due, err := a.engine.ShouldRetrain(ctx)
		if err != nil {
			return fmt.Errorf("failed to check training state: %w", err)
		}
		if !due {
			fmt.Println("Model is up to date, nothing to do.")
			return nil
		}
	}

	slog.Info("training classifier", "user", a.ownerID)

	result, err := a.engine.Train(ctx)
	if err != nil {
		return fmt.Errorf("training failed: %w", err)
	}

	if !result.Success {
		fmt.Printf("Not trained: %s\n", result.Message)
		return nil
	}

	fmt.Printf("Trained on %d expenses.\n", result.SampleCount)
	if result.AccuracyKnown {
		fmt.Printf("Holdout accuracy: %.0f%%\n", result.Accuracy*100)
	}
	return nil
}
