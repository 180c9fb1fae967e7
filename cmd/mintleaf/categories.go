package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func categoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Manage expense categories",
	}

	cmd.AddCommand(categoriesListCmd())
	cmd.AddCommand(categoriesAddCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the categories available to you",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			categories, err := a.storage.GetCategories(cmd.Context(), a.ownerID)
			if err != nil {
				return fmt.Errorf("failed to list categories: %w", err)
			}

			if len(categories) == 0 {
				fmt.Println("No categories yet. Run \"mintleaf migrate\" to seed the defaults.")
				return nil
			}

			for _, cat := range categories {
				scope := "shared"
				if !cat.IsShared() {
					scope = "yours"
				}
				fmt.Printf("#%-4d %-30s %s\n", cat.ID, cat.Name, scope)
			}
			return nil
		},
	}
}

func categoriesAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Add a personal category",
		Long: `Create a category owned by you. If a category with the same or a
near-identical name already exists, that one is reused instead of
creating a near-duplicate.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Close() }()

			cat, err := a.storage.CreateOrGetCategory(cmd.Context(), a.ownerID, args[0])
			if err != nil {
				return fmt.Errorf("failed to add category: %w", err)
			}

			if cat.Name != args[0] {
				fmt.Printf("Reused existing category %q (#%d).\n", cat.Name, cat.ID)
			} else {
				fmt.Printf("Category %q (#%d) ready.\n", cat.Name, cat.ID)
			}
			return nil
		},
	}
}
