package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordan/restaurant-collector/internal/store"
)

var purgeCmd = &cobra.Command{
	Use:   "purge",
	Short: "Delete every stored restaurant",
	Long:  `Removes all rows from the restaurants table. Refuses to run without --yes.`,
	RunE:  runPurge,
}

var (
	purgeDatabaseURL string
	purgeConfirmed   bool
)

func init() {
	purgeCmd.Flags().StringVar(&purgeDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	purgeCmd.Flags().BoolVar(&purgeConfirmed, "yes", false, "Confirm the purge")

	rootCmd.AddCommand(purgeCmd)
}

func runPurge(_ *cobra.Command, _ []string) error {
	if !purgeConfirmed {
		return fmt.Errorf("refusing to delete all restaurants without --yes")
	}

	databaseURL := purgeDatabaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	ctx := context.Background()
	st, err := store.Connect(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	deleted, err := st.DeleteAllRestaurants(ctx)
	if err != nil {
		return fmt.Errorf("failed to purge restaurants: %w", err)
	}

	fmt.Printf("Deleted %d restaurants\n", deleted)
	return nil
}
