package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jordan/restaurant-collector/internal/config"
	"github.com/jordan/restaurant-collector/internal/logger"
	"github.com/jordan/restaurant-collector/internal/observability"
	"github.com/jordan/restaurant-collector/internal/pipeline"
	"github.com/jordan/restaurant-collector/internal/relay"
	"github.com/jordan/restaurant-collector/internal/seen"
	"github.com/jordan/restaurant-collector/internal/store"
	"github.com/jordan/restaurant-collector/internal/yelp"
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection pass over the configured locations",
	Long: `Fetches restaurant listings for each configured location, normalizes them,
deduplicates against the seen cache, and upserts them into PostgreSQL.

Configuration can be loaded from a JSON file using --config. Command-line
arguments override config file values, and credentials fall back to the
YELP_API_KEY and DATABASE_URL environment variables.`,
	RunE: runCollect,
}

var (
	collectConfigPath  string
	collectLocations   []string
	collectUserID      string
	collectAPIKey      string
	collectDatabaseURL string
	collectRelayURL    string
	collectLimit       int
	collectVerbose     bool
)

func init() {
	collectCmd.Flags().StringVar(&collectConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	collectCmd.Flags().StringArrayVarP(&collectLocations, "locations", "l", nil, "Location to collect (repeatable)")
	collectCmd.Flags().StringVar(&collectUserID, "user-id", "", "Requester to mark and relay results to (requires exactly one location)")
	collectCmd.Flags().StringVar(&collectAPIKey, "api-key", "", "Search API key (optional, defaults to YELP_API_KEY env var)")
	collectCmd.Flags().StringVar(&collectDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	collectCmd.Flags().StringVar(&collectRelayURL, "relay-url", "", "Webhook to POST collected batches to (optional, defaults to RELAY_URL env var)")
	collectCmd.Flags().IntVar(&collectLimit, "limit", 0, "Listings requested per location (30-50)")
	collectCmd.Flags().BoolVarP(&collectVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(collectCmd)
}

// resolveCollectConfig merges the config file, CLI flags, environment and
// defaults, in that priority order.
func resolveCollectConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if collectConfigPath != "" {
		loaded, err := config.LoadConfig(collectConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if collectVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", collectConfigPath)
		}
	}

	if cmd.Flags().Changed("locations") {
		cfg.Locations = collectLocations
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = collectAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = collectDatabaseURL
	}
	if cmd.Flags().Changed("relay-url") {
		cfg.RelayURL = collectRelayURL
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = collectLimit
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = collectVerbose
	}

	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runCollect(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := resolveCollectConfig(cmd)
	if err != nil {
		return err
	}

	if collectUserID != "" && len(cfg.Locations) != 1 {
		return fmt.Errorf("--user-id requires exactly one location, got %d", len(cfg.Locations))
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	st, err := store.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer st.Close()

	cache := seen.New(cfg.SeenMaxEntries, cfg.SeenTTL())
	defer cache.Stop()

	client := yelp.NewClient(cfg.APIKey, &yelp.Options{Limit: cfg.Limit})

	var notifier pipeline.Notifier
	if cfg.RelayURL != "" {
		notifier = relay.NewWebhook(cfg.RelayURL, nil)
	}

	collector := pipeline.New(client, st, cache, pipeline.Options{Notifier: notifier})

	var results []pipeline.LocationResult
	if collectUserID != "" {
		results = append(results, collector.CollectForUser(ctx, cfg.Locations[0], collectUserID))
	} else {
		results = collector.CollectAll(ctx, cfg.Locations)
	}

	printer := observability.NewPrinter(os.Stdout)

	failures := 0
	for _, res := range results {
		if res.Status == pipeline.StatusFetchFailed {
			failures++
		}

		if cfg.Verbose {
			printer.PrintLocationResult(res)
			if len(res.Batch.Errors) > 0 {
				printer.PrintRecordErrors(res.Batch.Errors)
			}
			continue
		}

		if res.Status == pipeline.StatusFetchFailed {
			fmt.Printf("%-28s %s: %v\n", res.Location, res.Status, res.Err)
			continue
		}
		fmt.Printf("%-28s %s: written=%d skipped=%d failed=%d\n",
			res.Location, res.Status, res.Batch.Written, res.Batch.Skipped, res.Batch.Failed)
	}

	if cfg.Verbose && len(results) > 1 {
		printer.PrintRunSummary(results)
	}

	if failures > 0 && failures == len(results) {
		return fmt.Errorf("all %d collection passes failed", failures)
	}
	return nil
}
