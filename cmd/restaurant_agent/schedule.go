package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jordan/restaurant-collector/internal/config"
	"github.com/jordan/restaurant-collector/internal/logger"
	"github.com/jordan/restaurant-collector/internal/pipeline"
	"github.com/jordan/restaurant-collector/internal/relay"
	"github.com/jordan/restaurant-collector/internal/schedule"
	"github.com/jordan/restaurant-collector/internal/seen"
	"github.com/jordan/restaurant-collector/internal/store"
	"github.com/jordan/restaurant-collector/internal/yelp"
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run collection passes on a fixed interval",
	Long: `Starts the long-running scheduler. Every interval it collects each
configured location in order. Stops cleanly on SIGINT or SIGTERM.`,
	RunE: runSchedule,
}

var (
	scheduleConfigPath  string
	scheduleLocations   []string
	scheduleAPIKey      string
	scheduleDatabaseURL string
	scheduleRelayURL    string
	scheduleLimit       int
	scheduleInterval    int
	scheduleRunAtStart  bool
	scheduleVerbose     bool
)

func init() {
	scheduleCmd.Flags().StringVar(&scheduleConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	scheduleCmd.Flags().StringArrayVarP(&scheduleLocations, "locations", "l", nil, "Location to collect (repeatable)")
	scheduleCmd.Flags().StringVar(&scheduleAPIKey, "api-key", "", "Search API key (optional, defaults to YELP_API_KEY env var)")
	scheduleCmd.Flags().StringVar(&scheduleDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	scheduleCmd.Flags().StringVar(&scheduleRelayURL, "relay-url", "", "Webhook to POST collected batches to (optional, defaults to RELAY_URL env var)")
	scheduleCmd.Flags().IntVar(&scheduleLimit, "limit", 0, "Listings requested per location (30-50)")
	scheduleCmd.Flags().IntVar(&scheduleInterval, "interval", 0, "Seconds between collection passes (default 86400)")
	scheduleCmd.Flags().BoolVar(&scheduleRunAtStart, "run-at-start", false, "Run one pass immediately instead of waiting for the first tick")
	scheduleCmd.Flags().BoolVarP(&scheduleVerbose, "verbose", "v", false, "Print detailed progress information")

	rootCmd.AddCommand(scheduleCmd)
}

func resolveScheduleConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if scheduleConfigPath != "" {
		loaded, err := config.LoadConfig(scheduleConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
		if scheduleVerbose {
			_, _ = fmt.Fprintf(os.Stdout, "Loaded config from: %s\n", scheduleConfigPath)
		}
	}

	if cmd.Flags().Changed("locations") {
		cfg.Locations = scheduleLocations
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = scheduleAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = scheduleDatabaseURL
	}
	if cmd.Flags().Changed("relay-url") {
		cfg.RelayURL = scheduleRelayURL
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = scheduleLimit
	}
	if cmd.Flags().Changed("interval") {
		cfg.IntervalSeconds = scheduleInterval
	}
	if cmd.Flags().Changed("run-at-start") {
		cfg.RunAtStart = scheduleRunAtStart
	}
	if cmd.Flags().Changed("verbose") {
		cfg.Verbose = scheduleVerbose
	}

	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runSchedule(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveScheduleConfig(cmd)
	if err != nil {
		return err
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
	scheduler := schedule.New(collector, cfg.Interval(), cfg.Locations, schedule.Options{
		RunAtStart: cfg.RunAtStart,
	})

	if err := scheduler.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
