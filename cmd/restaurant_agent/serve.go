package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jordan/restaurant-collector/internal/config"
	"github.com/jordan/restaurant-collector/internal/logger"
	"github.com/jordan/restaurant-collector/internal/schedule"
	"github.com/jordan/restaurant-collector/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that exposes collection, query and purge endpoints.
With --with-scheduler, the daily collection scheduler runs in the same
process and shares the server's dedup cache and database pool.`,
	RunE: runServe,
}

var (
	serveConfigPath    string
	servePort          int
	serveLocations     []string
	serveAPIKey        string
	serveDatabaseURL   string
	serveRelayURL      string
	serveLimit         int
	serveInterval      int
	serveRunAtStart    bool
	serveWithScheduler bool
)

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default 8080)")
	serveCmd.Flags().StringArrayVarP(&serveLocations, "locations", "l", nil, "Location the scheduler collects (repeatable)")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Search API key (optional, defaults to YELP_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveDatabaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	serveCmd.Flags().StringVar(&serveRelayURL, "relay-url", "", "Webhook to POST collected batches to (optional, defaults to RELAY_URL env var)")
	serveCmd.Flags().IntVar(&serveLimit, "limit", 0, "Listings requested per location (30-50)")
	serveCmd.Flags().IntVar(&serveInterval, "interval", 0, "Seconds between scheduled passes (default 86400)")
	serveCmd.Flags().BoolVar(&serveRunAtStart, "run-at-start", false, "Run one scheduled pass immediately at startup")
	serveCmd.Flags().BoolVar(&serveWithScheduler, "with-scheduler", false, "Run the collection scheduler alongside the server")

	rootCmd.AddCommand(serveCmd)
}

func resolveServeConfig(cmd *cobra.Command) (config.Config, error) {
	var cfg config.Config
	if serveConfigPath != "" {
		loaded, err := config.LoadConfig(serveConfigPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loaded
	}

	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
	}
	if cmd.Flags().Changed("locations") {
		cfg.Locations = serveLocations
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = serveAPIKey
	}
	if cmd.Flags().Changed("db-url") {
		cfg.DatabaseURL = serveDatabaseURL
	}
	if cmd.Flags().Changed("relay-url") {
		cfg.RelayURL = serveRelayURL
	}
	if cmd.Flags().Changed("limit") {
		cfg.Limit = serveLimit
	}
	if cmd.Flags().Changed("interval") {
		cfg.IntervalSeconds = serveInterval
	}
	if cmd.Flags().Changed("run-at-start") {
		cfg.RunAtStart = serveRunAtStart
	}

	cfg.ApplyEnv()
	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := resolveServeConfig(cmd)
	if err != nil {
		return err
	}

	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer logger.Sync()

	srv, err := server.New(&cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(gctx)
	})

	if serveWithScheduler {
		scheduler := schedule.New(srv.Collector(), cfg.Interval(), cfg.Locations, schedule.Options{
			RunAtStart: cfg.RunAtStart,
		})
		g.Go(func() error {
			if err := scheduler.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
	}

	return g.Wait()
}
