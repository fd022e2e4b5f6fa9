// Command ingest is the Lottery Data ingestion CLI.
//
// Usage:
//
//	lottery-ingest migrate
//	lottery-ingest sync loto
//	lottery-ingest sync --all --workers 2
//	lottery-ingest stats euromillions
//	lottery-ingest stats --all
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albapepper/lottery-data/internal/cache"
	"github.com/albapepper/lottery-data/internal/config"
	"github.com/albapepper/lottery-data/internal/db"
	"github.com/albapepper/lottery-data/internal/ingest"
	"github.com/albapepper/lottery-data/internal/maintenance"
	"github.com/albapepper/lottery-data/internal/notifications"
	"github.com/albapepper/lottery-data/internal/provider"
	"github.com/albapepper/lottery-data/internal/provider/fdj"
	"github.com/albapepper/lottery-data/internal/publisher"
	"github.com/albapepper/lottery-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:   "lottery-ingest",
		Short: "Lottery data ingestion CLI",
	}

	root.AddCommand(migrateCmd())
	root.AddCommand(syncCmd())
	root.AddCommand(statsCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// migrate command
// --------------------------------------------------------------------------

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the draw, stats and metadata tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if err := db.Migrate(ctx, cfg.DatabaseURL); err != nil {
				return err
			}
			logger.Info("Schema applied")
			return nil
		},
	}
}

// --------------------------------------------------------------------------
// sync command
// --------------------------------------------------------------------------

func syncCmd() *cobra.Command {
	var (
		all     bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "sync [game...]",
		Short: "Fetch draws from the FDJ API, upsert them and recompute stats",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := gamesFromArgs(args, all)
			if err != nil {
				return err
			}
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				syncer, cleanup, err := buildSyncer(cfg, pool)
				if err != nil {
					return err
				}
				defer cleanup()

				if workers < 1 {
					workers = cfg.SyncWorkers
				}
				batch := ingest.SyncAll(ctx, syncer, games, workers, logger)
				for _, res := range batch.Results {
					for _, e := range res.Errors {
						logger.Error("sync error", "game", res.Game, "error", e)
					}
				}
				if batch.Failed > 0 {
					return fmt.Errorf("%d of %d games failed", batch.Failed, len(games))
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Sync every supported game")
	cmd.Flags().IntVar(&workers, "workers", 0, "Games synced concurrently (default SYNC_WORKERS)")
	return cmd
}

// --------------------------------------------------------------------------
// stats command
// --------------------------------------------------------------------------

func statsCmd() *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "stats [game...]",
		Short: "Recompute number stats and metadata from stored draws",
		RunE: func(cmd *cobra.Command, args []string) error {
			games, err := gamesFromArgs(args, all)
			if err != nil {
				return err
			}
			return runWithDB(func(ctx context.Context, cfg *config.Config, pool *db.Pool) error {
				// The syncer carries the per-game locks, so a refresh never
				// overlaps a sync of the same game.
				syncer, cleanup, err := buildSyncer(cfg, pool)
				if err != nil {
					return err
				}
				defer cleanup()

				start := time.Now()
				err = maintenance.RefreshStats(ctx, syncer, store.New(pool.Pool), games, logger)
				logger.Info("Stats refresh finished",
					"games", len(games),
					"duration", time.Since(start).Round(time.Millisecond))
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "Recompute every supported game")
	return cmd
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

func gamesFromArgs(args []string, all bool) ([]provider.Game, error) {
	if all {
		return ingest.AllGames(), nil
	}
	if len(args) == 0 {
		return nil, errors.New("name at least one game or pass --all")
	}
	games := make([]provider.Game, 0, len(args))
	for _, a := range args {
		g, ok := provider.ParseGame(a)
		if !ok {
			return nil, fmt.Errorf("%w: %q (supported: %v)", ingest.ErrUnknownGame, a, config.GameIDs)
		}
		games = append(games, g)
	}
	return games, nil
}

// buildSyncer wires the syncer the same way the API server does, minus the
// response cache.
func buildSyncer(cfg *config.Config, pool *db.Pool) (*ingest.Syncer, func(), error) {
	st := store.New(pool.Pool)
	opts := ingest.Options{
		Workers: cfg.SyncWorkers,
		Hooks:   []ingest.Hook{ingest.MetadataHook(st)},
	}
	cleanup := func() {}

	if cfg.RedisURL != "" {
		rdb, err := cache.NewRedisClient(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to redis: %w", err)
		}
		cleanup = func() { rdb.Close() }
		opts.Locker = ingest.NewRedisLocker(rdb, cfg.SyncLockTTL, logger)
		opts.Hooks = append(opts.Hooks, ingest.EventHook(publisher.NewRedisStreamPublisher(rdb)))
	}

	sender, err := notifications.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID, logger)
	if err != nil {
		logger.Warn("Telegram reports disabled", "error", err)
	} else if sender != nil {
		opts.Hooks = append(opts.Hooks, ingest.ReportHook(sender))
	}

	fetcher := fdj.NewClient(cfg.FDJBaseURL, cfg.FDJRows, cfg.FDJRequestsPerMinute, logger)
	return ingest.NewSyncer(fetcher, st, opts, logger), cleanup, nil
}

// runWithDB handles config loading, DB connection, and context cancellation.
func runWithDB(fn func(ctx context.Context, cfg *config.Config, pool *db.Pool) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	pool, err := db.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool)
}
