package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"taskboard/internal/config"
	"taskboard/internal/repository"
	"taskboard/internal/server"
	"taskboard/internal/service"
)

// opener builds the snapshot repository for a configuration.
type opener func(ctx context.Context, cfg *config.Config) (repository.SnapshotRepository, func() error, error)

// cli carries what every subcommand needs.
type cli struct {
	cfg     *config.Config
	open    opener
	verbose bool
}

func newRootCmd(open opener) *cobra.Command {
	c := &cli{cfg: config.Load(), open: open}

	root := &cobra.Command{
		Use:   "boardctl",
		Short: "Maintenance commands for the task board state",
		Long: `boardctl works directly on the persisted task board snapshot.

Examples:
  # Print the stored state
  boardctl snapshot show

  # Seed the demo accounts into an empty store
  boardctl seed --backend sqlite --sqlite data/taskboard.db

  # Print the join link of a board
  boardctl link 3f2b...`,
		SilenceUsage: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.cfg.StorageBackend, "backend", c.cfg.StorageBackend, "storage backend: file, sqlite, postgres, redis or memory")
	flags.StringVar(&c.cfg.StoragePath, "path", c.cfg.StoragePath, "directory of the file backend")
	flags.StringVar(&c.cfg.SQLitePath, "sqlite", c.cfg.SQLitePath, "database file of the sqlite backend")
	flags.StringVar(&c.cfg.RedisAddr, "redis", c.cfg.RedisAddr, "address of the redis backend")
	flags.StringVar(&c.cfg.SnapshotKey, "key", c.cfg.SnapshotKey, "slot the snapshot is stored under")
	flags.StringVar(&c.cfg.BaseURL, "base-url", c.cfg.BaseURL, "address board links point at")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log storage activity")

	root.AddCommand(
		newSnapshotCmd(c),
		newLinkCmd(c),
		newSeedCmd(c),
		newSweepCmd(c),
	)
	return root
}

func (c *cli) logger() *zap.Logger {
	if !c.verbose {
		return zap.NewNop()
	}
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}

// gateway opens the configured backend. The caller must run the returned closer.
func (c *cli) gateway(ctx context.Context) (*repository.Gateway, func() error, error) {
	repo, closer, err := c.open(ctx, c.cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", c.cfg.StorageBackend, err)
	}
	return repository.NewGateway(repo, c.cfg.SnapshotKey, c.logger()), closer, nil
}

// app opens the full state container over the configured backend.
func (c *cli) app(ctx context.Context, seed bool) (*service.App, *repository.Gateway, func() error, error) {
	gw, closer, err := c.gateway(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	opts := server.Options(c.cfg, c.logger(), nil)
	opts.SeedDemo = seed
	app, err := service.Open(ctx, gw, opts)
	if err != nil {
		_ = closer()
		return nil, nil, nil, err
	}
	return app, gw, closer, nil
}
