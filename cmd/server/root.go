package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"ctchen222/Starter-Kit/internal/config"
	"ctchen222/Starter-Kit/internal/db"
	"ctchen222/Starter-Kit/internal/logger"
	"ctchen222/Starter-Kit/internal/repository"

	"github.com/spf13/cobra"
)

var (
	configPath string
	conf       *config.Config
)

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "server",
		Short: "Starter kit game-state service",
		Long: `server hosts the counter and tic-tac-toe state behind a JSON API and a
websocket feed, persisting the aggregate to redis, sqlite or memory.

Environment variables:
` + config.Usage(),
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			conf, err = config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(os.Stderr, conf.SlogLevel(), conf.Telemetry.Enabled)
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context())
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yml", "Path to the yaml config file")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newStateCmd())

	return rootCmd
}

// openRepository builds the configured state repository. The returned closer
// releases the underlying connection.
func openRepository(ctx context.Context, conf *config.Config) (repository.StateRepository, io.Closer, error) {
	switch conf.Storage.Backend {
	case config.BackendRedis:
		rdb, err := db.NewRedisClient(ctx, conf.Redis.Addr)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisStateRepository(rdb, conf.Redis.KeyPrefix, conf.Storage.Key, conf.Redis.TTL), rdb, nil

	case config.BackendSQLite:
		DB, err := db.SQLiteConnect(ctx, conf.SQLite.Path)
		if err != nil {
			return nil, nil, err
		}
		if err := db.InitializeDB(ctx, DB); err != nil {
			_ = DB.Close()
			return nil, nil, err
		}
		return repository.NewSQLiteStateRepository(DB, conf.Storage.Key), DB, nil

	case config.BackendMemory:
		return repository.NewMemoryStateRepository(), io.NopCloser(nil), nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown storage backend %q", config.ErrInvalidConfig, conf.Storage.Backend)
	}
}
