/*
Package cli implements the arise command-line interface.

Every command loads the configuration named by the persistent --config
flag (default ~/.arise.yaml), builds a zap logger and opens the store.
A store that cannot be opened is not fatal: commands keep running on
synthetic data, the same way the HTTP server does.
*/
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/arise-learning/arise/internal/askai"
	"github.com/arise-learning/arise/internal/config"
	"github.com/arise-learning/arise/internal/logging"
	"github.com/arise-learning/arise/internal/storage"
	"github.com/arise-learning/arise/internal/version"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// app holds the runtime shared by a single command invocation.
type app struct {
	cfg    *config.Config
	logger *zap.Logger
	gate   *storage.Gate
	store  *storage.SQLiteStorage
}

// configPath returns the --config flag value, inherited from the root.
func configPath(cmd *cobra.Command) string {
	if f := cmd.Flag("config"); f != nil {
		return f.Value.String()
	}
	return ""
}

// newApp loads configuration, builds the logger and opens the store.
func newApp(ctx context.Context, cmd *cobra.Command) (*app, error) {
	cfg, err := config.LoadOrDefault(configPath(cmd))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, err
	}

	dbPath := ""
	if cfg.Store.Enabled {
		dbPath = cfg.Store.Path
	}
	gate := storage.NewGate()
	store := storage.NewStorage(dbPath,
		storage.WithGate(gate),
		storage.WithQueryTimeout(cfg.Store.QueryTimeout),
		storage.WithLogger(logger),
	)
	if err := store.Init(ctx); err != nil {
		logger.Warn("continuing without live store", zap.Error(err))
	}

	return &app{cfg: cfg, logger: logger, gate: gate, store: store}, nil
}

// asker builds the AskAI collaborator, or a stand-in that explains why
// none is configured.
func (a *app) asker() askai.Asker {
	key := a.cfg.AI.APIKey()
	if key == "" {
		return askai.Unavailable{Reason: a.cfg.AI.APIKeyEnv + " not set"}
	}

	client, err := askai.NewOpenAIClient(askai.Options{
		APIKey:            key,
		Model:             a.cfg.AI.Model,
		BaseURL:           a.cfg.AI.BaseURL,
		RequestsPerMinute: a.cfg.AI.RequestsPerMinute,
		Timeout:           a.cfg.AI.Timeout,
	}, a.logger)
	if err != nil {
		return askai.Unavailable{Reason: err.Error()}
	}
	return client
}

// Close releases the store and flushes the logger.
func (a *app) Close() error {
	err := a.store.Close()
	_ = a.logger.Sync()
	return err
}

// NewRootCmd creates the arise root command with every subcommand.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "arise",
		Short: "Behavior analytics and pathfinding engine for adaptive learning",
		Long: `arise analyzes student interaction logs, clusters students by behavior,
recommends study strategies and answers graph shortest-path queries.

Commands work against the SQLite store configured in ~/.arise.yaml. When
the store is unavailable, every read falls back to synthetic demo data.`,
		Version:      version.GetVersion(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.arise.yaml)")

	rootCmd.AddCommand(NewServeCmd())
	rootCmd.AddCommand(NewAnalyzeCmd())
	rootCmd.AddCommand(NewHistoryCmd())
	rootCmd.AddCommand(NewPathCmd())
	rootCmd.AddCommand(NewAskCmd())
	rootCmd.AddCommand(NewIngestCmd())
	rootCmd.AddCommand(NewExportCmd())
	rootCmd.AddCommand(NewMarksCmd())
	rootCmd.AddCommand(NewSearchCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVerifyCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
