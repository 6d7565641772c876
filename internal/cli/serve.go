package cli

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/arise-learning/arise/internal/server"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewServeCmd creates the 'serve' command for running the HTTP server.
func NewServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Start the arise HTTP server.

Routes:
  • GET  /analyze              - Cluster students and recommend strategies
  • GET  /history/:student_id  - Behavior snapshots, oldest first
  • POST /add-edge             - Record a graph edge
  • GET  /all-data             - Bulk export
  • GET  /marks                - Every recorded mark
  • POST /ask-ai               - astar commands and AI questions
  • GET  /search               - Search latest snapshots
  • GET  /healthz              - Liveness and store availability
  • GET  /metrics              - Prometheus metrics`,
		Example: `  # Listen on the configured address
  arise serve

  # Listen on a specific port
  arise serve --addr :8080`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}

// runServe starts the server and shuts it down on SIGINT/SIGTERM/SIGQUIT.
func runServe(cmd *cobra.Command, addr string) error {
	a, err := newApp(cmd.Context(), cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if addr == "" {
		addr = a.cfg.Server.Addr
	}
	if !a.cfg.Log.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := server.NewServer(addr, server.Deps{
		Store:  a.store,
		Gate:   a.gate,
		Asker:  a.asker(),
		Logger: a.logger,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sigChan)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	select {
	case sig := <-sigChan:
		a.logger.Info("shutting down", zap.String("signal", sig.String()))
		if err := srv.Close(); err != nil {
			a.logger.Error("shutdown failed", zap.Error(err))
			return err
		}
		a.logger.Info("shutdown complete")
		return nil

	case err := <-errChan:
		if closeErr := srv.Close(); closeErr != nil {
			a.logger.Warn("cleanup failed", zap.Error(closeErr))
		}
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	}
}
