package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"LCID/configs"
	"LCID/internal/logger"
	"LCID/internal/server"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rootCmd = &cobra.Command{
	Use:           "lcid",
	Short:         "LeetCode problem id lookup service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the read API and refresh the catalog on a schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLogger(cmd.Context(), server.Serve)
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch the problem catalog once and replace the stored snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withLogger(cmd.Context(), server.SyncOnce)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, syncCmd)
}

func withLogger(ctx context.Context, run func(context.Context, *configs.Config, *zap.Logger) error) error {
	cfg, err := configs.LoadConfig()
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.AppEnv)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer logger.Sync(log)

	return run(ctx, cfg, log)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "lcid:", err)
		stop()
		os.Exit(1)
	}
}
