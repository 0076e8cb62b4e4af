package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/Motmedel/results_go/internal/config"
	"github.com/Motmedel/results_go/internal/demo"
	motmedelLog "github.com/Motmedel/results_go/pkg/log"
	"github.com/spf13/cobra"
)

var (
	configPath  string
	dotEnvPaths []string
)

var rootCmd = &cobra.Command{
	Use:           "results_demo",
	Short:         "A demo HTTP server whose handlers return typed results",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the demo API until interrupted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := config.Load(configPath, dotEnvPaths...)
		if err != nil {
			return fmt.Errorf("config load: %w", err)
		}

		level, err := cfg.Level()
		if err != nil {
			return fmt.Errorf("config level: %w", err)
		}

		logger := motmedelLog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)

		server, err := demo.New(cfg, logger)
		if err != nil {
			return fmt.Errorf("demo new: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("server listen and serve: %w", err)
		}

		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Load and validate the configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if _, err := config.Load(configPath, dotEnvPaths...); err != nil {
			return fmt.Errorf("config load: %w", err)
		}
		cmd.Println("The configuration is valid.")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML configuration file")
	rootCmd.PersistentFlags().StringSliceVar(&dotEnvPaths, "env-file", []string{".env"}, "dotenv files to load")

	rootCmd.AddCommand(serveCmd, validateCmd)
}

func main() {
	logger := motmedelLog.New(slog.NewJSONHandler(os.Stderr, nil))

	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		motmedelLog.LogFatalWithExitingMessage("The command failed.", err, logger)
	}
}
