package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"furitingoasis/envmon/internal/app"
	"furitingoasis/envmon/internal/config"
	"furitingoasis/envmon/internal/hardware"
	"furitingoasis/envmon/internal/logging"
	"furitingoasis/envmon/internal/monitor"
)

var version = "dev"
var appName = "envmon"

var rootCmd = &cobra.Command{
	Use:   "envmon",
	Short: "Environmental monitor and controller",
	Long: `envmon samples temperature, humidity and light on a Raspberry Pi,
drives the fan, grow light and alarm outputs from fixed thresholds,
and uploads readings to a collector over HTTP or MQTT.

Configuration is read from the environment.`,
	SilenceUsage: true,
	RunE:         runLoop,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// runner is what the commands need from the app.
type runner interface {
	Run(ctx context.Context) error
	Once(ctx context.Context) (monitor.CycleReport, error)
}

// setup is replaced in tests.
var setup = func() (runner, error) {
	a, err := newApp()
	if err != nil {
		return nil, err
	}
	return a, nil
}

// newApp loads config, installs the default logger and wires the board.
func newApp() (*app.App, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	slog.Info("starting",
		"version", version,
		"env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
		"transport", cfg.UploadTransport,
	)

	board := hardware.NewBoard(cfg, logger)
	return app.New(cfg, board, logger)
}
