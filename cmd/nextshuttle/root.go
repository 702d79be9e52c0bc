package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/randytsao24/nextshuttle/internal/app"
	"github.com/randytsao24/nextshuttle/internal/config"
)

var cfgPath string

var rootCmd = &cobra.Command{
	Use:           "nextshuttle",
	Short:         "Shuttle arrival predictions for voice assistants",
	RunE:          serve,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the skill and prediction HTTP API",
	RunE:  serve,
}

var askCmd = &cobra.Command{
	Use:   "ask [intent]",
	Short: "Print the spoken answer for an intent (default Closest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  ask,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "configuration file (.yaml or .json)")
	rootCmd.AddCommand(serveCmd, askCmd)
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func build(adjust func(*config.Config)) (*app.App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if adjust != nil {
		adjust(cfg)
	}
	return app.New(cfg, nil)
}

func serve(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(nil)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}

func ask(cmd *cobra.Command, args []string) error {
	intent := "Closest"
	if len(args) == 1 {
		intent = args[0]
	}

	// Only the spoken answer belongs on stdout
	a, err := build(func(cfg *config.Config) {
		cfg.LogLevel = "error"
		cfg.MetricsEnabled = false
	})
	if err != nil {
		return err
	}

	text, err := a.Ask(cmd.Context(), intent)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
	return err
}
