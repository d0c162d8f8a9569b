package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ferro-gianluca-29/microgrid-simulator/app"
	"github.com/ferro-gianluca-29/microgrid-simulator/config"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/logger"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation against a live MQTT sample stream",
	RunE:  runLive,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runLive(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
