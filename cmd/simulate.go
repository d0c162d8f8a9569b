package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ferro-gianluca-29/microgrid-simulator/app"
	"github.com/ferro-gianluca-29/microgrid-simulator/config"
	"github.com/ferro-gianluca-29/microgrid-simulator/core/model"
	"github.com/ferro-gianluca-29/microgrid-simulator/infra/stream"
	"github.com/ferro-gianluca-29/microgrid-simulator/pkg/export"
)

var samplesPath string

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Replay a CSV sample file and write the run reports",
	RunE:  runSimulate,
}

func init() {
	simulateCmd.Flags().StringVarP(&samplesPath, "input", "i", "samples.csv", "CSV file with timestamp,load_kw,pv_kw rows")
	rootCmd.AddCommand(simulateCmd)
}

func runSimulate(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	f, err := os.Open(samplesPath)
	if err != nil {
		return fmt.Errorf("open samples: %w", err)
	}
	samples, err := stream.ReadSamples(f)
	f.Close()
	if err != nil {
		return err
	}

	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer svc.Close() //nolint:errcheck

	results, err := svc.Simulate(ctx, samples)
	if err != nil {
		return err
	}
	return writeReports(cfg.Report, results)
}

func writeReports(cfg config.ReportConfig, results []model.StepResult) error {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return fmt.Errorf("report dir: %w", err)
	}
	write := func(name string, fn func(*os.File) error) error {
		f, err := os.Create(filepath.Join(cfg.Dir, name))
		if err != nil {
			return err
		}
		if err := fn(f); err != nil {
			f.Close()
			return fmt.Errorf("write %s: %w", name, err)
		}
		return f.Close()
	}
	if cfg.CSV {
		if err := write("run.csv", func(f *os.File) error { return export.WriteCSV(f, results) }); err != nil {
			return err
		}
	}
	if cfg.JSON {
		if err := write("run.json", func(f *os.File) error { return export.WriteJSON(f, results) }); err != nil {
			return err
		}
	}
	if cfg.Chart {
		if err := write("run.html", func(f *os.File) error { return export.WriteChartHTML(f, results) }); err != nil {
			return err
		}
	}
	return nil
}
