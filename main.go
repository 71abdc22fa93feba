package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/trendreport/internal/collect"
	"github.com/dtnitsch/trendreport/internal/config"
	"github.com/dtnitsch/trendreport/internal/report"
	"github.com/dtnitsch/trendreport/internal/run"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "trendreport",
		Usage: "collect Google Trends interest for keyword groups and build a monthly PDF report",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file (default: ./trendreport.yaml if present, else built-in defaults)",
				EnvVars: []string{"TRENDREPORT_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "output-dir",
				Aliases: []string{"o"},
				Value:   ".",
				Usage:   "directory for snapshots, charts, the manifest and the report",
				EnvVars: []string{"TRENDREPORT_OUTPUT_DIR"},
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "only print errors",
				EnvVars: []string{"TRENDREPORT_QUIET"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"TRENDREPORT_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:    "no-color",
				Usage:   "disable colored console output",
				EnvVars: []string{"TRENDREPORT_NO_COLOR"},
			},
		},
		Action: run.RunAction,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "collect, retry failures, then build the report (default)",
				Action: run.RunAction,
			},
			{
				Name:   "collect",
				Usage:  "collect series and write snapshots and charts only",
				Action: collect.CollectAction,
			},
			{
				Name:   "report",
				Usage:  "build the PDF report from snapshots in --output-dir",
				Action: report.ReportAction,
			},
			{
				Name:   "config",
				Usage:  "print the effective configuration as YAML",
				Action: config.ConfigAction,
			},
		},
	}
}
