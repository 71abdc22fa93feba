package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/trendreport/internal/common"
	"github.com/dtnitsch/trendreport/pkg/fetcher"
	"github.com/dtnitsch/trendreport/pkg/manifest"
	"github.com/dtnitsch/trendreport/pkg/storage"
	"github.com/dtnitsch/trendreport/pkg/trends"
)

// Execute runs the whole collection phase against the live Trends API.
func Execute(ctx context.Context, env *common.Env) (*Summary, error) {
	cfg := env.Config
	client := trends.NewHTTPClient(fetcher.NewFetcher(cfg.HTTP.Timeout), trends.Options{
		BaseURL: cfg.HTTP.BaseURL,
		HL:      cfg.Locale.HL,
		TZ:      cfg.Locale.TZ,
		Geo:     cfg.Locale.Geo,
		Logger:  env.Logger,
	})

	collector := NewCollector(cfg, Deps{
		Client:  client,
		Store:   env.Store,
		Printer: env.Printer,
		Logger:  env.Logger,
	})

	env.Logger.Info("collection started", "windows", len(cfg.Windows), "datasets", len(cfg.Datasets), "units", len(collector.Results().Units()))
	summary, err := collector.Run(ctx)
	if err != nil {
		env.Logger.Error("collection failed", "error", err)
		return nil, err
	}

	if !summary.Retry.AllRecovered() {
		env.Printer.Warning("%d of %d failed units could not be collected; the report will be built anyway",
			summary.Retry.Attempted-summary.Retry.Recovered, summary.Retry.Attempted)
	}
	env.Logger.Info("collection finished",
		"artifacts", len(summary.Artifacts), "retried", summary.Retry.Attempted, "recovered", summary.Retry.Recovered)
	return summary, nil
}

// WriteManifest records a run; report may be empty.
func WriteManifest(env *common.Env, runID string, started time.Time, summary *Summary, report string) error {
	run := manifest.Run{
		StartedAt:  started,
		FinishedAt: time.Now(),
		Units:      summary.Results.Units(),
		RetryPass:  summary.Retry.Status(),
		Artifacts:  summary.Artifacts,
		Report:     report,
	}
	if report != "" {
		run.Artifacts = append(append([]string(nil), run.Artifacts...), report)
	}
	if _, err := manifest.Write(runID, run, env.Store); err != nil {
		env.Logger.Error("failed to write run manifest", "error", err)
		return err
	}
	env.Printer.Info("run manifest: %s", env.Store.Path(storage.ManifestFile))
	return nil
}

// CollectAction is the collect command: collection and retry pass only.
func CollectAction(c *cli.Context) error {
	env, err := common.Setup(c)
	if err != nil {
		return err
	}
	started := time.Now()
	runID := manifest.NewRunID()
	env.Logger.Info("run started", "run_id", runID, "output_dir", env.Store.Dir)

	env.ResolveFont(c.Context)

	summary, err := Execute(c.Context, env)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	return WriteManifest(env, runID, started, summary, "")
}
