// Package run wires the default command: collection, retry pass and report
// in one go.
package run

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/trendreport/internal/collect"
	"github.com/dtnitsch/trendreport/internal/common"
	"github.com/dtnitsch/trendreport/internal/report"
	"github.com/dtnitsch/trendreport/pkg/manifest"
	pdfreport "github.com/dtnitsch/trendreport/pkg/report"
)

// RunAction collects, then reports. A collection error means no document.
func RunAction(c *cli.Context) error {
	env, err := common.Setup(c)
	if err != nil {
		return err
	}
	started := time.Now()
	runID := manifest.NewRunID()
	env.Logger.Info("run started", "run_id", runID, "output_dir", env.Store.Dir)

	font := env.ResolveFont(c.Context)

	summary, err := collect.Execute(c.Context, env)
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}

	res, err := report.Execute(env, font)
	if err := finish(env, runID, started, summary, res, err); err != nil {
		return err
	}
	env.Logger.Info("run finished", "run_id", runID, "duration", time.Since(started).Round(time.Second).String())
	return nil
}

// finish writes the run manifest whether or not the report was built. A
// failed report is still an error, joined with any manifest error.
func finish(env *common.Env, runID string, started time.Time, summary *collect.Summary, res *pdfreport.Result, reportErr error) error {
	if reportErr != nil {
		return errors.Join(
			fmt.Errorf("report: %w", reportErr),
			collect.WriteManifest(env, runID, started, summary, ""),
		)
	}
	return collect.WriteManifest(env, runID, started, summary, filepath.Base(res.Path))
}
