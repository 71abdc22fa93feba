// Package report implements the report command.
package report

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/trendreport/internal/common"
	"github.com/dtnitsch/trendreport/pkg/fonts"
	pdfreport "github.com/dtnitsch/trendreport/pkg/report"
)

// Execute builds the document from the snapshots in the output directory.
func Execute(env *common.Env, font fonts.Font) (*pdfreport.Result, error) {
	env.Printer.Header("Report")
	data := pdfreport.Load(env.Store, env.Config.Windows, env.Config.Datasets, env.Logger)

	res, err := pdfreport.NewBuilder(env.Config.Report, font, env.Logger).Build(data, env.Store)
	if err != nil {
		env.Logger.Error("failed to build report", "error", err)
		return nil, err
	}

	env.Printer.Success("%s (%d pages)", res.Path, res.Pages)
	for _, s := range res.Sections {
		env.Printer.Info("  - %s", s)
	}
	if len(res.Sections) == 1 {
		env.Printer.Warning("no data found in %s; the report only has a cover page", env.Store.Dir)
	}
	return res, nil
}

// ReportAction is the report command: rebuild the document from files on disk.
func ReportAction(c *cli.Context) error {
	env, err := common.Setup(c)
	if err != nil {
		return err
	}
	font := env.ResolveFont(c.Context)
	if _, err := Execute(env, font); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	return nil
}
