package collect

import (
	"fmt"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/charts"
	"github.com/dtnitsch/trendreport/pkg/stats"
	"github.com/dtnitsch/trendreport/pkg/storage"
)

// writeWindow recomputes the stats of one (dataset, window) from its table
// and rewrites its snapshots and charts. Files of an empty table are
// removed so a rerun never leaves stale data behind.
func (c *Collector) writeWindow(d models.Dataset, w models.Window) error {
	table := c.results.Table(d.Name, w.Slug)
	rows := stats.Compute(table)
	c.results.setStats(d.Name, w.Slug, rows)

	seriesFile := storage.SeriesFile(d.Name, w.Slug)
	statsFile := storage.StatsFile(d.Name, w.Slug)
	rankingFile := storage.ChartFile(d.Name, storage.ChartRanking, w.Slug)
	trendsFile := storage.ChartFile(d.Name, storage.ChartTrends, w.Slug)

	if len(rows) == 0 {
		c.logger.Warn("no data for window, skipping artifacts", "dataset", d.Name, "window", w.Label)
		return c.remove(seriesFile, statsFile, rankingFile, trendsFile)
	}

	if written, err := c.store.WriteSeries(seriesFile, table); err != nil {
		return fmt.Errorf("failed to write %s: %w", seriesFile, err)
	} else if written {
		c.record(seriesFile)
	}
	if written, err := c.store.WriteStats(statsFile, rows); err != nil {
		return fmt.Errorf("failed to write %s: %w", statsFile, err)
	} else if written {
		c.record(statsFile)
	}

	png, err := charts.Ranking(fmt.Sprintf("%s ranking - %s", d.Title, w.Label), rows)
	if err != nil {
		return err
	}
	if err := c.save(rankingFile, png); err != nil {
		return err
	}

	if !c.cfg.Charts.TimeSeries {
		return nil
	}
	png, err = charts.TimeSeries(fmt.Sprintf("%s trends - %s", d.Title, w.Label), table)
	if err != nil {
		return err
	}
	return c.save(trendsFile, png)
}

// writeCrossWindow rebuilds the changes and summary tables and the
// comparison chart of a dataset from the current stats of every window.
func (c *Collector) writeCrossWindow(d models.Dataset) error {
	windows := c.results.WindowLabels()
	byWindow := c.results.StatsByWindow(d.Name)

	changesFile := storage.ChangesFile(d.Name)
	changes := stats.Changes(windows, byWindow)
	written, err := c.store.WriteChanges(changesFile, changes)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", changesFile, err)
	}
	if written {
		c.record(changesFile)
	} else if err := c.remove(changesFile); err != nil {
		return err
	}

	summaryFile := storage.SummaryFile(d.Name)
	written, err = c.store.WriteSummary(summaryFile, stats.Summary(windows, byWindow))
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", summaryFile, err)
	}
	if written {
		c.record(summaryFile)
	} else if err := c.remove(summaryFile); err != nil {
		return err
	}

	comparisonFile := storage.ChartFile(d.Name, storage.ChartComparison, "")
	png, err := charts.Comparison(fmt.Sprintf("%s by period", d.Title), windows, byWindow, c.cfg.Charts.ComparisonTop)
	if err != nil {
		return err
	}
	if png == nil {
		return c.remove(comparisonFile)
	}
	c.logger.Info("cross-window artifacts written", "dataset", d.Name, "change_rows", len(changes))
	return c.save(comparisonFile, png)
}

func (c *Collector) save(name string, data []byte) error {
	if err := c.store.SaveFile(name, data); err != nil {
		return err
	}
	c.record(name)
	return nil
}

func (c *Collector) record(name string) {
	c.logger.Debug("artifact written", "file", name)
	c.artifacts = append(c.artifacts, name)
}

func (c *Collector) remove(names ...string) error {
	for _, name := range names {
		if err := c.store.Remove(name); err != nil {
			return err
		}
	}
	return nil
}
