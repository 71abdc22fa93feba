package collect

import (
	"context"
	"sort"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/manifest"
)

// RetryOutcome summarizes the consolidated retry pass.
type RetryOutcome struct {
	Attempted   int
	Recovered   int
	Regenerated bool
}

// AllRecovered reports whether every retried unit succeeded. A pass with
// nothing to retry counts as fully recovered.
func (o RetryOutcome) AllRecovered() bool {
	return o.Recovered == o.Attempted
}

// Status is the manifest label of the pass.
func (o RetryOutcome) Status() string {
	switch {
	case o.Attempted == 0:
		return manifest.RetrySkipped
	case o.AllRecovered():
		return manifest.RetryComplete
	default:
		return manifest.RetryPartial
	}
}

// RetryPass gives every soft failure of the sweep exactly one more run of
// the retry driver. Recovered series are backfilled into their table and
// that (dataset, window) is recomputed and rewritten. Cross-window artifacts
// are rebuilt according to the configured regenerate policy.
func (c *Collector) RetryPass(ctx context.Context) (RetryOutcome, error) {
	var outcome RetryOutcome
	failures := c.orderedFailures()
	if len(failures) == 0 {
		return outcome, nil
	}

	c.printer.Header("Retry pass")
	c.logger.Info("starting retry pass", "failures", len(failures), "cooldown", c.cfg.Retry.RetryPassCooldown)
	if err := c.sleep(ctx, c.cfg.Retry.RetryPassCooldown, "retry pass"); err != nil {
		return outcome, err
	}

	touched := make(map[string]bool)
	for _, f := range failures {
		outcome.Attempted++
		w, _ := c.results.window(f.Window)
		d, _ := c.results.dataset(f.Dataset)
		unit := c.results.unit(f.Dataset, f.Window, f.Label)

		points, err := c.fetchUnit(ctx, unit, w)
		switch {
		case err != nil && ctx.Err() != nil:
			return outcome, ctx.Err()
		case err != nil:
			unit.State = models.UnitRetriedFailed
			unit.LastError = err.Error()
			c.logger.Warn("retry failed", "dataset", f.Dataset, "window", f.Window, "label", f.Label, "error", err)
			c.printer.Warning("%s / %s / %s: still failing: %v", w.Label, d.Title, f.Label, err)
		default:
			unit.State = models.UnitRetriedOK
			unit.LastError = ""
			outcome.Recovered++
			touched[d.Name] = true
			c.results.Table(d.Name, w.Slug).Set(f.Label, points)
			if err := c.writeWindow(d, w); err != nil {
				return outcome, err
			}
			c.logger.Info("retry recovered unit", "dataset", f.Dataset, "window", f.Window, "label", f.Label, "points", len(points))
			c.printer.Success("%s / %s / %s recovered", w.Label, d.Title, f.Label)
		}

		if err := c.cooldown(ctx, "retry"); err != nil {
			return outcome, err
		}
	}

	if !c.shouldRegenerate(outcome) {
		c.logger.Warn("cross-window artifacts not regenerated",
			"policy", c.cfg.Retry.Regenerate, "recovered", outcome.Recovered, "attempted", outcome.Attempted)
		return outcome, nil
	}
	for _, d := range c.cfg.Datasets {
		if !touched[d.Name] {
			continue
		}
		if err := c.writeCrossWindow(d); err != nil {
			return outcome, err
		}
	}
	outcome.Regenerated = true
	return outcome, nil
}

func (c *Collector) shouldRegenerate(o RetryOutcome) bool {
	if o.Recovered == 0 {
		return false
	}
	if c.cfg.Retry.Regenerate == models.RegenerateOnFullSuccess {
		return o.AllRecovered()
	}
	return true
}

// orderedFailures sorts the failures by window, then dataset; the sweep
// order is kept within a (window, dataset).
func (c *Collector) orderedFailures() []models.FailureRecord {
	out := make([]models.FailureRecord, len(c.results.failures))
	copy(out, c.results.failures)
	sort.SliceStable(out, func(i, j int) bool {
		_, wi := c.results.window(out[i].Window)
		_, wj := c.results.window(out[j].Window)
		if wi != wj {
			return wi < wj
		}
		_, di := c.results.dataset(out[i].Dataset)
		_, dj := c.results.dataset(out[j].Dataset)
		return di < dj
	})
	return out
}
