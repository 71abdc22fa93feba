// Package collect runs the collection phase: the sweep over every dataset,
// window and keyword group, the per-window artifacts, and the single
// consolidated retry pass over soft failures.
package collect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/console"
	"github.com/dtnitsch/trendreport/pkg/retry"
	"github.com/dtnitsch/trendreport/pkg/storage"
	"github.com/dtnitsch/trendreport/pkg/trends"
)

// Collector owns one run's Results. It is not safe for concurrent use.
type Collector struct {
	cfg     models.Config
	client  trends.Client
	sleeper retry.Sleeper
	policy  retry.Policy
	store   *storage.Storage
	printer *console.Printer
	logger  *slog.Logger

	results   *Results
	artifacts []string
}

// Deps are the collaborators of a Collector. Sleeper, Printer and Logger
// default to the wall clock, a silent printer and slog.Default.
type Deps struct {
	Client  trends.Client
	Sleeper retry.Sleeper
	Store   *storage.Storage
	Printer *console.Printer
	Logger  *slog.Logger
}

// Summary is what a finished collection reports back.
type Summary struct {
	Results   *Results
	Retry     RetryOutcome
	Artifacts []string
}

// PolicyFromConfig builds the retry policy: rate limits and other errors
// get their own linear schedules, sharing one attempt counter.
func PolicyFromConfig(rc models.RetryConfig) retry.Policy {
	return retry.Policy{
		MaxAttempts: rc.MaxAttempts,
		RateLimited: retry.Linear{Base: rc.RateLimitBase, Step: rc.RateLimitStep},
		Transient:   retry.Linear{Base: rc.ErrorBase, Step: rc.ErrorStep},
		Classify: func(err error) retry.Class {
			if trends.IsRateLimited(err) {
				return retry.ClassRateLimited
			}
			return retry.ClassTransient
		},
	}
}

// NewCollector wires a collector for cfg.
func NewCollector(cfg models.Config, deps Deps) *Collector {
	c := &Collector{
		cfg:     cfg,
		client:  deps.Client,
		sleeper: deps.Sleeper,
		policy:  PolicyFromConfig(cfg.Retry),
		store:   deps.Store,
		printer: deps.Printer,
		logger:  deps.Logger,
		results: NewResults(cfg.Windows, cfg.Datasets),
	}
	if c.sleeper == nil {
		c.sleeper = retry.ClockSleeper{}
	}
	if c.printer == nil {
		c.printer = console.Discard()
	}
	if c.logger == nil {
		c.logger = slog.Default()
	}
	return c
}

// Results exposes the aggregate built so far.
func (c *Collector) Results() *Results {
	return c.results
}

// Artifacts lists every file written so far, in write order.
func (c *Collector) Artifacts() []string {
	return c.artifacts
}

// Run performs the sweep, writes per-window and cross-window artifacts and
// then the retry pass. Soft failures never make Run fail; an error means
// the run was cancelled or an artifact could not be written.
func (c *Collector) Run(ctx context.Context) (*Summary, error) {
	if err := c.Sweep(ctx); err != nil {
		return nil, err
	}
	for _, d := range c.cfg.Datasets {
		if err := c.writeCrossWindow(d); err != nil {
			return nil, err
		}
	}
	outcome, err := c.RetryPass(ctx)
	if err != nil {
		return nil, err
	}
	return &Summary{Results: c.results, Retry: outcome, Artifacts: c.artifacts}, nil
}

// Sweep fetches every unit once (with in-place retries) and writes the
// per-window artifacts after each (dataset, window).
func (c *Collector) Sweep(ctx context.Context) error {
	for wi, w := range c.cfg.Windows {
		if wi > 0 {
			if err := c.cooldown(ctx, "window"); err != nil {
				return err
			}
		}
		c.printer.Header(fmt.Sprintf("%s (%s)", w.Label, w.Range))

		for di, d := range c.cfg.Datasets {
			if di > 0 {
				if err := c.cooldown(ctx, "dataset"); err != nil {
					return err
				}
			}
			if err := c.sweepDataset(ctx, d, w); err != nil {
				return err
			}
			if err := c.writeWindow(d, w); err != nil {
				return err
			}
			c.printer.Ranking(c.results.Stats(d.Name, w.Slug), 5)
		}
	}
	return nil
}

func (c *Collector) sweepDataset(ctx context.Context, d models.Dataset, w models.Window) error {
	table := c.results.Table(d.Name, w.Slug)
	for gi, g := range d.Groups {
		if gi > 0 {
			if err := c.cooldown(ctx, "group"); err != nil {
				return err
			}
		}
		unit := c.results.unit(d.Name, w.Label, g.Label)

		points, err := c.fetchUnit(ctx, unit, w)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			unit.State = models.UnitFailedSoft
			unit.LastError = err.Error()
			c.results.failures = append(c.results.failures, models.FailureRecord{
				Dataset: d.Name,
				Window:  w.Label,
				Label:   g.Label,
				Terms:   g.Terms,
				Err:     err,
			})
			c.logger.Warn("unit failed, queued for retry pass",
				"dataset", d.Name, "window", w.Label, "label", g.Label, "attempts", unit.Attempts, "error", err)
			c.printer.Warning("%s / %s: %v", d.Title, g.Label, err)
			continue
		}

		unit.State = models.UnitFetched
		unit.LastError = ""
		table.Set(g.Label, points)
		c.printer.Success("%s / %s (%d points)", d.Title, g.Label, len(points))
	}
	return nil
}

// fetchUnit drives the attempts for one unit. Errors are retried on the
// policy's schedule; an empty answer fails immediately with ErrNoData.
func (c *Collector) fetchUnit(ctx context.Context, unit *models.Unit, w models.Window) ([]models.SeriesPoint, error) {
	bo := c.policy.NewBackOff()
	for {
		unit.Attempts++
		c.logger.Info("fetching unit",
			"dataset", unit.Dataset, "window", w.Label, "label", unit.Label, "terms", unit.Terms, "attempt", bo.Attempt()+1)

		frame, err := c.client.InterestOverTime(ctx, unit.Terms, w.Range)
		if err == nil {
			points := frame.Average()
			if len(points) == 0 {
				return nil, trends.ErrNoData
			}
			return points, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		bo.Observe(err)
		delay := bo.NextBackOff()
		if delay == backoff.Stop {
			return nil, fmt.Errorf("giving up after %d attempts: %w", bo.Attempt()+1, err)
		}
		c.logger.Warn("fetch failed, backing off",
			"dataset", unit.Dataset, "window", w.Label, "label", unit.Label,
			"class", bo.Class().String(), "delay", delay, "error", err)
		if err := c.sleeper.Sleep(ctx, delay); err != nil {
			return nil, err
		}
	}
}

func (c *Collector) cooldown(ctx context.Context, between string) error {
	return c.sleep(ctx, c.cfg.Retry.Cooldown, between)
}

func (c *Collector) sleep(ctx context.Context, d time.Duration, reason string) error {
	c.logger.Debug("cooling down", "reason", reason, "delay", d)
	if err := c.sleeper.Sleep(ctx, d); err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("collection interrupted: %w", err)
		}
		return err
	}
	return nil
}
