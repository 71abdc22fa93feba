// Package common holds the setup shared by every CLI action: logger,
// configuration, output directory and the resolved font.
package common

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/charts"
	"github.com/dtnitsch/trendreport/pkg/console"
	"github.com/dtnitsch/trendreport/pkg/fetcher"
	"github.com/dtnitsch/trendreport/pkg/fonts"
	"github.com/dtnitsch/trendreport/pkg/storage"
)

// Env is everything an action needs before it starts working.
type Env struct {
	Config  models.Config
	Logger  *slog.Logger
	Printer *console.Printer
	Store   *storage.Storage
}

// ParseLevel maps a --log-level value onto slog. Quiet wins over the level.
func ParseLevel(level string, quiet bool) (slog.Level, error) {
	if quiet {
		return slog.LevelError, nil
	}
	switch strings.ToLower(level) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q: must be debug, info, warn or error", level)
	}
}

// NewLogger builds the JSON logger on stderr used by every action.
func NewLogger(c *cli.Context) (*slog.Logger, error) {
	level, err := ParseLevel(c.String("log-level"), c.Bool("quiet"))
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level})), nil
}

// LoadConfig reads --config, or the default file in the working directory
// when the flag is not set (a missing default file means built-in defaults).
func LoadConfig(c *cli.Context) (models.Config, error) {
	if c.IsSet("config") {
		return models.LoadConfig(c.String("config"), false)
	}
	return models.LoadConfig(models.DefaultConfigFile, true)
}

// Setup prepares the Env of an action.
func Setup(c *cli.Context) (*Env, error) {
	logger, err := NewLogger(c)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadConfig(c)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, err
	}

	store, err := storage.New(c.String("output-dir"))
	if err != nil {
		logger.Error("failed to prepare output directory", "error", err)
		return nil, err
	}

	return &Env{
		Config: cfg,
		Logger: logger,
		Printer: console.NewPrinter(console.Options{
			NoColor: c.Bool("no-color"),
			Quiet:   c.Bool("quiet"),
		}),
		Store: store,
	}, nil
}

// ResolveFont fetches the configured TTF and registers it for charts. A
// font that is missing or does not parse is replaced by the fallback.
func (e *Env) ResolveFont(ctx context.Context) fonts.Font {
	f := fonts.Resolve(ctx, e.Config.Font, fetcher.NewFetcher(e.Config.HTTP.Timeout), e.Logger)
	if !f.Fallback() {
		if err := charts.UseFont(f.Data, f.Family); err != nil {
			e.Logger.Warn("font rejected, using built-in font", "family", f.Family, "error", err)
			f = fonts.Font{Family: fonts.FallbackFamily}
		}
	}
	if f.Fallback() {
		e.Printer.Warning("font %s unavailable, using %s", e.Config.Font.Family, f.Family)
	}
	return f
}
