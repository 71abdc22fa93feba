// Package fonts resolves the CJK-capable TTF shared by the charts and the
// document, downloading it once into a local cache.
package fonts

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/caching"
	"github.com/dtnitsch/trendreport/pkg/fetcher"
)

// CacheDirName is the directory under os.TempDir used when no cache dir is configured.
const CacheDirName = "trendreport-fonts"

// FallbackFamily is the built-in PDF core font used when no TTF is available.
const FallbackFamily = "Helvetica"

// Font is a resolved font. Data is nil for the fallback.
type Font struct {
	Family string
	Data   []byte
}

// Fallback reports whether f is the built-in core font.
func (f Font) Fallback() bool {
	return len(f.Data) == 0
}

// Getter is the download side, satisfied by *fetcher.Fetcher.
type Getter interface {
	GetBytes(ctx context.Context, url string) ([]byte, error)
}

var _ Getter = (*fetcher.Fetcher)(nil)

// Resolve returns the configured font from cache, downloading it on a miss.
// Any failure is logged and answered with the fallback font; Resolve never
// fails the run.
func Resolve(ctx context.Context, cfg models.FontConfig, get Getter, logger *slog.Logger) Font {
	fallback := Font{Family: FallbackFamily}
	if cfg.URL == "" {
		return fallback
	}
	family := cfg.Family
	if family == "" {
		family = "Custom"
	}

	data, err := load(ctx, cfg, get)
	if err != nil {
		logger.Warn("font unavailable, using built-in font", "url", cfg.URL, "fallback", FallbackFamily, "error", err)
		return fallback
	}
	logger.Debug("font resolved", "family", family, "bytes", len(data))
	return Font{Family: family, Data: data}
}

func load(ctx context.Context, cfg models.FontConfig, get Getter) ([]byte, error) {
	dir := cfg.CacheDir
	if dir == "" {
		dir = caching.DefaultDir(CacheDirName)
	}
	cache, err := caching.NewCache(dir, 0)
	if err != nil {
		return nil, err
	}
	if data, ok := cache.Get(cfg.URL); ok {
		return data, nil
	}

	data, err := get.GetBytes(ctx, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to download font: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("failed to download font: empty body")
	}
	if err := cache.Set(cfg.URL, data); err != nil {
		return nil, err
	}
	return data, nil
}
