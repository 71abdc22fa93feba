// Package models defines data structures for configuration, collected series and derived tables.
package models

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is looked up in the working directory when --config is not set.
const DefaultConfigFile = "trendreport.yaml"

// MaxTermsPerGroup is the number of comparison items the Trends explore endpoint accepts.
const MaxTermsPerGroup = 5

// RegeneratePolicy controls when the retry pass rewrites cross-window artifacts.
type RegeneratePolicy string

const (
	// RegenerateOnAnySuccess rewrites changes, summaries and comparison charts
	// whenever at least one retried unit succeeded.
	RegenerateOnAnySuccess RegeneratePolicy = "any-success"
	// RegenerateOnFullSuccess only rewrites them when every retried unit succeeded.
	RegenerateOnFullSuccess RegeneratePolicy = "full-success"
)

// Config is the full runtime configuration of a run.
// Values come from the YAML file, merged over Default().
type Config struct {
	Locale   LocaleConfig `yaml:"locale"`
	Windows  []Window     `yaml:"windows"`
	Datasets []Dataset    `yaml:"datasets"`
	Retry    RetryConfig  `yaml:"retry"`
	Charts   ChartConfig  `yaml:"charts"`
	Report   ReportConfig `yaml:"report"`
	Font     FontConfig   `yaml:"font"`
	HTTP     HTTPConfig   `yaml:"http"`
}

// LocaleConfig is passed straight through to the Trends API.
type LocaleConfig struct {
	HL  string `yaml:"hl"`
	TZ  int    `yaml:"tz"`
	Geo string `yaml:"geo"`
}

// RetryConfig holds the delay schedules and the retry ceiling.
type RetryConfig struct {
	MaxAttempts       int              `yaml:"max_attempts"`
	RateLimitBase     time.Duration    `yaml:"rate_limit_base"`
	RateLimitStep     time.Duration    `yaml:"rate_limit_step"`
	ErrorBase         time.Duration    `yaml:"error_base"`
	ErrorStep         time.Duration    `yaml:"error_step"`
	Cooldown          time.Duration    `yaml:"cooldown"`
	RetryPassCooldown time.Duration    `yaml:"retry_pass_cooldown"`
	Regenerate        RegeneratePolicy `yaml:"regenerate"`
}

// ChartConfig toggles optional charts.
type ChartConfig struct {
	TimeSeries    bool `yaml:"timeseries"`
	ComparisonTop int  `yaml:"comparison_top"`
}

// ReportConfig holds the document texts and narrative thresholds.
type ReportConfig struct {
	Title               string  `yaml:"title"`
	Subtitle            string  `yaml:"subtitle"`
	Source              string  `yaml:"source"`
	TopRows             int     `yaml:"top_rows"`
	GrowthThreshold     float64 `yaml:"growth_threshold"`
	HotThreshold        float64 `yaml:"hot_threshold"`
	VolatilityThreshold float64 `yaml:"volatility_threshold"`
	ChangeRows          int     `yaml:"change_rows"`
	ConsistentTop       int     `yaml:"consistent_top"`
}

// FontConfig points at the TTF used by the document and the charts.
type FontConfig struct {
	URL      string `yaml:"url"`
	Family   string `yaml:"family"`
	CacheDir string `yaml:"cache_dir"`
}

// HTTPConfig configures the Trends client transport.
type HTTPConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns the built-in configuration: twelve web-novel genres,
// four IP-expansion models and the 1/3/12 month windows.
func Default() Config {
	return Config{
		Locale: LocaleConfig{HL: "ko", TZ: 540, Geo: "KR"},
		Windows: []Window{
			{Label: "1개월", Slug: "1m", Range: "today 1-m"},
			{Label: "3개월", Slug: "3m", Range: "today 3-m"},
			{Label: "12개월", Slug: "12m", Range: "today 12-m"},
		},
		Datasets: []Dataset{
			{
				Name:  "genre",
				Title: "장르",
				Groups: []KeywordGroup{
					{Label: "로맨스", Terms: []string{"로맨스 웹소설", "로맨스소설", "로맨스"}},
					{Label: "로판", Terms: []string{"로판 웹소설", "로맨스판타지", "로판"}},
					{Label: "판타지", Terms: []string{"판타지 웹소설", "판타지소설", "판타지"}},
					{Label: "현판", Terms: []string{"현대판타지", "현판 웹소설", "현판"}},
					{Label: "무협", Terms: []string{"무협 웹소설", "무협소설", "무협"}},
					{Label: "미스터리", Terms: []string{"미스터리 웹소설", "추리소설", "미스터리"}},
					{Label: "라이트노벨", Terms: []string{"라이트노벨", "라노벨", "라이트노벨 웹소설"}},
					{Label: "BL", Terms: []string{"BL 웹소설", "BL소설", "보이즈러브"}},
					{Label: "드라마", Terms: []string{"드라마 웹소설", "드라마소설"}},
					{Label: "액션", Terms: []string{"액션 웹소설", "액션소설", "액션"}},
					{Label: "패러디", Terms: []string{"패러디 웹소설", "패러디소설"}},
					{Label: "문학", Terms: []string{"순문학", "문학소설", "문학"}},
				},
			},
			{
				Name:  "ip_expansion",
				Title: "IP 확장",
				Groups: []KeywordGroup{
					{Label: "웹툰화", Terms: []string{"웹소설 웹툰화", "소설 웹툰", "웹툰 원작"}},
					{Label: "드라마화", Terms: []string{"웹소설 드라마", "소설 드라마", "드라마 원작"}},
					{Label: "영화화", Terms: []string{"웹소설 영화", "소설 영화", "영화 원작"}},
					{Label: "게임화", Terms: []string{"웹소설 게임", "소설 게임"}},
				},
			},
		},
		Retry: RetryConfig{
			MaxAttempts:       5,
			RateLimitBase:     15 * time.Second,
			RateLimitStep:     10 * time.Second,
			ErrorBase:         5 * time.Second,
			ErrorStep:         3 * time.Second,
			Cooldown:          10 * time.Second,
			RetryPassCooldown: 30 * time.Second,
			Regenerate:        RegenerateOnAnySuccess,
		},
		Charts: ChartConfig{TimeSeries: true, ComparisonTop: 8},
		Report: ReportConfig{
			Title:               "Web Novel Genre & IP Expansion Trend Report",
			Subtitle:            "Search interest analysis",
			Source:              "Google Trends",
			TopRows:             10,
			GrowthThreshold:     10,
			HotThreshold:        20,
			VolatilityThreshold: 5,
			ChangeRows:          8,
			ConsistentTop:       5,
		},
		Font: FontConfig{
			URL:    "https://github.com/google/fonts/raw/main/ofl/nanumgothic/NanumGothic-Regular.ttf",
			Family: "NanumGothic",
		},
		HTTP: HTTPConfig{
			BaseURL: "https://trends.google.com",
			Timeout: 30 * time.Second,
		},
	}
}

// LoadConfig reads a YAML config file and merges it over Default().
// A missing file is not an error when allowMissing is true.
func LoadConfig(path string, allowMissing bool) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if allowMissing && errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the invariants the collector relies on.
func (c Config) Validate() error {
	if len(c.Windows) == 0 {
		return errors.New("at least one window is required")
	}
	slugs := make(map[string]struct{}, len(c.Windows))
	windowLabels := make(map[string]struct{}, len(c.Windows))
	for _, w := range c.Windows {
		if w.Label == "" || w.Slug == "" || w.Range == "" {
			return fmt.Errorf("window %q: label, slug and range are required", w.Label)
		}
		if _, dup := slugs[w.Slug]; dup {
			return fmt.Errorf("duplicate window slug %q", w.Slug)
		}
		slugs[w.Slug] = struct{}{}
		if _, dup := windowLabels[w.Label]; dup {
			return fmt.Errorf("duplicate window label %q", w.Label)
		}
		windowLabels[w.Label] = struct{}{}
	}

	if len(c.Datasets) == 0 {
		return errors.New("at least one dataset is required")
	}
	names := make(map[string]struct{}, len(c.Datasets))
	for _, d := range c.Datasets {
		if d.Name == "" {
			return errors.New("dataset name is required")
		}
		if _, dup := names[d.Name]; dup {
			return fmt.Errorf("duplicate dataset %q", d.Name)
		}
		names[d.Name] = struct{}{}
		if len(d.Groups) == 0 {
			return fmt.Errorf("dataset %q has no keyword groups", d.Name)
		}
		labels := make(map[string]struct{}, len(d.Groups))
		for _, g := range d.Groups {
			if g.Label == "" {
				return fmt.Errorf("dataset %q: group label is required", d.Name)
			}
			if _, dup := labels[g.Label]; dup {
				return fmt.Errorf("dataset %q: duplicate group %q", d.Name, g.Label)
			}
			labels[g.Label] = struct{}{}
			if len(g.Terms) == 0 || len(g.Terms) > MaxTermsPerGroup {
				return fmt.Errorf("dataset %q: group %q needs 1 to %d terms, has %d", d.Name, g.Label, MaxTermsPerGroup, len(g.Terms))
			}
		}
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("retry.max_attempts must be positive, got %d", c.Retry.MaxAttempts)
	}
	switch c.Retry.Regenerate {
	case RegenerateOnAnySuccess, RegenerateOnFullSuccess:
	default:
		return fmt.Errorf("retry.regenerate must be %q or %q, got %q", RegenerateOnAnySuccess, RegenerateOnFullSuccess, c.Retry.Regenerate)
	}
	return nil
}

// Dataset returns the dataset with the given name.
func (c Config) Dataset(name string) (Dataset, bool) {
	for _, d := range c.Datasets {
		if d.Name == name {
			return d, true
		}
	}
	return Dataset{}, false
}
