package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Len(t, cfg.Windows, 3)

	genre, ok := cfg.Dataset("genre")
	require.True(t, ok)
	assert.Len(t, genre.Groups, 12)

	ip, ok := cfg.Dataset("ip_expansion")
	require.True(t, ok)
	assert.Equal(t, []string{"웹툰화", "드라마화", "영화화", "게임화"}, ip.Labels())
}

func TestLoadConfig_MergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trendreport.yaml")
	data := `
retry:
  cooldown: 2s
  regenerate: full-success
charts:
  timeseries: false
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path, false)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Retry.Cooldown)
	assert.Equal(t, RegenerateOnFullSuccess, cfg.Retry.Regenerate)
	assert.False(t, cfg.Charts.TimeSeries)
	assert.Equal(t, 5, cfg.Retry.MaxAttempts, "unset keys keep defaults")
	assert.Len(t, cfg.Datasets, 2)
}

func TestLoadConfig_Missing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.yaml")

	cfg, err := LoadConfig(path, true)
	require.NoError(t, err)
	assert.Equal(t, Default().Windows, cfg.Windows)

	_, err = LoadConfig(path, false)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "no windows", mutate: func(c *Config) { c.Windows = nil }, wantErr: "at least one window"},
		{name: "duplicate slug", mutate: func(c *Config) { c.Windows[1].Slug = c.Windows[0].Slug }, wantErr: "duplicate window slug"},
		{name: "duplicate window label", mutate: func(c *Config) { c.Windows[1].Label = c.Windows[0].Label }, wantErr: "duplicate window label"},
		{name: "no datasets", mutate: func(c *Config) { c.Datasets = nil }, wantErr: "at least one dataset"},
		{name: "duplicate dataset", mutate: func(c *Config) { c.Datasets[1].Name = c.Datasets[0].Name }, wantErr: "duplicate dataset"},
		{name: "empty group", mutate: func(c *Config) { c.Datasets[0].Groups[0].Terms = nil }, wantErr: "needs 1 to 5 terms"},
		{name: "too many terms", mutate: func(c *Config) {
			c.Datasets[0].Groups[0].Terms = []string{"a", "b", "c", "d", "e", "f"}
		}, wantErr: "needs 1 to 5 terms"},
		{name: "duplicate label", mutate: func(c *Config) {
			c.Datasets[0].Groups[1].Label = c.Datasets[0].Groups[0].Label
		}, wantErr: "duplicate group"},
		{name: "attempts", mutate: func(c *Config) { c.Retry.MaxAttempts = 0 }, wantErr: "max_attempts"},
		{name: "policy", mutate: func(c *Config) { c.Retry.Regenerate = "sometimes" }, wantErr: "retry.regenerate"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadConfig_RejectsDuplicateWindowLabel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trendreport.yaml")
	data := `
windows:
  - {label: W, slug: 1m, range: "today 1-m"}
  - {label: W, slug: 3m, range: "today 3-m"}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	_, err := LoadConfig(path, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `duplicate window label "W"`)
}
