package run

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtnitsch/trendreport/internal/collect"
	"github.com/dtnitsch/trendreport/internal/common"
	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/console"
	pdfreport "github.com/dtnitsch/trendreport/pkg/report"
	"github.com/dtnitsch/trendreport/pkg/storage"
)

func newEnv(t *testing.T) *common.Env {
	t.Helper()
	store, err := storage.New(t.TempDir())
	require.NoError(t, err)
	return &common.Env{
		Config:  models.Default(),
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		Printer: console.Discard(),
		Store:   store,
	}
}

func newSummary(env *common.Env) *collect.Summary {
	return &collect.Summary{Results: collect.NewResults(env.Config.Windows, env.Config.Datasets)}
}

func TestFinish_WritesManifest(t *testing.T) {
	env := newEnv(t)
	res := &pdfreport.Result{Path: filepath.Join(env.Store.Dir, "trend_report_2026_10.pdf")}

	require.NoError(t, finish(env, "run-1", time.Now(), newSummary(env), res, nil))
	assert.True(t, env.Store.HasFile(storage.ManifestFile))
}

func TestFinish_ReportErrorStillWritesManifest(t *testing.T) {
	env := newEnv(t)
	reportErr := errors.New("render failed")

	err := finish(env, "run-1", time.Now(), newSummary(env), nil, reportErr)
	require.Error(t, err)
	assert.ErrorIs(t, err, reportErr)
	assert.True(t, env.Store.HasFile(storage.ManifestFile))
}

func TestFinish_ReportAndManifestErrorsJoined(t *testing.T) {
	env := newEnv(t)
	require.NoError(t, os.RemoveAll(env.Store.Dir))
	reportErr := errors.New("render failed")

	err := finish(env, "run-1", time.Now(), newSummary(env), nil, reportErr)
	require.Error(t, err)
	assert.ErrorIs(t, err, reportErr)
	assert.Contains(t, err.Error(), "report: render failed")
	assert.Contains(t, err.Error(), storage.ManifestFile, "the manifest failure is not dropped")
}
