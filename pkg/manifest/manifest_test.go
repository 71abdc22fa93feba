package manifest

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/storage"
)

func TestWrite(t *testing.T) {
	s, err := storage.New(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, s.SaveFile("genre_stats_1m.csv", make([]byte, 2048)))

	start := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	run := Run{
		StartedAt:  start,
		FinishedAt: start.Add(95 * time.Second),
		RetryPass:  RetryPartial,
		Units: []models.Unit{
			{Dataset: "genre", Window: "1개월", Label: "로맨스", State: models.UnitFetched, Attempts: 1},
			{Dataset: "genre", Window: "1개월", Label: "무협", State: models.UnitRetriedOK, Attempts: 3},
			{Dataset: "genre", Window: "3개월", Label: "BL", State: models.UnitRetriedFailed, Attempts: 5, LastError: "rate limited"},
		},
		Artifacts: []string{"genre_stats_1m.csv", "gone.png", "genre_stats_1m.csv"},
	}

	id := NewRunID()
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	m, err := Write(id, run, s)
	require.NoError(t, err)

	assert.Equal(t, "1m35s", m.Duration)
	assert.Equal(t, 3, m.TotalUnits)
	assert.Equal(t, 1, m.UnitsByState["retried-failed"])
	require.Len(t, m.Failures, 1)
	assert.Equal(t, "BL", m.Failures[0].Label)

	require.Len(t, m.Artifacts, 2)
	assert.Equal(t, "genre_stats_1m.csv", m.Artifacts[0].Name)
	assert.Equal(t, "2.0 kB", m.Artifacts[0].Size)
	assert.Equal(t, int64(0), m.Artifacts[1].SizeBytes)

	data, err := s.ReadFile(storage.ManifestFile)
	require.NoError(t, err)
	var back RunManifest
	require.NoError(t, yaml.Unmarshal(data, &back))
	assert.Equal(t, id, back.RunID)
	assert.Equal(t, RetryPartial, back.RetryPass)
}
