package manifest

import (
	"fmt"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/storage"
)

// Retry pass outcomes as recorded in the manifest.
const (
	RetrySkipped  = "skipped"
	RetryComplete = "complete"
	RetryPartial  = "partial"
)

// Run is what the collector hands over to be recorded.
type Run struct {
	StartedAt  time.Time
	FinishedAt time.Time
	Units      []models.Unit
	RetryPass  string
	Artifacts  []string // names relative to the output directory
	Report     string
}

// NewRunID returns a fresh identifier for a run.
func NewRunID() string {
	return uuid.NewString()
}

// Build assembles the manifest. Artifact sizes are read from s; artifacts
// that vanished in the meantime are listed with size 0.
func Build(runID string, run Run, s *storage.Storage) RunManifest {
	m := RunManifest{
		RunID:        runID,
		StartedAt:    run.StartedAt.Format(time.RFC3339),
		FinishedAt:   run.FinishedAt.Format(time.RFC3339),
		Duration:     run.FinishedAt.Sub(run.StartedAt).Round(time.Second).String(),
		TotalUnits:   len(run.Units),
		UnitsByState: make(map[string]int),
		RetryPass:    run.RetryPass,
		Report:       run.Report,
	}

	for _, u := range run.Units {
		m.UnitsByState[string(u.State)]++
		m.Units = append(m.Units, UnitSummary{
			Dataset:  u.Dataset,
			Window:   u.Window,
			Label:    u.Label,
			State:    string(u.State),
			Attempts: u.Attempts,
		})
		if !u.State.HasData() {
			m.Failures = append(m.Failures, FailureSummary{
				Dataset: u.Dataset,
				Window:  u.Window,
				Label:   u.Label,
				Error:   u.LastError,
			})
		}
	}

	names := make([]string, 0, len(run.Artifacts))
	seen := make(map[string]struct{}, len(run.Artifacts))
	for _, name := range run.Artifacts {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		a := ArtifactSummary{Name: name}
		if st, err := s.GetFileStats(name); err == nil {
			a.SizeBytes = st.SizeBytes
		}
		a.Size = humanize.Bytes(uint64(a.SizeBytes))
		m.Artifacts = append(m.Artifacts, a)
	}
	return m
}

// Write builds the manifest and saves it as storage.ManifestFile.
func Write(runID string, run Run, s *storage.Storage) (RunManifest, error) {
	m := Build(runID, run, s)
	data, err := yaml.Marshal(m)
	if err != nil {
		return m, fmt.Errorf("error marshalling manifest: %w", err)
	}
	if err := s.SaveFile(storage.ManifestFile, data); err != nil {
		return m, fmt.Errorf("error saving manifest: %w", err)
	}
	return m, nil
}
