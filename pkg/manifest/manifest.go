package manifest

// RunManifest is the YAML record of one collection run. It lists what was
// attempted, what is still missing and every artifact that landed on disk.
type RunManifest struct {
	RunID        string            `yaml:"run_id"`
	StartedAt    string            `yaml:"started_at"`
	FinishedAt   string            `yaml:"finished_at"`
	Duration     string            `yaml:"duration"`
	TotalUnits   int               `yaml:"total_units"`
	UnitsByState map[string]int    `yaml:"units_by_state"`
	RetryPass    string            `yaml:"retry_pass"` // "skipped", "complete" or "partial"
	Failures     []FailureSummary  `yaml:"failures,omitempty"`
	Artifacts    []ArtifactSummary `yaml:"artifacts"`
	Report       string            `yaml:"report,omitempty"`
	Units        []UnitSummary     `yaml:"units"`
}

// FailureSummary is a unit that still has no data after the retry pass.
type FailureSummary struct {
	Dataset string `yaml:"dataset"`
	Window  string `yaml:"window"`
	Label   string `yaml:"label"`
	Error   string `yaml:"error"`
}

// ArtifactSummary is one file written by the run.
type ArtifactSummary struct {
	Name      string `yaml:"name"`
	SizeBytes int64  `yaml:"size_bytes"`
	Size      string `yaml:"size"`
}

// UnitSummary is the final state of one (dataset, window, group) unit.
type UnitSummary struct {
	Dataset  string `yaml:"dataset"`
	Window   string `yaml:"window"`
	Label    string `yaml:"label"`
	State    string `yaml:"state"`
	Attempts int    `yaml:"attempts"`
}
