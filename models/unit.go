package models

// UnitState is the collection state of one (dataset, group, window) unit.
//
//	pending -> fetched | failed-soft
//	failed-soft -> retried-ok | retried-failed
type UnitState string

const (
	UnitPending       UnitState = "pending"
	UnitFetched       UnitState = "fetched"
	UnitFailedSoft    UnitState = "failed-soft"
	UnitRetriedOK     UnitState = "retried-ok"
	UnitRetriedFailed UnitState = "retried-failed"
)

// Terminal reports whether no further transition is allowed.
func (s UnitState) Terminal() bool {
	return s == UnitFetched || s == UnitRetriedOK || s == UnitRetriedFailed
}

// HasData reports whether the unit ended up with a series.
func (s UnitState) HasData() bool {
	return s == UnitFetched || s == UnitRetriedOK
}

// Unit is the explicit state-machine record for one unit of work.
type Unit struct {
	Dataset   string    `yaml:"dataset"`
	Window    string    `yaml:"window"`
	Label     string    `yaml:"label"`
	Terms     []string  `yaml:"terms"`
	State     UnitState `yaml:"state"`
	Attempts  int       `yaml:"attempts"`
	LastError string    `yaml:"last_error,omitempty"`
}

// FailureRecord is a soft-failed unit kept for the consolidated retry pass.
type FailureRecord struct {
	Dataset string
	Window  string
	Label   string
	Terms   []string
	Err     error
}
