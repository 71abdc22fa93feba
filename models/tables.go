package models

// StatRow is the descriptive statistics of one group's series in one window.
// Rank is 1-based and follows Mean descending.
type StatRow struct {
	Rank   int
	Label  string
	Mean   float64
	Max    float64
	Min    float64
	StdDev float64
}

// ChangeRow compares a StatRow against the same label in an earlier window.
type ChangeRow struct {
	Window       string
	Label        string
	Mean         float64
	Max          float64
	Min          float64
	StdDev       float64
	Delta        float64
	DeltaPercent float64
}

// SummaryRow is one line of the cross-window summary table.
type SummaryRow struct {
	Window string
	Label  string
	Mean   float64
	Max    float64
	Min    float64
	StdDev float64
}

// FilterChanges returns the change rows of one window, order preserved.
func FilterChanges(rows []ChangeRow, window string) []ChangeRow {
	var out []ChangeRow
	for _, r := range rows {
		if r.Window == window {
			out = append(out, r)
		}
	}
	return out
}
