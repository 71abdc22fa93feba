package stats

import "github.com/dtnitsch/trendreport/models"

// Changes compares every window's rows with the nearest earlier window (in
// the order given) whose rows contain the same label. Rows without such a
// baseline, including every row of the first window, get a zero delta.
// Windows missing from byWindow are skipped.
func Changes(windows []string, byWindow map[string][]models.StatRow) []models.ChangeRow {
	var out []models.ChangeRow
	for i, w := range windows {
		rows, ok := byWindow[w]
		if !ok {
			continue
		}
		for _, r := range rows {
			change := models.ChangeRow{
				Window: w,
				Label:  r.Label,
				Mean:   r.Mean,
				Max:    r.Max,
				Min:    r.Min,
				StdDev: r.StdDev,
			}
			if prev, found := baseline(windows[:i], byWindow, r.Label); found {
				change.Delta, change.DeltaPercent = Delta(r.Mean, prev.Mean)
			}
			out = append(out, change)
		}
	}
	return out
}

// baseline walks earlier windows from the closest one backwards.
func baseline(earlier []string, byWindow map[string][]models.StatRow, label string) (models.StatRow, bool) {
	for j := len(earlier) - 1; j >= 0; j-- {
		if row, ok := Find(byWindow[earlier[j]], label); ok {
			return row, true
		}
	}
	return models.StatRow{}, false
}

// Delta returns the rounded absolute and percent change from prev to cur.
// The percent change is 0 when prev is 0.
func Delta(cur, prev float64) (delta, percent float64) {
	delta = cur - prev
	if prev != 0 {
		percent = delta / prev * 100
	}
	return Round2(delta), Round2(percent)
}

// Summary concatenates all windows' rows in window order.
func Summary(windows []string, byWindow map[string][]models.StatRow) []models.SummaryRow {
	var out []models.SummaryRow
	for _, w := range windows {
		for _, r := range byWindow[w] {
			out = append(out, models.SummaryRow{
				Window: w,
				Label:  r.Label,
				Mean:   r.Mean,
				Max:    r.Max,
				Min:    r.Min,
				StdDev: r.StdDev,
			})
		}
	}
	return out
}
