// Package analytics derives the narrative facts of the report from ranked
// statistics and change tables: leaders, movers, concentration and status.
package analytics

import (
	"sort"

	"github.com/dtnitsch/trendreport/models"
)

// Status is the badge shown next to a change row.
type Status string

const (
	StatusHot    Status = "HOT"
	StatusUp     Status = "UP"
	StatusDown   Status = "DOWN"
	StatusSteady Status = "STEADY"
)

// Thresholds are the percent cut-offs of the status badges and growth lists.
type Thresholds struct {
	Growth float64 // fast-growing in a window section
	Hot    float64 // HOT badge and short-term strategy
}

// DefaultThresholds are the cut-offs used when none are configured.
var DefaultThresholds = Thresholds{Growth: 10, Hot: 20}

// StatusOf classifies a percent change: HOT above t.Hot, UP above 0, DOWN
// below -t.Hot, STEADY otherwise.
func (t Thresholds) StatusOf(pct float64) Status {
	switch {
	case pct > t.Hot:
		return StatusHot
	case pct > 0:
		return StatusUp
	case pct < -t.Hot:
		return StatusDown
	default:
		return StatusSteady
	}
}

// TopLabels returns the labels of the first n rows. Rows are expected in
// rank order, as they are stored.
func TopLabels(rows []models.StatRow, n int) []string {
	if n > len(rows) {
		n = len(rows)
	}
	out := make([]string, 0, n)
	for _, r := range rows[:n] {
		out = append(out, r.Label)
	}
	return out
}

// ByPercent returns a copy of rows sorted by DeltaPercent descending, ties in
// input order.
func ByPercent(rows []models.ChangeRow) []models.ChangeRow {
	out := make([]models.ChangeRow, len(rows))
	copy(out, rows)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DeltaPercent > out[j].DeltaPercent
	})
	return out
}

// TopGrowth returns the n rows with the largest percent change.
func TopGrowth(rows []models.ChangeRow, n int) []models.ChangeRow {
	sorted := ByPercent(rows)
	if n < len(sorted) {
		sorted = sorted[:n]
	}
	return sorted
}

// TopDecline returns up to n rows with a negative percent change, steepest first.
func TopDecline(rows []models.ChangeRow, n int) []models.ChangeRow {
	var decline []models.ChangeRow
	for _, r := range rows {
		if r.DeltaPercent < 0 {
			decline = append(decline, r)
		}
	}
	sort.SliceStable(decline, func(i, j int) bool {
		return decline[i].DeltaPercent < decline[j].DeltaPercent
	})
	if n < len(decline) {
		decline = decline[:n]
	}
	return decline
}

// Above returns the labels whose percent change exceeds threshold, in row order.
func Above(rows []models.ChangeRow, threshold float64) []string {
	var out []string
	for _, r := range rows {
		if r.DeltaPercent > threshold {
			out = append(out, r.Label)
		}
	}
	return out
}

// Market is the whole-window overview of the executive summary.
type Market struct {
	Count          int
	AvgInterest    float64
	HighVolatility []string
}

// MarketSummary counts the groups, averages their means and picks the three
// most volatile by standard deviation.
func MarketSummary(rows []models.StatRow) Market {
	if len(rows) == 0 {
		return Market{}
	}
	byStd := make([]models.StatRow, len(rows))
	copy(byStd, rows)
	sort.SliceStable(byStd, func(i, j int) bool {
		return byStd[i].StdDev > byStd[j].StdDev
	})
	return Market{
		Count:          len(rows),
		AvgInterest:    meanOf(rows),
		HighVolatility: TopLabels(byStd, 3),
	}
}

// Concentration compares the mean of the top three means with the mean of
// all means, in percent. It is 0 when the overall mean is 0.
func Concentration(rows []models.StatRow) (top3, overall, pct float64) {
	if len(rows) == 0 {
		return 0, 0, 0
	}
	n := 3
	if len(rows) < n {
		n = len(rows)
	}
	top3 = meanOf(rows[:n])
	overall = meanOf(rows)
	if overall == 0 {
		return top3, overall, 0
	}
	return top3, overall, (top3/overall - 1) * 100
}

// ConsistentLeaders intersects the top n labels of short and long, keeping
// the order of short.
func ConsistentLeaders(short, long []models.StatRow, n int) []string {
	inLong := make(map[string]struct{})
	for _, l := range TopLabels(long, n) {
		inLong[l] = struct{}{}
	}
	var out []string
	for _, l := range TopLabels(short, n) {
		if _, ok := inLong[l]; ok {
			out = append(out, l)
		}
	}
	return out
}

func meanOf(rows []models.StatRow) float64 {
	var sum float64
	for _, r := range rows {
		sum += r.Mean
	}
	return sum / float64(len(rows))
}
