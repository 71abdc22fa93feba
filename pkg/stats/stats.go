// Package stats derives ranked statistics and cross-window changes from
// collected series. Everything here is a pure function of its inputs and is
// cheap enough to recompute from scratch whenever a series changes.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/dtnitsch/trendreport/models"
)

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Describe returns mean, max, min and the sample standard deviation of
// values, unrounded. A single value has a standard deviation of 0.
func Describe(values []float64) (mean, hi, lo, std float64) {
	if len(values) == 0 {
		return 0, 0, 0, 0
	}
	mean, std = stat.MeanStdDev(values, nil)
	if math.IsNaN(std) {
		std = 0
	}
	return mean, floats.Max(values), floats.Min(values), std
}

// Compute builds the ranked StatRows of a table: one row per non-empty
// column, sorted by mean descending, ties kept in column order, ranks 1..n.
func Compute(table *models.SeriesTable) []models.StatRow {
	if table.Empty() {
		return nil
	}

	var rows []models.StatRow
	for _, label := range table.Labels() {
		points, _ := table.Series(label)
		if len(points) == 0 {
			continue
		}
		values := make([]float64, len(points))
		for i, p := range points {
			values[i] = p.Value
		}
		mean, hi, lo, std := Describe(values)
		rows = append(rows, models.StatRow{
			Label:  label,
			Mean:   Round2(mean),
			Max:    Round2(hi),
			Min:    Round2(lo),
			StdDev: Round2(std),
		})
	}

	Rank(rows)
	return rows
}

// Rank sorts rows by mean descending (stable) and renumbers them from 1.
func Rank(rows []models.StatRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Mean > rows[j].Mean
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}

// Means extracts the mean column in row order.
func Means(rows []models.StatRow) []float64 {
	out := make([]float64, len(rows))
	for i, r := range rows {
		out[i] = r.Mean
	}
	return out
}

// Find returns the row for label.
func Find(rows []models.StatRow, label string) (models.StatRow, bool) {
	for _, r := range rows {
		if r.Label == label {
			return r, true
		}
	}
	return models.StatRow{}, false
}
