package models

import (
	"sort"
	"time"
)

// SeriesPoint is one interest sample, Value in [0,100].
type SeriesPoint struct {
	Time  time.Time
	Value float64
}

// SeriesTable holds the collected series of one dataset for one window.
// Columns are always reported in the configured group order, independent of
// the order in which they were set, so a backfilled column lands where a
// clean run would have put it.
type SeriesTable struct {
	Window string
	order  []string
	series map[string][]SeriesPoint
}

// NewSeriesTable creates an empty table whose columns follow order.
func NewSeriesTable(window string, order []string) *SeriesTable {
	o := make([]string, len(order))
	copy(o, order)
	return &SeriesTable{
		Window: window,
		order:  o,
		series: make(map[string][]SeriesPoint),
	}
}

// Set stores (or replaces) the series for label. Labels outside the
// configured order are appended after it.
func (t *SeriesTable) Set(label string, points []SeriesPoint) {
	if !t.known(label) {
		t.order = append(t.order, label)
	}
	t.series[label] = points
}

func (t *SeriesTable) known(label string) bool {
	for _, l := range t.order {
		if l == label {
			return true
		}
	}
	return false
}

// Series returns the points for label.
func (t *SeriesTable) Series(label string) ([]SeriesPoint, bool) {
	p, ok := t.series[label]
	return p, ok
}

// Labels returns the labels that have data, in column order.
func (t *SeriesTable) Labels() []string {
	var labels []string
	for _, l := range t.order {
		if _, ok := t.series[l]; ok {
			labels = append(labels, l)
		}
	}
	return labels
}

// Empty reports whether no column has been set.
func (t *SeriesTable) Empty() bool {
	return t == nil || len(t.series) == 0
}

// Timestamps returns the sorted union of all timestamps in the table.
func (t *SeriesTable) Timestamps() []time.Time {
	seen := make(map[int64]time.Time)
	for _, pts := range t.series {
		for _, p := range pts {
			seen[p.Time.Unix()] = p.Time
		}
	}
	out := make([]time.Time, 0, len(seen))
	for _, ts := range seen {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Before(out[j]) })
	return out
}
