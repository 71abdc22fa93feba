package collect

import (
	"github.com/dtnitsch/trendreport/models"
)

type tableKey struct {
	dataset string
	window  string // slug
}

// Results is the single aggregate a run builds: one series table and one
// ranked stats table per (dataset, window), plus the unit ledger and the
// soft failures awaiting the retry pass.
type Results struct {
	windows  []models.Window
	datasets []models.Dataset

	tables   map[tableKey]*models.SeriesTable
	stats    map[tableKey][]models.StatRow
	units    []*models.Unit
	failures []models.FailureRecord
}

// NewResults prepares empty tables and a pending unit for every
// (window, dataset, group), in sweep order.
func NewResults(windows []models.Window, datasets []models.Dataset) *Results {
	r := &Results{
		windows:  windows,
		datasets: datasets,
		tables:   make(map[tableKey]*models.SeriesTable),
		stats:    make(map[tableKey][]models.StatRow),
	}
	for _, w := range windows {
		for _, d := range datasets {
			r.tables[tableKey{d.Name, w.Slug}] = models.NewSeriesTable(w.Label, d.Labels())
			for _, g := range d.Groups {
				r.units = append(r.units, &models.Unit{
					Dataset: d.Name,
					Window:  w.Label,
					Label:   g.Label,
					Terms:   g.Terms,
					State:   models.UnitPending,
				})
			}
		}
	}
	return r
}

// Table returns the series table of a dataset for a window slug.
func (r *Results) Table(dataset, windowSlug string) *models.SeriesTable {
	return r.tables[tableKey{dataset, windowSlug}]
}

// Stats returns the ranked stats of a dataset for a window slug.
func (r *Results) Stats(dataset, windowSlug string) []models.StatRow {
	return r.stats[tableKey{dataset, windowSlug}]
}

func (r *Results) setStats(dataset, windowSlug string, rows []models.StatRow) {
	r.stats[tableKey{dataset, windowSlug}] = rows
}

// WindowLabels returns the window labels in fixed order.
func (r *Results) WindowLabels() []string {
	out := make([]string, len(r.windows))
	for i, w := range r.windows {
		out[i] = w.Label
	}
	return out
}

// StatsByWindow returns a dataset's stats keyed by window label, omitting
// windows without rows.
func (r *Results) StatsByWindow(dataset string) map[string][]models.StatRow {
	out := make(map[string][]models.StatRow)
	for _, w := range r.windows {
		if rows := r.Stats(dataset, w.Slug); len(rows) > 0 {
			out[w.Label] = rows
		}
	}
	return out
}

// Units returns a snapshot of the ledger in sweep order.
func (r *Results) Units() []models.Unit {
	out := make([]models.Unit, len(r.units))
	for i, u := range r.units {
		out[i] = *u
	}
	return out
}

// Failures returns the soft failures recorded during the sweep.
func (r *Results) Failures() []models.FailureRecord {
	return r.failures
}

func (r *Results) unit(dataset, window, label string) *models.Unit {
	for _, u := range r.units {
		if u.Dataset == dataset && u.Window == window && u.Label == label {
			return u
		}
	}
	return nil
}

func (r *Results) window(label string) (models.Window, int) {
	for i, w := range r.windows {
		if w.Label == label {
			return w, i
		}
	}
	return models.Window{}, -1
}

func (r *Results) dataset(name string) (models.Dataset, int) {
	for i, d := range r.datasets {
		if d.Name == name {
			return d, i
		}
	}
	return models.Dataset{}, -1
}
