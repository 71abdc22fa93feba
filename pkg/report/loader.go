// Package report reads the snapshots left by the collector and renders the
// monthly PDF report.
package report

import (
	"log/slog"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/storage"
)

type statsKey struct {
	dataset string
	window  string // slug
}

// Data is everything the document is built from. Missing or unreadable
// files load as empty tables.
type Data struct {
	Windows  []models.Window
	Datasets []models.Dataset

	store   *storage.Storage
	stats   map[statsKey][]models.StatRow
	changes map[string][]models.ChangeRow
}

// Load reads the stats and changes snapshots of every dataset and window.
func Load(store *storage.Storage, windows []models.Window, datasets []models.Dataset, logger *slog.Logger) *Data {
	d := &Data{
		Windows:  windows,
		Datasets: datasets,
		store:    store,
		stats:    make(map[statsKey][]models.StatRow),
		changes:  make(map[string][]models.ChangeRow),
	}

	for _, ds := range datasets {
		for _, w := range windows {
			name := storage.StatsFile(ds.Name, w.Slug)
			if !store.HasFile(name) {
				logger.Debug("stats snapshot missing", "file", name)
				continue
			}
			rows, err := store.ReadStats(name)
			if err != nil {
				logger.Warn("stats snapshot unreadable, treating as empty", "file", name, "error", err)
				continue
			}
			d.stats[statsKey{ds.Name, w.Slug}] = rows
		}

		name := storage.ChangesFile(ds.Name)
		if !store.HasFile(name) {
			continue
		}
		rows, err := store.ReadChanges(name)
		if err != nil {
			logger.Warn("changes snapshot unreadable, treating as empty", "file", name, "error", err)
			continue
		}
		d.changes[ds.Name] = rows
	}
	return d
}

// Stats returns the ranked rows of a dataset for a window.
func (d *Data) Stats(dataset string, w models.Window) []models.StatRow {
	return d.stats[statsKey{dataset, w.Slug}]
}

// Changes returns the change rows of a dataset for a window.
func (d *Data) Changes(dataset string, w models.Window) []models.ChangeRow {
	return models.FilterChanges(d.changes[dataset], w.Label)
}

// HasChanges reports whether any dataset has change rows.
func (d *Data) HasChanges() bool {
	for _, rows := range d.changes {
		if len(rows) > 0 {
			return true
		}
	}
	return false
}

// WindowHasData reports whether any dataset has stats for w.
func (d *Data) WindowHasData(w models.Window) bool {
	for _, ds := range d.Datasets {
		if len(d.Stats(ds.Name, w)) > 0 {
			return true
		}
	}
	return false
}

// Chart returns the path of a chart image if it exists.
func (d *Data) Chart(dataset string, kind storage.ChartKind, windowSlug string) (string, bool) {
	name := storage.ChartFile(dataset, kind, windowSlug)
	if !d.store.HasFile(name) {
		return "", false
	}
	return d.store.Path(name), true
}

// Primary is the first configured dataset; the narrative is written around it.
func (d *Data) Primary() (models.Dataset, bool) {
	if len(d.Datasets) == 0 {
		return models.Dataset{}, false
	}
	return d.Datasets[0], true
}

// Secondary returns every dataset after the primary one.
func (d *Data) Secondary() []models.Dataset {
	if len(d.Datasets) < 2 {
		return nil
	}
	return d.Datasets[1:]
}
