package storage

import (
	"fmt"
	"time"
)

// ChartKind names the chart images.
type ChartKind string

const (
	ChartRanking    ChartKind = "ranking"
	ChartTrends     ChartKind = "trends"
	ChartComparison ChartKind = "period_comparison"
)

// ManifestFile is the run manifest written next to the artifacts.
const ManifestFile = "run_manifest.yaml"

// SeriesFile is the raw series snapshot of a dataset for one window.
func SeriesFile(dataset, windowSlug string) string {
	return fmt.Sprintf("%s_data_%s.csv", dataset, windowSlug)
}

// StatsFile is the ranked statistics snapshot of a dataset for one window.
func StatsFile(dataset, windowSlug string) string {
	return fmt.Sprintf("%s_stats_%s.csv", dataset, windowSlug)
}

// ChangesFile is the consolidated cross-window change table of a dataset.
func ChangesFile(dataset string) string {
	return fmt.Sprintf("%s_changes_analysis.csv", dataset)
}

// SummaryFile is the cross-window summary table of a dataset.
func SummaryFile(dataset string) string {
	return fmt.Sprintf("%s_summary_all.csv", dataset)
}

// ChartFile is a per-window chart image. ChartComparison ignores windowSlug.
func ChartFile(dataset string, kind ChartKind, windowSlug string) string {
	if kind == ChartComparison {
		return fmt.Sprintf("%s_%s.png", dataset, kind)
	}
	return fmt.Sprintf("%s_%s_%s.png", dataset, kind, windowSlug)
}

// ReportFile is the document name for the run's year and month.
func ReportFile(at time.Time) string {
	return fmt.Sprintf("trend_report_%04d_%02d.pdf", at.Year(), int(at.Month()))
}
