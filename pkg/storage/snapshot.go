package storage

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/dtnitsch/trendreport/models"
)

// utf8BOM lets spreadsheet applications detect the encoding of the snapshots.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var (
	statsHeader   = []string{"rank", "label", "mean", "max", "min", "std_dev"}
	changesHeader = []string{"window", "label", "mean", "max", "min", "std_dev", "delta", "delta_percent"}
	summaryHeader = []string{"window", "label", "mean", "max", "min", "std_dev"}
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func encodeCSV(records [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("failed to encode csv: %w", err)
	}
	return buf.Bytes(), nil
}

func decodeCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	r := csv.NewReader(bytes.NewReader(data))
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to decode csv: %w", err)
	}
	return records, nil
}

// WriteSeries writes the raw series table: a date column followed by one
// column per label, rows on the union of timestamps, blanks where a label
// has no sample. An empty table writes nothing and returns false.
func (s *Storage) WriteSeries(name string, table *models.SeriesTable) (bool, error) {
	if table.Empty() {
		return false, nil
	}
	labels := table.Labels()
	index := make([]map[int64]float64, len(labels))
	for i, l := range labels {
		points, _ := table.Series(l)
		index[i] = make(map[int64]float64, len(points))
		for _, p := range points {
			index[i][p.Time.Unix()] = p.Value
		}
	}

	records := [][]string{append([]string{"date"}, labels...)}
	for _, ts := range table.Timestamps() {
		row := make([]string, 0, len(labels)+1)
		row = append(row, ts.UTC().Format(time.RFC3339))
		for i := range labels {
			if v, ok := index[i][ts.Unix()]; ok {
				row = append(row, formatFloat(v))
			} else {
				row = append(row, "")
			}
		}
		records = append(records, row)
	}

	data, err := encodeCSV(records)
	if err != nil {
		return false, err
	}
	return true, s.SaveFile(name, data)
}

// ReadSeries loads a raw series table written by WriteSeries.
func (s *Storage) ReadSeries(name, window string) (*models.SeriesTable, error) {
	data, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	records, err := decodeCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 || len(records[0]) == 0 {
		return models.NewSeriesTable(window, nil), nil
	}

	labels := records[0][1:]
	columns := make([][]models.SeriesPoint, len(labels))
	for line, rec := range records[1:] {
		ts, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: invalid date %q: %w", name, line+2, rec[0], err)
		}
		for i := range labels {
			if i+1 >= len(rec) || rec[i+1] == "" {
				continue
			}
			v, err := strconv.ParseFloat(rec[i+1], 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", name, line+2, err)
			}
			columns[i] = append(columns[i], models.SeriesPoint{Time: ts, Value: v})
		}
	}

	table := models.NewSeriesTable(window, labels)
	for i, l := range labels {
		table.Set(l, columns[i])
	}
	return table, nil
}

// WriteStats writes ranked stat rows. No rows, no file.
func (s *Storage) WriteStats(name string, rows []models.StatRow) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}
	records := [][]string{statsHeader}
	for _, r := range rows {
		records = append(records, []string{
			strconv.Itoa(r.Rank), r.Label,
			formatFloat(r.Mean), formatFloat(r.Max), formatFloat(r.Min), formatFloat(r.StdDev),
		})
	}
	data, err := encodeCSV(records)
	if err != nil {
		return false, err
	}
	return true, s.SaveFile(name, data)
}

// ReadStats loads rows written by WriteStats, in file order.
func (s *Storage) ReadStats(name string) ([]models.StatRow, error) {
	rows, err := s.readRecords(name, statsHeader)
	if err != nil {
		return nil, err
	}
	out := make([]models.StatRow, 0, len(rows))
	for _, r := range rows {
		var sr models.StatRow
		sr.Label = r.str("label")
		sr.Rank = int(r.num("rank"))
		sr.Mean, sr.Max, sr.Min, sr.StdDev = r.num("mean"), r.num("max"), r.num("min"), r.num("std_dev")
		if r.err != nil {
			return nil, fmt.Errorf("%s: %w", name, r.err)
		}
		out = append(out, sr)
	}
	return out, nil
}

// WriteChanges writes the consolidated change table. No rows, no file.
func (s *Storage) WriteChanges(name string, rows []models.ChangeRow) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}
	records := [][]string{changesHeader}
	for _, r := range rows {
		records = append(records, []string{
			r.Window, r.Label,
			formatFloat(r.Mean), formatFloat(r.Max), formatFloat(r.Min), formatFloat(r.StdDev),
			formatFloat(r.Delta), formatFloat(r.DeltaPercent),
		})
	}
	data, err := encodeCSV(records)
	if err != nil {
		return false, err
	}
	return true, s.SaveFile(name, data)
}

// ReadChanges loads rows written by WriteChanges.
func (s *Storage) ReadChanges(name string) ([]models.ChangeRow, error) {
	rows, err := s.readRecords(name, changesHeader)
	if err != nil {
		return nil, err
	}
	out := make([]models.ChangeRow, 0, len(rows))
	for _, r := range rows {
		cr := models.ChangeRow{
			Window:       r.str("window"),
			Label:        r.str("label"),
			Mean:         r.num("mean"),
			Max:          r.num("max"),
			Min:          r.num("min"),
			StdDev:       r.num("std_dev"),
			Delta:        r.num("delta"),
			DeltaPercent: r.num("delta_percent"),
		}
		if r.err != nil {
			return nil, fmt.Errorf("%s: %w", name, r.err)
		}
		out = append(out, cr)
	}
	return out, nil
}

// WriteSummary writes the cross-window summary table. No rows, no file.
func (s *Storage) WriteSummary(name string, rows []models.SummaryRow) (bool, error) {
	if len(rows) == 0 {
		return false, nil
	}
	records := [][]string{summaryHeader}
	for _, r := range rows {
		records = append(records, []string{
			r.Window, r.Label,
			formatFloat(r.Mean), formatFloat(r.Max), formatFloat(r.Min), formatFloat(r.StdDev),
		})
	}
	data, err := encodeCSV(records)
	if err != nil {
		return false, err
	}
	return true, s.SaveFile(name, data)
}

// record is one CSV line addressed by header name. The first parse error
// sticks so callers can check once per row.
type record struct {
	cols   map[string]int
	values []string
	err    error
}

func (r *record) str(col string) string {
	i, ok := r.cols[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return r.values[i]
}

func (r *record) num(col string) float64 {
	s := r.str(col)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && r.err == nil {
		r.err = fmt.Errorf("column %s: %w", col, err)
	}
	return v
}

func (s *Storage) readRecords(name string, required []string) ([]*record, error) {
	data, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	records, err := decodeCSV(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		cols[h] = i
	}
	for _, h := range required {
		if _, ok := cols[h]; !ok {
			return nil, fmt.Errorf("%s: missing column %q", name, h)
		}
	}

	out := make([]*record, 0, len(records)-1)
	for _, values := range records[1:] {
		out = append(out, &record{cols: cols, values: values})
	}
	return out, nil
}
