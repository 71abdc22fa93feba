// Package charts renders the PNG charts embedded in the report: ranking
// bars, interest-over-time lines and the cross-window comparison.
package charts

import (
	"bytes"
	"fmt"
	"image/color"

	"golang.org/x/image/font/opentype"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/dtnitsch/trendreport/models"
)

const (
	width  = 10 * vg.Inch
	height = 6 * vg.Inch
)

var rankingColor = color.RGBA{R: 0x42, G: 0x85, B: 0xF4, A: 0xFF}

// UseFont registers a TTF under name and makes it the default for every
// chart rendered afterwards.
func UseFont(ttf []byte, name string) error {
	face, err := opentype.Parse(ttf)
	if err != nil {
		return fmt.Errorf("failed to parse font %s: %w", name, err)
	}
	f := font.Font{Typeface: font.Typeface(name)}
	font.DefaultCache.Add(font.Collection{{Font: f, Face: face}})
	plot.DefaultFont = f
	plotter.DefaultFont = f
	return nil
}

func encode(p *plot.Plot) ([]byte, error) {
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return nil, fmt.Errorf("failed to render chart: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to encode chart: %w", err)
	}
	return buf.Bytes(), nil
}

// Ranking draws horizontal bars of the mean interest, the highest mean on
// top, each bar labelled with its value.
func Ranking(title string, rows []models.StatRow) ([]byte, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("ranking chart %q: no rows", title)
	}

	// Bars are laid out bottom-up, so walk the ranking backwards.
	n := len(rows)
	values := make(plotter.Values, n)
	names := make([]string, n)
	labels := plotter.XYLabels{XYs: make(plotter.XYs, n), Labels: make([]string, n)}
	for i, r := range rows {
		pos := n - 1 - i
		values[pos] = r.Mean
		names[pos] = r.Label
		labels.XYs[pos] = plotter.XY{X: r.Mean + 0.5, Y: float64(pos)}
		labels.Labels[pos] = fmt.Sprintf("%.1f", r.Mean)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Mean interest"
	p.X.Min = 0

	bars, err := plotter.NewBarChart(values, vg.Points(14))
	if err != nil {
		return nil, fmt.Errorf("ranking chart %q: %w", title, err)
	}
	bars.Horizontal = true
	bars.Color = rankingColor
	bars.LineStyle.Width = 0

	valueLabels, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("ranking chart %q: %w", title, err)
	}

	p.Add(bars, valueLabels, plotter.NewGrid())
	p.NominalY(names...)
	return encode(p)
}

// TimeSeries draws one line per label of table against time.
func TimeSeries(title string, table *models.SeriesTable) ([]byte, error) {
	if table.Empty() {
		return nil, fmt.Errorf("time-series chart %q: empty table", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Interest (0-100)"
	p.Y.Min = 0
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	for i, label := range table.Labels() {
		points, _ := table.Series(label)
		if len(points) == 0 {
			continue
		}
		xys := make(plotter.XYs, len(points))
		for j, pt := range points {
			xys[j] = plotter.XY{X: float64(pt.Time.Unix()), Y: pt.Value}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("time-series chart %q: %s: %w", title, label, err)
		}
		line.Color = plotutil.Color(i)
		line.Dashes = plotutil.Dashes(i / len(plotutil.DefaultColors))
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(label, line)
	}
	return encode(p)
}

// Comparison draws grouped bars for the top labels of the earliest window
// with data, one bar per window with data. A label missing from a window is
// drawn as 0. It returns nil when fewer than two windows have data.
func Comparison(title string, windows []string, byWindow map[string][]models.StatRow, top int) ([]byte, error) {
	var present []string
	for _, w := range windows {
		if len(byWindow[w]) > 0 {
			present = append(present, w)
		}
	}
	if len(present) < 2 {
		return nil, nil
	}

	base := byWindow[present[0]]
	if top > 0 && len(base) > top {
		base = base[:top]
	}
	labels := make([]string, len(base))
	for i, r := range base {
		labels[i] = r.Label
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Mean interest"
	p.Y.Min = 0
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	barWidth := vg.Points(float64(48) / float64(len(present)))
	for i, w := range present {
		means := make(map[string]float64, len(byWindow[w]))
		for _, r := range byWindow[w] {
			means[r.Label] = r.Mean
		}
		values := make(plotter.Values, len(labels))
		for j, l := range labels {
			values[j] = means[l]
		}

		bars, err := plotter.NewBarChart(values, barWidth)
		if err != nil {
			return nil, fmt.Errorf("comparison chart %q: %s: %w", title, w, err)
		}
		bars.Color = plotutil.Color(i)
		bars.LineStyle.Width = 0
		bars.Offset = barWidth * vg.Length(2*i-len(present)+1) / 2
		p.Add(bars)
		p.Legend.Add(w, bars)
	}
	p.NominalX(labels...)
	return encode(p)
}
