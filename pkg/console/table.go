package console

import (
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/dtnitsch/trendreport/models"
)

// Table prints rows aligned under a header.
func (p *Printer) Table(header []string, rows [][]string) {
	if p.quiet || len(rows) == 0 {
		return
	}
	table := tablewriter.NewTable(p.out,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{ShowHeader: tw.Off},
			},
		}),
	)
	table.Header(header)
	_ = table.Bulk(rows)
	_ = table.Render()
}

// Ranking prints the first n stat rows.
func (p *Printer) Ranking(rows []models.StatRow, n int) {
	if n > len(rows) {
		n = len(rows)
	}
	out := make([][]string, 0, n)
	for _, r := range rows[:n] {
		out = append(out, []string{
			fmt.Sprintf("%d", r.Rank),
			r.Label,
			fmt.Sprintf("%.2f", r.Mean),
			fmt.Sprintf("%.2f", r.Max),
			fmt.Sprintf("%.2f", r.Min),
			fmt.Sprintf("%.2f", r.StdDev),
		})
	}
	p.Table([]string{"rank", "label", "mean", "max", "min", "std dev"}, out)
}
