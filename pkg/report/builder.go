package report

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dtnitsch/trendreport/models"
	"github.com/dtnitsch/trendreport/pkg/analytics"
	"github.com/dtnitsch/trendreport/pkg/fonts"
	"github.com/dtnitsch/trendreport/pkg/storage"
)

// Section titles, in document order.
const (
	SectionCover      = "Cover"
	SectionSummary    = "Executive Summary"
	SectionChanges    = "Change Analysis"
	SectionConclusion = "Conclusion and Outlook"
)

// WindowSection is the title of a window's section.
func WindowSection(w models.Window) string {
	return fmt.Sprintf("%s Analysis", w.Label)
}

// Result describes the written document.
type Result struct {
	Path     string
	Sections []string
	Pages    int
}

// Builder renders the report.
type Builder struct {
	cfg    models.ReportConfig
	font   fonts.Font
	logger *slog.Logger
	now    func() time.Time
}

// NewBuilder creates a builder. A nil logger uses slog.Default.
func NewBuilder(cfg models.ReportConfig, font fonts.Font, logger *slog.Logger) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{cfg: cfg, font: font, logger: logger, now: time.Now}
}

// Build writes trend_report_<YYYY>_<MM>.pdf into store. Sections without
// data are skipped; empty input yields a cover-only document.
func (b *Builder) Build(data *Data, store *storage.Storage) (*Result, error) {
	now := b.now()
	doc := newDocument(b.font, b.cfg.Title)
	res := &Result{}

	b.cover(doc, data, now)
	res.Sections = append(res.Sections, SectionCover)

	if b.summary(doc, data) {
		res.Sections = append(res.Sections, SectionSummary)
	}
	for i, w := range data.Windows {
		if b.window(doc, data, w, i == 0) {
			res.Sections = append(res.Sections, WindowSection(w))
		}
	}
	if b.changes(doc, data) {
		res.Sections = append(res.Sections, SectionChanges)
	}
	if b.conclusion(doc, data) {
		res.Sections = append(res.Sections, SectionConclusion)
	}

	res.Pages = doc.pages()
	pdf, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	name := storage.ReportFile(now)
	if err := store.SaveFile(name, pdf); err != nil {
		return nil, fmt.Errorf("failed to save report: %w", err)
	}
	res.Path = store.Path(name)

	b.logger.Info("report written", "file", res.Path, "pages", res.Pages, "sections", len(res.Sections))
	return res, nil
}

func (b *Builder) cover(doc *document, data *Data, now time.Time) {
	doc.page()
	doc.pdf.Ln(45)
	doc.title(fmt.Sprintf("%d.%02d %s", now.Year(), int(now.Month()), b.cfg.Title))
	if b.cfg.Subtitle != "" {
		doc.subtitle(b.cfg.Subtitle)
	}
	doc.pdf.Ln(25)

	windows := make([]string, len(data.Windows))
	for i, w := range data.Windows {
		windows[i] = w.Label
	}
	var coverage []string
	if len(data.Windows) > 0 {
		for _, ds := range data.Datasets {
			coverage = append(coverage, fmt.Sprintf("%d %s groups", len(data.Stats(ds.Name, data.Windows[0])), ds.Title))
		}
	}

	doc.centered(fmt.Sprintf("Issued: %s", now.Format("2006-01-02")))
	doc.centered(fmt.Sprintf("Periods analysed: %s", strings.Join(windows, ", ")))
	if len(coverage) > 0 {
		doc.centered(fmt.Sprintf("Coverage: %s", strings.Join(coverage, ", ")))
	}
	doc.centered(fmt.Sprintf("Data source: %s", b.cfg.Source))
}

func (b *Builder) summary(doc *document, data *Data) bool {
	primary, ok := data.Primary()
	if !ok || len(data.Windows) == 0 {
		return false
	}
	first := data.Windows[0]
	rows := data.Stats(primary.Name, first)
	if len(rows) == 0 {
		return false
	}

	doc.page()
	doc.section(SectionSummary)

	top := rows[0]
	trend := "a stable trend"
	if top.StdDev > b.cfg.VolatilityThreshold {
		trend = "high volatility"
	}
	doc.subsection(fmt.Sprintf("1. Hottest %s of the period", primary.Title))
	doc.paragraph(fmt.Sprintf("%s ranks first with a mean search interest of %.2f. Interest peaked at %.2f with a low of %.2f, showing %s.",
		top.Label, top.Mean, top.Max, top.Min, trend))

	doc.subsection(fmt.Sprintf("2. %s leading the market", primary.Title))
	doc.paragraph(fmt.Sprintf("The top three are '%s'; together they set the current trend.",
		strings.Join(analytics.TopLabels(rows, 3), "', '")))

	n := 3
	for _, ds := range data.Secondary() {
		sec := data.Stats(ds.Name, first)
		if len(sec) == 0 {
			continue
		}
		doc.subsection(fmt.Sprintf("%d. Most active %s", n, ds.Title))
		doc.paragraph(fmt.Sprintf("%s has the highest interest at %.2f. Ranking: %s.",
			sec[0].Label, sec[0].Mean, rankingLine(sec)))
		n++
	}

	market := analytics.MarketSummary(rows)
	text := fmt.Sprintf("Across %d %s groups the average search interest is %.2f.", market.Count, primary.Title, market.AvgInterest)
	if len(market.HighVolatility) > 0 {
		text += fmt.Sprintf(" The most volatile are '%s', reacting quickly to market shifts.", strings.Join(market.HighVolatility, "', '"))
	}
	doc.subsection(fmt.Sprintf("%d. Market overview", n))
	doc.paragraph(text)
	return true
}

func (b *Builder) window(doc *document, data *Data, w models.Window, first bool) bool {
	if !data.WindowHasData(w) {
		return false
	}
	primary, _ := data.Primary()
	rows := data.Stats(primary.Name, w)

	doc.page()
	doc.section(WindowSection(w))

	if len(rows) > 0 {
		doc.subsection(fmt.Sprintf("%s ranking, %s (%d total)", primary.Title, w.Label, len(rows)))
		doc.table([]string{"Rank", primary.Title, "Mean", "Max", "Min", "Std dev"},
			statTable(rows, b.cfg.TopRows, true), []float64{0.1, 0.3, 0.15, 0.15, 0.15, 0.15}, colorHeaderRow)
		if path, ok := data.Chart(primary.Name, storage.ChartRanking, w.Slug); ok {
			doc.image(path)
		}
		if path, ok := data.Chart(primary.Name, storage.ChartTrends, w.Slug); ok {
			doc.image(path)
		}
	}

	for _, ds := range data.Secondary() {
		sec := data.Stats(ds.Name, w)
		if len(sec) == 0 {
			continue
		}
		doc.subsection(fmt.Sprintf("%s ranking, %s", ds.Title, w.Label))
		doc.table([]string{"Rank", ds.Title, "Mean", "Max", "Min"},
			statTable(sec, b.cfg.TopRows, false), []float64{0.12, 0.4, 0.16, 0.16, 0.16}, colorHeaderRow)
		if path, ok := data.Chart(ds.Name, storage.ChartRanking, w.Slug); ok {
			doc.image(path)
		}
	}

	if len(rows) == 0 {
		return true
	}
	top3, overall, pct := analytics.Concentration(rows)
	direction, reading := "above", "a concentrated market"
	if pct <= 0 {
		direction, reading = "below", "an even distribution"
	}
	lines := []string{
		fmt.Sprintf("'%s' hold the top positions.", strings.Join(analytics.TopLabels(rows, 3), "', '")),
		fmt.Sprintf("The top three average %.2f, %.1f%% %s the overall average of %.2f, indicating %s.",
			top3, abs(pct), direction, overall, reading),
	}
	if !first {
		if growth := b.fastGrowing(data.Changes(primary.Name, w)); len(growth) > 0 {
			lines = append(lines, fmt.Sprintf("Fast-growing: '%s' stand out with strong growth.", strings.Join(growth, "', '")))
		}
	}
	doc.insight(fmt.Sprintf("[INSIGHT] %s key points", w.Label), lines)
	return true
}

func (b *Builder) changes(doc *document, data *Data) bool {
	if !data.HasChanges() || len(data.Windows) < 2 {
		return false
	}
	primary, _ := data.Primary()
	prev, cur := data.Windows[0], data.Windows[1]
	th := b.thresholds()

	doc.page()
	doc.section(SectionChanges)

	rows := data.Changes(primary.Name, cur)
	if len(rows) > 0 {
		doc.subsection(fmt.Sprintf("%s change, %s vs %s", primary.Title, cur.Label, prev.Label))
		var table [][]string
		for i, r := range analytics.TopGrowth(rows, b.cfg.ChangeRows) {
			table = append(table, []string{
				fmt.Sprintf("%d", i+1), r.Label, fmt.Sprintf("%.2f", r.Mean),
				fmt.Sprintf("%+.2f", r.Delta), fmt.Sprintf("%+.1f%%", r.DeltaPercent),
				string(th.StatusOf(r.DeltaPercent)),
			})
		}
		doc.table([]string{"Rank", primary.Title, "Mean", "Delta", "Change", "Status"},
			table, []float64{0.1, 0.26, 0.16, 0.16, 0.16, 0.16}, colorChangeRow)

		if growth := analytics.TopGrowth(rows, 1); len(growth) > 0 {
			g := growth[0]
			lines := []string{
				fmt.Sprintf("Strongest growth: '%s' at %+.1f%% (mean %.2f, delta %+.2f).", g.Label, g.DeltaPercent, g.Mean, g.Delta),
			}
			if decline := analytics.TopDecline(rows, 1); len(decline) > 0 {
				d := decline[0]
				lines = append(lines, fmt.Sprintf("Steepest decline: '%s' at %+.1f%% (mean %.2f).", d.Label, d.DeltaPercent, d.Mean))
			}
			doc.insight("[INFO] Change highlights", lines)
		}
	}

	for _, ds := range data.Secondary() {
		sec := data.Changes(ds.Name, cur)
		if len(sec) == 0 {
			continue
		}
		doc.subsection(fmt.Sprintf("%s change, %s vs %s", ds.Title, cur.Label, prev.Label))
		var table [][]string
		for i, r := range analytics.ByPercent(sec) {
			table = append(table, []string{
				fmt.Sprintf("%d", i+1), r.Label, fmt.Sprintf("%.2f", r.Mean),
				fmt.Sprintf("%+.2f", r.Delta), fmt.Sprintf("%+.1f%%", r.DeltaPercent),
			})
		}
		doc.table([]string{"Rank", ds.Title, "Mean", "Delta", "Change"},
			table, []float64{0.12, 0.34, 0.18, 0.18, 0.18}, colorChangeRow)
	}

	for _, ds := range data.Datasets {
		if path, ok := data.Chart(ds.Name, storage.ChartComparison, ""); ok {
			doc.subsection(fmt.Sprintf("%s by period", ds.Title))
			doc.image(path)
		}
	}
	return true
}

func (b *Builder) conclusion(doc *document, data *Data) bool {
	primary, ok := data.Primary()
	if !ok || len(data.Windows) == 0 {
		return false
	}
	shortest, longest := data.Windows[0], data.Windows[len(data.Windows)-1]
	shortRows := data.Stats(primary.Name, shortest)
	longRows := data.Stats(primary.Name, longest)

	var secondaryTop []models.StatRow
	var secondary models.Dataset
	for _, ds := range data.Secondary() {
		if rows := data.Stats(ds.Name, shortest); len(rows) > 0 {
			secondary, secondaryTop = ds, rows
			break
		}
	}

	type block struct {
		heading string
		text    string
	}
	var blocks []block

	if len(shortRows) > 0 && len(longRows) > 0 {
		consistent := analytics.ConsistentLeaders(shortRows, longRows, b.cfg.ConsistentTop)
		names := "none"
		if len(consistent) > 0 {
			names = strings.Join(consistent, "', '")
		}
		blocks = append(blocks, block{"Overall", fmt.Sprintf(
			"Groups ranking near the top in both the %s and %s periods: '%s'. They form the core of the market with a stable readership.",
			shortest.Label, longest.Label, names)})
	}

	if len(data.Windows) > 1 {
		hot := b.hot(data.Changes(primary.Name, data.Windows[1]))
		if len(hot) > 0 {
			blocks = append(blocks, block{"Short-term strategy", fmt.Sprintf(
				"'%s' show high growth. Plan content quickly, prioritise new and established writers in these %s, and focus marketing spend on them.",
				strings.Join(hot, "', '"), primary.Title)})
		}
	}

	if len(longRows) > 0 {
		blocks = append(blocks, block{"Long-term strategy", fmt.Sprintf(
			"'%s' lead the %s average and suit long-running series. Review their expansion options early and build a steady line-up around them.",
			strings.Join(analytics.TopLabels(longRows, 3), "', '"), longest.Label)})
	}

	if len(secondaryTop) > 0 {
		var steps []string
		for i, r := range secondaryTop {
			steps = append(steps, fmt.Sprintf("%d. %s (mean %.2f)", i+1, r.Label, r.Mean))
		}
		blocks = append(blocks, block{fmt.Sprintf("%s strategy", secondary.Title), fmt.Sprintf(
			"'%s' is currently the most active (mean %.2f). Roll out in stages to spread risk while watching the market response: %s.",
			secondaryTop[0].Label, secondaryTop[0].Mean, strings.Join(steps, ", "))})
	}

	if len(blocks) == 0 {
		return false
	}

	doc.page()
	doc.section(SectionConclusion)
	for i, bl := range blocks {
		doc.subsection(fmt.Sprintf("%d. %s", i+1, bl.heading))
		doc.paragraph(bl.text)
	}

	if len(shortRows) > 0 && len(secondaryTop) > 0 {
		doc.insight("Key recommendations", []string{
			fmt.Sprintf("1. Secure %s titles first (currently #1).", shortRows[0].Label),
			fmt.Sprintf("2. Prioritise %s.", secondaryTop[0].Label),
			"3. Monitor fast-growing groups continuously.",
			"4. Balance the portfolio between steady and growing groups.",
		})
	}
	return true
}

func (b *Builder) thresholds() analytics.Thresholds {
	th := analytics.DefaultThresholds
	if b.cfg.GrowthThreshold != 0 {
		th.Growth = b.cfg.GrowthThreshold
	}
	if b.cfg.HotThreshold != 0 {
		th.Hot = b.cfg.HotThreshold
	}
	return th
}

func (b *Builder) fastGrowing(rows []models.ChangeRow) []string {
	return analytics.Above(rows, b.thresholds().Growth)
}

func (b *Builder) hot(rows []models.ChangeRow) []string {
	return analytics.Above(rows, b.thresholds().Hot)
}

func statTable(rows []models.StatRow, limit int, withStd bool) [][]string {
	if limit > 0 && len(rows) > limit {
		rows = rows[:limit]
	}
	out := make([][]string, 0, len(rows))
	for i, r := range rows {
		row := []string{
			fmt.Sprintf("%d", i+1), r.Label,
			fmt.Sprintf("%.2f", r.Mean), fmt.Sprintf("%.2f", r.Max), fmt.Sprintf("%.2f", r.Min),
		}
		if withStd {
			row = append(row, fmt.Sprintf("%.2f", r.StdDev))
		}
		out = append(out, row)
	}
	return out
}

func rankingLine(rows []models.StatRow) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = fmt.Sprintf("%d. %s (%.1f)", i+1, r.Label, r.Mean)
	}
	return strings.Join(parts, ", ")
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
