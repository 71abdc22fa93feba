package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/dtnitsch/trendreport/pkg/fonts"
)

const (
	margin       = 25.4 // one inch, in mm
	contentWidth = 210 - 2*margin
	lineHeight   = 6.0
	chartWidth   = 140.0
)

type rgb struct{ r, g, b int }

var (
	colorTitle     = rgb{0x1a, 0x23, 0x7e}
	colorSubtitle  = rgb{0x3f, 0x51, 0xb5}
	colorSection   = rgb{0x19, 0x76, 0xd2}
	colorText      = rgb{0x21, 0x21, 0x21}
	colorHeaderRow = rgb{0x30, 0x3f, 0x9f}
	colorChangeRow = rgb{0xd8, 0x43, 0x15}
	colorStripe    = rgb{0xf5, 0xf5, 0xf5}
	colorInsight   = rgb{0xff, 0xf8, 0xe1}
)

// document wraps fpdf with the handful of blocks the report is made of.
type document struct {
	pdf  *fpdf.Fpdf
	font fonts.Font
}

func newDocument(font fonts.Font, title string) *document {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(title, true)
	pdf.SetCreator("trendreport", true)

	if font.Fallback() {
		font.Family = fonts.FallbackFamily
	} else {
		pdf.AddUTF8FontFromBytes(font.Family, "", font.Data)
	}
	return &document{pdf: pdf, font: font}
}

// bold is only available for the core font; the embedded TTF is regular only.
func (d *document) setFont(size float64, bold bool) {
	style := ""
	if bold && d.font.Fallback() {
		style = "B"
	}
	d.pdf.SetFont(d.font.Family, style, size)
}

func (d *document) textColor(c rgb) {
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *document) page() {
	d.pdf.AddPage()
}

func (d *document) title(text string) {
	d.setFont(26, true)
	d.textColor(colorTitle)
	d.pdf.MultiCell(contentWidth, 12, text, "", "C", false)
	d.pdf.Ln(4)
}

func (d *document) subtitle(text string) {
	d.setFont(15, false)
	d.textColor(colorSubtitle)
	d.pdf.MultiCell(contentWidth, 8, text, "", "C", false)
	d.pdf.Ln(2)
}

func (d *document) centered(text string) {
	d.setFont(12, false)
	d.textColor(colorText)
	d.pdf.MultiCell(contentWidth, lineHeight+1, text, "", "C", false)
}

func (d *document) section(text string) {
	d.setFont(18, true)
	d.textColor(colorSection)
	d.pdf.MultiCell(contentWidth, 10, text, "", "L", false)
	d.pdf.Ln(3)
}

func (d *document) subsection(text string) {
	d.setFont(13, true)
	d.textColor(colorSubtitle)
	d.pdf.MultiCell(contentWidth, 8, text, "", "L", false)
	d.pdf.Ln(1)
}

func (d *document) paragraph(text string) {
	d.setFont(11, false)
	d.textColor(colorText)
	d.pdf.MultiCell(contentWidth, lineHeight, text, "", "L", false)
	d.pdf.Ln(2)
}

// insight draws lines inside a shaded box.
func (d *document) insight(heading string, lines []string) {
	d.pdf.SetFillColor(colorInsight.r, colorInsight.g, colorInsight.b)
	d.setFont(11, true)
	d.textColor(colorText)
	d.pdf.MultiCell(contentWidth, lineHeight+1, heading, "LTR", "L", true)
	d.setFont(10, false)
	for i, l := range lines {
		border := "LR"
		if i == len(lines)-1 {
			border = "LRB"
		}
		d.pdf.MultiCell(contentWidth, lineHeight, l, border, "L", true)
	}
	d.pdf.Ln(4)
}

// table draws a header row and striped body rows. widths are fractions of
// the content width.
func (d *document) table(header []string, rows [][]string, widths []float64, headerColor rgb) {
	cols := make([]float64, len(widths))
	for i, f := range widths {
		cols[i] = f * contentWidth
	}

	d.setFont(10, true)
	d.pdf.SetFillColor(headerColor.r, headerColor.g, headerColor.b)
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetDrawColor(0x9e, 0x9e, 0x9e)
	for i, h := range header {
		d.pdf.CellFormat(cols[i], 8, h, "1", 0, "C", true, 0, "")
	}
	d.pdf.Ln(-1)

	d.setFont(9, false)
	d.textColor(colorText)
	for r, row := range rows {
		fill := r%2 == 1
		d.pdf.SetFillColor(colorStripe.r, colorStripe.g, colorStripe.b)
		for i, cell := range row {
			d.pdf.CellFormat(cols[i], 7, cell, "1", 0, "C", fill, 0, "")
		}
		d.pdf.Ln(-1)
	}
	d.pdf.Ln(4)
}

// image embeds a PNG at the current position, breaking the page if needed.
func (d *document) image(path string) {
	x := margin + (contentWidth-chartWidth)/2
	d.pdf.ImageOptions(path, x, 0, chartWidth, 0, true, fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}, 0, "")
	d.pdf.Ln(4)
}

func (d *document) pages() int {
	return d.pdf.PageNo()
}

func (d *document) bytes() ([]byte, error) {
	if err := d.pdf.Error(); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render document: %w", err)
	}
	return buf.Bytes(), nil
}
