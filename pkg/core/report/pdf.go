package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/jung-kurt/gofpdf"

	"logistics_roi/pkg/core/roi"
)

const (
	pdfFont       = "Helvetica"
	pdfLineHeight = 7.0
	pdfChartH     = 60.0
)

// PDF lays out the rendered report HTML on A4 pages and draws the benefit
// chart natively after the last table.
func PDF(input roi.Input, result roi.Result) ([]byte, error) {
	page, err := HTML(input, result)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report html: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("ROI Summary - "+input.CompanyName, true)
	pdf.SetCreator("logistics_roi", true)
	pdf.AddPage()

	pageW, _ := pdf.GetPageSize()
	left, _, right, _ := pdf.GetMargins()
	contentW := pageW - left - right

	doc.Find("body").Children().Each(func(_ int, s *goquery.Selection) {
		switch goquery.NodeName(s) {
		case "h1":
			pdf.SetFont(pdfFont, "B", 18)
			pdf.CellFormat(contentW, 10, tr(s.Text()), "", 1, "L", false, 0, "")
			pdf.Ln(2)
		case "h2":
			pdf.Ln(3)
			pdf.SetFont(pdfFont, "B", 13)
			pdf.CellFormat(contentW, 8, tr(s.Text()), "", 1, "L", false, 0, "")
		case "p":
			pdf.SetFont(pdfFont, "", 11)
			pdf.MultiCell(contentW, 6, tr(s.Text()), "", "L", false)
		case "table":
			writeTable(pdf, s, contentW, tr)
		}
	})

	drawChart(pdf, ChartSeries(result), left, contentW)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(pdf *gofpdf.Fpdf, table *goquery.Selection, width float64, tr func(string) string) {
	labelW := width * 0.65
	valueW := width - labelW

	table.Find("tr").Each(func(_ int, row *goquery.Selection) {
		header := row.Find("th").Length() > 0
		style := ""
		if header {
			style = "B"
			pdf.SetFillColor(240, 240, 240)
		}
		pdf.SetFont(pdfFont, style, 10)

		cells := row.Find("th, td")
		pdf.CellFormat(labelW, pdfLineHeight, tr(strings.TrimSpace(cells.Eq(0).Text())), "1", 0, "L", header, 0, "")
		pdf.CellFormat(valueW, pdfLineHeight, tr(strings.TrimSpace(cells.Eq(1).Text())), "1", 1, "R", header, 0, "")
	})
}

func drawChart(pdf *gofpdf.Fpdf, bars []ChartBar, left, width float64) {
	_, pageH := pdf.GetPageSize()
	_, _, _, bottom := pdf.GetMargins()
	if pdf.GetY()+pdfChartH+20 > pageH-bottom {
		pdf.AddPage()
	}

	top := pdf.GetY() + 8
	base := top + pdfChartH
	heights := barHeights(bars, pdfChartH)
	slot := width / float64(len(bars))
	barW := slot * 0.5

	pdf.SetDrawColor(150, 150, 150)
	pdf.Line(left, base, left+width, base)

	pdf.SetFont(pdfFont, "", 9)
	for i, bar := range bars {
		x := left + slot*float64(i) + (slot-barW)/2
		r, g, b := hexToRGB(bar.Color)
		pdf.SetFillColor(r, g, b)
		if heights[i] > 0 {
			pdf.Rect(x, base-heights[i], barW, heights[i], "F")
		}

		pdf.SetXY(x-5, base-heights[i]-6)
		pdf.CellFormat(barW+10, 5, FormatCurrency(bar.Value), "", 0, "C", false, 0, "")
		pdf.SetXY(x-5, base+1)
		pdf.CellFormat(barW+10, 5, bar.Label, "", 0, "C", false, 0, "")
	}
	pdf.SetXY(left, base+8)
}
