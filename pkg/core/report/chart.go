package report

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"logistics_roi/pkg/core/roi"
)

// Bar colors, in series order: recurring, one-time, avoidance.
var barColors = []string{"#4caf50", "#2196f3", "#ff9800"}

// ChartBar is one bar of the benefit chart.
type ChartBar struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Color string  `json:"color"`
}

// ChartSeries returns the three benefit bars shown in every report.
func ChartSeries(result roi.Result) []ChartBar {
	bars := []ChartBar{
		{Label: "Recurring", Value: result.Totals.RecurringEBITSavings},
		{Label: "One-time", Value: result.Totals.TotalOneTimeBenefit},
		{Label: "Avoidance", Value: result.Totals.CostAvoidance},
	}
	for i := range bars {
		bars[i].Color = barColors[i%len(barColors)]
	}
	return bars
}

// barHeights scales values to fit height. Negative values draw as empty bars.
func barHeights(bars []ChartBar, height float64) []float64 {
	maxVal := 0.0
	for _, b := range bars {
		if b.Value > maxVal {
			maxVal = b.Value
		}
	}
	out := make([]float64, len(bars))
	if maxVal <= 0 {
		return out
	}
	for i, b := range bars {
		if b.Value > 0 {
			out[i] = b.Value / maxVal * height
		}
	}
	return out
}

const (
	svgWidth    = 480
	svgHeight   = 260
	svgPlotTop  = 30
	svgPlotBase = 220
)

// ChartSVG renders bars as an inline SVG bar chart.
func ChartSVG(bars []ChartBar) string {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" role="img" aria-label="Benefit breakdown">`, svgWidth, svgHeight)
	fmt.Fprintf(&b, `<line x1="20" y1="%d" x2="%d" y2="%d" stroke="#999"/>`, svgPlotBase, svgWidth-20, svgPlotBase)

	heights := barHeights(bars, svgPlotBase-svgPlotTop)
	slot := float64(svgWidth-40) / float64(len(bars))
	barWidth := slot * 0.6
	for i, bar := range bars {
		x := 20 + slot*float64(i) + (slot-barWidth)/2
		y := svgPlotBase - heights[i]
		fmt.Fprintf(&b, `<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s"/>`,
			x, y, barWidth, heights[i], html.EscapeString(bar.Color))
		fmt.Fprintf(&b, `<text x="%.1f" y="%.1f" font-size="12" text-anchor="middle">%s</text>`,
			x+barWidth/2, y-6, html.EscapeString(FormatCurrency(bar.Value)))
		fmt.Fprintf(&b, `<text x="%.1f" y="%d" font-size="12" text-anchor="middle">%s</text>`,
			x+barWidth/2, svgPlotBase+18, html.EscapeString(bar.Label))
	}
	b.WriteString(`</svg>`)
	return b.String()
}

// hexToRGB parses "#rrggbb". Malformed colors come back grey.
func hexToRGB(hex string) (int, int, int) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return 128, 128, 128
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return 128, 128, 128
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff)
}
