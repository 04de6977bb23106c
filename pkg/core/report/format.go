package report

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCurrency renders whole US dollars with thousands separators, e.g. "$1,234".
// Amounts beyond the int64 range are formatted as floats, not truncated.
func FormatCurrency(v float64) string {
	r := math.Round(v)
	sign := ""
	if r < 0 {
		sign = "-"
	}
	return sign + "$" + printer.Sprintf("%.0f", math.Abs(r))
}

// FormatPercent renders a two-decimal percentage.
func FormatPercent(v float64) string {
	return printer.Sprintf("%.2f%%", v)
}

// FormatPayback renders payback months with one decimal, or "N/A".
func FormatPayback(months *float64) string {
	if months == nil {
		return "N/A"
	}
	return printer.Sprintf("%.1f", *months)
}

// FormatFTE renders a head count with two decimals.
func FormatFTE(v float64) string {
	return printer.Sprintf("%.2f", v)
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Filename is the download name for a company's report: spaces become
// underscores and anything unsafe in a header or path is dropped.
func Filename(companyName string) string {
	name := strings.Join(strings.Fields(companyName), "_")
	name = strings.Trim(unsafeFilename.ReplaceAllString(name, ""), "._")
	if name == "" {
		name = "Company"
	}
	return "ROI_" + name + ".pdf"
}
