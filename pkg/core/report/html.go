package report

import (
	"fmt"
	"html"

	"logistics_roi/pkg/core/roi"
	"logistics_roi/pkg/core/utils"
)

const pageStyle = `body { font-family: Helvetica, Arial, sans-serif; }
h1 { color: #222; }
table { border-collapse: collapse; width: 100%; margin-bottom: 16px; }
th, td { border: 1px solid #ccc; padding: 8px; text-align: left; }`

// HTML renders the report as a standalone page with an inline SVG chart.
func HTML(input roi.Input, result roi.Result) (string, error) {
	body, err := utils.MarkdownToHTML(Markdown(input, result))
	if err != nil {
		return "", fmt.Errorf("failed to render report markdown: %w", err)
	}

	page := fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8"/>
<title>ROI Summary - %s</title>
<style>
%s
</style>
</head>
<body>
%s%s
</body>
</html>
`, html.EscapeString(input.CompanyName), pageStyle, body, ChartSVG(ChartSeries(result)))
	return page, nil
}
