package report

import (
	"fmt"
	"strings"

	"logistics_roi/pkg/core/roi"
	"logistics_roi/pkg/core/utils"
)

type row struct {
	label, value string
}

type section struct {
	title string
	rows  []row
}

func sections(result roi.Result) []section {
	dm := result.DerivedMetrics
	sb := result.SavingsBreakdown
	t := result.Totals

	return []section{
		{title: "Inputs & Derived Metrics", rows: []row{
			{"Revenue", FormatCurrency(dm.Revenue)},
			{"COGS", FormatCurrency(dm.COGS)},
			{"Gross Margin", FormatCurrency(dm.GrossMargin)},
			{"Logistics Cost", FormatCurrency(dm.LogisticsCost)},
			{"Exception Cost", FormatCurrency(dm.ExceptionCost)},
			{"Avg Inventory Value", FormatCurrency(dm.AvgInventoryValue)},
			{"Planner FTE", FormatFTE(dm.LogisticsPlannerFTE)},
		}},
		{title: "Savings Breakdown", rows: []row{
			{"Exception Reduction", FormatCurrency(sb.ExceptionReduction)},
			{"Logistics Optimization", FormatCurrency(sb.LogisticsOptimization)},
			{"Inventory Carrying Savings", FormatCurrency(sb.InventoryCarryingSavings)},
			{"Planner Cost Avoidance", FormatCurrency(sb.PlannerCostAvoidance)},
			{"One-time Cash Release", FormatCurrency(sb.OneTimeCashRelease)},
		}},
		{title: "Summary", rows: []row{
			{"Recurring EBIT Savings", FormatCurrency(t.RecurringEBITSavings)},
			{"Cost Avoidance", FormatCurrency(t.CostAvoidance)},
			{"Annual Platform Cost", FormatCurrency(t.AnnualPlatformCost)},
			{"Implementation Cost", FormatCurrency(t.ImplementationCost)},
			{"One-time Benefit", FormatCurrency(t.TotalOneTimeBenefit)},
			{"Net First-year Benefit", FormatCurrency(t.NetFirstYearBenefit)},
			{"ROI%", FormatPercent(result.ROIPercent)},
			{"Payback Months", FormatPayback(result.PaybackMonths)},
		}},
	}
}

// Markdown renders the report body. The benefit chart is not part of it;
// HTML and PDF draw it after the last table.
func Markdown(input roi.Input, result roi.Result) string {
	var b strings.Builder

	b.WriteString("# ROI Summary\n\n")
	fmt.Fprintf(&b, "**Company**: %s\n\n", utils.EscapeMarkdown(input.CompanyName))
	industry := utils.EscapeMarkdown(input.Industry)
	if result.Benchmark.Fallback {
		industry += " (default benchmarks applied)"
	}
	fmt.Fprintf(&b, "**Industry**: %s\n\n", industry)

	for _, s := range sections(result) {
		fmt.Fprintf(&b, "## %s\n\n", s.title)
		b.WriteString("| Metric | Value |\n|---|---:|\n")
		for _, r := range s.rows {
			fmt.Fprintf(&b, "| %s | %s |\n", utils.EscapeMarkdown(r.label), r.value)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Chart\n\n")
	return b.String()
}
