// Package roi computes the first-year return on investment of adopting the
// logistics platform from a handful of business metrics and an industry
// benchmark profile. Compute is pure: no I/O, no clock, no shared state.
package roi

import "math"

// Input is the validated business profile supplied by the caller.
// Percentages are fractions of revenue and are not clamped.
type Input struct {
	CompanyName      string  `json:"company_name"`
	Industry         string  `json:"industry"`
	Revenue          float64 `json:"revenue"` // USD per year
	COGSPct          float64 `json:"cogs_pct"`
	LogisticsCostPct float64 `json:"logistics_cost_pct"`
	ExceptionCostPct float64 `json:"exception_cost_pct"`

	AvgInventoryValue   Optional `json:"avg_inventory_value"`
	LogisticsPlannerFTE Optional `json:"logistics_planner_fte"`
}

// DerivedMetrics are the base amounts the savings are computed from.
// Monetary fields are rounded to cents; the FTE count is not rounded.
type DerivedMetrics struct {
	Revenue             float64 `json:"revenue"`
	COGS                float64 `json:"cogs"`
	GrossMargin         float64 `json:"gross_margin"`
	LogisticsCost       float64 `json:"logistics_cost"`
	ExceptionCost       float64 `json:"exception_cost"`
	AvgInventoryValue   float64 `json:"avg_inventory_value"`
	LogisticsPlannerFTE float64 `json:"logistics_planner_fte"`
}

// SavingsBreakdown lists each savings lever.
type SavingsBreakdown struct {
	ExceptionReduction       float64 `json:"exception_reduction"`
	LogisticsOptimization    float64 `json:"logistics_optimization"`
	InventoryCarryingSavings float64 `json:"inventory_carrying_savings"`
	OneTimeCashRelease       float64 `json:"one_time_cash_release"`
	PlannerCostAvoidance     float64 `json:"planner_cost_avoidance"`
}

// Totals aggregates the breakdown against platform costs.
type Totals struct {
	RecurringEBITSavings float64 `json:"recurring_ebit_savings"`
	CostAvoidance        float64 `json:"cost_avoidance"`
	AnnualPlatformCost   float64 `json:"annual_platform_cost"`
	ImplementationCost   float64 `json:"implementation_cost"`
	TotalAnnualBenefit   float64 `json:"total_annual_benefit"`
	TotalOneTimeBenefit  float64 `json:"total_one_time_benefit"`
	NetFirstYearBenefit  float64 `json:"net_first_year_benefit"`
}

// BenchmarkRef records which profile produced a Result.
type BenchmarkRef struct {
	Industry string `json:"industry"`
	Fallback bool   `json:"fallback"`
}

// Result is the full ROI projection. Every numeric field is final: renderers
// format it, they never re-derive or re-round it.
type Result struct {
	Inputs           Input            `json:"inputs"`
	DerivedMetrics   DerivedMetrics   `json:"derived_metrics"`
	SavingsBreakdown SavingsBreakdown `json:"savings_breakdown"`
	Totals           Totals           `json:"totals"`
	ROIPercent       float64          `json:"roi_percent"`
	// PaybackMonths is nil when benefits never outrun the platform cost.
	PaybackMonths *float64     `json:"payback_months"`
	Benchmark     BenchmarkRef `json:"benchmark"`
}

// Finite reports whether every computed amount is a finite number. Extreme
// inputs can overflow even when each one is finite on its own.
func (r Result) Finite() bool {
	d, s, t := r.DerivedMetrics, r.SavingsBreakdown, r.Totals
	values := []float64{
		d.Revenue, d.COGS, d.GrossMargin, d.LogisticsCost, d.ExceptionCost, d.AvgInventoryValue, d.LogisticsPlannerFTE,
		s.ExceptionReduction, s.LogisticsOptimization, s.InventoryCarryingSavings, s.OneTimeCashRelease, s.PlannerCostAvoidance,
		t.RecurringEBITSavings, t.CostAvoidance, t.AnnualPlatformCost, t.ImplementationCost,
		t.TotalAnnualBenefit, t.TotalOneTimeBenefit, t.NetFirstYearBenefit,
		r.ROIPercent,
	}
	if r.PaybackMonths != nil {
		values = append(values, *r.PaybackMonths)
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// HasPayback reports whether a payback period exists.
func (r Result) HasPayback() bool {
	return r.PaybackMonths != nil
}
