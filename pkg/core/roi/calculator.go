package roi

import (
	"fmt"
	"math"

	"logistics_roi/pkg/core/benchmark"
)

const (
	revenuePerPlannerBlock = 100_000_000.0 // planner_fte_per_100m_revenue denominator
	minDerivedPlannerFTE   = 1.0
	monthsPerYear          = 12.0
)

// Round2 rounds to cents, half away from zero. Applied only when a value is
// emitted, never to intermediates. This differs from banker's rounding on exact
// midpoints: 0.125 becomes 0.13 here, not 0.12.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Compute runs the ROI model for input against profile. It is total over real
// inputs: zero investment yields ROI 0 and a non-positive monthly run rate
// yields no payback, neither is an error.
func Compute(input Input, profile benchmark.Profile) Result {
	// 1. Base amounts
	revenue := input.Revenue
	cogs := revenue * input.COGSPct
	logisticsCost := revenue * input.LogisticsCostPct
	exceptionCost := revenue * input.ExceptionCostPct
	grossMargin := revenue - cogs

	// 2. Inventory value: supplied, or COGS / turns
	avgInventory := input.AvgInventoryValue.OrElse(func() float64 {
		return cogs / profile.InventoryTurns()
	})

	// 3. Planner FTE: supplied as-is, derived values floored at one planner
	plannerFTE := input.LogisticsPlannerFTE.OrElse(func() float64 {
		return math.Max(minDerivedPlannerFTE, (revenue/revenuePerPlannerBlock)*profile.PlannerFTEPer100MRevenue)
	})

	// 4. Savings levers
	exceptionReduction := exceptionCost * profile.ExceptionReductionPct
	logisticsOptimization := logisticsCost * profile.LogisticsOptimizationPct
	inventoryReductionValue := avgInventory * profile.InventoryReductionPct
	carryingSavings := inventoryReductionValue * profile.CarryingCostRate
	oneTimeCashRelease := inventoryReductionValue
	plannerCostAvoidance := plannerFTE * profile.PlannerProductivityImprovementPct * profile.PlannerFullyLoadedCost

	// 5. Totals
	recurringEBIT := exceptionReduction + logisticsOptimization + carryingSavings
	costAvoidance := plannerCostAvoidance
	platformCost := profile.AnnualPlatformCost
	implementationCost := profile.ImplementationCost
	totalAnnualBenefit := recurringEBIT + costAvoidance
	totalOneTimeBenefit := oneTimeCashRelease
	netFirstYear := totalAnnualBenefit + totalOneTimeBenefit - platformCost - implementationCost

	// 6. ROI%
	roiPercent := 0.0
	if investment := platformCost + implementationCost; investment != 0 {
		roiPercent = netFirstYear / investment * 100
	}

	// 7. Payback
	payback := paybackMonths(totalAnnualBenefit, platformCost, implementationCost, totalOneTimeBenefit)

	return Result{
		Inputs: input,
		DerivedMetrics: DerivedMetrics{
			Revenue:             Round2(revenue),
			COGS:                Round2(cogs),
			GrossMargin:         Round2(grossMargin),
			LogisticsCost:       Round2(logisticsCost),
			ExceptionCost:       Round2(exceptionCost),
			AvgInventoryValue:   Round2(avgInventory),
			LogisticsPlannerFTE: plannerFTE,
		},
		SavingsBreakdown: SavingsBreakdown{
			ExceptionReduction:       Round2(exceptionReduction),
			LogisticsOptimization:    Round2(logisticsOptimization),
			InventoryCarryingSavings: Round2(carryingSavings),
			OneTimeCashRelease:       Round2(oneTimeCashRelease),
			PlannerCostAvoidance:     Round2(plannerCostAvoidance),
		},
		Totals: Totals{
			RecurringEBITSavings: Round2(recurringEBIT),
			CostAvoidance:        Round2(costAvoidance),
			AnnualPlatformCost:   Round2(platformCost),
			ImplementationCost:   Round2(implementationCost),
			TotalAnnualBenefit:   Round2(totalAnnualBenefit),
			TotalOneTimeBenefit:  Round2(totalOneTimeBenefit),
			NetFirstYearBenefit:  Round2(netFirstYear),
		},
		ROIPercent:    Round2(roiPercent),
		PaybackMonths: payback,
		Benchmark:     BenchmarkRef{Industry: profile.Industry},
	}
}

// paybackMonths returns nil when the monthly net run rate is not positive.
// A non-positive numerator means the one-time benefit already covers the
// implementation cost.
func paybackMonths(totalAnnualBenefit, platformCost, implementationCost, oneTimeBenefit float64) *float64 {
	monthlyNetRunRate := (totalAnnualBenefit - platformCost) / monthsPerYear
	if !(monthlyNetRunRate > 0) {
		return nil
	}

	numerator := implementationCost - oneTimeBenefit
	months := 0.0
	if numerator > 0 {
		months = Round2(numerator / monthlyNetRunRate)
	}
	return &months
}

// Calculator resolves the benchmark profile for an input and runs Compute.
type Calculator struct {
	Benchmarks *benchmark.Resolver
}

// NewCalculator returns a Calculator backed by resolver.
func NewCalculator(resolver *benchmark.Resolver) *Calculator {
	return &Calculator{Benchmarks: resolver}
}

// Run resolves input.Industry and computes the projection. Result.Benchmark
// marks whether the default profile was used.
func (c *Calculator) Run(input Input) Result {
	profile, matched := c.Benchmarks.Lookup(input.Industry)
	res := Compute(input, profile)
	res.Benchmark.Fallback = !matched
	return res
}

// Summary is the one-line narrative used in chat replies.
func (r Result) Summary() string {
	payback := " with payback not applicable"
	if r.PaybackMonths != nil {
		payback = fmt.Sprintf(" with payback in %.1f months", *r.PaybackMonths)
	}
	return fmt.Sprintf("Calculated ROI is %.2f%%%s.", r.ROIPercent, payback)
}
