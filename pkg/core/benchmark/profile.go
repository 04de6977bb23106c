// Package benchmark resolves an industry name to the set of ratios and
// constants that drive the ROI savings model.
package benchmark

// DefaultInventoryTurns is applied by the calculator when a profile leaves
// inventory_turns_benchmark unset (or zero).
const DefaultInventoryTurns = 8.0

// Profile is an industry benchmark entry. Percentages are fractions (0.15 = 15%).
type Profile struct {
	Industry string `yaml:"industry" json:"industry"`

	InventoryTurnsBenchmark  float64 `yaml:"inventory_turns_benchmark,omitempty" json:"inventory_turns_benchmark,omitempty"`
	PlannerFTEPer100MRevenue float64 `yaml:"planner_fte_per_100m_revenue" json:"planner_fte_per_100m_revenue"`

	ExceptionReductionPct             float64 `yaml:"exception_reduction_pct" json:"exception_reduction_pct"`
	LogisticsOptimizationPct          float64 `yaml:"logistics_optimization_pct" json:"logistics_optimization_pct"`
	InventoryReductionPct             float64 `yaml:"inventory_reduction_pct" json:"inventory_reduction_pct"`
	CarryingCostRate                  float64 `yaml:"carrying_cost_rate" json:"carrying_cost_rate"`
	PlannerProductivityImprovementPct float64 `yaml:"planner_productivity_improvement_pct" json:"planner_productivity_improvement_pct"`

	PlannerFullyLoadedCost float64 `yaml:"planner_fully_loaded_cost" json:"planner_fully_loaded_cost"` // USD per FTE per year
	AnnualPlatformCost     float64 `yaml:"annual_platform_cost" json:"annual_platform_cost"`
	ImplementationCost     float64 `yaml:"implementation_cost" json:"implementation_cost"`
}

// InventoryTurns returns the profile's turns benchmark, or DefaultInventoryTurns
// when the profile does not set one.
func (p Profile) InventoryTurns() float64 {
	if p.InventoryTurnsBenchmark == 0 {
		return DefaultInventoryTurns
	}
	return p.InventoryTurnsBenchmark
}

// Investment is the first-year spend on the platform.
func (p Profile) Investment() float64 {
	return p.AnnualPlatformCost + p.ImplementationCost
}
