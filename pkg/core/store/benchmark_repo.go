package store

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"logistics_roi/pkg/core/benchmark"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Str("component", "store").Logger()

// BenchmarkSchema creates the benchmark table. At most one row is the default.
const BenchmarkSchema = `
CREATE TABLE IF NOT EXISTS industry_benchmarks (
	industry                             TEXT PRIMARY KEY,
	is_default                           BOOLEAN NOT NULL DEFAULT FALSE,
	inventory_turns_benchmark            DOUBLE PRECISION,
	planner_fte_per_100m_revenue         DOUBLE PRECISION NOT NULL,
	exception_reduction_pct              DOUBLE PRECISION NOT NULL,
	logistics_optimization_pct           DOUBLE PRECISION NOT NULL,
	inventory_reduction_pct              DOUBLE PRECISION NOT NULL,
	carrying_cost_rate                   DOUBLE PRECISION NOT NULL,
	planner_productivity_improvement_pct DOUBLE PRECISION NOT NULL,
	planner_fully_loaded_cost            DOUBLE PRECISION NOT NULL,
	annual_platform_cost                 DOUBLE PRECISION NOT NULL,
	implementation_cost                  DOUBLE PRECISION NOT NULL,
	updated_at                           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE UNIQUE INDEX IF NOT EXISTS industry_benchmarks_one_default
	ON industry_benchmarks (is_default) WHERE is_default;
`

// benchmarkRow is one industry_benchmarks row.
type benchmarkRow struct {
	Industry                          string   `db:"industry"`
	IsDefault                         bool     `db:"is_default"`
	InventoryTurnsBenchmark           *float64 `db:"inventory_turns_benchmark"`
	PlannerFTEPer100MRevenue          float64  `db:"planner_fte_per_100m_revenue"`
	ExceptionReductionPct             float64  `db:"exception_reduction_pct"`
	LogisticsOptimizationPct          float64  `db:"logistics_optimization_pct"`
	InventoryReductionPct             float64  `db:"inventory_reduction_pct"`
	CarryingCostRate                  float64  `db:"carrying_cost_rate"`
	PlannerProductivityImprovementPct float64  `db:"planner_productivity_improvement_pct"`
	PlannerFullyLoadedCost            float64  `db:"planner_fully_loaded_cost"`
	AnnualPlatformCost                float64  `db:"annual_platform_cost"`
	ImplementationCost                float64  `db:"implementation_cost"`
}

const selectBenchmarks = `
	SELECT industry, is_default, inventory_turns_benchmark,
		planner_fte_per_100m_revenue, exception_reduction_pct, logistics_optimization_pct,
		inventory_reduction_pct, carrying_cost_rate, planner_productivity_improvement_pct,
		planner_fully_loaded_cost, annual_platform_cost, implementation_cost
	FROM industry_benchmarks
	ORDER BY industry
`

const upsertBenchmark = `
	INSERT INTO industry_benchmarks (
		industry, is_default, inventory_turns_benchmark,
		planner_fte_per_100m_revenue, exception_reduction_pct, logistics_optimization_pct,
		inventory_reduction_pct, carrying_cost_rate, planner_productivity_improvement_pct,
		planner_fully_loaded_cost, annual_platform_cost, implementation_cost
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	ON CONFLICT (industry)
	DO UPDATE SET
		is_default = EXCLUDED.is_default,
		inventory_turns_benchmark = EXCLUDED.inventory_turns_benchmark,
		planner_fte_per_100m_revenue = EXCLUDED.planner_fte_per_100m_revenue,
		exception_reduction_pct = EXCLUDED.exception_reduction_pct,
		logistics_optimization_pct = EXCLUDED.logistics_optimization_pct,
		inventory_reduction_pct = EXCLUDED.inventory_reduction_pct,
		carrying_cost_rate = EXCLUDED.carrying_cost_rate,
		planner_productivity_improvement_pct = EXCLUDED.planner_productivity_improvement_pct,
		planner_fully_loaded_cost = EXCLUDED.planner_fully_loaded_cost,
		annual_platform_cost = EXCLUDED.annual_platform_cost,
		implementation_cost = EXCLUDED.implementation_cost,
		updated_at = NOW()
`

// BenchmarkRepo reads and seeds industry benchmarks in Postgres.
type BenchmarkRepo struct {
	pool *pgxpool.Pool
}

// NewBenchmarkRepo creates a repository on pool.
func NewBenchmarkRepo(pool *pgxpool.Pool) *BenchmarkRepo {
	return &BenchmarkRepo{pool: pool}
}

// EnsureSchema creates industry_benchmarks if it does not exist.
func (r *BenchmarkRepo) EnsureSchema(ctx context.Context) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	if _, err := r.pool.Exec(ctx, BenchmarkSchema); err != nil {
		return fmt.Errorf("failed to create industry_benchmarks: %w", err)
	}
	return nil
}

// LoadTable reads every row into a benchmark.Table.
func (r *BenchmarkRepo) LoadTable(ctx context.Context) (*benchmark.Table, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("database pool not configured")
	}

	rows, err := r.pool.Query(ctx, selectBenchmarks)
	if err != nil {
		return nil, fmt.Errorf("failed to query benchmarks: %w", err)
	}
	records, err := pgx.CollectRows(rows, pgx.RowToStructByName[benchmarkRow])
	if err != nil {
		return nil, fmt.Errorf("failed to scan benchmarks: %w", err)
	}

	t, err := tableFromRows(records)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("industries", t.Len()).Msg("[STORE] benchmarks loaded")
	return t, nil
}

// Upsert writes every profile of t in one transaction and makes t's default
// the only default row. Rows for industries absent from t are left alone.
func (r *BenchmarkRepo) Upsert(ctx context.Context, t *benchmark.Table) error {
	if r.pool == nil {
		return fmt.Errorf("database pool not configured")
	}
	records, err := rowsFromTable(t)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "UPDATE industry_benchmarks SET is_default = FALSE WHERE is_default"); err != nil {
		return fmt.Errorf("failed to clear default benchmark: %w", err)
	}
	for _, rec := range records {
		_, err := tx.Exec(ctx, upsertBenchmark,
			rec.Industry, rec.IsDefault, rec.InventoryTurnsBenchmark,
			rec.PlannerFTEPer100MRevenue, rec.ExceptionReductionPct, rec.LogisticsOptimizationPct,
			rec.InventoryReductionPct, rec.CarryingCostRate, rec.PlannerProductivityImprovementPct,
			rec.PlannerFullyLoadedCost, rec.AnnualPlatformCost, rec.ImplementationCost,
		)
		if err != nil {
			return fmt.Errorf("failed to upsert benchmark %q: %w", rec.Industry, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit benchmarks: %w", err)
	}
	logger.Info().Int("rows", len(records)).Msg("[STORE] benchmarks synced")
	return nil
}

func tableFromRows(rows []benchmarkRow) (*benchmark.Table, error) {
	var (
		def      *benchmark.Profile
		profiles []benchmark.Profile
	)
	for _, row := range rows {
		p := row.profile()
		if !row.IsDefault {
			profiles = append(profiles, p)
			continue
		}
		if def != nil {
			return nil, fmt.Errorf("multiple default benchmark rows: %q and %q", def.Industry, p.Industry)
		}
		def = &p
	}
	if def == nil {
		return nil, fmt.Errorf("industry_benchmarks has no default row")
	}
	return benchmark.NewTable(*def, profiles)
}

func rowsFromTable(t *benchmark.Table) ([]benchmarkRow, error) {
	def := t.Default()
	defKey := benchmark.NormalizeIndustry(def.Industry)

	rows := []benchmarkRow{rowFromProfile(def, true)}
	for _, p := range t.Profiles() {
		if benchmark.NormalizeIndustry(p.Industry) == defKey {
			return nil, fmt.Errorf("industry %q collides with the default profile name", p.Industry)
		}
		rows = append(rows, rowFromProfile(p, false))
	}
	return rows, nil
}

func (r benchmarkRow) profile() benchmark.Profile {
	p := benchmark.Profile{
		Industry:                          r.Industry,
		PlannerFTEPer100MRevenue:          r.PlannerFTEPer100MRevenue,
		ExceptionReductionPct:             r.ExceptionReductionPct,
		LogisticsOptimizationPct:          r.LogisticsOptimizationPct,
		InventoryReductionPct:             r.InventoryReductionPct,
		CarryingCostRate:                  r.CarryingCostRate,
		PlannerProductivityImprovementPct: r.PlannerProductivityImprovementPct,
		PlannerFullyLoadedCost:            r.PlannerFullyLoadedCost,
		AnnualPlatformCost:                r.AnnualPlatformCost,
		ImplementationCost:                r.ImplementationCost,
	}
	if r.InventoryTurnsBenchmark != nil {
		p.InventoryTurnsBenchmark = *r.InventoryTurnsBenchmark
	}
	return p
}

func rowFromProfile(p benchmark.Profile, isDefault bool) benchmarkRow {
	row := benchmarkRow{
		Industry:                          p.Industry,
		IsDefault:                         isDefault,
		PlannerFTEPer100MRevenue:          p.PlannerFTEPer100MRevenue,
		ExceptionReductionPct:             p.ExceptionReductionPct,
		LogisticsOptimizationPct:          p.LogisticsOptimizationPct,
		InventoryReductionPct:             p.InventoryReductionPct,
		CarryingCostRate:                  p.CarryingCostRate,
		PlannerProductivityImprovementPct: p.PlannerProductivityImprovementPct,
		PlannerFullyLoadedCost:            p.PlannerFullyLoadedCost,
		AnnualPlatformCost:                p.AnnualPlatformCost,
		ImplementationCost:                p.ImplementationCost,
	}
	if p.InventoryTurnsBenchmark != 0 {
		turns := p.InventoryTurnsBenchmark
		row.InventoryTurnsBenchmark = &turns
	}
	return row
}
