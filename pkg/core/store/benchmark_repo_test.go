package store

import (
	"context"
	"strings"
	"testing"

	"logistics_roi/pkg/core/benchmark"
)

func sampleProfile(industry string, turns float64) benchmark.Profile {
	return benchmark.Profile{
		Industry:                          industry,
		InventoryTurnsBenchmark:           turns,
		PlannerFTEPer100MRevenue:          2,
		ExceptionReductionPct:             0.25,
		LogisticsOptimizationPct:          0.15,
		InventoryReductionPct:             0.1,
		CarryingCostRate:                  0.2,
		PlannerProductivityImprovementPct: 0.1,
		PlannerFullyLoadedCost:            80000,
		AnnualPlatformCost:                50000,
		ImplementationCost:                30000,
	}
}

func TestRowsRoundTrip(t *testing.T) {
	table, err := benchmark.NewTable(sampleProfile("", 0), []benchmark.Profile{
		sampleProfile("Retail", 10),
		sampleProfile("Manufacturing", 0),
	})
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}

	rows, err := rowsFromTable(table)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 3 || !rows[0].IsDefault || rows[0].Industry != benchmark.DefaultIndustry {
		t.Fatalf("expected default row first, got %+v", rows)
	}
	if rows[0].InventoryTurnsBenchmark != nil {
		t.Error("unset turns should be stored as NULL")
	}

	back, err := tableFromRows(rows)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Len() != 2 {
		t.Errorf("expected 2 industries, got %d", back.Len())
	}
	p, ok := back.Lookup("retail")
	if !ok || p.InventoryTurnsBenchmark != 10 {
		t.Errorf("retail lost in round trip: %+v (matched=%v)", p, ok)
	}
	if back.Default().InventoryTurns() != benchmark.DefaultInventoryTurns {
		t.Error("NULL turns should fall back to the default")
	}
}

func TestTableFromRows_DefaultRules(t *testing.T) {
	retail := rowFromProfile(sampleProfile("Retail", 8), false)

	if _, err := tableFromRows([]benchmarkRow{retail}); err == nil || !strings.Contains(err.Error(), "no default") {
		t.Errorf("expected missing default error, got %v", err)
	}

	a := rowFromProfile(sampleProfile("A", 8), true)
	b := rowFromProfile(sampleProfile("B", 8), true)
	if _, err := tableFromRows([]benchmarkRow{a, b}); err == nil || !strings.Contains(err.Error(), "multiple default") {
		t.Errorf("expected multiple default error, got %v", err)
	}
}

func TestRowsFromTable_RejectsDefaultNameCollision(t *testing.T) {
	table, err := benchmark.NewTable(sampleProfile("Default", 8), []benchmark.Profile{sampleProfile("default", 8)})
	if err != nil {
		t.Fatalf("failed to build table: %v", err)
	}
	if _, err := rowsFromTable(table); err == nil {
		t.Error("expected collision error")
	}
}

func TestBenchmarkRepo_NoPool(t *testing.T) {
	repo := NewBenchmarkRepo(nil)
	if _, err := repo.LoadTable(context.Background()); err == nil {
		t.Error("expected error without a pool")
	}
	if err := repo.Upsert(context.Background(), nil); err == nil {
		t.Error("expected error without a pool")
	}
	if err := repo.EnsureSchema(context.Background()); err == nil {
		t.Error("expected error without a pool")
	}
}

func TestLoadBenchmarks_YAMLWithoutDatabase(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	table, source, err := LoadBenchmarks(context.Background(), "../../../config/benchmarks.yaml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if source != SourceYAML {
		t.Errorf("expected yaml source, got %q", source)
	}
	if _, ok := table.Lookup("Retail"); !ok {
		t.Error("expected Retail in shipped benchmarks")
	}
}

func TestLoadBenchmarks_MissingFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	if _, _, err := LoadBenchmarks(context.Background(), "does-not-exist.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestInitDB_FailureIsReportedOnEveryCall(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	for i := 0; i < 2; i++ {
		if err := InitDB(context.Background()); err == nil || !strings.Contains(err.Error(), "DATABASE_URL") {
			t.Fatalf("call %d: expected missing DATABASE_URL error, got %v", i, err)
		}
	}

	// The next attempt reads the environment again.
	t.Setenv("DATABASE_URL", "postgres://bad host:notaport/db")
	if err := InitDB(context.Background()); err == nil || !strings.Contains(err.Error(), "failed to parse database config") {
		t.Fatalf("expected parse error after retry, got %v", err)
	}
	if GetPool() != nil {
		t.Error("expected no pool after failed init")
	}
}
