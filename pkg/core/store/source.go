package store

import (
	"context"
	"os"

	"logistics_roi/pkg/core/benchmark"
)

// Benchmark sources reported by LoadBenchmarks.
const (
	SourcePostgres = "postgres"
	SourceYAML     = "yaml"
)

// LoadBenchmarks reads the benchmark table from Postgres when DATABASE_URL
// is set, and from yamlPath otherwise or when the database read fails.
func LoadBenchmarks(ctx context.Context, yamlPath string) (*benchmark.Table, string, error) {
	if os.Getenv("DATABASE_URL") != "" {
		t, err := loadFromDB(ctx)
		if err == nil {
			return t, SourcePostgres, nil
		}
		logger.Warn().Err(err).Str("path", yamlPath).Msg("[STORE] database benchmarks unavailable, using file")
	}

	t, err := benchmark.LoadYAML(yamlPath)
	if err != nil {
		return nil, "", err
	}
	return t, SourceYAML, nil
}

func loadFromDB(ctx context.Context) (*benchmark.Table, error) {
	if err := InitDB(ctx); err != nil {
		return nil, err
	}
	repo := NewBenchmarkRepo(GetPool())
	if err := repo.EnsureSchema(ctx); err != nil {
		return nil, err
	}
	return repo.LoadTable(ctx)
}
