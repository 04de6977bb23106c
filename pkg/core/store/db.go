package store

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
)

// defaultMaxConns is small: the pool only serves benchmark loads and syncs.
const defaultMaxConns = 4

var (
	pool *pgxpool.Pool
	mu   sync.Mutex
)

// InitDB opens the pool from DATABASE_URL. Once a pool is open later calls
// reuse it; a failed attempt is retried on the next call and its cause is
// returned every time. DB_MAX_CONNS overrides the pool size.
func InitDB(ctx context.Context) error {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		return nil
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return fmt.Errorf("failed to parse database config: %w", err)
	}
	config.MaxConns = defaultMaxConns
	if n, convErr := strconv.Atoi(os.Getenv("DB_MAX_CONNS")); convErr == nil && n > 0 {
		config.MaxConns = int32(n)
	}

	p, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to open database pool: %w", err)
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return fmt.Errorf("failed to reach database: %w", err)
	}
	pool = p
	logger.Info().Str("host", config.ConnConfig.Host).Int32("max_conns", config.MaxConns).Msg("[STORE] database pool ready")
	return nil
}

// GetPool returns the pool, or nil when InitDB has not succeeded.
func GetPool() *pgxpool.Pool {
	mu.Lock()
	defer mu.Unlock()
	return pool
}

// Close closes the database connection pool
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if pool != nil {
		pool.Close()
		pool = nil
	}
}
