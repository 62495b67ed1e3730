package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/Clark-Hu/flopwatch/internal/config"
	"github.com/Clark-Hu/flopwatch/internal/store"
	"github.com/Clark-Hu/flopwatch/internal/testdb"
)

func TestMigrateIsRepeatable(t *testing.T) {
	st := testdb.New(t, "store_test")
	ctx := context.Background()

	if err := st.Migrate(ctx, testdb.MigrationsDir()); err != nil {
		t.Fatalf("second migrate: %v", err)
	}
	if err := st.HealthCheck(ctx); err != nil {
		t.Fatalf("health check: %v", err)
	}

	var exists bool
	err := st.Pool().QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM information_schema.columns WHERE table_name = 'movies' AND column_name = 'total_gross')`,
	).Scan(&exists)
	if err != nil {
		t.Fatalf("inspect schema: %v", err)
	}
	if !exists {
		t.Fatalf("movies.total_gross column missing after migrate")
	}
}

func TestMigrateMissingDir(t *testing.T) {
	st := testdb.New(t, "store_test_missing")
	if err := st.Migrate(context.Background(), t.TempDir()); err == nil {
		t.Fatalf("expected error for empty migrations dir")
	}
}

func TestHealthCheckNilStore(t *testing.T) {
	var st *store.Store
	if err := st.HealthCheck(context.Background()); err == nil {
		t.Fatalf("expected error for nil store")
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts := store.OptionsFromConfig(config.StoreConfig{
		DBMaxConns:        8,
		DBMinConns:        1,
		DBMaxIdleSecs:     30,
		DBConnTimeoutSecs: 2,
		DBStatementCache:  64,
	}, nil)

	if opts.MaxConns != 8 || opts.MinConns != 1 {
		t.Fatalf("pool sizes = %d/%d, want 8/1", opts.MaxConns, opts.MinConns)
	}
	if opts.MaxConnIdleTime != 30*time.Second || opts.ConnTimeout != 2*time.Second {
		t.Fatalf("durations = %s/%s", opts.MaxConnIdleTime, opts.ConnTimeout)
	}
	if opts.StatementCacheCapacity != 64 {
		t.Fatalf("StatementCacheCapacity = %d, want 64", opts.StatementCacheCapacity)
	}
}

func TestStats(t *testing.T) {
	st := testdb.New(t, "store_test_stats")
	if err := st.HealthCheck(context.Background()); err != nil {
		t.Fatalf("health check: %v", err)
	}
	stat := st.Stats()
	if stat == nil {
		t.Fatalf("Stats() = nil for open store")
	}
	if stat.MaxConns() <= 0 {
		t.Fatalf("MaxConns = %d, want positive", stat.MaxConns())
	}

	var nilStore *store.Store
	if nilStore.Stats() != nil {
		t.Fatalf("Stats() on nil store should be nil")
	}
}
