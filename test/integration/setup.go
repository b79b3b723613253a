package integration

import (
	"context"
	"fmt"
	"testing"
	"time"

	"macrolog/internal/database"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container, runs the embedded
// migrations against it, and opens a connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	logger := zerolog.Nop()

	// The same migration path the server runs at startup.
	if err := database.Migrate(ctx, connStr, logger); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// SeedFoods inserts test catalogue data into the database.
func SeedFoods(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	foods := []struct {
		name        string
		protein     float64
		carbs       float64
		fat         float64
		calories    float64
		servingSize float64
		unit        string
	}{
		{"Eggs", 12, 1, 10, 140, 2, "piece"},
		{"Banana", 1.3, 27, 0.4, 105, 1, "piece"},
		{"Chicken breast", 31, 0, 3.6, 165, 100, "g"},
		{"Rice", 4.3, 45, 0.4, 206, 1, "cup"},
		{"Whole milk", 8, 12, 8, 150, 250, "ml"},
	}

	for _, f := range foods {
		_, err := pool.Exec(ctx,
			`INSERT INTO foods (name, protein_g, carbs_g, fat_g, calories, serving_size, unit)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			f.name, f.protein, f.carbs, f.fat, f.calories, f.servingSize, f.unit,
		)
		if err != nil {
			t.Fatalf("failed to seed food %s: %v", f.name, err)
		}
	}
}

// CleanupDB cleans all data from test tables.
func CleanupDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	tables := []string{"daily_log", "frequently_used_foods", "meal_templates", "foods"}
	for _, table := range tables {
		_, err := pool.Exec(ctx, fmt.Sprintf("DELETE FROM %s", table))
		if err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}
}
