//go:build integration

package containers

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// schema mirrors the production DDL. Integration tests get a fresh database
// per container, so there is no migration machinery here.
const schema = `
CREATE TABLE IF NOT EXISTS persons (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	email      TEXT NOT NULL DEFAULT '',
	role       TEXT NOT NULL,
	department TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS vehicles (
	plate         TEXT PRIMARY KEY,
	owner_id      TEXT REFERENCES persons(id),
	vehicle_type  TEXT NOT NULL,
	color         TEXT NOT NULL DEFAULT '',
	model         TEXT NOT NULL DEFAULT '',
	status        TEXT NOT NULL,
	registered_at TIMESTAMPTZ NOT NULL,
	updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS audit_entries (
	id              BIGSERIAL PRIMARY KEY,
	ts              TIMESTAMPTZ NOT NULL,
	gate_id         TEXT NOT NULL,
	person_id       TEXT,
	plate           TEXT,
	method          TEXT NOT NULL,
	granted         BOOLEAN NOT NULL,
	reason          TEXT NOT NULL,
	alert_triggered BOOLEAN NOT NULL,
	notes           TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_audit_entries_person_ts ON audit_entries (person_id, ts);
CREATE INDEX IF NOT EXISTS idx_audit_entries_ts ON audit_entries (ts);

CREATE TABLE IF NOT EXISTS alerts (
	id          BIGSERIAL PRIMARY KEY,
	alert_type  TEXT NOT NULL,
	message     TEXT NOT NULL,
	person_id   TEXT,
	plate       TEXT,
	gate_id     TEXT NOT NULL DEFAULT '',
	entry_id    BIGINT UNIQUE,
	delivered   BOOLEAN NOT NULL DEFAULT FALSE,
	resolved    BOOLEAN NOT NULL DEFAULT FALSE,
	created_at  TIMESTAMPTZ NOT NULL,
	resolved_at TIMESTAMPTZ
);
`

// PostgresContainer wraps a testcontainers PostgreSQL instance with the
// campusgate schema applied.
type PostgresContainer struct {
	Container testcontainers.Container
	URL       string
	DB        *sql.DB
}

// NewPostgresContainer starts a new PostgreSQL container and applies the
// schema.
func NewPostgresContainer(t *testing.T) *PostgresContainer {
	t.Helper()

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("campusgate_test"),
		tcpostgres.WithUsername("campusgate"),
		tcpostgres.WithPassword("campusgate"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	url, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to get postgres connection string: %v", err)
	}

	db, err := sql.Open("postgres", url)
	if err != nil {
		_ = container.Terminate(ctx)
		t.Fatalf("failed to open postgres connection: %v", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to ping postgres: %v", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		_ = container.Terminate(ctx)
		t.Fatalf("failed to apply schema: %v", err)
	}

	pc := &PostgresContainer{
		Container: container,
		URL:       url,
		DB:        db,
	}

	t.Cleanup(func() {
		_ = db.Close()
		_ = container.Terminate(ctx)
	})

	return pc
}

// Truncate clears all tables. Use between tests to ensure isolation.
func (p *PostgresContainer) Truncate(ctx context.Context) error {
	_, err := p.DB.ExecContext(ctx,
		`TRUNCATE alerts, audit_entries, vehicles, persons RESTART IDENTITY CASCADE`)
	return err
}
