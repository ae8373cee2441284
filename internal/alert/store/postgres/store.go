package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"campusgate/internal/alert"
	"campusgate/pkg/platform/sentinel"
)

// Store persists alerts in PostgreSQL. entry_id is nullable UNIQUE: one
// alert per audit entry even under concurrent retried dispatch, while
// backlog alerts with no entry insert NULL and stay exempt. The insert is
// ON CONFLICT DO NOTHING and the loser of the race reads the winner's row.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed alert store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

const alertColumns = `id, alert_type, message, COALESCE(person_id, ''), COALESCE(plate, ''), gate_id, COALESCE(entry_id, 0), delivered, resolved, created_at, resolved_at`

func (s *Store) Create(ctx context.Context, a alert.Alert) (alert.Alert, bool, error) {
	query := `
		INSERT INTO alerts (alert_type, message, person_id, plate, gate_id, entry_id, delivered, resolved, created_at)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, 0), FALSE, FALSE, $7)
		ON CONFLICT (entry_id) DO NOTHING
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		string(a.Type), a.Message, a.PersonID.String(), a.Plate.String(),
		a.GateID.String(), a.EntryID, a.CreatedAt,
	).Scan(&a.ID)
	if err == nil {
		return a, true, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return alert.Alert{}, false, fmt.Errorf("create alert: %w", err)
	}

	// Conflict: another dispatch already alerted this entry.
	existing, err := s.findByEntry(ctx, a.EntryID)
	if err != nil {
		return alert.Alert{}, false, fmt.Errorf("create alert: load existing: %w", err)
	}
	return existing, false, nil
}

func (s *Store) findByEntry(ctx context.Context, entryID int64) (alert.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE entry_id = $1`
	return s.scanOne(s.db.QueryRowContext(ctx, query, entryID))
}

func (s *Store) Find(ctx context.Context, alertID int64) (alert.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts WHERE id = $1`
	a, err := s.scanOne(s.db.QueryRowContext(ctx, query, alertID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return alert.Alert{}, sentinel.ErrNotFound
		}
		return alert.Alert{}, err
	}
	return a, nil
}

func (s *Store) Resolve(ctx context.Context, alertID int64, at time.Time) error {
	// Idempotent: only unresolved rows transition; resolving an unknown or
	// already-resolved alert affects zero rows, which is fine.
	query := `
		UPDATE alerts SET resolved = TRUE, resolved_at = $2
		WHERE id = $1 AND resolved = FALSE
	`
	if _, err := s.db.ExecContext(ctx, query, alertID, at); err != nil {
		return fmt.Errorf("resolve alert: %w", err)
	}
	return nil
}

func (s *Store) MarkDelivered(ctx context.Context, alertID int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE alerts SET delivered = TRUE WHERE id = $1`, alertID)
	if err != nil {
		return fmt.Errorf("mark alert delivered: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark alert delivered: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context, resolved *bool) ([]alert.Alert, error) {
	query := `SELECT ` + alertColumns + ` FROM alerts`
	var args []any
	if resolved != nil {
		query += ` WHERE resolved = $1`
		args = append(args, *resolved)
	}
	query += ` ORDER BY id DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []alert.Alert
	for rows.Next() {
		a, err := s.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate alerts: %w", err)
	}
	return alerts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanOne(row rowScanner) (alert.Alert, error) {
	var (
		a          alert.Alert
		resolvedAt sql.NullTime
	)
	err := row.Scan(
		&a.ID, &a.Type, &a.Message, &a.PersonID, &a.Plate, &a.GateID,
		&a.EntryID, &a.Delivered, &a.Resolved, &a.CreatedAt, &resolvedAt,
	)
	if err != nil {
		return alert.Alert{}, err
	}
	if resolvedAt.Valid {
		t := resolvedAt.Time
		a.ResolvedAt = &t
	}
	return a, nil
}
