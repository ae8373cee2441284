package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"campusgate/internal/audit"
	id "campusgate/pkg/domain"
)

// Store persists audit entries in PostgreSQL. IDs come from a BIGSERIAL
// sequence, which keeps them strictly increasing under concurrent appends.
type Store struct {
	db *sql.DB
}

// New creates a PostgreSQL-backed audit store.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Append(ctx context.Context, entry audit.Entry) (audit.Entry, error) {
	query := `
		INSERT INTO audit_entries (ts, gate_id, person_id, plate, method, granted, reason, alert_triggered, notes)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, $6, $7, $8, $9)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		entry.Timestamp,
		entry.GateID.String(),
		entry.PersonID.String(),
		entry.Plate.String(),
		string(entry.Decision.Method),
		entry.Decision.Granted,
		string(entry.Decision.Reason),
		entry.AlertTriggered,
		entry.Notes,
	).Scan(&entry.ID)
	if err != nil {
		return audit.Entry{}, fmt.Errorf("append audit entry: %w", err)
	}
	return entry, nil
}

func (s *Store) Query(ctx context.Context, filter audit.Filter) ([]audit.Entry, error) {
	var (
		conds []string
		args  []any
	)
	add := func(cond string, arg any) {
		args = append(args, arg)
		conds = append(conds, cond+"$"+strconv.Itoa(len(args)))
	}

	if !filter.From.IsZero() {
		add("ts >= ", filter.From)
	}
	if !filter.To.IsZero() {
		add("ts <= ", filter.To)
	}
	if filter.GateID != "" {
		add("gate_id = ", filter.GateID.String())
	}
	if filter.PersonID != "" {
		add("person_id = ", filter.PersonID.String())
	}
	if filter.Plate != "" {
		add("plate = ", filter.Plate.String())
	}
	if filter.Granted != nil {
		add("granted = ", *filter.Granted)
	}
	if filter.HasAlert != nil {
		add("alert_triggered = ", *filter.HasAlert)
	}

	query := `
		SELECT id, ts, gate_id, COALESCE(person_id, ''), COALESCE(plate, ''), method, granted, reason, alert_triggered, notes
		FROM audit_entries
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"
	args = append(args, filter.Limit)
	query += " LIMIT $" + strconv.Itoa(len(args))
	args = append(args, filter.Offset)
	query += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()

	var entries []audit.Entry
	for rows.Next() {
		var e audit.Entry
		if err := rows.Scan(
			&e.ID, &e.Timestamp, &e.GateID, &e.PersonID, &e.Plate,
			&e.Decision.Method, &e.Decision.Granted, &e.Decision.Reason,
			&e.AlertTriggered, &e.Notes,
		); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func (s *Store) CountDenied(ctx context.Context, personID id.PersonID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM audit_entries
		WHERE person_id = $1 AND granted = FALSE AND ts >= $2
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, personID.String(), since).Scan(&count); err != nil {
		return 0, fmt.Errorf("count denied attempts: %w", err)
	}
	return count, nil
}

func (s *Store) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM audit_entries WHERE ts < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete audit entries: %w", err)
	}
	return res.RowsAffected()
}
