package vehicle

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/sentinel"
	"campusgate/pkg/requestcontext"
)

// PostgresStore persists vehicle records in PostgreSQL. The plate primary
// key enforces uniqueness; a unique_violation maps to sentinel.ErrConflict
// so the service can reject duplicate registrations cleanly.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed vehicle store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LookupVehicle(ctx context.Context, plate id.Plate) (models.Vehicle, error) {
	query := `
		SELECT plate, COALESCE(owner_id, ''), vehicle_type, color, model, status, registered_at, updated_at
		FROM vehicles
		WHERE plate = $1
	`
	var v models.Vehicle
	err := s.db.QueryRowContext(ctx, query, plate.String()).Scan(
		&v.Plate, &v.OwnerID, &v.Type, &v.Color, &v.Model, &v.Status, &v.RegisteredAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Vehicle{}, sentinel.ErrNotFound
		}
		return models.Vehicle{}, fmt.Errorf("lookup vehicle: %w", err)
	}
	return v, nil
}

func (s *PostgresStore) Create(ctx context.Context, vehicle models.Vehicle) error {
	now := requestcontext.Now(ctx)
	query := `
		INSERT INTO vehicles (plate, owner_id, vehicle_type, color, model, status, registered_at, updated_at)
		VALUES ($1, NULLIF($2, ''), $3, $4, $5, $6, $7, $7)
	`
	_, err := s.db.ExecContext(ctx, query,
		vehicle.Plate.String(), vehicle.OwnerID.String(), string(vehicle.Type),
		vehicle.Color, vehicle.Model, string(vehicle.Status), now,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("create vehicle: %w", err)
	}
	return nil
}

func (s *PostgresStore) Update(ctx context.Context, vehicle models.Vehicle) error {
	query := `
		UPDATE vehicles
		SET owner_id = NULLIF($2, ''), vehicle_type = $3, color = $4, model = $5, status = $6, updated_at = $7
		WHERE plate = $1
	`
	res, err := s.db.ExecContext(ctx, query,
		vehicle.Plate.String(), vehicle.OwnerID.String(), string(vehicle.Type),
		vehicle.Color, vehicle.Model, string(vehicle.Status), requestcontext.Now(ctx),
	)
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update vehicle: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) CountByOwner(ctx context.Context, ownerID id.PersonID) (int, error) {
	query := `
		SELECT COUNT(*) FROM vehicles WHERE owner_id = $1 AND status = 'active'
	`
	var count int
	if err := s.db.QueryRowContext(ctx, query, ownerID.String()).Scan(&count); err != nil {
		return 0, fmt.Errorf("count vehicles by owner: %w", err)
	}
	return count, nil
}
