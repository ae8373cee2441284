package person

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"campusgate/internal/registry/models"
	id "campusgate/pkg/domain"
	"campusgate/pkg/platform/sentinel"
	"campusgate/pkg/requestcontext"
)

// PostgresStore persists person records in PostgreSQL. Pure I/O; status
// transition rules belong in the service layer.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed person store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) LookupPerson(ctx context.Context, personID id.PersonID) (models.Person, error) {
	query := `
		SELECT id, name, email, role, department, status, created_at, updated_at
		FROM persons
		WHERE id = $1
	`
	var p models.Person
	err := s.db.QueryRowContext(ctx, query, personID.String()).Scan(
		&p.ID, &p.Name, &p.Email, &p.Role, &p.Department, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Person{}, sentinel.ErrNotFound
		}
		return models.Person{}, fmt.Errorf("lookup person: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) Save(ctx context.Context, person models.Person) error {
	now := requestcontext.Now(ctx)
	query := `
		INSERT INTO persons (id, name, email, role, department, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			email = EXCLUDED.email,
			role = EXCLUDED.role,
			department = EXCLUDED.department,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query,
		person.ID.String(), person.Name, person.Email, string(person.Role),
		person.Department, string(person.Status), now,
	)
	if err != nil {
		return fmt.Errorf("save person: %w", err)
	}
	return nil
}

func (s *PostgresStore) UpdateStatus(ctx context.Context, personID id.PersonID, status models.Status) error {
	query := `
		UPDATE persons SET status = $2, updated_at = $3 WHERE id = $1
	`
	res, err := s.db.ExecContext(ctx, query, personID.String(), string(status), requestcontext.Now(ctx))
	if err != nil {
		return fmt.Errorf("update person status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update person status: %w", err)
	}
	if affected == 0 {
		return sentinel.ErrNotFound
	}
	return nil
}
