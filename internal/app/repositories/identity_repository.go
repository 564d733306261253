package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/serhiib/registry/internal/app/models"
	"github.com/serhiib/registry/internal/pkg/apperrors"
)

// IdentityRepositoryPg handles database operations for identities
type IdentityRepositoryPg struct {
	db *pgxpool.Pool
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *pgxpool.Pool) *IdentityRepositoryPg {
	return &IdentityRepositoryPg{
		db: db,
	}
}

// Create inserts a new identity. Duplicate names map to ErrNameTaken.
func (r *IdentityRepositoryPg) Create(ctx context.Context, identity *models.Identity) error {
	query := `
		INSERT INTO identities (name, email, role, password)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query, identity.Name, identity.Email, identity.Role, identity.Password).
		Scan(&identity.ID, &identity.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrNameTaken
		}
		return fmt.Errorf("error creating identity: %w", err)
	}

	return nil
}

// GetByName retrieves an identity by its unique name
func (r *IdentityRepositoryPg) GetByName(ctx context.Context, name string) (*models.Identity, error) {
	query := `
		SELECT id, name, email, role, password, created_at
		FROM identities
		WHERE name = $1
	`

	var identity models.Identity
	err := r.db.QueryRow(ctx, query, name).Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.Role,
		&identity.Password,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("error retrieving identity: %w", err)
	}

	return &identity, nil
}

// GetByID retrieves an identity by ID
func (r *IdentityRepositoryPg) GetByID(ctx context.Context, id int64) (*models.Identity, error) {
	query := `
		SELECT id, name, email, role, password, created_at
		FROM identities
		WHERE id = $1
	`

	var identity models.Identity
	err := r.db.QueryRow(ctx, query, id).Scan(
		&identity.ID,
		&identity.Name,
		&identity.Email,
		&identity.Role,
		&identity.Password,
		&identity.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("error retrieving identity: %w", err)
	}

	return &identity, nil
}

// GetAll retrieves all identities
func (r *IdentityRepositoryPg) GetAll(ctx context.Context) ([]*models.Identity, error) {
	query := `
		SELECT id, name, email, role, password, created_at
		FROM identities
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIdentities(rows)
}

// GetByRole retrieves all identities holding the given role
func (r *IdentityRepositoryPg) GetByRole(ctx context.Context, role models.RoleType) ([]*models.Identity, error) {
	query := `
		SELECT id, name, email, role, password, created_at
		FROM identities
		WHERE role = $1
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanIdentities(rows)
}

// Update updates an existing identity
func (r *IdentityRepositoryPg) Update(ctx context.Context, identity *models.Identity) error {
	query := `
		UPDATE identities
		SET name = $1, email = $2, role = $3
		WHERE id = $4
	`

	cmdTag, err := r.db.Exec(ctx, query, identity.Name, identity.Email, identity.Role, identity.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return apperrors.ErrNameTaken
		}
		return fmt.Errorf("error updating identity: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrIdentityNotFound
	}

	return nil
}

func scanIdentities(rows pgx.Rows) ([]*models.Identity, error) {
	var identities []*models.Identity
	for rows.Next() {
		var identity models.Identity
		if err := rows.Scan(
			&identity.ID,
			&identity.Name,
			&identity.Email,
			&identity.Role,
			&identity.Password,
			&identity.CreatedAt,
		); err != nil {
			return nil, err
		}
		identities = append(identities, &identity)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return identities, nil
}
