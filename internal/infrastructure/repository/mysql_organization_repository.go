package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// MySQLOrganizationRepository implements OrganizationRepository on MySQL.
type MySQLOrganizationRepository struct {
	db *sqlx.DB
}

// NewMySQLOrganizationRepository creates an organization repository.
func NewMySQLOrganizationRepository(db *sqlx.DB) *MySQLOrganizationRepository {
	return &MySQLOrganizationRepository{db: db}
}

var _ ports.OrganizationRepository = (*MySQLOrganizationRepository)(nil)

// Create inserts a new organization.
func (r *MySQLOrganizationRepository) Create(ctx context.Context, org *domain.Organization) error {
	const q = `
        INSERT INTO organizations (id, name, email, created_at)
        VALUES (:id, :name, :email, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, org); err != nil {
		return fmt.Errorf("failed to insert organization: %w", err)
	}
	return nil
}

// GetByID returns the organization or (nil, nil) when the ID is unknown.
func (r *MySQLOrganizationRepository) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	const q = `SELECT id, name, email, created_at FROM organizations WHERE id = ?`
	var org domain.Organization
	err := r.db.GetContext(ctx, &org, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch organization %s: %w", id, err)
	}
	return &org, nil
}
