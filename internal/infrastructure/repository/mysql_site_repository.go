package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/repository/entity"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// MySQLSiteRepository implements SiteRepository on MySQL.
type MySQLSiteRepository struct {
	db *sqlx.DB
}

// NewMySQLSiteRepository creates a site repository.
func NewMySQLSiteRepository(db *sqlx.DB) *MySQLSiteRepository {
	return &MySQLSiteRepository{db: db}
}

var _ ports.SiteRepository = (*MySQLSiteRepository)(nil)

// Create inserts a new site row. The platform type is written once here and
// never updated afterwards.
func (r *MySQLSiteRepository) Create(ctx context.Context, site *domain.Site) error {
	const q = `
        INSERT INTO sites (id, organization_id, platform_type, site_url,
                           wp_username, wp_app_password, session_token, status, created_at)
        VALUES (:id, :organization_id, :platform_type, :site_url,
                :wp_username, :wp_app_password, :session_token, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, entity.SiteRowFromDomain(site)); err != nil {
		return fmt.Errorf("failed to insert site: %w", err)
	}
	return nil
}

// GetByID returns the site or (nil, nil) when the ID is unknown.
func (r *MySQLSiteRepository) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	const q = `
        SELECT id, organization_id, platform_type, site_url,
               wp_username, wp_app_password, session_token, status, created_at
        FROM   sites
        WHERE  id = ?`
	var row entity.SiteRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch site %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

// ListByOrganization returns all sites owned by an organization, newest
// first.
func (r *MySQLSiteRepository) ListByOrganization(ctx context.Context, orgID string) ([]*domain.Site, error) {
	const q = `
        SELECT id, organization_id, platform_type, site_url,
               wp_username, wp_app_password, session_token, status, created_at
        FROM   sites
        WHERE  organization_id = ?
        ORDER BY created_at DESC`
	var rows []entity.SiteRow
	if err := r.db.SelectContext(ctx, &rows, q, orgID); err != nil {
		return nil, fmt.Errorf("failed to list sites for organization %s: %w", orgID, err)
	}
	sites := make([]*domain.Site, 0, len(rows))
	for i := range rows {
		sites = append(sites, rows[i].ToDomain())
	}
	return sites, nil
}

// UpdateStatus transitions a site's lifecycle state.
func (r *MySQLSiteRepository) UpdateStatus(ctx context.Context, id string, status domain.SiteStatus) error {
	const q = `UPDATE sites SET status = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to update status of site %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return domain.NewError(domain.KindNotFound, "site %s does not exist", id)
	}
	return nil
}

// Stats aggregates an organization's sites by platform and by status.
func (r *MySQLSiteRepository) Stats(ctx context.Context, orgID string) (*domain.SiteStats, error) {
	const q = `
        SELECT platform_type, status, COUNT(*) AS n
        FROM   sites
        WHERE  organization_id = ?
        GROUP BY platform_type, status`
	var rows []struct {
		PlatformType string `db:"platform_type"`
		Status       string `db:"status"`
		N            int    `db:"n"`
	}
	if err := r.db.SelectContext(ctx, &rows, q, orgID); err != nil {
		return nil, fmt.Errorf("failed to aggregate site stats for organization %s: %w", orgID, err)
	}

	stats := &domain.SiteStats{
		ByPlatform: make(map[string]int),
		ByStatus:   make(map[string]int),
	}
	for _, row := range rows {
		stats.Total += row.N
		stats.ByPlatform[row.PlatformType] += row.N
		stats.ByStatus[row.Status] += row.N
	}
	return stats, nil
}
