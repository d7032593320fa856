package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/repository/entity"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// MySQLUpdateRepository implements the append-only audit trail on MySQL.
type MySQLUpdateRepository struct {
	db *sqlx.DB
}

// NewMySQLUpdateRepository creates an audit repository.
func NewMySQLUpdateRepository(db *sqlx.DB) *MySQLUpdateRepository {
	return &MySQLUpdateRepository{db: db}
}

var _ ports.UpdateRepository = (*MySQLUpdateRepository)(nil)

// Append writes one audit record. Records are never updated or deleted.
func (r *MySQLUpdateRepository) Append(ctx context.Context, rec *domain.ContentUpdateRecord) error {
	const q = `
        INSERT INTO content_updates (id, organization_id, site_id, slot_id,
                                     instructions, generated_content, applied_at)
        VALUES (:id, :organization_id, :site_id, :slot_id,
                :instructions, :generated_content, :applied_at)`
	if _, err := r.db.NamedExecContext(ctx, q, entity.UpdateRowFromDomain(rec)); err != nil {
		return fmt.Errorf("failed to append content update record: %w", err)
	}
	return nil
}

// ListBySite returns a site's most recent audit records.
func (r *MySQLUpdateRepository) ListBySite(ctx context.Context, siteID string, limit int) ([]*domain.ContentUpdateRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
        SELECT id, organization_id, site_id, slot_id,
               instructions, generated_content, applied_at
        FROM   content_updates
        WHERE  site_id = ?
        ORDER BY applied_at DESC
        LIMIT  ?`
	var rows []entity.UpdateRow
	if err := r.db.SelectContext(ctx, &rows, q, siteID, limit); err != nil {
		return nil, fmt.Errorf("failed to list content updates for site %s: %w", siteID, err)
	}
	recs := make([]*domain.ContentUpdateRecord, 0, len(rows))
	for i := range rows {
		recs = append(recs, rows[i].ToDomain())
	}
	return recs, nil
}
