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

// MySQLSlotRepository implements SlotRepository on MySQL.
type MySQLSlotRepository struct {
	db *sqlx.DB
}

// NewMySQLSlotRepository creates a slot repository.
func NewMySQLSlotRepository(db *sqlx.DB) *MySQLSlotRepository {
	return &MySQLSlotRepository{db: db}
}

var _ ports.SlotRepository = (*MySQLSlotRepository)(nil)

// Create inserts a new slot. The (site_id, slot_name) unique key backs the
// registry's idempotency; callers check for an existing slot first.
func (r *MySQLSlotRepository) Create(ctx context.Context, slot *domain.ContentSlot) error {
	const q = `
        INSERT INTO content_slots (id, site_id, slot_name, label,
                                   sheet_column, sheet_row_identifier, created_at)
        VALUES (:id, :site_id, :slot_name, :label,
                :sheet_column, :sheet_row_identifier, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, q, entity.SlotRowFromDomain(slot)); err != nil {
		return fmt.Errorf("failed to insert slot %s: %w", slot.SlotName, err)
	}
	return nil
}

// GetByID returns the slot or (nil, nil) when the ID is unknown.
func (r *MySQLSlotRepository) GetByID(ctx context.Context, id string) (*domain.ContentSlot, error) {
	const q = `
        SELECT id, site_id, slot_name, label, sheet_column, sheet_row_identifier, created_at
        FROM   content_slots
        WHERE  id = ?`
	var row entity.SlotRow
	err := r.db.GetContext(ctx, &row, q, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slot %s: %w", id, err)
	}
	return row.ToDomain(), nil
}

// GetByName returns the slot registered under (siteID, slotName), or
// (nil, nil) when none exists.
func (r *MySQLSlotRepository) GetByName(ctx context.Context, siteID, slotName string) (*domain.ContentSlot, error) {
	const q = `
        SELECT id, site_id, slot_name, label, sheet_column, sheet_row_identifier, created_at
        FROM   content_slots
        WHERE  site_id = ? AND slot_name = ?`
	var row entity.SlotRow
	err := r.db.GetContext(ctx, &row, q, siteID, slotName)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch slot %s/%s: %w", siteID, slotName, err)
	}
	return row.ToDomain(), nil
}

// ListBySite returns a site's slots in registration order.
func (r *MySQLSlotRepository) ListBySite(ctx context.Context, siteID string) ([]*domain.ContentSlot, error) {
	const q = `
        SELECT id, site_id, slot_name, label, sheet_column, sheet_row_identifier, created_at
        FROM   content_slots
        WHERE  site_id = ?
        ORDER BY created_at`
	var rows []entity.SlotRow
	if err := r.db.SelectContext(ctx, &rows, q, siteID); err != nil {
		return nil, fmt.Errorf("failed to list slots for site %s: %w", siteID, err)
	}
	return toDomainSlots(rows), nil
}

// ListMappedByOrganization returns every sheet-mapped slot belonging to an
// organization's active sites. This is the sync bridge's work list.
func (r *MySQLSlotRepository) ListMappedByOrganization(ctx context.Context, orgID string) ([]*domain.ContentSlot, error) {
	const q = `
        SELECT cs.id, cs.site_id, cs.slot_name, cs.label,
               cs.sheet_column, cs.sheet_row_identifier, cs.created_at
        FROM   content_slots cs
        JOIN   sites s ON s.id = cs.site_id
        WHERE  s.organization_id = ?
          AND  s.status = 'active'
          AND  cs.sheet_column IS NOT NULL
          AND  cs.sheet_row_identifier IS NOT NULL
        ORDER BY cs.created_at`
	var rows []entity.SlotRow
	if err := r.db.SelectContext(ctx, &rows, q, orgID); err != nil {
		return nil, fmt.Errorf("failed to list mapped slots for organization %s: %w", orgID, err)
	}
	return toDomainSlots(rows), nil
}

// UpdateMapping upserts the slot's sheet coordinate, replacing any prior
// mapping (one mapping per slot).
func (r *MySQLSlotRepository) UpdateMapping(ctx context.Context, id, column, rowIdentifier string) error {
	const q = `UPDATE content_slots SET sheet_column = ?, sheet_row_identifier = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, column, rowIdentifier, id); err != nil {
		return fmt.Errorf("failed to update mapping of slot %s: %w", id, err)
	}
	return nil
}

// DeleteBySite removes all slots of a site (registry cascade on disconnect).
func (r *MySQLSlotRepository) DeleteBySite(ctx context.Context, siteID string) error {
	const q = `DELETE FROM content_slots WHERE site_id = ?`
	if _, err := r.db.ExecContext(ctx, q, siteID); err != nil {
		return fmt.Errorf("failed to delete slots for site %s: %w", siteID, err)
	}
	return nil
}

func toDomainSlots(rows []entity.SlotRow) []*domain.ContentSlot {
	slots := make([]*domain.ContentSlot, 0, len(rows))
	for i := range rows {
		slots = append(slots, rows[i].ToDomain())
	}
	return slots
}
