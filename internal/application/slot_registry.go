package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// SlotRegistry persists the mapping between a logical slot, its owning site,
// and an optional spreadsheet coordinate.
type SlotRegistry struct {
	slots  ports.SlotRepository
	logger zerolog.Logger
}

// NewSlotRegistry creates the registry.
func NewSlotRegistry(slots ports.SlotRepository, logger zerolog.Logger) *SlotRegistry {
	return &SlotRegistry{slots: slots, logger: logger}
}

// Register creates the slot or returns the existing record when the
// (siteID, slotName) pair is already registered. Registration is idempotent
// by contract; the page-side marker guard is the strict one.
func (r *SlotRegistry) Register(ctx context.Context, siteID, slotName, label string) (*domain.ContentSlot, error) {
	if slotName == "" {
		return nil, domain.NewError(domain.KindValidationFailed, "slot name is required")
	}

	existing, err := r.slots.GetByName(ctx, siteID, slotName)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	slot := &domain.ContentSlot{
		ID:        uuid.NewString(),
		SiteID:    siteID,
		SlotName:  slotName,
		Label:     label,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.slots.Create(ctx, slot); err != nil {
		return nil, fmt.Errorf("failed to register slot %q: %w", slotName, err)
	}
	r.logger.Info().Str("site_id", siteID).Str("slot_name", slotName).Msg("slot registered")
	return slot, nil
}

// MapToSheet upserts the slot's spreadsheet coordinate, replacing any prior
// mapping (one mapping per slot).
func (r *SlotRegistry) MapToSheet(ctx context.Context, slotID, column, rowIdentifier string) (*domain.ContentSlot, error) {
	if column == "" || rowIdentifier == "" {
		return nil, domain.NewError(domain.KindValidationFailed,
			"sheet mapping requires column and row identifier")
	}

	slot, err := r.slots.GetByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, domain.NewError(domain.KindNotFound, "slot %s does not exist", slotID)
	}

	if err := r.slots.UpdateMapping(ctx, slotID, column, rowIdentifier); err != nil {
		return nil, err
	}
	slot.SheetColumn = column
	slot.SheetRowIdentifier = rowIdentifier

	r.logger.Info().Str("slot_id", slotID).Str("column", column).
		Str("row", rowIdentifier).Msg("slot mapped to sheet")
	return slot, nil
}

// ListForSite returns the site's registered slots.
func (r *SlotRegistry) ListForSite(ctx context.Context, siteID string) ([]*domain.ContentSlot, error) {
	return r.slots.ListBySite(ctx, siteID)
}

// DeleteForSite removes all of a site's slots (invoked on disconnect).
func (r *SlotRegistry) DeleteForSite(ctx context.Context, siteID string) error {
	return r.slots.DeleteBySite(ctx, siteID)
}
