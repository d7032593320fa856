package application

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

func TestRegisterIsIdempotentPerSiteAndName(t *testing.T) {
	repo := newFakeSlotRepo()
	reg := NewSlotRegistry(repo, zerolog.Nop())
	ctx := context.Background()

	first, err := reg.Register(ctx, "site-1", "hero-banner", "Hero Banner")
	require.NoError(t, err)
	require.NotEmpty(t, first.ID)

	second, err := reg.Register(ctx, "site-1", "hero-banner", "other label")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	// same name on another site is a distinct slot
	other, err := reg.Register(ctx, "site-2", "hero-banner", "Hero Banner")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)
}

func TestRegisterRequiresSlotName(t *testing.T) {
	reg := NewSlotRegistry(newFakeSlotRepo(), zerolog.Nop())

	_, err := reg.Register(context.Background(), "site-1", "", "label")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
}

func TestMapToSheetReplacesPriorMapping(t *testing.T) {
	repo := newFakeSlotRepo()
	reg := NewSlotRegistry(repo, zerolog.Nop())
	ctx := context.Background()

	slot, err := reg.Register(ctx, "site-1", "hero-banner", "Hero Banner")
	require.NoError(t, err)

	mapped, err := reg.MapToSheet(ctx, slot.ID, "B", "5")
	require.NoError(t, err)
	assert.Equal(t, "B", mapped.SheetColumn)
	assert.Equal(t, "5", mapped.SheetRowIdentifier)
	assert.True(t, mapped.Mapped())

	remapped, err := reg.MapToSheet(ctx, slot.ID, "C", "9")
	require.NoError(t, err)
	assert.Equal(t, "C", remapped.SheetColumn)
	assert.Equal(t, "9", remapped.SheetRowIdentifier)

	stored, err := repo.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.Equal(t, "C", stored.SheetColumn)
}

func TestMapToSheetUnknownSlot(t *testing.T) {
	reg := NewSlotRegistry(newFakeSlotRepo(), zerolog.Nop())

	_, err := reg.MapToSheet(context.Background(), "no-such-slot", "B", "5")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestMapToSheetRejectsPartialCoordinate(t *testing.T) {
	repo := newFakeSlotRepo()
	reg := NewSlotRegistry(repo, zerolog.Nop())
	ctx := context.Background()

	slot, err := reg.Register(ctx, "site-1", "hero-banner", "")
	require.NoError(t, err)

	_, err = reg.MapToSheet(ctx, slot.ID, "B", "")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))

	_, err = reg.MapToSheet(ctx, slot.ID, "", "5")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindValidationFailed))
}
