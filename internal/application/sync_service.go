package application

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/metrics"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/locking"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// ContentUpdater is the slice of the site facade the sync bridge drives
// writes through. The bridge never touches a platform adapter directly.
type ContentUpdater interface {
	UpdateContent(ctx context.Context, siteID string, input domain.UpdateContentInput) (*domain.ContentUpdateRecord, error)
}

// SyncAction describes what one sync pass did with one slot.
type SyncAction string

const (
	SyncUpdated   SyncAction = "updated"
	SyncUnchanged SyncAction = "unchanged"
	SyncSkipped   SyncAction = "skipped"
	SyncFailed    SyncAction = "failed"
)

// SlotSyncResult is the per-slot outcome of a sync pass.
type SlotSyncResult struct {
	SlotID   string     `json:"slot_id"`
	SlotName string     `json:"slot_name"`
	SiteID   string     `json:"site_id"`
	Action   SyncAction `json:"action"`
	Error    string     `json:"error,omitempty"`
}

// SyncService is the sheet sync bridge: it maps spreadsheet cells onto
// slots via the registry and pushes changed values through the site facade.
// It runs on demand; no scheduling loop lives here.
type SyncService struct {
	slots   ports.SlotRepository
	sheet   ports.SheetSource
	state   ports.SyncStateStore
	updater ContentUpdater

	sheetID     string
	maxParallel int64

	// slotLocks prevents two overlapping sync attempts on the same slot; a
	// second attempt is skipped, not queued.
	slotLocks *locking.KeyedMutex

	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewSyncService creates the bridge. sheetID names the organization's
// spreadsheet; maxParallel caps concurrent remote calls (values below one
// fall back to sequential).
func NewSyncService(
	slots ports.SlotRepository,
	sheet ports.SheetSource,
	state ports.SyncStateStore,
	updater ContentUpdater,
	sheetID string,
	maxParallel int64,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SyncService {
	if maxParallel < 1 {
		maxParallel = 1
	}
	return &SyncService{
		slots:       slots,
		sheet:       sheet,
		state:       state,
		updater:     updater,
		sheetID:     sheetID,
		maxParallel: maxParallel,
		slotLocks:   locking.NewKeyedMutex(),
		metrics:     m,
		logger:      logger,
	}
}

// RunSync performs one pass over all sheet-mapped slots of an organization.
// Slots are independent: a failure on one never aborts the rest. The pass
// reports what happened to every slot.
func (s *SyncService) RunSync(ctx context.Context, orgID string) ([]SlotSyncResult, error) {
	started := time.Now()
	slots, err := s.slots.ListMappedByOrganization(ctx, orgID)
	if err != nil {
		return nil, err
	}

	sem := semaphore.NewWeighted(s.maxParallel)
	results := make([]SlotSyncResult, len(slots))
	var wg sync.WaitGroup

	for i, slot := range slots {
		if err := sem.Acquire(ctx, 1); err != nil {
			results[i] = SlotSyncResult{
				SlotID: slot.ID, SlotName: slot.SlotName, SiteID: slot.SiteID,
				Action: SyncSkipped, Error: err.Error(),
			}
			continue
		}
		wg.Add(1)
		go func(i int, slot *domain.ContentSlot) {
			defer wg.Done()
			defer sem.Release(1)
			results[i] = s.syncSlot(ctx, slot)
		}(i, slot)
	}
	wg.Wait()

	s.metrics.SyncPassDuration.Observe(time.Since(started).Seconds())
	for _, r := range results {
		s.metrics.SyncSlotResults.WithLabelValues(string(r.Action)).Inc()
	}
	s.logger.Info().Str("org_id", orgID).Int("slots", len(slots)).
		Dur("elapsed", time.Since(started)).Msg("sheet sync pass finished")
	return results, nil
}

func (s *SyncService) syncSlot(ctx context.Context, slot *domain.ContentSlot) SlotSyncResult {
	result := SlotSyncResult{SlotID: slot.ID, SlotName: slot.SlotName, SiteID: slot.SiteID}

	release, ok := s.slotLocks.TryLock(slot.ID)
	if !ok {
		result.Action = SyncSkipped
		result.Error = "sync already in flight for this slot"
		return result
	}
	defer release()

	value, err := s.sheet.CellValue(ctx, s.sheetID, slot.SheetColumn, slot.SheetRowIdentifier)
	if err != nil {
		result.Action = SyncFailed
		result.Error = err.Error()
		return result
	}

	last, known, err := s.state.GetLastValue(ctx, slot.ID)
	if err != nil {
		result.Action = SyncFailed
		result.Error = err.Error()
		return result
	}
	if known && last == value {
		result.Action = SyncUnchanged
		return result
	}

	_, err = s.updater.UpdateContent(ctx, slot.SiteID, domain.UpdateContentInput{
		SlotID:       slot.ID,
		Content:      value,
		Instructions: "sheet sync",
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("slot_id", slot.ID).Msg("sheet sync write failed")
		result.Action = SyncFailed
		result.Error = err.Error()
		return result
	}

	if err := s.state.SetLastValue(ctx, slot.ID, value); err != nil {
		// the write landed; a stale last-value only costs a redundant
		// rewrite next pass
		s.logger.Warn().Err(err).Str("slot_id", slot.ID).Msg("failed to record synced value")
	}
	result.Action = SyncUpdated
	return result
}
