package application

import (
	"context"
	"sync"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

// -------- test fakes --------

type fakeSiteRepo struct {
	mu              sync.Mutex
	sites           map[string]*domain.Site
	updateStatusErr error
}

func newFakeSiteRepo() *fakeSiteRepo {
	return &fakeSiteRepo{sites: make(map[string]*domain.Site)}
}

func (f *fakeSiteRepo) Create(ctx context.Context, site *domain.Site) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *site
	f.sites[site.ID] = &cp
	return nil
}

func (f *fakeSiteRepo) GetByID(ctx context.Context, id string) (*domain.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	site, ok := f.sites[id]
	if !ok {
		return nil, nil
	}
	cp := *site
	return &cp, nil
}

func (f *fakeSiteRepo) ListByOrganization(ctx context.Context, orgID string) ([]*domain.Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.Site
	for _, s := range f.sites {
		if s.OrganizationID == orgID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSiteRepo) UpdateStatus(ctx context.Context, id string, status domain.SiteStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateStatusErr != nil {
		return f.updateStatusErr
	}
	site, ok := f.sites[id]
	if !ok {
		return domain.NewError(domain.KindNotFound, "site %s does not exist", id)
	}
	site.Status = status
	return nil
}

func (f *fakeSiteRepo) Stats(ctx context.Context, orgID string) (*domain.SiteStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	stats := &domain.SiteStats{ByPlatform: map[string]int{}, ByStatus: map[string]int{}}
	for _, s := range f.sites {
		if s.OrganizationID != orgID {
			continue
		}
		stats.Total++
		stats.ByPlatform[string(s.PlatformType)]++
		stats.ByStatus[string(s.Status)]++
	}
	return stats, nil
}

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[string]*domain.ContentSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[string]*domain.ContentSlot)}
}

func (f *fakeSlotRepo) Create(ctx context.Context, slot *domain.ContentSlot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *slot
	f.slots[slot.ID] = &cp
	return nil
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id string) (*domain.ContentSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, nil
	}
	cp := *slot
	return &cp, nil
}

func (f *fakeSlotRepo) GetByName(ctx context.Context, siteID, slotName string) (*domain.ContentSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.slots {
		if s.SiteID == siteID && s.SlotName == slotName {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeSlotRepo) ListBySite(ctx context.Context, siteID string) ([]*domain.ContentSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ContentSlot
	for _, s := range f.slots {
		if s.SiteID == siteID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListMappedByOrganization(ctx context.Context, orgID string) ([]*domain.ContentSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ContentSlot
	for _, s := range f.slots {
		if s.SheetColumn != "" && s.SheetRowIdentifier != "" {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) UpdateMapping(ctx context.Context, id, column, rowIdentifier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot, ok := f.slots[id]; ok {
		slot.SheetColumn = column
		slot.SheetRowIdentifier = rowIdentifier
	}
	return nil
}

func (f *fakeSlotRepo) DeleteBySite(ctx context.Context, siteID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, s := range f.slots {
		if s.SiteID == siteID {
			delete(f.slots, id)
		}
	}
	return nil
}

type fakeUpdateRepo struct {
	mu   sync.Mutex
	recs []*domain.ContentUpdateRecord
}

func (f *fakeUpdateRepo) Append(ctx context.Context, rec *domain.ContentUpdateRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *rec
	f.recs = append(f.recs, &cp)
	return nil
}

func (f *fakeUpdateRepo) ListBySite(ctx context.Context, siteID string, limit int) ([]*domain.ContentUpdateRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*domain.ContentUpdateRecord
	for _, r := range f.recs {
		if r.SiteID == siteID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeUpdateRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.recs)
}

// fakeAdapter implements ports.PlatformAdapter with an in-memory page set.
type fakeAdapter struct {
	mu          sync.Mutex
	pages       map[string]string // regionRef -> body
	connectErr  error
	detectErr   error
	writeErr    error
	connectHits int
	writeHits   int
	writeDelay  func() // run inside WriteContent while holding no fake lock
	inFlight    int
	maxInFlight int
}

func newFakeAdapter(pages map[string]string) *fakeAdapter {
	if pages == nil {
		pages = make(map[string]string)
	}
	return &fakeAdapter{pages: pages}
}

func (f *fakeAdapter) Connect(ctx context.Context, orgID string, input domain.ConnectSiteInput) (*domain.Site, error) {
	f.mu.Lock()
	f.connectHits++
	f.mu.Unlock()
	if f.connectErr != nil {
		return nil, f.connectErr
	}
	return &domain.Site{
		ID:             "site-" + input.PlatformType,
		OrganizationID: orgID,
		PlatformType:   domain.PlatformType(input.PlatformType),
		SiteURL:        input.SiteURL,
		Status:         domain.SiteConnecting,
	}, nil
}

func (f *fakeAdapter) DetectRegions(ctx context.Context, site *domain.Site, pageRef string) ([]domain.DetectedRegion, error) {
	if f.detectErr != nil {
		return nil, f.detectErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var regions []domain.DetectedRegion
	for ref := range f.pages {
		regions = append(regions, domain.DetectedRegion{Identifier: ref, PreviewText: ref})
	}
	return regions, nil
}

func (f *fakeAdapter) ReadContent(ctx context.Context, site *domain.Site, regionRef string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	body, ok := f.pages[regionRef]
	if !ok {
		return "", domain.NewError(domain.KindNotFound, "region %s does not exist", regionRef)
	}
	return body, nil
}

func (f *fakeAdapter) WriteContent(ctx context.Context, site *domain.Site, regionRef string, content string) error {
	f.mu.Lock()
	f.writeHits++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	delay := f.writeDelay
	f.mu.Unlock()

	if delay != nil {
		delay()
	}

	f.mu.Lock()
	f.inFlight--
	err := f.writeErr
	if err == nil {
		f.pages[regionRef] = content
	}
	f.mu.Unlock()
	return err
}

func (f *fakeAdapter) Disconnect(ctx context.Context, site *domain.Site) {}

func (f *fakeAdapter) page(ref string) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pages[ref]
}

// fakeSheet serves static cell values.
type fakeSheet struct {
	mu     sync.Mutex
	values map[string]string // column+row -> value
	errs   map[string]error
}

func (f *fakeSheet) CellValue(ctx context.Context, sheetID, column, rowIdentifier string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[column+rowIdentifier]; err != nil {
		return "", err
	}
	return f.values[column+rowIdentifier], nil
}

// fakeSyncState is an in-memory SyncStateStore.
type fakeSyncState struct {
	mu     sync.Mutex
	values map[string]string
}

func newFakeSyncState() *fakeSyncState {
	return &fakeSyncState{values: make(map[string]string)}
}

func (f *fakeSyncState) GetLastValue(ctx context.Context, slotID string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[slotID]
	return v, ok, nil
}

func (f *fakeSyncState) SetLastValue(ctx context.Context, slotID, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[slotID] = value
	return nil
}
