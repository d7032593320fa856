package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/infrastructure/metrics"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/locking"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/marker"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// SiteService is the platform-agnostic site-management facade. It owns the
// site lifecycle (Connecting -> Active -> Disconnected), dispatches to the
// matching platform adapter, serializes writes per site, and appends the
// audit trail. It depends on ports, not concrete implementations.
type SiteService struct {
	sites    ports.SiteRepository
	slots    ports.SlotRepository
	updates  ports.UpdateRepository
	registry *SlotRegistry
	adapters map[domain.PlatformType]ports.PlatformAdapter
	validate *validator.Validate

	// writeLocks holds one mutual-exclusion token per site ID for the
	// duration of a content write (at most one in-flight write per site).
	writeLocks *locking.KeyedMutex

	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// SiteDetail pairs a site with its platform for read endpoints.
type SiteDetail struct {
	Site     *domain.Site        `json:"site"`
	Platform domain.PlatformType `json:"platform"`
}

// NewSiteService creates the facade. The adapter set is closed: exactly one
// adapter per platform type.
func NewSiteService(
	sites ports.SiteRepository,
	slots ports.SlotRepository,
	updates ports.UpdateRepository,
	registry *SlotRegistry,
	wordpress ports.PlatformAdapter,
	universal ports.PlatformAdapter,
	m *metrics.Metrics,
	logger zerolog.Logger,
) *SiteService {
	return &SiteService{
		sites:    sites,
		slots:    slots,
		updates:  updates,
		registry: registry,
		adapters: map[domain.PlatformType]ports.PlatformAdapter{
			domain.PlatformWordPress: wordpress,
			domain.PlatformUniversal: universal,
		},
		validate:   validator.New(),
		writeLocks: locking.NewKeyedMutex(),
		metrics:    m,
		logger:     logger,
	}
}

func (s *SiteService) adapterFor(platform domain.PlatformType) (ports.PlatformAdapter, error) {
	adapter, ok := s.adapters[platform]
	if !ok {
		return nil, domain.NewError(domain.KindValidationFailed,
			"unsupported platform type %q", platform)
	}
	return adapter, nil
}

// ConnectSite validates the input locally, delegates to the matching
// adapter, and persists the resulting site as Active. Validation failures
// are returned before any remote call is attempted.
func (s *SiteService) ConnectSite(ctx context.Context, orgID string, input domain.ConnectSiteInput) (*domain.Site, error) {
	if err := s.validate.StructCtx(ctx, input); err != nil {
		return nil, domain.WrapError(domain.KindValidationFailed, err, "invalid connection data")
	}

	platform := domain.PlatformType(input.PlatformType)
	if !platform.Valid() {
		return nil, domain.NewError(domain.KindValidationFailed,
			"unknown platform type %q", input.PlatformType)
	}
	if platform == domain.PlatformWordPress {
		if input.WPUsername == "" || input.WPAppPassword == "" {
			return nil, domain.NewError(domain.KindValidationFailed,
				"wordpress connections require wp_username and wp_app_password")
		}
	}

	adapter, err := s.adapterFor(platform)
	if err != nil {
		return nil, err
	}

	site, err := adapter.Connect(ctx, orgID, input)
	if err != nil {
		s.logger.Warn().Err(err).Str("platform", string(platform)).
			Str("site_url", input.SiteURL).Msg("site connection failed")
		return nil, err
	}

	site.Status = domain.SiteActive
	if err := s.sites.Create(ctx, site); err != nil {
		return nil, fmt.Errorf("failed to persist site: %w", err)
	}

	s.logger.Info().Str("site_id", site.ID).Str("platform", string(platform)).
		Str("org_id", orgID).Msg("site connected")
	return site, nil
}

// GetAllSites returns every site owned by the organization.
func (s *SiteService) GetAllSites(ctx context.Context, orgID string) ([]*domain.Site, error) {
	return s.sites.ListByOrganization(ctx, orgID)
}

// GetSite returns the site with its platform, or (nil, nil) when the ID is
// unknown; a missing site is not an error at this layer.
func (s *SiteService) GetSite(ctx context.Context, siteID string) (*SiteDetail, error) {
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil || site == nil {
		return nil, err
	}
	return &SiteDetail{Site: site, Platform: site.PlatformType}, nil
}

// GetSiteStats aggregates an organization's sites by platform and status.
func (s *SiteService) GetSiteStats(ctx context.Context, orgID string) (*domain.SiteStats, error) {
	return s.sites.Stats(ctx, orgID)
}

// ListUpdates returns a site's recent audit records, newest first.
func (s *SiteService) ListUpdates(ctx context.Context, siteID string, limit int) ([]*domain.ContentUpdateRecord, error) {
	return s.updates.ListBySite(ctx, siteID, limit)
}

// DetectSections routes region detection to the site's adapter. WordPress
// results are additionally partitioned into pages and posts; universal
// detection returns a flat region list.
func (s *SiteService) DetectSections(ctx context.Context, siteID, pageRef string) (*domain.DetectedSections, error) {
	site, adapter, err := s.activeSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	regions, err := adapter.DetectRegions(ctx, site, pageRef)
	if err != nil {
		s.metrics.RemoteCallErrors.WithLabelValues(domain.KindOf(err).String()).Inc()
		return nil, err
	}

	sections := &domain.DetectedSections{Regions: regions}
	if site.PlatformType == domain.PlatformWordPress {
		for _, r := range regions {
			switch {
			case strings.HasPrefix(r.Identifier, "page:"):
				sections.Pages = append(sections.Pages, r)
			case strings.HasPrefix(r.Identifier, "post:"):
				sections.Posts = append(sections.Posts, r)
			}
		}
	}
	return sections, nil
}

// UpdateContent resolves the target region (by slot ID when present,
// otherwise by the raw region reference), writes through the adapter, and
// on success appends exactly one audit record. Writes against one site are
// serialized; write failures surface unmodified with no retry.
func (s *SiteService) UpdateContent(ctx context.Context, siteID string, input domain.UpdateContentInput) (*domain.ContentUpdateRecord, error) {
	site, adapter, err := s.activeSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	release, ok := s.writeLocks.Lock(ctx.Done(), siteID)
	if !ok {
		return nil, fmt.Errorf("write to site %s abandoned: %w", siteID, ctx.Err())
	}
	defer release()

	// the caller may have disconnected the site while we waited
	site, adapter, err = s.activeSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	var slotID string
	switch {
	case input.SlotID != "":
		slot, err := s.slots.GetByID(ctx, input.SlotID)
		if err != nil {
			return nil, err
		}
		if slot == nil || slot.SiteID != siteID {
			return nil, domain.NewError(domain.KindNotFound,
				"slot %s is not registered for site %s", input.SlotID, siteID)
		}
		slotID = slot.ID
		err = s.writeSlot(ctx, site, adapter, slot, input.Content)
		if err != nil {
			s.recordWriteFailure(site, err)
			return nil, err
		}
	case input.RegionRef != "":
		if err := adapter.WriteContent(ctx, site, input.RegionRef, input.Content); err != nil {
			s.recordWriteFailure(site, err)
			return nil, err
		}
	default:
		return nil, domain.NewError(domain.KindValidationFailed,
			"update requires slot_id or region_ref")
	}

	// the remote write is applied; the audit append must not be lost to a
	// caller cancellation between the two steps
	rec := &domain.ContentUpdateRecord{
		ID:               uuid.NewString(),
		OrganizationID:   site.OrganizationID,
		SiteID:           site.ID,
		SlotID:           slotID,
		Instructions:     input.Instructions,
		GeneratedContent: input.Content,
		AppliedAt:        time.Now().UTC(),
	}
	if err := s.updates.Append(context.WithoutCancel(ctx), rec); err != nil {
		return nil, fmt.Errorf("content written but audit append failed: %w", err)
	}

	s.metrics.ContentUpdates.WithLabelValues(string(site.PlatformType), "success").Inc()
	s.logger.Info().Str("site_id", site.ID).Str("slot_id", slotID).
		Msg("content update applied")
	return rec, nil
}

// writeSlot applies a slot-targeted write. On WordPress the slot's marker
// pair is located by scanning the site's pages and the region between the
// markers is replaced; on universal sites the slot name is the region
// selector recorded at registration.
func (s *SiteService) writeSlot(ctx context.Context, site *domain.Site, adapter ports.PlatformAdapter, slot *domain.ContentSlot, content string) error {
	if site.PlatformType != domain.PlatformWordPress {
		return adapter.WriteContent(ctx, site, slot.SlotName, content)
	}

	regionRef, body, err := s.findMarkedPage(ctx, site, adapter, slot.SlotName)
	if err != nil {
		return err
	}
	updated, err := marker.Replace(body, slot.SlotName, content)
	if err != nil {
		return err
	}
	return adapter.WriteContent(ctx, site, regionRef, updated)
}

// findMarkedPage scans the site's pages and posts for the slot's start
// marker and returns the containing region plus its current body.
func (s *SiteService) findMarkedPage(ctx context.Context, site *domain.Site, adapter ports.PlatformAdapter, slotName string) (string, string, error) {
	regions, err := adapter.DetectRegions(ctx, site, "")
	if err != nil {
		return "", "", err
	}
	start := marker.StartMarker(slotName)
	for _, region := range regions {
		body, err := adapter.ReadContent(ctx, site, region.Identifier)
		if err != nil {
			return "", "", err
		}
		if strings.Contains(body, start) {
			return region.Identifier, body, nil
		}
	}
	return "", "", domain.NewError(domain.KindNotFound,
		"no page on site %s carries the %q marker", site.ID, slotName)
}

// InsertSlotMarker makes a region of a remote page addressable: it reads the
// page, appends the marker block, writes the page back, and registers the
// slot. The marker protocol's idempotency guard rejects a second insertion
// on the same page.
func (s *SiteService) InsertSlotMarker(ctx context.Context, siteID, pageRef, slotName, label string) (*domain.ContentSlot, error) {
	site, adapter, err := s.activeSite(ctx, siteID)
	if err != nil {
		return nil, err
	}

	release, ok := s.writeLocks.Lock(ctx.Done(), siteID)
	if !ok {
		return nil, fmt.Errorf("marker insertion on site %s abandoned: %w", siteID, ctx.Err())
	}
	defer release()

	body, err := adapter.ReadContent(ctx, site, pageRef)
	if err != nil {
		return nil, err
	}
	updated, err := marker.Insert(body, slotName, label)
	if err != nil {
		return nil, err
	}
	if err := adapter.WriteContent(ctx, site, pageRef, updated); err != nil {
		s.recordWriteFailure(site, err)
		return nil, err
	}

	slot, err := s.registry.Register(ctx, siteID, slotName, label)
	if err != nil {
		return nil, fmt.Errorf("marker written but slot registration failed: %w", err)
	}
	s.logger.Info().Str("site_id", siteID).Str("slot_name", slotName).
		Str("page_ref", pageRef).Msg("slot marker inserted")
	return slot, nil
}

// DisconnectSite marks the site Disconnected, cascades slot deletion, and
// runs best-effort remote cleanup. The status transition happens first: a
// failure partway through leaves an inactive site whose remaining slots are
// unreachable, never an active site stripped of its slots. Remote cleanup
// failures never fail the local disconnection.
func (s *SiteService) DisconnectSite(ctx context.Context, siteID string) error {
	site, adapter, err := s.activeSite(ctx, siteID)
	if err != nil {
		return err
	}

	if err := s.sites.UpdateStatus(ctx, siteID, domain.SiteDisconnected); err != nil {
		return err
	}

	if err := s.registry.DeleteForSite(ctx, siteID); err != nil {
		return fmt.Errorf("failed to cascade slot deletion: %w", err)
	}

	adapter.Disconnect(ctx, site)

	s.logger.Info().Str("site_id", siteID).Msg("site disconnected")
	return nil
}

// activeSite loads the site and enforces the lifecycle gate: Active is the
// only state in which detect/read/write are permitted.
func (s *SiteService) activeSite(ctx context.Context, siteID string) (*domain.Site, ports.PlatformAdapter, error) {
	site, err := s.sites.GetByID(ctx, siteID)
	if err != nil {
		return nil, nil, err
	}
	if site == nil {
		return nil, nil, domain.NewError(domain.KindNotFound, "site %s does not exist", siteID)
	}
	if site.Status != domain.SiteActive {
		return nil, nil, domain.NewError(domain.KindSiteInactive,
			"site %s is %s", siteID, site.Status)
	}
	adapter, err := s.adapterFor(site.PlatformType)
	if err != nil {
		return nil, nil, err
	}
	return site, adapter, nil
}

func (s *SiteService) recordWriteFailure(site *domain.Site, err error) {
	kind := domain.KindOf(err)
	s.metrics.ContentUpdates.WithLabelValues(string(site.PlatformType), "failure").Inc()
	s.metrics.RemoteCallErrors.WithLabelValues(kind.String()).Inc()
}
