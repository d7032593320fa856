package ports

import (
	"context"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

// OrganizationRepository defines persistence for tenant organizations.
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
}

// SiteRepository defines persistence for connected sites. GetByID returns
// (nil, nil) for a missing ID; callers decide the transport-level semantics.
type SiteRepository interface {
	Create(ctx context.Context, site *domain.Site) error
	GetByID(ctx context.Context, id string) (*domain.Site, error)
	ListByOrganization(ctx context.Context, orgID string) ([]*domain.Site, error)
	UpdateStatus(ctx context.Context, id string, status domain.SiteStatus) error
	Stats(ctx context.Context, orgID string) (*domain.SiteStats, error)
}

// SlotRepository defines persistence for content slots. GetByName returns
// (nil, nil) when the (siteID, slotName) pair is not registered.
type SlotRepository interface {
	Create(ctx context.Context, slot *domain.ContentSlot) error
	GetByID(ctx context.Context, id string) (*domain.ContentSlot, error)
	GetByName(ctx context.Context, siteID, slotName string) (*domain.ContentSlot, error)
	ListBySite(ctx context.Context, siteID string) ([]*domain.ContentSlot, error)
	ListMappedByOrganization(ctx context.Context, orgID string) ([]*domain.ContentSlot, error)
	UpdateMapping(ctx context.Context, id, column, rowIdentifier string) error
	DeleteBySite(ctx context.Context, siteID string) error
}

// UpdateRepository is the append-only audit trail. There is deliberately no
// update or delete operation.
type UpdateRepository interface {
	Append(ctx context.Context, rec *domain.ContentUpdateRecord) error
	ListBySite(ctx context.Context, siteID string, limit int) ([]*domain.ContentUpdateRecord, error)
}
