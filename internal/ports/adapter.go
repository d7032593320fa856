package ports

import (
	"context"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

// PlatformAdapter is the capability set every supported platform implements.
// Adapter selection is a pure function of a site's platform type; no two
// adapters are ever invoked for the same site.
type PlatformAdapter interface {
	// Connect validates the connection data against the live platform and
	// returns a normalized site record. Fails with AuthenticationFailed or
	// ValidationFailed.
	Connect(ctx context.Context, orgID string, input domain.ConnectSiteInput) (*domain.Site, error)

	// DetectRegions returns an ordered sequence of editable regions. For
	// WordPress this enumerates pages/posts via the content API; for
	// universal sites it renders the live page and may fail with
	// RenderTimeout. pageRef narrows detection to one page when non-empty.
	DetectRegions(ctx context.Context, site *domain.Site, pageRef string) ([]domain.DetectedRegion, error)

	// ReadContent returns the raw content of a region.
	ReadContent(ctx context.Context, site *domain.Site, regionRef string) (string, error)

	// WriteContent replaces a region's content. Fails with RemoteRejected
	// when the platform refuses the write, or NotFound.
	WriteContent(ctx context.Context, site *domain.Site, regionRef string, content string) error

	// Disconnect performs best-effort remote cleanup. Implementations log
	// and swallow remote errors; local disconnection never depends on them.
	Disconnect(ctx context.Context, site *domain.Site)
}
