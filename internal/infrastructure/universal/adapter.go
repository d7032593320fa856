// Package universal implements the platform adapter for sites without a
// structured content API. Detection renders the live page through the
// PageRenderer port and heuristically proposes editable regions: text
// blocks above a size threshold, addressed by page-qualified CSS selector
// paths.
package universal

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// minRegionTextLen filters out navigation fragments and button labels.
const minRegionTextLen = 40

// candidateSelector matches the block elements considered for detection.
const candidateSelector = "p, h1, h2, h3, blockquote, li"

// Adapter manages universal sites through a headless renderer.
type Adapter struct {
	renderer      ports.PageRenderer
	httpClient    *http.Client
	renderTimeout time.Duration
	logger        zerolog.Logger
}

// NewAdapter creates a universal adapter. renderTimeout bounds every render
// call; on expiry the operation fails with RenderTimeout instead of hanging
// the caller.
func NewAdapter(renderer ports.PageRenderer, renderTimeout time.Duration, logger zerolog.Logger) *Adapter {
	if renderTimeout <= 0 {
		renderTimeout = 30 * time.Second
	}
	return &Adapter{
		renderer:      renderer,
		httpClient:    &http.Client{Timeout: 15 * time.Second},
		renderTimeout: renderTimeout,
		logger:        logger,
	}
}

var _ ports.PlatformAdapter = (*Adapter)(nil)

// Connect validates that the site URL is reachable. Universal sites carry no
// platform credentials beyond an optional session token.
func (a *Adapter) Connect(ctx context.Context, orgID string, input domain.ConnectSiteInput) (*domain.Site, error) {
	siteURL := strings.TrimSuffix(input.SiteURL, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, siteURL, nil)
	if err != nil {
		return nil, domain.WrapError(domain.KindValidationFailed, err, "invalid site url %q", siteURL)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, domain.WrapError(domain.KindAuthenticationFailed, err,
			"site %s is not reachable", siteURL)
	}
	resp.Body.Close()
	if resp.StatusCode >= 400 {
		return nil, domain.NewError(domain.KindAuthenticationFailed,
			"site %s answered status %d", siteURL, resp.StatusCode)
	}

	a.logger.Info().Str("site_url", siteURL).Msg("universal site reachable")
	return &domain.Site{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		PlatformType:   domain.PlatformUniversal,
		SiteURL:        siteURL,
		Credentials:    domain.Credentials{SessionToken: input.SessionToken},
		Status:         domain.SiteConnecting,
		CreatedAt:      time.Now().UTC(),
	}, nil
}

// DetectRegions renders the page and proposes text blocks above the size
// threshold as editable regions, in document order. pageRef, when set, is a
// path relative to the site URL; otherwise the front page is inspected.
func (a *Adapter) DetectRegions(ctx context.Context, site *domain.Site, pageRef string) ([]domain.DetectedRegion, error) {
	html, err := a.render(ctx, pageURL(site, pageRef))
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse rendered page: %w", err)
	}

	var regions []domain.DetectedRegion
	doc.Find(candidateSelector).Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) < minRegionTextLen {
			return
		}
		selector := cssPath(sel)
		regions = append(regions, domain.DetectedRegion{
			Identifier:  composeRegionRef(pageRef, selector),
			PreviewText: truncate(text, 120),
			Path:        pageRef,
		})
	})
	return regions, nil
}

// ReadContent renders the region's page and returns the text of the element
// addressed by the selector in regionRef.
func (a *Adapter) ReadContent(ctx context.Context, site *domain.Site, regionRef string) (string, error) {
	pageRef, selector := splitRegionRef(regionRef)
	html, err := a.render(ctx, pageURL(site, pageRef))
	if err != nil {
		return "", err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse rendered page: %w", err)
	}
	sel := doc.Find(selector)
	if sel.Length() == 0 {
		return "", domain.NewError(domain.KindNotFound, "no element matches selector %q", selector)
	}
	return strings.TrimSpace(sel.First().Text()), nil
}

// WriteContent sets the text of the element addressed by regionRef through
// the renderer's write primitive, on the page the reference names.
func (a *Adapter) WriteContent(ctx context.Context, site *domain.Site, regionRef string, content string) error {
	ctx, cancel := context.WithTimeout(ctx, a.renderTimeout)
	defer cancel()

	pageRef, selector := splitRegionRef(regionRef)
	target := pageURL(site, pageRef)
	if err := a.renderer.SetText(ctx, target, selector, content); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return domain.WrapError(domain.KindRenderTimeout, err,
				"write to %s timed out after %s", selector, a.renderTimeout)
		}
		if domain.KindOf(err) != domain.KindUnknown {
			return err
		}
		return domain.WrapError(domain.KindRemoteRejected, err,
			"failed to set text at %q on %s", selector, target)
	}
	return nil
}

// Disconnect is a no-op for universal sites; there is no remote session to
// tear down.
func (a *Adapter) Disconnect(ctx context.Context, site *domain.Site) {
	a.logger.Info().Str("site_id", site.ID).Msg("universal site disconnected locally")
}

func (a *Adapter) render(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.renderTimeout)
	defer cancel()

	html, err := a.renderer.Render(ctx, url)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", domain.WrapError(domain.KindRenderTimeout, err,
				"rendering %s exceeded %s", url, a.renderTimeout)
		}
		return "", domain.WrapError(domain.KindRemoteRejected, err, "failed to render %s", url)
	}
	return html, nil
}

func pageURL(site *domain.Site, pageRef string) string {
	if pageRef == "" {
		return site.SiteURL
	}
	return site.SiteURL + "/" + strings.TrimPrefix(pageRef, "/")
}

// composeRegionRef makes a detected region addressable beyond the detection
// call: the identifier carries the page the element was found on alongside
// its selector, "about|#main > p:nth-child(1)". Front-page regions are the
// bare selector.
func composeRegionRef(pageRef, selector string) string {
	if pageRef == "" {
		return selector
	}
	return pageRef + "|" + selector
}

func splitRegionRef(regionRef string) (pageRef, selector string) {
	if i := strings.Index(regionRef, "|"); i >= 0 {
		return regionRef[:i], regionRef[i+1:]
	}
	return "", regionRef
}

// cssPath builds a selector path of the form "body > div:nth-child(2) > p"
// for a detected element.
func cssPath(sel *goquery.Selection) string {
	var parts []string
	for node := sel; node.Length() > 0; node = node.Parent() {
		tag := goquery.NodeName(node)
		if tag == "html" || tag == "#document" || tag == "" {
			break
		}
		if id, ok := node.Attr("id"); ok && id != "" {
			parts = append([]string{fmt.Sprintf("#%s", id)}, parts...)
			break
		}
		idx := node.Index() + 1
		parts = append([]string{fmt.Sprintf("%s:nth-child(%d)", tag, idx)}, parts...)
	}
	return strings.Join(parts, " > ")
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
