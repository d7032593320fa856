// Package wordpress implements the platform adapter for WordPress sites
// over the WP REST API (`/wp-json/wp/v2`). Authentication uses an
// application password sent as basic auth. Region references are
// "page:<id>" or "post:<id>".
package wordpress

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// Adapter talks to the WordPress REST API for every site of platform type
// "wordpress". One adapter instance serves all sites; credentials travel
// with the site record.
type Adapter struct {
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewAdapter creates a WordPress adapter with a bounded HTTP client.
func NewAdapter(logger zerolog.Logger) *Adapter {
	return &Adapter{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger,
	}
}

// NewAdapterWithClient allows injecting the HTTP client, used by tests.
func NewAdapterWithClient(httpClient *http.Client, logger zerolog.Logger) *Adapter {
	return &Adapter{httpClient: httpClient, logger: logger}
}

var _ ports.PlatformAdapter = (*Adapter)(nil)

type renderedField struct {
	Rendered string `json:"rendered"`
	Raw      string `json:"raw,omitempty"`
}

type wpContent struct {
	ID      int64         `json:"id"`
	Link    string        `json:"link"`
	Title   renderedField `json:"title"`
	Excerpt renderedField `json:"excerpt"`
	Content renderedField `json:"content"`
}

// Connect probes the REST endpoint with the supplied application password
// and returns a normalized site record on success.
func (a *Adapter) Connect(ctx context.Context, orgID string, input domain.ConnectSiteInput) (*domain.Site, error) {
	site := &domain.Site{
		ID:             uuid.NewString(),
		OrganizationID: orgID,
		PlatformType:   domain.PlatformWordPress,
		SiteURL:        strings.TrimSuffix(input.SiteURL, "/"),
		Credentials: domain.Credentials{
			WPUsername:    input.WPUsername,
			WPAppPassword: input.WPAppPassword,
		},
		Status:    domain.SiteConnecting,
		CreatedAt: time.Now().UTC(),
	}

	status, body, err := a.request(ctx, site, http.MethodGet, "/wp-json/wp/v2/users/me", nil)
	if err != nil {
		return nil, domain.WrapError(domain.KindAuthenticationFailed, err,
			"wordpress endpoint unreachable at %s", site.SiteURL)
	}
	switch {
	case status == http.StatusOK:
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return nil, domain.NewError(domain.KindAuthenticationFailed,
			"wordpress rejected credentials for user %q", input.WPUsername)
	default:
		return nil, domain.NewError(domain.KindAuthenticationFailed,
			"wordpress auth probe returned status %d: %s", status, truncate(body, 200))
	}

	a.logger.Info().
		Str("site_url", site.SiteURL).
		Str("wp_username", input.WPUsername).
		Msg("WordPress connection verified")
	return site, nil
}

// DetectRegions enumerates existing pages and posts via the content API. No
// page rendering happens on this path. A non-empty pageRef narrows the
// result to that one page or post.
func (a *Adapter) DetectRegions(ctx context.Context, site *domain.Site, pageRef string) ([]domain.DetectedRegion, error) {
	if pageRef != "" {
		item, err := a.getItem(ctx, site, pageRef)
		if err != nil {
			return nil, err
		}
		return []domain.DetectedRegion{toRegion(pageRef, item)}, nil
	}

	var regions []domain.DetectedRegion
	for _, kind := range []string{"page", "post"} {
		items, err := a.listItems(ctx, site, kind)
		if err != nil {
			return nil, err
		}
		for _, item := range items {
			regions = append(regions, toRegion(fmt.Sprintf("%s:%d", kind, item.ID), item))
		}
	}
	return regions, nil
}

// ReadContent returns the raw body of the page or post named by regionRef.
func (a *Adapter) ReadContent(ctx context.Context, site *domain.Site, regionRef string) (string, error) {
	item, err := a.getItem(ctx, site, regionRef)
	if err != nil {
		return "", err
	}
	if item.Content.Raw != "" {
		return item.Content.Raw, nil
	}
	return item.Content.Rendered, nil
}

// WriteContent replaces the body of the page or post named by regionRef.
func (a *Adapter) WriteContent(ctx context.Context, site *domain.Site, regionRef string, content string) error {
	kind, id, err := splitRegionRef(regionRef)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]string{"content": content})
	if err != nil {
		return fmt.Errorf("failed to encode content payload: %w", err)
	}

	path := fmt.Sprintf("/wp-json/wp/v2/%ss/%s", kind, id)
	status, body, err := a.request(ctx, site, http.MethodPost, path, payload)
	if err != nil {
		return domain.WrapError(domain.KindRemoteRejected, err,
			"wordpress write to %s failed", regionRef)
	}
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusNotFound:
		return domain.NewError(domain.KindNotFound, "region %s does not exist", regionRef)
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return domain.NewError(domain.KindRemoteRejected,
			"wordpress denied write to %s (status %d)", regionRef, status)
	default:
		return domain.NewError(domain.KindRemoteRejected,
			"wordpress rejected write to %s: status %d: %s", regionRef, status, truncate(body, 200))
	}
}

// Disconnect has no server-side session to revoke: application passwords
// stay valid until the site owner removes them. The probe result is logged
// and any failure swallowed.
func (a *Adapter) Disconnect(ctx context.Context, site *domain.Site) {
	status, _, err := a.request(ctx, site, http.MethodGet, "/wp-json/wp/v2/users/me", nil)
	if err != nil {
		a.logger.Warn().Err(err).Str("site_id", site.ID).
			Msg("WordPress disconnect probe failed (ignored)")
		return
	}
	a.logger.Info().Str("site_id", site.ID).Int("status", status).
		Msg("WordPress site disconnected locally; application password remains on the remote")
}

func (a *Adapter) listItems(ctx context.Context, site *domain.Site, kind string) ([]wpContent, error) {
	path := fmt.Sprintf("/wp-json/wp/v2/%ss?per_page=100&context=edit", kind)
	status, body, err := a.request(ctx, site, http.MethodGet, path, nil)
	if err != nil {
		return nil, domain.WrapError(domain.KindRemoteRejected, err,
			"failed to list wordpress %ss", kind)
	}
	if status != http.StatusOK {
		return nil, domain.NewError(domain.KindRemoteRejected,
			"wordpress %s listing returned status %d", kind, status)
	}
	var items []wpContent
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("failed to decode wordpress %s listing: %w", kind, err)
	}
	return items, nil
}

func (a *Adapter) getItem(ctx context.Context, site *domain.Site, regionRef string) (wpContent, error) {
	kind, id, err := splitRegionRef(regionRef)
	if err != nil {
		return wpContent{}, err
	}
	path := fmt.Sprintf("/wp-json/wp/v2/%ss/%s?context=edit", kind, id)
	status, body, err := a.request(ctx, site, http.MethodGet, path, nil)
	if err != nil {
		return wpContent{}, domain.WrapError(domain.KindRemoteRejected, err,
			"failed to fetch region %s", regionRef)
	}
	switch status {
	case http.StatusOK:
	case http.StatusNotFound:
		return wpContent{}, domain.NewError(domain.KindNotFound, "region %s does not exist", regionRef)
	default:
		return wpContent{}, domain.NewError(domain.KindRemoteRejected,
			"wordpress returned status %d for region %s", status, regionRef)
	}
	var item wpContent
	if err := json.Unmarshal(body, &item); err != nil {
		return wpContent{}, fmt.Errorf("failed to decode region %s: %w", regionRef, err)
	}
	return item, nil
}

func (a *Adapter) request(ctx context.Context, site *domain.Site, method, path string, payload []byte) (int, []byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, site.SiteURL+path, body)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.SetBasicAuth(site.Credentials.WPUsername, site.Credentials.WPAppPassword)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, respBody, nil
}

func toRegion(ref string, item wpContent) domain.DetectedRegion {
	preview := item.Title.Rendered
	if preview == "" {
		preview = truncate([]byte(stripTags(item.Excerpt.Rendered)), 120)
	}
	return domain.DetectedRegion{
		Identifier:  ref,
		PreviewText: preview,
		Path:        item.Link,
	}
}

func splitRegionRef(ref string) (kind, id string, err error) {
	kind, id, ok := strings.Cut(ref, ":")
	if !ok || (kind != "page" && kind != "post") || id == "" {
		return "", "", domain.NewError(domain.KindValidationFailed,
			"invalid wordpress region reference %q (want page:<id> or post:<id>)", ref)
	}
	return kind, id, nil
}

func stripTags(s string) string {
	var b strings.Builder
	inTag := false
	for _, r := range s {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// truncate cuts b to at most n bytes without splitting a rune.
func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	cut := n
	for cut > 0 && !utf8.RuneStart(b[cut]) {
		cut--
	}
	return string(b[:cut]) + "..."
}
