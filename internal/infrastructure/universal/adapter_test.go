package universal

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

const samplePage = `<html><body>
<nav><a href="/">Home</a></nav>
<div id="main">
<h1>Our Spring Collection Has Arrived In Stores Everywhere</h1>
<p>tiny</p>
<p>This is a long paragraph of marketing copy that easily clears the detection threshold for editable regions.</p>
</div>
</body></html>`

type fakeRenderer struct {
	html    string
	pages   map[string]string // per-URL bodies, falling back to html
	delay   time.Duration
	setErr  error
	setText []string
}

func (f *fakeRenderer) Render(ctx context.Context, url string) (string, error) {
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	if page, ok := f.pages[url]; ok {
		return page, nil
	}
	return f.html, nil
}

func (f *fakeRenderer) SetText(ctx context.Context, url, selector, text string) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setText = append(f.setText, url+" "+selector+"="+text)
	return nil
}

func universalSite() *domain.Site {
	return &domain.Site{
		ID:           "site-u1",
		PlatformType: domain.PlatformUniversal,
		SiteURL:      "https://example.com",
		Status:       domain.SiteActive,
	}
}

func TestDetectRegionsAppliesThreshold(t *testing.T) {
	adapter := NewAdapter(&fakeRenderer{html: samplePage}, time.Second, zerolog.Nop())

	regions, err := adapter.DetectRegions(context.Background(), universalSite(), "")
	require.NoError(t, err)
	require.Len(t, regions, 2)

	// document order: the headline first, then the long paragraph
	assert.Contains(t, regions[0].PreviewText, "Spring Collection")
	assert.Contains(t, regions[1].PreviewText, "long paragraph")
	for _, r := range regions {
		assert.NotEmpty(t, r.Identifier)
	}
}

func TestDetectRegionsRenderTimeout(t *testing.T) {
	adapter := NewAdapter(&fakeRenderer{html: samplePage, delay: time.Second}, 10*time.Millisecond, zerolog.Nop())

	_, err := adapter.DetectRegions(context.Background(), universalSite(), "")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindRenderTimeout))
}

func TestReadContentBySelector(t *testing.T) {
	adapter := NewAdapter(&fakeRenderer{html: samplePage}, time.Second, zerolog.Nop())

	text, err := adapter.ReadContent(context.Background(), universalSite(), "#main > h1")
	require.NoError(t, err)
	assert.Contains(t, text, "Spring Collection")
}

func TestReadContentUnknownSelector(t *testing.T) {
	adapter := NewAdapter(&fakeRenderer{html: samplePage}, time.Second, zerolog.Nop())

	_, err := adapter.ReadContent(context.Background(), universalSite(), "#missing")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestWriteContentDelegatesToRenderer(t *testing.T) {
	renderer := &fakeRenderer{html: samplePage}
	adapter := NewAdapter(renderer, time.Second, zerolog.Nop())

	err := adapter.WriteContent(context.Background(), universalSite(), "#main > h1", "New headline")
	require.NoError(t, err)
	require.Len(t, renderer.setText, 1)
	assert.Equal(t, "https://example.com #main > h1=New headline", renderer.setText[0])
}

const aboutPage = `<html><body>
<div id="main">
<p>The about page tells the story of the company in generous detail for visitors.</p>
</div>
</body></html>`

func TestSubPageRegionRoundTrip(t *testing.T) {
	renderer := &fakeRenderer{
		html: samplePage,
		pages: map[string]string{
			"https://example.com/about": aboutPage,
		},
	}
	adapter := NewAdapter(renderer, time.Second, zerolog.Nop())
	site := universalSite()

	regions, err := adapter.DetectRegions(context.Background(), site, "about")
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.True(t, strings.HasPrefix(regions[0].Identifier, "about|"))

	// the identifier alone must lead read and write back to the same page
	text, err := adapter.ReadContent(context.Background(), site, regions[0].Identifier)
	require.NoError(t, err)
	assert.Contains(t, text, "story of the company")

	require.NoError(t, adapter.WriteContent(context.Background(), site, regions[0].Identifier, "New copy"))
	require.Len(t, renderer.setText, 1)
	assert.True(t, strings.HasPrefix(renderer.setText[0], "https://example.com/about "))
}

func TestPreviewTruncationKeepsValidUTF8(t *testing.T) {
	long := "a" + strings.Repeat("é", 100)
	page := "<html><body><p>" + long + "</p></body></html>"
	adapter := NewAdapter(&fakeRenderer{html: page}, time.Second, zerolog.Nop())

	regions, err := adapter.DetectRegions(context.Background(), universalSite(), "")
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.True(t, utf8.ValidString(regions[0].PreviewText))
	assert.True(t, strings.HasSuffix(regions[0].PreviewText, "..."))
}
