package ports

import "context"

// PageRenderer is the headless-rendering capability universal sites require.
// Render returns the fully rendered HTML for a URL; SetText writes text into
// the element addressed by a CSS selector on the live page. Both respect the
// context deadline; implementations surface expiry as RenderTimeout.
type PageRenderer interface {
	Render(ctx context.Context, url string) (string, error)
	SetText(ctx context.Context, url, selector, text string) error
}
