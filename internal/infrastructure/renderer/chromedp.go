// Package renderer provides the headless-browser implementation of the
// PageRenderer port using chromedp. A single browser allocator is shared;
// each call gets its own tab context bounded by the caller's deadline.
package renderer

import (
	"context"
	"fmt"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/ports"
)

// ChromeRenderer renders pages and applies text writes through a headless
// Chrome instance.
type ChromeRenderer struct {
	allocCtx context.Context
	cancel   context.CancelFunc
	logger   zerolog.Logger
}

// NewChromeRenderer starts a headless browser allocator. Call Close when the
// process shuts down.
func NewChromeRenderer(logger zerolog.Logger) *ChromeRenderer {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
	)
	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)
	return &ChromeRenderer{allocCtx: allocCtx, cancel: cancel, logger: logger}
}

var _ ports.PageRenderer = (*ChromeRenderer)(nil)

// Render navigates to url and returns the rendered document HTML. The
// caller's context deadline bounds the whole navigation.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	tabCtx, cancelTab := r.tab(ctx)
	defer cancelTab()

	var html string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		// surface the caller deadline, not chromedp's wrapping of it
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("failed to render %s: %w", url, err)
	}
	return html, nil
}

// SetText navigates to url and sets the text content of the element matched
// by selector. This is the generic "set text at location" write primitive
// for platforms without a content API.
func (r *ChromeRenderer) SetText(ctx context.Context, url, selector, text string) error {
	tabCtx, cancelTab := r.tab(ctx)
	defer cancelTab()

	script := fmt.Sprintf(
		`(() => { const el = document.querySelector(%q); if (!el) return false; el.textContent = %q; return true; })()`,
		selector, text,
	)

	var applied bool
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Evaluate(script, &applied),
	)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("failed to write text at %q on %s: %w", selector, url, err)
	}
	if !applied {
		return fmt.Errorf("no element matches selector %q on %s", selector, url)
	}
	r.logger.Debug().Str("url", url).Str("selector", selector).Msg("applied text write")
	return nil
}

func (r *ChromeRenderer) tab(ctx context.Context) (context.Context, context.CancelFunc) {
	browserCtx, cancelBrowser := chromedp.NewContext(r.allocCtx)
	tabCtx, cancelDeadline := mergeDeadline(browserCtx, ctx)
	return tabCtx, func() {
		cancelDeadline()
		cancelBrowser()
	}
}

// mergeDeadline applies the caller context's deadline to the browser tab
// context, since chromedp contexts descend from the allocator rather than
// the request.
func mergeDeadline(tabCtx, callerCtx context.Context) (context.Context, context.CancelFunc) {
	if deadline, ok := callerCtx.Deadline(); ok {
		return context.WithDeadline(tabCtx, deadline)
	}
	return context.WithCancel(tabCtx)
}

// Close tears down the shared browser allocator.
func (r *ChromeRenderer) Close() {
	r.cancel()
}
