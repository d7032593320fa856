// Package marker implements the content-slot marker protocol: the textual
// convention that makes a region of a page addressable and idempotently
// updatable. A slot is delimited by a pair of HTML comments,
//
//	<!-- SLOT_START:<name> --> ... <!-- SLOT_END:<name> -->
//
// and the text between them is the slot's current rendered content. The
// protocol is platform-independent; it operates purely on the page body
// string and never touches content outside the marker pair.
package marker

import (
	"fmt"
	"strings"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

const (
	startFormat = "<!-- SLOT_START:%s -->"
	endFormat   = "<!-- SLOT_END:%s -->"
)

// StartMarker returns the opening comment for a slot name.
func StartMarker(slotName string) string {
	return fmt.Sprintf(startFormat, slotName)
}

// EndMarker returns the closing comment for a slot name.
func EndMarker(slotName string) string {
	return fmt.Sprintf(endFormat, slotName)
}

// Span is the half-open [Start, End) byte range strictly between a slot's
// markers within a page body.
type Span struct {
	Start int
	End   int
}

// Insert appends a well-formed marker block for slotName to page and returns
// the updated body. The block contains the start marker, a human-readable
// placeholder naming the label, and the end marker. Existing page content is
// never edited. Fails with AlreadyExists when the start marker is already
// present; the page is returned unchanged in that case.
func Insert(page, slotName, label string) (string, error) {
	start := StartMarker(slotName)
	if strings.Contains(page, start) {
		return page, domain.NewError(domain.KindAlreadyExists,
			"slot %q is already marked on this page", slotName)
	}

	placeholder := label
	if placeholder == "" {
		placeholder = slotName
	}

	var b strings.Builder
	b.WriteString(page)
	if page != "" && !strings.HasSuffix(page, "\n") {
		b.WriteString("\n")
	}
	b.WriteString(start)
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("<p>[%s]</p>", placeholder))
	b.WriteString("\n")
	b.WriteString(EndMarker(slotName))
	b.WriteString("\n")
	return b.String(), nil
}

// Locate returns the span strictly between the slot's markers. Fails with
// NotFound when either marker is absent, and Malformed when the end marker
// precedes the start marker or either marker occurs more than once.
func Locate(page, slotName string) (Span, error) {
	start := StartMarker(slotName)
	end := EndMarker(slotName)

	startIdx := strings.Index(page, start)
	endIdx := strings.Index(page, end)
	if startIdx < 0 || endIdx < 0 {
		return Span{}, domain.NewError(domain.KindNotFound,
			"slot %q markers not found on page", slotName)
	}
	if strings.Count(page, start) > 1 || strings.Count(page, end) > 1 {
		return Span{}, domain.NewError(domain.KindMalformed,
			"slot %q markers appear more than once", slotName)
	}
	contentStart := startIdx + len(start)
	if endIdx < contentStart {
		return Span{}, domain.NewError(domain.KindMalformed,
			"slot %q end marker precedes start marker", slotName)
	}
	return Span{Start: contentStart, End: endIdx}, nil
}

// Content returns the current text between the slot's markers.
func Content(page, slotName string) (string, error) {
	span, err := Locate(page, slotName)
	if err != nil {
		return "", err
	}
	return page[span.Start:span.End], nil
}

// Replace substitutes the region between the slot's markers with newContent,
// leaving both marker comments untouched. Fails under the same conditions as
// Locate.
func Replace(page, slotName, newContent string) (string, error) {
	span, err := Locate(page, slotName)
	if err != nil {
		return "", err
	}
	return page[:span.Start] + newContent + page[span.End:], nil
}
