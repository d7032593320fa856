package marker

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mtaahfunnels/safewebedit-backend-sub001/internal/domain"
)

func TestInsertThenLocate(t *testing.T) {
	pages := []string{
		"",
		"<h1>Welcome</h1>",
		"<h1>Welcome</h1>\n<p>Body text</p>\n",
	}
	for _, page := range pages {
		updated, err := Insert(page, "hero-banner", "Hero Banner")
		require.NoError(t, err)

		span, err := Locate(updated, "hero-banner")
		require.NoError(t, err)
		assert.Greater(t, span.End, span.Start)
		assert.Contains(t, updated[span.Start:span.End], "Hero Banner")

		// the original body is preserved verbatim
		assert.True(t, strings.HasPrefix(updated, page))
	}
}

func TestInsertTwiceFailsAndLeavesPageUnchanged(t *testing.T) {
	page, err := Insert("<p>intro</p>", "promo", "Promo")
	require.NoError(t, err)

	again, err := Insert(page, "promo", "Promo")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindAlreadyExists))
	assert.Equal(t, page, again)
}

func TestReplaceRoundTrip(t *testing.T) {
	page, err := Insert("<p>intro</p>", "promo", "Promo")
	require.NoError(t, err)

	replaced, err := Replace(page, "promo", "X")
	require.NoError(t, err)

	got, err := Content(replaced, "promo")
	require.NoError(t, err)
	assert.Equal(t, "X", got)

	// markers themselves are untouched
	assert.Contains(t, replaced, StartMarker("promo"))
	assert.Contains(t, replaced, EndMarker("promo"))
}

func TestReplaceDoesNotTouchOtherSlots(t *testing.T) {
	page, err := Insert("<p>intro</p>", "a", "A")
	require.NoError(t, err)
	page, err = Insert(page, "b", "B")
	require.NoError(t, err)

	page, err = Replace(page, "a", "updated-a")
	require.NoError(t, err)

	got, err := Content(page, "b")
	require.NoError(t, err)
	assert.Contains(t, got, "[B]")
}

func TestLocateMissingMarkers(t *testing.T) {
	_, err := Locate("<p>no markers here</p>", "promo")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))

	// start present, end absent
	_, err = Locate(StartMarker("promo")+"<p>x</p>", "promo")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindNotFound))
}

func TestLocateMalformed(t *testing.T) {
	// end before start
	page := EndMarker("promo") + "content" + StartMarker("promo")
	_, err := Locate(page, "promo")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindMalformed))

	// duplicated pair
	page = StartMarker("promo") + "x" + EndMarker("promo") +
		StartMarker("promo") + "y" + EndMarker("promo")
	_, err = Locate(page, "promo")
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindMalformed))
}
