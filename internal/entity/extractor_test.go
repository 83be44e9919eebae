package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanFromTo(t *testing.T) {
	cases := []struct {
		text       string
		start, end string
		ok         bool
	}{
		{"navigate from AB1_ENTRANCE to AB2_112", "AB1_ENTRANCE", "AB2_112", true},
		{"From ab1_entrance TO ab2_112 please", "ab1_entrance", "ab2_112", true},
		{"to AB2_112 from AB1_ENTRANCE", "AB1_ENTRANCE", "AB2_112", true},
		{"navigate to AB2_112", "", "", false},
		{"navigate from AB1_ENTRANCE", "", "", false},
		// Keyword as the final word has no follower.
		{"where do I go from", "", "", false},
		{"from AB1 to", "", "", false},
		{"", "", "", false},
	}
	for _, tc := range cases {
		start, end, ok := ScanFromTo(tc.text)
		assert.Equal(t, tc.ok, ok, "text %q", tc.text)
		assert.Equal(t, tc.start, start, "text %q", tc.text)
		assert.Equal(t, tc.end, end, "text %q", tc.text)
	}
}

func TestScanAfter(t *testing.T) {
	got, ok := ScanAfter("yes, from AB1_ENTRANCE", "from")
	require.True(t, ok)
	assert.Equal(t, "AB1_ENTRANCE", got)

	_, ok = ScanAfter("yes please", "from")
	assert.False(t, ok)

	_, ok = ScanAfter("I am coming from", "from")
	assert.False(t, ok)
}

func TestTokenize(t *testing.T) {
	assert.Equal(t,
		[]string{"navigate", "from", "AB1_303", "to", "AB2-112"},
		Tokenize("navigate from AB1_303, to AB2-112!"))
	assert.Empty(t, Tokenize("  ... !!! "))
}

func TestHeuristicExtract_PersonSpans(t *testing.T) {
	h := Heuristic{}

	spans := h.Extract("Who is Aayush Sharma?")
	require.Len(t, spans, 1)
	assert.Equal(t, Span{Text: "Aayush Sharma", Category: CategoryPerson}, spans[0])

	// Question words never join a name run.
	spans = h.Extract("Tell me about Professor Sneha")
	require.Len(t, spans, 1)
	assert.Equal(t, Span{Text: "Sneha", Category: CategoryPerson}, spans[0])
}

func TestHeuristicExtract_LocationSpans(t *testing.T) {
	h := Heuristic{}

	spans := h.Extract("navigate from AB1_ENTRANCE to AB2_112")
	require.Len(t, spans, 2)
	assert.Equal(t, Span{Text: "AB1_ENTRANCE", Category: CategoryLocation}, spans[0])
	assert.Equal(t, Span{Text: "AB2_112", Category: CategoryLocation}, spans[1])
}

func TestHeuristicExtract_MixedAndEmpty(t *testing.T) {
	h := Heuristic{}

	spans := h.Extract("Is Aarav Gupta near AB2_112")
	require.Len(t, spans, 2)
	assert.Equal(t, CategoryPerson, spans[0].Category)
	assert.Equal(t, "Aarav Gupta", spans[0].Text)
	assert.Equal(t, CategoryLocation, spans[1].Category)

	assert.Empty(t, h.Extract("where is the lift"))
	assert.Empty(t, h.Extract(""))
}
