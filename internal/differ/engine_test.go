package differ

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vuon9/workdiff/internal/models"
)

func computeCounts(t *testing.T, base, compare string, ignoreWhitespace bool) models.DiffCounts {
	t.Helper()
	counts, err := NewEngine().ComputeCounts(base, compare, ignoreWhitespace)
	require.NoError(t, err)
	return counts
}

func TestComputeCounts_IdenticalContent(t *testing.T) {
	texts := []string{
		"",
		"a",
		"a\nb\nc",
		"a\nb\nc\n",
		"line with  spaces\n\ttabbed",
	}
	for _, text := range texts {
		assert.Equal(t, models.DiffCounts{}, computeCounts(t, text, text, false))
		assert.Equal(t, models.DiffCounts{}, computeCounts(t, text, text, true))
	}
}

func TestComputeCounts_EmptySides(t *testing.T) {
	// Empty input is an empty sequence, not a single empty line.
	counts := computeCounts(t, "", "a\nb\nc", false)
	assert.Equal(t, models.DiffCounts{Added: 3, Removed: 0}, counts)

	counts = computeCounts(t, "a\nb\nc", "", false)
	assert.Equal(t, models.DiffCounts{Added: 0, Removed: 3}, counts)
}

func TestComputeCounts_AppendedLine(t *testing.T) {
	base := "one\ntwo"
	compare := "one\ntwo\nthree"
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 0}, computeCounts(t, base, compare, false))

	// Same with trailing newlines on both sides.
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 0}, computeCounts(t, "one\ntwo\n", "one\ntwo\nthree\n", false))
}

func TestComputeCounts_ChangedLine(t *testing.T) {
	base := "one\ntwo\nthree"
	compare := "one\n2\nthree"
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 1}, computeCounts(t, base, compare, false))
}

func TestComputeCounts_SymmetryUnderSwap(t *testing.T) {
	cases := [][2]string{
		{"a\nb\nc", "a\nx\nc\nd"},
		{"", "only\nhere"},
		{"shared\nremoved1\nremoved2\nshared2", "shared\nadded\nshared2"},
		{"x\ny\nz\n", "z\ny\nx\n"},
	}
	for _, tc := range cases {
		forward := computeCounts(t, tc[0], tc[1], false)
		backward := computeCounts(t, tc[1], tc[0], false)
		assert.Equal(t, forward.Added, backward.Removed, "added(A,B) == removed(B,A) for %q vs %q", tc[0], tc[1])
		assert.Equal(t, forward.Removed, backward.Added, "removed(A,B) == added(B,A) for %q vs %q", tc[0], tc[1])
	}
}

func TestComputeCounts_LineEndingNormalization(t *testing.T) {
	unix := "a\nb\nc"
	windows := "a\r\nb\r\nc"
	oldMac := "a\rb\rc"
	unicodeSeps := "a b c"

	for _, variant := range []string{windows, oldMac, unicodeSeps} {
		assert.Equal(t, models.DiffCounts{}, computeCounts(t, unix, variant, false))
	}
}

func TestComputeCounts_WhitespaceInsensitive(t *testing.T) {
	assert.Equal(t, models.DiffCounts{}, computeCounts(t, "a  b\n", "a b\n", true))
	assert.Equal(t, models.DiffCounts{}, computeCounts(t, "  indented\t \n", "indented\n", true))
	assert.Equal(t, models.DiffCounts{}, computeCounts(t, "a\tb\tc", "a b c", true))

	// The same inputs do differ when whitespace matters.
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 1}, computeCounts(t, "a  b\n", "a b\n", false))

	// Non-whitespace changes still count in whitespace-insensitive mode.
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 1}, computeCounts(t, "a  b", "a c", true))
}

func TestComputeCounts_MinimalEditScript(t *testing.T) {
	// A block move costs delete+insert; counts reflect the minimal script,
	// not a naive per-position comparison (which would report 4 changed
	// lines here).
	base := "move\na\nb\nc"
	compare := "a\nb\nc\nmove"
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 1}, computeCounts(t, base, compare, false))
}

func TestComputeCounts_RepeatedLines(t *testing.T) {
	base := strings.Repeat("same\n", 100) + "unique"
	compare := strings.Repeat("same\n", 100) + "different"
	assert.Equal(t, models.DiffCounts{Added: 1, Removed: 1}, computeCounts(t, base, compare, false))
}

func TestTrimCommonEdges(t *testing.T) {
	base, compare := trimCommonEdges(
		[]string{"p", "p", "x", "s"},
		[]string{"p", "p", "y", "z", "s"},
	)
	assert.Equal(t, []string{"x"}, base)
	assert.Equal(t, []string{"y", "z"}, compare)

	// Fully identical sequences trim to nothing.
	base, compare = trimCommonEdges([]string{"a", "b"}, []string{"a", "b"})
	assert.Empty(t, base)
	assert.Empty(t, compare)

	// Overlap between prefix and suffix must not double-trim.
	base, compare = trimCommonEdges([]string{"a"}, []string{"a", "a"})
	assert.Empty(t, base)
	assert.Equal(t, []string{"a"}, compare)
}

func TestShortestEditDistance(t *testing.T) {
	cases := []struct {
		a, b []int
		want int
	}{
		{nil, nil, 0},
		{[]int{1, 2, 3}, nil, 3},
		{nil, []int{1, 2, 3}, 3},
		{[]int{1, 2, 3}, []int{1, 2, 3}, 0},
		{[]int{1, 2, 3}, []int{1, 4, 3}, 2},
		{[]int{1, 2, 3, 4}, []int{2, 3, 4, 5}, 2},
		{[]int{1, 2}, []int{2, 1}, 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, shortestEditDistance(tc.a, tc.b), "distance(%v, %v)", tc.a, tc.b)
	}
}

func TestSplitLines(t *testing.T) {
	assert.Nil(t, splitLines(""))
	assert.Equal(t, []string{"a"}, splitLines("a"))
	assert.Equal(t, []string{"a", ""}, splitLines("a\n"))
	assert.Equal(t, []string{"", ""}, splitLines("\n"))
}

func TestNormalizeWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", normalizeWhitespace("  a \t b\t\tc  "))
	assert.Equal(t, "", normalizeWhitespace("   \t "))
	assert.Equal(t, "unchanged", normalizeWhitespace("unchanged"))
}
