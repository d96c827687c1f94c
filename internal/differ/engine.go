package differ

import (
	"slices"

	"github.com/vuon9/workdiff/internal/common"
	"github.com/vuon9/workdiff/internal/models"
)

// Engine computes exact added/removed line counts between two texts. It is
// stateless: no I/O, deterministic output, and any byte sequence decodable as
// text is valid input. The only error it can report is an internal invariant
// violation.
type Engine struct{}

// NewEngine creates a new diff engine.
func NewEngine() *Engine {
	return &Engine{}
}

// ComputeCounts returns the number of lines present only in compareText
// (added) and only in baseText (removed) under a minimal alignment.
//
// When ignoreWhitespace is set, every line on both sides is first reduced to
// a whitespace-collapsed form, so lines differing only in whitespace count
// as unchanged. That mode trades byte fidelity for a size-only summary; it
// is a counting approximation, not a patch.
func (e *Engine) ComputeCounts(baseText, compareText string, ignoreWhitespace bool) (models.DiffCounts, error) {
	baseLines := splitLines(normalizeLineEndings(baseText))
	compareLines := splitLines(normalizeLineEndings(compareText))

	if ignoreWhitespace {
		baseLines = normalizeWhitespaceAll(baseLines)
		compareLines = normalizeWhitespaceAll(compareLines)
	}

	// Unchanged files short-circuit before tokenization.
	if slices.Equal(baseLines, compareLines) {
		return models.DiffCounts{}, nil
	}

	baseCore, compareCore := trimCommonEdges(baseLines, compareLines)

	tok := newTokenizer(len(baseCore) + len(compareCore))
	baseTokens := tok.tokenize(baseCore)
	compareTokens := tok.tokenize(compareCore)

	distance := shortestEditDistance(baseTokens, compareTokens)

	n, m := len(baseTokens), len(compareTokens)
	lcs := (n + m - distance) / 2
	counts := models.DiffCounts{
		Added:   m - lcs,
		Removed: n - lcs,
	}
	if counts.Added < 0 || counts.Removed < 0 || (n+m-distance)%2 != 0 {
		return models.DiffCounts{}, common.NewError(
			"line diff invariant violated: n=%d m=%d distance=%d", n, m, distance)
	}
	return counts, nil
}
