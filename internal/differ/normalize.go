package differ

import "strings"

// lineEndingReplacer maps every supported line terminator to "\n". The CRLF
// pair is listed first so it is not consumed as a lone CR.
var lineEndingReplacer = strings.NewReplacer(
	"\r\n", "\n",
	"\r", "\n",
	" ", "\n",
	" ", "\n",
)

// normalizeLineEndings rewrites CRLF, lone CR, and the Unicode line and
// paragraph separators to a single line-break convention.
func normalizeLineEndings(text string) string {
	return lineEndingReplacer.Replace(text)
}

// splitLines splits normalized text into lines. Empty input yields an empty
// sequence rather than a single empty line.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// normalizeWhitespace collapses every run of whitespace in a line to one
// space and trims leading and trailing whitespace. Two lines differing only
// in whitespace map to the same normalized form. This is a deliberate
// counting approximation: it can make lines that a character-level diff
// would mark as changed register as unchanged.
func normalizeWhitespace(line string) string {
	return strings.Join(strings.Fields(line), " ")
}

// normalizeWhitespaceAll applies normalizeWhitespace to every line,
// returning a fresh slice.
func normalizeWhitespaceAll(lines []string) []string {
	if lines == nil {
		return nil
	}
	normalized := make([]string, len(lines))
	for i, line := range lines {
		normalized[i] = normalizeWhitespace(line)
	}
	return normalized
}

// trimCommonEdges removes the common leading and trailing runs of identical
// lines from both sequences. Prefix and suffix lines can never be part of a
// minimal edit script, so only the remaining core slices need the expensive
// search.
func trimCommonEdges(base, compare []string) ([]string, []string) {
	start := 0
	for start < len(base) && start < len(compare) && base[start] == compare[start] {
		start++
	}

	endBase, endCompare := len(base), len(compare)
	for endBase > start && endCompare > start && base[endBase-1] == compare[endCompare-1] {
		endBase--
		endCompare--
	}

	return base[start:endBase], compare[start:endCompare]
}
