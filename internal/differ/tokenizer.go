package differ

// tokenizer maps line content to small integers so the edit-distance search
// compares integers instead of strings. The dictionary is shared across both
// sides of a comparison: identical line content always maps to the same
// token.
type tokenizer struct {
	tokens map[string]int
}

func newTokenizer(capacityHint int) *tokenizer {
	return &tokenizer{tokens: make(map[string]int, capacityHint)}
}

// tokenize converts a line sequence into its token sequence, extending the
// dictionary for lines not seen before.
func (t *tokenizer) tokenize(lines []string) []int {
	out := make([]int, len(lines))
	for i, line := range lines {
		token, ok := t.tokens[line]
		if !ok {
			token = len(t.tokens)
			t.tokens[line] = token
		}
		out[i] = token
	}
	return out
}
