package domain

import "strings"

// Tokenize collapses runs of spaces, tabs, CR and LF into single separators
// and returns the remaining non-empty tokens in order.
func Tokenize(text string) []string {
	var b strings.Builder
	b.Grow(len(text))

	lastWasSpace := false
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if isInstructionSpace(ch) {
			if !lastWasSpace {
				b.WriteByte(' ')
				lastWasSpace = true
			}
			continue
		}
		b.WriteByte(ch)
		lastWasSpace = false
	}

	compact := strings.Trim(b.String(), " ")
	if compact == "" {
		return []string{}
	}
	return strings.Split(compact, " ")
}

func isInstructionSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r'
}
