package game

import (
	"math/rand/v2"
	"strings"
)

// summary sentences split on CJK and ASCII sentence punctuation.
const hintSeparators = "。、，！？“”!?\""

// SummaryHints derives up to n hint fragments from a character summary,
// each a randomly chosen sentence wrapped in ellipses. Returns nil when the
// summary yields nothing usable.
func SummaryHints(summary string, n int) []string {
	if summary == "" || n <= 0 {
		return nil
	}
	sentences := make([]string, 0)
	for _, part := range strings.FieldsFunc(summary, func(r rune) bool {
		return strings.ContainsRune(hintSeparators, r) || r == ' ' || r == '\n'
	}) {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}
	if len(sentences) == 0 {
		return nil
	}
	if n > len(sentences) {
		n = len(sentences)
	}
	picked := rand.Perm(len(sentences))[:n]
	hints := make([]string, 0, n)
	for _, index := range picked {
		hints = append(hints, "……"+sentences[index]+"……")
	}
	return hints
}
