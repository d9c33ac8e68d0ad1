package task

import (
	"strings"
	"unicode"
)

// Similarity returns the word-overlap ratio between a and b: the number of
// shared words divided by the word count of the shorter text. Words are
// lower-cased and split on anything that is not a letter or digit. Words of
// fewer than three runes are ignored.
func Similarity(a, b string) float64 {
	wa, wb := words(a), words(b)
	if len(wa) == 0 || len(wb) == 0 {
		return 0
	}
	if len(wb) < len(wa) {
		wa, wb = wb, wa
	}
	shared := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			shared++
		}
	}
	return float64(shared) / float64(len(wa))
}

func words(s string) map[string]struct{} {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if len([]rune(f)) < 3 {
			continue
		}
		out[f] = struct{}{}
	}
	return out
}

// MatchCompleted reports whether any completed todo is similar enough to the
// active task content. A threshold <= 0 disables matching.
func MatchCompleted(active string, completed []string, threshold float64) (string, bool) {
	if threshold <= 0 {
		return "", false
	}
	for _, c := range completed {
		if Similarity(active, c) >= threshold {
			return c, true
		}
	}
	return "", false
}
