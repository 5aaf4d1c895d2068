// Package ticker canonicalizes raw ticker strings emitted by predictors.
package ticker

import "strings"

// Normalize uppercases and trims raw, drops any exchange suffix after the
// first ".", and returns the base symbol if it is made only of ASCII A-Z.
// The suffix is discarded whatever it contains. ok is false when there is
// no supported canonical form.
func Normalize(raw string) (symbol string, ok bool) {
	s := strings.ToUpper(strings.TrimSpace(raw))
	if base, _, found := strings.Cut(s, "."); found {
		s = base
	}
	if !lettersOnly(s) {
		return "", false
	}
	return s, true
}

func lettersOnly(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < 'A' || s[i] > 'Z' {
			return false
		}
	}
	return true
}
