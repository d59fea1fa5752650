// Package stem provides a default implementation of the "stem(word) -> word"
// contract the engine treats as an external collaborator: normalization and
// indexing only ever call a func(string) string value, and this package is
// simply the one wired in by default. It implements the classic Porter
// (1980) stemming algorithm for English.
package stem

import (
	"sort"
	"strings"
)

// Stem reduces an English word to its root form. It is a pure, deterministic
// function: the same input always yields the same output.
func Stem(word string) string {
	w := strings.ToLower(word)
	if len(w) <= 2 {
		return w
	}

	b := []byte(w)
	b = step1a(b)
	b = step1b(b)
	b = step1c(b)
	b = []byte(step2(string(b)))
	b = []byte(step3(string(b)))
	b = []byte(step4(string(b)))
	b = step5a(b)
	b = step5b(b)

	return string(b)
}

// isConsonant reports whether the byte at i is a consonant. 'y' is a
// consonant at the start of the word or immediately after a consonant, and a
// vowel otherwise.
func isConsonant(b []byte, i int) bool {
	switch b[i] {
	case 'a', 'e', 'i', 'o', 'u':
		return false
	case 'y':
		if i == 0 {
			return true
		}

		return !isConsonant(b, i-1)
	default:
		return true
	}
}

// measure counts the number of consonant-vowel sequences (the Porter "m"
// value) in b, treated as [C](VC)^m[V].
func measure(b []byte) int {
	i, n, m := 0, len(b), 0

	for i < n && isConsonant(b, i) {
		i++
	}

	for i < n {
		for i < n && !isConsonant(b, i) {
			i++
		}

		if i >= n {
			break
		}

		for i < n && isConsonant(b, i) {
			i++
		}

		m++
	}

	return m
}

func containsVowel(b []byte) bool {
	for i := range b {
		if !isConsonant(b, i) {
			return true
		}
	}

	return false
}

func endsDoubleConsonant(b []byte) bool {
	n := len(b)
	if n < 2 || b[n-1] != b[n-2] {
		return false
	}

	return isConsonant(b, n-1)
}

// endsCVC reports whether b ends in consonant-vowel-consonant, where the
// final consonant is not w, x, or y.
func endsCVC(b []byte) bool {
	n := len(b)
	if n < 3 {
		return false
	}

	if !isConsonant(b, n-3) || isConsonant(b, n-2) || !isConsonant(b, n-1) {
		return false
	}

	switch b[n-1] {
	case 'w', 'x', 'y':
		return false
	default:
		return true
	}
}

func step1a(b []byte) []byte {
	s := string(b)

	switch {
	case strings.HasSuffix(s, "sses"):
		return []byte(s[:len(s)-2])
	case strings.HasSuffix(s, "ies"):
		return []byte(s[:len(s)-2])
	case strings.HasSuffix(s, "ss"):
		return b
	case strings.HasSuffix(s, "s"):
		return []byte(s[:len(s)-1])
	default:
		return b
	}
}

func step1b(b []byte) []byte {
	s := string(b)

	switch {
	case strings.HasSuffix(s, "eed"):
		stem := s[:len(s)-3]
		if measure([]byte(stem)) > 0 {
			return []byte(stem + "ee")
		}

		return b
	case strings.HasSuffix(s, "ed"):
		stem := []byte(s[:len(s)-2])
		if containsVowel(stem) {
			return step1bCleanup(stem)
		}

		return b
	case strings.HasSuffix(s, "ing"):
		stem := []byte(s[:len(s)-3])
		if containsVowel(stem) {
			return step1bCleanup(stem)
		}

		return b
	default:
		return b
	}
}

func step1bCleanup(b []byte) []byte {
	s := string(b)

	switch {
	case strings.HasSuffix(s, "at"), strings.HasSuffix(s, "bl"), strings.HasSuffix(s, "iz"):
		return []byte(s + "e")
	}

	if endsDoubleConsonant(b) {
		last := b[len(b)-1]
		if last != 'l' && last != 's' && last != 'z' {
			return b[:len(b)-1]
		}

		return b
	}

	if measure(b) == 1 && endsCVC(b) {
		return append(b, 'e')
	}

	return b
}

func step1c(b []byte) []byte {
	s := string(b)
	if strings.HasSuffix(s, "y") && len(b) > 1 {
		stem := b[:len(b)-1]
		if containsVowel(stem) {
			b[len(b)-1] = 'i'
		}
	}

	return b
}

type suffixRule struct {
	suffix string
	repl   string
}

func byDescendingSuffixLen(rules []suffixRule) []suffixRule {
	out := make([]suffixRule, len(rules))
	copy(out, rules)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].suffix) > len(out[j].suffix) })

	return out
}

var step2Rules = byDescendingSuffixLen([]suffixRule{
	{"ational", "ate"},
	{"tional", "tion"},
	{"enci", "ence"},
	{"anci", "ance"},
	{"izer", "ize"},
	{"abli", "able"},
	{"alli", "al"},
	{"entli", "ent"},
	{"eli", "e"},
	{"ousli", "ous"},
	{"ization", "ize"},
	{"ation", "ate"},
	{"ator", "ate"},
	{"alism", "al"},
	{"iveness", "ive"},
	{"fulness", "ful"},
	{"ousness", "ous"},
	{"aliti", "al"},
	{"iviti", "ive"},
	{"biliti", "ble"},
	{"logi", "log"},
})

var step3Rules = byDescendingSuffixLen([]suffixRule{
	{"icate", "ic"},
	{"ative", ""},
	{"alize", "al"},
	{"iciti", "ic"},
	{"ical", "ic"},
	{"ful", ""},
	{"ness", ""},
})

var step4Rules = byDescendingSuffixLen([]suffixRule{
	{"ement", ""},
	{"ance", ""},
	{"ence", ""},
	{"able", ""},
	{"ible", ""},
	{"ment", ""},
	{"ant", ""},
	{"ent", ""},
	{"ism", ""},
	{"ate", ""},
	{"iti", ""},
	{"ous", ""},
	{"ive", ""},
	{"ize", ""},
	{"al", ""},
	{"er", ""},
	{"ic", ""},
	{"ou", ""},
})

// applyRule finds the first (longest-suffix) rule that matches s and applies
// its replacement only if the stem satisfies cond. Per the Porter algorithm,
// once a suffix match is found no shorter rule in the same step is tried,
// even if the matched rule's condition fails.
func applyRule(s string, rules []suffixRule, cond func(stem string) bool) string {
	for _, r := range rules {
		if strings.HasSuffix(s, r.suffix) {
			stem := s[:len(s)-len(r.suffix)]
			if cond(stem) {
				return stem + r.repl
			}

			return s
		}
	}

	return s
}

func step2(s string) string {
	return applyRule(s, step2Rules, func(stem string) bool { return measure([]byte(stem)) > 0 })
}

func step3(s string) string {
	return applyRule(s, step3Rules, func(stem string) bool { return measure([]byte(stem)) > 0 })
}

func step4(s string) string {
	if strings.HasSuffix(s, "ion") {
		stem := s[:len(s)-3]
		if measure([]byte(stem)) > 1 && (strings.HasSuffix(stem, "s") || strings.HasSuffix(stem, "t")) {
			return stem
		}
	}

	return applyRule(s, step4Rules, func(stem string) bool { return measure([]byte(stem)) > 1 })
}

func step5a(b []byte) []byte {
	s := string(b)
	if !strings.HasSuffix(s, "e") {
		return b
	}

	stem := b[:len(b)-1]
	m := measure(stem)

	if m > 1 || (m == 1 && !endsCVC(stem)) {
		return stem
	}

	return b
}

func step5b(b []byte) []byte {
	if len(b) > 1 && endsDoubleConsonant(b) && b[len(b)-1] == 'l' && measure(b[:len(b)-1]) > 1 {
		return b[:len(b)-1]
	}

	return b
}
