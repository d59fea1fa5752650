// Package normalize turns raw text into the ordered token stream the index
// and query engine both consume. It is a pure transformation: Unicode NFD,
// ASCII-letter filtering, lowercasing, whitespace splitting, and stemming.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Stemmer reduces a lowercased word to its token form.
type Stemmer func(word string) string

// Tokens applies Unicode NFD normalization to text, strips every codepoint
// that is not an ASCII letter or whitespace, lowercases, splits on runs of
// whitespace, and stems each resulting segment. Empty segments never reach
// stem and are never emitted.
func Tokens(text string, stem Stemmer) []string {
	decomposed := norm.NFD.String(text)

	var b strings.Builder

	b.Grow(len(decomposed))

	for _, r := range decomposed {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}

	fields := strings.Fields(b.String())
	tokens := make([]string, 0, len(fields))

	for _, f := range fields {
		lower := strings.ToLower(f)
		if lower == "" {
			continue
		}

		tok := stem(lower)
		if tok != "" {
			tokens = append(tokens, tok)
		}
	}

	return tokens
}
