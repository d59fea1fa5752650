// Package htmlsan turns crawled HTML into plain indexable text and extracts
// the links a page points to. Both operations are pure functions of their
// input and never touch the network.
package htmlsan

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	commentPattern    = regexp.MustCompile(`(?is)<!--.*?-->`)
	blockPattern      = regexp.MustCompile(`(?is)<(?:script|style|noscript|template)\b[^>]*>.*?</(?:script|style|noscript|template)>`)
	whitespacePattern = regexp.MustCompile(`\s+`)

	strictPolicy = bluemonday.StrictPolicy()
)

// Sanitize strips comments, script/style/noscript/template blocks, all
// remaining tags, decodes HTML entities, and collapses whitespace runs into
// single spaces. The result is plain text suitable for tokenization.
func Sanitize(htmlText string) string {
	stripped := commentPattern.ReplaceAllString(htmlText, "")
	stripped = blockPattern.ReplaceAllString(stripped, "")
	stripped = strictPolicy.Sanitize(stripped)
	stripped = html.UnescapeString(stripped)
	stripped = whitespacePattern.ReplaceAllString(stripped, " ")

	return strings.TrimSpace(stripped)
}
