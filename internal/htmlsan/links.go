package htmlsan

import (
	"errors"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

var errNotAbsoluteHTTP = errors.New("htmlsan: not an absolute http(s) URI")

// ExtractLinks finds every href attribute on every element in htmlText
// (not just <a>), resolves it against base, drops any fragment, and
// returns the resulting absolute http(s) URIs in source order. Links that
// don't resolve to an absolute http or https URL are discarded. Tokenizing
// rather than building a full DOM keeps this cheap for pages the crawler
// otherwise discards most of via Sanitize.
func ExtractLinks(htmlText string, base *url.URL) []string {
	z := html.NewTokenizer(strings.NewReader(htmlText))

	var out []string

	for {
		switch z.Next() {
		case html.ErrorToken:
			return out
		case html.StartTagToken, html.SelfClosingTagToken:
			for _, href := range hrefAttrs(z) {
				if resolved, err := resolve(base, href); err == nil {
					out = append(out, resolved)
				}
			}
		}
	}
}

// hrefAttrs returns the href attribute values (case-insensitive attribute
// name) of the tag token the tokenizer is currently positioned on.
func hrefAttrs(z *html.Tokenizer) []string {
	var out []string

	for {
		key, val, more := z.TagAttr()
		if string(key) == "href" {
			out = append(out, string(val))
		}

		if !more {
			return out
		}
	}
}

func resolve(base *url.URL, raw string) (string, error) {
	ref, err := url.Parse(raw)
	if err != nil {
		return "", err
	}

	abs := base.ResolveReference(ref)
	abs.Fragment = ""

	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", errNotAbsoluteHTTP
	}

	if abs.Host == "" {
		return "", errNotAbsoluteHTTP
	}

	return abs.String(), nil
}
