package crawl

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"search-engine/internal/index"
	"search-engine/internal/workerpool"
)

func identity(w string) string { return w }

type fakePage struct {
	status      int
	contentType string
	body        string
}

func fakeFetcher(pages map[string]fakePage) Fetcher {
	return func(_ context.Context, uri string) (int, string, []byte, error) {
		p, ok := pages[uri]
		if !ok {
			return 404, "text/plain", nil, nil
		}

		return p.status, p.contentType, []byte(p.body), nil
	}
}

// S6 - seed page links to three others; -crawl 2 yields |visited| = 2. Cap
// accounting happens on enqueue and stops once one slot is left, which the
// seed occupies, so only one of the three links is admitted.
func TestScenario_CrawlCapAccounting(t *testing.T) {
	pages := map[string]fakePage{
		"https://example.com/seed": {
			status:      200,
			contentType: "text/html",
			body: `<a href="https://example.com/a">a</a>` +
				`<a href="https://example.com/b">b</a>` +
				`<a href="https://example.com/c">c</a>`,
		},
		"https://example.com/a": {status: 200, contentType: "text/html", body: "a"},
		"https://example.com/b": {status: 200, contentType: "text/html", body: "b"},
		"https://example.com/c": {status: 200, contentType: "text/html", body: "c"},
	}

	idx := index.NewLocked()
	pool := workerpool.New(4)
	c := New(idx, identity, fakeFetcher(pages), pool, 2)

	require.NoError(t, c.Crawl(context.Background(), "https://example.com/seed"))
	pool.Join()

	assert.Len(t, c.Visited(), 2)
	assert.Contains(t, c.Visited(), "https://example.com/seed")
}

func TestCrawler_IndexesSanitizedTextUnderCleanedURI(t *testing.T) {
	pages := map[string]fakePage{
		"https://Example.com/Page#frag": {
			status:      200,
			contentType: "text/html; charset=utf-8",
			body:        "<p>Hello <b>World</b></p>",
		},
	}

	idx := index.NewLocked()
	pool := workerpool.New(2)
	c := New(idx, identity, fakeFetcher(pages), pool, 5)

	require.NoError(t, c.Crawl(context.Background(), "https://Example.com/Page#frag"))
	pool.Join()

	assert.Contains(t, idx.Words(), "hello")
	assert.Equal(t, []string{"https://example.com/Page"}, idx.Locations("hello"))
}

func TestCrawler_NonHTMLResponsesAreNotIndexed(t *testing.T) {
	pages := map[string]fakePage{
		"https://example.com/img": {status: 200, contentType: "image/png", body: "binary"},
	}

	idx := index.NewLocked()
	pool := workerpool.New(1)
	c := New(idx, identity, fakeFetcher(pages), pool, 5)

	require.NoError(t, c.Crawl(context.Background(), "https://example.com/img"))
	pool.Join()

	assert.Zero(t, idx.NumTokens())
}

func TestCrawler_NonOKStatusIsSkipped(t *testing.T) {
	pages := map[string]fakePage{
		"https://example.com/missing": {status: 404, contentType: "text/html", body: "<p>not found</p>"},
	}

	idx := index.NewLocked()
	pool := workerpool.New(1)
	c := New(idx, identity, fakeFetcher(pages), pool, 5)

	require.NoError(t, c.Crawl(context.Background(), "https://example.com/missing"))
	pool.Join()

	assert.Zero(t, idx.NumTokens())
}

func TestCrawler_DoesNotRevisitAlreadySeenLinks(t *testing.T) {
	pages := map[string]fakePage{
		"https://example.com/seed": {
			status:      200,
			contentType: "text/html",
			body: `<a href="https://example.com/a">a</a>` +
				`<a href="https://example.com/a">again</a>`,
		},
		"https://example.com/a": {status: 200, contentType: "text/html", body: "a"},
	}

	idx := index.NewLocked()
	pool := workerpool.New(4)
	c := New(idx, identity, fakeFetcher(pages), pool, 10)

	require.NoError(t, c.Crawl(context.Background(), "https://example.com/seed"))
	pool.Join()

	assert.Len(t, c.Visited(), 2)
}
