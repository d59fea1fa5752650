// Package crawl implements the bounded breadth-first web crawler: fetch,
// sanitize, index, extract links, repeat, all driven by a worker pool and
// capped at a fixed number of fetched pages.
package crawl

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"unicode/utf8"

	"search-engine/internal/htmlsan"
	"search-engine/internal/index"
	"search-engine/internal/normalize"
	"search-engine/internal/workerpool"
)

const maxRedirects = 3

// Fetcher retrieves a URI and reports its status, content type, and body.
// The default implementation wraps net/http; tests inject a fake.
type Fetcher func(ctx context.Context, uri string) (status int, contentType string, body []byte, err error)

// Crawler performs a bounded BFS crawl starting from a seed URI, merging the
// sanitized text of every fetched HTML page into the shared index. It
// accepts the index.Index capability directly so it never needs to cast a
// private, unsynchronized index into a thread-safe one.
type Crawler struct {
	Index   index.Index
	Stem    normalize.Stemmer
	Fetch   Fetcher
	Pool    *workerpool.Pool
	Cap     int
	mu      sync.Mutex
	visited map[string]struct{}
	remaining int
}

// New returns a Crawler bounded to pageCap pages, fetching with fetch and
// indexing into idx via pool's workers.
func New(idx index.Index, stem normalize.Stemmer, fetch Fetcher, pool *workerpool.Pool, pageCap int) *Crawler {
	if pageCap < 1 {
		pageCap = 1
	}

	return &Crawler{
		Index:     idx,
		Stem:      stem,
		Fetch:     fetch,
		Pool:      pool,
		Cap:       pageCap,
		visited:   map[string]struct{}{},
		remaining: pageCap,
	}
}

// Crawl inserts seed into visited, submits its crawl task, and blocks until
// the pool's barrier reports no outstanding work, including any links the
// seed (or its descendants) transitively enqueued.
func (c *Crawler) Crawl(ctx context.Context, seed string) error {
	c.mu.Lock()
	c.visited[seed] = struct{}{}
	c.mu.Unlock()

	c.Pool.Submit(func() { c.crawlOne(ctx, seed) })
	c.Pool.Barrier()

	return nil
}

// Visited returns the set of URIs that were scheduled for fetching, seed
// included, in no particular order.
func (c *Crawler) Visited() []string {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]string, 0, len(c.visited))
	for u := range c.visited {
		out = append(out, u)
	}

	return out
}

func (c *Crawler) crawlOne(ctx context.Context, uri string) {
	status, contentType, body, err := c.Fetch(ctx, uri)
	if err != nil {
		slog.Warn("crawl: fetch failed", "uri", uri, "err", err)
		return
	}

	if status != http.StatusOK || !strings.HasPrefix(strings.ToLower(contentType), "text/html") {
		return
	}

	text := htmlsan.Sanitize(string(body))
	if !utf8.ValidString(text) {
		slog.Warn("crawl: sanitized text is not valid UTF-8", "uri", uri)
		return
	}

	location := cleanURI(uri)
	tokens := normalize.Tokens(text, c.Stem)

	priv := index.NewUnlocked()
	priv.AddAll(tokens, location, 1)
	c.Index.Merge(priv)

	base, err := url.Parse(uri)
	if err != nil {
		slog.Warn("crawl: seed/link is not a valid URI", "uri", uri, "err", err)
		return
	}

	for _, link := range htmlsan.ExtractLinks(string(body), base) {
		c.admit(ctx, link)
	}
}

// admit enqueues link if the cap has room and it has not already been
// scheduled. Cap accounting happens here, on enqueue, never on the seed and
// never on completion, so the crawl terminates deterministically: remaining
// starts at Cap and already accounts for the page currently being fetched.
func (c *Crawler) admit(ctx context.Context, link string) {
	c.mu.Lock()

	_, seen := c.visited[link]

	if seen || c.remaining <= 1 {
		c.mu.Unlock()
		return
	}

	c.visited[link] = struct{}{}
	c.remaining--

	c.mu.Unlock()

	c.Pool.Submit(func() { c.crawlOne(ctx, link) })
}

// cleanURI lowercases the scheme and host and drops the fragment, matching
// the location normalization rule for web-page locations.
func cleanURI(uri string) string {
	u, err := url.Parse(uri)
	if err != nil {
		return uri
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	return u.String()
}
