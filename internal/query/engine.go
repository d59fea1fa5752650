// Package query implements the query engine: turning free-form query lines
// into canonical stem sets, searching the shared index, and collecting
// ranked results keyed by canonical query string.
package query

import (
	"bufio"
	"os"
	"sort"
	"strings"
	"sync"

	"search-engine/internal/index"
	"search-engine/internal/normalize"
	"search-engine/internal/workerpool"
)

// SearchMode selects exact or prefix matching against the index.
type SearchMode int

const (
	// Exact restricts matches to dictionary keys equal to a query token.
	Exact SearchMode = iota
	// Partial matches every dictionary key that has a query token as a prefix.
	Partial
)

// Engine processes query lines against a shared index and accumulates
// results keyed by canonical query string.
type Engine struct {
	Index index.Index
	Stem  normalize.Stemmer
	Mode  SearchMode

	mu      sync.Mutex
	results map[string][]index.SearchResult
}

// New returns an Engine searching idx in the given mode.
func New(idx index.Index, stem normalize.Stemmer, mode SearchMode) *Engine {
	return &Engine{Index: idx, Stem: stem, Mode: mode, results: map[string][]index.SearchResult{}}
}

// ProcessLine normalizes line to a sorted set of distinct stems, builds the
// canonical query key by joining them with single spaces, and searches the
// index unless the key is empty or already recorded. The index search runs
// without holding the results-map mutex, per the engine's lock-ordering rule.
func (e *Engine) ProcessLine(line string) {
	key := canonicalKey(line, e.Stem)
	if key == "" {
		return
	}

	e.mu.Lock()
	_, already := e.results[key]
	e.mu.Unlock()

	if already {
		return
	}

	tokens := strings.Split(key, " ")

	var hits []index.SearchResult
	if e.Mode == Partial {
		hits = e.Index.PartialSearch(tokens)
	} else {
		hits = e.Index.ExactSearch(tokens)
	}

	e.mu.Lock()
	if _, already := e.results[key]; !already {
		e.results[key] = hits
	}
	e.mu.Unlock()
}

// canonicalKey normalizes line to its sorted, deduplicated stem set and
// joins it with single spaces. A line with no ASCII letters yields "".
func canonicalKey(line string, stem normalize.Stemmer) string {
	tokens := normalize.Tokens(line, stem)

	seen := map[string]struct{}{}

	unique := make([]string, 0, len(tokens))

	for _, t := range tokens {
		if _, ok := seen[t]; ok {
			continue
		}

		seen[t] = struct{}{}

		unique = append(unique, t)
	}

	sort.Strings(unique)

	return strings.Join(unique, " ")
}

// ProcessFile reads path line by line and calls ProcessLine for each,
// single-threaded.
func (e *Engine) ProcessFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		e.ProcessLine(scanner.Text())
	}

	return scanner.Err()
}

// ProcessFileParallel reads path line by line on the caller's task but
// submits each line to pool, barriering before returning.
func (e *Engine) ProcessFileParallel(path string, pool *workerpool.Pool) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}

	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		pool.Submit(func() { e.ProcessLine(line) })
	}

	if err := scanner.Err(); err != nil {
		return err
	}

	pool.Barrier()

	return nil
}

// View returns the recorded results for the canonical form of query, and
// whether that canonical key has been processed.
func (e *Engine) View(query string) ([]index.SearchResult, bool) {
	key := canonicalKey(query, e.Stem)

	e.mu.Lock()
	defer e.mu.Unlock()

	hits, ok := e.results[key]

	return hits, ok
}

// Queries returns every canonical query key recorded so far, in ascending
// order.
func (e *Engine) Queries() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make([]string, 0, len(e.results))
	for k := range e.results {
		out = append(out, k)
	}

	sort.Strings(out)

	return out
}

// Results returns a snapshot of the full results map, keyed by canonical
// query string.
func (e *Engine) Results() map[string][]index.SearchResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	out := make(map[string][]index.SearchResult, len(e.results))
	for k, v := range e.results {
		out[k] = v
	}

	return out
}
