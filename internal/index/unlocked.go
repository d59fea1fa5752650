package index

import (
	"sort"
	"strings"
)

// Unlocked is a single-owner inverted index with no internal synchronization.
// It is the type builders use to assemble a private per-document index before
// folding it into a shared Locked index with one write acquisition.
type Unlocked struct {
	tokens     []string // sorted, deduplicated
	postings   map[string]map[string]map[int]struct{}
	wordCounts map[string]int
}

// NewUnlocked returns an empty Unlocked index.
func NewUnlocked() *Unlocked {
	return &Unlocked{
		postings:   map[string]map[string]map[int]struct{}{},
		wordCounts: map[string]int{},
	}
}

// Add inserts the (token, location, position) triple. If the position was not
// already present for this (token, location) pair, word_counts[location] is
// incremented.
func (u *Unlocked) Add(token, location string, position int) {
	if u.addPosition(token, location, position) {
		u.wordCounts[location]++
	}
}

// AddAll assigns consecutive positions, starting at startPosition, to each
// token in order.
func (u *Unlocked) AddAll(tokens []string, location string, startPosition int) {
	for i, tok := range tokens {
		u.Add(tok, location, startPosition+i)
	}
}

// addPosition inserts token/location/position into the postings structure
// without touching word_counts, and reports whether the position is new.
func (u *Unlocked) addPosition(token, location string, position int) bool {
	locs, ok := u.postings[token]
	if !ok {
		locs = map[string]map[int]struct{}{}
		u.postings[token] = locs
		u.insertToken(token)
	}

	positions, ok := locs[location]
	if !ok {
		positions = map[int]struct{}{}
		locs[location] = positions
	}

	if _, exists := u.wordCounts[location]; !exists {
		u.wordCounts[location] = 0
	}

	if _, exists := positions[position]; exists {
		return false
	}

	positions[position] = struct{}{}

	return true
}

func (u *Unlocked) insertToken(token string) {
	i := sort.SearchStrings(u.tokens, token)
	u.tokens = append(u.tokens, "")
	copy(u.tokens[i+1:], u.tokens[i:])
	u.tokens[i] = token
}

// Merge folds another index's tokens, locations, positions, and word-counts
// into this one. Word-counts merge with a max(current, incoming) rule per
// location rather than summing, so merging a disjoint per-document private
// index is idempotent and order-independent.
func (u *Unlocked) Merge(other Index) {
	incomingMax := map[string]int{}

	for _, tok := range other.Words() {
		for _, loc := range other.Locations(tok) {
			for _, pos := range other.Positions(tok, loc) {
				u.addPosition(tok, loc, pos)
			}

			if c := other.WordCount(loc); c > incomingMax[loc] {
				incomingMax[loc] = c
			}
		}
	}

	for loc, c := range incomingMax {
		if c > u.wordCounts[loc] {
			u.wordCounts[loc] = c
		}
	}
}

// Words returns every token in the index, in ascending order.
func (u *Unlocked) Words() []string {
	out := make([]string, len(u.tokens))
	copy(out, u.tokens)

	return out
}

// Locations returns every location holding at least one position for token,
// in lexicographic order.
func (u *Unlocked) Locations(token string) []string {
	locs, ok := u.postings[token]
	if !ok {
		return nil
	}

	out := make([]string, 0, len(locs))
	for loc := range locs {
		out = append(out, loc)
	}

	sort.Strings(out)

	return out
}

// Positions returns the positions recorded for (token, location), ascending.
func (u *Unlocked) Positions(token, location string) []int {
	locs, ok := u.postings[token]
	if !ok {
		return nil
	}

	positions, ok := locs[location]
	if !ok {
		return nil
	}

	out := make([]int, 0, len(positions))
	for p := range positions {
		out = append(out, p)
	}

	sort.Ints(out)

	return out
}

// WordCount returns the recorded word count for location, or 0 if unknown.
func (u *Unlocked) WordCount(location string) int {
	return u.wordCounts[location]
}

// AllLocations returns every location with a word-count entry, ascending.
// Every location referenced from the postings also has an entry here
// (invariant 3), so this is the complete set a counts-JSON emitter needs.
func (u *Unlocked) AllLocations() []string {
	out := make([]string, 0, len(u.wordCounts))
	for loc := range u.wordCounts {
		out = append(out, loc)
	}

	sort.Strings(out)

	return out
}

// NumTokens returns the number of distinct tokens in the index.
func (u *Unlocked) NumTokens() int { return len(u.tokens) }

// NumLocations returns the number of distinct locations referenced.
func (u *Unlocked) NumLocations() int { return len(u.wordCounts) }

// ExactSearch folds the location map of every query token that is a key in
// the index into an accumulator, returning hits sorted by the index's total
// order.
func (u *Unlocked) ExactSearch(queryTokens []string) []SearchResult {
	acc := map[string]*SearchResult{}

	for _, qt := range queryTokens {
		locs, ok := u.postings[qt]
		if !ok {
			continue
		}

		u.foldLocations(locs, acc)
	}

	return sortResults(collect(acc))
}

// PartialSearch folds the location map of every index key that has a query
// token as a prefix. It seeks into the sorted token slice with a binary
// search rather than scanning every key, so cost per query token is
// logarithmic in the number of dictionary entries.
func (u *Unlocked) PartialSearch(queryTokens []string) []SearchResult {
	acc := map[string]*SearchResult{}

	for _, qt := range queryTokens {
		start := sort.SearchStrings(u.tokens, qt)

		for i := start; i < len(u.tokens) && strings.HasPrefix(u.tokens[i], qt); i++ {
			u.foldLocations(u.postings[u.tokens[i]], acc)
		}
	}

	return sortResults(collect(acc))
}

func (u *Unlocked) foldLocations(locs map[string]map[int]struct{}, acc map[string]*SearchResult) {
	for loc, positions := range locs {
		r, ok := acc[loc]
		if !ok {
			r = &SearchResult{Where: loc}
			acc[loc] = r
		}

		r.Count += len(positions)
		r.Score = float64(r.Count) / float64(u.wordCounts[loc])
	}
}

func collect(acc map[string]*SearchResult) []SearchResult {
	out := make([]SearchResult, 0, len(acc))
	for _, r := range acc {
		out = append(out, *r)
	}

	return out
}
