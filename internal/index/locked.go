package index

import "search-engine/internal/rwlock"

// Locked composes an Unlocked index with a read-write lock rather than
// subclassing or overriding it method by method. It is the shared index
// every builder and the crawler merge into; Unlocked is the private,
// single-owner index each worker assembles before a single write acquisition
// folds it in.
type Locked struct {
	lock *rwlock.Lock
	idx  *Unlocked
}

// NewLocked returns an empty, lock-protected index.
func NewLocked() *Locked {
	return &Locked{lock: rwlock.New(), idx: NewUnlocked()}
}

func (l *Locked) Add(token, location string, position int) {
	w := l.lock.Writer()
	w.Do(func() { l.idx.Add(token, location, position) })
}

func (l *Locked) AddAll(tokens []string, location string, startPosition int) {
	w := l.lock.Writer()
	w.Do(func() { l.idx.AddAll(tokens, location, startPosition) })
}

// Merge acquires the write handle exactly once for the whole fold, which is
// the point of assembling a private index before calling this.
func (l *Locked) Merge(other Index) {
	w := l.lock.Writer()
	w.Do(func() { l.idx.Merge(other) })
}

func (l *Locked) Words() []string {
	r := l.lock.Reader()

	var out []string

	r.Do(func() { out = l.idx.Words() })

	return out
}

func (l *Locked) Locations(token string) []string {
	r := l.lock.Reader()

	var out []string

	r.Do(func() { out = l.idx.Locations(token) })

	return out
}

func (l *Locked) Positions(token, location string) []int {
	r := l.lock.Reader()

	var out []int

	r.Do(func() { out = l.idx.Positions(token, location) })

	return out
}

func (l *Locked) WordCount(location string) int {
	r := l.lock.Reader()

	var out int

	r.Do(func() { out = l.idx.WordCount(location) })

	return out
}

func (l *Locked) AllLocations() []string {
	r := l.lock.Reader()

	var out []string

	r.Do(func() { out = l.idx.AllLocations() })

	return out
}

func (l *Locked) NumTokens() int {
	r := l.lock.Reader()

	var out int

	r.Do(func() { out = l.idx.NumTokens() })

	return out
}

func (l *Locked) NumLocations() int {
	r := l.lock.Reader()

	var out int

	r.Do(func() { out = l.idx.NumLocations() })

	return out
}

func (l *Locked) ExactSearch(queryTokens []string) []SearchResult {
	r := l.lock.Reader()

	var out []SearchResult

	r.Do(func() { out = l.idx.ExactSearch(queryTokens) })

	return out
}

func (l *Locked) PartialSearch(queryTokens []string) []SearchResult {
	r := l.lock.Reader()

	var out []SearchResult

	r.Do(func() { out = l.idx.PartialSearch(queryTokens) })

	return out
}
