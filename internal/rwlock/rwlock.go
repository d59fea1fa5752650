// Package rwlock implements a multi-reader/single-writer lock exposed as two
// independent handle types rather than a single mutex value. Callers that
// only ever read acquire a RHandle; callers that mutate acquire a WHandle.
// Neither handle is re-entrant: a task that already holds a handle must not
// lock it again.
package rwlock

import "sync"

// Lock is the shared state behind a pair of read/write handles. The zero
// value is not usable; create one with New.
type Lock struct {
	cond           *sync.Cond
	mu             sync.Mutex
	readers        int
	writerActive   bool
	writersWaiting int
}

// New creates a ready-to-use Lock.
func New() *Lock {
	l := &Lock{}
	l.cond = sync.NewCond(&l.mu)

	return l
}

// RHandle is a read-side acquisition handle. Any number of RHandles for the
// same Lock may be held concurrently, but never while a WHandle is held.
type RHandle struct {
	l *Lock
}

// WHandle is the write-side acquisition handle. At most one WHandle may be
// held at a time, and only when no RHandle is held.
type WHandle struct {
	l *Lock
}

// Reader returns a read-side handle bound to this lock.
func (l *Lock) Reader() RHandle { return RHandle{l: l} }

// Writer returns a write-side handle bound to this lock.
func (l *Lock) Writer() WHandle { return WHandle{l: l} }

// Lock blocks until no writer holds the lock and no writer is waiting. A
// writer that has already announced intent to acquire the lock (see WHandle.Lock)
// takes priority over new readers, so continuous read traffic cannot starve
// a writer indefinitely.
func (r RHandle) Lock() {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	for r.l.writerActive || r.l.writersWaiting > 0 {
		r.l.cond.Wait()
	}

	r.l.readers++
}

// Unlock releases this reader's hold on the lock. It must be called exactly
// once per Lock call, by the same task.
func (r RHandle) Unlock() {
	r.l.mu.Lock()
	defer r.l.mu.Unlock()

	r.l.readers--

	if r.l.readers == 0 {
		r.l.cond.Broadcast()
	}
}

// Do acquires the read handle, runs f, and releases the handle even if f
// panics. This is the scoped-acquisition helper the lock's contract calls for.
func (r RHandle) Do(f func()) {
	r.Lock()
	defer r.Unlock()

	f()
}

// Lock blocks until no reader and no other writer holds the lock.
func (w WHandle) Lock() {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()

	w.l.writersWaiting++

	for w.l.writerActive || w.l.readers > 0 {
		w.l.cond.Wait()
	}

	w.l.writersWaiting--
	w.l.writerActive = true
}

// Unlock releases this writer's hold on the lock. It must be called exactly
// once per Lock call, by the same task.
func (w WHandle) Unlock() {
	w.l.mu.Lock()
	defer w.l.mu.Unlock()

	w.l.writerActive = false

	w.l.cond.Broadcast()
}

// Do acquires the write handle, runs f, and releases the handle even if f
// panics. This is the scoped-acquisition helper the lock's contract calls for.
func (w WHandle) Do(f func()) {
	w.Lock()
	defer w.Unlock()

	f()
}
