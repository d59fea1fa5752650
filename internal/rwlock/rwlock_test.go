package rwlock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLock_ConcurrentReaders(t *testing.T) {
	l := New()

	var inFlight int32

	var maxObserved int32

	var wg sync.WaitGroup

	for i := 0; i < 8; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			r := l.Reader()
			r.Lock()
			defer r.Unlock()

			n := atomic.AddInt32(&inFlight, 1)

			for {
				cur := atomic.LoadInt32(&maxObserved)
				if n <= cur || atomic.CompareAndSwapInt32(&maxObserved, cur, n) {
					break
				}
			}

			time.Sleep(5 * time.Millisecond)
			atomic.AddInt32(&inFlight, -1)
		}()
	}

	wg.Wait()

	assert.Greater(t, maxObserved, int32(1), "expected multiple readers to hold the lock concurrently")
}

func TestLock_WriterExcludesReaders(t *testing.T) {
	l := New()

	var active int32

	w := l.Writer()
	w.Lock()

	done := make(chan struct{})

	go func() {
		r := l.Reader()
		r.Lock()

		defer r.Unlock()

		atomic.AddInt32(&active, 1)

		close(done)
	}()

	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), atomic.LoadInt32(&active), "reader must not proceed while writer holds the lock")

	w.Unlock()

	<-done
	assert.Equal(t, int32(1), atomic.LoadInt32(&active))
}

func TestLock_WriterPreferredOverNewReaders(t *testing.T) {
	l := New()

	r1 := l.Reader()
	r1.Lock()

	writerDone := make(chan struct{})

	w := l.Writer()

	go func() {
		w.Lock()
		defer w.Unlock()

		close(writerDone)
	}()

	time.Sleep(10 * time.Millisecond) // let the writer announce itself

	readerAdmitted := make(chan struct{})

	go func() {
		r2 := l.Reader()
		r2.Lock()
		defer r2.Unlock()

		close(readerAdmitted)
	}()

	time.Sleep(10 * time.Millisecond)

	select {
	case <-readerAdmitted:
		t.Fatal("a new reader was admitted ahead of a waiting writer")
	default:
	}

	r1.Unlock()
	<-writerDone
	<-readerAdmitted
}

func TestRHandle_DoReleasesOnPanic(t *testing.T) {
	l := New()
	r := l.Reader()

	func() {
		defer func() { _ = recover() }()

		r.Do(func() { panic("boom") })
	}()

	w := l.Writer()

	done := make(chan struct{})

	go func() {
		w.Lock()
		w.Unlock()

		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("writer never acquired lock after reader panicked inside Do")
	}
}
