package crawler

import (
	"container/list"
	"sync"
)

// Frontier is the FIFO of normalized URLs waiting to be crawled. It is safe
// for many producers and consumers. Duplicate entries are allowed; callers
// filter them against the visited set when they pop.
type Frontier struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  *list.List
	active int
	closed bool
}

// NewFrontier returns an empty, open frontier.
func NewFrontier() *Frontier {
	f := &Frontier{queue: list.New()}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// Push appends url. It returns false once the frontier is closed.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.queue.PushBack(url)
	f.cond.Signal()
	return true
}

// Pop removes the oldest entry, blocking while the queue is empty but other
// entries are still being processed (they may push more). Every successful
// Pop must be paired with a call to Done. Pop returns false when the frontier
// is closed or drained: empty with nothing in flight.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for f.queue.Len() == 0 && !f.closed {
		if f.active == 0 {
			f.closed = true
			f.cond.Broadcast()
			break
		}
		f.cond.Wait()
	}
	if f.closed {
		return "", false
	}
	elem := f.queue.Front()
	f.queue.Remove(elem)
	f.active++
	return elem.Value.(string), true
}

// Done marks one popped entry as fully processed.
func (f *Frontier) Done() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.active > 0 {
		f.active--
	}
	if f.active == 0 && f.queue.Len() == 0 {
		f.cond.Broadcast()
	}
}

// Close stops the frontier: pending and future Pops return false and Push
// rejects new entries. Close is idempotent.
func (f *Frontier) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.cond.Broadcast()
}

// Closed reports whether the frontier was closed or drained.
func (f *Frontier) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

// Len returns the number of queued entries.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// InFlight returns the number of popped entries not yet marked Done.
func (f *Frontier) InFlight() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.active
}
