package crawler

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrontierFIFO(t *testing.T) {
	f := NewFrontier()
	for _, u := range []string{"a", "b", "c"} {
		require.True(t, f.Push(u))
	}
	assert.Equal(t, 3, f.Len())

	for _, want := range []string{"a", "b", "c"} {
		got, ok := f.Pop()
		require.True(t, ok)
		assert.Equal(t, want, got)
		f.Done()
	}

	_, ok := f.Pop()
	assert.False(t, ok, "empty frontier with nothing in flight is drained")
	assert.True(t, f.Closed())
}

func TestFrontierClose(t *testing.T) {
	f := NewFrontier()
	f.Push("a")
	f.Close()
	f.Close()

	_, ok := f.Pop()
	assert.False(t, ok)
	assert.False(t, f.Push("b"))
}

func TestFrontierPopWaitsForInFlightWork(t *testing.T) {
	f := NewFrontier()
	f.Push("seed")
	seed, ok := f.Pop()
	require.True(t, ok)
	assert.Equal(t, 1, f.InFlight())

	got := make(chan string, 1)
	go func() {
		u, ok := f.Pop()
		if !ok {
			u = "<drained>"
		}
		got <- u
	}()

	select {
	case u := <-got:
		t.Fatalf("Pop returned %q while %q was still in flight", u, seed)
	case <-time.After(50 * time.Millisecond):
	}

	f.Push("child")
	f.Done()
	assert.Equal(t, "child", <-got)
}

func TestFrontierWakesWaitersWhenDrained(t *testing.T) {
	f := NewFrontier()
	f.Push("only")
	_, ok := f.Pop()
	require.True(t, ok)

	const waiters = 4
	var wg sync.WaitGroup
	results := make(chan bool, waiters)
	for i := 0; i < waiters; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, ok := f.Pop()
			results <- ok
		}()
	}

	time.Sleep(20 * time.Millisecond)
	f.Done()
	wg.Wait()
	close(results)
	for ok := range results {
		assert.False(t, ok)
	}
}

func TestFrontierConcurrentPopsAreUnique(t *testing.T) {
	const n = 1000
	f := NewFrontier()
	for i := 0; i < n; i++ {
		f.Push(fmt.Sprintf("u%d", i))
	}

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
		wg   sync.WaitGroup
	)
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				u, ok := f.Pop()
				if !ok {
					return
				}
				mu.Lock()
				seen[u]++
				mu.Unlock()
				f.Done()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, n)
	for u, count := range seen {
		assert.Equal(t, 1, count, u)
	}
}
