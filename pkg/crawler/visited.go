package crawler

import (
	"sort"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const visitedShards = 32

// VisitedSet holds the normalized URLs that have been processed. Entries are
// spread over independently locked shards so that workers marking different
// URLs rarely contend.
type VisitedSet struct {
	shards [visitedShards]visitedShard
}

type visitedShard struct {
	mu   sync.RWMutex
	urls map[string]struct{}
}

// NewVisitedSet returns an empty set.
func NewVisitedSet() *VisitedSet {
	v := &VisitedSet{}
	for i := range v.shards {
		v.shards[i].urls = make(map[string]struct{})
	}
	return v
}

func (v *VisitedSet) shard(url string) *visitedShard {
	return &v.shards[xxhash.Sum64String(url)%visitedShards]
}

// Add inserts url and reports whether it was absent.
func (v *VisitedSet) Add(url string) bool {
	s := v.shard(url)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.urls[url]; ok {
		return false
	}
	s.urls[url] = struct{}{}
	return true
}

// Contains reports whether url has been added.
func (v *VisitedSet) Contains(url string) bool {
	s := v.shard(url)
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.urls[url]
	return ok
}

// Len returns the number of entries.
func (v *VisitedSet) Len() int {
	n := 0
	for i := range v.shards {
		s := &v.shards[i]
		s.mu.RLock()
		n += len(s.urls)
		s.mu.RUnlock()
	}
	return n
}

// Snapshot returns the entries in sorted order.
func (v *VisitedSet) Snapshot() []string {
	urls := make([]string, 0, v.Len())
	for i := range v.shards {
		s := &v.shards[i]
		s.mu.RLock()
		for u := range s.urls {
			urls = append(urls, u)
		}
		s.mu.RUnlock()
	}
	sort.Strings(urls)
	return urls
}
