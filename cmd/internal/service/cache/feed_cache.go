package cache

import (
	"sync"

	"coursehub/cmd/internal/contract"
)

type pageKey struct {
	Page int
	Size int
}

// FeedCache holds generic (non-personalized) feed pages keyed by
// (page, size). Invalidation policy is a full flush on any content,
// like or comment write: O(1) eviction at the cost of a cache-miss
// storm after each write.
type FeedCache struct {
	mu    sync.RWMutex
	pages map[pageKey]*contract.FeedResponse
}

func NewFeedCache() *FeedCache {
	return &FeedCache{pages: make(map[pageKey]*contract.FeedResponse)}
}

func (f *FeedCache) Get(page, size int) (*contract.FeedResponse, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	resp, ok := f.pages[pageKey{Page: page, Size: size}]
	return resp, ok
}

func (f *FeedCache) Put(page, size int, resp *contract.FeedResponse) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pages[pageKey{Page: page, Size: size}] = resp
}

func (f *FeedCache) Flush() {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.pages = make(map[pageKey]*contract.FeedResponse)
}

// Len reports the number of cached pages, for tests and diagnostics.
func (f *FeedCache) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return len(f.pages)
}
