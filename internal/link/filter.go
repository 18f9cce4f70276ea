package link

import (
	"sync"

	"github.com/bits-and-blooms/bloom/v3"
)

// SlugFilter is a thread-safe bloom filter over known slugs. During random
// slug acquisition a negative test proves the candidate is free without a
// repository round trip; a positive test may be a false positive and only
// means the repository must be consulted.
type SlugFilter struct {
	mu     sync.RWMutex
	filter *bloom.BloomFilter
}

// NewSlugFilter creates a filter sized for the expected number of slugs and
// the acceptable false positive rate.
func NewSlugFilter(capacity uint, fpRate float64) *SlugFilter {
	return &SlugFilter{
		filter: bloom.NewWithEstimates(capacity, fpRate),
	}
}

// Add records a slug as taken.
func (f *SlugFilter) Add(slug string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.filter.AddString(slug)
}

// MightContain reports whether the slug may be taken. False means the slug
// is definitely free.
func (f *SlugFilter) MightContain(slug string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.filter.TestString(slug)
}

// Seed loads a batch of existing slugs, typically at startup.
func (f *SlugFilter) Seed(slugs []string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, s := range slugs {
		f.filter.AddString(s)
	}
}
