package validatinator

import (
	"sync"
)

// SourceCache keeps expensive per-source data, such as a parsed request
// body, keyed by the address of the source. A source is read once no
// matter how many fields are looked up on it.
type SourceCache[S any, C any] struct {
	cache sync.Map // map[*S]*CacheEntry[C]
}

// CacheEntry holds the cached data for one source.
type CacheEntry[C any] struct {
	data  C
	mutex sync.RWMutex
}

func NewSourceCache[S any, C any]() *SourceCache[S, C] {
	return &SourceCache[S, C]{}
}

// GetOrCreate returns the entry of source, creating it with factory on
// first use. factory runs at most once per source even under concurrent
// access.
func (sc *SourceCache[S, C]) GetOrCreate(source *S, factory func() C) *CacheEntry[C] {
	if v, ok := sc.cache.Load(source); ok {
		return v.(*CacheEntry[C])
	}

	newEntry := &CacheEntry[C]{}
	// Hold the write lock before publishing so readers wait for factory.
	newEntry.mutex.Lock()

	actual, loaded := sc.cache.LoadOrStore(source, newEntry)
	if loaded {
		newEntry.mutex.Unlock()
		return actual.(*CacheEntry[C])
	}

	newEntry.data = factory()
	newEntry.mutex.Unlock()
	return newEntry
}

// Get returns the entry of source if one exists.
func (sc *SourceCache[S, C]) Get(source *S) (*CacheEntry[C], bool) {
	if v, ok := sc.cache.Load(source); ok {
		return v.(*CacheEntry[C]), true
	}
	return nil, false
}

// Delete drops the entry of source.
func (sc *SourceCache[S, C]) Delete(source *S) {
	sc.cache.Delete(source)
}

// GetData returns the cached data.
func (ce *CacheEntry[C]) GetData() C {
	ce.mutex.RLock()
	defer ce.mutex.RUnlock()
	return ce.data
}
