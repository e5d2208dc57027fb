package cache

import "sync"

// Cache is a fixed-capacity LRU cache.
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*node[K, V]
	order    list[K, V]
	capacity int

	hits      uint64
	misses    uint64
	evictions uint64
}

// New returns a cache holding at most capacity entries.
// A capacity of 0 or less means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*node[K, V]),
		capacity: capacity,
	}
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.moveToFront(n)
	return n.value, true
}

// Set stores value under key, evicting the least recently used entry
// when the cache is full.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.set(key, value)
}

// GetOrCreate returns the cached value for key or stores the result of
// create. A create error is returned as is and nothing is stored.
// create runs under the cache lock.
func (c *Cache[K, V]) GetOrCreate(key K, create func() (V, error)) (V, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		c.hits++
		c.order.moveToFront(n)
		return n.value, nil
	}
	c.misses++
	v, err := create()
	if err != nil {
		return v, err
	}
	c.set(key, v)
	return v, nil
}

func (c *Cache[K, V]) set(key K, value V) {
	if n, ok := c.entries[key]; ok {
		n.value = value
		c.order.moveToFront(n)
		return
	}
	n := &node[K, V]{key: key, value: value}
	c.entries[key] = n
	c.order.pushFront(n)
	for c.capacity > 0 && c.order.len > c.capacity {
		old := c.order.removeOldest()
		delete(c.entries, old.key)
		c.evictions++
	}
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	n, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.unlink(n)
	delete(c.entries, key)
	return true
}

// Clear removes all entries. Statistics are kept.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[K]*node[K, V])
	c.order = list[K, V]{}
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Stats returns a snapshot of the cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// Stats contains cache statistics.
type Stats struct {
	Len       int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	// HitRate is Hits / (Hits + Misses), or 0 before the first lookup.
	HitRate float64
}
