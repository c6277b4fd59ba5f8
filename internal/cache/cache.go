package cache

// LRU is a bounded map evicting the least recently used key when an Add
// would exceed its capacity.
//
// LRU is not safe for concurrent use.
type LRU[K comparable, V any] struct {
	entries  map[K]*entry[K, V]
	order    lruList[K]
	capacity int
	onEvict  func(K, V)
}

// entry holds a value and its list node.
type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// NewLRU creates an LRU holding at most capacity entries.
// A capacity below 1 is treated as 1.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity < 1 {
		capacity = 1
	}
	return &LRU[K, V]{
		entries:  make(map[K]*entry[K, V], capacity),
		capacity: capacity,
	}
}

// OnEvict registers fn to be called with every entry removed to make room
// for a new one. Explicit Remove, RemoveFunc and Clear do not call it.
func (c *LRU[K, V]) OnEvict(fn func(K, V)) {
	c.onEvict = fn
}

// Get returns the value for key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.touch(e)
	return e.value, true
}

// Peek returns the value for key without changing its recency.
func (c *LRU[K, V]) Peek(key K) (V, bool) {
	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	return e.value, true
}

// Add stores value under key as the most recently used entry, replacing
// any previous value. It returns the number of entries evicted.
func (c *LRU[K, V]) Add(key K, value V) int {
	if e, ok := c.entries[key]; ok {
		e.value = value
		c.touch(e)
		return 0
	}

	evicted := 0
	for c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		old := c.entries[oldest.key]
		c.order.Remove(oldest)
		delete(c.entries, oldest.key)
		evicted++
		if c.onEvict != nil {
			c.onEvict(oldest.key, old.value)
		}
	}

	c.entries[key] = &entry[K, V]{
		value: value,
		node:  c.order.PushFront(key),
	}
	return evicted
}

// Remove deletes key and reports whether it was present.
func (c *LRU[K, V]) Remove(key K) bool {
	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.order.Remove(e.node)
	delete(c.entries, key)
	return true
}

// RemoveFunc deletes every key for which match returns true and returns
// how many were removed.
func (c *LRU[K, V]) RemoveFunc(match func(K) bool) int {
	n := 0
	for key, e := range c.entries {
		if match(key) {
			c.order.Remove(e.node)
			delete(c.entries, key)
			n++
		}
	}
	return n
}

// Clear removes all entries.
func (c *LRU[K, V]) Clear() {
	clear(c.entries)
	c.order.Clear()
}

// Len returns the number of entries.
func (c *LRU[K, V]) Len() int {
	return len(c.entries)
}

// Capacity returns the maximum number of entries.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Keys returns the keys from least to most recently used, which is the
// order in which they would be evicted.
func (c *LRU[K, V]) Keys() []K {
	keys := make([]K, 0, c.order.Len())
	for n := c.order.Back(); n != nil; n = n.prev {
		keys = append(keys, n.key)
	}
	return keys
}

func (c *LRU[K, V]) touch(e *entry[K, V]) {
	c.order.MoveToFront(e.node)
}
