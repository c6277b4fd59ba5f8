// Package cache provides a strict least-recently-used map used as the
// storage layer of the page cache.
//
//	c := cache.NewLRU[string, int](2)
//	c.Add("a", 1)
//	c.Add("b", 2)
//	c.Get("a")    // "a" is now most recently used
//	c.Add("c", 3) // evicts "b"
//
// # Ordering
//
// Every Get and Add moves the key to the most recently used position.
// Eviction always removes the least recently used key. Keys added without
// an intervening access are ordered by insertion, so eviction is fully
// deterministic.
//
// # Thread Safety
//
// LRU is not safe for concurrent use. Callers serialize access, as the
// pagecache package does with a single mutex.
package cache
