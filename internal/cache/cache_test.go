package cache

import (
	"slices"
	"strconv"
	"testing"
)

// has reports whether key is present without refreshing it.
func has[K comparable, V any](c *LRU[K, V], key K) bool {
	_, ok := c.Peek(key)
	return ok
}

func TestNewLRU(t *testing.T) {
	c := NewLRU[string, int](10)
	if c.Capacity() != 10 {
		t.Errorf("expected capacity 10, got %d", c.Capacity())
	}
	if c.Len() != 0 {
		t.Errorf("expected empty cache, got %d entries", c.Len())
	}

	if NewLRU[string, int](0).Capacity() != 1 {
		t.Error("expected capacity 0 to be raised to 1")
	}
}

func TestLRUGetAdd(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Add("key1", 42)

	val, ok := c.Get("key1")
	if !ok || val != 42 {
		t.Errorf("Get(key1) = %d, %v; want 42, true", val, ok)
	}
	if _, ok := c.Get("nonexistent"); ok {
		t.Error("expected nonexistent key to not exist")
	}
}

func TestLRUReplaceDoesNotEvict(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Add("a", 1)
	c.Add("b", 2)
	if n := c.Add("a", 10); n != 0 {
		t.Errorf("replacing a key evicted %d entries", n)
	}
	if v, _ := c.Peek("a"); v != 10 {
		t.Errorf("Peek(a) = %d, want 10", v)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
}

// =============================================================================
// Eviction order
// =============================================================================

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	// Access order A, B, A, C with capacity 2: C evicts B, not A.
	c := NewLRU[string, int](2)
	c.Add("A", 1)
	c.Add("B", 2)
	c.Get("A")
	if n := c.Add("C", 3); n != 1 {
		t.Fatalf("Add(C) evicted %d entries, want 1", n)
	}

	if has(c, "B") {
		t.Error("B should have been evicted")
	}
	if !has(c, "A") || !has(c, "C") {
		t.Errorf("expected A and C to remain, have %v", c.Keys())
	}
}

func TestLRUInsertionOrderTieBreak(t *testing.T) {
	c := NewLRU[int, int](3)
	for i := range 3 {
		c.Add(i, i)
	}
	c.Add(3, 3)
	if has(c, 0) {
		t.Error("oldest insertion 0 should have been evicted first")
	}
	c.Add(4, 4)
	if has(c, 1) {
		t.Error("next oldest insertion 1 should have been evicted second")
	}
}

func TestLRUPeekDoesNotTouch(t *testing.T) {
	c := NewLRU[string, int](2)
	c.Add("A", 1)
	c.Add("B", 2)
	c.Peek("A")
	c.Add("C", 3)
	if has(c, "A") {
		t.Error("Peek must not refresh recency; A should have been evicted")
	}
}

func TestLRUNeverExceedsCapacity(t *testing.T) {
	c := NewLRU[string, int](4)
	for i := range 100 {
		c.Add(strconv.Itoa(i%13), i)
		if i%3 == 0 {
			c.Get(strconv.Itoa(i % 7))
		}
		if c.Len() > 4 {
			t.Fatalf("Len() = %d after %d operations", c.Len(), i)
		}
	}
}

func TestLRUKeysOrder(t *testing.T) {
	c := NewLRU[string, int](4)
	c.Add("a", 1)
	c.Add("b", 2)
	c.Add("c", 3)
	c.Get("a")

	want := []string{"b", "c", "a"}
	if got := c.Keys(); !slices.Equal(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestLRUOnEvict(t *testing.T) {
	c := NewLRU[string, int](1)
	var evicted []string
	c.OnEvict(func(k string, v int) {
		evicted = append(evicted, k+"="+strconv.Itoa(v))
	})

	c.Add("a", 1)
	c.Add("b", 2)
	c.Remove("b")

	if !slices.Equal(evicted, []string{"a=1"}) {
		t.Errorf("evicted = %v, want [a=1]", evicted)
	}
}

// =============================================================================
// Removal
// =============================================================================

func TestLRURemove(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Add("key1", 42)

	if !c.Remove("key1") {
		t.Error("expected Remove to return true for existing key")
	}
	if has(c, "key1") {
		t.Error("expected key1 to be removed")
	}
	if c.Remove("nonexistent") {
		t.Error("expected Remove to return false for non-existing key")
	}
}

func TestLRURemoveFunc(t *testing.T) {
	c := NewLRU[int, int](10)
	for i := range 10 {
		c.Add(i, i)
	}

	n := c.RemoveFunc(func(k int) bool { return k%2 == 0 })
	if n != 5 {
		t.Errorf("RemoveFunc removed %d, want 5", n)
	}
	if c.Len() != 5 {
		t.Errorf("Len() = %d, want 5", c.Len())
	}
	if got := c.Keys(); !slices.Equal(got, []int{1, 3, 5, 7, 9}) {
		t.Errorf("Keys() = %v", got)
	}
}

func TestLRUClear(t *testing.T) {
	c := NewLRU[string, int](10)
	c.Add("key1", 1)
	c.Add("key2", 2)

	c.Clear()

	if c.Len() != 0 || len(c.Keys()) != 0 {
		t.Errorf("expected empty cache after clear, got %d entries", c.Len())
	}
	c.Add("key3", 3)
	if c.Len() != 1 {
		t.Errorf("cache unusable after Clear, Len() = %d", c.Len())
	}
}

// =============================================================================
// List internals
// =============================================================================

func TestLRUListMoveToFront(t *testing.T) {
	var l lruList[int]
	a := l.PushFront(1)
	l.PushFront(2)
	c := l.PushFront(3)

	l.MoveToFront(a)
	if l.head != a || l.Len() != 3 {
		t.Fatalf("head = %v, len = %d", l.head.key, l.Len())
	}
	if l.Back().key != 2 {
		t.Errorf("Back() = %d, want 2", l.Back().key)
	}

	l.Remove(c)
	l.Remove(a)
	if l.head.key != 2 || l.tail.key != 2 || l.Len() != 1 {
		t.Errorf("after removals head=%d tail=%d len=%d", l.head.key, l.tail.key, l.Len())
	}
}
