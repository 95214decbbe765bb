package trie

import "testing"

func TestCacheStoreAndLookup(t *testing.T) {
	c := NewCache(CacheLevelTiny)
	c.Store(5, 9, 'x', 42)

	e, ok := c.Lookup(5, 'x')
	if !ok {
		t.Fatal("expected cache hit")
	}
	if e.Child() != 9 || e.Extra() != 42 {
		t.Fatalf("got child=%d extra=%d, want 9/42", e.Child(), e.Extra())
	}

	if _, ok := c.Lookup(5, 'y'); ok {
		t.Fatal("wrong label must miss")
	}
	if _, ok := c.Lookup(6, 'x'); ok {
		t.Fatal("wrong parent must miss")
	}
}

func TestCacheEmptySlotIsAMiss(t *testing.T) {
	c := NewCache(CacheLevelTiny)
	if _, ok := c.Lookup(0, 0); ok {
		t.Fatal("untouched slot must report a miss")
	}
}

func TestCacheLinkRoundTrip(t *testing.T) {
	var e CacheEntry
	e.SetLink(0x1234ABCD)
	if e.Base() != 0xCD {
		t.Fatalf("base = %#x, want 0xcd", e.Base())
	}
	if e.Extra() != 0x1234 {
		t.Fatalf("extra = %#x, want 0x1234", e.Extra())
	}
	if e.Link() != 0x1234ABCD {
		t.Fatalf("Link() round trip = %#x, want 0x1234abcd", e.Link())
	}
}

func TestCacheNilIsSafe(t *testing.T) {
	var c *Cache
	if _, ok := c.Lookup(1, 'a'); ok {
		t.Fatal("nil cache must always miss")
	}
	c.Store(1, 2, 'a', 0) // must not panic
}
