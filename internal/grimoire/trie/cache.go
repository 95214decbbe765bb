package trie

import (
	"io"

	"github.com/marisago/marisa/internal/grimoire/vector"
)

// CacheEntry is a 12-byte accelerator record: {parent, child, base, extra}.
// base, pad and extra double as bytes 0, 1 and 2-3 of a packed link word via
// Link/SetLink, but are kept as independent fields rather than union
// punning, while preserving the 12-byte wire layout (pad is written as 0).
type CacheEntry struct {
	parent uint32
	child  uint32
	base   uint8
	pad    uint8
	extra  uint16
}

func (c CacheEntry) Parent() uint32 { return c.parent }
func (c CacheEntry) Child() uint32  { return c.child }
func (c CacheEntry) Base() uint8    { return c.base }
func (c CacheEntry) Extra() uint16  { return c.extra }

func (c *CacheEntry) SetParent(v uint32) { c.parent = v }
func (c *CacheEntry) SetChild(v uint32)  { c.child = v }
func (c *CacheEntry) SetBase(v uint8)    { c.base = v }
func (c *CacheEntry) SetExtra(v uint16)  { c.extra = v }

// Link packs base, pad and extra into the second 32-bit word, mirroring the
// original's union-based `link()` accessor.
func (c CacheEntry) Link() uint32 {
	return uint32(c.base) | uint32(c.pad)<<8 | uint32(c.extra)<<16
}

func (c *CacheEntry) SetLink(v uint32) {
	c.base = uint8(v)
	c.pad = uint8(v >> 8)
	c.extra = uint16(v >> 16)
}

func (c CacheEntry) wire() vector.CacheEntryWire {
	return vector.CacheEntryWire{Parent: c.parent, Child: c.child, Base: c.base, Extra: c.extra}
}

func cacheEntryFromWire(w vector.CacheEntryWire) CacheEntry {
	return CacheEntry{parent: w.Parent, child: w.Child, base: w.Base, extra: w.Extra}
}

// Cache is a fixed-size hash table keyed by (parent node id, first label
// byte) used to short-circuit frequent descend transitions without walking
// the LOUDS bit-vector.
type Cache struct {
	entries []CacheEntry
	mask    uint32
}

// NewCache allocates an empty table sized for the given level.
func NewCache(level CacheLevel) *Cache {
	size := uint32(1) << level.bits()
	return &Cache{entries: make([]CacheEntry, size), mask: size - 1}
}

func (c *Cache) hash(parent uint32, label byte) uint32 {
	h := parent*2654435761 + uint32(label)
	return h & c.mask
}

// Lookup probes the table for (parent, label). The second return is false
// on a cache miss (including the all-zero sentinel slot, which can never
// be a real entry since node 0 has no incoming label).
func (c *Cache) Lookup(parent uint32, label byte) (CacheEntry, bool) {
	if c == nil || len(c.entries) == 0 {
		return CacheEntry{}, false
	}
	e := c.entries[c.hash(parent, label)]
	if e.parent == 0 && e.child == 0 && e.base == 0 {
		return CacheEntry{}, false
	}
	if e.parent != parent || e.base != label {
		return CacheEntry{}, false
	}
	return e, true
}

// Store records a resolved transition, overwriting whatever previously hashed there.
func (c *Cache) Store(parent, child uint32, label byte, extra uint16) {
	if c == nil || len(c.entries) == 0 {
		return
	}
	idx := c.hash(parent, label)
	c.entries[idx] = CacheEntry{parent: parent, child: child, base: label, extra: extra}
}

func (c *Cache) IOSize() int64 {
	return vector.FromSlice(c.wireSlice()).IOSize()
}

func (c *Cache) wireSlice() []vector.CacheEntryWire {
	wire := make([]vector.CacheEntryWire, len(c.entries))
	for i, e := range c.entries {
		wire[i] = e.wire()
	}
	return wire
}

func (c *Cache) WriteTo(w io.Writer) (int64, error) {
	return vector.FromSlice(c.wireSlice()).WriteTo(w)
}

func (c *Cache) ReadFrom(r io.Reader) (int64, error) {
	v := vector.New[vector.CacheEntryWire]()
	n, err := v.ReadFrom(r)
	if err != nil {
		return n, err
	}
	c.entries = make([]CacheEntry, v.Size())
	for i, w := range v.Slice() {
		c.entries[i] = cacheEntryFromWire(w)
	}
	c.mask = uint32(len(c.entries)) - 1
	return n, nil
}

func MapCache(src []byte) (*Cache, int64, error) {
	v, n, err := vector.Map[vector.CacheEntryWire](src)
	if err != nil {
		return nil, 0, err
	}
	c := &Cache{entries: make([]CacheEntry, v.Size())}
	for i, w := range v.Slice() {
		c.entries[i] = cacheEntryFromWire(w)
	}
	if len(c.entries) > 0 {
		c.mask = uint32(len(c.entries)) - 1
	}
	return c, n, nil
}
