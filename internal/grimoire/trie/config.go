// Package trie implements one level of the recursively-nested LOUDS trie:
// the LOUDS bit-vector, terminal/link flags, per-node labels, the optional
// child trie, the tail table, and the cache accelerator.
package trie

import "github.com/marisago/marisa/common/exceptions"

// TailMode selects how a level's Tail stores shared suffixes.
type TailMode int

const (
	TailModeText TailMode = iota
	TailModeBinary
)

// NodeOrder selects how sibling children are ordered at build time.
type NodeOrder int

const (
	NodeOrderLabel NodeOrder = iota
	NodeOrderWeight
)

// CacheLevel selects the size of the per-trie accelerator table.
type CacheLevel int

const (
	CacheLevelTiny CacheLevel = iota
	CacheLevelSmall
	CacheLevelNormal
	CacheLevelLarge
	CacheLevelHuge
)

// bits returns log2 of the cache table size for a given level.
func (c CacheLevel) bits() uint {
	switch c {
	case CacheLevelTiny:
		return 8
	case CacheLevelSmall:
		return 12
	case CacheLevelNormal:
		return 16
	case CacheLevelLarge:
		return 18
	case CacheLevelHuge:
		return 21
	default:
		return 16
	}
}

// Config carries the build-time configuration that config_flags encodes on
// disk: num_tries, tail_mode, node_order, cache_level.
type Config struct {
	NumTries   int
	TailMode   TailMode
	NodeOrder  NodeOrder
	CacheLevel CacheLevel
}

// DefaultConfig returns num_tries=3, text tail mode, weight-ordered
// siblings, and a normal-size cache.
func DefaultConfig() Config {
	return Config{
		NumTries:   3,
		TailMode:   TailModeText,
		NodeOrder:  NodeOrderWeight,
		CacheLevel: CacheLevelNormal,
	}
}

// Validate checks num_tries is within [1,16].
func (c Config) Validate() error {
	if c.NumTries < 1 || c.NumTries > 16 {
		return exceptions.New(exceptions.KindInvalidInput, "trie: num_tries out of range [1,16]")
	}
	return nil
}

// Encode packs the configuration into the on-disk config_flags word.
func (c Config) Encode() uint32 {
	var flags uint32
	flags |= uint32(c.NumTries) & 0xFF
	flags |= uint32(c.TailMode) << 8
	flags |= uint32(c.NodeOrder) << 9
	flags |= uint32(c.CacheLevel) << 10
	return flags
}

// DecodeConfig reverses Encode.
func DecodeConfig(flags uint32) Config {
	return Config{
		NumTries:   int(flags & 0xFF),
		TailMode:   TailMode((flags >> 8) & 0x1),
		NodeOrder:  NodeOrder((flags >> 9) & 0x1),
		CacheLevel: CacheLevel((flags >> 10) & 0x7),
	}
}
