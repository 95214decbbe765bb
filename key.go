// Package marisa implements a static, read-mostly dictionary engine built
// on a recursively-nested LOUDS trie with tail-suffix sharing: lookup,
// reverse-lookup, common-prefix-search and predictive-search all run in
// time proportional to the query length, independent of the number of
// keys stored.
package marisa

// Key is one entry of a Keyset: its bytes, an optional weight used by
// NodeOrderWeight construction and cache population, and the id the
// caller associates with it (returned unchanged by ReverseLookup-style
// callers that need to correlate results back to their own records).
type Key struct {
	Bytes      []byte
	Weight     float64
	OriginalID int
}

// defaultWeight is assigned to a Key added without an explicit weight.
const defaultWeight = 1.0
