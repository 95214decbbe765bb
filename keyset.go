package marisa

import (
	"github.com/samber/lo"

	"github.com/marisago/marisa/common/exceptions"
)

// Keyset aggregates the keys a Trie is built from. It is write-once: once
// passed to New/Build it is only read, never mutated (spec's Non-goal on
// mutation after build starts here, not just at the trie level).
type Keyset struct {
	keys []Key
}

// NewKeyset returns an empty Keyset.
func NewKeyset() *Keyset {
	return &Keyset{}
}

// Add appends a key with the default weight (1.0) and an original id
// equal to its insertion index.
func (ks *Keyset) Add(key []byte) {
	ks.AddWeighted(key, defaultWeight)
}

// AddWeighted appends a key with an explicit weight.
func (ks *Keyset) AddWeighted(key []byte, weight float64) {
	ks.keys = append(ks.keys, Key{
		Bytes:      append([]byte{}, key...),
		Weight:     weight,
		OriginalID: len(ks.keys),
	})
}

func (ks *Keyset) Len() int { return len(ks.keys) }

func (ks *Keyset) Keys() []Key { return ks.keys }

// validate rejects empty keysets and duplicate keys (KindInvalidInput);
// it is the one place duplicate detection happens — the recursive trie
// builder treats an identical suffix reached from two different keys as
// legitimate tail sharing, not an error.
func (ks *Keyset) validate() error {
	if len(ks.keys) == 0 {
		return exceptions.New(exceptions.KindInvalidInput, "keyset: no keys")
	}
	dups := lo.FindDuplicatesBy(ks.keys, func(k Key) string { return string(k.Bytes) })
	if len(dups) > 0 {
		return exceptions.New(exceptions.KindInvalidInput, "keyset: duplicate key ", string(dups[0].Bytes))
	}
	return nil
}
