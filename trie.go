package marisa

import (
	"bytes"
	"os"

	cuckoo "github.com/seiflotfy/cuckoofilter"

	"github.com/marisago/marisa/common"
	"github.com/marisago/marisa/common/exceptions"
	"github.com/marisago/marisa/common/log"
	gio "github.com/marisago/marisa/internal/grimoire/io"
	internaltrie "github.com/marisago/marisa/internal/grimoire/trie"
)

var logger = log.NewLogger("marisa")

// Option configures a Trie at build time.
type Option func(*internaltrie.Config)

// WithNumTries caps how deeply tail-suffixes recurse into child tries
// before falling back to the shared Tail table; valid range is [1,16].
func WithNumTries(n int) Option {
	return func(c *internaltrie.Config) { c.NumTries = n }
}

// WithTailMode records a tail mode in the dictionary's config flags. Build
// does not consult it: each Tail is binary when one of its suffixes
// contains a NUL byte and text otherwise.
func WithTailMode(mode internaltrie.TailMode) Option {
	return func(c *internaltrie.Config) { c.TailMode = mode }
}

// WithNodeOrder selects sibling ordering: by label byte (deterministic,
// cache-agnostic) or by descending subtree weight (favors frequently
// queried keys during cache population).
func WithNodeOrder(order internaltrie.NodeOrder) Option {
	return func(c *internaltrie.Config) { c.NodeOrder = order }
}

// WithCacheLevel sizes the per-level accelerator table.
func WithCacheLevel(level internaltrie.CacheLevel) Option {
	return func(c *internaltrie.Config) { c.CacheLevel = level }
}

// Trie is the public dictionary facade: it owns the top-level recursive
// LoudsTrie plus, optionally, a negative-membership pre-filter and the
// mmap region backing a loaded-by-reference dictionary.
type Trie struct {
	root      *internaltrie.LoudsTrie
	numKeys   int
	config    internaltrie.Config
	filter    *cuckoo.Filter
	useFilter bool
	mapper    *gio.Mapper
}

// New builds a Trie from ks. ks must be non-empty and free of duplicate
// keys; New rejects both with KindInvalidInput.
func New(ks *Keyset, opts ...Option) (*Trie, error) {
	if err := ks.validate(); err != nil {
		return nil, err
	}
	cfg := internaltrie.DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	inputs := make([]internaltrie.BuildInput, ks.Len())
	for i, k := range ks.keys {
		inputs[i] = internaltrie.BuildInput{Bytes: k.Bytes, Weight: k.Weight}
	}
	root, _, err := internaltrie.Build(inputs, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debugf("built trie: %d keys, %d nodes", root.NumKeys(), root.TotalNodes())
	return &Trie{root: root, numKeys: root.NumKeys(), config: cfg}, nil
}

// WithNegativeFilter attaches a cuckoo filter pre-populated from ks,
// letting Lookup reject most absent keys without ever touching the
// trie's bit vectors. It only helps Lookup; the other three searches
// gain nothing from a membership filter and ignore it.
func WithNegativeFilter(t *Trie, ks *Keyset) *Trie {
	capacity := uint(ks.Len())
	if capacity < 1 {
		capacity = 1
	}
	filter := cuckoo.NewFilter(capacity)
	for _, k := range ks.keys {
		filter.InsertUnique(k.Bytes)
	}
	t.filter = filter
	t.useFilter = true
	return t
}

func (t *Trie) NumKeys() int  { return t.numKeys }
func (t *Trie) NumNodes() int { return t.root.TotalNodes() }
func (t *Trie) IOSize() int64 { return 16 + t.root.IOSize() + gio.ChecksumSize }

// Lookup reports whether key is present and, if so, its canonical id.
func (t *Trie) Lookup(key []byte) (int, bool) {
	if t.useFilter && !t.filter.Lookup(key) {
		return 0, false
	}
	return t.root.Lookup(key)
}

// ReverseLookup resolves a canonical key id back to its original bytes.
func (t *Trie) ReverseLookup(id int) ([]byte, error) {
	if id < 0 || id >= t.numKeys {
		return nil, exceptions.New(exceptions.KindOutOfRange, "trie: key id out of range")
	}
	return t.root.ReconstructKey(id), nil
}

// CommonPrefixSearch returns every key that is a prefix of query.
func (t *Trie) CommonPrefixSearch(query []byte) []internaltrie.PrefixMatch {
	return t.root.CommonPrefixSearch(query)
}

// PredictiveSearch returns a resumable iterator over every key starting
// with prefix, or ok=false if none exist.
func (t *Trie) PredictiveSearch(prefix []byte) (*internaltrie.SubtreeIter, bool) {
	return t.root.PredictiveSearch(prefix)
}

// NewAgent returns a fresh search cursor bound to t.
func (t *Trie) NewAgent() *Agent { return NewAgent(t) }

// Save writes t to path in the framed binary format described by
// SPEC_FULL.md: magic header, the trie's own length-prefixed blobs, and
// a trailing BLAKE3 checksum.
func (t *Trie) Save(path string) error {
	var buf bytes.Buffer
	w := gio.NewWriter(&buf)
	if err := w.WriteBlob(t.root.WriteTo); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := common.WriteFile(path, buf.Bytes()); err != nil {
		return exceptions.Cause(exceptions.KindIO, err, "trie: write ", path)
	}
	return nil
}

// Load reads a Trie previously written by Save, copying its bytes into
// memory.
func Load(path string) (*Trie, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, exceptions.Cause(exceptions.KindIO, err, "trie: open ", path)
	}
	defer f.Close()
	r, err := gio.NewReader(f)
	if err != nil {
		return nil, err
	}
	root := &internaltrie.LoudsTrie{}
	if _, err := root.ReadFrom(r.Blob()); err != nil {
		return nil, err
	}
	return &Trie{root: root, numKeys: root.NumKeys(), config: internaltrie.DefaultConfig()}, nil
}

// Mmap memory-maps a file previously written by Save, verifies it, and
// decodes the Trie out of the mapping; the decoded vectors are copies, not
// views of the mapping. The returned Trie must be closed before the
// process exits to release the mapping.
func Mmap(path string) (*Trie, error) {
	m, err := gio.MapFile(path)
	if err != nil {
		return nil, err
	}
	root, _, err := internaltrie.MapLoudsTrie(m.Body())
	if err != nil {
		m.Close()
		return nil, err
	}
	return &Trie{root: root, numKeys: root.NumKeys(), config: internaltrie.DefaultConfig(), mapper: m}, nil
}

// Close releases the mmap backing a Trie opened with Mmap. It is a no-op
// for a Trie built with New or loaded with Load. Slices this Trie returned
// (from ReverseLookup, PredictiveSearch, ...) do not alias the mapping,
// since Mmap decodes the trie into its own memory.
func (t *Trie) Close() error {
	if t.mapper == nil {
		return nil
	}
	return t.mapper.Close()
}
