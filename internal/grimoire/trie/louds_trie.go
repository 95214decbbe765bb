package trie

import (
	"bytes"
	"io"
	"sort"

	"github.com/marisago/marisa/common/exceptions"
	"github.com/marisago/marisa/internal/grimoire/vector"
)

// LoudsTrie is one recursion level of the engine: a LOUDS-encoded node
// tree plus, for any node whose subtree collapsed to a single remaining
// key (link_flags[n] = 1), a pointer into either a child LoudsTrie or a
// Tail where the rest of that key's bytes live.
//
// Node 0 is the virtual root. Node ids are assigned in level order by the
// position of their incoming edge's 1-bit in louds, so node ids double
// as positions in that 1-bit enumeration; this is what lets child/parent
// be computed from louds alone via rank and select.
//
// For a plain node, bases[n] is the literal edge byte from its parent.
// For a link node, bases[n] instead holds the low 8 bits of a link id;
// the high bits live in extras.Get(rank1(link_flags, n)). The link id is
// a key id into next (if non-nil) or a byte offset into tail (if next is
// nil). label(n) resolves either form into the actual edge bytes;
// outside Build, only label, linkVal and firstLabelByte read bases[n]
// directly. extras is a
// FlatVector rather than a plain fixed-width array: link ids rarely need
// the full 24 high bits a byte/FlatVector split budgets for, and
// FlatVector packs to the width the actual build data needs.
type LoudsTrie struct {
	louds         *vector.BitVector
	terminalFlags *vector.BitVector
	linkFlags     *vector.BitVector
	bases         []byte
	extras        *vector.FlatVector
	tail          *Tail
	next          *LoudsTrie
	cache         *Cache
	config        Config
}

// BuildInput is one key fed into Build, in caller-supplied order.
type BuildInput struct {
	Bytes  []byte
	Weight float64
}

// buildKey tracks a key's remaining unmatched suffix during the BFS
// build, plus which BuildInput it came from so the caller can recover
// each input's assigned canonical key id afterward.
type buildKey struct {
	bytes  []byte
	weight float64
	input  int
}

// Build constructs a LoudsTrie (and, recursively, every trie and tail it
// links to) from inputs, honoring cfg's node-order, tail-mode, and
// num_tries settings. It returns, for each element of inputs, the
// canonical key id assigned to it — duplicate byte strings are not
// rejected here (two inputs that produce identical bytes legitimately
// share one terminal node and one key id); caller-facing duplicate
// rejection belongs to the keyset layer, not this recursive core.
func Build(inputs []BuildInput, cfg Config) (*LoudsTrie, []int, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	keys := make([]buildKey, len(inputs))
	for i, in := range inputs {
		keys[i] = buildKey{bytes: in.Bytes, weight: in.Weight, input: i}
	}
	return buildLevel(keys, cfg, 0)
}

type queueItem struct {
	keys   []buildKey
	pos    int
	nodeID int
}

func buildLevel(keys []buildKey, cfg Config, level int) (*LoudsTrie, []int, error) {
	sorted := make([]buildKey, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return bytes.Compare(sorted[i].bytes, sorted[j].bytes) < 0
	})

	louds := vector.NewBitVector()
	var terminalBits []bool
	var linkBits []bool
	var basesArr []byte
	termInputs := map[int][]int{}

	type linkRecord struct {
		nodeID int
		suffix []byte
		weight float64
		input  int
	}
	var links []linkRecord

	queue := []queueItem{{keys: sorted, pos: 0, nodeID: 0}}
	// Pre-create node 0 (root)'s slots; its block is pushed when it is
	// dequeued, same as every other node.
	terminalBits = append(terminalBits, false)
	linkBits = append(linkBits, false)
	basesArr = append(basesArr, 0)

	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]
		id := item.nodeID

		ks := item.keys
		i, n := 0, len(ks)
		for i < n && item.pos == len(ks[i].bytes) {
			termInputs[id] = append(termInputs[id], ks[i].input)
			i++
		}
		terminalBits[id] = len(termInputs[id]) > 0

		type group struct {
			b      byte
			keys   []buildKey
			weight float64
		}
		var groups []group
		for i < n {
			b := ks[i].bytes[item.pos]
			j := i
			var w float64
			for j < n && ks[j].bytes[item.pos] == b {
				w += ks[j].weight
				j++
			}
			groups = append(groups, group{b: b, keys: ks[i:j], weight: w})
			i = j
		}
		if cfg.NodeOrder == NodeOrderWeight {
			sort.SliceStable(groups, func(a, c int) bool {
				if groups[a].weight != groups[c].weight {
					return groups[a].weight > groups[c].weight
				}
				return groups[a].b < groups[c].b
			})
		}

		for _, g := range groups {
			childID := len(terminalBits)
			terminalBits = append(terminalBits, false)
			linkBits = append(linkBits, false)
			basesArr = append(basesArr, g.b)

			if len(g.keys) == 1 && len(g.keys[0].bytes) > item.pos+1 {
				// The whole remaining run, including g.b, becomes the link's
				// suffix: bases[childID] is about to be overwritten with the
				// link id's low byte, so g.b must live on inside the suffix
				// itself or label() would lose it on reconstruction.
				suffix := append([]byte{}, g.keys[0].bytes[item.pos:]...)
				linkBits[childID] = true
				terminalBits[childID] = true
				termInputs[childID] = append(termInputs[childID], g.keys[0].input)
				links = append(links, linkRecord{
					nodeID: childID,
					suffix: suffix,
					weight: g.keys[0].weight,
					input:  g.keys[0].input,
				})
				// Enqueued with no keys so the link node still gets its
				// empty LOUDS block at the position matching its node id.
				queue = append(queue, queueItem{pos: item.pos + 1, nodeID: childID})
			} else {
				queue = append(queue, queueItem{keys: g.keys, pos: item.pos + 1, nodeID: childID})
			}
		}

		for range groups {
			louds.PushBack(true)
		}
		louds.PushBack(false)
	}

	if err := louds.Build(true, true); err != nil {
		return nil, nil, err
	}

	terminal := vector.NewBitVector()
	for _, bit := range terminalBits {
		terminal.PushBack(bit)
	}
	if err := terminal.Build(false, true); err != nil {
		return nil, nil, err
	}

	link := vector.NewBitVector()
	for _, bit := range linkBits {
		link.PushBack(bit)
	}
	if err := link.Build(false, false); err != nil {
		return nil, nil, err
	}

	t := &LoudsTrie{
		louds:         louds,
		terminalFlags: terminal,
		linkFlags:     link,
		bases:         basesArr,
		config:        cfg,
	}

	keyIDbyInput := make([]int, len(keys))
	keyID := 0
	for id, bit := range terminalBits {
		if !bit {
			continue
		}
		for _, inp := range termInputs[id] {
			keyIDbyInput[inp] = keyID
		}
		keyID++
	}

	var extrasRaw []uint64
	if len(links) > 0 {
		if level+1 < cfg.NumTries {
			// The remaining bytes are reversed before landing in the
			// child trie's build batch, so the recursive level clusters
			// keys by common suffix the same way the Tail's
			// reverse-lexicographic sort does. label() un-reverses on
			// the way back out.
			linkInputs := make([]BuildInput, len(links))
			for j, lr := range links {
				linkInputs[j] = BuildInput{Bytes: reverseBytes(lr.suffix), Weight: lr.weight}
			}
			child, childKeyIDbyInput, err := buildLevel(toBuildKeys(linkInputs), cfg, level+1)
			if err != nil {
				return nil, nil, err
			}
			t.next = child
			for j, lr := range links {
				linkVal := uint32(childKeyIDbyInput[j])
				t.bases[lr.nodeID] = byte(linkVal)
				extrasRaw = append(extrasRaw, uint64(linkVal>>8))
			}
		} else {
			suffixes := make([][]byte, len(links))
			for j, lr := range links {
				suffixes[j] = lr.suffix
			}
			tail, offsets := BuildTail(suffixes)
			t.tail = tail
			for j, lr := range links {
				linkVal := offsets[j]
				t.bases[lr.nodeID] = byte(linkVal)
				extrasRaw = append(extrasRaw, uint64(linkVal>>8))
			}
		}
	}
	t.extras = vector.BuildFromValues(extrasRaw)

	t.cache = buildCache(t, cfg.CacheLevel)

	return t, keyIDbyInput, nil
}

func toBuildKeys(inputs []BuildInput) []buildKey {
	keys := make([]buildKey, len(inputs))
	for i, in := range inputs {
		keys[i] = buildKey{bytes: in.Bytes, weight: in.Weight, input: i}
	}
	return keys
}

// buildCache walks every edge once and records it, giving descend an O(1)
// fast path for the hottest (parent, label-byte) transitions.
func buildCache(t *LoudsTrie, level CacheLevel) *Cache {
	c := NewCache(level)
	numNodes := t.numNodes()
	for n := 0; n < numNodes; n++ {
		deg := t.degree(n)
		start := t.blockStart(n)
		for j := 0; j < deg; j++ {
			cid := t.louds.Rank1(start + j + 1)
			lbl := t.label(cid)
			if len(lbl) == 0 {
				continue
			}
			c.Store(uint32(n), uint32(cid), lbl[0], 0)
		}
	}
	return c
}

func (t *LoudsTrie) numNodes() int { return t.louds.NumZeros() }

// NumKeys returns the number of distinct keys stored in this level. A
// link-compressed key is counted too, since its link node carries the
// terminal flag at this level; the Trie facade reports root.NumKeys().
func (t *LoudsTrie) NumKeys() int { return t.terminalFlags.NumOnes() }

func (t *LoudsTrie) NumNodes() int { return t.numNodes() }

// TotalNodes sums node counts across this level and every level it links
// to, for reporting purposes.
func (t *LoudsTrie) TotalNodes() int {
	n := t.numNodes()
	if t.next != nil {
		n += t.next.TotalNodes()
	}
	return n
}

func (t *LoudsTrie) blockStart(n int) int {
	if n == 0 {
		return 0
	}
	return t.louds.Select0(n-1) + 1
}

func (t *LoudsTrie) blockEnd(n int) int { return t.louds.Select0(n) }

func (t *LoudsTrie) degree(n int) int { return t.blockEnd(n) - t.blockStart(n) }

// childID returns the node id of n's j-th (0-indexed) child.
func (t *LoudsTrie) childID(n, j int) int {
	pos := t.blockStart(n) + j
	return t.louds.Rank1(pos + 1)
}

// parentID returns n's parent's node id; n must not be the root.
func (t *LoudsTrie) parentID(n int) int {
	p := t.louds.Select1(n - 1)
	return t.louds.Rank0(p)
}

// linkVal reassembles n's link id from its low byte (bases[n]) and high
// bits (extras, indexed by n's rank among link-flagged nodes). n must be
// link-flagged.
func (t *LoudsTrie) linkVal(n int) uint32 {
	extraIdx := t.linkFlags.Rank1(n)
	return uint32(t.extras.Get(extraIdx))<<8 | uint32(t.bases[n])
}

// label returns the full edge bytes from n's parent to n.
func (t *LoudsTrie) label(n int) []byte {
	if !t.linkFlags.Get(n) {
		return t.bases[n : n+1]
	}
	v := t.linkVal(n)
	if t.next != nil {
		// The child trie was built from this label reversed (see
		// buildLevel), so the bytes it hands back must be un-reversed.
		return reverseBytes(t.next.reconstructKey(int(v)))
	}
	return t.tail.Reconstruct(v)
}

// reverseBytes returns a new slice with b's bytes in reverse order.
func reverseBytes(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

// nodeIDForKey returns the node whose terminal corresponds to canonical
// key id id.
func (t *LoudsTrie) nodeIDForKey(id int) int { return t.terminalFlags.Select1(id) }

// KeyID returns the canonical key id assigned to node n, which must be
// terminal.
func (t *LoudsTrie) KeyID(n int) int { return t.terminalFlags.Rank1(n+1) - 1 }

// reconstructKey rebuilds the full byte string for canonical key id id by
// walking from its terminal node up to the root, resolving each edge's
// label (recursing through child tries/tails as needed) along the way.
func (t *LoudsTrie) reconstructKey(id int) []byte {
	n := t.nodeIDForKey(id)
	var parts [][]byte
	for n != 0 {
		parts = append(parts, t.label(n))
		n = t.parentID(n)
	}
	var out []byte
	for i := len(parts) - 1; i >= 0; i-- {
		out = append(out, parts[i]...)
	}
	return out
}

// ReconstructKey is reconstructKey exported for the root Trie facade's
// ReverseLookup.
func (t *LoudsTrie) ReconstructKey(id int) []byte { return t.reconstructKey(id) }

// firstLabelByte returns n's first edge byte without necessarily
// materializing the rest of its label; for a tail-resolved link node
// this reads straight out of the Tail buffer instead of reconstructing.
func (t *LoudsTrie) firstLabelByte(n int) byte {
	if !t.linkFlags.Get(n) {
		return t.bases[n]
	}
	if t.next != nil {
		lbl := t.label(n)
		if len(lbl) == 0 {
			return 0
		}
		return lbl[0]
	}
	return t.tail.FirstByte(t.linkVal(n))
}

// matchFull requires n's entire edge label to match query[pos:] exactly
// as a substring and reports how many query bytes it consumed. For a
// tail-resolved link node this runs Tail.Match directly against query,
// the fast path that skips materializing the full suffix via
// Reconstruct and comparing it with bytes.Equal.
func (t *LoudsTrie) matchFull(n int, query []byte, pos int) (consumed int, ok bool) {
	if t.linkFlags.Get(n) && t.next == nil {
		return t.tail.Match(query, pos, t.linkVal(n))
	}
	lbl := t.label(n)
	if len(lbl) == 0 || pos+len(lbl) > len(query) || !bytes.Equal(query[pos:pos+len(lbl)], lbl) {
		return 0, false
	}
	return len(lbl), true
}

// descend tries to consume query[pos:] by one edge out of n, requiring
// the chosen child's full label to be available and to match exactly.
// Used by Lookup and CommonPrefixSearch, where a key's entire remaining
// label must match a substring of the query.
func (t *LoudsTrie) descend(n int, query []byte, pos int) (child, consumed int, ok bool) {
	if pos >= len(query) {
		return 0, 0, false
	}
	b := query[pos]
	if e, hit := t.cache.Lookup(uint32(n), b); hit {
		cid := int(e.Child())
		if c, ok := t.matchFull(cid, query, pos); ok {
			return cid, c, true
		}
		return 0, 0, false
	}
	deg := t.degree(n)
	start := t.blockStart(n)
	for j := 0; j < deg; j++ {
		cid := t.louds.Rank1(start + j + 1)
		if t.firstLabelByte(cid) != b {
			continue
		}
		c, ok := t.matchFull(cid, query, pos)
		if !ok {
			return 0, 0, false
		}
		return cid, c, true
	}
	return 0, 0, false
}

// descendPredictive is descend's counterpart for PredictiveSearch, where
// the query (a prefix) may run out in the middle of a multi-byte label;
// full reports whether the whole label was consumed.
func (t *LoudsTrie) descendPredictive(n int, prefix []byte, pos int) (child, consumed int, full, ok bool) {
	if pos >= len(prefix) {
		return 0, 0, false, false
	}
	b := prefix[pos]
	deg := t.degree(n)
	start := t.blockStart(n)
	for j := 0; j < deg; j++ {
		cid := t.louds.Rank1(start + j + 1)
		lbl := t.label(cid)
		if len(lbl) == 0 || lbl[0] != b {
			continue
		}
		avail := len(prefix) - pos
		m := len(lbl)
		if m > avail {
			m = avail
		}
		if !bytes.Equal(prefix[pos:pos+m], lbl[:m]) {
			return 0, 0, false, false
		}
		return cid, m, m == len(lbl), true
	}
	return 0, 0, false, false
}

// Lookup returns the canonical key id exactly matching query, if any.
func (t *LoudsTrie) Lookup(query []byte) (int, bool) {
	n, pos := 0, 0
	for pos < len(query) {
		child, consumed, ok := t.descend(n, query, pos)
		if !ok {
			return 0, false
		}
		n, pos = child, pos+consumed
	}
	if !t.terminalFlags.Get(n) {
		return 0, false
	}
	return t.KeyID(n), true
}

// PrefixMatch is one hit from CommonPrefixSearch: a key that is a prefix
// of the query, and how many query bytes it covers.
type PrefixMatch struct {
	Length int
	KeyID  int
}

// CommonPrefixSearch returns every key that is a prefix of query, in
// ascending length order.
func (t *LoudsTrie) CommonPrefixSearch(query []byte) []PrefixMatch {
	var results []PrefixMatch
	n, pos := 0, 0
	for {
		if t.terminalFlags.Get(n) {
			results = append(results, PrefixMatch{Length: pos, KeyID: t.KeyID(n)})
		}
		if pos == len(query) {
			break
		}
		child, consumed, ok := t.descend(n, query, pos)
		if !ok {
			break
		}
		n, pos = child, pos+consumed
	}
	return results
}

// PredictiveSearch locates the subtree of every key starting with
// prefix and returns a resumable iterator over it, or ok=false if no key
// has that prefix.
func (t *LoudsTrie) PredictiveSearch(prefix []byte) (*SubtreeIter, bool) {
	n, pos := 0, 0
	acc := prefix
	for pos < len(prefix) {
		child, consumed, full, ok := t.descendPredictive(n, prefix, pos)
		if !ok {
			return nil, false
		}
		if !full {
			// prefix ended inside child's label: its key bytes are the
			// path so far plus the whole label, not the prefix itself.
			acc = append(append([]byte{}, prefix[:pos]...), t.label(child)...)
		}
		n, pos = child, pos+consumed
		if !full {
			break
		}
	}
	return t.newSubtreeIter(n, acc), true
}

// SubtreeIter enumerates every key in a subtree in level order (FIFO), so
// matches surface in strictly increasing key-id order and a caller (the
// Agent) can pull one match at a time and stop whenever it likes.
type SubtreeIter struct {
	t     *LoudsTrie
	queue []iterFrame
}

type iterFrame struct {
	node int
	acc  []byte
}

func (t *LoudsTrie) newSubtreeIter(root int, prefix []byte) *SubtreeIter {
	return &SubtreeIter{
		t:     t,
		queue: []iterFrame{{node: root, acc: append([]byte{}, prefix...)}},
	}
}

// Next returns the next (key id, full key bytes) pair, or ok=false once
// the subtree is exhausted. Each dequeued node has its children enqueued
// before its own terminal status is reported, so the FIFO visits nodes
// in the same level-order, ascending-node-id sequence build assigned
// them in, matching the ascending key-id order required of
// predictive-search results.
func (it *SubtreeIter) Next() (id int, key []byte, ok bool) {
	for len(it.queue) > 0 {
		front := it.queue[0]
		it.queue = it.queue[1:]

		deg := it.t.degree(front.node)
		start := it.t.blockStart(front.node)
		for j := 0; j < deg; j++ {
			cid := it.t.louds.Rank1(start + j + 1)
			lbl := it.t.label(cid)
			childAcc := make([]byte, 0, len(front.acc)+len(lbl))
			childAcc = append(childAcc, front.acc...)
			childAcc = append(childAcc, lbl...)
			it.queue = append(it.queue, iterFrame{node: cid, acc: childAcc})
		}

		if it.t.terminalFlags.Get(front.node) {
			return it.t.KeyID(front.node), front.acc, true
		}
	}
	return 0, nil, false
}

func (t *LoudsTrie) IOSize() int64 {
	size := t.louds.IOSize() + t.terminalFlags.IOSize() + t.linkFlags.IOSize()
	size += vector.FromSlice(t.bases).IOSize()
	size += t.extras.IOSize()
	size += 1 + 4 // presence-flags byte, config_flags
	if t.tail != nil {
		size += t.tail.IOSize()
	}
	if t.cache != nil {
		size += t.cache.IOSize()
	}
	if t.next != nil {
		size += t.next.IOSize()
	}
	return size
}

const (
	flagHasTail  = 1 << 0
	flagHasNext  = 1 << 1
	flagHasCache = 1 << 2
)

// WriteTo serializes this level and, recursively, every level it links
// to: louds, terminal_flags, link_flags, bases, extras, a presence-flags
// byte, tail (if present), cache (if present), config_flags, and finally
// next_trie (if present).
func (t *LoudsTrie) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for _, part := range []io.WriterTo{t.louds, t.terminalFlags, t.linkFlags, vector.FromSlice(t.bases), t.extras} {
		n, err := part.WriteTo(w)
		written += n
		if err != nil {
			return written, err
		}
	}

	var flags byte
	if t.tail != nil {
		flags |= flagHasTail
	}
	if t.next != nil {
		flags |= flagHasNext
	}
	if t.cache != nil {
		flags |= flagHasCache
	}
	n, err := w.Write([]byte{flags})
	written += int64(n)
	if err != nil {
		return written, err
	}

	if t.tail != nil {
		n64, err := t.tail.WriteTo(w)
		written += n64
		if err != nil {
			return written, err
		}
	}
	if t.cache != nil {
		n64, err := t.cache.WriteTo(w)
		written += n64
		if err != nil {
			return written, err
		}
	}

	var cfgBuf [4]byte
	flagsWord := t.config.Encode()
	cfgBuf[0] = byte(flagsWord)
	cfgBuf[1] = byte(flagsWord >> 8)
	cfgBuf[2] = byte(flagsWord >> 16)
	cfgBuf[3] = byte(flagsWord >> 24)
	n, err = w.Write(cfgBuf[:])
	written += int64(n)
	if err != nil {
		return written, err
	}

	if t.next != nil {
		n64, err := t.next.WriteTo(w)
		written += n64
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ReadFrom deserializes a LoudsTrie previously written by WriteTo.
func (t *LoudsTrie) ReadFrom(r io.Reader) (int64, error) {
	var read int64

	t.louds = &vector.BitVector{}
	n, err := t.louds.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	t.terminalFlags = &vector.BitVector{}
	n, err = t.terminalFlags.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	t.linkFlags = &vector.BitVector{}
	n, err = t.linkFlags.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	basesV := vector.New[uint8]()
	n, err = basesV.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	t.bases = basesV.Slice()
	t.extras = vector.NewFlatVector()
	n, err = t.extras.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}

	var flagByte [1]byte
	if _, err := io.ReadFull(r, flagByte[:]); err != nil {
		return read, exceptions.Cause(exceptions.KindInvalidFormat, err, "trie: read presence flags")
	}
	read++
	flags := flagByte[0]

	if flags&flagHasTail != 0 {
		t.tail = &Tail{}
		n64, err := t.tail.ReadFrom(r)
		read += n64
		if err != nil {
			return read, err
		}
	}
	if flags&flagHasCache != 0 {
		t.cache = &Cache{}
		n64, err := t.cache.ReadFrom(r)
		read += n64
		if err != nil {
			return read, err
		}
	}

	var cfgBuf [4]byte
	if _, err := io.ReadFull(r, cfgBuf[:]); err != nil {
		return read, exceptions.Cause(exceptions.KindInvalidFormat, err, "trie: read config_flags")
	}
	read += 4
	flagsWord := uint32(cfgBuf[0]) | uint32(cfgBuf[1])<<8 | uint32(cfgBuf[2])<<16 | uint32(cfgBuf[3])<<24
	t.config = DecodeConfig(flagsWord)

	if flags&flagHasNext != 0 {
		t.next = &LoudsTrie{}
		n64, err := t.next.ReadFrom(r)
		read += n64
		if err != nil {
			return read, err
		}
	}
	return read, nil
}

// MapLoudsTrie decodes a LoudsTrie out of mapped memory. Every vector is
// decoded into its own allocation, so the result does not alias src.
func MapLoudsTrie(src []byte) (*LoudsTrie, int64, error) {
	t := &LoudsTrie{}
	var consumed int64

	louds, n, err := vector.MapBitVector(src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	t.louds = louds
	consumed += n

	terminal, n, err := vector.MapBitVector(src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	t.terminalFlags = terminal
	consumed += n

	link, n, err := vector.MapBitVector(src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	t.linkFlags = link
	consumed += n

	basesV, n, err := vector.Map[uint8](src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	t.bases = basesV.Slice()
	consumed += n

	extras, n, err := vector.MapFlatVector(src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	t.extras = extras
	consumed += n

	if int(consumed) >= len(src) {
		return nil, 0, exceptions.New(exceptions.KindInvalidFormat, "trie: truncated presence flags")
	}
	flags := src[consumed]
	consumed++

	if flags&flagHasTail != 0 {
		tail, n, err := MapTail(src[consumed:])
		if err != nil {
			return nil, 0, err
		}
		t.tail = tail
		consumed += n
	}
	if flags&flagHasCache != 0 {
		cache, n, err := MapCache(src[consumed:])
		if err != nil {
			return nil, 0, err
		}
		t.cache = cache
		consumed += n
	}

	if len(src)-int(consumed) < 4 {
		return nil, 0, exceptions.New(exceptions.KindInvalidFormat, "trie: truncated config_flags")
	}
	flagsWord := uint32(src[consumed]) | uint32(src[consumed+1])<<8 | uint32(src[consumed+2])<<16 | uint32(src[consumed+3])<<24
	t.config = DecodeConfig(flagsWord)
	consumed += 4

	if flags&flagHasNext != 0 {
		next, n, err := MapLoudsTrie(src[consumed:])
		if err != nil {
			return nil, 0, err
		}
		t.next = next
		consumed += n
	}

	return t, consumed, nil
}
