package trie

import (
	"bytes"
	"io"
	"sort"

	"github.com/marisago/marisa/internal/grimoire/vector"
)

// Tail is the shared-suffix byte store. In text mode, suffixes are NUL
// terminated; in binary mode (used automatically when any suffix contains
// a zero byte) an end-bit vector marks each suffix's final byte instead.
type Tail struct {
	buf      []byte
	endFlags *vector.BitVector
	mode     TailMode
}

// NewTail returns an empty, unbuilt Tail.
func NewTail() *Tail {
	return &Tail{}
}

func (t *Tail) Mode() TailMode { return t.mode }
func (t *Tail) Empty() bool    { return len(t.buf) == 0 }

// entrySuffix carries a suffix and the original-position id it was
// submitted under, so BuildTail can report back offsets in input order.
type entrySuffix struct {
	bytes []byte
	id    int
}

// BuildTail detects text vs binary mode, sorts suffixes in
// reverse-lexicographic order, walks that order from the last entry back,
// and physically shares any suffix that is itself a suffix of the last
// suffix emitted in that walk. Returns the byte offset assigned to each
// input id.
func BuildTail(suffixes [][]byte) (*Tail, []uint32) {
	t := &Tail{mode: TailModeText}
	entries := make([]entrySuffix, len(suffixes))
	for i, s := range suffixes {
		entries[i] = entrySuffix{bytes: s, id: i}
		if bytes.IndexByte(s, 0) >= 0 {
			t.mode = TailModeBinary
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		return reverseLess(entries[i].bytes, entries[j].bytes)
	})

	offsets := make([]uint32, len(suffixes))
	if t.mode == TailModeBinary {
		t.endFlags = vector.NewBitVector()
	}

	var prev []byte
	var prevOffset uint32
	havePrev := false
	for k := len(entries) - 1; k >= 0; k-- {
		e := entries[k]
		if havePrev && isSuffixOf(e.bytes, prev) {
			offsets[e.id] = prevOffset + uint32(len(prev)-len(e.bytes))
		} else {
			offset := uint32(len(t.buf))
			t.buf = append(t.buf, e.bytes...)
			if t.mode == TailModeText {
				t.buf = append(t.buf, 0)
			} else {
				for range e.bytes[:len(e.bytes)-1] {
					t.endFlags.PushBack(false)
				}
				if len(e.bytes) > 0 {
					t.endFlags.PushBack(true)
				}
			}
			offsets[e.id] = offset
			prev = e.bytes
			prevOffset = offset
			havePrev = true
		}
	}
	if t.mode == TailModeBinary {
		_ = t.endFlags.Build(false, false)
	}
	return t, offsets
}

// reverseLess compares a and b as if each were reversed, i.e. from the tail
// end forward, so suffixes sharing an ending sort adjacently.
func reverseLess(a, b []byte) bool {
	la, lb := len(a), len(b)
	for i := 1; i <= la && i <= lb; i++ {
		ca, cb := a[la-i], b[lb-i]
		if ca != cb {
			return ca < cb
		}
	}
	return la < lb
}

func isSuffixOf(suffix, full []byte) bool {
	if len(suffix) > len(full) {
		return false
	}
	return bytes.Equal(full[len(full)-len(suffix):], suffix)
}

// FirstByte returns the first byte of the suffix stored at offset,
// without materializing the rest of it.
func (t *Tail) FirstByte(offset uint32) byte { return t.buf[offset] }

// Match attempts to match query[pos:] against the suffix stored at offset.
// It returns the number of query bytes consumed and whether the whole
// stored suffix was matched (i.e. this is a valid terminal match point).
func (t *Tail) Match(query []byte, pos int, offset uint32) (consumed int, ok bool) {
	i := int(offset)
	for {
		if pos+consumed >= len(query) {
			if t.mode == TailModeText {
				return consumed, i < len(t.buf) && t.buf[i] == 0
			}
			return consumed, i > 0 && t.endFlags.Get(i-1)
		}
		if i >= len(t.buf) {
			return consumed, false
		}
		if t.mode == TailModeText && t.buf[i] == 0 {
			return consumed, true
		}
		if query[pos+consumed] != t.buf[i] {
			return consumed, false
		}
		endOfSuffix := t.mode == TailModeBinary && t.endFlags.Get(i)
		consumed++
		i++
		if endOfSuffix {
			return consumed, true
		}
	}
}

// Reconstruct returns the full suffix bytes stored at offset, for use by
// reverse-lookup.
func (t *Tail) Reconstruct(offset uint32) []byte {
	i := int(offset)
	var out []byte
	for i < len(t.buf) {
		if t.mode == TailModeText && t.buf[i] == 0 {
			break
		}
		out = append(out, t.buf[i])
		isEnd := t.mode == TailModeBinary && t.endFlags.Get(i)
		i++
		if isEnd {
			break
		}
	}
	return out
}

func (t *Tail) IOSize() int64 {
	bufV := vector.FromSlice(t.buf)
	endFlags := t.endFlags
	if endFlags == nil {
		endFlags = vector.NewBitVector()
		_ = endFlags.Build(false, false)
	}
	return bufV.IOSize() + endFlags.IOSize()
}

// WriteTo serializes: Vector<u8> buf; BitVector end_flags. Mode is implied
// by end_flags.size() (0 == text, >0 == binary).
func (t *Tail) WriteTo(w io.Writer) (int64, error) {
	var written int64
	n, err := vector.FromSlice(t.buf).WriteTo(w)
	written += n
	if err != nil {
		return written, err
	}
	endFlags := t.endFlags
	if endFlags == nil {
		endFlags = vector.NewBitVector()
		_ = endFlags.Build(false, false)
	}
	n, err = endFlags.WriteTo(w)
	written += n
	return written, err
}

func (t *Tail) ReadFrom(r io.Reader) (int64, error) {
	var read int64
	bufV := vector.New[uint8]()
	n, err := bufV.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	t.buf = bufV.Slice()

	endFlags := &vector.BitVector{}
	n, err = endFlags.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	if endFlags.Size() > 0 {
		t.mode = TailModeBinary
		t.endFlags = endFlags
	} else {
		t.mode = TailModeText
		t.endFlags = nil
	}
	return read, nil
}

func MapTail(src []byte) (*Tail, int64, error) {
	var consumed int64
	bufV, n, err := vector.Map[uint8](src)
	if err != nil {
		return nil, 0, err
	}
	consumed += n

	endFlags, n, err := vector.MapBitVector(src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	consumed += n

	t := &Tail{buf: bufV.Slice()}
	if endFlags.Size() > 0 {
		t.mode = TailModeBinary
		t.endFlags = endFlags
	} else {
		t.mode = TailModeText
	}
	return t, consumed, nil
}
