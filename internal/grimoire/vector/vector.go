package vector

import (
	"encoding/binary"
	"io"
	"unsafe"

	"github.com/marisago/marisa/common/exceptions"
)

// POD is the set of element types Vector[T] supports. All of them have a
// fixed, architecture-independent on-disk size.
type POD interface {
	uint8 | uint32 | uint64 | RankEntryWire | CacheEntryWire
}

// RankEntryWire and CacheEntryWire are declared here (rather than in
// rank_index.go / the trie package) purely so Vector[T]'s POD constraint
// can name them without an import cycle; their real definitions live next
// to the code that interprets them.
type RankEntryWire struct {
	Abs   uint32
	RelLo uint32
	RelHi uint32
}

type CacheEntryWire struct {
	Parent uint32
	Child  uint32
	Base   uint8
	_      uint8
	Extra  uint16
}

func sizeOf[T POD]() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Vector is a contiguous, length-prefixed array of fixed-size elements. It
// is the one storage+I/O code path shared by every element type the engine
// persists (bytes, rank-index packed words, cache entries, ...).
type Vector[T POD] struct {
	items []T
	// mapped holds the source bytes a Map call decoded items from; mapped
	// is non-nil iff the Vector was produced by Map. items is always its
	// own allocation, never a view of mapped.
	mapped []byte
}

// New returns an empty Vector.
func New[T POD]() *Vector[T] {
	return &Vector[T]{}
}

// FromSlice wraps an existing owned slice without copying.
func FromSlice[T POD](items []T) *Vector[T] {
	return &Vector[T]{items: items}
}

func (v *Vector[T]) Size() int      { return len(v.items) }
func (v *Vector[T]) Empty() bool    { return len(v.items) == 0 }
func (v *Vector[T]) Get(i int) T    { return v.items[i] }
func (v *Vector[T]) Set(i int, x T) { v.items[i] = x }
func (v *Vector[T]) Slice() []T     { return v.items }

func (v *Vector[T]) PushBack(x T) {
	if v.mapped != nil {
		panic("vector: cannot mutate a mapped Vector")
	}
	v.items = append(v.items, x)
}

func (v *Vector[T]) Resize(n int, fill T) {
	if v.mapped != nil {
		panic("vector: cannot mutate a mapped Vector")
	}
	if n <= len(v.items) {
		v.items = v.items[:n]
		return
	}
	for len(v.items) < n {
		v.items = append(v.items, fill)
	}
}

func (v *Vector[T]) Clear() {
	v.items = nil
	v.mapped = nil
}

func (v *Vector[T]) Swap(other *Vector[T]) {
	v.items, other.items = other.items, v.items
	v.mapped, other.mapped = other.mapped, v.mapped
}

// TotalSize returns the in-memory footprint in bytes.
func (v *Vector[T]) TotalSize() int {
	return len(v.items) * sizeOf[T]()
}

// IOSize returns the number of bytes WriteTo will emit, including the
// length prefix and trailing padding to an 8-byte boundary.
func (v *Vector[T]) IOSize() int64 {
	payload := int64(len(v.items)) * int64(sizeOf[T]())
	return 8 + padTo8(payload)
}

func padTo8(n int64) int64 {
	if rem := n % 8; rem != 0 {
		return n + (8 - rem)
	}
	return n
}

// WriteTo serializes this Vector as a length-prefixed, 8-byte-padded blob:
// u64 element_count, element_count*sizeof(T) bytes, padding.
func (v *Vector[T]) WriteTo(w io.Writer) (int64, error) {
	var written int64
	var countBuf [8]byte
	binary.LittleEndian.PutUint64(countBuf[:], uint64(len(v.items)))
	n, err := w.Write(countBuf[:])
	written += int64(n)
	if err != nil {
		return written, err
	}

	payload := marshalElements(v.items)
	n, err = w.Write(payload)
	written += int64(n)
	if err != nil {
		return written, err
	}

	if pad := padTo8(int64(len(payload))) - int64(len(payload)); pad > 0 {
		n, err = w.Write(make([]byte, pad))
		written += int64(n)
		if err != nil {
			return written, err
		}
	}
	return written, nil
}

// ReadFrom deserializes a Vector previously written by WriteTo, copying the
// element bytes into a freshly allocated slice.
func (v *Vector[T]) ReadFrom(r io.Reader) (int64, error) {
	var countBuf [8]byte
	if _, err := io.ReadFull(r, countBuf[:]); err != nil {
		return 0, exceptions.Cause(exceptions.KindInvalidFormat, err, "vector: read element count")
	}
	count := binary.LittleEndian.Uint64(countBuf[:])
	read := int64(8)

	elemSize := int64(sizeOf[T]())
	payloadLen := int64(count) * elemSize
	padded := padTo8(payloadLen)
	buf := make([]byte, padded)
	if _, err := io.ReadFull(r, buf); err != nil {
		return read, exceptions.Cause(exceptions.KindInvalidFormat, err, "vector: read payload")
	}
	read += padded

	v.items = unmarshalElements[T](buf[:payloadLen], int(count))
	v.mapped = nil
	return read, nil
}

// Map decodes the elements at the start of src into a freshly allocated
// slice (the elements do not alias src), and returns the number of bytes
// consumed including the length prefix and padding.
func Map[T POD](src []byte) (*Vector[T], int64, error) {
	if len(src) < 8 {
		return nil, 0, exceptions.New(exceptions.KindInvalidFormat, "vector: truncated length prefix")
	}
	count := binary.LittleEndian.Uint64(src[:8])
	elemSize := int64(sizeOf[T]())
	payloadLen := int64(count) * elemSize
	padded := padTo8(payloadLen)
	if int64(len(src))-8 < padded {
		return nil, 0, exceptions.New(exceptions.KindInvalidFormat, "vector: truncated payload")
	}

	v := &Vector[T]{mapped: src[8 : 8+payloadLen]}
	v.items = unmarshalElements[T](v.mapped, int(count))
	return v, 8 + padded, nil
}
