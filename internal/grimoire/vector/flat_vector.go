package vector

import (
	"encoding/binary"
	"io"

	"github.com/marisago/marisa/common/exceptions"
)

// FlatVector is an array of unsigned integers bit-packed to the minimum
// width needed to hold the largest value given at Build time.
type FlatVector struct {
	units     []uint64
	valueSize uint64
	mask      uint64
	size      uint64
}

func NewFlatVector() *FlatVector {
	return &FlatVector{}
}

// BuildFromValues packs values into the minimum bit width that fits the
// largest one (at least 1 bit, so zero-only vectors still round-trip).
func BuildFromValues(values []uint64) *FlatVector {
	var max uint64
	for _, v := range values {
		if v > max {
			max = v
		}
	}
	width := bitWidth(max)
	if width == 0 {
		width = 1
	}
	fv := &FlatVector{
		valueSize: uint64(width),
		mask:      (uint64(1) << width) - 1,
		size:      uint64(len(values)),
	}
	fv.units = make([]uint64, (fv.size*fv.valueSize+63)/64+1)
	for i, v := range values {
		fv.set(i, v)
	}
	return fv
}

func bitWidth(v uint64) int {
	w := 0
	for v > 0 {
		w++
		v >>= 1
	}
	return w
}

func (fv *FlatVector) Size() int      { return int(fv.size) }
func (fv *FlatVector) ValueSize() int { return int(fv.valueSize) }
func (fv *FlatVector) Empty() bool    { return fv.size == 0 }

func (fv *FlatVector) set(i int, v uint64) {
	pos := uint64(i) * fv.valueSize
	wordIdx := pos / 64
	bitOff := pos % 64
	fv.units[wordIdx] |= (v & fv.mask) << bitOff
	if bitOff+fv.valueSize > 64 {
		fv.units[wordIdx+1] |= (v & fv.mask) >> (64 - bitOff)
	}
}

// Get returns the i-th packed value.
func (fv *FlatVector) Get(i int) uint64 {
	pos := uint64(i) * fv.valueSize
	wordIdx := pos / 64
	bitOff := pos % 64
	v := fv.units[wordIdx] >> bitOff
	if bitOff+fv.valueSize > 64 {
		v |= fv.units[wordIdx+1] << (64 - bitOff)
	}
	return v & fv.mask
}

func (fv *FlatVector) TotalSize() int {
	return len(fv.units) * 8
}

func (fv *FlatVector) IOSize() int64 {
	unitsV := FromSlice(fv.units)
	return unitsV.IOSize() + 24
}

// WriteTo serializes: Vector<u64> units; u64 value_size; u64 mask; u64 size.
func (fv *FlatVector) WriteTo(w io.Writer) (int64, error) {
	var written int64
	n, err := FromSlice(fv.units).WriteTo(w)
	written += n
	if err != nil {
		return written, err
	}
	var tail [24]byte
	binary.LittleEndian.PutUint64(tail[0:8], fv.valueSize)
	binary.LittleEndian.PutUint64(tail[8:16], fv.mask)
	binary.LittleEndian.PutUint64(tail[16:24], fv.size)
	nn, err := w.Write(tail[:])
	written += int64(nn)
	return written, err
}

func (fv *FlatVector) ReadFrom(r io.Reader) (int64, error) {
	var read int64
	units := New[uint64]()
	n, err := units.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	fv.units = units.Slice()

	var tail [24]byte
	if _, err := io.ReadFull(r, tail[:]); err != nil {
		return read, exceptions.Cause(exceptions.KindInvalidFormat, err, "flatvector: read trailer")
	}
	read += 24
	fv.valueSize = binary.LittleEndian.Uint64(tail[0:8])
	fv.mask = binary.LittleEndian.Uint64(tail[8:16])
	fv.size = binary.LittleEndian.Uint64(tail[16:24])

	return read, fv.validate()
}

// MapFlatVector decodes a FlatVector out of src; its units are copied into
// their own allocation.
func MapFlatVector(src []byte) (*FlatVector, int64, error) {
	var consumed int64
	unitsV, n, err := Map[uint64](src)
	if err != nil {
		return nil, 0, err
	}
	consumed += n

	if int64(len(src))-consumed < 24 {
		return nil, 0, exceptions.New(exceptions.KindInvalidFormat, "flatvector: truncated trailer")
	}
	fv := &FlatVector{
		units:     unitsV.Slice(),
		valueSize: binary.LittleEndian.Uint64(src[consumed : consumed+8]),
		mask:      binary.LittleEndian.Uint64(src[consumed+8 : consumed+16]),
		size:      binary.LittleEndian.Uint64(src[consumed+16 : consumed+24]),
	}
	consumed += 24
	if err := fv.validate(); err != nil {
		return nil, 0, err
	}
	return fv, consumed, nil
}

// validate rejects value_size > 32, and checks the packed storage is
// large enough for size*value_size bits.
func (fv *FlatVector) validate() error {
	if fv.valueSize > 32 {
		return exceptions.New(exceptions.KindInvalidFormat, "flatvector: value_size exceeds 32 bits")
	}
	needed := (fv.size*fv.valueSize + 63) / 64
	if uint64(len(fv.units)) < needed {
		return exceptions.New(exceptions.KindInvalidFormat, "flatvector: unit count too small for size")
	}
	if fv.valueSize > 0 && fv.mask != (uint64(1)<<fv.valueSize)-1 {
		return exceptions.New(exceptions.KindInvalidFormat, "flatvector: mask does not match value_size")
	}
	return nil
}
