package vector

import (
	"encoding/binary"
	"io"

	"github.com/marisago/marisa/common/exceptions"
)

// BitVector is a packed bit sequence with O(1) rank and O(log n) select,
// built once from push_back calls and frozen by Build.
type BitVector struct {
	units    []uint64
	size     int
	numOnes  int
	ranks    []RankIndex
	select0s []uint32
	select1s []uint32
	built    bool
}

// NewBitVector returns an empty, unbuilt BitVector.
func NewBitVector() *BitVector {
	return &BitVector{}
}

// PushBack appends a bit. Valid only before Build.
func (b *BitVector) PushBack(bit bool) {
	if b.built {
		panic("vector: PushBack after Build")
	}
	wordIdx := b.size / 64
	if wordIdx == len(b.units) {
		b.units = append(b.units, 0)
	}
	if bit {
		b.units[wordIdx] |= uint64(1) << uint(b.size%64)
		b.numOnes++
	}
	b.size++
}

func (b *BitVector) Size() int    { return b.size }
func (b *BitVector) NumOnes() int { return b.numOnes }
func (b *BitVector) NumZeros() int {
	return b.size - b.numOnes
}
func (b *BitVector) Empty() bool { return b.size == 0 }

// Get returns the bit at position i.
func (b *BitVector) Get(i int) bool {
	if i < 0 || i >= b.size {
		panic("vector: BitVector.Get index out of range")
	}
	return b.units[i/64]&(uint64(1)<<uint(i%64)) != 0
}

// Build computes the rank index and, if requested, the select0/select1
// samples. It must be called exactly once before rank/select queries.
func (b *BitVector) Build(enableSelect0, enableSelect1 bool) error {
	if b.built {
		return exceptions.New(exceptions.KindInvalidInput, "vector: BitVector already built")
	}
	numBlocks := (b.size + rankBlockBits - 1) / rankBlockBits
	b.ranks = make([]RankIndex, numBlocks+1)

	var select0s, select1s []uint32
	abs := uint32(0)
	for blk := 0; blk < numBlocks; blk++ {
		b.ranks[blk].SetAbs(abs)
		base := blk * rankBlockWords
		rel := uint32(0)
		for w := 0; w < rankBlockWords-1; w++ {
			wordIdx := base + w
			var word uint64
			if wordIdx < len(b.units) {
				word = b.units[wordIdx]
			}
			rel += uint32(PopCount64(word))
			b.ranks[blk].SetRel(w+1, rel)
		}
		blockOnes := rel
		if base+rankBlockWords-1 < len(b.units) {
			blockOnes += uint32(PopCount64(b.units[base+rankBlockWords-1]))
		}
		abs += blockOnes
	}
	b.ranks[numBlocks].SetAbs(abs)

	if enableSelect0 || enableSelect1 {
		onesSoFar, zerosSoFar := 0, 0
		for i := 0; i < b.size; i++ {
			if b.Get(i) {
				if enableSelect1 && onesSoFar%512 == 0 {
					select1s = append(select1s, uint32(i))
				}
				onesSoFar++
			} else {
				if enableSelect0 && zerosSoFar%512 == 0 {
					select0s = append(select0s, uint32(i))
				}
				zerosSoFar++
			}
		}
	}
	b.select0s = select0s
	b.select1s = select1s
	b.built = true
	return nil
}

// Rank1 returns the number of 1-bits in [0, i).
func (b *BitVector) Rank1(i int) int {
	if !b.built {
		panic("vector: BitVector.Rank1 before Build")
	}
	if i < 0 || i > b.size {
		panic("vector: BitVector.Rank1 index out of range")
	}
	blk := i / rankBlockBits
	entry := b.ranks[blk]

	offsetInBlock := i % rankBlockBits
	wordInBlock := offsetInBlock / 64
	rank := int(entry.Abs())
	if wordInBlock > 0 {
		rank += int(entry.Rel(wordInBlock))
	}

	wordIdx := blk*rankBlockWords + wordInBlock
	var word uint64
	if wordIdx < len(b.units) {
		word = b.units[wordIdx]
	}
	rank += PopCountMask64(word, uint(offsetInBlock%64))
	return rank
}

// Rank0 returns the number of 0-bits in [0, i).
func (b *BitVector) Rank0(i int) int {
	return i - b.Rank1(i)
}

// Select1 returns the position of the k-th (0-indexed) 1-bit.
func (b *BitVector) Select1(k int) int {
	if !b.built || b.select1s == nil {
		panic("vector: BitVector.Select1 requires Build(enableSelect1=true)")
	}
	return b.selectBit(k, true)
}

// Select0 returns the position of the k-th (0-indexed) 0-bit.
func (b *BitVector) Select0(k int) int {
	if !b.built || b.select0s == nil {
		panic("vector: BitVector.Select0 requires Build(enableSelect0=true)")
	}
	return b.selectBit(k, false)
}

// selectBit locates the k-th (0-indexed) bit of the requested value. The
// sample table gives the exact position of every 512th such bit; from
// there it scans forward word-by-word (using popcount to skip whole words)
// until the remaining count lands inside one word, then resolves the exact
// bit with SelectInWord64.
func (b *BitVector) selectBit(k int, one bool) int {
	samples := b.select0s
	if one {
		samples = b.select1s
	}
	sampleIdx := k / 512
	pos := int(samples[sampleIdx])
	target := k - sampleIdx*512

	wordIdx := pos / 64
	word := b.wordAt(wordIdx, one)
	// Skip bits before pos within the starting word.
	word &^= (uint64(1) << uint(pos%64)) - 1

	for {
		c := PopCount64(word)
		if target < c {
			return wordIdx*64 + SelectInWord64(word, target)
		}
		target -= c
		wordIdx++
		word = b.wordAt(wordIdx, one)
	}
}

// wordAt returns unit wordIdx, complemented when selecting zero-bits, with
// out-of-range words treated as zero (all-ones once complemented, which
// would incorrectly report padding bits as zeros — callers never advance
// past the last real 1/0 bit recorded by Build, so this is never reached
// for a well-formed select index).
func (b *BitVector) wordAt(wordIdx int, one bool) uint64 {
	var word uint64
	if wordIdx < len(b.units) {
		word = b.units[wordIdx]
	}
	if !one {
		word = ^word
	}
	return word
}

func (b *BitVector) TotalSize() int {
	return len(b.units)*8 + len(b.ranks)*12 + len(b.select0s)*4 + len(b.select1s)*4
}

func (b *BitVector) IOSize() int64 {
	unitsV := FromSlice(b.units)
	ranksWire := make([]RankEntryWire, len(b.ranks))
	for i, r := range b.ranks {
		ranksWire[i] = r.wire()
	}
	ranksV := FromSlice(ranksWire)
	sel0V := FromSlice(b.select0s)
	sel1V := FromSlice(b.select1s)
	return unitsV.IOSize() + 16 + ranksV.IOSize() + sel0V.IOSize() + sel1V.IOSize()
}

// WriteTo serializes: Vector<u64> units; u64 size; u64 num_ones;
// Vector<RankEntry> ranks; Vector<u32> select0s; Vector<u32> select1s.
func (b *BitVector) WriteTo(w io.Writer) (int64, error) {
	var written int64

	n, err := FromSlice(b.units).WriteTo(w)
	written += n
	if err != nil {
		return written, err
	}

	var sizeBuf [16]byte
	binary.LittleEndian.PutUint64(sizeBuf[0:8], uint64(b.size))
	binary.LittleEndian.PutUint64(sizeBuf[8:16], uint64(b.numOnes))
	nn, err := w.Write(sizeBuf[:])
	written += int64(nn)
	if err != nil {
		return written, err
	}

	ranksWire := make([]RankEntryWire, len(b.ranks))
	for i, r := range b.ranks {
		ranksWire[i] = r.wire()
	}
	n, err = FromSlice(ranksWire).WriteTo(w)
	written += n
	if err != nil {
		return written, err
	}

	n, err = FromSlice(b.select0s).WriteTo(w)
	written += n
	if err != nil {
		return written, err
	}
	n, err = FromSlice(b.select1s).WriteTo(w)
	written += n
	if err != nil {
		return written, err
	}
	return written, nil
}

func (b *BitVector) ReadFrom(r io.Reader) (int64, error) {
	var read int64

	units := New[uint64]()
	n, err := units.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	b.units = units.Slice()

	var sizeBuf [16]byte
	if _, err := io.ReadFull(r, sizeBuf[:]); err != nil {
		return read, exceptions.Cause(exceptions.KindInvalidFormat, err, "bitvector: read size/num_ones")
	}
	read += 16
	b.size = int(binary.LittleEndian.Uint64(sizeBuf[0:8]))
	b.numOnes = int(binary.LittleEndian.Uint64(sizeBuf[8:16]))

	ranksWireV := New[RankEntryWire]()
	n, err = ranksWireV.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	b.ranks = make([]RankIndex, ranksWireV.Size())
	for i, w := range ranksWireV.Slice() {
		b.ranks[i] = rankIndexFromWire(w)
	}

	sel0 := New[uint32]()
	n, err = sel0.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	b.select0s = sel0.Slice()

	sel1 := New[uint32]()
	n, err = sel1.ReadFrom(r)
	read += n
	if err != nil {
		return read, err
	}
	b.select1s = sel1.Slice()

	if err := b.validate(); err != nil {
		return read, err
	}
	b.built = true
	return read, nil
}

// MapBitVector decodes a BitVector out of src; its units, rank index and
// select samples are copied into their own allocations.
func MapBitVector(src []byte) (*BitVector, int64, error) {
	var consumed int64
	b := &BitVector{}

	unitsV, n, err := Map[uint64](src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	consumed += n
	b.units = unitsV.Slice()

	if int64(len(src))-consumed < 16 {
		return nil, 0, exceptions.New(exceptions.KindInvalidFormat, "bitvector: truncated size/num_ones")
	}
	b.size = int(binary.LittleEndian.Uint64(src[consumed : consumed+8]))
	b.numOnes = int(binary.LittleEndian.Uint64(src[consumed+8 : consumed+16]))
	consumed += 16

	ranksWireV, n, err := Map[RankEntryWire](src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	consumed += n
	b.ranks = make([]RankIndex, ranksWireV.Size())
	for i, w := range ranksWireV.Slice() {
		b.ranks[i] = rankIndexFromWire(w)
	}

	sel0V, n, err := Map[uint32](src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	consumed += n
	b.select0s = sel0V.Slice()

	sel1V, n, err := Map[uint32](src[consumed:])
	if err != nil {
		return nil, 0, err
	}
	consumed += n
	b.select1s = sel1V.Slice()

	if err := b.validate(); err != nil {
		return nil, 0, err
	}
	b.built = true
	return b, consumed, nil
}

// validate rejects internally inconsistent vectors: the rank index's
// total must match num_ones, and unit count must cover size bits.
func (b *BitVector) validate() error {
	expectedUnits := (b.size + 63) / 64
	if len(b.units) < expectedUnits {
		return exceptions.New(exceptions.KindInvalidFormat, "bitvector: unit count too small for size")
	}
	if len(b.ranks) == 0 && b.size > 0 {
		return exceptions.New(exceptions.KindInvalidFormat, "bitvector: missing rank index")
	}
	if len(b.ranks) > 0 {
		total := int(b.ranks[len(b.ranks)-1].Abs())
		if total != b.numOnes {
			return exceptions.New(exceptions.KindInvalidFormat, "bitvector: rank index total does not match num_ones")
		}
	}
	if b.numOnes > b.size {
		return exceptions.New(exceptions.KindInvalidFormat, "bitvector: num_ones exceeds size")
	}
	return nil
}
