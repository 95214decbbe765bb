package vector

// rankBlockBits is the number of bits summarized by one RankIndex entry:
// eight 64-bit words. abs is the popcount of every bit before the block;
// rel1..rel7 are popcounts of the first seven of the block's eight words,
// relative to abs, letting rank1 resolve any position in O(1) with one
// table lookup plus one popcount of the final partial word.
const rankBlockBits = 512
const rankBlockWords = rankBlockBits / 64

// RankIndex packs one absolute rank and seven relative ranks for a 512-bit
// block into three 32-bit words (12 bytes on disk); see DESIGN.md for why
// this departs from a naive 256-bit/9-byte layout.
type RankIndex struct {
	abs   uint32
	relLo uint32
	relHi uint32
}

func (r *RankIndex) SetAbs(v uint32) { r.abs = v }
func (r RankIndex) Abs() uint32      { return r.abs }

func (r *RankIndex) SetRel1(v uint32) { r.relLo = (r.relLo &^ 0x7F) | (v & 0x7F) }
func (r RankIndex) Rel1() uint32      { return r.relLo & 0x7F }

func (r *RankIndex) SetRel2(v uint32) { r.relLo = (r.relLo &^ (0xFF << 7)) | ((v & 0xFF) << 7) }
func (r RankIndex) Rel2() uint32      { return (r.relLo >> 7) & 0xFF }

func (r *RankIndex) SetRel3(v uint32) { r.relLo = (r.relLo &^ (0xFF << 15)) | ((v & 0xFF) << 15) }
func (r RankIndex) Rel3() uint32      { return (r.relLo >> 15) & 0xFF }

func (r *RankIndex) SetRel4(v uint32) { r.relLo = (r.relLo &^ (0x1FF << 23)) | ((v & 0x1FF) << 23) }
func (r RankIndex) Rel4() uint32      { return (r.relLo >> 23) & 0x1FF }

func (r *RankIndex) SetRel5(v uint32) { r.relHi = (r.relHi &^ 0x1FF) | (v & 0x1FF) }
func (r RankIndex) Rel5() uint32      { return r.relHi & 0x1FF }

func (r *RankIndex) SetRel6(v uint32) { r.relHi = (r.relHi &^ (0x1FF << 9)) | ((v & 0x1FF) << 9) }
func (r RankIndex) Rel6() uint32      { return (r.relHi >> 9) & 0x1FF }

func (r *RankIndex) SetRel7(v uint32) { r.relHi = (r.relHi &^ (0x1FF << 18)) | ((v & 0x1FF) << 18) }
func (r RankIndex) Rel7() uint32      { return (r.relHi >> 18) & 0x1FF }

// Rel returns the i-th (1-indexed, i in [1,7]) relative rank.
func (r RankIndex) Rel(i int) uint32 {
	switch i {
	case 1:
		return r.Rel1()
	case 2:
		return r.Rel2()
	case 3:
		return r.Rel3()
	case 4:
		return r.Rel4()
	case 5:
		return r.Rel5()
	case 6:
		return r.Rel6()
	case 7:
		return r.Rel7()
	default:
		panic("vector: rel index out of range")
	}
}

func (r *RankIndex) SetRel(i int, v uint32) {
	switch i {
	case 1:
		r.SetRel1(v)
	case 2:
		r.SetRel2(v)
	case 3:
		r.SetRel3(v)
	case 4:
		r.SetRel4(v)
	case 5:
		r.SetRel5(v)
	case 6:
		r.SetRel6(v)
	case 7:
		r.SetRel7(v)
	default:
		panic("vector: rel index out of range")
	}
}

func (r RankIndex) wire() RankEntryWire {
	return RankEntryWire{Abs: r.abs, RelLo: r.relLo, RelHi: r.relHi}
}

func rankIndexFromWire(w RankEntryWire) RankIndex {
	return RankIndex{abs: w.Abs, relLo: w.RelLo, relHi: w.RelHi}
}
