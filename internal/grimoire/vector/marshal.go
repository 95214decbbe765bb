package vector

import "encoding/binary"

// marshalElements encodes items little-endian into a freshly allocated byte
// slice. It is implemented as a type switch rather than unsafe slice
// reinterpretation so the on-disk format stays little-endian regardless of
// host byte order.
func marshalElements[T POD](items []T) []byte {
	switch v := any(items).(type) {
	case []uint8:
		return append([]byte(nil), v...)
	case []uint32:
		buf := make([]byte, 4*len(v))
		for i, x := range v {
			binary.LittleEndian.PutUint32(buf[i*4:], x)
		}
		return buf
	case []uint64:
		buf := make([]byte, 8*len(v))
		for i, x := range v {
			binary.LittleEndian.PutUint64(buf[i*8:], x)
		}
		return buf
	case []RankEntryWire:
		buf := make([]byte, 12*len(v))
		for i, e := range v {
			binary.LittleEndian.PutUint32(buf[i*12:], e.Abs)
			binary.LittleEndian.PutUint32(buf[i*12+4:], e.RelLo)
			binary.LittleEndian.PutUint32(buf[i*12+8:], e.RelHi)
		}
		return buf
	case []CacheEntryWire:
		buf := make([]byte, 12*len(v))
		for i, e := range v {
			binary.LittleEndian.PutUint32(buf[i*12:], e.Parent)
			binary.LittleEndian.PutUint32(buf[i*12+4:], e.Child)
			buf[i*12+8] = e.Base
			buf[i*12+9] = 0
			binary.LittleEndian.PutUint16(buf[i*12+10:], e.Extra)
		}
		return buf
	default:
		panic("vector: unsupported element type")
	}
}

func unmarshalElements[T POD](buf []byte, count int) []T {
	var zero T
	switch any(zero).(type) {
	case uint8:
		out := make([]byte, count)
		copy(out, buf)
		return any(out).([]T)
	case uint32:
		out := make([]uint32, count)
		for i := range out {
			out[i] = binary.LittleEndian.Uint32(buf[i*4:])
		}
		return any(out).([]T)
	case uint64:
		out := make([]uint64, count)
		for i := range out {
			out[i] = binary.LittleEndian.Uint64(buf[i*8:])
		}
		return any(out).([]T)
	case RankEntryWire:
		out := make([]RankEntryWire, count)
		for i := range out {
			out[i] = RankEntryWire{
				Abs:   binary.LittleEndian.Uint32(buf[i*12:]),
				RelLo: binary.LittleEndian.Uint32(buf[i*12+4:]),
				RelHi: binary.LittleEndian.Uint32(buf[i*12+8:]),
			}
		}
		return any(out).([]T)
	case CacheEntryWire:
		out := make([]CacheEntryWire, count)
		for i := range out {
			out[i] = CacheEntryWire{
				Parent: binary.LittleEndian.Uint32(buf[i*12:]),
				Child:  binary.LittleEndian.Uint32(buf[i*12+4:]),
				Base:   buf[i*12+8],
				Extra:  binary.LittleEndian.Uint16(buf[i*12+10:]),
			}
		}
		return any(out).([]T)
	default:
		panic("vector: unsupported element type")
	}
}
