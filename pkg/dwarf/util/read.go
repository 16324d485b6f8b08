// Package util contains the bounds-checked readers every DWARF decoder in
// this module is built on.
//
// All readers take a byte slice and an offset and return the number of bytes
// consumed. A return of 0 means the read could not make progress (short or
// malformed input) and the caller must stop processing the current record.
// DWARF on the supported architectures is little-endian, so all fixed-width
// reads are little-endian.
package util

// Format is the DWARF offset width of a unit.
type Format uint8

const (
	Format32 Format = iota
	Format64
)

// OffsetSize returns the size in bytes of section offsets in this format.
func (f Format) OffsetSize() int {
	if f == Format64 {
		return 8
	}
	return 4
}

func (f Format) String() string {
	if f == Format64 {
		return "DWARF64"
	}
	return "DWARF32"
}

// Dwarf64Escape is the 32-bit unit length value announcing a 64-bit length.
const Dwarf64Escape = 0xffffffff

// ReadUint reads a little-endian unsigned integer of size bytes (1..8).
func ReadUint(data []byte, off uint64, size int, out *uint64) int {
	if size <= 0 || size > 8 {
		return 0
	}
	if off > uint64(len(data)) || uint64(len(data))-off < uint64(size) {
		return 0
	}
	var v uint64
	for i := size - 1; i >= 0; i-- {
		v = v<<8 | uint64(data[off+uint64(i)])
	}
	if out != nil {
		*out = v
	}
	return size
}

// ReadSint reads a little-endian integer of size bytes and sign extends it.
func ReadSint(data []byte, off uint64, size int, out *int64) int {
	var v uint64
	n := ReadUint(data, off, size, &v)
	if n == 0 {
		return 0
	}
	if out != nil {
		*out = int64(SignExtend(v, size))
	}
	return n
}

func ReadU8(data []byte, off uint64, out *uint8) int {
	var v uint64
	n := ReadUint(data, off, 1, &v)
	if n != 0 && out != nil {
		*out = uint8(v)
	}
	return n
}

func ReadU16(data []byte, off uint64, out *uint16) int {
	var v uint64
	n := ReadUint(data, off, 2, &v)
	if n != 0 && out != nil {
		*out = uint16(v)
	}
	return n
}

func ReadU32(data []byte, off uint64, out *uint32) int {
	var v uint64
	n := ReadUint(data, off, 4, &v)
	if n != 0 && out != nil {
		*out = uint32(v)
	}
	return n
}

func ReadU64(data []byte, off uint64, out *uint64) int {
	return ReadUint(data, off, 8, out)
}

// SignExtend treats the low size bytes of v as a two's complement value.
func SignExtend(v uint64, size int) uint64 {
	if size <= 0 || size >= 8 {
		return v
	}
	shift := uint(64 - size*8)
	return uint64(int64(v<<shift) >> shift)
}

// ReadULEB128 decodes an unsigned LEB128 value starting at off.
//
// Bits beyond 64 are discarded, the encoding is still consumed in full.
func ReadULEB128(data []byte, off uint64, out *uint64) int {
	var (
		result uint64
		shift  uint
		i      = off
	)
	for {
		if i >= uint64(len(data)) {
			return 0
		}
		b := data[i]
		i++
		if shift < 64 {
			result |= uint64(b&0x7f) << shift
		}
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if out != nil {
		*out = result
	}
	return int(i - off)
}

// ReadSLEB128 decodes a signed LEB128 value starting at off.
func ReadSLEB128(data []byte, off uint64, out *int64) int {
	var (
		result int64
		shift  uint
		b      byte
		i      = off
	)
	for {
		if i >= uint64(len(data)) {
			return 0
		}
		b = data[i]
		i++
		if shift < 64 {
			result |= int64(b&0x7f) << shift
		}
		shift += 7
		if b&0x80 == 0 {
			break
		}
	}
	if shift < 64 && b&0x40 != 0 {
		result |= -1 << shift
	}
	if out != nil {
		*out = result
	}
	return int(i - off)
}

// ReadCString reads a NUL terminated string. The terminator is counted in
// the returned size but not included in out.
func ReadCString(data []byte, off uint64, out *string) int {
	if off >= uint64(len(data)) {
		return 0
	}
	for i := off; i < uint64(len(data)); i++ {
		if data[i] == 0 {
			if out != nil {
				*out = string(data[off:i])
			}
			return int(i - off + 1)
		}
	}
	return 0
}

// ReadUnitLength reads an initial length field, following the DWARF64
// escape when present.
func ReadUnitLength(data []byte, off uint64, length *uint64, format *Format) int {
	var first uint32
	if ReadU32(data, off, &first) == 0 {
		return 0
	}
	if first != Dwarf64Escape {
		if length != nil {
			*length = uint64(first)
		}
		if format != nil {
			*format = Format32
		}
		return 4
	}
	var l uint64
	if ReadU64(data, off+4, &l) == 0 {
		return 0
	}
	if length != nil {
		*length = l
	}
	if format != nil {
		*format = Format64
	}
	return 12
}

// ReadOffset reads a section offset whose width depends on format.
func ReadOffset(data []byte, off uint64, format Format, out *uint64) int {
	return ReadUint(data, off, format.OffsetSize(), out)
}

// Slice returns size bytes at off without copying. Unlike the readers above
// it reports success separately, an empty block is valid.
func Slice(data []byte, off uint64, size uint64) ([]byte, bool) {
	if off > uint64(len(data)) || uint64(len(data))-off < size {
		return nil, false
	}
	return data[off : off+size : off+size], true
}

// Substr clamps [lo, hi) to data.
func Substr(data []byte, lo, hi uint64) []byte {
	if hi > uint64(len(data)) {
		hi = uint64(len(data))
	}
	if lo > hi {
		lo = hi
	}
	return data[lo:hi]
}
