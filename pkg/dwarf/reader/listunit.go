package reader

import (
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// ListUnit is one contribution to .debug_addr, .debug_str_offsets,
// .debug_rnglists or .debug_loclists. Indexed forms resolve through it.
type ListUnit struct {
	Kind    godwarf.SectionKind
	Offset  uint64
	Format  util.Format
	Version uint16

	AddrSize    uint8
	SegSelSize  uint8
	OffsetCount uint32

	// EntriesOffset is the section offset of the first entry, the value the
	// DW_AT_*_base attributes point at.
	EntriesOffset uint64
	entries       []byte
}

// ParseListUnit decodes the header at off.
func ParseListUnit(kind godwarf.SectionKind, data []byte, off uint64) (*ListUnit, error) {
	lu := &ListUnit{Kind: kind, Offset: off}
	var length uint64
	n := util.ReadUnitLength(data, off, &length, &lu.Format)
	if n == 0 {
		return nil, shortRead(kind.String()+" unit length", off)
	}
	cur := off + uint64(n)
	end := cur + length
	if end > uint64(len(data)) || end < cur {
		return nil, shortRead(kind.String()+" unit", off)
	}
	if util.ReadU16(data, cur, &lu.Version) == 0 {
		return nil, shortRead(kind.String()+" version", cur)
	}
	cur += 2

	switch kind {
	case godwarf.SectionStrOffsets:
		var pad uint16
		if util.ReadU16(data, cur, &pad) == 0 {
			return nil, shortRead("str_offsets padding", cur)
		}
		cur += 2
	case godwarf.SectionAddr, godwarf.SectionRngLists, godwarf.SectionLocLists:
		if util.ReadU8(data, cur, &lu.AddrSize) == 0 || util.ReadU8(data, cur+1, &lu.SegSelSize) == 0 {
			return nil, shortRead(kind.String()+" address size", cur)
		}
		cur += 2
		if kind != godwarf.SectionAddr {
			if util.ReadU32(data, cur, &lu.OffsetCount) == 0 {
				return nil, shortRead(kind.String()+" offset count", cur)
			}
			cur += 4
		}
	default:
		return nil, errors.Errorf("%s has no list unit header", kind)
	}
	if cur > end {
		return nil, shortRead(kind.String()+" header", off)
	}
	lu.EntriesOffset = cur
	lu.entries = data[cur:end]
	return lu, nil
}

// headerSize returns the size of a list unit header in the given format.
func headerSize(kind godwarf.SectionKind, format util.Format) uint64 {
	var size uint64
	switch kind {
	case godwarf.SectionAddr, godwarf.SectionStrOffsets:
		size = 8
	case godwarf.SectionRngLists, godwarf.SectionLocLists:
		size = 12
	}
	if format == util.Format64 {
		size += 8
	}
	return size
}

// HeaderOffset converts a DW_AT_*_base value, which points just past the
// header, back to the header offset. The format is probed by looking for
// the DWARF64 escape where a 64-bit header would start.
func HeaderOffset(kind godwarf.SectionKind, data []byte, base uint64) (uint64, bool) {
	if long := headerSize(kind, util.Format64); base >= long {
		var first uint32
		if util.ReadU32(data, base-long, &first) != 0 && first == util.Dwarf64Escape {
			return base - long, true
		}
	}
	short := headerSize(kind, util.Format32)
	if short == 0 || base < short {
		return 0, false
	}
	return base - short, true
}

// Addr returns entry i of a .debug_addr contribution.
func (lu *ListUnit) Addr(i uint64) (uint64, error) {
	stride := uint64(lu.AddrSize) + uint64(lu.SegSelSize)
	if stride == 0 {
		return 0, errors.New("debug_addr entry size is zero")
	}
	var addr uint64
	if i >= uint64(len(lu.entries))/stride ||
		util.ReadUint(lu.entries, i*stride+uint64(lu.SegSelSize), int(lu.AddrSize), &addr) == 0 {
		return 0, errors.Wrapf(ErrShortRead, "debug_addr index %d out of range", i)
	}
	return addr, nil
}

// StrOffset returns entry i of a .debug_str_offsets contribution.
func (lu *ListUnit) StrOffset(i uint64) (uint64, error) {
	size := uint64(lu.Format.OffsetSize())
	var off uint64
	if i >= uint64(len(lu.entries))/size || util.ReadOffset(lu.entries, i*size, lu.Format, &off) == 0 {
		return 0, errors.Wrapf(ErrShortRead, "debug_str_offsets index %d out of range", i)
	}
	return off, nil
}

// ListOffset returns the section offset of list i of a rnglists or loclists
// contribution, resolved through the offset array.
func (lu *ListUnit) ListOffset(i uint64) (uint64, error) {
	if i >= uint64(lu.OffsetCount) {
		return 0, errors.Wrapf(ErrShortRead, "%s index %d beyond offset count %d", lu.Kind, i, lu.OffsetCount)
	}
	size := uint64(lu.Format.OffsetSize())
	var off uint64
	if util.ReadOffset(lu.entries, i*size, lu.Format, &off) == 0 {
		return 0, errors.Wrapf(ErrShortRead, "%s offset array entry %d", lu.Kind, i)
	}
	return lu.EntriesOffset + off, nil
}
