package reader

import (
	"encoding/binary"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
)

// bld assembles little-endian DWARF fixtures.
type bld struct {
	b []byte
}

func (b *bld) u8(v ...byte) *bld {
	b.b = append(b.b, v...)
	return b
}

func (b *bld) u16(v uint16) *bld {
	b.b = binary.LittleEndian.AppendUint16(b.b, v)
	return b
}

func (b *bld) u32(v uint32) *bld {
	b.b = binary.LittleEndian.AppendUint32(b.b, v)
	return b
}

func (b *bld) u64(v uint64) *bld {
	b.b = binary.LittleEndian.AppendUint64(b.b, v)
	return b
}

func (b *bld) uleb(v uint64) *bld {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			c |= 0x80
		}
		b.b = append(b.b, c)
		if v == 0 {
			return b
		}
	}
}

func (b *bld) sleb(v int64) *bld {
	for {
		c := byte(v & 0x7f)
		v >>= 7
		done := v == 0 && c&0x40 == 0 || v == -1 && c&0x40 != 0
		if !done {
			c |= 0x80
		}
		b.b = append(b.b, c)
		if done {
			return b
		}
	}
}

func (b *bld) str(s string) *bld {
	b.b = append(append(b.b, s...), 0)
	return b
}

func (b *bld) raw(p []byte) *bld {
	b.b = append(b.b, p...)
	return b
}

// unit prefixes body with a 32-bit initial length.
func (b *bld) unit(body *bld) *bld {
	return b.u32(uint32(len(body.b))).raw(body.b)
}

func sectionSet(m map[godwarf.SectionKind][]byte) *godwarf.Sections {
	secs := &godwarf.Sections{}
	for k, data := range m {
		secs.Set(k, godwarf.Section{Data: data})
	}
	return secs
}

// v4Fixture is a DWARF 4 unit with a line program, two functions and a
// .debug_loc list.
func v4Fixture() *godwarf.Sections {
	abbrev := (&bld{}).
		uleb(1).uleb(uint64(TagCompileUnit)).u8(1).
		uleb(uint64(AttrName)).uleb(uint64(FormString)).
		uleb(uint64(AttrCompDir)).uleb(uint64(FormString)).
		uleb(uint64(AttrLowPc)).uleb(uint64(FormAddr)).
		uleb(uint64(AttrHighPc)).uleb(uint64(FormData4)).
		uleb(uint64(AttrStmtList)).uleb(uint64(FormSecOffset)).
		uleb(uint64(AttrLanguage)).uleb(uint64(FormData1)).
		uleb(0).uleb(0).
		uleb(2).uleb(uint64(TagSubProgram)).u8(0).
		uleb(uint64(AttrName)).uleb(uint64(FormStrp)).
		uleb(uint64(AttrLowPc)).uleb(uint64(FormAddr)).
		uleb(uint64(AttrHighPc)).uleb(uint64(FormData4)).
		uleb(uint64(AttrFrameBase)).uleb(uint64(FormSecOffset)).
		uleb(0).uleb(0).
		uleb(0)

	str := (&bld{}).u8(0).str("main").str("helper")

	body := (&bld{}).u16(4).u32(0).u8(8).
		uleb(1).str("a.c").str("/src").u64(0x1000).u32(0x100).u32(0).u8(0x0c).
		uleb(2).u32(1).u64(0x1010).u32(0x20).u32(0).
		uleb(2).u32(6).u64(0x1030).u32(0x10).u32(0).
		uleb(0)
	info := (&bld{}).unit(body)

	params := (&bld{}).u8(1, 1, 1, 0xfb, 14, 13).
		u8(0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1).
		str("inc").u8(0).
		str("a.c").uleb(0).uleb(0).uleb(0).
		str("b.h").uleb(1).uleb(0).uleb(0).
		u8(0)
	// rows: 0x1000 line 2, 0x1010 line 5, 0x1014 line 5, end at 0x1100
	prog := (&bld{}).
		u8(0).uleb(9).u8(byte(LNESetAddress)).u64(0x1000).
		u8(19).
		u8(byte(LNSAdvancePc)).uleb(0x10).
		u8(byte(LNSAdvanceLine)).sleb(3).
		u8(byte(LNSCopy)).
		u8(74).
		u8(byte(LNSAdvancePc)).uleb(0xec).
		u8(0).uleb(1).u8(byte(LNEEndSequence))
	line := (&bld{}).unit((&bld{}).u16(4).u32(uint32(len(params.b))).raw(params.b).raw(prog.b))

	loc := (&bld{}).
		u64(0).u64(0x10).u16(1).u8(0x50).
		u64(^uint64(0)).u64(0x3000).
		u64(0).u64(0x8).u16(2).u8(0x91, 0x70).
		u64(0).u64(0)

	return sectionSet(map[godwarf.SectionKind][]byte{
		godwarf.SectionAbbrev: abbrev.b,
		godwarf.SectionInfo:   info.b,
		godwarf.SectionStr:    str.b,
		godwarf.SectionLine:   line.b,
		godwarf.SectionLoc:    loc.b,
	})
}

// v5Fixture is a DWARF 5 unit whose name, low pc and ranges all resolve
// through the index sections.
func v5Fixture() *godwarf.Sections {
	abbrev := (&bld{}).
		uleb(1).uleb(uint64(TagCompileUnit)).u8(0).
		uleb(uint64(AttrName)).uleb(uint64(FormStrx1)).
		uleb(uint64(AttrLowPc)).uleb(uint64(FormAddrx)).
		uleb(uint64(AttrHighPc)).uleb(uint64(FormData4)).
		uleb(uint64(AttrStrOffsetsBase)).uleb(uint64(FormSecOffset)).
		uleb(uint64(AttrAddrBase)).uleb(uint64(FormSecOffset)).
		uleb(uint64(AttrRanges)).uleb(uint64(FormRngListx)).
		uleb(uint64(AttrRngListsBase)).uleb(uint64(FormSecOffset)).
		uleb(uint64(AttrLanguage)).uleb(uint64(FormImplicitConst)).sleb(int64(LangC11)).
		uleb(0).uleb(0).
		uleb(0)

	str := (&bld{}).u8(0).str("v5.c")
	strOffsets := (&bld{}).unit((&bld{}).u16(5).u16(0).u32(1))
	addr := (&bld{}).unit((&bld{}).u16(5).u8(8, 0).u64(0x2000).u64(0x2100))
	rng := (&bld{}).unit((&bld{}).u16(5).u8(8, 0).u32(1).u32(4).
		u8(byte(RLEBaseAddressx)).uleb(0).
		u8(byte(RLEOffsetPair)).uleb(0).uleb(0x10).
		u8(byte(RLEStartxLength)).uleb(1).uleb(0x20).
		u8(byte(RLEEndOfList)))

	body := (&bld{}).u16(5).u8(byte(UnitCompile), 8).u32(0).
		uleb(1).u8(0).uleb(0).u32(0x100).u32(8).u32(8).uleb(0).u32(12)
	info := (&bld{}).unit(body)

	return sectionSet(map[godwarf.SectionKind][]byte{
		godwarf.SectionAbbrev:     abbrev.b,
		godwarf.SectionInfo:       info.b,
		godwarf.SectionStr:        str.b,
		godwarf.SectionStrOffsets: strOffsets.b,
		godwarf.SectionAddr:       addr.b,
		godwarf.SectionRngLists:   rng.b,
	})
}
