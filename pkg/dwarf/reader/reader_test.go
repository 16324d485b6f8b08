package reader

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

func TestPickClass(t *testing.T) {
	type arg struct {
		ver     Version
		attr    Attr
		form    Form
		relaxed bool
		want    Class
	}
	args := []arg{
		{Version4, AttrName, FormStrp, false, ClassString},
		{Version4, AttrLowPc, FormAddr, false, ClassAddress},
		{Version4, AttrHighPc, FormData8, false, ClassConst},
		{Version4, AttrStmtList, FormSecOffset, false, ClassLinePtr},
		{Version3, AttrStmtList, FormData4, false, ClassLinePtr},
		{Version2, AttrStmtList, FormData4, false, ClassConst},
		{Version4, AttrName, FormData4, false, ClassUndefined},
		{Version2, AttrName, FormStrx1, false, ClassNull},
		{Version2, AttrName, FormStrx1, true, ClassString},
		{Version5, AttrRanges, FormRngListx, false, ClassRngList},
		{Version5, AttrLowPc, FormAddrx1, false, ClassAddress},
	}
	for _, a := range args {
		got := PickClass(a.ver, ExtAll, a.attr, a.form, a.relaxed)
		assert.Equal(t, a.want, got, "%s %s %s relaxed=%v", a.ver, a.attr, a.form, a.relaxed)
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "None", Class(0).String())
	assert.Equal(t, "Address|Const", (ClassAddress | ClassConst).String())
}

func TestAbbrevTable(t *testing.T) {
	data := (&bld{}).
		uleb(2).uleb(uint64(TagVariable)).u8(0).
		uleb(uint64(AttrConstValue)).uleb(uint64(FormImplicitConst)).sleb(-3).
		uleb(0).uleb(0).
		uleb(1).uleb(uint64(TagBaseType)).u8(1).
		uleb(uint64(AttrName)).uleb(uint64(FormString)).
		uleb(0).uleb(0).
		uleb(0).b

	tab, err := ParseAbbrevTable(data, 0)
	require.NoError(t, err)
	require.Equal(t, 2, tab.Len())

	ab, ok := tab.Lookup(2)
	require.True(t, ok)
	assert.Equal(t, TagVariable, ab.Kind)
	assert.False(t, ab.HasChildren)
	require.Len(t, ab.Attrs, 1)
	assert.Equal(t, int64(-3), ab.Attrs[0].ImplicitConst)

	ab, ok = tab.Lookup(1)
	require.True(t, ok)
	assert.True(t, ab.HasChildren)
	assert.Equal(t, uint64(8), ab.Offset)

	_, ok = tab.Lookup(3)
	assert.False(t, ok)

	_, err = ParseAbbrevTable(data[:5], 0)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestAbbrevCacheSharesTables(t *testing.T) {
	data := (&bld{}).uleb(1).uleb(uint64(TagCompileUnit)).u8(0).uleb(0).uleb(0).uleb(0).b
	c, err := NewAbbrevCache(data, 0)
	require.NoError(t, err)
	a, err := c.Get(0)
	require.NoError(t, err)
	b, err := c.Get(0)
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestDecodeForm(t *testing.T) {
	ctx := formCtx{version: Version4, format: util.Format32, addrSize: 8}

	var a Attrib
	data := (&bld{}).uleb(uint64(FormData2)).u16(0x1234).b
	next, err := ctx.decodeForm(data, 0, FormIndirect, 0, &a)
	require.NoError(t, err)
	assert.Equal(t, FormData2, a.Form)
	assert.Equal(t, uint64(0x1234), a.Raw())
	assert.Equal(t, uint64(3), next)

	// an indirect chain that never ends
	data = (&bld{}).uleb(uint64(FormIndirect)).uleb(uint64(FormIndirect)).uleb(uint64(FormIndirect)).
		uleb(uint64(FormIndirect)).uleb(uint64(FormIndirect)).b
	_, err = ctx.decodeForm(data, 0, FormIndirect, 0, &a)
	assert.ErrorIs(t, err, ErrUnsupportedForm)

	a = Attrib{}
	data = (&bld{}).u8(3, 0xde, 0xad, 0xbe).b
	next, err = ctx.decodeForm(data, 0, FormBlock1, 0, &a)
	require.NoError(t, err)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe}, a.data)
	assert.Equal(t, uint64(4), next)

	_, err = ctx.decodeForm(data[:2], 0, FormBlock1, 0, &a)
	assert.ErrorIs(t, err, ErrShortRead)

	a = Attrib{}
	data = (&bld{}).str("inline").b
	next, err = ctx.decodeForm(data, 0, FormString, 0, &a)
	require.NoError(t, err)
	assert.Equal(t, "inline", string(a.data))
	assert.Equal(t, uint64(7), next)

	a = Attrib{}
	next, err = ctx.decodeForm(nil, 0, FormImplicitConst, -7, &a)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), next)
	a.Class = ClassConst
	v, err := a.SConst()
	require.NoError(t, err)
	assert.Equal(t, int64(-7), v)

	// DWARF 2 ref_addr is address sized
	ctx.version = Version2
	assert.Equal(t, 8, ctx.fixedFormSize(FormRefAddr))
	ctx.version = Version4
	assert.Equal(t, 4, ctx.fixedFormSize(FormRefAddr))
	ctx.format = util.Format64
	assert.Equal(t, 8, ctx.fixedFormSize(FormSecOffset))
}

func TestSConstSignExtends(t *testing.T) {
	a := Attrib{Form: FormData1, Class: ClassConst, val: 0xff}
	v, err := a.SConst()
	require.NoError(t, err)
	assert.Equal(t, int64(-1), v)

	u, err := a.Const()
	require.NoError(t, err)
	assert.Equal(t, uint64(0xff), u)

	a = Attrib{Form: FormData1, Class: ClassString, val: 1}
	_, err = a.Const()
	assert.ErrorIs(t, err, ErrClassMismatch)
}

func TestParseUnitsV4(t *testing.T) {
	info, err := ParseUnits(v4Fixture(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, info.Units, 1)
	assert.NoError(t, info.Diagnostics.Err())

	u := info.Units[0]
	assert.Equal(t, Version4, u.Version)
	assert.Equal(t, UnitCompile, u.Kind)
	assert.Equal(t, 8, u.AddrSize)
	assert.Equal(t, "a.c", u.Name)
	assert.Equal(t, "/src", u.CompDir)
	assert.Equal(t, LangC99, u.Language)
	assert.Equal(t, uint64(0x1000), u.LowPC)
	assert.Equal(t, uint64(0x1100), u.HighPC)
	assert.True(t, u.HasStmtList)

	rngs, err := u.Ranges()
	require.NoError(t, err)
	assert.Equal(t, []Range{{0x1000, 0x1100}}, rngs)
	assert.Same(t, u, info.UnitForPC(0x1050))
	assert.Nil(t, info.UnitForPC(0x1100))
	assert.Same(t, u, info.UnitAt(u.Offset+4))
	assert.Nil(t, info.UnitAt(u.End()))
}

func TestTagIter(t *testing.T) {
	info, err := ParseUnits(v4Fixture(), DefaultOptions())
	require.NoError(t, err)
	u := info.Units[0]

	type seen struct {
		kind  TagKind
		name  string
		depth int
	}
	var got []seen
	it := u.Tags()
	for it.Next() {
		got = append(got, seen{it.Tag().Kind, it.Tag().Name(), it.Depth()})
	}
	require.NoError(t, it.Err())
	assert.Equal(t, []seen{
		{TagCompileUnit, "a.c", 0},
		{TagSubProgram, "main", 1},
		{TagSubProgram, "helper", 1},
	}, got)

	// skipping the root's children ends the walk
	it = u.Tags()
	require.True(t, it.Next())
	it.SkipChildren()
	assert.False(t, it.Next())

	root := u.Root()
	again, err := u.TagAt(root.Offset)
	require.NoError(t, err)
	assert.Same(t, root, again)

	fn, err := info.TagAt(root.Next)
	require.NoError(t, err)
	lo, err := fn.Attr(AttrLowPc).Address()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1010), lo)
	assert.Nil(t, fn.Attr(AttrType))
}

func TestLocListV4(t *testing.T) {
	info, err := ParseUnits(v4Fixture(), DefaultOptions())
	require.NoError(t, err)
	u := info.Units[0]

	fn, err := u.TagAt(u.Root().Next)
	require.NoError(t, err)
	fb := fn.Attr(AttrFrameBase)
	require.NotNil(t, fb)
	assert.True(t, fb.IsLocList())

	entries, err := fb.LocList()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, Range{0x1000, 0x1010}, entries[0].Range)
	assert.Equal(t, []byte{0x50}, entries[0].Expr)
	assert.Equal(t, Range{0x3000, 0x3008}, entries[1].Range)

	expr, ok := FindLocation(entries, 0x3004)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x91, 0x70}, expr)
	_, ok = FindLocation(entries, 0x2000)
	assert.False(t, ok)
}

func TestParseUnitsV5Indexed(t *testing.T) {
	info, err := ParseUnits(v5Fixture(), DefaultOptions())
	require.NoError(t, err)
	require.Len(t, info.Units, 1)
	assert.NoError(t, info.Diagnostics.Err())

	u := info.Units[0]
	assert.Equal(t, Version5, u.Version)
	assert.Equal(t, "v5.c", u.Name)
	assert.Equal(t, LangC11, u.Language)
	assert.Equal(t, uint64(0x2000), u.LowPC)
	assert.Equal(t, uint64(0x2100), u.HighPC)

	rngs, err := u.Ranges()
	require.NoError(t, err)
	assert.Equal(t, []Range{{0x2000, 0x2010}, {0x2100, 0x2120}}, rngs)
	assert.Same(t, u, info.UnitForPC(0x2110))
	assert.Nil(t, info.UnitForPC(0x2050))
}

func TestListUnitHeaderOffset(t *testing.T) {
	data := (&bld{}).unit((&bld{}).u16(5).u8(8, 0).u64(0x10)).b
	off, ok := HeaderOffset(godwarf.SectionAddr, data, 8)
	require.True(t, ok)
	assert.Equal(t, uint64(0), off)

	lu, err := ParseListUnit(godwarf.SectionAddr, data, off)
	require.NoError(t, err)
	assert.Equal(t, uint64(8), lu.EntriesOffset)
	addr, err := lu.Addr(0)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x10), addr)
	_, err = lu.Addr(1)
	assert.ErrorIs(t, err, ErrShortRead)

	_, ok = HeaderOffset(godwarf.SectionAddr, data, 4)
	assert.False(t, ok)
}

func TestRangesV4(t *testing.T) {
	ranges := (&bld{}).
		u64(0x10).u64(0x20).
		u64(^uint64(0)).u64(0x5000).
		u64(0x0).u64(0x8).
		u64(0x8).u64(0x8).
		u64(0).u64(0).b
	secs := sectionSet(map[godwarf.SectionKind][]byte{godwarf.SectionRanges: ranges})
	u := &Unit{AddrSize: 8, Base: 0x1000, info: &Info{Sections: secs}}

	got, err := u.rangesV4(0)
	require.NoError(t, err)
	assert.Equal(t, []Range{{0x1010, 0x1020}, {0x5000, 0x5008}}, got)

	_, err = u.rangesV4(uint64(len(ranges)) - 8)
	assert.ErrorIs(t, err, ErrShortRead)
}

func TestLocListsV5(t *testing.T) {
	loc := (&bld{}).
		u8(byte(LLEOffsetPair)).uleb(0x0).uleb(0x10).uleb(1).u8(0x50).
		u8(byte(LLEGNUViewPair)).uleb(0).uleb(1).
		u8(byte(LLEStartLength)).u64(0x4000).uleb(0x4).uleb(2).u8(0x91, 0x08).
		u8(byte(LLEDefaultLocation)).uleb(1).u8(0x51).
		u8(byte(LLEEndOfList)).b
	secs := sectionSet(map[godwarf.SectionKind][]byte{godwarf.SectionLocLists: loc})
	u := &Unit{Version: Version5, AddrSize: 8, Base: 0x1000, info: &Info{Sections: secs}}

	got, err := u.locLists(0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, Range{0x1000, 0x1010}, got[0].Range)
	assert.Equal(t, Range{0x4000, 0x4004}, got[1].Range)
	assert.True(t, got[2].Default)

	expr, ok := FindLocation(got, 0x9999)
	assert.True(t, ok)
	assert.Equal(t, []byte{0x51}, expr)

	_, err = u.locLists(uint64(len(loc)) - 2)
	assert.Error(t, err)
}

func TestParsePubNames(t *testing.T) {
	set1 := (&bld{}).u16(2).u32(0).u32(0x40).
		u32(0x2b).str("main").
		u32(0x35).str("helper").
		u32(0)
	set2 := (&bld{}).u16(2).u32(0x40).u32(0x10).
		u32(0x0b).str("x").
		u32(0)
	data := (&bld{}).unit(set1).unit(set2).b

	names, err := ParsePubNames(data)
	require.NoError(t, err)
	assert.Equal(t, []PubName{
		{Name: "main", UnitOffset: 0, Offset: 0x2b},
		{Name: "helper", UnitOffset: 0, Offset: 0x35},
		{Name: "x", UnitOffset: 0x40, Offset: 0x0b},
	}, names)

	names, err = ParsePubNames(data[:len(data)-3])
	assert.Error(t, err)
	assert.Len(t, names, 2)
}

func TestLineTableV4(t *testing.T) {
	info, err := ParseUnits(v4Fixture(), DefaultOptions())
	require.NoError(t, err)
	u := info.Units[0]

	lt, err := u.LineTable()
	require.NoError(t, err)
	assert.NoError(t, info.Diagnostics.Err())

	h := lt.Header
	assert.Equal(t, Version4, h.Version)
	assert.Equal(t, int8(-5), h.LineBase)
	assert.Equal(t, []string{"/src", "inc"}, h.Dirs)
	require.Len(t, h.Files, 3)
	assert.Equal(t, "/src/a.c", lt.FileName(1))
	assert.Equal(t, "/src/inc/b.h", lt.FileName(2))
	assert.Equal(t, "", lt.FileName(9))

	require.Len(t, lt.Sequences, 1)
	seq := lt.Sequences[0]
	assert.Equal(t, uint64(0x1000), seq.Lo)
	assert.Equal(t, uint64(0x1100), seq.Hi)
	require.Len(t, seq.Rows, 4)
	assert.True(t, seq.Rows[3].EndSequence)

	type arg struct {
		pc   uint64
		line uint64
		ok   bool
	}
	args := []arg{
		{0x1000, 2, true},
		{0x100f, 2, true},
		{0x1012, 5, true},
		{0x10ff, 5, true},
		{0x1100, 0, false},
		{0x0fff, 0, false},
	}
	for _, a := range args {
		row, ok := lt.PCToLine(a.pc)
		assert.Equal(t, a.ok, ok, "pc %#x", a.pc)
		assert.Equal(t, a.line, row.Line, "pc %#x", a.pc)
	}

	var n int
	lt.Rows(func(LineRow) bool { n++; return n < 2 })
	assert.Equal(t, 2, n)
}

func TestLineTableV5Entries(t *testing.T) {
	lineStr := (&bld{}).str("/build").str("main.c").b
	params := (&bld{}).u8(4, 1, 1, 0xfb, 14, 13).
		u8(0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1).
		u8(1).uleb(uint64(LNCTPath)).uleb(uint64(FormLineStrp)).
		uleb(1).u32(0).
		u8(3).uleb(uint64(LNCTPath)).uleb(uint64(FormLineStrp)).
		uleb(uint64(LNCTDirectoryIndex)).uleb(uint64(FormUData)).
		uleb(uint64(LNCTMD5)).uleb(uint64(FormData16)).
		uleb(1).u32(7).uleb(0).u64(0x0706050403020100).u64(0x0f0e0d0c0b0a0908)
	prog := (&bld{}).
		u8(0).uleb(9).u8(byte(LNESetAddress)).u64(0x4000).
		u8(byte(LNSCopy)).
		u8(byte(LNSFixedAdvancePc)).u16(0x10).
		u8(0).uleb(1).u8(byte(LNEEndSequence))
	line := (&bld{}).unit((&bld{}).u16(5).u8(8, 0).u32(uint32(len(params.b))).raw(params.b).raw(prog.b)).b

	secs := sectionSet(map[godwarf.SectionKind][]byte{
		godwarf.SectionLine:    line,
		godwarf.SectionLineStr: lineStr,
	})
	u := &Unit{Version: Version5, AddrSize: 8, HasStmtList: true, LowPC: 0x4000, info: &Info{Sections: secs}}

	lt, err := u.LineTable()
	require.NoError(t, err)
	assert.Equal(t, []string{"/build"}, lt.Header.Dirs)
	require.Len(t, lt.Header.Files, 1)
	f := lt.Header.Files[0]
	assert.True(t, f.HasMD5)
	assert.Equal(t, byte(0x0f), f.MD5[15])
	assert.Equal(t, "/build/main.c", lt.FileName(0))

	row, ok := lt.PCToLine(0x4008)
	require.True(t, ok)
	assert.Equal(t, uint64(0x4000), row.Address)
	assert.Equal(t, uint8(4), lt.Header.MinInstLen)
}

func TestDiagnostics(t *testing.T) {
	var d Diagnostics
	assert.Equal(t, 0, d.Len())
	assert.NoError(t, d.Err())
	d.Addf("bad thing at %#x", 0x10)
	d.Add(nil)
	d.Add(ErrShortRead)
	assert.Equal(t, 2, d.Len())
	assert.Error(t, d.Err())
	assert.ErrorIs(t, d.Errors()[1], ErrShortRead)
}

func TestEnumNames(t *testing.T) {
	assert.Equal(t, "SubProgram", TagSubProgram.String())
	assert.Equal(t, "Form(0x7777)", Form(0x7777).String())
	assert.Equal(t, "v5", Version5.String())
	assert.Equal(t, "gnu|llvm", (ExtGNU | ExtLLVM).String())
	assert.Equal(t, "OffsetPair", RLEOffsetPair.String())
	assert.Equal(t, "GNU_ViewPair", LLEGNUViewPair.String())
}
