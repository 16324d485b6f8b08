package frame

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var le = binary.LittleEndian

const (
	ehFrameAddr = 0x1000
	fnBegin     = 0x2000
	fnSize      = 0x20
	regCount    = 17
	regRBP      = 6
	regRSP      = 7
)

// ehFrameFixture is a zR CIE with udata8|pcrel addresses, one FDE for
// [fnBegin, fnBegin+fnSize) and a terminator:
//
//	CIE: def_cfa rsp,16
//	FDE: advance_loc 4; offset rbp,-16
//
// The CIE declares two bytes of augmentation data but R uses only one.
func ehFrameFixture() []byte {
	cie := []byte{
		0, 0, 0, 0, // cie id
		1,           // version
		'z', 'R', 0, // augmentation
		1,           // code alignment
		0x78,        // data alignment -8
		16,          // return address register
		2, 0x14, 0,  // augmentation data: udata8|pcrel, pad
		0x0c, regRSP, 16, // def_cfa rsp,16
	}
	b := le.AppendUint32(nil, uint32(len(cie)))
	b = append(b, cie...)

	fdeOff := uint64(len(b))
	body := le.AppendUint32(nil, uint32(fdeOff+4)) // back to the CIE at 0
	pcField := fdeOff + 8
	body = le.AppendUint64(body, fnBegin-ehFrameAddr-pcField)
	body = le.AppendUint64(body, fnSize)
	body = append(body,
		0,              // augmentation size
		0x44,           // advance_loc 4
		0x80|regRBP, 2, // offset rbp,2*-8
	)
	b = le.AppendUint32(b, uint32(len(body)))
	b = append(b, body...)
	return le.AppendUint32(b, 0)
}

func parseFixture(t *testing.T) *FrameDescriptionEntry {
	fdes, err := ParseEhFrame(ehFrameFixture(), &PtrContext{PC: ehFrameAddr}, 8)
	require.NoError(t, err)
	require.Len(t, fdes, 1)
	return fdes[0]
}

func TestParseEhFrameAugmentation(t *testing.T) {
	fde := parseFixture(t)
	cie := fde.CIE
	require.NotNil(t, cie)

	assert.Equal(t, "zR", cie.Augmentation)
	assert.Equal(t, PtrEncUdata8|PtrEncPCRel, cie.AddrEncoding)
	assert.Equal(t, PtrEncOmit, cie.LSDAEncoding)
	assert.Equal(t, []byte{0x14, 0x00}, cie.AugmentationData)
	// the instructions start after the declared augmentation size
	assert.Equal(t, []byte{0x0c, regRSP, 16}, cie.InitialInstructions)
	assert.Equal(t, uint64(1), cie.CodeAlignmentFactor)
	assert.Equal(t, int64(-8), cie.DataAlignmentFactor)
	assert.Equal(t, uint64(16), cie.ReturnAddressRegister)

	assert.Equal(t, uint64(fnBegin), fde.Begin())
	assert.Equal(t, uint64(fnBegin+fnSize), fde.End())
	assert.Equal(t, []byte{0x44, 0x80 | regRBP, 2}, fde.Instructions)
}

func TestParseEhFrameBadCIEPointer(t *testing.T) {
	data := ehFrameFixture()
	// the FDE follows the 21 byte CIE; point its CIE pointer before the section
	le.PutUint32(data[21+4:], 0xffff)
	fdes, err := ParseEhFrame(data, &PtrContext{PC: ehFrameAddr}, 8)
	require.Error(t, err)
	assert.Empty(t, fdes)
}

func debugFrameFixture(dwarf64 bool) []byte {
	entry := func(b, body []byte) []byte {
		if dwarf64 {
			b = le.AppendUint32(b, 0xffffffff)
			b = le.AppendUint64(b, uint64(len(body)))
		} else {
			b = le.AppendUint32(b, uint32(len(body)))
		}
		return append(b, body...)
	}
	id := func(v uint64) []byte {
		if dwarf64 {
			return le.AppendUint64(nil, v)
		}
		return le.AppendUint32(nil, uint32(v))
	}

	cieID := uint64(0xffffffff)
	if dwarf64 {
		cieID = ^uint64(0)
	}
	cie := append(id(cieID), 3, 0, 1, 0x78, 16, 0x0c, regRSP, 8)
	fde := id(0)
	fde = le.AppendUint64(fde, 0x400000)
	fde = le.AppendUint64(fde, 0x40)
	fde = append(fde, 0x44)

	// padding between entries is skipped
	return entry(append(entry(nil, cie), 0, 0, 0, 0), fde)
}

func TestParseDebugFrame(t *testing.T) {
	for _, dwarf64 := range []bool{false, true} {
		fdes, err := Parse(debugFrameFixture(dwarf64), 0x1000, 8)
		require.NoError(t, err, "dwarf64=%v", dwarf64)
		require.Len(t, fdes, 1)

		fde := fdes[0]
		assert.Equal(t, uint64(0x401000), fde.Begin())
		assert.Equal(t, uint64(0x401040), fde.End())
		assert.Equal(t, []byte{0x44}, fde.Instructions)
		assert.Equal(t, uint8(3), fde.CIE.Version)
		assert.Equal(t, []byte{0x0c, regRSP, 8}, fde.CIE.InitialInstructions)

		got, err := fdes.FDEForPC(0x401010)
		require.NoError(t, err)
		assert.Same(t, fde, got)
	}
}

func TestParseTruncated(t *testing.T) {
	data := ehFrameFixture()
	fdes, err := ParseEhFrame(data[:30], &PtrContext{PC: ehFrameAddr}, 8)
	require.Error(t, err)
	assert.Empty(t, fdes)
	var bad *ErrBadEntry
	require.ErrorAs(t, err, &bad)
}

func TestReadEncodedPointer(t *testing.T) {
	type arg struct {
		name     string
		data     []byte
		off      uint64
		enc      PtrEnc
		ctx      PtrContext
		addrSize int
		want     uint64
		n        int
	}
	ptr8 := append(make([]byte, 8), le.AppendUint64(nil, 0xdeadbeef)...)

	args := []arg{
		{"udata4", []byte{0x78, 0x56, 0x34, 0x12}, 0, PtrEncUdata4, PtrContext{}, 8, 0x12345678, 4},
		{"sdata2", []byte{0xfe, 0xff}, 0, PtrEncSdata2, PtrContext{}, 8, ^uint64(1), 2},
		{"uleb", []byte{0xe5, 0x8e, 0x26}, 0, PtrEncUleb, PtrContext{}, 8, 624485, 3},
		{"signed word", []byte{0xff, 0xff, 0xff, 0xff}, 0, PtrEncSigned, PtrContext{}, 4, ^uint64(0), 4},
		{"absptr", le.AppendUint32(nil, 0x4000), 0, PtrEncAbs, PtrContext{}, 4, 0x4000, 4},
		{"pcrel", append([]byte{0, 0, 0, 0}, 0xfc, 0xff, 0xff, 0xff), 4, PtrEncSdata4 | PtrEncPCRel, PtrContext{PC: 0x1000}, 8, 0x1000, 4},
		{"pcrel zero stays zero", make([]byte, 4), 0, PtrEncSdata4 | PtrEncPCRel, PtrContext{PC: 0x1000}, 8, 0, 4},
		{"datarel", []byte{0x10, 0x00}, 0, PtrEncUdata2 | PtrEncDataRel, PtrContext{Data: 0x5000}, 8, 0x5010, 2},
		{"textrel", []byte{0x10}, 0, PtrEncUleb | PtrEncTextRel, PtrContext{Text: 0x400000}, 8, 0x400010, 1},
		{"funcrel", []byte{0x08}, 0, PtrEncUleb | PtrEncFuncRel, PtrContext{Func: 0x2000}, 8, 0x2008, 1},
		{"aligned", ptr8, 1, PtrEncAligned, PtrContext{}, 8, 0xdeadbeef, 15},
		{"indirect keeps address", le.AppendUint32(nil, 0x600000), 0, PtrEncUdata4 | PtrEncIndirect, PtrContext{}, 8, 0x600000, 4},
		{"omit", []byte{1, 2, 3, 4}, 0, PtrEncOmit, PtrContext{}, 8, 0, 0},
		{"short", []byte{1, 2, 3}, 0, PtrEncUdata8, PtrContext{}, 8, 0, 0},
		{"unknown type", []byte{1, 2, 3, 4}, 0, PtrEnc(0x07), PtrContext{}, 8, 0, 0},
	}

	for _, arg := range args {
		ctx := arg.ctx
		var got uint64
		n := ReadEncodedPointer(arg.data, arg.off, arg.enc, &ctx, arg.addrSize, &got)
		assert.Equal(t, arg.n, n, arg.name)
		assert.Equal(t, arg.want, got, arg.name)
	}
}

func TestPtrEncString(t *testing.T) {
	assert.Equal(t, "pcrel|sdata4", (PtrEncPCRel | PtrEncSdata4).String())
	assert.Equal(t, "indirect|pcrel|sdata4", PtrEnc(0x9b).String())
	assert.Equal(t, "datarel|sdata4", PtrEnc(0x3b).String())
	assert.Equal(t, "absptr", PtrEncAbs.String())
	assert.Equal(t, "omit", PtrEncOmit.String())
	assert.True(t, PtrEnc(0x9b).Indirect())
	assert.False(t, PtrEncOmit.Indirect())
}

func TestDecodeInstructions(t *testing.T) {
	data := []byte{
		0x0c, regRSP, 8, // def_cfa rsp,8
		0x44,            // advance_loc 4
		0x80 | regRBP, 2, // offset rbp,-16
		0x2e, 0x10, // GNU_args_size 16
		0x0f, 0x02, 0x77, 0x08, // def_cfa_expression breg7 8
		0x13, 0x7e, // def_cfa_offset_sf -2*-8
		0x09, 3, 4, // register r3 r4
	}
	insts, err := DecodeInstructions(data, 1, -8, nil)
	require.NoError(t, err)
	require.Len(t, insts, 7)

	assert.Equal(t, Instruction{Off: 0, Op: DW_CFA_def_cfa, Reg: regRSP, Offset: 8}, insts[0])
	assert.Equal(t, Instruction{Off: 3, Op: DW_CFA_advance_loc, Delta: 4}, insts[1])
	assert.Equal(t, Instruction{Off: 4, Op: DW_CFA_offset, Reg: regRBP, Offset: -16}, insts[2])
	assert.Equal(t, Instruction{Off: 6, Op: DW_CFA_GNU_args_size, Offset: 16}, insts[3])
	assert.Equal(t, DW_CFA_def_cfa_expression, insts[4].Op)
	assert.Equal(t, []byte{0x77, 0x08}, insts[4].Expr)
	assert.Equal(t, int64(16), insts[5].Offset)
	assert.Equal(t, Instruction{Off: 14, Op: DW_CFA_register, Reg: 3, Reg2: 4}, insts[6])

	assert.True(t, insts[1].NewRow())
	assert.False(t, insts[2].NewRow())
	assert.Equal(t, "0004: DW_CFA_offset r6 -16", insts[2].String())
	assert.Equal(t, "0003: DW_CFA_advance_loc +4", insts[1].String())
}

func TestDecodeInstructionsCodeAlign(t *testing.T) {
	insts, err := DecodeInstructions([]byte{0x43, 0x02, 0x05}, 4, -4, nil)
	require.NoError(t, err)
	require.Len(t, insts, 2)
	assert.Equal(t, uint64(12), insts[0].Delta)
	assert.Equal(t, uint64(20), insts[1].Delta)
}

func TestDecodeInstructionsMalformed(t *testing.T) {
	type arg struct {
		name string
		data []byte
		n    int
	}
	args := []arg{
		{"truncated operand", []byte{0x0c, regRSP}, 0},
		{"truncated after good", []byte{0x0a, 0x04, 0x01}, 1},
		{"block past end", []byte{0x0f, 0x05, 0x77}, 0},
		{"unknown opcode", []byte{0x00, 0x3f}, 1},
	}
	for _, arg := range args {
		insts, err := DecodeInstructions(arg.data, 1, -8, nil)
		assert.Error(t, err, arg.name)
		assert.Len(t, insts, arg.n, arg.name)
	}
}

func TestRowForPC(t *testing.T) {
	fde := parseFixture(t)
	u, err := NewUnwinder(fde, regCount)
	require.NoError(t, err)

	wantCFA := CFARule{Kind: CFARegOff, Reg: regRSP, Offset: 16}

	type arg struct {
		pc  uint64
		rbp Cell
	}
	args := []arg{
		{fnBegin, Cell{Rule: RuleSameValue}},
		{fnBegin + 3, Cell{Rule: RuleSameValue}},
		{fnBegin + 4, Cell{Rule: RuleOffset, Offset: -16}},
		{fnBegin + fnSize - 1, Cell{Rule: RuleOffset, Offset: -16}},
	}
	for _, arg := range args {
		row, err := u.RowForPC(arg.pc)
		require.NoError(t, err, "pc %#x", arg.pc)
		assert.Equal(t, wantCFA, row.CFA, "pc %#x", arg.pc)
		assert.Equal(t, arg.rbp, row.Regs[regRBP], "pc %#x", arg.pc)
	}

	_, err = u.RowForPC(fnBegin + fnSize)
	var noFDE *ErrNoFDEForPC
	require.ErrorAs(t, err, &noFDE)
}

func TestNextRowBoundaries(t *testing.T) {
	fde := parseFixture(t)
	u, err := NewUnwinder(fde, regCount)
	require.NoError(t, err)

	require.True(t, u.NextRow())
	assert.Equal(t, uint64(fnBegin), u.Row().Loc)
	assert.Equal(t, uint64(fnBegin+4), u.RowEnd())

	require.True(t, u.NextRow())
	assert.Equal(t, uint64(fnBegin+4), u.Row().Loc)
	assert.Equal(t, uint64(fnBegin+fnSize), u.RowEnd())

	assert.False(t, u.NextRow())
	assert.NoError(t, u.Err())
}

func syntheticFDE(cieInsts, fdeInsts []byte) *FrameDescriptionEntry {
	cie := &CommonInformationEntry{
		CodeAlignmentFactor: 1,
		DataAlignmentFactor: -8,
		InitialInstructions: cieInsts,
	}
	return &FrameDescriptionEntry{CIE: cie, begin: 0x100, size: 0x10, Instructions: fdeInsts}
}

func TestRememberRestoreState(t *testing.T) {
	cieInsts := []byte{0x0c, regRSP, 8, 0x90, 0x01} // def_cfa rsp,8; offset r16,-8

	type arg struct {
		name  string
		insts []byte
	}
	args := []arg{
		{"adjacent", []byte{0x0a, 0x0b}},
		{"with changes between", []byte{0x0a, 0x80 | regRBP, 2, 0x0e, 0x20, 0x0b}},
		{"nested", []byte{0x0a, 0x0a, 0x07, 0x03, 0x0b, 0x0b}},
	}
	for _, arg := range args {
		u, err := NewUnwinder(syntheticFDE(cieInsts, arg.insts), regCount)
		require.NoError(t, err, arg.name)
		require.True(t, u.NextRow(), arg.name)
		assert.True(t, u.Row().Equal(u.InitialRow()), "%s: %s != %s", arg.name, u.Row(), u.InitialRow())
	}
}

func TestRestoreFromInitialRow(t *testing.T) {
	cieInsts := []byte{0x0c, regRSP, 8, 0x90, 0x01}
	// offset r16,-24; restore r16; undefined r3; restore_extended r3
	fdeInsts := []byte{0x90, 0x03, 0xc0 | 16, 0x07, 0x03, 0x06, 0x03}
	u, err := NewUnwinder(syntheticFDE(cieInsts, fdeInsts), regCount)
	require.NoError(t, err)
	require.True(t, u.NextRow())
	assert.Equal(t, Cell{Rule: RuleOffset, Offset: -8}, u.Row().Regs[16])
	assert.Equal(t, Cell{Rule: RuleSameValue}, u.Row().Regs[3])
}

func TestUnwinderRejects(t *testing.T) {
	type arg struct {
		name     string
		cieInsts []byte
		fdeInsts []byte
	}
	args := []arg{
		{"register out of range", []byte{0x0c, regRSP, 8}, []byte{0x07, regCount}},
		{"second register out of range", []byte{0x0c, regRSP, 8}, []byte{0x09, 1, 40}},
		{"restore without remember", []byte{0x0c, regRSP, 8}, []byte{0x0b}},
		{"cfa offset without register rule", nil, []byte{0x0e, 0x10}},
		{"cfa register after expression", []byte{0x0f, 0x01, 0x30}, []byte{0x0d, 0x06}},
	}
	for _, arg := range args {
		u, err := NewUnwinder(syntheticFDE(arg.cieInsts, arg.fdeInsts), regCount)
		require.NoError(t, err, arg.name)
		assert.False(t, u.NextRow(), arg.name)
		assert.Error(t, u.Err(), arg.name)
	}

	u, err := NewUnwinder(syntheticFDE([]byte{0x0c, regRSP, 8}, []byte{0x07, regCount}), regCount)
	require.NoError(t, err)
	u.NextRow()
	assert.ErrorIs(t, u.Err(), ErrBadRegister)

	_, err = NewUnwinder(syntheticFDE([]byte{0x07, 99}, nil), regCount)
	assert.ErrorIs(t, err, ErrBadRegister)
}

func TestSetLoc(t *testing.T) {
	// set_loc 0x108; offset rbp,-16
	insts := append([]byte{0x01}, le.AppendUint64(nil, 0x108)...)
	insts = append(insts, 0x80|regRBP, 2)
	u, err := NewUnwinder(syntheticFDE([]byte{0x0c, regRSP, 8}, insts), regCount)
	require.NoError(t, err)

	row, err := u.RowForPC(0x107)
	require.NoError(t, err)
	assert.Equal(t, RuleSameValue, row.Regs[regRBP].Rule)

	row, err = u.RowForPC(0x108)
	require.NoError(t, err)
	assert.Equal(t, RuleOffset, row.Regs[regRBP].Rule)
}

func TestEhFrameHdrIndex(t *testing.T) {
	eh := ehFrameFixture()
	ctx := &PtrContext{PC: ehFrameAddr}
	fdes, err := ParseEhFrame(eh, ctx, 8)
	require.NoError(t, err)

	hdr, err := ParseEhFrameHdr(BuildEhFrameHdrIndex(fdes, ehFrameAddr), nil, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), hdr.FDECount)

	addr, err := hdr.Lookup(fnBegin + 4)
	require.NoError(t, err)
	assert.Equal(t, ehFrameAddr+fdes[0].Offset, addr)

	_, err = hdr.Lookup(fnBegin - 1)
	var noFDE *ErrNoFDEForPC
	assert.ErrorAs(t, err, &noFDE)

	for _, verify := range []bool{false, true} {
		fde, err := FindFDE(eh, ctx, hdr, fnBegin+4, 8, LookupOptions{Verify: verify})
		require.NoError(t, err)
		assert.Equal(t, uint64(fnBegin), fde.Begin())
		assert.Equal(t, fdes[0].Offset, fde.Offset)
	}

	_, err = FindFDE(eh, ctx, hdr, fnBegin+fnSize, 8, LookupOptions{})
	assert.ErrorAs(t, err, &noFDE)
}

func TestEhFrameHdrRelativeTable(t *testing.T) {
	// version 1, eh_frame_ptr pcrel|sdata4, fde_count udata4, table datarel|sdata4
	const hdrAddr = 0x800
	hdr := []byte{1, 0x1b, 0x03, 0x3b}
	hdr = le.AppendUint32(hdr, uint32(ehFrameAddr-hdrAddr-4))
	hdr = le.AppendUint32(hdr, 2)
	for _, e := range [][2]uint32{{0x1000, 0x900}, {0x1800, 0x940}} {
		hdr = le.AppendUint32(hdr, e[0])
		hdr = le.AppendUint32(hdr, e[1])
	}

	h, err := ParseEhFrameHdr(hdr, &PtrContext{PC: hdrAddr, Data: hdrAddr}, 8)
	require.NoError(t, err)
	assert.Equal(t, uint64(ehFrameAddr), h.EhFramePtr)
	assert.Equal(t, uint64(2), h.FDECount)

	e, ok := h.Entry(1)
	require.True(t, ok)
	assert.Equal(t, HdrEntry{InitialLoc: hdrAddr + 0x1800, FDEAddr: hdrAddr + 0x940}, e)

	addr, err := h.Lookup(hdrAddr + 0x17ff)
	require.NoError(t, err)
	assert.Equal(t, uint64(hdrAddr+0x900), addr)
	addr, err = h.Lookup(hdrAddr + 0x2000)
	require.NoError(t, err)
	assert.Equal(t, uint64(hdrAddr+0x940), addr)
}

func TestEhFrameHdrUnsortedFallsBack(t *testing.T) {
	hdr := []byte{1, byte(PtrEncOmit), byte(PtrEncUdata8), byte(PtrEncUdata8)}
	hdr = le.AppendUint64(hdr, 2)
	for _, e := range [][2]uint64{{0x3000, 0x99}, {fnBegin, 0x77}} {
		hdr = le.AppendUint64(hdr, e[0])
		hdr = le.AppendUint64(hdr, e[1])
	}
	h, err := ParseEhFrameHdr(hdr, nil, 8)
	require.NoError(t, err)

	_, err = h.Lookup(fnBegin)
	assert.ErrorIs(t, err, ErrUnsortedTable)

	fde, err := FindFDE(ehFrameFixture(), &PtrContext{PC: ehFrameAddr}, h, fnBegin+1, 8, LookupOptions{})
	require.NoError(t, err)
	assert.Equal(t, uint64(fnBegin), fde.Begin())
}

func TestParseEhFrameHdrErrors(t *testing.T) {
	type arg struct {
		name string
		data []byte
	}
	args := []arg{
		{"empty", nil},
		{"bad version", []byte{2, 0xff, 0xff, 0xff}},
		{"short encodings", []byte{1, 0xff}},
		{"leb table", append([]byte{1, 0xff, 0x03, 0x01}, 1, 0, 0, 0)},
		{"table past end", append([]byte{1, 0xff, 0x03, 0x03}, 4, 0, 0, 0, 1, 2)},
	}
	for _, arg := range args {
		_, err := ParseEhFrameHdr(arg.data, nil, 8)
		assert.Error(t, err, arg.name)
	}
}
