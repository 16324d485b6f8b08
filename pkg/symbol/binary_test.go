package symbol

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/godwarf"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/reader"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/unwind"
)

var le = binary.LittleEndian

// bld assembles little-endian fixtures.
type bld struct {
	b []byte
}

func (b *bld) u8(v ...byte) *bld {
	b.b = append(b.b, v...)
	return b
}

func (b *bld) u16(v uint16) *bld {
	b.b = le.AppendUint16(b.b, v)
	return b
}

func (b *bld) u32(v uint32) *bld {
	b.b = le.AppendUint32(b.b, v)
	return b
}

func (b *bld) u64(v uint64) *bld {
	b.b = le.AppendUint64(b.b, v)
	return b
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

const (
	ehFrameAddr = 0x800

	mainLo   = 0x1000
	helperLo = 0x1010
	inlineLo = 0x1030

	rbp = regnum.X64Rbp
	rsp = regnum.X64Rsp
	rip = regnum.X64Rip
)

func abbrevs() []byte {
	a := &bld{}
	a.uleb(1).uleb(uint64(reader.TagCompileUnit)).u8(1).
		uleb(uint64(reader.AttrName)).uleb(uint64(reader.FormString)).
		uleb(uint64(reader.AttrCompDir)).uleb(uint64(reader.FormString)).
		uleb(uint64(reader.AttrLowPc)).uleb(uint64(reader.FormAddr)).
		uleb(uint64(reader.AttrHighPc)).uleb(uint64(reader.FormData4)).
		uleb(uint64(reader.AttrStmtList)).uleb(uint64(reader.FormSecOffset)).
		uleb(0).uleb(0)
	a.uleb(2).uleb(uint64(reader.TagSubProgram)).u8(1).
		uleb(uint64(reader.AttrName)).uleb(uint64(reader.FormString)).
		uleb(uint64(reader.AttrLowPc)).uleb(uint64(reader.FormAddr)).
		uleb(uint64(reader.AttrHighPc)).uleb(uint64(reader.FormData4)).
		uleb(uint64(reader.AttrFrameBase)).uleb(uint64(reader.FormExprLoc)).
		uleb(uint64(reader.AttrDeclFile)).uleb(uint64(reader.FormData1)).
		uleb(uint64(reader.AttrDeclLine)).uleb(uint64(reader.FormData1)).
		uleb(uint64(reader.AttrExternal)).uleb(uint64(reader.FormFlagPresent)).
		uleb(0).uleb(0)
	a.uleb(3).uleb(uint64(reader.TagVariable)).u8(0).
		uleb(uint64(reader.AttrName)).uleb(uint64(reader.FormString)).
		uleb(uint64(reader.AttrLocation)).uleb(uint64(reader.FormExprLoc)).
		uleb(0).uleb(0)
	a.uleb(4).uleb(uint64(reader.TagSubProgram)).u8(0).
		uleb(uint64(reader.AttrName)).uleb(uint64(reader.FormString)).
		uleb(uint64(reader.AttrDeclaration)).uleb(uint64(reader.FormFlagPresent)).
		uleb(0).uleb(0)
	a.uleb(5).uleb(uint64(reader.TagSubProgram)).u8(0).
		uleb(uint64(reader.AttrAbstractOrigin)).uleb(uint64(reader.FormRef4)).
		uleb(uint64(reader.AttrLowPc)).uleb(uint64(reader.FormAddr)).
		uleb(uint64(reader.AttrHighPc)).uleb(uint64(reader.FormData4)).
		uleb(0).uleb(0)
	return a.uleb(0).b
}

func debugInfo() []byte {
	body := (&bld{}).u16(4).u32(0).u8(8)
	body.uleb(1).str("a.c").str("/src").u64(mainLo).u32(0x100).u32(0)

	body.uleb(2).str("main").u64(mainLo).u32(0x10).
		uleb(1).u8(byte(op.OpCallFrameCfa)).
		u8(1, 2)
	body.uleb(3).str("x").uleb(2).u8(byte(op.OpFBReg), 0x68) // fbreg -24
	body.uleb(0)

	body.uleb(2).str("helper").u64(helperLo).u32(0x20).
		uleb(2).u8(byte(op.OpBReg6), 0).
		u8(1, 5)
	body.uleb(0)

	// unit relative: the 4 byte length precedes the body
	declOff := uint32(4 + len(body.b))
	body.uleb(4).str("inlined")
	body.uleb(5).u32(declOff).u64(inlineLo).u32(0x10)
	body.uleb(0)

	return (&bld{}).unit(body).b
}

// debugLine maps 0x1000 to a.c:2 and 0x1010, 0x1014 to a.c:5.
func debugLine() []byte {
	params := (&bld{}).u8(1, 1, 1, 0xfb, 14, 13).
		u8(0, 1, 1, 1, 1, 0, 0, 0, 1, 0, 0, 1).
		str("inc").u8(0).
		str("a.c").uleb(0).uleb(0).uleb(0).
		str("b.h").uleb(1).uleb(0).uleb(0).
		u8(0)
	prog := (&bld{}).
		u8(0).uleb(9).u8(byte(reader.LNESetAddress)).u64(mainLo).
		u8(19).
		u8(byte(reader.LNSAdvancePc)).uleb(0x10).
		u8(byte(reader.LNSAdvanceLine)).sleb(3).
		u8(byte(reader.LNSCopy)).
		u8(74).
		u8(byte(reader.LNSAdvancePc)).uleb(0xec).
		u8(0).uleb(1).u8(byte(reader.LNEEndSequence))
	return (&bld{}).unit((&bld{}).u16(4).u32(uint32(len(params.b))).raw(params.b).raw(prog.b)).b
}

// ehFrame describes main and helper; both push rbp in their first byte.
func ehFrame() []byte {
	cie := (&bld{}).u8(
		0, 0, 0, 0, // cie id
		1,           // version
		'z', 'R', 0, // augmentation
		1,           // code alignment
		0x78,        // data alignment -8
		byte(rip),   // return address register
		1, 0x14,     // augmentation data: udata8|pcrel
		0x0c, byte(rsp), 8, // def_cfa rsp,8
		0x80|byte(rip), 1,  // offset rip,cfa-8
	)
	b := (&bld{}).unit(cie)

	for _, fn := range [][2]uint64{{mainLo, 0x10}, {helperLo, 0x20}} {
		idOff := uint64(len(b.b)) + 4
		body := (&bld{}).u32(uint32(idOff))
		body.u64(fn[0] - ehFrameAddr - (idOff + 4))
		body.u64(fn[1])
		body.u8(
			0,                 // augmentation size
			0x41,              // advance_loc 1
			0x0e, 16,          // def_cfa_offset 16
			0x80|byte(rbp), 2, // offset rbp,cfa-16
		)
		b.unit(body)
	}
	return b.u32(0).b
}

func fixture(withHdr bool) *godwarf.Sections {
	secs := &godwarf.Sections{Arch: regnum.ArchX64}
	secs.Set(godwarf.SectionAbbrev, godwarf.Section{Data: abbrevs()})
	secs.Set(godwarf.SectionInfo, godwarf.Section{Data: debugInfo()})
	secs.Set(godwarf.SectionLine, godwarf.Section{Data: debugLine()})
	secs.Set(godwarf.SectionEhFrame, godwarf.Section{Data: ehFrame(), Addr: ehFrameAddr})
	if withHdr {
		fdes, err := frame.ParseEhFrame(ehFrame(), &frame.PtrContext{PC: ehFrameAddr}, 8)
		if err != nil {
			panic(err)
		}
		secs.Set(godwarf.SectionEhFrameHdr, godwarf.Section{
			Data: frame.BuildEhFrameHdrIndex(fdes, ehFrameAddr),
			Addr: 0x700,
		})
	}
	return secs
}

func analyze(t *testing.T, withHdr bool) *BinaryInfo {
	opts := DefaultOptions()
	opts.VerifyHdr = withHdr
	bi, err := AnalyzeSections(fixture(withHdr), opts)
	require.NoError(t, err)
	require.NoError(t, bi.Info.Diagnostics.Err())
	require.NoError(t, bi.FrameDiagnostics.Err())
	return bi
}

func TestAnalyzeFunctions(t *testing.T) {
	bi := analyze(t, false)

	require.Len(t, bi.CompileUnits, 1)
	assert.Equal(t, "a.c", bi.CompileUnits[0].Name())
	require.Len(t, bi.Functions, 3)

	type arg struct {
		pc   uint64
		name string
	}
	args := []arg{
		{mainLo, "main"},
		{mainLo + 0xf, "main"},
		{helperLo, "helper"},
		{inlineLo + 4, "inlined"},
		{0x2000, ""},
	}
	for _, arg := range args {
		fn, err := bi.PCToFunction(arg.pc)
		if arg.name == "" {
			assert.True(t, errors.Is(err, ErrNotFound))
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, arg.name, fn.Name())
	}

	mainFn, err := bi.FunctionByName("main")
	require.NoError(t, err)
	require.Len(t, mainFn.Variables(), 1)
	assert.Equal(t, "x", mainFn.Variables()[0].Name())
	assert.Equal(t, "/src/a.c", mainFn.DeclFile())
	assert.Equal(t, 2, mainFn.DeclLine())
	assert.Equal(t, uint64(mainLo+0x10), mainFn.HighPC())
}

func TestLineLookups(t *testing.T) {
	bi := analyze(t, false)

	require.Contains(t, bi.Sources, "/src/a.c")
	assert.Len(t, bi.Sources["/src/a.c"][5], 2)

	pc, err := bi.LocToPC("a.c:5")
	require.NoError(t, err)
	assert.Equal(t, uint64(helperLo), pc)

	pc, err = bi.LocToPC("helper")
	require.NoError(t, err)
	assert.Equal(t, uint64(helperLo), pc)

	_, err = bi.LocToPC("a.c:x")
	assert.Error(t, err)
	_, err = bi.FileLineToPC("/src/a.c", 99)
	assert.True(t, errors.Is(err, ErrNotFound))

	pc, err = bi.FileLineToPCForBreakpoint("/src/a.c", 5)
	require.NoError(t, err)
	assert.Equal(t, uint64(helperLo), pc)

	file, line, err := bi.PCToFileLine(0x1012)
	require.NoError(t, err)
	assert.Equal(t, "/src/a.c", file)
	assert.Equal(t, 5, line)

	_, _, err = bi.PCToFileLine(0x5000)
	assert.Error(t, err)
}

func TestPCToFDE(t *testing.T) {
	for _, withHdr := range []bool{false, true} {
		bi := analyze(t, withHdr)
		require.NotNil(t, bi.EhFrameHdr)

		fde, err := bi.PCToFDE(helperLo + 4)
		require.NoError(t, err, "hdr %v", withHdr)
		assert.Equal(t, uint64(helperLo), fde.Begin())

		_, err = bi.PCToFDE(inlineLo)
		var nofde *frame.ErrNoFDEForPC
		assert.True(t, errors.As(err, &nofde), "hdr %v", withHdr)
	}
}

type fakeMem map[uint64]uint64

func (m fakeMem) ReadMemory(addr uint64, buf []byte) (int, error) {
	v, ok := m[addr]
	if !ok {
		return 0, errors.Errorf("unmapped %#x", addr)
	}
	var b [8]byte
	le.PutUint64(b[:], v)
	return copy(buf, b[:]), nil
}

func regFile(t *testing.T, vals map[uint64]uint64) *unwind.RegisterFile {
	regs, err := unwind.NewRegisterFile(regnum.ArchX64)
	require.NoError(t, err)
	for r, v := range vals {
		regs.Set(r, v)
	}
	return regs
}

func TestBacktrace(t *testing.T) {
	bi := analyze(t, true)

	// helper has pushed rbp and returns to main at 0x1008; main's own
	// return address is zero
	regs := regFile(t, map[uint64]uint64{rip: helperLo + 8, rsp: 0x7fd0, rbp: 0x7fd0})
	mem := fakeMem{
		0x7fd0: 0x7ff0,     // saved rbp
		0x7fd8: mainLo + 8, // return into main
		0x7fe0: 0,
		0x7fe8: 0,
	}

	frames, err := bi.Backtrace(regs, mem, 0)
	require.NoError(t, err)
	require.Len(t, frames, 2)

	assert.Equal(t, "helper", frames[0].Function)
	assert.Equal(t, uint64(0x7fe0), frames[0].CFA)
	assert.Equal(t, 5, frames[0].Line)

	assert.Equal(t, "main", frames[1].Function)
	assert.Equal(t, uint64(mainLo+8), frames[1].PC)
	assert.Equal(t, uint64(0x7fe0), frames[1].SP)
	assert.Equal(t, uint64(0x7ff0), frames[1].CFA)
	assert.Equal(t, 2, frames[1].Line)
	assert.Contains(t, frames[1].String(), "in main at /src/a.c:2")

	assert.Equal(t, uint64(2), bi.Steps())
}

func TestBacktraceMissedRead(t *testing.T) {
	bi := analyze(t, false)

	regs := regFile(t, map[uint64]uint64{rip: helperLo + 8, rsp: 0x7fd0})
	frames, err := bi.Backtrace(regs, fakeMem{}, 0)
	require.Error(t, err)
	var missed *unwind.MissedReadError
	require.True(t, errors.As(err, &missed))
	assert.Len(t, frames, 1)
}

func TestBacktraceStopsWithoutFDE(t *testing.T) {
	bi := analyze(t, false)

	regs := regFile(t, map[uint64]uint64{rip: inlineLo, rsp: 0x7fd0})
	frames, err := bi.Backtrace(regs, fakeMem{}, 0)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "inlined", frames[0].Function)
}

func TestFrameBase(t *testing.T) {
	bi := analyze(t, false)

	mainFn, err := bi.FunctionByName("main")
	require.NoError(t, err)
	regs := regFile(t, map[uint64]uint64{rsp: 0x7fe0})
	fb, err := bi.FrameBase(mainFn, mainLo+4, regs, fakeMem{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7ff0), fb)

	helper, err := bi.FunctionByName("helper")
	require.NoError(t, err)
	regs = regFile(t, map[uint64]uint64{rsp: 0x7fd0, rbp: 0x7fd0})
	fb, err = bi.FrameBase(helper, helperLo+4, regs, fakeMem{})
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7fd0), fb)
}

func TestVariableLocation(t *testing.T) {
	bi := analyze(t, false)

	mainFn, err := bi.FunctionByName("main")
	require.NoError(t, err)
	regs := regFile(t, map[uint64]uint64{rsp: 0x7fe0})
	loc, err := bi.VariableLocation(mainFn, "x", mainLo+4, regs, fakeMem{})
	require.NoError(t, err)
	require.Empty(t, loc.Pieces)
	assert.Equal(t, op.Address, loc.Simple.Kind)
	assert.Equal(t, uint64(0x7ff0-24), loc.Simple.Addr)

	_, err = bi.VariableLocation(mainFn, "y", mainLo+4, regs, fakeMem{})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDump(t *testing.T) {
	bi := analyze(t, false)

	var buf bytes.Buffer
	require.NoError(t, bi.Dump(&buf, DumpOptions{Tags: true, Lines: true, Frames: true}))
	out := buf.String()
	assert.Contains(t, out, "func main")
	assert.Contains(t, out, "line /src/a.c:5 addr 0x1014")
	assert.Contains(t, out, "Variable")
	assert.Contains(t, out, "fde 1 at")
}

func TestAnalyzeEmpty(t *testing.T) {
	_, err := AnalyzeSections(&godwarf.Sections{}, DefaultOptions())
	assert.True(t, errors.Is(err, godwarf.ErrNoDebugSection))
}
