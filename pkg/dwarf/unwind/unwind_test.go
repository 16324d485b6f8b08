package unwind

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
)

const (
	rbp = regnum.X64Rbp
	rsp = regnum.X64Rsp
	rip = regnum.X64Rip
)

var le = binary.LittleEndian

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

func newRegs(t *testing.T, vals map[uint64]uint64) *RegisterFile {
	regs, err := NewRegisterFile(regnum.ArchX64)
	require.NoError(t, err)
	for r, v := range vals {
		regs.Set(r, v)
	}
	return regs
}

func newRow(t *testing.T, cfa frame.CFARule, cells map[uint64]frame.Cell) *frame.Row {
	n, err := regnum.RegCount(regnum.ArchX64)
	require.NoError(t, err)
	row := &frame.Row{CFA: cfa, Regs: make([]frame.Cell, n)}
	for r, c := range cells {
		row.Regs[r] = c
	}
	return row
}

func regOff(reg uint64, off int64) frame.CFARule {
	return frame.CFARule{Kind: frame.CFARegOff, Reg: reg, Offset: off}
}

func TestApplyRules(t *testing.T) {
	mem := fakeMem{0x7ff8: 0x401000, 0x7ff0: 0x8000}

	type arg struct {
		name  string
		cells map[uint64]frame.Cell
		reg   uint64
		want  uint64
	}
	args := []arg{
		{"offset", map[uint64]frame.Cell{rip: {Rule: frame.RuleOffset, Offset: -8}}, rip, 0x401000},
		{"val_offset", map[uint64]frame.Cell{3: {Rule: frame.RuleValOffset, Offset: -32}}, 3, 0x7fe0},
		{"register", map[uint64]frame.Cell{3: {Rule: frame.RuleRegister, Reg: rbp}}, 3, 0x9000},
		{"same_value", nil, rbp, 0x9000},
		// cfa is on the stack: cfa-16
		{"expression", map[uint64]frame.Cell{rbp: {Rule: frame.RuleExpression,
			Expr: []byte{byte(op.OpConst1U), 16, byte(op.OpMinus)}}}, rbp, 0x8000},
		{"val_expression", map[uint64]frame.Cell{3: {Rule: frame.RuleValExpression,
			Expr: []byte{byte(op.OpConst1U), 1, byte(op.OpPlus)}}}, 3, 0x8001},
	}

	for _, arg := range args {
		t.Run(arg.name, func(t *testing.T) {
			regs := newRegs(t, map[uint64]uint64{rsp: 0x7fe8, rbp: 0x9000})
			row := newRow(t, regOff(rsp, 24), arg.cells)

			res, err := Apply(regnum.ArchX64, row, regs, 0x7fe8, mem, nil)
			require.NoError(t, err)
			assert.False(t, res.MissedRead)
			assert.Equal(t, uint64(0x8000), res.CFA)
			assert.Equal(t, uint64(0x8000), res.SP)

			v, ok := res.Regs.Get(arg.reg)
			assert.True(t, ok)
			assert.Equal(t, arg.want, v)

			sp, _ := res.Regs.Get(rsp)
			assert.Equal(t, uint64(0x8000), sp)
		})
	}
}

func TestApplyMissedRead(t *testing.T) {
	regs := newRegs(t, map[uint64]uint64{rsp: 0x7fe8, rbp: 0x9000})
	before := regs.Clone()
	row := newRow(t, regOff(rsp, 24), map[uint64]frame.Cell{
		rbp: {Rule: frame.RuleOffset, Offset: -16},
	})

	res, err := Apply(regnum.ArchX64, row, regs, 0x7fe8, fakeMem{}, nil)
	require.Error(t, err)
	var missed *MissedReadError
	require.True(t, errors.As(err, &missed))
	assert.Equal(t, uint64(0x7ff0), missed.Addr)
	assert.True(t, res.MissedRead)
	assert.Equal(t, uint64(0x7ff0), res.MissedReadAddr)
	assert.Nil(t, res.Regs)
	assert.Equal(t, before, regs)
}

func TestApplyMissedReadInExpression(t *testing.T) {
	regs := newRegs(t, map[uint64]uint64{rsp: 0x7fe8})
	cfa := frame.CFARule{Kind: frame.CFAExpr, Expr: []byte{
		byte(op.OpBReg0 + rsp), 0, // rsp+0
		byte(op.OpDeref),
	}}
	res, err := Apply(regnum.ArchX64, newRow(t, cfa, nil), regs, 0x7fe8, fakeMem{}, nil)
	require.Error(t, err)
	assert.True(t, res.MissedRead)
	assert.Equal(t, uint64(0x7fe8), res.MissedReadAddr)
}

func TestApplyStackPointerFromParam(t *testing.T) {
	// the register file holds a stale stack pointer; the sp argument wins
	regs := newRegs(t, map[uint64]uint64{rsp: 0x1111})
	row := newRow(t, regOff(rsp, 8), nil)

	res, err := Apply(regnum.ArchX64, row, regs, 0x7000, fakeMem{}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x7008), res.CFA)

	// with a rule of its own the register file value is used
	row = newRow(t, regOff(rsp, 8), map[uint64]frame.Cell{rsp: {Rule: frame.RuleValOffset}})
	res, err = Apply(regnum.ArchX64, row, regs, 0x7000, fakeMem{}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x1119), res.CFA)
}

func TestApplyErrors(t *testing.T) {
	regs := newRegs(t, map[uint64]uint64{rsp: 0x7000})

	_, err := Apply(regnum.ArchX64, newRow(t, regOff(rsp, 8), map[uint64]frame.Cell{
		rbp: {Rule: frame.RuleUndefined},
	}), regs, 0x7000, fakeMem{}, nil)
	assert.True(t, errors.Is(err, ErrUndefinedRegister))

	_, err = Apply(regnum.ArchX64, newRow(t, frame.CFARule{}, nil), regs, 0x7000, fakeMem{}, nil)
	assert.True(t, errors.Is(err, ErrNoCFA))

	// cfa register without a value
	_, err = Apply(regnum.ArchX64, newRow(t, regOff(rbp, 16), nil), regs, 0x7000, fakeMem{}, nil)
	assert.Error(t, err)

	_, err = Apply(regnum.ArchX64, newRow(t, regOff(rsp, 8), map[uint64]frame.Cell{
		rbp: {Rule: frame.RuleArchitectural},
	}), regs, 0x7000, fakeMem{}, nil)
	assert.Error(t, err)
}

const (
	ehFrameAddr = 0x1000
	fnBegin     = 0x2000
	fnSize      = 0x20
)

// ehFrame describes a function that pushes rbp in its first byte.
func ehFrame() []byte {
	cie := []byte{
		0, 0, 0, 0,          // cie id
		1,                   // version
		'z', 'R', 0,         // augmentation
		1,                   // code alignment
		0x78,                // data alignment -8
		byte(rip),           // return address register
		1, 0x14,             // augmentation data: udata8|pcrel
		0x0c, byte(rsp), 8,  // def_cfa rsp,8
		0x80 | byte(rip), 1, // offset rip,cfa-8
	}
	b := le.AppendUint32(nil, uint32(len(cie)))
	b = append(b, cie...)

	fdeOff := uint64(len(b))
	body := le.AppendUint32(nil, uint32(fdeOff+4))
	pcField := fdeOff + 8
	body = le.AppendUint64(body, fnBegin-ehFrameAddr-pcField)
	body = le.AppendUint64(body, fnSize)
	body = append(body,
		0,                   // augmentation size
		0x41,                // advance_loc 1
		0x0e, 16,            // def_cfa_offset 16
		0x80 | byte(rbp), 2, // offset rbp,cfa-16
	)
	b = le.AppendUint32(b, uint32(len(body)))
	b = append(b, body...)
	return le.AppendUint32(b, 0)
}

func TestStep(t *testing.T) {
	fdes, err := frame.ParseEhFrame(ehFrame(), &frame.PtrContext{PC: ehFrameAddr}, 8)
	require.NoError(t, err)
	require.Len(t, fdes, 1)

	type arg struct {
		pc      uint64
		sp      uint64
		wantPC  uint64
		wantSP  uint64
		wantRBP uint64
	}
	mem := fakeMem{
		0x7ff8: 0x401234, // return address
		0x7ff0: 0x7f00,   // saved rbp
	}
	args := []arg{
		// at entry only the return address is on the stack
		{fnBegin, 0x7ff8, 0x401234, 0x8000, 0x5555},
		// after push rbp
		{fnBegin + 4, 0x7ff0, 0x401234, 0x8000, 0x7f00},
	}
	for _, arg := range args {
		regs := newRegs(t, map[uint64]uint64{rsp: arg.sp, rbp: 0x5555, rip: arg.pc})
		f, err := Step(regnum.ArchX64, fdes, arg.pc, regs, mem, nil)
		require.NoError(t, err, "pc %#x", arg.pc)
		assert.Equal(t, arg.wantPC, f.PC)
		assert.Equal(t, arg.wantSP, f.SP)

		v, _ := f.Regs.Get(rbp)
		assert.Equal(t, arg.wantRBP, v)
		v, _ = f.Regs.Get(rip)
		assert.Equal(t, arg.wantPC, v)
	}

	regs := newRegs(t, map[uint64]uint64{rsp: 0x7ff8})
	_, err = Step(regnum.ArchX64, fdes, fnBegin+fnSize, regs, mem, nil)
	assert.Error(t, err)
}

func TestStepMissedRead(t *testing.T) {
	fdes, err := frame.ParseEhFrame(ehFrame(), &frame.PtrContext{PC: ehFrameAddr}, 8)
	require.NoError(t, err)

	regs := newRegs(t, map[uint64]uint64{rsp: 0x7ff8})
	f, err := Step(regnum.ArchX64, fdes, fnBegin, regs, fakeMem{}, nil)
	var missed *MissedReadError
	require.True(t, errors.As(err, &missed))
	assert.Equal(t, uint64(0x7ff8), missed.Addr)
	assert.True(t, f.MissedRead)
}

func TestRegisterFile(t *testing.T) {
	regs := newRegs(t, map[uint64]uint64{rsp: 0x10})
	_, ok := regs.Get(rbp)
	assert.False(t, ok)
	_, ok = regs.Get(1 << 20)
	assert.False(t, ok)
	regs.Set(1<<20, 1)

	c := regs.Clone()
	c.Set(rsp, 0x20)
	v, _ := regs.Get(rsp)
	assert.Equal(t, uint64(0x10), v)
	assert.Equal(t, "rsp=0x10", regs.Format(regnum.ArchX64))
}

func TestCFA(t *testing.T) {
	fdes, err := frame.ParseEhFrame(ehFrame(), &frame.PtrContext{PC: ehFrameAddr}, 8)
	require.NoError(t, err)

	regs := newRegs(t, map[uint64]uint64{rsp: 0x7ff0})
	_, row, err := RowForPC(fdes, fnBegin+2, regs.Len())
	require.NoError(t, err)
	cfa, err := CFA(regnum.ArchX64, row, regs, 0x7ff0, fakeMem{}, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(0x8000), cfa)
}
