package unwind

import (
	"encoding/binary"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

var (
	// ErrUndefinedRegister is returned when a row marks a register as
	// having no value in the caller.
	ErrUndefinedRegister = errors.New("register undefined in caller")

	// ErrNoCFA is returned for a row without a CFA rule.
	ErrNoCFA = errors.New("row has no cfa rule")
)

// MissedReadError reports the address of a failed memory read. The caller
// may map the page and retry the step.
type MissedReadError struct {
	Addr uint64
}

func (err *MissedReadError) Error() string {
	return fmt.Sprintf("missed read at %#x", err.Addr)
}

// Result is the outcome of one unwind step. On a missed read only
// MissedRead and MissedReadAddr are set.
type Result struct {
	Regs           *RegisterFile
	SP             uint64
	CFA            uint64
	MissedRead     bool
	MissedReadAddr uint64
}

// applier carries the inputs of one Apply call.
type applier struct {
	arch     regnum.Arch
	addrSize int
	regs     *RegisterFile
	mem      op.MemoryReader
	cfg      op.Config
}

// missed carries the address of a failed read.
type missed struct{ addr uint64 }

// Apply computes the caller's registers from row and the current register
// file. sp is the current stack pointer, used for the CFA when the CFA
// register is the stack pointer and the row gives it no rule of its own.
// regs is never modified; on success the new file is Result.Regs with the
// stack pointer set to the CFA. cfg is copied and may be nil; its memory
// reader and registers are replaced by mem and regs.
func Apply(arch regnum.Arch, row *frame.Row, regs *RegisterFile, sp uint64, mem op.MemoryReader, cfg *op.Config) (Result, error) {
	spReg, err := regnum.SP(arch)
	if err != nil {
		return Result{}, err
	}
	a := newApplier(arch, regs, mem, cfg)

	cfa, m, err := a.cfa(row, spReg, sp)
	if m != nil {
		return a.missedRead(m.addr)
	}
	if err != nil {
		return Result{}, err
	}
	a.cfg.CFA, a.cfg.HasCFA = cfa, true

	next := regs.Clone()
	n := len(row.Regs)
	if regs.Len() < n {
		n = regs.Len()
	}
	for i := 0; i < n; i++ {
		reg := uint64(i)
		if reg == spReg {
			continue
		}
		v, ok, m, err := a.rule(reg, row.Regs[i], cfa)
		if m != nil {
			return a.missedRead(m.addr)
		}
		if err != nil {
			return Result{}, err
		}
		if ok {
			next.Set(reg, v)
		}
	}
	next.Set(spReg, cfa)

	log.L().Debug("unwind step", zap.Uint64("cfa", cfa), zap.Stringer("row", row))
	return Result{Regs: next, SP: cfa, CFA: cfa}, nil
}

// CFA computes only the canonical frame address of row. Frame base
// expressions built on DW_OP_call_frame_cfa need it without a full step.
func CFA(arch regnum.Arch, row *frame.Row, regs *RegisterFile, sp uint64, mem op.MemoryReader, cfg *op.Config) (uint64, error) {
	spReg, err := regnum.SP(arch)
	if err != nil {
		return 0, err
	}
	a := newApplier(arch, regs, mem, cfg)
	cfa, m, err := a.cfa(row, spReg, sp)
	if m != nil {
		return 0, &MissedReadError{Addr: m.addr}
	}
	return cfa, err
}

func newApplier(arch regnum.Arch, regs *RegisterFile, mem op.MemoryReader, cfg *op.Config) *applier {
	a := &applier{arch: arch, addrSize: arch.AddrSize(), regs: regs, mem: mem}
	if cfg != nil {
		a.cfg = *cfg
	}
	a.cfg.Memory = mem
	a.cfg.Registers = regs.Values
	a.cfg.AddrSize = a.addrSize
	return a
}

func (a *applier) missedRead(addr uint64) (Result, error) {
	log.L().Debug("unwind step missed read", zap.Uint64("addr", addr))
	return Result{MissedRead: true, MissedReadAddr: addr}, &MissedReadError{Addr: addr}
}

func (a *applier) cfa(row *frame.Row, spReg, sp uint64) (uint64, *missed, error) {
	switch row.CFA.Kind {
	case frame.CFARegOff:
		reg := row.CFA.Reg
		if reg == spReg && reg < uint64(len(row.Regs)) {
			if r := row.Regs[reg].Rule; r == frame.RuleUndefined || r == frame.RuleSameValue {
				return sp + uint64(row.CFA.Offset), nil, nil
			}
		}
		v, ok := a.regs.Get(reg)
		if !ok {
			return 0, nil, errors.Errorf("cfa register %s has no value", regnum.Name(a.arch, reg))
		}
		return v + uint64(row.CFA.Offset), nil, nil
	case frame.CFAExpr:
		v, m, err := a.eval(row.CFA.Expr, nil)
		return v, m, errors.Wrap(err, "cfa expression")
	}
	return 0, nil, ErrNoCFA
}

// rule returns the caller's value of reg. ok is false when the register
// keeps its current state.
func (a *applier) rule(reg uint64, c frame.Cell, cfa uint64) (v uint64, ok bool, m *missed, err error) {
	switch c.Rule {
	case frame.RuleSameValue:
		return 0, false, nil, nil
	case frame.RuleUndefined:
		return 0, false, nil, errors.Wrapf(ErrUndefinedRegister, "%s", regnum.Name(a.arch, reg))
	case frame.RuleOffset:
		v, m = a.read(cfa + uint64(c.Offset))
		return v, m == nil, m, nil
	case frame.RuleValOffset:
		return cfa + uint64(c.Offset), true, nil, nil
	case frame.RuleRegister:
		v, ok = a.regs.Get(c.Reg)
		if !ok {
			return 0, false, nil, errors.Errorf("%s: source register %s has no value",
				regnum.Name(a.arch, reg), regnum.Name(a.arch, c.Reg))
		}
		return v, true, nil, nil
	case frame.RuleExpression, frame.RuleValExpression:
		addr, m, err := a.eval(c.Expr, []uint64{cfa})
		if m != nil || err != nil {
			return 0, false, m, errors.Wrapf(err, "%s", regnum.Name(a.arch, reg))
		}
		if c.Rule == frame.RuleValExpression {
			return addr, true, nil, nil
		}
		v, m = a.read(addr)
		return v, m == nil, m, nil
	}
	return 0, false, nil, errors.Errorf("%s: unsupported rule %s", regnum.Name(a.arch, reg), c.Rule)
}

// eval runs a CFI expression and returns the value it leaves, either an
// address or a stack value.
func (a *applier) eval(expr []byte, stack []uint64) (uint64, *missed, error) {
	cfg := a.cfg
	cfg.Stack = stack
	loc := op.Eval(expr, &cfg)
	if len(loc.Pieces) != 0 && !loc.Failed() {
		return 0, nil, errors.New("composite location")
	}
	switch s := loc.Simple; s.Kind {
	case op.Address:
		return s.Addr, nil, nil
	case op.Value:
		return s.Value, nil, nil
	case op.Fail:
		if s.Fail == op.MissingMemory {
			return 0, &missed{s.FailAddr}, nil
		}
		return 0, nil, errors.Errorf("expression failed: %s", s)
	default:
		return 0, nil, errors.Errorf("expression gave %s", s)
	}
}

// read loads an address sized little-endian word.
func (a *applier) read(addr uint64) (uint64, *missed) {
	if a.mem == nil {
		return 0, &missed{addr}
	}
	var buf [8]byte
	n, err := a.mem.ReadMemory(addr, buf[:a.addrSize])
	if err != nil || n != a.addrSize {
		return 0, &missed{addr}
	}
	return binary.LittleEndian.Uint64(buf[:]), nil
}
