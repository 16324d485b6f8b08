package unwind

import (
	"github.com/pkg/errors"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
)

// FDEFinder returns the FDE covering pc. frame.FrameDescriptionEntries
// satisfies it.
type FDEFinder interface {
	FDEForPC(pc uint64) (*frame.FrameDescriptionEntry, error)
}

// Frame is the caller frame recovered by Step.
type Frame struct {
	Result
	// PC is the return address, taken from the CIE's return address
	// column.
	PC uint64
	// Row is the unwind row that was applied.
	Row *frame.Row
}

// Step unwinds one frame. pc selects the row; for frames other than the
// innermost one callers usually pass the return address minus one so
// that a call ending a function still maps to it. regs must hold at
// least the stack pointer.
func Step(arch regnum.Arch, fdes FDEFinder, pc uint64, regs *RegisterFile, mem op.MemoryReader, cfg *op.Config) (*Frame, error) {
	fde, row, err := RowForPC(fdes, pc, regs.Len())
	if err != nil {
		return nil, err
	}

	spReg, err := regnum.SP(arch)
	if err != nil {
		return nil, err
	}
	sp, ok := regs.Get(spReg)
	if !ok {
		return nil, errors.New("stack pointer has no value")
	}

	res, err := Apply(arch, row, regs, sp, mem, cfg)
	if err != nil {
		return &Frame{Result: res, Row: row}, err
	}

	ra := fde.CIE.ReturnAddressRegister
	retaddr, ok := res.Regs.Get(ra)
	if !ok {
		return nil, errors.Errorf("return address column %s has no value", regnum.Name(arch, ra))
	}
	if pcReg, err := regnum.PC(arch); err == nil {
		res.Regs.Set(pcReg, retaddr)
	}
	return &Frame{Result: res, PC: retaddr, Row: row}, nil
}

// RowForPC finds the FDE covering pc and builds its unwind row for pc.
func RowForPC(fdes FDEFinder, pc uint64, regCount int) (*frame.FrameDescriptionEntry, *frame.Row, error) {
	fde, err := fdes.FDEForPC(pc)
	if err != nil {
		return nil, nil, err
	}
	u, err := frame.NewUnwinder(fde, regCount)
	if err != nil {
		return nil, nil, err
	}
	row, err := u.RowForPC(pc)
	if err != nil {
		return nil, nil, err
	}
	return fde, row, nil
}
