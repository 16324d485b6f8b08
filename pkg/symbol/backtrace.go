package symbol

import (
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/unwind"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

// DefaultMaxFrames bounds Backtrace when maxFrames is not positive.
const DefaultMaxFrames = 64

// Frame is one entry of a backtrace.
type Frame struct {
	Index int
	PC    uint64
	SP    uint64
	// CFA is the canonical frame address of this frame, 0 when the
	// outermost frame could not be unwound.
	CFA      uint64
	Function string
	File     string
	Line     int
	// Regs are the registers recovered for this frame.
	Regs *unwind.RegisterFile
}

func (f Frame) String() string {
	fn := f.Function
	if fn == "" {
		fn = "??"
	}
	s := fmt.Sprintf("#%-2d %#016x in %s", f.Index, f.PC, fn)
	if f.File != "" {
		s += fmt.Sprintf(" at %s:%d", f.File, f.Line)
	}
	return s
}

// Steps returns the number of unwind steps taken over the lifetime of bi.
func (bi *BinaryInfo) Steps() uint64 {
	return bi.steps.Load()
}

// Backtrace unwinds the stack described by regs through the call frame
// information of the binary. The walk stops at the outermost frame, on a
// zero return address, when the stack stops growing or after maxFrames.
// Frames collected before a failure are returned with the error.
func (bi *BinaryInfo) Backtrace(regs *unwind.RegisterFile, mem op.MemoryReader, maxFrames int) ([]Frame, error) {
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames
	}
	pcReg, err := regnum.PC(bi.Arch)
	if err != nil {
		return nil, err
	}
	spReg, err := regnum.SP(bi.Arch)
	if err != nil {
		return nil, err
	}
	pc, ok := regs.Get(pcReg)
	if !ok {
		return nil, errors.New("program counter has no value")
	}

	var frames []Frame
	regs = regs.Clone()
	for i := 0; i < maxFrames; i++ {
		sp, _ := regs.Get(spReg)
		f := bi.describe(i, pc, sp)
		f.Regs = regs

		// a return address points after the call, look up the call itself
		lookup := pc
		if i > 0 {
			lookup--
		}
		bi.steps.Inc()
		next, err := unwind.Step(bi.Arch, bi, lookup, regs, mem, nil)
		if err != nil {
			frames = append(frames, f)
			if outermost(err) {
				log.L().Debug("backtrace reached outermost frame", zap.Int("frames", len(frames)), zap.Error(err))
				return frames, nil
			}
			return frames, errors.Wrapf(err, "unwind frame #%d at %#x", i, pc)
		}
		f.CFA = next.CFA
		frames = append(frames, f)

		if next.PC == 0 || next.SP <= sp {
			break
		}
		pc, regs = next.PC, next.Regs
	}
	return frames, nil
}

func outermost(err error) bool {
	var nofde *frame.ErrNoFDEForPC
	return errors.As(err, &nofde) || errors.Is(err, unwind.ErrUndefinedRegister)
}

func (bi *BinaryInfo) describe(i int, pc, sp uint64) Frame {
	f := Frame{Index: i, PC: pc, SP: sp}
	lookup := pc
	if i > 0 && pc > 0 {
		lookup--
	}
	if fn, err := bi.PCToFunction(lookup); err == nil {
		f.Function = fn.Name()
	}
	if file, line, err := bi.PCToFileLine(lookup); err == nil {
		f.File, f.Line = file, line
	}
	return f
}

// FrameBase evaluates DW_AT_frame_base of fn at pc. regs is the register
// file of the frame executing fn; DW_OP_call_frame_cfa is served from the
// call frame information.
func (bi *BinaryInfo) FrameBase(fn *Function, pc uint64, regs *unwind.RegisterFile, mem op.MemoryReader) (uint64, error) {
	expr, ok := fn.FrameBaseExpr(pc)
	if !ok {
		return 0, errors.Errorf("%s has no frame base at %#x", fn.Name(), pc)
	}

	cfg := &op.Config{
		AddrSize:  bi.ptrSize(),
		Memory:    mem,
		Registers: regs.Values,
	}
	if cfa, err := bi.cfa(pc, regs, mem); err == nil {
		cfg.CFA, cfg.HasCFA = cfa, true
	} else {
		log.L().Debug("frame base without cfa", zap.Uint64("pc", pc), zap.Error(err))
	}

	loc := op.Eval(expr, cfg)
	log.L().Debug("frame base", zap.String("func", fn.Name()), zap.Stringer("loc", loc))
	switch s := loc.Simple; s.Kind {
	case op.Address:
		return s.Addr, nil
	case op.Value:
		return s.Value, nil
	case op.Register:
		if v, ok := regs.Get(s.Reg); ok {
			return v, nil
		}
		return 0, errors.Errorf("frame base register %s has no value", regnum.Name(bi.Arch, s.Reg))
	}
	return 0, errors.Errorf("frame base of %s: %s", fn.Name(), loc)
}

func (bi *BinaryInfo) cfa(pc uint64, regs *unwind.RegisterFile, mem op.MemoryReader) (uint64, error) {
	_, row, err := unwind.RowForPC(bi, pc, regs.Len())
	if err != nil {
		return 0, err
	}
	spReg, err := regnum.SP(bi.Arch)
	if err != nil {
		return 0, err
	}
	sp, _ := regs.Get(spReg)
	return unwind.CFA(bi.Arch, row, regs, sp, mem, nil)
}
