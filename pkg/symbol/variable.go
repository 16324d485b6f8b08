package symbol

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/reader"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/unwind"
	"github.com/hitzhangjie/dwunwind/pkg/log"
)

// Variable returns the variable or parameter of f called name.
func (f *Function) Variable(name string) (*reader.Tag, error) {
	for _, v := range f.variables {
		if v.Name() == name {
			return v, nil
		}
	}
	return nil, errors.Wrapf(ErrNotFound, "variable %s in %s", name, f.Name())
}

// VariableLocation evaluates DW_AT_location of the variable name of fn at
// pc. DW_OP_fbreg is served from the frame base of fn.
func (bi *BinaryInfo) VariableLocation(fn *Function, name string, pc uint64, regs *unwind.RegisterFile, mem op.MemoryReader) (op.Location, error) {
	v, err := fn.Variable(name)
	if err != nil {
		return op.Location{}, err
	}
	a := v.Attr(reader.AttrLocation)
	if a == nil {
		return op.Location{}, errors.Errorf("variable %s has no location", name)
	}

	var expr []byte
	if a.IsLocList() {
		list, err := a.LocList()
		if err != nil {
			return op.Location{}, errors.Wrapf(err, "location list of %s", name)
		}
		var ok bool
		if expr, ok = reader.FindLocation(list, pc); !ok {
			return op.Location{}, errors.Errorf("variable %s is not live at %#x", name, pc)
		}
	} else if expr, err = a.Block(); err != nil {
		return op.Location{}, errors.Wrapf(err, "location of %s", name)
	}

	cfg := &op.Config{
		AddrSize:  bi.ptrSize(),
		Memory:    mem,
		Registers: regs.Values,
	}
	if cfa, err := bi.cfa(pc, regs, mem); err == nil {
		cfg.CFA, cfg.HasCFA = cfa, true
	}
	if fb, err := bi.FrameBase(fn, pc, regs, mem); err == nil {
		cfg.FrameBase, cfg.HasFrameBase = fb, true
	} else {
		log.L().Debug("variable without frame base", zap.String("var", name), zap.Error(err))
	}
	return op.Eval(expr, cfg), nil
}
