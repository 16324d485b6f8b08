package frame

import (
	"bytes"
	"fmt"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/log"
)

// Rule is how the caller's value of a register is recovered.
type Rule uint8

// RuleSameValue is the zero value: a register without an explicit rule
// keeps its value across the call.
const (
	RuleSameValue Rule = iota
	RuleUndefined
	RuleOffset
	RuleValOffset
	RuleRegister
	RuleExpression
	RuleValExpression
	RuleArchitectural
)

var ruleNames = [...]string{
	RuleSameValue:     "same_value",
	RuleUndefined:     "undefined",
	RuleOffset:        "offset",
	RuleValOffset:     "val_offset",
	RuleRegister:      "register",
	RuleExpression:    "expression",
	RuleValExpression: "val_expression",
	RuleArchitectural: "architectural",
}

func (r Rule) String() string {
	if int(r) < len(ruleNames) {
		return ruleNames[r]
	}
	return fmt.Sprintf("Rule(%d)", r)
}

// Cell is the rule for one register. Offset is used by the offset rules,
// Reg by RuleRegister and Expr by the expression rules.
type Cell struct {
	Rule   Rule
	Offset int64
	Reg    uint64
	Expr   []byte
}

func (c Cell) String() string {
	switch c.Rule {
	case RuleOffset:
		return fmt.Sprintf("c%+d", c.Offset)
	case RuleValOffset:
		return fmt.Sprintf("v:c%+d", c.Offset)
	case RuleRegister:
		return fmt.Sprintf("r%d", c.Reg)
	case RuleExpression:
		return fmt.Sprintf("exp[% x]", c.Expr)
	case RuleValExpression:
		return fmt.Sprintf("vexp[% x]", c.Expr)
	}
	return c.Rule.String()
}

// CFAKind says how the CFA is computed.
type CFAKind uint8

const (
	CFANone CFAKind = iota
	CFARegOff
	CFAExpr
)

// CFARule computes the canonical frame address, either Reg+Offset or the
// value of Expr.
type CFARule struct {
	Kind   CFAKind
	Reg    uint64
	Offset int64
	Expr   []byte
}

func (c CFARule) String() string {
	switch c.Kind {
	case CFARegOff:
		return fmt.Sprintf("r%d%+d", c.Reg, c.Offset)
	case CFAExpr:
		return fmt.Sprintf("exp[% x]", c.Expr)
	}
	return "none"
}

// Row is one row of the unwind table: the rules in effect from Loc on.
type Row struct {
	Loc  uint64
	CFA  CFARule
	Regs []Cell
}

// Clone returns a deep copy of the row, expressions excepted; they alias
// the section data and are never written.
func (r *Row) Clone() *Row {
	c := *r
	c.Regs = make([]Cell, len(r.Regs))
	copy(c.Regs, r.Regs)
	return &c
}

// Equal compares two rows, including Loc.
func (r *Row) Equal(o *Row) bool {
	if r.Loc != o.Loc || r.CFA.Kind != o.CFA.Kind || r.CFA.Reg != o.CFA.Reg ||
		r.CFA.Offset != o.CFA.Offset || !bytes.Equal(r.CFA.Expr, o.CFA.Expr) ||
		len(r.Regs) != len(o.Regs) {
		return false
	}
	for i := range r.Regs {
		a, b := r.Regs[i], o.Regs[i]
		if a.Rule != b.Rule || a.Offset != b.Offset || a.Reg != b.Reg || !bytes.Equal(a.Expr, b.Expr) {
			return false
		}
	}
	return true
}

func (r *Row) String() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%#x: cfa=%s", r.Loc, r.CFA)
	for i, c := range r.Regs {
		if c.Rule != RuleSameValue {
			fmt.Fprintf(&buf, " r%d=%s", i, c)
		}
	}
	return buf.String()
}

// Unwinder runs the CFI program of one FDE and yields the rows of its
// unwind table in order. Use it like a bufio.Scanner:
//
//	u, err := NewUnwinder(fde, regCount)
//	for u.NextRow() {
//		row, end := u.Row(), u.RowEnd()
//	}
//	err = u.Err()
type Unwinder struct {
	fde      *FrameDescriptionEntry
	regCount int

	initial *Row
	row     *Row
	stack   []*Row

	insts   []Instruction
	pos     int
	started bool
	end     uint64
	err     error
}

// NewUnwinder decodes the instructions of fde and its CIE and runs the CIE
// instructions to build the initial row. Registers numbered regCount or
// above make the program invalid.
func NewUnwinder(fde *FrameDescriptionEntry, regCount int) (*Unwinder, error) {
	cie := fde.CIE
	if cie == nil {
		return nil, badEntry(fde.Offset, "fde without cie")
	}
	u := &Unwinder{fde: fde, regCount: regCount}

	cieInsts, err := DecodeInstructions(cie.InitialInstructions, cie.CodeAlignmentFactor,
		cie.DataAlignmentFactor, cie.addrDecoder(cie.instrOff))
	if err != nil {
		return nil, errors.Wrap(err, "decode cie instructions")
	}
	u.insts, err = DecodeInstructions(fde.Instructions, cie.CodeAlignmentFactor,
		cie.DataAlignmentFactor, cie.addrDecoder(fde.instrOff))
	if err != nil {
		return nil, errors.Wrap(err, "decode fde instructions")
	}

	// restore in the CIE program falls back to same value
	u.initial = &Row{Loc: fde.Begin(), Regs: make([]Cell, regCount)}
	u.row = u.initial.Clone()
	for _, in := range cieInsts {
		if err := u.exec(in); err != nil {
			return nil, errors.Wrap(err, "run cie instructions")
		}
	}
	u.row.Loc = fde.Begin()
	u.initial = u.row.Clone()
	return u, nil
}

// Reset rewinds the unwinder to the initial row.
func (u *Unwinder) Reset() {
	u.row = u.initial.Clone()
	u.stack = u.stack[:0]
	u.pos, u.started, u.end, u.err = 0, false, 0, nil
}

// InitialRow returns the row built by the CIE instructions.
func (u *Unwinder) InitialRow() *Row { return u.initial }

// Row returns the current row. It is owned by the Unwinder and changes on
// the next call to NextRow.
func (u *Unwinder) Row() *Row { return u.row }

// RowEnd returns the first address past the current row.
func (u *Unwinder) RowEnd() uint64 { return u.end }

// Err returns the error that stopped NextRow, if any.
func (u *Unwinder) Err() error { return u.err }

// NextRow applies instructions up to, and not including, the next new-row
// instruction. It returns false when the program is exhausted or invalid.
func (u *Unwinder) NextRow() bool {
	if u.err != nil || (u.started && u.pos >= len(u.insts)) {
		return false
	}
	if u.started {
		// the pending new-row instruction
		if u.err = u.exec(u.insts[u.pos]); u.err != nil {
			return false
		}
		u.pos++
	}
	u.started = true

	for ; u.pos < len(u.insts); u.pos++ {
		in := u.insts[u.pos]
		if in.NewRow() {
			break
		}
		if u.err = u.exec(in); u.err != nil {
			return false
		}
	}

	u.end = u.fde.End()
	if u.pos < len(u.insts) {
		in := u.insts[u.pos]
		if in.Op == DW_CFA_set_loc {
			u.end = in.Delta
		} else {
			u.end = u.row.Loc + in.Delta
		}
	}
	return true
}

// RowForPC builds the table up to the row covering pc.
func (u *Unwinder) RowForPC(pc uint64) (*Row, error) {
	if !u.fde.Cover(pc) {
		return nil, &ErrNoFDEForPC{pc}
	}
	u.Reset()
	for u.NextRow() {
		if pc >= u.row.Loc && pc < u.end {
			return u.row.Clone(), nil
		}
		if u.row.Loc > pc {
			break
		}
	}
	if u.err != nil {
		return nil, u.err
	}
	return nil, &ErrNoFDEForPC{pc}
}

func (u *Unwinder) checkReg(in Instruction, reg uint64) error {
	if reg >= uint64(u.regCount) {
		return errors.Wrapf(ErrBadRegister, "%s at %#x: register %d of %d", in.Op, in.Off, reg, u.regCount)
	}
	return nil
}

// exec applies one instruction to the current row.
func (u *Unwinder) exec(in Instruction) error {
	ctl := in.ctl()
	if ctl&isReg0 != 0 {
		if err := u.checkReg(in, in.Reg); err != nil {
			return err
		}
	}
	if ctl&isReg1 != 0 {
		if err := u.checkReg(in, in.Reg2); err != nil {
			return err
		}
	}
	log.L().Debug("cfa instruction", zap.Stringer("inst", in), zap.Uint64("loc", u.row.Loc))

	row := u.row
	switch in.Op {
	case DW_CFA_set_loc:
		row.Loc = in.Delta
	case DW_CFA_advance_loc, DW_CFA_advance_loc1, DW_CFA_advance_loc2, DW_CFA_advance_loc4, DW_CFA_MIPS_advance_loc8:
		row.Loc += in.Delta

	case DW_CFA_def_cfa, DW_CFA_def_cfa_sf:
		row.CFA = CFARule{Kind: CFARegOff, Reg: in.Reg, Offset: in.Offset}
	case DW_CFA_def_cfa_register:
		if row.CFA.Kind != CFARegOff {
			return errors.Errorf("%s at %#x: cfa is not register based", in.Op, in.Off)
		}
		row.CFA.Reg = in.Reg
	case DW_CFA_def_cfa_offset, DW_CFA_def_cfa_offset_sf:
		if row.CFA.Kind != CFARegOff {
			return errors.Errorf("%s at %#x: cfa is not register based", in.Op, in.Off)
		}
		row.CFA.Offset = in.Offset
	case DW_CFA_def_cfa_expression:
		row.CFA = CFARule{Kind: CFAExpr, Expr: in.Expr}

	case DW_CFA_undefined:
		row.Regs[in.Reg] = Cell{Rule: RuleUndefined}
	case DW_CFA_same_value:
		row.Regs[in.Reg] = Cell{Rule: RuleSameValue}
	case DW_CFA_offset, DW_CFA_offset_extended, DW_CFA_offset_extended_sf, DW_CFA_GNU_negative_offset_extended:
		row.Regs[in.Reg] = Cell{Rule: RuleOffset, Offset: in.Offset}
	case DW_CFA_val_offset, DW_CFA_val_offset_sf:
		row.Regs[in.Reg] = Cell{Rule: RuleValOffset, Offset: in.Offset}
	case DW_CFA_register:
		row.Regs[in.Reg] = Cell{Rule: RuleRegister, Reg: in.Reg2}
	case DW_CFA_expression:
		row.Regs[in.Reg] = Cell{Rule: RuleExpression, Expr: in.Expr}
	case DW_CFA_val_expression:
		row.Regs[in.Reg] = Cell{Rule: RuleValExpression, Expr: in.Expr}
	case DW_CFA_restore, DW_CFA_restore_extended:
		row.Regs[in.Reg] = u.initial.Regs[in.Reg]

	case DW_CFA_remember_state:
		u.stack = append(u.stack, row.Clone())
	case DW_CFA_restore_state:
		if len(u.stack) == 0 {
			return errors.Errorf("%s at %#x: no remembered state", in.Op, in.Off)
		}
		saved := u.stack[len(u.stack)-1]
		u.stack = u.stack[:len(u.stack)-1]
		saved.Loc = row.Loc
		u.row = saved

	case DW_CFA_nop, DW_CFA_GNU_args_size, DW_CFA_GNU_window_save:
	}
	return nil
}
