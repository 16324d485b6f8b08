package op

import (
	"strings"
)

// Flags summarizes what an expression needs in order to be evaluated.
type Flags uint32

const (
	UsesTextBase Flags = 1 << iota
	UsesMemory
	UsesRegisters
	UsesFrameBase
	UsesObjectAddress
	UsesTLSAddress
	UsesCFA
	UsesCallResolution
	UsesComposite
)

const (
	FlagNotSupported Flags = 1 << (16 + iota)
	FlagBadData
	NonLinearFlow
)

var flagNames = []struct {
	f    Flags
	name string
}{
	{UsesTextBase, "text-base"},
	{UsesMemory, "memory"},
	{UsesRegisters, "registers"},
	{UsesFrameBase, "frame-base"},
	{UsesObjectAddress, "object-address"},
	{UsesTLSAddress, "tls-address"},
	{UsesCFA, "cfa"},
	{UsesCallResolution, "call-resolution"},
	{UsesComposite, "composite"},
	{FlagNotSupported, "not-supported"},
	{FlagBadData, "bad-data"},
	{NonLinearFlow, "non-linear-flow"},
}

func (f Flags) String() string {
	var parts []string
	for _, n := range flagNames {
		if f&n.f != 0 {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Analyze walks expr without evaluating it and reports the inputs it
// uses. Targets of call2/call4 are resolved through calls, when non-nil,
// and analyzed once each. Branches are not followed: every operation of
// every reachable body is inspected in order.
func Analyze(expr []byte, calls CallResolver) Flags {
	var flags Flags
	tasks := [][]byte{expr}
	seen := map[uint64]bool{}

	for len(tasks) > 0 {
		body := tasks[len(tasks)-1]
		tasks = tasks[:len(tasks)-1]

		implicit := false
		for off := uint64(0); off < uint64(len(body)); {
			in, ok := decode(body, off, 8)
			if !ok {
				if _, known := opNames[in.op]; !known {
					return flags | FlagNotSupported
				}
				return flags | FlagBadData
			}
			if implicit && in.op != OpPiece && in.op != OpBitPiece {
				return flags | FlagBadData
			}
			off = in.next

			op := in.op
			switch {
			case op >= OpReg0 && op <= OpReg31, op == OpRegX, op == OpImplicitValue, op == OpStackValue:
				implicit = true
			case op >= OpBReg0 && op <= OpBReg31, op == OpBRegX:
				flags |= UsesRegisters
			}

			switch op {
			case OpAddr:
				if Opcode(byteAt(body, in.next)) != OpGNUPushTlsAddress {
					flags |= UsesTextBase
				}
			case OpAddrx, OpGNUAddrIndex:
				flags |= UsesTextBase
			case OpFBReg:
				flags |= UsesFrameBase
			case OpDeref, OpDerefSize:
				flags |= UsesMemory
			case OpPushObjectAddress:
				flags |= UsesObjectAddress
			case OpFormTlsAddress, OpGNUPushTlsAddress:
				flags |= UsesTLSAddress
			case OpCallFrameCfa:
				flags |= UsesCFA
			case OpSkip, OpBra:
				flags |= NonLinearFlow
			case OpCall2, OpCall4:
				flags |= UsesCallResolution | NonLinearFlow
				if calls != nil && !seen[in.u[0]] {
					seen[in.u[0]] = true
					if sub, ok := calls.ResolveCall(in.u[0]); ok {
						tasks = append(tasks, sub)
					}
				}
			case OpPiece, OpBitPiece:
				flags |= UsesComposite
				implicit = false
			case OpXDeref, OpXDerefSize, OpCallRef:
				return flags | FlagNotSupported
			default:
				if !evaluates(op) {
					return flags | FlagNotSupported
				}
			}
		}
	}
	return flags
}

// evaluates reports whether Eval implements op.
func evaluates(op Opcode) bool {
	switch {
	case op >= OpLit0 && op <= OpLit31, op >= OpReg0 && op <= OpReg31, op >= OpBReg0 && op <= OpBReg31:
		return true
	}
	switch op {
	case OpConst1U, OpConst1S, OpConst2U, OpConst2S, OpConst4U, OpConst4S, OpConst8U, OpConst8S,
		OpConstU, OpConstS, OpConstx, OpGNUConstIndex,
		OpDup, OpDrop, OpOver, OpPick, OpSwap, OpRot,
		OpAbs, OpAnd, OpDiv, OpMinus, OpMod, OpMul, OpNeg, OpNot, OpOr, OpPlus, OpPlusUConst,
		OpShl, OpShr, OpShra, OpXor, OpEq, OpGe, OpGt, OpLe, OpLt, OpNe,
		OpNop, OpBRegX, OpRegX, OpImplicitValue, OpStackValue:
		return true
	}
	return false
}
