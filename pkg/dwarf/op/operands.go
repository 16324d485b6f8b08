package op

import (
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// operandShape describes the operands that follow an opcode.
type operandShape uint8

const (
	opndNone     operandShape = iota
	opndU8                    // 1-byte constant
	opndS8                    // signed 1-byte constant
	opndU16                   // 2-byte constant
	opndS16                   // signed 2-byte constant or branch
	opndU32                   // 4-byte constant or tag offset
	opndS32                   // signed 4-byte constant
	opndU64                   // 8-byte constant
	opndS64                   // signed 8-byte constant
	opndAddr                  // target address
	opndULEB                  // ULEB128
	opndSLEB                  // SLEB128
	opndULEBSLEB              // ULEB128 register, SLEB128 offset
	opndULEBULEB              // two ULEB128
	opndBlock                 // ULEB128 length, bytes
	opndTypeBlock             // ULEB128 type, 1-byte length, bytes
	opndU8ULEB                // 1-byte size, ULEB128 type
	opndU32SLEB               // tag offset, SLEB128 offset
)

var operandShapes = map[Opcode]operandShape{
	OpAddr:               opndAddr,
	OpConst1U:            opndU8,
	OpConst1S:            opndS8,
	OpConst2U:            opndU16,
	OpConst2S:            opndS16,
	OpConst4U:            opndU32,
	OpConst4S:            opndS32,
	OpConst8U:            opndU64,
	OpConst8S:            opndS64,
	OpConstU:             opndULEB,
	OpConstS:             opndSLEB,
	OpPick:               opndU8,
	OpPlusUConst:         opndULEB,
	OpSkip:               opndS16,
	OpBra:                opndS16,
	OpRegX:               opndULEB,
	OpFBReg:              opndSLEB,
	OpBRegX:              opndULEBSLEB,
	OpPiece:              opndULEB,
	OpDerefSize:          opndU8,
	OpXDerefSize:         opndU8,
	OpCall2:              opndU16,
	OpCall4:              opndU32,
	OpCallRef:            opndU32,
	OpBitPiece:           opndULEBULEB,
	OpImplicitValue:      opndBlock,
	OpImplicitPointer:    opndU32SLEB,
	OpAddrx:              opndULEB,
	OpConstx:             opndULEB,
	OpEntryValue:         opndBlock,
	OpConstType:          opndTypeBlock,
	OpRegvalType:         opndULEBULEB,
	OpDerefType:          opndU8ULEB,
	OpXderefType:         opndU8ULEB,
	OpConvert:            opndULEB,
	OpReInterpret:        opndULEB,
	OpGNUImplicitPointer: opndU32SLEB,
	OpGNUEntryValue:      opndBlock,
	OpGNUConstType:       opndTypeBlock,
	OpGNURegvalType:      opndULEBULEB,
	OpGNUDerefType:       opndU8ULEB,
	OpGNUConvert:         opndULEB,
	OpGNUParameterRef:    opndU32,
	OpGNUAddrIndex:       opndULEB,
	OpGNUConstIndex:      opndULEB,
}

func shapeOf(op Opcode) operandShape {
	if op >= OpBReg0 && op <= OpBReg31 {
		return opndSLEB
	}
	return operandShapes[op]
}

// instr is one decoded operation. U holds unsigned operands in encoding
// order, S the signed one.
type instr struct {
	off   uint64
	op    Opcode
	u     [2]uint64
	s     int64
	block []byte
	next  uint64
}

// decode reads the operation at off. It returns false when the opcode is
// unknown or its operands run past the expression.
func decode(expr []byte, off uint64, addrSize int) (instr, bool) {
	in := instr{off: off}
	var b uint8
	if util.ReadU8(expr, off, &b) == 0 {
		return in, false
	}
	in.op = Opcode(b)
	if _, known := opNames[in.op]; !known {
		return in, false
	}
	cur := off + 1

	fixed := func(size int, signed bool) bool {
		var n int
		if signed {
			n = util.ReadSint(expr, cur, size, &in.s)
		} else {
			n = util.ReadUint(expr, cur, size, &in.u[0])
		}
		cur += uint64(n)
		return n != 0
	}
	uleb := func(i int) bool {
		n := util.ReadULEB128(expr, cur, &in.u[i])
		cur += uint64(n)
		return n != 0
	}
	sleb := func() bool {
		n := util.ReadSLEB128(expr, cur, &in.s)
		cur += uint64(n)
		return n != 0
	}
	block := func(size uint64) bool {
		p, ok := util.Slice(expr, cur, size)
		in.block = p
		cur += size
		return ok
	}

	ok := true
	switch shapeOf(in.op) {
	case opndU8:
		ok = fixed(1, false)
	case opndS8:
		ok = fixed(1, true)
	case opndU16:
		ok = fixed(2, false)
	case opndS16:
		ok = fixed(2, true)
	case opndU32:
		ok = fixed(4, false)
	case opndS32:
		ok = fixed(4, true)
	case opndU64:
		ok = fixed(8, false)
	case opndS64:
		ok = fixed(8, true)
	case opndAddr:
		ok = fixed(addrSize, false)
	case opndULEB:
		ok = uleb(0)
	case opndSLEB:
		ok = sleb()
	case opndULEBSLEB:
		ok = uleb(0) && sleb()
	case opndULEBULEB:
		ok = uleb(0) && uleb(1)
	case opndBlock:
		ok = uleb(0) && block(in.u[0])
	case opndTypeBlock:
		var size uint8
		if ok = uleb(0) && util.ReadU8(expr, cur, &size) != 0; ok {
			cur++
			in.u[1] = uint64(size)
			ok = block(uint64(size))
		}
	case opndU8ULEB:
		ok = fixed(1, false) && uleb(1)
	case opndU32SLEB:
		ok = fixed(4, false) && sleb()
	}
	in.next = cur
	return in, ok
}
