package frame

import (
	"fmt"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// Opcode is a call frame instruction. The three primary opcodes keep only
// their high two bits; the operand in the low six bits is decoded into the
// Instruction.
type Opcode uint8

const (
	DW_CFA_advance_loc                  Opcode = (0x1 << 6) // High 2 bits: 0x1, low 6: delta
	DW_CFA_offset                       Opcode = (0x2 << 6) // High 2 bits: 0x2, low 6: register
	DW_CFA_restore                      Opcode = (0x3 << 6) // High 2 bits: 0x3, low 6: register
	DW_CFA_nop                          Opcode = 0x00       // No ops
	DW_CFA_set_loc                      Opcode = 0x01       // op1: address
	DW_CFA_advance_loc1                 Opcode = 0x02       // op1: 1-bytes delta
	DW_CFA_advance_loc2                 Opcode = 0x03       // op1: 2-byte delta
	DW_CFA_advance_loc4                 Opcode = 0x04       // op1: 4-byte delta
	DW_CFA_offset_extended              Opcode = 0x05       // op1: ULEB128 register, op2: ULEB128 offset
	DW_CFA_restore_extended             Opcode = 0x06       // op1: ULEB128 register
	DW_CFA_undefined                    Opcode = 0x07       // op1: ULEB128 register
	DW_CFA_same_value                   Opcode = 0x08       // op1: ULEB128 register
	DW_CFA_register                     Opcode = 0x09       // op1: ULEB128 register, op2: ULEB128 register
	DW_CFA_remember_state               Opcode = 0x0a       // No ops
	DW_CFA_restore_state                Opcode = 0x0b       // No ops
	DW_CFA_def_cfa                      Opcode = 0x0c       // op1: ULEB128 register, op2: ULEB128 offset
	DW_CFA_def_cfa_register             Opcode = 0x0d       // op1: ULEB128 register
	DW_CFA_def_cfa_offset               Opcode = 0x0e       // op1: ULEB128 offset
	DW_CFA_def_cfa_expression           Opcode = 0x0f       // op1: BLOCK
	DW_CFA_expression                   Opcode = 0x10       // op1: ULEB128 register, op2: BLOCK
	DW_CFA_offset_extended_sf           Opcode = 0x11       // op1: ULEB128 register, op2: SLEB128 offset
	DW_CFA_def_cfa_sf                   Opcode = 0x12       // op1: ULEB128 register, op2: SLEB128 offset
	DW_CFA_def_cfa_offset_sf            Opcode = 0x13       // op1: SLEB128 offset
	DW_CFA_val_offset                   Opcode = 0x14       // op1: ULEB128, op2: ULEB128
	DW_CFA_val_offset_sf                Opcode = 0x15       // op1: ULEB128, op2: SLEB128
	DW_CFA_val_expression               Opcode = 0x16       // op1: ULEB128, op2: BLOCK
	DW_CFA_MIPS_advance_loc8            Opcode = 0x1d       // op1: 8-byte delta
	DW_CFA_GNU_window_save              Opcode = 0x2d       // No ops
	DW_CFA_GNU_args_size                Opcode = 0x2e       // op1: ULEB128 size
	DW_CFA_GNU_negative_offset_extended Opcode = 0x2f       // op1: ULEB128 register, op2: ULEB128 offset
)

var cfaNames = map[Opcode]string{
	DW_CFA_advance_loc:                  "DW_CFA_advance_loc",
	DW_CFA_offset:                       "DW_CFA_offset",
	DW_CFA_restore:                      "DW_CFA_restore",
	DW_CFA_nop:                          "DW_CFA_nop",
	DW_CFA_set_loc:                      "DW_CFA_set_loc",
	DW_CFA_advance_loc1:                 "DW_CFA_advance_loc1",
	DW_CFA_advance_loc2:                 "DW_CFA_advance_loc2",
	DW_CFA_advance_loc4:                 "DW_CFA_advance_loc4",
	DW_CFA_offset_extended:              "DW_CFA_offset_extended",
	DW_CFA_restore_extended:             "DW_CFA_restore_extended",
	DW_CFA_undefined:                    "DW_CFA_undefined",
	DW_CFA_same_value:                   "DW_CFA_same_value",
	DW_CFA_register:                     "DW_CFA_register",
	DW_CFA_remember_state:               "DW_CFA_remember_state",
	DW_CFA_restore_state:                "DW_CFA_restore_state",
	DW_CFA_def_cfa:                      "DW_CFA_def_cfa",
	DW_CFA_def_cfa_register:             "DW_CFA_def_cfa_register",
	DW_CFA_def_cfa_offset:               "DW_CFA_def_cfa_offset",
	DW_CFA_def_cfa_expression:           "DW_CFA_def_cfa_expression",
	DW_CFA_expression:                   "DW_CFA_expression",
	DW_CFA_offset_extended_sf:           "DW_CFA_offset_extended_sf",
	DW_CFA_def_cfa_sf:                   "DW_CFA_def_cfa_sf",
	DW_CFA_def_cfa_offset_sf:            "DW_CFA_def_cfa_offset_sf",
	DW_CFA_val_offset:                   "DW_CFA_val_offset",
	DW_CFA_val_offset_sf:                "DW_CFA_val_offset_sf",
	DW_CFA_val_expression:               "DW_CFA_val_expression",
	DW_CFA_MIPS_advance_loc8:            "DW_CFA_MIPS_advance_loc8",
	DW_CFA_GNU_window_save:              "DW_CFA_GNU_window_save",
	DW_CFA_GNU_args_size:                "DW_CFA_GNU_args_size",
	DW_CFA_GNU_negative_offset_extended: "DW_CFA_GNU_negative_offset_extended",
}

func (op Opcode) String() string {
	if s, ok := cfaNames[op]; ok {
		return s
	}
	return fmt.Sprintf("DW_CFA_unknown(%#x)", uint8(op))
}

// controlBits packs the operand shapes of an opcode: two operand decoders
// in the low nibbles, which operands are registers, and whether the opcode
// starts a new row.
type controlBits uint16

const (
	dec1Mask controlBits = 0x00f
	dec2Mask controlBits = 0x0f0
	isReg0   controlBits = 0x100
	isReg1   controlBits = 0x200
	newRow   controlBits = 0x800
)

// operand decoders; 1, 2, 4 and 8 are literal byte sizes
const (
	decNone    controlBits = 0x0
	decAddress controlBits = 0x9
	decULEB    controlBits = 0xa
	decSLEB    controlBits = 0xb
	decBlock   controlBits = 0xc
)

// The primary opcodes carry their first operand in the low six bits, so
// their decoders describe the remaining operands only.
var controlTable = map[Opcode]controlBits{
	DW_CFA_advance_loc:                  newRow,
	DW_CFA_offset:                       decULEB | isReg0,
	DW_CFA_restore:                      isReg0,
	DW_CFA_nop:                          decNone,
	DW_CFA_set_loc:                      decAddress | newRow,
	DW_CFA_advance_loc1:                 1 | newRow,
	DW_CFA_advance_loc2:                 2 | newRow,
	DW_CFA_advance_loc4:                 4 | newRow,
	DW_CFA_offset_extended:              decULEB | decULEB<<4 | isReg0,
	DW_CFA_restore_extended:             decULEB | isReg0,
	DW_CFA_undefined:                    decULEB | isReg0,
	DW_CFA_same_value:                   decULEB | isReg0,
	DW_CFA_register:                     decULEB | decULEB<<4 | isReg0 | isReg1,
	DW_CFA_remember_state:               decNone,
	DW_CFA_restore_state:                decNone,
	DW_CFA_def_cfa:                      decULEB | decULEB<<4 | isReg0,
	DW_CFA_def_cfa_register:             decULEB | isReg0,
	DW_CFA_def_cfa_offset:               decULEB,
	DW_CFA_def_cfa_expression:           decBlock,
	DW_CFA_expression:                   decULEB | decBlock<<4 | isReg0,
	DW_CFA_offset_extended_sf:           decULEB | decSLEB<<4 | isReg0,
	DW_CFA_def_cfa_sf:                   decULEB | decSLEB<<4 | isReg0,
	DW_CFA_def_cfa_offset_sf:            decSLEB,
	DW_CFA_val_offset:                   decULEB | decULEB<<4 | isReg0,
	DW_CFA_val_offset_sf:                decULEB | decSLEB<<4 | isReg0,
	DW_CFA_val_expression:               decULEB | decBlock<<4 | isReg0,
	DW_CFA_MIPS_advance_loc8:            8 | newRow,
	DW_CFA_GNU_window_save:              decNone,
	DW_CFA_GNU_args_size:                decULEB,
	DW_CFA_GNU_negative_offset_extended: decULEB | decULEB<<4 | isReg0,
}

// Instruction is a decoded call frame instruction. Deltas are already
// multiplied by the code alignment factor and factored offsets by the data
// alignment factor.
type Instruction struct {
	Off    uint64
	Op     Opcode
	Reg    uint64
	Reg2   uint64
	Delta  uint64 // advance amount, or the target address of set_loc
	Offset int64
	Expr   []byte
}

func (in Instruction) ctl() controlBits { return controlTable[in.Op] }

// NewRow reports whether the instruction moves the location forward.
func (in Instruction) NewRow() bool { return in.ctl()&newRow != 0 }

func (in Instruction) String() string {
	s := fmt.Sprintf("%04x: %s", in.Off, in.Op)
	switch in.Op {
	case DW_CFA_set_loc:
		return s + fmt.Sprintf(" %#x", in.Delta)
	case DW_CFA_advance_loc, DW_CFA_advance_loc1, DW_CFA_advance_loc2, DW_CFA_advance_loc4, DW_CFA_MIPS_advance_loc8:
		return s + fmt.Sprintf(" +%d", in.Delta)
	case DW_CFA_def_cfa_expression:
		return s + fmt.Sprintf(" [% x]", in.Expr)
	case DW_CFA_def_cfa_offset, DW_CFA_def_cfa_offset_sf, DW_CFA_GNU_args_size:
		return s + fmt.Sprintf(" %d", in.Offset)
	case DW_CFA_register:
		return s + fmt.Sprintf(" r%d r%d", in.Reg, in.Reg2)
	case DW_CFA_expression, DW_CFA_val_expression:
		return s + fmt.Sprintf(" r%d [% x]", in.Reg, in.Expr)
	}
	ctl := in.ctl()
	if ctl&isReg0 == 0 {
		return s
	}
	s += fmt.Sprintf(" r%d", in.Reg)
	if ctl&dec2Mask != 0 || in.Op == DW_CFA_offset {
		s += fmt.Sprintf(" %d", in.Offset)
	}
	return s
}

// DecodeInstructions decodes a CIE or FDE instruction stream. On malformed
// input it returns the instructions decoded so far with the error.
func DecodeInstructions(data []byte, codeAlign uint64, dataAlign int64, addr AddrDecoder) ([]Instruction, error) {
	var insts []Instruction
	for off := uint64(0); off < uint64(len(data)); {
		in, n, err := decodeInstruction(data, off, codeAlign, dataAlign, addr)
		if err != nil {
			return insts, err
		}
		insts = append(insts, in)
		off += n
	}
	return insts, nil
}

func decodeInstruction(data []byte, off uint64, codeAlign uint64, dataAlign int64, addr AddrDecoder) (Instruction, uint64, error) {
	in := Instruction{Off: off}
	b := data[off]
	cur := off + 1

	var (
		opnd [2]uint64
		nops int
	)
	if hi := Opcode(b & 0xc0); hi != 0 {
		in.Op = hi
		opnd[0] = uint64(b & 0x3f)
		nops = 1
	} else {
		in.Op = Opcode(b)
	}
	ctl, ok := controlTable[in.Op]
	if !ok {
		return in, 0, badEntry(off, "unknown cfa opcode %#x", b)
	}

	for _, dec := range []controlBits{ctl & dec1Mask, (ctl & dec2Mask) >> 4} {
		if dec == decNone {
			continue
		}
		var n int
		switch dec {
		case 1, 2, 4, 8:
			n = util.ReadUint(data, cur, int(dec), &opnd[nops])
		case decAddress:
			if addr == nil {
				n = util.ReadUint(data, cur, 8, &opnd[nops])
			} else {
				n = addr(data, cur, &opnd[nops])
			}
		case decULEB:
			n = util.ReadULEB128(data, cur, &opnd[nops])
		case decSLEB:
			var v int64
			n = util.ReadSLEB128(data, cur, &v)
			opnd[nops] = uint64(v)
		case decBlock:
			var size uint64
			if n = util.ReadULEB128(data, cur, &size); n != 0 {
				blk, ok := util.Slice(data, cur+uint64(n), size)
				if !ok {
					n = 0
					break
				}
				in.Expr = blk
				n += int(size)
			}
		}
		if n == 0 {
			return in, 0, badEntry(off, "truncated %s", in.Op)
		}
		cur += uint64(n)
		nops++
	}

	factored := int64(opnd[1]) * dataAlign
	switch in.Op {
	case DW_CFA_advance_loc, DW_CFA_advance_loc1, DW_CFA_advance_loc2, DW_CFA_advance_loc4, DW_CFA_MIPS_advance_loc8:
		in.Delta = opnd[0] * codeAlign
	case DW_CFA_set_loc:
		in.Delta = opnd[0]
	case DW_CFA_def_cfa_offset, DW_CFA_GNU_args_size:
		in.Offset = int64(opnd[0])
	case DW_CFA_def_cfa_offset_sf:
		in.Offset = int64(opnd[0]) * dataAlign
	case DW_CFA_def_cfa:
		in.Reg, in.Offset = opnd[0], int64(opnd[1])
	case DW_CFA_register:
		in.Reg, in.Reg2 = opnd[0], opnd[1]
	case DW_CFA_GNU_negative_offset_extended:
		in.Reg, in.Offset = opnd[0], -factored
	default:
		in.Reg, in.Offset = opnd[0], factored
	}
	return in, cur - off, nil
}
