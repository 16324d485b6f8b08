package frame

import (
	"fmt"
	"strings"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/util"
)

// PtrEnc is a DW_EH_PE pointer encoding byte: a value type in the low
// nibble, a relocation modifier in bits 4-6 and the indirect flag.
type PtrEnc uint8

const (
	PtrEncAbs    PtrEnc = 0x00 // pointer sized unsigned value
	PtrEncUleb   PtrEnc = 0x01
	PtrEncUdata2 PtrEnc = 0x02
	PtrEncUdata4 PtrEnc = 0x03
	PtrEncUdata8 PtrEnc = 0x04
	PtrEncSigned PtrEnc = 0x08 // pointer sized signed value
	PtrEncSleb   PtrEnc = 0x09
	PtrEncSdata2 PtrEnc = 0x0a
	PtrEncSdata4 PtrEnc = 0x0b
	PtrEncSdata8 PtrEnc = 0x0c

	PtrEncPCRel   PtrEnc = 0x10
	PtrEncTextRel PtrEnc = 0x20
	PtrEncDataRel PtrEnc = 0x30
	PtrEncFuncRel PtrEnc = 0x40
	PtrEncAligned PtrEnc = 0x50

	PtrEncIndirect PtrEnc = 0x80
	PtrEncOmit     PtrEnc = 0xff

	ptrEncTypeMask     PtrEnc = 0x0f
	ptrEncModifierMask PtrEnc = 0x70
)

// Type returns the value type bits.
func (e PtrEnc) Type() PtrEnc { return e & ptrEncTypeMask }

// Modifier returns the relocation bits.
func (e PtrEnc) Modifier() PtrEnc { return e & ptrEncModifierMask }

// Indirect reports whether the decoded value is the address of the pointer.
func (e PtrEnc) Indirect() bool { return e != PtrEncOmit && e&PtrEncIndirect != 0 }

var ptrEncTypeNames = map[PtrEnc]string{
	PtrEncAbs:    "absptr",
	PtrEncUleb:   "uleb128",
	PtrEncUdata2: "udata2",
	PtrEncUdata4: "udata4",
	PtrEncUdata8: "udata8",
	PtrEncSigned: "signed",
	PtrEncSleb:   "sleb128",
	PtrEncSdata2: "sdata2",
	PtrEncSdata4: "sdata4",
	PtrEncSdata8: "sdata8",
}

var ptrEncModifierNames = map[PtrEnc]string{
	PtrEncPCRel:   "pcrel",
	PtrEncTextRel: "textrel",
	PtrEncDataRel: "datarel",
	PtrEncFuncRel: "funcrel",
	PtrEncAligned: "aligned",
}

func (e PtrEnc) String() string {
	if e == PtrEncOmit {
		return "omit"
	}
	var parts []string
	if e.Indirect() {
		parts = append(parts, "indirect")
	}
	if m := e.Modifier(); m != 0 {
		name, ok := ptrEncModifierNames[m]
		if !ok {
			name = fmt.Sprintf("modifier(%#x)", uint8(m))
		}
		parts = append(parts, name)
	}
	if e.Modifier() != PtrEncAligned {
		name, ok := ptrEncTypeNames[e.Type()]
		if !ok {
			name = fmt.Sprintf("type(%#x)", uint8(e.Type()))
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, "|")
}

// PtrContext holds the base addresses the relocation modifiers refer to.
type PtrContext struct {
	// PC is the virtual address of data[0] for the buffer being decoded.
	// A pc-relative value read at off is relative to PC+off.
	PC   uint64
	Text uint64
	Data uint64
	Func uint64
	// Align is the alignment used by PtrEncAligned, the address size when 0.
	Align int
}

// fixedSize returns the byte size of a fixed width type, 0 for LEB types.
func (e PtrEnc) fixedSize(addrSize int) int {
	switch e.Type() {
	case PtrEncAbs, PtrEncSigned:
		return addrSize
	case PtrEncUdata2, PtrEncSdata2:
		return 2
	case PtrEncUdata4, PtrEncSdata4:
		return 4
	case PtrEncUdata8, PtrEncSdata8:
		return 8
	}
	return 0
}

// ReadEncodedPointer decodes a pointer at off and returns the bytes
// consumed, 0 on a short read, an unknown type or PtrEncOmit. The modifier
// base is added only to non-zero values. Indirect pointers are returned as
// the address holding the pointer; dereferencing is left to the caller.
func ReadEncodedPointer(data []byte, off uint64, enc PtrEnc, ctx *PtrContext, addrSize int, out *uint64) int {
	if enc == PtrEncOmit {
		return 0
	}
	if addrSize <= 0 || addrSize > 8 {
		addrSize = 8
	}
	if ctx == nil {
		ctx = &PtrContext{}
	}

	start := off
	if enc.Modifier() == PtrEncAligned {
		align := uint64(ctx.Align)
		if align == 0 {
			align = uint64(addrSize)
		}
		abs := ctx.PC + off
		if rem := abs % align; rem != 0 {
			off += align - rem
		}
		enc = PtrEncAbs
	}

	var (
		raw uint64
		n   int
	)
	switch t := enc.Type(); t {
	case PtrEncUleb:
		n = util.ReadULEB128(data, off, &raw)
	case PtrEncSleb:
		var v int64
		n = util.ReadSLEB128(data, off, &v)
		raw = uint64(v)
	case PtrEncSigned, PtrEncSdata2, PtrEncSdata4, PtrEncSdata8:
		var v int64
		n = util.ReadSint(data, off, t.fixedSize(addrSize), &v)
		raw = uint64(v)
	case PtrEncAbs, PtrEncUdata2, PtrEncUdata4, PtrEncUdata8:
		n = util.ReadUint(data, off, t.fixedSize(addrSize), &raw)
	default:
		return 0
	}
	if n == 0 {
		return 0
	}

	v := raw
	if raw != 0 {
		switch enc.Modifier() {
		case PtrEncPCRel:
			v = ctx.PC + off + raw
		case PtrEncTextRel:
			v = ctx.Text + raw
		case PtrEncDataRel:
			v = ctx.Data + raw
		case PtrEncFuncRel:
			v = ctx.Func + raw
		}
	}
	if out != nil {
		*out = v
	}
	return int(off-start) + n
}
