package op

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Disassemble lists expr one operation per line as "offset: name operands".
// Decoding stops at the first malformed operation; the listing so far is
// returned with the error.
func Disassemble(expr []byte, addrSize int) (string, error) {
	if addrSize <= 0 || addrSize > 8 {
		addrSize = 8
	}
	var sb strings.Builder
	for off := uint64(0); off < uint64(len(expr)); {
		in, ok := decode(expr, off, addrSize)
		if !ok {
			return sb.String(), errors.Errorf("bad operation %s at %#x", in.op, off)
		}
		fmt.Fprintf(&sb, "%04x: %s", in.off, in.op)
		if s := operandText(in); s != "" {
			sb.WriteString(" " + s)
		}
		sb.WriteByte('\n')
		off = in.next
	}
	return sb.String(), nil
}

func operandText(in instr) string {
	switch shapeOf(in.op) {
	case opndU8, opndU16, opndU32, opndU64, opndULEB, opndAddr:
		return fmt.Sprintf("%#x", in.u[0])
	case opndS8, opndS16, opndS32, opndS64, opndSLEB:
		if in.op == OpSkip || in.op == OpBra {
			return fmt.Sprintf("%+d -> %#x", in.s, int64(in.next)+in.s)
		}
		return fmt.Sprintf("%d", in.s)
	case opndULEBSLEB, opndU32SLEB:
		return fmt.Sprintf("%#x %d", in.u[0], in.s)
	case opndULEBULEB:
		return fmt.Sprintf("%#x %#x", in.u[0], in.u[1])
	case opndU8ULEB:
		return fmt.Sprintf("%d %#x", in.u[0], in.u[1])
	case opndBlock:
		return fmt.Sprintf("[% x]", in.block)
	case opndTypeBlock:
		return fmt.Sprintf("%#x [% x]", in.u[0], in.block)
	}
	return ""
}
