package op

import (
	"encoding/binary"

	"go.uber.org/zap"

	"github.com/hitzhangjie/dwunwind/pkg/log"
)

type frame struct {
	expr []byte
	off  uint64
}

type machine struct {
	cfg      *Config
	addrSize int
	stack    []uint64
	frames   []frame
	pieces   []Piece
	// stash is the pending location. Kind Address means nothing is stashed
	// and the address comes off the stack.
	stash SimpleLoc
}

// Eval runs a DWARF expression and returns the location it describes.
// Failures are reported in the returned Location. ValueBytes locations
// alias expr.
func Eval(expr []byte, cfg *Config) Location {
	if cfg == nil {
		cfg = &Config{}
	}
	m := &machine{
		cfg:      cfg,
		addrSize: cfg.addrSize(),
		stack:    append([]uint64(nil), cfg.Stack...),
		frames:   []frame{{expr: expr}},
		stash:    SimpleLoc{Kind: Address},
	}
	if loc := m.run(cfg.maxSteps()); loc.Kind == Fail {
		m.stash = loc
	}
	return m.finish()
}

func (m *machine) push(v uint64) {
	m.stack = append(m.stack, v)
}

func (m *machine) pop() (uint64, bool) {
	n := len(m.stack)
	if n == 0 {
		return 0, false
	}
	v := m.stack[n-1]
	m.stack = m.stack[:n-1]
	return v, true
}

func (m *machine) pop2() (a, b uint64, ok bool) {
	if b, ok = m.pop(); !ok {
		return
	}
	a, ok = m.pop()
	return
}

func failAt(kind FailKind, addr uint64) SimpleLoc {
	return SimpleLoc{Kind: Fail, Fail: kind, FailAddr: addr}
}

// run executes until the call stack drains or an operation fails.
func (m *machine) run(maxSteps int) SimpleLoc {
	steps := 0
	for len(m.frames) > 0 {
		top := &m.frames[len(m.frames)-1]
		if top.off >= uint64(len(top.expr)) {
			m.frames = m.frames[:len(m.frames)-1]
			continue
		}

		steps++
		if steps > maxSteps {
			return failAt(TimeOut, 0)
		}

		in, ok := decode(top.expr, top.off, m.addrSize)
		if !ok {
			if _, known := opNames[in.op]; !known {
				return failAt(NotSupported, in.off)
			}
			return failAt(BadData, in.off)
		}
		if m.stash.Kind != Address && in.op != OpPiece && in.op != OpBitPiece {
			return failAt(BadData, in.off)
		}
		log.L().Debug("dwarf expr step",
			zap.Stringer("op", in.op),
			zap.Uint64("off", in.off),
			zap.Int("depth", len(m.stack)))

		// advance before executing so call2/call4 resume after their operand
		top.off = in.next
		if loc := m.exec(top, in); loc.Kind == Fail {
			return loc
		}
	}
	return noFail
}

var noFail = SimpleLoc{Kind: Address}

// exec runs one operation. It returns a SimpleLoc of kind Fail to stop the
// machine.
func (m *machine) exec(cur *frame, in instr) SimpleLoc {
	cfg := m.cfg
	bad := func() SimpleLoc {
		return failAt(BadData, in.off)
	}

	switch op := in.op; {
	case op >= OpLit0 && op <= OpLit31:
		m.push(uint64(op - OpLit0))

	case op >= OpReg0 && op <= OpReg31:
		m.stash = SimpleLoc{Kind: Register, Reg: uint64(op - OpReg0)}

	case op >= OpBReg0 && op <= OpBReg31:
		return m.breg(uint64(op-OpBReg0), in)

	default:
		switch op {
		case OpNop:

		// literals
		case OpAddr:
			a := in.u[0]
			if Opcode(byteAt(cur.expr, in.next)) != OpGNUPushTlsAddress {
				if !cfg.HasTextBase {
					return failAt(MissingTextBase, 0)
				}
				a += cfg.TextBase
			}
			m.push(a)
		case OpConst1U, OpConst2U, OpConst4U, OpConst8U, OpConstU:
			m.push(in.u[0])
		case OpConst1S, OpConst2S, OpConst4S, OpConst8S, OpConstS:
			m.push(uint64(in.s))
		case OpAddrx, OpGNUAddrIndex, OpConstx, OpGNUConstIndex:
			if cfg.Addrs == nil {
				return failAt(NotSupported, in.off)
			}
			v, err := cfg.Addrs.Addr(in.u[0])
			if err != nil {
				return bad()
			}
			if op == OpAddrx || op == OpGNUAddrIndex {
				if !cfg.HasTextBase {
					return failAt(MissingTextBase, 0)
				}
				v += cfg.TextBase
			}
			m.push(v)

		// register and frame based addressing
		case OpFBReg:
			if !cfg.HasFrameBase {
				return failAt(MissingFrameBase, 0)
			}
			m.push(cfg.FrameBase + uint64(in.s))
		case OpBRegX:
			return m.breg(in.u[0], in)

		// stack
		case OpDup:
			if len(m.stack) == 0 {
				return bad()
			}
			m.push(m.stack[len(m.stack)-1])
		case OpDrop:
			if _, ok := m.pop(); !ok {
				return bad()
			}
		case OpOver, OpPick:
			idx := uint64(1)
			if op == OpPick {
				idx = in.u[0]
			}
			if idx >= uint64(len(m.stack)) {
				return bad()
			}
			m.push(m.stack[uint64(len(m.stack))-1-idx])
		case OpSwap:
			n := len(m.stack)
			if n < 2 {
				return bad()
			}
			m.stack[n-1], m.stack[n-2] = m.stack[n-2], m.stack[n-1]
		case OpRot:
			n := len(m.stack)
			if n < 3 {
				return bad()
			}
			s := m.stack[n-3:]
			s[0], s[1], s[2] = s[2], s[0], s[1]
		case OpDeref, OpDerefSize:
			size := m.addrSize
			if op == OpDerefSize {
				size = int(in.u[0])
				if size > 8 {
					size = 8
				}
			}
			a, ok := m.pop()
			if !ok {
				return bad()
			}
			v, ok := m.read(a, size)
			if !ok {
				return failAt(MissingMemory, a)
			}
			m.push(v)
		case OpXDeref, OpXDerefSize, OpCallRef:
			return failAt(NotSupported, in.off)
		case OpPushObjectAddress:
			if !cfg.HasObjectAddress {
				return failAt(MissingObjectAddress, 0)
			}
			m.push(cfg.ObjectAddress)
		case OpFormTlsAddress, OpGNUPushTlsAddress:
			if !cfg.HasTLSAddress {
				return failAt(MissingTLSAddress, 0)
			}
			s, ok := m.pop()
			if !ok {
				return bad()
			}
			m.push(cfg.TLSAddress + s)
		case OpCallFrameCfa:
			if !cfg.HasCFA {
				return failAt(MissingCFA, 0)
			}
			m.push(cfg.CFA)

		// arithmetic and logic
		case OpAbs, OpNeg, OpNot:
			x, ok := m.pop()
			if !ok {
				return bad()
			}
			switch op {
			case OpAbs:
				if int64(x) < 0 {
					x = -x
				}
			case OpNeg:
				x = -x
			case OpNot:
				x = ^x
			}
			m.push(x)
		case OpPlusUConst:
			x, ok := m.pop()
			if !ok {
				return bad()
			}
			m.push(x + in.u[0])
		case OpAnd, OpDiv, OpMinus, OpMod, OpMul, OpOr, OpPlus, OpShl, OpShr, OpShra, OpXor,
			OpEq, OpGe, OpGt, OpLe, OpLt, OpNe:
			a, b, ok := m.pop2()
			if !ok {
				return bad()
			}
			m.push(binop(op, a, b))

		// control flow
		case OpSkip, OpBra:
			if op == OpBra {
				x, ok := m.pop()
				if !ok {
					return bad()
				}
				if x == 0 {
					break
				}
			}
			target := int64(in.next) + in.s
			if target < 0 || target > int64(len(cur.expr)) {
				return bad()
			}
			cur.off = uint64(target)
		case OpCall2, OpCall4:
			if cfg.Calls == nil {
				return failAt(MissingCallResolution, 0)
			}
			sub, ok := cfg.Calls.ResolveCall(in.u[0])
			if !ok {
				return failAt(MissingCallResolution, 0)
			}
			m.frames = append(m.frames, frame{expr: sub})

		// implicit locations
		case OpRegX:
			m.stash = SimpleLoc{Kind: Register, Reg: in.u[0]}
		case OpImplicitValue:
			m.stash = SimpleLoc{Kind: ValueBytes, Bytes: in.block}
		case OpStackValue:
			x, ok := m.pop()
			if !ok {
				return bad()
			}
			m.stash = SimpleLoc{Kind: Value, Value: x}

		// composition
		case OpPiece, OpBitPiece:
			p := Piece{Loc: m.stash}
			if op == OpPiece {
				p.BitSize = in.u[0] * 8
			} else {
				p.BitSize, p.BitOffset, p.IsBitPiece = in.u[0], in.u[1], true
			}
			if p.Loc.Kind == Address {
				if a, ok := m.pop(); ok {
					p.Loc.Addr = a
				} else {
					p.Loc.Kind = Empty
				}
			}
			m.pieces = append(m.pieces, p)
			m.stash = SimpleLoc{Kind: Address}

		default:
			return failAt(NotSupported, in.off)
		}
	}
	return noFail
}

func (m *machine) breg(reg uint64, in instr) SimpleLoc {
	if m.cfg.Registers == nil {
		return failAt(MissingRegisters, 0)
	}
	if reg >= uint64(len(m.cfg.Registers)) {
		return failAt(BadData, in.off)
	}
	m.push(m.cfg.Registers[reg] + uint64(in.s))
	return noFail
}

// read loads size little-endian bytes from target memory.
func (m *machine) read(addr uint64, size int) (uint64, bool) {
	if m.cfg.Memory == nil {
		return 0, false
	}
	var buf [8]byte
	if size == 0 {
		return 0, true
	}
	n, err := m.cfg.Memory.ReadMemory(addr, buf[:size])
	if err != nil || n != size {
		return 0, false
	}
	return binary.LittleEndian.Uint64(buf[:]), true
}

func binop(op Opcode, a, b uint64) uint64 {
	bool2u := func(c bool) uint64 {
		if c {
			return 1
		}
		return 0
	}
	sa, sb := int64(a), int64(b)
	switch op {
	case OpAnd:
		return a & b
	case OpOr:
		return a | b
	case OpXor:
		return a ^ b
	case OpPlus:
		return a + b
	case OpMinus:
		return a - b
	case OpMul:
		return a * b
	case OpDiv:
		if sb == 0 {
			return 0
		}
		return uint64(sa / sb)
	case OpMod:
		if sb == 0 {
			return 0
		}
		return uint64(sa % sb)
	case OpShl:
		if b >= 64 {
			return 0
		}
		return a << b
	case OpShr:
		if b >= 64 {
			return 0
		}
		return a >> b
	case OpShra:
		if b >= 64 {
			b = 63
		}
		return uint64(sa >> b)
	case OpEq:
		return bool2u(sa == sb)
	case OpGe:
		return bool2u(sa >= sb)
	case OpGt:
		return bool2u(sa > sb)
	case OpLe:
		return bool2u(sa <= sb)
	case OpLt:
		return bool2u(sa < sb)
	case OpNe:
		return bool2u(sa != sb)
	}
	return 0
}

func byteAt(p []byte, off uint64) byte {
	if off < uint64(len(p)) {
		return p[off]
	}
	return 0
}

// finish resolves the stashed location once the machine stops.
func (m *machine) finish() Location {
	loc := m.stash
	if len(m.pieces) == 0 {
		if loc.Kind == Address {
			if a, ok := m.pop(); ok {
				loc.Addr = a
			} else {
				loc.Kind = Empty
			}
		}
		return Location{Simple: loc}
	}
	if loc.Kind == Address {
		loc.Kind = Empty
	}
	if loc.Kind != Empty && loc.Kind != Fail {
		loc = SimpleLoc{Kind: Fail, Fail: BadData}
	}
	return Location{Pieces: m.pieces, Simple: loc}
}
