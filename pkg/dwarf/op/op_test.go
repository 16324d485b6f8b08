package op

import (
	"encoding/binary"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMem map[uint64]uint64

func (m fakeMem) ReadMemory(addr uint64, buf []byte) (int, error) {
	v, ok := m[addr]
	if !ok {
		return 0, errors.Errorf("unmapped %#x", addr)
	}
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return copy(buf, b[:]), nil
}

type fakeCalls map[uint64][]byte

func (c fakeCalls) ResolveCall(off uint64) ([]byte, bool) {
	b, ok := c[off]
	return b, ok
}

type fakeAddrs []uint64

func (a fakeAddrs) Addr(i uint64) (uint64, error) {
	if i >= uint64(len(a)) {
		return 0, errors.New("index out of range")
	}
	return a[i], nil
}

func addrOp(v uint64) []byte {
	return binary.LittleEndian.AppendUint64([]byte{byte(OpAddr)}, v)
}

func simple(kind SimpleKind, v uint64) SimpleLoc {
	switch kind {
	case Address:
		return SimpleLoc{Kind: Address, Addr: v}
	case Register:
		return SimpleLoc{Kind: Register, Reg: v}
	case Value:
		return SimpleLoc{Kind: Value, Value: v}
	}
	return SimpleLoc{Kind: kind}
}

func failed(kind FailKind, addr uint64) SimpleLoc {
	return SimpleLoc{Kind: Fail, Fail: kind, FailAddr: addr}
}

func TestEvalNoInputs(t *testing.T) {
	type arg struct {
		name string
		expr []byte
		want SimpleLoc
	}
	args := []arg{
		{"const plus", []byte{0x08, 5, 0x08, 3, 0x22}, simple(Address, 8)},
		{"reg0", []byte{0x50}, simple(Register, 0)},
		{"op after reg0", []byte{0x50, 0x08, 1}, failed(BadData, 1)},
		{"regx", []byte{0x90, 0x21}, simple(Register, 0x21)},
		{"empty", nil, simple(Empty, 0)},
		{"stack value", []byte{0x31, 0x9f}, simple(Value, 1)},
		{"implicit value", []byte{0x9e, 2, 0xaa, 0xbb}, SimpleLoc{Kind: ValueBytes, Bytes: []byte{0xaa, 0xbb}}},
		{"implicit value overrun", []byte{0x9e, 5, 1}, failed(BadData, 0)},
		{"xderef", []byte{0x30, 0x30, 0x18}, failed(NotSupported, 2)},
		{"call_ref", []byte{0x9a, 0, 0, 0, 0}, failed(NotSupported, 0)},
		{"unknown opcode", []byte{0x31, 0xff}, failed(NotSupported, 1)},
		{"drop underflow", []byte{0x13}, failed(BadData, 0)},
		{"fbreg", []byte{0x91, 0x70}, failed(MissingFrameBase, 0)},
		{"breg", []byte{0x70, 0}, failed(MissingRegisters, 0)},
		{"addr", addrOp(0x10), failed(MissingTextBase, 0)},
		{"cfa", []byte{0x9c}, failed(MissingCFA, 0)},
		{"object address", []byte{0x97}, failed(MissingObjectAddress, 0)},
		{"tls", []byte{0x30, 0x9b}, failed(MissingTLSAddress, 0)},
		{"deref", []byte{0x30, 0x06}, failed(MissingMemory, 0)},
		{"call2", []byte{0x98, 0x10, 0}, failed(MissingCallResolution, 0)},
		{"addrx", []byte{0xa1, 0}, failed(NotSupported, 0)},
		{"skip loop", []byte{0x2f, 0xfd, 0xff}, failed(TimeOut, 0)},
		{"skip out of range", []byte{0x2f, 0x10, 0}, failed(BadData, 0)},
		{"abs", []byte{0x09, 0xf8, 0x19}, simple(Address, 8)},
		{"neg", []byte{0x38, 0x1f}, simple(Address, ^uint64(7))},
		{"minus", []byte{0x35, 0x32, 0x1c}, simple(Address, 3)},
		{"div by zero", []byte{0x35, 0x30, 0x1b}, simple(Address, 0)},
		{"signed div", []byte{0x09, 0xf8, 0x32, 0x1b}, simple(Address, ^uint64(3))},
		{"mod", []byte{0x37, 0x33, 0x1d}, simple(Address, 1)},
		{"shl", []byte{0x31, 0x34, 0x24}, simple(Address, 16)},
		{"shl wide", []byte{0x31, 0x08, 64, 0x24}, simple(Address, 0)},
		{"shra", []byte{0x09, 0xf8, 0x31, 0x26}, simple(Address, ^uint64(3))},
		{"shr", []byte{0x09, 0xf8, 0x08, 60, 0x25}, simple(Address, 0xf)},
		{"lt", []byte{0x31, 0x32, 0x2d}, simple(Address, 1)},
		{"signed gt", []byte{0x09, 0xff, 0x31, 0x2b}, simple(Address, 0)},
		{"plus_uconst", []byte{0x31, 0x23, 0x80, 0x01}, simple(Address, 129)},
		{"pick", []byte{0x31, 0x32, 0x15, 1}, simple(Address, 1)},
		{"pick too deep", []byte{0x31, 0x15, 1}, failed(BadData, 1)},
		{"over", []byte{0x31, 0x32, 0x14}, simple(Address, 1)},
		{"swap", []byte{0x31, 0x32, 0x16}, simple(Address, 1)},
		{"rot", []byte{0x31, 0x32, 0x33, 0x17}, simple(Address, 2)},
		{"rot then drop", []byte{0x31, 0x32, 0x33, 0x17, 0x13, 0x13}, simple(Address, 3)},
		{"bra taken", []byte{0x31, 0x28, 1, 0, 0x3a}, simple(Empty, 0)},
		{"bra not taken", []byte{0x30, 0x28, 1, 0, 0x3a}, simple(Address, 10)},
		{"const8s", []byte{0x0f, 0xfe, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff}, simple(Address, ^uint64(1))},
		{"consts", []byte{0x11, 0x7f}, simple(Address, ^uint64(0))},
		{"truncated const", []byte{0x0c, 1, 2}, failed(BadData, 0)},
	}
	for _, a := range args {
		t.Run(a.name, func(t *testing.T) {
			loc := Eval(a.expr, nil)
			assert.Empty(t, loc.Pieces)
			assert.Equal(t, a.want, loc.Simple)
		})
	}
}

func TestEvalPieces(t *testing.T) {
	loc := Eval([]byte{0x08, 4, 0x93, 4, 0x08, 8, 0x93, 4}, nil)
	require.Len(t, loc.Pieces, 2)
	assert.Equal(t, Piece{Loc: simple(Address, 4), BitSize: 32}, loc.Pieces[0])
	assert.Equal(t, Piece{Loc: simple(Address, 8), BitSize: 32}, loc.Pieces[1])
	assert.Equal(t, Empty, loc.Simple.Kind)
	assert.Equal(t, "[32 bits: address 0x4] [32 bits: address 0x8]", loc.String())

	loc = Eval([]byte{0x50, 0x9d, 8, 4, 0x93, 2}, nil)
	require.Len(t, loc.Pieces, 2)
	assert.Equal(t, Piece{Loc: simple(Register, 0), BitSize: 8, BitOffset: 4, IsBitPiece: true}, loc.Pieces[0])
	assert.Equal(t, Piece{Loc: simple(Empty, 0), BitSize: 16}, loc.Pieces[1])

	// leftover stack entries after a composite are ignored
	loc = Eval([]byte{0x30, 0x93, 1, 0x31}, nil)
	require.Len(t, loc.Pieces, 1)
	assert.Equal(t, Empty, loc.Simple.Kind)

	// a trailing implicit location is not part of any piece
	loc = Eval([]byte{0x30, 0x93, 1, 0x50}, nil)
	require.Len(t, loc.Pieces, 1)
	assert.Equal(t, Fail, loc.Simple.Kind)
	assert.Equal(t, BadData, loc.Simple.Fail)
	assert.True(t, loc.Failed())
}

func TestEvalWithConfig(t *testing.T) {
	regs := make([]uint64, 17)
	regs[6] = 0x2000
	cfg := &Config{
		TextBase:      0x400000,
		HasTextBase:   true,
		FrameBase:     0x1000,
		HasFrameBase:  true,
		Registers:     regs,
		Memory:        fakeMem{0x1000: 0x1122334455667788},
		CFA:           0x7ff0,
		HasCFA:        true,
		TLSAddress:    0x7000,
		HasTLSAddress: true,
		Calls:         fakeCalls{0x20: {0x35}},
		Addrs:         fakeAddrs{0x100, 0x200},
	}

	type arg struct {
		name string
		expr []byte
		want SimpleLoc
	}
	args := []arg{
		{"fbreg", []byte{0x91, 0x70}, simple(Address, 0xff0)},
		{"breg6", []byte{0x76, 0x08}, simple(Address, 0x2008)},
		{"bregx", []byte{0x92, 6, 0x78}, simple(Address, 0x1ff8)},
		{"bregx out of range", []byte{0x92, 40, 0}, failed(BadData, 0)},
		{"addr", addrOp(0x10), simple(Address, 0x400010)},
		{"addr tls", append(addrOp(0x10), 0xe0), simple(Address, 0x7010)},
		{"form tls", []byte{0x38, 0x9b}, simple(Address, 0x7008)},
		{"cfa", []byte{0x9c}, simple(Address, 0x7ff0)},
		{"deref", []byte{0x0a, 0x00, 0x10, 0x06}, simple(Address, 0x1122334455667788)},
		{"deref_size", []byte{0x0a, 0x00, 0x10, 0x94, 2}, simple(Address, 0x7788)},
		{"deref unmapped", []byte{0x0a, 0x00, 0x20, 0x06}, failed(MissingMemory, 0x2000)},
		{"fbreg deref stack value", []byte{0x91, 0x00, 0x06, 0x9f}, simple(Value, 0x1122334455667788)},
		{"call2", []byte{0x98, 0x20, 0x00, 0x33, 0x22}, simple(Address, 8)},
		{"call2 unresolved", []byte{0x98, 0x30, 0x00}, failed(MissingCallResolution, 0)},
		{"addrx", []byte{0xa1, 1}, simple(Address, 0x400200)},
		{"constx", []byte{0xa2, 0}, simple(Address, 0x100)},
		{"addrx out of range", []byte{0xa1, 5}, failed(BadData, 0)},
	}
	for _, a := range args {
		t.Run(a.name, func(t *testing.T) {
			assert.Equal(t, a.want, Eval(a.expr, cfg).Simple)
		})
	}
}

func TestEvalInitialStack(t *testing.T) {
	cfg := &Config{Stack: []uint64{0x100, 0x200}}
	assert.Equal(t, simple(Address, 0x208), Eval([]byte{0x23, 0x08}, cfg).Simple)
	assert.Equal(t, simple(Address, 0x300), Eval([]byte{0x22}, cfg).Simple)
	assert.Equal(t, []uint64{0x100, 0x200}, cfg.Stack)
}

func TestEvalIdempotent(t *testing.T) {
	cfg := &Config{Memory: fakeMem{0x10: 0x99}}
	exprs := [][]byte{
		{0x08, 5, 0x08, 3, 0x22},
		{0x08, 4, 0x93, 4, 0x08, 8, 0x93, 4},
		{0x40, 0x06},
		{0x2f, 0xfd, 0xff},
	}
	for _, e := range exprs {
		assert.Equal(t, Eval(e, cfg), Eval(e, cfg))
	}
}

func TestEvalStepBudget(t *testing.T) {
	expr := []byte{0x30, 0x30, 0x30}
	assert.Equal(t, simple(Address, 0), Eval(expr, &Config{MaxSteps: 3}).Simple)
	assert.Equal(t, failed(TimeOut, 0), Eval(expr, &Config{MaxSteps: 2}).Simple)
}

func TestAnalyze(t *testing.T) {
	calls := fakeCalls{
		0x10: {0x91, 0x00, 0x98, 0x10, 0x00},
	}
	type arg struct {
		name string
		expr []byte
		want Flags
	}
	args := []arg{
		{"empty", nil, 0},
		{"fbreg", []byte{0x91, 0x70}, UsesFrameBase},
		{"breg deref", []byte{0x76, 0x08, 0x06}, UsesRegisters | UsesMemory},
		{"cfa", []byte{0x9c}, UsesCFA},
		{"pieces", []byte{0x30, 0x93, 1, 0x50, 0x93, 8}, UsesComposite},
		{"xderef", []byte{0x30, 0x18}, FlagNotSupported},
		{"implicit then op", []byte{0x50, 0x30}, FlagBadData},
		{"truncated", []byte{0x0c, 1}, FlagBadData},
		{"skip", []byte{0x2f, 0, 0}, NonLinearFlow},
		{"addr", addrOp(8), UsesTextBase},
		{"addr tls", append(addrOp(8), 0xe0), UsesTLSAddress},
		{"recursive call", []byte{0x98, 0x10, 0x00}, UsesCallResolution | NonLinearFlow | UsesFrameBase},
		{"entry value", []byte{0xa3, 1, 0x50}, FlagNotSupported},
	}
	for _, a := range args {
		t.Run(a.name, func(t *testing.T) {
			assert.Equal(t, a.want, Analyze(a.expr, calls), "%s", Analyze(a.expr, calls))
		})
	}

	assert.Equal(t, UsesCallResolution|NonLinearFlow, Analyze([]byte{0x98, 0x10, 0x00}, nil))
	assert.Equal(t, "memory|registers", (UsesRegisters | UsesMemory).String())
	assert.Equal(t, "none", Flags(0).String())
}

func TestDisassemble(t *testing.T) {
	s, err := Disassemble([]byte{0x91, 0x70, 0x06, 0x2f, 0xfd, 0xff, 0x92, 6, 0x08}, 8)
	require.NoError(t, err)
	assert.Equal(t, "0000: FBReg -16\n0002: Deref\n0003: Skip -3 -> 0x3\n0006: BRegX 0x6 8\n", s)

	s, err = Disassemble([]byte{0x31, 0x0c, 1}, 8)
	require.Error(t, err)
	assert.Equal(t, "0000: Lit1\n", s)

	_, err = Disassemble([]byte{0xff}, 8)
	assert.Error(t, err)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "GNU_PushTlsAddress", OpGNUPushTlsAddress.String())
	assert.Equal(t, "Opcode(0xff)", Opcode(0xff).String())
	assert.Equal(t, "missing memory", MissingMemory.String())
	assert.Equal(t, "fail: missing memory at 0x10", failed(MissingMemory, 0x10).String())
	assert.Equal(t, "register 3", simple(Register, 3).String())
}
