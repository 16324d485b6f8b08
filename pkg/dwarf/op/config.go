package op

// DefaultMaxSteps bounds evaluation when Config.MaxSteps is not set.
const DefaultMaxSteps = 4096

// MemoryReader reads target memory. A read shorter than len(buf) is a
// failure even when err is nil.
type MemoryReader interface {
	ReadMemory(addr uint64, buf []byte) (int, error)
}

// CallResolver returns the location expression of the tag at the
// unit-relative offset named by a call2/call4 operand.
type CallResolver interface {
	ResolveCall(off uint64) ([]byte, bool)
}

// Addrs resolves .debug_addr indices for addrx, constx and their GNU
// forms. *reader.ListUnit satisfies it.
type Addrs interface {
	Addr(i uint64) (uint64, error)
}

// Config supplies the inputs an expression may need. Every field is
// optional: an expression that touches a missing one fails with the
// matching Missing* kind.
type Config struct {
	MaxSteps int
	// AddrSize is the operand size of addr and deref, 8 when zero.
	AddrSize int

	TextBase     uint64
	HasTextBase  bool
	FrameBase    uint64
	HasFrameBase bool

	Memory MemoryReader
	// Registers is indexed by DWARF register number. nil means no register
	// file is available.
	Registers []uint64

	ObjectAddress    uint64
	HasObjectAddress bool
	TLSAddress       uint64
	HasTLSAddress    bool
	CFA              uint64
	HasCFA           bool

	Calls CallResolver
	Addrs Addrs

	// Stack is pushed, bottom first, before the first operation. CFI
	// register expressions start with the CFA on the stack.
	Stack []uint64
}

func (c *Config) maxSteps() int {
	if c == nil || c.MaxSteps <= 0 {
		return DefaultMaxSteps
	}
	return c.MaxSteps
}

func (c *Config) addrSize() int {
	if c == nil || c.AddrSize <= 0 || c.AddrSize > 8 {
		return 8
	}
	return c.AddrSize
}
