package op

import (
	"fmt"
	"strings"
)

// SimpleKind tells which field of a SimpleLoc is meaningful.
type SimpleKind uint8

const (
	Empty SimpleKind = iota
	Address
	Register
	Value
	ValueBytes
	Fail
)

var simpleKindNames = [...]string{
	Empty:      "empty",
	Address:    "address",
	Register:   "register",
	Value:      "value",
	ValueBytes: "value-bytes",
	Fail:       "fail",
}

func (k SimpleKind) String() string {
	if int(k) < len(simpleKindNames) {
		return simpleKindNames[k]
	}
	return fmt.Sprintf("SimpleKind(%d)", k)
}

// FailKind names the reason an evaluation stopped.
type FailKind uint8

const (
	FailNone FailKind = iota
	BadData
	NotSupported
	TimeOut
	TooComplicated
	MissingTextBase
	MissingMemory
	MissingRegisters
	MissingFrameBase
	MissingObjectAddress
	MissingTLSAddress
	MissingCFA
	MissingCallResolution
	// MissingArenaForComposite is never produced: pieces are kept in a
	// growable slice.
	MissingArenaForComposite
)

var failKindNames = [...]string{
	FailNone:                 "none",
	BadData:                  "bad data",
	NotSupported:             "not supported",
	TimeOut:                  "time out",
	TooComplicated:           "too complicated",
	MissingTextBase:          "missing text base",
	MissingMemory:            "missing memory",
	MissingRegisters:         "missing registers",
	MissingFrameBase:         "missing frame base",
	MissingObjectAddress:     "missing object address",
	MissingTLSAddress:        "missing tls address",
	MissingCFA:               "missing cfa",
	MissingCallResolution:    "missing call resolution",
	MissingArenaForComposite: "missing arena for composite",
}

func (k FailKind) String() string {
	if int(k) < len(failKindNames) {
		return failKindNames[k]
	}
	return fmt.Sprintf("FailKind(%d)", k)
}

// SimpleLoc is a single location description. Reg, Value and Bytes are
// only set for their matching Kind. FailAddr is set for MissingMemory and
// holds the expression offset for out-of-range register operands.
type SimpleLoc struct {
	Kind     SimpleKind
	Addr     uint64
	Reg      uint64
	Value    uint64
	Bytes    []byte
	Fail     FailKind
	FailAddr uint64
}

func (l SimpleLoc) String() string {
	switch l.Kind {
	case Address:
		return fmt.Sprintf("address %#x", l.Addr)
	case Register:
		return fmt.Sprintf("register %d", l.Reg)
	case Value:
		return fmt.Sprintf("value %#x", l.Value)
	case ValueBytes:
		return fmt.Sprintf("value bytes % x", l.Bytes)
	case Fail:
		if l.Fail == MissingMemory || l.FailAddr != 0 {
			return fmt.Sprintf("fail: %s at %#x", l.Fail, l.FailAddr)
		}
		return "fail: " + l.Fail.String()
	}
	return "empty"
}

// Piece is one part of a composite location.
type Piece struct {
	Loc        SimpleLoc
	BitSize    uint64
	BitOffset  uint64
	IsBitPiece bool
}

// Location is the result of Eval. A composite location has Pieces and a
// Simple of kind Empty unless the composite itself failed.
type Location struct {
	Pieces []Piece
	Simple SimpleLoc
}

// Failed reports whether evaluation stopped with a FailKind.
func (l Location) Failed() bool {
	return l.Simple.Kind == Fail
}

func (l Location) String() string {
	if len(l.Pieces) == 0 || l.Simple.Kind == Fail {
		return l.Simple.String()
	}
	parts := make([]string, 0, len(l.Pieces))
	for _, p := range l.Pieces {
		s := fmt.Sprintf("[%d bits", p.BitSize)
		if p.IsBitPiece {
			s += fmt.Sprintf(" @%d", p.BitOffset)
		}
		parts = append(parts, s+": "+p.Loc.String()+"]")
	}
	return strings.Join(parts, " ")
}
