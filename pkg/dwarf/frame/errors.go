package frame

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrNoFDEForPC FDE for PC not found error
type ErrNoFDEForPC struct {
	PC uint64
}

func (err *ErrNoFDEForPC) Error() string {
	return fmt.Sprintf("could not find FDE for PC %#v", err.PC)
}

var (
	// ErrUnsortedTable is returned by EhFrameHdr.Lookup when the search
	// table is not ordered by initial location.
	ErrUnsortedTable = errors.New("eh_frame_hdr table is not sorted")

	// ErrBadRegister is returned by the row machine for a register operand
	// outside the register file.
	ErrBadRegister = errors.New("cfi register out of range")
)

// ErrBadEntry reports a malformed CIE or FDE.
type ErrBadEntry struct {
	Offset uint64
	Reason string
}

func (err *ErrBadEntry) Error() string {
	return fmt.Sprintf("bad cfi entry at %#x: %s", err.Offset, err.Reason)
}

func badEntry(off uint64, format string, args ...interface{}) error {
	return &ErrBadEntry{Offset: off, Reason: fmt.Sprintf(format, args...)}
}
