// Package unwind applies CFI rows to a register file to recover the
// registers of the calling frame.
package unwind

import (
	"fmt"
	"strings"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
)

// RegisterFile is a register set indexed by DWARF register number. Valid
// marks the registers whose value is known.
type RegisterFile struct {
	Values []uint64
	Valid  []bool
}

// NewRegisterFile returns an empty register file sized for arch.
func NewRegisterFile(arch regnum.Arch) (*RegisterFile, error) {
	n, err := regnum.RegCount(arch)
	if err != nil {
		return nil, err
	}
	return &RegisterFile{Values: make([]uint64, n), Valid: make([]bool, n)}, nil
}

// Len returns the number of register slots.
func (r *RegisterFile) Len() int { return len(r.Values) }

// Get returns the value of reg and whether it is known.
func (r *RegisterFile) Get(reg uint64) (uint64, bool) {
	if reg >= uint64(len(r.Values)) {
		return 0, false
	}
	return r.Values[reg], r.Valid[reg]
}

// Set stores v in reg and marks it valid. Out of range registers are
// ignored.
func (r *RegisterFile) Set(reg, v uint64) {
	if reg < uint64(len(r.Values)) {
		r.Values[reg] = v
		r.Valid[reg] = true
	}
}

// Clone returns a deep copy.
func (r *RegisterFile) Clone() *RegisterFile {
	c := &RegisterFile{
		Values: make([]uint64, len(r.Values)),
		Valid:  make([]bool, len(r.Valid)),
	}
	copy(c.Values, r.Values)
	copy(c.Valid, r.Valid)
	return c
}

// Format lists the valid registers with their names for arch.
func (r *RegisterFile) Format(arch regnum.Arch) string {
	var parts []string
	for i, v := range r.Values {
		if r.Valid[i] {
			parts = append(parts, fmt.Sprintf("%s=%#x", regnum.Name(arch, uint64(i)), v))
		}
	}
	return strings.Join(parts, " ")
}
