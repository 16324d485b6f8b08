// Package regnum maps DWARF register numbers to names and sizes for the
// architectures the unwinder supports.
package regnum

import (
	"debug/elf"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Arch identifies a register numbering.
type Arch uint8

const (
	ArchNull Arch = iota
	ArchX86
	ArchX64
	ArchARM32
	ArchARM64
)

func (a Arch) String() string {
	switch a {
	case ArchX86:
		return "x86"
	case ArchX64:
		return "x64"
	case ArchARM32:
		return "arm32"
	case ArchARM64:
		return "arm64"
	}
	return "null"
}

// AddrSize returns the pointer size of the architecture.
func (a Arch) AddrSize() int {
	switch a {
	case ArchX86, ArchARM32:
		return 4
	case ArchX64, ArchARM64:
		return 8
	}
	return 0
}

// ArchFromELF maps an ELF machine to an Arch.
func ArchFromELF(m elf.Machine) Arch {
	switch m {
	case elf.EM_386:
		return ArchX86
	case elf.EM_X86_64:
		return ArchX64
	case elf.EM_ARM:
		return ArchARM32
	case elf.EM_AARCH64:
		return ArchARM64
	}
	return ArchNull
}

// ErrArchNotImplemented is returned for architectures without a register table.
var ErrArchNotImplemented = errors.New("architecture not implemented")

type regInfo struct {
	name string
	size int
}

func table(arch Arch) ([]regInfo, error) {
	switch arch {
	case ArchX86:
		return x86Regs[:], nil
	case ArchX64:
		return x64Regs[:], nil
	}
	return nil, errors.Wrapf(ErrArchNotImplemented, "arch %s", arch)
}

// RegCount returns the size of a register file for arch.
func RegCount(arch Arch) (int, error) {
	t, err := table(arch)
	if err != nil {
		return 0, err
	}
	return len(t), nil
}

// RegSize returns the size in bytes of reg, 0 for unused numbers.
func RegSize(arch Arch, reg uint64) (int, error) {
	t, err := table(arch)
	if err != nil {
		return 0, err
	}
	if reg >= uint64(len(t)) {
		return 0, errors.Errorf("register %d out of range for %s", reg, arch)
	}
	return t[reg].size, nil
}

// maxRegSize is the widest entry of each table, indexed by Arch.
var maxRegSize = [...]int{
	ArchX86: 16,
	ArchX64: 16,
}

// MaxRegSize returns the widest register of arch.
func MaxRegSize(arch Arch) (int, error) {
	if _, err := table(arch); err != nil {
		return 0, err
	}
	return maxRegSize[arch], nil
}

// SP returns the stack pointer register.
func SP(arch Arch) (uint64, error) {
	switch arch {
	case ArchX86:
		return X86Esp, nil
	case ArchX64:
		return X64Rsp, nil
	}
	return 0, errors.Wrapf(ErrArchNotImplemented, "arch %s", arch)
}

// PC returns the instruction pointer register.
func PC(arch Arch) (uint64, error) {
	switch arch {
	case ArchX86:
		return X86Eip, nil
	case ArchX64:
		return X64Rip, nil
	}
	return 0, errors.Wrapf(ErrArchNotImplemented, "arch %s", arch)
}

// BP returns the frame pointer register.
func BP(arch Arch) (uint64, error) {
	switch arch {
	case ArchX86:
		return X86Ebp, nil
	case ArchX64:
		return X64Rbp, nil
	}
	return 0, errors.Wrapf(ErrArchNotImplemented, "arch %s", arch)
}

// Name returns the register name, or "r<n>" for unnamed slots.
func Name(arch Arch, reg uint64) string {
	t, err := table(arch)
	if err != nil || reg >= uint64(len(t)) || t[reg].name == "" {
		return "r" + strconv.FormatUint(reg, 10)
	}
	return t[reg].name
}

// FromName looks up a register number by name.
func FromName(arch Arch, name string) (uint64, bool) {
	t, err := table(arch)
	if err != nil {
		return 0, false
	}
	name = strings.ToLower(name)
	for i, r := range t {
		if r.name != "" && r.name == name {
			return uint64(i), true
		}
	}
	return 0, false
}
