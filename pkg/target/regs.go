package target

import (
	"golang.org/x/sys/unix"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/unwind"
)

// ptraceRegs maps the DWARF x86-64 numbering onto the ptrace register set.
var ptraceRegs = []struct {
	reg uint64
	get func(*unix.PtraceRegs) uint64
	set func(*unix.PtraceRegs, uint64)
}{
	{regnum.X64Rax, func(r *unix.PtraceRegs) uint64 { return r.Rax }, func(r *unix.PtraceRegs, v uint64) { r.Rax = v }},
	{regnum.X64Rdx, func(r *unix.PtraceRegs) uint64 { return r.Rdx }, func(r *unix.PtraceRegs, v uint64) { r.Rdx = v }},
	{regnum.X64Rcx, func(r *unix.PtraceRegs) uint64 { return r.Rcx }, func(r *unix.PtraceRegs, v uint64) { r.Rcx = v }},
	{regnum.X64Rbx, func(r *unix.PtraceRegs) uint64 { return r.Rbx }, func(r *unix.PtraceRegs, v uint64) { r.Rbx = v }},
	{regnum.X64Rsi, func(r *unix.PtraceRegs) uint64 { return r.Rsi }, func(r *unix.PtraceRegs, v uint64) { r.Rsi = v }},
	{regnum.X64Rdi, func(r *unix.PtraceRegs) uint64 { return r.Rdi }, func(r *unix.PtraceRegs, v uint64) { r.Rdi = v }},
	{regnum.X64Rbp, func(r *unix.PtraceRegs) uint64 { return r.Rbp }, func(r *unix.PtraceRegs, v uint64) { r.Rbp = v }},
	{regnum.X64Rsp, func(r *unix.PtraceRegs) uint64 { return r.Rsp }, func(r *unix.PtraceRegs, v uint64) { r.Rsp = v }},
	{regnum.X64R8, func(r *unix.PtraceRegs) uint64 { return r.R8 }, func(r *unix.PtraceRegs, v uint64) { r.R8 = v }},
	{regnum.X64R9, func(r *unix.PtraceRegs) uint64 { return r.R9 }, func(r *unix.PtraceRegs, v uint64) { r.R9 = v }},
	{regnum.X64R10, func(r *unix.PtraceRegs) uint64 { return r.R10 }, func(r *unix.PtraceRegs, v uint64) { r.R10 = v }},
	{regnum.X64R11, func(r *unix.PtraceRegs) uint64 { return r.R11 }, func(r *unix.PtraceRegs, v uint64) { r.R11 = v }},
	{regnum.X64R12, func(r *unix.PtraceRegs) uint64 { return r.R12 }, func(r *unix.PtraceRegs, v uint64) { r.R12 = v }},
	{regnum.X64R13, func(r *unix.PtraceRegs) uint64 { return r.R13 }, func(r *unix.PtraceRegs, v uint64) { r.R13 = v }},
	{regnum.X64R14, func(r *unix.PtraceRegs) uint64 { return r.R14 }, func(r *unix.PtraceRegs, v uint64) { r.R14 = v }},
	{regnum.X64R15, func(r *unix.PtraceRegs) uint64 { return r.R15 }, func(r *unix.PtraceRegs, v uint64) { r.R15 = v }},
	{regnum.X64Rip, func(r *unix.PtraceRegs) uint64 { return r.Rip }, func(r *unix.PtraceRegs, v uint64) { r.Rip = v }},
	{regnum.X64Rflags, func(r *unix.PtraceRegs) uint64 { return r.Eflags }, func(r *unix.PtraceRegs, v uint64) { r.Eflags = v }},
	{regnum.X64Es, func(r *unix.PtraceRegs) uint64 { return r.Es }, func(r *unix.PtraceRegs, v uint64) { r.Es = v }},
	{regnum.X64Cs, func(r *unix.PtraceRegs) uint64 { return r.Cs }, func(r *unix.PtraceRegs, v uint64) { r.Cs = v }},
	{regnum.X64Ss, func(r *unix.PtraceRegs) uint64 { return r.Ss }, func(r *unix.PtraceRegs, v uint64) { r.Ss = v }},
	{regnum.X64Ds, func(r *unix.PtraceRegs) uint64 { return r.Ds }, func(r *unix.PtraceRegs, v uint64) { r.Ds = v }},
	{regnum.X64Fs, func(r *unix.PtraceRegs) uint64 { return r.Fs }, func(r *unix.PtraceRegs, v uint64) { r.Fs = v }},
	{regnum.X64Gs, func(r *unix.PtraceRegs) uint64 { return r.Gs }, func(r *unix.PtraceRegs, v uint64) { r.Gs = v }},
	{regnum.X64FsBase, func(r *unix.PtraceRegs) uint64 { return r.Fs_base }, func(r *unix.PtraceRegs, v uint64) { r.Fs_base = v }},
	{regnum.X64GsBase, func(r *unix.PtraceRegs) uint64 { return r.Gs_base }, func(r *unix.PtraceRegs, v uint64) { r.Gs_base = v }},
}

// dwarfRegs converts the ptrace register set into a register file indexed
// by DWARF register number. Vector and x87 registers stay invalid.
func dwarfRegs(r *unix.PtraceRegs) (*unwind.RegisterFile, error) {
	rf, err := unwind.NewRegisterFile(regnum.ArchX64)
	if err != nil {
		return nil, err
	}
	for _, p := range ptraceRegs {
		rf.Set(p.reg, p.get(r))
	}
	return rf, nil
}

// setDWARFReg writes v into the ptrace register numbered reg, it reports
// false when reg has no ptrace counterpart.
func setDWARFReg(r *unix.PtraceRegs, reg, v uint64) bool {
	for _, p := range ptraceRegs {
		if p.reg == reg {
			p.set(r, v)
			return true
		}
	}
	return false
}
