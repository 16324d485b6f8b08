package target

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/pkg/errors"
	"golang.org/x/arch/x86/x86asm"
	"golang.org/x/sys/unix"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/unwind"
	"github.com/hitzhangjie/dwunwind/pkg/symbol"
)

// ReadMemory 读取内存地址addr处的数据，并存储到buf中，函数返回实际读取的字节数
func (t *DebuggedProcess) ReadMemory(addr uint64, buf []byte) (int, error) {
	var (
		n   int
		err error
	)
	t.ExecPtrace(func() {
		// PtracePeekText 与 PtracePeekData 效果相同
		n, err = unix.PtracePeekData(t.Process.Pid, uintptr(addr), buf)
	})
	return n, err
}

// WriteMemory 设置内存地址addr处的值为value
func (t *DebuggedProcess) WriteMemory(addr uint64, value []byte) error {
	var (
		n   int
		err error
	)
	t.ExecPtrace(func() {
		n, err = unix.PtracePokeData(t.Process.Pid, uintptr(addr), value)
	})
	if err != nil {
		return err
	}
	if n != len(value) {
		return fmt.Errorf("poke data, %d of %d bytes written", n, len(value))
	}
	return nil
}

// ReadRegister 读取寄存器的数据
func (t *DebuggedProcess) ReadRegister() (*unix.PtraceRegs, error) {
	var (
		regs unix.PtraceRegs
		err  error
	)

	t.ExecPtrace(func() {
		err = unix.PtraceGetRegs(t.Process.Pid, &regs)
		if err != nil {
			err = fmt.Errorf("get regs error: %v", err)
		}
	})

	if err != nil {
		return nil, err
	}
	return &regs, nil
}

// WriteRegister 设置寄存器
func (t *DebuggedProcess) WriteRegister(regs *unix.PtraceRegs) error {
	var err error
	t.ExecPtrace(func() {
		err = unix.PtraceSetRegs(t.Process.Pid, regs)
	})
	return err
}

// RegisterFile returns the registers of the tracee in DWARF numbering.
func (t *DebuggedProcess) RegisterFile() (*unwind.RegisterFile, error) {
	if t.BInfo != nil && t.BInfo.Arch != regnum.ArchX64 {
		return nil, errors.Wrapf(regnum.ErrArchNotImplemented, "ptrace registers for %s", t.BInfo.Arch)
	}
	regs, err := t.ReadRegister()
	if err != nil {
		return nil, err
	}
	return dwarfRegs(regs)
}

// SetRegister sets the register with DWARF number reg.
func (t *DebuggedProcess) SetRegister(reg, v uint64) error {
	regs, err := t.ReadRegister()
	if err != nil {
		return err
	}
	if !setDWARFReg(regs, reg, v) {
		return fmt.Errorf("register %s cannot be written", regnum.Name(regnum.ArchX64, reg))
	}
	return t.WriteRegister(regs)
}

// --------------------------------------------------------------------

// Backtrace 获取调用栈信息
func (t *DebuggedProcess) Backtrace(maxFrames int) ([]symbol.Frame, error) {
	regs, err := t.RegisterFile()
	if err != nil {
		return nil, err
	}
	return t.BInfo.Backtrace(regs, t, maxFrames)
}

// Frame 返回${idx}th个栈帧的信息
func (t *DebuggedProcess) Frame(idx int) (symbol.Frame, error) {
	frames, err := t.Backtrace(idx + 1)
	if len(frames) > idx {
		return frames[idx], nil
	}
	if err != nil {
		return symbol.Frame{}, err
	}
	return symbol.Frame{}, fmt.Errorf("no frame #%d, stack has %d frames", idx, len(frames))
}

// --------------------------------------------------------------------

// Disassemble 反汇编地址addr处的指令
func (t *DebuggedProcess) Disassemble(w io.Writer, addr, max uint64, syntax string) error {

	// 指令数据
	dat := make([]byte, 1024)
	n, err := t.ReadMemory(addr, dat)
	if err != nil || n == 0 {
		return fmt.Errorf("peek text error: %v, bytes: %d", err, n)
	}
	dat = dat[:n]

	// 断点处显示原始指令
	for _, brk := range t.Breakpoints {
		if brk.Addr >= addr && brk.Addr < addr+uint64(n) {
			dat[brk.Addr-addr] = brk.Orig
		}
	}
	return disassemble(w, dat, addr, max, syntax, t.symname)
}

func disassemble(w io.Writer, dat []byte, addr, max uint64, syntax string, symname x86asm.SymLookup) error {
	tw := tabwriter.NewWriter(w, 0, 4, 8, ' ', 0)

	// 反汇编这里的指令数据
	offset := uint64(0)
	count := uint64(0)

	for count < max && offset < uint64(len(dat)) {
		inst, err := x86asm.Decode(dat[offset:], 64)
		if err != nil {
			tw.Flush()
			return fmt.Errorf("x86asm decode error at %#x: %v", addr+offset, err)
		}

		end := offset + uint64(inst.Len)
		asm, err := instSyntax(inst, addr+end, syntax, symname)
		if err != nil {
			return fmt.Errorf("x86asm syntax error: %v", err)
		}

		fmt.Fprintf(tw, "%#x:\t% x\t%s\n", addr+offset, dat[offset:end], asm)
		offset = end
		count++
	}
	return tw.Flush()
}

// instSyntax formats inst, pc is the address of the next instruction.
func instSyntax(inst x86asm.Inst, pc uint64, syntax string, symname x86asm.SymLookup) (string, error) {
	asm := ""
	switch syntax {
	case "go":
		asm = x86asm.GoSyntax(inst, pc, symname)
	case "gnu":
		asm = x86asm.GNUSyntax(inst, pc, symname)
	case "intel":
		asm = x86asm.IntelSyntax(inst, pc, symname)
	default:
		return "", fmt.Errorf("invalid asm syntax error")
	}
	return asm, nil
}

func (t *DebuggedProcess) symname(addr uint64) (string, uint64) {
	if t.BInfo == nil {
		return "", 0
	}
	fn, err := t.BInfo.PCToFunction(addr)
	if err != nil {
		return "", 0
	}
	return fn.Name(), fn.LowPC()
}
