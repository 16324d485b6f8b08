package target

import (
	"fmt"
	"io"
	"sort"

	"github.com/pkg/errors"
	"go.uber.org/atomic"
	"golang.org/x/sys/unix"
)

var (
	bpSeqNo = atomic.NewUint64(0)

	ErrBreakpointNotExisted = errors.New("breakpoint not existed")
	ErrBreakpointExisted    = errors.New("breakpoint already existed")
)

const int3 = 0xCC

// Breakpoint 断点信息
type Breakpoint struct {
	ID      uint64 // 断点编号
	Addr    uint64 // 断点地址
	Pos     string // 源文件位置
	Orig    byte   // 原内存数据
	Cond    string // 条件表达式
	Enabled bool   // 断点是否启用
}

// 在指令地址addr处创建一个断点，该地址处原始的1字节数据为orig，源码位置为location
func newBreakPoint(addr uint64, orig byte, location string) *Breakpoint {
	return &Breakpoint{
		ID:      bpSeqNo.Add(1),
		Addr:    addr,
		Orig:    orig,
		Pos:     location,
		Enabled: true,
	}
}

func (b *Breakpoint) String() string {
	pos := b.Pos
	if pos == "" {
		pos = "?"
	}
	return fmt.Sprintf("breakpoint[%d] addr:%#x, loc:%s", b.ID, b.Addr, pos)
}

// Breakpoints 所有的断点信息
type Breakpoints []*Breakpoint

// Len 返回长度
func (b Breakpoints) Len() int {
	return len(b)
}

// Less 检查b[i]是否小于b[j]
func (b Breakpoints) Less(i, j int) bool {
	return b[i].ID < b[j].ID
}

// Swap 交换b[i]和b[j]
func (b Breakpoints) Swap(i, j int) {
	b[i], b[j] = b[j], b[i]
}

// SortedBreakpoints 按编号返回所有断点
func (t *DebuggedProcess) SortedBreakpoints() Breakpoints {
	brks := make(Breakpoints, 0, len(t.Breakpoints))
	for _, b := range t.Breakpoints {
		brks = append(brks, b)
	}
	sort.Sort(brks)
	return brks
}

// ListBreakpoints 列出所有断点
func (t *DebuggedProcess) ListBreakpoints(w io.Writer) {
	for _, b := range t.SortedBreakpoints() {
		fmt.Fprintln(w, b)
	}
}

// AddBreakpoint 在地址addr处添加断点，返回新创建的断点
func (t *DebuggedProcess) AddBreakpoint(addr uint64) (*Breakpoint, error) {
	if _, ok := t.Breakpoints[addr]; ok {
		return nil, errors.Wrapf(ErrBreakpointExisted, "addr %#x", addr)
	}

	orig, err := t.patch(addr)
	if err != nil {
		return nil, err
	}
	breakpoint := newBreakPoint(addr, orig, "")

	if t.BInfo != nil {
		if file, line, err := t.BInfo.PCToFileLine(addr); err == nil {
			breakpoint.Pos = fmt.Sprintf("%s:%d", file, line)
		}
	}
	t.Breakpoints[addr] = breakpoint
	return breakpoint, nil
}

// patch writes int3 at addr and returns the byte it replaced.
func (t *DebuggedProcess) patch(addr uint64) (byte, error) {
	var (
		orig [1]byte
		err  error
	)
	t.ExecPtrace(func() {
		pid := t.Process.Pid

		n, perr := unix.PtracePeekText(pid, uintptr(addr), orig[:])
		if perr != nil || n != 1 {
			err = fmt.Errorf("peek text, %d bytes, error: %v", n, perr)
			return
		}

		n, perr = unix.PtracePokeText(pid, uintptr(addr), []byte{int3})
		if perr != nil || n != 1 {
			err = fmt.Errorf("poke text, %d bytes, error: %v", n, perr)
		}
	})
	return orig[0], err
}

// IsBreakpoint reports whether addr holds a breakpoint set by the debugger.
func (t *DebuggedProcess) IsBreakpoint(addr uint64) bool {
	_, ok := t.Breakpoints[addr]
	return ok
}

// ClearBreakpoint 删除addr处的断点
func (t *DebuggedProcess) ClearBreakpoint(addr uint64) (*Breakpoint, error) {

	brk, ok := t.Breakpoints[addr]
	if !ok {
		return nil, ErrBreakpointNotExisted
	}

	// 移除断点
	pid := t.Process.Pid

	var err error
	t.ExecPtrace(func() {
		n, perr := unix.PtracePokeData(pid, uintptr(brk.Addr), []byte{brk.Orig})
		if perr != nil || n != 1 {
			err = fmt.Errorf("ptrace poke data err: %v", perr)
			return
		}
		delete(t.Breakpoints, brk.Addr)
	})
	if err != nil {
		return nil, err
	}
	return brk, nil
}

// ClearAll 删除所有已添加的断点
func (t *DebuggedProcess) ClearAll() error {
	for _, brk := range t.SortedBreakpoints() {
		if _, err := t.ClearBreakpoint(brk.Addr); err != nil {
			return errors.Wrapf(err, "clear %s", brk)
		}
	}
	return nil
}

// StepOverBreakpoint executes the original instruction when the tracee
// sits on a breakpoint: the original byte is restored, the instruction
// single stepped and the same breakpoint reinstalled. It reports false when
// pc is not one of our breakpoints.
func (t *DebuggedProcess) StepOverBreakpoint() (bool, error) {
	regs, err := t.ReadRegister()
	if err != nil {
		return false, err
	}
	addr := regs.PC()
	if !t.IsBreakpoint(addr) {
		return false, nil
	}

	brk, err := t.ClearBreakpoint(addr)
	if err != nil {
		return true, fmt.Errorf("clear breakpoint err: %v", err)
	}

	status, stepErr := t.SingleStep()
	if stepErr == nil && status != nil && (status.Exited() || status.Signaled()) {
		return true, nil
	}
	if _, err := t.patch(brk.Addr); err != nil {
		if stepErr == nil {
			stepErr = err
		}
		return true, stepErr
	}
	t.Breakpoints[brk.Addr] = brk
	return true, stepErr
}

// rewindBreakpoint moves pc back onto the breakpoint the tracee trapped
// on, so that pc always names the next instruction to execute.
func (t *DebuggedProcess) rewindBreakpoint(status *unix.WaitStatus) error {
	if status == nil || !status.Stopped() || status.StopSignal() != unix.SIGTRAP {
		return nil
	}
	regs, err := t.ReadRegister()
	if err != nil {
		return err
	}
	if !t.IsBreakpoint(regs.PC() - 1) {
		return nil
	}
	regs.SetPC(regs.PC() - 1)
	return t.WriteRegister(regs)
}
