package target

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/sys/unix"

	"github.com/hitzhangjie/dwunwind/pkg/log"
	"github.com/hitzhangjie/dwunwind/pkg/symbol"
)

// DBPProcess is the process the interactive shell works on.
var DBPProcess *DebuggedProcess

// Kind 发起调试的类型
type Kind int

const (
	EXEC   Kind = iota // 由调试器启动
	ATTACH             // attach到运行中进程
)

func (k Kind) String() string {
	switch k {
	case EXEC:
		return "exec"
	case ATTACH:
		return "attach"
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// DebuggedProcess 被调试进程信息
type DebuggedProcess struct {
	Process *os.Process     // 进程信息
	Threads map[int]*Thread // 包含的线程列表,k=tid,v=thread

	Command string   // 进程启动命令，方便重启调试
	Args    []string // 进程启动参数，方便重启调试
	Kind    Kind     // 发起调试的类型

	BInfo       *symbol.BinaryInfo     // 符号层操作，pc和file:lineno、func之间的转换，栈回溯
	Breakpoints map[uint64]*Breakpoint // 已经添加的断点

	once       *sync.Once
	ptraceCh   chan func() // ptrace请求统一发送到这里，由专门协程处理
	ptraceDone chan int    // ptrace请求完成
	stopCh     chan int    // 通知需要停止调试
}

func newDebuggedProcess(cmd string, args []string, kind Kind) *DebuggedProcess {
	return &DebuggedProcess{
		Threads:     map[int]*Thread{},
		Command:     cmd,
		Args:        args,
		Kind:        kind,
		Breakpoints: map[uint64]*Breakpoint{},
		once:        &sync.Once{},
		ptraceCh:    make(chan func()),
		ptraceDone:  make(chan int),
		stopCh:      make(chan int),
	}
}

// NewDebuggedProcess 创建一个待调试进程
func NewDebuggedProcess(cmd string, args []string, opts symbol.Options) (*DebuggedProcess, error) {
	var err error

	target := newDebuggedProcess(cmd, args, EXEC)
	defer func() {
		if err != nil {
			target.StopPtrace()
		}
	}()

	target.ExecPtrace(func() {
		// start and trace
		target.Process, err = target.launchCommand(cmd, args...)
		if err != nil {
			return
		}

		// trace newly created thread
		err = unix.PtraceSetOptions(target.Process.Pid, unix.PTRACE_O_TRACECLONE)
	})
	if err != nil {
		return nil, err
	}
	target.Threads[target.Process.Pid] = &Thread{Tid: target.Process.Pid, Process: target}

	// load binary info
	if err = target.loadBinaryInfo(opts); err != nil {
		return nil, err
	}
	return target, nil
}

// AttachTargetProcess trace一个目标进程（准确地说是线程）
func AttachTargetProcess(pid int, opts symbol.Options) (*DebuggedProcess, error) {
	var err error

	target := newDebuggedProcess("", nil, ATTACH)
	defer func() {
		if err != nil {
			target.StopPtrace()
		}
	}()

	if target.Process, err = os.FindProcess(pid); err != nil {
		return nil, err
	}

	target.ExecPtrace(func() {
		// attach to running process (thread)
		err = target.attach(pid)
	})
	if err != nil {
		return nil, err
	}

	// initialize the command and arguments,
	// after then, we could support restart command.
	if target.Command, err = readProcComm(pid); err != nil {
		return nil, err
	}

	if target.Args, err = readProcCommArgs(pid); err != nil {
		return nil, err
	}

	target.ExecPtrace(func() {
		// attach to other threads, and prepare to trace newly created thread
		err = target.updateThreadList()
	})
	if err != nil {
		return nil, err
	}

	if err = target.loadBinaryInfo(opts); err != nil {
		return nil, err
	}
	return target, nil
}

// loadBinaryInfo analyzes the executable image of the tracee.
func (t *DebuggedProcess) loadBinaryInfo(opts symbol.Options) error {
	bi, err := symbol.Analyze(fmt.Sprintf("/proc/%d/exe", t.Process.Pid), opts)
	if err != nil {
		return errors.Wrapf(err, "analyze process %d", t.Process.Pid)
	}
	t.BInfo = bi
	return nil
}

// launchCommand execute `execName` with `args`
//
// 为了方便调试，除了跟踪主线程，还需要考虑跟踪后续新创建的线程，linux 2.5.46中引入了以下ptrace选项，
// 通过设置该选项可以使得tracer自动跟踪新创建线程。
//
// PTRACE_O_TRACECLONE (since Linux 2.5.46)
//                     Stop the tracee at the next clone(2) and
//                     automatically start tracing the newly cloned
//                     process, which will start with a SIGSTOP, or
//                     PTRACE_EVENT_STOP if PTRACE_SEIZE was used.  A
//                     waitpid(2) by the tracer will return a status value.
//
// see more info by `man 2 ptrace`.
func (t *DebuggedProcess) launchCommand(execName string, args ...string) (*os.Process, error) {

	progCmd := exec.Command(execName, args...)
	progCmd.Stdin = os.Stdin
	progCmd.Stdout = os.Stdout
	progCmd.Stderr = os.Stderr

	progCmd.SysProcAttr = &syscall.SysProcAttr{
		Ptrace:     true, // implies PTRACE_TRACEME
		Setpgid:    true,
		Foreground: false,
	}
	progCmd.Env = os.Environ()

	// start the process
	err := progCmd.Start()
	if err != nil {
		return nil, err
	}
	t.Process = progCmd.Process

	// wait target process stopped
	_, status, err := t.wait(progCmd.Process.Pid, unix.WALL)
	if err != nil {
		return nil, err
	}
	log.L().Info("process started", zap.Int("pid", progCmd.Process.Pid), zap.String("status", desc(status)))

	return progCmd.Process, nil
}

// ExecPtrace runs fn on the tracer thread.
func (t *DebuggedProcess) ExecPtrace(fn func()) {
	t.once.Do(func() {
		go func() {
			// ensure all ptrace requests goes via the same tracer (thread)
			//
			// issue: https://github.com/golang/go/issues/7699
			//
			// 为什么syscall.PtraceDetach, detach error: no such process?
			// 因为ptrace请求应该来自相同的tracer线程，
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()

			for {
				select {
				case reqFn := <-t.ptraceCh:
					reqFn()
					t.ptraceDone <- 1
				case <-t.stopCh:
					return
				}
			}
		}()
	})
	t.ptraceCh <- fn
	<-t.ptraceDone
}

// StopPtrace stops the tracer thread, no ptrace request may follow.
func (t *DebuggedProcess) StopPtrace() {
	close(t.stopCh)
}

// attach attach to process pid
func (t *DebuggedProcess) attach(pid int) error {

	// check traceePID
	if !checkPid(pid) {
		return fmt.Errorf("process %d not existed", pid)
	}

	// attach
	err := unix.PtraceAttach(pid)
	if err != nil {
		return fmt.Errorf("process %d attached error: %v", pid, err)
	}

	// wait
	_, status, err := t.wait(pid, unix.WALL)
	if err != nil {
		return fmt.Errorf("process %d waited error: %v", pid, err)
	}
	log.L().Info("process attached", zap.Int("pid", pid), zap.String("status", desc(status)))
	return nil
}

// Detach detaches every traced thread, breakpoints are removed first.
func (t *DebuggedProcess) Detach() error {

	// check traceePID
	if !checkPid(t.Process.Pid) {
		return fmt.Errorf("process %d not existed", t.Process.Pid)
	}

	if err := t.ClearAll(); err != nil {
		return err
	}

	// Detach all threads
	tids, err := readThreadIDs(t.Process.Pid)
	if err != nil {
		return err
	}

	for _, tid := range tids {
		t.ExecPtrace(func() {
			err = unix.PtraceDetach(tid)
		})
		if err != nil {
			fmt.Printf("thread %d detached error: %v\n", tid, err)
			continue
		}
		fmt.Printf("thread %d detached succ\n", tid)
	}
	return nil
}

func (t *DebuggedProcess) updateThreadList() error {

	tids, err := readThreadIDs(t.Process.Pid)
	if err != nil {
		return fmt.Errorf("load threads err: %v", err)
	}

	for _, tid := range tids {
		// attach to thread
		err = unix.PtraceAttach(tid)
		if err != nil && err != unix.EPERM {
			// Maybe we have traced tid via PTRACE_O_TRACECLONE.
			// If we try to attach to it again, it will fail.
			// We should ignore this kind of error.
			return fmt.Errorf("attach err: %v", err)
		}

		// wait thread
		_, status, err := t.wait(tid, unix.WALL|unix.WNOHANG)
		if err != nil {
			return fmt.Errorf("wait err: %v", err)
		}
		if status != nil && status.Exited() {
			fmt.Printf("thread:%d already exited\n", tid)
			continue
		}

		// update thread
		err = unix.PtraceSetOptions(tid, unix.PTRACE_O_TRACECLONE)
		if err != nil {
			return fmt.Errorf("set PTRACE_O_TRACECLONE err: %v", err)
		}

		th := &Thread{Tid: tid, Process: t}
		if status != nil {
			th.Status = *status
		}
		t.Threads[tid] = th
	}
	return nil
}

// checkPid check whether traceePID is valid process's id
//
// On Unix systems, os.FindProcess always succeeds and returns a Process for
// the given traceePID, regardless of whether the process exists.
func checkPid(pid int) bool {
	err := unix.Kill(pid, 0)
	return err == nil || err == unix.EPERM
}

// --------------------------------------------------------------------

// Continue resumes the tracee and waits for the next stop. A stop on one
// of our breakpoints leaves pc at the breakpoint address.
func (t *DebuggedProcess) Continue() (*unix.WaitStatus, error) {
	var err error
	t.ExecPtrace(func() {
		err = unix.PtraceCont(t.Process.Pid, 0)
	})
	if err != nil {
		return nil, err
	}

	wpid, status, err := t.wait(t.Process.Pid, unix.WALL)
	if err != nil {
		return nil, err
	}
	log.L().Debug("continued", zap.Int("pid", wpid), zap.String("status", desc(status)))
	return status, t.rewindBreakpoint(status)
}

func desc(status *unix.WaitStatus) string {
	switch {
	case status == nil:
		return "zombie"
	case status.Continued():
		return "continued"
	case status.Exited():
		return "exited: " + strconv.Itoa(status.ExitStatus())
	case status.Signaled():
		return "signaled: " + status.Signal().String()
	case status.Stopped():
		return "stopped: " + status.StopSignal().String()
	case status.CoreDump():
		return "coredump"
	default:
		return strconv.Itoa(int(*status))
	}
}

// SingleStep 执行一条指令
func (t *DebuggedProcess) SingleStep() (*unix.WaitStatus, error) {
	var err error
	t.ExecPtrace(func() {
		err = unix.PtraceSingleStep(t.Process.Pid)
	})
	if err != nil {
		return nil, err
	}

	// MUST: 当发起了某些对tracee执行控制的ptrace request之后，要调用wait等待并获取tracee状态变化
	_, status, err := t.wait(t.Process.Pid, unix.WALL)
	if err != nil {
		return nil, fmt.Errorf("wait error: %v", err)
	}
	return status, nil
}

func (t *DebuggedProcess) wait(pid, options int) (int, *unix.WaitStatus, error) {
	var s unix.WaitStatus
	if (t.Process.Pid != pid) || (options != 0) {
		wpid, err := unix.Wait4(pid, &s, unix.WALL|options, nil)
		return wpid, &s, err
	}
	// If we call wait4/waitpid on a thread that is the leader of its group,
	// with options == 0, while ptracing and the thread leader has exited leaving
	// zombies of its own then waitpid hangs forever this is apparently intended
	// behaviour in the linux kernel because it's just so convenient.
	// Therefore we call wait4 in a loop with WNOHANG, sleeping a while between
	// calls and exiting when either wait4 succeeds or we find out that the thread
	// has become a zombie.
	// References:
	// https://sourceware.org/bugzilla/show_bug.cgi?id=12702
	// https://sourceware.org/bugzilla/show_bug.cgi?id=10095
	// https://sourceware.org/bugzilla/attachment.cgi?id=5685
	for {
		wpid, err := unix.Wait4(pid, &s, unix.WNOHANG|unix.WALL|options, nil)
		if err != nil {
			return 0, nil, err
		}
		if wpid != 0 {
			return wpid, &s, err
		}
		if procStatus(pid) == statusZombie {
			return pid, nil, nil
		}
		time.Sleep(200 * time.Millisecond)
	}
}
