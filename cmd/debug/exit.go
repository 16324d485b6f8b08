package debug

import (
	"fmt"
	"os"
	"syscall"

	"github.com/hitzhangjie/dwunwind/pkg/target"
	"github.com/spf13/cobra"
)

var exitCmd = &cobra.Command{
	Use:   "exit",
	Short: "结束调试会话",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupOthers,
	},
	Run: func(cmd *cobra.Command, args []string) {
		CurrentSession.Stop()
	},
}

func init() {
	debugRootCmd.AddCommand(exitCmd)
}

// Cleanup 清理调试会话
func Cleanup() {
	var (
		dbp = target.DBPProcess
		err error
	)
	if dbp == nil {
		return
	}
	defer dbp.StopPtrace()

	// 根据被调试进程创建的方式，exec or attach，来决定如何做善后处理
	// - exec: kill traced process
	// - attach: detach traced process
	switch dbp.Kind {
	case target.EXEC:
		fmt.Fprintf(os.Stdout, "tracee is run by tracer, kill it: %d\n", dbp.Process.Pid)
		if err = syscall.Kill(dbp.Process.Pid, syscall.SIGKILL); err != nil {
			fmt.Fprintf(os.Stderr, "kill tracee: %d, err: %v\n", dbp.Process.Pid, err)
			return
		}
	default:
		if err = dbp.Detach(); err != nil {
			fmt.Fprintf(os.Stderr, "detach tracee: %d, err: %v\n", dbp.Process.Pid, err)
			return
		}
		fmt.Fprintf(os.Stdout, "tracee is an attached process, leave it running: %d\n", dbp.Process.Pid)
	}
}
