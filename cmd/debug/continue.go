package debug

import (
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var continueCmd = &cobra.Command{
	Use:   "continue",
	Short: "运行到下个断点",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupCtrlFlow,
	},
	Aliases: []string{"c"},
	RunE: func(cmd *cobra.Command, args []string) error {
		dbp := target.DBPProcess

		// 停在断点处时，先执行断点处的原始指令
		if _, err := dbp.StepOverBreakpoint(); err != nil {
			return fmt.Errorf("step over breakpoint err: %v", err)
		}

		status, err := dbp.Continue()
		if err != nil {
			return fmt.Errorf("continue error: %v", err)
		}
		return reportStop(dbp, status)
	},
}

func init() {
	debugRootCmd.AddCommand(continueCmd)
}

// reportStop prints where the tracee stopped, or how it ended.
func reportStop(dbp *target.DebuggedProcess, status *unix.WaitStatus) error {
	if status != nil && (status.Exited() || status.Signaled()) {
		fmt.Printf("process %d exited\n", dbp.Process.Pid)
		return nil
	}

	regs, err := dbp.ReadRegister()
	if err != nil {
		return fmt.Errorf("get regs error: %v", err)
	}
	pc := regs.PC()
	if dbp.IsBreakpoint(pc) {
		fmt.Printf("at %s\n", dbp.Breakpoints[pc])
	}
	fmt.Printf("current PC: %#x", pc)
	if fn, err := dbp.BInfo.PCToFunction(pc); err == nil {
		fmt.Printf(" in %s", fn.Name())
	}
	if file, line, err := dbp.BInfo.PCToFileLine(pc); err == nil {
		fmt.Printf(" at %s:%d", file, line)
	}
	fmt.Println()
	return nil
}
