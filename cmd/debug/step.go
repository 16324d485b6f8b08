package debug

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var stepCmd = &cobra.Command{
	Use:     "step",
	Short:   "执行一条指令",
	Aliases: []string{"s", "si"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupCtrlFlow,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		dbp := target.DBPProcess

		// is a breakpoint, stepping over it executes one instruction
		stepped, err := dbp.StepOverBreakpoint()
		if err != nil {
			return fmt.Errorf("single step err: %v", err)
		}
		if stepped {
			return reportStop(dbp, nil)
		}

		// isn't a breakpoint
		status, err := dbp.SingleStep()
		if err != nil {
			return fmt.Errorf("single step err: %v", err)
		}
		return reportStop(dbp, status)
	},
}

func init() {
	debugRootCmd.AddCommand(stepCmd)
}
