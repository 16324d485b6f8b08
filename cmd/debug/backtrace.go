package debug

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var backtraceCmd = &cobra.Command{
	Use:     "bt",
	Short:   "打印调用栈信息",
	Long:    `根据.debug_frame/.eh_frame中的调用帧信息(CFI)回溯调用栈`,
	Aliases: []string{"backtrace"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		max, _ := cmd.Flags().GetInt("max")
		if max <= 0 {
			max = MaxFrames
		}

		frames, err := target.DBPProcess.Backtrace(max)
		for _, f := range frames {
			fmt.Println(f)
		}
		if err != nil {
			return fmt.Errorf("backtrace stopped: %v", err)
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(backtraceCmd)
	backtraceCmd.Flags().IntP("max", "n", 0, "最多回溯的栈帧数量")
}
