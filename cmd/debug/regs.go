package debug

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var regsCmd = &cobra.Command{
	Use:   "regs",
	Short: "打印寄存器",
	Long:  `按DWARF寄存器编号打印当前线程的寄存器`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		regs, err := target.DBPProcess.RegisterFile()
		if err != nil {
			return err
		}
		fmt.Println(regs.Format(target.DBPProcess.BInfo.Arch))
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(regsCmd)
}
