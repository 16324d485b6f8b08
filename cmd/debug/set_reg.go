package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var setRegCmd = &cobra.Command{
	Use:   "setreg <reg> <value>",
	Short: "设置寄存器值",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// 检查参数数量
		if len(args) != 2 {
			return errors.New("usage: setreg <reg> <value>")
		}

		// 寄存器名称按DWARF寄存器表解析
		reg, ok := regnum.FromName(target.DBPProcess.BInfo.Arch, args[0])
		if !ok {
			return fmt.Errorf("invalid register name: %s", args[0])
		}

		// 解析值参数
		value, err := strconv.ParseUint(args[1], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid value format: %s", args[1])
		}

		if err = target.DBPProcess.SetRegister(reg, value); err != nil {
			return fmt.Errorf("failed to write register %s: %v", args[0], err)
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(setRegCmd)
}
