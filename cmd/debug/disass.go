package debug

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var disassCmd = &cobra.Command{
	Use:   "disass [locspec]",
	Short: "反汇编机器指令",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSource,
	},
	Aliases: []string{"dis", "disassemble"},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			max, _    = cmd.Flags().GetUint64("max")
			syntax, _ = cmd.Flags().GetString("syntax")
		)

		// 默认从PC处开始反汇编
		var addr uint64
		if len(args) != 0 {
			v, err := resolveLoc(args[0])
			if err != nil {
				return err
			}
			addr = v
		} else {
			regs, err := target.DBPProcess.ReadRegister()
			if err != nil {
				return err
			}
			addr = regs.PC()
		}

		// 断点处的0xcc会被替换为原始指令数据
		return target.DBPProcess.Disassemble(os.Stdout, addr, max, syntax)
	},
}

func init() {
	debugRootCmd.AddCommand(disassCmd)
	disassCmd.Flags().Uint64P("max", "n", 10, "反汇编指令数量")
	disassCmd.Flags().StringP("syntax", "s", "gnu", "反汇编指令语法，支持：go, gnu, intel")
}
