package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var clearCmd = &cobra.Command{
	Use:   "clear <breakpoint no.>",
	Short: "清除指定编号的断点",
	Long:  `清除指定编号的断点`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return errors.New("参数错误")
		}
		id, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid breakpoint no.: %s", args[0])
		}

		// 查找断点
		var brk *target.Breakpoint
		for _, b := range target.DBPProcess.Breakpoints {
			if b.ID != id {
				continue
			}
			brk = b
			break
		}

		if brk == nil {
			return errors.New("断点不存在")
		}

		// 移除断点
		_, err = target.DBPProcess.ClearBreakpoint(brk.Addr)
		if err != nil {
			return err
		}
		fmt.Printf("移除断点成功: %s\n", brk)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(clearCmd)
}
