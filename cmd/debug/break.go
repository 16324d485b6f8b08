package debug

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var breakCmd = &cobra.Command{
	Use:   "break <locspec>",
	Short: "在源码中添加断点",
	Long: `在源码中添加断点，源码位置可以通过locspec格式指定。

当前支持的locspec格式，包括:
- 指令地址
- 文件名:行号
- 函数名`,
	Aliases: []string{"b"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {

		if len(args) != 1 {
			return errors.New("参数错误")
		}

		addr, err := resolveLoc(args[0])
		if err != nil {
			return err
		}

		// target add breakpoint
		brk, err := target.DBPProcess.AddBreakpoint(addr)
		if err != nil {
			return err
		}
		fmt.Printf("add %s\n", brk)
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(breakCmd)
}

// resolveLoc converts a locspec to an instruction address, a source line
// resolves past the function prologue.
func resolveLoc(locStr string) (uint64, error) {
	// try parse as address
	if addr, err := parseAddress(locStr); err == nil {
		return addr, nil
	}

	bi := target.DBPProcess.BInfo

	// try parse as file:lineno
	if file, lineno, err := parseFileLineno(locStr); err == nil {
		addr, err := bi.FileLineToPCForBreakpoint(file, lineno)
		if err != nil {
			return 0, fmt.Errorf("fileline to pc err: %v", err)
		}
		return addr, nil
	}

	// function name
	addr, err := bi.LocToPC(locStr)
	if err != nil {
		return 0, fmt.Errorf("invalid loc: %s, %v", locStr, err)
	}
	return addr, nil
}

func parseAddress(locStr string) (uint64, error) {
	v, err := strconv.ParseUint(locStr, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid locspec: %v", err)
	}
	return v, nil
}
