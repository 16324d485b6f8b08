package debug

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var frameCmd = &cobra.Command{
	Use:   "frame [n]",
	Short: "查看第n个栈帧",
	Long:  `查看第n个栈帧的pc、sp、cfa、frame base以及函数中变量的位置`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	Aliases: []string{"f"},
	RunE: func(cmd *cobra.Command, args []string) error {
		idx := 0
		if len(args) != 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil || v < 0 {
				return fmt.Errorf("invalid frame number: %s", args[0])
			}
			idx = v
		}

		dbp := target.DBPProcess
		f, err := dbp.Frame(idx)
		if err != nil {
			return err
		}
		fmt.Println(f)
		fmt.Printf("  sp %#x cfa %#x\n", f.SP, f.CFA)

		pc := f.PC
		if idx > 0 {
			pc--
		}
		fn, err := dbp.BInfo.PCToFunction(pc)
		if err != nil {
			return nil
		}
		if fb, err := dbp.BInfo.FrameBase(fn, pc, f.Regs, dbp); err == nil {
			fmt.Printf("  frame base %#x\n", fb)
		} else {
			fmt.Printf("  frame base: %v\n", err)
		}
		for _, v := range fn.Variables() {
			loc, err := dbp.BInfo.VariableLocation(fn, v.Name(), pc, f.Regs, dbp)
			if err != nil {
				fmt.Printf("  %-8s %s: %v\n", v.Kind, v.Name(), err)
				continue
			}
			fmt.Printf("  %-8s %s: %s\n", v.Kind, v.Name(), describeLoc(loc))
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(frameCmd)
}

func describeLoc(loc op.Location) string {
	if loc.Failed() {
		return "unavailable: " + loc.String()
	}
	return loc.String()
}
