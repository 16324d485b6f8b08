package debug

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var printCmd = &cobra.Command{
	Use:     "print <var|reg>",
	Short:   "打印变量或寄存器值",
	Long:    `打印当前函数中变量的位置及其8字节内容，或者按名称打印寄存器值`,
	Aliases: []string{"p"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("need variable name")
		}
		dbp := target.DBPProcess

		regs, err := dbp.RegisterFile()
		if err != nil {
			return err
		}

		// register
		if reg, ok := regnum.FromName(dbp.BInfo.Arch, args[0]); ok {
			v, ok := regs.Get(reg)
			if !ok {
				return fmt.Errorf("register %s has no value", args[0])
			}
			fmt.Printf("%s = %#x\n", args[0], v)
			return nil
		}

		// variable of the current function
		pcReg, err := regnum.PC(dbp.BInfo.Arch)
		if err != nil {
			return err
		}
		pc, _ := regs.Get(pcReg)
		fn, err := dbp.BInfo.PCToFunction(pc)
		if err != nil {
			return err
		}
		loc, err := dbp.BInfo.VariableLocation(fn, args[0], pc, regs, dbp)
		if err != nil {
			return err
		}
		fmt.Printf("%s @ %s\n", args[0], describeLoc(loc))

		s := loc.Simple
		switch {
		case len(loc.Pieces) != 0 || loc.Failed():
		case s.Kind == op.Address:
			var buf [8]byte
			if n, err := dbp.ReadMemory(s.Addr, buf[:]); err == nil && n == len(buf) {
				fmt.Printf("%s = %#x\n", args[0], binary.LittleEndian.Uint64(buf[:]))
			}
		case s.Kind == op.Register:
			if v, ok := regs.Get(s.Reg); ok {
				fmt.Printf("%s = %#x\n", args[0], v)
			}
		case s.Kind == op.Value:
			fmt.Printf("%s = %#x\n", args[0], s.Value)
		}
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(printCmd)
}
