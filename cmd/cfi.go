/*
Copyright © 2020 hit.zhangjie@gmail.com

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/frame"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/symbol"
)

// cfiCmd represents the cfi command
var cfiCmd = &cobra.Command{
	Use:   "cfi <binary> <pc>",
	Short: "print the call frame information covering pc",
	Long: `print the FDE covering pc with its CIE, and the unwind table of the FDE.
The row in effect at pc is marked with "=>".`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pc, err := strconv.ParseUint(args[1], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid pc %s: %v", args[1], err)
		}

		bi, err := symbol.Analyze(args[0], symbolOptions())
		if err != nil {
			return err
		}
		fde, err := bi.FDEForPC(pc)
		if err != nil {
			return err
		}
		regCount, err := regnum.RegCount(bi.Arch)
		if err != nil {
			return err
		}
		if fn, err := bi.PCToFunction(pc); err == nil {
			fmt.Printf("function %s\n", fn.Name())
		}
		return printFDE(os.Stdout, fde, pc, regCount)
	},
}

func init() {
	rootCmd.AddCommand(cfiCmd)
}

func printFDE(w io.Writer, fde *frame.FrameDescriptionEntry, pc uint64, regCount int) error {
	cie := fde.CIE
	fmt.Fprintf(w, "cie at %#x: version %d augmentation %q code_align %d data_align %d ra %d\n",
		cie.Offset, cie.Version, cie.Augmentation, cie.CodeAlignmentFactor,
		cie.DataAlignmentFactor, cie.ReturnAddressRegister)
	fmt.Fprintf(w, "fde at %#x: [%#x, %#x)\n", fde.Offset, fde.Begin(), fde.End())

	u, err := frame.NewUnwinder(fde, regCount)
	if err != nil {
		return err
	}
	for u.NextRow() {
		row, end := u.Row(), u.RowEnd()
		mark := "  "
		if row.Loc <= pc && pc < end {
			mark = "=>"
		}
		fmt.Fprintf(w, "%s [%#x, %#x) %s\n", mark, row.Loc, end, row)
	}
	return u.Err()
}
