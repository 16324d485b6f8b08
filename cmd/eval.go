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
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/regnum"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/unwind"
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <hex>",
	Short: "disassemble and evaluate a DWARF expression",
	Long: `disassemble and evaluate a DWARF expression given as hex bytes, e.g.

  dwunwind eval "91 68" --fb 0x7ff0
  dwunwind eval 7700 --reg rsp=0x7fe0

Memory is not available, dereferences report a missed read.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			regArgs, _  = cmd.Flags().GetStringSlice("reg")
			archName, _ = cmd.Flags().GetString("arch")
		)

		expr, err := parseHexExpr(strings.Join(args, ""))
		if err != nil {
			return err
		}
		arch, err := parseArch(archName)
		if err != nil {
			return err
		}

		cfg := &op.Config{
			MaxSteps: viper.GetInt("expr.max_steps"),
			AddrSize: arch.AddrSize(),
		}
		if len(regArgs) != 0 {
			regs, err := parseRegs(arch, regArgs)
			if err != nil {
				return err
			}
			cfg.Registers = regs.Values
		}
		if cmd.Flags().Changed("fb") {
			cfg.FrameBase, _ = cmd.Flags().GetUint64("fb")
			cfg.HasFrameBase = true
		}
		if cmd.Flags().Changed("cfa") {
			cfg.CFA, _ = cmd.Flags().GetUint64("cfa")
			cfg.HasCFA = true
		}

		text, err := op.Disassemble(expr, cfg.AddrSize)
		fmt.Printf("expr:  %s\n", text)
		if err != nil {
			fmt.Printf("       %v\n", err)
		}
		fmt.Printf("needs: %s\n", op.Analyze(expr, nil))
		fmt.Printf("loc:   %s\n", op.Eval(expr, cfg))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)
	evalCmd.Flags().StringSlice("reg", nil, "register value as name=value or number=value, repeatable")
	evalCmd.Flags().Uint64("fb", 0, "frame base")
	evalCmd.Flags().Uint64("cfa", 0, "canonical frame address")
	evalCmd.Flags().String("arch", "x64", "register layout: x86, x64, arm, arm64")
}

// parseHexExpr accepts hex bytes with optional 0x prefix and spaces.
func parseHexExpr(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	s = strings.NewReplacer(" ", "", "\t", "", ",", "").Replace(s)
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Wrap(err, "invalid expression bytes")
	}
	return b, nil
}

func parseArch(name string) (regnum.Arch, error) {
	switch strings.ToLower(name) {
	case "x86", "386", "i386":
		return regnum.ArchX86, nil
	case "x64", "amd64", "x86_64":
		return regnum.ArchX64, nil
	case "arm", "arm32":
		return regnum.ArchARM32, nil
	case "arm64", "aarch64":
		return regnum.ArchARM64, nil
	}
	return regnum.ArchNull, errors.Errorf("unknown arch %s", name)
}

// parseRegs builds a register file from name=value pairs. A name is a
// register name of arch or a DWARF register number.
func parseRegs(arch regnum.Arch, pairs []string) (*unwind.RegisterFile, error) {
	regs, err := unwind.NewRegisterFile(arch)
	if err != nil {
		return nil, err
	}
	for _, p := range pairs {
		idx := strings.IndexByte(p, '=')
		if idx <= 0 {
			return nil, errors.Errorf("invalid register %q, want name=value", p)
		}
		name, val := p[:idx], p[idx+1:]

		reg, ok := regnum.FromName(arch, name)
		if !ok {
			n, err := strconv.ParseUint(name, 10, 64)
			if err != nil {
				return nil, errors.Errorf("unknown register %s", name)
			}
			reg = n
		}
		if reg >= uint64(regs.Len()) {
			return nil, errors.Errorf("register %s out of range", name)
		}
		v, err := strconv.ParseUint(val, 0, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "register %s", name)
		}
		regs.Set(reg, v)
	}
	return regs, nil
}
