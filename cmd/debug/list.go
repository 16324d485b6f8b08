package debug

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var listCmd = &cobra.Command{
	Use:     "list [linespec]",
	Short:   "查看源码信息",
	Aliases: []string{"l"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupSource,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			file   string
			lineno int
			err    error
		)

		// parse location
		if len(args) != 0 {
			file, lineno, err = parseFileLineno(args[0])
			if err != nil {
				return err
			}
		} else {
			regs, rerr := target.DBPProcess.ReadRegister()
			if rerr != nil {
				return rerr
			}
			file, lineno, err = target.DBPProcess.BInfo.PCToFileLine(regs.PC())
			if err != nil {
				return fmt.Errorf("fileline to pc err: %v", err)
			}
			fmt.Printf("line table get file:lineno = %s:%d\n", file, lineno)
		}

		// print lines
		return listFileLines(file, lineno, 5)
	},
}

func init() {
	debugRootCmd.AddCommand(listCmd)
}

// list file lines, lineno is 1-based
func listFileLines(file string, lineno, rng int) error {
	lines, offset, err := listFile(file, lineno, rng)
	if err != nil {
		return fmt.Errorf("list file err: %v", err)
	}

	// use 1-based counter
	idx := offset + 1
	for _, ln := range lines {
		if idx != lineno {
			fmt.Printf("%-4s\t%d\t%s\n", "", idx, ln)
		} else {
			fmt.Printf("%-4s\t%d\t%s\n", "=>", idx, ln)
		}
		idx++
	}
	return nil
}

// must be form file:lineno, like main.go:100
func parseFileLineno(s string) (file string, lineno int, err error) {
	idx := strings.LastIndex(s, ":")
	if idx <= 0 {
		err = fmt.Errorf("invalid location: %s, must be file:lineno", s)
		return
	}
	file = s[:idx]
	v, err := strconv.Atoi(s[idx+1:])
	if err != nil || v <= 0 {
		err = fmt.Errorf("invalid location: %s, must be file:lineno", s)
		return
	}
	lineno = v
	return
}

// return value `offset` is zero-based counter
func listFile(file string, lineno, rng int) (lines []string, offset int, err error) {
	dat, err := os.ReadFile(file)
	if err != nil {
		err = fmt.Errorf("read file err: %v", err)
		return
	}

	raw := strings.Split(string(dat), "\n")
	count := len(raw)

	begin := lineno - 1 - rng
	if begin < 0 {
		begin = 0
	}
	if begin > count {
		return
	}

	end := lineno + rng
	if end > count {
		end = count
	}
	return raw[begin:end], begin, nil
}
