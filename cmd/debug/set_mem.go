package debug

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var setMemCmd = &cobra.Command{
	Use:   "setmem <addr> <value>",
	Short: "设置指定内存位置的值",
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupInfo,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		size, _ := cmd.Flags().GetInt("size")

		// 检查参数数量
		if len(args) != 2 {
			return errors.New("usage: setmem <addr> <value>")
		}
		if size != 1 && size != 2 && size != 4 && size != 8 {
			return fmt.Errorf("invalid size %d, must be 1, 2, 4 or 8", size)
		}

		// 解析地址参数
		addr, err := strconv.ParseUint(args[0], 0, 64)
		if err != nil {
			return fmt.Errorf("invalid address format: %s", args[0])
		}

		// 解析值参数
		value, err := strconv.ParseUint(args[1], 0, 8*size)
		if err != nil {
			return fmt.Errorf("invalid value format: %s", args[1])
		}

		// 读取当前内存值用于显示
		old := make([]byte, size)
		n, err := target.DBPProcess.ReadMemory(addr, old)
		if err != nil || n != size {
			return fmt.Errorf("failed to read memory at address %#x: %v", addr, err)
		}

		// 写入新值，小端序
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], value)
		if err = target.DBPProcess.WriteMemory(addr, buf[:size]); err != nil {
			return fmt.Errorf("failed to write memory at address %#x: %v", addr, err)
		}

		fmt.Printf("%#x: % x => % x\n", addr, old, buf[:size])
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(setMemCmd)
	setMemCmd.Flags().IntP("size", "n", 1, "写入的字节数，支持：1, 2, 4, 8")
}
