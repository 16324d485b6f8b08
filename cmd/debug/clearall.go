package debug

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var clearallCmd = &cobra.Command{
	Use:   "clearall",
	Short: "清除所有的断点",
	Long:  `清除所有的断点`,
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := target.DBPProcess.ClearAll(); err != nil {
			return err
		}
		fmt.Println("清除所有断点成功")
		return nil
	},
}

func init() {
	debugRootCmd.AddCommand(clearallCmd)
}
