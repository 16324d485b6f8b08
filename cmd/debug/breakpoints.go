package debug

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/target"
)

var breaksCmd = &cobra.Command{
	Use:     "breakpoints",
	Short:   "列出所有断点",
	Long:    "列出所有断点",
	Aliases: []string{"bs", "breaks"},
	Annotations: map[string]string{
		cmdGroupAnnotation: cmdGroupBreakpoints,
	},
	Run: func(cmd *cobra.Command, args []string) {
		target.DBPProcess.ListBreakpoints(os.Stdout)
	},
}

func init() {
	debugRootCmd.AddCommand(breaksCmd)
}
