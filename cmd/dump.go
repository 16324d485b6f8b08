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
	"os"

	"github.com/spf13/cobra"

	"github.com/hitzhangjie/dwunwind/pkg/symbol"
)

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump <binary>",
	Short: "print the DWARF content of a binary",
	Long: `print the sections, units, functions and diagnostics of a binary.
Tags, line rows, pubnames and FDEs are printed on request.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			tags, _     = cmd.Flags().GetBool("tags")
			lines, _    = cmd.Flags().GetBool("lines")
			pubnames, _ = cmd.Flags().GetBool("pubnames")
			frames, _   = cmd.Flags().GetBool("frames")
		)

		bi, err := symbol.Analyze(args[0], symbolOptions())
		if err != nil {
			return err
		}
		return bi.Dump(os.Stdout, symbol.DumpOptions{
			Tags:     tags,
			Lines:    lines,
			PubNames: pubnames,
			Frames:   frames,
		})
	},
}

func init() {
	rootCmd.AddCommand(dumpCmd)
	dumpCmd.Flags().Bool("tags", false, "print every tag with its attributes")
	dumpCmd.Flags().Bool("lines", false, "print the line table rows")
	dumpCmd.Flags().Bool("pubnames", false, "print .debug_pubnames and .debug_pubtypes")
	dumpCmd.Flags().Bool("frames", false, "print every FDE")
}
