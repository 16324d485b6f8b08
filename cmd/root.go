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
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/hitzhangjie/dwunwind/cmd/debug"
	"github.com/hitzhangjie/dwunwind/pkg/dwarf/op"
	"github.com/hitzhangjie/dwunwind/pkg/log"
	"github.com/hitzhangjie/dwunwind/pkg/symbol"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "dwunwind",
	Short: "DWARF decoder and call frame unwinder",
	Long: `dwunwind decodes the DWARF debugging information of ELF, Mach-O and PE
binaries, evaluates DWARF expressions and unwinds stacks through the call
frame information in .debug_frame and .eh_frame.

Offline commands inspect a binary, exec and attach open an interactive
debugging session on a live process.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := log.Init(viper.GetString("log.level"), viper.GetBool("log.development")); err != nil {
			return err
		}
		debug.MaxFrames = viper.GetInt("unwind.max_frames")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		log.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.dwunwind.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Bool("verify-hdr", false, "verify .eh_frame_hdr hits with a linear scan")
	_ = viper.BindPFlag("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("frame.verify_hdr", rootCmd.PersistentFlags().Lookup("verify-hdr"))

	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.development", false)
	viper.SetDefault("expr.max_steps", op.DefaultMaxSteps)
	viper.SetDefault("unwind.max_frames", symbol.DefaultMaxFrames)
	viper.SetDefault("frame.verify_hdr", false)
	viper.SetDefault("sections.relaxed", true)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag.
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory.
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		// Search config in home directory with name ".dwunwind" (without extension).
		viper.AddConfigPath(home)
		viper.SetConfigName(".dwunwind")
	}

	viper.SetEnvPrefix("dwunwind")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // read in environment variables that match

	// If a config file is found, read it in.
	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// symbolOptions builds the analysis options from the configuration.
func symbolOptions() symbol.Options {
	opts := symbol.DefaultOptions()
	opts.Reader.Relaxed = viper.GetBool("sections.relaxed")
	opts.VerifyHdr = viper.GetBool("frame.verify_hdr")
	return opts
}
