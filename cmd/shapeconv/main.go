// Package main provides the CLI entry point for shapeconv, a bidirectional
// translator between a SHACL dialect (Turtle) and a ShEx dialect (ShExC),
// mediated by a canonical JSON intermediate representation.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapeconv/shapeconv/internal/logx"
)

func main() {
	logCfg := logx.NewConfig()

	rootCmd := &cobra.Command{
		Use:           "shapeconv",
		Short:         "Translate between SHACL (Turtle) and ShEx (ShExC) shape constraints",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	rootCmd.PersistentFlags().AddFlagSet(flagSetFor(logCfg))

	rootCmd.AddCommand(
		newConvertCmd(logCfg),
		newDirCmd(logCfg),
		newBatchCmd(logCfg),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
