package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/shapeconv/shapeconv/internal/batch"
	"github.com/shapeconv/shapeconv/internal/cache"
	"github.com/shapeconv/shapeconv/internal/logx"
)

func newDirCmd(logCfg *logx.Config) *cobra.Command {
	var (
		inputDir  string
		outputDir string
		direction string
		useCache  bool
		cacheDir  string
	)

	cmd := &cobra.Command{
		Use:   "dir",
		Short: "Convert every file in a directory",
		RunE: func(_ *cobra.Command, _ []string) error {
			if inputDir == "" || outputDir == "" {
				return fmt.Errorf("%w: --input-dir and --output-dir are required", errMissingArgument)
			}
			if err := resolveDirection(direction); err != nil {
				return err
			}

			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}

			opts := batch.Options{
				Direction: batch.Direction(direction),
				Logger:    logger,
				Convert: func(data []byte) ([]byte, error) {
					return convertBytes(direction, data, logger)
				},
			}
			if useCache {
				c, err := cache.Open(cacheDir)
				if err != nil {
					return err
				}
				defer c.Close()
				opts.Cache = c
			}

			stats, err := batch.ConvertDir(inputDir, outputDir, opts)
			if err != nil {
				return err
			}
			printSummary(stats)
			return nil
		},
	}

	cmd.Flags().StringVar(&inputDir, "input-dir", "", "input directory")
	cmd.Flags().StringVar(&outputDir, "output-dir", "", "output directory")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "shacl2shex or shex2shacl")
	cmd.Flags().BoolVar(&useCache, "cache", false, "skip files unchanged since the last run (content-hash keyed)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", ".shapeconv-cache", "cache directory (used with --cache)")

	return cmd
}

// printSummary prints the per-file OK/FAIL lines followed by the aggregate
// counts line. When stderr is a terminal, failures are marked distinctly so
// they stand out in an interactive run.
func printSummary(stats batch.Stats) {
	interactive := term.IsTerminal(int(os.Stderr.Fd()))
	for _, line := range stats.Lines() {
		if interactive && len(line) >= 4 && line[:4] == "FAIL" {
			fmt.Fprintf(os.Stderr, "\033[31m%s\033[0m\n", line)
		} else {
			fmt.Println(line)
		}
	}
}
