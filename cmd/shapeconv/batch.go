package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"

	"github.com/shapeconv/shapeconv/internal/batch"
	"github.com/shapeconv/shapeconv/internal/cache"
	"github.com/shapeconv/shapeconv/internal/logx"
)

// defaultDatasetPairs mirrors the reference implementation's fixed YAGO
// batch (original_source/main.py's run_yago_batch): both directions, run
// when no --config file overrides the pair list.
var defaultDatasetPairs = []batch.DatasetPair{
	{SHACLDir: "dataset/shacl_yago", ShExDir: "shacl_to_shex", Direction: pipelineSHACLToShEx},
	{SHACLDir: "shex_to_shacl", ShExDir: "dataset/shex_yago", Direction: pipelineShExToSHACL},
}

type batchConfig struct {
	Pairs []batch.DatasetPair `yaml:"pairs"`
}

func newBatchCmd(logCfg *logx.Config) *cobra.Command {
	var (
		configPath string
		useCache   bool
		cacheDir   string
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run both directions over a set of dataset directory pairs",
		RunE: func(_ *cobra.Command, _ []string) error {
			pairs := defaultDatasetPairs
			if configPath != "" {
				loaded, err := loadBatchConfig(configPath)
				if err != nil {
					return err
				}
				pairs = loaded
			}

			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}

			var c *cache.Cache
			if useCache {
				c, err = cache.Open(cacheDir)
				if err != nil {
					return err
				}
				defer c.Close()
			}

			var total batch.Stats
			for _, pair := range pairs {
				inputDir, outputDir := pairDirs(pair)

				opts := batch.Options{
					Direction: batch.Direction(pair.Direction),
					Cache:     c,
					Logger:    logger,
					Convert: func(data []byte) ([]byte, error) {
						return convertBytes(pair.Direction, data, logger)
					},
				}

				stats, err := batch.ConvertDir(inputDir, outputDir, opts)
				if err != nil {
					return err
				}
				printSummary(stats)
				total.Succeeded += stats.Succeeded
				total.Failed += stats.Failed
			}

			fmt.Printf("TOTAL: %d succeeded, %d failed\n", total.Succeeded, total.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "YAML file listing dataset directory pairs (default: built-in YAGO pair)")
	cmd.Flags().BoolVar(&useCache, "cache", false, "skip files unchanged since the last run (content-hash keyed)")
	cmd.Flags().StringVar(&cacheDir, "cache-dir", ".shapeconv-cache", "cache directory (used with --cache)")

	return cmd
}

// pairDirs resolves a DatasetPair's input/output directories for its
// declared direction: whichever of SHACLDir/ShExDir is the source extension
// for pair.Direction is the input, the other is the output.
func pairDirs(pair batch.DatasetPair) (input, output string) {
	if pair.Direction == pipelineSHACLToShEx {
		return pair.SHACLDir, pair.ShExDir
	}
	return pair.ShExDir, pair.SHACLDir
}

func loadBatchConfig(path string) ([]batch.DatasetPair, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading batch config %s: %w", path, err)
	}
	var cfg batchConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing batch config %s: %w", path, err)
	}
	if len(cfg.Pairs) == 0 {
		return nil, fmt.Errorf("batch config %s declares no pairs", path)
	}
	return cfg.Pairs, nil
}
