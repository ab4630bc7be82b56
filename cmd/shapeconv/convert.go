package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/shapeconv/shapeconv/internal/canonjson"
	"github.com/shapeconv/shapeconv/internal/logx"
	"github.com/shapeconv/shapeconv/internal/pipeline"
)

func newConvertCmd(logCfg *logx.Config) *cobra.Command {
	var (
		input          string
		output         string
		direction      string
		validateSchema bool
	)

	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a single SHACL or ShEx file",
		RunE: func(_ *cobra.Command, _ []string) error {
			if input == "" {
				return fmt.Errorf("%w: --input is required", errMissingArgument)
			}
			if err := resolveDirection(direction); err != nil {
				return err
			}

			logger, err := newLogger(logCfg)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(input)
			if err != nil {
				return fmt.Errorf("reading %s: %w", input, err)
			}

			result, err := convertBytes(direction, data, logger)
			if err != nil {
				return err
			}

			if validateSchema {
				doc, err := canonicalJSONFor(direction, data, logger)
				if err != nil {
					return err
				}
				if err := canonjson.ValidateDocument(doc); err != nil {
					return err
				}
			}

			if output == "" {
				_, err = os.Stdout.Write(result)
				return err
			}
			return writeOutputFile(output, result)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input file path")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file path (default: stdout)")
	cmd.Flags().StringVarP(&direction, "direction", "d", "", "shacl2shex or shex2shacl")
	cmd.Flags().BoolVar(&validateSchema, "validate-schema", false, "validate the canonical JSON intermediate form against the embedded meta-schema")

	return cmd
}

func writeOutputFile(path string, data []byte) error {
	if err := os.MkdirAll(dirOf(path), 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func dirOf(path string) string {
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			return path[:i]
		}
	}
	return "."
}

func canonicalJSONFor(direction string, data []byte, logger *slog.Logger) ([]byte, error) {
	if direction == pipelineSHACLToShEx {
		return pipeline.SHACLToCanonicalJSON(data, logger)
	}
	return pipeline.ShExToCanonicalJSON(data, logger)
}
