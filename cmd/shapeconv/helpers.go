package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/shapeconv/shapeconv/internal/logx"
	"github.com/shapeconv/shapeconv/internal/pipeline"
)

var errMissingArgument = fmt.Errorf("missing required argument")

func flagSetFor(cfg *logx.Config) *pflag.FlagSet {
	fs := pflag.NewFlagSet("log", pflag.ContinueOnError)
	cfg.RegisterFlags(fs)
	return fs
}

func newLogger(cfg *logx.Config) (*slog.Logger, error) {
	return cfg.NewLogger(os.Stderr)
}

// resolveDirection checks a --direction flag value, returning nil for a
// known direction or an argument error otherwise.
func resolveDirection(dir string) error {
	switch dir {
	case string(pipelineSHACLToShEx), string(pipelineShExToSHACL):
		return nil
	default:
		return fmt.Errorf("%w: --direction must be %q or %q", errMissingArgument, pipelineSHACLToShEx, pipelineShExToSHACL)
	}
}

const (
	pipelineSHACLToShEx = "shacl2shex"
	pipelineShExToSHACL = "shex2shacl"
)

func convertBytes(direction string, data []byte, logger *slog.Logger) ([]byte, error) {
	switch direction {
	case pipelineSHACLToShEx:
		return pipeline.SHACLToShEx(data, logger)
	default:
		return pipeline.ShExToSHACL(data, logger)
	}
}
