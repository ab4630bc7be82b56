// Package batch orchestrates directory and fixed-pair conversions: each
// input file is converted in isolation, failures do not abort the run, and
// a per-file OK/FAIL summary plus aggregate statistics are produced (spec.md
// §6, §7; original_source/main.py's convert_batch/run_yago_batch).
package batch

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/shapeconv/shapeconv/internal/cache"
)

// Direction is a conversion direction.
type Direction string

const (
	SHACLToShEx Direction = "shacl2shex"
	ShExToSHACL Direction = "shex2shacl"
)

// extensionsFor returns (input extension, output extension) for a direction.
func extensionsFor(dir Direction) (string, string) {
	if dir == SHACLToShEx {
		return ".ttl", ".shex"
	}
	return ".shex", ".ttl"
}

// Converter converts the bytes of one input file to output bytes, or
// returns an error describing why the file could not be converted.
type Converter func(data []byte) ([]byte, error)

// Result is the outcome of converting one file.
type Result struct {
	Name    string
	OK      bool
	Cached  bool
	Message string // set when !OK
}

// Stats summarizes a batch run.
type Stats struct {
	Succeeded int
	Failed    int
	Results   []Result
}

// Lines renders the per-file OK/FAIL summary followed by the aggregate
// counts line, matching the reference implementation's batch output shape.
func (s Stats) Lines() []string {
	lines := make([]string, 0, len(s.Results)+1)
	for _, r := range s.Results {
		if r.OK {
			suffix := ""
			if r.Cached {
				suffix = " (cached)"
			}
			lines = append(lines, fmt.Sprintf("OK %s%s", r.Name, suffix))
		} else {
			lines = append(lines, fmt.Sprintf("FAIL %s: %s", r.Name, r.Message))
		}
	}
	lines = append(lines, fmt.Sprintf("%d succeeded, %d failed", s.Succeeded, s.Failed))
	return lines
}

// Options configures a directory conversion run.
type Options struct {
	Direction Direction
	Convert   Converter
	Cache     *cache.Cache // optional
	Logger    *slog.Logger // optional
}

// ConvertDir converts every file in inputDir with the extension matching
// opts.Direction, writing results to outputDir with the opposite extension.
// Each file's failure is isolated; it is recorded in the returned Stats and
// does not abort the run.
func ConvertDir(inputDir, outputDir string, opts Options) (Stats, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Stats{}, fmt.Errorf("creating output directory %s: %w", outputDir, err)
	}

	extIn, extOut := extensionsFor(opts.Direction)

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return Stats{}, fmt.Errorf("reading input directory %s: %w", inputDir, err)
	}

	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && strings.HasSuffix(e.Name(), extIn) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var stats Stats
	for _, name := range names {
		result := convertOne(inputDir, outputDir, name, extIn, extOut, opts)
		stats.Results = append(stats.Results, result)
		if result.OK {
			stats.Succeeded++
		} else {
			stats.Failed++
		}
	}
	return stats, nil
}

func convertOne(inputDir, outputDir, name, extIn, extOut string, opts Options) Result {
	inputPath := filepath.Join(inputDir, name)
	outputName := strings.TrimSuffix(name, extIn) + extOut
	outputPath := filepath.Join(outputDir, outputName)

	data, err := os.ReadFile(inputPath)
	if err != nil {
		return Result{Name: name, Message: err.Error()}
	}

	cacheKey := string(opts.Direction) + ":" + inputPath
	if opts.Cache != nil {
		if unchanged, cerr := opts.Cache.Unchanged(cacheKey, data); cerr == nil && unchanged {
			if _, serr := os.Stat(outputPath); serr == nil {
				return Result{Name: name, OK: true, Cached: true}
			}
		}
	}

	out, err := opts.Convert(data)
	if err != nil {
		if opts.Logger != nil {
			opts.Logger.Error("conversion failed", "file", name, "error", err)
		}
		return Result{Name: name, Message: err.Error()}
	}

	if err := writeFile(outputPath, out); err != nil {
		return Result{Name: name, Message: err.Error()}
	}

	if opts.Cache != nil {
		_ = opts.Cache.Record(cacheKey, data)
	}

	return Result{Name: name, OK: true}
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// DatasetPair is one directory pair that batch mode converts in a single
// direction, generalizing spec.md §6's fixed pair to an arbitrary
// YAML-configured list.
type DatasetPair struct {
	SHACLDir  string `yaml:"shacl_dir"`
	ShExDir   string `yaml:"shex_dir"`
	Direction string `yaml:"direction"`
}
