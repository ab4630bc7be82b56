// Package pipeline wires the reader → mapper → writer chain for each
// conversion direction (spec.md §2's data flow), so the CLI and batch
// orchestrator share one definition of what "convert" means.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/shapeconv/shapeconv/internal/canonjson"
	"github.com/shapeconv/shapeconv/internal/mapper"
	"github.com/shapeconv/shapeconv/internal/model"
	"github.com/shapeconv/shapeconv/internal/shaclio"
	"github.com/shapeconv/shapeconv/internal/shexio"
)

// DefaultBaseIRI is the namespace canonical shape names are minted under
// when re-materializing a SHACL node shape IRI or a ShEx shape name.
const DefaultBaseIRI = "http://example.org/shapes/"

// SHACLToShEx converts Turtle/SHACL source to ShExC source.
func SHACLToShEx(data []byte, logger *slog.Logger) ([]byte, error) {
	shacl, err := shaclio.ReadSHACL(data)
	if err != nil {
		return nil, err
	}
	canon := mapper.SHACLToCanonical(shacl, logger)
	shex := mapper.CanonicalToShEx(canon, DefaultBaseIRI, logger)
	return []byte(shexio.Write(shex)), nil
}

// ShExToSHACL converts ShExC source to Turtle/SHACL source.
func ShExToSHACL(data []byte, logger *slog.Logger) ([]byte, error) {
	shex, err := shexio.Parse(data)
	if err != nil {
		return nil, err
	}
	canon := mapper.ShExToCanonical(shex, logger)
	shacl := mapper.CanonicalToSHACL(canon, DefaultBaseIRI)
	return []byte(shaclio.WriteSHACL(shacl)), nil
}

// SHACLToCanonicalJSON parses Turtle/SHACL source and emits canonical JSON,
// the semantic-equivalence oracle (spec.md §2).
func SHACLToCanonicalJSON(data []byte, logger *slog.Logger) ([]byte, error) {
	shacl, err := shaclio.ReadSHACL(data)
	if err != nil {
		return nil, err
	}
	canon := mapper.SHACLToCanonical(shacl, logger)
	return canonjson.Marshal(canon)
}

// ShExToCanonicalJSON parses ShExC source and emits canonical JSON.
func ShExToCanonicalJSON(data []byte, logger *slog.Logger) ([]byte, error) {
	shex, err := shexio.Parse(data)
	if err != nil {
		return nil, err
	}
	canon := mapper.ShExToCanonical(shex, logger)
	return canonjson.Marshal(canon)
}

// Equivalent reports whether a and b marshal to byte-identical canonical
// JSON, so slice order of shapes and properties does not matter.
func Equivalent(a, b *model.CanonicalSchema) (bool, error) {
	aj, err := canonjson.Marshal(a)
	if err != nil {
		return false, fmt.Errorf("marshaling first schema: %w", err)
	}
	bj, err := canonjson.Marshal(b)
	if err != nil {
		return false, fmt.Errorf("marshaling second schema: %w", err)
	}
	return string(aj) == string(bj), nil
}
