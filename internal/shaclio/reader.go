package shaclio

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/knakk/rdf"

	"github.com/shapeconv/shapeconv/internal/model"
)

// RDFError wraps a decode failure surfaced from the external Turtle library,
// as-is (spec.md §7).
type RDFError struct {
	Err error
}

func (e *RDFError) Error() string { return fmt.Sprintf("rdf: %v", e.Err) }
func (e *RDFError) Unwrap() error { return e.Err }

var prefixDeclRe = regexp.MustCompile(`(?m)@prefix\s+([A-Za-z0-9_-]*):\s+<([^>]*)>\s*\.`)

// parsePrefixes scans Turtle source for @prefix declarations and returns
// them in the order they appear, independent of what the decoder itself
// tracks internally, so writers can later re-emit them in input order
// (spec.md §9).
func parsePrefixes(data []byte) *model.PrefixMap {
	pm := model.NewPrefixMap()
	for _, m := range prefixDeclRe.FindAllSubmatch(data, -1) {
		pm.Add(string(m[1]), string(m[2]))
	}
	return pm
}

// decodeTriples reads Turtle source and decodes it into a slice of Triples using
// the external RDF library.
func decodeTriples(r io.Reader) ([]Triple, error) {
	dec := rdf.NewTripleDecoder(r, rdf.FormatTTL)
	var out []Triple
	for {
		t, err := dec.Decode()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &RDFError{Err: err}
		}
		out = append(out, Triple{
			Subj: fromRDFTerm(t.Subj),
			Pred: asIRI(t.Pred),
			Obj:  fromRDFTerm(t.Obj),
		})
	}
	return out, nil
}

func asIRI(t rdf.Term) string {
	if iri, ok := t.(rdf.IRI); ok {
		return iri.IRI
	}
	return ""
}

// ReadSHACL parses Turtle source into a SHACLSchema: one SHACLNodeShape per
// sh:NodeShape subject, with its property shapes resolved from sh:property
// list/set entries.
func ReadSHACL(data []byte) (*model.SHACLSchema, error) {
	triples, err := decodeTriples(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	g := NewGraph(triples)
	prefixes := parsePrefixes(data)

	schema := &model.SHACLSchema{Prefixes: prefixes}

	for _, subj := range g.SubjectsOfType(shNodeShape) {
		shape := model.SHACLNodeShape{IRI: subj.IRIVal}

		if tc, ok := g.Object(subj, shTargetClass); ok && tc.IsIRI() {
			shape.TargetClass = tc.IRIVal
		}
		if closed, ok := g.Object(subj, shClosed); ok && closed.Kind == TermLiteral {
			shape.Closed = closed.Lit.Lexical == "true"
		}

		for _, propTerm := range g.Objects(subj, shProperty) {
			ps, err := readPropertyShape(g, propTerm)
			if err != nil {
				return nil, err
			}
			shape.Properties = append(shape.Properties, ps)
		}

		schema.Shapes = append(schema.Shapes, shape)
	}

	return schema, nil
}

func readPropertyShape(g *Graph, subj Term) (model.SHACLPropertyShape, error) {
	ps := model.SHACLPropertyShape{}

	pathTerm, ok := g.Object(subj, shPath)
	if ok {
		if pathTerm.IsIRI() {
			ps.Path = model.Path{Predicate: pathTerm.IRIVal}
		} else if pathTerm.IsBlank() {
			if inv, ok := g.Object(pathTerm, shInversePath); ok && inv.IsIRI() {
				ps.Path = model.Path{Predicate: inv.IRIVal, Inverse: true}
			}
		}
	}

	if v, ok := g.Object(subj, shMinCount); ok && v.Kind == TermLiteral {
		n := atoiSafe(v.Lit.Lexical)
		ps.MinCount = &n
	}
	if v, ok := g.Object(subj, shMaxCount); ok && v.Kind == TermLiteral {
		n := atoiSafe(v.Lit.Lexical)
		ps.MaxCount = &n
	}

	if v, ok := g.Object(subj, shHasValue); ok {
		ps.HasValue = termToValue(v)
	}

	if listHead, ok := g.Object(subj, shIn); ok {
		for _, el := range g.List(listHead) {
			if val := termToValue(el); val != nil {
				ps.In = append(ps.In, *val)
			}
		}
	}

	if classTerm, ok := g.Object(subj, shClass); ok {
		if classTerm.IsIRI() {
			ps.ClassIRI = classTerm.IRIVal
		} else if classTerm.IsBlank() {
			if orHead, ok := g.Object(classTerm, shOr); ok {
				for _, el := range g.List(orHead) {
					if el.IsIRI() {
						ps.ClassOr = append(ps.ClassOr, el.IRIVal)
					}
				}
			}
		}
	}

	if v, ok := g.Object(subj, shNodeKind); ok && v.IsIRI() {
		nk := nodeKindFromIRI(v.IRIVal)
		ps.NodeKindV = &nk
	}

	if v, ok := g.Object(subj, shDatatype); ok && v.IsIRI() {
		ps.Datatype = v.IRIVal
	}

	if v, ok := g.Object(subj, shPattern); ok && v.Kind == TermLiteral {
		ps.Pattern = v.Lit.Lexical
	}

	if v, ok := g.Object(subj, shNode); ok && v.IsIRI() {
		ps.NodeShape = v.IRIVal
	}

	return ps, nil
}

func termToValue(t Term) *model.Value {
	switch t.Kind {
	case TermIRI:
		v := model.NewIRIValue(t.IRIVal)
		return &v
	case TermLiteral:
		v := model.NewLiteralValue(t.Lit)
		return &v
	default:
		return nil
	}
}

func nodeKindFromIRI(iri string) model.NodeKind {
	switch iri {
	case shIRIKind:
		return model.NodeKindIRI
	case shBlankNodeKind:
		return model.NodeKindBNode
	case shLiteralKind:
		return model.NodeKindLiteral
	case shBlankOrIRIKind:
		return model.NodeKindBNodeOrIRI
	case shBlankOrLiteralKind:
		return model.NodeKindBNodeOrLiteral
	case shIRIOrLiteralKind:
		return model.NodeKindIRIOrLiteral
	default:
		return model.NodeKindIRI
	}
}

func atoiSafe(s string) int {
	n := 0
	neg := false
	for i, c := range s {
		if i == 0 && c == '-' {
			neg = true
			continue
		}
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	if neg {
		return -n
	}
	return n
}
