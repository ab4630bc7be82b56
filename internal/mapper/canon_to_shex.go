package mapper

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/shapeconv/shapeconv/internal/model"
)

// auxBuilder accumulates auxiliary shapes synthesized while emitting
// classRef/classRefOr properties, per spec.md §4.5. Auxiliary shapes are
// compiler artifacts: their names are not guaranteed stable across
// round-trips (spec.md §9).
type auxBuilder struct {
	baseIRI string
	names   map[string]bool // every main + auxiliary shape name minted so far
	byKey   map[string]string // dedup key (sorted class set or single class) -> shape name
	shapes  []model.ShExShape
}

func newAuxBuilder(baseIRI string, mainNames []string) *auxBuilder {
	b := &auxBuilder{baseIRI: baseIRI, names: map[string]bool{}, byKey: map[string]string{}}
	for _, n := range mainNames {
		b.names[n] = true
	}
	return b
}

// reserve returns a name derived from candidate that does not collide with
// any name minted so far, using the deterministic suffix sequence from
// spec.md §4.5: candidate, candidate_class, candidate_class2, ...
func (b *auxBuilder) reserve(candidate string) string {
	if !b.names[candidate] {
		b.names[candidate] = true
		return candidate
	}
	name := candidate + "_class"
	for i := 2; b.names[name]; i++ {
		name = fmt.Sprintf("%s_class%d", candidate, i)
	}
	b.names[name] = true
	return name
}

// classRefShape returns the baseIRI-qualified name of an auxiliary shape
// whose sole triple constraint is a typing constraint over the given class
// IRI, creating it once per distinct class. The returned name is in the
// same namespace as every other shape's Name, so it resolves as a ShapeRef.
func (b *auxBuilder) classRefShape(classIRI string) string {
	if name, ok := b.byKey[classIRI]; ok {
		return b.baseIRI + name
	}
	name := b.reserve(localName(classIRI))
	b.shapes = append(b.shapes, model.ShExShape{
		Name:  b.baseIRI + name,
		Extra: []string{model.RDFTypePredicate},
		Expr: &model.TripleExpr{
			Kind: model.ExprAtom,
			Constraint: &model.TripleConstraint{
				Predicate:   model.RDFTypePredicate,
				Atom:        model.ConstraintAtom{Kind: model.AtomValueSet, ValueSet: []model.ValueSetEntry{{IRI: classIRI}}},
				Cardinality: model.Cardinality{Min: 1, Max: 1},
			},
		},
	})
	b.byKey[classIRI] = name
	return b.baseIRI + name
}

// classRefOrShape returns the baseIRI-qualified name of an auxiliary shape
// whose sole triple constraint is a typing constraint over a value set of
// all the given class IRIs, named by the capitalized property local name.
func (b *auxBuilder) classRefOrShape(propertyPath string, classIRIs []string) string {
	key := strings.Join(classIRIs, "|")
	if name, ok := b.byKey[key]; ok {
		return b.baseIRI + name
	}
	var entries []model.ValueSetEntry
	for _, c := range classIRIs {
		entries = append(entries, model.ValueSetEntry{IRI: c})
	}
	name := b.reserve(capitalize(localName(propertyPath)))
	b.shapes = append(b.shapes, model.ShExShape{
		Name:  b.baseIRI + name,
		Extra: []string{model.RDFTypePredicate},
		Expr: &model.TripleExpr{
			Kind: model.ExprAtom,
			Constraint: &model.TripleConstraint{
				Predicate:   model.RDFTypePredicate,
				Atom:        model.ConstraintAtom{Kind: model.AtomValueSet, ValueSet: entries},
				Cardinality: model.Cardinality{Min: 1, Max: 1},
			},
		},
	})
	b.byKey[key] = name
	return b.baseIRI + name
}

func localName(iri string) string {
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 {
		return iri[i+1:]
	}
	return iri
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// CanonicalToShEx synthesizes a ShExSchema from canonical form. Every shape
// gets EXTRA on the typing predicate; targetClass (if set) becomes a leading
// typing triple constraint. classRef and classRefOr properties reference
// freshly synthesized auxiliary shapes.
func CanonicalToShEx(schema *model.CanonicalSchema, baseIRI string, logger *slog.Logger) *model.ShExSchema {
	mainNames := make([]string, len(schema.Shapes))
	for i, s := range schema.Shapes {
		mainNames[i] = s.Name
	}
	aux := newAuxBuilder(baseIRI, mainNames)

	out := &model.ShExSchema{}
	for _, shape := range schema.Shapes {
		shex := model.ShExShape{
			Name:   baseIRI + shape.Name,
			Extra:  []string{model.RDFTypePredicate},
			Closed: shape.Closed,
		}

		var children []model.TripleExpr
		if shape.TargetClass != "" {
			children = append(children, model.TripleExpr{
				Kind: model.ExprAtom,
				Constraint: &model.TripleConstraint{
					Predicate:   model.RDFTypePredicate,
					Atom:        model.ConstraintAtom{Kind: model.AtomValueSet, ValueSet: []model.ValueSetEntry{{IRI: shape.TargetClass}}},
					Cardinality: model.Cardinality{Min: 1, Max: 1},
				},
			})
		}
		for _, prop := range shape.Properties {
			children = append(children, model.TripleExpr{Kind: model.ExprAtom, Constraint: canonicalPropertyToShEx(prop, aux, baseIRI, logger)})
		}

		shex.Expr = wrapConjunction(children)
		out.Shapes = append(out.Shapes, shex)
	}

	out.Shapes = append(out.Shapes, aux.shapes...)
	return out
}

func wrapConjunction(children []model.TripleExpr) *model.TripleExpr {
	switch len(children) {
	case 0:
		return nil
	case 1:
		return &children[0]
	default:
		return &model.TripleExpr{Kind: model.ExprConjunction, Children: children}
	}
}

func canonicalPropertyToShEx(prop model.CanonicalProperty, aux *auxBuilder, baseIRI string, logger *slog.Logger) *model.TripleConstraint {
	tc := &model.TripleConstraint{Predicate: prop.Path, Cardinality: prop.Cardinality}

	switch prop.Kind {
	case model.ConstraintHasValue:
		tc.Atom = valueSetAtom([]model.Value{prop.HasValue})
	case model.ConstraintInValues:
		tc.Atom = valueSetAtom(prop.InValues)
	case model.ConstraintClassRefOr:
		tc.Atom = model.ConstraintAtom{Kind: model.AtomShapeRef, ShapeRef: aux.classRefOrShape(prop.Path, prop.ClassRefOr)}
	case model.ConstraintClassRef:
		tc.Atom = model.ConstraintAtom{Kind: model.AtomShapeRef, ShapeRef: aux.classRefShape(prop.ClassRef)}
	case model.ConstraintNodeKind:
		tc.Atom = model.ConstraintAtom{Kind: model.AtomNodeKind, NodeKindV: prop.NodeKindV}
	case model.ConstraintDatatype:
		tc.Atom = model.ConstraintAtom{Kind: model.AtomDatatype, Datatype: prop.Datatype}
	case model.ConstraintIRIStem:
		tc.Atom = model.ConstraintAtom{Kind: model.AtomValueSet, ValueSet: []model.ValueSetEntry{{IsStem: true, IRI: string(prop.IRIStem)}}}
	case model.ConstraintPattern:
		// The ShExC subset this system reads and writes has no pattern
		// facet production (spec.md §4.6); a free regex pattern can only
		// have arrived via SHACL and has no faithful ShEx rendering.
		if logger != nil {
			logger.Warn("canonical pattern constraint has no ShExC representation in this subset; degrading to unconstrained",
				"path", prop.Path, "pattern", prop.Pattern)
		}
		tc.Atom = model.ConstraintAtom{Kind: model.AtomUnconstrained}
	case model.ConstraintNodeRef:
		tc.Atom = model.ConstraintAtom{Kind: model.AtomShapeRef, ShapeRef: baseIRI + prop.NodeRef}
	default:
		tc.Atom = model.ConstraintAtom{Kind: model.AtomUnconstrained}
	}

	return tc
}

func valueSetAtom(values []model.Value) model.ConstraintAtom {
	var entries []model.ValueSetEntry
	for _, v := range values {
		if v.IsIRI {
			entries = append(entries, model.ValueSetEntry{IRI: v.IRI})
		} else {
			entries = append(entries, model.ValueSetEntry{IsLiteral: true, Literal: v.Literal})
		}
	}
	return model.ConstraintAtom{Kind: model.AtomValueSet, ValueSet: entries}
}
