package mapper

import (
	"log/slog"

	"github.com/shapeconv/shapeconv/internal/model"
)

// mainShapes identifies the main (non-auxiliary) shapes of a schema, per
// spec.md §4.3: the start target if declared, else every shape with two or
// more triple constraints, else just the first declared shape.
func mainShapes(schema *model.ShExSchema) []model.ShExShape {
	if schema.Start != "" {
		if s := schema.ShapeByName(schema.Start); s != nil {
			return []model.ShExShape{*s}
		}
	}

	var multi []model.ShExShape
	for _, s := range schema.Shapes {
		if s.Expr != nil && len(s.Expr.FlattenConjunction()) >= 2 {
			multi = append(multi, s)
		}
	}
	if len(multi) > 0 {
		return multi
	}

	if len(schema.Shapes) > 0 {
		return []model.ShExShape{schema.Shapes[0]}
	}
	return nil
}

// ShExToCanonical normalizes a ShExSchema into canonical form: main shapes
// are identified, typing triples are absorbed into targetClass, and shape
// references are resolved to class references where possible.
func ShExToCanonical(schema *model.ShExSchema, logger *slog.Logger) *model.CanonicalSchema {
	out := &model.CanonicalSchema{}
	for _, shape := range mainShapes(schema) {
		canon := model.CanonicalShape{Name: ShapeName(shape.Name), Closed: shape.Closed}

		var constraints []model.TripleConstraint
		if shape.Expr != nil {
			constraints = shape.Expr.FlattenConjunction()
			nested := shape.Expr.Kind == model.ExprDisjunction
			for _, c := range shape.Expr.Children {
				nested = nested || c.Kind != model.ExprAtom
			}
			if nested && logger != nil {
				logger.Warn("shex shape uses a triple expression outside the supported subset; only its top-level triple constraints are mapped",
					"shape", shape.Name)
			}
		}

		for _, tc := range constraints {
			if model.IsInstanceOfPredicate(tc.Predicate) && tc.Atom.Kind == model.AtomValueSet &&
				len(tc.Atom.ValueSet) == 1 && !tc.Atom.ValueSet[0].IsStem && !tc.Atom.ValueSet[0].IsLiteral {
				canon.TargetClass = tc.Atom.ValueSet[0].IRI
				continue
			}
			canon.Properties = append(canon.Properties, shexConstraintToCanonical(tc, schema, logger))
		}

		canon.SortProperties()
		out.Shapes = append(out.Shapes, canon)
	}
	out.SortShapes()
	return out
}

func shexConstraintToCanonical(tc model.TripleConstraint, schema *model.ShExSchema, logger *slog.Logger) model.CanonicalProperty {
	prop := model.CanonicalProperty{Path: tc.Predicate, Cardinality: tc.Cardinality}

	switch tc.Atom.Kind {
	case model.AtomShapeRef:
		resolveShapeRef(&prop, tc.Atom.ShapeRef, schema, logger)

	case model.AtomValueSet:
		resolveValueSet(&prop, tc.Atom.ValueSet)

	case model.AtomNodeKind:
		prop.Kind = model.ConstraintNodeKind
		prop.NodeKindV = tc.Atom.NodeKindV

	case model.AtomDatatype:
		prop.Kind = model.ConstraintDatatype
		prop.Datatype = tc.Atom.Datatype

	default:
		prop.Kind = model.ConstraintNone
	}

	return prop
}

// resolveShapeRef implements spec.md §4.3's shape-reference resolution: a
// reference to a shape whose sole triple constraint is a pure-IRI value set
// resolves to a class reference; otherwise it falls back to nodeRef
// (UnresolvedReference is recoverable: no error is returned, and a warning
// is logged when the referenced shape is not declared at all).
func resolveShapeRef(prop *model.CanonicalProperty, ref string, schema *model.ShExSchema, logger *slog.Logger) {
	referenced := schema.ShapeByName(ref)
	if referenced == nil {
		if logger != nil {
			logger.Warn("shex shape reference points to an undeclared shape; falling back to nodeRef", "ref", ref)
		}
		prop.Kind = model.ConstraintNodeRef
		prop.NodeRef = ref
		return
	}

	var constraints []model.TripleConstraint
	if referenced.Expr != nil {
		constraints = referenced.Expr.FlattenConjunction()
	}

	if len(constraints) == 1 && constraints[0].Atom.Kind == model.AtomValueSet {
		classes := iriClasses(constraints[0].Atom.ValueSet)
		if len(classes) == len(constraints[0].Atom.ValueSet) && len(classes) > 0 {
			kind, single, many := model.NewClassConstraint(classes)
			prop.Kind = kind
			prop.ClassRef = single
			prop.ClassRefOr = many
			return
		}
	}

	prop.Kind = model.ConstraintNodeRef
	prop.NodeRef = ref
}

func iriClasses(entries []model.ValueSetEntry) []string {
	var out []string
	for _, e := range entries {
		if e.IsLiteral || e.IsStem {
			return nil
		}
		out = append(out, e.IRI)
	}
	return out
}

// resolveValueSet implements spec.md §4.3's value-set resolution: a single
// IRI-stem entry becomes iriStem; otherwise single entry is hasValue,
// multiple is inValues.
func resolveValueSet(prop *model.CanonicalProperty, entries []model.ValueSetEntry) {
	if len(entries) == 1 && entries[0].IsStem {
		prop.Kind = model.ConstraintIRIStem
		prop.IRIStem = model.NewStem(entries[0].IRI)
		return
	}

	values := make([]model.Value, len(entries))
	for i, e := range entries {
		if e.IsLiteral {
			values[i] = model.NewLiteralValue(e.Literal)
		} else {
			values[i] = model.NewIRIValue(e.IRI)
		}
	}
	kind, single, many := model.NewValueConstraint(values)
	prop.Kind = kind
	prop.HasValue = single
	prop.InValues = many
}
