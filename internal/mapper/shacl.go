// Package mapper implements the bidirectional constraint mappers between the
// SHACL and ShEx dialect models and the canonical model: the normalization
// kernel that establishes semantic equivalence between the two notations.
package mapper

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/shapeconv/shapeconv/internal/model"
)

// patternStemRe recognizes a SHACL pattern that is really an anchored
// http(s) prefix check, the shape the reference dataset uses for
// owl:sameAs-style IRI-stem constraints.
var patternStemRe = regexp.MustCompile(`^\^(https?://.*?)/?$`)

// shapeSuffix is the literal suffix the inverse mapper (Canonical → SHACL)
// appends to node shape IRIs, and that ShapeName strips back off together
// with everything up to the final path segment.
const shapeSuffix = "Shape"

// ShapeName derives a canonical shape name from a SHACL node shape IRI: the
// final path segment, with a trailing literal "Shape" stripped if present.
func ShapeName(iri string) string {
	seg := iri
	if i := strings.LastIndexAny(iri, "/#"); i >= 0 {
		seg = iri[i+1:]
	}
	return strings.TrimSuffix(seg, shapeSuffix)
}

// SHACLToCanonical normalizes a SHACLSchema into canonical form: cardinality
// defaults are resolved, typing triples are absorbed into targetClass, class
// unions are folded, and patterns recognized as IRI-stem checks are
// converted.
func SHACLToCanonical(schema *model.SHACLSchema, logger *slog.Logger) *model.CanonicalSchema {
	out := &model.CanonicalSchema{}
	for _, ns := range schema.Shapes {
		shape := model.CanonicalShape{
			Name:        ShapeName(ns.IRI),
			TargetClass: ns.TargetClass,
			Closed:      ns.Closed,
		}
		for _, ps := range ns.Properties {
			prop, drop := shaclPropertyToCanonical(ps, ns.TargetClass, logger)
			if drop {
				continue
			}
			shape.Properties = append(shape.Properties, prop)
		}
		shape.SortProperties()
		out.Shapes = append(out.Shapes, shape)
	}
	out.SortShapes()
	return out
}

func shaclCardinality(ps model.SHACLPropertyShape) model.Cardinality {
	c := model.DefaultSHACL
	if ps.MinCount != nil {
		c.Min = *ps.MinCount
	}
	if ps.MaxCount != nil {
		c.Max = *ps.MaxCount
	}
	return c
}

// shaclPropertyToCanonical resolves one property shape using the §3
// discriminator priority. The second return value is true when the property
// is a typing triple absorbed into the owning shape's targetClass and must
// be dropped from the canonical property list.
func shaclPropertyToCanonical(ps model.SHACLPropertyShape, targetClass string, logger *slog.Logger) (model.CanonicalProperty, bool) {
	card := shaclCardinality(ps)

	if model.IsInstanceOfPredicate(ps.Path.Predicate) && ps.HasValue != nil && ps.HasValue.IsIRI &&
		targetClass != "" && ps.HasValue.IRI == targetClass {
		return model.CanonicalProperty{}, true
	}

	prop := model.CanonicalProperty{Path: ps.Path.Predicate, Cardinality: card}

	higher := ps.HasValue != nil || len(ps.In) > 0 || len(ps.ClassOr) > 0 || ps.ClassIRI != "" ||
		ps.NodeKindV != nil || ps.Datatype != ""
	if higher && ps.Pattern != "" && logger != nil {
		logger.Warn("shacl property shape has both a primary constraint and a pattern; pattern is discarded",
			"path", ps.Path.Predicate)
	}

	switch {
	case ps.HasValue != nil:
		prop.Kind = model.ConstraintHasValue
		prop.HasValue = *ps.HasValue

	case len(ps.In) > 0:
		kind, single, many := model.NewValueConstraint(ps.In)
		prop.Kind = kind
		if kind == model.ConstraintHasValue {
			prop.HasValue = single
		} else {
			prop.InValues = many
		}

	case len(ps.ClassOr) > 0:
		kind, single, many := model.NewClassConstraint(ps.ClassOr)
		prop.Kind = kind
		prop.ClassRef = single
		prop.ClassRefOr = many

	case ps.ClassIRI != "":
		prop.Kind = model.ConstraintClassRef
		prop.ClassRef = ps.ClassIRI

	case ps.NodeKindV != nil:
		prop.Kind = model.ConstraintNodeKind
		prop.NodeKindV = *ps.NodeKindV

	case ps.Datatype != "":
		prop.Kind = model.ConstraintDatatype
		prop.Datatype = ps.Datatype

	case ps.Pattern != "":
		if m := patternStemRe.FindStringSubmatch(ps.Pattern); m != nil {
			prop.Kind = model.ConstraintIRIStem
			prop.IRIStem = model.NewStem(m[1])
		} else {
			prop.Kind = model.ConstraintPattern
			prop.Pattern = ps.Pattern
		}

	case ps.NodeShape != "":
		prop.Kind = model.ConstraintNodeRef
		prop.NodeRef = ShapeName(ps.NodeShape)

	default:
		prop.Kind = model.ConstraintNone
	}

	return prop, false
}

// CanonicalToSHACL re-materializes a SHACLSchema from canonical form. If a
// shape has targetClass set, a typing property shape is emitted first; this
// is recoverable on re-entry since SHACLToCanonical absorbs it right back
// out.
func CanonicalToSHACL(schema *model.CanonicalSchema, baseIRI string) *model.SHACLSchema {
	out := &model.SHACLSchema{}
	for _, shape := range schema.Shapes {
		ns := model.SHACLNodeShape{
			IRI:         fmt.Sprintf("%s%s%s", baseIRI, shape.Name, shapeSuffix),
			TargetClass: shape.TargetClass,
			Closed:      shape.Closed,
		}
		if shape.TargetClass != "" {
			one := 1
			ns.Properties = append(ns.Properties, model.SHACLPropertyShape{
				Path:     model.Path{Predicate: model.RDFTypePredicate},
				HasValue: &model.Value{IsIRI: true, IRI: shape.TargetClass},
				MinCount: &one,
				MaxCount: &one,
			})
		}
		for _, prop := range shape.Properties {
			ns.Properties = append(ns.Properties, canonicalPropertyToSHACL(prop, baseIRI))
		}
		out.Shapes = append(out.Shapes, ns)
	}
	return out
}

func canonicalPropertyToSHACL(prop model.CanonicalProperty, baseIRI string) model.SHACLPropertyShape {
	ps := model.SHACLPropertyShape{Path: model.Path{Predicate: prop.Path}}

	if prop.Cardinality.Min != model.DefaultSHACL.Min {
		m := prop.Cardinality.Min
		ps.MinCount = &m
	}
	if prop.Cardinality.Max != model.DefaultSHACL.Max {
		m := prop.Cardinality.Max
		ps.MaxCount = &m
	}

	switch prop.Kind {
	case model.ConstraintHasValue:
		v := prop.HasValue
		ps.HasValue = &v
	case model.ConstraintInValues:
		ps.In = prop.InValues
	case model.ConstraintClassRefOr:
		ps.ClassOr = append([]string(nil), prop.ClassRefOr...)
	case model.ConstraintClassRef:
		ps.ClassIRI = prop.ClassRef
	case model.ConstraintNodeKind:
		nk := prop.NodeKindV
		ps.NodeKindV = &nk
	case model.ConstraintDatatype:
		ps.Datatype = prop.Datatype
	case model.ConstraintIRIStem:
		ps.Pattern = fmt.Sprintf("^%s/", string(prop.IRIStem))
	case model.ConstraintPattern:
		ps.Pattern = prop.Pattern
	case model.ConstraintNodeRef:
		ps.NodeShape = fmt.Sprintf("%s%s%s", baseIRI, prop.NodeRef, shapeSuffix)
	}

	return ps
}
