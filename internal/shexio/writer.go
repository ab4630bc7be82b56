package shexio

import (
	"fmt"
	"strings"

	"github.com/shapeconv/shapeconv/internal/model"
)

// Write pretty-prints a ShExSchema back to ShExC text: PREFIX declarations
// in input order, then "start = @<...>" if set, then each shape.
func Write(schema *model.ShExSchema) string {
	var sb strings.Builder

	prefixes := schema.Prefixes
	if prefixes == nil {
		prefixes = model.NewPrefixMap()
	}
	for _, p := range prefixes.InOrder() {
		fmt.Fprintf(&sb, "PREFIX %s: <%s>\n", p.Name, p.IRI)
	}
	if schema.Start != "" {
		fmt.Fprintf(&sb, "start = @%s\n", termString(prefixes, schema.Start))
	}
	if len(prefixes.InOrder()) > 0 || schema.Start != "" {
		sb.WriteString("\n")
	}

	for i, shape := range schema.Shapes {
		writeShape(&sb, prefixes, shape)
		if i != len(schema.Shapes)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func termString(prefixes *model.PrefixMap, iri string) string {
	if name, local, ok := prefixes.Abbreviate(iri); ok {
		return fmt.Sprintf("%s:%s", name, local)
	}
	return fmt.Sprintf("<%s>", iri)
}

func writeShape(sb *strings.Builder, prefixes *model.PrefixMap, shape model.ShExShape) {
	fmt.Fprintf(sb, "%s", termString(prefixes, shape.Name))
	for _, pred := range shape.Extra {
		fmt.Fprintf(sb, " EXTRA %s", termString(prefixes, pred))
	}
	if shape.Closed {
		sb.WriteString(" CLOSED")
	}
	sb.WriteString(" {\n")

	if shape.Expr != nil {
		constraints := shape.Expr.FlattenConjunction()
		sep := ";"
		if shape.Expr.Kind == model.ExprDisjunction {
			sep = " |"
		}
		for i, tc := range constraints {
			sb.WriteString("  ")
			writeTripleConstraint(sb, prefixes, tc)
			if i != len(constraints)-1 {
				sb.WriteString(sep)
			}
			sb.WriteString("\n")
		}
	}

	sb.WriteString("}\n")
}

func writeTripleConstraint(sb *strings.Builder, prefixes *model.PrefixMap, tc model.TripleConstraint) {
	fmt.Fprintf(sb, "%s", termString(prefixes, tc.Predicate))

	switch tc.Atom.Kind {
	case model.AtomShapeRef:
		fmt.Fprintf(sb, " @%s", termString(prefixes, tc.Atom.ShapeRef))
	case model.AtomValueSet:
		sb.WriteString(" [")
		for i, e := range tc.Atom.ValueSet {
			if i > 0 {
				sb.WriteString(" ")
			}
			writeValueSetEntry(sb, prefixes, e)
		}
		sb.WriteString("]")
	case model.AtomNodeKind:
		sb.WriteString(" " + nodeKindKeyword(tc.Atom.NodeKindV))
	case model.AtomDatatype:
		fmt.Fprintf(sb, " %s", termString(prefixes, tc.Atom.Datatype))
	case model.AtomUnconstrained:
		sb.WriteString(" .")
	}

	sb.WriteString(writeCardinality(tc.Cardinality))
}

func writeValueSetEntry(sb *strings.Builder, prefixes *model.PrefixMap, e model.ValueSetEntry) {
	if e.IsLiteral {
		fmt.Fprintf(sb, "%q", e.Literal.Lexical)
		if e.Literal.Lang != "" {
			fmt.Fprintf(sb, "@%s", e.Literal.Lang)
		} else if e.Literal.Datatype != "" {
			fmt.Fprintf(sb, "^^%s", termString(prefixes, string(e.Literal.Datatype)))
		}
		return
	}
	sb.WriteString(termString(prefixes, e.IRI))
	if e.IsStem {
		sb.WriteString("~")
	}
}

func nodeKindKeyword(k model.NodeKind) string {
	switch k {
	case model.NodeKindIRI:
		return "IRI"
	case model.NodeKindLiteral:
		return "LITERAL"
	case model.NodeKindBNode:
		return "BNODE"
	case model.NodeKindBNodeOrIRI:
		return "NONLITERAL"
	default:
		return "NONLITERAL"
	}
}

// writeCardinality renders the shortest equivalent ShExC cardinality marker
// for c, per the table in spec.md §4.1.
func writeCardinality(c model.Cardinality) string {
	switch {
	case c.Min == 1 && c.Max == 1:
		return ""
	case c.Min == 0 && c.Max == 1:
		return " ?"
	case c.Min == 0 && c.IsUnbounded():
		return " *"
	case c.Min == 1 && c.IsUnbounded():
		return " +"
	case c.IsUnbounded():
		return fmt.Sprintf(" {%d,}", c.Min)
	case c.Min == c.Max:
		return fmt.Sprintf(" {%d}", c.Min)
	default:
		return fmt.Sprintf(" {%d,%d}", c.Min, c.Max)
	}
}
