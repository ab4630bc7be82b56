package shaclio

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shapeconv/shapeconv/internal/model"
)

// defaultPrefixes are bound on every write regardless of what the schema's
// own prefix map carries, per spec.md §6. schema.org is forced to the HTTP
// form, since some upstream RDF libraries bind a second "schema1" prefix to
// the HTTPS form; longest-namespace-first lookup (model.PrefixMap) keeps
// that variant from winning abbreviation.
var defaultPrefixes = []model.Prefix{
	{Name: "sh", IRI: shNS},
	{Name: "rdf", IRI: rdfNS},
	{Name: "rdfs", IRI: "http://www.w3.org/2000/01/rdf-schema#"},
	{Name: "xsd", IRI: "http://www.w3.org/2001/XMLSchema#"},
	{Name: "schema", IRI: "http://schema.org/"},
	{Name: "owl", IRI: "http://www.w3.org/2002/07/owl#"},
}

func writerPrefixes(schema *model.SHACLSchema) *model.PrefixMap {
	pm := model.NewPrefixMap()
	for _, p := range defaultPrefixes {
		pm.Add(p.Name, p.IRI)
	}
	if schema.Prefixes != nil {
		for _, p := range schema.Prefixes.InOrder() {
			pm.Add(p.Name, p.IRI)
		}
		for _, p := range defaultPrefixes {
			pm.Add(p.Name, p.IRI)
		}
	}
	return pm
}

// WriteSHACL pretty-prints a SHACLSchema as compact Turtle: a PREFIX block,
// then one typed node per shape with nested blank-node property shapes and
// parenthesized RDF collections for sh:in / sh:or, mirroring the nesting an
// RDF graph library's pretty-printer would produce for this shape of graph.
func WriteSHACL(schema *model.SHACLSchema) string {
	pm := writerPrefixes(schema)

	var sb strings.Builder
	for _, p := range pm.InOrder() {
		fmt.Fprintf(&sb, "@prefix %s: <%s> .\n", p.Name, p.IRI)
	}
	sb.WriteString("\n")

	for i, shape := range schema.Shapes {
		writeNodeShape(&sb, pm, shape)
		if i != len(schema.Shapes)-1 {
			sb.WriteString("\n")
		}
	}

	return sb.String()
}

func term(pm *model.PrefixMap, iri string) string {
	if name, local, ok := pm.Abbreviate(iri); ok {
		if name == "" {
			return ":" + local
		}
		return name + ":" + local
	}
	return "<" + iri + ">"
}

func writeNodeShape(sb *strings.Builder, pm *model.PrefixMap, shape model.SHACLNodeShape) {
	fmt.Fprintf(sb, "%s a sh:NodeShape", term(pm, shape.IRI))
	if shape.TargetClass != "" {
		fmt.Fprintf(sb, " ;\n  sh:targetClass %s", term(pm, shape.TargetClass))
	}
	if shape.Closed {
		sb.WriteString(" ;\n  sh:closed true")
	}
	for _, ps := range shape.Properties {
		sb.WriteString(" ;\n  sh:property ")
		writePropertyShape(sb, pm, ps, "  ")
	}
	sb.WriteString(" .\n")
}

func writePropertyShape(sb *strings.Builder, pm *model.PrefixMap, ps model.SHACLPropertyShape, indent string) {
	sb.WriteString("[\n")
	inner := indent + "  "

	path := term(pm, ps.Path.Predicate)
	if ps.Path.Inverse {
		fmt.Fprintf(sb, "%ssh:path [ sh:inversePath %s ]", inner, path)
	} else {
		fmt.Fprintf(sb, "%ssh:path %s", inner, path)
	}

	if ps.MinCount != nil {
		fmt.Fprintf(sb, " ;\n%ssh:minCount %d", inner, *ps.MinCount)
	}
	if ps.MaxCount != nil {
		fmt.Fprintf(sb, " ;\n%ssh:maxCount %d", inner, *ps.MaxCount)
	}
	if ps.HasValue != nil {
		fmt.Fprintf(sb, " ;\n%ssh:hasValue %s", inner, writeValue(pm, *ps.HasValue))
	}
	if len(ps.In) > 0 {
		fmt.Fprintf(sb, " ;\n%ssh:in ( ", inner)
		for _, v := range ps.In {
			sb.WriteString(writeValue(pm, v))
			sb.WriteString(" ")
		}
		sb.WriteString(")")
	}
	if ps.ClassIRI != "" {
		fmt.Fprintf(sb, " ;\n%ssh:class %s", inner, term(pm, ps.ClassIRI))
	}
	if len(ps.ClassOr) > 0 {
		fmt.Fprintf(sb, " ;\n%ssh:class [ sh:or ( ", inner)
		for _, c := range ps.ClassOr {
			sb.WriteString(term(pm, c))
			sb.WriteString(" ")
		}
		sb.WriteString(") ]")
	}
	if ps.NodeKindV != nil {
		fmt.Fprintf(sb, " ;\n%ssh:nodeKind %s", inner, term(pm, nodeKindIRI(*ps.NodeKindV)))
	}
	if ps.Datatype != "" {
		fmt.Fprintf(sb, " ;\n%ssh:datatype %s", inner, term(pm, ps.Datatype))
	}
	if ps.Pattern != "" {
		fmt.Fprintf(sb, " ;\n%ssh:pattern %s", inner, quoteString(ps.Pattern))
	}
	if ps.NodeShape != "" {
		fmt.Fprintf(sb, " ;\n%ssh:node %s", inner, term(pm, ps.NodeShape))
	}

	fmt.Fprintf(sb, "\n%s]", indent)
}

func writeValue(pm *model.PrefixMap, v model.Value) string {
	if v.IsIRI {
		return term(pm, v.IRI)
	}
	lit := v.Literal
	s := quoteString(lit.Lexical)
	if lit.Lang != "" {
		return s + "@" + lit.Lang
	}
	if lit.Datatype != "" {
		return s + "^^" + term(pm, string(lit.Datatype))
	}
	return s
}

func quoteString(s string) string {
	return strconv.Quote(s)
}

func nodeKindIRI(k model.NodeKind) string {
	switch k {
	case model.NodeKindIRI:
		return shIRIKind
	case model.NodeKindBNode:
		return shBlankNodeKind
	case model.NodeKindLiteral:
		return shLiteralKind
	case model.NodeKindBNodeOrIRI:
		return shBlankOrIRIKind
	case model.NodeKindBNodeOrLiteral:
		return shBlankOrLiteralKind
	case model.NodeKindIRIOrLiteral:
		return shIRIOrLiteralKind
	default:
		return shIRIKind
	}
}
