// Package shaclio reads and writes the SHACL dialect as Turtle, using
// github.com/knakk/rdf for the underlying RDF term types (IRI, blank node,
// literal) and N-Triples/Turtle decoding. Subject-indexing and RDF collection
// (list) materialization are implemented here on top of that library's term
// model; the compact Turtle pretty-printer in writer.go emits text directly
// from the SHACL model and does not use the library.
package shaclio

import (
	"fmt"

	"github.com/knakk/rdf"

	"github.com/shapeconv/shapeconv/internal/model"
)

const (
	rdfNS    = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	shNS     = "http://www.w3.org/ns/shacl#"
	rdfFirst = rdfNS + "first"
	rdfRest  = rdfNS + "rest"
	rdfNil   = rdfNS + "nil"
	rdfType  = rdfNS + "type"

	shNodeShape    = shNS + "NodeShape"
	shTargetClass  = shNS + "targetClass"
	shClosed       = shNS + "closed"
	shProperty     = shNS + "property"
	shPath         = shNS + "path"
	shMinCount     = shNS + "minCount"
	shMaxCount     = shNS + "maxCount"
	shHasValue     = shNS + "hasValue"
	shIn           = shNS + "in"
	shClass        = shNS + "class"
	shOr           = shNS + "or"
	shNodeKind     = shNS + "nodeKind"
	shDatatype     = shNS + "datatype"
	shPattern      = shNS + "pattern"
	shNode         = shNS + "node"
	shInversePath  = shNS + "inversePath"

	shIRIKind             = shNS + "IRI"
	shBlankNodeKind       = shNS + "BlankNode"
	shLiteralKind         = shNS + "Literal"
	shBlankOrIRIKind      = shNS + "BlankNodeOrIRI"
	shBlankOrLiteralKind  = shNS + "BlankNodeOrLiteral"
	shIRIOrLiteralKind    = shNS + "IRIOrLiteral"
)

// TermKind discriminates a graph term.
type TermKind int

const (
	TermIRI TermKind = iota
	TermBlank
	TermLiteral
)

// Term is a decoded RDF term, reduced to the three kinds this subset needs.
type Term struct {
	Kind    TermKind
	IRIVal  string
	BlankID string
	Lit     model.Literal
}

// Key returns a stable map key for use as a graph subject/object index key.
func (t Term) Key() string {
	switch t.Kind {
	case TermIRI:
		return "i:" + t.IRIVal
	case TermBlank:
		return "b:" + t.BlankID
	default:
		return fmt.Sprintf("l:%s|%s|%s", t.Lit.Lexical, t.Lit.Datatype, t.Lit.Lang)
	}
}

func (t Term) IsIRI() bool   { return t.Kind == TermIRI }
func (t Term) IsBlank() bool { return t.Kind == TermBlank }

// Triple is a decoded subject/predicate/object triple over Term values.
type Triple struct {
	Subj Term
	Pred string
	Obj  Term
}

func fromRDFTerm(t rdf.Term) Term {
	switch v := t.(type) {
	case rdf.IRI:
		return Term{Kind: TermIRI, IRIVal: v.IRI}
	case rdf.Blank:
		return Term{Kind: TermBlank, BlankID: v.ID}
	case rdf.Literal:
		lit := model.Literal{Lexical: fmt.Sprintf("%v", v.Val)}
		if v.DataType.IRI != "" {
			lit.Datatype = model.IRI(v.DataType.IRI)
		}
		lit.Lang = v.Lang
		return Term{Kind: TermLiteral, Lit: lit}
	default:
		return Term{}
	}
}

func toRDFTerm(t Term) rdf.Term {
	switch t.Kind {
	case TermIRI:
		return rdf.IRI{IRI: t.IRIVal}
	case TermBlank:
		return rdf.Blank{ID: t.BlankID}
	default:
		dt := rdf.IRI{IRI: "http://www.w3.org/2001/XMLSchema#string"}
		if t.Lit.Datatype != "" {
			dt = rdf.IRI{IRI: string(t.Lit.Datatype)}
		}
		return rdf.Literal{Val: t.Lit.Lexical, DataType: dt, Lang: t.Lit.Lang}
	}
}

// Graph is a simple subject-indexed in-memory triple store.
type Graph struct {
	bySubject map[string][]Triple
	Triples   []Triple
}

// NewGraph indexes triples by subject key.
func NewGraph(triples []Triple) *Graph {
	g := &Graph{bySubject: map[string][]Triple{}, Triples: triples}
	for _, t := range triples {
		g.bySubject[t.Subj.Key()] = append(g.bySubject[t.Subj.Key()], t)
	}
	return g
}

// Objects returns every object of (subject, predicate).
func (g *Graph) Objects(subject Term, predicate string) []Term {
	var out []Term
	for _, t := range g.bySubject[subject.Key()] {
		if t.Pred == predicate {
			out = append(out, t.Obj)
		}
	}
	return out
}

// Object returns the first object of (subject, predicate), if any.
func (g *Graph) Object(subject Term, predicate string) (Term, bool) {
	for _, t := range g.bySubject[subject.Key()] {
		if t.Pred == predicate {
			return t.Obj, true
		}
	}
	return Term{}, false
}

// SubjectsOfType returns every IRI-typed subject asserted with rdf:type ==
// typeIRI.
func (g *Graph) SubjectsOfType(typeIRI string) []Term {
	seen := map[string]bool{}
	var out []Term
	for _, t := range g.Triples {
		if t.Pred == rdfType && t.Obj.IsIRI() && t.Obj.IRIVal == typeIRI && t.Subj.IsIRI() {
			if !seen[t.Subj.Key()] {
				seen[t.Subj.Key()] = true
				out = append(out, t.Subj)
			}
		}
	}
	return out
}

// List walks an rdf:first/rdf:rest chain starting at head and returns its
// elements in order. An empty list (rdf:nil) yields nil.
func (g *Graph) List(head Term) []Term {
	var out []Term
	cur := head
	for {
		if cur.IsIRI() && cur.IRIVal == rdfNil {
			return out
		}
		first, ok := g.Object(cur, rdfFirst)
		if !ok {
			return out
		}
		out = append(out, first)
		rest, ok := g.Object(cur, rdfRest)
		if !ok {
			return out
		}
		cur = rest
	}
}
