package model

// SHACLDisjunctionPredicate is sh:or, used to express a class union as a
// blank-node RDF list under sh:class.
const SHACLDisjunctionPredicate = "http://www.w3.org/ns/shacl#or"

// SHACLPropertyShape holds the raw SHACL constraints observed on a property
// shape, before they are folded into a CanonicalProperty. This is
// deliberately a wide record with many optional fields (spec.md §9's
// "sum-typed constraints" note): the SHACL source itself allows more than
// one field to be physically present, and the mapper applies the
// discriminator priority to pick one.
type SHACLPropertyShape struct {
	Path Path

	MinCount *int
	MaxCount *int

	HasValue   *Value
	In         []Value // sh:in list, any length
	ClassIRI   string   // sh:class single value
	ClassOr    []string // sh:class with sh:or union, unsorted as read
	NodeKindV  *NodeKind
	Datatype   string
	Pattern    string // sh:pattern, raw regex
	NodeShape  string // sh:node, reference to another node shape's IRI
}

// SHACLNodeShape is a sh:NodeShape with optional sh:targetClass, sh:closed,
// and zero or more property shapes.
type SHACLNodeShape struct {
	IRI         string
	TargetClass string // empty if unset
	Closed      bool
	Properties  []SHACLPropertyShape
}

// SHACLSchema is the Turtle-graph-derived collection of node shapes plus
// the prefix map in effect when it was read (used when re-emitting Turtle).
type SHACLSchema struct {
	Shapes  []SHACLNodeShape
	Prefixes *PrefixMap
}
