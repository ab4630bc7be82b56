package shexio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapeconv/shapeconv/internal/model"
)

func TestParseSimpleShape(t *testing.T) {
	src := []byte(`
PREFIX schema: <http://schema.org/>
PREFIX rdf: <http://www.w3.org/1999/02/22-rdf-syntax-ns#>
start = @schema:Person

schema:Person EXTRA rdf:type CLOSED {
  rdf:type [ schema:Person ] ;
  schema:name LITERAL ;
  schema:birthPlace @schema:Place ?
}
`)
	schema, err := Parse(src)
	require.NoError(t, err)
	assert.Equal(t, "http://schema.org/Person", schema.Start)
	require.Len(t, schema.Shapes, 1)

	shape := schema.Shapes[0]
	assert.Equal(t, "http://schema.org/Person", shape.Name)
	assert.True(t, shape.Closed)
	require.Len(t, shape.Extra, 1)
	assert.Equal(t, "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", shape.Extra[0])

	require.NotNil(t, shape.Expr)
	constraints := shape.Expr.FlattenConjunction()
	require.Len(t, constraints, 3)

	assert.Equal(t, "http://www.w3.org/1999/02/22-rdf-syntax-ns#type", constraints[0].Predicate)
	assert.Equal(t, model.AtomValueSet, constraints[0].Atom.Kind)
	require.Len(t, constraints[0].Atom.ValueSet, 1)
	assert.Equal(t, "http://schema.org/Person", constraints[0].Atom.ValueSet[0].IRI)
	assert.Equal(t, model.Cardinality{Min: 1, Max: 1}, constraints[0].Cardinality)

	assert.Equal(t, model.AtomNodeKind, constraints[1].Atom.Kind)
	assert.Equal(t, model.NodeKindLiteral, constraints[1].Atom.NodeKindV)

	assert.Equal(t, model.AtomShapeRef, constraints[2].Atom.Kind)
	assert.Equal(t, "http://schema.org/Place", constraints[2].Atom.ShapeRef)
	assert.Equal(t, model.Cardinality{Min: 0, Max: 1}, constraints[2].Cardinality)
}

func TestParseCardinalityForms(t *testing.T) {
	src := []byte(`
PREFIX schema: <http://schema.org/>
schema:S {
  schema:a ? ;
  schema:b * ;
  schema:c + ;
  schema:d {2} ;
  schema:e {2,} ;
  schema:f {2,5}
}
`)
	schema, err := Parse(src)
	require.NoError(t, err)
	constraints := schema.Shapes[0].Expr.FlattenConjunction()
	require.Len(t, constraints, 6)

	want := []model.Cardinality{
		{Min: 0, Max: 1},
		{Min: 0, Max: model.MaxUnbounded},
		{Min: 1, Max: model.MaxUnbounded},
		{Min: 2, Max: 2},
		{Min: 2, Max: model.MaxUnbounded},
		{Min: 2, Max: 5},
	}
	for i, c := range want {
		assert.Equal(t, c, constraints[i].Cardinality, "entry %d", i)
	}
}

func TestParseTrailingDotTolerated(t *testing.T) {
	src := []byte(`
PREFIX schema: <http://schema.org/>
schema:S {
  schema:a LITERAL .
}
`)
	schema, err := Parse(src)
	require.NoError(t, err)
	constraints := schema.Shapes[0].Expr.FlattenConjunction()
	require.Len(t, constraints, 1)
	assert.Equal(t, model.AtomNodeKind, constraints[0].Atom.Kind)
}

func TestParseValueSetWithStemAndLiterals(t *testing.T) {
	src := []byte(`
PREFIX schema: <http://schema.org/>
PREFIX xsd: <http://www.w3.org/2001/XMLSchema#>
schema:S {
  schema:sameAs [ <http://www.wikidata.org/entity/>~ ] ;
  schema:status [ "active" "inactive" ] ;
  schema:count [ "1"^^xsd:integer ]
}
`)
	schema, err := Parse(src)
	require.NoError(t, err)
	constraints := schema.Shapes[0].Expr.FlattenConjunction()
	require.Len(t, constraints, 3)

	require.Len(t, constraints[0].Atom.ValueSet, 1)
	assert.True(t, constraints[0].Atom.ValueSet[0].IsStem)
	assert.Equal(t, "http://www.wikidata.org/entity/", constraints[0].Atom.ValueSet[0].IRI)

	require.Len(t, constraints[1].Atom.ValueSet, 2)
	assert.True(t, constraints[1].Atom.ValueSet[0].IsLiteral)
	assert.Equal(t, "active", constraints[1].Atom.ValueSet[0].Literal.Lexical)

	require.Len(t, constraints[2].Atom.ValueSet, 1)
	assert.Equal(t, model.IRI("http://www.w3.org/2001/XMLSchema#integer"), constraints[2].Atom.ValueSet[0].Literal.Datatype)
}

func TestParseUnknownPrefixError(t *testing.T) {
	src := []byte(`
schema:S { schema:a . }
`)
	_, err := Parse(src)
	require.Error(t, err)
	var perr *ParseError
	require.ErrorAs(t, err, &perr)
}

func TestParseUnterminatedShapeError(t *testing.T) {
	src := []byte(`
PREFIX schema: <http://schema.org/>
schema:S {
  schema:a LITERAL
`)
	_, err := Parse(src)
	require.Error(t, err)
}
