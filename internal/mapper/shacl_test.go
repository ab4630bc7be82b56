package mapper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapeconv/shapeconv/internal/canonjson"
	"github.com/shapeconv/shapeconv/internal/model"
)

func oneInt(n int) *int { return &n }

func TestSHACLToCanonicalTypingAbsorption(t *testing.T) {
	schema := &model.SHACLSchema{
		Shapes: []model.SHACLNodeShape{
			{
				IRI:         "http://example.org/shapes/PersonShape",
				TargetClass: "http://schema.org/Person",
				Properties: []model.SHACLPropertyShape{
					{
						Path:     model.Path{Predicate: model.RDFTypePredicate},
						HasValue: &model.Value{IsIRI: true, IRI: "http://schema.org/Person"},
						MinCount: oneInt(1),
						MaxCount: oneInt(1),
					},
					{
						Path:     model.Path{Predicate: "http://schema.org/name"},
						MinCount: oneInt(1),
					},
				},
			},
		},
	}

	canon := SHACLToCanonical(schema, nil)
	require.Len(t, canon.Shapes, 1)
	shape := canon.Shapes[0]
	assert.Equal(t, "Person", shape.Name)
	assert.Equal(t, "http://schema.org/Person", shape.TargetClass)
	require.Len(t, shape.Properties, 1)
	assert.Equal(t, "http://schema.org/name", shape.Properties[0].Path)
	assert.Equal(t, model.Cardinality{Min: 1, Max: model.MaxUnbounded}, shape.Properties[0].Cardinality)
}

func TestSHACLToCanonicalPatternToStem(t *testing.T) {
	schema := &model.SHACLSchema{
		Shapes: []model.SHACLNodeShape{
			{
				IRI: "http://example.org/shapes/ThingShape",
				Properties: []model.SHACLPropertyShape{
					{
						Path:    model.Path{Predicate: "http://www.w3.org/2002/07/owl#sameAs"},
						Pattern: "^http://www.wikidata.org/entity/",
					},
				},
			},
		},
	}

	canon := SHACLToCanonical(schema, nil)
	prop := canon.Shapes[0].Properties[0]
	assert.Equal(t, model.ConstraintIRIStem, prop.Kind)
	assert.Equal(t, model.Stem("http://www.wikidata.org/entity"), prop.IRIStem)
}

func TestSHACLToCanonicalClassUnion(t *testing.T) {
	schema := &model.SHACLSchema{
		Shapes: []model.SHACLNodeShape{
			{
				IRI: "http://example.org/shapes/EventShape",
				Properties: []model.SHACLPropertyShape{
					{
						Path:    model.Path{Predicate: "http://schema.org/organizer"},
						ClassOr: []string{"http://schema.org/Person", "http://schema.org/Organization"},
					},
				},
			},
		},
	}

	canon := SHACLToCanonical(schema, nil)
	prop := canon.Shapes[0].Properties[0]
	assert.Equal(t, model.ConstraintClassRefOr, prop.Kind)
	assert.Equal(t, []string{"http://schema.org/Organization", "http://schema.org/Person"}, prop.ClassRefOr)
}

func TestCanonicalToSHACLRematerializesTyping(t *testing.T) {
	canon := &model.CanonicalSchema{
		Shapes: []model.CanonicalShape{
			{
				Name:        "Person",
				TargetClass: "http://schema.org/Person",
				Properties: []model.CanonicalProperty{
					{Path: "http://schema.org/name", Cardinality: model.Cardinality{Min: 1, Max: model.MaxUnbounded}},
				},
			},
		},
	}

	shacl := CanonicalToSHACL(canon, "http://example.org/shapes/")
	require.Len(t, shacl.Shapes, 1)
	ns := shacl.Shapes[0]
	assert.Equal(t, "http://example.org/shapes/PersonShape", ns.IRI)
	require.Len(t, ns.Properties, 2)
	assert.Equal(t, model.RDFTypePredicate, ns.Properties[0].Path.Predicate)
	assert.Equal(t, "http://schema.org/Person", ns.Properties[0].HasValue.IRI)
}

func TestSHACLCanonicalRoundTrip(t *testing.T) {
	schema := &model.SHACLSchema{
		Shapes: []model.SHACLNodeShape{
			{
				IRI:         "http://example.org/shapes/PersonShape",
				TargetClass: "http://schema.org/Person",
				Properties: []model.SHACLPropertyShape{
					{
						Path:     model.Path{Predicate: model.RDFTypePredicate},
						HasValue: &model.Value{IsIRI: true, IRI: "http://schema.org/Person"},
						MinCount: oneInt(1),
						MaxCount: oneInt(1),
					},
					{
						Path:     model.Path{Predicate: "http://schema.org/name"},
						MinCount: oneInt(1),
						MaxCount: oneInt(1),
					},
				},
			},
		},
	}

	first := SHACLToCanonical(schema, nil)
	rematerialized := CanonicalToSHACL(first, "http://example.org/shapes/")
	second := SHACLToCanonical(rematerialized, nil)

	firstJSON, err := canonjson.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := canonjson.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(firstJSON), string(secondJSON))
}
