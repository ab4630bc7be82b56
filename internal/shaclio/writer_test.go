package shaclio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapeconv/shapeconv/internal/model"
)

func TestWriteSHACLBindsSchemaOrgAsHTTP(t *testing.T) {
	schema := &model.SHACLSchema{
		Shapes: []model.SHACLNodeShape{
			{IRI: "http://example.org/shapes/PersonShape", TargetClass: "http://schema.org/Person"},
		},
	}
	out := WriteSHACL(schema)
	assert.Contains(t, out, "@prefix schema: <http://schema.org/> .")
	assert.Contains(t, out, "<http://example.org/shapes/PersonShape> a sh:NodeShape")
	assert.Contains(t, out, "sh:targetClass schema:Person")
}

func TestWriteReadSHACLRoundTrip(t *testing.T) {
	one := 1
	schema := &model.SHACLSchema{
		Shapes: []model.SHACLNodeShape{
			{
				IRI:         "http://example.org/shapes/PersonShape",
				TargetClass: "http://schema.org/Person",
				Closed:      true,
				Properties: []model.SHACLPropertyShape{
					{
						Path:     model.Path{Predicate: "http://schema.org/name"},
						MinCount: &one,
						MaxCount: &one,
					},
					{
						Path:    model.Path{Predicate: "http://schema.org/organizer"},
						ClassOr: []string{"http://schema.org/Organization", "http://schema.org/Person"},
					},
				},
			},
		},
	}

	out := WriteSHACL(schema)
	reparsed, err := ReadSHACL([]byte(out))
	require.NoError(t, err)
	require.Len(t, reparsed.Shapes, 1)

	rs := reparsed.Shapes[0]
	assert.Equal(t, schema.Shapes[0].IRI, rs.IRI)
	assert.Equal(t, schema.Shapes[0].TargetClass, rs.TargetClass)
	assert.True(t, rs.Closed)
	require.Len(t, rs.Properties, 2)
	assert.ElementsMatch(t, []string{"http://schema.org/Organization", "http://schema.org/Person"}, rs.Properties[1].ClassOr)
}
