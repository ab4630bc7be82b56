package canonjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapeconv/shapeconv/internal/model"
)

func sampleSchema() *model.CanonicalSchema {
	return &model.CanonicalSchema{
		Shapes: []model.CanonicalShape{
			{
				Name:        "Person",
				TargetClass: "http://schema.org/Person",
				Properties: []model.CanonicalProperty{
					{Path: "http://schema.org/name", Cardinality: model.Cardinality{Min: 1, Max: 1}},
					{
						Path:        "http://schema.org/birthPlace",
						Kind:        model.ConstraintClassRef,
						ClassRef:    "http://schema.org/Place",
						Cardinality: model.Cardinality{Min: 0, Max: 1},
					},
				},
			},
			{
				Name: "Place",
				Properties: []model.CanonicalProperty{
					{
						Path:        "http://www.w3.org/2002/07/owl#sameAs",
						Kind:        model.ConstraintIRIStem,
						IRIStem:     model.Stem("http://www.wikidata.org/entity"),
						Cardinality: model.Cardinality{Min: 0, Max: model.MaxUnbounded},
					},
				},
			},
		},
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	schema := sampleSchema()
	data, err := Marshal(schema)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)

	again, err := Marshal(back)
	require.NoError(t, err)
	assert.Equal(t, string(data), string(again))
}

func TestMarshalSortsShapesByName(t *testing.T) {
	schema := sampleSchema()
	schema.Shapes[0], schema.Shapes[1] = schema.Shapes[1], schema.Shapes[0] // Place before Person in slice order
	data, err := Marshal(schema)
	require.NoError(t, err)

	placeIdx := indexOf(t, string(data), `"name": "Place"`)
	personIdx := indexOf(t, string(data), `"name": "Person"`)
	assert.Less(t, personIdx, placeIdx, "shapes must be sorted lexicographically by name")
}

func TestMarshalIsDeterministic(t *testing.T) {
	schema := sampleSchema()
	a, err := Marshal(schema)
	require.NoError(t, err)
	b, err := Marshal(schema)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestMarshalEmitsOnlyOneDiscriminatorField(t *testing.T) {
	schema := sampleSchema()
	data, err := Marshal(schema)
	require.NoError(t, err)
	err = ValidateDocument(data)
	assert.NoError(t, err)
}

func TestValidateDocumentRejectsMalformedDocument(t *testing.T) {
	bad := []byte(`{"shapes": [{"name": "Person", "closed": "not-a-bool", "properties": []}]}`)
	err := ValidateDocument(bad)
	assert.Error(t, err)
}

func TestValidateDocumentRejectsNonObject(t *testing.T) {
	err := ValidateDocument([]byte(`[1, 2, 3]`))
	assert.Error(t, err)
}

func indexOf(t *testing.T, haystack, needle string) int {
	t.Helper()
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	t.Fatalf("substring %q not found in %q", needle, haystack)
	return -1
}
