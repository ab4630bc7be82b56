package canonjson

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
)

// metaSchemaJSON describes the shapes/properties/cardinality document shape
// of spec.md §3/§4.7: an array of shapes, each with discriminated properties
// (path, cardinality and at most one constraint field). Sort order is not
// checked. It exists as a defensive check on the writer's own output
// invariants, not as a substitute for the invariants internal/model already
// enforces directly in Go.
const metaSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["shapes"],
  "properties": {
    "shapes": {
      "type": "array",
      "items": { "$ref": "#/$defs/shape" }
    }
  },
  "$defs": {
    "shape": {
      "type": "object",
      "required": ["name", "closed", "properties"],
      "properties": {
        "name": { "type": "string" },
        "targetClass": { "type": "string" },
        "closed": { "type": "boolean" },
        "properties": {
          "type": "array",
          "items": { "$ref": "#/$defs/property" }
        }
      }
    },
    "property": {
      "type": "object",
      "required": ["path", "cardinality"],
      "maxProperties": 3,
      "properties": {
        "path": { "type": "string" },
        "hasValue": { "$ref": "#/$defs/value" },
        "inValues": { "type": "array", "minItems": 2, "items": { "$ref": "#/$defs/value" } },
        "classRefOr": { "type": "array", "minItems": 2, "items": { "type": "string" } },
        "classRef": { "type": "string" },
        "nodeKind": { "type": "string" },
        "datatype": { "type": "string" },
        "iriStem": { "type": "string" },
        "pattern": { "type": "string" },
        "nodeRef": { "type": "string" },
        "cardinality": { "$ref": "#/$defs/cardinality" }
      }
    },
    "value": {
      "type": "object",
      "properties": {
        "iri": { "type": "string" },
        "value": { "type": "string" },
        "datatype": { "type": "string" },
        "lang": { "type": "string" }
      }
    },
    "cardinality": {
      "type": "object",
      "required": ["min", "max"],
      "properties": {
        "min": { "type": "integer", "minimum": 0 },
        "max": { "type": "integer", "minimum": -1 }
      }
    }
  }
}`

var (
	metaSchemaOnce sync.Once
	metaResolved   *jsonschema.Resolved
	metaErr        error
)

func compiledMetaSchema() (*jsonschema.Resolved, error) {
	metaSchemaOnce.Do(func() {
		var schema jsonschema.Schema
		if err := json.Unmarshal([]byte(metaSchemaJSON), &schema); err != nil {
			metaErr = fmt.Errorf("canonjson: parsing embedded meta-schema: %w", err)
			return
		}
		resolved, err := schema.Resolve(nil)
		if err != nil {
			metaErr = fmt.Errorf("canonjson: resolving embedded meta-schema: %w", err)
			return
		}
		metaResolved = resolved
	})
	return metaResolved, metaErr
}

// ValidateDocument validates canonical JSON bytes against the embedded
// meta-schema, compiling the schema once and reusing it across calls.
func ValidateDocument(data []byte) error {
	resolved, err := compiledMetaSchema()
	if err != nil {
		return err
	}

	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return fmt.Errorf("canonjson: document is not valid JSON: %w", err)
	}

	if err := resolved.Validate(instance); err != nil {
		return fmt.Errorf("canonjson: schema conformance: %w", err)
	}
	return nil
}
