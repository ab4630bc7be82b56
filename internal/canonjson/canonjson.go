// Package canonjson writes and validates the canonical JSON representation
// of a CanonicalSchema: the stable, deterministically ordered inter-tool
// format used as the semantic-equivalence oracle (spec.md §4.7).
package canonjson

import (
	"bytes"
	"encoding/json"

	"github.com/shapeconv/shapeconv/internal/model"
)

type jsonSchema struct {
	Shapes []jsonShape `json:"shapes"`
}

type jsonShape struct {
	Name        string         `json:"name"`
	TargetClass string         `json:"targetClass,omitempty"`
	Closed      bool           `json:"closed"`
	Properties  []jsonProperty `json:"properties"`
}

type jsonValue struct {
	IRI      string `json:"iri,omitempty"`
	Value    string `json:"value,omitempty"`
	Datatype string `json:"datatype,omitempty"`
	Lang     string `json:"lang,omitempty"`
}

type jsonCardinality struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// jsonProperty's field order mirrors the §3 discriminator priority exactly:
// whichever constraint is set marshals in that position, the rest are
// omitted by omitempty.
type jsonProperty struct {
	Path        string          `json:"path"`
	HasValue    *jsonValue      `json:"hasValue,omitempty"`
	InValues    []jsonValue     `json:"inValues,omitempty"`
	ClassRefOr  []string        `json:"classRefOr,omitempty"`
	ClassRef    string          `json:"classRef,omitempty"`
	NodeKind    string          `json:"nodeKind,omitempty"`
	Datatype    string          `json:"datatype,omitempty"`
	IRIStem     string          `json:"iriStem,omitempty"`
	Pattern     string          `json:"pattern,omitempty"`
	NodeRef     string          `json:"nodeRef,omitempty"`
	Cardinality jsonCardinality `json:"cardinality"`
}

func toJSONValue(v model.Value) jsonValue {
	if v.IsIRI {
		return jsonValue{IRI: v.IRI}
	}
	return jsonValue{Value: v.Literal.Lexical, Datatype: string(v.Literal.Datatype), Lang: v.Literal.Lang}
}

func fromJSONValue(v jsonValue) model.Value {
	if v.IRI != "" {
		return model.NewIRIValue(v.IRI)
	}
	return model.NewLiteralValue(model.Literal{Lexical: v.Value, Datatype: model.IRI(v.Datatype), Lang: v.Lang})
}

func toJSONProperty(p model.CanonicalProperty) jsonProperty {
	jp := jsonProperty{
		Path:        p.Path,
		Cardinality: jsonCardinality{Min: p.Cardinality.Min, Max: p.Cardinality.Max},
	}
	switch p.Kind {
	case model.ConstraintHasValue:
		v := toJSONValue(p.HasValue)
		jp.HasValue = &v
	case model.ConstraintInValues:
		for _, v := range p.InValues {
			jp.InValues = append(jp.InValues, toJSONValue(v))
		}
	case model.ConstraintClassRefOr:
		jp.ClassRefOr = p.ClassRefOr
	case model.ConstraintClassRef:
		jp.ClassRef = p.ClassRef
	case model.ConstraintNodeKind:
		jp.NodeKind = string(p.NodeKindV)
	case model.ConstraintDatatype:
		jp.Datatype = p.Datatype
	case model.ConstraintIRIStem:
		jp.IRIStem = string(p.IRIStem)
	case model.ConstraintPattern:
		jp.Pattern = p.Pattern
	case model.ConstraintNodeRef:
		jp.NodeRef = p.NodeRef
	}
	return jp
}

func fromJSONProperty(jp jsonProperty) model.CanonicalProperty {
	p := model.CanonicalProperty{
		Path:        jp.Path,
		Cardinality: model.Cardinality{Min: jp.Cardinality.Min, Max: jp.Cardinality.Max},
	}
	switch {
	case jp.HasValue != nil:
		p.Kind = model.ConstraintHasValue
		p.HasValue = fromJSONValue(*jp.HasValue)
	case len(jp.InValues) > 0:
		p.Kind = model.ConstraintInValues
		for _, v := range jp.InValues {
			p.InValues = append(p.InValues, fromJSONValue(v))
		}
	case len(jp.ClassRefOr) > 0:
		p.Kind = model.ConstraintClassRefOr
		p.ClassRefOr = jp.ClassRefOr
	case jp.ClassRef != "":
		p.Kind = model.ConstraintClassRef
		p.ClassRef = jp.ClassRef
	case jp.NodeKind != "":
		p.Kind = model.ConstraintNodeKind
		p.NodeKindV = model.NodeKind(jp.NodeKind)
	case jp.Datatype != "":
		p.Kind = model.ConstraintDatatype
		p.Datatype = jp.Datatype
	case jp.IRIStem != "":
		p.Kind = model.ConstraintIRIStem
		p.IRIStem = model.Stem(jp.IRIStem)
	case jp.Pattern != "":
		p.Kind = model.ConstraintPattern
		p.Pattern = jp.Pattern
	case jp.NodeRef != "":
		p.Kind = model.ConstraintNodeRef
		p.NodeRef = jp.NodeRef
	default:
		p.Kind = model.ConstraintNone
	}
	return p
}

// Marshal writes schema as deterministic canonical JSON: shapes sorted by
// name, properties sorted by path, two-space indent, non-ASCII preserved
// literally (HTML escaping disabled).
func Marshal(schema *model.CanonicalSchema) ([]byte, error) {
	sorted := model.CanonicalSchema{Shapes: make([]model.CanonicalShape, len(schema.Shapes))}
	for i, shape := range schema.Shapes {
		shape.Properties = append([]model.CanonicalProperty(nil), shape.Properties...)
		sorted.Shapes[i] = shape
	}
	sorted.SortShapes()

	doc := jsonSchema{Shapes: make([]jsonShape, len(sorted.Shapes))}
	for i, shape := range sorted.Shapes {
		js := jsonShape{Name: shape.Name, TargetClass: shape.TargetClass, Closed: shape.Closed}
		for _, prop := range shape.Properties {
			js.Properties = append(js.Properties, toJSONProperty(prop))
		}
		doc.Shapes[i] = js
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Unmarshal parses canonical JSON back into a CanonicalSchema.
func Unmarshal(data []byte) (*model.CanonicalSchema, error) {
	var doc jsonSchema
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	schema := &model.CanonicalSchema{}
	for _, js := range doc.Shapes {
		shape := model.CanonicalShape{Name: js.Name, TargetClass: js.TargetClass, Closed: js.Closed}
		for _, jp := range js.Properties {
			shape.Properties = append(shape.Properties, fromJSONProperty(jp))
		}
		schema.Shapes = append(schema.Shapes, shape)
	}
	return schema, nil
}
