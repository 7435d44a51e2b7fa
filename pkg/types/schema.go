// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package types

import (
	"encoding/json"
	"strings"
)

// SchemaRefPrefix is the JSON pointer prefix of component schema references.
const SchemaRefPrefix = "#/components/schemas/"

// Names of the built-in component schemas every document carries.
const (
	AnySchema            = "Any"
	PaginationMetaSchema = "PaginationMeta"
)

// Kind classifies a Schema node of the component graph.
type Kind int

const (
	// KindAny is a schema with no type information (e.g. the Any schema).
	KindAny Kind = iota
	// KindRef is a $ref to a registry entry.
	KindRef
	// KindPrimitive is a string, number, integer or boolean.
	KindPrimitive
	// KindObject is an object with properties.
	KindObject
	// KindArray is an array with items.
	KindArray
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindRef:
		return "ref"
	case KindPrimitive:
		return "primitive"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	default:
		return "any"
	}
}

// Schema represents an OpenAPI 3.0 schema object.
type Schema struct {
	// Ref is a reference to another schema ($ref)
	Ref string `json:"$ref,omitempty" yaml:"$ref,omitempty"`

	// Type is the data type (string, number, integer, boolean, array, object)
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Format is the data format (date-time, email, uuid, etc.)
	Format string `json:"format,omitempty" yaml:"format,omitempty"`

	// Title is a short title for the schema
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Description is a detailed description of the schema
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	// Default is the default value
	Default interface{} `json:"default,omitempty" yaml:"default,omitempty"`

	// Example is an example value
	Example interface{} `json:"example,omitempty" yaml:"example,omitempty"`

	// Enum is a list of allowed values
	Enum []interface{} `json:"enum,omitempty" yaml:"enum,omitempty"`

	// Nullable indicates if the value can be null
	Nullable bool `json:"nullable,omitempty" yaml:"nullable,omitempty"`

	// ReadOnly indicates the value is read-only
	ReadOnly bool `json:"readOnly,omitempty" yaml:"readOnly,omitempty"`

	// WriteOnly indicates the value is write-only
	WriteOnly bool `json:"writeOnly,omitempty" yaml:"writeOnly,omitempty"`

	// Deprecated indicates the schema is deprecated
	Deprecated bool `json:"deprecated,omitempty" yaml:"deprecated,omitempty"`

	MinLength *int     `json:"minLength,omitempty" yaml:"minLength,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty" yaml:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty" yaml:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty" yaml:"maximum,omitempty"`

	// Items is the schema for array items
	Items *Schema `json:"items,omitempty" yaml:"items,omitempty"`

	// Properties maps property names to their schemas in declaration order
	Properties *OrderedMap[*Schema] `json:"properties,omitempty" yaml:"properties,omitempty"`

	// Required is a list of required property names
	Required []string `json:"required,omitempty" yaml:"required,omitempty"`

	// AdditionalProperties defines the schema for additional properties
	AdditionalProperties *Schema `json:"additionalProperties,omitempty" yaml:"additionalProperties,omitempty"`

	AllOf []*Schema `json:"allOf,omitempty" yaml:"allOf,omitempty"`
	OneOf []*Schema `json:"oneOf,omitempty" yaml:"oneOf,omitempty"`
	AnyOf []*Schema `json:"anyOf,omitempty" yaml:"anyOf,omitempty"`
}

// Kind classifies the schema node.
func (s *Schema) Kind() Kind {
	switch {
	case s == nil:
		return KindAny
	case s.Ref != "":
		return KindRef
	case s.Type == "array":
		return KindArray
	case s.Type == "object" || s.Properties.Len() > 0:
		return KindObject
	case s.Type != "":
		return KindPrimitive
	default:
		return KindAny
	}
}

// RefName returns the registry name a $ref points to.
func (s *Schema) RefName() string {
	if s == nil {
		return ""
	}
	return strings.TrimPrefix(s.Ref, SchemaRefPrefix)
}

// RefTo creates a $ref schema pointing at a component schema.
func RefTo(name string) *Schema {
	return &Schema{Ref: SchemaRefPrefix + name}
}

// ArrayOf wraps items in an array schema.
func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// NewObject creates an object schema with empty ordered properties.
func NewObject() *Schema {
	return &Schema{Type: "object", Properties: NewOrderedMap[*Schema]()}
}

// IsRequired reports whether name is listed in Required.
func (s *Schema) IsRequired(name string) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Required {
		if r == name {
			return true
		}
	}
	return false
}

// AddRequired appends name to Required unless already present.
func (s *Schema) AddRequired(name string) {
	if !s.IsRequired(name) {
		s.Required = append(s.Required, name)
	}
}

// Property returns the named property schema.
func (s *Schema) Property(name string) *Schema {
	if s == nil {
		return nil
	}
	p, _ := s.Properties.Get(name)
	return p
}

// Clone returns a deep copy of the schema tree. Example values are shared.
func (s *Schema) Clone() *Schema {
	if s == nil {
		return nil
	}
	out := *s
	if s.MinLength != nil {
		v := *s.MinLength
		out.MinLength = &v
	}
	if s.MaxLength != nil {
		v := *s.MaxLength
		out.MaxLength = &v
	}
	if s.Minimum != nil {
		v := *s.Minimum
		out.Minimum = &v
	}
	if s.Maximum != nil {
		v := *s.Maximum
		out.Maximum = &v
	}
	out.Enum = append([]interface{}(nil), s.Enum...)
	out.Required = append([]string(nil), s.Required...)
	out.Items = s.Items.Clone()
	out.AdditionalProperties = s.AdditionalProperties.Clone()
	if s.Properties != nil {
		out.Properties = NewOrderedMap[*Schema]()
		for _, k := range s.Properties.Keys() {
			p, _ := s.Properties.Get(k)
			out.Properties.Set(k, p.Clone())
		}
	}
	out.AllOf = cloneSchemas(s.AllOf)
	out.OneOf = cloneSchemas(s.OneOf)
	out.AnyOf = cloneSchemas(s.AnyOf)
	return &out
}

func cloneSchemas(in []*Schema) []*Schema {
	if in == nil {
		return nil
	}
	out := make([]*Schema, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

// SchemaFromValue converts a decoded JSON/YAML value (as produced by
// DecodeJSON) into a Schema. Keys that are not schema fields are dropped.
func SchemaFromValue(v any) (*Schema, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// MergeValue overlays the fields of a decoded JSON object onto a copy of s.
func MergeValue(s *Schema, overlay *OrderedMap[any]) (*Schema, error) {
	base, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	merged, err := DecodeJSON(base)
	if err != nil {
		return nil, err
	}
	obj, ok := merged.(*OrderedMap[any])
	if !ok {
		obj = NewOrderedMap[any]()
	}
	for _, k := range overlay.Keys() {
		v, _ := overlay.Get(k)
		obj.Set(k, v)
	}
	return SchemaFromValue(obj)
}
