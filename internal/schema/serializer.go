// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/apisynth/apisynth/pkg/types"
)

// SerializerSuffix marks exported values that describe serializers.
const SerializerSuffix = "Serializer"

// Serializers converts decoded serializer exports into schemas. Only names
// containing "Serializer" are kept; values that do not decode into a schema
// object produce an error per name and are skipped.
func Serializers(values *types.OrderedMap[any]) (*types.OrderedMap[*types.Schema], []error) {
	out := types.NewOrderedMap[*types.Schema]()
	var errs []error
	for _, name := range values.Keys() {
		if !strings.Contains(name, SerializerSuffix) {
			continue
		}
		v, _ := values.Get(name)
		if _, ok := v.(*types.OrderedMap[any]); !ok {
			errs = append(errs, fmt.Errorf("serializer %s is not an object", name))
			continue
		}
		s, err := types.SchemaFromValue(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("serializer %s: %w", name, err))
			continue
		}
		if s.Description == "" {
			s.Description = name + " (Serializer)"
		}
		out.Set(name, s)
	}
	return out, errs
}

// SerializersFromJSON decodes a JSON document mapping serializer names to schemas.
func SerializersFromJSON(data []byte) (*types.OrderedMap[*types.Schema], []error) {
	v, err := types.DecodeJSON(data)
	if err != nil {
		return types.NewOrderedMap[*types.Schema](), []error{fmt.Errorf("failed to decode serializers: %w", err)}
	}
	return serializersFromValue(v)
}

// SerializersFromYAML decodes a YAML document mapping serializer names to schemas.
func SerializersFromYAML(data []byte) (*types.OrderedMap[*types.Schema], []error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return types.NewOrderedMap[*types.Schema](), []error{fmt.Errorf("failed to decode serializers: %w", err)}
	}
	return serializersFromValue(types.DecodeYAMLNode(&node))
}

func serializersFromValue(v any) (*types.OrderedMap[*types.Schema], []error) {
	obj, ok := v.(*types.OrderedMap[any])
	if !ok {
		return types.NewOrderedMap[*types.Schema](), []error{fmt.Errorf("serializer document is not a mapping")}
	}
	return Serializers(obj)
}
