// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package schema builds component schemas from model, interface, enum,
// validator and serializer declarations and keeps them in a run-scoped
// registry.
package schema

import (
	"sync"

	"github.com/apisynth/apisynth/pkg/types"
)

// Source identifies the declaration category that contributed a schema.
type Source int

// Sources in registry precedence order.
const (
	SourceBuiltin Source = iota
	SourceInterface
	SourceSerializer
	SourceModel
	SourceValidator
	SourceEnum
)

// String returns the category name.
func (s Source) String() string {
	switch s {
	case SourceBuiltin:
		return "builtin"
	case SourceInterface:
		return "interface"
	case SourceSerializer:
		return "serializer"
	case SourceModel:
		return "model"
	case SourceValidator:
		return "validator"
	case SourceEnum:
		return "enum"
	default:
		return "unknown"
	}
}

type entry struct {
	schema *types.Schema
	source Source
}

// Registry stores discovered schemas by name for reference resolution.
// The first registration of a name wins; later ones are dropped.
type Registry struct {
	mu      sync.RWMutex
	names   []string
	schemas map[string]entry
}

// NewRegistry creates a new schema registry.
func NewRegistry() *Registry {
	return &Registry{
		schemas: make(map[string]entry),
	}
}

// AddMissing registers schema under name unless the name is taken, and
// reports whether it was added.
func (r *Registry) AddMissing(name string, schema *types.Schema, source Source) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.schemas[name]; ok {
		return false
	}
	r.names = append(r.names, name)
	r.schemas[name] = entry{schema: schema, source: source}
	return true
}

// Merge registers every schema of a category contribution in order and
// returns the names dropped because they were already registered.
func (r *Registry) Merge(schemas *types.OrderedMap[*types.Schema], source Source) []string {
	var dropped []string
	for _, name := range schemas.Keys() {
		s, _ := schemas.Get(name)
		if !r.AddMissing(name, s, source) {
			dropped = append(dropped, name)
		}
	}
	return dropped
}

// Get returns a schema by name.
func (r *Registry) Get(name string) (*types.Schema, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.schemas[name]
	return e.schema, ok
}

// Has checks if a schema exists in the registry.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.schemas[name]
	return ok
}

// SourceOf returns the category that contributed name.
func (r *Registry) SourceOf(name string) (Source, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.schemas[name]
	return e.source, ok
}

// IsModel reports whether name was contributed by a model class.
func (r *Registry) IsModel(name string) bool {
	s, ok := r.SourceOf(name)
	return ok && s == SourceModel
}

// All returns a copy of the name to schema mapping.
func (r *Registry) All() map[string]*types.Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make(map[string]*types.Schema, len(r.schemas))
	for k, v := range r.schemas {
		result[k] = v.schema
	}
	return result
}

// Names returns all schema names in registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, len(r.names))
	copy(names, r.names)
	return names
}

// Count returns the number of schemas in the registry.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.schemas)
}

// Ordered returns the schemas in registration order.
func (r *Registry) Ordered() *types.OrderedMap[*types.Schema] {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := types.NewOrderedMap[*types.Schema]()
	for _, name := range r.names {
		out.Set(name, r.schemas[name].schema)
	}
	return out
}
