// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package example

import (
	"strings"

	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

// DefaultMaxDepth bounds reference expansion when synthesizing examples.
const DefaultMaxDepth = 5

// Schemas is the read side of a schema registry.
type Schemas interface {
	Get(name string) (*types.Schema, bool)

	// IsModel reports whether name was contributed by a model class. Model
	// properties that reference other schemas are relations and are only
	// expanded when requested with .with().
	IsModel(name string) bool
}

// Ref is a parsed type-reference token such as
// "<User[]>.paginated().with(posts).exclude(password)".
type Ref struct {
	Name      string
	Array     bool
	Paginated bool
	With      []string
	Only      []string
	Exclude   []string
	Append    *types.OrderedMap[any]
}

// ParseRef parses the reference token contained in line. It reports false
// when line carries no "<...>" token.
func ParseRef(line string) (Ref, bool) {
	start := strings.Index(line, "<")
	end := strings.LastIndex(line, ">")
	if start == -1 || end <= start {
		return Ref{}, false
	}
	raw := strings.TrimSpace(line[start+1 : end])
	ref := Ref{
		Name:  strings.TrimSpace(strings.ReplaceAll(raw, "[]", "")),
		Array: strings.Contains(line, "[]"),
	}
	if ref.Name == "" {
		return Ref{}, false
	}

	rest := line[end+1:]
	ref.Paginated = util.GetBetweenBrackets(rest, "paginated") == "true"
	ref.With = splitList(util.GetBetweenBrackets(rest, "with"))
	ref.Only = splitList(util.GetBetweenBrackets(rest, "only"))
	ref.Exclude = splitList(util.GetBetweenBrackets(rest, "exclude"))
	if app := util.GetBetweenBrackets(rest, "append"); app != "" {
		if v, err := types.DecodeJSON([]byte(app)); err == nil {
			if obj, ok := v.(*types.OrderedMap[any]); ok {
				ref.Append = obj
			}
		}
	}
	return ref, true
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.Trim(p, `"'`); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Body is a resolved body spec: the schema and example of one media type.
type Body struct {
	Schema  *types.Schema
	Example any
}

// Generator expands schemas into example values against a registry.
type Generator struct {
	schemas  Schemas
	maxDepth int
}

// NewGenerator creates a generator reading from schemas.
func NewGenerator(schemas Schemas) *Generator {
	return &Generator{schemas: schemas, maxDepth: DefaultMaxDepth}
}

// ForRef resolves a reference token into a body schema and example. The
// schema always references the named component even when it is not
// registered; dangling references are left for the document to carry.
func (g *Generator) ForRef(line string) (Body, bool) {
	ref, ok := ParseRef(line)
	if !ok {
		return Body{}, false
	}
	return g.Resolve(ref), true
}

// Resolve builds the body for a parsed reference.
func (g *Generator) Resolve(ref Ref) Body {
	var item *types.Schema
	var ex any

	if _, found := g.lookup(ref.Name); !found && ByType(ref.Name) != nil {
		item = &types.Schema{Type: strings.ToLower(ref.Name)}
		ex = ByType(ref.Name)
	} else {
		item = types.RefTo(ref.Name)
		ex = g.named(ref.Name, ref.With, ref.Only, ref.Exclude, map[string]bool{}, 0)
	}

	if ref.Append != nil {
		if obj, ok := ex.(*types.OrderedMap[any]); ok {
			obj = obj.Clone()
			ex = obj
			for _, k := range ref.Append.Keys() {
				v, _ := ref.Append.Get(k)
				obj.Set(k, v)
			}
		}
	}

	switch {
	case ref.Paginated:
		s := types.NewObject()
		s.Properties.Set("data", types.ArrayOf(item))
		s.Properties.Set("meta", types.RefTo(types.PaginationMetaSchema))
		body := types.NewOrderedMap[any]()
		body.Set("data", []any{ex})
		body.Set("meta", g.ForSchema(types.RefTo(types.PaginationMetaSchema)))
		return Body{Schema: s, Example: body}
	case ref.Array:
		return Body{Schema: types.ArrayOf(item), Example: []any{ex}}
	default:
		return Body{Schema: item, Example: ex}
	}
}

// ExampleFor returns only the example of a reference token, or line itself
// when it holds no token.
func (g *Generator) ExampleFor(line string) any {
	body, ok := g.ForRef(line)
	if !ok {
		return line
	}
	return body.Example
}

// ReplaceRefs walks a decoded JSON value and replaces every string holding
// a reference token by the token's example.
func (g *Generator) ReplaceRefs(v any) any {
	switch val := v.(type) {
	case string:
		if strings.Contains(val, "<") && strings.Contains(val, ">") {
			return g.ExampleFor(val)
		}
		return val
	case *types.OrderedMap[any]:
		out := types.NewOrderedMap[any]()
		for _, k := range val.Keys() {
			item, _ := val.Get(k)
			out.Set(k, g.ReplaceRefs(item))
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = g.ReplaceRefs(item)
		}
		return out
	default:
		return v
	}
}

// ForSchema synthesizes an example for s, expanding references.
func (g *Generator) ForSchema(s *types.Schema) any {
	return g.expand(s, nil, map[string]bool{}, 0)
}

func (g *Generator) lookup(name string) (*types.Schema, bool) {
	if g.schemas == nil {
		return nil, false
	}
	return g.schemas.Get(name)
}

func (g *Generator) isModel(name string) bool {
	return g.schemas != nil && g.schemas.IsModel(name)
}

// named expands a registry entry honoring relation and field filters.
func (g *Generator) named(name string, with, only, exclude []string, visiting map[string]bool, depth int) any {
	s, ok := g.lookup(name)
	if !ok || visiting[name] || depth > g.maxDepth {
		return nil
	}
	if s.Example != nil {
		return s.Example
	}
	if s.Kind() != types.KindObject {
		return g.expand(s, with, visiting, depth)
	}

	visiting[name] = true
	defer delete(visiting, name)

	model := g.isModel(name)
	out := types.NewOrderedMap[any]()
	for _, key := range s.Properties.Keys() {
		if contains(exclude, key) || (len(only) > 0 && !contains(only, key)) {
			continue
		}
		prop, _ := s.Properties.Get(key)
		nested, included := relationPath(with, key)
		if model && isRelation(prop) && !included && !isAny(prop) {
			continue
		}
		out.Set(key, g.expand(prop, nested, visiting, depth+1))
	}
	return out
}

func (g *Generator) expand(s *types.Schema, with []string, visiting map[string]bool, depth int) any {
	if s == nil || depth > g.maxDepth {
		return nil
	}

	switch s.Kind() {
	case types.KindRef:
		if isAny(s) {
			return types.NewOrderedMap[any]()
		}
		return g.named(s.RefName(), with, nil, nil, visiting, depth)
	case types.KindArray:
		if s.Example != nil {
			return s.Example
		}
		return []any{g.expand(s.Items, with, visiting, depth+1)}
	case types.KindObject:
		if s.Example != nil {
			return s.Example
		}
		out := types.NewOrderedMap[any]()
		for _, key := range s.Properties.Keys() {
			prop, _ := s.Properties.Get(key)
			nested, _ := relationPath(with, key)
			out.Set(key, g.expand(prop, nested, visiting, depth+1))
		}
		return out
	case types.KindPrimitive:
		if s.Example != nil {
			return s.Example
		}
		if len(s.Enum) > 0 {
			return s.Enum[0]
		}
		if v := ByType(s.Format); v != nil {
			return v
		}
		return ByType(s.Type)
	default:
		if s.Example != nil {
			return s.Example
		}
		for _, group := range [][]*types.Schema{s.AllOf, s.OneOf, s.AnyOf} {
			if len(group) > 0 {
				return g.expand(group[0], with, visiting, depth)
			}
		}
		return nil
	}
}

// relationPath reports whether key is requested in with and returns the
// nested relation paths below it ("posts.comments" -> "comments").
func relationPath(with []string, key string) ([]string, bool) {
	var nested []string
	found := false
	for _, w := range with {
		head, tail, _ := strings.Cut(w, ".")
		if head != key {
			continue
		}
		found = true
		if tail != "" {
			nested = append(nested, tail)
		}
	}
	return nested, found
}

func isRelation(s *types.Schema) bool {
	return s.Kind() == types.KindRef || (s.Kind() == types.KindArray && s.Items.Kind() == types.KindRef)
}

func isAny(s *types.Schema) bool {
	return s.Kind() == types.KindRef && s.RefName() == types.AnySchema
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
