// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/apisynth/apisynth/internal/example"
	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

// Lookup resolves registered schemas by name.
type Lookup interface {
	Get(name string) (*types.Schema, bool)
}

var interfaceHeaderPattern = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:declare\s+)?interface\s+(\w+)(?:\s*<[^{]*?>)?(?:\s+extends\s+([^{]+))?`)

// interfaceDef accumulates one interface declaration while scanning.
type interfaceDef struct {
	name       string
	extends    []string
	properties *types.OrderedMap[*types.Schema]
	required   []string
}

// objectFrame is an inline object literal type being scanned.
type objectFrame struct {
	field    string
	optional bool
	def      *interfaceDef
}

// ParseInterfaces scans interface declarations in data. Parents named in
// extends clauses are resolved against interfaces declared earlier in the
// same file first and registry second; unresolvable parents contribute
// nothing.
func ParseInterfaces(data string, registry Lookup) *types.OrderedMap[*types.Schema] {
	lines := normalizeLines(data)
	var defs []*interfaceDef
	var stack []*objectFrame

	for i, line := range lines {
		if len(stack) == 0 {
			match := interfaceHeaderPattern.FindStringSubmatch(line)
			if match == nil {
				continue
			}
			def := &interfaceDef{
				name:       match[1],
				extends:    parseExtends(match[2]),
				properties: types.NewOrderedMap[*types.Schema](),
			}
			defs = append(defs, def)

			body, closed := inlineBody(line)
			for _, member := range splitMembers(body) {
				addMember(def, member, "")
			}
			if !closed {
				stack = append(stack, &objectFrame{def: def})
			}
			continue
		}

		if isCommentLine(line) {
			continue
		}

		top := stack[len(stack)-1]
		if strings.HasPrefix(line, "}") {
			stack = stack[:len(stack)-1]
			if top.field != "" {
				parent := stack[len(stack)-1].def
				parent.properties.Set(top.field, inlineObject(top))
				if !top.optional {
					parent.required = append(parent.required, top.field)
				}
			}
			continue
		}

		prev := ""
		if i > 0 {
			prev = lines[i-1]
		}

		prop, typ, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		typ = strings.TrimSpace(typ)
		if typ == "{" {
			field := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(prop), "readonly "))
			stack = append(stack, &objectFrame{
				field:    strings.ReplaceAll(field, "?", ""),
				optional: strings.Contains(field, "?"),
				def:      &interfaceDef{properties: types.NewOrderedMap[*types.Schema]()},
			})
			continue
		}
		addMember(top.def, line, prev)
	}

	out := types.NewOrderedMap[*types.Schema]()
	for _, def := range defs {
		out.Set(def.name, resolveInterface(def, out, registry))
	}
	return out
}

// inlineBody returns the text between the braces of a header line and
// whether the declaration closes on the same line.
func inlineBody(line string) (string, bool) {
	open := strings.Index(line, "{")
	if open == -1 {
		return "", false
	}
	close := strings.LastIndex(line, "}")
	if close <= open {
		return line[open+1:], false
	}
	return line[open+1 : close], true
}

func splitMembers(body string) []string {
	var out []string
	for _, m := range strings.FieldsFunc(body, func(r rune) bool { return r == ';' || r == ',' }) {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

// addMember parses "name?: type" into def. prev is the line above, which
// may carry a @required marker.
func addMember(def *interfaceDef, line, prev string) {
	prop, typ, ok := strings.Cut(line, ":")
	if !ok {
		return
	}
	prop = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(prop), "readonly "))
	if strings.Contains(prop, "(") {
		return
	}
	optional := strings.Contains(prop, "?")
	field := strings.ReplaceAll(prop, "?", "")
	if !util.IsIdentifier(field) {
		field = strings.Trim(field, `"'`)
		if field == "" || strings.ContainsAny(field, "[] ") {
			return
		}
	}

	typ = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(typ), ";,"))
	s := tsTypeToSchema(typ, field)
	if optional && s.Ref == "" {
		s.Nullable = true
	}
	def.properties.Set(field, s)

	if !optional || strings.Contains(prev, "@required") {
		def.required = append(def.required, field)
	}
}

// inlineObject converts a scanned inline object type into a property.
func inlineObject(f *objectFrame) *types.Schema {
	s := &types.Schema{
		Type:       "object",
		Nullable:   f.optional,
		Properties: f.def.properties,
		Required:   f.def.required,
	}
	ex := types.NewOrderedMap[any]()
	for _, key := range f.def.properties.Keys() {
		p, _ := f.def.properties.Get(key)
		if p.Example != nil {
			ex.Set(key, p.Example)
		} else if p.Ref == "" {
			ex.Set(key, example.ByField(key))
		}
	}
	s.Example = ex
	return s
}

// tsTypeToSchema converts a TypeScript type annotation to a schema.
func tsTypeToSchema(tsType, field string) *types.Schema {
	tsType = strings.TrimSpace(tsType)

	if strings.Contains(tsType, "|") && !strings.HasPrefix(tsType, "Array<") {
		return unionTypeToSchema(tsType, field)
	}

	if strings.HasSuffix(tsType, "[]") {
		return types.ArrayOf(tsTypeToSchema(strings.TrimSuffix(tsType, "[]"), field))
	}
	if strings.HasPrefix(tsType, "Array<") && strings.HasSuffix(tsType, ">") {
		return types.ArrayOf(tsTypeToSchema(tsType[6:len(tsType)-1], field))
	}

	switch strings.ToLower(tsType) {
	case "datetime", "date-time":
		return &types.Schema{Type: "string", Format: "date-time", Example: example.DateTime}
	case "date":
		if tsType == "Date" {
			return &types.Schema{Type: "string", Format: "date-time", Example: example.DateTime}
		}
		return &types.Schema{Type: "string", Format: "date", Example: example.Date}
	case "string", "number", "boolean", "integer":
		typ := strings.ToLower(tsType)
		return &types.Schema{Type: typ, Example: example.ForProperty(field, typ, "")}
	case "object":
		return &types.Schema{Type: "object"}
	case "any", "unknown", "":
		return types.RefTo(types.AnySchema)
	}

	if isQuoted(tsType) {
		val := tsType[1 : len(tsType)-1]
		return &types.Schema{Type: "string", Enum: []any{val}, Example: val}
	}
	if n, err := strconv.ParseFloat(tsType, 64); err == nil {
		return &types.Schema{Type: "number", Enum: []any{n}, Example: n}
	}
	if tsType == "true" || tsType == "false" {
		return &types.Schema{Type: "boolean", Example: tsType == "true"}
	}
	if util.IsIdentifier(tsType) {
		return types.RefTo(tsType)
	}
	return types.RefTo(types.AnySchema)
}

// unionTypeToSchema converts a union: null members make the rest nullable,
// string literal unions become enums, anything else a oneOf.
func unionTypeToSchema(tsType, field string) *types.Schema {
	var parts []string
	nullable := false
	for _, part := range strings.Split(tsType, "|") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
		case "null", "undefined":
			nullable = true
		default:
			parts = append(parts, part)
		}
	}

	if len(parts) == 0 {
		return types.RefTo(types.AnySchema)
	}
	if len(parts) == 1 {
		s := tsTypeToSchema(parts[0], field)
		if nullable && s.Ref == "" {
			s.Nullable = true
		}
		return s
	}

	literals := make([]any, 0, len(parts))
	for _, p := range parts {
		if !isQuoted(p) {
			literals = nil
			break
		}
		literals = append(literals, p[1:len(p)-1])
	}
	if literals != nil {
		return &types.Schema{Type: "string", Enum: literals, Example: literals[0], Nullable: nullable}
	}

	oneOf := make([]*types.Schema, 0, len(parts))
	for _, p := range parts {
		oneOf = append(oneOf, tsTypeToSchema(p, field))
	}
	return &types.Schema{OneOf: oneOf, Nullable: nullable}
}

func isQuoted(s string) bool {
	return len(s) >= 2 &&
		((s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"'))
}

// parseExtends splits an extends clause into parent names, dropping path
// decoration, file extensions and generic arguments.
func parseExtends(clause string) []string {
	clause = strings.TrimSpace(clause)
	if clause == "" {
		return nil
	}
	var out []string
	for _, t := range strings.Split(clause, ",") {
		t = strings.TrimSpace(t)
		if idx := strings.Index(t, "<"); idx != -1 {
			t = t[:idx]
		}
		if idx := strings.LastIndex(t, "/"); idx != -1 {
			t = t[idx+1:]
		}
		t = strings.TrimSuffix(t, ".ts")
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// resolveInterface merges inherited properties under the interface's own.
func resolveInterface(def *interfaceDef, local *types.OrderedMap[*types.Schema], registry Lookup) *types.Schema {
	props := types.NewOrderedMap[*types.Schema]()
	required := append([]string(nil), def.required...)

	for _, base := range def.extends {
		parent := findParent(base, local, registry)
		if parent == nil {
			continue
		}
		for _, key := range parent.Properties.Keys() {
			p, _ := parent.Properties.Get(key)
			props.Set(key, p)
		}
		for _, r := range parent.Required {
			if !containsString(required, r) {
				required = append(required, r)
			}
		}
	}
	for _, key := range def.properties.Keys() {
		p, _ := def.properties.Get(key)
		props.Set(key, p)
	}

	description := def.name + " (Interface)"
	if len(def.extends) > 0 {
		description = def.name + " extends " + strings.Join(def.extends, ", ") + " (Interface)"
	}

	s := &types.Schema{
		Type:        "object",
		Properties:  props,
		Description: description,
	}
	if len(required) > 0 {
		s.Required = required
	}
	return s
}

// findParent resolves a parent name trying, in order: the exact name, the
// name without path decoration, the #models/ alias, and the name with a
// Model suffix stripped or added. Only schemas with properties qualify.
func findParent(base string, local *types.OrderedMap[*types.Schema], registry Lookup) *types.Schema {
	clean := base
	if idx := strings.LastIndex(clean, "/"); idx != -1 {
		clean = clean[idx+1:]
	}
	clean = strings.TrimPrefix(strings.TrimPrefix(strings.TrimSuffix(clean, ".ts"), "#"), "@")

	candidates := []string{base, clean, "#models/" + clean, strings.TrimSuffix(clean, "Model"), clean + "Model"}
	for _, name := range candidates {
		if s, ok := local.Get(name); ok && s.Properties.Len() > 0 {
			return s
		}
		if registry == nil {
			continue
		}
		if s, ok := registry.Get(name); ok && s.Properties.Len() > 0 {
			return s
		}
	}
	return nil
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
