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

var classNamePattern = regexp.MustCompile(`^(?:export\s+)?(?:default\s+)?(?:abstract\s+)?class\s+(\w+)`)

// standardModelTypes are the declared types kept as primitives.
var standardModelTypes = map[string]bool{
	"string": true, "number": true, "integer": true, "datetime": true,
	"date": true, "boolean": true, "any": true,
}

// relationMarkers turn a model property into an array.
var relationMarkers = []string{"HasMany", "ManyToMany", "HasManyThrough"}

// Model is the result of parsing one model class file.
type Model struct {
	// Name is the declared class name; empty when no class header was found
	Name string

	Properties *types.OrderedMap[*types.Schema]
	Required   []string
}

// Schema returns the component schema of the model.
func (m Model) Schema() *types.Schema {
	return &types.Schema{
		Type:        "object",
		Required:    m.Required,
		Properties:  m.Properties,
		Description: m.Name + " (Model)",
	}
}

// modelMarkers are the annotations found on the line above a property.
type modelMarkers struct {
	enum     []string
	format   string
	example  *string
	required bool
	props    *types.OrderedMap[any]
}

// ParseModel scans a model class declaration line by line. Property lines
// must be public fields, public getters or declare fields; everything else
// is skipped.
func ParseModel(data string, snakeCase bool) Model {
	lines := normalizeLines(data)
	m := Model{Properties: types.NewOrderedMap[*types.Schema]()}
	softDelete := false

	for i, line := range lines {
		if m.Name == "" {
			if match := classNamePattern.FindStringSubmatch(line); match != nil {
				m.Name = match[1]
			}
		}
		if strings.Contains(line, "@swagger-softdelete") || strings.Contains(line, "SoftDeletes") {
			softDelete = true
		}
		if isCommentLine(line) || isStaticLine(line) {
			continue
		}

		prev := ""
		if i > 0 {
			prev = lines[i-1]
		}
		if strings.Contains(prev, "serializeAs: null") || strings.Contains(prev, "@no-swagger") {
			continue
		}

		field, typ, ok := splitModelDeclaration(line)
		if !ok {
			continue
		}
		if snakeCase {
			field = util.SnakeCase(field)
		}

		markers := parseModelMarkers(prev)
		if markers.required {
			m.Required = append(m.Required, field)
		}
		m.Properties.Set(field, modelProperty(field, typ, line, markers))
	}

	if softDelete {
		m.Properties.Set("deleted_at", &types.Schema{
			Type:    "string",
			Format:  "date-time",
			Example: example.DateTime,
		})
	}

	return m
}

// splitModelDeclaration extracts the field name and declared type from a
// property line.
func splitModelDeclaration(line string) (field, typ string, ok bool) {
	var decl string
	getter := false
	switch {
	case strings.Contains(line, "declare "):
		decl = line[strings.Index(line, "declare ")+len("declare "):]
	case strings.HasPrefix(line, "public get "):
		decl = strings.TrimPrefix(line, "public get ")
		getter = true
	case strings.HasPrefix(line, "public "):
		decl = strings.TrimPrefix(line, "public ")
	default:
		return "", "", false
	}

	decl = strings.TrimPrefix(strings.TrimSpace(decl), "readonly ")
	decl = strings.ReplaceAll(decl, ";", "")

	if getter {
		open := strings.Index(decl, "(")
		if open <= 0 {
			return "", "", false
		}
		field = decl[:open]
		rest := decl[open:]
		if close := strings.Index(rest, ")"); close != -1 {
			rest = rest[close+1:]
		}
		if idx := strings.Index(rest, ":"); idx != -1 {
			typ = rest[idx+1:]
		}
		typ = strings.TrimSpace(strings.Split(typ, "{")[0])
	} else {
		name, rest, found := strings.Cut(decl, ":")
		if !found {
			name, _, _ = strings.Cut(decl, "=")
		}
		field = name
		typ = rest
		if idx := strings.Index(typ, "="); idx != -1 && !strings.Contains(typ[:idx], "<") {
			typ = typ[:idx]
		}
		typ = strings.TrimSpace(strings.ReplaceAll(typ, "{", ""))
	}

	field = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(field), "?!"))
	if !util.IsIdentifier(field) {
		return "", "", false
	}
	return field, strings.TrimSpace(typ), true
}

func parseModelMarkers(prev string) modelMarkers {
	var mk modelMarkers
	if prev == "" {
		return mk
	}
	if strings.Contains(prev, "@enum") {
		if en := util.GetBetweenBrackets(prev, "enum"); en != "" {
			mk.enum = strings.Split(en, ",")
		}
	}
	if strings.Contains(prev, "@format") {
		mk.format = util.GetBetweenBrackets(prev, "format")
	}
	if strings.Contains(prev, "@example") {
		if match := exampleMarkerPattern.FindStringSubmatch(prev); match != nil {
			v := match[1]
			mk.example = &v
		}
	}
	if strings.Contains(prev, "@required") {
		mk.required = true
	}
	if strings.Contains(prev, "@props") {
		raw := util.GetBetweenBrackets(strings.Replace(prev, "@props", "props", 1), "props")
		if util.IsJSONString(raw) {
			if v, err := types.DecodeJSON([]byte(raw)); err == nil {
				mk.props, _ = v.(*types.OrderedMap[any])
			}
		}
	}
	return mk
}

var exampleMarkerPattern = regexp.MustCompile(`example\(([^()]*)\)`)

// modelProperty resolves a declared model type into a property schema.
func modelProperty(field, typ, line string, mk modelMarkers) *types.Schema {
	typ = firstUnionMember(typ)
	if typ == "" {
		typ = "string"
	}

	isArray := strings.HasSuffix(typ, "[]")
	for _, marker := range relationMarkers {
		if strings.Contains(line, marker) {
			isArray = true
		}
	}
	typ = strings.TrimSuffix(typ, "[]")

	var prop *types.Schema
	switch {
	case strings.Contains(typ, "typeof "):
		name := strings.TrimSpace(typ[strings.Index(typ, "typeof ")+len("typeof "):])
		name = strings.TrimRight(name, ">[] ")
		prop = types.RefTo(name)
	case standardModelTypes[strings.ToLower(typ)]:
		prop = &types.Schema{Type: strings.ToLower(typ)}
	case util.IsIdentifier(typ):
		prop = types.RefTo(typ)
	default:
		prop = types.RefTo(types.AnySchema)
	}

	switch prop.Type {
	case "datetime":
		prop.Type, prop.Format = "string", "date-time"
	case "date":
		prop.Type, prop.Format = "string", "date"
	}
	switch field {
	case "email", "password":
		prop = &types.Schema{Type: "string", Format: field}
	}
	if len(mk.enum) > 0 {
		prop = &types.Schema{Type: "string", Enum: toAnySlice(mk.enum)}
	}
	if prop.Type == "any" {
		prop = types.RefTo(types.AnySchema)
	}
	if mk.format != "" && prop.Ref == "" {
		prop.Format = mk.format
	}

	if prop.Ref == "" {
		switch {
		case mk.example != nil:
			prop.Example = typedExample(*mk.example, prop.Type)
		case len(mk.enum) > 0:
			prop.Example = mk.enum[0]
		case prop.Type == "boolean":
			prop.Example = true
		default:
			prop.Example = example.ForProperty(field, prop.Type, prop.Format)
		}
	}

	if isArray {
		prop = types.ArrayOf(prop)
	}
	if mk.props != nil {
		if merged, err := types.MergeValue(prop, mk.props); err == nil {
			prop = merged
		}
	}
	return prop
}

// firstUnionMember returns the first non-null alternative of a union type.
func firstUnionMember(typ string) string {
	if !strings.Contains(typ, "|") {
		return strings.TrimSpace(typ)
	}
	for _, part := range strings.Split(typ, "|") {
		part = strings.TrimSpace(part)
		if part != "" && part != "null" && part != "undefined" {
			return part
		}
	}
	return ""
}

// typedExample converts a marker example literal to the property type.
func typedExample(raw, typ string) any {
	switch typ {
	case "number", "integer":
		if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
			return n
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
			return f
		}
	case "boolean":
		if b, err := strconv.ParseBool(strings.TrimSpace(raw)); err == nil {
			return b
		}
	}
	return raw
}

func toAnySlice(in []string) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
	}
	return out
}

// normalizeLines trims every line, drops tabs and blank lines.
func normalizeLines(data string) []string {
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.ReplaceAll(data, "\t", "")
	var out []string
	for _, line := range strings.Split(data, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(line, "//") || strings.HasPrefix(line, "/*") || strings.HasPrefix(line, "*")
}

func isStaticLine(line string) bool {
	return strings.HasPrefix(line, "public static ") ||
		strings.HasPrefix(line, "private static ") ||
		strings.HasPrefix(line, "static ")
}
