// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package annotation parses the documentation comments of controller
// actions. A block comment documents the action named by its first line
// ("@index"); the remaining lines are directives:
//
//	@summary <text>
//	@description <text>
//	@operationId <id>
//	@tag <name>
//	@param<Location> <name> - <description> - <meta>
//	@paramUse(<group>,...)
//	@requestBody <bodyspec>
//	@requestFormDataBody <json or <Ref>>
//	@responseBody <status> - <bodyspec> - <description>
//	@responseHeader <status> - <name> - <description> - <meta>
//	@responseHeader <status> - @use(<group>,...)
//
// A bodyspec is inline JSON or a reference token such as "<User[]>".
package annotation

import (
	"fmt"
	"net/http"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/apisynth/apisynth/internal/example"
	"github.com/apisynth/apisynth/internal/parser"
	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

// Media types of request and response bodies.
const (
	MediaJSON     = "application/json"
	MediaFormData = "multipart/form-data"
)

var paramPattern = regexp.MustCompile(`^@param([a-zA-Z]*)`)

// Block is the parsed annotation set of one action. Unset directives leave
// their fields empty.
type Block struct {
	Summary     string
	Description string
	OperationID string
	Tag         string

	// Parameters are keyed by name; later declarations replace earlier ones
	Parameters *types.OrderedMap[types.Parameter]

	RequestBody *types.RequestBody

	// Responses are keyed by status code in declaration order
	Responses *types.OrderedMap[*types.Response]
}

func newBlock() *Block {
	return &Block{
		Parameters: types.NewOrderedMap[types.Parameter](),
		Responses:  types.NewOrderedMap[*types.Response](),
	}
}

// Options carries the configured common header and parameter groups.
type Options struct {
	CommonHeaders    map[string]map[string]types.Header
	CommonParameters map[string][]types.Parameter
}

// Parser parses annotation blocks, resolving reference tokens against a
// schema registry.
type Parser struct {
	schemas example.Schemas
	gen     *example.Generator
	opts    Options
}

// NewParser creates a parser resolving references against schemas.
func NewParser(schemas example.Schemas, opts Options) *Parser {
	return &Parser{
		schemas: schemas,
		gen:     example.NewGenerator(schemas),
		opts:    opts,
	}
}

// ParseFile reads path and returns the block documenting action, or nil
// when the file has none.
func (p *Parser) ParseFile(ts *parser.TypeScriptParser, path, action string) (*Block, []types.Diagnostic) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, []types.Diagnostic{types.Warningf(path, "failed to read annotations: %v", err)}
	}
	blocks, diags := p.Blocks(ts, path, content)
	return blocks[action], diags
}

// Blocks parses every annotation block of a source file keyed by action.
// When several blocks name the same action the last one wins.
func (p *Parser) Blocks(ts *parser.TypeScriptParser, path string, content []byte) (map[string]*Block, []types.Diagnostic) {
	pf, err := ts.Parse(path, content)
	if err != nil {
		return map[string]*Block{}, []types.Diagnostic{types.Warningf(path, "failed to parse annotations: %v", err)}
	}
	defer pf.Close()

	blocks := make(map[string]*Block)
	var diags []types.Diagnostic
	for _, c := range pf.Comments {
		if !c.Block {
			continue
		}
		lines := c.Lines()
		if len(lines) == 0 {
			continue
		}
		action, ok := actionName(lines[0])
		if !ok {
			continue
		}
		block, d := p.ParseLines(lines[1:])
		for i := range d {
			d[i].Source = path
		}
		diags = append(diags, d...)
		blocks[action] = block
	}
	return blocks, diags
}

// actionName returns the action a block's first line binds to.
func actionName(line string) (string, bool) {
	if !strings.HasPrefix(line, "@") {
		return "", false
	}
	name := line[1:]
	if name == "" || strings.ContainsAny(name, " \t") {
		return "", false
	}
	return name, true
}

// ParseLines parses directive lines. Lines not starting with a known
// directive are ignored.
func (p *Parser) ParseLines(lines []string) (*Block, []types.Diagnostic) {
	b := newBlock()
	headers := make(map[string]map[string]types.Header)
	var headerOrder []string
	var diags []types.Diagnostic

	for _, raw := range lines {
		line := strings.TrimSpace(raw)
		switch {
		case strings.HasPrefix(line, "@summary"):
			b.Summary = directiveValue(line, "@summary")
		case strings.HasPrefix(line, "@tag"):
			b.Tag = directiveValue(line, "@tag")
		case strings.HasPrefix(line, "@description"):
			b.Description = directiveValue(line, "@description")
		case strings.HasPrefix(line, "@operationId"):
			b.OperationID = directiveValue(line, "@operationId")
		case strings.HasPrefix(line, "@responseBody"):
			status, resp, ok := p.responseBody(directiveValue(line, "@responseBody"))
			if !ok {
				diags = append(diags, types.Warningf("", "invalid @responseBody line: %s", line))
				continue
			}
			b.Responses.Set(status, resp)
		case strings.HasPrefix(line, "@responseHeader"):
			status, h, err := p.responseHeader(directiveValue(line, "@responseHeader"))
			if err != nil {
				diags = append(diags, types.Warningf("", "%v in line: %s", err, line))
				continue
			}
			if _, ok := headers[status]; !ok {
				headers[status] = make(map[string]types.Header)
				headerOrder = append(headerOrder, status)
			}
			for name, header := range h {
				headers[status][name] = header
			}
		case strings.HasPrefix(line, "@requestFormDataBody"):
			body, err := p.formDataBody(directiveValue(line, "@requestFormDataBody"))
			if err != nil {
				diags = append(diags, types.Warningf("", "%v in line: %s", err, line))
				continue
			}
			if body != nil {
				b.RequestBody = body
			}
		case strings.HasPrefix(line, "@requestBody"):
			if content := p.body(directiveValue(line, "@requestBody")); content != nil {
				b.RequestBody = &types.RequestBody{Content: content}
			}
		case strings.HasPrefix(line, "@param"):
			for _, param := range p.param(line) {
				b.Parameters.Set(param.Name, param)
			}
		}
	}

	for _, status := range headerOrder {
		resp, ok := b.Responses.Get(status)
		if !ok {
			diags = append(diags, types.Warningf("", "@responseHeader for status %s has no matching @responseBody", status))
			continue
		}
		resp.Headers = headers[status]
	}
	for _, status := range b.Responses.Keys() {
		resp, _ := b.Responses.Get(status)
		if resp.Description == "" {
			resp.Description = DefaultResponseDescription(status, firstMediaType(resp.Content))
		}
	}

	return b, diags
}

func directiveValue(line, directive string) string {
	return strings.TrimSpace(strings.TrimPrefix(line, directive))
}

// DefaultResponseDescription describes a response that has no description.
func DefaultResponseDescription(status, mediaType string) string {
	reason := ""
	if code, err := strconv.Atoi(status); err == nil {
		reason = http.StatusText(code)
	}
	return fmt.Sprintf("Returns **%s** (%s) as **%s**", status, reason, mediaType)
}

func firstMediaType(content map[string]types.MediaType) string {
	if len(content) == 0 {
		return MediaJSON
	}
	keys := make([]string, 0, len(content))
	for k := range content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys[0]
}

// splitFields splits a directive on " - ". A dangling separator at the end
// leaves no empty trailing field.
func splitFields(s string) []string {
	s = strings.TrimSpace(s)
	for strings.HasSuffix(s, " -") || s == "-" {
		s = strings.TrimSpace(strings.TrimSuffix(s, "-"))
	}
	parts := strings.Split(s, " - ")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func (p *Parser) responseBody(value string) (string, *types.Response, bool) {
	parts := splitFields(value)
	status := parts[0]
	if status == "" {
		return "", nil, false
	}
	resp := &types.Response{}
	if len(parts) > 1 {
		resp.Content = p.body(parts[1])
	}
	if len(parts) > 2 {
		resp.Description = strings.Join(parts[2:], " - ")
	}
	return status, resp, true
}

func (p *Parser) responseHeader(value string) (string, map[string]types.Header, error) {
	parts := splitFields(value)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", nil, fmt.Errorf("@responseHeader needs a status and a name")
	}
	status, name := parts[0], parts[1]

	if strings.Contains(name, "@use") {
		out := make(map[string]types.Header)
		for _, group := range strings.Split(util.GetBetweenBrackets(name, "use"), ",") {
			for k, h := range p.opts.CommonHeaders[group] {
				out[k] = h
			}
		}
		return status, out, nil
	}

	h := types.Header{}
	if len(parts) > 2 {
		h.Description = parts[2]
	}
	typ, ex := "string", ""
	if len(parts) > 3 {
		ex = util.GetBetweenBrackets(parts[3], "example")
		if t := util.GetBetweenBrackets(parts[3], "type"); t != "" {
			typ = t
		}
	}
	h.Schema = scalarSchema(typ, ex)
	if h.Schema.Example == nil {
		switch typ {
		case "string":
			h.Schema.Example = "string"
		case "integer":
			h.Schema.Example = 1
		case "float", "number":
			h.Schema.Example = 1.5
		}
	}
	return status, map[string]types.Header{name: h}, nil
}

// scalarSchema builds a header or parameter schema. "float" is expressed
// as a number with float format; examples are converted to the type.
func scalarSchema(typ, ex string) *types.Schema {
	s := &types.Schema{Type: typ}
	if typ == "float" {
		s.Type, s.Format = "number", "float"
	}
	if ex == "" {
		return s
	}
	s.Example = ex
	switch s.Type {
	case "integer":
		if n, err := strconv.Atoi(ex); err == nil {
			s.Example = n
		}
	case "number":
		if f, err := strconv.ParseFloat(ex, 64); err == nil {
			s.Example = f
		}
	case "boolean":
		if v, err := strconv.ParseBool(ex); err == nil {
			s.Example = v
		}
	}
	return s
}

// param parses a @param<Location> or @paramUse line.
func (p *Parser) param(line string) []types.Parameter {
	if strings.HasPrefix(line, "@paramUse") {
		var out []types.Parameter
		for _, group := range strings.Split(util.GetBetweenBrackets(line, "paramUse"), ",") {
			out = append(out, p.opts.CommonParameters[group]...)
		}
		return out
	}

	required := !strings.HasPrefix(line, "@paramPath") && !strings.HasPrefix(line, "@paramQuery")
	in := "path"
	if m := paramPattern.FindStringSubmatch(line); m != nil {
		if m[1] != "" {
			in = strings.ToLower(m[1])
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, m[0]))
	}

	parts := splitFields(line)
	name := parts[0]
	if name == "" {
		return nil
	}
	param := types.Parameter{Name: name, In: in, Required: required}
	if len(parts) > 1 {
		param.Description = parts[1]
	}

	typ, ex := "string", ""
	var enum []string
	if len(parts) > 2 {
		meta := parts[2]
		if strings.Contains(meta, "@required") {
			param.Required = true
		}
		ex = util.GetBetweenBrackets(meta, "example")
		if t := util.GetBetweenBrackets(meta, "type"); t != "" {
			typ = t
		}
		if en := util.GetBetweenBrackets(meta, "enum"); en != "" {
			enum = strings.Split(en, ",")
			ex = enum[0]
		}
	}
	param.Schema = scalarSchema(typ, ex)
	if len(enum) > 1 {
		for _, e := range enum {
			param.Schema.Enum = append(param.Schema.Enum, e)
		}
	}
	return []types.Parameter{param}
}

// body resolves a bodyspec into JSON content. It returns nil for an empty
// spec.
func (p *Parser) body(spec string) map[string]types.MediaType {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return nil
	}

	if util.IsJSONString(spec) {
		v, err := types.DecodeJSON([]byte(spec))
		if err == nil {
			return map[string]types.MediaType{MediaJSON: {
				Schema:  p.jsonSchema(v),
				Example: p.gen.ReplaceRefs(v),
			}}
		}
	}

	if b, ok := p.gen.ForRef(spec); ok {
		return map[string]types.MediaType{MediaJSON: {Schema: b.Schema, Example: b.Example}}
	}
	return map[string]types.MediaType{MediaJSON: {}}
}

// jsonSchema derives a schema from an inline JSON example. String values
// holding reference tokens become references.
func (p *Parser) jsonSchema(v any) *types.Schema {
	switch val := v.(type) {
	case *types.OrderedMap[any]:
		s := types.NewObject()
		for _, key := range val.Keys() {
			item, _ := val.Get(key)
			s.Properties.Set(key, p.jsonSchema(item))
		}
		return s
	case []any:
		return types.ArrayOf(p.arrayItems(val))
	case string:
		if strings.Contains(val, "<") && strings.Contains(val, ">") {
			if b, ok := p.gen.ForRef(val); ok {
				return b.Schema
			}
		}
		return &types.Schema{Type: "string", Example: val}
	case bool:
		return &types.Schema{Type: "boolean", Example: val}
	case float64, int:
		return &types.Schema{Type: "number", Example: val}
	case nil:
		return &types.Schema{Nullable: true}
	}
	return &types.Schema{}
}

// arrayItems types array items by the first element. An array of reference
// tokens becomes a oneOf over the referenced schemas.
func (p *Parser) arrayItems(arr []any) *types.Schema {
	if len(arr) == 0 {
		return &types.Schema{}
	}
	if _, ok := arr[0].(string); ok {
		var oneOf []*types.Schema
		for _, el := range arr {
			s, ok := el.(string)
			if !ok {
				continue
			}
			if b, ok := p.gen.ForRef(s); ok && b.Schema.Kind() == types.KindRef {
				oneOf = append(oneOf, types.RefTo(b.Schema.RefName()))
			}
		}
		if len(oneOf) > 0 {
			return &types.Schema{OneOf: oneOf}
		}
		return &types.Schema{Type: "string"}
	}
	s := p.jsonSchema(arr[0])
	s.Example = nil
	return s
}

// formDataBody parses a @requestFormDataBody spec: inline JSON of field
// schemas, or a reference whose properties are projected onto the keys of
// the reference's example.
func (p *Parser) formDataBody(spec string) (*types.RequestBody, error) {
	obj := types.NewObject()

	if util.IsJSONString(spec) {
		v, err := types.DecodeJSON([]byte(spec))
		if err != nil {
			return nil, fmt.Errorf("invalid form data JSON: %w", err)
		}
		fields, ok := v.(*types.OrderedMap[any])
		if !ok {
			return nil, fmt.Errorf("form data JSON must be an object")
		}
		for _, key := range fields.Keys() {
			raw, _ := fields.Get(key)
			field, ok := raw.(*types.OrderedMap[any])
			if !ok {
				obj.Properties.Set(key, p.jsonSchema(raw))
				continue
			}
			field = field.Clone()
			if req, _ := field.Get("required"); req == "true" || req == true {
				obj.AddRequired(key)
			}
			field.Delete("required")
			s, err := types.SchemaFromValue(field)
			if err != nil {
				return nil, fmt.Errorf("form data field %s: %w", key, err)
			}
			obj.Properties.Set(key, s)
		}
		return formData(obj), nil
	}

	ref, ok := example.ParseRef(spec)
	if !ok {
		return nil, nil
	}
	target, ok := p.schemas.Get(ref.Name)
	if !ok || target.Kind() != types.KindObject {
		return nil, fmt.Errorf("unknown form data schema %s", ref.Name)
	}
	ex, _ := p.gen.Resolve(ref).Example.(*types.OrderedMap[any])
	if ex == nil {
		ex = types.NewOrderedMap[any]()
	}

	for _, key := range target.Properties.Keys() {
		if !ex.Has(key) {
			continue
		}
		prop, _ := target.Properties.Get(key)
		field := &types.Schema{Type: prop.Type, Format: prop.Format}
		if field.Type == "" {
			field.Type = "string"
		}
		obj.Properties.Set(key, field)
		if target.IsRequired(key) {
			obj.AddRequired(key)
		}
	}
	for _, key := range ex.Keys() {
		if obj.Properties.Has(key) {
			continue
		}
		v, _ := ex.Get(key)
		obj.Properties.Set(key, p.jsonSchema(v))
	}
	return formData(obj), nil
}

func formData(s *types.Schema) *types.RequestBody {
	return &types.RequestBody{Content: map[string]types.MediaType{MediaFormData: {Schema: s}}}
}
