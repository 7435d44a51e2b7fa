// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package parser wraps tree-sitter parsing of TypeScript sources: comment
// extraction, exported declarations and static evaluation of literals.
package parser

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/apisynth/apisynth/pkg/types"
)

// TypeScriptParser provides TypeScript/JavaScript AST parsing capabilities using tree-sitter.
// A parser is not safe for concurrent use; create one per goroutine.
type TypeScriptParser struct {
	parser *sitter.Parser
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() *TypeScriptParser {
	parser := sitter.NewParser()
	parser.SetLanguage(typescript.GetLanguage())
	return &TypeScriptParser{
		parser: parser,
	}
}

// ParsedTSFile represents a parsed TypeScript source file.
type ParsedTSFile struct {
	// Path is the file path
	Path string

	// Content is the original source content
	Content []byte

	// Tree is the tree-sitter parse tree
	Tree *sitter.Tree

	// RootNode is the root node of the AST
	RootNode *sitter.Node

	// Comments are the comments of the file in source order
	Comments []Comment

	// Exports are the exported declarations in source order
	Exports []Export

	// Declarations maps top-level variable, class and function names to
	// their value nodes
	Declarations map[string]*sitter.Node
}

// Comment is one source comment.
type Comment struct {
	// Text is the comment body without delimiters or leading asterisks
	Text string

	// Block is true for /* */ comments
	Block bool

	// Line is the 1-based line the comment starts on
	Line int
}

// Lines returns the trimmed, non-empty lines of the comment body.
func (c Comment) Lines() []string {
	var out []string
	for _, line := range strings.Split(c.Text, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// Export is one exported binding.
type Export struct {
	// Name is the exported name, "default" for default exports
	Name string

	// Local is the declared name when it differs from Name
	Local string

	// Value is the initializer expression, or the class/function node
	Value *sitter.Node

	// Line is the 1-based source line
	Line int
}

// ParseSource parses TypeScript source code from a string.
func (p *TypeScriptParser) ParseSource(filename string, source string) (*ParsedTSFile, error) {
	return p.Parse(filename, []byte(source))
}

// Parse parses TypeScript source code from bytes.
func (p *TypeScriptParser) Parse(filename string, content []byte) (*ParsedTSFile, error) {
	tree, err := p.parser.ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TypeScript: %w", err)
	}

	rootNode := tree.RootNode()
	if rootNode == nil {
		return nil, fmt.Errorf("failed to get root node")
	}

	pf := &ParsedTSFile{
		Path:     filename,
		Content:  content,
		Tree:     tree,
		RootNode: rootNode,
	}

	pf.Comments = p.ExtractComments(rootNode, content)
	pf.Declarations = p.ExtractDeclarations(rootNode, content)
	pf.Exports = p.ExtractExports(rootNode, content, pf.Declarations)

	return pf, nil
}

// ParseFile parses a TypeScript source file from disk.
func (p *TypeScriptParser) ParseFile(path string) (*ParsedTSFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", path, err)
	}
	return p.Parse(path, content)
}

// ExtractComments returns every comment node in source order.
func (p *TypeScriptParser) ExtractComments(rootNode *sitter.Node, content []byte) []Comment {
	var comments []Comment

	p.walkNodes(rootNode, func(node *sitter.Node) bool {
		if node.Type() != "comment" {
			return true
		}
		raw := node.Content(content)
		c := Comment{Line: int(node.StartPoint().Row) + 1}
		if strings.HasPrefix(raw, "/*") {
			c.Block = true
			c.Text = cleanBlockComment(raw)
		} else {
			c.Text = strings.TrimSpace(strings.TrimPrefix(raw, "//"))
		}
		comments = append(comments, c)
		return false
	})

	return comments
}

// cleanBlockComment strips the delimiters and the leading asterisk of
// every line of a block comment.
func cleanBlockComment(raw string) string {
	raw = strings.TrimPrefix(raw, "/*")
	raw = strings.TrimPrefix(raw, "*")
	raw = strings.TrimSuffix(raw, "*/")

	lines := strings.Split(strings.ReplaceAll(raw, "\r\n", "\n"), "\n")
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "*") {
			line = strings.TrimSpace(strings.TrimPrefix(line, "*"))
		}
		lines[i] = line
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// ExtractDeclarations maps top-level names to their value nodes. Exported
// declarations are included.
func (p *TypeScriptParser) ExtractDeclarations(rootNode *sitter.Node, content []byte) map[string]*sitter.Node {
	decls := make(map[string]*sitter.Node)

	var visit func(node *sitter.Node)
	visit = func(node *sitter.Node) {
		switch node.Type() {
		case "lexical_declaration", "variable_declaration":
			for i := 0; i < int(node.NamedChildCount()); i++ {
				d := node.NamedChild(i)
				if d.Type() != "variable_declarator" {
					continue
				}
				name := d.ChildByFieldName("name")
				value := d.ChildByFieldName("value")
				if name != nil && value != nil && name.Type() == "identifier" {
					decls[name.Content(content)] = value
				}
			}
		case "class_declaration", "abstract_class_declaration", "function_declaration":
			if name := node.ChildByFieldName("name"); name != nil {
				decls[name.Content(content)] = node
			}
		case "export_statement":
			if d := node.ChildByFieldName("declaration"); d != nil {
				visit(d)
			}
		}
	}

	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		visit(rootNode.NamedChild(i))
	}
	return decls
}

// ExtractExports returns the exported bindings of the file. Export lists
// ("export { a as b }") are resolved against decls.
func (p *TypeScriptParser) ExtractExports(rootNode *sitter.Node, content []byte, decls map[string]*sitter.Node) []Export {
	var exports []Export

	for i := 0; i < int(rootNode.NamedChildCount()); i++ {
		node := rootNode.NamedChild(i)
		if node.Type() != "export_statement" {
			continue
		}
		line := int(node.StartPoint().Row) + 1
		isDefault := false
		for j := 0; j < int(node.ChildCount()); j++ {
			if node.Child(j).Type() == "default" {
				isDefault = true
			}
		}

		if d := node.ChildByFieldName("declaration"); d != nil {
			for _, name := range declaredNames(d, content) {
				export := Export{Name: name, Value: decls[name], Line: line}
				if isDefault {
					export.Name, export.Local = "default", name
				}
				exports = append(exports, export)
			}
			continue
		}

		if v := node.ChildByFieldName("value"); v != nil {
			export := Export{Name: "default", Value: v, Line: line}
			switch v.Type() {
			case "identifier":
				export.Local = v.Content(content)
				if resolved, ok := decls[export.Local]; ok {
					export.Value = resolved
				}
			case "class", "function", "function_expression":
				if name := v.ChildByFieldName("name"); name != nil {
					export.Local = name.Content(content)
				}
			}
			exports = append(exports, export)
			continue
		}

		p.walkNodes(node, func(n *sitter.Node) bool {
			if n.Type() != "export_specifier" {
				return true
			}
			local := n.ChildByFieldName("name")
			if local == nil {
				return false
			}
			export := Export{Name: local.Content(content), Line: line}
			if alias := n.ChildByFieldName("alias"); alias != nil {
				export.Local, export.Name = export.Name, alias.Content(content)
			}
			lookup := export.Name
			if export.Local != "" {
				lookup = export.Local
			}
			export.Value = decls[lookup]
			exports = append(exports, export)
			return false
		})
	}

	return exports
}

func declaredNames(node *sitter.Node, content []byte) []string {
	switch node.Type() {
	case "lexical_declaration", "variable_declaration":
		var names []string
		for i := 0; i < int(node.NamedChildCount()); i++ {
			d := node.NamedChild(i)
			if d.Type() != "variable_declarator" {
				continue
			}
			if name := d.ChildByFieldName("name"); name != nil && name.Type() == "identifier" {
				names = append(names, name.Content(content))
			}
		}
		return names
	default:
		if name := node.ChildByFieldName("name"); name != nil {
			return []string{name.Content(content)}
		}
	}
	return nil
}

// Export returns the export named name.
func (pf *ParsedTSFile) Export(name string) (Export, bool) {
	for _, e := range pf.Exports {
		if e.Name == name {
			return e, true
		}
	}
	return Export{}, false
}

// Resolve follows an identifier to the value of the top-level declaration
// it names. Other nodes are returned unchanged.
func (pf *ParsedTSFile) Resolve(node *sitter.Node) *sitter.Node {
	for depth := 0; node != nil && node.Type() == "identifier" && depth < 8; depth++ {
		next, ok := pf.Declarations[node.Content(pf.Content)]
		if !ok {
			return node
		}
		node = next
	}
	return node
}

// EvalLiteral statically evaluates a literal expression: objects become
// *types.OrderedMap[any], arrays []any, numbers float64 or int. Type
// assertions and parentheses are unwrapped; identifiers are resolved
// through the file's declarations. It reports false for anything that is
// not a literal.
func (pf *ParsedTSFile) EvalLiteral(node *sitter.Node) (any, bool) {
	return pf.evalLiteral(node, 0)
}

func (pf *ParsedTSFile) evalLiteral(node *sitter.Node, depth int) (any, bool) {
	if node == nil || depth > 32 {
		return nil, false
	}
	content := pf.Content

	switch node.Type() {
	case "object":
		obj := types.NewOrderedMap[any]()
		for i := 0; i < int(node.NamedChildCount()); i++ {
			pair := node.NamedChild(i)
			switch pair.Type() {
			case "pair":
				key, ok := pf.propertyKey(pair.ChildByFieldName("key"))
				if !ok {
					continue
				}
				v, ok := pf.evalLiteral(pair.ChildByFieldName("value"), depth+1)
				if !ok {
					continue
				}
				obj.Set(key, v)
			case "spread_element":
				inner, ok := pf.evalLiteral(pair.NamedChild(0), depth+1)
				if m, isObj := inner.(*types.OrderedMap[any]); ok && isObj {
					for _, k := range m.Keys() {
						v, _ := m.Get(k)
						obj.Set(k, v)
					}
				}
			case "shorthand_property_identifier":
				name := pair.Content(content)
				if decl, ok := pf.Declarations[name]; ok {
					if v, ok := pf.evalLiteral(decl, depth+1); ok {
						obj.Set(name, v)
					}
				}
			}
		}
		return obj, true
	case "array":
		arr := make([]any, 0, node.NamedChildCount())
		for i := 0; i < int(node.NamedChildCount()); i++ {
			el := node.NamedChild(i)
			if el.Type() == "comment" {
				continue
			}
			v, ok := pf.evalLiteral(el, depth+1)
			if !ok {
				return nil, false
			}
			arr = append(arr, v)
		}
		return arr, true
	case "string":
		return unquote(node.Content(content)), true
	case "template_string":
		if hasSubstitution(node) {
			return nil, false
		}
		return strings.Trim(node.Content(content), "`"), true
	case "number":
		return parseNumber(node.Content(content))
	case "true":
		return true, true
	case "false":
		return false, true
	case "null":
		return nil, true
	case "unary_expression":
		op := node.ChildByFieldName("operator")
		arg := node.ChildByFieldName("argument")
		if op == nil || arg == nil || arg.Type() != "number" {
			return nil, false
		}
		v, ok := parseNumber(arg.Content(content))
		if !ok {
			return nil, false
		}
		if op.Content(content) == "-" {
			switch n := v.(type) {
			case int:
				return -n, true
			case float64:
				return -n, true
			}
		}
		return v, true
	case "parenthesized_expression", "as_expression", "satisfies_expression", "non_null_expression":
		if node.NamedChildCount() == 0 {
			return nil, false
		}
		return pf.evalLiteral(node.NamedChild(0), depth+1)
	case "identifier":
		if node.Content(content) == "undefined" {
			return nil, false
		}
		decl, ok := pf.Declarations[node.Content(content)]
		if !ok {
			return nil, false
		}
		return pf.evalLiteral(decl, depth+1)
	}
	return nil, false
}

func (pf *ParsedTSFile) propertyKey(node *sitter.Node) (string, bool) {
	if node == nil {
		return "", false
	}
	switch node.Type() {
	case "property_identifier", "number":
		return node.Content(pf.Content), true
	case "string":
		return unquote(node.Content(pf.Content)), true
	}
	return "", false
}

func hasSubstitution(node *sitter.Node) bool {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		if node.NamedChild(i).Type() == "template_substitution" {
			return true
		}
	}
	return false
}

// unquote decodes a single or double quoted JavaScript string literal.
func unquote(text string) string {
	if len(text) < 2 {
		return text
	}
	quote := text[0]
	inner := text[1 : len(text)-1]
	if quote == '\'' {
		inner = strings.ReplaceAll(inner, `\'`, `'`)
		inner = strings.ReplaceAll(inner, `"`, `\"`)
	}
	if s, err := strconv.Unquote(`"` + inner + `"`); err == nil {
		return s
	}
	return text[1 : len(text)-1]
}

func parseNumber(text string) (any, bool) {
	text = strings.ReplaceAll(text, "_", "")
	if i, err := strconv.ParseInt(text, 0, 64); err == nil {
		return int(i), true
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil {
		return f, true
	}
	return nil, false
}

// walkNodes walks all nodes in the tree, calling fn for each node.
// If fn returns false, it stops recursing into that node's children.
func (p *TypeScriptParser) walkNodes(node *sitter.Node, fn func(*sitter.Node) bool) {
	if node == nil {
		return
	}

	if !fn(node) {
		return
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		p.walkNodes(node.Child(i), fn)
	}
}

// SupportedExtensions returns the file extensions this parser handles.
func (p *TypeScriptParser) SupportedExtensions() []string {
	return []string{".ts", ".tsx", ".js", ".mts", ".mjs"}
}

// Close cleans up parser resources.
func (p *TypeScriptParser) Close() {
	if p.parser != nil {
		p.parser.Close()
	}
}

// Close cleans up the parsed file resources.
func (pf *ParsedTSFile) Close() {
	if pf.Tree != nil {
		pf.Tree.Close()
	}
}

// FindCallExpressions finds all call_expression nodes in the AST.
func (p *TypeScriptParser) FindCallExpressions(rootNode *sitter.Node) []*sitter.Node {
	var calls []*sitter.Node

	p.walkNodes(rootNode, func(node *sitter.Node) bool {
		if node.Type() == "call_expression" {
			calls = append(calls, node)
		}
		return true
	})

	return calls
}

// GetCalleeText returns the callee text from a call_expression.
func GetCalleeText(node *sitter.Node, content []byte) string {
	if node == nil || node.Type() != "call_expression" {
		return ""
	}

	callee := node.ChildByFieldName("function")
	if callee == nil && node.ChildCount() > 0 {
		callee = node.Child(0)
	}
	if callee == nil {
		return ""
	}

	return callee.Content(content)
}

// GetCallArguments returns the argument expressions of a call_expression.
func GetCallArguments(node *sitter.Node) []*sitter.Node {
	var args []*sitter.Node

	if node == nil || node.Type() != "call_expression" {
		return args
	}

	argNode := node.ChildByFieldName("arguments")
	if argNode == nil {
		return args
	}

	for i := 0; i < int(argNode.NamedChildCount()); i++ {
		child := argNode.NamedChild(i)
		if child.Type() != "comment" {
			args = append(args, child)
		}
	}

	return args
}

// ExtractStringLiteral extracts a string value from a string node.
func ExtractStringLiteral(node *sitter.Node, content []byte) (string, bool) {
	if node == nil {
		return "", false
	}

	switch node.Type() {
	case "string":
		return unquote(node.Content(content)), true
	case "template_string":
		if hasSubstitution(node) {
			return "", false
		}
		return strings.Trim(node.Content(content), "`"), true
	}
	return "", false
}

// GetMemberExpressionParts returns the object and property of a member_expression.
func GetMemberExpressionParts(node *sitter.Node, content []byte) (object *sitter.Node, property string) {
	if node == nil || node.Type() != "member_expression" {
		return nil, ""
	}

	object = node.ChildByFieldName("object")
	if propNode := node.ChildByFieldName("property"); propNode != nil {
		property = propNode.Content(content)
	}

	return object, property
}
