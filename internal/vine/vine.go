// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package vine reads VineJS validator declarations from TypeScript sources
// and evaluates payloads against them without running JavaScript.
package vine

import (
	"fmt"
	"strconv"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/apisynth/apisynth/internal/parser"
	"github.com/apisynth/apisynth/internal/schema"
	"github.com/apisynth/apisynth/pkg/types"
)

// Validator is a compiled VineJS validator. It implements schema.Validator.
type Validator struct {
	// Name is the exported name of the validator
	Name string

	desc schema.ValidatorDescription
}

// Describe returns the structural description of the validator.
func (v *Validator) Describe() schema.ValidatorDescription {
	return v.desc
}

// Load returns the validators exported by a parsed file: every export
// whose value is a vine.compile(...) or vine.create(...) call. Exports that
// cannot be interpreted produce a warning and are skipped.
func Load(pf *parser.ParsedTSFile) ([]*Validator, []types.Diagnostic) {
	var validators []*Validator
	var diags []types.Diagnostic

	for _, exp := range pf.Exports {
		value := pf.Resolve(exp.Value)
		if !isCompileCall(value, pf.Content) {
			continue
		}
		args := parser.GetCallArguments(value)
		if len(args) == 0 {
			diags = append(diags, types.Warningf(pf.Path, "validator %s has no schema", exp.Name))
			continue
		}

		b := &builder{pf: pf, refs: make(map[string]schema.RuleOptions)}
		root, err := b.node(args[0])
		if err != nil {
			diags = append(diags, types.Warningf(pf.Path, "validator %s: %v", exp.Name, err))
			continue
		}
		if root.Type != "object" {
			diags = append(diags, types.Warningf(pf.Path, "validator %s: schema is not an object", exp.Name))
			continue
		}

		validators = append(validators, &Validator{
			Name: exp.Name,
			desc: schema.ValidatorDescription{Schema: root, Refs: b.refs},
		})
	}

	return validators, diags
}

func isCompileCall(node *sitter.Node, content []byte) bool {
	switch parser.GetCalleeText(node, content) {
	case "vine.compile", "vine.create":
		return true
	}
	return false
}

// builder converts schema expressions into validator nodes and collects
// the options of every rule under a ref id.
type builder struct {
	pf   *parser.ParsedTSFile
	refs map[string]schema.RuleOptions
	next int
}

type chainCall struct {
	name string
	args []*sitter.Node
}

// node converts one schema expression: a vine.<type>(...) call followed by
// modifier and rule calls, or an object literal of field schemas.
func (b *builder) node(expr *sitter.Node) (*schema.ValidatorNode, error) {
	expr = b.pf.Resolve(expr)
	if expr == nil {
		return nil, fmt.Errorf("empty schema expression")
	}
	if expr.Type() == "object" {
		return b.object(expr)
	}

	base, chain, err := b.unwind(expr)
	if err != nil {
		return nil, err
	}

	n, err := b.base(base)
	if err != nil {
		return nil, err
	}
	for _, c := range chain {
		b.modifier(n, c)
	}
	return n, nil
}

// unwind splits vine.a(x).b(y).c() into the base call a(x) and the chain [b(y), c()].
func (b *builder) unwind(expr *sitter.Node) (chainCall, []chainCall, error) {
	content := b.pf.Content
	if expr.Type() != "call_expression" {
		return chainCall{}, nil, fmt.Errorf("unsupported schema expression %q", expr.Content(content))
	}

	object, property := parser.GetMemberExpressionParts(expr.ChildByFieldName("function"), content)
	if object == nil {
		return chainCall{}, nil, fmt.Errorf("unsupported schema expression %q", expr.Content(content))
	}
	call := chainCall{name: property, args: parser.GetCallArguments(expr)}

	if object.Type() == "identifier" && object.Content(content) == "vine" {
		return call, nil, nil
	}

	base, chain, err := b.unwind(b.pf.Resolve(object))
	if err != nil {
		return chainCall{}, nil, err
	}
	return base, append(chain, call), nil
}

func (b *builder) base(c chainCall) (*schema.ValidatorNode, error) {
	switch c.name {
	case "string", "number", "boolean", "date", "any":
		return literal(c.name), nil
	case "accepted":
		n := literal("boolean")
		n.Validations = append(n.Validations, b.rule(schema.RuleOptions{Rule: "accepted"}))
		return n, nil
	case "literal":
		n := literal("enum")
		if len(c.args) > 0 {
			if v, ok := b.pf.EvalLiteral(c.args[0]); ok {
				n.Validations = append(n.Validations, b.rule(schema.RuleOptions{Rule: "enum", Choices: []any{v}}))
			}
		}
		return n, nil
	case "enum":
		n := literal("enum")
		if len(c.args) > 0 {
			if choices := b.choices(c.args[0]); len(choices) > 0 {
				n.Validations = append(n.Validations, b.rule(schema.RuleOptions{Rule: "enum", Choices: choices}))
				return n, nil
			}
		}
		n.Subtype = "any"
		return n, nil
	case "object":
		if len(c.args) == 0 {
			return &schema.ValidatorNode{Type: "object", Validations: []schema.ValidatorRule{}}, nil
		}
		return b.object(b.pf.Resolve(c.args[0]))
	case "array", "tuple":
		n := &schema.ValidatorNode{Type: "array", Validations: []schema.ValidatorRule{}}
		if len(c.args) == 0 {
			return n, nil
		}
		each := c.args[0]
		if c.name == "tuple" {
			arr := b.pf.Resolve(each)
			if arr.Type() != "array" || arr.NamedChildCount() == 0 {
				return n, nil
			}
			each = arr.NamedChild(0)
		}
		item, err := b.node(each)
		if err != nil {
			return nil, err
		}
		n.Each = item
		return n, nil
	case "record":
		return &schema.ValidatorNode{Type: "object", Validations: []schema.ValidatorRule{}}, nil
	case "union", "unionOfTypes", "file", "nativeFile":
		return literal("any"), nil
	}
	return nil, fmt.Errorf("unsupported schema type vine.%s", c.name)
}

// object converts an object literal whose values are field schemas.
func (b *builder) object(obj *sitter.Node) (*schema.ValidatorNode, error) {
	if obj == nil || obj.Type() != "object" {
		return nil, fmt.Errorf("object schema expects an object literal")
	}
	n := &schema.ValidatorNode{Type: "object", Validations: []schema.ValidatorRule{}}
	content := b.pf.Content

	for i := 0; i < int(obj.NamedChildCount()); i++ {
		member := obj.NamedChild(i)
		switch member.Type() {
		case "pair":
			key := member.ChildByFieldName("key")
			name, ok := parser.ExtractStringLiteral(key, content)
			if !ok && key != nil && key.Type() == "property_identifier" {
				name, ok = key.Content(content), true
			}
			if !ok {
				continue
			}
			field, err := b.node(member.ChildByFieldName("value"))
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			field.FieldName = name
			n.Properties = append(n.Properties, field)
		case "spread_element":
			spread, err := b.object(b.pf.Resolve(member.NamedChild(0)))
			if err != nil {
				return nil, err
			}
			n.Properties = append(n.Properties, spread.Properties...)
		case "shorthand_property_identifier":
			name := member.Content(content)
			decl, ok := b.pf.Declarations[name]
			if !ok {
				continue
			}
			field, err := b.node(decl)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", name, err)
			}
			field.FieldName = name
			n.Properties = append(n.Properties, field)
		}
	}
	return n, nil
}

// modifier applies one chained call to n.
func (b *builder) modifier(n *schema.ValidatorNode, c chainCall) {
	switch c.name {
	case "optional":
		n.IsOptional = true
	case "nullable":
		n.AllowNull = true
	case "minLength", "maxLength", "min", "max":
		opts := schema.RuleOptions{Rule: c.name}
		if v, ok := b.number(c.args, 0); ok {
			if c.name == "minLength" || c.name == "min" {
				opts.Min = &v
			} else {
				opts.Max = &v
			}
		}
		n.Validations = append(n.Validations, b.rule(opts))
	case "fixedLength":
		opts := schema.RuleOptions{Rule: c.name}
		if v, ok := b.number(c.args, 0); ok {
			lo, hi := v, v
			opts.Min, opts.Max = &lo, &hi
		}
		n.Validations = append(n.Validations, b.rule(opts))
	case "range":
		opts := schema.RuleOptions{Rule: c.name}
		if len(c.args) > 0 {
			if bounds, ok := b.pf.EvalLiteral(c.args[0]); ok {
				if arr, ok := bounds.([]any); ok && len(arr) == 2 {
					if lo, ok := toFloat(arr[0]); ok {
						opts.Min = &lo
					}
					if hi, ok := toFloat(arr[1]); ok {
						opts.Max = &hi
					}
				}
			}
		}
		n.Validations = append(n.Validations, b.rule(opts))
	case "in", "notIn":
		opts := schema.RuleOptions{Rule: c.name}
		if len(c.args) > 0 {
			opts.Choices = b.choices(c.args[0])
		}
		n.Validations = append(n.Validations, b.rule(opts))
	case "regex":
		opts := schema.RuleOptions{Rule: c.name}
		if len(c.args) > 0 {
			opts.Pattern = regexPattern(b.pf.Resolve(c.args[0]), b.pf.Content)
		}
		n.Validations = append(n.Validations, b.rule(opts))
	case "trim", "toLowerCase", "toUpperCase", "toCamelCase", "escape", "normalizeEmail",
		"normalizeUrl", "transform", "parse", "clone", "allowUnknownProperties", "bail", "compact":
	default:
		n.Validations = append(n.Validations, b.rule(schema.RuleOptions{Rule: c.name}))
	}
}

// rule registers opts under the next ref id.
func (b *builder) rule(opts schema.RuleOptions) schema.ValidatorRule {
	b.next++
	id := "ref://" + strconv.Itoa(b.next)
	b.refs[id] = opts
	return schema.ValidatorRule{RuleFnID: id}
}

func (b *builder) number(args []*sitter.Node, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	v, ok := b.pf.EvalLiteral(args[i])
	if !ok {
		return 0, false
	}
	return toFloat(v)
}

// choices evaluates an array literal of choices. Object literals (TS enum
// shaped constants) contribute their values.
func (b *builder) choices(node *sitter.Node) []any {
	v, ok := b.pf.EvalLiteral(node)
	if !ok {
		return nil
	}
	switch c := v.(type) {
	case []any:
		return c
	case *types.OrderedMap[any]:
		out := make([]any, 0, c.Len())
		for _, k := range c.Keys() {
			val, _ := c.Get(k)
			out = append(out, val)
		}
		return out
	}
	return nil
}

func literal(subtype string) *schema.ValidatorNode {
	return &schema.ValidatorNode{Type: "literal", Subtype: subtype, Validations: []schema.ValidatorRule{}}
}

// regexPattern returns the source of a regex literal or new RegExp('...') call.
func regexPattern(node *sitter.Node, content []byte) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "regex":
		if p := node.ChildByFieldName("pattern"); p != nil {
			return p.Content(content)
		}
	case "new_expression":
		args := node.ChildByFieldName("arguments")
		if args != nil && args.NamedChildCount() > 0 {
			if s, ok := parser.ExtractStringLiteral(args.NamedChild(0), content); ok {
				return s
			}
		}
	}
	return ""
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	}
	return 0, false
}
