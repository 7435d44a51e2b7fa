// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"math"
	"strconv"

	"github.com/apisynth/apisynth/internal/example"
	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

// Probe message texts. Validation messages carrying one of them drive the
// schema corrections in ValidatorToSchema.
const (
	MessageRequired = "REQUIRED"
	MessageType     = "TYPE"
	MessageFormat   = "FORMAT"
)

// ProbeMessages overrides validator messages per rule while probing.
var ProbeMessages = map[string]string{
	"required":     MessageRequired,
	"string":       MessageType,
	"object":       MessageType,
	"number":       MessageType,
	"boolean":      MessageType,
	"email":        MessageFormat,
	"url":          MessageFormat,
	"uuid":         MessageFormat,
	"date":         MessageFormat,
	"ipAddress":    MessageFormat,
	"mobile":       MessageFormat,
	"creditCard":   MessageFormat,
	"hexCode":      MessageFormat,
	"jwt":          MessageFormat,
	"alpha":        MessageFormat,
	"alphaNumeric": MessageFormat,
}

// ValidatorNode is one field of a validator's structural description.
type ValidatorNode struct {
	// Type is "object", "array" or "literal"
	Type string `json:"type"`

	// Subtype refines literals: string, number, boolean, date, enum or any
	Subtype string `json:"subtype,omitempty"`

	FieldName   string           `json:"fieldName,omitempty"`
	IsOptional  bool             `json:"isOptional"`
	AllowNull   bool             `json:"allowNull"`
	Properties  []*ValidatorNode `json:"properties,omitempty"`
	Each        *ValidatorNode   `json:"each,omitempty"`
	Validations []ValidatorRule  `json:"validations"`
}

// ValidatorRule references an entry of the rule options table.
type ValidatorRule struct {
	RuleFnID string `json:"ruleFnId"`
	IsAsync  bool   `json:"isAsync,omitempty"`
}

// RuleOptions are the options a rule was declared with.
type RuleOptions struct {
	Rule    string   `json:"rule"`
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Choices []any    `json:"choices,omitempty"`
	Pattern string   `json:"pattern,omitempty"`
}

// ValidatorDescription is the structural description of a validator: its
// field tree plus the table of rule options keyed by rule reference.
type ValidatorDescription struct {
	Schema *ValidatorNode         `json:"schema"`
	Refs   map[string]RuleOptions `json:"refs"`
}

// ValidationMessage is one validation failure.
type ValidationMessage struct {
	// Field is the dot path of the failing value, array indices included ("tags.0")
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Validator is an introspectable validation schema.
type Validator interface {
	// Describe returns the structural description of the field tree.
	Describe() ValidatorDescription

	// TryValidate validates payload and returns the failures, using
	// messages to override the message text per rule.
	TryValidate(payload any, messages map[string]string) []ValidationMessage
}

// ValidatorToSchema converts a validator into an object schema. A static
// guess types every leaf as a number; a probe payload built from that guess
// is validated once and each TYPE or FORMAT failure corrects the schema at
// the failing path. Corrections are not re-validated, so failures hidden
// behind an earlier failing rule of the same field are not discovered.
func ValidatorToSchema(v Validator) *types.Schema {
	desc := v.Describe()
	root := types.NewObject()
	if desc.Schema != nil {
		deriveObject(root, desc.Schema.Properties, desc.Refs)
	}

	payload := probePayload(root)
	for _, m := range v.TryValidate(payload, ProbeMessages) {
		target := schemaAtPath(root, m.Field)
		if target == nil {
			continue
		}
		switch m.Message {
		case MessageType:
			ex := example.ByType(m.Rule)
			target.Type = m.Rule
			target.Example = ex
			if m.Rule == "string" {
				boundsToLength(target)
			}
			payload = util.Set(payload, m.Field, ex)
		case MessageFormat:
			ex := example.ByValidatorRule(m.Rule)
			target.Type = "string"
			target.Format = m.Rule
			target.Example = ex
			boundsToLength(target)
			payload = util.Set(payload, m.Field, ex)
		}
	}

	root.Example = payload
	return root
}

func deriveObject(obj *types.Schema, fields []*ValidatorNode, refs map[string]RuleOptions) {
	for _, f := range fields {
		if f == nil || f.FieldName == "" {
			continue
		}
		obj.Properties.Set(f.FieldName, deriveField(f, refs))
		if !f.IsOptional {
			obj.AddRequired(f.FieldName)
		}
	}
}

func deriveField(f *ValidatorNode, refs map[string]RuleOptions) *types.Schema {
	switch f.Type {
	case "object":
		s := types.NewObject()
		deriveObject(s, f.Properties, refs)
		return s
	case "array":
		if f.Each == nil {
			return types.ArrayOf(leafGuess(nil, refs))
		}
		return types.ArrayOf(deriveField(f.Each, refs))
	default:
		return leafGuess(f, refs)
	}
}

// leafGuess is the static guess for a leaf: a number bounded by the rule
// options, or a string enum when the rules carry choices.
func leafGuess(f *ValidatorNode, refs map[string]RuleOptions) *types.Schema {
	s := &types.Schema{Type: "number"}
	if f != nil {
		for _, rule := range f.Validations {
			opts, ok := refs[rule.RuleFnID]
			if !ok {
				continue
			}
			if opts.Min != nil {
				v := *opts.Min
				s.Minimum = &v
			}
			if opts.Max != nil {
				v := *opts.Max
				s.Maximum = &v
			}
			if len(opts.Choices) > 0 {
				s.Enum = append([]any(nil), opts.Choices...)
			}
			if opts.Pattern != "" {
				s.Pattern = opts.Pattern
			}
		}
	}

	switch {
	case len(s.Enum) > 0:
		s.Type = "string"
		s.Example = s.Enum[0]
	case s.Minimum != nil:
		s.Example = numberExample(*s.Minimum)
	default:
		s.Example = example.ByType("number")
	}
	return s
}

func numberExample(f float64) any {
	if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
		return int(f)
	}
	return f
}

// probePayload builds the test payload from the current schema guess.
func probePayload(s *types.Schema) any {
	switch s.Kind() {
	case types.KindObject:
		out := types.NewOrderedMap[any]()
		for _, key := range s.Properties.Keys() {
			p, _ := s.Properties.Get(key)
			out.Set(key, probePayload(p))
		}
		return out
	case types.KindArray:
		return []any{probePayload(s.Items)}
	default:
		return s.Example
	}
}

// schemaAtPath maps a validation field path onto the schema tree:
// "a.b.0.c" addresses properties.a.properties.b.items.properties.c.
func schemaAtPath(root *types.Schema, field string) *types.Schema {
	cur := root
	for _, seg := range util.SplitPath(field) {
		if cur == nil {
			return nil
		}
		if _, err := strconv.Atoi(seg); err == nil && cur.Kind() == types.KindArray {
			cur = cur.Items
			continue
		}
		cur = cur.Property(seg)
	}
	return cur
}

// boundsToLength renames numeric bounds to string length bounds.
func boundsToLength(s *types.Schema) {
	if s.Minimum != nil {
		v := int(*s.Minimum)
		s.MinLength = &v
		s.Minimum = nil
	}
	if s.Maximum != nil {
		v := int(*s.Maximum)
		s.MaxLength = &v
		s.Maximum = nil
	}
}
