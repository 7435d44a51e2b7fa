// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/internal/example"
	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

// scriptedValidator reports a fixed set of (field, rule) failures, using
// the caller's message overrides, and records the probe payload.
type scriptedValidator struct {
	desc     ValidatorDescription
	failures [][2]string
	payload  any
}

func (v *scriptedValidator) Describe() ValidatorDescription { return v.desc }

func (v *scriptedValidator) TryValidate(payload any, messages map[string]string) []ValidationMessage {
	v.payload = payload
	out := make([]ValidationMessage, 0, len(v.failures))
	for _, f := range v.failures {
		out = append(out, ValidationMessage{Field: f[0], Rule: f[1], Message: messages[f[1]]})
	}
	return out
}

func literal(name string, rules ...string) *ValidatorNode {
	n := &ValidatorNode{Type: "literal", FieldName: name}
	for _, r := range rules {
		n.Validations = append(n.Validations, ValidatorRule{RuleFnID: r})
	}
	return n
}

func objectOf(fields ...*ValidatorNode) *ValidatorNode {
	return &ValidatorNode{Type: "object", Properties: fields}
}

func float(f float64) *float64 { return &f }

func TestValidatorToSchema_NoFailures(t *testing.T) {
	v := &scriptedValidator{desc: ValidatorDescription{Schema: objectOf(literal("age"))}}

	s := ValidatorToSchema(v)

	age := s.Property("age")
	require.NotNil(t, age)
	assert.Equal(t, "number", age.Type)
	assert.Equal(t, []string{"age"}, s.Required)
	assert.Equal(t, v.payload, s.Example)

	got, ok := util.Get(s.Example, "age")
	require.True(t, ok)
	assert.Equal(t, 1, got)
}

func TestValidatorToSchema_TypeCorrection(t *testing.T) {
	v := &scriptedValidator{
		desc: ValidatorDescription{
			Schema: objectOf(literal("title", "ref://1")),
			Refs:   map[string]RuleOptions{"ref://1": {Rule: "minLength", Min: float(3), Max: float(80)}},
		},
		failures: [][2]string{{"title", "string"}},
	}

	s := ValidatorToSchema(v)

	title := s.Property("title")
	require.NotNil(t, title)
	assert.Equal(t, "string", title.Type)
	assert.Equal(t, example.Text, title.Example)
	require.NotNil(t, title.MinLength)
	require.NotNil(t, title.MaxLength)
	assert.Equal(t, 3, *title.MinLength)
	assert.Equal(t, 80, *title.MaxLength)
	assert.Nil(t, title.Minimum)
	assert.Nil(t, title.Maximum)

	got, _ := util.Get(s.Example, "title")
	assert.Equal(t, example.Text, got)
}

func TestValidatorToSchema_FormatCorrection(t *testing.T) {
	v := &scriptedValidator{
		desc:     ValidatorDescription{Schema: objectOf(literal("birthday"))},
		failures: [][2]string{{"birthday", "date"}},
	}

	s := ValidatorToSchema(v)

	birthday := s.Property("birthday")
	require.NotNil(t, birthday)
	assert.Equal(t, "string", birthday.Type)
	assert.Equal(t, "date", birthday.Format)
	assert.Equal(t, example.Date, birthday.Example)
}

func TestValidatorToSchema_NestedPaths(t *testing.T) {
	address := objectOf(literal("city"))
	address.FieldName = "address"
	tags := &ValidatorNode{Type: "array", FieldName: "tags", Each: literal("")}
	nickname := literal("nickname")
	nickname.IsOptional = true

	v := &scriptedValidator{
		desc: ValidatorDescription{Schema: objectOf(address, tags, nickname)},
		failures: [][2]string{
			{"address.city", "string"},
			{"tags.0", "string"},
			{"missing.path", "string"},
		},
	}

	s := ValidatorToSchema(v)

	assert.Equal(t, []string{"address", "tags"}, s.Required)
	assert.Equal(t, "string", s.Property("address").Property("city").Type)
	assert.Equal(t, "array", s.Property("tags").Type)
	assert.Equal(t, "string", s.Property("tags").Items.Type)

	tagsEx, _ := util.Get(s.Example, "tags")
	assert.Equal(t, []any{example.Text}, tagsEx)
	city, _ := util.Get(s.Example, "address.city")
	assert.Equal(t, example.Text, city)
	assert.False(t, util.Has(s.Example, "missing"))
}

func TestValidatorToSchema_Choices(t *testing.T) {
	v := &scriptedValidator{
		desc: ValidatorDescription{
			Schema: objectOf(literal("role", "ref://0")),
			Refs:   map[string]RuleOptions{"ref://0": {Rule: "enum", Choices: []any{"admin", "user"}}},
		},
	}

	s := ValidatorToSchema(v)

	role := s.Property("role")
	assert.Equal(t, "string", role.Type)
	assert.Equal(t, []any{"admin", "user"}, role.Enum)
	assert.Equal(t, "admin", role.Example)
}

func TestValidatorToSchema_MinimumSeedsExample(t *testing.T) {
	v := &scriptedValidator{
		desc: ValidatorDescription{
			Schema: objectOf(literal("quantity", "ref://2")),
			Refs:   map[string]RuleOptions{"ref://2": {Rule: "range", Min: float(5), Max: float(10)}},
		},
	}

	s := ValidatorToSchema(v)

	q := s.Property("quantity")
	assert.Equal(t, 5, q.Example)
	assert.Equal(t, 5.0, *q.Minimum)
	assert.Equal(t, 10.0, *q.Maximum)
}

// An email field fails its type check first; the format rule behind it is
// never reported in the single probe pass.
func TestValidatorToSchema_SinglePass(t *testing.T) {
	v := &scriptedValidator{
		desc:     ValidatorDescription{Schema: objectOf(literal("email", "ref://3"))},
		failures: [][2]string{{"email", "string"}},
	}

	s := ValidatorToSchema(v)

	email := s.Property("email")
	assert.Equal(t, "string", email.Type)
	assert.Empty(t, email.Format)
}

func TestValidatorToSchema_EmptyDescription(t *testing.T) {
	s := ValidatorToSchema(&scriptedValidator{})

	assert.Equal(t, "object", s.Type)
	assert.Equal(t, 0, s.Properties.Len())
	_, ok := s.Example.(*types.OrderedMap[any])
	assert.True(t, ok)
}
