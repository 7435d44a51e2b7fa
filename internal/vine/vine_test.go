// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package vine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/internal/example"
	"github.com/apisynth/apisynth/internal/parser"
	"github.com/apisynth/apisynth/internal/schema"
	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

const userValidators = `
import vine from '@vinejs/vine'

const roles = ['admin', 'editor']

const address = vine.object({
  city: vine.string(),
  zip: vine.string().fixedLength(5).optional(),
})

export const createUserValidator = vine.compile(
  vine.object({
    name: vine.string().trim().minLength(3).maxLength(80),
    email: vine.string().email(),
    age: vine.number().min(18).max(130),
    role: vine.enum(roles),
    active: vine.boolean(),
    birthday: vine.date(),
    tags: vine.array(vine.string()),
    address,
    website: vine.string().url().nullable(),
  })
)

export const updateUserValidator = vine.create({
  nickname: vine.string().optional(),
})

export const notAValidator = { nickname: 'x' }
`

func load(t *testing.T, source string) []*Validator {
	t.Helper()
	p := parser.NewTypeScriptParser()
	t.Cleanup(p.Close)

	pf, err := p.ParseSource("user.ts", source)
	require.NoError(t, err)
	t.Cleanup(pf.Close)

	validators, diags := Load(pf)
	require.Empty(t, diags)
	return validators
}

func fieldByName(n *schema.ValidatorNode, name string) *schema.ValidatorNode {
	for _, p := range n.Properties {
		if p.FieldName == name {
			return p
		}
	}
	return nil
}

func TestLoad(t *testing.T) {
	validators := load(t, userValidators)
	require.Len(t, validators, 2)
	assert.Equal(t, "createUserValidator", validators[0].Name)
	assert.Equal(t, "updateUserValidator", validators[1].Name)

	desc := validators[0].Describe()
	require.NotNil(t, desc.Schema)
	assert.Equal(t, "object", desc.Schema.Type)

	names := make([]string, 0, len(desc.Schema.Properties))
	for _, p := range desc.Schema.Properties {
		names = append(names, p.FieldName)
	}
	assert.Equal(t, []string{"name", "email", "age", "role", "active", "birthday", "tags", "address", "website"}, names)

	name := fieldByName(desc.Schema, "name")
	assert.Equal(t, "literal", name.Type)
	assert.Equal(t, "string", name.Subtype)
	require.Len(t, name.Validations, 2)
	minLen := desc.Refs[name.Validations[0].RuleFnID]
	assert.Equal(t, "minLength", minLen.Rule)
	require.NotNil(t, minLen.Min)
	assert.Equal(t, 3.0, *minLen.Min)

	role := fieldByName(desc.Schema, "role")
	assert.Equal(t, "enum", role.Subtype)
	assert.Equal(t, []any{"admin", "editor"}, desc.Refs[role.Validations[0].RuleFnID].Choices)

	tags := fieldByName(desc.Schema, "tags")
	assert.Equal(t, "array", tags.Type)
	require.NotNil(t, tags.Each)
	assert.Equal(t, "string", tags.Each.Subtype)

	address := fieldByName(desc.Schema, "address")
	assert.Equal(t, "object", address.Type)
	zip := fieldByName(address, "zip")
	require.NotNil(t, zip)
	assert.True(t, zip.IsOptional)

	assert.True(t, fieldByName(desc.Schema, "website").AllowNull)
	assert.True(t, fieldByName(validators[1].Describe().Schema, "nickname").IsOptional)
}

func TestLoad_Diagnostics(t *testing.T) {
	p := parser.NewTypeScriptParser()
	defer p.Close()

	pf, err := p.ParseSource("bad.ts", `
export const broken = vine.compile(vine.mystery())
export const empty = vine.compile()
export const scalar = vine.compile(vine.string())
`)
	require.NoError(t, err)
	defer pf.Close()

	validators, diags := Load(pf)
	assert.Empty(t, validators)
	require.Len(t, diags, 3)
	for _, d := range diags {
		assert.Equal(t, types.SeverityWarning, d.Severity)
		assert.Equal(t, "bad.ts", d.Source)
	}
}

func TestValidator_TryValidate(t *testing.T) {
	v := load(t, userValidators)[0]

	valid := func() *types.OrderedMap[any] {
		addr := types.NewOrderedMap[any]()
		addr.Set("city", "Paris")
		m := types.NewOrderedMap[any]()
		m.Set("name", "John Doe")
		m.Set("email", "john@example.com")
		m.Set("age", 42)
		m.Set("role", "admin")
		m.Set("active", true)
		m.Set("birthday", "2021-03-23")
		m.Set("tags", []any{"a", "b"})
		m.Set("address", addr)
		m.Set("website", nil)
		return m
	}

	assert.Empty(t, v.TryValidate(valid(), nil))

	tests := []struct {
		name  string
		path  string
		value any
		rule  string
	}{
		{"too short", "name", "Jo", "minLength"},
		{"not a string", "name", 12, "string"},
		{"bad email", "email", "not-an-email", "email"},
		{"email type first", "email", 1, "string"},
		{"below min", "age", 10, "min"},
		{"numeric string accepted", "age", "42", ""},
		{"unknown role", "role", "root", "enum"},
		{"strict boolean", "active", 1, "boolean"},
		{"bad date", "birthday", 1, "date"},
		{"array element", "tags.1", 3, "string"},
		{"not an array", "tags", "a", "array"},
		{"nested", "address.city", 5, "string"},
		{"nested optional fixed length", "address.zip", "123", "fixedLength"},
		{"bad url", "website", "nope", "url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := util.Set(valid(), tt.path, tt.value)
			msgs := v.TryValidate(payload, nil)
			if tt.rule == "" {
				assert.Empty(t, msgs)
				return
			}
			require.Len(t, msgs, 1)
			assert.Equal(t, tt.path, msgs[0].Field)
			assert.Equal(t, tt.rule, msgs[0].Rule)
			assert.Contains(t, msgs[0].Message, tt.rule)
		})
	}
}

func TestValidator_TryValidate_Required(t *testing.T) {
	v := load(t, userValidators)[0]

	msgs := v.TryValidate(types.NewOrderedMap[any](), schema.ProbeMessages)

	fields := make([]string, 0, len(msgs))
	for _, m := range msgs {
		assert.Equal(t, "required", m.Rule)
		assert.Equal(t, schema.MessageRequired, m.Message)
		fields = append(fields, m.Field)
	}
	assert.Equal(t, []string{"name", "email", "age", "role", "active", "birthday", "tags", "address", "website"}, fields)

	assert.Empty(t, load(t, userValidators)[1].TryValidate(nil, nil))
}

func TestValidatorToSchema_WithVine(t *testing.T) {
	v := load(t, userValidators)[0]

	s := schema.ValidatorToSchema(v)

	tests := []struct {
		field   string
		typ     string
		format  string
		example any
	}{
		{"name", "string", "", example.Text},
		{"email", "string", "", example.Text},
		{"age", "number", "", 18},
		{"role", "string", "", "admin"},
		{"active", "boolean", "", true},
		{"birthday", "string", "date", example.Date},
		{"website", "string", "", example.Text},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			p := s.Property(tt.field)
			require.NotNil(t, p)
			assert.Equal(t, tt.typ, p.Type)
			assert.Equal(t, tt.format, p.Format)
			assert.Equal(t, tt.example, p.Example)
		})
	}

	name := s.Property("name")
	require.NotNil(t, name.MinLength)
	assert.Equal(t, 3, *name.MinLength)
	assert.Equal(t, 80, *name.MaxLength)

	assert.Equal(t, "string", s.Property("tags").Items.Type)
	assert.Equal(t, "string", s.Property("address").Property("city").Type)
	assert.Equal(t, []string{"city"}, s.Property("address").Required)

	// the corrected payload passes validation apart from format rules the
	// single probe pass never reached
	msgs := v.TryValidate(s.Example, nil)
	rules := make([]string, 0, len(msgs))
	for _, m := range msgs {
		rules = append(rules, m.Field+":"+m.Rule)
	}
	assert.ElementsMatch(t, []string{"email:email", "website:url", "address.zip:fixedLength"}, rules)
}
