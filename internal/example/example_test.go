// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package example

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestByType(t *testing.T) {
	tests := []struct {
		typ  string
		want any
	}{
		{"string", Text},
		{"Number", 1},
		{"integer", 1},
		{"float", 1.5},
		{"boolean", true},
		{"date", Date},
		{"date-time", DateTime},
		{"DateTime", DateTime},
		{"email", Email},
		{"uuid", UUID},
		{"url", URL},
		{"unknown", nil},
		{"", nil},
	}
	for _, tt := range tests {
		t.Run(tt.typ, func(t *testing.T) {
			assert.Equal(t, tt.want, ByType(tt.typ))
		})
	}

	assert.NotNil(t, ByType("object"))
	assert.Equal(t, []any{}, ByType("array"))
}

func TestByField(t *testing.T) {
	tests := []struct {
		field string
		want  any
	}{
		{"id", 1},
		{"email", Email},
		{"fullName", "John Doe"},
		{"first_name", "John"},
		{"userId", 1},
		{"isActive", true},
		{"hasChildren", true},
		{"createdAt", DateTime},
		{"published_on", Date},
		{"avatarUrl", URL},
		{"contactEmail", Email},
		{"city", "New York"},
		{"somethingElse", Text},
	}
	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, ByField(tt.field))
		})
	}
}

func TestByValidatorRule(t *testing.T) {
	assert.Equal(t, Email, ByValidatorRule("email"))
	assert.Equal(t, URL, ByValidatorRule("url"))
	assert.Equal(t, Date, ByValidatorRule("date"))
	assert.Equal(t, IP, ByValidatorRule("ipAddress"))
	assert.Equal(t, "#ff0000", ByValidatorRule("hexCode"))
	assert.Nil(t, ByValidatorRule("minLength"))
}

func TestForProperty(t *testing.T) {
	assert.Equal(t, Email, ForProperty("contact", "string", "email"))
	assert.Equal(t, "John Doe", ForProperty("name", "string", ""))
	assert.Equal(t, "John Doe", ForProperty("name", "", ""))
	assert.Equal(t, 1, ForProperty("score", "number", ""))
	assert.Equal(t, true, ForProperty("flag", "boolean", ""))
	assert.Equal(t, DateTime, ForProperty("createdAt", "Widget", ""))
	assert.Equal(t, Text, ForProperty("blob", "string", "binary"))
}

func TestUUID_Stable(t *testing.T) {
	id, err := uuid.Parse(UUID)
	assert.NoError(t, err)
	assert.Equal(t, uuid.Version(5), id.Version())
}
