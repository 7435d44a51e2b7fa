// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/pkg/types"
)

func TestBuiltins(t *testing.T) {
	out := Builtins()
	assert.Equal(t, []string{types.AnySchema, types.PaginationMetaSchema}, out.Keys())

	meta, ok := out.Get(types.PaginationMetaSchema)
	require.True(t, ok)
	assert.Equal(t, "object", meta.Type)
	assert.Equal(t, meta.Properties.Keys(), meta.Required)

	prev, _ := meta.Properties.Get("previousPageUrl")
	require.NotNil(t, prev)
	assert.True(t, prev.Nullable)
}

func TestBuiltins_WinOverDeclarations(t *testing.T) {
	reg := NewRegistry()
	reg.Merge(Builtins(), SourceBuiltin)

	dropped := reg.Merge(ParseInterfaces("interface Any {\n  x: string\n}", reg), SourceInterface)
	assert.Equal(t, []string{types.AnySchema}, dropped)

	catchAll, _ := reg.Get(types.AnySchema)
	assert.Nil(t, catchAll.Properties)
}
