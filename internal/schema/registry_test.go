// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/pkg/types"
)

func TestRegistry_AddMissingAndGet(t *testing.T) {
	reg := NewRegistry()

	added := reg.AddMissing("User", &types.Schema{Type: "object", Title: "User"}, SourceModel)
	require.True(t, added)

	got, ok := reg.Get("User")
	require.True(t, ok)
	assert.Equal(t, "User", got.Title)
	assert.True(t, reg.IsModel("User"))
}

func TestRegistry_FirstWriteWins(t *testing.T) {
	reg := NewRegistry()

	reg.AddMissing("User", &types.Schema{Description: "User (Interface)"}, SourceInterface)
	added := reg.AddMissing("User", &types.Schema{Description: "User (Model)"}, SourceModel)

	assert.False(t, added)
	got, _ := reg.Get("User")
	assert.Equal(t, "User (Interface)", got.Description)
	assert.False(t, reg.IsModel("User"))

	src, ok := reg.SourceOf("User")
	require.True(t, ok)
	assert.Equal(t, SourceInterface, src)
}

func TestRegistry_GetNonExistent(t *testing.T) {
	reg := NewRegistry()

	got, ok := reg.Get("NonExistent")
	assert.False(t, ok)
	assert.Nil(t, got)
	assert.False(t, reg.Has("NonExistent"))
}

func TestRegistry_NamesKeepRegistrationOrder(t *testing.T) {
	reg := NewRegistry()

	reg.AddMissing("Zebra", &types.Schema{}, SourceInterface)
	reg.AddMissing("Alpha", &types.Schema{}, SourceModel)
	reg.AddMissing("Beta", &types.Schema{}, SourceEnum)

	assert.Equal(t, []string{"Zebra", "Alpha", "Beta"}, reg.Names())
	assert.Equal(t, []string{"Zebra", "Alpha", "Beta"}, reg.Ordered().Keys())
	assert.Equal(t, 3, reg.Count())
	assert.Len(t, reg.All(), 3)
}

func TestRegistry_MergeReportsDropped(t *testing.T) {
	reg := NewRegistry()
	reg.AddMissing("Role", &types.Schema{Type: "string"}, SourceInterface)

	contribution := types.NewOrderedMap[*types.Schema]()
	contribution.Set("Role", &types.Schema{Type: "object"})
	contribution.Set("Post", &types.Schema{Type: "object"})

	dropped := reg.Merge(contribution, SourceModel)

	assert.Equal(t, []string{"Role"}, dropped)
	role, _ := reg.Get("Role")
	assert.Equal(t, "string", role.Type)
	assert.True(t, reg.Has("Post"))
}

func TestSource_String(t *testing.T) {
	assert.Equal(t, "validator", SourceValidator.String())
	assert.Equal(t, "unknown", Source(42).String())
}
