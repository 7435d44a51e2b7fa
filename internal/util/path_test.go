// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/pkg/types"
)

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "0", "c"}, SplitPath("a.b[0].c"))
	assert.Equal(t, []string{"a", "b", "0", "c"}, SplitPath("a.b.0.c"))
	assert.Nil(t, SplitPath(""))
}

func TestSetCreatesIntermediateObjects(t *testing.T) {
	root := Set(nil, "user.address.city", "Paris")

	v, ok := Get(root, "user.address.city")
	require.True(t, ok)
	assert.Equal(t, "Paris", v)

	obj, ok := root.(*types.OrderedMap[any])
	require.True(t, ok)
	assert.Equal(t, []string{"user"}, obj.Keys())
}

func TestSetIntoArray(t *testing.T) {
	root := types.NewOrderedMap[any]()
	root.Set("tags", []any{"a", map[string]any{"name": "x"}})

	Set(root, "tags.1.name", "y")
	Set(root, "tags[0]", "b")

	v, _ := Get(root, "tags.1.name")
	assert.Equal(t, "y", v)
	v, _ = Get(root, "tags.0")
	assert.Equal(t, "b", v)
}

func TestSetKeepsKeyOrder(t *testing.T) {
	root := types.NewOrderedMap[any]()
	root.Set("a", 1)
	root.Set("b", 2)

	Set(root, "a", 3)

	assert.Equal(t, []string{"a", "b"}, root.Keys())
	v, _ := root.Get("a")
	assert.Equal(t, 3, v)
}

func TestHasAndUnset(t *testing.T) {
	root := Set(nil, "a.b", 1)
	root = Set(root, "a.c", 2)

	assert.True(t, Has(root, "a.b"))
	assert.False(t, Has(root, "a.x"))
	assert.False(t, Has(root, "a.b.c"))

	assert.True(t, Unset(root, "a.b"))
	assert.False(t, Has(root, "a.b"))
	assert.True(t, Has(root, "a.c"))
	assert.False(t, Unset(root, "a.b"))
	assert.False(t, Unset(root, "missing.path"))
}

func TestGetPlainMaps(t *testing.T) {
	root := map[string]any{"items": []any{map[string]any{"id": 7}}}

	v, ok := Get(root, "items.0.id")
	require.True(t, ok)
	assert.Equal(t, 7, v)

	_, ok = Get(root, "items.3.id")
	assert.False(t, ok)
}
