// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package schema

import "github.com/apisynth/apisynth/pkg/types"

// Builtins returns the schemas registered ahead of every category: the
// catch-all Any schema and the pagination metadata of paginated responses.
func Builtins() *types.OrderedMap[*types.Schema] {
	out := types.NewOrderedMap[*types.Schema]()
	out.Set(types.AnySchema, &types.Schema{Description: "Any JSON object not defined as schema"})
	out.Set(types.PaginationMetaSchema, paginationMeta())
	return out
}

func paginationMeta() *types.Schema {
	s := types.NewObject()
	s.Description = "Paginated response metadata"
	s.Properties.Set("total", &types.Schema{Type: "number", Example: 100})
	s.Properties.Set("perPage", &types.Schema{Type: "number", Example: 2})
	s.Properties.Set("currentPage", &types.Schema{Type: "number", Example: 1})
	s.Properties.Set("lastPage", &types.Schema{Type: "number", Example: 50})
	s.Properties.Set("firstPage", &types.Schema{Type: "number", Example: 1})
	s.Properties.Set("firstPageUrl", &types.Schema{Type: "string", Example: "/?page=1"})
	s.Properties.Set("lastPageUrl", &types.Schema{Type: "string", Example: "/?page=50"})
	s.Properties.Set("nextPageUrl", &types.Schema{Type: "string", Example: "/?page=2"})
	s.Properties.Set("previousPageUrl", &types.Schema{Type: "string", Nullable: true, Example: "/?page=1"})
	for _, key := range s.Properties.Keys() {
		s.AddRequired(key)
	}
	return s
}
