// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apisynth/apisynth/internal/config"
	"github.com/apisynth/apisynth/internal/project"
	"github.com/apisynth/apisynth/internal/schema"
	"github.com/apisynth/apisynth/pkg/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Path = t.TempDir()
	cfg.AppPath = filepath.Join(cfg.Path, "app")
	return cfg
}

func ref(methods []string, pattern, reference string, middleware ...string) types.RouteRecord {
	return types.RouteRecord{
		Methods:    methods,
		Pattern:    pattern,
		Middleware: middleware,
		Handler:    types.Handler{Reference: reference},
	}
}

func compile(t *testing.T, cfg *config.Config, routes []types.RouteRecord, opts ...CompilerOption) (*types.OpenAPI, *Compiler) {
	t.Helper()
	registry := schema.NewRegistry()
	registry.Merge(schema.Builtins(), schema.SourceBuiltin)
	c := NewCompiler(cfg, registry, opts...)
	return c.Compile(routes), c
}

func operation(t *testing.T, doc *types.OpenAPI, path, method string) *types.Operation {
	t.Helper()
	item, ok := doc.Paths.Get(path)
	require.True(t, ok, "missing path %s", path)
	op := item.Operations()[method]
	require.NotNil(t, op, "missing %s %s", method, path)
	return op
}

func responseKeys(op *types.Operation) []string {
	keys := make([]string, 0, len(op.Responses))
	for k := range op.Responses {
		keys = append(keys, k)
	}
	return keys
}

func TestExtractRouteInfo(t *testing.T) {
	tests := []struct {
		name     string
		pattern  string
		tagIndex int
		want     string
		tags     []string
		params   map[string]bool
	}{
		{"required param", "/users/:id", 1, "/users/{id}", []string{"USERS"}, map[string]bool{"id": true}},
		{"optional param", "/users/:id?", 1, "/users/{id}", []string{"USERS"}, map[string]bool{"id": false}},
		{"nested params", "/users/:userId/posts/:id", 3, "/users/{userId}/posts/{id}", []string{"POSTS"}, map[string]bool{"userId": true, "id": true}},
		{"root", "/", 1, "/", nil, map[string]bool{}},
		{"tag index past end", "/health", 3, "/health", nil, map[string]bool{}},
		{"trailing slash", "/users/", 1, "/users", []string{"USERS"}, map[string]bool{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := ExtractRouteInfo(tt.pattern, tt.tagIndex)
			assert.Equal(t, tt.want, info.Pattern)
			assert.Equal(t, tt.tags, info.Tags)
			require.Equal(t, len(tt.params), info.Parameters.Len())
			for name, required := range tt.params {
				p, ok := info.Parameters.Get(name)
				require.True(t, ok)
				assert.Equal(t, "path", p.In)
				assert.Equal(t, required, p.Required)
				assert.Equal(t, "string", p.Schema.Type)
			}
		})
	}
}

func TestIsIgnored(t *testing.T) {
	ignore := []string{"/health", "/admin/*", "*/internal"}
	tests := []struct {
		pattern string
		want    bool
	}{
		{"/health", true},
		{"/healthz", false},
		{"/admin/users", true},
		{"/admin", false},
		{"/jobs/internal", true},
		{"/internal/jobs", false},
		{"/users", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			assert.Equal(t, tt.want, IsIgnored(tt.pattern, ignore))
		})
	}
	assert.False(t, IsIgnored("/health", nil))
}

func TestCompiler_DefaultResponses(t *testing.T) {
	cfg := testConfig(t)
	doc, _ := compile(t, cfg, []types.RouteRecord{
		ref([]string{"GET"}, "/users", "#controllers/users_controller.index"),
		ref([]string{"POST"}, "/users", "#controllers/users_controller.store"),
		ref([]string{"DELETE"}, "/users/:id", "#controllers/users_controller.destroy"),
		ref([]string{"PUT"}, "/users/:id", "#controllers/users_controller.update"),
	})

	assert.Equal(t, Version, doc.OpenAPI)
	assert.Equal(t, []string{"/users", "/users/{id}"}, doc.Paths.Keys())

	get := operation(t, doc, "/users", "get")
	assert.Equal(t, []string{"200"}, responseKeys(get))
	assert.Equal(t, "OK", get.Responses["200"].Description)
	assert.Contains(t, get.Responses["200"].Content, "application/json")
	assert.Equal(t, "Get a list of users", get.Summary)
	assert.Equal(t, "controllersUsersControllerIndex", get.OperationID)
	assert.Nil(t, get.RequestBody)
	assert.Empty(t, get.Security)

	post := operation(t, doc, "/users", "post")
	assert.Equal(t, []string{"201"}, responseKeys(post))
	assert.Equal(t, "Create users", post.Summary)
	require.NotNil(t, post.RequestBody)
	assert.Contains(t, post.RequestBody.Content, "application/json")

	del := operation(t, doc, "/users/{id}", "delete")
	assert.Equal(t, []string{"202"}, responseKeys(del))
	assert.Nil(t, del.RequestBody)
	require.Len(t, del.Parameters, 1)
	assert.Equal(t, "id", del.Parameters[0].Name)

	put := operation(t, doc, "/users/{id}", "put")
	assert.Equal(t, []string{"204"}, responseKeys(put))
	assert.Equal(t, "Update users", put.Summary)

	assert.Equal(t, []types.Tag{{Name: "USERS", Description: "Everything related to USERS"}}, doc.Tags)
}

func TestCompiler_Security(t *testing.T) {
	t.Run("built-in auth middleware", func(t *testing.T) {
		cfg := testConfig(t)
		doc, _ := compile(t, cfg, []types.RouteRecord{
			ref([]string{"GET"}, "/me", "#controllers/profile_controller.show", "auth"),
		})

		op := operation(t, doc, "/me", "get")
		assert.ElementsMatch(t, []string{"200", "401", "403"}, responseKeys(op))
		assert.Equal(t, "Returns **401** (Unauthorized)", op.Responses["401"].Description)
		assert.Equal(t, "Returns **403** (Forbidden)", op.Responses["403"].Description)
		assert.Equal(t, []map[string][]string{{"BearerAuth": {"access"}}}, op.Security)
	})

	t.Run("configured middleware and scheme", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.AuthMiddlewares = []string{"auth:web"}
		cfg.DefaultSecurityScheme = "ApiKeyAuth"
		doc, _ := compile(t, cfg, []types.RouteRecord{
			ref([]string{"GET"}, "/me", "#controllers/profile_controller.show", "throttle", "auth:web"),
			ref([]string{"GET"}, "/public", "#controllers/public_controller.show", "throttle"),
		})

		assert.Equal(t, []map[string][]string{{"ApiKeyAuth": {"access"}}}, operation(t, doc, "/me", "get").Security)
		assert.Empty(t, operation(t, doc, "/public", "get").Security)
	})
}

func TestCompiler_MethodFiltering(t *testing.T) {
	routes := []types.RouteRecord{
		ref([]string{"PUT", "PATCH"}, "/users/:id", "#controllers/users_controller.update"),
		ref([]string{"GET", "HEAD"}, "/users", "#controllers/users_controller.index"),
		ref([]string{"HEAD"}, "/ping", "#controllers/health_controller.ping"),
	}

	t.Run("prefers PUT", func(t *testing.T) {
		doc, _ := compile(t, testConfig(t), routes)

		item, _ := doc.Paths.Get("/users/{id}")
		assert.NotNil(t, item.Put)
		assert.Nil(t, item.Patch)

		users, _ := doc.Paths.Get("/users")
		assert.NotNil(t, users.Get)
		assert.Nil(t, users.Head)

		assert.False(t, doc.Paths.Has("/ping"))
	})

	t.Run("prefers PATCH", func(t *testing.T) {
		cfg := testConfig(t)
		cfg.PreferredPutPatch = "PATCH"
		doc, _ := compile(t, cfg, routes)

		item, _ := doc.Paths.Get("/users/{id}")
		assert.Nil(t, item.Put)
		require.NotNil(t, item.Patch)
		assert.Contains(t, item.Patch.Responses, "204")
	})
}

func TestCompiler_Ignore(t *testing.T) {
	cfg := testConfig(t)
	cfg.Ignore = []string{"/health", "/admin/*"}
	doc, _ := compile(t, cfg, []types.RouteRecord{
		ref([]string{"GET"}, "/health", "#controllers/health_controller.show"),
		ref([]string{"GET"}, "/admin/users", "#controllers/admin_controller.index"),
		ref([]string{"GET"}, "/posts", "#controllers/posts_controller.index"),
	})

	assert.Equal(t, []string{"/posts"}, doc.Paths.Keys())
	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "POSTS", doc.Tags[0].Name)
}

func TestCompiler_Annotations(t *testing.T) {
	cfg := testConfig(t)
	controller := `
import type { HttpContext } from '@adonisjs/core/http'

export default class UsersController {
  /**
   * @show
   * @summary Fetch a user
   * @description Loads one user
   * @tag accounts
   * @operationId getUser
   * @paramQuery include - Relations to load
   * @responseBody 200 - {"id": 1, "name": "John"} - The user
   * @responseBody 404 - {"message": "Not found"} - Missing user
   */
  @inject()
  async show({ params }: HttpContext) {}

  /**
   * @store
   * @description Registers a user
   * @requestBody {"name": "John"}
   */
  async store() {}
}
`
	dir := filepath.Join(cfg.Path, "app", "controllers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users_controller.ts"), []byte(controller), 0o644))

	doc, c := compile(t, cfg, []types.RouteRecord{
		ref([]string{"GET"}, "/users/:id", "#controllers/users_controller.show"),
		ref([]string{"POST"}, "/users", "#controllers/users_controller.store"),
		ref([]string{"GET"}, "/users", "#controllers/users_controller.index"),
	}, WithPaths(project.Paths{"#controllers": "app/controllers"}))
	assert.Empty(t, c.Diagnostics())

	show := operation(t, doc, "/users/{id}", "get")
	assert.Equal(t, "Fetch a user", show.Summary)
	assert.Equal(t, "The user", show.Description)
	assert.Equal(t, "getUser", show.OperationID)
	assert.Equal(t, []string{"ACCOUNTS"}, show.Tags)
	assert.ElementsMatch(t, []string{"200", "404"}, responseKeys(show))
	assert.Equal(t, "Missing user", show.Responses["404"].Description)

	require.Len(t, show.Parameters, 2)
	assert.Equal(t, "id", show.Parameters[0].Name)
	assert.Equal(t, "path", show.Parameters[0].In)
	assert.Equal(t, "include", show.Parameters[1].Name)
	assert.Equal(t, "query", show.Parameters[1].In)

	store := operation(t, doc, "/users", "post")
	assert.Equal(t, "Create users", store.Summary)
	assert.Equal(t, "Registers a user", store.Description)
	assert.Equal(t, []string{"201"}, responseKeys(store))
	require.NotNil(t, store.RequestBody)
	assert.NotNil(t, store.RequestBody.Content["application/json"].Example)

	index := operation(t, doc, "/users", "get")
	assert.Equal(t, "Get a list of users", index.Summary)

	names := make([]string, 0, len(doc.Tags))
	for _, tag := range doc.Tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"USERS", "ACCOUNTS"}, names)
}

func TestBackfillFromResponse(t *testing.T) {
	tests := []struct {
		name        string
		op          types.Operation
		resp        types.Response
		code        string
		summary     string
		description string
	}{
		{
			name:        "summary fills empty",
			resp:        types.Response{Summary: "Fetch", Description: "The user"},
			code:        "200",
			summary:     "Fetch",
			description: "The user",
		},
		{
			name:        "summary kept",
			op:          types.Operation{Summary: "Mine"},
			resp:        types.Response{Summary: "Fetch"},
			code:        "200",
			summary:     "Mine",
		},
		{
			name:        "description overwritten",
			op:          types.Operation{Description: "Operation level"},
			resp:        types.Response{Description: "Response level"},
			code:        "200",
			description: "Response level",
		},
		{
			name:        "empty response description kept out",
			op:          types.Operation{Description: "Operation level"},
			code:        "200",
			description: "Operation level",
		},
		{
			name:        "other status ignored",
			op:          types.Operation{Description: "Operation level"},
			resp:        types.Response{Summary: "Fetch", Description: "Response level"},
			code:        "201",
			description: "Operation level",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			op := tt.op
			resp := tt.resp
			op.Responses = map[string]*types.Response{"200": &resp}

			backfillFromResponse(&op, tt.code)
			assert.Equal(t, tt.summary, op.Summary)
			assert.Equal(t, tt.description, op.Description)
			if tt.code == "200" {
				assert.Empty(t, resp.Summary)
			}
		})
	}
}

func TestCompiler_TagPruning(t *testing.T) {
	cfg := testConfig(t)
	controller := `
export default class ReportsController {
  /**
   * @index
   * @tag analytics
   */
  async index() {}
}
`
	dir := filepath.Join(cfg.Path, "app", "controllers")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "reports_controller.ts"), []byte(controller), 0o644))

	doc, _ := compile(t, cfg, []types.RouteRecord{
		ref([]string{"GET"}, "/reports", "reports_controller.index"),
	})

	require.Len(t, doc.Tags, 1)
	assert.Equal(t, "ANALYTICS", doc.Tags[0].Name)
	assert.Equal(t, "Get a list of analytics", operation(t, doc, "/reports", "get").Summary)
}

func TestCompiler_FileNameInSummary(t *testing.T) {
	cfg := testConfig(t)
	cfg.FileNameInSummary = true
	doc, _ := compile(t, cfg, []types.RouteRecord{
		ref([]string{"GET"}, "/users", "users_controller.index"),
	})

	op := operation(t, doc, "/users", "get")
	assert.Equal(t, "Get a list of users (index)", op.Summary)
	assert.Contains(t, op.Description, "users_controller.ts_ - **index**")
}

func TestCompiler_ResolveHandler(t *testing.T) {
	cfg := config.Default()
	c := NewCompiler(cfg, schema.NewRegistry(), WithPaths(project.Paths{"#controllers": "app/controllers"}))

	tests := []struct {
		name    string
		handler types.Handler
		want    handlerSource
	}{
		{
			name:    "aliased reference",
			handler: types.Handler{Reference: "#controllers/users_controller.index"},
			want:    handlerSource{File: "app/controllers/users_controller.ts", Action: "index"},
		},
		{
			name:    "plain reference",
			handler: types.Handler{Reference: "users_controller.show"},
			want:    handlerSource{File: "app/controllers/users_controller.ts", Action: "show"},
		},
		{
			name:    "aliased module",
			handler: types.Handler{Module: "#controllers/posts_controller", Method: "store"},
			want:    handlerSource{File: "app/controllers/posts_controller.ts", Action: "store"},
		},
		{
			name:    "module with js extension",
			handler: types.Handler{Module: "controllers/posts_controller.js", Method: "store"},
			want:    handlerSource{File: "app/controllers/posts_controller.ts", Action: "store"},
		},
		{
			name:    "legacy namespace",
			handler: types.Handler{Namespace: "App/Controllers/Http/UsersController", Method: "index"},
			want:    handlerSource{File: "app/Controllers/Http/UsersController.ts", Action: "index"},
		},
		{
			name:    "legacy closure",
			handler: types.Handler{Namespace: "App/Controllers/Http/UsersController", Method: "handle"},
			want:    handlerSource{},
		},
		{
			name:    "reference without action",
			handler: types.Handler{Reference: "#controllers/users_controller"},
			want:    handlerSource{},
		},
		{
			name: "empty",
			want: handlerSource{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.resolveHandler(tt.handler))
		})
	}
}

func TestCompiler_Components(t *testing.T) {
	cfg := testConfig(t)
	cfg.SecuritySchemes = map[string]types.SecurityScheme{
		"BearerAuth": {Type: "http", Scheme: "bearer", BearerFormat: "JWT"},
		"OAuth":      {Type: "openIdConnect", OpenIDConnectURL: "https://example.com/.well-known/openid-configuration"},
	}
	doc, _ := compile(t, cfg, nil)

	require.NotNil(t, doc.Components)
	assert.Len(t, doc.Components.Responses, 5)
	assert.Equal(t, "Access token is missing or invalid", doc.Components.Responses["Forbidden"].Description)
	assert.Equal(t, "JWT", doc.Components.SecuritySchemes["BearerAuth"].BearerFormat)
	assert.Equal(t, "X-API-Key", doc.Components.SecuritySchemes["ApiKeyAuth"].Name)
	assert.Contains(t, doc.Components.SecuritySchemes, "BasicAuth")
	assert.Contains(t, doc.Components.SecuritySchemes, "OAuth")
	assert.True(t, doc.Components.Schemas.Has(types.AnySchema))
	assert.Equal(t, "API", doc.Info.Title)
	assert.Empty(t, doc.Tags)
	assert.Equal(t, 0, doc.Paths.Len())
}

func TestCompiler_DocumentValidates(t *testing.T) {
	cfg := testConfig(t)
	doc, _ := compile(t, cfg, []types.RouteRecord{
		ref([]string{"GET"}, "/users", "#controllers/users_controller.index", "auth"),
		ref([]string{"POST"}, "/users", "#controllers/users_controller.store", "auth"),
		ref([]string{"GET"}, "/users/:id", "#controllers/users_controller.show"),
		ref([]string{"PUT", "PATCH"}, "/users/:id", "#controllers/users_controller.update"),
	})

	require.NoError(t, Validate(context.Background(), doc))
}
