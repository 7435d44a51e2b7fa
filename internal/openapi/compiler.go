// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

// Package openapi compiles route tables and schema registries into OpenAPI
// documents and writes them out.
package openapi

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/apisynth/apisynth/internal/annotation"
	"github.com/apisynth/apisynth/internal/config"
	"github.com/apisynth/apisynth/internal/parser"
	"github.com/apisynth/apisynth/internal/project"
	"github.com/apisynth/apisynth/internal/scanner"
	"github.com/apisynth/apisynth/internal/schema"
	"github.com/apisynth/apisynth/internal/util"
	"github.com/apisynth/apisynth/pkg/types"
)

// Version is the OpenAPI version of generated documents.
const Version = "3.0.0"

// responseCodes maps a method to the status of its synthesized response.
var responseCodes = map[string]string{
	"GET":    "200",
	"POST":   "201",
	"DELETE": "202",
	"PUT":    "204",
	"PATCH":  "204",
}

// actionSummaries maps conventional controller actions to summary prefixes.
var actionSummaries = map[string]string{
	"index":   "Get a list of",
	"show":    "Get a single instance of",
	"update":  "Update",
	"destroy": "Delete",
	"store":   "Create",
	"create":  "Create (Frontend)",
	"edit":    "Update (Frontend)",
}

// Compiler turns route records into an OpenAPI document. A Compiler
// belongs to one generation run.
type Compiler struct {
	config      *config.Config
	registry    *schema.Registry
	paths       project.Paths
	annotations *annotation.Parser
	ts          *parser.TypeScriptParser
	cache       *scanner.FileCache
	logger      Logger

	blocks map[string]map[string]*annotation.Block
	diags  []types.Diagnostic
}

// CompilerOption configures a Compiler.
type CompilerOption func(*Compiler)

// WithPaths sets the package.json import aliases used to resolve handlers.
func WithPaths(paths project.Paths) CompilerOption {
	return func(c *Compiler) { c.paths = paths }
}

// WithFileCache sets the run's file cache.
func WithFileCache(cache *scanner.FileCache) CompilerOption {
	return func(c *Compiler) { c.cache = cache }
}

// WithLogger sets the logger receiving resolution tracing.
func WithLogger(logger Logger) CompilerOption {
	return func(c *Compiler) { c.logger = logger }
}

// NewCompiler creates a compiler resolving references against registry.
// The registry must be fully populated.
func NewCompiler(cfg *config.Config, registry *schema.Registry, opts ...CompilerOption) *Compiler {
	c := &Compiler{
		config:   cfg,
		registry: registry,
		logger:   NopLogger{},
		blocks:   make(map[string]map[string]*annotation.Block),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.cache == nil {
		c.cache = scanner.NewFileCache()
	}
	c.annotations = annotation.NewParser(registry, annotation.Options{
		CommonHeaders:    cfg.Common.Headers,
		CommonParameters: cfg.Common.Parameters,
	})
	return c
}

// Diagnostics returns the problems found while compiling.
func (c *Compiler) Diagnostics() []types.Diagnostic {
	return c.diags
}

// handlerSource is a route handler resolved to a controller file.
type handlerSource struct {
	File   string
	Action string
}

// Compile builds the document for routes, processed in table order.
func (c *Compiler) Compile(routes []types.RouteRecord) *types.OpenAPI {
	if c.ts == nil {
		c.ts = parser.NewTypeScriptParser()
		defer func() {
			c.ts.Close()
			c.ts = nil
		}()
	}

	doc := &types.OpenAPI{
		OpenAPI: Version,
		Info: types.Info{
			Title:       c.config.Info.Title,
			Description: c.config.Info.Description,
			Version:     c.config.Info.Version,
		},
		Components: &types.Components{
			Responses:       ResponseTemplates(),
			SecuritySchemes: SecuritySchemes(c.config.SecuritySchemes),
			Schemas:         c.registry.Ordered(),
		},
		Paths: types.NewOrderedMap[*types.PathItem](),
	}

	tags := newTagSet()
	for _, route := range routes {
		if IsIgnored(route.Pattern, c.config.Ignore) {
			c.logger.Debug("route ignored", "pattern", route.Pattern)
			continue
		}
		c.compileRoute(doc, tags, route)
	}

	doc.Tags = tags.used(doc.Paths)
	return doc
}

func (c *Compiler) compileRoute(doc *types.OpenAPI, tags *tagSet, route types.RouteRecord) {
	info := ExtractRouteInfo(route.Pattern, c.config.TagIndex)
	for _, tag := range info.Tags {
		tags.add(tag)
	}

	security := c.security(route.Middleware)
	src := c.resolveHandler(route.Handler)
	block := c.block(src, route)

	for _, method := range route.Methods {
		method = strings.ToUpper(method)
		if method == http.MethodHead {
			continue
		}
		if route.HasMethod(http.MethodPut) && route.HasMethod(http.MethodPatch) &&
			(method == http.MethodPut || method == http.MethodPatch) &&
			method != c.config.PreferredPutPatch {
			continue
		}
		item, ok := doc.Paths.Get(info.Pattern)
		if !ok {
			item = &types.PathItem{}
		}
		op := c.operation(method, info, security, src, block, route, tags)
		if !item.SetOperation(method, op) {
			c.diags = append(c.diags, types.Warningf(route.Pattern, "unsupported HTTP method %s", method))
			continue
		}
		doc.Paths.Set(info.Pattern, item)
	}
}

func (c *Compiler) operation(method string, info RouteInfo, security []map[string][]string, src handlerSource, block *annotation.Block, route types.RouteRecord, tags *tagSet) *types.Operation {
	op := &types.Operation{
		Tags:      append([]string(nil), info.Tags...),
		Responses: make(map[string]*types.Response),
		Security:  security,
	}
	if handler := route.Handler.String(); handler != "" {
		op.OperationID = util.FormatOperationID(handler)
	}

	if len(security) > 0 {
		op.Responses["401"] = &types.Response{Description: statusDescription(http.StatusUnauthorized)}
		op.Responses["403"] = &types.Response{Description: statusDescription(http.StatusForbidden)}
	}

	params := info.Parameters.Clone()
	var requestBody *types.RequestBody
	if block != nil {
		op.Summary = block.Summary
		op.Description = block.Description
		if block.OperationID != "" {
			op.OperationID = block.OperationID
		}
		for _, status := range block.Responses.Keys() {
			resp, _ := block.Responses.Get(status)
			copied := *resp
			op.Responses[status] = &copied
		}
		for _, name := range block.Parameters.Keys() {
			p, _ := block.Parameters.Get(name)
			params.Set(name, p)
		}
		requestBody = block.RequestBody
		if block.Tag != "" {
			tag := strings.ToUpper(block.Tag)
			tags.add(tag)
			op.Tags = []string{tag}
		}
	}
	for _, name := range params.Keys() {
		p, _ := params.Get(name)
		op.Parameters = append(op.Parameters, p)
	}

	code := responseCode(method)
	if block == nil || block.Responses.Len() == 0 {
		op.Responses[code] = &types.Response{
			Description: statusText(code),
			Content:     map[string]types.MediaType{annotation.MediaJSON: {}},
		}
	} else {
		backfillFromResponse(op, code)
	}

	if src.Action != "" && op.Summary == "" {
		if prefix, ok := actionSummaries[src.Action]; ok {
			primary := ""
			if len(op.Tags) > 0 {
				primary = strings.ToLower(op.Tags[0])
			}
			op.Summary = prefix + " " + primary
		}
	}

	if c.config.FileNameInSummary && src.Action != "" {
		op.Summary = strings.TrimSpace(fmt.Sprintf("%s (%s)", op.Summary, src.Action))
		op.Description = fmt.Sprintf("%s\n\n _%s_ - **%s**", op.Description, src.File, src.Action)
	}

	if method != http.MethodGet && method != http.MethodDelete {
		if requestBody == nil {
			requestBody = &types.RequestBody{Content: map[string]types.MediaType{annotation.MediaJSON: {}}}
		}
		op.RequestBody = requestBody
	}

	return op
}

// security returns the requirement shared by all auth middlewares when
// any of the route's middleware requires authentication.
func (c *Compiler) security(middleware []string) []map[string][]string {
	scheme := c.config.DefaultSecurityScheme
	if scheme == "" {
		scheme = "BearerAuth"
	}
	auth := append([]string{"auth", "auth:api"}, c.config.AuthMiddlewares...)
	for _, m := range middleware {
		for _, a := range auth {
			if m == a {
				return []map[string][]string{{scheme: {"access"}}}
			}
		}
	}
	return nil
}

// resolveHandler locates the controller file and action of a handler.
func (c *Compiler) resolveHandler(h types.Handler) handlerSource {
	var src handlerSource
	switch {
	case h.Reference != "":
		file, action, _ := strings.Cut(h.Reference, ".")
		src = handlerSource{File: c.aliased(file, c.appDir()+"/controllers"), Action: action}
	case h.Module != "" && h.Method != "":
		src = handlerSource{File: c.aliased(h.Module, c.appDir()), Action: h.Method}
	case h.Namespace != "" && h.Method != "" && h.Method != "handle":
		src = handlerSource{File: h.Namespace, Action: h.Method}
	default:
		return handlerSource{}
	}
	if src.File == "" || src.Action == "" {
		return handlerSource{}
	}

	file := strings.Replace(src.File, "App/", "app/", 1)
	file = strings.Replace(file, ".js", "", 1)
	src.File = strings.TrimSuffix(file, ".ts") + ".ts"
	return src
}

// appDir returns the app path relative to the project root. Handler files
// are kept root-relative.
func (c *Compiler) appDir() string {
	rel, err := filepath.Rel(c.config.Path, c.config.AppPath)
	if err != nil {
		return filepath.ToSlash(c.config.AppPath)
	}
	return filepath.ToSlash(rel)
}

// aliased expands an import alias prefix ("#controllers/users") or places
// a plain module below base.
func (c *Compiler) aliased(module, base string) string {
	if strings.HasPrefix(module, "#") {
		resolved, ok := c.paths.Resolve(module)
		if !ok {
			c.logger.Debug("unknown import alias", "module", module)
		}
		return resolved
	}
	return base + "/" + module
}

// block returns the annotation block of a handler, parsing each source
// file once per run.
func (c *Compiler) block(src handlerSource, route types.RouteRecord) *annotation.Block {
	if src.File == "" {
		return nil
	}

	path := src.File
	if !filepath.IsAbs(path) {
		path = filepath.Join(c.config.Path, path)
	}

	blocks, ok := c.blocks[path]
	if !ok {
		content, err := c.cache.Read(path)
		if err != nil {
			if !os.IsNotExist(err) {
				c.diags = append(c.diags, types.Warningf(path, "failed to read annotations: %v", err))
			}
			blocks = map[string]*annotation.Block{}
		} else {
			var diags []types.Diagnostic
			blocks, diags = c.annotations.Blocks(c.ts, path, content)
			c.diags = append(c.diags, diags...)
		}
		c.blocks[path] = blocks
	}

	block := blocks[src.Action]
	method := ""
	if len(route.Methods) > 0 {
		method = strings.ToUpper(route.Methods[0])
	}
	if block != nil {
		c.logger.Debug("annotations found", "action", src.Action, "file", src.File, "route", method+" "+route.Pattern)
	} else {
		c.logger.Debug("annotations missing", "action", src.Action, "file", src.File, "route", method+" "+route.Pattern)
	}
	return block
}

func responseCode(method string) string {
	if code, ok := responseCodes[method]; ok {
		return code
	}
	return "200"
}

func statusDescription(code int) string {
	return fmt.Sprintf("Returns **%d** (%s)", code, http.StatusText(code))
}

func statusText(code string) string {
	n, err := strconv.Atoi(code)
	if err != nil {
		return ""
	}
	return http.StatusText(n)
}

// ResponseTemplates returns the reusable component responses.
func ResponseTemplates() map[string]types.Response {
	return map[string]types.Response{
		"Forbidden":     {Description: "Access token is missing or invalid"},
		"Accepted":      {Description: "The request was accepted"},
		"Created":       {Description: "The resource has been created"},
		"NotFound":      {Description: "The resource was not found"},
		"NotAcceptable": {Description: "The request is not acceptable"},
	}
}

// SecuritySchemes returns the built-in security schemes with overrides
// applied.
func SecuritySchemes(overrides map[string]types.SecurityScheme) map[string]types.SecurityScheme {
	schemes := map[string]types.SecurityScheme{
		"BearerAuth": {Type: "http", Scheme: "bearer"},
		"BasicAuth":  {Type: "http", Scheme: "basic"},
		"ApiKeyAuth": {Type: "apiKey", In: "header", Name: "X-API-Key"},
	}
	for name, scheme := range overrides {
		schemes[name] = scheme
	}
	return schemes
}

// tagSet accumulates tags in first-seen order.
type tagSet struct {
	tags []types.Tag
	seen map[string]bool
}

func newTagSet() *tagSet {
	return &tagSet{seen: make(map[string]bool)}
}

func (s *tagSet) add(name string) {
	if name == "" || s.seen[name] {
		return
	}
	s.seen[name] = true
	s.tags = append(s.tags, types.Tag{Name: name, Description: "Everything related to " + name})
}

// used returns the tags referenced by at least one operation.
func (s *tagSet) used(paths *types.OrderedMap[*types.PathItem]) []types.Tag {
	referenced := make(map[string]bool)
	for _, p := range paths.Keys() {
		item, _ := paths.Get(p)
		for _, op := range item.Operations() {
			for _, t := range op.Tags {
				referenced[t] = true
			}
		}
	}
	out := make([]types.Tag, 0, len(s.tags))
	for _, t := range s.tags {
		if referenced[t.Name] {
			out = append(out, t)
		}
	}
	return out
}

// backfillFromResponse copies the summary and description of the response
// for code onto op. An existing summary is kept; the description is not.
func backfillFromResponse(op *types.Operation, code string) {
	resp, ok := op.Responses[code]
	if !ok {
		return
	}
	if resp.Summary != "" {
		if op.Summary == "" {
			op.Summary = resp.Summary
		}
		resp.Summary = ""
	}
	if resp.Description != "" {
		op.Description = resp.Description
	}
}
