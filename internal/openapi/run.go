// SPDX-FileCopyrightText: 2026 apisynth
// SPDX-License-Identifier: FSL-1.1-MIT

package openapi

import (
	"context"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/apisynth/apisynth/internal/config"
	"github.com/apisynth/apisynth/internal/parser"
	"github.com/apisynth/apisynth/internal/project"
	"github.com/apisynth/apisynth/internal/scanner"
	"github.com/apisynth/apisynth/internal/schema"
	"github.com/apisynth/apisynth/internal/vine"
	"github.com/apisynth/apisynth/pkg/types"
)

// Run is one generation invocation. It owns the schema registry and the
// file cache; neither outlives it.
type Run struct {
	config   *config.Config
	logger   Logger
	cache    *scanner.FileCache
	paths    project.Paths
	registry *schema.Registry
	diags    []types.Diagnostic
}

// NewRun creates a run for cfg. A nil logger discards tracing.
func NewRun(cfg *config.Config, logger Logger) *Run {
	if logger == nil {
		logger = NopLogger{}
	}
	return &Run{
		config:   cfg,
		logger:   logger,
		cache:    scanner.NewFileCache(),
		paths:    project.Paths{},
		registry: schema.NewRegistry(),
	}
}

// Registry returns the run's schema registry.
func (r *Run) Registry() *schema.Registry {
	return r.registry
}

// Diagnostics returns the problems collected so far.
func (r *Run) Diagnostics() []types.Diagnostic {
	return r.diags
}

// Generate loads the project's declarations and compiles routes into a
// document. Only context cancellation fails a run; every other problem is
// reported as a diagnostic.
func (r *Run) Generate(ctx context.Context, routes []types.RouteRecord) (*types.OpenAPI, error) {
	paths, err := project.LoadPaths(r.config.Path)
	if err != nil {
		r.diags = append(r.diags, types.Warningf("package.json", "%v", err))
	}
	r.paths = paths
	if r.config.Debug {
		r.logger.Debug("custom paths", "aliases", r.paths.Aliases())
	}

	if err := r.LoadSchemas(ctx); err != nil {
		return nil, err
	}

	compiler := NewCompiler(r.config, r.registry,
		WithPaths(r.paths),
		WithFileCache(r.cache),
		WithLogger(r.tracer()),
	)
	doc := compiler.Compile(routes)
	r.diags = append(r.diags, compiler.Diagnostics()...)
	return doc, nil
}

// tracer returns the logger used for resolution tracing, silent unless
// debug is enabled.
func (r *Run) tracer() Logger {
	if r.config.Debug {
		return r.logger
	}
	return NopLogger{}
}

// contribution is the output of one category loader.
type contribution struct {
	schemas *types.OrderedMap[*types.Schema]
	diags   []types.Diagnostic
}

type categoryLoader struct {
	category scanner.Category
	source   schema.Source
	load     func(ctx context.Context, files []scanner.SourceFile) contribution
}

// LoadSchemas populates the registry. Categories are discovered
// concurrently and merged in precedence order: built-ins, interfaces,
// serializers, models, validators, enums. Interfaces are resolved last so
// their extends lists can reach every other category.
func (r *Run) LoadSchemas(ctx context.Context) error {
	layout := scanner.Layout{
		Root:    r.config.Path,
		AppPath: r.config.AppPath,
		Paths:   r.paths,
	}

	loaders := []categoryLoader{
		{scanner.Serializers, schema.SourceSerializer, r.loadSerializers},
		{scanner.Models, schema.SourceModel, r.loadModels},
		{scanner.Validators, schema.SourceValidator, r.loadValidators},
		{scanner.Enums, schema.SourceEnum, r.loadEnums},
	}
	results := make([]contribution, len(loaders))
	var interfaceFiles []scanner.SourceFile
	var interfaceDiags []types.Diagnostic

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		files, err := layout.Scan(scanner.Interfaces, r.cache)
		if err != nil {
			interfaceDiags = append(interfaceDiags, types.Errorf(scanner.Interfaces.Name, "%v", err))
			return nil
		}
		if len(files) == 0 {
			r.tracer().Debug("category directory missing or empty", "category", scanner.Interfaces.Name)
		}
		interfaceFiles = files
		return gctx.Err()
	})
	for i, l := range loaders {
		g.Go(func() error {
			files, err := layout.Scan(l.category, r.cache)
			if err != nil {
				results[i] = contribution{
					schemas: types.NewOrderedMap[*types.Schema](),
					diags:   []types.Diagnostic{types.Errorf(l.category.Name, "%v", err)},
				}
				return nil
			}
			if len(files) == 0 {
				r.tracer().Debug("category directory missing or empty", "category", l.category.Name)
			}
			results[i] = l.load(gctx, files)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	// Enums carry no properties to inherit.
	parents := chain{schema.Builtins()}
	for i, l := range loaders {
		if l.source != schema.SourceEnum {
			parents = append(parents, results[i].schemas)
		}
	}
	interfaces := r.loadInterfaces(ctx, interfaceFiles, parents)
	if err := ctx.Err(); err != nil {
		return err
	}
	interfaces.diags = append(interfaceDiags, interfaces.diags...)

	r.registry.Merge(schema.Builtins(), schema.SourceBuiltin)
	all := append([]categoryLoader{{scanner.Interfaces, schema.SourceInterface, nil}}, loaders...)
	for i, l := range all {
		res := interfaces
		if i > 0 {
			res = results[i-1]
		}
		added := r.registry.Merge(res.schemas, l.source)
		r.diags = append(r.diags, res.diags...)
		r.tracer().Debug("schemas found", "category", l.category.Name, "names", added)
	}
	return nil
}

// chain looks names up in several maps, earliest first.
type chain []*types.OrderedMap[*types.Schema]

func (c chain) Get(name string) (*types.Schema, bool) {
	for _, m := range c {
		if s, ok := m.Get(name); ok {
			return s, true
		}
	}
	return nil, false
}

// overlay copies the entries of from into to. Within one category a later
// file replaces an earlier declaration of the same name.
func overlay(to, from *types.OrderedMap[*types.Schema]) {
	for _, name := range from.Keys() {
		s, _ := from.Get(name)
		to.Set(name, s)
	}
}

// loadInterfaces resolves each file against built-ins, interfaces from
// earlier files, then the remaining categories in parents.
func (r *Run) loadInterfaces(ctx context.Context, files []scanner.SourceFile, parents chain) contribution {
	out := types.NewOrderedMap[*types.Schema]()
	lookup := append(chain{parents[0], out}, parents[1:]...)
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		overlay(out, schema.ParseInterfaces(string(f.Content), lookup))
	}
	return contribution{schemas: out}
}

func (r *Run) loadSerializers(ctx context.Context, files []scanner.SourceFile) contribution {
	out := types.NewOrderedMap[*types.Schema]()
	var diags []types.Diagnostic
	ts := parser.NewTypeScriptParser()
	defer ts.Close()

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		var schemas *types.OrderedMap[*types.Schema]
		var errs []error
		switch f.Kind {
		case scanner.KindJSON:
			schemas, errs = schema.SerializersFromJSON(f.Content)
		case scanner.KindYAML:
			schemas, errs = schema.SerializersFromYAML(f.Content)
		default:
			values, err := exportedValues(ts, f)
			if err != nil {
				diags = append(diags, types.Warningf(f.Path, "%v", err))
				continue
			}
			schemas, errs = schema.Serializers(values)
		}
		for _, err := range errs {
			diags = append(diags, types.Warningf(f.Path, "%v", err))
		}
		overlay(out, schemas)
	}
	return contribution{schemas: out, diags: diags}
}

// exportedValues evaluates the literal exports of a source file.
func exportedValues(ts *parser.TypeScriptParser, f scanner.SourceFile) (*types.OrderedMap[any], error) {
	pf, err := ts.Parse(f.Path, f.Content)
	if err != nil {
		return nil, err
	}
	defer pf.Close()

	values := types.NewOrderedMap[any]()
	for _, exp := range pf.Exports {
		if v, ok := pf.EvalLiteral(exp.Value); ok {
			values.Set(exp.Name, v)
		}
	}
	return values, nil
}

// loadModels names each model after its class, or its file when no class
// header is found.
func (r *Run) loadModels(ctx context.Context, files []scanner.SourceFile) contribution {
	out := types.NewOrderedMap[*types.Schema]()
	var diags []types.Diagnostic
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		m := schema.ParseModel(string(f.Content), r.config.SnakeCase)
		if m.Name == "" {
			m.Name = strings.TrimSuffix(filepath.Base(f.Path), filepath.Ext(f.Path))
		}
		if m.Properties.Len() == 0 {
			diags = append(diags, types.Warningf(f.Path, "model %s has no columns", m.Name))
		}
		out.Set(m.Name, m.Schema())
	}
	return contribution{schemas: out, diags: diags}
}

func (r *Run) loadValidators(ctx context.Context, files []scanner.SourceFile) contribution {
	out := types.NewOrderedMap[*types.Schema]()
	var diags []types.Diagnostic
	ts := parser.NewTypeScriptParser()
	defer ts.Close()

	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		pf, err := ts.Parse(f.Path, f.Content)
		if err != nil {
			diags = append(diags, types.Warningf(f.Path, "%v", err))
			continue
		}
		validators, d := vine.Load(pf)
		diags = append(diags, d...)
		for _, v := range validators {
			s := schema.ValidatorToSchema(v)
			s.Description = v.Name + " (Validator)"
			out.Set(v.Name, s)
		}
		pf.Close()
	}
	return contribution{schemas: out, diags: diags}
}

func (r *Run) loadEnums(ctx context.Context, files []scanner.SourceFile) contribution {
	out := types.NewOrderedMap[*types.Schema]()
	for _, f := range files {
		if ctx.Err() != nil {
			break
		}
		overlay(out, schema.ParseEnums(string(f.Content)))
	}
	return contribution{schemas: out}
}
