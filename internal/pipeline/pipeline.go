// Package pipeline runs one generation: discovery, parallel extraction, the
// single-threaded resolution passes, cache bookkeeping, rendering and writing.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/cache"
	"github.com/mvp-joe/beancraft/internal/codegen"
	"github.com/mvp-joe/beancraft/internal/config"
	"github.com/mvp-joe/beancraft/internal/discovery"
	"github.com/mvp-joe/beancraft/internal/extract"
	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/output"
	"github.com/mvp-joe/beancraft/internal/parser"
	"github.com/mvp-joe/beancraft/internal/registry"
	"github.com/mvp-joe/beancraft/internal/resolve"
	"github.com/mvp-joe/beancraft/internal/schemagen"
	"github.com/mvp-joe/beancraft/internal/typemap"
	"github.com/mvp-joe/beancraft/internal/validator"
)

// Stats summarises a run.
type Stats struct {
	RunID        string
	FilesScanned int
	FilesFailed  int
	Declarations int
	Enums        int
	Tables       int

	// Changed and Unchanged list declaration and enum names by cache state.
	Changed   []string
	Unchanged []string
	Removed   []string

	Written  []string
	Skipped  []string
	// Deleted lists generated files from earlier runs that this run no
	// longer produces, such as surplus beans chunk files.
	Deleted  []string
	Duration time.Duration
}

// Pipeline runs generations for one project root.
type Pipeline struct {
	root     string
	cfg      *config.Config
	logger   *zap.Logger
	progress ProgressReporter
	parser   extract.Parser
}

// New creates a pipeline. rootDir is the project root that relative paths in
// cfg are resolved against.
func New(rootDir string, cfg *config.Config, logger *zap.Logger, progress ProgressReporter) *Pipeline {
	if logger == nil {
		logger = zap.NewNop()
	}
	if progress == nil {
		progress = &NoOpProgressReporter{}
	}
	return &Pipeline{
		root:     rootDir,
		cfg:      cfg,
		logger:   logger,
		progress: progress,
		parser:   parser.NewTypeScriptParser(),
	}
}

// Discovery returns the file discovery configured for this project.
func (p *Pipeline) Discovery() (*discovery.FileDiscovery, error) {
	return discovery.NewFileDiscovery(p.root, p.cfg.Include, p.cfg.Ignore)
}

// Run performs one full generation.
func (p *Pipeline) Run(ctx context.Context) (*Stats, error) {
	start := time.Now()
	stats := &Stats{RunID: uuid.New().String()}
	logger := p.logger.With(zap.String("run_id", stats.RunID))
	logger.Debug("generation started", zap.String("root", p.root))

	// 1. Discovery. Missing or malformed sources are fatal.
	p.progress.OnDiscoveryStart()
	fd, err := p.Discovery()
	if err != nil {
		return nil, err
	}
	if err := fd.CheckSources(p.cfg.Sources); err != nil {
		return nil, err
	}
	files, err := fd.DiscoverFiles(p.cfg.Sources)
	if err != nil {
		return nil, fmt.Errorf("failed to discover files: %w", err)
	}
	stats.FilesScanned = len(files)
	p.progress.OnDiscoveryComplete(len(files))

	// 2. Parallel extraction and fan-in.
	p.progress.OnExtractionStart(len(files))
	agg, err := extract.NewRunner(p.parser, logger).Aggregate(ctx, files, p.progress.OnFileExtracted)
	if err != nil {
		return nil, err
	}
	stats.FilesFailed = len(agg.FailedFiles)
	stats.Declarations = len(agg.Declarations)
	stats.Enums = len(agg.Enums)

	// 3. Resolution passes over the complete set.
	reg, parents, err := p.resolve(agg, logger)
	if err != nil {
		return nil, err
	}
	stats.Tables = reg.Len()

	// 4. Cache bookkeeping. Every declaration is still generated.
	var store *cache.Cache
	if p.cfg.Cache.Enabled {
		store, err = cache.Load(p.path(p.cfg.Cache.Path))
		if err != nil {
			return nil, err
		}
		p.classify(store, agg, stats, logger)
	}

	// 5. Render.
	docs := p.render(agg, reg, parents, logger)

	// 6. Write outputs, then persist the cache.
	p.progress.OnWritingOutputs(len(docs))
	writer := output.NewWriter(p.root, logger)
	result, err := writer.WriteAll(docs)
	if err != nil {
		return nil, err
	}
	stats.Written = result.Written
	stats.Skipped = result.Unchanged

	if p.cfg.Codegen.Enabled {
		stale, err := p.codegen(logger).StaleChunks(docs)
		if err != nil {
			return nil, err
		}
		if stats.Deleted, err = writer.Remove(stale); err != nil {
			return nil, err
		}
	}

	if store != nil {
		if err := store.Save(p.path(p.cfg.Cache.Path)); err != nil {
			return nil, err
		}
	}

	stats.Duration = time.Since(start)
	logger.Info("generation complete",
		zap.Int("files", stats.FilesScanned),
		zap.Int("declarations", stats.Declarations),
		zap.Int("written", len(stats.Written)),
		zap.Int("deleted", len(stats.Deleted)),
		zap.Duration("duration", stats.Duration))
	p.progress.OnComplete(stats)
	return stats, nil
}

func (p *Pipeline) resolve(agg *model.Aggregate, logger *zap.Logger) (*registry.TableRegistry, *resolve.BaseClassResolver, error) {
	resolve.NewVirtualFieldInjector(p.cfg.VirtualFields, logger).Inject(agg.ByName())

	entries, err := p.cfg.Tables.TableEntries()
	if err != nil {
		return nil, nil, err
	}
	rules := config.CompileTableRules(p.cfg.Tables.Rules, logger)
	resolve.NewTableResolver(entries, rules).Apply(agg.Declarations)

	reg := registry.New()
	resolve.RegisterTables(reg, agg.Declarations, p.cfg.Schema.Module)

	parents := resolve.NewBaseClassResolver(
		config.CompileParentRules(p.cfg.Schema.Parents, logger),
		p.cfg.Schema.DefaultParent,
	)
	return reg, parents, nil
}

// classify splits declarations and enums into changed and unchanged by content
// hash, records the current state and forgets names that no longer exist.
func (p *Pipeline) classify(store *cache.Cache, agg *model.Aggregate, stats *Stats, logger *zap.Logger) {
	keep := make(map[string]bool, len(agg.Declarations)+len(agg.Enums))
	record := func(name, source, hash string) {
		keep[name] = true
		if store.IsValid(name, hash) {
			stats.Unchanged = append(stats.Unchanged, name)
		} else {
			stats.Changed = append(stats.Changed, name)
		}
		store.SetEntry(name, p.rel(source), hash)
	}

	for _, d := range agg.Declarations {
		record(d.Name, d.SourcePath, d.Hash)
	}
	for _, e := range agg.Enums {
		record(e.Name, e.SourcePath, e.Hash)
	}
	stats.Removed = store.Prune(keep)

	sort.Strings(stats.Changed)
	sort.Strings(stats.Unchanged)

	for _, name := range stats.Changed {
		logger.Debug("declaration changed", zap.String("name", name))
	}
}

func (p *Pipeline) render(agg *model.Aggregate, reg *registry.TableRegistry, parents *resolve.BaseClassResolver, logger *zap.Logger) []output.Document {
	schema := p.cfg.Schema
	gen := schemagen.New(
		typemap.New(p.cfg.TypeMappings),
		validator.New(reg, logger),
		parents,
	)
	opts := schemagen.Options{
		Module:          schema.Module,
		Output:          schema.Output,
		EnumOutput:      schema.EnumOutput,
		BeanTypesOutput: schema.BeanTypesOutput,
	}

	var docs []output.Document
	for _, d := range gen.GenerateBeans(agg.Declarations, opts) {
		docs = append(docs, output.Document{Path: d.Path, Content: d.Content})
	}
	if len(agg.Enums) > 0 {
		for _, d := range schemagen.GenerateEnumDocuments(agg.Enums, opts) {
			docs = append(docs, output.Document{Path: d.Path, Content: d.Content})
		}
	}
	if schema.BeanTypes {
		docs = append(docs, output.Document{
			Path:    schema.BeanTypesOutput,
			Content: gen.GenerateBeanTypes(agg.Declarations, schema.Module),
		})
	}

	if p.cfg.Codegen.Enabled {
		cg := p.codegen(logger)
		docs = append(docs, cg.GenerateTables(agg.Declarations))
		docs = append(docs, cg.GenerateBeans(agg.Declarations)...)
	}

	return docs
}

func (p *Pipeline) codegen(logger *zap.Logger) *codegen.Generator {
	return codegen.New(codegen.Options{
		OutputDir:   p.path(p.cfg.Codegen.OutputDir),
		TablesFile:  p.cfg.Codegen.TablesFile,
		BeansFile:   p.cfg.Codegen.BeansFile,
		ImportLimit: p.cfg.Codegen.ImportLimit,
		Module:      p.cfg.Schema.Module,
	}, logger)
}

func (p *Pipeline) path(rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(p.root, rel)
}

func (p *Pipeline) rel(path string) string {
	if r, err := filepath.Rel(p.root, path); err == nil {
		return filepath.ToSlash(r)
	}
	return path
}
