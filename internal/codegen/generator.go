// Package codegen renders the companion TypeScript artifacts: the Tables
// interface and the beans dictionary, split across files when one file would
// import more identifiers than the configured limit.
package codegen

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/go-openapi/inflect"
	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/importpath"
	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/output"
	"github.com/mvp-joe/beancraft/internal/registry"
)

const (
	generatedHeader = "// Code generated by beancraft. DO NOT EDIT.\n"

	// BeansExport is the name of the merged dictionary exported by the root file.
	BeansExport = "beans"

	// DefaultImportLimit is the per-file import cap when none is configured.
	DefaultImportLimit = 100
)

// Options locate the generated files. Paths are absolute or relative to the
// same root as declaration source paths.
type Options struct {
	OutputDir   string
	TablesFile  string
	BeansFile   string
	ImportLimit int
	Module      string
}

// Generator renders the TypeScript artifacts.
type Generator struct {
	opts   Options
	logger *zap.Logger
}

// New creates a generator.
func New(opts Options, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.ImportLimit <= 0 {
		opts.ImportLimit = DefaultImportLimit
	}
	return &Generator{opts: opts, logger: logger}
}

func (g *Generator) path(name string) string {
	return filepath.Join(g.opts.OutputDir, name)
}

// GenerateTables renders the Tables interface mapping each table type name to
// its access shape: Map<K, T> for map mode (and unknown modes), T[] for list,
// T for one and singleton.
func (g *Generator) GenerateTables(decls []*model.Declaration) output.Document {
	path := g.path(g.opts.TablesFile)
	imports := newImportSet()

	var roots []*model.Declaration
	for _, d := range decls {
		if d.Table == nil || d.IsInterface {
			continue
		}
		roots = append(roots, d)
		imports.add(importpath.Resolve(path, d.SourcePath), d.Name)
	}
	sort.Slice(roots, func(i, j int) bool { return roots[i].Name < roots[j].Name })

	data := tablesData{Imports: imports.lines()}
	for _, d := range roots {
		data.Tables = append(data.Tables, tableLine{Name: d.Name + registry.TableSuffix, Shape: tableShape(d)})
	}
	return output.Document{Path: path, Content: execute(tablesTemplate, data)}
}

func tableShape(d *model.Declaration) string {
	switch d.Table.Mode {
	case model.TableList:
		return d.Name + "[]"
	case model.TableOne, model.TableSingleton:
		return d.Name
	default:
		return "Map<" + keyType(d) + ", " + d.Name + ">"
	}
}

// keyType is the TypeScript type of the index field, number when unknown.
func keyType(d *model.Declaration) string {
	if f := d.Field(d.Table.Index); f != nil && f.Type == "string" {
		return "string"
	}
	return "number"
}

// Entries returns the beans dictionary entries for decls: every class,
// deduplicated by name and sorted by key. Keys are module.Class, or Class
// when the module is empty.
func (g *Generator) Entries(decls []*model.Declaration, from string) []Entry {
	seen := make(map[string]bool)
	var entries []Entry
	for _, d := range decls {
		if d.IsInterface || seen[d.Name] {
			continue
		}
		seen[d.Name] = true

		key := d.Name
		if m := d.Module(g.opts.Module); m != "" {
			key = m + "." + d.Name
		}
		entries = append(entries, Entry{
			Key:       key,
			Name:      d.Name,
			Specifier: importpath.Resolve(from, d.SourcePath),
		})
	}
	SortEntries(entries)
	return entries
}

// GenerateBeans renders the beans dictionary. When the whole set imports no
// more than the limit a single file is produced; otherwise the sorted entries
// are chunked into beans_1..beans_N files and the root file merges them.
func (g *Generator) GenerateBeans(decls []*model.Declaration) []output.Document {
	rootPath := g.path(g.opts.BeansFile)
	entries := g.Entries(decls, rootPath)

	if importCount(entries) <= g.opts.ImportLimit {
		return []output.Document{{Path: rootPath, Content: renderDictionary(entries, BeansExport)}}
	}

	chunks := Chunk(entries, g.opts.ImportLimit)
	if len(chunks) > g.opts.ImportLimit {
		g.logger.Warn("beans root file imports more chunks than the import limit",
			zap.Int("chunks", len(chunks)),
			zap.Int("limit", g.opts.ImportLimit))
	}

	stem, ext := chunkStem(rootPath)
	base := exportBase(filepath.Base(stem))

	docs := make([]output.Document, 0, len(chunks)+1)
	rootImports := newImportSet()
	merge := mergeData{Export: BeansExport}

	for i, chunk := range chunks {
		chunkPath := fmt.Sprintf("%s_%d%s", stem, i+1, ext)
		name := fmt.Sprintf("%s%d", base, i+1)

		// Chunk files sit next to the root so specifiers computed from the
		// root stay valid.
		docs = append(docs, output.Document{Path: chunkPath, Content: renderDictionary(chunk, name)})
		rootImports.add(importpath.Resolve(rootPath, chunkPath), name)
		merge.Spread = append(merge.Spread, "..."+name)
	}
	merge.Imports = rootImports.lines()

	return append([]output.Document{{Path: rootPath, Content: execute(mergeTemplate, merge)}}, docs...)
}

func renderDictionary(entries []Entry, exportName string) string {
	imports := newImportSet()
	for _, e := range entries {
		imports.add(e.Specifier, e.Name)
	}
	return execute(dictionaryTemplate, dictionaryData{
		Imports: imports.lines(),
		Export:  exportName,
		Entries: entries,
	})
}

func chunkStem(rootPath string) (stem, ext string) {
	ext = filepath.Ext(rootPath)
	return strings.TrimSuffix(rootPath, ext), ext
}

// StaleChunks lists beans chunk files on disk (beans_N next to the beans root)
// that docs no longer produce. They are left behind when a later run needs
// fewer chunks or no split at all.
func (g *Generator) StaleChunks(docs []output.Document) ([]string, error) {
	stem, ext := chunkStem(g.path(g.opts.BeansFile))
	dir, prefix := filepath.Dir(stem), filepath.Base(stem)+"_"

	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list chunk files: %w", err)
	}

	produced := make(map[string]bool, len(docs))
	for _, d := range docs {
		produced[filepath.Clean(d.Path)] = true
	}

	var stale []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		n := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ext)
		if _, err := strconv.Atoi(n); err != nil {
			continue
		}
		path := filepath.Join(dir, name)
		if !produced[path] {
			stale = append(stale, path)
		}
	}
	return stale, nil
}

// exportBase turns a file stem such as bean-dict into a camel-case identifier.
func exportBase(stem string) string {
	stem = strings.NewReplacer("-", "_", ".", "_").Replace(stem)
	if strings.Trim(stem, "_") == "" {
		return BeansExport
	}
	return inflect.CamelizeDownFirst(stem)
}

// importSet groups identifiers by module specifier.
type importSet struct {
	bySpecifier map[string]map[string]bool
}

func newImportSet() *importSet {
	return &importSet{bySpecifier: make(map[string]map[string]bool)}
}

func (s *importSet) add(specifier, name string) {
	if s.bySpecifier[specifier] == nil {
		s.bySpecifier[specifier] = make(map[string]bool)
	}
	s.bySpecifier[specifier][name] = true
}

// lines returns one import per specifier, specifiers and names sorted.
func (s *importSet) lines() []importLine {
	specs := make([]string, 0, len(s.bySpecifier))
	for spec := range s.bySpecifier {
		specs = append(specs, spec)
	}
	sort.Strings(specs)

	out := make([]importLine, 0, len(specs))
	for _, spec := range specs {
		names := make([]string, 0, len(s.bySpecifier[spec]))
		for n := range s.bySpecifier[spec] {
			names = append(names, n)
		}
		sort.Strings(names)
		out = append(out, importLine{Specifier: spec, Names: names})
	}
	return out
}
