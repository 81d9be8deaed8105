// Package schemagen renders the XML schema documents: beans and tables, enums,
// and per-parent bean type enums.
package schemagen

import (
	"sort"
	"strings"

	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/registry"
	"github.com/mvp-joe/beancraft/internal/typemap"
	"github.com/mvp-joe/beancraft/internal/validator"
)

// ParentResolver picks the schema parent of a declaration.
type ParentResolver interface {
	Resolve(d *model.Declaration) string
}

// Options are the run-wide defaults for grouping.
type Options struct {
	Module          string
	Output          string
	EnumOutput      string
	BeanTypesOutput string
}

// Document is one rendered schema file.
type Document struct {
	Path    string
	Module  string
	Content string
}

// Generator renders schema documents. Declarations must be fully resolved:
// virtual fields injected, table configs applied, tables registered.
type Generator struct {
	mapper     *typemap.Mapper
	validators *validator.Generator
	parents    ParentResolver
}

// New creates a schema generator.
func New(mapper *typemap.Mapper, validators *validator.Generator, parents ParentResolver) *Generator {
	return &Generator{mapper: mapper, validators: validators, parents: parents}
}

// FieldType composes the mapped type with validator suffixes. Optional scalars
// get ? on the base type; optional sets and maps get ? after the element;
// lists never do since an empty list already means absent.
func (g *Generator) FieldType(f *model.Field) string {
	mapped := g.mapper.MapFullType(f.Type)
	optional := f.Optional && !f.Validator.Required

	kind, parts := typemap.Container(mapped)
	switch kind {
	case "":
		base := mapped
		if optional {
			base += "?"
		}
		return g.validators.GenerateType(base, f.Validator)
	case "list", "array":
		return g.validators.GenerateContainerType(kind, strings.Join(parts, ","), f.Validator)
	default:
		out := g.validators.GenerateContainerType(kind, strings.Join(parts, ","), f.Validator)
		if optional {
			out += "?"
		}
		return out
	}
}

// Generate renders one beans document for decls in module: a bean per
// declaration sorted by name, then a table per table root.
func (g *Generator) Generate(decls []*model.Declaration, module string) string {
	sorted := sortedDecls(decls)

	var b strings.Builder
	openModule(&b, module)

	for _, d := range sorted {
		g.writeBean(&b, d)
	}
	for _, d := range sorted {
		if d.Table != nil && !d.IsInterface {
			writeTable(&b, d)
		}
	}

	closeModule(&b)
	return b.String()
}

func (g *Generator) writeBean(b *strings.Builder, d *model.Declaration) {
	attrs := []attr{
		{"name", d.Name},
		{"parent", g.parents.Resolve(d)},
		{"alias", d.Alias},
		{"comment", d.Comment},
	}
	if len(d.Fields) == 0 {
		element(b, 1, "bean", attrs, true)
		return
	}

	element(b, 1, "bean", attrs, false)
	for _, f := range d.Fields {
		element(b, 2, "var", []attr{
			{"name", f.Name},
			{"type", g.FieldType(f)},
			{"comment", f.Comment},
			{"tags", f.Relocate},
		}, true)
	}
	closeElement(b, 1, "bean")
}

func writeTable(b *strings.Builder, d *model.Declaration) {
	comment := d.Table.Name
	if comment == "" {
		comment = d.Alias
	}
	element(b, 1, "table", []attr{
		{"name", d.Name + registry.TableSuffix},
		{"value", d.Name},
		{"mode", string(d.Table.Mode)},
		{"index", d.Table.Index},
		{"input", d.Table.Input},
		{"output", d.Table.Output},
		{"comment", comment},
	}, true)
}

// GenerateBeans renders one document per (output, module) group.
func (g *Generator) GenerateBeans(decls []*model.Declaration, opts Options) []Document {
	groups := newGrouping()
	for _, d := range decls {
		groups.add(d.Output(opts.Output), d.Module(opts.Module), d)
	}

	var docs []Document
	for _, key := range groups.keys() {
		docs = append(docs, Document{
			Path:    groups.path(key),
			Module:  key.module,
			Content: g.Generate(groups.decls[key], key.module),
		})
	}
	return docs
}

// GenerateBeanTypes renders a string enum per resolved parent listing the beans
// that extend it. Parents are sorted, members are sorted by bean name.
func (g *Generator) GenerateBeanTypes(decls []*model.Declaration, module string) string {
	children := make(map[string][]*model.Declaration)
	for _, d := range sortedDecls(decls) {
		if d.IsInterface {
			continue
		}
		if parent := g.parents.Resolve(d); parent != "" {
			children[parent] = append(children[parent], d)
		}
	}

	parents := make([]string, 0, len(children))
	for p := range children {
		parents = append(parents, p)
	}
	sort.Strings(parents)

	var b strings.Builder
	openModule(&b, module)
	for _, p := range parents {
		element(&b, 1, "enum", []attr{{"name", p + "Type"}, {"tags", "string"}}, false)
		for _, d := range children[p] {
			element(&b, 2, "var", []attr{
				{"name", d.Name},
				{"alias", d.Alias},
				{"value", d.Name},
				{"comment", d.Comment},
			}, true)
		}
		closeElement(&b, 1, "enum")
	}
	closeModule(&b)
	return b.String()
}

func sortedDecls(decls []*model.Declaration) []*model.Declaration {
	sorted := make([]*model.Declaration, len(decls))
	copy(sorted, decls)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })
	return sorted
}
