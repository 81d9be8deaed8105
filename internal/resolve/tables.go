package resolve

import (
	"strings"

	"github.com/mvp-joe/beancraft/internal/config"
	"github.com/mvp-joe/beancraft/internal/extract"
	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/registry"
)

// TableResolver completes table configuration from config entries and rules.
//
// A class is a table root when it carries @Table, has an entry in
// tables.entries, or matches a tables.rules pattern. Values merge field by
// field with the decorator first, then the entry, then the first matching rule.
type TableResolver struct {
	entries map[string]config.TableEntry
	rules   []config.CompiledTableRule
}

// NewTableResolver creates a resolver. entries are keyed by lower-cased class
// name as returned by config.TablesConfig.TableEntries.
func NewTableResolver(entries map[string]config.TableEntry, rules []config.CompiledTableRule) *TableResolver {
	return &TableResolver{entries: entries, rules: rules}
}

// Apply sets Table on every class that is a table root. Interfaces are skipped.
func (r *TableResolver) Apply(decls []*model.Declaration) {
	for _, d := range decls {
		if d.IsInterface {
			continue
		}

		layers := make([]config.TableEntry, 0, 3)
		if d.Table != nil {
			layers = append(layers, config.TableEntry{
				Input:  d.Table.Input,
				Output: d.Table.Output,
				Name:   d.Table.Name,
				Mode:   string(d.Table.Mode),
				Index:  d.Table.Index,
			})
		}
		if e, ok := config.LookupTableEntry(r.entries, d.Name); ok {
			layers = append(layers, e)
		}
		for _, rule := range r.rules {
			if rule.Pattern.MatchString(d.Name) {
				layers = append(layers, rule.Expand(d.Name))
				break
			}
		}

		if len(layers) == 0 {
			continue
		}
		d.Table = mergeTable(layers)
	}
}

func mergeTable(layers []config.TableEntry) *model.TableConfig {
	var merged config.TableEntry
	for i := len(layers) - 1; i >= 0; i-- {
		l := layers[i]
		merged.Input = pick(l.Input, merged.Input)
		merged.Output = pick(l.Output, merged.Output)
		merged.Name = pick(l.Name, merged.Name)
		merged.Mode = pick(l.Mode, merged.Mode)
		merged.Index = pick(l.Index, merged.Index)
	}

	t := &model.TableConfig{
		Mode:   model.TableMode(strings.ToLower(merged.Mode)),
		Index:  merged.Index,
		Name:   merged.Name,
		Input:  merged.Input,
		Output: merged.Output,
	}
	if t.Mode == "" {
		t.Mode = model.TableMap
	}
	if t.Mode == model.TableMap && t.Index == "" {
		t.Index = extract.DefaultIndex
	}
	return t
}

func pick(preferred, fallback string) string {
	if preferred != "" {
		return preferred
	}
	return fallback
}

// RegisterTables registers every table root under its effective module.
func RegisterTables(reg *registry.TableRegistry, decls []*model.Declaration, defaultModule string) {
	for _, d := range decls {
		if d.Table == nil || d.IsInterface {
			continue
		}
		reg.Register(d.Name, d.Module(defaultModule))
	}
}
