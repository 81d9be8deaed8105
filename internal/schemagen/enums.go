package schemagen

import (
	"sort"
	"strings"

	"github.com/mvp-joe/beancraft/internal/model"
)

// GenerateEnums renders one enums document for module, sorted by enum name with
// members in declaration order.
func GenerateEnums(enums []*model.Enum, module string) string {
	sorted := make([]*model.Enum, len(enums))
	copy(sorted, enums)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Name < sorted[j].Name })

	var b strings.Builder
	openModule(&b, module)

	for _, e := range sorted {
		attrs := []attr{
			{"name", e.Name},
			{"alias", e.Alias},
			{"comment", e.Comment},
		}
		if e.IsFlags {
			attrs = append(attrs, attr{"flags", "true"})
		}
		if e.IsString {
			attrs = append(attrs, attr{"tags", "string"})
		}

		if len(e.Variants) == 0 {
			element(&b, 1, "enum", attrs, true)
			continue
		}

		element(&b, 1, "enum", attrs, false)
		for _, v := range e.Variants {
			element(&b, 2, "var", []attr{
				{"name", v.Name},
				{"alias", v.Alias},
				{"value", v.Value},
				{"comment", v.Comment},
			}, true)
		}
		closeElement(&b, 1, "enum")
	}

	closeModule(&b)
	return b.String()
}

// GenerateEnumDocuments renders one enums document per (output, module) group.
func GenerateEnumDocuments(enums []*model.Enum, opts Options) []Document {
	groups := newGrouping()
	for _, e := range enums {
		groups.add(e.Output(opts.EnumOutput), e.Module(opts.Module), e)
	}

	var docs []Document
	for _, key := range groups.keys() {
		docs = append(docs, Document{
			Path:    groups.path(key),
			Module:  key.module,
			Content: GenerateEnums(groups.enums[key], key.module),
		})
	}
	return docs
}
