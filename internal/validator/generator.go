// Package validator renders a field's validator model into schema type suffixes.
package validator

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/registry"
)

// RefResolver resolves a class name to its fully-qualified table reference.
type RefResolver interface {
	ResolveRef(className string) (string, bool)
}

// Generator composes type strings with validator suffixes. Suffix order is
// fixed: required, ref, range, set.
type Generator struct {
	refs   RefResolver
	logger *zap.Logger
}

// New creates a generator resolving references through refs.
func New(refs RefResolver, logger *zap.Logger) *Generator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Generator{refs: refs, logger: logger}
}

// GenerateType appends the scalar validator suffixes of v to baseType.
func (g *Generator) GenerateType(baseType string, v model.Validator) string {
	var b strings.Builder
	b.WriteString(baseType)

	if v.Required {
		b.WriteString("!")
	}

	if v.Ref != "" {
		if ref, ok := g.resolve(v.Ref); ok {
			b.WriteString("#ref=")
			b.WriteString(ref)
		} else {
			g.logger.Warn("unresolved table reference, dropping ref validator",
				zap.String("ref", v.Ref),
				zap.String("type", baseType))
		}
	}

	if v.Range != nil {
		b.WriteString("#range=[")
		if v.Range.Min != nil {
			b.WriteString(formatNumber(*v.Range.Min))
		}
		b.WriteString(",")
		if v.Range.Max != nil {
			b.WriteString(formatNumber(*v.Range.Max))
		}
		b.WriteString("]")
	}

	if len(v.Set) > 0 {
		b.WriteString("#set=")
		b.WriteString(strings.Join(v.Set, ","))
	}

	return b.String()
}

// GenerateContainerType renders a container type. Size and index become
// container modifiers; the remaining validators apply to the element (the value
// side for maps). element is "T" for list/set and "K,V" for map.
func (g *Generator) GenerateContainerType(kind, element string, v model.Validator) string {
	var elem string
	if kind == "map" {
		key, value, ok := strings.Cut(element, ",")
		if ok {
			elem = key + "," + g.GenerateType(value, v)
		} else {
			elem = g.GenerateType(element, v)
		}
	} else {
		elem = g.GenerateType(element, v)
	}

	var mods strings.Builder
	if v.Size != nil {
		mods.WriteString("#size=")
		if v.Size.Exact() {
			mods.WriteString(strconv.Itoa(v.Size.Min))
		} else {
			mods.WriteString("[" + strconv.Itoa(v.Size.Min) + "," + strconv.Itoa(v.Size.Max) + "]")
		}
	}
	if v.Index != "" {
		mods.WriteString("#index=")
		mods.WriteString(v.Index)
	}

	if mods.Len() == 0 {
		return kind + "," + elem
	}
	return "(" + kind + mods.String() + ")," + elem
}

func (g *Generator) resolve(name string) (string, bool) {
	if g.refs == nil {
		return "", false
	}
	if ref, ok := g.refs.ResolveRef(name); ok {
		return ref, true
	}
	// @Ref(ItemTable) names the table rather than the bean.
	if trimmed, found := strings.CutSuffix(name, registry.TableSuffix); found && trimmed != "" {
		return g.refs.ResolveRef(trimmed)
	}
	return "", false
}

func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}
