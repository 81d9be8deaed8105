package extract

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/tsast"
)

// Decorator names understood by the extractor. Anything else is ignored.
const (
	decTable       = "Table"
	decAlias       = "Alias"
	decModule      = "Module"
	decOutput      = "Output"
	decRef         = "Ref"
	decRange       = "Range"
	decRequired    = "Required"
	decSize        = "Size"
	decSet         = "Set"
	decIndex       = "Index"
	decNominal     = "Nominal"
	decRelocate    = "Relocate"
	decFactory     = "Factory"
	decConstructor = "Constructor"
)

// classMeta is what class decorators contribute to a declaration.
type classMeta struct {
	table  *model.TableConfig
	alias  string
	module string
	output string
}

func (e *Extractor) classDecorators(className string, decorators []tsast.Decorator) classMeta {
	var meta classMeta
	for _, d := range decorators {
		switch d.Name {
		case decTable:
			meta.table = tableConfig(d.Args)
		case decAlias:
			meta.alias = firstText(d.Args)
		case decModule:
			meta.module = firstText(d.Args)
		case decOutput:
			meta.output = firstText(d.Args)
		default:
			e.logger.Debug("ignoring class decorator",
				zap.String("class", className),
				zap.String("decorator", d.Name))
		}
	}
	return meta
}

// tableConfig reads @Table(), @Table("list") or @Table({ mode, index, ... }).
// Only written values are recorded; mode and index defaults are applied after
// config entries and rules have been merged in.
func tableConfig(args []tsast.Value) *model.TableConfig {
	cfg := &model.TableConfig{}
	if len(args) > 0 {
		arg := args[0]
		switch arg.Kind {
		case tsast.ValueObject:
			if v, ok := arg.Field("mode"); ok {
				cfg.Mode = model.TableMode(strings.ToLower(v.Text()))
			}
			cfg.Index = fieldText(arg, "index")
			cfg.Name = fieldText(arg, "name")
			cfg.Input = fieldText(arg, "input")
			cfg.Output = fieldText(arg, "output")
		default:
			if mode := arg.Text(); mode != "" {
				cfg.Mode = model.TableMode(strings.ToLower(lastSegment(mode)))
			}
			if len(args) > 1 {
				cfg.Index = args[1].Text()
			}
		}
	}
	return cfg
}

// fieldMeta is what field decorators contribute to a field.
type fieldMeta struct {
	validator   model.Validator
	relocate    string
	factory     bool
	constructor bool
	element     string
}

func (e *Extractor) fieldDecorators(owner, field string, decorators []tsast.Decorator) fieldMeta {
	var meta fieldMeta
	for _, d := range decorators {
		switch d.Name {
		case decRef:
			meta.validator.Ref = lastSegment(firstText(d.Args))
		case decRange:
			meta.validator.Range = rangeOf(d.Args)
		case decRequired:
			meta.validator.Required = true
		case decSize:
			meta.validator.Size = sizeOf(d.Args)
		case decSet:
			meta.validator.Set = setOf(d.Args)
		case decIndex:
			meta.validator.Index = firstText(d.Args)
		case decNominal:
			meta.validator.Nominal = true
		case decRelocate:
			meta.relocate = relocateOf(d.Args)
		case decFactory:
			meta.factory = true
			meta.element = lastSegment(firstText(d.Args))
		case decConstructor:
			meta.constructor = true
			meta.element = lastSegment(firstText(d.Args))
		default:
			e.logger.Debug("ignoring field decorator",
				zap.String("class", owner),
				zap.String("field", field),
				zap.String("decorator", d.Name))
		}
	}
	return meta
}

// rangeOf reads @Range(min, max) or @Range({ min, max }). Missing, null and
// non-finite bounds are open.
func rangeOf(args []tsast.Value) *model.Range {
	var minV, maxV tsast.Value
	switch {
	case len(args) == 1 && args[0].Kind == tsast.ValueObject:
		minV, _ = args[0].Field("min")
		maxV, _ = args[0].Field("max")
	case len(args) >= 2:
		minV, maxV = args[0], args[1]
	case len(args) == 1:
		minV = args[0]
	default:
		return nil
	}

	r := &model.Range{Min: bound(minV), Max: bound(maxV)}
	if r.Min == nil && r.Max == nil {
		return nil
	}
	return r
}

func bound(v tsast.Value) *float64 {
	n, ok := v.AsNumber()
	if !ok {
		return nil
	}
	return &n
}

// sizeOf reads @Size(n), @Size(min, max) or @Size({ min, max }).
func sizeOf(args []tsast.Value) *model.Size {
	switch {
	case len(args) == 1 && args[0].Kind == tsast.ValueObject:
		minV, _ := args[0].Field("min")
		maxV, _ := args[0].Field("max")
		lo, okLo := minV.AsInt()
		hi, okHi := maxV.AsInt()
		if !okLo || !okHi {
			return nil
		}
		return &model.Size{Min: lo, Max: hi}
	case len(args) == 1:
		n, ok := args[0].AsInt()
		if !ok {
			return nil
		}
		return &model.Size{Min: n, Max: n}
	case len(args) >= 2:
		lo, okLo := args[0].AsInt()
		hi, okHi := args[1].AsInt()
		if !okLo || !okHi {
			return nil
		}
		return &model.Size{Min: lo, Max: hi}
	}
	return nil
}

// setOf flattens @Set(a, b) and @Set([a, b]) into literal texts.
func setOf(args []tsast.Value) []string {
	var out []string
	for _, a := range args {
		if a.Kind == tsast.ValueArray {
			out = append(out, setOf(a.Items)...)
			continue
		}
		if a.Kind == tsast.ValueIdent {
			out = append(out, lastSegment(a.Text()))
			continue
		}
		if text := a.Text(); text != "" {
			out = append(out, text)
		}
	}
	return out
}

// relocateOf reads @Relocate({ to, prefix, bean }) or @Relocate(to, prefix, bean).
func relocateOf(args []tsast.Value) string {
	if len(args) == 0 {
		return ""
	}
	var to, prefix, bean string
	if args[0].Kind == tsast.ValueObject {
		to = fieldText(args[0], "to")
		prefix = fieldText(args[0], "prefix")
		bean = fieldText(args[0], "bean")
	} else {
		to = args[0].Text()
		if len(args) > 1 {
			prefix = args[1].Text()
		}
		if len(args) > 2 {
			bean = args[2].Text()
		}
	}
	if to == "" {
		return ""
	}
	return model.RelocateTag(to, prefix, bean)
}

func firstText(args []tsast.Value) string {
	if len(args) == 0 {
		return ""
	}
	return args[0].Text()
}

func fieldText(v tsast.Value, key string) string {
	f, ok := v.Field(key)
	if !ok {
		return ""
	}
	return f.Text()
}

func parseInt(text string) (int64, bool) {
	n, err := strconv.ParseInt(strings.ReplaceAll(text, "_", ""), 0, 64)
	return n, err == nil
}
