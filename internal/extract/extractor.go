// Package extract converts parsed declaration nodes into model records and runs
// extraction over many files in parallel.
package extract

import (
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/tsast"
)

// DefaultIndex is the key field of map tables that do not name one.
const DefaultIndex = "id"

// reservedFields are marker properties of nominal typing helpers, never schema data.
var reservedFields = []string{"__brand", "__nominal", "__tag", "__type", "__kind"}

// Extractor turns tsast nodes into declarations and enums. It holds no state
// between calls and is safe for concurrent use.
type Extractor struct {
	logger *zap.Logger
}

// New creates an extractor. A nil logger discards output.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract converts every exported declaration of a parsed file.
func (e *Extractor) Extract(file *tsast.File) model.FileResult {
	result := model.FileResult{Path: file.Path, Hash: file.Hash}

	for _, n := range file.Nodes {
		switch node := n.(type) {
		case *tsast.ClassNode:
			if d := e.Class(node, file.Path, file.Hash); d != nil {
				result.Declarations = append(result.Declarations, d)
			}
		case *tsast.InterfaceNode:
			if d := e.Interface(node, file.Path, file.Hash); d != nil {
				result.Declarations = append(result.Declarations, d)
			}
		case *tsast.EnumNode:
			if en := e.Enum(node, file.Path, file.Hash); en != nil {
				result.Enums = append(result.Enums, en)
			}
		}
	}

	return result
}

// Class converts an exported class. Non-exported classes yield nil.
func (e *Extractor) Class(node *tsast.ClassNode, path, hash string) *model.Declaration {
	if !node.Exported {
		return nil
	}

	doc := parseDoc(node.Comment)
	meta := e.classDecorators(node.Name, node.Decorators)

	d := &model.Declaration{
		Name:           node.Name,
		Alias:          doc.alias,
		Comment:        doc.text,
		SourcePath:     path,
		Hash:           hash,
		OutputOverride: meta.output,
		ModuleOverride: meta.module,
		Generics:       bindGenerics(node.TypeParameters),
		Table:          meta.table,
	}
	if meta.alias != "" {
		d.Alias = meta.alias
	}
	if node.Extends != nil {
		d.Extends = lastSegment(node.Extends.Name)
	}
	for _, impl := range node.Implements {
		d.Implements = append(d.Implements, lastSegment(impl.Name))
	}

	conv := converter{generics: d.Generics}
	for _, p := range node.Properties {
		if p.Static || p.Accessibility == tsast.AccessPrivate || p.Accessibility == tsast.AccessProtected {
			continue
		}
		e.addField(d, e.classField(node.Name, conv, p))
	}

	return d
}

// Interface converts an exported interface. Only the field list is read.
func (e *Extractor) Interface(node *tsast.InterfaceNode, path, hash string) *model.Declaration {
	if !node.Exported {
		return nil
	}

	doc := parseDoc(node.Comment)
	d := &model.Declaration{
		Name:        node.Name,
		Alias:       doc.alias,
		Comment:     doc.text,
		IsInterface: true,
		SourcePath:  path,
		Hash:        hash,
		Generics:    bindGenerics(node.TypeParameters),
	}
	if len(node.Extends) > 0 {
		d.Extends = lastSegment(node.Extends[0].Name)
	}

	conv := converter{generics: d.Generics}
	for _, p := range node.Properties {
		core, nullable := firstNonNullish(p.Type)
		f := &model.Field{
			Name:       p.Name,
			Type:       conv.convert(p.Type),
			SourceType: sourceText(p.Type),
			Comment:    parseDoc(p.Comment).text,
			Optional:   p.Optional || nullable,
		}
		f.Validator.Nominal = isBranded(core)
		e.addField(d, f)
	}

	return d
}

func (e *Extractor) classField(owner string, conv converter, p tsast.PropertyNode) *model.Field {
	core, nullable := firstNonNullish(p.Type)
	meta := e.fieldDecorators(owner, p.Name, p.Decorators)

	f := &model.Field{
		Name:       p.Name,
		Type:       conv.convert(p.Type),
		SourceType: sourceText(p.Type),
		Comment:    parseDoc(p.Comment).text,
		Optional:   p.Optional || nullable,
		Validator:  meta.validator,
		Relocate:   meta.relocate,
	}

	f.IsFactory, f.IsConstructor = wrapper(core)
	if f.IsFactory || f.IsConstructor {
		f.ElementType = f.Type
	}
	if meta.factory || meta.constructor {
		f.IsFactory, f.IsConstructor = meta.factory, meta.constructor
		if meta.element != "" {
			f.ElementType = meta.element
			f.Type = meta.element
		}
	}
	if isBranded(core) {
		f.Validator.Nominal = true
	}

	return f
}

// addField appends f unless it is a reserved marker or a repeated name.
func (e *Extractor) addField(d *model.Declaration, f *model.Field) {
	if f.Name == "" || isReserved(f.Name) {
		return
	}
	if d.HasField(f.Name) {
		e.logger.Warn("duplicate field, keeping the first declaration",
			zap.String("declaration", d.Name),
			zap.String("field", f.Name),
			zap.String("file", d.SourcePath))
		return
	}
	d.Fields = append(d.Fields, f)
}

// Enum converts an exported enum. Members without an initializer continue
// numbering from the previous numeric member, as TypeScript does.
func (e *Extractor) Enum(node *tsast.EnumNode, path, hash string) *model.Enum {
	if !node.Exported {
		return nil
	}

	doc := parseDoc(node.Comment)
	en := &model.Enum{
		Name:       node.Name,
		Alias:      doc.alias,
		Comment:    doc.text,
		IsFlags:    doc.flags,
		SourcePath: path,
		Hash:       hash,
	}

	known := make(map[string]int64)
	var next int64
	sequential := true

	for _, m := range node.Members {
		mdoc := parseDoc(m.Comment)
		v := model.EnumVariant{Name: m.Name, Alias: mdoc.alias, Comment: mdoc.text}
		raw := strings.TrimSpace(m.Value)

		switch {
		case raw == "":
			if sequential {
				v.Value = strconv.FormatInt(next, 10)
				known[m.Name] = next
				next++
			}
		case isStringLiteral(raw):
			en.IsString = true
			v.Value = trimQuotes(raw)
			sequential = false
		default:
			if n, ok := evalEnumValue(raw, known); ok {
				v.Value = strconv.FormatInt(n, 10)
				known[m.Name] = n
				next = n + 1
				sequential = true
				if strings.Contains(raw, "<<") {
					en.IsFlags = true
				}
			} else {
				v.Value = raw
				sequential = false
			}
		}

		en.Variants = append(en.Variants, v)
	}

	return en
}

// evalEnumValue evaluates integer literals, earlier member names, a << b and
// a | b, the forms used by flag enums.
func evalEnumValue(expr string, known map[string]int64) (int64, bool) {
	expr = strings.TrimSpace(expr)
	for strings.HasPrefix(expr, "(") && strings.HasSuffix(expr, ")") {
		expr = strings.TrimSpace(expr[1 : len(expr)-1])
	}

	if parts := strings.Split(expr, "|"); len(parts) > 1 {
		var out int64
		for _, p := range parts {
			n, ok := evalEnumValue(p, known)
			if !ok {
				return 0, false
			}
			out |= n
		}
		return out, true
	}

	if parts := strings.SplitN(expr, "<<", 2); len(parts) == 2 {
		a, okA := evalEnumValue(parts[0], known)
		b, okB := evalEnumValue(parts[1], known)
		if !okA || !okB || b < 0 || b > 62 {
			return 0, false
		}
		return a << uint(b), true
	}

	if n, ok := parseInt(expr); ok {
		return n, true
	}
	if n, ok := known[strings.TrimPrefix(expr, "-")]; ok && strings.HasPrefix(expr, "-") {
		return -n, true
	}
	n, ok := known[expr]
	return n, ok
}

// bindGenerics binds each type parameter to its default, else its constraint,
// else string.
func bindGenerics(params []tsast.TypeParameter) map[string]string {
	if len(params) == 0 {
		return nil
	}
	var conv converter
	out := make(map[string]string, len(params))
	for _, p := range params {
		switch {
		case p.Default != nil:
			out[p.Name] = conv.convert(p.Default)
		case p.Constraint != nil:
			out[p.Name] = conv.convert(p.Constraint)
		default:
			out[p.Name] = fallbackType
		}
	}
	return out
}

type docInfo struct {
	text  string
	alias string
	flags bool
}

// parseDoc splits a cleaned doc comment into its description and the @alias
// and @flags tags. Other tags are dropped.
func parseDoc(comment string) docInfo {
	var info docInfo
	var lines []string
	for _, line := range strings.Split(comment, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case line == "":
		case strings.HasPrefix(line, "@alias"):
			info.alias = strings.TrimSpace(strings.TrimPrefix(line, "@alias"))
		case line == "@flags":
			info.flags = true
		case strings.HasPrefix(line, "@"):
		default:
			lines = append(lines, line)
		}
	}
	info.text = strings.Join(lines, " ")
	return info
}

func isReserved(name string) bool {
	for _, r := range reservedFields {
		if name == r {
			return true
		}
	}
	return false
}

func sourceText(t *tsast.TypeExpr) string {
	if t == nil {
		return ""
	}
	return t.Text
}

func isStringLiteral(s string) bool {
	if len(s) < 2 {
		return false
	}
	q := s[0]
	return (q == '"' || q == '\'' || q == '`') && s[len(s)-1] == q
}

func trimQuotes(s string) string {
	if isStringLiteral(s) {
		return s[1 : len(s)-1]
	}
	return s
}
