// Package parser turns TypeScript source into tsast declaration nodes using
// tree-sitter.
package parser

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/mvp-joe/beancraft/internal/tsast"
)

// ErrSyntax indicates tree-sitter recovered from errors while parsing.
var ErrSyntax = errors.New("syntax error")

// TypeScriptParser parses TypeScript files into declaration nodes. The language
// is shared; every parse creates its own tree-sitter parser so a single
// TypeScriptParser is safe to use from many goroutines.
type TypeScriptParser struct {
	language *sitter.Language
}

// NewTypeScriptParser creates a new TypeScript parser.
func NewTypeScriptParser() *TypeScriptParser {
	return &TypeScriptParser{
		language: sitter.NewLanguage(typescript.LanguageTypescript()),
	}
}

// ParseFile reads and parses a TypeScript file.
func (p *TypeScriptParser) ParseFile(ctx context.Context, filePath string) (*tsast.File, error) {
	source, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}
	return p.ParseSource(ctx, filePath, source)
}

// ParseSource parses TypeScript source text attributed to filePath.
func (p *TypeScriptParser) ParseSource(ctx context.Context, filePath string, source []byte) (*tsast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	parser := sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(p.language); err != nil {
		return nil, fmt.Errorf("failed to set typescript language: %w", err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("failed to parse typescript file: %s", filePath)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if rootNode.HasError() {
		return nil, fmt.Errorf("%w in %s near line %d", ErrSyntax, filePath, firstErrorLine(rootNode))
	}

	file := &tsast.File{Path: filePath}
	w := &walker{source: source}

	for i := 0; i < int(rootNode.ChildCount()); i++ {
		child := rootNode.Child(uint(i))
		if n := w.topLevel(child); n != nil {
			file.Nodes = append(file.Nodes, n)
		}
	}

	return file, nil
}

// firstErrorLine returns the 1-indexed line of the first error node.
func firstErrorLine(node *sitter.Node) int {
	if node.IsError() || node.IsMissing() {
		return int(node.StartPosition().Row) + 1
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(uint(i))
		if child.HasError() {
			return firstErrorLine(child)
		}
	}
	return int(node.StartPosition().Row) + 1
}

type walker struct {
	source []byte
}

func (w *walker) text(n *sitter.Node) string { return extractNodeText(n, w.source) }

// topLevel converts one program-level statement.
func (w *walker) topLevel(node *sitter.Node) tsast.Node {
	switch node.Kind() {
	case "export_statement":
		decl := node.ChildByFieldName("declaration")
		if decl == nil {
			return nil
		}
		return w.declaration(decl, true, w.decorators(node), precedingComment(node, w.source))
	case "ambient_declaration":
		for _, child := range namedChildren(node) {
			if n := w.declaration(child, false, nil, precedingComment(node, w.source)); n != nil {
				return n
			}
		}
		return nil
	default:
		return w.declaration(node, false, nil, precedingComment(node, w.source))
	}
}

func (w *walker) declaration(node *sitter.Node, exported bool, outer []tsast.Decorator, comment string) tsast.Node {
	switch node.Kind() {
	case "class_declaration", "abstract_class_declaration", "class":
		return w.class(node, exported, outer, comment)
	case "interface_declaration":
		return w.iface(node, exported, comment)
	case "enum_declaration":
		return w.enum(node, exported, comment)
	}
	return nil
}

func (w *walker) class(node *sitter.Node, exported bool, outer []tsast.Decorator, comment string) *tsast.ClassNode {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	c := &tsast.ClassNode{
		Name:       w.text(nameNode),
		Exported:   exported,
		Abstract:   node.Kind() == "abstract_class_declaration",
		Comment:    cleanComment(comment),
		Decorators: append(outer, w.decorators(node)...),
	}

	c.TypeParameters = w.typeParameters(node.ChildByFieldName("type_parameters"))

	if heritage := findChildByType(node, "class_heritage"); heritage != nil {
		if ext := findChildByType(heritage, "extends_clause"); ext != nil {
			if value := ext.ChildByFieldName("value"); value != nil {
				var args []tsast.TypeExpr
				if ta := ext.ChildByFieldName("type_arguments"); ta != nil {
					args = w.typeArguments(ta)
				}
				c.Extends = tsast.Ref(w.text(value), args...)
			}
		}
		if impl := findChildByType(heritage, "implements_clause"); impl != nil {
			for _, t := range namedChildren(impl) {
				c.Implements = append(c.Implements, *w.typeExpr(t))
			}
		}
	}

	body := node.ChildByFieldName("body")
	var pending []tsast.Decorator
	for i := 0; body != nil && i < int(body.ChildCount()); i++ {
		member := body.Child(uint(i))
		switch member.Kind() {
		case "decorator":
			pending = append(pending, w.decorator(member))
		case "public_field_definition":
			prop := w.fieldDefinition(member)
			prop.Decorators = append(pending, prop.Decorators...)
			pending = nil
			c.Properties = append(c.Properties, prop)
		case "method_definition":
			pending = nil
			if name := member.ChildByFieldName("name"); name != nil && w.text(name) == "constructor" {
				c.Properties = append(c.Properties, w.parameterProperties(member.ChildByFieldName("parameters"))...)
			}
		default:
			if member.IsNamed() && member.Kind() != "comment" {
				pending = nil
			}
		}
	}

	return c
}

func (w *walker) fieldDefinition(node *sitter.Node) tsast.PropertyNode {
	prop := tsast.PropertyNode{
		Decorators: w.decorators(node),
		Optional:   hasToken(node, "?"),
		Readonly:   hasToken(node, "readonly"),
		Static:     hasToken(node, "static"),
		Comment:    cleanComment(precedingComment(node, w.source)),
	}

	if mod := findChildByType(node, "accessibility_modifier"); mod != nil {
		prop.Accessibility = tsast.Accessibility(w.text(mod))
	}

	if name := node.ChildByFieldName("name"); name != nil {
		prop.Name = unquote(w.text(name))
		if name.Kind() == "private_property_identifier" {
			prop.Accessibility = tsast.AccessPrivate
		}
	}

	prop.Type = w.annotation(node.ChildByFieldName("type"))
	return prop
}

// parameterProperties returns constructor parameters declared with an
// accessibility modifier or readonly, which TypeScript turns into fields.
func (w *walker) parameterProperties(params *sitter.Node) []tsast.PropertyNode {
	var props []tsast.PropertyNode
	for _, param := range namedChildren(params) {
		if param.Kind() != "required_parameter" && param.Kind() != "optional_parameter" {
			continue
		}

		mod := findChildByType(param, "accessibility_modifier")
		readonly := hasToken(param, "readonly")
		if mod == nil && !readonly {
			continue
		}

		pattern := param.ChildByFieldName("pattern")
		if pattern == nil {
			pattern = findChildByType(param, "identifier")
		}
		if pattern == nil {
			continue
		}

		prop := tsast.PropertyNode{
			Name:            w.text(pattern),
			Optional:        param.Kind() == "optional_parameter",
			Readonly:        readonly,
			FromConstructor: true,
			Decorators:      w.decorators(param),
			Comment:         cleanComment(precedingComment(param, w.source)),
			Type:            w.annotation(param.ChildByFieldName("type")),
		}
		if mod != nil {
			prop.Accessibility = tsast.Accessibility(w.text(mod))
		}
		props = append(props, prop)
	}
	return props
}

func (w *walker) iface(node *sitter.Node, exported bool, comment string) *tsast.InterfaceNode {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	in := &tsast.InterfaceNode{
		Name:           w.text(nameNode),
		Exported:       exported,
		Comment:        cleanComment(comment),
		TypeParameters: w.typeParameters(node.ChildByFieldName("type_parameters")),
	}

	if ext := findChildByType(node, "extends_type_clause"); ext != nil {
		for _, t := range namedChildren(ext) {
			in.Extends = append(in.Extends, *w.typeExpr(t))
		}
	}

	body := node.ChildByFieldName("body")
	for _, member := range namedChildren(body) {
		if member.Kind() != "property_signature" {
			continue
		}
		prop := tsast.PropertyNode{
			Optional: hasToken(member, "?"),
			Readonly: hasToken(member, "readonly"),
			Comment:  cleanComment(precedingComment(member, w.source)),
			Type:     w.annotation(member.ChildByFieldName("type")),
		}
		if name := member.ChildByFieldName("name"); name != nil {
			prop.Name = unquote(w.text(name))
		}
		in.Properties = append(in.Properties, prop)
	}

	return in
}

func (w *walker) enum(node *sitter.Node, exported bool, comment string) *tsast.EnumNode {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}

	e := &tsast.EnumNode{
		Name:     w.text(nameNode),
		Exported: exported,
		Const:    hasToken(node, "const"),
		Comment:  cleanComment(comment),
	}

	body := node.ChildByFieldName("body")
	for _, member := range namedChildren(body) {
		m := tsast.EnumMember{Comment: cleanComment(precedingComment(member, w.source))}
		switch member.Kind() {
		case "enum_assignment":
			m.Name = unquote(w.text(member.ChildByFieldName("name")))
			m.Value = w.text(member.ChildByFieldName("value"))
		case "property_identifier", "string":
			m.Name = unquote(w.text(member))
		default:
			continue
		}
		e.Members = append(e.Members, m)
	}

	return e
}

func (w *walker) typeParameters(node *sitter.Node) []tsast.TypeParameter {
	var params []tsast.TypeParameter
	for _, tp := range findChildrenByType(node, "type_parameter") {
		param := tsast.TypeParameter{}
		if name := tp.ChildByFieldName("name"); name != nil {
			param.Name = w.text(name)
		}
		if c := findChildByType(tp, "constraint"); c != nil {
			if inner := namedChildren(c); len(inner) > 0 {
				param.Constraint = w.typeExpr(inner[0])
			}
		}
		if d := findChildByType(tp, "default_type"); d != nil {
			if inner := namedChildren(d); len(inner) > 0 {
				param.Default = w.typeExpr(inner[0])
			}
		}
		params = append(params, param)
	}
	return params
}

// annotation unwraps a type_annotation node.
func (w *walker) annotation(node *sitter.Node) *tsast.TypeExpr {
	if node == nil {
		return nil
	}
	if node.Kind() != "type_annotation" {
		return w.typeExpr(node)
	}
	inner := namedChildren(node)
	if len(inner) == 0 {
		return nil
	}
	return w.typeExpr(inner[0])
}

func (w *walker) typeArguments(node *sitter.Node) []tsast.TypeExpr {
	var args []tsast.TypeExpr
	for _, child := range namedChildren(node) {
		args = append(args, *w.typeExpr(child))
	}
	return args
}

func (w *walker) typeExpr(node *sitter.Node) *tsast.TypeExpr {
	text := w.text(node)
	switch node.Kind() {
	case "predefined_type":
		return tsast.Keyword(text)
	case "type_identifier", "nested_type_identifier", "identifier":
		return tsast.Ref(text)
	case "generic_type":
		name := w.text(node.ChildByFieldName("name"))
		var args []tsast.TypeExpr
		if ta := node.ChildByFieldName("type_arguments"); ta != nil {
			args = w.typeArguments(ta)
		}
		return tsast.Ref(name, args...)
	case "array_type":
		inner := namedChildren(node)
		if len(inner) == 0 {
			break
		}
		return tsast.ArrayOf(*w.typeExpr(inner[0]))
	case "readonly_type", "parenthesized_type":
		inner := namedChildren(node)
		if len(inner) == 0 {
			break
		}
		return w.typeExpr(inner[0])
	case "union_type":
		return &tsast.TypeExpr{Kind: tsast.TypeUnion, Args: w.flatten(node, "union_type"), Text: text}
	case "intersection_type":
		return &tsast.TypeExpr{Kind: tsast.TypeIntersection, Args: w.flatten(node, "intersection_type"), Text: text}
	case "literal_type", "null", "undefined", "template_literal_type":
		return tsast.Literal(text)
	case "function_type":
		ret := node.ChildByFieldName("return_type")
		if ret == nil {
			break
		}
		return &tsast.TypeExpr{Kind: tsast.TypeFunction, Args: []tsast.TypeExpr{orOther(w.annotation(ret))}, Text: text}
	case "constructor_type":
		ret := node.ChildByFieldName("type")
		if ret == nil {
			break
		}
		return &tsast.TypeExpr{Kind: tsast.TypeConstructor, Args: []tsast.TypeExpr{orOther(w.annotation(ret))}, Text: text}
	case "type_query":
		// typeof Item names the class constructor.
		inner := namedChildren(node)
		if len(inner) == 0 {
			break
		}
		return &tsast.TypeExpr{Kind: tsast.TypeConstructor, Args: []tsast.TypeExpr{*tsast.Ref(w.text(inner[0]))}, Text: text}
	case "object_type":
		return &tsast.TypeExpr{Kind: tsast.TypeObject, Text: text}
	}
	return &tsast.TypeExpr{Kind: tsast.TypeOther, Text: text}
}

// flatten collects the members of a left-nested binary union or intersection.
func (w *walker) flatten(node *sitter.Node, kind string) []tsast.TypeExpr {
	var members []tsast.TypeExpr
	for _, child := range namedChildren(node) {
		if child.Kind() == kind {
			members = append(members, w.flatten(child, kind)...)
			continue
		}
		members = append(members, *w.typeExpr(child))
	}
	return members
}

func (w *walker) decorators(node *sitter.Node) []tsast.Decorator {
	var out []tsast.Decorator
	for _, d := range findChildrenByType(node, "decorator") {
		out = append(out, w.decorator(d))
	}
	return out
}

func (w *walker) decorator(node *sitter.Node) tsast.Decorator {
	inner := namedChildren(node)
	if len(inner) == 0 {
		return tsast.Decorator{}
	}

	expr := inner[0]
	switch expr.Kind() {
	case "call_expression":
		d := tsast.Decorator{Name: lastSegment(w.text(expr.ChildByFieldName("function")))}
		for _, arg := range namedChildren(expr.ChildByFieldName("arguments")) {
			d.Args = append(d.Args, w.value(arg))
		}
		return d
	default:
		return tsast.Decorator{Name: lastSegment(w.text(expr))}
	}
}

func (w *walker) value(node *sitter.Node) tsast.Value {
	text := w.text(node)
	switch node.Kind() {
	case "number":
		if n, ok := parseNumber(text); ok {
			return tsast.Number(n)
		}
	case "unary_expression":
		if n, ok := parseNumber(strings.ReplaceAll(text, " ", "")); ok {
			return tsast.Number(n)
		}
	case "string", "template_string":
		return tsast.String(unquote(text))
	case "true", "false":
		return tsast.Value{Kind: tsast.ValueBool, Bool: node.Kind() == "true"}
	case "null", "undefined":
		return tsast.Value{Kind: tsast.ValueNull}
	case "object":
		var keys []string
		fields := make(map[string]tsast.Value)
		for _, child := range namedChildren(node) {
			switch child.Kind() {
			case "pair":
				key := unquote(w.text(child.ChildByFieldName("key")))
				if _, dup := fields[key]; !dup {
					keys = append(keys, key)
				}
				fields[key] = w.value(child.ChildByFieldName("value"))
			case "shorthand_property_identifier":
				key := w.text(child)
				if _, dup := fields[key]; !dup {
					keys = append(keys, key)
				}
				fields[key] = tsast.Ident(key)
			}
		}
		return tsast.Object(keys, fields)
	case "array":
		v := tsast.Value{Kind: tsast.ValueArray}
		for _, child := range namedChildren(node) {
			v.Items = append(v.Items, w.value(child))
		}
		return v
	case "arrow_function":
		// @Ref(() => Item) defers evaluation; the body names the target.
		if body := node.ChildByFieldName("body"); body != nil {
			return w.value(body)
		}
	case "parenthesized_expression", "as_expression", "satisfies_expression":
		if inner := namedChildren(node); len(inner) > 0 {
			return w.value(inner[0])
		}
	}
	return tsast.Ident(text)
}

func parseNumber(text string) (float64, bool) {
	clean := strings.ReplaceAll(text, "_", "")
	if n, err := strconv.ParseFloat(clean, 64); err == nil {
		return n, true
	}
	if n, err := strconv.ParseInt(clean, 0, 64); err == nil {
		return float64(n), true
	}
	return 0, false
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}

func orOther(t *tsast.TypeExpr) tsast.TypeExpr {
	if t == nil {
		return tsast.TypeExpr{Kind: tsast.TypeOther}
	}
	return *t
}
