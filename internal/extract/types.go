package extract

import (
	"strings"

	"github.com/mvp-joe/beancraft/internal/tsast"
)

// fallbackType is used for any construct the converter does not understand.
const fallbackType = "string"

// converter turns declared types into composite type strings. Generic
// parameters are replaced by their bindings.
type converter struct {
	generics map[string]string
}

func (c converter) convert(t *tsast.TypeExpr) string {
	if t == nil {
		return fallbackType
	}

	switch t.Kind {
	case tsast.TypeKeyword:
		return c.keyword(t.Name)

	case tsast.TypeReference:
		return c.reference(t)

	case tsast.TypeArray:
		return "list," + c.element(t.Args, 0)

	case tsast.TypeUnion:
		for i := range t.Args {
			if !t.Args[i].IsNullish() {
				return c.convert(&t.Args[i])
			}
		}
		return fallbackType

	case tsast.TypeIntersection:
		// Branded types: number & { __brand: "Id" } stores as number.
		for i := range t.Args {
			if t.Args[i].Kind != tsast.TypeObject && !isBrandRef(&t.Args[i]) {
				return c.convert(&t.Args[i])
			}
		}
		return fallbackType

	case tsast.TypeLiteral:
		return literalType(t.Text)

	case tsast.TypeFunction, tsast.TypeConstructor:
		return c.element(t.Args, 0)
	}

	return fallbackType
}

func (c converter) keyword(name string) string {
	switch name {
	case "number", "string", "boolean", "bigint":
		return name
	}
	return fallbackType
}

func (c converter) reference(t *tsast.TypeExpr) string {
	if bound, ok := c.generics[t.Name]; ok && len(t.Args) == 0 {
		return bound
	}

	switch t.Name {
	case "Array", "ReadonlyArray":
		return "list," + c.element(t.Args, 0)
	case "Set", "ReadonlySet":
		return "set," + c.element(t.Args, 0)
	case "Map", "ReadonlyMap", "Record":
		return "map," + c.element(t.Args, 0) + "," + c.element(t.Args, 1)
	case "Partial", "Readonly", "Required", "NonNullable", "Factory", "Constructor":
		if len(t.Args) == 0 {
			return fallbackType
		}
		return c.convert(&t.Args[0])
	case "String":
		return "string"
	case "Number":
		return "number"
	case "Boolean":
		return "boolean"
	case "Date":
		return "datetime"
	}

	return lastSegment(t.Name)
}

// element converts args[i], defaulting to string when the argument is absent.
func (c converter) element(args []tsast.TypeExpr, i int) string {
	if i >= len(args) {
		return fallbackType
	}
	return c.convert(&args[i])
}

func literalType(text string) string {
	switch {
	case text == "true" || text == "false":
		return "boolean"
	case strings.HasPrefix(text, `"`), strings.HasPrefix(text, "'"), strings.HasPrefix(text, "`"):
		return "string"
	}
	if _, ok := parseInt(text); ok {
		return "number"
	}
	if len(text) > 0 && (text[0] == '-' || text[0] == '.' || (text[0] >= '0' && text[0] <= '9')) {
		return "number"
	}
	return fallbackType
}

// firstNonNullish strips null and undefined members from a union.
func firstNonNullish(t *tsast.TypeExpr) (*tsast.TypeExpr, bool) {
	if t == nil || t.Kind != tsast.TypeUnion {
		return t, false
	}
	var found *tsast.TypeExpr
	nullable := false
	for i := range t.Args {
		if t.Args[i].IsNullish() {
			nullable = true
			continue
		}
		if found == nil {
			found = &t.Args[i]
		}
	}
	return found, nullable
}

// isBranded reports whether t is a nominal intersection such as
// number & { __brand: "Id" } or number & Brand<"Id">.
func isBranded(t *tsast.TypeExpr) bool {
	if t == nil || t.Kind != tsast.TypeIntersection {
		return false
	}
	for i := range t.Args {
		arg := &t.Args[i]
		if isBrandRef(arg) {
			return true
		}
		if arg.Kind == tsast.TypeObject {
			for _, marker := range reservedFields {
				if strings.Contains(arg.Text, marker) {
					return true
				}
			}
		}
	}
	return false
}

func isBrandRef(t *tsast.TypeExpr) bool {
	if t.Kind != tsast.TypeReference {
		return false
	}
	switch lastSegment(t.Name) {
	case "Brand", "Branded", "Nominal", "Tagged":
		return true
	}
	return false
}

// wrapper reports the factory or constructor wrapper of a field type.
func wrapper(t *tsast.TypeExpr) (factory, constructor bool) {
	if t == nil {
		return false, false
	}
	switch t.Kind {
	case tsast.TypeFunction:
		return true, false
	case tsast.TypeConstructor:
		return false, true
	case tsast.TypeReference:
		switch lastSegment(t.Name) {
		case "Factory":
			return true, false
		case "Constructor":
			return false, true
		}
	}
	return false, false
}

func lastSegment(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
