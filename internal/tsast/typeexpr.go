package tsast

// TypeKind tags a TypeExpr.
type TypeKind int

const (
	// TypeOther is any construct the converter does not understand; Text keeps the source.
	TypeOther TypeKind = iota
	// TypeKeyword is a predefined type such as number or string.
	TypeKeyword
	// TypeReference is a named type, possibly generic (Name + Args).
	TypeReference
	// TypeArray is Elem[].
	TypeArray
	// TypeUnion is A | B | ...
	TypeUnion
	// TypeIntersection is A & B & ...
	TypeIntersection
	// TypeLiteral is a literal type; Text is the literal source ("'a'", "1", "null").
	TypeLiteral
	// TypeFunction is () => T; Args[0] is the return type.
	TypeFunction
	// TypeConstructor is new () => T; Args[0] is the instance type.
	TypeConstructor
	// TypeObject is an inline object type literal.
	TypeObject
)

// TypeExpr is a tagged variant describing a declared type.
type TypeExpr struct {
	Kind TypeKind
	Name string
	Args []TypeExpr
	Text string
}

// Keyword builds a keyword type.
func Keyword(name string) *TypeExpr { return &TypeExpr{Kind: TypeKeyword, Name: name, Text: name} }

// Ref builds a (possibly generic) reference type.
func Ref(name string, args ...TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeReference, Name: name, Args: args, Text: name}
}

// ArrayOf builds elem[].
func ArrayOf(elem TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeArray, Args: []TypeExpr{elem}, Text: elem.Text + "[]"}
}

// UnionOf builds a union of members.
func UnionOf(members ...TypeExpr) *TypeExpr {
	return &TypeExpr{Kind: TypeUnion, Args: members}
}

// Literal builds a literal type from its source text.
func Literal(text string) *TypeExpr { return &TypeExpr{Kind: TypeLiteral, Text: text} }

// IsNullish reports whether the type is null, undefined or void.
func (t *TypeExpr) IsNullish() bool {
	if t == nil {
		return true
	}
	switch t.Kind {
	case TypeKeyword, TypeLiteral, TypeReference:
		switch t.Text {
		case "null", "undefined", "void":
			return true
		}
		switch t.Name {
		case "null", "undefined", "void":
			return true
		}
	}
	return false
}
