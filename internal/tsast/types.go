// Package tsast is the parser-neutral declaration tree handed to the extractor.
//
// A parser adapter (see internal/parser) turns one source file into a File holding
// class, interface and enum nodes. Nothing downstream of extraction sees these
// types; they exist so that decorator interpretation and type conversion are pure
// functions over plain data.
package tsast

// File is the parse result for one source file.
type File struct {
	Path  string
	Hash  string
	Nodes []Node
}

// Node is a top-level declaration: *ClassNode, *InterfaceNode or *EnumNode.
type Node interface {
	NodeName() string
	node()
}

// ClassNode is a class declaration.
type ClassNode struct {
	Name           string
	Exported       bool
	Abstract       bool
	Comment        string
	Decorators     []Decorator
	TypeParameters []TypeParameter
	Extends        *TypeExpr
	Implements     []TypeExpr
	Properties     []PropertyNode
}

// InterfaceNode is an interface declaration.
type InterfaceNode struct {
	Name           string
	Exported       bool
	Comment        string
	TypeParameters []TypeParameter
	Extends        []TypeExpr
	Properties     []PropertyNode
}

// EnumNode is an enum declaration.
type EnumNode struct {
	Name     string
	Exported bool
	Const    bool
	Comment  string
	Members  []EnumMember
}

func (n *ClassNode) NodeName() string     { return n.Name }
func (n *InterfaceNode) NodeName() string { return n.Name }
func (n *EnumNode) NodeName() string      { return n.Name }

func (*ClassNode) node()     {}
func (*InterfaceNode) node() {}
func (*EnumNode) node()      {}

// Accessibility of a class member.
type Accessibility string

const (
	AccessDefault   Accessibility = ""
	AccessPublic    Accessibility = "public"
	AccessProtected Accessibility = "protected"
	AccessPrivate   Accessibility = "private"
)

// PropertyNode is a class property, a constructor parameter property or an
// interface property signature.
type PropertyNode struct {
	Name            string
	Type            *TypeExpr
	Optional        bool
	Readonly        bool
	Static          bool
	Accessibility   Accessibility
	FromConstructor bool
	Comment         string
	Decorators      []Decorator
}

// TypeParameter is one generic parameter with its optional constraint and default.
type TypeParameter struct {
	Name       string
	Constraint *TypeExpr
	Default    *TypeExpr
}

// EnumMember is one enum member. Value holds the initializer source text, empty
// when the member has no initializer.
type EnumMember struct {
	Name    string
	Value   string
	Comment string
}
