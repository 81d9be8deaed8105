package tsast

import "strconv"

// ValueKind tags a decorator argument Value.
type ValueKind int

const (
	ValueNull ValueKind = iota
	ValueNumber
	ValueString
	ValueBool
	ValueIdent
	ValueObject
	ValueArray
)

// Decorator is a parsed decorator: @Name or @Name(args...).
type Decorator struct {
	Name string
	Args []Value
}

// Value is a decorator argument. Object keys keep their source order.
type Value struct {
	Kind   ValueKind
	Num    float64
	Str    string
	Bool   bool
	Keys   []string
	Fields map[string]Value
	Items  []Value
}

// Number builds a numeric value.
func Number(n float64) Value { return Value{Kind: ValueNumber, Num: n} }

// String builds a string value.
func String(s string) Value { return Value{Kind: ValueString, Str: s} }

// Ident builds an identifier value (also used for member expressions like A.B).
func Ident(s string) Value { return Value{Kind: ValueIdent, Str: s} }

// Object builds an object value; keys fixes the field order.
func Object(keys []string, fields map[string]Value) Value {
	return Value{Kind: ValueObject, Keys: keys, Fields: fields}
}

// Field returns an object field and whether it was present.
func (v Value) Field(key string) (Value, bool) {
	if v.Kind != ValueObject {
		return Value{}, false
	}
	f, ok := v.Fields[key]
	return f, ok
}

// Text renders a scalar value the way it would be written in a schema attribute.
func (v Value) Text() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'f', -1, 64)
	case ValueString, ValueIdent:
		return v.Str
	case ValueBool:
		return strconv.FormatBool(v.Bool)
	}
	return ""
}

// AsNumber returns the numeric form of a number or numeric string.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case ValueNumber:
		return v.Num, true
	case ValueString:
		n, err := strconv.ParseFloat(v.Str, 64)
		return n, err == nil
	}
	return 0, false
}

// AsInt returns the integer form of a numeric value.
func (v Value) AsInt() (int, bool) {
	n, ok := v.AsNumber()
	if !ok {
		return 0, false
	}
	return int(n), true
}
