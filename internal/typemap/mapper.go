// Package typemap maps source type names onto schema type tokens.
package typemap

import "strings"

// builtins are the primitive mappings every run starts from. Keys are lower-case.
var builtins = map[string]string{
	// numeric
	"number":  "double",
	"double":  "double",
	"float":   "float",
	"int":     "int",
	"integer": "int",
	"long":    "long",
	"int64":   "long",
	"bigint":  "long",
	"short":   "short",
	"byte":    "byte",

	// text and boolean
	"string":  "string",
	"text":    "text",
	"boolean": "bool",
	"bool":    "bool",

	// engine value types
	"vector2":  "vector2",
	"vector3":  "vector3",
	"vector4":  "vector4",
	"vec2":     "vector2",
	"vec3":     "vector3",
	"vec4":     "vector4",
	"datetime": "datetime",
	"date":     "datetime",

	// identifiers
	"id":   "int",
	"uid":  "long",
	"uuid": "string",
}

// Mapper is the merged built-in + custom lookup table.
type Mapper struct {
	table map[string]string
}

// New returns a mapper with custom mappings laid over the built-ins. Custom
// entries win on collision; keys are matched case-insensitively.
func New(custom map[string]string) *Mapper {
	table := make(map[string]string, len(builtins)+len(custom))
	for k, v := range builtins {
		table[k] = v
	}
	for k, v := range custom {
		table[strings.ToLower(strings.TrimSpace(k))] = strings.TrimSpace(v)
	}
	return &Mapper{table: table}
}

// Map maps a single type name. Unknown names pass through unchanged so that
// schema-native names need no entry.
func (m *Mapper) Map(typeName string) string {
	if mapped, ok := m.table[strings.ToLower(typeName)]; ok {
		return mapped
	}
	return typeName
}

// MapFullType maps a composite type string such as "list,number" or
// "map,string,number". Only one level of container is understood; anything
// deeper is passed through as-is.
func (m *Mapper) MapFullType(full string) string {
	kind, rest, ok := strings.Cut(full, ",")
	if !ok {
		return m.Map(full)
	}
	switch kind {
	case "list", "set", "array":
		return kind + "," + m.Map(rest)
	case "map":
		key, value, ok := strings.Cut(rest, ",")
		if !ok {
			return kind + "," + m.Map(rest)
		}
		return kind + "," + m.Map(key) + "," + m.Map(value)
	}
	return m.Map(full)
}

// Container splits a mapped composite type into its kind and remaining parts.
// For non-composites kind is empty.
func Container(full string) (kind string, parts []string) {
	k, rest, ok := strings.Cut(full, ",")
	if !ok {
		return "", []string{full}
	}
	switch k {
	case "list", "set", "array":
		return k, []string{rest}
	case "map":
		key, value, ok := strings.Cut(rest, ",")
		if !ok {
			return k, []string{rest}
		}
		return k, []string{key, value}
	}
	return "", []string{full}
}

// IsList reports whether a mapped type is a list composite.
func IsList(full string) bool {
	kind, _ := Container(full)
	return kind == "list" || kind == "array"
}
