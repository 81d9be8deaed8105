// Package model holds the records produced by extraction and consumed by the
// generators.
package model

// Declaration is one exported class or interface.
type Declaration struct {
	Name        string
	Alias       string
	Comment     string
	Fields      []*Field
	Extends     string
	Implements  []string
	IsInterface bool
	SourcePath  string
	Hash        string

	// OutputOverride and ModuleOverride replace the run-wide defaults when set.
	OutputOverride string
	ModuleOverride string

	// Generics maps a type parameter name to the type it is bound to.
	Generics map[string]string

	Table *TableConfig
}

// Field is one schema field on a declaration. Type is the converted composite
// form (list,number or map,string,Item) before type mapping; SourceType keeps the
// type as written.
type Field struct {
	Name       string
	Type       string
	SourceType string
	Comment    string
	Optional   bool
	Validator  Validator

	IsFactory     bool
	IsConstructor bool
	ElementType   string

	// Relocate is the rendered relocation tag, empty when the field stays put.
	Relocate string
}

// Validator is the constraint metadata attached to a field.
type Validator struct {
	Ref      string
	Range    *Range
	Required bool
	Size     *Size
	Set      []string
	Index    string
	Nominal  bool
}

// IsZero reports whether no constraint is set.
func (v Validator) IsZero() bool {
	return v.Ref == "" && v.Range == nil && !v.Required && v.Size == nil &&
		len(v.Set) == 0 && v.Index == "" && !v.Nominal
}

// Range is a numeric range; a nil bound is open.
type Range struct {
	Min *float64
	Max *float64
}

// Size constrains container length: Exact when Min == Max.
type Size struct {
	Min int
	Max int
}

// Exact reports whether the size pins a single length.
func (s Size) Exact() bool { return s.Min == s.Max }

// TableMode is the access mode of a table root.
type TableMode string

const (
	TableMap       TableMode = "map"
	TableList      TableMode = "list"
	TableOne       TableMode = "one"
	TableSingleton TableMode = "singleton"
)

// TableConfig marks a class as a table root.
type TableConfig struct {
	Mode   TableMode
	Index  string
	Name   string
	Input  string
	Output string
}

// Enum is one exported enum.
type Enum struct {
	Name       string
	Alias      string
	Comment    string
	IsString   bool
	IsFlags    bool
	Variants   []EnumVariant
	SourcePath string
	Hash       string

	OutputOverride string
	ModuleOverride string
}

// EnumVariant is one enum member.
type EnumVariant struct {
	Name    string
	Alias   string
	Value   string
	Comment string
}

// Module returns the effective logical module of a declaration.
func (d *Declaration) Module(defaultModule string) string {
	if d.ModuleOverride != "" {
		return d.ModuleOverride
	}
	return defaultModule
}

// Output returns the effective output destination of a declaration.
func (d *Declaration) Output(defaultOutput string) string {
	if d.OutputOverride != "" {
		return d.OutputOverride
	}
	return defaultOutput
}

// Module returns the effective logical module of an enum.
func (e *Enum) Module(defaultModule string) string {
	if e.ModuleOverride != "" {
		return e.ModuleOverride
	}
	return defaultModule
}

// Output returns the effective output destination of an enum.
func (e *Enum) Output(defaultOutput string) string {
	if e.OutputOverride != "" {
		return e.OutputOverride
	}
	return defaultOutput
}

// HasField reports whether a field with the given name exists.
func (d *Declaration) HasField(name string) bool {
	for _, f := range d.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// Field returns the named field or nil.
func (d *Declaration) Field(name string) *Field {
	for _, f := range d.Fields {
		if f.Name == name {
			return f
		}
	}
	return nil
}

// RelocateTag renders a relocation directive as a schema tag string.
func RelocateTag(to, prefix, bean string) string {
	tag := "relocateTo=" + to + ",prefix=" + prefix
	if bean != "" {
		tag += ",targetBean=" + bean
	}
	return tag
}
