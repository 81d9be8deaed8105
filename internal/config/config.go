package config

// DirName is the per-project configuration directory.
const DirName = ".beancraft"

// Config represents the complete beancraft configuration.
// It can be loaded from .beancraft/config.yml with environment variable overrides.
type Config struct {
	Sources       []string            `yaml:"sources" mapstructure:"sources"` // files or directories to scan
	Include       []string            `yaml:"include" mapstructure:"include"` // glob patterns for source files
	Ignore        []string            `yaml:"ignore" mapstructure:"ignore"`   // glob patterns to skip
	Schema        SchemaConfig        `yaml:"schema" mapstructure:"schema"`
	Codegen       CodegenConfig       `yaml:"codegen" mapstructure:"codegen"`
	Tables        TablesConfig        `yaml:"tables" mapstructure:"tables"`
	TypeMappings  map[string]string   `yaml:"type_mappings" mapstructure:"type_mappings"`
	VirtualFields []VirtualFieldBlock `yaml:"virtual_fields" mapstructure:"virtual_fields"`
	Cache         CacheConfig         `yaml:"cache" mapstructure:"cache"`
}

// SchemaConfig controls the XML schema documents.
type SchemaConfig struct {
	Module          string       `yaml:"module" mapstructure:"module"`                       // default logical module
	Output          string       `yaml:"output" mapstructure:"output"`                       // default beans document
	EnumOutput      string       `yaml:"enum_output" mapstructure:"enum_output"`             // default enums document
	BeanTypes       bool         `yaml:"bean_types" mapstructure:"bean_types"`               // emit per-parent bean type enums
	BeanTypesOutput string       `yaml:"bean_types_output" mapstructure:"bean_types_output"` // bean type enums document
	DefaultParent   string       `yaml:"default_parent" mapstructure:"default_parent"`       // parent when no rule matches
	Parents         []ParentRule `yaml:"parents" mapstructure:"parents"`                     // ordered, first match wins
}

// ParentRule assigns Parent to every class whose name matches Pattern.
type ParentRule struct {
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
	Parent  string `yaml:"parent" mapstructure:"parent"`
}

// CodegenConfig controls the companion TypeScript artifacts.
type CodegenConfig struct {
	Enabled     bool   `yaml:"enabled" mapstructure:"enabled"`
	OutputDir   string `yaml:"output_dir" mapstructure:"output_dir"`
	TablesFile  string `yaml:"tables_file" mapstructure:"tables_file"`
	BeansFile   string `yaml:"beans_file" mapstructure:"beans_file"`
	ImportLimit int    `yaml:"import_limit" mapstructure:"import_limit"` // max imported identifiers per file
}

// TablesConfig declares table roots outside of source decorators.
type TablesConfig struct {
	Rules   []TableRule    `yaml:"rules" mapstructure:"rules"`     // ordered, first match wins
	Entries map[string]any `yaml:"entries" mapstructure:"entries"` // name -> "input" or {input,output,name,mode,index}
}

// TableRule makes every class matching Pattern a table root. Input, Output and
// Name may contain {name}.
type TableRule struct {
	Pattern string `yaml:"pattern" mapstructure:"pattern"`
	Input   string `yaml:"input" mapstructure:"input"`
	Output  string `yaml:"output" mapstructure:"output"`
	Name    string `yaml:"name" mapstructure:"name"`
	Mode    string `yaml:"mode" mapstructure:"mode"`
	Index   string `yaml:"index" mapstructure:"index"`
}

// TableEntry is the per-class table configuration.
type TableEntry struct {
	Input  string `yaml:"input" mapstructure:"input"`
	Output string `yaml:"output" mapstructure:"output"`
	Name   string `yaml:"name" mapstructure:"name"`
	Mode   string `yaml:"mode" mapstructure:"mode"`
	Index  string `yaml:"index" mapstructure:"index"`
}

// VirtualFieldBlock appends synthetic fields to the Target declaration.
type VirtualFieldBlock struct {
	Target string             `yaml:"target" mapstructure:"target"`
	Fields []VirtualFieldSpec `yaml:"fields" mapstructure:"fields"`
}

// VirtualFieldSpec describes one synthetic field.
type VirtualFieldSpec struct {
	Name     string          `yaml:"name" mapstructure:"name"`
	Type     string          `yaml:"type" mapstructure:"type"`
	Optional bool            `yaml:"optional" mapstructure:"optional"`
	Comment  string          `yaml:"comment" mapstructure:"comment"`
	Relocate *RelocateConfig `yaml:"relocate" mapstructure:"relocate"`
}

// RelocateConfig moves a field into another bean with a name prefix.
type RelocateConfig struct {
	To     string `yaml:"to" mapstructure:"to"`
	Prefix string `yaml:"prefix" mapstructure:"prefix"`
	Bean   string `yaml:"bean" mapstructure:"bean"`
}

// CacheConfig defines where the incremental cache lives.
type CacheConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Path    string `yaml:"path" mapstructure:"path"` // relative to the project root
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Sources: []string{"src"},
		Include: []string{
			"**/*.ts",
		},
		Ignore: []string{
			"node_modules/**",
			"**/*.d.ts",
			"**/*.spec.ts",
			"**/*.test.ts",
		},
		Schema: SchemaConfig{
			Module:          "",
			Output:          "defines/beans.xml",
			EnumOutput:      "defines/enums.xml",
			BeanTypes:       false,
			BeanTypesOutput: "defines/bean_types.xml",
			DefaultParent:   "TsClass",
		},
		Codegen: CodegenConfig{
			Enabled:     true,
			OutputDir:   "gen",
			TablesFile:  "tables.ts",
			BeansFile:   "beans.ts",
			ImportLimit: 100,
		},
		TypeMappings: map[string]string{},
		Cache: CacheConfig{
			Enabled: true,
			Path:    DirName + "/cache.json",
		},
	}
}
