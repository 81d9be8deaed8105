package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-openapi/inflect"
	"go.uber.org/zap"
)

// NamePlaceholder is replaced by the class name in table rules.
const NamePlaceholder = "{name}"

// CompiledParentRule is a ParentRule with its pattern compiled.
type CompiledParentRule struct {
	Pattern *regexp.Regexp
	Parent  string
}

// CompiledTableRule is a TableRule with its pattern compiled.
type CompiledTableRule struct {
	Pattern *regexp.Regexp
	Rule    TableRule
}

// CompileParentRules compiles rules in order. Rules whose pattern does not
// compile are dropped and logged; the rest keep their relative order.
func CompileParentRules(rules []ParentRule, logger *zap.Logger) []CompiledParentRule {
	if logger == nil {
		logger = zap.NewNop()
	}
	compiled := make([]CompiledParentRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			logger.Warn("dropping parent rule with invalid pattern",
				zap.String("pattern", r.Pattern), zap.Error(err))
			continue
		}
		compiled = append(compiled, CompiledParentRule{Pattern: re, Parent: r.Parent})
	}
	return compiled
}

// CompileTableRules compiles table rules in order, dropping invalid patterns.
func CompileTableRules(rules []TableRule, logger *zap.Logger) []CompiledTableRule {
	if logger == nil {
		logger = zap.NewNop()
	}
	compiled := make([]CompiledTableRule, 0, len(rules))
	for _, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			logger.Warn("dropping table rule with invalid pattern",
				zap.String("pattern", r.Pattern), zap.Error(err))
			continue
		}
		compiled = append(compiled, CompiledTableRule{Pattern: re, Rule: r})
	}
	return compiled
}

// Expand returns the rule's entry for className: {name} becomes the kebab-cased
// class name in input and output, and the class name as written in name.
func (r CompiledTableRule) Expand(className string) TableEntry {
	kebab := KebabCase(className)
	return TableEntry{
		Input:  strings.ReplaceAll(r.Rule.Input, NamePlaceholder, kebab),
		Output: strings.ReplaceAll(r.Rule.Output, NamePlaceholder, kebab),
		Name:   strings.ReplaceAll(r.Rule.Name, NamePlaceholder, className),
		Mode:   r.Rule.Mode,
		Index:  r.Rule.Index,
	}
}

// KebabCase converts ItemConfig to item-config.
func KebabCase(name string) string {
	return strings.ReplaceAll(inflect.Underscore(name), "_", "-")
}

// TableEntries converts the raw entries map into typed entries. A string value
// is the input path; an object value carries every field. Keys are lower-cased
// because viper folds map keys; look entries up with LookupTableEntry.
func (t TablesConfig) TableEntries() (map[string]TableEntry, error) {
	out := make(map[string]TableEntry, len(t.Entries))
	for name, raw := range t.Entries {
		entry, err := decodeTableEntry(raw)
		if err != nil {
			return nil, fmt.Errorf("tables.entries.%s: %w", name, err)
		}
		out[strings.ToLower(name)] = entry
	}
	return out, nil
}

// LookupTableEntry finds className in entries case-insensitively.
func LookupTableEntry(entries map[string]TableEntry, className string) (TableEntry, bool) {
	e, ok := entries[strings.ToLower(className)]
	return e, ok
}

func decodeTableEntry(raw any) (TableEntry, error) {
	switch v := raw.(type) {
	case string:
		return TableEntry{Input: v}, nil
	case TableEntry:
		return v, nil
	case map[string]any:
		return TableEntry{
			Input:  stringField(v, "input"),
			Output: stringField(v, "output"),
			Name:   stringField(v, "name"),
			Mode:   stringField(v, "mode"),
			Index:  stringField(v, "index"),
		}, nil
	case map[any]any:
		m := make(map[string]any, len(v))
		for k, val := range v {
			m[fmt.Sprint(k)] = val
		}
		return decodeTableEntry(m)
	case nil:
		return TableEntry{}, nil
	}
	return TableEntry{}, fmt.Errorf("%w: expected string or object, got %T", ErrInvalidTableEntry, raw)
}

func stringField(m map[string]any, key string) string {
	for k, v := range m {
		if strings.EqualFold(k, key) {
			if s, ok := v.(string); ok {
				return s
			}
			return fmt.Sprint(v)
		}
	}
	return ""
}
