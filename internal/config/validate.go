package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSources indicates no source locations were configured
	ErrNoSources = errors.New("no sources configured")

	// ErrEmptyInclude indicates missing include patterns
	ErrEmptyInclude = errors.New("empty include patterns")

	// ErrEmptyOutput indicates a missing schema output path
	ErrEmptyOutput = errors.New("empty schema output")

	// ErrInvalidImportLimit indicates a non-positive per-file import limit
	ErrInvalidImportLimit = errors.New("invalid import limit")

	// ErrInvalidTableMode indicates an unknown table access mode
	ErrInvalidTableMode = errors.New("invalid table mode")

	// ErrInvalidTableEntry indicates a table entry of the wrong shape
	ErrInvalidTableEntry = errors.New("invalid table entry")

	// ErrInvalidVirtualField indicates a synthetic field block missing data
	ErrInvalidVirtualField = errors.New("invalid virtual field")

	// ErrEmptyCachePath indicates the cache is enabled without a path
	ErrEmptyCachePath = errors.New("empty cache path")
)

var validTableModes = map[string]bool{
	"":          true,
	"map":       true,
	"list":      true,
	"one":       true,
	"singleton": true,
}

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validatePaths(cfg); err != nil {
		errs = append(errs, err)
	}

	if err := validateSchema(&cfg.Schema); err != nil {
		errs = append(errs, err)
	}

	if err := validateCodegen(&cfg.Codegen); err != nil {
		errs = append(errs, err)
	}

	if err := validateTables(&cfg.Tables); err != nil {
		errs = append(errs, err)
	}

	if err := validateVirtualFields(cfg.VirtualFields); err != nil {
		errs = append(errs, err)
	}

	if cfg.Cache.Enabled && strings.TrimSpace(cfg.Cache.Path) == "" {
		errs = append(errs, fmt.Errorf("%w: cache.path is required when the cache is enabled", ErrEmptyCachePath))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validatePaths(cfg *Config) error {
	var errs []error

	if len(cfg.Sources) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one source directory or file required", ErrNoSources))
	}

	if len(cfg.Include) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one include pattern required", ErrEmptyInclude))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateSchema(cfg *SchemaConfig) error {
	var errs []error

	if strings.TrimSpace(cfg.Output) == "" {
		errs = append(errs, fmt.Errorf("%w: schema.output is required", ErrEmptyOutput))
	}

	if strings.TrimSpace(cfg.EnumOutput) == "" {
		errs = append(errs, fmt.Errorf("%w: schema.enum_output is required", ErrEmptyOutput))
	}

	if cfg.BeanTypes && strings.TrimSpace(cfg.BeanTypesOutput) == "" {
		errs = append(errs, fmt.Errorf("%w: schema.bean_types_output is required when bean_types is on", ErrEmptyOutput))
	}

	// Invalid regex patterns are not an error here: they are dropped at compile time.

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateCodegen(cfg *CodegenConfig) error {
	if !cfg.Enabled {
		return nil
	}

	var errs []error

	if cfg.ImportLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: import_limit must be positive, got %d", ErrInvalidImportLimit, cfg.ImportLimit))
	}

	if strings.TrimSpace(cfg.TablesFile) == "" || strings.TrimSpace(cfg.BeansFile) == "" {
		errs = append(errs, fmt.Errorf("%w: codegen.tables_file and codegen.beans_file are required", ErrEmptyOutput))
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateTables(cfg *TablesConfig) error {
	var errs []error

	for _, rule := range cfg.Rules {
		if !validTableModes[strings.ToLower(rule.Mode)] {
			errs = append(errs, fmt.Errorf("%w: rule %q has mode %q (valid: map, list, one, singleton)", ErrInvalidTableMode, rule.Pattern, rule.Mode))
		}
	}

	entries, err := cfg.TableEntries()
	if err != nil {
		errs = append(errs, err)
	}
	for name, entry := range entries {
		if !validTableModes[strings.ToLower(entry.Mode)] {
			errs = append(errs, fmt.Errorf("%w: entry %q has mode %q (valid: map, list, one, singleton)", ErrInvalidTableMode, name, entry.Mode))
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

func validateVirtualFields(blocks []VirtualFieldBlock) error {
	var errs []error

	for i, block := range blocks {
		if strings.TrimSpace(block.Target) == "" {
			errs = append(errs, fmt.Errorf("%w: virtual_fields[%d] has no target", ErrInvalidVirtualField, i))
		}
		for j, f := range block.Fields {
			if strings.TrimSpace(f.Name) == "" || strings.TrimSpace(f.Type) == "" {
				errs = append(errs, fmt.Errorf("%w: virtual_fields[%d].fields[%d] needs name and type", ErrInvalidVirtualField, i, j))
			}
		}
	}

	if len(errs) > 0 {
		return joinErrors(errs)
	}

	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	var msgs []string
	for _, err := range errs {
		msgs = append(msgs, err.Error())
	}

	return fmt.Errorf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}
