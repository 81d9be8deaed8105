// Package resolve runs the single-threaded passes over the aggregated
// declaration set: schema parents, virtual fields and table configuration.
package resolve

import (
	"github.com/mvp-joe/beancraft/internal/config"
	"github.com/mvp-joe/beancraft/internal/model"
)

// BaseClassResolver picks the schema parent of each declaration.
//
// Interfaces keep their declared extends. Classes take the parent of the first
// rule whose pattern matches the class name, else the default parent; a class's
// own extends and implements clauses never contribute.
type BaseClassResolver struct {
	rules         []config.CompiledParentRule
	defaultParent string
}

// NewBaseClassResolver creates a resolver over rules in priority order.
func NewBaseClassResolver(rules []config.CompiledParentRule, defaultParent string) *BaseClassResolver {
	return &BaseClassResolver{rules: rules, defaultParent: defaultParent}
}

// Resolve returns the parent name, or "" for none.
func (r *BaseClassResolver) Resolve(d *model.Declaration) string {
	if d.IsInterface {
		return d.Extends
	}

	parent := r.defaultParent
	for _, rule := range r.rules {
		if rule.Pattern.MatchString(d.Name) {
			parent = rule.Parent
			break
		}
	}

	// The root class itself has no parent.
	if parent == d.Name {
		return ""
	}
	return parent
}

// ResolveAll returns the parent of every declaration keyed by name.
func (r *BaseClassResolver) ResolveAll(decls []*model.Declaration) map[string]string {
	out := make(map[string]string, len(decls))
	for _, d := range decls {
		out[d.Name] = r.Resolve(d)
	}
	return out
}
