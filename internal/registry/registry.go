// Package registry indexes table-root declarations and resolves references to
// their fully-qualified table names.
package registry

import "sort"

// TableSuffix is appended to a class name to form its table type name.
const TableSuffix = "Table"

// Entry is the registry record for one table root.
type Entry struct {
	Namespace string
	BeanName  string
	TableName string
	FullRef   string
}

// TableRegistry maps class names to table entries. It is filled once after
// extraction and only read afterwards.
type TableRegistry struct {
	entries map[string]Entry
}

// New returns an empty registry.
func New() *TableRegistry {
	return &TableRegistry{entries: make(map[string]Entry)}
}

// Register records className as a table root in namespace. Registering the same
// name again replaces the earlier entry.
func (r *TableRegistry) Register(className, namespace string) Entry {
	e := NewEntry(className, namespace)
	r.entries[className] = e
	return e
}

// NewEntry derives an entry purely from a class name and namespace.
func NewEntry(className, namespace string) Entry {
	table := className + TableSuffix
	full := table
	if namespace != "" {
		full = namespace + "." + table
	}
	return Entry{
		Namespace: namespace,
		BeanName:  className,
		TableName: table,
		FullRef:   full,
	}
}

// ResolveRef returns the fully-qualified table reference for className.
func (r *TableRegistry) ResolveRef(className string) (string, bool) {
	e, ok := r.entries[className]
	if !ok {
		return "", false
	}
	return e.FullRef, true
}

// Lookup returns the entry registered for className.
func (r *TableRegistry) Lookup(className string) (Entry, bool) {
	e, ok := r.entries[className]
	return e, ok
}

// Entries returns all entries sorted by table name.
func (r *TableRegistry) Entries() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TableName < out[j].TableName })
	return out
}

// Len returns the number of registered tables.
func (r *TableRegistry) Len() int { return len(r.entries) }
