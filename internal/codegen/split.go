package codegen

import "sort"

// Entry is one beans dictionary entry: Key maps to the class Name imported
// from Specifier.
type Entry struct {
	Key       string
	Name      string
	Specifier string
}

// importCount is the number of distinct identifiers a set of entries imports.
func importCount(entries []Entry) int {
	seen := make(map[string]bool, len(entries))
	for _, e := range entries {
		seen[e.Name] = true
	}
	return len(seen)
}

// SortEntries orders entries by key, then name.
func SortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Key != entries[j].Key {
			return entries[i].Key < entries[j].Key
		}
		return entries[i].Name < entries[j].Name
	})
}

// Chunk partitions sorted entries into contiguous chunks whose distinct import
// count never exceeds limit. A new chunk starts whenever the next entry would
// push the current one past the limit. Entries whose identifier is already
// imported by the current chunk cost nothing.
func Chunk(entries []Entry, limit int) [][]Entry {
	if limit < 1 {
		limit = 1
	}

	var chunks [][]Entry
	var current []Entry
	names := make(map[string]bool)

	for _, e := range entries {
		if !names[e.Name] && len(names)+1 > limit {
			chunks = append(chunks, current)
			current = nil
			names = make(map[string]bool)
		}
		current = append(current, e)
		names[e.Name] = true
	}
	if len(current) > 0 {
		chunks = append(chunks, current)
	}
	return chunks
}
