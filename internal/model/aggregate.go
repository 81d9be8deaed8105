package model

import "sort"

// FileResult is what extraction produced for one source file.
type FileResult struct {
	Path         string
	Hash         string
	Declarations []*Declaration
	Enums        []*Enum
	Err          error
}

// Aggregate is the full declaration set of a run, built once by the fan-in after
// parallel extraction and handed to every later stage.
type Aggregate struct {
	Declarations []*Declaration
	Enums        []*Enum
	FailedFiles  []string

	byName map[string]*Declaration
}

// Duplicate records a declaration name seen in more than one file.
type Duplicate struct {
	Name    string
	Kept    string
	Dropped string
}

// NewAggregate merges per-file results into a single set. Results are ordered
// by path first so the outcome does not depend on arrival order; when two files
// declare the same name the first path wins and the other is reported.
func NewAggregate(results []FileResult) (*Aggregate, []Duplicate) {
	sorted := make([]FileResult, len(results))
	copy(sorted, results)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	agg := &Aggregate{byName: make(map[string]*Declaration)}
	enums := make(map[string]*Enum)
	var dups []Duplicate

	for _, r := range sorted {
		if r.Err != nil {
			agg.FailedFiles = append(agg.FailedFiles, r.Path)
			continue
		}
		for _, d := range r.Declarations {
			if existing, ok := agg.byName[d.Name]; ok {
				dups = append(dups, Duplicate{Name: d.Name, Kept: existing.SourcePath, Dropped: d.SourcePath})
				continue
			}
			agg.byName[d.Name] = d
			agg.Declarations = append(agg.Declarations, d)
		}
		for _, e := range r.Enums {
			if existing, ok := enums[e.Name]; ok {
				dups = append(dups, Duplicate{Name: e.Name, Kept: existing.SourcePath, Dropped: e.SourcePath})
				continue
			}
			enums[e.Name] = e
			agg.Enums = append(agg.Enums, e)
		}
	}

	sort.Slice(agg.Declarations, func(i, j int) bool { return agg.Declarations[i].Name < agg.Declarations[j].Name })
	sort.Slice(agg.Enums, func(i, j int) bool { return agg.Enums[i].Name < agg.Enums[j].Name })
	return agg, dups
}

// Lookup returns the declaration with the given name.
func (a *Aggregate) Lookup(name string) (*Declaration, bool) {
	if a.byName == nil {
		a.reindex()
	}
	d, ok := a.byName[name]
	return d, ok
}

// ByName returns the name index. The map is shared; callers append to the
// declarations' fields but never add or remove entries.
func (a *Aggregate) ByName() map[string]*Declaration {
	if a.byName == nil {
		a.reindex()
	}
	return a.byName
}

func (a *Aggregate) reindex() {
	a.byName = make(map[string]*Declaration, len(a.Declarations))
	for _, d := range a.Declarations {
		a.byName[d.Name] = d
	}
}
