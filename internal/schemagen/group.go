package schemagen

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/beancraft/internal/model"
)

type groupKey struct {
	output string
	module string
}

// grouping buckets records by (output, module). When several modules share an
// output file, each module's document gets the module name inserted before the
// extension so the groups never overwrite each other.
type grouping struct {
	decls   map[groupKey][]*model.Declaration
	enums   map[groupKey][]*model.Enum
	modules map[string]map[string]bool
}

func newGrouping() *grouping {
	return &grouping{
		decls:   make(map[groupKey][]*model.Declaration),
		enums:   make(map[groupKey][]*model.Enum),
		modules: make(map[string]map[string]bool),
	}
}

func (g *grouping) add(output, module string, record any) {
	key := groupKey{output: output, module: module}
	switch r := record.(type) {
	case *model.Declaration:
		g.decls[key] = append(g.decls[key], r)
	case *model.Enum:
		g.enums[key] = append(g.enums[key], r)
	}
	if g.modules[output] == nil {
		g.modules[output] = make(map[string]bool)
	}
	g.modules[output][module] = true
}

func (g *grouping) keys() []groupKey {
	var keys []groupKey
	for output, mods := range g.modules {
		for m := range mods {
			keys = append(keys, groupKey{output: output, module: m})
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].output != keys[j].output {
			return keys[i].output < keys[j].output
		}
		return keys[i].module < keys[j].module
	})
	return keys
}

func (g *grouping) path(key groupKey) string {
	if len(g.modules[key.output]) <= 1 || key.module == "" {
		return key.output
	}
	ext := filepath.Ext(key.output)
	return strings.TrimSuffix(key.output, ext) + "." + key.module + ext
}
