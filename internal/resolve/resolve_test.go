package resolve

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mvp-joe/beancraft/internal/config"
	"github.com/mvp-joe/beancraft/internal/extract"
	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/registry"
	"github.com/mvp-joe/beancraft/internal/tsast"
)

// Test Plan for resolution passes:
// - Interfaces resolve to their extends or nothing; rules never apply to them
// - Classes take the first matching rule even when they extend or implement something else
// - Classes without a matching rule take the default parent
// - A class named like its parent has no parent
// - Virtual fields append in block order, skip unknown targets and duplicate names
// - Relocation directives render into the tag string
// - Table config merges decorator, entry and rule with decorator first
// - Mode and index unstated by @Table defer to tables.entries and rules
// - Interfaces never become tables
// - RegisterTables uses the effective module of each table root

func rule(pattern, parent string) config.CompiledParentRule {
	return config.CompiledParentRule{Pattern: regexp.MustCompile(pattern), Parent: parent}
}

func TestBaseClassResolver(t *testing.T) {
	t.Parallel()

	r := NewBaseClassResolver([]config.CompiledParentRule{
		rule("^Skill", "SkillBase"),
		rule("Skill$", "Other"),
	}, "TsClass")

	assert.Equal(t, "", r.Resolve(&model.Declaration{Name: "Named", IsInterface: true}))
	assert.Equal(t, "Base", r.Resolve(&model.Declaration{Name: "Named", IsInterface: true, Extends: "Base"}))
	assert.Equal(t, "", r.Resolve(&model.Declaration{Name: "SkillLike", IsInterface: true}),
		"rules never apply to interfaces")

	assert.Equal(t, "SkillBase", r.Resolve(&model.Declaration{
		Name: "SkillFireSkill", Extends: "Unrelated", Implements: []string{"Named"},
	}), "first rule wins over later rules and declared inheritance")
	assert.Equal(t, "Other", r.Resolve(&model.Declaration{Name: "FireSkill"}))
	assert.Equal(t, "TsClass", r.Resolve(&model.Declaration{Name: "Item", Implements: []string{"Named"}}))
	assert.Equal(t, "", r.Resolve(&model.Declaration{Name: "TsClass"}))

	none := NewBaseClassResolver(nil, "")
	assert.Equal(t, "", none.Resolve(&model.Declaration{Name: "Item"}))

	all := r.ResolveAll([]*model.Declaration{{Name: "Item"}, {Name: "SkillA"}})
	assert.Equal(t, map[string]string{"Item": "TsClass", "SkillA": "SkillBase"}, all)
}

func TestVirtualFieldInjector(t *testing.T) {
	t.Parallel()

	item := &model.Declaration{Name: "Item", Fields: []*model.Field{{Name: "id", Type: "number"}}}
	byName := map[string]*model.Declaration{"Item": item}

	core, logs := observer.New(zapcore.WarnLevel)
	inj := NewVirtualFieldInjector([]config.VirtualFieldBlock{
		{Target: "Item", Fields: []config.VirtualFieldSpec{
			{Name: "extra", Type: "number", Optional: true, Comment: "added"},
		}},
		{Target: "Missing", Fields: []config.VirtualFieldSpec{{Name: "x", Type: "number"}}},
		{Target: "Item", Fields: []config.VirtualFieldSpec{
			{Name: "reward", Type: "int", Relocate: &config.RelocateConfig{To: "Reward", Prefix: "r_"}},
			{Name: "drop", Type: "int", Relocate: &config.RelocateConfig{To: "Drop", Prefix: "d_", Bean: "DropBean"}},
			{Name: "id", Type: "string"},
		}},
	}, zap.New(core))

	added := inj.Inject(byName)
	assert.Equal(t, 3, added)

	var names []string
	for _, f := range item.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "extra", "reward", "drop"}, names)

	extra := item.Field("extra")
	assert.True(t, extra.Optional)
	assert.Equal(t, "added", extra.Comment)
	assert.Equal(t, "number", extra.Type)
	assert.Empty(t, extra.Relocate)

	assert.Equal(t, "relocateTo=Reward,prefix=r_", item.Field("reward").Relocate)
	assert.Equal(t, "relocateTo=Drop,prefix=d_,targetBean=DropBean", item.Field("drop").Relocate)
	assert.Equal(t, "number", item.Field("id").Type)
	assert.Equal(t, 1, logs.Len())
}

func TestTableResolver(t *testing.T) {
	t.Parallel()

	rules := config.CompileTableRules([]config.TableRule{
		{Pattern: "Config$", Input: "{name}.xlsx", Mode: "one"},
		{Pattern: ".*", Input: "never.xlsx"},
	}, nil)
	entries := map[string]config.TableEntry{
		"hero":  {Input: "hero.xlsx", Mode: "list"},
		"skill": {Input: "skill.xlsx", Name: "技能"},
	}

	decls := []*model.Declaration{
		{Name: "Item", Table: &model.TableConfig{Mode: model.TableMap, Index: "id", Name: "道具"}},
		{Name: "Hero"},
		{Name: "Skill", Table: &model.TableConfig{Mode: model.TableList}},
		{Name: "GameConfig"},
		{Name: "Named", IsInterface: true},
	}

	NewTableResolver(entries, rules[:1]).Apply(decls)

	assert.Equal(t, &model.TableConfig{Mode: model.TableMap, Index: "id", Name: "道具"}, decls[0].Table)
	assert.Equal(t, &model.TableConfig{Mode: model.TableList, Input: "hero.xlsx"}, decls[1].Table)
	assert.Equal(t, &model.TableConfig{Mode: model.TableList, Name: "技能", Input: "skill.xlsx"}, decls[2].Table)
	assert.Equal(t, &model.TableConfig{Mode: model.TableOne, Input: "game-config.xlsx"}, decls[3].Table)
	assert.Nil(t, decls[4].Table)

	// With the catch-all rule every class becomes a map table keyed by id.
	plain := []*model.Declaration{{Name: "Loot"}}
	NewTableResolver(nil, rules).Apply(plain)
	assert.Equal(t, &model.TableConfig{Mode: model.TableMap, Index: "id", Input: "never.xlsx"}, plain[0].Table)
}

func TestTableResolver_UnstatedDecoratorFieldsDeferToConfig(t *testing.T) {
	t.Parallel()

	rules := config.CompileTableRules([]config.TableRule{
		{Pattern: "Drop$", Mode: "list", Input: "{name}.xlsx"},
	}, nil)
	entries := map[string]config.TableEntry{
		"item":  {Mode: "list", Input: "item.xlsx"},
		"quest": {Index: "questId"},
		"hero":  {Mode: "list"},
	}

	e := extract.New(nil)
	item := e.Class(&tsast.ClassNode{
		Name: "Item", Exported: true,
		Decorators: []tsast.Decorator{{Name: "Table"}},
	}, "item.ts", "h")
	quest := e.Class(&tsast.ClassNode{
		Name: "Quest", Exported: true,
		Decorators: []tsast.Decorator{{Name: "Table", Args: []tsast.Value{tsast.Object(
			[]string{"name"},
			map[string]tsast.Value{"name": tsast.String("任务")},
		)}}},
	}, "quest.ts", "h")
	drop := e.Class(&tsast.ClassNode{
		Name: "MonsterDrop", Exported: true,
		Decorators: []tsast.Decorator{{Name: "Table"}},
	}, "drop.ts", "h")
	bare := e.Class(&tsast.ClassNode{
		Name: "Loot", Exported: true,
		Decorators: []tsast.Decorator{{Name: "Table"}},
	}, "loot.ts", "h")
	stated := e.Class(&tsast.ClassNode{
		Name: "Hero", Exported: true,
		Decorators: []tsast.Decorator{{Name: "Table", Args: []tsast.Value{tsast.String("one")}}},
	}, "hero.ts", "h")

	decls := []*model.Declaration{item, quest, drop, bare, stated}
	NewTableResolver(entries, rules).Apply(decls)

	assert.Equal(t, &model.TableConfig{Mode: model.TableList, Input: "item.xlsx"}, item.Table)
	assert.Equal(t, &model.TableConfig{Mode: model.TableMap, Index: "questId", Name: "任务"}, quest.Table)
	assert.Equal(t, &model.TableConfig{Mode: model.TableList, Input: "monster-drop.xlsx"}, drop.Table)
	assert.Equal(t, &model.TableConfig{Mode: model.TableMap, Index: "id"}, bare.Table)
	assert.Equal(t, &model.TableConfig{Mode: model.TableOne}, stated.Table)
}

func TestRegisterTables(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	RegisterTables(reg, []*model.Declaration{
		{Name: "Item", Table: &model.TableConfig{Mode: model.TableMap}},
		{Name: "Hero", ModuleOverride: "heroes", Table: &model.TableConfig{Mode: model.TableList}},
		{Name: "Plain"},
	}, "examples")

	ref, ok := reg.ResolveRef("Item")
	require.True(t, ok)
	assert.Equal(t, "examples.ItemTable", ref)

	ref, ok = reg.ResolveRef("Hero")
	require.True(t, ok)
	assert.Equal(t, "heroes.HeroTable", ref)

	_, ok = reg.ResolveRef("Plain")
	assert.False(t, ok)
}
