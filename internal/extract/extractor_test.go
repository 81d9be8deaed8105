package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/tsast"
)

// Test Plan for the semantic extractor:
// - Non-exported declarations produce nothing
// - Class fields come from properties and constructor parameter properties
// - Private, protected, static and reserved marker fields are excluded
// - Duplicate field names keep the first and log a warning
// - Field decorators populate the validator model and relocation tag
// - Class decorators populate table config, alias, module and output
// - @Table defaults to map mode keyed by id
// - Unknown decorators are ignored
// - Factory and constructor wrappers set flags and element type
// - Interfaces list fields and keep their first extends
// - JSDoc @alias sets aliases and is removed from the comment
// - Enums number implicit members, detect string and flag enums

func prop(name string, typ *tsast.TypeExpr, decorators ...tsast.Decorator) tsast.PropertyNode {
	return tsast.PropertyNode{Name: name, Type: typ, Decorators: decorators}
}

func dec(name string, args ...tsast.Value) tsast.Decorator {
	return tsast.Decorator{Name: name, Args: args}
}

func TestExtractor_SkipsNonExported(t *testing.T) {
	t.Parallel()

	e := New(nil)
	assert.Nil(t, e.Class(&tsast.ClassNode{Name: "A"}, "a.ts", "h"))
	assert.Nil(t, e.Interface(&tsast.InterfaceNode{Name: "B"}, "a.ts", "h"))
	assert.Nil(t, e.Enum(&tsast.EnumNode{Name: "C"}, "a.ts", "h"))
}

func TestExtractor_ClassFields(t *testing.T) {
	t.Parallel()

	core, logs := observer.New(zapcore.WarnLevel)
	e := New(zap.New(core))

	node := &tsast.ClassNode{
		Name:     "Item",
		Exported: true,
		Comment:  "A thing.\n@alias 道具",
		Extends:  tsast.Ref("TsClass"),
		Implements: []tsast.TypeExpr{
			*tsast.Ref("Named"),
		},
		Properties: []tsast.PropertyNode{
			prop("id", tsast.Keyword("number")),
			prop("name", tsast.Keyword("string")),
			{Name: "secret", Type: tsast.Keyword("string"), Accessibility: tsast.AccessPrivate},
			{Name: "guarded", Type: tsast.Keyword("string"), Accessibility: tsast.AccessProtected},
			{Name: "count", Type: tsast.Keyword("number"), Static: true},
			prop("__brand", tsast.Literal(`"Item"`)),
			prop("id", tsast.Keyword("string")),
			{Name: "level", Type: tsast.Keyword("number"), Accessibility: tsast.AccessPublic, FromConstructor: true},
			{Name: "tags", Type: tsast.ArrayOf(*tsast.Keyword("string")), Optional: true},
			prop("note", tsast.UnionOf(*tsast.Keyword("string"), *tsast.Literal("undefined"))),
		},
	}

	d := e.Class(node, "src/item.ts", "abc")
	require.NotNil(t, d)

	assert.Equal(t, "Item", d.Name)
	assert.Equal(t, "道具", d.Alias)
	assert.Equal(t, "A thing.", d.Comment)
	assert.Equal(t, "TsClass", d.Extends)
	assert.Equal(t, []string{"Named"}, d.Implements)
	assert.Equal(t, "src/item.ts", d.SourcePath)
	assert.Equal(t, "abc", d.Hash)
	assert.False(t, d.IsInterface)
	assert.Nil(t, d.Table)

	var names []string
	for _, f := range d.Fields {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"id", "name", "level", "tags", "note"}, names)

	assert.Equal(t, "number", d.Field("id").Type)
	assert.Equal(t, "list,string", d.Field("tags").Type)
	assert.True(t, d.Field("tags").Optional)
	assert.True(t, d.Field("note").Optional)
	assert.Equal(t, "string", d.Field("note").Type)

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "duplicate field, keeping the first declaration", logs.All()[0].Message)
}

func TestExtractor_FieldDecorators(t *testing.T) {
	t.Parallel()

	e := New(nil)
	node := &tsast.ClassNode{
		Name:     "Drop",
		Exported: true,
		Properties: []tsast.PropertyNode{
			prop("itemId", tsast.Keyword("number"), dec("Ref", tsast.Ident("Item")), dec("Required")),
			prop("chance", tsast.Keyword("number"), dec("Range", tsast.Number(0), tsast.Number(1))),
			prop("floor", tsast.Keyword("number"), dec("Range", tsast.Number(1), tsast.Ident("Infinity"))),
			prop("slots", tsast.ArrayOf(*tsast.Keyword("number")), dec("Size", tsast.Number(3))),
			prop("bonus", tsast.ArrayOf(*tsast.Keyword("number")), dec("Size", tsast.Number(2), tsast.Number(4))),
			prop("kind", tsast.Keyword("string"), dec("Set", tsast.String("a"), tsast.String("b"))),
			prop("rows", tsast.ArrayOf(*tsast.Ref("Row")), dec("Index", tsast.String("key"))),
			prop("code", tsast.Keyword("number"), dec("Nominal")),
			prop("reward", tsast.Keyword("number"), dec("Relocate", tsast.Object(
				[]string{"to", "prefix", "bean"},
				map[string]tsast.Value{"to": tsast.String("Reward"), "prefix": tsast.String("r_"), "bean": tsast.Ident("RewardBean")},
			))),
			prop("other", tsast.Keyword("number"), dec("Whatever", tsast.Number(1))),
		},
	}

	d := e.Class(node, "drop.ts", "h")
	require.NotNil(t, d)

	item := d.Field("itemId").Validator
	assert.Equal(t, "Item", item.Ref)
	assert.True(t, item.Required)

	chance := d.Field("chance").Validator.Range
	require.NotNil(t, chance)
	assert.Equal(t, 0.0, *chance.Min)
	assert.Equal(t, 1.0, *chance.Max)

	floor := d.Field("floor").Validator.Range
	require.NotNil(t, floor)
	assert.Equal(t, 1.0, *floor.Min)
	assert.Nil(t, floor.Max)

	assert.Equal(t, &model.Size{Min: 3, Max: 3}, d.Field("slots").Validator.Size)
	assert.Equal(t, &model.Size{Min: 2, Max: 4}, d.Field("bonus").Validator.Size)
	assert.Equal(t, []string{"a", "b"}, d.Field("kind").Validator.Set)
	assert.Equal(t, "key", d.Field("rows").Validator.Index)
	assert.True(t, d.Field("code").Validator.Nominal)
	assert.Equal(t, "relocateTo=Reward,prefix=r_,targetBean=RewardBean", d.Field("reward").Relocate)
	assert.True(t, d.Field("other").Validator.IsZero())
}

func TestExtractor_ClassDecorators(t *testing.T) {
	t.Parallel()

	e := New(nil)

	plain := e.Class(&tsast.ClassNode{
		Name: "Item", Exported: true,
		Decorators: []tsast.Decorator{dec("Table"), dec("Alias", tsast.String("道具")), dec("Module", tsast.String("game")), dec("Output", tsast.String("defs/game.xml"))},
	}, "item.ts", "h")
	// A bare @Table records nothing; defaults come after config merging.
	assert.Equal(t, &model.TableConfig{}, plain.Table)
	assert.Equal(t, "道具", plain.Alias)
	assert.Equal(t, "game", plain.ModuleOverride)
	assert.Equal(t, "defs/game.xml", plain.OutputOverride)

	list := e.Class(&tsast.ClassNode{
		Name: "Level", Exported: true,
		Decorators: []tsast.Decorator{dec("Table", tsast.String("list"))},
	}, "level.ts", "h")
	assert.Equal(t, model.TableList, list.Table.Mode)
	assert.Empty(t, list.Table.Index)

	full := e.Class(&tsast.ClassNode{
		Name: "Hero", Exported: true,
		Decorators: []tsast.Decorator{dec("Table", tsast.Object(
			[]string{"mode", "index", "name", "input"},
			map[string]tsast.Value{
				"mode":  tsast.String("map"),
				"index": tsast.String("heroId"),
				"name":  tsast.String("英雄"),
				"input": tsast.String("hero.xlsx"),
			},
		))},
	}, "hero.ts", "h")
	assert.Equal(t, &model.TableConfig{Mode: model.TableMap, Index: "heroId", Name: "英雄", Input: "hero.xlsx"}, full.Table)
}

func TestExtractor_Wrappers(t *testing.T) {
	t.Parallel()

	e := New(nil)
	d := e.Class(&tsast.ClassNode{
		Name: "Spawner", Exported: true,
		Properties: []tsast.PropertyNode{
			prop("make", &tsast.TypeExpr{Kind: tsast.TypeFunction, Args: []tsast.TypeExpr{*tsast.Ref("Monster")}}),
			prop("kind", &tsast.TypeExpr{Kind: tsast.TypeConstructor, Args: []tsast.TypeExpr{*tsast.Ref("Monster")}}),
			prop("boss", tsast.Keyword("any"), dec("Factory", tsast.Ident("Boss"))),
		},
	}, "spawner.ts", "h")
	require.NotNil(t, d)

	mk := d.Field("make")
	assert.True(t, mk.IsFactory)
	assert.Equal(t, "Monster", mk.ElementType)
	assert.Equal(t, "Monster", mk.Type)

	kind := d.Field("kind")
	assert.True(t, kind.IsConstructor)
	assert.Equal(t, "Monster", kind.ElementType)

	boss := d.Field("boss")
	assert.True(t, boss.IsFactory)
	assert.Equal(t, "Boss", boss.ElementType)
	assert.Equal(t, "Boss", boss.Type)
}

func TestExtractor_GenericBindings(t *testing.T) {
	t.Parallel()

	e := New(nil)
	d := e.Class(&tsast.ClassNode{
		Name: "Holder", Exported: true,
		TypeParameters: []tsast.TypeParameter{
			{Name: "T", Constraint: tsast.Ref("Item")},
			{Name: "K", Constraint: tsast.Keyword("string"), Default: tsast.Keyword("number")},
			{Name: "V"},
		},
		Properties: []tsast.PropertyNode{
			prop("value", tsast.Ref("T")),
			prop("byKey", tsast.Ref("Map", *tsast.Ref("K"), *tsast.Ref("V"))),
		},
	}, "holder.ts", "h")

	assert.Equal(t, map[string]string{"T": "Item", "K": "number", "V": "string"}, d.Generics)
	assert.Equal(t, "Item", d.Field("value").Type)
	assert.Equal(t, "map,number,string", d.Field("byKey").Type)
}

func TestExtractor_Interface(t *testing.T) {
	t.Parallel()

	e := New(nil)
	d := e.Interface(&tsast.InterfaceNode{
		Name: "Named", Exported: true,
		Extends: []tsast.TypeExpr{*tsast.Ref("Base"), *tsast.Ref("Other")},
		Properties: []tsast.PropertyNode{
			{Name: "name", Type: tsast.Keyword("string"), Comment: "Display name"},
			{Name: "weight", Type: tsast.Keyword("number"), Optional: true},
		},
	}, "named.ts", "h")
	require.NotNil(t, d)

	assert.True(t, d.IsInterface)
	assert.Equal(t, "Base", d.Extends)
	require.Len(t, d.Fields, 2)
	assert.Equal(t, "Display name", d.Fields[0].Comment)
	assert.True(t, d.Fields[1].Optional)
	assert.Nil(t, d.Table)
}

func TestExtractor_Enums(t *testing.T) {
	t.Parallel()

	e := New(nil)

	numeric := e.Enum(&tsast.EnumNode{
		Name: "Quality", Exported: true, Comment: "Quality.\n@alias 品质",
		Members: []tsast.EnumMember{
			{Name: "Poor"},
			{Name: "Common"},
			{Name: "Rare", Value: "10", Comment: "@alias 稀有"},
			{Name: "Epic"},
		},
	}, "q.ts", "h")
	require.NotNil(t, numeric)
	assert.Equal(t, "品质", numeric.Alias)
	assert.Equal(t, "Quality.", numeric.Comment)
	assert.False(t, numeric.IsString)
	assert.False(t, numeric.IsFlags)
	assert.Equal(t, []model.EnumVariant{
		{Name: "Poor", Value: "0"},
		{Name: "Common", Value: "1"},
		{Name: "Rare", Value: "10", Alias: "稀有"},
		{Name: "Epic", Value: "11"},
	}, numeric.Variants)

	str := e.Enum(&tsast.EnumNode{
		Name: "Color", Exported: true,
		Members: []tsast.EnumMember{{Name: "Red", Value: `"red"`}, {Name: "Blue", Value: "'blue'"}},
	}, "c.ts", "h")
	assert.True(t, str.IsString)
	assert.Equal(t, "red", str.Variants[0].Value)
	assert.Equal(t, "blue", str.Variants[1].Value)

	flags := e.Enum(&tsast.EnumNode{
		Name: "Perm", Exported: true,
		Members: []tsast.EnumMember{
			{Name: "Read", Value: "1 << 0"},
			{Name: "Write", Value: "1 << 1"},
			{Name: "All", Value: "Read | Write"},
		},
	}, "p.ts", "h")
	assert.True(t, flags.IsFlags)
	assert.Equal(t, "1", flags.Variants[0].Value)
	assert.Equal(t, "2", flags.Variants[1].Value)
	assert.Equal(t, "3", flags.Variants[2].Value)

	tagged := e.Enum(&tsast.EnumNode{Name: "Mask", Exported: true, Comment: "@flags"}, "m.ts", "h")
	assert.True(t, tagged.IsFlags)
	assert.Empty(t, tagged.Comment)
}

func TestExtractor_ExtractFile(t *testing.T) {
	t.Parallel()

	file := &tsast.File{
		Path: "all.ts",
		Hash: "h1",
		Nodes: []tsast.Node{
			&tsast.ClassNode{Name: "A", Exported: true},
			&tsast.ClassNode{Name: "Hidden"},
			&tsast.InterfaceNode{Name: "B", Exported: true},
			&tsast.EnumNode{Name: "C", Exported: true},
		},
	}

	result := New(nil).Extract(file)
	assert.Equal(t, "all.ts", result.Path)
	assert.Equal(t, "h1", result.Hash)
	require.Len(t, result.Declarations, 2)
	assert.Equal(t, "A", result.Declarations[0].Name)
	assert.Equal(t, "B", result.Declarations[1].Name)
	require.Len(t, result.Enums, 1)
	assert.Equal(t, "h1", result.Enums[0].Hash)
}
