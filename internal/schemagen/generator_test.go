package schemagen

import (
	"encoding/xml"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/beancraft/internal/config"
	"github.com/mvp-joe/beancraft/internal/model"
	"github.com/mvp-joe/beancraft/internal/registry"
	"github.com/mvp-joe/beancraft/internal/resolve"
	"github.com/mvp-joe/beancraft/internal/typemap"
	"github.com/mvp-joe/beancraft/internal/validator"
)

// Test Plan for schema generation:
// - End-to-end scenario: default parent, interface without parent, optional list
//   without ?, optional bool with ?, required ref resolving to examples.ItemTable
// - Optional sets and maps take ? after the element, required suppresses ?
// - Container validators render as container modifiers
// - Relocation tags and table elements are emitted
// - Escaping is reversible through a standard XML decoder
// - Output does not depend on input order
// - Groups split by (output, module); shared outputs get the module in the name
// - Enums render flags and string markers, bean type enums group by parent

func newGenerator(t *testing.T) *Generator {
	t.Helper()
	reg := registry.New()
	reg.Register("Item", "examples")
	return New(typemap.New(nil), validator.New(reg, nil), resolve.NewBaseClassResolver(nil, "TsClass"))
}

func scenarioDecls() []*model.Declaration {
	return []*model.Declaration{
		{
			Name:    "X",
			Comment: `An "x" & more`,
			Fields: []*model.Field{
				{Name: "tags", Type: "list,string", Optional: true},
				{Name: "flag", Type: "boolean", Optional: true},
				{Name: "itemId", Type: "number", Validator: model.Validator{Required: true, Ref: "Item"}},
			},
		},
		{Name: "Y", IsInterface: true},
		{
			Name:   "Item",
			Fields: []*model.Field{{Name: "id", Type: "int"}},
			Table:  &model.TableConfig{Mode: model.TableMap, Index: "id"},
		},
	}
}

func TestGenerate_EndToEndScenario(t *testing.T) {
	t.Parallel()

	got := newGenerator(t).Generate(scenarioDecls(), "examples")

	want := `<?xml version="1.0" encoding="utf-8"?>
<module name="examples">
    <bean name="Item" parent="TsClass">
        <var name="id" type="int"/>
    </bean>
    <bean name="X" parent="TsClass" comment="An &quot;x&quot; &amp; more">
        <var name="tags" type="list,string"/>
        <var name="flag" type="bool?"/>
        <var name="itemId" type="double!#ref=examples.ItemTable"/>
    </bean>
    <bean name="Y"/>
    <table name="ItemTable" value="Item" mode="map" index="id"/>
</module>
`
	assert.Equal(t, want, got)
}

func TestGenerate_OrderIndependent(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)
	decls := scenarioDecls()
	reversed := []*model.Declaration{decls[2], decls[1], decls[0]}
	assert.Equal(t, g.Generate(decls, "examples"), g.Generate(reversed, "examples"))
}

func TestFieldType(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)
	lo, hi := 1.0, 10.0

	cases := []struct {
		name  string
		field model.Field
		want  string
	}{
		{"plain", model.Field{Type: "number"}, "double"},
		{"optional scalar", model.Field{Type: "string", Optional: true}, "string?"},
		{"optional required", model.Field{Type: "int", Optional: true, Validator: model.Validator{Required: true}}, "int!"},
		{"optional scalar with range", model.Field{Type: "int", Optional: true, Validator: model.Validator{Range: &model.Range{Min: &lo, Max: &hi}}}, "int?#range=[1,10]"},
		{"optional list", model.Field{Type: "list,number", Optional: true}, "list,double"},
		{"optional set", model.Field{Type: "set,int", Optional: true}, "set,int?"},
		{"optional map", model.Field{Type: "map,string,number", Optional: true}, "map,string,double?"},
		{"sized list", model.Field{Type: "list,int", Validator: model.Validator{Size: &model.Size{Min: 2, Max: 4}}}, "(list#size=[2,4]),int"},
		{"indexed list", model.Field{Type: "list,Row", Validator: model.Validator{Index: "id"}}, "(list#index=id),Row"},
		{"list of refs", model.Field{Type: "list,int", Validator: model.Validator{Ref: "Item"}}, "list,int#ref=examples.ItemTable"},
		{"set validator", model.Field{Type: "string", Validator: model.Validator{Set: []string{"a", "b"}}}, "string#set=a,b"},
		{"unresolved ref", model.Field{Type: "int", Validator: model.Validator{Ref: "Nope"}}, "int"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := tc.field
			assert.Equal(t, tc.want, g.FieldType(&f))
		})
	}
}

func TestGenerate_TagsAndTables(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)
	got := g.Generate([]*model.Declaration{{
		Name:  "Hero",
		Alias: "英雄",
		Fields: []*model.Field{
			{Name: "reward", Type: "int", Relocate: "relocateTo=Reward,prefix=r_"},
		},
		Table: &model.TableConfig{Mode: model.TableList, Input: "hero.xlsx", Output: "hero"},
	}}, "game")

	assert.Contains(t, got, `<bean name="Hero" parent="TsClass" alias="英雄">`)
	assert.Contains(t, got, `<var name="reward" type="int" tags="relocateTo=Reward,prefix=r_"/>`)
	assert.Contains(t, got, `<table name="HeroTable" value="Hero" mode="list" input="hero.xlsx" output="hero" comment="英雄"/>`)
}

func TestEscapeXML_Reversible(t *testing.T) {
	t.Parallel()

	inputs := []string{
		`plain`,
		`a & b`,
		`<tag attr="v">`,
		`it's "quoted"`,
		`&amp; already escaped`,
		`mixed <&>"' all five`,
	}

	for _, in := range inputs {
		escaped := EscapeXML(in)
		for _, c := range []string{"<", ">", `"`, "'"} {
			assert.NotContains(t, escaped, c)
		}

		var decoded struct {
			Comment string `xml:"comment,attr"`
			Text    string `xml:",chardata"`
		}
		doc := `<v comment="` + escaped + `">` + escaped + `</v>`
		require.NoError(t, xml.Unmarshal([]byte(doc), &decoded))
		assert.Equal(t, in, decoded.Comment)
		assert.Equal(t, in, decoded.Text)
	}
}

func TestGenerate_IsWellFormed(t *testing.T) {
	t.Parallel()

	out := newGenerator(t).Generate(scenarioDecls(), "examples")
	dec := xml.NewDecoder(strings.NewReader(out))
	for {
		_, err := dec.Token()
		if err != nil {
			assert.Equal(t, "EOF", err.Error())
			break
		}
	}
}

func TestGenerateBeans_Groups(t *testing.T) {
	t.Parallel()

	g := newGenerator(t)
	decls := []*model.Declaration{
		{Name: "A"},
		{Name: "B", ModuleOverride: "extra"},
		{Name: "C", OutputOverride: "defs/other.xml"},
	}

	docs := g.GenerateBeans(decls, Options{Module: "examples", Output: "defs/beans.xml"})
	require.Len(t, docs, 3)

	assert.Equal(t, "defs/beans.examples.xml", docs[0].Path)
	assert.Equal(t, "examples", docs[0].Module)
	assert.Contains(t, docs[0].Content, `<bean name="A"`)
	assert.NotContains(t, docs[0].Content, `<bean name="B"`)

	assert.Equal(t, "defs/beans.extra.xml", docs[1].Path)
	assert.Contains(t, docs[1].Content, `<module name="extra">`)

	assert.Equal(t, "defs/other.xml", docs[2].Path)
	assert.Contains(t, docs[2].Content, `<bean name="C"`)

	single := g.GenerateBeans(decls[:1], Options{Module: "examples", Output: "defs/beans.xml"})
	require.Len(t, single, 1)
	assert.Equal(t, "defs/beans.xml", single[0].Path)
}

func TestGenerateEnums(t *testing.T) {
	t.Parallel()

	got := GenerateEnums([]*model.Enum{
		{Name: "Perm", IsFlags: true, Variants: []model.EnumVariant{{Name: "Read", Value: "1"}, {Name: "Write", Value: "2"}}},
		{Name: "Color", Alias: "颜色", IsString: true, Variants: []model.EnumVariant{{Name: "Red", Value: "red", Comment: "<hot>"}}},
		{Name: "Empty"},
	}, "examples")

	want := `<?xml version="1.0" encoding="utf-8"?>
<module name="examples">
    <enum name="Color" alias="颜色" tags="string">
        <var name="Red" value="red" comment="&lt;hot&gt;"/>
    </enum>
    <enum name="Empty"/>
    <enum name="Perm" flags="true">
        <var name="Read" value="1"/>
        <var name="Write" value="2"/>
    </enum>
</module>
`
	assert.Equal(t, want, got)

	docs := GenerateEnumDocuments([]*model.Enum{{Name: "A"}, {Name: "B", OutputOverride: "x.xml"}}, Options{Module: "m", EnumOutput: "enums.xml"})
	require.Len(t, docs, 2)
	assert.Equal(t, "enums.xml", docs[0].Path)
	assert.Equal(t, "x.xml", docs[1].Path)
}

func TestGenerateBeanTypes(t *testing.T) {
	t.Parallel()

	parents := resolve.NewBaseClassResolver(config.CompileParentRules([]config.ParentRule{
		{Pattern: "Skill$", Parent: "SkillBase"},
	}, nil), "TsClass")
	g := New(typemap.New(nil), validator.New(registry.New(), nil), parents)

	got := g.GenerateBeanTypes([]*model.Declaration{
		{Name: "IceSkill", Alias: "冰"},
		{Name: "FireSkill", Comment: "Burns"},
		{Name: "Item"},
		{Name: "Named", IsInterface: true, Extends: "Base"},
	}, "examples")

	want := `<?xml version="1.0" encoding="utf-8"?>
<module name="examples">
    <enum name="SkillBaseType" tags="string">
        <var name="FireSkill" value="FireSkill" comment="Burns"/>
        <var name="IceSkill" alias="冰" value="IceSkill"/>
    </enum>
    <enum name="TsClassType" tags="string">
        <var name="Item" value="Item"/>
    </enum>
</module>
`
	assert.Equal(t, want, got)
}
