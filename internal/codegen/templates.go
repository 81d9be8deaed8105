package codegen

import (
	"fmt"
	"strings"
	"text/template"
)

var funcs = template.FuncMap{
	"join":  strings.Join,
	"quote": func(s string) string { return fmt.Sprintf("%q", s) },
}

// importLine is one import statement: the identifiers taken from Specifier.
type importLine struct {
	Specifier string
	Names     []string
}

type tableLine struct {
	Name  string
	Shape string
}

type tablesData struct {
	Imports []importLine
	Tables  []tableLine
}

type dictionaryData struct {
	Imports []importLine
	Export  string
	Entries []Entry
}

type mergeData struct {
	Imports []importLine
	Export  string
	Spread  []string
}

var tablesTemplate = template.Must(template.New("tables").Funcs(funcs).Parse(generatedHeader +
	`{{range .Imports}}import type { {{join .Names ", "}} } from {{quote .Specifier}};
{{end}}
{{if .Tables}}export interface Tables {
{{range .Tables}}    {{.Name}}: {{.Shape}};
{{end}}}
{{else}}export interface Tables {}
{{end}}`))

var dictionaryTemplate = template.Must(template.New("dictionary").Funcs(funcs).Parse(generatedHeader +
	`{{range .Imports}}import { {{join .Names ", "}} } from {{quote .Specifier}};
{{end}}
{{if .Entries}}export const {{.Export}} = {
{{range .Entries}}    {{quote .Key}}: {{.Name}},
{{end}}};
{{else}}export const {{.Export}} = {};
{{end}}`))

var mergeTemplate = template.Must(template.New("merge").Funcs(funcs).Parse(generatedHeader +
	`{{range .Imports}}import { {{join .Names ", "}} } from {{quote .Specifier}};
{{end}}
export const {{.Export}} = { {{join .Spread ", "}} };
`))

// execute renders a package template. The templates are fixed and the data
// types are ours, so a failure is a programming error.
func execute(t *template.Template, data any) string {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		panic(fmt.Sprintf("codegen: executing %s template: %v", t.Name(), err))
	}
	return b.String()
}
