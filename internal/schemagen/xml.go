package schemagen

import "strings"

const (
	xmlHeader = `<?xml version="1.0" encoding="utf-8"?>` + "\n"
	indent    = "    "
)

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML replaces the five reserved XML characters with their named entities.
func EscapeXML(s string) string {
	return xmlEscaper.Replace(s)
}

// attr is one attribute; empty values are omitted when rendered.
type attr struct {
	name  string
	value string
}

// element writes <tag a="v" ...> or the self-closing form.
func element(b *strings.Builder, depth int, tag string, attrs []attr, selfClose bool) {
	b.WriteString(strings.Repeat(indent, depth))
	b.WriteString("<")
	b.WriteString(tag)
	for _, a := range attrs {
		if a.value == "" {
			continue
		}
		b.WriteString(" ")
		b.WriteString(a.name)
		b.WriteString(`="`)
		b.WriteString(EscapeXML(a.value))
		b.WriteString(`"`)
	}
	if selfClose {
		b.WriteString("/>\n")
	} else {
		b.WriteString(">\n")
	}
}

func closeElement(b *strings.Builder, depth int, tag string) {
	b.WriteString(strings.Repeat(indent, depth))
	b.WriteString("</")
	b.WriteString(tag)
	b.WriteString(">\n")
}

func openModule(b *strings.Builder, module string) {
	b.WriteString(xmlHeader)
	b.WriteString(`<module name="`)
	b.WriteString(EscapeXML(module))
	b.WriteString("\">\n")
}

func closeModule(b *strings.Builder) {
	b.WriteString("</module>\n")
}
