package layout

import (
	"github.com/google/uuid"
	"golang.org/x/net/html"
)

// MacroParam is one ac:parameter of a structured macro.
type MacroParam struct {
	Name  string
	Value string
}

// BuildSimpleSection returns a single-column section holding a heading and a paragraph.
func BuildSimpleSection(heading, paragraph string) string {
	h := newElement("h2")
	h.appendChild(newText(heading))
	p := newElement("p")
	p.appendChild(newText(paragraph))

	return singleSection(h, p).Markup()
}

// BuildMacroSection returns a single-column section with a caption paragraph
// followed by a structured macro, e.g. an html-bobswift diagram embed.
func BuildMacroSection(caption, macro string, params []MacroParam) string {
	p := newElement("p")
	p.appendChild(newText(caption))

	m := newElement("ac:structured-macro",
		html.Attribute{Key: "ac:name", Val: macro},
		html.Attribute{Key: "ac:schema-version", Val: "1"},
		html.Attribute{Key: "ac:macro-id", Val: uuid.New().String()},
	)
	for _, param := range params {
		el := newElement("ac:parameter", html.Attribute{Key: "ac:name", Val: param.Name})
		el.appendChild(newText(param.Value))
		m.appendChild(el)
	}

	return singleSection(p, m).Markup()
}

func singleSection(content ...*Node) *Node {
	cell := newElement(tagCell)
	cell.appendChild(content...)
	sec := newElement(tagSection, typeAttr(LayoutSingle))
	sec.appendChild(cell)
	return sec
}
