// Package layout edits the page-layout structure of Confluence storage-format
// markup: a single ac:layout container holding ordered ac:layout-section
// elements, each split into ac:layout-cell columns.
//
// Everything outside that structure is carried as opaque nodes and rendered
// back byte-for-byte.
package layout

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
)

const (
	tagLayout  = "ac:layout"
	tagSection = "ac:layout-section"
	tagCell    = "ac:layout-cell"
	attrType   = "ac:type"
)

// LayoutType is the column arrangement of a section. It only affects rendering.
type LayoutType string

const (
	LayoutSingle            LayoutType = "single"
	LayoutTwoEqual          LayoutType = "two_equal"
	LayoutTwoLeftSidebar    LayoutType = "two_left_sidebar"
	LayoutTwoRightSidebar   LayoutType = "two_right_sidebar"
	LayoutThreeEqual        LayoutType = "three_equal"
	LayoutThreeWithSidebars LayoutType = "three_with_sidebars"
)

// Document is a parsed page body.
type Document struct {
	nodes    []*Node // top-level nodes in markup order
	layout   *Node   // top-level ac:layout, nil until one exists
	sections []*Section
}

// Section is one ac:layout-section of the layout container.
type Section struct {
	Layout LayoutType
	Cells  []*Cell
	node   *Node
}

// Cell is one column of a section. Its content is opaque.
type Cell struct {
	node *Node
}

// Parse reads a page body. Only the first top-level ac:layout element is treated
// as the layout container.
func Parse(markup string) (*Document, error) {
	nodes, err := parseNodes(markup)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page body: %w", err)
	}

	d := &Document{nodes: nodes}
	for _, n := range nodes {
		if n.isElement(tagLayout) {
			d.layout = n
			break
		}
	}
	if d.layout != nil {
		for _, c := range d.layout.Children {
			if c.isElement(tagSection) {
				d.sections = append(d.sections, newSection(c))
			}
		}
	}
	return d, nil
}

func newSection(n *Node) *Section {
	s := &Section{Layout: LayoutType(n.AttrVal(attrType)), node: n}
	for _, c := range n.Children {
		if c.isElement(tagCell) {
			s.Cells = append(s.Cells, &Cell{node: c})
		}
	}
	return s
}

// Render serializes the document back to storage format.
func (d *Document) Render() string {
	return renderNodes(d.nodes)
}

// Sections returns the layout sections in document order.
func (d *Document) Sections() []*Section {
	return slices.Clone(d.sections)
}

// Headings returns the identifying heading of every section, "" where a
// section has none.
func (d *Document) Headings() []string {
	out := make([]string, len(d.sections))
	for i, s := range d.sections {
		out[i], _ = s.Heading()
	}
	return out
}

// HasLayout reports whether the document has a layout container.
func (d *Document) HasLayout() bool {
	return d.layout != nil
}

// ensureLayout creates an empty layout container after the existing top-level
// content when the document has none.
func (d *Document) ensureLayout() *Node {
	if d.layout == nil {
		d.layout = newElement(tagLayout)
		d.nodes = append(d.nodes, d.layout)
	}
	return d.layout
}

// insertAt places s so that it becomes d.sections[idx]. An index at or past the
// end puts s right after the current last section.
func (d *Document) insertAt(idx int, s *Section) {
	layout := d.ensureLayout()

	if idx >= len(d.sections) {
		pos := len(layout.Children)
		if n := len(d.sections); n > 0 {
			pos = slices.Index(layout.Children, d.sections[n-1].node) + 1
		}
		layout.insertChild(pos, s.node)
		d.sections = append(d.sections, s)
		return
	}

	pos := slices.Index(layout.Children, d.sections[idx].node)
	layout.insertChild(pos, s.node)
	d.sections = slices.Insert(d.sections, idx, s)
}

// Heading returns the text of the first h1-h6 inside the section's first cell.
func (s *Section) Heading() (string, bool) {
	if len(s.Cells) == 0 {
		return "", false
	}
	h := s.Cells[0].node.find(isHeading)
	if h == nil {
		return "", false
	}
	return normalizeSpace(h.TextContent()), true
}

// Markup renders the section element.
func (s *Section) Markup() string {
	return s.node.Markup()
}

// Content returns the cell's child nodes.
func (c *Cell) Content() []*Node {
	return c.node.Children
}

// Text returns the cell's text with runs of whitespace collapsed.
func (c *Cell) Text() string {
	return normalizeSpace(c.node.TextContent())
}

func isHeading(n *Node) bool {
	if n.Type != ElementNode || len(n.Name) != 2 || n.Name[0] != 'h' {
		return false
	}
	return n.Name[1] >= '1' && n.Name[1] <= '6'
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func typeAttr(t LayoutType) html.Attribute {
	return html.Attribute{Key: attrType, Val: string(t)}
}
