package layout

import (
	"fmt"
	"strings"
)

// MalformedFragmentError reports a section fragment that does not parse to
// exactly one ac:layout-section element.
type MalformedFragmentError struct {
	Reason string
}

func (e *MalformedFragmentError) Error() string {
	return "malformed section fragment: " + e.Reason
}

// ParseSection parses a fragment holding a single section. Whitespace and
// comments around the section are allowed, nothing else is.
func ParseSection(fragment string) (*Section, error) {
	nodes, err := parseNodes(fragment)
	if err != nil {
		return nil, &MalformedFragmentError{Reason: err.Error()}
	}

	var found *Node
	for _, n := range nodes {
		switch {
		case n.Type == CommentNode:
		case n.Type == TextNode && strings.TrimSpace(n.Data) == "":
		case n.isElement(tagSection):
			if found != nil {
				return nil, &MalformedFragmentError{Reason: "more than one layout section"}
			}
			if !n.closed {
				return nil, &MalformedFragmentError{Reason: "layout section is not closed"}
			}
			found = n
		case n.Type == ElementNode:
			return nil, &MalformedFragmentError{Reason: fmt.Sprintf("unexpected <%s> element", n.Name)}
		default:
			return nil, &MalformedFragmentError{Reason: "unexpected content outside the layout section"}
		}
	}
	if found == nil {
		return nil, &MalformedFragmentError{Reason: "no layout section"}
	}
	if err := checkWellFormed(found); err != nil {
		return nil, err
	}
	return newSection(found), nil
}

// checkWellFormed rejects unclosed elements and unmatched end tags anywhere
// below n. Storage format is XHTML, so nothing may be left implicit.
func checkWellFormed(n *Node) error {
	for _, c := range n.Children {
		switch {
		case c.Type == StrayNode:
			return &MalformedFragmentError{Reason: fmt.Sprintf("unexpected </%s> end tag", c.Name)}
		case c.Type == ElementNode && !c.closed:
			return &MalformedFragmentError{Reason: fmt.Sprintf("<%s> is not closed", c.Name)}
		}
		if err := checkWellFormed(c); err != nil {
			return err
		}
	}
	return nil
}

// InsertSection adds the section in fragment to the layout, creating an empty
// layout container first if the page has none.
//
// The position starts at the end. The first section whose heading is in after
// moves it to just before that section. Then every section whose heading is in
// before moves it to just after that section, so the last such match wins and
// overrides an after match.
//
// A malformed fragment leaves d untouched.
func (d *Document) InsertSection(fragment string, before, after []string) error {
	s, err := ParseSection(fragment)
	if err != nil {
		return err
	}
	d.insertAt(insertionIndex(d.sections, toSet(before), toSet(after)), s)
	return nil
}

// AppendSection adds the section in fragment as the last section.
func (d *Document) AppendSection(fragment string) error {
	return d.InsertSection(fragment, nil, nil)
}

func insertionIndex(sections []*Section, before, after map[string]bool) int {
	idx := len(sections)

	for i, s := range sections {
		if h, ok := s.Heading(); ok && after[h] {
			idx = i
			break
		}
	}
	for i, s := range sections {
		if h, ok := s.Heading(); ok && before[h] {
			idx = i + 1
		}
	}
	return idx
}

func toSet(headings []string) map[string]bool {
	set := make(map[string]bool, len(headings))
	for _, h := range headings {
		if h = normalizeSpace(h); h != "" {
			set[h] = true
		}
	}
	return set
}
