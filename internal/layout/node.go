package layout

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
)

type NodeType int

const (
	TextNode NodeType = iota
	ElementNode
	CommentNode
	DoctypeNode
	// StrayNode is an end tag with no matching open element.
	StrayNode
)

// Node is a single piece of storage-format markup. Nodes read from markup keep
// the bytes they were read from, so untouched content renders exactly as it came in.
type Node struct {
	Type        NodeType
	Name        string // lower-cased tag name, elements only
	Attr        []html.Attribute
	Data        string // unescaped text of text and comment nodes
	Children    []*Node
	SelfClosing bool

	rawOpen  string
	rawClose string
	closed   bool
}

// void elements never take an end tag, even when written as <br> rather than <br/>.
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true, "hr": true,
	"img": true, "input": true, "link": true, "meta": true, "source": true,
	"track": true, "wbr": true,
}

func newElement(name string, attr ...html.Attribute) *Node {
	return &Node{Type: ElementNode, Name: name, Attr: attr, closed: true}
}

func newText(s string) *Node {
	return &Node{Type: TextNode, Data: s}
}

func (n *Node) appendChild(c ...*Node) {
	n.Children = append(n.Children, c...)
}

func (n *Node) insertChild(pos int, c *Node) {
	n.Children = append(n.Children, nil)
	copy(n.Children[pos+1:], n.Children[pos:])
	n.Children[pos] = c
}

func (n *Node) isElement(name string) bool {
	return n.Type == ElementNode && n.Name == name
}

// AttrVal returns the value of the named attribute, or "".
func (n *Node) AttrVal(key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// TextContent concatenates the text of n and all its descendants.
func (n *Node) TextContent() string {
	var sb strings.Builder
	n.collectText(&sb)
	return sb.String()
}

func (n *Node) collectText(sb *strings.Builder) {
	if n.Type == TextNode {
		sb.WriteString(n.Data)
		return
	}
	for _, c := range n.Children {
		c.collectText(sb)
	}
}

// find returns the first node in document order, n included, that matches.
func (n *Node) find(match func(*Node) bool) *Node {
	if match(n) {
		return n
	}
	for _, c := range n.Children {
		if found := c.find(match); found != nil {
			return found
		}
	}
	return nil
}

// parseNodes tokenizes markup into a forest. Tags are matched by name; an end
// tag closes the nearest open element with that name and anything opened after
// it stays unclosed, exactly as written.
func parseNodes(markup string) ([]*Node, error) {
	z := html.NewTokenizer(strings.NewReader(markup))
	z.AllowCDATA(true)

	root := &Node{Type: ElementNode, closed: true}
	stack := []*Node{root}

	for {
		tt := z.Next()
		// Raw must be copied before TagName/Text, which rewrite the buffer in place.
		raw := string(z.Raw())
		top := stack[len(stack)-1]

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, fmt.Errorf("failed to tokenize markup: %w", err)
			}
			// An incomplete tag at end of input is kept as literal text.
			if raw != "" {
				top.appendChild(&Node{Type: TextNode, Data: raw, rawOpen: raw})
			}
			return root.Children, nil

		case html.TextToken:
			top.appendChild(&Node{Type: TextNode, Data: string(z.Text()), rawOpen: raw})

		case html.CommentToken:
			top.appendChild(&Node{Type: CommentNode, Data: string(z.Text()), rawOpen: raw})

		case html.DoctypeToken:
			top.appendChild(&Node{Type: DoctypeNode, Data: string(z.Text()), rawOpen: raw})

		case html.StartTagToken, html.SelfClosingTagToken:
			el := &Node{Type: ElementNode, rawOpen: raw}
			name, more := z.TagName()
			el.Name = string(name)
			for more {
				var key, val []byte
				key, val, more = z.TagAttr()
				el.Attr = append(el.Attr, html.Attribute{Key: string(key), Val: string(val)})
			}
			top.appendChild(el)
			if tt == html.SelfClosingTagToken || voidElements[el.Name] {
				el.SelfClosing = tt == html.SelfClosingTagToken
				el.closed = true
				continue
			}
			stack = append(stack, el)

		case html.EndTagToken:
			name, _ := z.TagName()
			i := len(stack) - 1
			for ; i > 0; i-- {
				if stack[i].Name == string(name) {
					break
				}
			}
			if i == 0 {
				top.appendChild(&Node{Type: StrayNode, Name: string(name), rawOpen: raw})
				continue
			}
			stack[i].closed = true
			stack[i].rawClose = raw
			stack = stack[:i]
		}
	}
}

func renderNodes(nodes []*Node) string {
	var sb strings.Builder
	for _, n := range nodes {
		n.render(&sb)
	}
	return sb.String()
}

// Markup renders n back to storage format.
func (n *Node) Markup() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	switch n.Type {
	case TextNode:
		if n.rawOpen != "" {
			sb.WriteString(n.rawOpen)
		} else {
			sb.WriteString(html.EscapeString(n.Data))
		}
		return
	case CommentNode:
		if n.rawOpen != "" {
			sb.WriteString(n.rawOpen)
		} else {
			sb.WriteString("<!--" + n.Data + "-->")
		}
		return
	case DoctypeNode, StrayNode:
		sb.WriteString(n.rawOpen)
		return
	}

	if n.rawOpen != "" {
		sb.WriteString(n.rawOpen)
	} else {
		sb.WriteString("<" + n.Name)
		for _, a := range n.Attr {
			sb.WriteString(" " + a.Key + `="` + html.EscapeString(a.Val) + `"`)
		}
		if n.SelfClosing {
			sb.WriteString(" />")
		} else {
			sb.WriteString(">")
		}
	}

	for _, c := range n.Children {
		c.render(sb)
	}

	switch {
	case !n.closed:
	case n.rawClose != "":
		sb.WriteString(n.rawClose)
	case n.SelfClosing || voidElements[n.Name]:
	default:
		sb.WriteString("</" + n.Name + ">")
	}
}
