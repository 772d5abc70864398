package mustml

import (
	"strings"

	"golang.org/x/net/html/atom"
)

// Attribute is a single rendered attribute. Attribute order on a Node is
// insertion order; keys are unique.
type Attribute struct {
	Key string
	Val string
}

// Node is one markup element in the builder tree: a tag, ordered attributes,
// children and a self-closing flag. Nodes are owned by the Builder that
// created them until rendering; rendering never mutates them.
type Node struct {
	Tag      string
	DataAtom atom.Atom

	Attr     []Attribute
	Children []*Node

	SelfClosing bool
}

func newNode(tag string) *Node {
	return &Node{Tag: tag, DataAtom: atom.Lookup([]byte(tag))}
}

// SetAttr sets an attribute, replacing the value in place if the key is
// already present so that insertion order is preserved.
func (n *Node) SetAttr(key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, Attribute{Key: key, Val: val})
}

// AttrVal returns the value of the named attribute.
func (n *Node) AttrVal(key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// Render serializes the node and its children to markup text by depth-first,
// document-order traversal.
func (n *Node) Render() string {
	var sb strings.Builder
	n.render(&sb)
	return sb.String()
}

func (n *Node) render(sb *strings.Builder) {
	sb.WriteByte('<')
	sb.WriteString(n.Tag)
	for _, a := range n.Attr {
		sb.WriteByte(' ')
		sb.WriteString(a.Key)
		sb.WriteString(`="`)
		sb.WriteString(escapeAttr(a.Val))
		sb.WriteByte('"')
	}
	if n.SelfClosing {
		sb.WriteString(" />")
		return
	}
	sb.WriteByte('>')
	for _, c := range n.Children {
		c.render(sb)
	}
	sb.WriteString("</")
	sb.WriteString(n.Tag)
	sb.WriteByte('>')
}

// Attribute values always use double-quote delimiters and never contain a raw
// double quote by construction, but metacharacters are still escaped.
var attrEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
)

func escapeAttr(s string) string {
	return attrEscaper.Replace(s)
}

// nodeStack is the stack of currently open elements.
type nodeStack []*Node

// pop pops the stack. It will panic if the stack is empty.
func (s *nodeStack) pop() *Node {
	i := len(*s)
	n := (*s)[i-1]
	*s = (*s)[:i-1]
	return n
}

// top returns the most recently pushed node, or nil if the stack is empty.
func (s *nodeStack) top() *Node {
	if i := len(*s); i > 0 {
		return (*s)[i-1]
	}
	return nil
}
