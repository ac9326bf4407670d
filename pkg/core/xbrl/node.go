// Package xbrl parses XBRL instance documents into reporting contexts
// and tagged facts.
package xbrl

import (
	"encoding/xml"
	"fmt"
	"io"
)

// Node is one element of a parsed XML document. Children preserve
// document order; Text holds only the character data appearing before
// the first child element.
type Node struct {
	Space    string
	Local    string
	Attrs    []xml.Attr
	Text     string
	Children []*Node
}

// Tag returns the qualified tag in "{namespace}local" form, or just the
// local name when the element carries no namespace.
func (n *Node) Tag() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// Attr returns the value of the named attribute (matched on local name)
// and whether it was present.
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrDefault returns the named attribute's value, or def when absent.
func (n *Node) AttrDefault(name, def string) string {
	if v, ok := n.Attr(name); ok {
		return v
	}
	return def
}

// Walk visits n and every descendant in document order.
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Parse reads an XML document into a Node tree. Parsing is lenient:
// filings occasionally carry undeclared entities and loose markup.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("malformed XML: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				Space: t.Name.Space,
				Local: t.Name.Local,
				Attrs: append([]xml.Attr(nil), t.Attr...),
			}
			if len(stack) == 0 {
				if root == nil {
					root = n
				}
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		case xml.CharData:
			if len(stack) > 0 {
				n := stack[len(stack)-1]
				if len(n.Children) == 0 {
					n.Text += string(t)
				}
			}
		}
	}
	if root == nil {
		return nil, fmt.Errorf("empty XML document")
	}
	return root, nil
}
