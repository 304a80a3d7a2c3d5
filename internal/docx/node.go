package docx

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Node is one element or character-data item of word/document.xml. The tree
// keeps every element and attribute it parsed, so documents survive a
// read-modify-write cycle without losing parts this package does not model.
type Node struct {
	Space string // resolved namespace URL, empty for chardata
	Local string // element local name, empty for chardata
	Attrs []xml.Attr
	Kids  []*Node
	Text  string // chardata content when Local is empty
}

// IsText reports whether the node is a character-data node.
func (n *Node) IsText() bool { return n.Local == "" }

// parseTree reads an XML document into a node tree and records the namespace
// prefixes declared on its elements so serialization can restore them.
func parseTree(r io.Reader) (*Node, map[string]string, error) {
	dec := xml.NewDecoder(r)
	prefixes := map[string]string{
		"http://www.w3.org/XML/1998/namespace": "xml",
	}

	var root *Node
	stack := []*Node{}
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Space: t.Name.Space, Local: t.Name.Local}
			n.Attrs = append(n.Attrs, t.Attr...)
			for _, a := range t.Attr {
				if a.Name.Space == "xmlns" {
					if _, seen := prefixes[a.Value]; !seen {
						prefixes[a.Value] = a.Name.Local
					}
				}
			}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Kids = append(parent.Kids, n)
			}
			stack = append(stack, n)
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, nil, fmt.Errorf("parse xml: unbalanced end element %s", t.Name.Local)
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) > 0 {
				parent := stack[len(stack)-1]
				parent.Kids = append(parent.Kids, &Node{Text: string(t)})
			}
		}
	}
	if root == nil {
		return nil, nil, fmt.Errorf("parse xml: empty document")
	}
	return root, prefixes, nil
}

// writeTree serializes a node tree back to XML using the recorded namespace
// prefixes. Word is strict about its w: prefixes, so namespaces are written
// by prefix rather than re-declared per element.
func writeTree(w io.Writer, n *Node, prefixes map[string]string) error {
	if n.IsText() {
		return escapeTo(w, n.Text)
	}

	name := qualifiedName(n.Space, n.Local, prefixes)
	if _, err := io.WriteString(w, "<"+name); err != nil {
		return err
	}
	for _, a := range n.Attrs {
		var attrName string
		switch {
		case a.Name.Space == "xmlns":
			attrName = "xmlns:" + a.Name.Local
		case a.Name.Space == "" && a.Name.Local == "xmlns":
			attrName = "xmlns"
		default:
			attrName = qualifiedName(a.Name.Space, a.Name.Local, prefixes)
		}
		if _, err := io.WriteString(w, " "+attrName+`="`); err != nil {
			return err
		}
		if err := escapeTo(w, a.Value); err != nil {
			return err
		}
		if _, err := io.WriteString(w, `"`); err != nil {
			return err
		}
	}
	if len(n.Kids) == 0 {
		_, err := io.WriteString(w, "/>")
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}
	for _, kid := range n.Kids {
		if err := writeTree(w, kid, prefixes); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "</"+name+">")
	return err
}

func qualifiedName(space, local string, prefixes map[string]string) string {
	if space == "" {
		return local
	}
	if p, ok := prefixes[space]; ok && p != "" {
		return p + ":" + local
	}
	return local
}

func escapeTo(w io.Writer, s string) error {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return err
	}
	// EscapeText also rewrites newlines and tabs; Word text never carries
	// them inside w:t, so plain escaping is enough.
	_, err := io.WriteString(w, b.String())
	return err
}

// child returns the first element child with the given local name.
func (n *Node) child(local string) *Node {
	for _, k := range n.Kids {
		if k.Local == local {
			return k
		}
	}
	return nil
}

// children returns all element children with the given local name.
func (n *Node) children(local string) []*Node {
	var out []*Node
	for _, k := range n.Kids {
		if k.Local == local {
			out = append(out, k)
		}
	}
	return out
}

// attr returns the value of the attribute with the given local name.
func (n *Node) attr(local string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) setAttr(space, local, value string) {
	for i, a := range n.Attrs {
		if a.Name.Local == local {
			n.Attrs[i].Value = value
			return
		}
	}
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Space: space, Local: local}, Value: value})
}

func (n *Node) removeAttr(local string) {
	for i, a := range n.Attrs {
		if a.Name.Local == local {
			n.Attrs = append(n.Attrs[:i], n.Attrs[i+1:]...)
			return
		}
	}
}

func (n *Node) removeKid(target *Node) {
	for i, k := range n.Kids {
		if k == target {
			n.Kids = append(n.Kids[:i], n.Kids[i+1:]...)
			return
		}
	}
}

// clone makes a deep copy of the node.
func (n *Node) clone() *Node {
	c := &Node{Space: n.Space, Local: n.Local, Text: n.Text}
	c.Attrs = append([]xml.Attr(nil), n.Attrs...)
	for _, k := range n.Kids {
		c.Kids = append(c.Kids, k.clone())
	}
	return c
}

// collectText gathers the chardata of all w:t descendants.
func (n *Node) collectText(sb *strings.Builder) {
	if n.Local == "t" {
		for _, k := range n.Kids {
			if k.IsText() {
				sb.WriteString(k.Text)
			}
		}
		return
	}
	for _, k := range n.Kids {
		if !k.IsText() {
			k.collectText(sb)
		}
	}
}
