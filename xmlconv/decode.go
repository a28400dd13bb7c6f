package xmlconv

import (
	"bytes"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/signadot/xconv/debug"
	"github.com/signadot/xconv/format"
	"github.com/signadot/xconv/ir"
)

// Decode parses an XML document and folds its root element into a node
// under the given policy. The root tag itself is not part of the result.
// A document without a root element decodes to an empty object.
func Decode(d []byte, policy Policy) (*ir.Node, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(d))
	if err != nil {
		return nil, format.Malformed(format.XML, err)
	}
	root, err := rootElement(doc)
	if err != nil {
		return nil, err
	}
	if root == nil {
		return ir.NewObject(), nil
	}
	res := decodeElement(root, policy)
	if debug.XML() {
		debug.Logf("xml decode <%s> policy %s: %v\n", elementName(root), policy, res)
	}
	return res, nil
}

// Valid reports whether d is a well formed document with exactly one root
// element.
func Valid(d []byte) bool {
	t := bytes.TrimSpace(d)
	if len(t) == 0 || t[0] != '<' {
		return false
	}
	doc, err := xmlquery.Parse(bytes.NewReader(t))
	if err != nil {
		return false
	}
	root, err := rootElement(doc)
	return err == nil && root != nil
}

func rootElement(doc *xmlquery.Node) (*xmlquery.Node, error) {
	var root *xmlquery.Node
	for c := doc.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.ElementNode:
			if root != nil {
				return nil, format.Malformedf(format.XML, -1, "multiple root elements <%s> and <%s>",
					elementName(root), elementName(c))
			}
			root = c
		case xmlquery.TextNode, xmlquery.CharDataNode:
			if strings.TrimSpace(c.Data) != "" {
				return nil, format.Malformedf(format.XML, -1, "text outside of root element")
			}
		}
	}
	return root, nil
}

// element is an xml element split into the parts the policies fold.
type element struct {
	text     string
	attrs    *ir.Node
	children *ir.Node
}

func decodeElement(n *xmlquery.Node, policy Policy) *ir.Node {
	el := split(n, policy)
	var content *ir.Node
	if el.children != nil {
		content = el.children
	} else {
		content = Coerce(el.text)
	}
	if el.attrs == nil || policy == None {
		return content
	}
	switch policy {
	case Merge:
		res := ir.NewObject()
		if el.children != nil {
			for i, f := range el.children.Fields {
				res.Set(f, el.children.Values[i])
			}
		} else if el.text != "" {
			res.Set(ValueKey, content)
		}
		for i, f := range el.attrs.Fields {
			res.Set(f, el.attrs.Values[i])
		}
		return res
	case Group:
		res := ir.NewObject()
		if el.children != nil || el.text != "" {
			res.Set(ValueKey, content)
		}
		res.Set(AttributesKey, el.attrs)
		return res
	default:
		return el.attrs
	}
}

// split gathers the text, attributes and children of n. Children with a
// tag repeated among their siblings are collected into one array, in
// document order, at the position of the first occurrence.
func split(n *xmlquery.Node, policy Policy) *element {
	el := &element{}
	var text strings.Builder
	var counts map[string]int
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if counts == nil {
			counts = map[string]int{}
		}
		counts[elementName(c)]++
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xmlquery.TextNode, xmlquery.CharDataNode:
			text.WriteString(c.Data)
		case xmlquery.ElementNode:
			if el.children == nil {
				el.children = ir.NewObject()
			}
			name := elementName(c)
			v := decodeElement(c, policy)
			if counts[name] < 2 {
				el.children.Set(name, v)
				continue
			}
			seq := ir.Get(el.children, name)
			if seq == nil {
				seq = ir.NewArray()
				el.children.Set(name, seq)
			}
			seq.Append(v)
		}
	}
	el.text = strings.TrimSpace(text.String())
	if policy == None {
		return el
	}
	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" || a.Name.Local == "xmlns" {
			continue
		}
		if el.attrs == nil {
			el.attrs = ir.NewObject()
		}
		name := a.Name.Local
		if a.Name.Space != "" {
			name = a.Name.Space + ":" + name
		}
		el.attrs.Set(name, Coerce(a.Value))
	}
	return el
}

func elementName(n *xmlquery.Node) string {
	if n.Prefix != "" {
		return n.Prefix + ":" + n.Data
	}
	return n.Data
}
