package scene

import (
	"bytes"
	"io"
	"maps"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Render writes e and its subtree as HTML markup.
func Render(w io.Writer, e *Element) error {
	return html.Render(w, toHTML(e))
}

// Markup returns the rendered markup of e.
func Markup(e *Element) string {
	var b bytes.Buffer
	if err := Render(&b, e); err != nil {
		return ""
	}
	return b.String()
}

func toHTML(e *Element) *html.Node {
	if e.Tag == TextTag {
		return &html.Node{Type: html.TextNode, Data: e.Text}
	}
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     e.Tag,
		DataAtom: atom.Lookup([]byte(e.Tag)),
	}
	switch e.Tag {
	case "svg", "path", "circle":
		n.Namespace = "svg"
	}
	if e.ID != "" {
		n.Attr = append(n.Attr, html.Attribute{Key: "id", Val: e.ID})
	}
	if len(e.classes) > 0 {
		n.Attr = append(n.Attr, html.Attribute{Key: "class", Val: strings.Join(e.classes, " ")})
	}
	for _, k := range slices.Sorted(maps.Keys(e.Attrs)) {
		if k == "id" || k == "class" {
			continue
		}
		n.Attr = append(n.Attr, html.Attribute{Key: k, Val: e.Attrs[k]})
	}
	if e.Value != "" {
		if _, ok := e.Attrs["value"]; !ok && e.Tag == "input" {
			n.Attr = append(n.Attr, html.Attribute{Key: "value", Val: e.Value})
		}
	}
	if e.ContentEditable {
		if _, ok := e.Attrs["contenteditable"]; !ok {
			n.Attr = append(n.Attr, html.Attribute{Key: "contenteditable", Val: "true"})
		}
	}
	if e.Text != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: e.Text})
	}
	for _, c := range e.children {
		n.AppendChild(toHTML(c))
	}
	return n
}

// TextTag marks a text run element.
const TextTag = "#text"

// Parse converts an HTML fragment into detached scene elements, one per
// top-level node. Form fields keep their initial value in Value and
// contenteditable regions are flagged.
func (s *Scene) Parse(fragment string) ([]*Element, error) {
	ctx := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(fragment), ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		if e := s.fromHTML(n); e != nil {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *Scene) fromHTML(n *html.Node) *Element {
	switch n.Type {
	case html.TextNode:
		e := s.NewElement(TextTag)
		e.Text = n.Data
		return e
	case html.ElementNode:
	default:
		return nil
	}
	e := s.NewElement(n.Data)
	for _, a := range n.Attr {
		switch a.Key {
		case "id":
			e.ID = a.Val
		case "class":
			e.AddClass(strings.Fields(a.Val)...)
		case "contenteditable":
			e.ContentEditable = a.Val == "" || strings.EqualFold(a.Val, "true")
			e.SetAttr(a.Key, a.Val)
		case "value":
			e.Value = a.Val
			e.SetAttr(a.Key, a.Val)
		default:
			e.SetAttr(a.Key, a.Val)
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if ce := s.fromHTML(c); ce != nil {
			e.Append(ce)
		}
	}
	if e.Tag == "textarea" {
		e.Value = e.TextContent()
	}
	return e
}

// TextContent concatenates every text run below e.
func (e *Element) TextContent() string {
	var b strings.Builder
	e.walk(func(x *Element) {
		b.WriteString(x.Text)
	})
	return b.String()
}

// Editable reports whether e accepts text input.
func (e *Element) Editable() bool {
	switch e.Tag {
	case "input", "textarea", "select":
		return true
	}
	return e.ContentEditable
}
