// Package binding implements the two-way link between a node's custom data
// and the form fields inside its content. A field opts in with an attribute
// named after a data path: df-name binds data["name"], df-address-city
// binds data["address"]["city"].
package binding

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// AttrPrefix marks a bound field attribute.
const AttrPrefix = "df-"

// Path is a key sequence into nested data.
type Path []string

// Attr returns the attribute name that binds p.
func (p Path) Attr() string {
	return AttrPrefix + strings.Join(p, "-")
}

func (p Path) String() string { return strings.Join(p, ".") }

// ParseAttr turns a df-* attribute name back into a Path.
func ParseAttr(name string) (Path, bool) {
	rest, ok := strings.CutPrefix(name, AttrPrefix)
	if !ok || rest == "" {
		return nil, false
	}
	return Path(strings.Split(rest, "-")), true
}

// Paths lists every leaf path of data in sorted key order. Nested objects
// are descended; anything else is a leaf.
func Paths(data map[string]interface{}) []Path {
	var out []Path
	collect(data, nil, &out)
	return out
}

func collect(m map[string]interface{}, prefix Path, out *[]Path) {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		p := append(slices.Clone(prefix), k)
		if sub, ok := m[k].(map[string]interface{}); ok {
			collect(sub, p, out)
			continue
		}
		*out = append(*out, p)
	}
}

// Lookup returns the value at p.
func Lookup(data map[string]interface{}, p Path) (interface{}, bool) {
	var cur interface{} = data
	for _, k := range p {
		m, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = m[k]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set writes v at p, creating intermediate objects as needed. A scalar in
// the way of the path is replaced by an object.
func Set(data map[string]interface{}, p Path, v interface{}) {
	if len(p) == 0 {
		return
	}
	cur := data
	for _, k := range p[:len(p)-1] {
		next, ok := cur[k].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			cur[k] = next
		}
		cur = next
	}
	cur[p[len(p)-1]] = v
}

// Binding is one resolved path with the fields bound to it.
type Binding struct {
	Path   Path
	Fields []*scene.Element
}

// Resolve finds, for every leaf path of data, the fields under root that
// carry its attribute. Paths with no field are kept so the binding set
// describes the whole data shape.
func Resolve(root *scene.Element, data map[string]interface{}) []Binding {
	paths := Paths(data)
	out := make([]Binding, 0, len(paths))
	for _, p := range paths {
		out = append(out, Binding{Path: p, Fields: fields(root, p.Attr())})
	}
	return out
}

func fields(root *scene.Element, attr string) []*scene.Element {
	var out []*scene.Element
	if _, ok := root.Attr(attr); ok {
		out = append(out, root)
	}
	return append(out, root.QueryAttr(attr)...)
}

// Apply pushes data values into the bound fields.
func Apply(bindings []Binding, data map[string]interface{}) {
	for _, b := range bindings {
		v, ok := Lookup(data, b.Path)
		if !ok {
			continue
		}
		s := Format(v)
		for _, f := range b.Fields {
			f.Value = s
			if f.ContentEditable {
				f.RemoveChildren()
				f.Text = s
			}
		}
	}
}

// WriteBack copies the edited field's value into data. Paths resolved at
// mount time that own the field win; a df-* attribute no resolved binding
// claims is parsed as a path. It returns the paths written.
func WriteBack(bindings []Binding, field *scene.Element, data map[string]interface{}) []Path {
	v := field.Value
	if field.ContentEditable {
		v = field.TextContent()
	}
	var written []Path
	claimed := make(map[string]bool)
	for _, b := range bindings {
		if !slices.Contains(b.Fields, field) {
			continue
		}
		claimed[b.Path.Attr()] = true
		Set(data, b.Path, v)
		written = append(written, b.Path)
	}
	names := make([]string, 0, len(field.Attrs))
	for name := range field.Attrs {
		if !claimed[name] {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	for _, name := range names {
		p, ok := ParseAttr(name)
		if !ok {
			continue
		}
		Set(data, p, v)
		written = append(written, p)
	}
	return written
}

// Format renders a data value the way a form field displays it.
func Format(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
