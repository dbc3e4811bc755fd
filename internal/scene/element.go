package scene

import (
	"math"
	"slices"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
)

// Shape is the hit area of an element in canvas space.
type Shape interface {
	Contains(p render.Vec) bool
}

// Rect is an axis-aligned box.
type Rect struct {
	X, Y, W, H float64
}

func (r Rect) Contains(p render.Vec) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Circle is a disc.
type Circle struct {
	C render.Vec
	R float64
}

func (c Circle) Contains(p render.Vec) bool {
	return math.Hypot(p.X-c.C.X, p.Y-c.C.Y) <= c.R
}

// Stroke is the outline of a bezier path drawn Width wide.
type Stroke struct {
	Segments []render.Cubic
	Width    float64
}

func (s Stroke) Contains(p render.Vec) bool {
	for _, seg := range s.Segments {
		if seg.Distance(p) <= s.Width/2 {
			return true
		}
	}
	return false
}

// Ref links an element back to the graph record it projects.
type Ref struct {
	NodeID string
	Port   string
	Conn   graph.Conn
}

// Element is one node of the projected tree. Field names follow the DOM:
// the first class decides how the editor treats a pointer on it.
type Element struct {
	Key             string
	Tag             string
	ID              string
	Attrs           map[string]string
	Text            string
	Value           string
	ContentEditable bool
	Shape           Shape
	// Z orders hit testing; children inherit their parent's Z when higher.
	Z   int
	Ref Ref

	classes  []string
	parent   *Element
	children []*Element
	scene    *Scene
}

// Classes returns a copy of the class list.
func (e *Element) Classes() []string {
	return slices.Clone(e.classes)
}

// FirstClass returns classList[0], or "".
func (e *Element) FirstClass() string {
	if len(e.classes) == 0 {
		return ""
	}
	return e.classes[0]
}

// HasClass reports whether c is in the class list.
func (e *Element) HasClass(c string) bool {
	return slices.Contains(e.classes, c)
}

// AddClass appends c unless present.
func (e *Element) AddClass(c ...string) {
	for _, x := range c {
		if x != "" && !e.HasClass(x) {
			e.classes = append(e.classes, x)
		}
	}
}

// RemoveClass drops c.
func (e *Element) RemoveClass(c string) {
	e.classes = slices.DeleteFunc(e.classes, func(x string) bool { return x == c })
}

// SetClasses replaces the class list.
func (e *Element) SetClasses(c ...string) {
	e.classes = e.classes[:0]
	e.AddClass(c...)
}

// Attr returns an attribute value.
func (e *Element) Attr(name string) (string, bool) {
	v, ok := e.Attrs[name]
	return v, ok
}

// SetAttr sets an attribute.
func (e *Element) SetAttr(name, value string) {
	if e.Attrs == nil {
		e.Attrs = make(map[string]string)
	}
	e.Attrs[name] = value
}

// Parent returns the parent element or nil.
func (e *Element) Parent() *Element { return e.parent }

// Children returns a copy of the child list.
func (e *Element) Children() []*Element {
	return slices.Clone(e.children)
}

// Index returns the position of e among its siblings, or -1 when detached.
func (e *Element) Index() int {
	if e.parent == nil {
		return -1
	}
	return slices.Index(e.parent.children, e)
}

// Append adds child as the last child of e, detaching it first.
func (e *Element) Append(child *Element) {
	child.detach()
	child.parent = e
	e.children = append(e.children, child)
}

// InsertBefore inserts child before ref; a nil or foreign ref appends.
func (e *Element) InsertBefore(child, ref *Element) {
	child.detach()
	i := -1
	if ref != nil {
		i = slices.Index(e.children, ref)
	}
	child.parent = e
	if i < 0 {
		e.children = append(e.children, child)
		return
	}
	e.children = slices.Insert(e.children, i, child)
}

// ChildAt returns the i-th child or nil.
func (e *Element) ChildAt(i int) *Element {
	if i < 0 || i >= len(e.children) {
		return nil
	}
	return e.children[i]
}

// Remove detaches e and forgets its subtree.
func (e *Element) Remove() {
	e.detach()
	if e.scene != nil {
		e.scene.forget(e)
	}
}

// RemoveChildren drops every child of e.
func (e *Element) RemoveChildren() {
	for _, c := range e.Children() {
		c.Remove()
	}
}

func (e *Element) detach() {
	if e.parent == nil {
		return
	}
	p := e.parent
	p.children = slices.DeleteFunc(p.children, func(x *Element) bool { return x == e })
	e.parent = nil
}

// Closest returns e or its nearest ancestor carrying class c.
func (e *Element) Closest(c string) *Element {
	for cur := e; cur != nil; cur = cur.parent {
		if cur.HasClass(c) {
			return cur
		}
	}
	return nil
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for cur := other; cur != nil; cur = cur.parent {
		if cur == e {
			return true
		}
	}
	return false
}

// Query returns every descendant carrying all of classes, in tree order.
func (e *Element) Query(classes ...string) []*Element {
	var out []*Element
	e.walk(func(x *Element) {
		if x == e {
			return
		}
		for _, c := range classes {
			if !x.HasClass(c) {
				return
			}
		}
		out = append(out, x)
	})
	return out
}

// QueryOne returns the first match of Query or nil.
func (e *Element) QueryOne(classes ...string) *Element {
	if m := e.Query(classes...); len(m) > 0 {
		return m[0]
	}
	return nil
}

// QueryAttr returns descendants that carry attribute name.
func (e *Element) QueryAttr(name string) []*Element {
	var out []*Element
	e.walk(func(x *Element) {
		if x == e {
			return
		}
		if _, ok := x.Attrs[name]; ok {
			out = append(out, x)
		}
	})
	return out
}

func (e *Element) walk(fn func(*Element)) {
	fn(e)
	for _, c := range e.children {
		c.walk(fn)
	}
}
