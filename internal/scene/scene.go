// Package scene is the headless element tree the editor projects its graph
// into. It stands in for the browser DOM: elements carry tags, classes and
// attributes, plus a canvas-space hit shape so pointer input can be resolved
// without a layout engine.
package scene

import (
	"strconv"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
)

// Well-known classes.
const (
	ClassContainer   = "parent-drawflow"
	ClassCanvas      = "drawflow"
	ClassParentNode  = "parent-node"
	ClassNode        = "drawflow-node"
	ClassInputs      = "inputs"
	ClassOutputs     = "outputs"
	ClassInput       = "input"
	ClassOutput      = "output"
	ClassContent     = "drawflow_content_node"
	ClassConnection  = "connection"
	ClassMainPath    = "main-path"
	ClassPoint       = "point"
	ClassDelete      = "drawflow-delete"
	ClassSelected    = "selected"
	ClassNodeInNode  = "node_in_node-"
	ClassNodeOutNode = "node_out_node-"
)

// Scene owns the element tree. Root is the editor container; Canvas is the
// transformed layer every node and connection lives in.
type Scene struct {
	Root   *Element
	Canvas *Element

	seq   int
	byKey map[string]*Element
}

// New returns a scene holding just the container and canvas.
func New() *Scene {
	s := &Scene{byKey: make(map[string]*Element)}
	s.Root = s.NewElement("div", ClassContainer)
	s.Canvas = s.NewElement("div", ClassCanvas)
	s.Root.Append(s.Canvas)
	return s
}

// NewElement creates a detached element with a fresh key.
func (s *Scene) NewElement(tag string, classes ...string) *Element {
	s.seq++
	e := &Element{
		Key:   "e" + strconv.Itoa(s.seq),
		Tag:   tag,
		scene: s,
	}
	e.AddClass(classes...)
	s.byKey[e.Key] = e
	return e
}

// Lookup returns the element registered under key.
func (s *Scene) Lookup(key string) *Element {
	return s.byKey[key]
}

// ByID returns the attached element whose id attribute is id.
func (s *Scene) ByID(id string) *Element {
	var found *Element
	s.Root.walk(func(e *Element) {
		if found == nil && e.ID == id {
			found = e
		}
	})
	return found
}

// Len reports how many elements are registered.
func (s *Scene) Len() int { return len(s.byKey) }

// Reset empties the canvas.
func (s *Scene) Reset() {
	s.Canvas.RemoveChildren()
}

func (s *Scene) forget(e *Element) {
	e.walk(func(x *Element) {
		delete(s.byKey, x.Key)
	})
}

// Walk visits attached elements in tree order.
func (s *Scene) Walk(fn func(*Element)) {
	s.Root.walk(fn)
}

// HitTest returns the topmost element whose shape contains p. The highest
// effective Z wins; on equal Z the element later in tree order wins, which
// puts children above their parents. With no hit the container is returned.
func (s *Scene) HitTest(p render.Vec) *Element {
	best := s.Root
	bestZ := -1 << 31
	var visit func(e *Element, z int)
	visit = func(e *Element, z int) {
		if e.Z > z {
			z = e.Z
		}
		if e.Shape != nil && e.Shape.Contains(p) && z >= bestZ {
			best, bestZ = e, z
		}
		for _, c := range e.children {
			visit(c, z)
		}
	}
	for _, c := range s.Root.children {
		visit(c, c.Z)
	}
	return best
}
