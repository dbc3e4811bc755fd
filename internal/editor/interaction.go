package editor

import (
	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// TargetKind is what a pointer landed on.
type TargetKind int

const (
	Unclassified TargetKind = iota
	NodeBody
	OutputPort
	InputPort
	CanvasBackground
	EdgePath
	ReroutePoint
	DeleteGlyph
)

func (k TargetKind) String() string {
	switch k {
	case NodeBody:
		return "node"
	case OutputPort:
		return "output"
	case InputPort:
		return "input"
	case CanvasBackground:
		return "canvas"
	case EdgePath:
		return "edge"
	case ReroutePoint:
		return "point"
	case DeleteGlyph:
		return "delete"
	}
	return "unclassified"
}

// Target is a classified pointer target. Element is the element the
// gesture acts on, which for clicks inside node content is the node.
type Target struct {
	Kind    TargetKind
	Element *scene.Element
}

// Classify maps an element to its target kind by its first class. Anything
// inside a node's content box counts as the node body.
func Classify(el *scene.Element) Target {
	if el == nil {
		return Target{}
	}
	if box := el.Closest(scene.ClassContent); box != nil {
		if node := box.Parent(); node != nil && node.HasClass(scene.ClassNode) {
			return Target{Kind: NodeBody, Element: node}
		}
	}
	kind := Unclassified
	switch el.FirstClass() {
	case scene.ClassNode:
		kind = NodeBody
	case scene.ClassOutput:
		kind = OutputPort
	case scene.ClassInput:
		kind = InputPort
	case scene.ClassContainer, scene.ClassCanvas:
		kind = CanvasBackground
	case scene.ClassMainPath:
		kind = EdgePath
	case scene.ClassPoint:
		kind = ReroutePoint
	case scene.ClassDelete:
		kind = DeleteGlyph
	}
	return Target{Kind: kind, Element: el}
}

// PointerKind is the phase of a pointer event.
type PointerKind string

const (
	PointerDown        PointerKind = "down"
	PointerMove        PointerKind = "move"
	PointerUp          PointerKind = "up"
	PointerDoubleClick PointerKind = "dblclick"
	PointerContextMenu PointerKind = "contextmenu"
	PointerLeave       PointerKind = "leave"
)

// Pointer is one pointer event in container coordinates. Target, when
// set, names the scene element under the pointer; otherwise the scene is
// hit-tested.
type Pointer struct {
	Kind   PointerKind `json:"kind" validate:"required,oneof=down move up dblclick contextmenu leave"`
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Button int         `json:"button"`
	Target string      `json:"target,omitempty"`
}

// Wheel is a wheel event.
type Wheel struct {
	DeltaY float64 `json:"delta_y"`
	Ctrl   bool    `json:"ctrl"`
}

const glyphRadius = 15

func (e *Editor) target(p Pointer) *scene.Element {
	if p.Target != "" {
		if el := e.env.sc.Lookup(p.Target); el != nil {
			return el
		}
	}
	return e.env.sc.HitTest(e.env.sess.Viewport().ToCanvas(p.X, p.Y))
}

// Pointer feeds one pointer event into the interaction state machine.
func (e *Editor) Pointer(p Pointer) {
	if !e.started {
		return
	}
	switch p.Kind {
	case PointerDown:
		e.pointerDown(p)
	case PointerMove:
		e.pointerMove(p)
	case PointerUp:
		e.pointerUp(p, e.target(p))
	case PointerLeave:
		e.pointerUp(p, nil)
	case PointerDoubleClick:
		e.doubleClick(p)
	case PointerContextMenu:
		e.contextMenu(p)
	}
}

func (e *Editor) pointerDown(p Pointer) {
	s := e.env.sess
	// A press without a matching release ends the gesture in progress.
	if s.Interaction == DragConnection {
		e.conns.cancelDraft()
	}
	if s.Interaction != Idle {
		e.cancelGesture()
	}
	el := e.target(p)
	e.emit(event.Click, event.Position{X: p.X, Y: p.Y})
	s.Start = render.Vec{X: p.X, Y: p.Y}
	s.Last = s.Start

	switch s.Mode {
	case ModeFixed:
		e.emit(event.ClickEnd, event.Position{X: p.X, Y: p.Y})
		return
	case ModeView:
		s.Interaction = Pan
		e.emit(event.ClickEnd, event.Position{X: p.X, Y: p.Y})
		return
	}

	s.FirstClick = el
	if p.Button == 0 {
		e.removeGlyph()
	}
	t := Classify(el)
	switch t.Kind {
	case NodeBody:
		e.selectNode(t.Element)
		if e.canDrag(el) {
			s.Interaction = DragNode
			s.Active = t.Element
		}
	case OutputPort:
		e.unselectAll()
		e.conns.beginDraft(t.Element)
	case CanvasBackground:
		e.unselectAll()
		s.Interaction = Pan
	case EdgePath:
		e.selectConnection(t.Element)
	case ReroutePoint:
		s.Interaction = DragPoint
		s.Active = t.Element
		t.Element.AddClass(scene.ClassSelected)
	case DeleteGlyph:
		e.deleteSelection()
	case InputPort, Unclassified:
	}
	e.emit(event.ClickEnd, event.Position{X: p.X, Y: p.Y})
}

// canDrag reports whether pressing on el may start a node drag. Select
// boxes never drag; other fields only with draggable inputs.
func (e *Editor) canDrag(el *scene.Element) bool {
	if el.Tag == "select" {
		return false
	}
	if !e.opts.DraggableInputs && el.Editable() {
		return false
	}
	return true
}

func (e *Editor) pointerMove(p Pointer) {
	s := e.env.sess
	cur := render.Vec{X: p.X, Y: p.Y}
	switch s.Interaction {
	case DragConnection:
		e.conns.updateDraft(cur)
	case Pan:
		s.Pan = render.Vec{X: cur.X - s.Start.X, Y: cur.Y - s.Start.Y}
		e.emit(event.Translate, event.Position{X: s.CanvasX + s.Pan.X, Y: s.CanvasY + s.Pan.Y})
	case DragNode:
		z := s.Zoom
		e.nodes.dragBy(s.Active, (cur.X-s.Last.X)/z, (cur.Y-s.Last.Y)/z)
	case DragPoint:
		e.dragPoint(s.Active, s.Viewport().ToCanvas(cur.X, cur.Y))
	}
	s.Last = cur
	e.emit(event.MouseMove, event.Position{X: p.X, Y: p.Y})
}

func (e *Editor) dragPoint(el *scene.Element, at render.Vec) {
	svg := el.Parent()
	if svg == nil {
		return
	}
	conn := svg.Ref.Conn
	if err := e.env.module().MovePoint(conn, pointIndex(el), graph.Point{X: at.X, Y: at.Y}); err != nil {
		return
	}
	e.conns.refresh(conn.OutputID)
}

// pointerUp ends the gesture. A nil target cancels any draft. Flags are
// cleared whatever the outcome.
func (e *Editor) pointerUp(p Pointer, target *scene.Element) {
	s := e.env.sess
	end := render.Vec{X: p.X, Y: p.Y}
	if p.Kind == PointerLeave {
		end = s.Last
	}
	moved := end != s.Start
	switch s.Interaction {
	case DragNode:
		if moved && s.Active != nil {
			e.emit(event.NodeMoved, s.Active.Ref.NodeID)
		}
	case DragPoint:
		if s.Active != nil {
			s.Active.RemoveClass(scene.ClassSelected)
			if svg := s.Active.Parent(); moved && svg != nil {
				e.emit(event.RerouteMoved, svg.Ref.Conn.OutputID)
			}
		}
	case Pan:
		s.CanvasX += end.X - s.Start.X
		s.CanvasY += end.Y - s.Start.Y
	case DragConnection:
		if p.Kind == PointerLeave {
			e.conns.cancelDraft()
		} else {
			e.conns.commitDraft(target)
		}
	}
	s.resetGesture()
	e.emit(event.MouseUp, event.Position{X: p.X, Y: p.Y})
}

func (e *Editor) doubleClick(p Pointer) {
	s := e.env.sess
	if s.Mode != ModeEdit || !e.opts.Reroute {
		return
	}
	el := e.target(p)
	if sel := s.SelectedConnection; sel != nil {
		svg := sel.Parent()
		if svg != nil {
			at := s.Viewport().ToCanvas(p.X, p.Y)
			idx := -1
			if e.opts.RerouteFixCurvature {
				idx = segmentIndex(sel)
			}
			e.unselectConnection()
			e.conns.insertPoint(svg.Ref.Conn, idx, graph.Point{X: at.X, Y: at.Y})
		}
	}
	if Classify(el).Kind == ReroutePoint {
		if svg := el.Parent(); svg != nil {
			e.conns.deletePoint(svg.Ref.Conn, pointIndex(el))
		}
	}
}

func (e *Editor) contextMenu(p Pointer) {
	s := e.env.sess
	e.emit(event.ContextMenu, event.Position{X: p.X, Y: p.Y})
	if s.Mode != ModeEdit {
		return
	}
	e.removeGlyph()
	if s.SelectedNode == nil && s.SelectedConnection == nil {
		return
	}
	g := e.env.sc.NewElement("div", scene.ClassDelete)
	g.Text = "x"
	g.Z = zGlyph
	if s.SelectedNode != nil {
		s.SelectedNode.Append(g)
		if n, ok := e.env.module().Node(s.SelectedNode.Ref.NodeID); ok {
			e.env.layoutNode(s.SelectedNode, n)
		}
	} else {
		at := s.Viewport().ToCanvas(p.X, p.Y)
		g.SetAttr("style", "top: "+px(at.Y)+"; left: "+px(at.X)+";")
		g.Shape = scene.Circle{C: at, R: glyphRadius}
		e.env.sc.Canvas.Append(g)
	}
	s.Glyph = g
}

func (e *Editor) removeGlyph() {
	s := e.env.sess
	for _, g := range e.env.sc.Canvas.Query(scene.ClassDelete) {
		g.Remove()
	}
	s.Glyph = nil
}

// Key handles a key press: delete, or platform modifier with backspace,
// removes the selection in edit mode unless an editable field has focus.
func (e *Editor) Key(k event.Key) {
	if !e.started {
		return
	}
	e.emit(event.KeyDown, k)
	s := e.env.sess
	if s.Mode != ModeEdit {
		return
	}
	if k.Key != "Delete" && !(k.Key == "Backspace" && (k.Meta || k.Ctrl)) {
		return
	}
	if s.FirstClick != nil && s.FirstClick.Editable() {
		return
	}
	e.deleteSelection()
}

// WheelEvent zooms with ctrl held: out for positive delta, in otherwise.
func (e *Editor) WheelEvent(w Wheel) {
	if !e.started || !w.Ctrl {
		return
	}
	if w.DeltaY > 0 {
		e.ZoomOut()
	} else {
		e.ZoomIn()
	}
}

// ---- selection ----

func (e *Editor) selectNode(el *scene.Element) {
	s := e.env.sess
	prev := s.SelectedNode
	if prev != nil {
		prev.RemoveClass(scene.ClassSelected)
		if prev != el {
			e.emit(event.NodeUnselected, prev.Ref.NodeID)
		}
	}
	e.unselectConnection()
	if prev != el {
		e.emit(event.NodeSelected, el.Ref.NodeID)
	}
	s.SelectedNode = el
	el.AddClass(scene.ClassSelected)
}

func (e *Editor) unselectNode() {
	s := e.env.sess
	if s.SelectedNode == nil {
		return
	}
	id := s.SelectedNode.Ref.NodeID
	s.SelectedNode.RemoveClass(scene.ClassSelected)
	s.SelectedNode = nil
	e.emit(event.NodeUnselected, id)
}

func (e *Editor) selectConnection(path *scene.Element) {
	e.unselectAll()
	s := e.env.sess
	s.SelectedConnection = path
	svg := path.Parent()
	if e.opts.RerouteFixCurvature && svg != nil {
		for _, p := range children(svg, scene.ClassMainPath) {
			p.AddClass(scene.ClassSelected)
		}
	} else {
		path.AddClass(scene.ClassSelected)
	}
	if svg != nil {
		e.emit(event.ConnectionSelected, svg.Ref.Conn)
	}
}

func (e *Editor) unselectConnection() {
	s := e.env.sess
	sel := s.SelectedConnection
	if sel == nil {
		return
	}
	s.SelectedConnection = nil
	svg := sel.Parent()
	if svg == nil {
		return
	}
	for _, p := range children(svg, scene.ClassMainPath) {
		p.RemoveClass(scene.ClassSelected)
	}
	e.emit(event.ConnectionUnselected, svg.Ref.Conn)
}

func (e *Editor) unselectAll() {
	e.unselectNode()
	e.unselectConnection()
}

// deleteSelection removes the selected node or connection.
func (e *Editor) deleteSelection() {
	s := e.env.sess
	e.removeGlyph()
	if s.SelectedNode != nil {
		id := s.SelectedNode.Ref.NodeID
		s.SelectedNode = nil
		e.nodes.remove(id)
	}
	if sel := s.SelectedConnection; sel != nil {
		s.SelectedConnection = nil
		if svg := sel.Parent(); svg != nil {
			e.conns.remove(s.Module, svg.Ref.Conn)
		}
	}
}
