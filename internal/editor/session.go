package editor

import (
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// Interaction is the gesture in progress. At most one is active.
type Interaction int

const (
	Idle Interaction = iota
	DragNode
	DragConnection
	DragPoint
	Pan
)

func (i Interaction) String() string {
	switch i {
	case DragNode:
		return "drag-node"
	case DragConnection:
		return "drag-connection"
	case DragPoint:
		return "drag-point"
	case Pan:
		return "pan"
	}
	return "idle"
}

// Session is the mutable interaction state of one editor: which module is
// shown, what is selected, and the gesture between pointer-down and
// pointer-up. The editor owns it and hands it to each manager.
type Session struct {
	Module string
	Mode   Mode

	Interaction Interaction

	// Selection.
	SelectedNode       *scene.Element
	SelectedConnection *scene.Element

	// Gesture state.
	Active     *scene.Element // node, point or draft source being dragged
	FirstClick *scene.Element
	Draft      *scene.Element
	DraftFrom  graph.Conn
	Snap       *scene.Element
	Glyph      *scene.Element

	Start render.Vec // pointer at pointer-down, screen space
	Last  render.Vec // pointer at the previous event, screen space
	Pan   render.Vec // uncommitted pan while panning

	// Viewport.
	CanvasX, CanvasY float64
	Zoom, ZoomLast   float64

	// NextID is the next sequential node id.
	NextID int
}

func newSession(mode Mode) *Session {
	return &Session{
		Module:   graph.HomeModule,
		Mode:     mode,
		Zoom:     1,
		ZoomLast: 1,
		NextID:   1,
	}
}

// Viewport returns the committed zoom/pan mapping.
func (s *Session) Viewport() render.Viewport {
	return render.Viewport{Origin: render.Vec{X: s.CanvasX, Y: s.CanvasY}, Zoom: s.Zoom}
}

// resetGesture drops gesture flags without touching selection.
func (s *Session) resetGesture() {
	s.Interaction = Idle
	s.Active = nil
	s.Draft = nil
	s.DraftFrom = graph.Conn{}
	s.Snap = nil
	s.Pan = render.Vec{}
}

// resetView returns to the home viewport.
func (s *Session) resetView() {
	s.CanvasX, s.CanvasY = 0, 0
	s.Zoom, s.ZoomLast = 1, 1
}
