package editor

import (
	"fmt"
	"math"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// connManager creates, redraws and destroys connections, their drafts and
// their reroute points. Record changes go through graph.Module.Link and
// Unlink only.
type connManager struct {
	*env
}

// connElement finds the live element of c by its classes.
func (c *connManager) connElement(conn graph.Conn) *scene.Element {
	return c.sc.Canvas.QueryOne(
		scene.ClassConnection,
		scene.ClassNodeOutNode+conn.OutputID,
		scene.ClassNodeInNode+conn.InputID,
		conn.OutputPort,
		conn.InputPort,
	)
}

// draw creates the element of an existing connection in the active module.
func (c *connManager) draw(conn graph.Conn) *scene.Element {
	svg := c.sc.NewElement("svg", scene.ClassConnection)
	c.label(svg, conn)
	path := c.sc.NewElement("path", scene.ClassMainPath)
	path.SetAttr("d", "")
	svg.Append(path)
	c.sc.Canvas.Append(svg)
	return svg
}

func (c *connManager) label(svg *scene.Element, conn graph.Conn) {
	svg.AddClass(
		scene.ClassNodeInNode+conn.InputID,
		scene.ClassNodeOutNode+conn.OutputID,
		conn.OutputPort,
		conn.InputPort,
	)
	svg.Ref = scene.Ref{Conn: conn}
	svg.Z = zConnection
}

// add links c in whichever module holds both endpoints.
func (c *connManager) add(conn graph.Conn) error {
	mOut, ok := c.store.ModuleOf(conn.OutputID)
	if !ok {
		return fmt.Errorf("node %s: %w", conn.OutputID, graph.ErrNotFound)
	}
	mIn, ok := c.store.ModuleOf(conn.InputID)
	if !ok {
		return fmt.Errorf("node %s: %w", conn.InputID, graph.ErrNotFound)
	}
	if mOut != mIn {
		return fmt.Errorf("%w: %s and %s are in different modules", graph.ErrInvalidOperation, conn.OutputID, conn.InputID)
	}
	mod, _ := c.store.Module(mOut)
	if err := mod.Link(conn); err != nil {
		return err
	}
	if mOut == c.sess.Module {
		c.draw(conn)
		c.refresh(conn.OutputID)
	}
	c.bus.Dispatch(event.ConnectionCreated, conn)
	return nil
}

// remove unlinks c in module, tolerating a missing side, and drops its
// element when the module is shown.
func (c *connManager) remove(module string, conn graph.Conn) bool {
	mod, ok := c.store.Module(module)
	if !ok || !mod.Unlink(conn) {
		return false
	}
	if module == c.sess.Module {
		if svg := c.connElement(conn); svg != nil {
			if sel := c.sess.SelectedConnection; sel != nil && svg.Contains(sel) {
				c.sess.SelectedConnection = nil
			}
			if c.sess.Active != nil && svg.Contains(c.sess.Active) {
				c.sess.resetGesture()
			}
			svg.Remove()
		}
	}
	c.bus.Dispatch(event.ConnectionRemoved, conn)
	return true
}

// removeAll removes every connection touching id, outgoing first.
func (c *connManager) removeAll(module, id string) int {
	mod, ok := c.store.Module(module)
	if !ok {
		return 0
	}
	n := 0
	for _, conn := range mod.ConnsOf(id) {
		if c.remove(module, conn) {
			n++
		}
	}
	return n
}

// refresh redraws every connection touching node id.
func (c *connManager) refresh(id string) {
	for _, conn := range c.module().ConnsOf(id) {
		if svg := c.connElement(conn); svg != nil {
			c.sync(svg, conn)
		}
	}
}

// refreshAll redraws every connection of the active module.
func (c *connManager) refreshAll() {
	for _, svg := range c.sc.Canvas.Query(scene.ClassConnection) {
		if svg.Ref.Conn != (graph.Conn{}) {
			c.sync(svg, svg.Ref.Conn)
		}
	}
}

// sync makes the element of conn match its record: one main path, or one
// per segment in fix-curvature mode, followed by one circle per point.
// Points are only drawn with reroute enabled. Unresolvable endpoints skip
// the update.
func (c *connManager) sync(svg *scene.Element, conn graph.Conn) {
	src, ok := portCenter(c.portElement(conn.OutputID, graph.Output, conn.OutputPort))
	if !ok {
		return
	}
	dst, ok := portCenter(c.portElement(conn.InputID, graph.Input, conn.InputPort))
	if !ok {
		return
	}
	var pts []graph.Point
	if c.opts.Reroute {
		p, err := c.module().Points(conn)
		if err != nil {
			return
		}
		pts = p
	}
	anchors := make([]render.Vec, len(pts))
	for i, p := range pts {
		anchors[i] = render.Vec{X: p.X, Y: p.Y}
	}
	segs := render.Route(src, dst, anchors, c.curvature())

	want := 1
	if c.opts.RerouteFixCurvature && len(pts) > 0 {
		want = len(pts) + 1
	}
	paths := children(svg, scene.ClassMainPath)
	for len(paths) < want {
		p := c.sc.NewElement("path", scene.ClassMainPath)
		if len(paths) > 0 && paths[0].HasClass(scene.ClassSelected) {
			p.AddClass(scene.ClassSelected)
		}
		svg.InsertBefore(p, firstChild(svg, scene.ClassPoint))
		paths = append(paths, p)
	}
	for len(paths) > want {
		last := paths[len(paths)-1]
		if c.sess.SelectedConnection == last {
			c.sess.SelectedConnection = paths[0]
		}
		last.Remove()
		paths = paths[:len(paths)-1]
	}
	if want == 1 {
		paths[0].SetAttr("d", render.Join(segs))
		paths[0].Shape = scene.Stroke{Segments: segs, Width: c.opts.LinePath}
	} else {
		for i, p := range paths {
			p.SetAttr("d", segs[i].Path())
			p.Shape = scene.Stroke{Segments: segs[i : i+1], Width: c.opts.LinePath}
		}
	}

	circles := children(svg, scene.ClassPoint)
	for len(circles) < len(pts) {
		el := c.newPoint()
		svg.Append(el)
		circles = append(circles, el)
	}
	for len(circles) > len(pts) {
		circles[len(circles)-1].Remove()
		circles = circles[:len(circles)-1]
	}
	for i, el := range circles {
		c.placePoint(el, pts[i])
	}
}

func (c *connManager) newPoint() *scene.Element {
	el := c.sc.NewElement("circle", scene.ClassPoint)
	el.Z = zPoint
	return el
}

func (c *connManager) placePoint(el *scene.Element, p graph.Point) {
	el.SetAttr("cx", num(p.X))
	el.SetAttr("cy", num(p.Y))
	el.SetAttr("r", num(c.opts.RerouteWidth))
	el.Shape = scene.Circle{C: render.Vec{X: p.X, Y: p.Y}, R: c.opts.RerouteWidth}
}

// ---- drafts ----

// beginDraft starts dragging a new connection out of an output port.
func (c *connManager) beginDraft(port *scene.Element) {
	svg := c.sc.NewElement("svg", scene.ClassConnection)
	path := c.sc.NewElement("path", scene.ClassMainPath)
	svg.Append(path)
	c.sc.Canvas.Append(svg)

	c.sess.Interaction = DragConnection
	c.sess.Active = port
	c.sess.Draft = svg
	c.sess.DraftFrom = graph.Conn{OutputID: port.Ref.NodeID, OutputPort: port.Ref.Port}
	c.bus.Dispatch(event.ConnectionStart, event.DraftStart{
		OutputID:   port.Ref.NodeID,
		OutputPort: port.Ref.Port,
	})
}

// updateDraft redraws the draft to the pointer, snapping to the closest
// eligible input port within SnapRadius screen pixels.
func (c *connManager) updateDraft(screen render.Vec) {
	s := c.sess
	if s.Draft == nil {
		return
	}
	src, ok := portCenter(s.Active)
	if !ok {
		return
	}
	vp := s.Viewport()
	end := vp.ToCanvas(screen.X, screen.Y)

	snap := c.snapTarget(screen)
	if snap != s.Snap {
		if s.Snap != nil {
			s.Snap.RemoveClass(ClassHighlight)
		}
		if snap != nil {
			snap.AddClass(ClassHighlight)
		}
		s.Snap = snap
	}
	if snap != nil {
		end, _ = portCenter(snap)
	}
	if path := firstChild(s.Draft, scene.ClassMainPath); path != nil {
		path.SetAttr("d", render.CurvePath(src.X, src.Y, end.X, end.Y, c.opts.Curvature, render.Standalone))
	}
}

// snapTarget returns the closest input port of another node within the
// snap radius. Ties keep the first port in tree order.
func (c *connManager) snapTarget(screen render.Vec) *scene.Element {
	vp := c.sess.Viewport()
	var best *scene.Element
	bestD := math.Inf(1)
	for _, in := range c.sc.Canvas.Query(scene.ClassInput) {
		if in.Ref.NodeID == c.sess.DraftFrom.OutputID {
			continue
		}
		center, ok := portCenter(in)
		if !ok {
			continue
		}
		p := vp.ToScreen(center)
		d := math.Hypot(p.X-screen.X, p.Y-screen.Y)
		if d <= SnapRadius && d < bestD {
			best, bestD = in, d
		}
	}
	return best
}

// resolveDrop picks the target input port for a drop on target: the port
// itself, the first input of a node body under force-first-input, or the
// highlighted snap port.
func (c *connManager) resolveDrop(target *scene.Element) (graph.Conn, bool) {
	conn := c.sess.DraftFrom
	if target != nil && target.FirstClass() == scene.ClassInput {
		conn.InputID, conn.InputPort = target.Ref.NodeID, target.Ref.Port
		return conn, true
	}
	if c.opts.ForceFirstInput && target != nil {
		if body := Classify(target); body.Kind == NodeBody {
			n, ok := c.module().Node(body.Element.Ref.NodeID)
			if !ok {
				return conn, false
			}
			names := n.InputNames()
			if len(names) == 0 {
				return conn, false
			}
			conn.InputID, conn.InputPort = n.ID, names[0]
			return conn, true
		}
	}
	if c.sess.Snap != nil {
		conn.InputID, conn.InputPort = c.sess.Snap.Ref.NodeID, c.sess.Snap.Ref.Port
		return conn, true
	}
	return conn, false
}

// commitDraft turns the draft into a connection, or cancels it. The store
// is only touched when the link succeeds.
func (c *connManager) commitDraft(target *scene.Element) bool {
	s := c.sess
	svg := s.Draft
	if svg == nil {
		return false
	}
	if s.Snap != nil {
		s.Snap.RemoveClass(ClassHighlight)
	}
	conn, ok := c.resolveDrop(target)
	var err error
	if ok {
		err = c.module().Link(conn)
	}
	if !ok || err != nil {
		c.log.Debug("connection draft rejected", "from", s.DraftFrom.OutputID, "port", s.DraftFrom.OutputPort, "err", err)
		c.cancelDraft()
		return false
	}
	c.label(svg, conn)
	c.sync(svg, conn)
	c.bus.Dispatch(event.ConnectionCreated, conn)
	return true
}

// cancelDraft discards the draft and emits connectionCancel.
func (c *connManager) cancelDraft() {
	s := c.sess
	if s.Draft == nil {
		return
	}
	if s.Snap != nil {
		s.Snap.RemoveClass(ClassHighlight)
	}
	s.Draft.Remove()
	s.Draft = nil
	c.bus.Dispatch(event.ConnectionCancel, event.DraftStart{
		OutputID:   s.DraftFrom.OutputID,
		OutputPort: s.DraftFrom.OutputPort,
	})
}

// ---- reroute points ----

// insertPoint adds a point to conn at index i (negative appends) and
// creates its elements in place.
func (c *connManager) insertPoint(conn graph.Conn, i int, p graph.Point) (int, error) {
	mod := c.module()
	pts, err := mod.Points(conn)
	if err != nil {
		return 0, err
	}
	if i < 0 || i > len(pts) {
		i = len(pts)
	}
	if err := mod.InsertPoint(conn, i, p); err != nil {
		return 0, err
	}
	if svg := c.connElement(conn); svg != nil {
		circles := children(svg, scene.ClassPoint)
		var ref *scene.Element
		if i < len(circles) {
			ref = circles[i]
		}
		svg.InsertBefore(c.newPoint(), ref)
		if c.opts.RerouteFixCurvature {
			svg.InsertBefore(c.sc.NewElement("path", scene.ClassMainPath), firstChild(svg, scene.ClassPoint))
		}
		c.sync(svg, conn)
	}
	c.bus.Dispatch(event.AddReroute, conn.OutputID)
	return i, nil
}

// deletePoint removes point i of conn along with its element.
func (c *connManager) deletePoint(conn graph.Conn, i int) error {
	if err := c.module().RemovePoint(conn, i); err != nil {
		return err
	}
	if svg := c.connElement(conn); svg != nil {
		if circles := children(svg, scene.ClassPoint); i < len(circles) {
			if c.sess.Active == circles[i] {
				c.sess.resetGesture()
			}
			circles[i].Remove()
		}
		c.sync(svg, conn)
	}
	c.bus.Dispatch(event.RemoveReroute, conn.OutputID)
	return nil
}

// pointIndex maps a point element to its index in the point list: its
// position among siblings minus the main paths before it.
func pointIndex(el *scene.Element) int {
	svg := el.Parent()
	if svg == nil {
		return -1
	}
	return el.Index() - len(children(svg, scene.ClassMainPath))
}

// segmentIndex maps a main path to the segment it draws.
func segmentIndex(path *scene.Element) int {
	if path.Parent() == nil {
		return -1
	}
	return path.Index()
}

func children(el *scene.Element, class string) []*scene.Element {
	var out []*scene.Element
	for _, ch := range el.Children() {
		if ch.HasClass(class) {
			out = append(out, ch)
		}
	}
	return out
}

func firstChild(el *scene.Element, class string) *scene.Element {
	for _, ch := range el.Children() {
		if ch.HasClass(class) {
			return ch
		}
	}
	return nil
}
