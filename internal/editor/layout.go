package editor

import (
	"math"
	"strconv"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// ClassHighlight marks the input port a draft would snap to.
const ClassHighlight = "snap"

// SnapRadius is the magnetic snap distance in screen pixels.
const SnapRadius = 30

// Paint order for hit testing.
const (
	zConnection = 0
	zPoint      = 1
	zNode       = 2
	zGlyph      = 4
)

// nodeElementID is the DOM id of a node's element.
func nodeElementID(id string) string { return "node-" + id }

// nodeElement finds the live element of node id.
func (d *env) nodeElement(id string) *scene.Element {
	return d.sc.ByID(nodeElementID(id))
}

// portElement finds a live port element.
func (d *env) portElement(id string, dir graph.Direction, port string) *scene.Element {
	el := d.nodeElement(id)
	if el == nil {
		return nil
	}
	box := scene.ClassInputs
	if dir == graph.Output {
		box = scene.ClassOutputs
	}
	c := el.QueryOne(box)
	if c == nil {
		return nil
	}
	for _, p := range c.Children() {
		if p.Ref.Port == port {
			return p
		}
	}
	return nil
}

// portCenter returns the canvas-space centre of a port element.
func portCenter(el *scene.Element) (render.Vec, bool) {
	if el == nil {
		return render.Vec{}, false
	}
	c, ok := el.Shape.(scene.Circle)
	if !ok {
		return render.Vec{}, false
	}
	return c.C, true
}

func (d *env) nodeHeight(el *scene.Element) float64 {
	l := d.opts.Layout
	ports := 0
	if in := el.QueryOne(scene.ClassInputs); in != nil {
		ports = len(in.Children())
	}
	if out := el.QueryOne(scene.ClassOutputs); out != nil {
		ports = max(ports, len(out.Children()))
	}
	h := l.MinHeight
	if ports > 0 {
		h = math.Max(h, 2*l.PortTop+float64(ports-1)*l.PortSpacing)
	}
	return h
}

// layoutNode positions a node element and its ports from the record.
// Ports are placed by their order inside their container.
func (d *env) layoutNode(el *scene.Element, n *graph.Node) {
	l := d.opts.Layout
	el.SetAttr("style", "top: "+px(n.PosY)+"; left: "+px(n.PosX)+";")
	el.Shape = scene.Rect{X: n.PosX, Y: n.PosY, W: l.NodeWidth, H: d.nodeHeight(el)}
	place := func(box string, x float64) {
		c := el.QueryOne(box)
		if c == nil {
			return
		}
		for i, p := range c.Children() {
			p.Shape = scene.Circle{
				C: render.Vec{X: x, Y: n.PosY + l.PortTop + float64(i)*l.PortSpacing},
				R: l.PortRadius,
			}
		}
	}
	place(scene.ClassInputs, n.PosX)
	place(scene.ClassOutputs, n.PosX+l.NodeWidth)
	if g := el.QueryOne(scene.ClassDelete); g != nil {
		g.Shape = scene.Circle{C: render.Vec{X: n.PosX + l.NodeWidth, Y: n.PosY}, R: glyphRadius}
	}
}

func (d *env) newPortElement(id string, dir graph.Direction, port string) *scene.Element {
	class := scene.ClassInput
	if dir == graph.Output {
		class = scene.ClassOutput
	}
	p := d.sc.NewElement("div", class, port)
	p.Ref = scene.Ref{NodeID: id, Port: port}
	return p
}

func px(v float64) string { return num(v) + "px" }

func num(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
