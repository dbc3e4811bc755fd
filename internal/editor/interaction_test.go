package editor_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/editor"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/render"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

func down(e *editor.Editor, x, y float64) {
	e.Pointer(editor.Pointer{Kind: editor.PointerDown, X: x, Y: y})
}

func move(e *editor.Editor, x, y float64) {
	e.Pointer(editor.Pointer{Kind: editor.PointerMove, X: x, Y: y})
}

func up(e *editor.Editor, x, y float64) {
	e.Pointer(editor.Pointer{Kind: editor.PointerUp, X: x, Y: y})
}

func click(e *editor.Editor, x, y float64) {
	down(e, x, y)
	up(e, x, y)
}

func dblclick(e *editor.Editor, x, y float64) {
	e.Pointer(editor.Pointer{Kind: editor.PointerDoubleClick, X: x, Y: y})
}

func inputPort(t *testing.T, e *editor.Editor, id, port string) *scene.Element {
	t.Helper()
	el := e.Scene().ByID("node-" + id)
	require.NotNil(t, el)
	p := el.QueryOne(scene.ClassInput, port)
	require.NotNil(t, p)
	return p
}

// pair builds A (one output, origin) and B (one input, at 300,0). A's
// output sits at (160,20) and B's input at (300,20).
func pair(t *testing.T, e *editor.Editor) (string, string) {
	t.Helper()
	return addNode(t, e, "A", 0, 1, 0, 0), addNode(t, e, "B", 1, 0, 300, 0)
}

// ── classification ───────────────────────────────────────────────────────────

func TestClassify(t *testing.T) {
	sc := scene.New()
	node := sc.NewElement("div", scene.ClassNode)
	box := sc.NewElement("div", scene.ClassContent)
	field := sc.NewElement("input")
	box.Append(field)
	node.Append(box)
	sc.Canvas.Append(node)

	tests := []struct {
		name string
		el   *scene.Element
		want editor.TargetKind
	}{
		{"node", node, editor.NodeBody},
		{"content field", field, editor.NodeBody},
		{"output", sc.NewElement("div", scene.ClassOutput, "output_1"), editor.OutputPort},
		{"input", sc.NewElement("div", scene.ClassInput, "input_1"), editor.InputPort},
		{"container", sc.Root, editor.CanvasBackground},
		{"canvas", sc.Canvas, editor.CanvasBackground},
		{"path", sc.NewElement("path", scene.ClassMainPath), editor.EdgePath},
		{"point", sc.NewElement("circle", scene.ClassPoint), editor.ReroutePoint},
		{"glyph", sc.NewElement("div", scene.ClassDelete), editor.DeleteGlyph},
		{"other", sc.NewElement("span", "label"), editor.Unclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, editor.Classify(tt.el).Kind)
		})
	}
	assert.Same(t, node, editor.Classify(field).Element)
	assert.Equal(t, editor.Unclassified, editor.Classify(nil).Kind)
}

// ── connection drafts ────────────────────────────────────────────────────────

func TestDraft_DropOnInput(t *testing.T) {
	e := newEditor(t, nil)
	a, b := pair(t, e)
	r := record(e)

	down(e, 160, 20)
	assert.Equal(t, editor.DragConnection, e.Session().Interaction)
	require.Equal(t, []string{event.ConnectionStart}, r.names(event.ConnectionStart))
	assert.Equal(t, event.DraftStart{OutputID: a, OutputPort: "output_1"}, r.events[1].Payload)

	move(e, 250, 30)
	up(e, 300, 20)

	assert.Equal(t, 1, r.count(event.ConnectionCreated))
	assert.Zero(t, r.count(event.ConnectionCancel))
	assert.Equal(t, editor.Idle, e.Session().Interaction)
	nb, _ := e.GetNode(b)
	assert.Equal(t, []graph.InLink{{Node: a, Output: "output_1"}}, nb.Inputs["input_1"].Connections)

	svgs := connections(e)
	require.Len(t, svgs, 1)
	assert.True(t, svgs[0].HasClass("node_in_node-"+b))
}

func TestDraft_SnapRadius(t *testing.T) {
	e := newEditor(t, nil)
	_, b := pair(t, e)
	in := inputPort(t, e, b, "input_1")

	down(e, 160, 20)
	for _, p := range []render.Vec{
		{X: 325, Y: 20}, {X: 300, Y: 45}, {X: 275, Y: 20}, {X: 300, Y: -5}, {X: 317.6, Y: 37.6},
	} {
		move(e, p.X, p.Y)
		assert.Same(t, in, e.Session().Snap, "at %v", p)
		assert.True(t, in.HasClass(editor.ClassHighlight), "at %v", p)

		draft := e.Session().Draft
		require.NotNil(t, draft)
		d, _ := draft.QueryOne(scene.ClassMainPath).Attr("d")
		assert.True(t, strings.HasSuffix(d, "300  20"), "draft ends at the snapped port: %s", d)
	}

	move(e, 500, 300)
	assert.Nil(t, e.Session().Snap)
	assert.False(t, in.HasClass(editor.ClassHighlight))

	move(e, 310, 25)
	up(e, 310, 25)
	assert.False(t, in.HasClass(editor.ClassHighlight))
	require.Len(t, connections(e), 1)
	assert.True(t, connections(e)[0].HasClass("node_in_node-"+b))
}

func TestDraft_SnapTieKeepsFirstPort(t *testing.T) {
	e := newEditor(t, nil)
	_, b := pair(t, e)
	c := addNode(t, e, "C", 1, 0, 300, 40)

	down(e, 160, 20)
	move(e, 300, 40)
	assert.Same(t, inputPort(t, e, b, "input_1"), e.Session().Snap)
	up(e, 300, 40)

	nc, _ := e.GetNode(c)
	assert.Empty(t, nc.Inputs["input_1"].Connections)
	nb, _ := e.GetNode(b)
	assert.Len(t, nb.Inputs["input_1"].Connections, 1)
}

func TestDraft_Cancel(t *testing.T) {
	tests := []struct {
		name string
		end  func(t *testing.T, e *editor.Editor)
	}{
		{"empty canvas", func(t *testing.T, e *editor.Editor) {
			move(e, 600, 400)
			up(e, 600, 400)
		}},
		{"node body without snap", func(t *testing.T, e *editor.Editor) {
			up(e, 380, 35)
		}},
		{"pointer leaves while snapped", func(t *testing.T, e *editor.Editor) {
			move(e, 310, 25)
			e.Pointer(editor.Pointer{Kind: editor.PointerLeave, X: 900, Y: 900})
		}},
		{"mode change", func(t *testing.T, e *editor.Editor) {
			require.NoError(t, e.SetMode(editor.ModeView))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEditor(t, nil)
			_, b := pair(t, e)
			r := record(e)
			down(e, 160, 20)
			tt.end(t, e)

			assert.Zero(t, r.count(event.ConnectionCreated))
			assert.Empty(t, connections(e), "draft element is removed")
			assert.Nil(t, e.Session().Draft)
			assert.False(t, inputPort(t, e, b, "input_1").HasClass(editor.ClassHighlight))
			nb, _ := e.GetNode(b)
			assert.Empty(t, nb.Inputs["input_1"].Connections)
		})
	}
}

func TestDraft_SecondPressEndsFirstDraft(t *testing.T) {
	e := newEditor(t, nil)
	a, b := pair(t, e)
	r := record(e)

	down(e, 160, 20)
	move(e, 220, 60)
	down(e, 160, 20)
	move(e, 240, 80)
	require.Len(t, connections(e), 1, "only the live draft is in the scene")

	e.Pointer(editor.Pointer{Kind: editor.PointerLeave, X: 900, Y: 900})
	assert.Empty(t, connections(e))
	assert.Equal(t, editor.Idle, e.Session().Interaction)
	assert.Equal(t, 2, r.count(event.ConnectionStart))
	assert.Equal(t, 2, r.count(event.ConnectionCancel))

	down(e, 160, 20)
	down(e, 160, 20)
	up(e, 300, 20)
	require.Len(t, connections(e), 1)
	assert.Equal(t, graph.Conn{OutputID: a, OutputPort: "output_1", InputID: b, InputPort: "input_1"},
		connections(e)[0].Ref.Conn)
}

func TestDraft_CancelEmitsSource(t *testing.T) {
	e := newEditor(t, nil)
	a, _ := pair(t, e)
	r := record(e)
	down(e, 160, 20)
	up(e, 600, 400)

	var got []interface{}
	for _, ev := range r.events {
		if ev.Name == event.ConnectionCancel {
			got = append(got, ev.Payload)
		}
	}
	assert.Equal(t, []interface{}{event.DraftStart{OutputID: a, OutputPort: "output_1"}}, got)
}

func TestDraft_SelfDropCancels(t *testing.T) {
	e := newEditor(t, nil)
	a := addNode(t, e, "A", 1, 1, 0, 0)
	r := record(e)

	down(e, 160, 20)
	up(e, 0, 20)
	assert.Equal(t, 1, r.count(event.ConnectionCancel))
	assert.Zero(t, r.count(event.ConnectionCreated))
	na, _ := e.GetNode(a)
	assert.Empty(t, na.Inputs["input_1"].Connections)
}

func TestDraft_DuplicateCancels(t *testing.T) {
	e := newEditor(t, nil)
	a, b := pair(t, e)
	require.True(t, e.AddConnection(conn(a, "output_1", b, "input_1")))
	r := record(e)

	down(e, 160, 20)
	up(e, 300, 20)
	assert.Equal(t, 1, r.count(event.ConnectionCancel))
	assert.Len(t, connections(e), 1)
}

func TestDraft_ForceFirstInput(t *testing.T) {
	e := newEditor(t, func(o *editor.Options) { o.ForceFirstInput = true })
	a := addNode(t, e, "A", 0, 1, 0, 0)
	b := addNode(t, e, "B", 2, 0, 300, 0)
	d := addNode(t, e, "D", 0, 1, 300, 200)
	r := record(e)

	down(e, 160, 20)
	up(e, 380, 30)
	nb, _ := e.GetNode(b)
	assert.Equal(t, []graph.InLink{{Node: a, Output: "output_1"}}, nb.Inputs["input_1"].Connections)
	assert.Empty(t, nb.Inputs["input_2"].Connections)

	down(e, 160, 20)
	up(e, 380, 220)
	assert.Equal(t, 1, r.count(event.ConnectionCreated))
	assert.Equal(t, 1, r.count(event.ConnectionCancel), "a node without inputs rejects the drop")
	_, err := e.GetNode(d)
	require.NoError(t, err)
}

// ── node drag and selection ──────────────────────────────────────────────────

func TestNodeDrag(t *testing.T) {
	e := newEditor(t, nil)
	a, b := pair(t, e)
	require.True(t, e.AddConnection(conn(a, "output_1", b, "input_1")))
	r := record(e)

	down(e, 80, 30)
	assert.Equal(t, editor.DragNode, e.Session().Interaction)
	move(e, 100, 35)
	move(e, 130, 40)
	up(e, 130, 40)

	n, _ := e.GetNode(a)
	assert.Equal(t, 50.0, n.PosX)
	assert.Equal(t, 10.0, n.PosY)
	assert.Equal(t, 1, r.count(event.NodeMoved))
	assert.Equal(t, 1, r.count(event.NodeSelected))

	el := e.Scene().ByID("node-" + a)
	style, _ := el.Attr("style")
	assert.Equal(t, "top: 10px; left: 50px;", style)
	assert.True(t, el.HasClass(scene.ClassSelected))
	d, _ := connections(e)[0].QueryOne(scene.ClassMainPath).Attr("d")
	assert.True(t, strings.HasPrefix(d, " M 210 30 C"), d)

	click(e, 130, 40)
	assert.Equal(t, 1, r.count(event.NodeMoved), "a click without motion does not move")
	assert.Equal(t, 1, r.count(event.NodeSelected), "reselecting the same node is silent")
}

func TestNodeDrag_Zoomed(t *testing.T) {
	e := newEditor(t, func(o *editor.Options) { o.ZoomStep = 1; o.ZoomMax = 2 })
	a := addNode(t, e, "A", 0, 0, 0, 0)
	e.ZoomIn()
	require.Equal(t, 2.0, e.Zoom())

	down(e, 100, 40)
	move(e, 140, 60)
	up(e, 140, 60)
	n, _ := e.GetNode(a)
	assert.Equal(t, 20.0, n.PosX)
	assert.Equal(t, 10.0, n.PosY)
}

func TestSelection_Switching(t *testing.T) {
	e := newEditor(t, nil)
	a, b := pair(t, e)
	require.True(t, e.AddConnection(conn(a, "output_1", b, "input_1")))
	r := record(e)

	click(e, 80, 30)
	click(e, 380, 30)
	click(e, 230, 20)
	click(e, 700, 500)

	assert.Equal(t, []string{
		event.NodeSelected,
		event.NodeUnselected, event.NodeSelected,
		event.NodeUnselected, event.ConnectionSelected,
		event.ConnectionUnselected,
	}, r.names(event.NodeSelected, event.NodeUnselected, event.ConnectionSelected, event.ConnectionUnselected))
	s := e.Session()
	assert.Nil(t, s.SelectedNode)
	assert.Nil(t, s.SelectedConnection)
}

func TestDraggableInputs(t *testing.T) {
	spec := editor.NodeSpec{Name: "f", HTML: `<div><input type="text" df-name><select df-kind></select></div>`}
	for _, draggable := range []bool{true, false} {
		e := newEditor(t, func(o *editor.Options) { o.DraggableInputs = draggable })
		id, err := e.AddNode(spec)
		require.NoError(t, err)
		el := e.Scene().ByID("node-" + id)
		field := el.QueryAttr("df-name")[0]
		sel := el.QueryAttr("df-kind")[0]

		e.Pointer(editor.Pointer{Kind: editor.PointerDown, X: 20, Y: 20, Target: field.Key})
		assert.Equal(t, draggable, e.Session().Interaction == editor.DragNode, "input, draggable=%v", draggable)
		assert.Same(t, el, e.Session().SelectedNode)
		up(e, 20, 20)

		e.Pointer(editor.Pointer{Kind: editor.PointerDown, X: 20, Y: 20, Target: sel.Key})
		assert.Equal(t, editor.Idle, e.Session().Interaction, "select boxes never drag")
		up(e, 20, 20)
	}
}

// ── pan and modes ────────────────────────────────────────────────────────────

func TestPan(t *testing.T) {
	e := newEditor(t, nil)
	a := addNode(t, e, "A", 0, 0, 0, 0)
	r := record(e)

	down(e, 600, 400)
	assert.Equal(t, editor.Pan, e.Session().Interaction)
	move(e, 620, 410)
	up(e, 620, 410)

	x, y := e.Translation()
	assert.Equal(t, 20.0, x)
	assert.Equal(t, 10.0, y)
	var last interface{}
	for _, ev := range r.events {
		if ev.Name == event.Translate {
			last = ev.Payload
		}
	}
	assert.Equal(t, event.Position{X: 20, Y: 10}, last)

	// hit testing follows the pan
	click(e, 100, 30)
	assert.Equal(t, a, e.Session().SelectedNode.Ref.NodeID)
}

func TestModes_Pointer(t *testing.T) {
	t.Run("fixed", func(t *testing.T) {
		e := newEditor(t, func(o *editor.Options) { o.Mode = editor.ModeFixed })
		a, _ := pair(t, e)
		r := record(e)

		down(e, 80, 30)
		move(e, 120, 60)
		up(e, 120, 60)
		down(e, 600, 400)
		move(e, 650, 450)
		up(e, 650, 450)
		down(e, 160, 20)
		up(e, 300, 20)

		n, _ := e.GetNode(a)
		assert.Zero(t, n.PosX)
		x, y := e.Translation()
		assert.Zero(t, x)
		assert.Zero(t, y)
		assert.Zero(t, r.count(event.NodeSelected))
		assert.Zero(t, r.count(event.ConnectionStart))
		assert.Empty(t, connections(e))

		e.WheelEvent(editor.Wheel{DeltaY: -1, Ctrl: true})
		assert.InDelta(t, 1.1, e.Zoom(), 1e-9)
	})
	for _, m := range []editor.Mode{editor.ModeEdit, editor.ModeFixed, editor.ModeView} {
		t.Run("passthrough "+string(m), func(t *testing.T) {
			e := newEditor(t, func(o *editor.Options) { o.Mode = m })
			pair(t, e)
			r := record(e)
			click(e, 600, 400)
			assert.Equal(t, []string{event.Click, event.ClickEnd, event.MouseUp},
				r.names(event.Click, event.ClickEnd, event.MouseUp))
		})
	}
	t.Run("view", func(t *testing.T) {
		e := newEditor(t, func(o *editor.Options) { o.Mode = editor.ModeView })
		a, _ := pair(t, e)
		r := record(e)

		down(e, 80, 30)
		move(e, 120, 60)
		up(e, 120, 60)

		n, _ := e.GetNode(a)
		assert.Zero(t, n.PosX, "view mode pans instead of dragging")
		x, y := e.Translation()
		assert.Equal(t, 40.0, x)
		assert.Equal(t, 30.0, y)
		assert.Zero(t, r.count(event.NodeSelected))
	})
}

func TestWheel(t *testing.T) {
	e := newEditor(t, nil)
	e.WheelEvent(editor.Wheel{DeltaY: -1})
	assert.Equal(t, 1.0, e.Zoom(), "wheel without ctrl scrolls")
	e.WheelEvent(editor.Wheel{DeltaY: -1, Ctrl: true})
	assert.InDelta(t, 1.1, e.Zoom(), 1e-9)
	e.WheelEvent(editor.Wheel{DeltaY: 1, Ctrl: true})
	assert.InDelta(t, 1.0, e.Zoom(), 1e-9)
}

// ── keyboard and glyph ───────────────────────────────────────────────────────

func TestKey_DeleteSelection(t *testing.T) {
	tests := []struct {
		key     event.Key
		removes bool
	}{
		{event.Key{Key: "Delete"}, true},
		{event.Key{Key: "Backspace", Meta: true}, true},
		{event.Key{Key: "Backspace", Ctrl: true}, true},
		{event.Key{Key: "Backspace"}, false},
		{event.Key{Key: "a"}, false},
	}
	for _, tt := range tests {
		e := newEditor(t, nil)
		a, _ := pair(t, e)
		click(e, 80, 30)
		r := record(e)

		e.Key(tt.key)
		_, err := e.GetNode(a)
		assert.Equal(t, tt.removes, err != nil, "%+v", tt.key)
		assert.Equal(t, []string{event.KeyDown}, r.names(event.KeyDown))
	}
}

func TestKey_DeleteConnection(t *testing.T) {
	e := newEditor(t, nil)
	a, b := pair(t, e)
	require.True(t, e.AddConnection(conn(a, "output_1", b, "input_1")))
	click(e, 230, 20)
	r := record(e)

	e.Key(event.Key{Key: "Delete"})
	assert.Equal(t, 1, r.count(event.ConnectionRemoved))
	assert.Empty(t, connections(e))
	assert.Nil(t, e.Session().SelectedConnection)
}

func TestKey_IgnoredWhileEditingField(t *testing.T) {
	e := newEditor(t, nil)
	id, err := e.AddNode(editor.NodeSpec{Name: "f", HTML: `<input type="text" df-name>`})
	require.NoError(t, err)
	field := e.Scene().ByID("node-" + id).QueryAttr("df-name")[0]

	e.Pointer(editor.Pointer{Kind: editor.PointerDown, X: 20, Y: 20, Target: field.Key})
	up(e, 20, 20)
	e.Key(event.Key{Key: "Delete"})
	_, err = e.GetNode(id)
	assert.NoError(t, err)

	click(e, 80, 30)
	e.Key(event.Key{Key: "Delete"})
	_, err = e.GetNode(id)
	assert.ErrorIs(t, err, graph.ErrNotFound)
}

func TestKey_OnlyInEditMode(t *testing.T) {
	e := newEditor(t, nil)
	a, _ := pair(t, e)
	click(e, 80, 30)
	require.NoError(t, e.SetMode(editor.ModeView))
	e.Key(event.Key{Key: "Delete"})
	_, err := e.GetNode(a)
	assert.NoError(t, err)
}

func TestDeleteGlyph(t *testing.T) {
	e := newEditor(t, nil)
	a, _ := pair(t, e)
	click(e, 80, 30)
	e.Pointer(editor.Pointer{Kind: editor.PointerContextMenu, X: 80, Y: 30, Button: 2})

	glyph := e.Session().Glyph
	require.NotNil(t, glyph)
	assert.Same(t, e.Scene().ByID("node-"+a), glyph.Parent())

	down(e, 160, 0)
	up(e, 160, 0)
	_, err := e.GetNode(a)
	assert.ErrorIs(t, err, graph.ErrNotFound)
	assert.Empty(t, e.Scene().Canvas.Query(scene.ClassDelete))
}

func TestContextMenu_NothingSelected(t *testing.T) {
	e := newEditor(t, nil)
	r := record(e)
	e.Pointer(editor.Pointer{Kind: editor.PointerContextMenu, X: 10, Y: 10, Button: 2})
	assert.Equal(t, []string{event.ContextMenu}, r.names())
	assert.Nil(t, e.Session().Glyph)
}

// ── reroute ──────────────────────────────────────────────────────────────────

func points(t *testing.T, e *editor.Editor, id string) []graph.Point {
	t.Helper()
	n, err := e.GetNode(id)
	require.NoError(t, err)
	return n.Outputs["output_1"].Connections[0].Points
}

func TestReroute_Disabled(t *testing.T) {
	e := newEditor(t, nil)
	a, b := pair(t, e)
	c := conn(a, "output_1", b, "input_1")
	require.True(t, e.AddConnection(c))
	r := record(e)

	ok, err := e.AddReroutePoint(c, -1, graph.Point{X: 230, Y: 60})
	require.NoError(t, err)
	assert.False(t, ok)

	click(e, 230, 20)
	dblclick(e, 230, 60)
	assert.Empty(t, points(t, e, a))
	assert.Zero(t, r.count(event.AddReroute))
}

func TestReroute_DisabledIgnoresStoredPoints(t *testing.T) {
	doc := `{"drawflow":{"Home":{"data":{
		"1":{"id":1,"name":"A","data":{},"class":"","html":"","typenode":false,"inputs":{},
			"outputs":{"output_1":{"connections":[{"node":"2","output":"input_1","points":[{"pos_x":230,"pos_y":60}]}]}},"pos_x":0,"pos_y":0},
		"2":{"id":2,"name":"B","data":{},"class":"","html":"","typenode":false,
			"inputs":{"input_1":{"connections":[{"node":"1","input":"output_1"}]}},"outputs":{},"pos_x":300,"pos_y":0}}}}}`
	e := newEditor(t, nil)
	require.NoError(t, e.Import([]byte(doc), false))

	assert.Empty(t, e.Scene().Canvas.Query(scene.ClassPoint))
	d, _ := connections(e)[0].QueryOne(scene.ClassMainPath).Attr("d")
	assert.Equal(t, render.CurvePath(160, 20, 300, 20, 0.5, render.Standalone), d)
	assert.Len(t, points(t, e, "1"), 1, "stored points survive")
}

func TestReroute_AddMoveRemove(t *testing.T) {
	e := newEditor(t, func(o *editor.Options) { o.Reroute = true })
	a, b := pair(t, e)
	require.True(t, e.AddConnection(conn(a, "output_1", b, "input_1")))
	r := record(e)

	click(e, 230, 20)
	require.NotNil(t, e.Session().SelectedConnection)
	dblclick(e, 230, 60)

	assert.Equal(t, []graph.Point{{X: 230, Y: 60}}, points(t, e, a))
	assert.Equal(t, []string{event.AddReroute}, r.names(event.AddReroute))
	svg := connections(e)[0]
	assert.Len(t, svg.Query(scene.ClassMainPath), 1)
	circles := svg.Query(scene.ClassPoint)
	require.Len(t, circles, 1)
	cx, _ := circles[0].Attr("cx")
	assert.Equal(t, "230", cx)

	down(e, 230, 60)
	assert.Equal(t, editor.DragPoint, e.Session().Interaction)
	move(e, 240, 80)
	up(e, 240, 80)
	assert.Equal(t, []graph.Point{{X: 240, Y: 80}}, points(t, e, a))
	assert.Equal(t, 1, r.count(event.RerouteMoved))
	assert.Same(t, circles[0], svg.Query(scene.ClassPoint)[0], "dragging keeps the element")

	dblclick(e, 240, 80)
	assert.Empty(t, points(t, e, a))
	assert.Equal(t, 1, r.count(event.RemoveReroute))
	assert.Empty(t, svg.Query(scene.ClassPoint))
}

func TestReroute_FixCurvature(t *testing.T) {
	e := newEditor(t, func(o *editor.Options) {
		o.Reroute = true
		o.RerouteFixCurvature = true
	})
	a, b := pair(t, e)
	c := conn(a, "output_1", b, "input_1")
	require.True(t, e.AddConnection(c))

	click(e, 230, 20)
	dblclick(e, 230, 60)
	svg := connections(e)[0]
	paths := svg.Query(scene.ClassMainPath)
	require.Len(t, paths, 2, "one path per segment")
	d0, _ := paths[0].Attr("d")
	assert.True(t, strings.HasPrefix(d0, " M 160 20"), d0)
	assert.True(t, strings.HasSuffix(d0, "230  60"), d0)

	// a point added on the second segment lands between the first point and the input
	click(e, 265, 40)
	sel := e.Session().SelectedConnection
	require.NotNil(t, sel)
	assert.Same(t, paths[1], sel)
	for _, p := range svg.Query(scene.ClassMainPath) {
		assert.True(t, p.HasClass(scene.ClassSelected), "the whole connection is selected")
	}
	dblclick(e, 265, 40)
	assert.Equal(t, []graph.Point{{X: 230, Y: 60}, {X: 265, Y: 40}}, points(t, e, a))
	assert.Len(t, svg.Query(scene.ClassMainPath), 3)

	require.NoError(t, e.RemoveReroutePoint(c, 0))
	assert.Equal(t, []graph.Point{{X: 265, Y: 40}}, points(t, e, a))
	assert.Len(t, svg.Query(scene.ClassMainPath), 2)
	assert.Len(t, svg.Query(scene.ClassPoint), 1)
}

func TestReroute_API(t *testing.T) {
	e := newEditor(t, func(o *editor.Options) { o.Reroute = true })
	a, b := pair(t, e)
	c := conn(a, "output_1", b, "input_1")
	require.True(t, e.AddConnection(c))

	for _, p := range []graph.Point{{X: 200, Y: 50}, {X: 260, Y: 50}} {
		ok, err := e.AddReroutePoint(c, -1, p)
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := e.AddReroutePoint(c, 1, graph.Point{X: 230, Y: 90})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []graph.Point{{X: 200, Y: 50}, {X: 230, Y: 90}, {X: 260, Y: 50}}, points(t, e, a))

	cx, _ := connections(e)[0].Query(scene.ClassPoint)[1].Attr("cx")
	assert.Equal(t, "230", cx)

	assert.Error(t, e.RemoveReroutePoint(c, 5))
	_, err = e.AddReroutePoint(conn(a, "output_1", b, "input_9"), -1, graph.Point{})
	assert.ErrorIs(t, err, graph.ErrNotFound)
}
