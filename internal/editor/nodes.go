package editor

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/binding"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/content"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/scene"
)

// NodeSpec describes a node to create.
type NodeSpec struct {
	Name     string                 `json:"name"`
	Inputs   int                    `json:"inputs" validate:"gte=0"`
	Outputs  int                    `json:"outputs" validate:"gte=0"`
	X        float64                `json:"pos_x"`
	Y        float64                `json:"pos_y"`
	Class    string                 `json:"class"`
	Data     map[string]interface{} `json:"data"`
	HTML     string                 `json:"html"`
	TypeNode graph.TypeNode         `json:"typenode"`
}

// nodeManager creates, rebuilds and destroys nodes and their ports.
type nodeManager struct {
	*env
	conns    *connManager
	registry *content.Registry
	mounts   map[string]*mounted
}

// mounted is the content of one node body with the bindings resolved when
// it was mounted.
type mounted struct {
	handle *content.Handle
	binds  []binding.Binding
}

func (m *nodeManager) nextID() string {
	if m.opts.UseUUID {
		return uuid.NewString()
	}
	id := strconv.Itoa(m.sess.NextID)
	m.sess.NextID++
	return id
}

// create stores a new node in the active module and projects it.
func (m *nodeManager) create(spec NodeSpec) (string, error) {
	if spec.Inputs < 0 || spec.Outputs < 0 {
		return "", fmt.Errorf("%w: negative port count", graph.ErrInvalidOperation)
	}
	if !finite(spec.X) || !finite(spec.Y) {
		return "", fmt.Errorf("%w: position must be finite", graph.ErrInvalidOperation)
	}
	id := m.nextID()
	n := graph.NewNode(id, spec.Name, spec.Inputs, spec.Outputs, spec.X, spec.Y)
	n.Class = spec.Class
	n.HTML = spec.HTML
	n.TypeNode = spec.TypeNode
	if spec.Data != nil {
		n.Data = graph.CloneData(spec.Data)
	}

	el, err := m.build(n, true)
	if err != nil {
		return "", err
	}
	if err := m.store.PutNode(m.sess.Module, n); err != nil {
		m.unmount(id)
		el.Remove()
		return "", err
	}
	m.sc.Canvas.Append(el)
	m.log.Debug("node created", "node", id, "name", n.Name, "module", m.sess.Module)
	m.bus.Dispatch(event.NodeCreated, id)
	return id, nil
}

// importNode projects an existing record without touching the store.
func (m *nodeManager) importNode(n *graph.Node) {
	el, err := m.build(n, false)
	if err != nil {
		return
	}
	m.sc.Canvas.Append(el)
}

// build creates the element tree of n. With strict set a content mount
// failure is returned; otherwise it is logged and the body left empty.
func (m *nodeManager) build(n *graph.Node, strict bool) (*scene.Element, error) {
	parent := m.sc.NewElement("div", scene.ClassParentNode)
	el := m.sc.NewElement("div", scene.ClassNode)
	el.AddClass(strings.Fields(n.Class)...)
	el.ID = nodeElementID(n.ID)
	el.Ref = scene.Ref{NodeID: n.ID}
	el.Z = zNode

	inputs := m.sc.NewElement("div", scene.ClassInputs)
	for _, p := range n.InputNames() {
		inputs.Append(m.newPortElement(n.ID, graph.Input, p))
	}
	body := m.sc.NewElement("div", scene.ClassContent)
	outputs := m.sc.NewElement("div", scene.ClassOutputs)
	for _, p := range n.OutputNames() {
		outputs.Append(m.newPortElement(n.ID, graph.Output, p))
	}
	el.Append(inputs)
	el.Append(body)
	el.Append(outputs)
	parent.Append(el)

	if err := m.mount(body, n); err != nil {
		if strict {
			parent.Remove()
			return nil, err
		}
		m.log.Warn("node content not mounted", "node", n.ID, "err", err)
	}
	m.layoutNode(el, n)
	return parent, nil
}

// mount renders the body and pushes bound data values into it.
func (m *nodeManager) mount(body *scene.Element, n *graph.Node) error {
	if n.HTML == "" {
		return nil
	}
	h, err := m.registry.Mount(m.sc, n)
	if err != nil {
		return fmt.Errorf("mount node %s: %w", n.ID, err)
	}
	for _, e := range h.Elements {
		body.Append(e)
	}
	binds := binding.Resolve(body, n.Data)
	binding.Apply(binds, n.Data)
	m.mounts[n.ID] = &mounted{handle: h, binds: binds}
	return nil
}

func (m *nodeManager) unmount(id string) {
	if mt, ok := m.mounts[id]; ok {
		mt.handle.Unmount()
		delete(m.mounts, id)
	}
}

func (m *nodeManager) unmountAll() {
	for id := range m.mounts {
		m.unmount(id)
	}
}

// remove deletes node id from whichever module holds it: connections
// first, then the record.
func (m *nodeManager) remove(id string) error {
	module, ok := m.store.ModuleOf(id)
	if !ok {
		return fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	m.conns.removeAll(module, id)
	if module == m.sess.Module {
		if el := m.nodeElement(id); el != nil {
			if m.sess.SelectedNode == el {
				m.sess.SelectedNode = nil
			}
			if m.sess.Active != nil && el.Contains(m.sess.Active) {
				m.sess.resetGesture()
			}
			m.unmount(id)
			if p := el.Parent(); p != nil && p.HasClass(scene.ClassParentNode) {
				p.Remove()
			} else {
				el.Remove()
			}
		}
	}
	m.store.DeleteNode(module, id)
	m.log.Debug("node removed", "node", id, "module", module)
	m.bus.Dispatch(event.NodeRemoved, id)
	return nil
}

// addPort appends a port and returns its name.
func (m *nodeManager) addPort(id string, dir graph.Direction) (string, error) {
	module, ok := m.store.ModuleOf(id)
	if !ok {
		return "", fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	mod, _ := m.store.Module(module)
	name, err := mod.AddPort(id, dir)
	if err != nil {
		return "", err
	}
	if module == m.sess.Module {
		m.relayout(id, func(el *scene.Element) {
			box := scene.ClassInputs
			if dir == graph.Output {
				box = scene.ClassOutputs
			}
			if c := el.QueryOne(box); c != nil {
				c.Append(m.newPortElement(id, dir, name))
			}
		})
	}
	return name, nil
}

// removePort disconnects and deletes one port. Surviving ports keep
// their names.
func (m *nodeManager) removePort(id string, dir graph.Direction, port string) error {
	module, ok := m.store.ModuleOf(id)
	if !ok {
		return fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	mod, _ := m.store.Module(module)
	conns, err := mod.PortConns(id, dir, port)
	if err != nil {
		return err
	}
	for _, c := range conns {
		m.conns.remove(module, c)
	}
	if err := mod.DeletePort(id, dir, port); err != nil {
		return err
	}
	if module == m.sess.Module {
		m.relayout(id, func(*scene.Element) {
			if p := m.portElement(id, dir, port); p != nil {
				if m.sess.Active == p {
					m.sess.resetGesture()
				}
				p.Remove()
			}
		})
	}
	return nil
}

// relayout applies change to the node's element, then recomputes its
// geometry and every connection touching it.
func (m *nodeManager) relayout(id string, change func(*scene.Element)) {
	el := m.nodeElement(id)
	if el == nil {
		return
	}
	change(el)
	n, ok := m.module().Node(id)
	if !ok {
		return
	}
	m.layoutNode(el, n)
	m.conns.refresh(id)
}

// move sets a node's position.
func (m *nodeManager) move(id string, x, y float64) error {
	if !finite(x) || !finite(y) {
		return fmt.Errorf("%w: position must be finite", graph.ErrInvalidOperation)
	}
	module, ok := m.store.ModuleOf(id)
	if !ok {
		return fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	mod, _ := m.store.Module(module)
	n, _ := mod.Node(id)
	n.PosX, n.PosY = x, y
	if module == m.sess.Module {
		m.relayout(id, func(*scene.Element) {})
	}
	return nil
}

// dragBy shifts a node by a canvas-space delta during a drag.
func (m *nodeManager) dragBy(el *scene.Element, dx, dy float64) {
	n, ok := m.module().Node(el.Ref.NodeID)
	if !ok {
		return
	}
	n.PosX += dx
	n.PosY += dy
	m.layoutNode(el, n)
	m.conns.refresh(n.ID)
}

// setData replaces a node's custom data. It reports whether the node has
// rendered content in the active module, which then needs a rebuild.
func (m *nodeManager) setData(id string, data map[string]interface{}) (bool, error) {
	module, ok := m.store.ModuleOf(id)
	if !ok {
		return false, fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	mod, _ := m.store.Module(module)
	n, _ := mod.Node(id)
	n.Data = graph.CloneData(data)
	if n.Data == nil {
		n.Data = map[string]interface{}{}
	}
	return module == m.sess.Module && n.HTML != "", nil
}

// input applies an edit made in a bound field and writes it back into the
// node's data.
func (m *nodeManager) input(field *scene.Element, value string) (string, error) {
	nodeEl := field.Closest(scene.ClassNode)
	if nodeEl == nil {
		return "", fmt.Errorf("element %s is not inside a node: %w", field.Key, graph.ErrNotFound)
	}
	id := nodeEl.Ref.NodeID
	n, ok := m.module().Node(id)
	if !ok {
		return "", fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	field.Value = value
	if field.ContentEditable {
		field.RemoveChildren()
		field.Text = value
	}
	var binds []binding.Binding
	if mt, ok := m.mounts[id]; ok {
		binds = mt.binds
	}
	if len(binding.WriteBack(binds, field, n.Data)) > 0 {
		m.bus.Dispatch(event.NodeDataChanged, id)
	}
	return id, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
