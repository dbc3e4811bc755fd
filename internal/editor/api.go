package editor

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gyaneshwarpardhi/flowcanvas/internal/event"
	"github.com/gyaneshwarpardhi/flowcanvas/internal/graph"
)

// Programmatic surface. Structural edits need edit mode; reads, module
// switching, zoom and import/export work in every mode.

// AddNode creates a node in the shown module and returns its id.
func (e *Editor) AddNode(spec NodeSpec) (string, error) {
	if err := e.editable(); err != nil {
		return "", err
	}
	return e.nodes.create(spec)
}

// RemoveNode deletes a node and every connection touching it.
func (e *Editor) RemoveNode(id string) error {
	if err := e.editable(); err != nil {
		return err
	}
	return e.nodes.remove(id)
}

// MoveNode places a node at x,y and emits nodeMoved.
func (e *Editor) MoveNode(id string, x, y float64) error {
	if err := e.editable(); err != nil {
		return err
	}
	if err := e.nodes.move(id, x, y); err != nil {
		return err
	}
	e.emit(event.NodeMoved, id)
	return nil
}

// UpdateData replaces a node's custom data. A shown node with content is
// refreshed by rebuilding the scene.
func (e *Editor) UpdateData(id string, data map[string]interface{}) error {
	if err := e.editable(); err != nil {
		return err
	}
	rebuild, err := e.nodes.setData(id, data)
	if err != nil {
		return err
	}
	if rebuild {
		e.render()
	}
	return nil
}

// Input applies a value typed into the field with scene key key.
func (e *Editor) Input(key, value string) error {
	if err := e.editable(); err != nil {
		return err
	}
	el := e.env.sc.Lookup(key)
	if el == nil {
		return fmt.Errorf("element %s: %w", key, graph.ErrNotFound)
	}
	_, err := e.nodes.input(el, value)
	return err
}

// AddPort appends an input or output port and returns its name.
func (e *Editor) AddPort(id string, dir graph.Direction) (string, error) {
	if err := e.editable(); err != nil {
		return "", err
	}
	return e.nodes.addPort(id, dir)
}

// RemovePort disconnects and deletes a port.
func (e *Editor) RemovePort(id string, dir graph.Direction, port string) error {
	if err := e.editable(); err != nil {
		return err
	}
	return e.nodes.removePort(id, dir, port)
}

// AddConnection links two nodes of the same module. It reports false,
// with nothing changed and no event, when the link is not allowed.
func (e *Editor) AddConnection(c graph.Conn) bool {
	if err := e.editable(); err != nil {
		return false
	}
	if err := e.conns.add(c); err != nil {
		e.env.log.Debug("connection rejected", "conn", c.String(), "err", err)
		return false
	}
	return true
}

// RemoveConnection unlinks c in whichever module holds its source.
func (e *Editor) RemoveConnection(c graph.Conn) error {
	if err := e.editable(); err != nil {
		return err
	}
	module, ok := e.env.store.ModuleOf(c.OutputID)
	if !ok {
		if module, ok = e.env.store.ModuleOf(c.InputID); !ok {
			return fmt.Errorf("connection %s: %w", c, graph.ErrNotFound)
		}
	}
	if !e.conns.remove(module, c) {
		return fmt.Errorf("connection %s: %w", c, graph.ErrNotFound)
	}
	return nil
}

// RemoveNodeConnections removes every connection touching id.
func (e *Editor) RemoveNodeConnections(id string) error {
	if err := e.editable(); err != nil {
		return err
	}
	module, ok := e.env.store.ModuleOf(id)
	if !ok {
		return fmt.Errorf("node %s: %w", id, graph.ErrNotFound)
	}
	e.conns.removeAll(module, id)
	return nil
}

// AddReroutePoint inserts a point into a connection of the shown module at
// index i; a negative i appends. With reroute disabled it does nothing and
// reports false.
func (e *Editor) AddReroutePoint(c graph.Conn, i int, p graph.Point) (bool, error) {
	if err := e.editable(); err != nil {
		return false, err
	}
	if !e.opts.Reroute {
		return false, nil
	}
	if _, err := e.conns.insertPoint(c, i, p); err != nil {
		return false, err
	}
	return true, nil
}

// RemoveReroutePoint deletes point i of a connection in the shown module.
func (e *Editor) RemoveReroutePoint(c graph.Conn, i int) error {
	if err := e.editable(); err != nil {
		return err
	}
	return e.conns.deletePoint(c, i)
}

// ---- queries ----

// GetNode returns a copy of node id from any module.
func (e *Editor) GetNode(id string) (*graph.Node, error) {
	return e.env.store.GetNode(id)
}

// FindNodesByName returns the ids of nodes called name.
func (e *Editor) FindNodesByName(name string) []string {
	return e.env.store.FindNodesByName(name)
}

// ModuleOf returns the module holding id.
func (e *Editor) ModuleOf(id string) (string, bool) {
	return e.env.store.ModuleOf(id)
}

// ListModules returns module names.
func (e *Editor) ListModules() []string {
	return e.env.store.ListModules()
}

// CountNodes counts nodes of module, or all nodes for "".
func (e *Editor) CountNodes(module string) (int, error) {
	return e.env.store.CountNodes(module)
}

// Stats summarizes every module.
func (e *Editor) Stats() []graph.Stats {
	return e.env.store.Stats()
}

// ---- import / export ----

// Export returns a deep copy of the whole graph and emits export.
func (e *Editor) Export() *graph.Store {
	out := e.env.store.Clone()
	e.emit(event.Export, e.env.store.Clone())
	return out
}

// ExportJSON is Export in the serialized format.
func (e *Editor) ExportJSON() ([]byte, error) {
	return json.Marshal(e.Export())
}

// Import replaces the whole graph with the serialized data. Invalid data
// is rejected before anything changes. notify controls the import event.
func (e *Editor) Import(data []byte, notify bool) error {
	s, err := graph.Decode(data)
	if err != nil {
		e.env.log.Warn("import rejected", "err", err)
		return err
	}
	e.load(s, notify)
	return nil
}

// ImportStore is Import for an already decoded graph, which is copied.
func (e *Editor) ImportStore(s *graph.Store, notify bool) error {
	if s == nil {
		return fmt.Errorf("%w: nil graph", graph.ErrMalformedImport)
	}
	if err := graph.Validate(s); err != nil {
		if !errors.Is(err, graph.ErrMalformedImport) {
			err = fmt.Errorf("%w: %v", graph.ErrMalformedImport, err)
		}
		e.env.log.Warn("import rejected", "err", err)
		return err
	}
	e.load(s.Clone(), notify)
	return nil
}

func (e *Editor) load(s *graph.Store, notify bool) {
	e.env.store.Replace(s)
	if !e.env.store.HasModule(e.env.sess.Module) {
		e.env.sess.Module = graph.HomeModule
	}
	if !e.opts.UseUUID {
		e.syncCounter()
	}
	e.render()
	if notify {
		e.emit(event.Import, "import")
	}
}
