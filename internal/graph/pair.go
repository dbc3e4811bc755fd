package graph

import "fmt"

// Conn identifies a connection by both of its endpoints.
type Conn struct {
	OutputID   string `json:"output_id"`
	OutputPort string `json:"output_class"`
	InputID    string `json:"input_id"`
	InputPort  string `json:"input_class"`
}

func (c Conn) String() string {
	return fmt.Sprintf("%s.%s->%s.%s", c.OutputID, c.OutputPort, c.InputID, c.InputPort)
}

// Every connection is stored twice: once on the source's output port and once
// on the target's input port. The functions below are the only ones that
// write connection records, so the pairing can only break here.

// Link appends both records of c. Both endpoints must be nodes of m, the
// ports must exist, the nodes must differ and the pair must be new.
func (m *Module) Link(c Conn) error {
	src, ok := m.nodes[c.OutputID]
	if !ok {
		return fmt.Errorf("node %s: %w", c.OutputID, ErrNotFound)
	}
	dst, ok := m.nodes[c.InputID]
	if !ok {
		return fmt.Errorf("node %s: %w", c.InputID, ErrNotFound)
	}
	if c.OutputID == c.InputID {
		return fmt.Errorf("%w: node %s cannot connect to itself", ErrInvalidOperation, c.OutputID)
	}
	out, ok := src.Outputs[c.OutputPort]
	if !ok || out == nil {
		return fmt.Errorf("node %s port %s: %w", c.OutputID, c.OutputPort, ErrNotFound)
	}
	in, ok := dst.Inputs[c.InputPort]
	if !ok || in == nil {
		return fmt.Errorf("node %s port %s: %w", c.InputID, c.InputPort, ErrNotFound)
	}
	if outIndex(out, c) >= 0 || inIndex(in, c) >= 0 {
		return fmt.Errorf("%w: connection %s already exists", ErrInvalidOperation, c)
	}
	out.Connections = append(out.Connections, OutLink{Node: c.InputID, Input: c.InputPort})
	in.Connections = append(in.Connections, InLink{Node: c.OutputID, Output: c.OutputPort})
	return nil
}

// Unlink removes both records of c. A side that is already missing is
// skipped; it reports whether anything was removed.
func (m *Module) Unlink(c Conn) bool {
	removed := false
	if src, ok := m.nodes[c.OutputID]; ok {
		if out, ok := src.Outputs[c.OutputPort]; ok && out != nil {
			if i := outIndex(out, c); i >= 0 {
				out.Connections = append(out.Connections[:i], out.Connections[i+1:]...)
				removed = true
			}
		}
	}
	if dst, ok := m.nodes[c.InputID]; ok {
		if in, ok := dst.Inputs[c.InputPort]; ok && in != nil {
			if i := inIndex(in, c); i >= 0 {
				in.Connections = append(in.Connections[:i], in.Connections[i+1:]...)
				removed = true
			}
		}
	}
	return removed
}

// HasLink reports whether the output-side record of c exists.
func (m *Module) HasLink(c Conn) bool {
	_, ok := m.outLink(c)
	return ok
}

// ConnsOf lists every connection touching id: outgoing first, in port order,
// then incoming.
func (m *Module) ConnsOf(id string) []Conn {
	n, ok := m.nodes[id]
	if !ok {
		return nil
	}
	var out []Conn
	for _, p := range n.OutputNames() {
		for _, l := range n.Outputs[p].links() {
			out = append(out, Conn{OutputID: id, OutputPort: p, InputID: l.Node, InputPort: l.Input})
		}
	}
	for _, p := range n.InputNames() {
		for _, l := range n.Inputs[p].links() {
			out = append(out, Conn{OutputID: l.Node, OutputPort: l.Output, InputID: id, InputPort: p})
		}
	}
	return out
}

// PortConns lists the connections attached to one port of id.
func (m *Module) PortConns(id string, dir Direction, port string) ([]Conn, error) {
	n, ok := m.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node %s: %w", id, ErrNotFound)
	}
	var out []Conn
	switch dir {
	case Input:
		p, ok := n.Inputs[port]
		if !ok {
			return nil, fmt.Errorf("node %s port %s: %w", id, port, ErrNotFound)
		}
		for _, l := range p.links() {
			out = append(out, Conn{OutputID: l.Node, OutputPort: l.Output, InputID: id, InputPort: port})
		}
	case Output:
		p, ok := n.Outputs[port]
		if !ok {
			return nil, fmt.Errorf("node %s port %s: %w", id, port, ErrNotFound)
		}
		for _, l := range p.links() {
			out = append(out, Conn{OutputID: id, OutputPort: port, InputID: l.Node, InputPort: l.Input})
		}
	default:
		return nil, fmt.Errorf("%w: unknown port direction %q", ErrInvalidOperation, dir)
	}
	return out, nil
}

// Points returns a copy of the reroute points of c.
func (m *Module) Points(c Conn) ([]Point, error) {
	l, ok := m.outLink(c)
	if !ok {
		return nil, fmt.Errorf("connection %s: %w", c, ErrNotFound)
	}
	out := make([]Point, len(l.Points))
	copy(out, l.Points)
	return out, nil
}

// InsertPoint inserts p at index i of c's point list; i is clamped to
// [0, len].
func (m *Module) InsertPoint(c Conn, i int, p Point) error {
	l, ok := m.outLink(c)
	if !ok {
		return fmt.Errorf("connection %s: %w", c, ErrNotFound)
	}
	if i < 0 {
		i = 0
	}
	if i > len(l.Points) {
		i = len(l.Points)
	}
	l.Points = append(l.Points, Point{})
	copy(l.Points[i+1:], l.Points[i:])
	l.Points[i] = p
	return nil
}

// RemovePoint deletes the point at index i of c.
func (m *Module) RemovePoint(c Conn, i int) error {
	l, ok := m.outLink(c)
	if !ok {
		return fmt.Errorf("connection %s: %w", c, ErrNotFound)
	}
	if i < 0 || i >= len(l.Points) {
		return fmt.Errorf("connection %s point %d: %w", c, i, ErrNotFound)
	}
	l.Points = append(l.Points[:i], l.Points[i+1:]...)
	return nil
}

// MovePoint replaces the point at index i of c.
func (m *Module) MovePoint(c Conn, i int, p Point) error {
	l, ok := m.outLink(c)
	if !ok {
		return fmt.Errorf("connection %s: %w", c, ErrNotFound)
	}
	if i < 0 || i >= len(l.Points) {
		return fmt.Errorf("connection %s point %d: %w", c, i, ErrNotFound)
	}
	l.Points[i] = p
	return nil
}

func (m *Module) outLink(c Conn) (*OutLink, bool) {
	src, ok := m.nodes[c.OutputID]
	if !ok {
		return nil, false
	}
	out, ok := src.Outputs[c.OutputPort]
	if !ok {
		return nil, false
	}
	i := outIndex(out, c)
	if i < 0 {
		return nil, false
	}
	return &out.Connections[i], true
}

func outIndex(p *OutputPort, c Conn) int {
	for i, l := range p.links() {
		if l.Node == c.InputID && l.Input == c.InputPort {
			return i
		}
	}
	return -1
}

func inIndex(p *InputPort, c Conn) int {
	for i, l := range p.links() {
		if l.Node == c.OutputID && l.Output == c.OutputPort {
			return i
		}
	}
	return -1
}
